package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadValue(t *testing.T) {
	secret, err := Load(Source{Name: "api key", Value: "  token  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if secret != "token" {
		t.Fatalf("expected trimmed value, got %q", secret)
	}
}

func TestLoadFilePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("from-file\n"), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	secret, err := Load(Source{Name: "api key", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if secret != "from-file" {
		t.Fatalf("expected file content to win, got %q", secret)
	}
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("SECRETS_TEST_KEY", " from-env ")

	secret, err := Load(Source{Name: "api key", Env: "SECRETS_TEST_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if secret != "from-env" {
		t.Fatalf("expected env value, got %q", secret)
	}
}

func TestLoadErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	cases := []struct {
		name string
		src  Source
		want string
	}{
		{
			name: "missing everything",
			src:  Source{Name: "api key"},
			want: "api key is not configured",
		},
		{
			name: "empty file",
			src:  Source{Name: "api key", File: path},
			want: "is empty",
		},
		{
			name: "missing file",
			src:  Source{Name: "api key", File: filepath.Join(t.TempDir(), "absent")},
			want: "reading api key",
		},
		{
			name: "unset env",
			src:  Source{Name: "api key", Env: "SECRETS_TEST_UNSET"},
			want: "SECRETS_TEST_UNSET",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.src)
			if err == nil {
				t.Fatalf("expected error")
			}

			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error to mention %q, got %v", tc.want, err)
			}
		})
	}
}
