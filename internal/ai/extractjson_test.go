package ai

import "testing"

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain json untouched",
			in:   `{"decision": "Shortlisted"}`,
			want: `{"decision": "Shortlisted"}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"decision\": \"Shortlisted\"}\n```",
			want: `{"decision": "Shortlisted"}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"ok\": true}\n```",
			want: `{"ok": true}`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n {\"ok\": true} \n ",
			want: `{"ok": true}`,
		},
		{
			name: "stray backticks",
			in:   "`{\"ok\": true}`",
			want: `{"ok": true}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ExtractJSON(tc.in); got != tc.want {
				t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
