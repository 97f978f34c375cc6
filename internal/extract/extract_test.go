package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want Format
		err  bool
	}{
		{path: "resume.pdf", want: FormatPDF},
		{path: "Resume.PDF", want: FormatPDF},
		{path: "candidates/jane doe.docx", want: FormatDOCX},
		{path: "notes.txt", want: FormatTXT},
		{path: "archive.zip", err: true},
		{path: "README", err: true},
		{path: "resume.pdf.bak", err: true},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()

			got, err := DetectFormat(tc.path)
			if tc.err {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("format = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractTXT(t *testing.T) {
	t.Parallel()

	service := NewService(nil)

	doc, err := service.Extract([]byte("  Senior Go developer.\r\nTen years of experience.\r"), FormatTXT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Senior Go developer.\nTen years of experience."
	if doc.Text != want {
		t.Fatalf("text = %q, want %q", doc.Text, want)
	}
	if doc.Format != FormatTXT {
		t.Fatalf("format = %q, want %q", doc.Format, FormatTXT)
	}
	if doc.Pages != 0 {
		t.Fatalf("pages = %d, want 0", doc.Pages)
	}
}

func TestExtractFileTXT(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("Go developer with Kubernetes background."), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := NewService(nil).ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "Go developer with Kubernetes background." {
		t.Fatalf("text = %q", doc.Text)
	}
}

func TestExtractFileUnsupported(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil).ExtractFile("resume.odt")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractRejectsCorruptPDF(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil).Extract([]byte("this is not a pdf"), FormatPDF)
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
}

func TestExtractRejectsCorruptDOCX(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil).Extract([]byte("this is not a zip archive"), FormatDOCX)
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
}

func TestCollectDocxText(t *testing.T) {
	t.Parallel()

	content := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r><w:r><w:t xml:space="preserve"> Resume</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Skills:</w:t></w:r><w:r><w:tab/><w:t>Go</w:t></w:r><w:r><w:br/><w:t>Kubernetes</w:t></w:r></w:p>` +
		`</w:body>` +
		`</w:document>`

	got, err := collectDocxText(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Jane Doe Resume\nSkills:\tGo\nKubernetes\n"
	if got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	got := sanitizeText("line one\r\nline two\rline three\n\xff ")
	want := "line one\nline two\nline three"
	if got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}
