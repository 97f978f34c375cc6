// Package extract turns resume files into plain text for screening. It reads
// PDF, DOCX and TXT files and refuses everything else.
package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
)

// minExtractedLength guards against resumes that are really scans: a PDF or
// DOCX yielding almost no text is image based rather than empty.
const minExtractedLength = 50

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrExtraction        = errors.New("text extraction failed")
)

// Format identifies a supported resume file type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// Document is the extracted content of one resume file. Pages is only known
// for PDFs.
type Document struct {
	Text   string
	Format Format
	Pages  int
}

// DetectFormat maps a file name to its format by extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	switch ext {
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	case "txt":
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Service extracts text from resume files.
type Service struct {
	logger *zap.Logger
}

// NewService returns an extraction service. A nil logger is replaced with a
// no-op one.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{logger: logger}
}

// ExtractFile reads a resume file from disk and extracts its text.
func (s *Service) ExtractFile(path string) (*Document, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := s.Extract(data, format)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	s.logger.Debug("extracted resume file",
		zap.String("path", path),
		zap.String("format", string(doc.Format)),
		zap.Int("pages", doc.Pages),
		zap.Int("characters", len(doc.Text)),
	)

	return doc, nil
}

// Extract converts raw file bytes of a known format into a Document.
func (s *Service) Extract(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatPDF:
		return s.extractPDF(data)
	case FormatDOCX:
		return s.extractDOCX(data)
	case FormatTXT:
		return s.extractTXT(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

func (s *Service) extractPDF(data []byte) (*Document, error) {
	// Validate through pdfcpu before handing the bytes to the text extractor,
	// which is far less tolerant of corrupt input.
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: validating pdf: %v", ErrExtraction, err)
	}

	text, err := pdfPlainText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	text = sanitizeText(text)
	if len(text) < minExtractedLength {
		return nil, fmt.Errorf("%w: only %d characters of text in a %d page pdf, the file may be image based", ErrExtraction, len(text), pages)
	}

	return &Document{Text: text, Format: FormatPDF, Pages: pages}, nil
}

// pdfPlainText wraps the pdf library, which panics on some malformed files.
func pdfPlainText(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader panicked: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}

	return buf.String(), nil
}

func (s *Service) extractDOCX(data []byte) (*Document, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: opening docx: %v", ErrExtraction, err)
	}
	defer doc.Close()

	text, err := collectDocxText(doc.Editable().GetContent())
	if err != nil {
		return nil, fmt.Errorf("%w: parsing docx: %v", ErrExtraction, err)
	}

	text = sanitizeText(text)
	if len(text) < minExtractedLength {
		return nil, fmt.Errorf("%w: only %d characters of text in the docx, the file may be image based", ErrExtraction, len(text))
	}

	return &Document{Text: text, Format: FormatDOCX}, nil
}

// collectDocxText pulls the visible text runs out of the document XML,
// keeping paragraph and line breaks.
func collectDocxText(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var (
		sb     strings.Builder
		inText bool
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}

	return sb.String(), nil
}

func (s *Service) extractTXT(data []byte) (*Document, error) {
	return &Document{Text: sanitizeText(string(data)), Format: FormatTXT}, nil
}

func sanitizeText(text string) string {
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return strings.TrimSpace(text)
}
