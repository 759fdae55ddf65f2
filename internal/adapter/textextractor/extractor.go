// Package textextractor turns uploaded resume and job description files into plain text.
package textextractor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	"github.com/fairyhunter13/ai-resume-screener/pkg/textx"
)

// Backend converts a binary document to text.
type Backend interface {
	Extract(ctx context.Context, fileName string, content []byte) (string, error)
}

// SupportedExtensions lists the accepted document types.
var SupportedExtensions = []string{".pdf", ".docx", ".txt"}

// Extractor implements domain.TextExtractor. Plain text is decoded locally,
// PDF and DOCX go to the backend. PDFs are checked with pdfcpu first.
type Extractor struct {
	backend     Backend
	maxPDFPages int
	roots       []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxPDFPages rejects PDFs with more pages. Zero disables the check.
func WithMaxPDFPages(n int) Option {
	return func(e *Extractor) { e.maxPDFPages = n }
}

// WithAllowedRoots restricts ExtractPath to files under the given directories.
func WithAllowedRoots(dirs ...string) Option {
	return func(e *Extractor) { e.roots = dirs }
}

// New builds an extractor. By default paths must live under the temp or working directory.
func New(backend Backend, opts ...Option) *Extractor {
	wd, _ := os.Getwd()
	e := &Extractor{backend: backend, roots: []string{os.TempDir(), wd}}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Supported reports whether fileName has an accepted extension.
func Supported(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ExtractPath reads the file at path and extracts its text. fileName selects the format.
func (e *Extractor) ExtractPath(ctx domain.Context, fileName, path string) (string, error) {
	if !Supported(fileName) {
		return "", fmt.Errorf("op=textextractor.ExtractPath: %w: %s", domain.ErrUnsupportedFormat, fileName)
	}
	openPath, err := e.resolve(path)
	if err != nil {
		return "", fmt.Errorf("op=textextractor.ExtractPath: %w: %v", domain.ErrInvalidArgument, err)
	}
	content, err := os.ReadFile(openPath)
	if err != nil {
		return "", fmt.Errorf("op=textextractor.ExtractPath: %w: %v", domain.ErrExtraction, err)
	}
	return e.Extract(ctx, fileName, content)
}

// Extract extracts text from in-memory content.
func (e *Extractor) Extract(ctx domain.Context, fileName string, content []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".txt":
		if !isText(content) {
			return "", fmt.Errorf("op=textextractor.Extract: %w: %s is not plain text", domain.ErrUnsupportedFormat, fileName)
		}
		text = textx.Clean(string(content))
	case ".pdf":
		if err := e.checkPDF(content); err != nil {
			return "", fmt.Errorf("op=textextractor.Extract: %s: %w", fileName, err)
		}
		text, err = e.backend.Extract(ctx, fileName, content)
	case ".docx":
		text, err = e.backend.Extract(ctx, fileName, content)
	default:
		return "", fmt.Errorf("op=textextractor.Extract: %w: %s", domain.ErrUnsupportedFormat, fileName)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("op=textextractor.Extract: %w: %s contains no text", domain.ErrExtraction, fileName)
	}
	return text, nil
}

func (e *Extractor) checkPDF(content []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pages, err := api.PageCount(bytes.NewReader(content), conf)
	if err != nil {
		return fmt.Errorf("%w: invalid pdf: %v", domain.ErrExtraction, err)
	}
	if e.maxPDFPages > 0 && pages > e.maxPDFPages {
		return fmt.Errorf("%w: pdf has %d pages, limit is %d", domain.ErrInvalidArgument, pages, e.maxPDFPages)
	}
	return nil
}

// isText reports whether the sniffed type is text/plain or one of its descendants.
func isText(content []byte) bool {
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// resolve constrains path to the allowed roots.
func (e *Extractor) resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	for _, root := range e.roots {
		if root == "" {
			continue
		}
		base, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		base = filepath.Clean(base)
		if rel, err := filepath.Rel(base, abs); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.Join(base, rel), nil
		}
	}
	return "", fmt.Errorf("disallowed path: %s", abs)
}
