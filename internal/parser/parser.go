package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pmguide/internal/doctree"
)

// Parser converts an uploaded standards document into a heading outline.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// Options tune parser behavior.
type Options struct {
	FallbackPdftotext bool
}

// fileTypes maps importable extensions to the file type stored on a Standard.
var fileTypes = map[string]string{
	".txt":      "txt",
	".md":       "md",
	".markdown": "md",
	".html":     "html",
	".htm":      "html",
	".pdf":      "pdf",
	".docx":     "docx",
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension can be imported.
func IsSupportedExtension(filename string) bool {
	_, ok := fileTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// FileType returns the stored file type for filename, or "" if unsupported.
func FileType(filename string) string {
	return fileTypes[strings.ToLower(filepath.Ext(filename))]
}

func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
