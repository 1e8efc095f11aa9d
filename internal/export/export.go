// Package export renders a process template as a downloadable document.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/pmguide/internal/model"
)

// Format selects the document type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts json, markdown (or md) and html. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown export format %q: %w", s, model.ErrInvalidInput)
}

// Document is a rendered export.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

var whitespaceRe = regexp.MustCompile(`\s+`)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Filename replaces whitespace runs in the template name with "_" and
// appends the format's extension.
func Filename(name string, f Format) string {
	base := whitespaceRe.ReplaceAllString(name, "_")
	switch f {
	case FormatMarkdown:
		return base + ".md"
	case FormatHTML:
		return base + ".html"
	default:
		return base + ".json"
	}
}

// Export renders t in format f.
func Export(t *model.ProcessTemplate, f Format) (*Document, error) {
	doc := &Document{Filename: Filename(t.Name, f)}
	switch f {
	case FormatJSON:
		body, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding template: %w", err)
		}
		doc.ContentType = "application/json"
		doc.Body = body
	case FormatMarkdown:
		doc.ContentType = "text/markdown; charset=utf-8"
		doc.Body = []byte(Markdown(t))
	case FormatHTML:
		var body bytes.Buffer
		fmt.Fprintf(&body, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", htmlEscape(t.Name))
		if err := md.Convert([]byte(Markdown(t)), &body); err != nil {
			return nil, fmt.Errorf("rendering markdown: %w", err)
		}
		body.WriteString("</body>\n</html>\n")
		doc.ContentType = "text/html; charset=utf-8"
		doc.Body = body.Bytes()
	default:
		return nil, fmt.Errorf("unknown export format %q: %w", f, model.ErrInvalidInput)
	}
	return doc, nil
}

// Markdown lays out a template as a Markdown document.
func Markdown(t *model.ProcessTemplate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Name)
	if t.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", t.Description)
	}

	b.WriteString("| Project type | Size | Complexity | Industry |\n")
	b.WriteString("|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n\n",
		cell(t.ProjectType), cell(t.ProjectSize), cell(t.Complexity), cell(t.Industry))

	if len(t.BasedOnStandards) > 0 {
		names := make([]string, len(t.BasedOnStandards))
		for i, n := range t.BasedOnStandards {
			names[i] = string(n)
		}
		fmt.Fprintf(&b, "Based on: %s\n\n", strings.Join(names, ", "))
	}

	for i, p := range t.Phases {
		fmt.Fprintf(&b, "## Phase %d: %s\n\n", i+1, p.Name)
		if p.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", p.Description)
		}
		for _, a := range p.Activities {
			fmt.Fprintf(&b, "### %s\n\n", a.Name)
			if a.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", a.Description)
			}
			if len(a.Deliverables) > 0 {
				b.WriteString("**Deliverables**\n\n")
				for _, d := range a.Deliverables {
					fmt.Fprintf(&b, "- %s\n", d)
				}
				b.WriteString("\n")
			}
			if len(a.StandardReferences) > 0 {
				b.WriteString("**References**\n\n")
				for _, r := range a.StandardReferences {
					fmt.Fprintf(&b, "- %s: %s\n", r.StandardName, r.SectionTitle)
				}
				b.WriteString("\n")
			}
		}
	}

	if len(t.TailoringGuidance) > 0 {
		b.WriteString("## Tailoring Guidance\n\n")
		for _, g := range t.TailoringGuidance {
			fmt.Fprintf(&b, "- %s\n", g)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func htmlEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}
