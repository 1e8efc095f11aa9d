package formatter

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML writes blocks as an HTML fragment, one element per block.
func RenderHTML(w io.Writer, blocks []Block) error {
	for i, b := range blocks {
		if err := html.Render(w, blockNode(b)); err != nil {
			return fmt.Errorf("render block %d: %w", i, err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// RenderHTMLString is RenderHTML into a string.
func RenderHTMLString(blocks []Block) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, blocks); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func blockNode(b Block) *html.Node {
	switch b.Kind {
	case KindBlank:
		return element(atom.Div, "spacer")
	case KindTocEntry:
		return element(atom.Div, "toc-entry",
			element(atom.Span, "toc-label", text(b.Label)),
			element(atom.Span, "toc-leader"),
			element(atom.Span, "toc-target", text(b.Target)),
		)
	case KindBullet:
		return element(atom.Div, "bullet",
			element(atom.Span, "bullet-mark", text("•")),
			element(atom.P, "", text(b.Text)),
		)
	case KindHeading:
		if b.Level == 1 {
			return element(atom.H3, "heading", text(b.Text))
		}
		return element(atom.H4, "subheading", text(b.Text))
	case KindCallout:
		return element(atom.Div, "callout", element(atom.P, "", text(b.Text)))
	case KindLabel:
		return element(atom.H5, "label", text(b.Text))
	default:
		return element(atom.P, "paragraph", text(b.Text))
	}
}

func element(a atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
