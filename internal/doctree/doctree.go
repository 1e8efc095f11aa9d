// Package doctree holds the heading outline that every import parser
// produces and the sectionizer consumes.
package doctree

import "strings"

// DocTree is the root of a parsed standards document.
type DocTree struct {
	Title    string     // From metadata or the file name
	Pages    int        // Page count for paginated formats, else 0
	Children []*DocNode // Top-level headings
}

// DocNode is one heading with the body text that follows it.
type DocNode struct {
	Title    string // Empty for a body that precedes any heading
	Text     string
	Page     int // First page the heading appears on (0 if N/A)
	Children []*DocNode
}

// Walk visits every node depth first. depth is 1 for top-level nodes and
// parent is nil for them.
func (t *DocTree) Walk(fn func(n, parent *DocNode, depth int)) {
	var visit func(nodes []*DocNode, parent *DocNode, depth int)
	visit = func(nodes []*DocNode, parent *DocNode, depth int) {
		for _, n := range nodes {
			fn(n, parent, depth)
			visit(n.Children, n, depth+1)
		}
	}
	visit(t.Children, nil, 1)
}

// Builder assembles a DocTree from a flat stream of headings and text,
// nesting each heading under the closest preceding heading of a lower
// level.
type Builder struct {
	tree  *DocTree
	root  *DocNode
	stack []entry
	text  strings.Builder
	page  int
}

type entry struct {
	node  *DocNode
	level int
}

// NewBuilder starts an outline with the given title.
func NewBuilder(title string) *Builder {
	root := &DocNode{Title: title}
	return &Builder{
		tree:  &DocTree{Title: title},
		root:  root,
		stack: []entry{{node: root, level: 0}},
	}
}

// SetPage records the page subsequent headings start on.
func (b *Builder) SetPage(page int) {
	b.page = page
	if page > b.tree.Pages {
		b.tree.Pages = page
	}
}

// Heading opens a new node at level (1 = top).
func (b *Builder) Heading(level int, title string) {
	b.flush()
	if level < 1 {
		level = 1
	}
	n := &DocNode{Title: strings.TrimSpace(title), Page: b.page}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, n)
	b.stack = append(b.stack, entry{node: n, level: level})
}

// Paragraph appends a paragraph to the current node's body.
func (b *Builder) Paragraph(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(text)
}

func (b *Builder) flush() {
	t := b.text.String()
	b.text.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
	if top == b.root && top.Page == 0 {
		top.Page = b.page
	}
}

// Tree finishes the outline. Text that appeared before the first heading
// becomes an untitled leading node.
func (b *Builder) Tree() *DocTree {
	b.flush()
	b.tree.Children = b.root.Children
	if b.root.Text != "" {
		lead := &DocNode{Text: b.root.Text, Page: b.root.Page}
		b.tree.Children = append([]*DocNode{lead}, b.tree.Children...)
	}
	return b.tree
}
