package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/pmguide/internal/doctree"
	"github.com/dgallion1/pmguide/internal/formatter"
)

// TextParser handles plain text files. Headings are recognized with the
// same line rules the formatter uses for display.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := doctree.NewBuilder(baseTitle(filename))
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	outlineLines(b, lines)
	return b.Tree(), nil
}

// outlineLines feeds lines into b. Level-1 and level-2 heading lines open
// nodes, table-of-contents rows are dropped, and blank lines separate
// paragraphs. Lines inside a paragraph keep their breaks so the formatter
// can still classify them later.
func outlineLines(b *doctree.Builder, lines []string) {
	var para strings.Builder
	flush := func() {
		if para.Len() > 0 {
			b.Paragraph(para.String())
			para.Reset()
		}
	}

	for _, line := range lines {
		block := formatter.Classify(line)
		switch block.Kind {
		case formatter.KindBlank:
			flush()
		case formatter.KindTocEntry:
		case formatter.KindHeading:
			flush()
			b.Heading(block.Level, block.Text)
		default:
			if para.Len() > 0 {
				para.WriteString("\n")
			}
			para.WriteString(strings.TrimSpace(line))
		}
	}
	flush()
}
