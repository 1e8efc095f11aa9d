// Package formatter classifies the lines of a stored section body into
// render-ready blocks.
//
// Each trimmed line is matched against an ordered list of rules and the
// first rule that accepts it decides the block kind. A line can satisfy
// several rules (a short all-caps line is both a heading and a label), so
// the order below must not change.
package formatter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the presentation category of a Block.
type Kind string

const (
	KindBlank     Kind = "blank"
	KindTocEntry  Kind = "toc_entry"
	KindBullet    Kind = "bullet"
	KindHeading   Kind = "heading"
	KindCallout   Kind = "callout"
	KindLabel     Kind = "short_label"
	KindParagraph Kind = "paragraph"
)

// Block is one classified line.
//
// TocEntry blocks carry Label and Target; Heading blocks carry Level (1 or
// 2); every other non-blank kind carries Text.
type Block struct {
	Kind   Kind   `json:"kind"`
	Text   string `json:"text,omitempty"`
	Label  string `json:"label,omitempty"`
	Target string `json:"target,omitempty"`
	Level  int    `json:"level,omitempty"`
}

// Maximum length (exclusive) of a line treated as a short label.
const maxLabelLen = 80

// spaceClass is the whitespace the rules accept. Unlike \s it includes
// Unicode space separators and the byte order mark, which PDF text carries.
const spaceClass = `\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{feff}`

var (
	dotLeaderRe    = regexp.MustCompile(`\.{3,}`)
	dotSplitRe     = regexp.MustCompile(`[.…]+`)
	capsRunRe      = regexp.MustCompile(`^[A-Z` + spaceClass + `]{10,}$`)
	capsLineRe     = regexp.MustCompile(`^[A-Z][A-Z` + spaceClass + `]+$`)
	subHeadingRe   = regexp.MustCompile(`(?i)^(Chapter|Section|Part|Appendix|Table|Figure)[` + spaceClass + `]+\d+`)
	calloutRe      = regexp.MustCompile(`(?i)^(Definition|Note|Key|Important|Example):`)
	labelRe        = regexp.MustCompile(`^[A-Z][^.!?]*$`)
	bulletPrefixes = []string{"•", "●"}
)

// Format splits text on newlines and classifies every line. The result has
// exactly one block per input line, in input order.
func Format(text string) []Block {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, Classify(line))
	}
	return blocks
}

// Classify turns a single line into a Block.
func Classify(line string) Block {
	trimmed := strings.TrimFunc(line, isSpace)

	if trimmed == "" {
		return Block{Kind: KindBlank}
	}

	if isDotLeader(trimmed) {
		if parts := splitLeader(trimmed); len(parts) >= 2 {
			return Block{Kind: KindTocEntry, Label: parts[0], Target: parts[len(parts)-1]}
		}
	}

	for _, p := range bulletPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return Block{Kind: KindBullet, Text: strings.TrimFunc(strings.TrimPrefix(trimmed, p), isSpace)}
		}
	}

	if capsRunRe.MatchString(trimmed) || capsLineRe.MatchString(trimmed) {
		return Block{Kind: KindHeading, Text: trimmed, Level: 1}
	}

	if subHeadingRe.MatchString(trimmed) {
		return Block{Kind: KindHeading, Text: trimmed, Level: 2}
	}

	if calloutRe.MatchString(trimmed) {
		return Block{Kind: KindCallout, Text: trimmed}
	}

	if utf8.RuneCountInString(trimmed) < maxLabelLen && labelRe.MatchString(trimmed) && !strings.Contains(trimmed, ",") {
		return Block{Kind: KindLabel, Text: trimmed}
	}

	return Block{Kind: KindParagraph, Text: trimmed}
}

// isSpace matches the same runes as spaceClass.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isDotLeader(s string) bool {
	return strings.Contains(s, "…") || dotLeaderRe.MatchString(s)
}

// splitLeader splits on runs of dots and ellipses, keeping non-empty parts.
func splitLeader(s string) []string {
	raw := dotSplitRe.Split(s, -1)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimFunc(p, isSpace); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Counts tallies blocks by kind.
func Counts(blocks []Block) map[Kind]int {
	counts := make(map[Kind]int)
	for _, b := range blocks {
		counts[b.Kind]++
	}
	return counts
}
