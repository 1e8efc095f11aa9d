package sectionizer

import (
	"sort"
	"strings"
	"unicode"
)

// MaxKeywords caps the keywords attached to one section.
const MaxKeywords = 8

const minKeywordLen = 4

var stopWords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "also": true,
	"because": true, "been": true, "before": true, "being": true, "between": true,
	"both": true, "could": true, "does": true, "each": true, "either": true,
	"from": true, "have": true, "having": true, "here": true, "into": true,
	"itself": true, "just": true, "many": true, "more": true, "most": true,
	"much": true, "must": true, "only": true, "other": true, "over": true,
	"same": true, "should": true, "some": true, "such": true, "than": true,
	"that": true, "their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "those": true, "through": true,
	"under": true, "until": true, "upon": true, "very": true, "were": true,
	"what": true, "when": true, "where": true, "which": true, "while": true,
	"will": true, "with": true, "within": true, "would": true, "your": true,
	"shall": true, "whether": true, "used": true, "using": true,
}

// Keywords returns up to max of the most frequent non-stop words in text,
// lowercased. Ties break alphabetically.
func Keywords(text string, max int) []string {
	counts := make(map[string]int)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-'
	})
	for _, w := range words {
		w = strings.Trim(w, "-")
		if len([]rune(w)) < minKeywordLen || stopWords[w] {
			continue
		}
		counts[w]++
	}

	ranked := make([]string, 0, len(counts))
	for w := range counts {
		ranked = append(ranked, w)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}
