// Package insights aggregates comparison records into dashboard totals.
package insights

import (
	"sort"

	"github.com/dgallion1/pmguide/internal/model"
)

// Category totals one comparison category.
type Category struct {
	Name         string   `json:"name"`
	Topics       []string `json:"topics"`
	Similarities int      `json:"similarities"`
	Differences  int      `json:"differences"`
	UniquePoints int      `json:"uniquePoints"`
}

// Coverage is how many topics cite one standard.
type Coverage struct {
	StandardName model.StandardName `json:"standardName"`
	Topics       int                `json:"topics"`
	Percent      float64            `json:"percent"`
}

// Summary is the full dashboard.
type Summary struct {
	TotalTopics       int        `json:"totalTopics"`
	TotalSimilarities int        `json:"totalSimilarities"`
	TotalDifferences  int        `json:"totalDifferences"`
	TotalUniquePoints int        `json:"totalUniquePoints"`
	Categories        []Category `json:"categories"`
	Coverage          []Coverage `json:"coverage"`
}

// Summarize totals comparisons. Categories are sorted by name and topics
// within a category keep input order. Coverage lists every known standard
// in display order, counting a topic once per point that cites it.
func Summarize(comparisons []model.Comparison) Summary {
	s := Summary{
		TotalTopics: len(comparisons),
		Categories:  []Category{},
	}

	byCategory := make(map[string]*Category)
	counts := make(map[model.StandardName]int)
	for _, c := range comparisons {
		unique := 0
		for _, u := range c.UniquePoints {
			unique += len(u.Points)
		}
		s.TotalSimilarities += len(c.Similarities)
		s.TotalDifferences += len(c.Differences)
		s.TotalUniquePoints += unique

		cat, ok := byCategory[c.Category]
		if !ok {
			cat = &Category{Name: c.Category}
			byCategory[c.Category] = cat
		}
		cat.Topics = append(cat.Topics, c.Topic)
		cat.Similarities += len(c.Similarities)
		cat.Differences += len(c.Differences)
		cat.UniquePoints += unique

		for _, p := range c.Standards {
			counts[p.StandardName]++
		}
	}

	for _, cat := range byCategory {
		s.Categories = append(s.Categories, *cat)
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		return s.Categories[i].Name < s.Categories[j].Name
	})

	s.Coverage = make([]Coverage, 0, len(model.StandardNames))
	for _, name := range model.StandardNames {
		cov := Coverage{StandardName: name, Topics: counts[name]}
		if s.TotalTopics > 0 {
			cov.Percent = float64(cov.Topics) / float64(s.TotalTopics) * 100
		}
		s.Coverage = append(s.Coverage, cov)
	}
	return s
}
