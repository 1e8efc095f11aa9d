// Package matcher selects the process template that best fits a set of
// project facets.
package matcher

import (
	"slices"

	"github.com/dgallion1/pmguide/internal/model"
)

// Query is the four facet values chosen on the generator form.
type Query = model.Facets

// Kind describes how a Result was obtained.
type Kind int

const (
	NoMatch Kind = iota
	Exact
	Closest
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Closest:
		return "closest"
	default:
		return "none"
	}
}

// Facet names used in Result.MatchedOn.
const (
	FacetType       = "projectType"
	FacetSize       = "projectSize"
	FacetComplexity = "complexity"
	FacetIndustry   = "industry"
)

// Result is the outcome of Match. Template is nil when Kind is NoMatch.
// MatchedOn is owned by the caller.
type Result struct {
	Kind      Kind
	Template  *model.ProcessTemplate
	MatchedOn []string
}

// Found reports whether a template was selected.
func (r Result) Found() bool { return r.Template != nil }

type rule struct {
	facets []string
	match  func(q Query, f model.Facets) bool
}

// Fallback subsets, highest priority first. Project type is always required.
var fallbacks = []rule{
	{
		facets: []string{FacetType, FacetSize, FacetComplexity},
		match: func(q Query, f model.Facets) bool {
			return f.ProjectType == q.ProjectType && f.ProjectSize == q.ProjectSize && f.Complexity == q.Complexity
		},
	},
	{
		facets: []string{FacetType, FacetSize, FacetIndustry},
		match: func(q Query, f model.Facets) bool {
			return f.ProjectType == q.ProjectType && f.ProjectSize == q.ProjectSize && f.Industry == q.Industry
		},
	},
	{
		facets: []string{FacetType, FacetComplexity, FacetIndustry},
		match: func(q Query, f model.Facets) bool {
			return f.ProjectType == q.ProjectType && f.Complexity == q.Complexity && f.Industry == q.Industry
		},
	},
	{
		facets: []string{FacetType},
		match: func(q Query, f model.Facets) bool {
			return f.ProjectType == q.ProjectType
		},
	},
}

var allFacets = []string{FacetType, FacetSize, FacetComplexity, FacetIndustry}

// Match returns the first candidate equal to q on all four facets. Failing
// that, it returns the first candidate that satisfies the highest-priority
// fallback subset with any hit. Candidates are never modified.
func Match(q Query, candidates []model.ProcessTemplate) Result {
	for i := range candidates {
		if candidates[i].Facets == q {
			return Result{Kind: Exact, Template: &candidates[i], MatchedOn: slices.Clone(allFacets)}
		}
	}
	for _, r := range fallbacks {
		for i := range candidates {
			if r.match(q, candidates[i].Facets) {
				return Result{Kind: Closest, Template: &candidates[i], MatchedOn: slices.Clone(r.facets)}
			}
		}
	}
	return Result{Kind: NoMatch}
}
