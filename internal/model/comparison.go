package model

import (
	"strings"
	"time"
)

// ComparisonPoint is one standard's take on a compared topic.
type ComparisonPoint struct {
	StandardName StandardName `json:"standardName" yaml:"standard_name"`
	SectionID    string       `json:"sectionId" yaml:"section_id"`
	SectionTitle string       `json:"sectionTitle" yaml:"section_title"`
	Excerpt      string       `json:"excerpt" yaml:"excerpt"`
	PageNumber   *int         `json:"pageNumber,omitempty" yaml:"page_number,omitempty"`
}

// UniquePoints lists what only one standard says about a topic.
type UniquePoints struct {
	StandardName StandardName `json:"standardName" yaml:"standard_name"`
	Points       []string     `json:"points" yaml:"points"`
}

// Comparison contrasts how several standards treat one topic.
type Comparison struct {
	ID           string            `json:"_id" yaml:"id,omitempty"`
	Topic        string            `json:"topic" yaml:"topic"`
	Category     string            `json:"category" yaml:"category"`
	Description  string            `json:"description" yaml:"description"`
	Standards    []ComparisonPoint `json:"standards" yaml:"standards"`
	Similarities []string          `json:"similarities" yaml:"similarities"`
	Differences  []string          `json:"differences" yaml:"differences"`
	UniquePoints []UniquePoints    `json:"uniquePoints" yaml:"unique_points"`
	CreatedAt    time.Time         `json:"createdAt" yaml:"-"`
	UpdatedAt    time.Time         `json:"updatedAt" yaml:"-"`
}

// Validate checks required fields and the standard names of each point.
func (c *Comparison) Validate() error {
	if strings.TrimSpace(c.Topic) == "" {
		return invalid("topic is required")
	}
	if strings.TrimSpace(c.Category) == "" {
		return invalid("category is required")
	}
	for i, p := range c.Standards {
		if !p.StandardName.Valid() {
			return invalidf("standards[%d].standardName is not a known standard", i)
		}
		if p.SectionID == "" || p.SectionTitle == "" || p.Excerpt == "" {
			return invalidf("standards[%d] requires sectionId, sectionTitle and excerpt", i)
		}
	}
	for i, u := range c.UniquePoints {
		if strings.TrimSpace(string(u.StandardName)) == "" {
			return invalidf("uniquePoints[%d].standardName is required", i)
		}
	}
	return nil
}
