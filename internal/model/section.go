package model

import (
	"strings"
	"time"
)

// MaxSectionLevel is the deepest nesting a section may declare.
const MaxSectionLevel = 5

// Section is one titled, paginated unit of a standard's text.
type Section struct {
	ID              string    `json:"_id" yaml:"id,omitempty"`
	StandardID      string    `json:"standardId" yaml:"standard_id,omitempty"`
	Title           string    `json:"title" yaml:"title"`
	Content         string    `json:"content" yaml:"content"`
	SectionNumber   string    `json:"sectionNumber,omitempty" yaml:"section_number,omitempty"`
	PageNumber      *int      `json:"pageNumber,omitempty" yaml:"page_number,omitempty"`
	ChapterNumber   *int      `json:"chapterNumber,omitempty" yaml:"chapter_number,omitempty"`
	Level           int       `json:"level" yaml:"level"`
	ParentSectionID string    `json:"parentSectionId,omitempty" yaml:"parent_section_id,omitempty"`
	Keywords        []string  `json:"keywords" yaml:"keywords"`
	CreatedAt       time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt       time.Time `json:"updatedAt" yaml:"-"`
}

// Normalize lowercases and trims keywords, dropping empties.
func (s *Section) Normalize() {
	kw := make([]string, 0, len(s.Keywords))
	for _, k := range s.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			kw = append(kw, k)
		}
	}
	s.Keywords = kw
}

// Validate checks required fields and the level range.
func (s *Section) Validate() error {
	if strings.TrimSpace(s.StandardID) == "" {
		return invalid("standardId is required")
	}
	if strings.TrimSpace(s.Title) == "" {
		return invalid("title is required")
	}
	if strings.TrimSpace(s.Content) == "" {
		return invalid("content is required")
	}
	if s.Level < 1 || s.Level > MaxSectionLevel {
		return invalid("level must be between 1 and 5")
	}
	return nil
}

// SectionFilter narrows a section listing. Zero values match everything.
type SectionFilter struct {
	StandardID string
	Level      int
	Search     string
}
