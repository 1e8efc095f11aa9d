package model

import (
	"strings"
	"time"
)

// Accepted facet values for size and complexity.
var (
	ProjectSizes     = []string{"Small", "Medium", "Large"}
	ComplexityLevels = []string{"Low", "Medium", "High"}
)

// StandardReference points an activity at the section that backs it.
type StandardReference struct {
	StandardName StandardName `json:"standardName" yaml:"standard_name"`
	SectionID    string       `json:"sectionId" yaml:"section_id"`
	SectionTitle string       `json:"sectionTitle" yaml:"section_title"`
}

// Activity is a unit of work within a phase.
type Activity struct {
	Name               string              `json:"name" yaml:"name"`
	Description        string              `json:"description" yaml:"description"`
	Deliverables       []string            `json:"deliverables" yaml:"deliverables"`
	StandardReferences []StandardReference `json:"standardReferences" yaml:"standard_references"`
}

// Phase is an ordered stage of a process template.
type Phase struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Activities  []Activity `json:"activities" yaml:"activities"`
}

// Facets are the four categorical dimensions a template is matched on.
type Facets struct {
	ProjectType string `json:"projectType" yaml:"project_type"`
	ProjectSize string `json:"projectSize" yaml:"project_size"`
	Complexity  string `json:"complexity" yaml:"complexity"`
	Industry    string `json:"industry" yaml:"industry"`
}

// ProcessTemplate is a tailored project process for one facet combination.
type ProcessTemplate struct {
	ID          string `json:"_id" yaml:"id,omitempty"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Facets      `yaml:",inline"`

	Phases            []Phase        `json:"phases" yaml:"phases"`
	TailoringGuidance []string       `json:"tailoringGuidance" yaml:"tailoring_guidance"`
	BasedOnStandards  []StandardName `json:"basedOnStandards" yaml:"based_on_standards"`
	CreatedAt         time.Time      `json:"createdAt" yaml:"-"`
	UpdatedAt         time.Time      `json:"updatedAt" yaml:"-"`
}

// Validate checks required fields, facet enums and nested records.
func (t *ProcessTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return invalid("name is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return invalid("description is required")
	}
	if strings.TrimSpace(t.ProjectType) == "" {
		return invalid("projectType is required")
	}
	if !contains(ProjectSizes, t.ProjectSize) {
		return invalid("projectSize must be one of Small, Medium, Large")
	}
	if !contains(ComplexityLevels, t.Complexity) {
		return invalid("complexity must be one of Low, Medium, High")
	}
	if strings.TrimSpace(t.Industry) == "" {
		return invalid("industry is required")
	}
	for i, p := range t.Phases {
		if p.Name == "" || p.Description == "" {
			return invalidf("phases[%d] requires name and description", i)
		}
		for j, a := range p.Activities {
			if a.Name == "" || a.Description == "" {
				return invalidf("phases[%d].activities[%d] requires name and description", i, j)
			}
			for k, r := range a.StandardReferences {
				if r.StandardName == "" || r.SectionID == "" || r.SectionTitle == "" {
					return invalidf("phases[%d].activities[%d].standardReferences[%d] is incomplete", i, j, k)
				}
			}
		}
	}
	for i, n := range t.BasedOnStandards {
		if !n.Valid() {
			return invalidf("basedOnStandards[%d] is not a known standard", i)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
