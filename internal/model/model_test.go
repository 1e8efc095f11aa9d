package model

import (
	"errors"
	"testing"
)

func validTemplate() ProcessTemplate {
	return ProcessTemplate{
		Name:        "Agile Software Delivery",
		Description: "Iterative delivery for small teams.",
		Facets: Facets{
			ProjectType: "Software Development",
			ProjectSize: "Small",
			Complexity:  "Low",
			Industry:    "Technology",
		},
		Phases: []Phase{{
			Name:        "Initiation",
			Description: "Define the project.",
			Activities: []Activity{{
				Name:         "Develop charter",
				Description:  "Authorize the project.",
				Deliverables: []string{"Project charter"},
				StandardReferences: []StandardReference{
					{StandardName: PMBOK, SectionID: "s1", SectionTitle: "Initiating"},
				},
			}},
		}},
		BasedOnStandards: []StandardName{PMBOK, PRINCE2},
	}
}

func TestProcessTemplate_ValidPasses(t *testing.T) {
	tmpl := validTemplate()
	if err := tmpl.Validate(); err != nil {
		t.Fatalf("expected valid template, got %v", err)
	}
}

func TestProcessTemplate_RejectsUnknownSize(t *testing.T) {
	tmpl := validTemplate()
	tmpl.ProjectSize = "Huge"
	err := tmpl.Validate()
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProcessTemplate_RejectsIncompleteReference(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Phases[0].Activities[0].StandardReferences[0].SectionID = ""
	if err := tmpl.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProcessTemplate_RejectsUnknownBasedOn(t *testing.T) {
	tmpl := validTemplate()
	tmpl.BasedOnStandards = append(tmpl.BasedOnStandards, "SCRUM")
	if err := tmpl.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSection_LevelRange(t *testing.T) {
	for _, level := range []int{0, 6} {
		s := Section{StandardID: "std", Title: "t", Content: "c", Level: level}
		if err := s.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("level %d: expected ErrInvalidInput, got %v", level, err)
		}
	}
	s := Section{StandardID: "std", Title: "t", Content: "c", Level: 5}
	if err := s.Validate(); err != nil {
		t.Errorf("level 5: unexpected error %v", err)
	}
}

func TestSection_NormalizeKeywords(t *testing.T) {
	s := Section{Keywords: []string{" Risk ", "", "STAKEHOLDERS"}}
	s.Normalize()
	if len(s.Keywords) != 2 || s.Keywords[0] != "risk" || s.Keywords[1] != "stakeholders" {
		t.Errorf("unexpected keywords %q", s.Keywords)
	}
}

func TestParseStandardName(t *testing.T) {
	tests := []struct {
		in   string
		want StandardName
		ok   bool
	}{
		{"pmbok", PMBOK, true},
		{"process groups", ProcessGroups, true},
		{"iso-21500", "ISO_21500", false},
		{"ISO21502", ISO21502, true},
		{"scrum", "SCRUM", false},
	}
	for _, tt := range tests {
		got, ok := ParseStandardName(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStandardName(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestComparison_RejectsUnknownStandard(t *testing.T) {
	c := Comparison{
		Topic:    "Risk",
		Category: "Risk Management",
		Standards: []ComparisonPoint{
			{StandardName: "AGILE", SectionID: "x", SectionTitle: "y", Excerpt: "z"},
		},
	}
	if err := c.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStandard_Validate(t *testing.T) {
	s := Standard{
		Name:        PMBOK,
		FullName:    "A Guide to the Project Management Body of Knowledge",
		Version:     "7th Edition",
		Description: "PMI's guide",
		FileName:    "pmbok7.pdf",
		FileType:    "pdf",
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.FileType = "exe"
	if err := s.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
