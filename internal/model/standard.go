package model

import (
	"strings"
	"time"
)

// StandardName identifies one of the supported standards documents.
type StandardName string

const (
	PMBOK         StandardName = "PMBOK"
	PRINCE2       StandardName = "PRINCE2"
	ISO21500      StandardName = "ISO21500"
	ISO21502      StandardName = "ISO21502"
	ProcessGroups StandardName = "PROCESS_GROUPS"
)

// StandardNames lists every accepted StandardName in display order.
var StandardNames = []StandardName{PMBOK, PRINCE2, ISO21500, ISO21502, ProcessGroups}

// Valid reports whether n is a known standard.
func (n StandardName) Valid() bool {
	for _, s := range StandardNames {
		if s == n {
			return true
		}
	}
	return false
}

// ParseStandardName accepts names case-insensitively and with spaces or
// dashes in place of underscores ("process groups", "iso21500").
func ParseStandardName(s string) (StandardName, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	n := StandardName(s)
	return n, n.Valid()
}

// Standard is one standards document in the repository.
type Standard struct {
	ID          string       `json:"_id" yaml:"id,omitempty"`
	Name        StandardName `json:"name" yaml:"name"`
	FullName    string       `json:"fullName" yaml:"full_name"`
	Version     string       `json:"version" yaml:"version"`
	Description string       `json:"description" yaml:"description"`
	FileName    string       `json:"fileName" yaml:"file_name"`
	FileType    string       `json:"fileType" yaml:"file_type"`
	TotalPages  *int         `json:"totalPages,omitempty" yaml:"total_pages,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" yaml:"-"`
	UpdatedAt   time.Time    `json:"updatedAt" yaml:"-"`
}

var validFileTypes = map[string]bool{
	"pdf":  true,
	"epub": true,
	"docx": true,
	"html": true,
	"md":   true,
	"txt":  true,
}

// Validate checks required fields and enums.
func (s *Standard) Validate() error {
	if !s.Name.Valid() {
		return invalid("name must be one of PMBOK, PRINCE2, ISO21500, ISO21502, PROCESS_GROUPS")
	}
	if strings.TrimSpace(s.FullName) == "" {
		return invalid("fullName is required")
	}
	if strings.TrimSpace(s.Version) == "" {
		return invalid("version is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		return invalid("description is required")
	}
	if strings.TrimSpace(s.FileName) == "" {
		return invalid("fileName is required")
	}
	if !validFileTypes[s.FileType] {
		return invalid("fileType must be one of pdf, epub, docx, html, md, txt")
	}
	if s.TotalPages != nil && *s.TotalPages < 0 {
		return invalid("totalPages must not be negative")
	}
	return nil
}
