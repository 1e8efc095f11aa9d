package model

import (
	"strings"
	"time"
)

// Bookmark pins a section for one session.
type Bookmark struct {
	ID           string    `json:"_id"`
	SessionID    string    `json:"sessionId"`
	StandardID   string    `json:"standardId"`
	SectionID    string    `json:"sectionId"`
	SectionTitle string    `json:"sectionTitle"`
	PageNumber   *int      `json:"pageNumber,omitempty"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (b *Bookmark) Validate() error {
	if b.SessionID == "" {
		return invalid("sessionId is required")
	}
	if strings.TrimSpace(b.StandardID) == "" {
		return invalid("standardId is required")
	}
	if strings.TrimSpace(b.SectionID) == "" {
		return invalid("sectionId is required")
	}
	if strings.TrimSpace(b.SectionTitle) == "" {
		return invalid("sectionTitle is required")
	}
	return nil
}
