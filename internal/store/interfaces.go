package store

import (
	"context"

	"github.com/dgallion1/pmguide/internal/model"
)

// StandardStore persists standards documents.
type StandardStore interface {
	List(ctx context.Context) ([]model.Standard, error)
	Get(ctx context.Context, id string) (*model.Standard, error)
	GetByName(ctx context.Context, name model.StandardName) (*model.Standard, error)
	Create(ctx context.Context, std *model.Standard) error
	Update(ctx context.Context, std *model.Standard) error
	SetTotalPages(ctx context.Context, id string, pages int) error
	// Delete removes the standard together with its sections and bookmarks.
	Delete(ctx context.Context, id string) error
}

// SectionStore persists standard sections.
type SectionStore interface {
	List(ctx context.Context, filter model.SectionFilter) ([]model.Section, error)
	Get(ctx context.Context, id string) (*model.Section, error)
	Create(ctx context.Context, sec *model.Section) error
	// ReplaceForStandard atomically swaps all sections of a standard.
	ReplaceForStandard(ctx context.Context, standardID string, secs []model.Section) error
	Count(ctx context.Context, standardID string) (int, error)
}

// ComparisonStore persists cross-standard topic comparisons.
type ComparisonStore interface {
	List(ctx context.Context, category string) ([]model.Comparison, error)
	Get(ctx context.Context, id string) (*model.Comparison, error)
	GetByTopic(ctx context.Context, topic string) (*model.Comparison, error)
	Create(ctx context.Context, c *model.Comparison) error
	Update(ctx context.Context, c *model.Comparison) error
	Delete(ctx context.Context, id string) error
}

// BookmarkStore persists per-session bookmarks.
type BookmarkStore interface {
	// List returns the session's bookmarks, newest first. An empty
	// standardID matches all standards.
	List(ctx context.Context, sessionID, standardID string) ([]model.Bookmark, error)
	Create(ctx context.Context, b *model.Bookmark) error
	// Delete removes a bookmark owned by sessionID.
	Delete(ctx context.Context, id, sessionID string) error
}

// TemplateStore persists process templates.
type TemplateStore interface {
	// List returns templates sorted by name.
	List(ctx context.Context) ([]model.ProcessTemplate, error)
	// Candidates returns templates in insertion order, the stable
	// enumeration the matcher relies on.
	Candidates(ctx context.Context) ([]model.ProcessTemplate, error)
	Get(ctx context.Context, id string) (*model.ProcessTemplate, error)
	GetByName(ctx context.Context, name string) (*model.ProcessTemplate, error)
	Create(ctx context.Context, t *model.ProcessTemplate) error
}

// ImportRecord remembers the last file imported into a standard.
type ImportRecord struct {
	StandardID  string
	ContentHash string
	FileName    string
	Sections    int
}

// ImportStore tracks imported file hashes for duplicate detection.
type ImportStore interface {
	Get(ctx context.Context, standardID string) (*ImportRecord, error)
	Put(ctx context.Context, rec ImportRecord) error
}
