package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dgallion1/pmguide/internal/model"
)

type sectionStore struct {
	store *Store
}

var _ SectionStore = (*sectionStore)(nil)

const sectionColumns = `id, standard_id, title, content, section_number, page_number, chapter_number,
	level, parent_section_id, keywords, created_at, updated_at`

func (s *sectionStore) List(ctx context.Context, filter model.SectionFilter) ([]model.Section, error) {
	var (
		where []string
		args  []any
	)
	if filter.StandardID != "" {
		where = append(where, "standard_id = ?")
		args = append(args, filter.StandardID)
	}
	if filter.Level > 0 {
		where = append(where, "level = ?")
		args = append(args, filter.Level)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		where = append(where, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\' OR keywords LIKE ? ESCAPE '\')`)
		p := likePattern(term)
		args = append(args, p, p, p)
	}

	q := `SELECT ` + sectionColumns + ` FROM sections`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY chapter_number, section_number, page_number, rowid"

	rows, err := s.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	out := []model.Section{}
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}
	return out, nil
}

func (s *sectionStore) Get(ctx context.Context, id string) (*model.Section, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+sectionColumns+` FROM sections WHERE id = ?`, id)
	return scanSection(row)
}

func (s *sectionStore) Create(ctx context.Context, sec *model.Section) error {
	return s.insert(ctx, s.store.db, sec)
}

func (s *sectionStore) ReplaceForStandard(ctx context.Context, standardID string, secs []model.Section) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE standard_id = ?`, standardID); err != nil {
		return fmt.Errorf("clearing sections: %w", err)
	}
	for i := range secs {
		secs[i].StandardID = standardID
		if err := s.insert(ctx, tx, &secs[i]); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *sectionStore) Count(ctx context.Context, standardID string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections WHERE standard_id = ?`, standardID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting sections: %w", err)
	}
	return n, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *sectionStore) insert(ctx context.Context, db execer, sec *model.Section) error {
	sec.Normalize()
	if err := sec.Validate(); err != nil {
		return err
	}
	keywords, err := marshalJSON(sec.Keywords)
	if err != nil {
		return fmt.Errorf("marshalling keywords: %w", err)
	}
	now := s.store.now()
	if sec.ID == "" {
		sec.ID = newID()
	}
	sec.CreatedAt, sec.UpdatedAt = now, now

	_, err = db.ExecContext(ctx, `
		INSERT INTO sections (`+sectionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sec.ID, sec.StandardID, sec.Title, sec.Content, nullString(sec.SectionNumber),
		nullInt(sec.PageNumber), nullInt(sec.ChapterNumber), sec.Level,
		nullString(sec.ParentSectionID), keywords, formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("saving section: %w", translate(err))
	}
	return nil
}

func scanSection(row scanner) (*model.Section, error) {
	var (
		sec                  model.Section
		number, parent       sql.NullString
		page, chapter        sql.NullInt64
		keywords             string
		createdAt, updatedAt string
	)
	err := row.Scan(&sec.ID, &sec.StandardID, &sec.Title, &sec.Content, &number, &page, &chapter,
		&sec.Level, &parent, &keywords, &createdAt, &updatedAt)
	if err != nil {
		return nil, translate(err)
	}
	sec.SectionNumber = number.String
	sec.ParentSectionID = parent.String
	sec.PageNumber = intPtr(page)
	sec.ChapterNumber = intPtr(chapter)
	sec.Keywords = []string{}
	if err := unmarshalJSON(keywords, &sec.Keywords); err != nil {
		return nil, fmt.Errorf("decoding keywords: %w", err)
	}
	sec.CreatedAt = parseTime(createdAt)
	sec.UpdatedAt = parseTime(updatedAt)
	return &sec, nil
}
