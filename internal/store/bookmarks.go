package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dgallion1/pmguide/internal/model"
)

type bookmarkStore struct {
	store *Store
}

var _ BookmarkStore = (*bookmarkStore)(nil)

func (s *bookmarkStore) List(ctx context.Context, sessionID, standardID string) ([]model.Bookmark, error) {
	q := `SELECT id, session_id, standard_id, section_id, section_title, page_number, note, created_at
		FROM bookmarks WHERE session_id = ?`
	args := []any{sessionID}
	if standardID != "" {
		q += ` AND standard_id = ?`
		args = append(args, standardID)
	}
	q += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	out := []model.Bookmark{}
	for rows.Next() {
		var (
			b         model.Bookmark
			page      sql.NullInt64
			createdAt string
		)
		if err := rows.Scan(&b.ID, &b.SessionID, &b.StandardID, &b.SectionID, &b.SectionTitle,
			&page, &b.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		b.PageNumber = intPtr(page)
		b.CreatedAt = parseTime(createdAt)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookmarks: %w", err)
	}
	return out, nil
}

func (s *bookmarkStore) Create(ctx context.Context, b *model.Bookmark) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = newID()
	}
	b.CreatedAt = s.store.now()

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, session_id, standard_id, section_id, section_title, page_number, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.SessionID, b.StandardID, b.SectionID, b.SectionTitle, nullInt(b.PageNumber),
		b.Note, formatTime(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving bookmark: %w", translate(err))
	}
	return nil
}

func (s *bookmarkStore) Delete(ctx context.Context, id, sessionID string) error {
	res, err := s.store.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE id = ? AND session_id = ?`, id, sessionID)
	if err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}
	return checkAffected(res)
}
