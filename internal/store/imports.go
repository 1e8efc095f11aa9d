package store

import (
	"context"
	"fmt"
)

type importStore struct {
	store *Store
}

var _ ImportStore = (*importStore)(nil)

func (s *importStore) Get(ctx context.Context, standardID string) (*ImportRecord, error) {
	var rec ImportRecord
	err := s.store.db.QueryRowContext(ctx, `
		SELECT standard_id, content_hash, file_name, sections FROM import_hashes WHERE standard_id = ?
	`, standardID).Scan(&rec.StandardID, &rec.ContentHash, &rec.FileName, &rec.Sections)
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (s *importStore) Put(ctx context.Context, rec ImportRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO import_hashes (standard_id, content_hash, file_name, sections, imported_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(standard_id) DO UPDATE SET
			content_hash = excluded.content_hash,
			file_name = excluded.file_name,
			sections = excluded.sections,
			imported_at = excluded.imported_at
	`, rec.StandardID, rec.ContentHash, rec.FileName, rec.Sections, formatTime(s.store.now()))
	if err != nil {
		return fmt.Errorf("saving import record: %w", translate(err))
	}
	return nil
}
