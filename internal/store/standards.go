package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dgallion1/pmguide/internal/model"
)

type standardStore struct {
	store *Store
}

var _ StandardStore = (*standardStore)(nil)

const standardColumns = `id, name, full_name, version, description, file_name, file_type, total_pages, created_at, updated_at`

func (s *standardStore) List(ctx context.Context) ([]model.Standard, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+standardColumns+` FROM standards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying standards: %w", err)
	}
	defer rows.Close()

	out := []model.Standard{}
	for rows.Next() {
		std, err := scanStandard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *std)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating standards: %w", err)
	}
	return out, nil
}

func (s *standardStore) Get(ctx context.Context, id string) (*model.Standard, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+standardColumns+` FROM standards WHERE id = ?`, id)
	return scanStandard(row)
}

func (s *standardStore) GetByName(ctx context.Context, name model.StandardName) (*model.Standard, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+standardColumns+` FROM standards WHERE name = ?`, string(name))
	return scanStandard(row)
}

func (s *standardStore) Create(ctx context.Context, std *model.Standard) error {
	if err := std.Validate(); err != nil {
		return err
	}
	now := s.store.now()
	if std.ID == "" {
		std.ID = newID()
	}
	std.CreatedAt, std.UpdatedAt = now, now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO standards (`+standardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, std.ID, string(std.Name), std.FullName, std.Version, std.Description, std.FileName,
		std.FileType, nullInt(std.TotalPages), formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("saving standard: %w", translate(err))
	}
	return nil
}

func (s *standardStore) Update(ctx context.Context, std *model.Standard) error {
	if err := std.Validate(); err != nil {
		return err
	}
	existing, err := s.Get(ctx, std.ID)
	if err != nil {
		return err
	}
	std.CreatedAt = existing.CreatedAt
	std.UpdatedAt = s.store.now()

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE standards SET name = ?, full_name = ?, version = ?, description = ?,
			file_name = ?, file_type = ?, total_pages = ?, updated_at = ?
		WHERE id = ?
	`, string(std.Name), std.FullName, std.Version, std.Description, std.FileName,
		std.FileType, nullInt(std.TotalPages), formatTime(std.UpdatedAt), std.ID)
	if err != nil {
		return fmt.Errorf("updating standard: %w", translate(err))
	}
	return checkAffected(res)
}

func (s *standardStore) SetTotalPages(ctx context.Context, id string, pages int) error {
	res, err := s.store.db.ExecContext(ctx,
		`UPDATE standards SET total_pages = ?, updated_at = ? WHERE id = ?`,
		pages, formatTime(s.store.now()), id)
	if err != nil {
		return fmt.Errorf("updating total pages: %w", err)
	}
	return checkAffected(res)
}

func (s *standardStore) Delete(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE standard_id = ?`, id); err != nil {
		return fmt.Errorf("deleting bookmarks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE standard_id = ?`, id); err != nil {
		return fmt.Errorf("deleting sections: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM standards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting standard: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func scanStandard(row scanner) (*model.Standard, error) {
	var (
		std                  model.Standard
		name                 string
		pages                sql.NullInt64
		createdAt, updatedAt string
	)
	err := row.Scan(&std.ID, &name, &std.FullName, &std.Version, &std.Description,
		&std.FileName, &std.FileType, &pages, &createdAt, &updatedAt)
	if err != nil {
		return nil, translate(err)
	}
	std.Name = model.StandardName(name)
	std.TotalPages = intPtr(pages)
	std.CreatedAt = parseTime(createdAt)
	std.UpdatedAt = parseTime(updatedAt)
	return &std, nil
}
