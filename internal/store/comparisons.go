package store

import (
	"context"
	"fmt"

	"github.com/dgallion1/pmguide/internal/model"
)

type comparisonStore struct {
	store *Store
}

var _ ComparisonStore = (*comparisonStore)(nil)

const comparisonColumns = `id, topic, category, description, standards, similarities, differences,
	unique_points, created_at, updated_at`

func (s *comparisonStore) List(ctx context.Context, category string) ([]model.Comparison, error) {
	q := `SELECT ` + comparisonColumns + ` FROM comparisons`
	var args []any
	if category != "" {
		q += ` WHERE category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY topic`

	rows, err := s.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying comparisons: %w", err)
	}
	defer rows.Close()

	out := []model.Comparison{}
	for rows.Next() {
		c, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comparisons: %w", err)
	}
	return out, nil
}

func (s *comparisonStore) Get(ctx context.Context, id string) (*model.Comparison, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+comparisonColumns+` FROM comparisons WHERE id = ?`, id)
	return scanComparison(row)
}

func (s *comparisonStore) GetByTopic(ctx context.Context, topic string) (*model.Comparison, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+comparisonColumns+` FROM comparisons WHERE topic = ?`, topic)
	return scanComparison(row)
}

func (s *comparisonStore) Create(ctx context.Context, c *model.Comparison) error {
	if err := c.Validate(); err != nil {
		return err
	}
	cols, err := comparisonJSON(c)
	if err != nil {
		return err
	}
	now := s.store.now()
	if c.ID == "" {
		c.ID = newID()
	}
	c.CreatedAt, c.UpdatedAt = now, now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO comparisons (`+comparisonColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Topic, c.Category, c.Description, cols[0], cols[1], cols[2], cols[3],
		formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("saving comparison: %w", translate(err))
	}
	return nil
}

func (s *comparisonStore) Update(ctx context.Context, c *model.Comparison) error {
	if err := c.Validate(); err != nil {
		return err
	}
	existing, err := s.Get(ctx, c.ID)
	if err != nil {
		return err
	}
	cols, err := comparisonJSON(c)
	if err != nil {
		return err
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.store.now()

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE comparisons SET topic = ?, category = ?, description = ?, standards = ?,
			similarities = ?, differences = ?, unique_points = ?, updated_at = ?
		WHERE id = ?
	`, c.Topic, c.Category, c.Description, cols[0], cols[1], cols[2], cols[3],
		formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return fmt.Errorf("updating comparison: %w", translate(err))
	}
	return checkAffected(res)
}

func (s *comparisonStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, `DELETE FROM comparisons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting comparison: %w", err)
	}
	return checkAffected(res)
}

func comparisonJSON(c *model.Comparison) ([4]string, error) {
	var out [4]string
	for i, v := range []any{nonNil(c.Standards), nonNil(c.Similarities), nonNil(c.Differences), nonNil(c.UniquePoints)} {
		s, err := marshalJSON(v)
		if err != nil {
			return out, fmt.Errorf("marshalling comparison: %w", err)
		}
		out[i] = s
	}
	return out, nil
}

func scanComparison(row scanner) (*model.Comparison, error) {
	var (
		c                                    model.Comparison
		standards, similarities, differences string
		unique                               string
		createdAt, updatedAt                 string
	)
	err := row.Scan(&c.ID, &c.Topic, &c.Category, &c.Description, &standards, &similarities,
		&differences, &unique, &createdAt, &updatedAt)
	if err != nil {
		return nil, translate(err)
	}
	c.Standards = []model.ComparisonPoint{}
	c.Similarities = []string{}
	c.Differences = []string{}
	c.UniquePoints = []model.UniquePoints{}
	for _, f := range []struct {
		src string
		dst any
	}{
		{standards, &c.Standards},
		{similarities, &c.Similarities},
		{differences, &c.Differences},
		{unique, &c.UniquePoints},
	} {
		if err := unmarshalJSON(f.src, f.dst); err != nil {
			return nil, fmt.Errorf("decoding comparison %s: %w", c.ID, err)
		}
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

// nonNil keeps nil slices from being stored as JSON null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
