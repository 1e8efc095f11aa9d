package store

import (
	"context"
	"fmt"

	"github.com/dgallion1/pmguide/internal/model"
)

type templateStore struct {
	store *Store
}

var _ TemplateStore = (*templateStore)(nil)

const templateColumns = `id, name, description, project_type, project_size, complexity, industry,
	phases, tailoring_guidance, based_on_standards, created_at, updated_at`

func (s *templateStore) List(ctx context.Context) ([]model.ProcessTemplate, error) {
	return s.query(ctx, `SELECT `+templateColumns+` FROM process_templates ORDER BY name, rowid`)
}

func (s *templateStore) Candidates(ctx context.Context) ([]model.ProcessTemplate, error) {
	return s.query(ctx, `SELECT `+templateColumns+` FROM process_templates ORDER BY rowid`)
}

func (s *templateStore) Get(ctx context.Context, id string) (*model.ProcessTemplate, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM process_templates WHERE id = ?`, id)
	return scanTemplate(row)
}

func (s *templateStore) GetByName(ctx context.Context, name string) (*model.ProcessTemplate, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM process_templates WHERE name = ? ORDER BY rowid LIMIT 1`, name)
	return scanTemplate(row)
}

func (s *templateStore) Create(ctx context.Context, t *model.ProcessTemplate) error {
	if err := t.Validate(); err != nil {
		return err
	}
	phases, err := marshalJSON(nonNil(t.Phases))
	if err != nil {
		return fmt.Errorf("marshalling phases: %w", err)
	}
	guidance, err := marshalJSON(nonNil(t.TailoringGuidance))
	if err != nil {
		return fmt.Errorf("marshalling tailoring guidance: %w", err)
	}
	basedOn, err := marshalJSON(nonNil(t.BasedOnStandards))
	if err != nil {
		return fmt.Errorf("marshalling based-on standards: %w", err)
	}
	now := s.store.now()
	if t.ID == "" {
		t.ID = newID()
	}
	t.CreatedAt, t.UpdatedAt = now, now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO process_templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Name, t.Description, t.ProjectType, t.ProjectSize, t.Complexity, t.Industry,
		phases, guidance, basedOn, formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("saving process template: %w", translate(err))
	}
	return nil
}

func (s *templateStore) query(ctx context.Context, q string, args ...any) ([]model.ProcessTemplate, error) {
	rows, err := s.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying process templates: %w", err)
	}
	defer rows.Close()

	out := []model.ProcessTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating process templates: %w", err)
	}
	return out, nil
}

func scanTemplate(row scanner) (*model.ProcessTemplate, error) {
	var (
		t                         model.ProcessTemplate
		phases, guidance, basedOn string
		createdAt, updatedAt      string
	)
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.ProjectType, &t.ProjectSize, &t.Complexity,
		&t.Industry, &phases, &guidance, &basedOn, &createdAt, &updatedAt)
	if err != nil {
		return nil, translate(err)
	}
	t.Phases = []model.Phase{}
	t.TailoringGuidance = []string{}
	t.BasedOnStandards = []model.StandardName{}
	if err := unmarshalJSON(phases, &t.Phases); err != nil {
		return nil, fmt.Errorf("decoding phases: %w", err)
	}
	if err := unmarshalJSON(guidance, &t.TailoringGuidance); err != nil {
		return nil, fmt.Errorf("decoding tailoring guidance: %w", err)
	}
	if err := unmarshalJSON(basedOn, &t.BasedOnStandards); err != nil {
		return nil, fmt.Errorf("decoding based-on standards: %w", err)
	}
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}
