// Package seed loads a YAML catalog of standards, sections, comparisons
// and process templates into the store. Loading is idempotent: records
// that already exist by natural key are left untouched.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/pmguide/internal/model"
	"github.com/dgallion1/pmguide/internal/store"
)

// Repository is the storage a catalog is loaded into.
type Repository interface {
	Standards() store.StandardStore
	Sections() store.SectionStore
	Comparisons() store.ComparisonStore
	Templates() store.TemplateStore
}

// Catalog is the YAML document layout.
type Catalog struct {
	Standards   []model.Standard        `yaml:"standards"`
	Sections    []Section               `yaml:"sections"`
	Comparisons []model.Comparison      `yaml:"comparisons"`
	Templates   []model.ProcessTemplate `yaml:"templates"`
}

// Section is a section entry keyed by its standard's name. Parent names
// the title of an earlier section of the same standard.
type Section struct {
	Standard      model.StandardName `yaml:"standard"`
	Parent        string             `yaml:"parent,omitempty"`
	model.Section `yaml:",inline"`
}

// Result counts what a load created and skipped.
type Result struct {
	StandardsCreated   int `json:"standardsCreated"`
	StandardsSkipped   int `json:"standardsSkipped"`
	SectionsCreated    int `json:"sectionsCreated"`
	ComparisonsCreated int `json:"comparisonsCreated"`
	ComparisonsSkipped int `json:"comparisonsSkipped"`
	TemplatesCreated   int `json:"templatesCreated"`
	TemplatesSkipped   int `json:"templatesSkipped"`
}

// Parse decodes a catalog, rejecting unknown fields and multiple documents.
func Parse(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var cat Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return &cat, nil
		}
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return nil, fmt.Errorf("multiple YAML documents are not supported")
	} else if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return &cat, nil
}

// LoadFile parses the catalog at path and loads it.
func LoadFile(ctx context.Context, path string, repo Repository, log *slog.Logger) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	cat, err := Parse(f)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return Load(ctx, cat, repo, log)
}

// Load writes the catalog in dependency order: standards, their sections,
// then comparisons and templates, which may refer to sections by title.
// Sections are only added for standards this load created.
func Load(ctx context.Context, cat *Catalog, repo Repository, log *slog.Logger) (Result, error) {
	var res Result
	l := &loader{repo: repo, titles: make(map[sectionKey]string), fresh: make(map[model.StandardName]string)}

	for i := range cat.Standards {
		std := cat.Standards[i]
		if _, err := repo.Standards().GetByName(ctx, std.Name); err == nil {
			res.StandardsSkipped++
			continue
		} else if !errors.Is(err, model.ErrNotFound) {
			return res, fmt.Errorf("standard %s: %w", std.Name, err)
		}
		if err := repo.Standards().Create(ctx, &std); err != nil {
			return res, fmt.Errorf("standard %s: %w", std.Name, err)
		}
		l.fresh[std.Name] = std.ID
		res.StandardsCreated++
	}

	for i := range cat.Sections {
		created, err := l.section(ctx, cat.Sections[i])
		if err != nil {
			return res, fmt.Errorf("section %d (%q): %w", i, cat.Sections[i].Title, err)
		}
		if created {
			res.SectionsCreated++
		}
	}

	for i := range cat.Comparisons {
		c := cat.Comparisons[i]
		if _, err := repo.Comparisons().GetByTopic(ctx, c.Topic); err == nil {
			res.ComparisonsSkipped++
			continue
		} else if !errors.Is(err, model.ErrNotFound) {
			return res, fmt.Errorf("comparison %q: %w", c.Topic, err)
		}
		for j := range c.Standards {
			p := &c.Standards[j]
			id, err := l.resolve(ctx, p.StandardName, p.SectionID, p.SectionTitle)
			if err != nil {
				return res, fmt.Errorf("comparison %q: %w", c.Topic, err)
			}
			p.SectionID = id
		}
		if err := repo.Comparisons().Create(ctx, &c); err != nil {
			return res, fmt.Errorf("comparison %q: %w", c.Topic, err)
		}
		res.ComparisonsCreated++
	}

	for i := range cat.Templates {
		t := cat.Templates[i]
		if _, err := repo.Templates().GetByName(ctx, t.Name); err == nil {
			res.TemplatesSkipped++
			continue
		} else if !errors.Is(err, model.ErrNotFound) {
			return res, fmt.Errorf("template %q: %w", t.Name, err)
		}
		for p := range t.Phases {
			for a := range t.Phases[p].Activities {
				refs := t.Phases[p].Activities[a].StandardReferences
				for r := range refs {
					id, err := l.resolve(ctx, refs[r].StandardName, refs[r].SectionID, refs[r].SectionTitle)
					if err != nil {
						return res, fmt.Errorf("template %q: %w", t.Name, err)
					}
					refs[r].SectionID = id
				}
			}
		}
		if err := repo.Templates().Create(ctx, &t); err != nil {
			return res, fmt.Errorf("template %q: %w", t.Name, err)
		}
		res.TemplatesCreated++
	}

	if log != nil {
		log.Info("seed catalog loaded",
			"standards_created", res.StandardsCreated,
			"standards_skipped", res.StandardsSkipped,
			"sections_created", res.SectionsCreated,
			"comparisons_created", res.ComparisonsCreated,
			"comparisons_skipped", res.ComparisonsSkipped,
			"templates_created", res.TemplatesCreated,
			"templates_skipped", res.TemplatesSkipped,
		)
	}
	return res, nil
}

type sectionKey struct {
	standard model.StandardName
	title    string
}

type loader struct {
	repo   Repository
	fresh  map[model.StandardName]string // standards created by this load
	titles map[sectionKey]string         // section IDs by title
}

func (l *loader) section(ctx context.Context, s Section) (bool, error) {
	stdID, ok := l.fresh[s.Standard]
	if !ok {
		if _, err := l.repo.Standards().GetByName(ctx, s.Standard); err != nil {
			return false, fmt.Errorf("standard %s: %w", s.Standard, err)
		}
		return false, nil
	}
	sec := s.Section
	sec.StandardID = stdID
	if s.Parent != "" {
		parentID, ok := l.titles[sectionKey{s.Standard, s.Parent}]
		if !ok {
			return false, fmt.Errorf("parent %q not defined earlier: %w", s.Parent, model.ErrInvalidInput)
		}
		sec.ParentSectionID = parentID
	}
	if err := l.repo.Sections().Create(ctx, &sec); err != nil {
		return false, err
	}
	l.titles[sectionKey{s.Standard, sec.Title}] = sec.ID
	return true, nil
}

// resolve returns the section ID a reference should carry. An explicit ID
// wins; otherwise the title is looked up among the standard's sections.
func (l *loader) resolve(ctx context.Context, name model.StandardName, id, title string) (string, error) {
	if id != "" {
		return id, nil
	}
	if id, ok := l.titles[sectionKey{name, title}]; ok {
		return id, nil
	}
	std, err := l.repo.Standards().GetByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("reference to %s: %w", name, err)
	}
	secs, err := l.repo.Sections().List(ctx, model.SectionFilter{StandardID: std.ID, Search: title})
	if err != nil {
		return "", err
	}
	for _, s := range secs {
		if s.Title == title {
			l.titles[sectionKey{name, title}] = s.ID
			return s.ID, nil
		}
	}
	return "", fmt.Errorf("no section %q in %s: %w", title, name, model.ErrInvalidInput)
}
