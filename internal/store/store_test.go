package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pmguide/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Close()) })
	return s
}

func createStandard(t *testing.T, s *Store, name model.StandardName) *model.Standard {
	t.Helper()
	std := &model.Standard{
		Name:        name,
		FullName:    string(name) + " Guide",
		Version:     "1",
		Description: "test standard",
		FileName:    "std.pdf",
		FileType:    "pdf",
	}
	require.NoError(t, s.Standards().Create(context.Background(), std))
	return std
}

func ptr(n int) *int { return &n }

// ==================== Migrations ====================

func TestOpen_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	std := &model.Standard{Name: model.PMBOK, FullName: "x", Version: "7", Description: "d", FileName: "f.pdf", FileType: "pdf"}
	require.NoError(t, s.Standards().Create(context.Background(), std))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Standards().Get(context.Background(), std.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PMBOK, got.Name)
}

// ==================== Standards ====================

func TestStandards_CreateListOrdered(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createStandard(t, s, model.PRINCE2)
	createStandard(t, s, model.ISO21500)
	createStandard(t, s, model.PMBOK)

	list, err := s.Standards().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, model.ISO21500, list[0].Name)
	assert.Equal(t, model.PMBOK, list[1].Name)
	assert.Equal(t, model.PRINCE2, list[2].Name)
}

func TestStandards_DuplicateName(t *testing.T) {
	s := setupTestStore(t)
	createStandard(t, s, model.PMBOK)
	dup := &model.Standard{Name: model.PMBOK, FullName: "x", Version: "1", Description: "d", FileName: "f", FileType: "pdf"}
	err := s.Standards().Create(context.Background(), dup)
	assert.ErrorIs(t, err, model.ErrAlreadyExists)
}

func TestStandards_InvalidRejected(t *testing.T) {
	s := setupTestStore(t)
	err := s.Standards().Create(context.Background(), &model.Standard{Name: "AGILE"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestStandards_UpdateAndNotFound(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	std := createStandard(t, s, model.PMBOK)

	std.Version = "8th Edition"
	std.TotalPages = ptr(370)
	require.NoError(t, s.Standards().Update(ctx, std))

	got, err := s.Standards().Get(ctx, std.ID)
	require.NoError(t, err)
	assert.Equal(t, "8th Edition", got.Version)
	require.NotNil(t, got.TotalPages)
	assert.Equal(t, 370, *got.TotalPages)

	missing := *std
	missing.ID = "missing"
	assert.ErrorIs(t, s.Standards().Update(ctx, &missing), model.ErrNotFound)
	_, err = s.Standards().Get(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStandards_DeleteCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	std := createStandard(t, s, model.PMBOK)
	sec := &model.Section{StandardID: std.ID, Title: "Intro", Content: "text", Level: 1}
	require.NoError(t, s.Sections().Create(ctx, sec))
	require.NoError(t, s.Bookmarks().Create(ctx, &model.Bookmark{
		SessionID: "pms_a", StandardID: std.ID, SectionID: sec.ID, SectionTitle: sec.Title,
	}))

	require.NoError(t, s.Standards().Delete(ctx, std.ID))

	_, err := s.Sections().Get(ctx, sec.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	bms, err := s.Bookmarks().List(ctx, "pms_a", "")
	require.NoError(t, err)
	assert.Empty(t, bms)
	assert.ErrorIs(t, s.Standards().Delete(ctx, std.ID), model.ErrNotFound)
}

// ==================== Sections ====================

func TestSections_FilterAndOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	pmbok := createStandard(t, s, model.PMBOK)
	prince := createStandard(t, s, model.PRINCE2)

	secs := []model.Section{
		{StandardID: pmbok.ID, Title: "Risk", Content: "Identify risks early.", ChapterNumber: ptr(2), SectionNumber: "2.1", Level: 2, Keywords: []string{"Risk"}},
		{StandardID: pmbok.ID, Title: "Introduction", Content: "Welcome.", ChapterNumber: ptr(1), SectionNumber: "1", Level: 1},
		{StandardID: pmbok.ID, Title: "Stakeholders", Content: "Engage people.", ChapterNumber: ptr(2), SectionNumber: "2", Level: 1},
		{StandardID: prince.ID, Title: "Themes", Content: "Business case and risk.", ChapterNumber: ptr(1), Level: 1},
	}
	for i := range secs {
		require.NoError(t, s.Sections().Create(ctx, &secs[i]))
	}

	all, err := s.Sections().List(ctx, model.SectionFilter{StandardID: pmbok.ID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Introduction", all[0].Title)
	assert.Equal(t, "Stakeholders", all[1].Title)
	assert.Equal(t, "Risk", all[2].Title)

	level2, err := s.Sections().List(ctx, model.SectionFilter{StandardID: pmbok.ID, Level: 2})
	require.NoError(t, err)
	require.Len(t, level2, 1)
	assert.Equal(t, []string{"risk"}, level2[0].Keywords)

	search, err := s.Sections().List(ctx, model.SectionFilter{Search: "RISK"})
	require.NoError(t, err)
	require.Len(t, search, 2)

	literal, err := s.Sections().List(ctx, model.SectionFilter{Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, literal)
}

func TestSections_ReplaceForStandard(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	std := createStandard(t, s, model.ISO21500)
	require.NoError(t, s.Sections().Create(ctx, &model.Section{StandardID: std.ID, Title: "Old", Content: "old", Level: 1}))

	fresh := []model.Section{
		{Title: "New A", Content: "a", Level: 1},
		{Title: "New B", Content: "b", Level: 2},
	}
	require.NoError(t, s.Sections().ReplaceForStandard(ctx, std.ID, fresh))

	n, err := s.Sections().Count(ctx, std.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotEmpty(t, fresh[0].ID)
	assert.Equal(t, std.ID, fresh[1].StandardID)
}

func TestSections_ReplaceRollsBackOnInvalid(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	std := createStandard(t, s, model.ISO21502)
	require.NoError(t, s.Sections().Create(ctx, &model.Section{StandardID: std.ID, Title: "Keep", Content: "k", Level: 1}))

	err := s.Sections().ReplaceForStandard(ctx, std.ID, []model.Section{
		{Title: "Fine", Content: "f", Level: 1},
		{Title: "Broken", Content: "b", Level: 9},
	})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	list, err := s.Sections().List(ctx, model.SectionFilter{StandardID: std.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Keep", list[0].Title)
}

func TestSections_UnknownStandard(t *testing.T) {
	s := setupTestStore(t)
	err := s.Sections().Create(context.Background(), &model.Section{StandardID: "nope", Title: "t", Content: "c", Level: 1})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

// ==================== Comparisons ====================

func sampleComparison(topic, category string) *model.Comparison {
	return &model.Comparison{
		Topic:       topic,
		Category:    category,
		Description: "How standards treat " + topic,
		Standards: []model.ComparisonPoint{
			{StandardName: model.PMBOK, SectionID: "s1", SectionTitle: "Risk", Excerpt: "Risk is...", PageNumber: ptr(120)},
		},
		Similarities: []string{"Both iterate"},
		UniquePoints: []model.UniquePoints{{StandardName: model.PRINCE2, Points: []string{"Tolerances"}}},
	}
}

func TestComparisons_CRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	cs := s.Comparisons()

	b := sampleComparison("Risk Appetite", "Risk Management")
	a := sampleComparison("Change Control", "Governance")
	require.NoError(t, cs.Create(ctx, b))
	require.NoError(t, cs.Create(ctx, a))

	all, err := cs.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Change Control", all[0].Topic)
	assert.NotNil(t, all[0].Differences)

	filtered, err := cs.List(ctx, "Risk Management")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 120, *filtered[0].Standards[0].PageNumber)

	b.Differences = []string{"PRINCE2 uses tolerances"}
	require.NoError(t, cs.Update(ctx, b))
	got, err := cs.GetByTopic(ctx, "Risk Appetite")
	require.NoError(t, err)
	assert.Equal(t, []string{"PRINCE2 uses tolerances"}, got.Differences)

	assert.ErrorIs(t, cs.Create(ctx, sampleComparison("Risk Appetite", "Other")), model.ErrAlreadyExists)

	require.NoError(t, cs.Delete(ctx, a.ID))
	assert.ErrorIs(t, cs.Delete(ctx, a.ID), model.ErrNotFound)
}

// ==================== Bookmarks ====================

func TestBookmarks_SessionIsolation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	bs := s.Bookmarks()

	mine := &model.Bookmark{SessionID: "pms_mine", StandardID: "std1", SectionID: "sec1", SectionTitle: "Risk"}
	other := &model.Bookmark{SessionID: "pms_other", StandardID: "std1", SectionID: "sec2", SectionTitle: "Scope"}
	second := &model.Bookmark{SessionID: "pms_mine", StandardID: "std2", SectionID: "sec3", SectionTitle: "Quality", Note: "reread"}
	require.NoError(t, bs.Create(ctx, mine))
	require.NoError(t, bs.Create(ctx, other))
	require.NoError(t, bs.Create(ctx, second))

	list, err := bs.List(ctx, "pms_mine", "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	filtered, err := bs.List(ctx, "pms_mine", "std1")
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	assert.ErrorIs(t, bs.Delete(ctx, other.ID, "pms_mine"), model.ErrNotFound)
	require.NoError(t, bs.Delete(ctx, mine.ID, "pms_mine"))
}

// ==================== Templates ====================

func sampleTemplate(name, typ, size string) *model.ProcessTemplate {
	return &model.ProcessTemplate{
		Name:        name,
		Description: "desc",
		Facets:      model.Facets{ProjectType: typ, ProjectSize: size, Complexity: "Low", Industry: "Technology"},
		Phases: []model.Phase{{
			Name: "Initiation", Description: "start",
			Activities: []model.Activity{{Name: "Charter", Description: "write it", Deliverables: []string{"Charter"}}},
		}},
		TailoringGuidance: []string{"Keep it light"},
		BasedOnStandards:  []model.StandardName{model.PMBOK},
	}
}

func TestTemplates_ListAndCandidatesOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	ts := s.Templates()

	require.NoError(t, ts.Create(ctx, sampleTemplate("Zeta", "Software Development", "Small")))
	require.NoError(t, ts.Create(ctx, sampleTemplate("Alpha", "Construction", "Large")))

	byName, err := ts.List(ctx)
	require.NoError(t, err)
	require.Len(t, byName, 2)
	assert.Equal(t, "Alpha", byName[0].Name)

	candidates, err := ts.Candidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Zeta", candidates[0].Name)
	assert.Equal(t, "Charter", candidates[0].Phases[0].Activities[0].Name)
	assert.Equal(t, []model.StandardName{model.PMBOK}, candidates[0].BasedOnStandards)

	got, err := ts.GetByName(ctx, "Alpha")
	require.NoError(t, err)
	assert.Equal(t, "Construction", got.ProjectType)
}

func TestTemplates_InvalidSize(t *testing.T) {
	s := setupTestStore(t)
	err := s.Templates().Create(context.Background(), sampleTemplate("Bad", "Software", "Gigantic"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

// ==================== Imports ====================

func TestImports_PutGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	std := createStandard(t, s, model.PMBOK)

	_, err := s.Imports().Get(ctx, std.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Imports().Put(ctx, ImportRecord{StandardID: std.ID, ContentHash: "abc", FileName: "a.pdf", Sections: 3}))
	require.NoError(t, s.Imports().Put(ctx, ImportRecord{StandardID: std.ID, ContentHash: "def", FileName: "b.pdf", Sections: 4}))

	rec, err := s.Imports().Get(ctx, std.ID)
	require.NoError(t, err)
	assert.Equal(t, "def", rec.ContentHash)
	assert.Equal(t, 4, rec.Sections)
}
