package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pmguide/internal/config"
	"github.com/dgallion1/pmguide/internal/model"
	"github.com/dgallion1/pmguide/internal/pipeline"
	"github.com/dgallion1/pmguide/internal/session"
	"github.com/dgallion1/pmguide/internal/store"
)

const testAdminKey = "test-admin-key"

type fixture struct {
	srv     *Server
	store   *store.Store
	orch    *pipeline.Orchestrator
	std     *model.Standard
	section *model.Section
}

func testConfig() config.Config {
	return config.Config{
		AdminAPIKey:             testAdminKey,
		WorkerCount:             1,
		MaxQueueSize:            4,
		MaxConcurrentSectioning: 2,
		MaxUploadBytes:          1 << 20,
		MaxSectionTokens:        2000,
		JobTTL:                  time.Hour,
	}
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	std := &model.Standard{
		Name: model.PMBOK, FullName: "PMBOK Guide", Version: "7th Edition",
		Description: "Principle-based standard.", FileName: "pmbok.pdf", FileType: "pdf",
	}
	require.NoError(t, st.Standards().Create(ctx, std))

	page := 24
	sec := &model.Section{
		StandardID: std.ID,
		Title:      "Stewardship",
		Content:    "STEWARDSHIP\nStewards act with integrity, care and trust.\n• Integrity\n• Care",
		Level:      1,
		PageNumber: &page,
		Keywords:   []string{"stewardship"},
	}
	require.NoError(t, st.Sections().Create(ctx, sec))

	for _, tpl := range []model.ProcessTemplate{
		{
			Name: "Agile Software Delivery", Description: "Iterative delivery.",
			Facets: model.Facets{ProjectType: "Software Development", ProjectSize: "Small", Complexity: "Low", Industry: "Technology"},
			Phases: []model.Phase{{Name: "Plan", Description: "Set the backlog."}},
		},
		{
			Name: "Construction Stage Plan", Description: "Stage-gated delivery.",
			Facets: model.Facets{ProjectType: "Construction", ProjectSize: "Large", Complexity: "High", Industry: "Construction"},
			Phases: []model.Phase{{Name: "Design", Description: "Produce drawings."}},
		},
	} {
		require.NoError(t, st.Templates().Create(ctx, &tpl))
	}

	cfg := testConfig()
	orch := pipeline.NewOrchestrator(cfg, st, log)
	orch.Start(ctx)
	t.Cleanup(orch.Stop)

	return &fixture{
		srv:     NewServer(st, orch, log, cfg),
		store:   st,
		orch:    orch,
		std:     std,
		section: sec,
	}
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	var resp response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

func admin() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testAdminKey}
}

func TestHealth(t *testing.T) {
	f := setup(t)
	rec, _ := f.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAdminAuth(t *testing.T) {
	f := setup(t)
	body := map[string]any{"name": "PRINCE2", "fullName": "PRINCE2", "version": "2017", "description": "d", "fileName": "p.pdf", "fileType": "pdf"}

	rec, resp := f.do(t, http.MethodPost, "/api/standards", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)

	rec, _ = f.do(t, http.MethodPost, "/api/standards", body, map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, resp = f.do(t, http.MethodPost, "/api/standards", body, admin())
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
}

func TestStandards(t *testing.T) {
	f := setup(t)

	rec, resp := f.do(t, http.MethodGet, "/api/standards", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Standard
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, model.PMBOK, list[0].Name)

	rec, _ = f.do(t, http.MethodGet, "/api/standards/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	dup := map[string]any{"name": "PMBOK", "fullName": "x", "version": "1", "description": "d", "fileName": "a.pdf", "fileType": "pdf"}
	rec, _ = f.do(t, http.MethodPost, "/api/standards", dup, admin())
	assert.Equal(t, http.StatusConflict, rec.Code)

	bad := map[string]any{"name": "SCRUM", "fullName": "x", "version": "1", "description": "d", "fileName": "a.pdf", "fileType": "pdf"}
	rec, _ = f.do(t, http.MethodPost, "/api/standards", bad, admin())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/api/standards/"+f.std.ID, nil, admin())
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodGet, "/api/sections/"+f.section.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSections(t *testing.T) {
	f := setup(t)

	rec, resp := f.do(t, http.MethodGet, "/api/sections?standardId="+f.std.ID+"&search=integrity", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Section
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, f.section.ID, list[0].ID)

	rec, resp = f.do(t, http.MethodGet, "/api/sections?search=nothing-like-this", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(resp.Data))

	rec, _ = f.do(t, http.MethodGet, "/api/sections?level=9", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormattedSection(t *testing.T) {
	f := setup(t)

	rec, resp := f.do(t, http.MethodGet, "/api/sections/"+f.section.ID+"/formatted", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Blocks []struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"blocks"`
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	require.Len(t, out.Blocks, 4)
	assert.Equal(t, "heading", out.Blocks[0].Kind)
	assert.Equal(t, "paragraph", out.Blocks[1].Kind)
	assert.Equal(t, 2, out.Counts["bullet"])

	rec, _ = f.do(t, http.MethodGet, "/api/sections/"+f.section.ID+"/formatted?format=html", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<p>Integrity</p>")

	rec, _ = f.do(t, http.MethodGet, "/api/sections/"+f.section.ID+"/formatted?format=pdf", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormatText(t *testing.T) {
	f := setup(t)
	rec, resp := f.do(t, http.MethodPost, "/api/format", map[string]string{"text": "Note: keep it short\n\n• one"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"callout"`)
	assert.Contains(t, string(resp.Data), `"blank"`)
}

func TestProcessGenerator(t *testing.T) {
	f := setup(t)

	t.Run("exact", func(t *testing.T) {
		q := model.Facets{ProjectType: "Software Development", ProjectSize: "Small", Complexity: "Low", Industry: "Technology"}
		rec, resp := f.do(t, http.MethodPost, "/api/process-generator", q, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, resp.Message)
		assert.Contains(t, string(resp.Data), "Agile Software Delivery")
	})

	t.Run("closest", func(t *testing.T) {
		q := model.Facets{ProjectType: "Construction", ProjectSize: "Small", Complexity: "Low", Industry: "Energy"}
		rec, resp := f.do(t, http.MethodPost, "/api/process-generator", q, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, msgClosestMatch, resp.Message)
		assert.Contains(t, string(resp.Data), "Construction Stage Plan")
	})

	t.Run("none", func(t *testing.T) {
		q := model.Facets{ProjectType: "Research", ProjectSize: "Small", Complexity: "Low", Industry: "Education"}
		rec, resp := f.do(t, http.MethodPost, "/api/process-generator", q, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, resp.Success)
		assert.Equal(t, msgNoMatch, resp.Error)
	})
}

func TestExportTemplate(t *testing.T) {
	f := setup(t)
	list, err := f.store.Templates().List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, list)
	id := list[0].ID

	rec, _ := f.do(t, http.MethodGet, "/api/process-templates/"+id+"/export?format=markdown", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "# "+list[0].Name)

	rec, _ = f.do(t, http.MethodGet, "/api/process-templates/"+id+"/export?format=docx", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/process-templates/missing/export", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookmarks(t *testing.T) {
	f := setup(t)

	rec, _ := f.do(t, http.MethodGet, "/api/bookmarks", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, resp := f.do(t, http.MethodPost, "/api/sessions", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &sess))
	require.NoError(t, session.Validate(sess.Token))

	mine := map[string]string{session.Header: sess.Token}
	other := map[string]string{session.Header: session.New()}

	rec, resp = f.do(t, http.MethodPost, "/api/bookmarks", map[string]string{"sectionId": f.section.ID, "note": "read later"}, mine)
	require.Equal(t, http.StatusCreated, rec.Code)
	var b model.Bookmark
	require.NoError(t, json.Unmarshal(resp.Data, &b))
	assert.Equal(t, f.section.Title, b.SectionTitle)
	assert.Equal(t, f.std.ID, b.StandardID)
	require.NotNil(t, b.PageNumber)
	assert.Equal(t, 24, *b.PageNumber)

	rec, _ = f.do(t, http.MethodPost, "/api/bookmarks", map[string]string{"sectionId": "missing"}, mine)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, resp = f.do(t, http.MethodGet, "/api/bookmarks", nil, other)
	assert.JSONEq(t, `[]`, string(resp.Data))

	rec, _ = f.do(t, http.MethodDelete, "/api/bookmarks/"+b.ID, nil, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, resp = f.do(t, http.MethodGet, "/api/bookmarks", nil, mine)
	var list []model.Bookmark
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Len(t, list, 1)

	rec, _ = f.do(t, http.MethodDelete, "/api/bookmarks/"+b.ID, nil, mine)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestComparisonsAndInsights(t *testing.T) {
	f := setup(t)
	body := model.Comparison{
		Topic:        "Risk Management",
		Category:     "Knowledge Areas",
		Similarities: []string{"Both keep a risk register."},
	}

	rec, resp := f.do(t, http.MethodPost, "/api/comparisons", body, admin())
	require.Equal(t, http.StatusCreated, rec.Code, resp.Error)
	var created model.Comparison
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	rec, _ = f.do(t, http.MethodPost, "/api/comparisons", body, admin())
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, resp = f.do(t, http.MethodGet, "/api/comparisons?category=Knowledge%20Areas", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), "Risk Management")

	rec, resp = f.do(t, http.MethodGet, "/api/insights", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"totalTopics":1`)

	rec, _ = f.do(t, http.MethodDelete, "/api/comparisons/"+created.ID, nil, admin())
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodGet, "/api/comparisons/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportFlow(t *testing.T) {
	f := setup(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "pmbok.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("PROJECT DELIVERY PRINCIPLES\nStewards deliver value.\n\nSection 1 Team\nBuild a collaborative team environment.\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/standards/"+f.std.ID+"/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAdminKey)
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	var accepted struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &accepted))
	require.NotEmpty(t, accepted.JobID)

	job := f.orch.GetJob(accepted.JobID)
	require.NotNil(t, job)
	select {
	case <-job.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("import did not finish")
	}

	rec, resp = f.do(t, http.MethodGet, accepted.PollURL, nil, admin())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"status":"completed"`)

	secs, err := f.store.Sections().List(context.Background(), model.SectionFilter{StandardID: f.std.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, secs)
	for _, s := range secs {
		assert.NotEqual(t, f.section.ID, s.ID, "old sections should be replaced")
	}

	rec, _ = f.do(t, http.MethodGet, "/api/import/unknown/status", nil, admin())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp = f.do(t, http.MethodGet, "/api/stats/imports", nil, admin())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"queue_depth"`)
}

func TestImportRejectsUnsupportedType(t *testing.T) {
	f := setup(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "data.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("a,b\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/standards/"+f.std.ID+"/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAdminKey)
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
