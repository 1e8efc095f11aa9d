package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/pmguide/internal/export"
	"github.com/dgallion1/pmguide/internal/matcher"
	"github.com/dgallion1/pmguide/internal/model"
)

const (
	msgClosestMatch = "No exact match found. Showing closest match."
	msgNoMatch      = "No matching process found. Please try different criteria."
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.Templates().List(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, orEmpty(list), "")
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var t model.ProcessTemplate
	if err := decodeJSON(w, r, &t); err != nil {
		s.storeError(w, r, err)
		return
	}
	t.ID = ""
	if err := s.repo.Templates().Create(r.Context(), &t); err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusCreated, t, "")
}

// handleExportTemplate streams a template as a file download.
func (s *Server) handleExportTemplate(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	t, err := s.repo.Templates().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	doc, err := export.Export(t, format)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(doc.Filename))
	_, _ = w.Write(doc.Body)
}

// handleGenerateProcess picks the template best matching the requested
// project facets.
func (s *Server) handleGenerateProcess(w http.ResponseWriter, r *http.Request) {
	var q matcher.Query
	if err := decodeJSON(w, r, &q); err != nil {
		s.storeError(w, r, err)
		return
	}
	candidates, err := s.repo.Templates().Candidates(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	res := matcher.Match(q, candidates)
	s.log.Info("process match",
		"kind", res.Kind.String(),
		"matched_on", res.MatchedOn,
		"candidates", len(candidates),
	)
	switch res.Kind {
	case matcher.Exact:
		jsonOK(w, http.StatusOK, res.Template, "")
	case matcher.Closest:
		jsonOK(w, http.StatusOK, res.Template, msgClosestMatch)
	default:
		jsonError(w, msgNoMatch, http.StatusNotFound)
	}
}
