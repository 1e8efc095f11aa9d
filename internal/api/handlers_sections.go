package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/pmguide/internal/formatter"
	"github.com/dgallion1/pmguide/internal/model"
)

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.SectionFilter{
		StandardID: q.Get("standardId"),
		Search:     q.Get("search"),
	}
	if v := q.Get("level"); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil || level < 1 || level > model.MaxSectionLevel {
			jsonError(w, "level must be an integer between 1 and 5", http.StatusBadRequest)
			return
		}
		filter.Level = level
	}

	list, err := s.repo.Sections().List(r.Context(), filter)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, orEmpty(list), "")
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	sec, err := s.repo.Sections().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, sec, "")
}

func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	var sec model.Section
	if err := decodeJSON(w, r, &sec); err != nil {
		s.storeError(w, r, err)
		return
	}
	sec.ID = ""
	if err := s.repo.Sections().Create(r.Context(), &sec); err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusCreated, sec, "")
}

type formattedSection struct {
	ID     string                 `json:"_id"`
	Title  string                 `json:"title"`
	Blocks []formatter.Block      `json:"blocks"`
	Counts map[formatter.Kind]int `json:"counts"`
}

// handleFormattedSection classifies a section's content into display
// blocks, as JSON or as an HTML fragment (?format=html).
func (s *Server) handleFormattedSection(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "html" {
		jsonError(w, "format must be json or html", http.StatusBadRequest)
		return
	}

	sec, err := s.repo.Sections().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	blocks := formatter.Format(sec.Content)

	if format == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := formatter.RenderHTML(w, blocks); err != nil {
			s.log.Error("render section failed", "section_id", sec.ID, "error", err)
		}
		return
	}
	jsonOK(w, http.StatusOK, formattedSection{
		ID:     sec.ID,
		Title:  sec.Title,
		Blocks: blocks,
		Counts: formatter.Counts(blocks),
	}, "")
}

type formatRequest struct {
	Text string `json:"text"`
}

// handleFormatText classifies arbitrary text, for previewing content
// before it is stored.
func (s *Server) handleFormatText(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.storeError(w, r, err)
		return
	}
	blocks := formatter.Format(req.Text)
	jsonOK(w, http.StatusOK, map[string]any{
		"blocks": blocks,
		"counts": formatter.Counts(blocks),
	}, "")
}
