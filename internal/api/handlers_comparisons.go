package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/pmguide/internal/insights"
	"github.com/dgallion1/pmguide/internal/model"
)

func (s *Server) handleListComparisons(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.Comparisons().List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, orEmpty(list), "")
}

func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.Comparisons().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, c, "")
}

func (s *Server) handleCreateComparison(w http.ResponseWriter, r *http.Request) {
	var c model.Comparison
	if err := decodeJSON(w, r, &c); err != nil {
		s.storeError(w, r, err)
		return
	}
	c.ID = ""
	if err := s.repo.Comparisons().Create(r.Context(), &c); err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusCreated, c, "")
}

func (s *Server) handleUpdateComparison(w http.ResponseWriter, r *http.Request) {
	var c model.Comparison
	if err := decodeJSON(w, r, &c); err != nil {
		s.storeError(w, r, err)
		return
	}
	c.ID = chi.URLParam(r, "id")
	if err := s.repo.Comparisons().Update(r.Context(), &c); err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, c, "")
}

func (s *Server) handleDeleteComparison(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Comparisons().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, map[string]any{}, "")
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.Comparisons().List(r.Context(), "")
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, insights.Summarize(list), "")
}
