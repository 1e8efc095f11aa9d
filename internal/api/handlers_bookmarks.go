package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/pmguide/internal/model"
	"github.com/dgallion1/pmguide/internal/session"
)

// handleCreateSession issues a new bookmark token. Nothing is stored
// server side until the token is used.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, http.StatusCreated, map[string]string{
		"token":  session.New(),
		"header": session.Header,
	}, "")
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	token, _ := session.FromContext(r.Context())
	list, err := s.repo.Bookmarks().List(r.Context(), token, r.URL.Query().Get("standardId"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, orEmpty(list), "")
}

type bookmarkRequest struct {
	SectionID  string `json:"sectionId"`
	PageNumber *int   `json:"pageNumber,omitempty"`
	Note       string `json:"note,omitempty"`
}

// handleCreateBookmark pins a section for the caller's session. The
// standard and title are taken from the stored section.
func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	token, _ := session.FromContext(r.Context())

	var req bookmarkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.storeError(w, r, err)
		return
	}
	if req.SectionID == "" {
		jsonError(w, "sectionId is required", http.StatusBadRequest)
		return
	}
	sec, err := s.repo.Sections().Get(r.Context(), req.SectionID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	b := model.Bookmark{
		SessionID:    token,
		StandardID:   sec.StandardID,
		SectionID:    sec.ID,
		SectionTitle: sec.Title,
		PageNumber:   req.PageNumber,
		Note:         req.Note,
	}
	if b.PageNumber == nil {
		b.PageNumber = sec.PageNumber
	}
	if err := s.repo.Bookmarks().Create(r.Context(), &b); err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusCreated, b, "")
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	token, _ := session.FromContext(r.Context())
	if err := s.repo.Bookmarks().Delete(r.Context(), chi.URLParam(r, "id"), token); err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, map[string]any{}, "")
}
