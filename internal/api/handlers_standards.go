package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/pmguide/internal/model"
	"github.com/dgallion1/pmguide/internal/parser"
	"github.com/dgallion1/pmguide/internal/pipeline"
)

func (s *Server) handleListStandards(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.Standards().List(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, orEmpty(list), "")
}

func (s *Server) handleGetStandard(w http.ResponseWriter, r *http.Request) {
	std, err := s.repo.Standards().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, std, "")
}

func (s *Server) handleCreateStandard(w http.ResponseWriter, r *http.Request) {
	var std model.Standard
	if err := decodeJSON(w, r, &std); err != nil {
		s.storeError(w, r, err)
		return
	}
	std.ID = ""
	if err := s.repo.Standards().Create(r.Context(), &std); err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusCreated, std, "")
}

func (s *Server) handleUpdateStandard(w http.ResponseWriter, r *http.Request) {
	var std model.Standard
	if err := decodeJSON(w, r, &std); err != nil {
		s.storeError(w, r, err)
		return
	}
	std.ID = chi.URLParam(r, "id")
	if err := s.repo.Standards().Update(r.Context(), &std); err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, std, "")
}

func (s *Server) handleDeleteStandard(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Standards().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storeError(w, r, err)
		return
	}
	jsonOK(w, http.StatusOK, map[string]any{}, "")
}

// handleImport queues an uploaded standards file for sectioning. The
// standard's existing sections are replaced once the job completes.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	std, err := s.repo.Standards().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	// Limit total request size; the extra 1MB covers form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %q", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	job := pipeline.NewJob(std.ID, string(std.Name), filename, data)
	if err := s.orchestrator.Submit(job); err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) || errors.Is(err, pipeline.ErrStopped) {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		s.storeError(w, r, err)
		return
	}

	snap := job.Snapshot()
	jsonOK(w, http.StatusAccepted, map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/import/%s/status", snap.ID),
	}, "")
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	jsonOK(w, http.StatusOK, job.Snapshot(), "")
}

func (s *Server) handleImportStats(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, http.StatusOK, map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"jobs":        s.orchestrator.Stats(),
	}, "")
}
