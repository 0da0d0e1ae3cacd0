// Package handler exposes the parser and its collaborators over a JSON API.
package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/examdoc/examdoc/internal/docx"
	appi18n "github.com/examdoc/examdoc/internal/i18n"
	"github.com/examdoc/examdoc/internal/parser"
	"github.com/examdoc/examdoc/internal/score"
	"github.com/examdoc/examdoc/internal/store"
	"github.com/examdoc/examdoc/internal/validate"
)

// maxUploadBytes caps document uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
	opts  parser.Options
}

// New creates a new Handler.
func New(s *store.Store, opts parser.Options) *Handler {
	return &Handler{store: s, opts: opts}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Post("/api/exams", h.handleUpload)
	r.Get("/api/exams", h.handleList)
	r.Get("/api/exams/{examID}", h.handleGet)
	r.Get("/api/exams/{examID}/validation", h.handleValidation)
	r.Post("/api/exams/{examID}/score", h.handleScore)
	r.Get("/api/exams/{examID}/images/{imageID}", h.handleImage)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload parses an uploaded document and stores the resulting exam.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, appi18n.T(r.Context(), "InvalidUpload"), http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("document")
	if err != nil {
		http.Error(w, appi18n.T(r.Context(), "InvalidUpload"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	opts := h.opts
	if title := r.FormValue("title"); title != "" {
		opts.Title = title
	}
	if tl := r.FormValue("time_limit"); tl != "" {
		if minutes, err := strconv.Atoi(tl); err == nil {
			opts.TimeLimit = minutes
		}
	}

	exam, err := parser.Parse(r.Context(), data, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, docx.ErrInvalidArchive) || errors.Is(err, docx.ErrMissingPart) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	id, err := h.store.SaveExam(exam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	exam.ID = id

	respondJSON(w, http.StatusCreated, exam)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	exams, err := h.store.ListExams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, exams)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	exam, err := h.store.GetExam(chi.URLParam(r, "examID"))
	if err == sql.ErrNoRows {
		http.Error(w, appi18n.T(r.Context(), "ExamNotFound"), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, exam)
}

func (h *Handler) handleValidation(w http.ResponseWriter, r *http.Request) {
	exam, err := h.store.GetExam(chi.URLParam(r, "examID"))
	if err == sql.ErrNoRows {
		http.Error(w, appi18n.T(r.Context(), "ExamNotFound"), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, validate.Check(r.Context(), exam))
}

// scoreRequest is a submitted answer map keyed by encoded question number.
type scoreRequest struct {
	Answers map[string]string `json:"answers"`
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	exam, err := h.store.GetExam(chi.URLParam(r, "examID"))
	if err == sql.ErrNoRows {
		http.Error(w, appi18n.T(r.Context(), "ExamNotFound"), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	answers := make(map[int]string, len(req.Answers))
	for num, answer := range req.Answers {
		n, err := strconv.Atoi(num)
		if err != nil {
			http.Error(w, "answer keys must be question numbers", http.StatusBadRequest)
			return
		}
		answers[n] = answer
	}

	respondJSON(w, http.StatusOK, score.Grade(exam, answers))
}

func (h *Handler) handleImage(w http.ResponseWriter, r *http.Request) {
	payload, contentType, err := h.store.GetImage(chi.URLParam(r, "examID"), chi.URLParam(r, "imageID"))
	if err == sql.ErrNoRows {
		http.Error(w, appi18n.T(r.Context(), "ImageNotFound"), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(payload); err != nil {
		slog.Error("write image response", "error", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
