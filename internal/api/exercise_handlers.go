package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/codetrail/internal/content"
	"github.com/vytor/codetrail/internal/errors"
	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/models"
)

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := content.Filter{
		Type:       models.ExerciseType(q.Get("type")),
		Topic:      q.Get("topic"),
		Difficulty: models.Difficulty(q.Get("difficulty")),
	}

	views, err := s.ExerciseService.ListExercises(r.Context(), userFromContext(r.Context()), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"exercises": views})
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	view, err := s.ExerciseService.GetExercise(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleGetHint(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid hint number"))
		return
	}

	hint, err := s.ExerciseService.GetHint(r.Context(), chi.URLParam(r, "id"), n)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hint)
}

func (s *Server) handleSubmitExercise(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req models.SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	exerciseID := chi.URLParam(r, "id")
	sub, err := s.ExerciseService.Submit(r.Context(), userFromContext(r.Context()), exerciseID, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("submission graded: exercise_id=%s, score=%d", exerciseID, sub.Result.Score)
	writeJSON(w, r, http.StatusOK, sub)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.ExerciseService.GetProgress(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	filter, err := attemptFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	attempts, err := s.ExerciseService.ListAttempts(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if attempts == nil {
		attempts = []models.ExerciseAttempt{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"attempts": attempts})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ExerciseService.GetStatistics(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
