package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/codetrail/internal/models"
)

func (s *Server) handleTodayChallenge(w http.ResponseWriter, r *http.Request) {
	view, err := s.ChallengeService.Today(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handlePreviewChallenges(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r.URL.Query(), "days", 7)
	if err != nil {
		handleError(w, r, err)
		return
	}

	views, err := s.ChallengeService.Preview(r.Context(), userFromContext(r.Context()), days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"challenges": views})
}

func (s *Server) handleChallengeForDate(w http.ResponseWriter, r *http.Request) {
	view, err := s.ChallengeService.ForDate(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "date"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleSubmitChallenge(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	sub, err := s.ChallengeService.Submit(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "date"), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sub)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	status, err := s.ChallengeService.GetStreak(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}
