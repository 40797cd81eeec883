package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(userMiddleware)

		r.Get("/exercises", s.handleListExercises)
		r.Get("/exercises/{id}", s.handleGetExercise)
		r.Get("/exercises/{id}/hints/{n}", s.handleGetHint)
		r.Post("/exercises/{id}/submit", s.handleSubmitExercise)
		r.Get("/exercises/{id}/progress", s.handleGetProgress)
		r.Get("/attempts", s.handleListAttempts)
		r.Get("/stats", s.handleStats)

		r.Get("/challenges/today", s.handleTodayChallenge)
		r.Get("/challenges/preview", s.handlePreviewChallenges)
		r.Get("/challenges/{date}", s.handleChallengeForDate)
		r.Post("/challenges/{date}/submit", s.handleSubmitChallenge)
		r.Get("/streak", s.handleStreak)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusNotFound, errorBody{Error: errorDetail{Code: "NOT_FOUND", Message: "route not found"}})
	})
	return r
}
