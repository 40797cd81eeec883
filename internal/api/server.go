package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/vytor/codetrail/internal/errors"
	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/services"
)

const maxBodyBytes = 1 << 20

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

type Server struct {
	ExerciseService  services.ExerciseService
	ChallengeService services.ChallengeService
	// Health is optional; without it readiness always succeeds.
	Health HealthChecker
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}
