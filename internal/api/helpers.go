package api

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vytor/codetrail/internal/challenge"
	"github.com/vytor/codetrail/internal/errors"
	"github.com/vytor/codetrail/internal/models"
)

func queryInt(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidationError(key, "must be an integer")
	}
	return v, nil
}

func queryBool(q url.Values, key string) (*bool, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.NewValidationError(key, "must be true or false")
	}
	return &v, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates (UTC midnight).
func queryTime(q url.Values, key string) (*time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := challenge.ParseDate(raw); err == nil {
		return &t, nil
	}
	return nil, errors.NewValidationError(key, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

func attemptFilter(r *http.Request) (models.AttemptFilter, error) {
	q := r.URL.Query()
	filter := models.AttemptFilter{
		UserID:     userFromContext(r.Context()),
		ExerciseID: q.Get("exercise_id"),
		OrderDir:   q.Get("order"),
	}

	var err error
	if filter.Correct, err = queryBool(q, "correct"); err != nil {
		return filter, err
	}
	if filter.Since, err = queryTime(q, "since"); err != nil {
		return filter, err
	}
	if filter.Limit, err = queryInt(q, "limit", 0); err != nil {
		return filter, err
	}
	if filter.Offset, err = queryInt(q, "offset", 0); err != nil {
		return filter, err
	}
	return filter, nil
}
