package jobs

import (
	"context"
	"errors"

	"github.com/vytor/codetrail/internal/models"
)

// Sink receives ledger records bound for durable storage. Implementations
// may block; wrap them in a QueueSink to keep callers off the write path.
type Sink interface {
	SaveAttempt(ctx context.Context, attempt models.ExerciseAttempt) error
	SaveProgress(ctx context.Context, progress models.ExerciseProgress) error
	SaveStreak(ctx context.Context, streak models.ChallengeStreak) error
}

// Discard is a Sink that drops every record.
var Discard Sink = discard{}

type discard struct{}

func (discard) SaveAttempt(context.Context, models.ExerciseAttempt) error   { return nil }
func (discard) SaveProgress(context.Context, models.ExerciseProgress) error { return nil }
func (discard) SaveStreak(context.Context, models.ChallengeStreak) error    { return nil }

// MultiSink writes each record to every sink in order. A failing sink does
// not stop the others; their errors are joined.
type MultiSink []Sink

func (m MultiSink) SaveAttempt(ctx context.Context, attempt models.ExerciseAttempt) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.SaveAttempt(ctx, attempt))
	}
	return errors.Join(errs...)
}

func (m MultiSink) SaveProgress(ctx context.Context, progress models.ExerciseProgress) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.SaveProgress(ctx, progress))
	}
	return errors.Join(errs...)
}

func (m MultiSink) SaveStreak(ctx context.Context, streak models.ChallengeStreak) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.SaveStreak(ctx, streak))
	}
	return errors.Join(errs...)
}
