package services

import (
	"context"

	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/progress"
	"github.com/vytor/codetrail/internal/repository"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const hydratePageSize = 500

// Hydrator loads a user's persisted state into the ledger the first time the
// user is seen. Concurrent first requests for one user share a single load.
type Hydrator struct {
	ledger   *progress.Ledger
	attempts repository.AttemptRepository
	streaks  repository.StreakRepository
	group    singleflight.Group
}

// NewHydrator creates a Hydrator. With nil repositories it does nothing.
func NewHydrator(ledger *progress.Ledger, attempts repository.AttemptRepository, streaks repository.StreakRepository) *Hydrator {
	return &Hydrator{ledger: ledger, attempts: attempts, streaks: streaks}
}

// Ensure makes sure userID is loaded. A failed load is logged and retried on
// the user's next request; meanwhile the user continues with local state.
func (h *Hydrator) Ensure(ctx context.Context, userID string) {
	if h == nil || h.attempts == nil || h.streaks == nil || h.ledger.Loaded(userID) {
		return
	}
	log := logger.FromContext(ctx).WithField("user_id", userID)

	_, err, shared := h.group.Do(userID, func() (any, error) {
		if h.ledger.Loaded(userID) {
			return nil, nil
		}

		var (
			attempts []models.ExerciseAttempt
			streak   *models.ChallengeStreak
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			attempts, err = h.loadAttempts(gctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			streak, err = h.streaks.Get(gctx, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if h.ledger.Restore(ctx, userID, attempts, streak) {
			log.Info("hydrated user state: attempts=%d", len(attempts))
		}
		return nil, nil
	})
	if err != nil {
		log.Warn("failed to hydrate user state (shared=%v): %v", shared, err)
	}
}

func (h *Hydrator) loadAttempts(ctx context.Context, userID string) ([]models.ExerciseAttempt, error) {
	total, err := h.attempts.CountByUser(ctx, models.AttemptFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	out := make([]models.ExerciseAttempt, 0, total)
	for len(out) < total {
		page, err := h.attempts.ListByUser(ctx, models.AttemptFilter{
			UserID:   userID,
			OrderDir: "ASC",
			Limit:    hydratePageSize,
			Offset:   len(out),
		})
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		out = append(out, page...)
	}
	return out, nil
}
