// Package progress keeps the per-user attempt log, the per-exercise
// aggregates folded from it, and challenge streaks.
package progress

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vytor/codetrail/internal/challenge"
	"github.com/vytor/codetrail/internal/jobs"
	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/models"
)

type progressKey struct {
	userID     string
	exerciseID string
}

// Ledger is the in-process store of learner state. Every write updates local
// state first and then hands the changed records to the sink without waiting
// on it; sink failures are logged and otherwise ignored.
type Ledger struct {
	mu       sync.RWMutex
	attempts map[string][]models.ExerciseAttempt
	progress map[progressKey]models.ExerciseProgress
	streaks  map[string]models.ChallengeStreak
	loaded   map[string]bool

	sink jobs.Sink
	log  *logger.Logger
}

// NewLedger creates an empty ledger. A nil sink discards records.
func NewLedger(sink jobs.Sink) *Ledger {
	if sink == nil {
		sink = jobs.Discard
	}
	return &Ledger{
		attempts: make(map[string][]models.ExerciseAttempt),
		progress: make(map[progressKey]models.ExerciseProgress),
		streaks:  make(map[string]models.ChallengeStreak),
		loaded:   make(map[string]bool),
		sink:     sink,
		log:      logger.Default().WithPrefix("ledger"),
	}
}

// RecordAttempt appends attempt to the log and returns the recomputed
// progress of its (user, exercise) pair.
func (l *Ledger) RecordAttempt(ctx context.Context, attempt models.ExerciseAttempt) models.ExerciseProgress {
	l.mu.Lock()
	l.attempts[attempt.UserID] = append(l.attempts[attempt.UserID], attempt)
	p := fold(attempt.UserID, attempt.ExerciseID, l.attempts[attempt.UserID])
	l.progress[progressKey{attempt.UserID, attempt.ExerciseID}] = p
	l.mu.Unlock()

	l.log.WithFields(map[string]any{
		"user_id":     attempt.UserID,
		"exercise_id": attempt.ExerciseID,
	}).Debug("recorded attempt: score=%d, attempts=%d, completed=%v", attempt.Result.Score, p.AttemptsCount, p.Completed)

	l.emit(ctx, "attempt", func(ctx context.Context) error { return l.sink.SaveAttempt(ctx, attempt) })
	l.emit(ctx, "progress", func(ctx context.Context) error { return l.sink.SaveProgress(ctx, p) })
	return p
}

// Progress returns the aggregate for one exercise, if the user attempted it.
func (l *Ledger) Progress(userID, exerciseID string) (models.ExerciseProgress, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.progress[progressKey{userID, exerciseID}]
	return p, ok
}

// AllProgress returns the user's aggregates ordered by exercise id.
func (l *Ledger) AllProgress(userID string) []models.ExerciseProgress {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []models.ExerciseProgress
	for key, p := range l.progress {
		if key.userID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExerciseID < out[j].ExerciseID })
	return out
}

// Attempts returns the user's attempts matching filter. Results are ordered
// by timestamp, newest first unless filter.OrderDir is "ASC".
func (l *Ledger) Attempts(filter models.AttemptFilter) []models.ExerciseAttempt {
	l.mu.RLock()
	var out []models.ExerciseAttempt
	for _, a := range l.attempts[filter.UserID] {
		if filter.ExerciseID != "" && a.ExerciseID != filter.ExerciseID {
			continue
		}
		if filter.Correct != nil && a.Result.IsCorrect != *filter.Correct {
			continue
		}
		if filter.Since != nil && a.Timestamp.Before(*filter.Since) {
			continue
		}
		out = append(out, a)
	}
	l.mu.RUnlock()

	asc := filter.OrderDir == "ASC"
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out
}

// Statistics folds every stored attempt of the user.
func (l *Ledger) Statistics(userID string) models.Statistics {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var (
		stats      models.Statistics
		scoreTotal int
	)
	for _, a := range l.attempts[userID] {
		stats.AttemptsCount++
		stats.TotalXP += a.EarnedXP
		stats.TimeSpentSeconds += a.TimeSpentSeconds
		scoreTotal += a.Result.Score
	}
	if stats.AttemptsCount > 0 {
		stats.AverageScore = float64(scoreTotal) / float64(stats.AttemptsCount)
	}
	for key, p := range l.progress {
		if key.userID != userID {
			continue
		}
		if p.Completed {
			stats.CompletedCount++
		}
		if p.MasteredAt != nil {
			stats.MasteredCount++
		}
	}
	return stats
}

// Streak returns the user's challenge streak. Users who never completed a
// challenge get a zero streak.
func (l *Ledger) Streak(userID string) models.ChallengeStreak {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if s, ok := l.streaks[userID]; ok {
		return s
	}
	return models.ChallengeStreak{UserID: userID}
}

// CompleteChallenge advances the user's streak for a completion on date.
// It reports false when the date was already credited.
func (l *Ledger) CompleteChallenge(ctx context.Context, userID string, date time.Time) (models.ChallengeStreak, bool) {
	l.mu.Lock()
	before, ok := l.streaks[userID]
	if !ok {
		before = models.ChallengeStreak{UserID: userID}
	}
	after := challenge.AdvanceStreak(before, date)
	advanced := after != before
	if advanced {
		l.streaks[userID] = after
	}
	l.mu.Unlock()

	if !advanced {
		l.log.WithField("user_id", userID).Debug("challenge already credited for %s", after.LastCompletedDate)
		return after, false
	}

	l.log.WithField("user_id", userID).Info("streak advanced: current=%d, longest=%d", after.CurrentStreak, after.LongestStreak)
	l.emit(ctx, "streak", func(ctx context.Context) error { return l.sink.SaveStreak(ctx, after) })
	return after, true
}

// Loaded reports whether the user's persisted state has been restored.
// Recording attempts or completions does not mark a user loaded.
func (l *Ledger) Loaded(userID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded[userID]
}

// Restore installs previously persisted state for a user whose state is not
// loaded yet. Attempts must be ordered oldest first. It reports false and
// changes nothing when the user is already loaded.
//
// Attempts and completions recorded locally before the restore are merged
// into the persisted state. The aggregates they affect are sent to the sink
// again, since the copies written before the restore were computed without
// the persisted history.
func (l *Ledger) Restore(ctx context.Context, userID string, attempts []models.ExerciseAttempt, streak *models.ChallengeStreak) bool {
	l.mu.Lock()
	if l.loaded[userID] {
		l.mu.Unlock()
		return false
	}

	local := l.attempts[userID]
	history := make([]models.ExerciseAttempt, 0, len(attempts)+len(local))
	history = append(history, attempts...)
	known := make(map[string]bool, len(attempts))
	for _, a := range attempts {
		known[a.ID] = true
	}
	touched := make(map[string]bool)
	merged := false
	for _, a := range local {
		touched[a.ExerciseID] = true
		if !known[a.ID] {
			history = append(history, a)
			merged = true
		}
	}
	if merged {
		sort.SliceStable(history, func(i, j int) bool { return history[i].Timestamp.Before(history[j].Timestamp) })
	}
	l.attempts[userID] = history

	seen := make(map[string]bool)
	var changed []models.ExerciseProgress
	for _, a := range history {
		if seen[a.ExerciseID] {
			continue
		}
		seen[a.ExerciseID] = true
		p := fold(userID, a.ExerciseID, history)
		l.progress[progressKey{userID, a.ExerciseID}] = p
		if touched[a.ExerciseID] {
			changed = append(changed, p)
		}
	}

	restored := models.ChallengeStreak{UserID: userID}
	if streak != nil {
		restored = *streak
		restored.UserID = userID
	}
	current := restored
	if live, ok := l.streaks[userID]; ok {
		current = mergeStreak(restored, live)
	}
	if streak != nil || current != restored {
		l.streaks[userID] = current
	}
	l.loaded[userID] = true
	l.mu.Unlock()

	for _, p := range changed {
		l.emit(ctx, "progress", func(ctx context.Context) error { return l.sink.SaveProgress(ctx, p) })
	}
	if current != restored {
		l.emit(ctx, "streak", func(ctx context.Context) error { return l.sink.SaveStreak(ctx, current) })
	}
	return true
}

// mergeStreak replays completions made before a restore onto the persisted
// streak. The local run is the CurrentStreak consecutive days ending at its
// LastCompletedDate; earlier local completions only add to the total.
func mergeStreak(persisted, local models.ChallengeStreak) models.ChallengeStreak {
	last, err := challenge.ParseDate(local.LastCompletedDate)
	if err != nil || local.CurrentStreak <= 0 {
		return persisted
	}
	persistedLast, perr := challenge.ParseDate(persisted.LastCompletedDate)

	merged := persisted
	for i := local.CurrentStreak - 1; i >= 0; i-- {
		d := last.AddDate(0, 0, -i)
		if perr == nil && !d.After(persistedLast) {
			continue
		}
		merged = challenge.AdvanceStreak(merged, d)
	}
	if earlier := local.TotalChallengesCompleted - local.CurrentStreak; earlier > 0 {
		merged.TotalChallengesCompleted += earlier
	}
	merged.LongestStreak = max(merged.LongestStreak, local.LongestStreak)
	return merged
}

func (l *Ledger) emit(ctx context.Context, record string, save func(context.Context) error) {
	if err := save(context.WithoutCancel(ctx)); err != nil {
		logger.FromContext(ctx).WithPrefix("ledger").Warn("%s record not persisted: %v", record, err)
	}
}

// fold computes the progress of one exercise from the user's attempt log.
// Completion is an OR over attempts; mastery is the first correct attempt
// made without hints.
func fold(userID, exerciseID string, history []models.ExerciseAttempt) models.ExerciseProgress {
	p := models.ExerciseProgress{UserID: userID, ExerciseID: exerciseID}
	for _, a := range history {
		if a.ExerciseID != exerciseID {
			continue
		}
		p.AttemptsCount++
		if a.Result.Score > p.BestScore {
			p.BestScore = a.Result.Score
		}
		if a.Result.IsCorrect {
			p.Completed = true
			if a.HintsUsed == 0 && p.MasteredAt == nil {
				at := a.Timestamp
				p.MasteredAt = &at
			}
		}
		if a.Timestamp.After(p.LastAttemptAt) {
			p.LastAttemptAt = a.Timestamp
		}
	}
	return p
}
