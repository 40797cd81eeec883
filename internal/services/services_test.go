package services

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/codetrail/internal/challenge"
	"github.com/vytor/codetrail/internal/content"
	"github.com/vytor/codetrail/internal/errors"
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/progress"
	"github.com/vytor/codetrail/internal/testutil"
	"github.com/vytor/codetrail/internal/testutil/mocks"
)

type staticCatalog map[string]models.Exercise

func (c staticCatalog) Get(id string) (models.Exercise, bool) {
	ex, ok := c[id]
	return ex, ok
}

func (c staticCatalog) List(filter content.Filter) []models.Exercise {
	var out []models.Exercise
	for _, ex := range c {
		if filter.Topic == "" || ex.Topic == filter.Topic {
			out = append(out, ex)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func choiceExercise() models.Exercise {
	return models.Exercise{
		ID:             "mc",
		Type:           models.ExerciseMultipleChoice,
		Topic:          "types",
		BaseXP:         100,
		PerfectScoreXP: 25,
		Hints:          []string{"first", "second"},
		MultipleChoice: &models.MultipleChoice{Options: []models.Option{
			{ID: "a", Text: "A", Correct: true},
			{ID: "b", Text: "B"},
			{ID: "c", Text: "C", Correct: true},
			{ID: "d", Text: "D"},
		}},
	}
}

func predictionExercise(id string) models.Exercise {
	return models.Exercise{
		ID:               id,
		Type:             models.ExerciseOutputPrediction,
		Topic:            "operators",
		BaseXP:           40,
		OutputPrediction: &models.OutputPrediction{ExpectedOutput: "3"},
	}
}

var clock = time.Date(2025, 3, 11, 15, 0, 0, 0, time.UTC)

func newExerciseService(t *testing.T, ledger *progress.Ledger) *exerciseService {
	t.Helper()
	svc := NewExerciseService(staticCatalog{
		"mc": choiceExercise(),
		"op": predictionExercise("op"),
	}, ledger, nil, 7).(*exerciseService)
	svc.now = func() time.Time { return clock }
	return svc
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestExerciseService_ViewHidesAnswers(t *testing.T) {
	svc := newExerciseService(t, progress.NewLedger(nil))
	ctx := context.Background()

	view, err := svc.GetExercise(ctx, "alice", "mc")
	require.NoError(t, err)
	assert.Equal(t, 2, view.HintCount)
	assert.True(t, view.MultiPick)
	require.Len(t, view.Options, 4)

	again, err := svc.GetExercise(ctx, "alice", "mc")
	require.NoError(t, err)
	assert.Equal(t, view.Options, again.Options, "option order is stable per user")

	op, err := svc.GetExercise(ctx, "alice", "op")
	require.NoError(t, err)
	assert.Equal(t, models.OutputValue, op.Kind)

	_, err = svc.GetExercise(ctx, "alice", "nope")
	assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))
}

func TestExerciseService_ListExercises(t *testing.T) {
	svc := newExerciseService(t, progress.NewLedger(nil))

	views, err := svc.ListExercises(context.Background(), "alice", content.Filter{Topic: "operators"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "op", views[0].ID)

	_, err = svc.ListExercises(context.Background(), "alice", content.Filter{Type: "essay"})
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
}

func TestExerciseService_GetHint(t *testing.T) {
	svc := newExerciseService(t, progress.NewLedger(nil))

	hint, err := svc.GetHint(context.Background(), "mc", 2)
	require.NoError(t, err)
	assert.Equal(t, "second", hint.Text)
	assert.Equal(t, 2, hint.Total)

	_, err = svc.GetHint(context.Background(), "mc", 3)
	assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))
	_, err = svc.GetHint(context.Background(), "mc", 0)
	assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))
}

func TestExerciseService_Submit(t *testing.T) {
	ledger := progress.NewLedger(nil)
	svc := newExerciseService(t, ledger)
	ctx := context.Background()

	sub, err := svc.Submit(ctx, "alice", "mc", models.SubmitRequest{
		Answer: models.Answer{Selected: []string{"a", "c"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sub.AttemptID)
	assert.True(t, sub.Result.IsCorrect)
	assert.Equal(t, models.FeedbackSuccess, sub.Feedback.Type)
	assert.Equal(t, 125, sub.Feedback.EarnedXP)
	assert.True(t, sub.Progress.Completed)
	require.NotNil(t, sub.Progress.MasteredAt)

	sub, err = svc.Submit(ctx, "alice", "mc", models.SubmitRequest{
		Answer:    models.Answer{Selected: []string{"a", "b"}},
		HintsUsed: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, sub.Result.Score)
	assert.Equal(t, models.FeedbackIncorrect, sub.Feedback.Type)
	assert.Contains(t, sub.Feedback.CorrectAnswer, "a: A")
	assert.Equal(t, 2, sub.Progress.AttemptsCount)
	assert.True(t, sub.Progress.Completed)

	stats, err := svc.GetStatistics(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CompletedCount)
	assert.Equal(t, 125, stats.TotalXP)
	assert.Equal(t, 2, stats.AttemptsCount)

	p, err := svc.GetProgress(ctx, "alice", "mc")
	require.NoError(t, err)
	assert.Equal(t, 2, p.AttemptsCount)

	attempts, err := svc.ListAttempts(ctx, models.AttemptFilter{UserID: "alice", OrderDir: "asc"})
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.True(t, attempts[0].Result.IsCorrect)
	assert.True(t, clock.Equal(attempts[0].Timestamp))
}

func TestExerciseService_SubmitRejectsBadRequests(t *testing.T) {
	svc := newExerciseService(t, progress.NewLedger(nil))
	ctx := context.Background()

	_, err := svc.Submit(ctx, "", "mc", models.SubmitRequest{})
	assert.Equal(t, errors.ErrCodeUnauthorized, appCode(t, err))

	_, err = svc.Submit(ctx, "alice", "missing", models.SubmitRequest{})
	assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))

	_, err = svc.Submit(ctx, "alice", "mc", models.SubmitRequest{HintsUsed: -1})
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))

	_, err = svc.Submit(ctx, "alice", "mc", models.SubmitRequest{HintsUsed: 3})
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))

	_, err = svc.Submit(ctx, "alice", "mc", models.SubmitRequest{TimeSpentSeconds: -5})
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))

	_, err = svc.GetProgress(ctx, "alice", "mc")
	assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))

	_, err = svc.ListAttempts(ctx, models.AttemptFilter{UserID: "alice", Limit: 1000})
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
	_, err = svc.ListAttempts(ctx, models.AttemptFilter{UserID: "alice", OrderDir: "sideways"})
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
}

func TestExerciseService_MalformedContentStillGrades(t *testing.T) {
	ledger := progress.NewLedger(nil)
	svc := NewExerciseService(staticCatalog{
		"broken": {ID: "broken", Type: models.ExerciseBugFix, BaseXP: 10},
	}, ledger, nil, 0)

	sub, err := svc.Submit(context.Background(), "alice", "broken", models.SubmitRequest{
		Answer: models.Answer{Code: "anything"},
	})
	require.NoError(t, err)
	assert.False(t, sub.Result.IsCorrect)
	assert.Equal(t, 0, sub.Result.Score)
	assert.Equal(t, 0, sub.Feedback.EarnedXP)
}

func rotation() []models.RotationEntry {
	return []models.RotationEntry{
		{Title: "zero", BonusXP: 20, Exercise: predictionExercise("daily-0")},
		{Title: "one", BonusXP: 30, Exercise: predictionExercise("daily-1")},
	}
}

func newChallengeTestService(t *testing.T, ledger *progress.Ledger, now *time.Time) *challengeService {
	t.Helper()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rotator, err := challenge.NewRotator(start, rotation())
	require.NoError(t, err)
	return newChallengeService(rotator, ledger, nil, time.UTC, 0, func() time.Time { return *now })
}

func TestChallengeService_TodayAndPreview(t *testing.T) {
	now := clock
	svc := newChallengeTestService(t, progress.NewLedger(nil), &now)
	ctx := context.Background()

	today, err := svc.Today(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", today.Date)
	assert.Equal(t, 0, today.Index)
	assert.Equal(t, "daily-0", today.Exercise.ID)

	byDate, err := svc.ForDate(ctx, "alice", "2025-03-12")
	require.NoError(t, err)
	assert.Equal(t, "one", byDate.Title)

	_, err = svc.ForDate(ctx, "alice", "12/03/2025")
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))

	preview, err := svc.Preview(ctx, "alice", 3)
	require.NoError(t, err)
	require.Len(t, preview, 3)
	assert.Equal(t, []string{"2025-03-11", "2025-03-12", "2025-03-13"},
		[]string{preview[0].Date, preview[1].Date, preview[2].Date})
	assert.Equal(t, preview[0].Exercise.ID, preview[2].Exercise.ID)

	_, err = svc.Preview(ctx, "alice", 0)
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
	_, err = svc.Preview(ctx, "alice", MaxPreviewDays+1)
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
}

func TestChallengeService_SubmitAdvancesStreakOncePerDay(t *testing.T) {
	now := clock
	ledger := progress.NewLedger(nil)
	svc := newChallengeTestService(t, ledger, &now)
	ctx := context.Background()
	correct := models.SubmitRequest{Answer: models.Answer{Prediction: "3"}}

	sub, err := svc.Submit(ctx, "alice", "2025-03-11", correct)
	require.NoError(t, err)
	assert.True(t, sub.StreakAdvanced)
	assert.Equal(t, 1, sub.Streak.CurrentStreak)
	assert.Equal(t, 20, sub.ChallengeBonusXP)
	assert.Equal(t, 0, sub.StreakBonusXP)
	assert.Equal(t, 60, sub.Feedback.EarnedXP)

	again, err := svc.Submit(ctx, "alice", "2025-03-11", correct)
	require.NoError(t, err)
	assert.False(t, again.StreakAdvanced)
	assert.Equal(t, 1, again.Streak.CurrentStreak)
	assert.Equal(t, 40, again.Feedback.EarnedXP)

	now = clock.Add(24 * time.Hour)
	next, err := svc.Submit(ctx, "alice", "2025-03-12", correct)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Streak.CurrentStreak)
	assert.Equal(t, 30, next.ChallengeBonusXP)

	stats := ledger.Statistics("alice")
	assert.Equal(t, 60+40+70, stats.TotalXP)
}

func TestChallengeService_StreakBonusTier(t *testing.T) {
	now := clock
	ledger := progress.NewLedger(nil)
	ledger.Restore(context.Background(), "alice", nil, &models.ChallengeStreak{
		CurrentStreak: 6, LongestStreak: 6, LastCompletedDate: "2025-03-10", TotalChallengesCompleted: 6,
	})
	svc := newChallengeTestService(t, ledger, &now)

	sub, err := svc.Submit(context.Background(), "alice", "2025-03-11", models.SubmitRequest{Answer: models.Answer{Prediction: "3"}})
	require.NoError(t, err)
	assert.Equal(t, 7, sub.Streak.CurrentStreak)
	assert.Equal(t, 50, sub.StreakBonusXP)
	assert.Equal(t, 40+20+50, sub.Feedback.EarnedXP)
}

func TestChallengeService_SubmitRules(t *testing.T) {
	now := clock
	svc := newChallengeTestService(t, progress.NewLedger(nil), &now)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "alice", "2025-03-12", models.SubmitRequest{})
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err), "future dates are rejected")

	_, err = svc.Submit(ctx, "alice", "2025-03-10", models.SubmitRequest{})
	assert.Equal(t, errors.ErrCodeValidation, appCode(t, err), "past dates are rejected")

	_, err = svc.Submit(ctx, "", "2025-03-11", models.SubmitRequest{})
	assert.Equal(t, errors.ErrCodeUnauthorized, appCode(t, err))

	wrong, err := svc.Submit(ctx, "alice", "2025-03-11", models.SubmitRequest{Answer: models.Answer{Prediction: "4"}})
	require.NoError(t, err)
	assert.False(t, wrong.StreakAdvanced)
	assert.Equal(t, 0, wrong.Streak.CurrentStreak)
	assert.Equal(t, 0, wrong.Feedback.EarnedXP)
}

func TestChallengeService_GetStreak(t *testing.T) {
	now := clock
	ledger := progress.NewLedger(nil)
	ledger.Restore(context.Background(), "alice", nil, &models.ChallengeStreak{
		CurrentStreak: 9, LongestStreak: 12, LastCompletedDate: "2025-03-10", TotalChallengesCompleted: 30,
	})
	ledger.Restore(context.Background(), "bob", nil, &models.ChallengeStreak{
		CurrentStreak: 9, LongestStreak: 9, LastCompletedDate: "2025-03-01", TotalChallengesCompleted: 9,
	})
	svc := newChallengeTestService(t, ledger, &now)
	ctx := context.Background()

	status, err := svc.GetStreak(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.Equal(t, 50, status.CurrentBonusXP)
	require.NotNil(t, status.NextTier)
	assert.Equal(t, 14, status.NextTier.Days)
	assert.Equal(t, 5, status.DaysToNextTier)

	status, err = svc.GetStreak(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.Equal(t, 0, status.CurrentBonusXP)
	assert.Equal(t, 7, status.DaysToNextTier)
}

func TestHydrator_LoadsOncePerUser(t *testing.T) {
	attempts := new(mocks.MockAttemptRepository)
	streaks := new(mocks.MockStreakRepository)
	at := clock.Add(-48 * time.Hour)

	attempts.On("CountByUser", mock.Anything, models.AttemptFilter{UserID: "alice"}).Return(2, nil).Once()
	attempts.On("ListByUser", mock.Anything, mock.MatchedBy(func(f models.AttemptFilter) bool {
		return f.UserID == "alice" && f.OrderDir == "ASC" && f.Offset == 0
	})).Return([]models.ExerciseAttempt{
		testutil.Attempt("a1", "alice", "mc", 50, 0, at),
		testutil.Attempt("a2", "alice", "mc", 100, 0, at.Add(time.Minute)),
	}, nil).Once()
	streaks.On("Get", mock.Anything, "alice").Return(&models.ChallengeStreak{
		UserID: "alice", CurrentStreak: 3, LongestStreak: 3, LastCompletedDate: "2025-03-10", TotalChallengesCompleted: 3,
	}, nil).Once()

	ledger := progress.NewLedger(nil)
	hydrator := NewHydrator(ledger, attempts, streaks)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hydrator.Ensure(context.Background(), "alice")
		}()
	}
	wg.Wait()

	p, ok := ledger.Progress("alice", "mc")
	require.True(t, ok)
	assert.Equal(t, 2, p.AttemptsCount)
	assert.Equal(t, 3, ledger.Streak("alice").CurrentStreak)

	attempts.AssertExpectations(t)
	streaks.AssertExpectations(t)
}

func TestHydrator_FailureLeavesUserUsable(t *testing.T) {
	attempts := new(mocks.MockAttemptRepository)
	streaks := new(mocks.MockStreakRepository)
	attempts.On("CountByUser", mock.Anything, mock.Anything).Return(0, stderrors.New("disk I/O error"))
	streaks.On("Get", mock.Anything, "alice").Return(nil, nil).Maybe()

	ledger := progress.NewLedger(nil)
	svc := NewExerciseService(staticCatalog{"op": predictionExercise("op")}, ledger, NewHydrator(ledger, attempts, streaks), 0)

	sub, err := svc.Submit(context.Background(), "alice", "op", models.SubmitRequest{Answer: models.Answer{Prediction: "3"}})
	require.NoError(t, err)
	assert.True(t, sub.Result.IsCorrect)
	assert.Equal(t, 1, sub.Progress.AttemptsCount)
}

func TestHydrator_RetriesAfterFailure(t *testing.T) {
	attempts := new(mocks.MockAttemptRepository)
	streaks := new(mocks.MockStreakRepository)
	at := clock.Add(-48 * time.Hour)

	attempts.On("CountByUser", mock.Anything, mock.Anything).Return(0, stderrors.New("database is locked")).Once()
	attempts.On("CountByUser", mock.Anything, mock.Anything).Return(1, nil).Once()
	attempts.On("ListByUser", mock.Anything, mock.Anything).Return([]models.ExerciseAttempt{
		testutil.Attempt("old-1", "alice", "op", 100, 0, at),
	}, nil).Once()
	streaks.On("Get", mock.Anything, "alice").Return(&models.ChallengeStreak{
		UserID: "alice", CurrentStreak: 12, LongestStreak: 12, LastCompletedDate: "2025-03-10", TotalChallengesCompleted: 20,
	}, nil)

	ledger := progress.NewLedger(nil)
	hydrator := NewHydrator(ledger, attempts, streaks)
	svc := NewExerciseService(staticCatalog{"op": predictionExercise("op")}, ledger, hydrator, 0)
	ctx := context.Background()

	sub, err := svc.Submit(ctx, "alice", "op", models.SubmitRequest{Answer: models.Answer{Prediction: "3"}})
	require.NoError(t, err)
	assert.Equal(t, 1, sub.Progress.AttemptsCount)
	assert.False(t, ledger.Loaded("alice"))

	p, err := svc.GetProgress(ctx, "alice", "op")
	require.NoError(t, err)
	assert.Equal(t, 2, p.AttemptsCount)
	assert.True(t, ledger.Loaded("alice"))
	assert.Equal(t, 12, ledger.Streak("alice").CurrentStreak)

	attempts.AssertExpectations(t)
}
