package progress_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/progress"
	"github.com/vytor/codetrail/internal/testutil"
	"github.com/vytor/codetrail/internal/testutil/mocks"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestRecordAttempt_FoldsProgress(t *testing.T) {
	ledger := progress.NewLedger(nil)
	ctx := context.Background()

	p := ledger.RecordAttempt(ctx, testutil.Attempt("a1", "alice", "ex-1", 40, 0, base))
	assert.Equal(t, 1, p.AttemptsCount)
	assert.Equal(t, 40, p.BestScore)
	assert.False(t, p.Completed)

	p = ledger.RecordAttempt(ctx, testutil.Attempt("a2", "alice", "ex-1", 100, 1, base.Add(time.Minute)))
	assert.Equal(t, 2, p.AttemptsCount)
	assert.Equal(t, 100, p.BestScore)
	assert.True(t, p.Completed)
	assert.Nil(t, p.MasteredAt, "a correct attempt with hints does not master")

	// A worse later attempt never lowers the best score or un-completes.
	p = ledger.RecordAttempt(ctx, testutil.Attempt("a3", "alice", "ex-1", 10, 0, base.Add(2*time.Minute)))
	assert.Equal(t, 3, p.AttemptsCount)
	assert.Equal(t, 100, p.BestScore)
	assert.True(t, p.Completed)
	assert.True(t, base.Add(2*time.Minute).Equal(p.LastAttemptAt))

	got, ok := ledger.Progress("alice", "ex-1")
	require.True(t, ok)
	assert.Equal(t, p, got)

	_, ok = ledger.Progress("alice", "ex-2")
	assert.False(t, ok)
}

func TestRecordAttempt_DuplicateDoesNotDoubleComplete(t *testing.T) {
	ledger := progress.NewLedger(nil)
	ctx := context.Background()
	attempt := testutil.Attempt("a1", "alice", "ex-1", 100, 0, base)

	ledger.RecordAttempt(ctx, attempt)
	p := ledger.RecordAttempt(ctx, attempt)

	assert.Equal(t, 2, p.AttemptsCount)
	assert.True(t, p.Completed)
	stats := ledger.Statistics("alice")
	assert.Equal(t, 1, stats.CompletedCount)
	assert.Equal(t, 1, stats.MasteredCount)
}

func TestMastery(t *testing.T) {
	ledger := progress.NewLedger(nil)
	ctx := context.Background()

	ledger.RecordAttempt(ctx, testutil.Attempt("a1", "alice", "ex-1", 100, 0, base))
	p := ledger.RecordAttempt(ctx, testutil.Attempt("a2", "alice", "ex-1", 100, 0, base.Add(time.Hour)))

	require.NotNil(t, p.MasteredAt)
	assert.True(t, base.Equal(*p.MasteredAt), "mastery keeps the first qualifying attempt")
}

func TestStatistics(t *testing.T) {
	ledger := progress.NewLedger(nil)
	ctx := context.Background()

	ledger.RecordAttempt(ctx, testutil.Attempt("a1", "alice", "ex-1", 50, 0, base))
	ledger.RecordAttempt(ctx, testutil.Attempt("a2", "alice", "ex-1", 100, 2, base.Add(time.Minute)))
	ledger.RecordAttempt(ctx, testutil.Attempt("a3", "alice", "ex-2", 100, 0, base.Add(2*time.Minute)))
	ledger.RecordAttempt(ctx, testutil.Attempt("b1", "bob", "ex-1", 100, 0, base))

	stats := ledger.Statistics("alice")
	assert.Equal(t, 2, stats.CompletedCount)
	assert.Equal(t, 1, stats.MasteredCount)
	assert.Equal(t, 25, stats.TotalXP)
	assert.Equal(t, 3, stats.AttemptsCount)
	assert.InDelta(t, 83.33, stats.AverageScore, 0.01)
	assert.Equal(t, 90, stats.TimeSpentSeconds)

	assert.Equal(t, models.Statistics{}, ledger.Statistics("carol"))
}

func TestAttempts_FilterAndPage(t *testing.T) {
	ledger := progress.NewLedger(nil)
	ctx := context.Background()

	ledger.RecordAttempt(ctx, testutil.Attempt("a1", "alice", "ex-1", 50, 0, base))
	ledger.RecordAttempt(ctx, testutil.Attempt("a2", "alice", "ex-1", 100, 0, base.Add(time.Minute)))
	ledger.RecordAttempt(ctx, testutil.Attempt("a3", "alice", "ex-2", 100, 0, base.Add(2*time.Minute)))

	all := ledger.Attempts(models.AttemptFilter{UserID: "alice"})
	require.Len(t, all, 3)
	assert.Equal(t, "a3", all[0].ID)

	correct := false
	wrong := ledger.Attempts(models.AttemptFilter{UserID: "alice", Correct: &correct})
	require.Len(t, wrong, 1)
	assert.Equal(t, "a1", wrong[0].ID)

	page := ledger.Attempts(models.AttemptFilter{UserID: "alice", OrderDir: "ASC", Limit: 1, Offset: 1})
	require.Len(t, page, 1)
	assert.Equal(t, "a2", page[0].ID)

	assert.Empty(t, ledger.Attempts(models.AttemptFilter{UserID: "alice", Offset: 10}))
}

func TestCompleteChallenge(t *testing.T) {
	ledger := progress.NewLedger(nil)
	ctx := context.Background()

	assert.Equal(t, models.ChallengeStreak{UserID: "alice"}, ledger.Streak("alice"))

	s, ok := ledger.CompleteChallenge(ctx, "alice", base)
	require.True(t, ok)
	assert.Equal(t, 1, s.CurrentStreak)

	s, ok = ledger.CompleteChallenge(ctx, "alice", base.Add(24*time.Hour))
	require.True(t, ok)
	assert.Equal(t, 2, s.CurrentStreak)

	s, ok = ledger.CompleteChallenge(ctx, "alice", base.Add(25*time.Hour))
	assert.False(t, ok, "same day is not credited twice")
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 2, s.TotalChallengesCompleted)
	assert.Equal(t, s, ledger.Streak("alice"))
}

func TestRecordsReachSinkAndFailuresAreSwallowed(t *testing.T) {
	sink := new(mocks.MockSink)
	sink.On("SaveAttempt", mock.Anything, mock.Anything).Return(errors.New("offline"))
	sink.On("SaveProgress", mock.Anything, mock.MatchedBy(func(p models.ExerciseProgress) bool {
		return p.UserID == "alice" && p.AttemptsCount == 1
	})).Return(nil)
	sink.On("SaveStreak", mock.Anything, mock.MatchedBy(func(s models.ChallengeStreak) bool {
		return s.CurrentStreak == 1
	})).Return(errors.New("offline")).Once()

	ledger := progress.NewLedger(sink)
	ctx := context.Background()

	p := ledger.RecordAttempt(ctx, testutil.Attempt("a1", "alice", "ex-1", 100, 0, base))
	assert.True(t, p.Completed)

	_, ok := ledger.CompleteChallenge(ctx, "alice", base)
	assert.True(t, ok)
	// No-op completions emit nothing.
	ledger.CompleteChallenge(ctx, "alice", base)

	sink.AssertExpectations(t)
	sink.AssertNumberOfCalls(t, "SaveStreak", 1)
}

func TestRestore(t *testing.T) {
	ledger := progress.NewLedger(nil)
	streak := models.ChallengeStreak{CurrentStreak: 4, LongestStreak: 9, LastCompletedDate: "2025-03-09", TotalChallengesCompleted: 12}

	assert.False(t, ledger.Loaded("alice"))
	applied := ledger.Restore(context.Background(), "alice", []models.ExerciseAttempt{
		testutil.Attempt("a1", "alice", "ex-1", 30, 0, base),
		testutil.Attempt("a2", "alice", "ex-1", 100, 0, base.Add(time.Minute)),
		testutil.Attempt("a3", "alice", "ex-2", 60, 0, base.Add(2*time.Minute)),
	}, &streak)
	require.True(t, applied)
	assert.True(t, ledger.Loaded("alice"))

	p, ok := ledger.Progress("alice", "ex-1")
	require.True(t, ok)
	assert.Equal(t, 2, p.AttemptsCount)
	assert.True(t, p.Completed)
	assert.Len(t, ledger.AllProgress("alice"), 2)
	assert.Equal(t, "alice", ledger.Streak("alice").UserID)
	assert.Equal(t, 4, ledger.Streak("alice").CurrentStreak)

	// A second restore never clobbers live state.
	assert.False(t, ledger.Restore(context.Background(), "alice", nil, nil))
	assert.Len(t, ledger.AllProgress("alice"), 2)

	// Continuing the restored streak.
	s, _ := ledger.CompleteChallenge(context.Background(), "alice", base)
	assert.Equal(t, 5, s.CurrentStreak)
}

func TestRestore_MergesStateRecordedBeforeRestore(t *testing.T) {
	sink := new(mocks.MockSink)
	sink.On("SaveAttempt", mock.Anything, mock.Anything).Return(nil)
	sink.On("SaveProgress", mock.Anything, mock.Anything).Return(nil)
	sink.On("SaveStreak", mock.Anything, mock.Anything).Return(nil)

	ledger := progress.NewLedger(sink)
	ctx := context.Background()

	// Recorded while persisted state could not be read.
	ledger.RecordAttempt(ctx, testutil.Attempt("local-1", "alice", "ex-1", 60, 0, base))
	_, ok := ledger.CompleteChallenge(ctx, "alice", base)
	require.True(t, ok)
	assert.False(t, ledger.Loaded("alice"))

	persisted := []models.ExerciseAttempt{
		testutil.Attempt("a1", "alice", "ex-1", 100, 0, base.Add(-48*time.Hour)),
		testutil.Attempt("a2", "alice", "ex-2", 40, 1, base.Add(-47*time.Hour)),
		// Already written through the sink before the restore.
		testutil.Attempt("local-1", "alice", "ex-1", 60, 0, base),
	}
	streak := models.ChallengeStreak{CurrentStreak: 30, LongestStreak: 30, LastCompletedDate: "2025-03-09", TotalChallengesCompleted: 40}
	require.True(t, ledger.Restore(ctx, "alice", persisted, &streak))
	assert.True(t, ledger.Loaded("alice"))

	p, ok := ledger.Progress("alice", "ex-1")
	require.True(t, ok)
	assert.Equal(t, 2, p.AttemptsCount)
	assert.Equal(t, 100, p.BestScore)
	assert.True(t, p.Completed)
	assert.Len(t, ledger.Attempts(models.AttemptFilter{UserID: "alice"}), 3)

	s := ledger.Streak("alice")
	assert.Equal(t, 31, s.CurrentStreak)
	assert.Equal(t, 31, s.LongestStreak)
	assert.Equal(t, "2025-03-10", s.LastCompletedDate)
	assert.Equal(t, 41, s.TotalChallengesCompleted)

	sink.AssertCalled(t, "SaveProgress", mock.Anything, mock.MatchedBy(func(p models.ExerciseProgress) bool {
		return p.ExerciseID == "ex-1" && p.AttemptsCount == 2
	}))
	sink.AssertCalled(t, "SaveStreak", mock.Anything, mock.MatchedBy(func(s models.ChallengeStreak) bool {
		return s.CurrentStreak == 31 && s.TotalChallengesCompleted == 41
	}))
	sink.AssertNotCalled(t, "SaveProgress", mock.Anything, mock.MatchedBy(func(p models.ExerciseProgress) bool {
		return p.ExerciseID == "ex-2"
	}))
}

func TestRestore_PersistedStreakAlreadyCountsLocalCompletion(t *testing.T) {
	sink := new(mocks.MockSink)
	sink.On("SaveStreak", mock.Anything, mock.Anything).Return(nil)

	ledger := progress.NewLedger(sink)
	ctx := context.Background()

	_, ok := ledger.CompleteChallenge(ctx, "alice", base)
	require.True(t, ok)

	streak := models.ChallengeStreak{CurrentStreak: 1, LongestStreak: 1, LastCompletedDate: "2025-03-10", TotalChallengesCompleted: 1}
	require.True(t, ledger.Restore(ctx, "alice", nil, &streak))

	s := ledger.Streak("alice")
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.TotalChallengesCompleted)
	sink.AssertNumberOfCalls(t, "SaveStreak", 1)
}

func TestLedger_ConcurrentWriters(t *testing.T) {
	ledger := progress.NewLedger(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ledger.RecordAttempt(ctx, testutil.Attempt("a", "alice", "ex-1", 100, 0, base))
			ledger.Statistics("alice")
		}()
	}
	wg.Wait()

	p, ok := ledger.Progress("alice", "ex-1")
	require.True(t, ok)
	assert.Equal(t, 50, p.AttemptsCount)
}
