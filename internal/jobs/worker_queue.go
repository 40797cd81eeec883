package jobs

import (
	"context"

	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/worker"
)

// QueueSink hands every record to a worker pool and returns immediately.
// The wrapped sink runs on the pool; its failures are logged there.
type QueueSink struct {
	pool *worker.Pool
	next Sink
	log  *logger.Logger
}

// NewQueueSink creates a QueueSink writing to next through pool
func NewQueueSink(pool *worker.Pool, next Sink) *QueueSink {
	return &QueueSink{
		pool: pool,
		next: next,
		log:  logger.Default().WithPrefix("queue-sink"),
	}
}

func (q *QueueSink) SaveAttempt(ctx context.Context, attempt models.ExerciseAttempt) error {
	return q.submit(&saveAttemptJob{sink: q.next, attempt: attempt})
}

func (q *QueueSink) SaveProgress(ctx context.Context, progress models.ExerciseProgress) error {
	return q.submit(&saveProgressJob{sink: q.next, progress: progress})
}

func (q *QueueSink) SaveStreak(ctx context.Context, streak models.ChallengeStreak) error {
	return q.submit(&saveStreakJob{sink: q.next, streak: streak})
}

func (q *QueueSink) submit(job worker.Job) error {
	if err := q.pool.Submit(job); err != nil {
		q.log.Warn("record not queued: job=%s, err=%v", job.Name(), err)
		return err
	}
	return nil
}

type saveAttemptJob struct {
	sink    Sink
	attempt models.ExerciseAttempt
}

func (j *saveAttemptJob) Name() string { return "save_attempt" }

func (j *saveAttemptJob) Run(ctx context.Context) error {
	return j.sink.SaveAttempt(ctx, j.attempt)
}

type saveProgressJob struct {
	sink     Sink
	progress models.ExerciseProgress
}

func (j *saveProgressJob) Name() string { return "save_progress" }

func (j *saveProgressJob) Run(ctx context.Context) error {
	return j.sink.SaveProgress(ctx, j.progress)
}

type saveStreakJob struct {
	sink   Sink
	streak models.ChallengeStreak
}

func (j *saveStreakJob) Name() string { return "save_streak" }

func (j *saveStreakJob) Run(ctx context.Context) error {
	return j.sink.SaveStreak(ctx, j.streak)
}
