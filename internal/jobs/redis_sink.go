package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/models"
)

// Record kinds written to the stream's "kind" field.
const (
	KindAttempt  = "attempt"
	KindProgress = "progress"
	KindStreak   = "streak"
)

// DefaultStreamMaxLen caps the stream length (approximate trimming).
const DefaultStreamMaxLen = 100000

// StreamAdder is the subset of *redis.Client used by RedisSink.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisSink appends each record as a JSON payload to a Redis stream, where
// the remote sync service consumes it.
type RedisSink struct {
	client StreamAdder
	stream string
	maxLen int64
	log    *logger.Logger
}

// NewRedisSink creates a RedisSink writing to stream.
func NewRedisSink(client StreamAdder, stream string) *RedisSink {
	return &RedisSink{
		client: client,
		stream: stream,
		maxLen: DefaultStreamMaxLen,
		log:    logger.Default().WithPrefix("redis-sink"),
	}
}

func (s *RedisSink) SaveAttempt(ctx context.Context, attempt models.ExerciseAttempt) error {
	return s.add(ctx, KindAttempt, attempt.UserID, attempt)
}

func (s *RedisSink) SaveProgress(ctx context.Context, progress models.ExerciseProgress) error {
	return s.add(ctx, KindProgress, progress.UserID, progress)
}

func (s *RedisSink) SaveStreak(ctx context.Context, streak models.ChallengeStreak) error {
	return s.add(ctx, KindStreak, streak.UserID, streak)
}

func (s *RedisSink) add(ctx context.Context, kind, userID string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}

	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{
			"kind":    kind,
			"user_id": userID,
			"payload": string(payload),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	s.log.Debug("appended %s record: user_id=%s, id=%s", kind, userID, id)
	return nil
}
