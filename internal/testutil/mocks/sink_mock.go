package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/codetrail/internal/models"
)

// MockSink is a mock implementation of jobs.Sink
type MockSink struct {
	mock.Mock
}

func (m *MockSink) SaveAttempt(ctx context.Context, attempt models.ExerciseAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockSink) SaveProgress(ctx context.Context, progress models.ExerciseProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockSink) SaveStreak(ctx context.Context, streak models.ChallengeStreak) error {
	args := m.Called(ctx, streak)
	return args.Error(0)
}
