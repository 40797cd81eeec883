package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/codetrail/internal/models"
)

// MockAttemptRepository is a mock implementation of repository.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Insert(ctx context.Context, attempt models.ExerciseAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) ListByUser(ctx context.Context, filter models.AttemptFilter) ([]models.ExerciseAttempt, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExerciseAttempt), args.Error(1)
}

func (m *MockAttemptRepository) CountByUser(ctx context.Context, filter models.AttemptFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}
