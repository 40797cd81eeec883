package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/codetrail/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Upsert(ctx context.Context, progress models.ExerciseProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) Get(ctx context.Context, userID, exerciseID string) (*models.ExerciseProgress, error) {
	args := m.Called(ctx, userID, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExerciseProgress), args.Error(1)
}

func (m *MockProgressRepository) ListByUser(ctx context.Context, userID string) ([]models.ExerciseProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExerciseProgress), args.Error(1)
}
