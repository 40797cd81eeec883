package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/codetrail/internal/models"
)

// MockStreakRepository is a mock implementation of repository.StreakRepository
type MockStreakRepository struct {
	mock.Mock
}

func (m *MockStreakRepository) Upsert(ctx context.Context, streak models.ChallengeStreak) error {
	args := m.Called(ctx, streak)
	return args.Error(0)
}

func (m *MockStreakRepository) Get(ctx context.Context, userID string) (*models.ChallengeStreak, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChallengeStreak), args.Error(1)
}
