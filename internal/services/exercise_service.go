package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/codetrail/internal/content"
	"github.com/vytor/codetrail/internal/errors"
	"github.com/vytor/codetrail/internal/feedback"
	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/progress"
	"github.com/vytor/codetrail/internal/validation"
)

const maxAttemptsPage = 200

// ExerciseService handles exercise browsing, grading and progress
type ExerciseService interface {
	ListExercises(ctx context.Context, userID string, filter content.Filter) ([]models.ExerciseView, error)
	GetExercise(ctx context.Context, userID, exerciseID string) (*models.ExerciseView, error)
	GetHint(ctx context.Context, exerciseID string, n int) (*models.Hint, error)
	Submit(ctx context.Context, userID, exerciseID string, req models.SubmitRequest) (*models.Submission, error)
	GetProgress(ctx context.Context, userID, exerciseID string) (*models.ExerciseProgress, error)
	ListAttempts(ctx context.Context, filter models.AttemptFilter) ([]models.ExerciseAttempt, error)
	GetStatistics(ctx context.Context, userID string) (*models.Statistics, error)
}

// Catalog is the read side of the content registry.
type Catalog interface {
	Get(id string) (models.Exercise, bool)
	List(filter content.Filter) []models.Exercise
}

type exerciseService struct {
	catalog     Catalog
	ledger      *progress.Ledger
	hydrator    *Hydrator
	shuffleSeed uint64
	now         func() time.Time
}

// NewExerciseService creates a new ExerciseService
func NewExerciseService(catalog Catalog, ledger *progress.Ledger, hydrator *Hydrator, shuffleSeed uint64) ExerciseService {
	return &exerciseService{
		catalog:     catalog,
		ledger:      ledger,
		hydrator:    hydrator,
		shuffleSeed: shuffleSeed,
		now:         time.Now,
	}
}

func (s *exerciseService) ListExercises(ctx context.Context, userID string, filter content.Filter) ([]models.ExerciseView, error) {
	log := logger.FromContext(ctx)
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, errors.NewValidationError("type", "unknown exercise type")
	}

	exercises := s.catalog.List(filter)
	views := make([]models.ExerciseView, 0, len(exercises))
	for _, ex := range exercises {
		views = append(views, exerciseView(ex, s.shuffleSeed, userID))
	}
	log.Debug("listed %d exercises", len(views))
	return views, nil
}

func (s *exerciseService) GetExercise(ctx context.Context, userID, exerciseID string) (*models.ExerciseView, error) {
	ex, ok := s.catalog.Get(exerciseID)
	if !ok {
		return nil, errors.NewNotFoundError("exercise", exerciseID)
	}
	view := exerciseView(ex, s.shuffleSeed, userID)
	return &view, nil
}

func (s *exerciseService) GetHint(ctx context.Context, exerciseID string, n int) (*models.Hint, error) {
	ex, ok := s.catalog.Get(exerciseID)
	if !ok {
		return nil, errors.NewNotFoundError("exercise", exerciseID)
	}
	if n < 1 || n > len(ex.Hints) {
		return nil, errors.NewNotFoundError("hint", n)
	}
	return &models.Hint{
		ExerciseID: ex.ID,
		Index:      n,
		Total:      len(ex.Hints),
		Text:       ex.Hints[n-1],
	}, nil
}

func (s *exerciseService) Submit(ctx context.Context, userID, exerciseID string, req models.SubmitRequest) (*models.Submission, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting answer: user_id=%s, exercise_id=%s, hints_used=%d", userID, exerciseID, req.HintsUsed)

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ex, ok := s.catalog.Get(exerciseID)
	if !ok {
		return nil, errors.NewNotFoundError("exercise", exerciseID)
	}
	if err := checkSubmitRequest(req, len(ex.Hints)); err != nil {
		return nil, err
	}

	s.hydrator.Ensure(ctx, userID)
	result, fb := evaluate(ex, req)
	sub := record(ctx, s.ledger, userID, ex, req, result, fb, s.now())
	return &sub, nil
}

func (s *exerciseService) GetProgress(ctx context.Context, userID, exerciseID string) (*models.ExerciseProgress, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	s.hydrator.Ensure(ctx, userID)

	p, ok := s.ledger.Progress(userID, exerciseID)
	if !ok {
		return nil, errors.NewNotFoundError("progress", exerciseID)
	}
	return &p, nil
}

func (s *exerciseService) ListAttempts(ctx context.Context, filter models.AttemptFilter) ([]models.ExerciseAttempt, error) {
	if err := requireUser(filter.UserID); err != nil {
		return nil, err
	}
	if filter.Limit < 0 || filter.Limit > maxAttemptsPage {
		return nil, errors.NewValidationError("limit", "must be between 0 and 200")
	}
	if filter.Offset < 0 {
		return nil, errors.NewValidationError("offset", "cannot be negative")
	}
	switch strings.ToUpper(filter.OrderDir) {
	case "", "DESC":
		filter.OrderDir = "DESC"
	case "ASC":
		filter.OrderDir = "ASC"
	default:
		return nil, errors.NewValidationError("order", "must be asc or desc")
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	s.hydrator.Ensure(ctx, filter.UserID)
	return s.ledger.Attempts(filter), nil
}

func (s *exerciseService) GetStatistics(ctx context.Context, userID string) (*models.Statistics, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	s.hydrator.Ensure(ctx, userID)
	stats := s.ledger.Statistics(userID)
	return &stats, nil
}

// evaluate grades req against ex and composes the feedback.
func evaluate(ex models.Exercise, req models.SubmitRequest) (models.ValidationResult, models.ExerciseFeedback) {
	result := validation.Validate(ex, req.Answer)
	fb := feedback.Compose(result, feedback.Params{
		HintsUsed:      req.HintsUsed,
		BaseXP:         ex.BaseXP,
		PerfectScoreXP: ex.PerfectScoreXP,
		CorrectAnswer:  validation.CorrectAnswer(ex),
	})
	return result, fb
}

// record appends the graded attempt to the ledger.
func record(ctx context.Context, ledger *progress.Ledger, userID string, ex models.Exercise, req models.SubmitRequest,
	result models.ValidationResult, fb models.ExerciseFeedback, now time.Time) models.Submission {
	attempt := models.ExerciseAttempt{
		ID:               uuid.NewString(),
		UserID:           userID,
		ExerciseID:       ex.ID,
		Answer:           req.Answer,
		Result:           result,
		HintsUsed:        req.HintsUsed,
		EarnedXP:         fb.EarnedXP,
		TimeSpentSeconds: req.TimeSpentSeconds,
		Timestamp:        now.UTC(),
	}
	p := ledger.RecordAttempt(ctx, attempt)

	logger.FromContext(ctx).Info("graded attempt: exercise_id=%s, score=%d, feedback=%s, xp=%d",
		ex.ID, result.Score, fb.Type, fb.EarnedXP)

	return models.Submission{
		AttemptID: attempt.ID,
		Result:    result,
		Feedback:  fb,
		Progress:  p,
	}
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.NewUnauthorizedError("missing user id")
	}
	return nil
}

func checkSubmitRequest(req models.SubmitRequest, hintCount int) error {
	if req.HintsUsed < 0 {
		return errors.NewValidationError("hints_used", "cannot be negative")
	}
	if req.HintsUsed > hintCount {
		return errors.NewValidationError("hints_used", "exceeds the number of hints")
	}
	if req.TimeSpentSeconds < 0 {
		return errors.NewValidationError("time_spent_seconds", "cannot be negative")
	}
	return nil
}
