package services

import (
	"context"
	"time"

	"github.com/vytor/codetrail/internal/challenge"
	"github.com/vytor/codetrail/internal/errors"
	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/progress"
)

// MaxPreviewDays bounds challenge look-ahead.
const MaxPreviewDays = 30

// ChallengeService handles the daily challenge and streaks
type ChallengeService interface {
	Today(ctx context.Context, userID string) (*models.ChallengeView, error)
	ForDate(ctx context.Context, userID, date string) (*models.ChallengeView, error)
	Preview(ctx context.Context, userID string, days int) ([]models.ChallengeView, error)
	Submit(ctx context.Context, userID, date string, req models.SubmitRequest) (*models.ChallengeSubmission, error)
	GetStreak(ctx context.Context, userID string) (*models.StreakStatus, error)
}

type challengeService struct {
	rotator     *challenge.Rotator
	ledger      *progress.Ledger
	hydrator    *Hydrator
	loc         *time.Location
	shuffleSeed uint64
	now         func() time.Time
}

// NewChallengeService creates a new ChallengeService. Calendar days are
// evaluated in loc.
func NewChallengeService(rotator *challenge.Rotator, ledger *progress.Ledger, hydrator *Hydrator, loc *time.Location, shuffleSeed uint64) ChallengeService {
	return newChallengeService(rotator, ledger, hydrator, loc, shuffleSeed, time.Now)
}

func newChallengeService(rotator *challenge.Rotator, ledger *progress.Ledger, hydrator *Hydrator, loc *time.Location, shuffleSeed uint64, now func() time.Time) *challengeService {
	if loc == nil {
		loc = time.UTC
	}
	return &challengeService{
		rotator:     rotator,
		ledger:      ledger,
		hydrator:    hydrator,
		loc:         loc,
		shuffleSeed: shuffleSeed,
		now:         now,
	}
}

func (s *challengeService) today() time.Time {
	return challenge.Today(s.now(), s.loc)
}

func (s *challengeService) Today(ctx context.Context, userID string) (*models.ChallengeView, error) {
	view := challengeView(s.rotator.SelectForDate(s.today()), s.shuffleSeed, userID)
	return &view, nil
}

func (s *challengeService) ForDate(ctx context.Context, userID, date string) (*models.ChallengeView, error) {
	day, err := challenge.ParseDate(date)
	if err != nil {
		return nil, errors.NewValidationError("date", "must be formatted as YYYY-MM-DD")
	}
	view := challengeView(s.rotator.SelectForDate(day), s.shuffleSeed, userID)
	return &view, nil
}

func (s *challengeService) Preview(ctx context.Context, userID string, days int) ([]models.ChallengeView, error) {
	if days < 1 || days > MaxPreviewDays {
		return nil, errors.NewValidationError("days", "must be between 1 and 30")
	}
	challenges := s.rotator.Preview(s.today(), days)
	views := make([]models.ChallengeView, 0, len(challenges))
	for _, c := range challenges {
		views = append(views, challengeView(c, s.shuffleSeed, userID))
	}
	return views, nil
}

// Submit grades the challenge of date, which must be today. A successful
// submission advances the streak; the first one of the day also earns the
// challenge bonus and the bonus of the streak tier reached.
func (s *challengeService) Submit(ctx context.Context, userID, date string, req models.SubmitRequest) (*models.ChallengeSubmission, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting challenge: user_id=%s, date=%s", userID, date)

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	day, err := challenge.ParseDate(date)
	if err != nil {
		return nil, errors.NewValidationError("date", "must be formatted as YYYY-MM-DD")
	}
	today := s.today()
	if !day.Equal(today) {
		return nil, errors.NewValidationError("date", "only today's challenge ("+challenge.FormatDate(today)+") can be submitted")
	}

	c := s.rotator.SelectForDate(day)
	if err := checkSubmitRequest(req, len(c.Exercise.Hints)); err != nil {
		return nil, err
	}

	s.hydrator.Ensure(ctx, userID)

	out := &models.ChallengeSubmission{Date: c.Date}
	result, fb := evaluate(c.Exercise, req)
	if fb.Type == models.FeedbackSuccess {
		out.Streak, out.StreakAdvanced = s.ledger.CompleteChallenge(ctx, userID, day)
	} else {
		out.Streak = s.ledger.Streak(userID)
	}
	if out.StreakAdvanced {
		out.ChallengeBonusXP = c.BonusXP
		out.StreakBonusXP = challenge.BonusXPForStreak(out.Streak.CurrentStreak)
		fb.EarnedXP += out.ChallengeBonusXP + out.StreakBonusXP
	}

	out.Submission = record(ctx, s.ledger, userID, c.Exercise, req, result, fb, s.now())
	return out, nil
}

func (s *challengeService) GetStreak(ctx context.Context, userID string) (*models.StreakStatus, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	s.hydrator.Ensure(ctx, userID)

	streak := s.ledger.Streak(userID)
	status := &models.StreakStatus{
		ChallengeStreak: streak,
		Active:          challenge.Active(streak, s.today()),
	}
	// A lapsed streak restarts at one on the next completion.
	days := streak.CurrentStreak
	if !status.Active {
		days = 0
	}
	status.CurrentBonusXP = challenge.BonusXPForStreak(days)
	if tier, ok := challenge.NextTier(days); ok {
		status.NextTier = &tier
		status.DaysToNextTier = tier.Days - days
	}
	return status, nil
}
