package challenge

import (
	"time"

	"github.com/vytor/codetrail/internal/models"
)

// AdvanceStreak records a challenge completion on completionDate.
//
// A second completion on the same date is a no-op. A completion the day
// after LastCompletedDate continues the streak; anything else starts a new
// streak of one.
func AdvanceStreak(streak models.ChallengeStreak, completionDate time.Time) models.ChallengeStreak {
	date := FormatDate(completionDate)
	if streak.LastCompletedDate == date {
		return streak
	}

	if streak.CurrentStreak < 0 {
		streak.CurrentStreak = 0
	}
	last, err := ParseDate(streak.LastCompletedDate)
	if err == nil && DaysBetween(last, completionDate) == 1 {
		streak.CurrentStreak++
	} else {
		streak.CurrentStreak = 1
	}

	streak.LastCompletedDate = date
	streak.TotalChallengesCompleted++
	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	return streak
}

// Active reports whether the streak can still be continued on today, that
// is the last completion was today or yesterday.
func Active(streak models.ChallengeStreak, today time.Time) bool {
	last, err := ParseDate(streak.LastCompletedDate)
	if err != nil {
		return false
	}
	d := DaysBetween(last, today)
	return d == 0 || d == 1
}
