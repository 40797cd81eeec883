package models

// ChallengeStreak tracks consecutive days of completed daily challenges.
// LastCompletedDate is an ISO date (YYYY-MM-DD) or empty.
type ChallengeStreak struct {
	UserID                   string `json:"user_id"`
	CurrentStreak            int    `json:"current_streak"`
	LongestStreak            int    `json:"longest_streak"`
	LastCompletedDate        string `json:"last_completed_date"`
	TotalChallengesCompleted int    `json:"total_challenges_completed"`
}

// RotationEntry is one slot of the authored rotation table.
type RotationEntry struct {
	Title    string   `json:"title" yaml:"title"`
	BonusXP  int      `json:"bonus_xp,omitempty" yaml:"bonus_xp"`
	Exercise Exercise `json:"exercise" yaml:"exercise"`
}

// Challenge is a rotation entry bound to a calendar date.
type Challenge struct {
	Date     string   `json:"date"`
	Index    int      `json:"index"`
	Title    string   `json:"title"`
	BonusXP  int      `json:"bonus_xp,omitempty"`
	Exercise Exercise `json:"exercise"`
}

// StreakTier is a streak length threshold and the bonus it unlocks.
type StreakTier struct {
	Days    int `json:"days"`
	BonusXP int `json:"bonus_xp"`
}
