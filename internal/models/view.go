package models

// ExerciseView is the learner-facing form of an Exercise: everything needed
// to attempt it and nothing that gives the answer away.
type ExerciseView struct {
	ID             string       `json:"id"`
	Type           ExerciseType `json:"type"`
	Title          string       `json:"title,omitempty"`
	Prompt         string       `json:"prompt,omitempty"`
	Difficulty     Difficulty   `json:"difficulty,omitempty"`
	Topic          string       `json:"topic,omitempty"`
	BaseXP         int          `json:"base_xp"`
	PerfectScoreXP int          `json:"perfect_score_xp,omitempty"`
	HintCount      int          `json:"hint_count"`

	Template  string       `json:"template,omitempty"`
	BlankIDs  []string     `json:"blank_ids,omitempty"`
	Code      string       `json:"code,omitempty"`
	BugCount  int          `json:"bug_count,omitempty"`
	Options   []OptionView `json:"options,omitempty"`
	MultiPick bool         `json:"multi_pick,omitempty"`
	Kind      OutputKind   `json:"kind,omitempty"`
}

type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Hint is one entry of an exercise's ordered hint list. Index is 1-based.
type Hint struct {
	ExerciseID string `json:"exercise_id"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	Text       string `json:"text"`
}

// SubmitRequest is a graded submission.
type SubmitRequest struct {
	Answer           Answer `json:"answer"`
	HintsUsed        int    `json:"hints_used"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

// Submission is the outcome of grading one SubmitRequest.
type Submission struct {
	AttemptID string           `json:"attempt_id"`
	Result    ValidationResult `json:"result"`
	Feedback  ExerciseFeedback `json:"feedback"`
	Progress  ExerciseProgress `json:"progress"`
}

// ChallengeView is a dated challenge with its exercise in learner-facing form.
type ChallengeView struct {
	Date     string       `json:"date"`
	Index    int          `json:"index"`
	Title    string       `json:"title"`
	BonusXP  int          `json:"bonus_xp,omitempty"`
	Exercise ExerciseView `json:"exercise"`
}

// ChallengeSubmission is the outcome of submitting a daily challenge.
// Bonus XP is only granted when the submission advanced the streak.
type ChallengeSubmission struct {
	Submission
	Date             string          `json:"date"`
	StreakAdvanced   bool            `json:"streak_advanced"`
	ChallengeBonusXP int             `json:"challenge_bonus_xp"`
	StreakBonusXP    int             `json:"streak_bonus_xp"`
	Streak           ChallengeStreak `json:"streak"`
}

// StreakStatus describes a streak relative to today.
type StreakStatus struct {
	ChallengeStreak
	Active         bool        `json:"active"`
	CurrentBonusXP int         `json:"current_bonus_xp"`
	NextTier       *StreakTier `json:"next_tier,omitempty"`
	DaysToNextTier int         `json:"days_to_next_tier,omitempty"`
}
