package models

// ExerciseType tags which payload of an Exercise is populated.
type ExerciseType string

const (
	ExerciseCodeCompletion   ExerciseType = "code_completion"
	ExerciseBugFix           ExerciseType = "bug_fix"
	ExerciseMultipleChoice   ExerciseType = "multiple_choice"
	ExerciseOutputPrediction ExerciseType = "output_prediction"
)

// ExerciseTypes lists every supported exercise type.
var ExerciseTypes = []ExerciseType{
	ExerciseCodeCompletion,
	ExerciseBugFix,
	ExerciseMultipleChoice,
	ExerciseOutputPrediction,
}

// Valid reports whether t is a known exercise type.
func (t ExerciseType) Valid() bool {
	for _, known := range ExerciseTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Exercise is an authored, read-only practice item. Exactly one payload,
// selected by Type, is expected to be set.
type Exercise struct {
	ID             string       `json:"id" yaml:"id"`
	Type           ExerciseType `json:"type" yaml:"type"`
	Title          string       `json:"title" yaml:"title"`
	Prompt         string       `json:"prompt" yaml:"prompt"`
	Difficulty     Difficulty   `json:"difficulty" yaml:"difficulty"`
	Topic          string       `json:"topic" yaml:"topic"`
	BaseXP         int          `json:"base_xp" yaml:"base_xp"`
	PerfectScoreXP int          `json:"perfect_score_xp,omitempty" yaml:"perfect_score_xp"`
	Hints          []string     `json:"hints,omitempty" yaml:"hints"`

	CodeCompletion   *CodeCompletion   `json:"code_completion,omitempty" yaml:"code_completion"`
	BugFix           *BugFix           `json:"bug_fix,omitempty" yaml:"bug_fix"`
	MultipleChoice   *MultipleChoice   `json:"multiple_choice,omitempty" yaml:"multiple_choice"`
	OutputPrediction *OutputPrediction `json:"output_prediction,omitempty" yaml:"output_prediction"`
}

// CodeCompletion is a code template with named blanks to fill in.
type CodeCompletion struct {
	Template      string  `json:"template" yaml:"template"`
	Blanks        []Blank `json:"blanks" yaml:"blanks"`
	CaseSensitive bool    `json:"case_sensitive,omitempty" yaml:"case_sensitive"`
}

type Blank struct {
	ID                string   `json:"id" yaml:"id"`
	CorrectAnswer     string   `json:"correct_answer" yaml:"correct_answer"`
	AcceptableAnswers []string `json:"acceptable_answers,omitempty" yaml:"acceptable_answers"`
	Hint              string   `json:"hint,omitempty" yaml:"hint"`
}

// BugFix asks the learner to repair BuggyCode so it matches FixedCode.
type BugFix struct {
	BuggyCode string `json:"buggy_code" yaml:"buggy_code"`
	FixedCode string `json:"fixed_code" yaml:"fixed_code"`
	Bugs      []Bug  `json:"bugs" yaml:"bugs"`
}

// Bug marks a 1-based line of BuggyCode that must change.
type Bug struct {
	Line        int    `json:"line" yaml:"line"`
	Description string `json:"description" yaml:"description"`
	Hint        string `json:"hint,omitempty" yaml:"hint"`
}

type MultipleChoice struct {
	Options []Option `json:"options" yaml:"options"`
}

type Option struct {
	ID          string `json:"id" yaml:"id"`
	Text        string `json:"text" yaml:"text"`
	Correct     bool   `json:"correct" yaml:"correct"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation"`
}

// OutputKind describes what an output prediction answer is.
type OutputKind string

const (
	OutputValue   OutputKind = "value"
	OutputType    OutputKind = "type"
	OutputError   OutputKind = "error"
	OutputBoolean OutputKind = "boolean"
)

// PartialCredit reports whether token overlap is meaningful for the kind.
func (k OutputKind) PartialCredit() bool {
	return k == OutputValue || k == OutputType
}

type OutputPrediction struct {
	Code             string     `json:"code" yaml:"code"`
	ExpectedOutput   string     `json:"expected_output" yaml:"expected_output"`
	Kind             OutputKind `json:"kind" yaml:"kind"`
	AllowableAnswers []string   `json:"allowable_answers,omitempty" yaml:"allowable_answers"`
	Explanation      string     `json:"explanation,omitempty" yaml:"explanation"`
}

// Answer is a learner submission. Which field is read depends on the
// exercise type: Code for bug fixes, Blanks for code completion, Selected
// for multiple choice and Prediction for output prediction.
type Answer struct {
	Code       string            `json:"code,omitempty"`
	Blanks     map[string]string `json:"blanks,omitempty"`
	Selected   []string          `json:"selected,omitempty"`
	Prediction string            `json:"prediction,omitempty"`
}
