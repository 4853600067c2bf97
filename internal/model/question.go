package model

// Field is a topical category of questions
type Field string

const (
	FieldMath        Field = "math"
	FieldLogic       Field = "logic"
	FieldProgramming Field = "programming"
	FieldLanguage    Field = "language"
	FieldScience     Field = "science"
	FieldGeneral     Field = "general"
)

// Fields lists every supported field, in catalog build order
var Fields = []Field{FieldMath, FieldLogic, FieldProgramming, FieldLanguage, FieldScience, FieldGeneral}

// IsValid reports whether f is a recognized field
func (f Field) IsValid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Difficulty buckets the template pool and gates escalation
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the difficulty levels in escalation order
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// IsValid reports whether d is a recognized difficulty
func (d Difficulty) IsValid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Next returns the difficulty one step up. Hard is terminal.
func (d Difficulty) Next() Difficulty {
	switch d {
	case DifficultyEasy:
		return DifficultyMedium
	case DifficultyMedium:
		return DifficultyHard
	default:
		return DifficultyHard
	}
}

// AnswerType defines how a question expects to be answered
type AnswerType string

const (
	AnswerTypeNumber         AnswerType = "number"
	AnswerTypeMultipleChoice AnswerType = "multiple_choice"
	AnswerTypeText           AnswerType = "text"
)

// Question is immutable once generated. CorrectAnswer is the canonical
// form computed from the sampled operands and never changes afterwards.
type Question struct {
	ID            string     `json:"id"`
	Field         Field      `json:"field"`
	Difficulty    Difficulty `json:"difficulty"`
	Prompt        string     `json:"question"`
	Options       []string   `json:"options,omitempty"`
	Type          AnswerType `json:"type"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   string     `json:"explanation,omitempty"`
	// Operands are the sampled template inputs, kept so the answer can
	// be recomputed independently of the prompt text.
	Operands []int `json:"operands,omitempty"`
}

// QuestionView is the redacted shape returned to test takers.
// The correct answer and explanation are only revealed on submit.
type QuestionView struct {
	ID         string     `json:"id"`
	Field      Field      `json:"field"`
	Difficulty Difficulty `json:"difficulty"`
	Prompt     string     `json:"question"`
	Options    []string   `json:"options,omitempty"`
	Type       AnswerType `json:"type"`
}

// View returns the question stripped of its answer and explanation
func (q *Question) View() QuestionView {
	return QuestionView{
		ID:         q.ID,
		Field:      q.Field,
		Difficulty: q.Difficulty,
		Prompt:     q.Prompt,
		Options:    q.Options,
		Type:       q.Type,
	}
}

// SubmitAnswerRequest is the request body for answer submission.
// SessionID is optional; when present the graded result is also
// recorded into that session.
type SubmitAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	SessionID  string `json:"session_id,omitempty"`
}

// GradeResult is returned after evaluating a submitted answer
type GradeResult struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}
