package service

import (
	"strings"

	"iqfieldbot/internal/model"
)

// Grader evaluates submitted answers against the stored correct
// answer. Comparison is exact string equality after normalization;
// there is no partial credit and no numeric tolerance.
type Grader struct{}

func NewGrader() *Grader {
	return &Grader{}
}

// Grade normalizes both sides (trim, lowercase) and compares.
func (g *Grader) Grade(question *model.Question, submitted string) model.GradeResult {
	isCorrect := normalizeAnswer(submitted) == normalizeAnswer(question.CorrectAnswer)
	return model.GradeResult{
		IsCorrect:     isCorrect,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
	}
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
