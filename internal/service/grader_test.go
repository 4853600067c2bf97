package service

import (
	"testing"

	"iqfieldbot/internal/model"
)

func TestGrade_Normalization(t *testing.T) {
	g := NewGrader()
	q := &model.Question{
		CorrectAnswer: "True",
		Explanation:   "All roses are plants by transitivity.",
	}

	tests := []struct {
		submitted string
		want      bool
	}{
		{"True", true},
		{"true", true},
		{"TRUE", true},
		{"  true  ", true},
		{"\ttRuE\n", true},
		{"False", false},
		{"", false},
		{"tru e", false},
	}

	for _, tc := range tests {
		got := g.Grade(q, tc.submitted)
		if got.IsCorrect != tc.want {
			t.Errorf("Grade(%q) = %v, want %v", tc.submitted, got.IsCorrect, tc.want)
		}
	}
}

func TestGrade_RevealsAnswerAndExplanation(t *testing.T) {
	g := NewGrader()
	q := &model.Question{
		CorrectAnswer: "42",
		Explanation:   "This is a easy math question.",
	}

	result := g.Grade(q, "17")
	if result.IsCorrect {
		t.Fatal("wrong answer graded correct")
	}
	if result.CorrectAnswer != "42" {
		t.Errorf("CorrectAnswer = %q, want %q", result.CorrectAnswer, "42")
	}
	if result.Explanation != q.Explanation {
		t.Errorf("Explanation = %q, want %q", result.Explanation, q.Explanation)
	}
}

func TestGrade_NumericAnswersAreExact(t *testing.T) {
	g := NewGrader()
	q := &model.Question{CorrectAnswer: "4"}

	// No numeric tolerance: "4.0" is not "4"
	if g.Grade(q, "4.0").IsCorrect {
		t.Error(`"4.0" should not match "4"`)
	}
	if !g.Grade(q, " 4 ").IsCorrect {
		t.Error(`" 4 " should match "4"`)
	}
}
