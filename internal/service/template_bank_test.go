package service

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"iqfieldbot/internal/model"
)

// recompute derives the expected answer from a question's operands,
// dispatching on the rendered prompt shape.
func recompute(t *testing.T, q model.Question) (string, bool) {
	t.Helper()
	ops := q.Operands
	switch {
	case strings.HasPrefix(q.Prompt, "Solve for x:"):
		a, b, c := ops[0], ops[1], ops[2]
		if (c-b)%a == 0 {
			return strconv.Itoa((c - b) / a), true
		}
		return strconv.FormatFloat(float64(c-b)/float64(a), 'g', -1, 64), true
	case strings.HasPrefix(q.Prompt, "What is the square root of"):
		for _, sq := range perfectSquares {
			if ops[0] == sq {
				root := 2
				for root*root != sq {
					root++
				}
				return strconv.Itoa(root), true
			}
		}
		t.Fatalf("sqrt operand %d is not a perfect square", ops[0])
		return "", false
	case strings.HasPrefix(q.Prompt, "If f(x)"):
		a, b, c, d := ops[0], ops[1], ops[2], ops[3]
		return strconv.Itoa(a*d*d + b*d + c), true
	case strings.Contains(q.Prompt, " + "):
		return strconv.Itoa(ops[0] + ops[1]), true
	case strings.Contains(q.Prompt, " × "):
		return strconv.Itoa(ops[0] * ops[1]), true
	case strings.Contains(q.Prompt, " - "):
		return strconv.Itoa(ops[0] - ops[1]), true
	default:
		// fixed-answer template, nothing to recompute
		return "", false
	}
}

func TestGenerate_AnswersMatchOperands(t *testing.T) {
	bank := NewTemplateBank()
	for _, field := range model.Fields {
		for _, difficulty := range model.Difficulties {
			for _, q := range bank.Generate(field, difficulty, 50) {
				want, ok := recompute(t, q)
				if !ok {
					continue
				}
				if q.CorrectAnswer != want {
					t.Errorf("%s: answer %q does not match operands %v (want %q), prompt %q",
						q.ID, q.CorrectAnswer, q.Operands, want, q.Prompt)
				}
			}
		}
	}
}

func TestGenerate_IDsAndExplanations(t *testing.T) {
	bank := NewTemplateBank()
	questions := bank.Generate(model.FieldMath, model.DifficultyMedium, 5)
	if len(questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(questions))
	}
	for i, q := range questions {
		wantID := fmt.Sprintf("math_medium_%d", i+1)
		if q.ID != wantID {
			t.Errorf("question %d: id = %q, want %q", i, q.ID, wantID)
		}
		if q.Explanation != "This is a medium math question." {
			t.Errorf("question %d: explanation = %q", i, q.Explanation)
		}
	}
}

func TestGenerate_SqrtOperandsArePerfectSquares(t *testing.T) {
	bank := NewTemplateBank()
	seen := 0
	for _, q := range bank.Generate(model.FieldMath, model.DifficultyMedium, 200) {
		if !strings.HasPrefix(q.Prompt, "What is the square root of") {
			continue
		}
		seen++
		root, err := strconv.Atoi(q.CorrectAnswer)
		if err != nil {
			t.Fatalf("sqrt answer %q is not an integer", q.CorrectAnswer)
		}
		if root*root != q.Operands[0] {
			t.Errorf("sqrt of %d graded as %d", q.Operands[0], root)
		}
	}
	if seen == 0 {
		t.Fatal("no square-root questions drawn in 200 samples")
	}
}

func TestGenerate_OperandRanges(t *testing.T) {
	bank := NewTemplateBank()
	for _, q := range bank.Generate(model.FieldMath, model.DifficultyEasy, 200) {
		for _, op := range q.Operands {
			if op < 1 || op > 50 {
				t.Fatalf("easy operand %d out of [1,50], prompt %q", op, q.Prompt)
			}
		}
	}
	for _, q := range bank.Generate(model.FieldMath, model.DifficultyHard, 200) {
		a, b, c, d := q.Operands[0], q.Operands[1], q.Operands[2], q.Operands[3]
		if a < 1 || a > 5 || b < 1 || b > 10 || c < 1 || c > 10 || d < 1 || d > 5 {
			t.Fatalf("hard operands %v out of range", q.Operands)
		}
	}
}

func TestGenerate_OptionsOnlyForMultipleChoice(t *testing.T) {
	bank := NewTemplateBank()
	for _, difficulty := range model.Difficulties {
		for _, q := range bank.Generate(model.FieldLogic, difficulty, 50) {
			hasOptions := len(q.Options) > 0
			if hasOptions != (q.Type == model.AnswerTypeMultipleChoice) {
				t.Errorf("%s: options/type mismatch: type=%s options=%v", q.ID, q.Type, q.Options)
			}
			if hasOptions {
				found := false
				for _, opt := range q.Options {
					if opt == q.CorrectAnswer {
						found = true
					}
				}
				if !found {
					t.Errorf("%s: correct answer %q not among options %v", q.ID, q.CorrectAnswer, q.Options)
				}
			}
		}
	}
}

func TestGenerate_FallsBackToMathTemplates(t *testing.T) {
	bank := NewTemplateBank()
	for _, field := range []model.Field{model.FieldProgramming, model.FieldScience, model.FieldGeneral} {
		for _, q := range bank.Generate(field, model.DifficultyEasy, 20) {
			if q.Field != field {
				t.Errorf("fallback question kept wrong field: %s", q.Field)
			}
			if q.Type != model.AnswerTypeNumber {
				t.Errorf("%s easy fallback should be numeric, got %s", field, q.Type)
			}
			if _, ok := recompute(t, q); !ok {
				t.Errorf("%s fallback prompt %q is not a math template", field, q.Prompt)
			}
		}
	}
}
