package service

import (
	"context"
	"strings"
	"testing"

	"iqfieldbot/internal/config"
	"iqfieldbot/internal/model"
)

func disabledGenerator() *GeneratorService {
	cfg := config.Default().AI
	cfg.APIKey = ""
	return NewGeneratorService(&cfg)
}

func TestRandomQuestion_ValidatesInput(t *testing.T) {
	svc := NewQuestionService(NewTemplateBank(), disabledGenerator(), nil, 5)

	if _, err := svc.RandomQuestion(context.Background(), "astrology", model.DifficultyEasy); err != ErrInvalidField {
		t.Errorf("unknown field: got %v, want ErrInvalidField", err)
	}
	if _, err := svc.RandomQuestion(context.Background(), model.FieldMath, "brutal"); err != ErrInvalidDifficulty {
		t.Errorf("unknown difficulty: got %v, want ErrInvalidDifficulty", err)
	}
}

func TestRandomQuestion_DrawsFromMatchingPool(t *testing.T) {
	svc := NewQuestionService(NewTemplateBank(), disabledGenerator(), nil, 10)

	for i := 0; i < 50; i++ {
		q, err := svc.RandomQuestion(context.Background(), model.FieldLogic, model.DifficultyMedium)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Field != model.FieldLogic || q.Difficulty != model.DifficultyMedium {
			t.Fatalf("drew %s/%s question from logic/medium pool", q.Field, q.Difficulty)
		}
		if q.CorrectAnswer == "" {
			t.Fatalf("question %s has no stored answer", q.ID)
		}
	}
}

func TestLookupByID_ResolvesPoolQuestions(t *testing.T) {
	svc := NewQuestionService(NewTemplateBank(), disabledGenerator(), nil, 10)

	q, err := svc.RandomQuestion(context.Background(), model.FieldMath, model.DifficultyHard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := svc.LookupByID(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("lookup of %s failed: %v", q.ID, err)
	}
	if found.CorrectAnswer != q.CorrectAnswer {
		t.Errorf("lookup returned different answer: %q vs %q", found.CorrectAnswer, q.CorrectAnswer)
	}

	if _, err := svc.LookupByID(context.Background(), "no_such_question"); err != ErrQuestionNotFound {
		t.Errorf("missing id: got %v, want ErrQuestionNotFound", err)
	}
}

func TestRandomQuestion_EmptyPoolFallsBackToGenerator(t *testing.T) {
	svc := NewQuestionService(NewTemplateBank(), disabledGenerator(), nil, 0)

	if size := svc.PoolSize(model.FieldMath, model.DifficultyEasy); size != 0 {
		t.Fatalf("expected empty pool, got %d", size)
	}

	q, err := svc.RandomQuestion(context.Background(), model.FieldMath, model.DifficultyEasy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(q.ID, "ai_generated_") {
		t.Errorf("fallback question id = %q", q.ID)
	}
	if q.Prompt != "AI Generated easy math question: What is 2 + 2?" {
		t.Errorf("fallback prompt = %q", q.Prompt)
	}
	if q.CorrectAnswer != "4" {
		t.Errorf("fallback answer = %q", q.CorrectAnswer)
	}

	// Generated questions must be gradable afterwards
	found, err := svc.LookupByID(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("generated question not registered: %v", err)
	}
	if found.CorrectAnswer != "4" {
		t.Errorf("registered answer = %q", found.CorrectAnswer)
	}
}

func TestRefresh_RebuildsEveryPool(t *testing.T) {
	svc := NewQuestionService(NewTemplateBank(), disabledGenerator(), nil, 7)

	for _, field := range model.Fields {
		for _, difficulty := range model.Difficulties {
			if size := svc.PoolSize(field, difficulty); size != 7 {
				t.Errorf("%s/%s pool size = %d, want 7", field, difficulty, size)
			}
		}
	}

	// AI questions survive a refresh, template pools are rebuilt in place
	generated := disabledGenerator().GenerateQuestion(context.Background(), model.FieldLogic, model.DifficultyHard)
	svc.registerGenerated(context.Background(), generated)
	svc.Refresh()

	if _, err := svc.LookupByID(context.Background(), generated.ID); err != nil {
		t.Errorf("generated question lost on refresh: %v", err)
	}
	if size := svc.PoolSize(model.FieldMath, model.DifficultyEasy); size != 7 {
		t.Errorf("pool size after refresh = %d, want 7", size)
	}
}
