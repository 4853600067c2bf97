package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"iqfieldbot/internal/cache"
	"iqfieldbot/internal/model"
	"iqfieldbot/pkg/logger"
)

var (
	ErrInvalidField      = errors.New("invalid field")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrQuestionNotFound  = errors.New("question not found")
)

// catalogSnapshot is an immutable build of all template pools plus the
// id index. Reads never see a half-built catalog: Refresh builds a new
// snapshot off to the side and swaps it in whole.
type catalogSnapshot struct {
	pools map[model.Field]map[model.Difficulty][]model.Question
	index map[string]*model.Question
}

// QuestionService owns the generated question pools and lookup-by-id.
// Template pools are rebuilt only by Refresh; AI-generated questions
// accumulate in a side index (and the Redis question cache) so the
// submit path can grade them.
type QuestionService struct {
	bank      *TemplateBank
	generator *GeneratorService
	questions cache.QuestionCache // nil when running without Redis
	quota     int

	mu       sync.RWMutex
	snapshot *catalogSnapshot
	aiIndex  map[string]*model.Question
}

func NewQuestionService(bank *TemplateBank, generator *GeneratorService, questions cache.QuestionCache, quota int) *QuestionService {
	if quota < 0 {
		quota = 20
	}
	s := &QuestionService{
		bank:      bank,
		generator: generator,
		questions: questions,
		quota:     quota,
		aiIndex:   map[string]*model.Question{},
	}
	s.Refresh()
	return s
}

// Refresh regenerates every (field, difficulty) pool and swaps the new
// snapshot in atomically. Previously issued template ids resolve only
// against the new batch, so refresh invalidates old template ids by
// construction; AI-generated questions survive a refresh.
func (s *QuestionService) Refresh() {
	snap := &catalogSnapshot{
		pools: map[model.Field]map[model.Difficulty][]model.Question{},
		index: map[string]*model.Question{},
	}
	for _, field := range model.Fields {
		snap.pools[field] = map[model.Difficulty][]model.Question{}
		for _, difficulty := range model.Difficulties {
			pool := s.bank.Generate(field, difficulty, s.quota)
			snap.pools[field][difficulty] = pool
			for i := range pool {
				snap.index[pool[i].ID] = &pool[i]
			}
		}
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

// RandomQuestion returns a uniformly random question from the
// (field, difficulty) pool, delegating to the generator when the pool
// is empty. The generator path never blocks past its timeout and never
// fails, so this only errors on invalid input.
func (s *QuestionService) RandomQuestion(ctx context.Context, field model.Field, difficulty model.Difficulty) (*model.Question, error) {
	if !field.IsValid() {
		return nil, ErrInvalidField
	}
	if !difficulty.IsValid() {
		return nil, ErrInvalidDifficulty
	}

	s.mu.RLock()
	pool := s.snapshot.pools[field][difficulty]
	s.mu.RUnlock()

	if len(pool) > 0 {
		q := pool[rand.Intn(len(pool))]
		return &q, nil
	}

	// Pool exhausted: ask the external collaborator. No catalog lock is
	// held while the call is in flight.
	q := s.generator.GenerateQuestion(ctx, field, difficulty)
	s.registerGenerated(ctx, q)
	return q, nil
}

// LookupByID resolves a question id in O(1): template snapshot first,
// then the AI side index, then the shared question cache.
func (s *QuestionService) LookupByID(ctx context.Context, id string) (*model.Question, error) {
	s.mu.RLock()
	if q, ok := s.snapshot.index[id]; ok {
		s.mu.RUnlock()
		out := *q
		return &out, nil
	}
	if q, ok := s.aiIndex[id]; ok {
		s.mu.RUnlock()
		out := *q
		return &out, nil
	}
	s.mu.RUnlock()

	if s.questions != nil {
		q, err := s.questions.Get(ctx, id)
		if err != nil {
			logger.Log.Warn("question cache lookup failed", zap.String("id", id), zap.Error(err))
		} else if q != nil {
			return q, nil
		}
	}
	return nil, ErrQuestionNotFound
}

func (s *QuestionService) registerGenerated(ctx context.Context, q *model.Question) {
	s.mu.Lock()
	s.aiIndex[q.ID] = q
	s.mu.Unlock()

	if s.questions != nil {
		if err := s.questions.Set(ctx, q); err != nil {
			logger.Log.Warn("question cache write failed", zap.String("id", q.ID), zap.Error(err))
		}
	}
}

// PoolSize reports the current pool size for (field, difficulty);
// used by tests and the health surface.
func (s *QuestionService) PoolSize(field model.Field, difficulty model.Difficulty) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot.pools[field][difficulty])
}
