package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"iqfieldbot/internal/cache"
	"iqfieldbot/internal/config"
	"iqfieldbot/internal/model"
	"iqfieldbot/internal/repository"
	"iqfieldbot/pkg/logger"
)

var (
	ErrSessionClosed = errors.New("session is closed")
	ErrAlreadyClosed = errors.New("session already closed")
	ErrInvalidUpdate = errors.New("invalid session update")
)

// SessionService owns the test-session state machine: score, streak
// and the difficulty-escalation rule. All mutations of one session are
// serialized through a per-session lock; different sessions proceed
// independently.
type SessionService struct {
	repo        repository.SessionRepo
	users       repository.UserRepo
	sessions    cache.SessionCache     // nil when running without Redis
	leaderboard cache.LeaderboardCache // nil when running without Redis
	broadcaster Broadcaster

	threshold int
	weights   map[model.Difficulty]int

	locks sync.Map // session id -> *sync.Mutex
}

func NewSessionService(repo repository.SessionRepo, users repository.UserRepo, sessions cache.SessionCache, leaderboard cache.LeaderboardCache, quiz config.QuizConfig) *SessionService {
	threshold := quiz.StreakThreshold
	if threshold <= 0 {
		threshold = 2
	}
	return &SessionService{
		repo:        repo,
		users:       users,
		sessions:    sessions,
		leaderboard: leaderboard,
		threshold:   threshold,
		weights: map[model.Difficulty]int{
			model.DifficultyEasy:   quiz.EasyWeight,
			model.DifficultyMedium: quiz.MediumWeight,
			model.DifficultyHard:   quiz.HardWeight,
		},
	}
}

// SetBroadcaster sets the broadcaster for live progress events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create starts a new Active session for the user in the given field
func (s *SessionService) Create(ctx context.Context, userID string, field model.Field) (*model.TestSession, error) {
	if !field.IsValid() {
		return nil, ErrInvalidField
	}

	session := &model.TestSession{
		ID:                "s_" + uuid.New().String()[:8],
		UserID:            userID,
		Field:             field,
		Score:             0,
		QuestionsAnswered: 0,
		CorrectAnswers:    0,
		CurrentDifficulty: model.DifficultyEasy,
		StartTime:         time.Now(),
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.cacheSet(ctx, session)
	return session, nil
}

// Get returns the session by id
func (s *SessionService) Get(ctx context.Context, id string) (*model.TestSession, error) {
	return s.load(ctx, id)
}

// RecordAnswer applies one graded answer to the session. On a correct
// answer the score grows by the weight of the difficulty the question
// was served at; a streak of threshold correct answers escalates
// difficulty one step (never past hard, never downward) and resets the
// streak. The mutation is all-or-nothing: nothing is published unless
// the updated session persisted.
func (s *SessionService) RecordAnswer(ctx context.Context, sessionID string, isCorrect bool) (*model.TestSession, error) {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Completed() {
		return nil, ErrSessionClosed
	}

	updated := *session
	updated.QuestionsAnswered++
	if isCorrect {
		updated.CorrectAnswers++
		updated.Score += s.weightFor(updated.CurrentDifficulty)
		updated.ConsecutiveCorrect++
		if updated.ConsecutiveCorrect >= s.threshold && updated.CurrentDifficulty != model.DifficultyHard {
			updated.CurrentDifficulty = updated.CurrentDifficulty.Next()
			updated.ConsecutiveCorrect = 0
		}
	} else {
		updated.ConsecutiveCorrect = 0
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}
	s.cacheSet(ctx, &updated)
	s.broadcastProgress(&updated)
	return &updated, nil
}

// Close completes the session: end_time is set exactly once and the
// owning user's totals and leaderboard entry are updated. Re-closing
// fails loudly with ErrAlreadyClosed.
func (s *SessionService) Close(ctx context.Context, sessionID string) (*model.TestSession, error) {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Completed() {
		return nil, ErrAlreadyClosed
	}

	updated := *session
	now := time.Now()
	updated.EndTime = &now

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}
	s.cacheSet(ctx, &updated)
	s.creditUser(ctx, &updated)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "session_closed", &updated)
		s.broadcaster.DisconnectSession(sessionID)
	}
	return &updated, nil
}

// Update applies an allow-listed partial update. Unknown fields are
// rejected at the decoding boundary before this is reached; here only
// value-level validation remains, and nothing is applied on failure.
func (s *SessionService) Update(ctx context.Context, sessionID string, upd *model.SessionUpdate) (*model.TestSession, error) {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	updated := *session
	if upd.Score != nil {
		if *upd.Score < 0 {
			return nil, ErrInvalidUpdate
		}
		updated.Score = *upd.Score
	}
	if upd.QuestionsAnswered != nil {
		if *upd.QuestionsAnswered < 0 {
			return nil, ErrInvalidUpdate
		}
		updated.QuestionsAnswered = *upd.QuestionsAnswered
	}
	if upd.CorrectAnswers != nil {
		if *upd.CorrectAnswers < 0 {
			return nil, ErrInvalidUpdate
		}
		updated.CorrectAnswers = *upd.CorrectAnswers
	}
	if upd.CurrentDifficulty != nil {
		if !upd.CurrentDifficulty.IsValid() {
			return nil, ErrInvalidDifficulty
		}
		updated.CurrentDifficulty = *upd.CurrentDifficulty
	}
	if upd.ConsecutiveCorrect != nil {
		if *upd.ConsecutiveCorrect < 0 {
			return nil, ErrInvalidUpdate
		}
		updated.ConsecutiveCorrect = *upd.ConsecutiveCorrect
	}
	if upd.EndTime != nil {
		if updated.EndTime != nil {
			return nil, ErrAlreadyClosed
		}
		updated.EndTime = upd.EndTime
	}
	if updated.CorrectAnswers > updated.QuestionsAnswered {
		return nil, ErrInvalidUpdate
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	s.cacheSet(ctx, &updated)
	return &updated, nil
}

func (s *SessionService) weightFor(d model.Difficulty) int {
	if w, ok := s.weights[d]; ok && w > 0 {
		return w
	}
	return 1
}

func (s *SessionService) lockFor(sessionID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *SessionService) load(ctx context.Context, id string) (*model.TestSession, error) {
	if s.sessions != nil {
		cached, err := s.sessions.Get(ctx, id)
		if err != nil {
			logger.Log.Warn("session cache read failed", zap.String("id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.repo.GetByID(ctx, id)
}

func (s *SessionService) cacheSet(ctx context.Context, session *model.TestSession) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		logger.Log.Warn("session cache write failed", zap.String("id", session.ID), zap.Error(err))
	}
}

// creditUser rolls the finished session into the user's lifetime
// totals and the per-field leaderboard. Best effort: the close itself
// has already persisted.
func (s *SessionService) creditUser(ctx context.Context, session *model.TestSession) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		logger.Log.Warn("credit user failed", zap.String("user", session.UserID), zap.Error(err))
		return
	}
	user.TotalScore += session.Score
	user.TestsCompleted++
	if err := s.users.Update(ctx, user); err != nil {
		logger.Log.Warn("credit user failed", zap.String("user", session.UserID), zap.Error(err))
		return
	}
	if s.leaderboard != nil {
		if err := s.leaderboard.UpdateScore(ctx, session.Field, user.ID, user.TotalScore); err != nil {
			logger.Log.Warn("leaderboard update failed", zap.String("user", user.ID), zap.Error(err))
		}
	}
}

func (s *SessionService) broadcastProgress(session *model.TestSession) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToSession(session.ID, "progress_update", map[string]interface{}{
		"session_id":          session.ID,
		"score":               session.Score,
		"questions_answered":  session.QuestionsAnswered,
		"correct_answers":     session.CorrectAnswers,
		"consecutive_correct": session.ConsecutiveCorrect,
		"current_difficulty":  session.CurrentDifficulty,
	})
}
