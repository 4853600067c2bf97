package model

import "time"

// TestSession tracks one user's run through a test in a field.
// It is Active from creation until EndTime is set, then Completed.
type TestSession struct {
	ID                 string     `json:"id" bson:"_id,omitempty"`
	UserID             string     `json:"user_id" bson:"userId"`
	Field              Field      `json:"field" bson:"field"`
	Score              int        `json:"score" bson:"score"`
	QuestionsAnswered  int        `json:"questions_answered" bson:"questionsAnswered"`
	CorrectAnswers     int        `json:"correct_answers" bson:"correctAnswers"`
	CurrentDifficulty  Difficulty `json:"current_difficulty" bson:"currentDifficulty"`
	ConsecutiveCorrect int        `json:"consecutive_correct" bson:"consecutiveCorrect"`
	StartTime          time.Time  `json:"start_time" bson:"startTime"`
	EndTime            *time.Time `json:"end_time,omitempty" bson:"endTime,omitempty"`
}

// Completed reports whether the session has been closed
func (s *TestSession) Completed() bool {
	return s.EndTime != nil
}

// SessionUpdate is the allow-listed partial update for a session.
// Only these fields may be mutated through the update endpoint; the
// decoder rejects any other key.
type SessionUpdate struct {
	Score              *int        `json:"score,omitempty"`
	QuestionsAnswered  *int        `json:"questions_answered,omitempty"`
	CorrectAnswers     *int        `json:"correct_answers,omitempty"`
	CurrentDifficulty  *Difficulty `json:"current_difficulty,omitempty"`
	ConsecutiveCorrect *int        `json:"consecutive_correct,omitempty"`
	EndTime            *time.Time  `json:"end_time,omitempty"`
}

// CreateSessionRequest is the request body for starting a session.
// The user is taken from the caller's token.
type CreateSessionRequest struct {
	Field Field `json:"field"`
}

// SubmitResponse pairs a grade with the session state after recording
type SubmitResponse struct {
	GradeResult
	Session *TestSession `json:"session,omitempty"`
}
