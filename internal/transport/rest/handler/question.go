package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"iqfieldbot/internal/model"
	"iqfieldbot/internal/service"
)

// QuestionHandler handles question serving and answer submission
type QuestionHandler struct {
	questionSvc *service.QuestionService
	grader      *service.Grader
	sessionSvc  *service.SessionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionSvc *service.QuestionService, grader *service.Grader, sessionSvc *service.SessionService) *QuestionHandler {
	return &QuestionHandler{
		questionSvc: questionSvc,
		grader:      grader,
		sessionSvc:  sessionSvc,
	}
}

// GetQuestion handles GET /v1/questions/{field}/{difficulty}.
// The response is the redacted view: the correct answer and the
// explanation are only revealed by Submit.
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	field := model.Field(vars["field"])
	difficulty := model.Difficulty(vars["difficulty"])

	question, err := h.questionSvc.RandomQuestion(r.Context(), field, difficulty)
	if err != nil {
		if errors.Is(err, service.ErrInvalidField) || errors.Is(err, service.ErrInvalidDifficulty) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, question.View())
}

// Submit handles POST /v1/questions/submit. With a session_id in the
// body, the graded result is also recorded into that session and the
// updated session returned alongside the grade.
func (h *QuestionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "question_id is required")
		return
	}

	question, err := h.questionSvc.LookupByID(r.Context(), req.QuestionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	grade := h.grader.Grade(question, req.Answer)
	resp := model.SubmitResponse{GradeResult: grade}

	if req.SessionID != "" {
		session, err := h.sessionSvc.RecordAnswer(r.Context(), req.SessionID, grade.IsCorrect)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		resp.Session = session
	}
	writeJSON(w, http.StatusOK, resp)
}
