package service

import (
	"errors"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/engine"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/quiz"
)

// ErrorCode maps an error to the stable machine-readable code carried by
// error_occurred events and API error responses.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrRoomLocked):
		return "invalid_move"
	case errors.Is(err, engine.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, engine.ErrQuestionAlreadyAnswered):
		return "already_answered"
	case errors.Is(err, quiz.ErrNoQuestionsAvailable):
		return "no_questions_available"
	case errors.Is(err, quiz.ErrQuestionActive):
		return "question_active"
	case errors.Is(err, quiz.ErrNoActiveQuestion):
		return "no_active_question"
	case errors.Is(err, quiz.ErrInvalidTimerTransition):
		return "invalid_timer_transition"
	case errors.Is(err, quiz.ErrHintAlreadyUsed):
		return "hint_already_used"
	case errors.Is(err, quiz.ErrNoHintAvailable):
		return "no_hint_available"
	case errors.Is(err, quiz.ErrInvalidAnswerIndex):
		return "invalid_answer_index"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrSessionAlreadyExists):
		return "session_already_exists"
	case errors.Is(err, content.ErrPackNotFound):
		return "pack_not_found"
	case errors.Is(err, ErrPersistenceFailure):
		return "persistence_error"
	default:
		var dataErr *content.DataError
		if errors.As(err, &dataErr) {
			return "data_error"
		}
		return "internal"
	}
}
