package service

import (
	"time"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/engine"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/event"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/quiz"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string     `json:"id"`
	PackID         string     `json:"pack_id"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	State          *StateView `json:"state"`
}

// ConnectionView describes one door out of a room.
type ConnectionView struct {
	RoomID   string `json:"room_id"`
	Name     string `json:"name"`
	Unlocked bool   `json:"unlocked"`
	Visited  bool   `json:"visited"`
}

// RoomView is the player-facing shape of a room.
type RoomView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Connections []ConnectionView `json:"connections"`
}

// NearestRoom points at the closest unvisited room as a navigation aid.
type NearestRoom struct {
	RoomID   string `json:"room_id"`
	Distance int    `json:"distance"`
}

// StateView is the full player-facing game state. The active question, if
// any, is included without its correct answer.
type StateView struct {
	SessionID         string             `json:"session_id"`
	PackID            string             `json:"pack_id"`
	CurrentRoom       RoomView           `json:"current_room"`
	UnlockedRooms     []string           `json:"unlocked_rooms"`
	VisitedRooms      []string           `json:"visited_rooms"`
	Score             int                `json:"score"`
	QuestionsAnswered int                `json:"questions_answered"`
	CorrectAnswers    int                `json:"correct_answers"`
	CurrentStreak     int                `json:"current_streak"`
	BestStreak        int                `json:"best_streak"`
	HintsUsed         int                `json:"hints_used"`
	SkipsUsed         int                `json:"skips_used"`
	PlaySeconds       int                `json:"play_seconds"`
	Completed         bool               `json:"completed"`
	Achievements      []string           `json:"achievements"`
	ActiveQuestion    *quiz.QuestionView `json:"active_question,omitempty"`
	Timer             quiz.TimerState    `json:"timer"`
	Difficulty        int                `json:"difficulty"`

	// Navigation aids.
	Frontier        []string     `json:"frontier,omitempty"`
	NearestUnvisited *NearestRoom `json:"nearest_unvisited,omitempty"`
}

// StatsView reports the cumulative statistics plus quiz and achievement
// standing.
type StatsView struct {
	engine.Stats
	Difficulty           int `json:"difficulty"`
	AchievementsUnlocked int `json:"achievements_unlocked"`
	AchievementsTotal    int `json:"achievements_total"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success    bool             `json:"success"`
	FirstVisit bool             `json:"first_visit"`
	State      *StateView       `json:"state"`
	Message    string           `json:"message"`
	Events     []event.Envelope `json:"events,omitempty"`
}

// QuestionResult contains a freshly started question.
type QuestionResult struct {
	Question      quiz.QuestionView `json:"question"`
	PoolRemaining int               `json:"pool_remaining"`
	Message       string            `json:"message"`
}

// AnswerResult contains the resolution of a question by answer, skip, or
// timeout.
type AnswerResult struct {
	Outcome quiz.Outcome     `json:"outcome"`
	State   *StateView       `json:"state"`
	Message string           `json:"message"`
	Events  []event.Envelope `json:"events,omitempty"`
}

// HintResult contains a revealed hint.
type HintResult struct {
	QuestionID string           `json:"question_id"`
	Hint       string           `json:"hint"`
	Events     []event.Envelope `json:"events,omitempty"`
}

// TimerResult reports the countdown after a pause or resume.
type TimerResult struct {
	QuestionID       string          `json:"question_id"`
	Timer            quiz.TimerState `json:"timer"`
	RemainingSeconds int             `json:"remaining_seconds"`
}

// HistoryOptions configures answer history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated answer history
type HistoryResponse struct {
	Entries     []engine.AnswerRecord `json:"entries"`
	Total       int                   `json:"total"`
	Page        int                   `json:"page"`
	PageSize    int                   `json:"page_size"`
	TotalPages  int                   `json:"total_pages"`
	HasNext     bool                  `json:"has_next"`
	HasPrevious bool                  `json:"has_previous"`
}
