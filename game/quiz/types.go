package quiz

import "github.com/opd-ai/LobeLabyrinth-sub002/game/content"

// TimerState is the lifecycle state of the active question's countdown.
type TimerState string

const (
	// TimerIdle means no question is active.
	TimerIdle TimerState = "idle"

	// TimerRunning means the countdown is ticking.
	TimerRunning TimerState = "running"

	// TimerPaused means the countdown is stopped but the question is
	// still open.
	TimerPaused TimerState = "paused"

	// TimerExpired means the countdown reached zero before the question
	// was resolved.
	TimerExpired TimerState = "expired"

	// TimerAnswered means the question was resolved by answer or skip.
	TimerAnswered TimerState = "answered"
)

// Session is the live state of one asked question. It exists from
// StartQuestion until the question is resolved and is never persisted:
// saving a game mid-question drops the open question. RoomID is the room
// the question was presented from; outcomes attribute unlocks to it even
// if the player moves while the clock runs.
type Session struct {
	Question         *content.Question
	RoomID           string
	Timer            TimerState
	TotalSeconds     int
	RemainingSeconds int
	HintUsed         bool
}

// QuestionView is the player-facing shape of an active question. It never
// carries the correct answer index.
type QuestionView struct {
	ID               string     `json:"id"`
	Prompt           string     `json:"prompt"`
	Options          []string   `json:"options"`
	Category         string     `json:"category"`
	Difficulty       int        `json:"difficulty"`
	Points           int        `json:"points"`
	TotalSeconds     int        `json:"total_seconds"`
	RemainingSeconds int        `json:"remaining_seconds"`
	Timer            TimerState `json:"timer"`
	HintUsed         bool       `json:"hint_used"`
	HintAvailable    bool       `json:"hint_available"`
}

// View projects the session for players, hiding the correct index.
func (s *Session) View() QuestionView {
	return QuestionView{
		ID:               s.Question.ID,
		Prompt:           s.Question.Prompt,
		Options:          append([]string{}, s.Question.Options...),
		Category:         s.Question.Category,
		Difficulty:       s.Question.Difficulty,
		Points:           s.Question.Points,
		TotalSeconds:     s.TotalSeconds,
		RemainingSeconds: s.RemainingSeconds,
		Timer:            s.Timer,
		HintUsed:         s.HintUsed,
		HintAvailable:    s.Question.Hint != "",
	}
}

// Outcome is the resolution of one question: how it ended, what it was
// worth, and what the player should be told afterward.
type Outcome struct {
	QuestionID       string `json:"question_id"`
	RoomID           string `json:"room_id"`
	Correct          bool   `json:"correct"`
	Skipped          bool   `json:"skipped,omitempty"`
	TimedOut         bool   `json:"timed_out,omitempty"`
	HintUsed         bool   `json:"hint_used,omitempty"`
	SelectedIndex    int    `json:"selected_index"`
	CorrectIndex     int    `json:"correct_index"`
	BasePoints       int    `json:"base_points"`
	TimeBonus        int    `json:"time_bonus"`
	Penalty          int    `json:"penalty"`
	Points           int    `json:"points"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
	Explanation      string `json:"explanation,omitempty"`
}

// Snapshot is the persistent part of the quiz engine: the adaptive
// difficulty cursor and its run counters. The active question is
// deliberately absent.
type Snapshot struct {
	Difficulty int `json:"difficulty"`
	CorrectRun int `json:"correct_run"`
	WrongRun   int `json:"wrong_run"`
}
