package event

import (
	"time"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/engine"
)

// Type names an event variant on the wire.
type Type string

const (
	TypeRoomChanged         Type = "room_changed"
	TypeRoomUnlocked        Type = "room_unlocked"
	TypeQuestionAnswered    Type = "question_answered"
	TypeScoreChanged        Type = "score_changed"
	TypeHintUsed            Type = "hint_used"
	TypeAchievementUnlocked Type = "achievement_unlocked"
	TypeGameCompleted       Type = "game_completed"
	TypeTimerTick           Type = "timer_tick"
	TypeErrorOccurred       Type = "error_occurred"
)

// Score change reasons carried by ScoreChanged.
const (
	ReasonAnswer       = "answer"
	ReasonSkip         = "skip"
	ReasonTimeout      = "timeout"
	ReasonAchievement  = "achievement"
	ReasonVictoryBonus = "victory_bonus"
)

// Payload is the closed set of event variants. Consumers type-switch on
// the concrete payload instead of parsing type strings, so a new variant
// shows up as a compile error in every switch with a default that panics
// or logs.
type Payload interface {
	EventType() Type
}

// Envelope wraps a payload with its routing metadata. It is the unit
// delivered to subscribers and serialized to transports.
type Envelope struct {
	Type      Type      `json:"type"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   Payload   `json:"payload"`
}

// New stamps a payload into an envelope for the given session.
func New(sessionID string, payload Payload) Envelope {
	return Envelope{
		Type:      payload.EventType(),
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// RoomChanged reports a successful move.
type RoomChanged struct {
	RoomID         string `json:"room_id"`
	PreviousRoomID string `json:"previous_room_id"`
	FirstVisit     bool   `json:"first_visit"`
}

func (RoomChanged) EventType() Type { return TypeRoomChanged }

// RoomUnlocked reports a room's first transition to unlocked. UnlockedBy
// is the room whose correct answer opened it.
type RoomUnlocked struct {
	RoomID     string `json:"room_id"`
	UnlockedBy string `json:"unlocked_by"`
}

func (RoomUnlocked) EventType() Type { return TypeRoomUnlocked }

// QuestionAnswered reports a resolved question: answered, skipped, or
// timed out. SelectedIndex is -1 for skips and timeouts.
type QuestionAnswered struct {
	QuestionID       string `json:"question_id"`
	Correct          bool   `json:"correct"`
	Skipped          bool   `json:"skipped,omitempty"`
	TimedOut         bool   `json:"timed_out,omitempty"`
	HintUsed         bool   `json:"hint_used,omitempty"`
	SelectedIndex    int    `json:"selected_index"`
	CorrectIndex     int    `json:"correct_index"`
	Points           int    `json:"points"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
	Explanation      string `json:"explanation,omitempty"`
}

func (QuestionAnswered) EventType() Type { return TypeQuestionAnswered }

// ScoreChanged reports a score delta and the resulting total.
type ScoreChanged struct {
	Delta  int    `json:"delta"`
	Total  int    `json:"total"`
	Reason string `json:"reason"`
}

func (ScoreChanged) EventType() Type { return TypeScoreChanged }

// HintUsed reports a revealed hint.
type HintUsed struct {
	QuestionID string `json:"question_id"`
	Hint       string `json:"hint"`
}

func (HintUsed) EventType() Type { return TypeHintUsed }

// AchievementUnlocked reports a newly earned achievement.
type AchievementUnlocked struct {
	AchievementID string `json:"achievement_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Points        int    `json:"points"`
	Rarity        string `json:"rarity"`
}

func (AchievementUnlocked) EventType() Type { return TypeAchievementUnlocked }

// GameCompleted reports the one-time victory transition with its bonuses.
type GameCompleted struct {
	Bonuses     engine.Bonuses `json:"bonuses"`
	Score       int            `json:"score"`
	PlaySeconds int            `json:"play_seconds"`
}

func (GameCompleted) EventType() Type { return TypeGameCompleted }

// TimerTick reports one second of countdown on the active question.
type TimerTick struct {
	QuestionID       string `json:"question_id"`
	RemainingSeconds int    `json:"remaining_seconds"`
	TotalSeconds     int    `json:"total_seconds"`
}

func (TimerTick) EventType() Type { return TypeTimerTick }

// ErrorOccurred reports a rejected command. State is unchanged when it is
// emitted.
type ErrorOccurred struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (ErrorOccurred) EventType() Type { return TypeErrorOccurred }
