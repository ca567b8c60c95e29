package engine

import (
	"errors"
	"fmt"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
)

var (
	// ErrRoomNotFound indicates a room id that does not exist in the pack.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomLocked indicates a move or unlock against a room the player
	// has not gained access to yet.
	ErrRoomLocked = errors.New("room is locked")

	// ErrQuestionAlreadyAnswered indicates an attempt to resolve a
	// question a second time.
	ErrQuestionAlreadyAnswered = errors.New("question already answered")
)

// Engine is the progression controller for one game run. It owns the room
// graph state, the score, the answer history, and the victory check. It is
// a pure state machine: no clocks, no goroutines, no I/O. Callers that
// share an Engine across goroutines must serialize access themselves.
type Engine struct {
	pack  *content.Pack
	state *State
}

// New creates an engine for the given pack, validating it first. The run
// starts in the pack's start room, which begins unlocked and visited, with
// a score of zero.
func New(pack *content.Pack) (*Engine, error) {
	if pack == nil {
		return nil, fmt.Errorf("pack is required")
	}
	if err := pack.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pack: %w", err)
	}
	e := &Engine{pack: pack}
	e.state = newState(pack.Settings.StartRoom)
	return e, nil
}

func newState(startRoom string) *State {
	return &State{
		CurrentRoomID: startRoom,
		Unlocked:      map[string]bool{startRoom: true},
		Visited:       map[string]bool{startRoom: true},
		Answered:      map[string]bool{},
		Achievements:  []string{},
		History:       []AnswerRecord{},
	}
}

// Reset discards all progression and returns the run to its starting
// state, as if New had just been called.
func (e *Engine) Reset() {
	e.state = newState(e.pack.Settings.StartRoom)
}

// Pack returns the content pack this run is played against.
func (e *Engine) Pack() *content.Pack {
	return e.pack
}

// State returns the live progression state. The returned value is owned by
// the engine; treat it as read-only.
func (e *Engine) State() *State {
	return e.state
}

// CurrentRoom returns the room the player is in.
func (e *Engine) CurrentRoom() *content.Room {
	return e.pack.Room(e.state.CurrentRoomID)
}

// Score returns the current score. It may be negative: skip penalties are
// applied without clamping.
func (e *Engine) Score() int {
	return e.state.Score
}

// IsCompleted reports whether the victory condition has been met.
func (e *Engine) IsCompleted() bool {
	return e.state.Completed
}

// IsAnswered reports whether the given question has already been resolved.
func (e *Engine) IsAnswered(questionID string) bool {
	return e.state.Answered[questionID]
}

// IsUnlocked reports whether the given room is unlocked.
func (e *Engine) IsUnlocked(roomID string) bool {
	return e.state.Unlocked[roomID]
}

// ApplyScoreDelta adds delta to the score and returns the new total. The
// score is never clamped; penalties may push it below zero.
func (e *Engine) ApplyScoreDelta(delta int) int {
	e.state.Score += delta
	return e.state.Score
}

// RecordAnswer appends a resolved question to the history and updates the
// answer counters and streaks. The record's Points are bookkeeping only;
// callers apply them through ApplyScoreDelta so every score change flows
// through one place.
func (e *Engine) RecordAnswer(rec AnswerRecord) error {
	if e.state.Answered[rec.QuestionID] {
		return fmt.Errorf("question %q: %w", rec.QuestionID, ErrQuestionAlreadyAnswered)
	}
	if e.pack.Question(rec.QuestionID) == nil {
		return fmt.Errorf("question %q: not in pack", rec.QuestionID)
	}

	e.state.Answered[rec.QuestionID] = true
	e.state.QuestionsAnswered++
	if rec.Correct {
		e.state.CorrectAnswers++
		e.state.CurrentStreak++
		if e.state.CurrentStreak > e.state.BestStreak {
			e.state.BestStreak = e.state.CurrentStreak
		}
	} else {
		e.state.CurrentStreak = 0
	}
	if rec.Skipped {
		e.state.SkipsUsed++
	}
	if rec.HintUsed {
		e.state.HintsUsed++
	}
	e.state.History = append(e.state.History, rec)
	return nil
}

// GrantAchievement marks the achievement as unlocked and returns true, or
// returns false when it was already unlocked. Points are applied by the
// caller through ApplyScoreDelta.
func (e *Engine) GrantAchievement(id string) bool {
	for _, got := range e.state.Achievements {
		if got == id {
			return false
		}
	}
	e.state.Achievements = append(e.state.Achievements, id)
	return true
}

// HasAchievement reports whether the achievement has been unlocked.
func (e *Engine) HasAchievement(id string) bool {
	for _, got := range e.state.Achievements {
		if got == id {
			return true
		}
	}
	return false
}

// AddPlayTime accrues active play time in whole seconds.
func (e *Engine) AddPlayTime(seconds int) {
	if seconds > 0 {
		e.state.PlaySeconds += seconds
	}
}

// Stats computes the statistics consumed by achievement triggers and the
// victory check.
func (e *Engine) Stats() Stats {
	s := Stats{
		RoomsVisited:      len(e.state.Visited),
		RoomsTotal:        len(e.pack.Rooms),
		QuestionsAnswered: e.state.QuestionsAnswered,
		QuestionsTotal:    len(e.pack.Questions),
		CorrectAnswers:    e.state.CorrectAnswers,
		Score:             e.state.Score,
		CurrentStreak:     e.state.CurrentStreak,
		BestStreak:        e.state.BestStreak,
		HintsUsed:         e.state.HintsUsed,
		SkipsUsed:         e.state.SkipsUsed,
		PlaySeconds:       e.state.PlaySeconds,
		Completed:         e.state.Completed,
	}
	if s.RoomsTotal > 0 {
		s.Exploration = float64(s.RoomsVisited) / float64(s.RoomsTotal)
	}
	if s.QuestionsTotal > 0 {
		s.AnsweredRatio = float64(s.QuestionsAnswered) / float64(s.QuestionsTotal)
	}
	if s.QuestionsAnswered > 0 {
		s.Accuracy = float64(s.CorrectAnswers) / float64(s.QuestionsAnswered)
	}
	return s
}
