package service

import (
	"context"
	"errors"
	"time"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/achievement"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/engine"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/event"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/quiz"
)

var (
	// ErrSessionNotFound indicates an unknown session id. The session
	// manager returns it so every surface maps it the same way.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionAlreadyExists indicates a create with a taken id.
	ErrSessionAlreadyExists = errors.New("session already exists")

	// ErrPersistenceFailure marks storage errors. Snapshot stores attach
	// it so ErrorCode can classify them without importing the session
	// package.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, packID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Gameplay Commands
	MoveToRoom(ctx context.Context, sessionID, roomID string) (*MoveResult, error)
	RequestQuestion(ctx context.Context, sessionID, category string) (*QuestionResult, error)
	SubmitAnswer(ctx context.Context, sessionID string, optionIndex int) (*AnswerResult, error)
	SkipQuestion(ctx context.Context, sessionID string) (*AnswerResult, error)
	RequestHint(ctx context.Context, sessionID string) (*HintResult, error)
	PauseTimer(ctx context.Context, sessionID string) (*TimerResult, error)
	ResumeTimer(ctx context.Context, sessionID string) (*TimerResult, error)
	Reset(ctx context.Context, sessionID string) (*StateView, error)

	// Game State
	GetState(ctx context.Context, sessionID string) (*StateView, error)
	GetStats(ctx context.Context, sessionID string) (*StatsView, error)
	GetAchievements(ctx context.Context, sessionID string) ([]achievement.Status, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Persistence
	Save(ctx context.Context, sessionID string) error
	Load(ctx context.Context, sessionID string) (*StateView, error)

	// Content
	ListPacks(ctx context.Context) ([]content.PackInfo, error)

	// RunTimerLoop drives question countdowns, play time accrual, and the
	// autosave cadence until ctx is done. Run it in its own goroutine.
	RunTimerLoop(ctx context.Context)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, pack *content.Pack) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	List() []*Session
	Delete(ctx context.Context, id string) error
	UpdateLastAccessed(id string) error
	Save(ctx context.Context, id string) error
	Load(ctx context.Context, id string) (*Session, error)
	SaveAll(ctx context.Context) error
}

// PackManager provides validated content packs. Implemented by
// content.Manager.
type PackManager interface {
	GetPack(ctx context.Context, id string) (*content.Pack, error)
	Default(ctx context.Context) (*content.Pack, error)
	DefaultID() string
	List(ctx context.Context) ([]content.PackInfo, error)
}

// EventSink receives every event the service emits, in emission order.
// Implemented by the websocket hub.
type EventSink interface {
	Publish(event.Envelope)
}

// Session represents an active game run: one progression engine and one
// quiz engine playing a single pack.
type Session struct {
	ID             string
	PackID         string
	Progression    *engine.Engine
	Quiz           *quiz.Engine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
