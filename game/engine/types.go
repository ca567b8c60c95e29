package engine

import "time"

const (
	// SchemaVersion tags snapshots produced by this engine. Restore rejects
	// snapshots carrying any other version.
	SchemaVersion = 1

	// Victory bonus tuning. CompletionBonus is flat; exploration and
	// accuracy bonuses scale with their final ratios; the speed bonus
	// shrinks with the average seconds spent per answered question.
	CompletionBonus     = 500
	ExplorationBonusMax = 300
	AccuracyBonusMax    = 400
	SpeedBonusMax       = 300
	SpeedBonusPerSecond = 10
)

// State is the accumulated progression of a single game run. The engine
// owns it exclusively: callers read through Engine methods and mutate only
// through engine operations, which keep the set/counter invariants intact.
type State struct {
	CurrentRoomID     string          `json:"current_room_id"`
	Unlocked          map[string]bool `json:"unlocked"`
	Visited           map[string]bool `json:"visited"`
	Answered          map[string]bool `json:"answered"`
	Score             int             `json:"score"`
	QuestionsAnswered int             `json:"questions_answered"`
	CorrectAnswers    int             `json:"correct_answers"`
	HintsUsed         int             `json:"hints_used"`
	SkipsUsed         int             `json:"skips_used"`
	CurrentStreak     int             `json:"current_streak"`
	BestStreak        int             `json:"best_streak"`
	PlaySeconds       int             `json:"play_seconds"`
	Completed         bool            `json:"completed"`

	// Achievements holds unlocked achievement ids in unlock order. The
	// list only ever grows.
	Achievements []string `json:"achievements"`

	// History records every resolved question in resolution order.
	History []AnswerRecord `json:"history"`
}

// AnswerRecord is one resolved question: answered, skipped, or timed out.
type AnswerRecord struct {
	QuestionID       string    `json:"question_id"`
	RoomID           string    `json:"room_id"`
	Correct          bool      `json:"correct"`
	Skipped          bool      `json:"skipped,omitempty"`
	TimedOut         bool      `json:"timed_out,omitempty"`
	HintUsed         bool      `json:"hint_used,omitempty"`
	Points           int       `json:"points"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	AnsweredAt       time.Time `json:"answered_at"`
}

// Stats is a value snapshot of the statistics that feed achievement
// triggers and the victory check. Ratios are 0 when their denominator is.
type Stats struct {
	RoomsVisited      int     `json:"rooms_visited"`
	RoomsTotal        int     `json:"rooms_total"`
	Exploration       float64 `json:"exploration"`
	QuestionsAnswered int     `json:"questions_answered"`
	QuestionsTotal    int     `json:"questions_total"`
	AnsweredRatio     float64 `json:"answered_ratio"`
	CorrectAnswers    int     `json:"correct_answers"`
	Accuracy          float64 `json:"accuracy"`
	Score             int     `json:"score"`
	CurrentStreak     int     `json:"current_streak"`
	BestStreak        int     `json:"best_streak"`
	HintsUsed         int     `json:"hints_used"`
	SkipsUsed         int     `json:"skips_used"`
	PlaySeconds       int     `json:"play_seconds"`
	Completed         bool    `json:"completed"`
}

// Bonuses itemizes the score awarded when the victory condition is met.
type Bonuses struct {
	Completion  int `json:"completion"`
	Exploration int `json:"exploration"`
	Accuracy    int `json:"accuracy"`
	Speed       int `json:"speed"`
	Total       int `json:"total"`
}

// Snapshot is the versioned, serializable form of State. Set fields are
// sorted slices so snapshots diff cleanly on disk.
type Snapshot struct {
	Version           int            `json:"version"`
	CurrentRoomID     string         `json:"current_room_id"`
	UnlockedRooms     []string       `json:"unlocked_rooms"`
	VisitedRooms      []string       `json:"visited_rooms"`
	AnsweredQuestions []string       `json:"answered_questions"`
	Score             int            `json:"score"`
	QuestionsAnswered int            `json:"questions_answered"`
	CorrectAnswers    int            `json:"correct_answers"`
	HintsUsed         int            `json:"hints_used"`
	SkipsUsed         int            `json:"skips_used"`
	CurrentStreak     int            `json:"current_streak"`
	BestStreak        int            `json:"best_streak"`
	PlaySeconds       int            `json:"play_seconds"`
	Completed         bool           `json:"completed"`
	Achievements      []string       `json:"achievements"`
	History           []AnswerRecord `json:"history"`
}
