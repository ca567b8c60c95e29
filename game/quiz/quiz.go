package quiz

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
)

var (
	// ErrNoQuestionsAvailable indicates every candidate question has
	// already been answered.
	ErrNoQuestionsAvailable = errors.New("no questions available")

	// ErrQuestionActive indicates a new question was requested while one
	// is still open.
	ErrQuestionActive = errors.New("a question is already active")

	// ErrNoActiveQuestion indicates an operation that needs an open
	// question when there is none.
	ErrNoActiveQuestion = errors.New("no active question")

	// ErrInvalidTimerTransition indicates a timer operation from a state
	// that does not allow it.
	ErrInvalidTimerTransition = errors.New("invalid timer transition")

	// ErrHintAlreadyUsed indicates a second hint request for the same
	// question.
	ErrHintAlreadyUsed = errors.New("hint already used")

	// ErrNoHintAvailable indicates the active question carries no hint.
	ErrNoHintAvailable = errors.New("no hint available")

	// ErrInvalidAnswerIndex indicates an answer index outside the
	// question's options.
	ErrInvalidAnswerIndex = errors.New("invalid answer index")
)

// Engine runs the question lifecycle for one game: selection, countdown,
// hints, and outcome scoring. It also owns the adaptive difficulty cursor.
// Like the progression engine it is pure and single-threaded; time only
// advances when the caller invokes Tick.
type Engine struct {
	pack   *content.Pack
	rng    *rand.Rand
	active *Session

	difficulty int
	correctRun int
	wrongRun   int
}

// New creates a quiz engine starting at the lowest difficulty.
func New(pack *content.Pack) *Engine {
	return &Engine{
		pack:       pack,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		difficulty: content.MinDifficulty,
	}
}

// Active returns the open question session, or nil when none is open.
func (e *Engine) Active() *Session {
	return e.active
}

// Difficulty returns the current adaptive difficulty cursor.
func (e *Engine) Difficulty() int {
	return e.difficulty
}

// TimerState returns the countdown state, TimerIdle when no question is
// open.
func (e *Engine) TimerState() TimerState {
	if e.active == nil {
		return TimerIdle
	}
	return e.active.Timer
}

// StartQuestion selects an unanswered question and opens it with a running
// countdown. roomID is the room the question is presented from and is the
// room whose doors a correct answer opens, regardless of moves made while
// the clock runs. category narrows selection when non-empty; answered
// reports which question ids are already resolved. A question that is
// still open must be resolved first.
func (e *Engine) StartQuestion(roomID, category string, answered func(string) bool) (*Session, error) {
	if e.active != nil && (e.active.Timer == TimerRunning || e.active.Timer == TimerPaused) {
		return nil, fmt.Errorf("question %q: %w", e.active.Question.ID, ErrQuestionActive)
	}

	question, err := e.selectQuestion(category, answered)
	if err != nil {
		return nil, err
	}

	limit := question.TimeLimit(e.pack.Settings)
	e.active = &Session{
		Question:         question,
		RoomID:           roomID,
		Timer:            TimerRunning,
		TotalSeconds:     limit,
		RemainingSeconds: limit,
	}
	return e.active, nil
}

// Tick advances the countdown by one second. It returns true on the tick
// that expires the timer; the caller must then resolve the question with
// FinalizeTimeout. Ticks in any state but TimerRunning do nothing.
func (e *Engine) Tick() bool {
	if e.active == nil || e.active.Timer != TimerRunning {
		return false
	}
	e.active.RemainingSeconds--
	if e.active.RemainingSeconds <= 0 {
		e.active.RemainingSeconds = 0
		e.active.Timer = TimerExpired
		return true
	}
	return false
}

// Pause stops the countdown; only a running timer can pause.
func (e *Engine) Pause() error {
	if e.active == nil {
		return ErrNoActiveQuestion
	}
	if e.active.Timer != TimerRunning {
		return fmt.Errorf("pause from %s: %w", e.active.Timer, ErrInvalidTimerTransition)
	}
	e.active.Timer = TimerPaused
	return nil
}

// Resume restarts a paused countdown.
func (e *Engine) Resume() error {
	if e.active == nil {
		return ErrNoActiveQuestion
	}
	if e.active.Timer != TimerPaused {
		return fmt.Errorf("resume from %s: %w", e.active.Timer, ErrInvalidTimerTransition)
	}
	e.active.Timer = TimerRunning
	return nil
}

// UseHint reveals the active question's hint. Once used, the correct
// answer's time bonus is forfeited for this question. Each question allows
// one hint.
func (e *Engine) UseHint() (string, error) {
	if e.active == nil {
		return "", ErrNoActiveQuestion
	}
	if e.active.Timer != TimerRunning && e.active.Timer != TimerPaused {
		return "", fmt.Errorf("hint from %s: %w", e.active.Timer, ErrInvalidTimerTransition)
	}
	if e.active.HintUsed {
		return "", ErrHintAlreadyUsed
	}
	if e.active.Question.Hint == "" {
		return "", ErrNoHintAvailable
	}
	e.active.HintUsed = true
	return e.active.Question.Hint, nil
}

// SubmitAnswer resolves the active question with the player's choice.
// Correct answers score the question's points plus a time bonus
// proportional to the fraction of the countdown remaining, unless a hint
// was used. Wrong answers score nothing.
func (e *Engine) SubmitAnswer(index int) (*Outcome, error) {
	if e.active == nil {
		return nil, ErrNoActiveQuestion
	}
	if e.active.Timer != TimerRunning && e.active.Timer != TimerPaused {
		return nil, fmt.Errorf("answer from %s: %w", e.active.Timer, ErrInvalidTimerTransition)
	}
	question := e.active.Question
	if index < 0 || index >= len(question.Options) {
		return nil, fmt.Errorf("index %d of %d options: %w", index, len(question.Options), ErrInvalidAnswerIndex)
	}

	correct := index == question.CorrectIndex
	outcome := &Outcome{
		QuestionID:       question.ID,
		RoomID:           e.active.RoomID,
		Correct:          correct,
		HintUsed:         e.active.HintUsed,
		SelectedIndex:    index,
		CorrectIndex:     question.CorrectIndex,
		TimeTakenSeconds: e.active.TotalSeconds - e.active.RemainingSeconds,
		Explanation:      question.Explanation,
	}
	if correct {
		outcome.BasePoints = question.Points
		if !e.active.HintUsed {
			fraction := float64(e.active.RemainingSeconds) / float64(e.active.TotalSeconds)
			outcome.TimeBonus = int(math.Round(fraction * float64(e.pack.Settings.MaxTimeBonus)))
		}
	}
	outcome.Points = outcome.BasePoints + outcome.TimeBonus

	e.active.Timer = TimerAnswered
	e.resolve(correct)
	return outcome, nil
}

// Skip abandons the active question for a score penalty. The question
// still counts as answered so it is never asked again.
func (e *Engine) Skip() (*Outcome, error) {
	if e.active == nil {
		return nil, ErrNoActiveQuestion
	}
	if e.active.Timer != TimerRunning && e.active.Timer != TimerPaused {
		return nil, fmt.Errorf("skip from %s: %w", e.active.Timer, ErrInvalidTimerTransition)
	}
	question := e.active.Question

	outcome := &Outcome{
		QuestionID:       question.ID,
		RoomID:           e.active.RoomID,
		Skipped:          true,
		HintUsed:         e.active.HintUsed,
		SelectedIndex:    -1,
		CorrectIndex:     question.CorrectIndex,
		Penalty:          e.pack.Settings.SkipPenalty,
		Points:           -e.pack.Settings.SkipPenalty,
		TimeTakenSeconds: e.active.TotalSeconds - e.active.RemainingSeconds,
		Explanation:      question.Explanation,
	}

	e.active.Timer = TimerAnswered
	e.resolve(false)
	return outcome, nil
}

// FinalizeTimeout resolves a question whose countdown expired. It scores
// zero points and counts as an incorrect answer.
func (e *Engine) FinalizeTimeout() (*Outcome, error) {
	if e.active == nil {
		return nil, ErrNoActiveQuestion
	}
	if e.active.Timer != TimerExpired {
		return nil, fmt.Errorf("timeout from %s: %w", e.active.Timer, ErrInvalidTimerTransition)
	}
	question := e.active.Question

	outcome := &Outcome{
		QuestionID:       question.ID,
		RoomID:           e.active.RoomID,
		TimedOut:         true,
		HintUsed:         e.active.HintUsed,
		SelectedIndex:    -1,
		CorrectIndex:     question.CorrectIndex,
		TimeTakenSeconds: e.active.TotalSeconds,
		Explanation:      question.Explanation,
	}

	e.resolve(false)
	return outcome, nil
}

// Abandon drops the active question without an outcome. Used when a saved
// game is restored over a live one.
func (e *Engine) Abandon() {
	e.active = nil
}

// resolve closes the active session and feeds the adaptive difficulty:
// StreakUpStep straight correct answers raise the cursor, StreakDownStep
// straight misses lower it.
func (e *Engine) resolve(correct bool) {
	e.active = nil
	if correct {
		e.correctRun++
		e.wrongRun = 0
		if e.correctRun >= e.pack.Settings.StreakUpStep {
			e.correctRun = 0
			if e.difficulty < content.MaxDifficulty {
				e.difficulty++
			}
		}
		return
	}
	e.wrongRun++
	e.correctRun = 0
	if e.wrongRun >= e.pack.Settings.StreakDownStep {
		e.wrongRun = 0
		if e.difficulty > content.MinDifficulty {
			e.difficulty--
		}
	}
}

// Snapshot captures the adaptive difficulty state. The active question is
// not part of it.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Difficulty: e.difficulty,
		CorrectRun: e.correctRun,
		WrongRun:   e.wrongRun,
	}
}

// RestoreSnapshot replaces the adaptive difficulty state and drops any
// open question. A zero-valued snapshot restores to the initial cursor.
func (e *Engine) RestoreSnapshot(s Snapshot) error {
	difficulty := s.Difficulty
	if difficulty == 0 {
		difficulty = content.MinDifficulty
	}
	if difficulty < content.MinDifficulty || difficulty > content.MaxDifficulty {
		return fmt.Errorf("snapshot difficulty %d out of range", s.Difficulty)
	}
	if s.CorrectRun < 0 || s.WrongRun < 0 {
		return fmt.Errorf("snapshot run counters must not be negative")
	}
	e.difficulty = difficulty
	e.correctRun = s.CorrectRun
	e.wrongRun = s.WrongRun
	e.active = nil
	return nil
}
