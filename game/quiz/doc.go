// Package quiz runs the question lifecycle for LobeLabyrinth.
//
// The quiz package implements the ask-and-answer mechanics including:
//   - Staged question selection with category and difficulty fallbacks
//   - A one-second countdown timer state machine
//   - Hint handling with its time bonus forfeit
//   - Outcome scoring for answers, skips, and timeouts
//   - Adaptive difficulty driven by answer streaks
//
// Core Types:
//
// Engine owns the active question Session and the adaptive difficulty
// cursor. Session is ephemeral quiz state and is dropped by save and load;
// only the Snapshot survives. Outcome reports how a question resolved and
// the points it was worth before the progression controller applies them.
//
// Usage:
//
//	quizEngine := quiz.New(pack)
//	session, err := quizEngine.StartQuestion("laboratory", "science", answered)
//	if err != nil {
//		return err
//	}
//
//	// One tick per second while the timer runs.
//	if expired := quizEngine.Tick(); expired {
//		outcome, _ := quizEngine.FinalizeTimeout()
//	}
//
// The engine never mutates progression state: callers feed each Outcome to
// the progression controller, which applies points and records history.
package quiz
