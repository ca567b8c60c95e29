// Package engine provides the progression controller for LobeLabyrinth.
//
// The engine package implements the room and scoring mechanics including:
//   - Room graph movement with lock and unlock rules
//   - Score accumulation without clamping
//   - Answer history, streaks, and derived statistics
//   - Victory detection with itemized bonuses
//   - Versioned snapshots for persistence
//
// Core Types:
//
// Engine owns the State for a single run and is the only writer to it.
// State carries the room sets, counters, achievements, and answer history.
// Snapshot is the stable serialized form of State, restored with full
// invariant checking.
//
// Usage:
//
//	gameEngine, err := engine.New(pack)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Move the player
//	firstVisit, err := gameEngine.MoveToRoom("library")
//	stats := gameEngine.Stats()
//
// Game Rules:
//
// Players explore a graph of rooms, answering questions to unlock the
// rooms connected to their position. Correct answers score points, skips
// cost points, and progress toward exploration, answer, and accuracy goals
// is checked after every resolved question. Meeting all three goals
// completes the run exactly once and awards completion bonuses; play may
// continue afterward.
package engine
