// Package service provides the business logic layer for the labyrinth
// quiz game.
//
// The service package implements:
//   - Multi-session game management
//   - Gameplay commands: movement, questions, answers, hints, timer control
//   - Event assembly and broadcasting
//   - Save/load persistence with autosave
//   - Answer history with pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. PackManager supplies validated content packs. EventSink
// receives every emitted event in order.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the game engines, providing session isolation, command validation,
// and business logic orchestration. Each session couples one progression
// engine with one quiz engine playing a single pack. The engines are pure
// state machines; the service owns the lock, the clock, and all IO.
//
// Usage:
//
//	sessionMgr := session.NewManager(store, packs)
//	gameService := service.NewGameService(sessionMgr, packs, service.Options{Sink: hub})
//
//	// Create a new session
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Play
//	question, err := gameService.RequestQuestion(ctx, info.ID, "")
//	answer, err := gameService.SubmitAnswer(ctx, info.ID, 2)
//
//	// Drive countdowns and autosave
//	go gameService.RunTimerLoop(ctx)
//
// Command Semantics:
//
// Every command validates its session and arguments first. A rejected
// command publishes a single error_occurred event, returns the error, and
// leaves the session state untouched. A successful mutating command
// assembles its events in a fixed order (the primary event, room unlocks,
// score changes, achievement unlocks, then the victory block), publishes
// them, autosaves, and returns the events on the result so HTTP callers
// see the same stream WebSocket subscribers do. Autosave failures are
// logged and never fail the command; only explicit Save surfaces
// persistence errors.
package service
