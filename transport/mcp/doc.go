// Package mcp exposes the game over the Model Context Protocol so LLM
// agents can play it.
//
// The package is a thin client: every tool proxies one REST endpoint of
// the running API server and renders the JSON reply as readable text.
// Game rules live in the service behind the API; nothing is decided here.
//
// MCP Tools:
//
//   - create_session: Start a new game with optional pack selection
//   - list_sessions: List all active sessions
//   - get_session: Get one session with its full state
//   - game_state: Current room, doors, score, and the active question
//   - move_to_room: Walk through an open door
//   - request_question: Open a question from the current room's category
//   - submit_answer: Answer with a 0-based option index
//   - skip_question: Abandon the question for a penalty
//   - request_hint: Reveal the hint, forfeiting the time bonus
//   - pause_game / resume_game: Control the countdown
//   - save_game / load_game: Snapshot persistence
//   - reset_game: Fresh start of the same pack
//   - list_packs: Available content packs
//   - game_instructions: Full rules, scoring, and strategy guide
//
// Session Management:
//
// Every gameplay tool takes a session_id, so one MCP client can drive
// any number of concurrent games against the same server.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// The result text is written for agents: options carry their exact
// 0-based submit index, doors are marked open or LOCKED, and outcomes
// spell out the score breakdown.
package mcp
