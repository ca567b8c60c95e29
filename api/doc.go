// Package api provides the HTTP REST surface of the LobeLabyrinth
// server.
//
// The api package implements:
//   - RESTful endpoints for every gameplay command
//   - Session management endpoints
//   - Content pack listing
//   - Save/load endpoints
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions           - Create session ({"pack_id": "classic"}, body optional)
//   - GET    /api/sessions           - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}      - Get one session
//   - DELETE /api/sessions/{id}      - Delete a session and its snapshot
//
// Gameplay:
//   - POST /api/sessions/{id}/move     - {"room_id": "library"}
//   - POST /api/sessions/{id}/question - {"category": "science"} (body optional)
//   - POST /api/sessions/{id}/answer   - {"option_index": 2}
//   - POST /api/sessions/{id}/skip
//   - POST /api/sessions/{id}/hint
//   - POST /api/sessions/{id}/pause
//   - POST /api/sessions/{id}/resume
//   - POST /api/sessions/{id}/reset
//
// State:
//   - GET /api/sessions/{id}/state
//   - GET /api/sessions/{id}/stats
//   - GET /api/sessions/{id}/achievements
//   - GET /api/sessions/{id}/history?page=N&limit=N&order=asc|desc
//
// Persistence:
//   - POST /api/sessions/{id}/save
//   - POST /api/sessions/{id}/load
//
// Content:
//   - GET /api/packs
//   - GET /api/packs/{id}
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket upgrade for event streaming
//
// Error Handling:
//
// Errors are returned as JSON with a human-readable message and the
// same machine-readable code used in error_occurred events:
//
//	{
//	  "error": "cannot move to observatory: room is locked",
//	  "code": "invalid_move"
//	}
//
// Unknown names map to 404, commands rejected by current game state to
// 409, malformed input to 400, and everything else to 500.
//
// State responses never contain the correct answer index of the active
// question; resolutions (answer, skip, timeout) reveal it in their
// outcome.
package api
