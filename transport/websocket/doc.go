// Package websocket pushes game events to connected clients of the
// LobeLabyrinth server.
//
// The hub implements service.EventSink, so every event the game service
// emits (room changes, unlocks, answers, score changes, achievement
// unlocks, completion, timer ticks, rejected commands) is relayed as it
// happens to the WebSocket clients subscribed to that session. The REST
// layer additionally pushes a full state snapshot after each mutating
// command.
//
// Architecture:
//
// The package uses a hub-and-spoke model. The hub's Run loop owns the
// client registry; registration, unregistration, and broadcasting all
// flow through its channels, so no lock is needed and publishers never
// block on slow clients. A client that cannot drain its send buffer is
// disconnected.
//
// Message Protocol:
//
// The socket is outbound only; clients drive the game through the REST
// API. Each frame is a JSON Message:
//
//	{"kind": "event", "session_id": "a1b2c3d4", "event": {...}}
//	{"kind": "state", "session_id": "a1b2c3d4", "state": {...}}
//
// The embedded event object is the same envelope shape the service
// emits, with a type tag, timestamp, and typed payload.
//
// Session Integration:
//
// Clients subscribe by session: the /ws endpoint takes a session query
// parameter and only that session's messages reach the connection.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(sessions, packs, service.Options{Sink: hub})
package websocket
