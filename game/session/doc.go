// Package session provides session management for the labyrinth quiz game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Snapshot persistence with pluggable backends
//   - Rehydration of stored sessions on access
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// It implements the service layer's SessionManager interface. SnapshotStore
// is the storage backend contract with file, Redis, and SQLite
// implementations. PersistedSession is the stored shape: pack reference,
// both engine snapshots, and lifecycle timestamps.
//
// Session Identifiers:
//
// Sessions use short 8-character IDs cut from a UUID for easy reference.
// Lookups are case-insensitive.
//
// Concurrency:
//
// The session manager is thread-safe and supports concurrent operations.
// Multiple goroutines can safely create, retrieve, and modify different
// sessions simultaneously. Internal locking ensures map consistency; the
// service layer serializes access to the engines inside each session.
//
// Usage:
//
//	store, err := session.NewFileStore("./sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithStore(packs, store, logger)
//
//	// Create a new session
//	sess, err := manager.Create("", pack)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session (rehydrates from the store on a miss)
//	sess, err = manager.Get(ctx, sessionID)
//
// Persistence:
//
// Saving snapshots the progression and quiz engines; the open question is
// never persisted, so a restored session resumes with no active countdown.
// Rehydration reloads the pack, rebuilds both engines, and validates the
// snapshot against the pack before the session is served.
//
// Cleanup:
//
// Sessions can be explicitly deleted or expire from memory based on
// inactivity. Expired sessions keep their stored snapshots and come back
// on the next access.
package session
