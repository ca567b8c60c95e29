// Package config assembles the application configuration for the
// LobeLabyrinth server.
//
// Configuration is layered. Each layer overrides the one below it field
// by field:
//
//  1. Built-in defaults (Default)
//  2. A YAML file, when a path is given (--config flag or LOBE_CONFIG)
//  3. LOBE_* environment variables
//
// Example file:
//
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	content:
//	  source: fs
//	  dir: content
//	  default_pack: classic
//	sessions:
//	  store: sqlite
//	  sqlite_path: sessions.db
//	  autosave_seconds: 30
//	  cleanup_interval: 1h
//	  max_age: 24h
//
// Durations are written as Go duration strings ("30s", "1h"). Fields
// left empty fall back to their defaults through the *Duration
// accessors, so a partially filled file is always usable.
//
// Load validates the final assembly and rejects contradictions (an
// unknown store backend, a redis store with no address) up front, so
// construction code can trust every field it reads.
package config
