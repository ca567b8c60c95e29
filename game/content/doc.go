// Package content defines the data that drives a LobeLabyrinth game: the
// room graph, the question bank, the achievement list, and pack-level
// tuning settings, bundled together as a Pack.
//
// The package handles:
//   - Pack loading from JSON files (FSSource) or MongoDB (MongoSource)
//   - Exhaustive pack validation with a full violation list (DataError)
//   - Default filling for omitted settings
//   - Cached pack access with request collapsing (Manager)
//
// Validation:
//
// Pack.Validate checks every rule in one pass and reports all violations
// at once: duplicate ids, dangling or asymmetric room connections, rooms
// unreachable from the start room, answer indexes out of range, difficulty
// and point bounds, and unknown achievement trigger kinds. A pack that
// fails validation is never served.
//
// Usage:
//
//	source, err := content.NewFSSource("content")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	packs := content.NewManager(source, "classic", 5*time.Minute)
//	pack, err := packs.GetPack(ctx, "classic")
package content
