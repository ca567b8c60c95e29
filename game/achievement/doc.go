// Package achievement evaluates unlock predicates over accumulated game
// statistics. Evaluation is a pure function of a stats snapshot and the
// already-unlocked set, which makes it deterministic and replayable: the
// same snapshot always yields the same unlocks, and re-evaluating never
// duplicates one.
package achievement
