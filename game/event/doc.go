// Package event defines the typed event stream emitted by the game
// service. Every state change surfaces as one of a closed set of payload
// variants wrapped in an Envelope; transports broadcast envelopes verbatim
// and consumers type-switch on Envelope.Payload.
//
// For a single command the service emits events in a fixed order: the
// command's primary event first, then room unlocks, then the command's
// score change, then one AchievementUnlocked plus ScoreChanged pair per
// newly earned achievement, and finally GameCompleted with its bonus
// ScoreChanged when the victory condition is first met.
package event
