package content

import (
	"fmt"
	"strings"
)

// DataError is returned when a pack fails validation. It carries every
// violation found so authors can fix a pack in one pass instead of
// replaying load-fail cycles.
type DataError struct {
	PackID     string
	Violations []string
}

// Error summarizes the violation list.
func (e *DataError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("pack %q: %s", e.PackID, e.Violations[0])
	}
	return fmt.Sprintf("pack %q: %d violations: %s", e.PackID, len(e.Violations), strings.Join(e.Violations, "; "))
}

func (e *DataError) add(format string, args ...any) {
	e.Violations = append(e.Violations, fmt.Sprintf(format, args...))
}

// Validate checks the pack for structural correctness and playability.
// It returns a *DataError listing all violations, or nil when the pack is
// sound. Call ApplyDefaults first so zero-valued settings don't trip the
// range checks.
func (p *Pack) Validate() error {
	derr := &DataError{PackID: p.ID}

	if p.ID == "" {
		derr.add("id is required")
	}
	if p.Name == "" {
		derr.add("name is required")
	}

	validateSettings(derr, p.Settings)
	roomIDs := validateRooms(derr, p)
	validateQuestions(derr, p)
	validateAchievements(derr, p)

	// Reachability only makes sense once the graph itself is coherent.
	if len(roomIDs) > 0 && p.Settings.StartRoom != "" && roomIDs[p.Settings.StartRoom] {
		for _, id := range unreachableRooms(p.Rooms, p.Settings.StartRoom) {
			derr.add("room %q is unreachable from start room %q", id, p.Settings.StartRoom)
		}
	}

	if len(derr.Violations) > 0 {
		return derr
	}
	return nil
}

func validateSettings(derr *DataError, s Settings) {
	if s.StartRoom == "" {
		derr.add("settings.start_room is required")
	}
	if s.QuestionSeconds <= 0 {
		derr.add("settings.question_seconds must be positive, got %d", s.QuestionSeconds)
	}
	if s.MaxTimeBonus < 0 {
		derr.add("settings.max_time_bonus must not be negative, got %d", s.MaxTimeBonus)
	}
	if s.SkipPenalty < 0 {
		derr.add("settings.skip_penalty must not be negative, got %d", s.SkipPenalty)
	}
	if s.StreakUpStep <= 0 {
		derr.add("settings.streak_up_step must be positive, got %d", s.StreakUpStep)
	}
	if s.StreakDownStep <= 0 {
		derr.add("settings.streak_down_step must be positive, got %d", s.StreakDownStep)
	}
	for name, goal := range map[string]float64{
		"explore_goal":  s.ExploreGoal,
		"answer_goal":   s.AnswerGoal,
		"accuracy_goal": s.AccuracyGoal,
	} {
		if goal <= 0 || goal > 1 {
			derr.add("settings.%s must be in (0, 1], got %v", name, goal)
		}
	}
}

func validateRooms(derr *DataError, p *Pack) map[string]bool {
	if len(p.Rooms) == 0 {
		derr.add("pack must contain at least one room")
		return nil
	}

	roomIDs := make(map[string]bool, len(p.Rooms))
	for i, room := range p.Rooms {
		if room.ID == "" {
			derr.add("room %d: id is required", i)
			continue
		}
		if roomIDs[room.ID] {
			derr.add("duplicate room id %q", room.ID)
		}
		roomIDs[room.ID] = true
		if room.Name == "" {
			derr.add("room %q: name is required", room.ID)
		}
	}

	// Connections must point at known rooms and be symmetric.
	for _, room := range p.Rooms {
		seen := make(map[string]bool, len(room.Connections))
		for _, conn := range room.Connections {
			if conn == room.ID {
				derr.add("room %q connects to itself", room.ID)
				continue
			}
			if seen[conn] {
				derr.add("room %q lists connection %q twice", room.ID, conn)
				continue
			}
			seen[conn] = true
			other := p.Room(conn)
			if other == nil {
				derr.add("room %q connects to unknown room %q", room.ID, conn)
				continue
			}
			if !contains(other.Connections, room.ID) {
				derr.add("room %q connects to %q but %q does not connect back", room.ID, conn, conn)
			}
		}
	}

	if p.Settings.StartRoom != "" && !roomIDs[p.Settings.StartRoom] {
		derr.add("start room %q does not exist", p.Settings.StartRoom)
	}

	return roomIDs
}

func validateQuestions(derr *DataError, p *Pack) {
	if len(p.Questions) == 0 {
		derr.add("pack must contain at least one question")
	}

	questionIDs := make(map[string]bool, len(p.Questions))
	for i, q := range p.Questions {
		label := q.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
			derr.add("question %s: id is required", label)
		}
		if questionIDs[q.ID] && q.ID != "" {
			derr.add("duplicate question id %q", q.ID)
		}
		questionIDs[q.ID] = true

		if q.Prompt == "" {
			derr.add("question %s: prompt is required", label)
		}
		if len(q.Options) < MinOptions {
			derr.add("question %s: needs at least %d options, got %d", label, MinOptions, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			derr.add("question %s: correct_index %d out of range for %d options", label, q.CorrectIndex, len(q.Options))
		}
		if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
			derr.add("question %s: difficulty must be between %d and %d, got %d", label, MinDifficulty, MaxDifficulty, q.Difficulty)
		}
		if q.Points <= 0 {
			derr.add("question %s: points must be positive, got %d", label, q.Points)
		}
		if q.TimeLimitSeconds < 0 {
			derr.add("question %s: time_limit_seconds must not be negative, got %d", label, q.TimeLimitSeconds)
		}
	}
}

func validateAchievements(derr *DataError, p *Pack) {
	validKinds := map[string]bool{
		TriggerQuestionsAnswered: true,
		TriggerCorrectAnswers:    true,
		TriggerRoomsVisited:      true,
		TriggerScoreReached:      true,
		TriggerBestStreak:        true,
		TriggerAccuracy:          true,
		TriggerExploration:       true,
		TriggerHintsUsed:         true,
		TriggerSkipsUsed:         true,
		TriggerPlaySeconds:       true,
		TriggerCompleted:         true,
	}

	achievementIDs := make(map[string]bool, len(p.Achievements))
	for i, a := range p.Achievements {
		label := a.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
			derr.add("achievement %s: id is required", label)
		}
		if achievementIDs[a.ID] && a.ID != "" {
			derr.add("duplicate achievement id %q", a.ID)
		}
		achievementIDs[a.ID] = true

		if a.Name == "" {
			derr.add("achievement %s: name is required", label)
		}
		if a.Points < 0 {
			derr.add("achievement %s: points must not be negative, got %d", label, a.Points)
		}
		if !validKinds[a.Trigger.Kind] {
			derr.add("achievement %s: unknown trigger kind %q", label, a.Trigger.Kind)
			continue
		}
		switch a.Trigger.Kind {
		case TriggerCompleted:
			// No threshold.
		case TriggerAccuracy, TriggerExploration:
			if a.Trigger.Threshold <= 0 || a.Trigger.Threshold > 1 {
				derr.add("achievement %s: %s threshold must be in (0, 1], got %v", label, a.Trigger.Kind, a.Trigger.Threshold)
			}
		default:
			if a.Trigger.Threshold <= 0 {
				derr.add("achievement %s: %s threshold must be positive, got %v", label, a.Trigger.Kind, a.Trigger.Threshold)
			}
		}
	}
}

// unreachableRooms runs a breadth-first walk over the connection graph from
// the start room and reports every room the walk never touches.
func unreachableRooms(rooms []Room, start string) []string {
	adjacency := make(map[string][]string, len(rooms))
	for _, room := range rooms {
		adjacency[room.ID] = room.Connections
	}

	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[current] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var missing []string
	for _, room := range rooms {
		if !visited[room.ID] {
			missing = append(missing, room.ID)
		}
	}
	return missing
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
