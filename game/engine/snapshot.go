package engine

import (
	"fmt"
	"sort"
)

// Snapshot captures the full progression state in a versioned, stable
// form. Set fields come out sorted so repeated saves of the same state are
// byte-identical.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Version:           SchemaVersion,
		CurrentRoomID:     e.state.CurrentRoomID,
		UnlockedRooms:     sortedKeys(e.state.Unlocked),
		VisitedRooms:      sortedKeys(e.state.Visited),
		AnsweredQuestions: sortedKeys(e.state.Answered),
		Score:             e.state.Score,
		QuestionsAnswered: e.state.QuestionsAnswered,
		CorrectAnswers:    e.state.CorrectAnswers,
		HintsUsed:         e.state.HintsUsed,
		SkipsUsed:         e.state.SkipsUsed,
		CurrentStreak:     e.state.CurrentStreak,
		BestStreak:        e.state.BestStreak,
		PlaySeconds:       e.state.PlaySeconds,
		Completed:         e.state.Completed,
		Achievements:      append([]string{}, e.state.Achievements...),
		History:           append([]AnswerRecord{}, e.state.History...),
	}
	return s
}

// RestoreSnapshot replaces the engine state with the snapshot's. The
// snapshot must carry a supported schema version and must be consistent
// with the engine's pack and with the progression invariants; on any
// violation the current state is left untouched.
func (e *Engine) RestoreSnapshot(s Snapshot) error {
	if s.Version != SchemaVersion {
		return fmt.Errorf("unsupported snapshot version %d (want %d)", s.Version, SchemaVersion)
	}
	if s.CurrentRoomID == "" {
		return fmt.Errorf("snapshot missing current room")
	}
	if e.pack.Room(s.CurrentRoomID) == nil {
		return fmt.Errorf("snapshot current room %q: %w", s.CurrentRoomID, ErrRoomNotFound)
	}

	unlocked := map[string]bool{}
	for _, id := range s.UnlockedRooms {
		if e.pack.Room(id) == nil {
			return fmt.Errorf("snapshot unlocked room %q: %w", id, ErrRoomNotFound)
		}
		unlocked[id] = true
	}
	visited := map[string]bool{}
	for _, id := range s.VisitedRooms {
		if !unlocked[id] {
			return fmt.Errorf("snapshot visited room %q is not unlocked", id)
		}
		visited[id] = true
	}
	if !unlocked[e.pack.Settings.StartRoom] {
		return fmt.Errorf("snapshot does not unlock start room %q", e.pack.Settings.StartRoom)
	}
	if !unlocked[s.CurrentRoomID] {
		return fmt.Errorf("snapshot current room %q is not unlocked", s.CurrentRoomID)
	}

	// The unlocked set must form one connected region around the start
	// room: every unlock happens from an adjacent unlocked room, so a
	// detached island can never arise in play.
	reachable := map[string]bool{e.pack.Settings.StartRoom: true}
	queue := []string{e.pack.Settings.StartRoom}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range e.pack.Room(current).Connections {
			if unlocked[next] && !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}
	for _, id := range s.UnlockedRooms {
		if !reachable[id] {
			return fmt.Errorf("snapshot unlocked room %q is disconnected from start room %q",
				id, e.pack.Settings.StartRoom)
		}
	}

	answered := map[string]bool{}
	for _, id := range s.AnsweredQuestions {
		if e.pack.Question(id) == nil {
			return fmt.Errorf("snapshot answered question %q: not in pack", id)
		}
		answered[id] = true
	}
	if len(answered) != s.QuestionsAnswered {
		return fmt.Errorf("snapshot answer count %d does not match %d answered questions",
			s.QuestionsAnswered, len(answered))
	}
	if s.CorrectAnswers > s.QuestionsAnswered {
		return fmt.Errorf("snapshot has %d correct answers out of %d answered",
			s.CorrectAnswers, s.QuestionsAnswered)
	}

	e.state = &State{
		CurrentRoomID:     s.CurrentRoomID,
		Unlocked:          unlocked,
		Visited:           visited,
		Answered:          answered,
		Score:             s.Score,
		QuestionsAnswered: s.QuestionsAnswered,
		CorrectAnswers:    s.CorrectAnswers,
		HintsUsed:         s.HintsUsed,
		SkipsUsed:         s.SkipsUsed,
		CurrentStreak:     s.CurrentStreak,
		BestStreak:        s.BestStreak,
		PlaySeconds:       s.PlaySeconds,
		Completed:         s.Completed,
		Achievements:      append([]string{}, s.Achievements...),
		History:           append([]AnswerRecord{}, s.History...),
	}
	return nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
