package achievement

import (
	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/engine"
)

// Evaluate returns the achievements newly satisfied by the given
// statistics, in pack declaration order. It is pure: inputs are never
// mutated, every predicate is checked against the same stats snapshot, and
// ids already in unlocked are never returned again. Score changes caused
// by the returned achievements therefore never cascade within one pass;
// they surface on the next evaluation.
func Evaluate(pack *content.Pack, stats engine.Stats, unlocked map[string]bool) []*content.Achievement {
	var newly []*content.Achievement
	for i := range pack.Achievements {
		a := &pack.Achievements[i]
		if unlocked[a.ID] {
			continue
		}
		if satisfied(a.Trigger, stats) {
			newly = append(newly, a)
		}
	}
	return newly
}

// satisfied checks one trigger predicate against a stats snapshot.
// Accuracy triggers require AccuracyMinAnswers resolved questions first so
// a single lucky answer cannot unlock a precision award.
func satisfied(trigger content.Trigger, stats engine.Stats) bool {
	switch trigger.Kind {
	case content.TriggerQuestionsAnswered:
		return stats.QuestionsAnswered >= int(trigger.Threshold)
	case content.TriggerCorrectAnswers:
		return stats.CorrectAnswers >= int(trigger.Threshold)
	case content.TriggerRoomsVisited:
		return stats.RoomsVisited >= int(trigger.Threshold)
	case content.TriggerScoreReached:
		return stats.Score >= int(trigger.Threshold)
	case content.TriggerBestStreak:
		return stats.BestStreak >= int(trigger.Threshold)
	case content.TriggerAccuracy:
		return stats.QuestionsAnswered >= content.AccuracyMinAnswers && stats.Accuracy >= trigger.Threshold
	case content.TriggerExploration:
		return stats.Exploration >= trigger.Threshold
	case content.TriggerHintsUsed:
		return stats.HintsUsed >= int(trigger.Threshold)
	case content.TriggerSkipsUsed:
		return stats.SkipsUsed >= int(trigger.Threshold)
	case content.TriggerPlaySeconds:
		return stats.PlaySeconds >= int(trigger.Threshold)
	case content.TriggerCompleted:
		return stats.Completed
	default:
		return false
	}
}

// Status pairs an achievement with a player's standing toward it.
type Status struct {
	Achievement content.Achievement `json:"achievement"`
	Unlocked    bool                `json:"unlocked"`
	Progress    float64             `json:"progress"`
}

// Statuses reports every achievement with its unlock state and a progress
// fraction in [0, 1], in pack declaration order.
func Statuses(pack *content.Pack, stats engine.Stats, unlocked map[string]bool) []Status {
	statuses := make([]Status, 0, len(pack.Achievements))
	for _, a := range pack.Achievements {
		status := Status{Achievement: a, Unlocked: unlocked[a.ID]}
		if status.Unlocked {
			status.Progress = 1
		} else {
			status.Progress = progress(a.Trigger, stats)
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func progress(trigger content.Trigger, stats engine.Stats) float64 {
	var current float64
	switch trigger.Kind {
	case content.TriggerQuestionsAnswered:
		current = float64(stats.QuestionsAnswered)
	case content.TriggerCorrectAnswers:
		current = float64(stats.CorrectAnswers)
	case content.TriggerRoomsVisited:
		current = float64(stats.RoomsVisited)
	case content.TriggerScoreReached:
		current = float64(stats.Score)
	case content.TriggerBestStreak:
		current = float64(stats.BestStreak)
	case content.TriggerAccuracy:
		current = stats.Accuracy
	case content.TriggerExploration:
		current = stats.Exploration
	case content.TriggerHintsUsed:
		current = float64(stats.HintsUsed)
	case content.TriggerSkipsUsed:
		current = float64(stats.SkipsUsed)
	case content.TriggerPlaySeconds:
		current = float64(stats.PlaySeconds)
	case content.TriggerCompleted:
		if stats.Completed {
			return 1
		}
		return 0
	default:
		return 0
	}

	if trigger.Threshold <= 0 {
		return 0
	}
	fraction := current / trigger.Threshold
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}
