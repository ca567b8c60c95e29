package engine

import "math"

// CheckVictory evaluates the victory condition and, the first time it is
// met, marks the run completed, computes the victory bonuses, and applies
// their total to the score. It returns the bonuses and true on that first
// transition only; every other call returns nil and false.
//
// The condition uses the pack's goal settings: exploration ratio at least
// ExploreGoal, answered ratio at least AnswerGoal, and accuracy at least
// AccuracyGoal.
func (e *Engine) CheckVictory() (*Bonuses, bool) {
	if e.state.Completed {
		return nil, false
	}

	stats := e.Stats()
	goals := e.pack.Settings
	if stats.Exploration < goals.ExploreGoal ||
		stats.AnsweredRatio < goals.AnswerGoal ||
		stats.Accuracy < goals.AccuracyGoal {
		return nil, false
	}

	bonuses := &Bonuses{
		Completion:  CompletionBonus,
		Exploration: int(math.Round(stats.Exploration * ExplorationBonusMax)),
		Accuracy:    int(math.Round(stats.Accuracy * AccuracyBonusMax)),
		Speed:       speedBonus(e.state.History),
	}
	bonuses.Total = bonuses.Completion + bonuses.Exploration + bonuses.Accuracy + bonuses.Speed

	e.state.Completed = true
	e.state.Score += bonuses.Total
	return bonuses, true
}

// speedBonus rewards quick answers: the maximum shrinks by
// SpeedBonusPerSecond for every second of the average answer time, with a
// floor of zero.
func speedBonus(history []AnswerRecord) int {
	if len(history) == 0 {
		return SpeedBonusMax
	}
	total := 0
	for _, rec := range history {
		total += rec.TimeTakenSeconds
	}
	avg := float64(total) / float64(len(history))
	bonus := SpeedBonusMax - int(math.Round(avg*SpeedBonusPerSecond))
	if bonus < 0 {
		return 0
	}
	return bonus
}
