package quiz

import "github.com/opd-ai/LobeLabyrinth-sub002/game/content"

// selectQuestion picks the next question through staged fallbacks so play
// keeps flowing as categories and difficulties run dry:
//
//  1. unanswered, matching category, at the current difficulty
//  2. unanswered, matching category, at the nearest other difficulty
//  3. unanswered, any category, at the current difficulty
//  4. any unanswered question
//
// Within the winning stage the pick is uniformly random.
func (e *Engine) selectQuestion(category string, answered func(string) bool) (*content.Question, error) {
	pool := e.unanswered(answered)
	if len(pool) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	if candidates := filter(pool, category, e.difficulty); len(candidates) > 0 {
		return e.pick(candidates), nil
	}
	if category != "" {
		if candidates := e.nearestDifficulty(filter(pool, category, 0)); len(candidates) > 0 {
			return e.pick(candidates), nil
		}
	}
	if candidates := filter(pool, "", e.difficulty); len(candidates) > 0 {
		return e.pick(candidates), nil
	}
	return e.pick(pool), nil
}

func (e *Engine) unanswered(answered func(string) bool) []*content.Question {
	var pool []*content.Question
	for i := range e.pack.Questions {
		q := &e.pack.Questions[i]
		if answered != nil && answered(q.ID) {
			continue
		}
		pool = append(pool, q)
	}
	return pool
}

// filter narrows by category (empty matches all) and difficulty (zero
// matches all).
func filter(pool []*content.Question, category string, difficulty int) []*content.Question {
	var out []*content.Question
	for _, q := range pool {
		if category != "" && q.Category != category {
			continue
		}
		if difficulty != 0 && q.Difficulty != difficulty {
			continue
		}
		out = append(out, q)
	}
	return out
}

// nearestDifficulty keeps the questions closest to the current cursor,
// preferring easier on a tie.
func (e *Engine) nearestDifficulty(pool []*content.Question) []*content.Question {
	if len(pool) == 0 {
		return nil
	}

	best := -1
	bestBelow := false
	for _, q := range pool {
		d := q.Difficulty - e.difficulty
		below := d < 0
		if below {
			d = -d
		}
		if best == -1 || d < best || (d == best && below && !bestBelow) {
			best = d
			bestBelow = below
		}
	}

	var out []*content.Question
	for _, q := range pool {
		d := q.Difficulty - e.difficulty
		below := d < 0
		if below {
			d = -d
		}
		if d == best && below == bestBelow {
			out = append(out, q)
		}
	}
	return out
}

func (e *Engine) pick(candidates []*content.Question) *content.Question {
	return candidates[e.rng.Intn(len(candidates))]
}

// PoolSize reports how many questions remain unanswered, optionally within
// one category.
func (e *Engine) PoolSize(category string, answered func(string) bool) int {
	count := 0
	for i := range e.pack.Questions {
		q := &e.pack.Questions[i]
		if answered != nil && answered(q.ID) {
			continue
		}
		if category != "" && q.Category != category {
			continue
		}
		count++
	}
	return count
}

// Categories returns the distinct question categories in pack order.
func Categories(pack *content.Pack) []string {
	seen := map[string]bool{}
	var out []string
	for _, q := range pack.Questions {
		if q.Category == "" || seen[q.Category] {
			continue
		}
		seen[q.Category] = true
		out = append(out, q.Category)
	}
	return out
}
