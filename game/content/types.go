package content

// Difficulty bounds and default tuning values applied when a pack's
// settings omit them.
const (
	MinDifficulty = 1
	MaxDifficulty = 5

	DefaultQuestionSeconds = 30
	DefaultMaxTimeBonus    = 50
	DefaultSkipPenalty     = 25
	DefaultStreakUpStep    = 3
	DefaultStreakDownStep  = 2

	DefaultExploreGoal  = 0.8
	DefaultAnswerGoal   = 0.7
	DefaultAccuracyGoal = 0.7

	// MinOptions is the smallest allowed answer option count per question.
	MinOptions = 2

	// AccuracyMinAnswers is how many questions must be answered before
	// accuracy-based triggers are considered meaningful.
	AccuracyMinAnswers = 5
)

// Trigger kinds understood by the achievement evaluator.
const (
	TriggerQuestionsAnswered = "questions_answered"
	TriggerCorrectAnswers    = "correct_answers"
	TriggerRoomsVisited      = "rooms_visited"
	TriggerScoreReached      = "score_reached"
	TriggerBestStreak        = "best_streak"
	TriggerAccuracy          = "accuracy"
	TriggerExploration       = "exploration"
	TriggerHintsUsed         = "hints_used"
	TriggerSkipsUsed         = "skips_used"
	TriggerPlaySeconds       = "play_seconds"
	TriggerCompleted         = "completed"
)

// Room is a single location in the labyrinth. Connections are undirected:
// every listed neighbor must list this room back. The connection order is
// meaningful and controls unlock event ordering.
type Room struct {
	ID          string   `json:"id" bson:"id"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	Connections []string `json:"connections" bson:"connections"`
	Category    string   `json:"category,omitempty" bson:"category,omitempty"`
}

// Question is a multiple-choice quiz question. CorrectIndex addresses the
// Options slice. TimeLimitSeconds of zero means the pack default applies.
type Question struct {
	ID               string   `json:"id" bson:"id"`
	Prompt           string   `json:"prompt" bson:"prompt"`
	Options          []string `json:"options" bson:"options"`
	CorrectIndex     int      `json:"correct_index" bson:"correct_index"`
	Category         string   `json:"category" bson:"category"`
	Difficulty       int      `json:"difficulty" bson:"difficulty"`
	Points           int      `json:"points" bson:"points"`
	TimeLimitSeconds int      `json:"time_limit_seconds,omitempty" bson:"time_limit_seconds,omitempty"`
	Hint             string   `json:"hint,omitempty" bson:"hint,omitempty"`
	Explanation      string   `json:"explanation,omitempty" bson:"explanation,omitempty"`
}

// TimeLimit returns the question's own limit or the pack default.
func (q *Question) TimeLimit(settings Settings) int {
	if q.TimeLimitSeconds > 0 {
		return q.TimeLimitSeconds
	}
	return settings.QuestionSeconds
}

// Trigger is the predicate attached to an achievement. Threshold is compared
// against the statistic selected by Kind; for ratio kinds (accuracy,
// exploration) it is a fraction in (0, 1], for "completed" it is ignored.
type Trigger struct {
	Kind      string  `json:"kind" bson:"kind"`
	Threshold float64 `json:"threshold,omitempty" bson:"threshold,omitempty"`
}

// Achievement is a named reward with a trigger predicate. Rarity is a
// display hint only and never affects evaluation.
type Achievement struct {
	ID          string  `json:"id" bson:"id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Points      int     `json:"points" bson:"points"`
	Rarity      string  `json:"rarity,omitempty" bson:"rarity,omitempty"`
	Trigger     Trigger `json:"trigger" bson:"trigger"`
}

// Settings carries the pack-level tuning knobs. Zero values are replaced
// with defaults by ApplyDefaults before validation.
type Settings struct {
	StartRoom       string  `json:"start_room" bson:"start_room"`
	QuestionSeconds int     `json:"question_seconds,omitempty" bson:"question_seconds,omitempty"`
	MaxTimeBonus    int     `json:"max_time_bonus,omitempty" bson:"max_time_bonus,omitempty"`
	SkipPenalty     int     `json:"skip_penalty,omitempty" bson:"skip_penalty,omitempty"`
	StreakUpStep    int     `json:"streak_up_step,omitempty" bson:"streak_up_step,omitempty"`
	StreakDownStep  int     `json:"streak_down_step,omitempty" bson:"streak_down_step,omitempty"`
	ExploreGoal     float64 `json:"explore_goal,omitempty" bson:"explore_goal,omitempty"`
	AnswerGoal      float64 `json:"answer_goal,omitempty" bson:"answer_goal,omitempty"`
	AccuracyGoal    float64 `json:"accuracy_goal,omitempty" bson:"accuracy_goal,omitempty"`
}

// Pack is a complete, self-contained game definition: the room graph, the
// question bank, the achievement list, and the tuning settings.
type Pack struct {
	ID           string        `json:"id" bson:"_id"`
	Name         string        `json:"name" bson:"name"`
	Description  string        `json:"description" bson:"description"`
	Version      string        `json:"version,omitempty" bson:"version,omitempty"`
	Settings     Settings      `json:"settings" bson:"settings"`
	Rooms        []Room        `json:"rooms" bson:"rooms"`
	Questions    []Question    `json:"questions" bson:"questions"`
	Achievements []Achievement `json:"achievements" bson:"achievements"`
}

// PackInfo is the listing view of a pack, cheap enough to build without
// holding the full question bank.
type PackInfo struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Version          string `json:"version,omitempty"`
	RoomCount        int    `json:"room_count"`
	QuestionCount    int    `json:"question_count"`
	AchievementCount int    `json:"achievement_count"`
}

// Info builds the listing view for this pack.
func (p *Pack) Info() PackInfo {
	return PackInfo{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Version:          p.Version,
		RoomCount:        len(p.Rooms),
		QuestionCount:    len(p.Questions),
		AchievementCount: len(p.Achievements),
	}
}

// Room returns the room with the given id, or nil when absent.
func (p *Pack) Room(id string) *Room {
	for i := range p.Rooms {
		if p.Rooms[i].ID == id {
			return &p.Rooms[i]
		}
	}
	return nil
}

// Question returns the question with the given id, or nil when absent.
func (p *Pack) Question(id string) *Question {
	for i := range p.Questions {
		if p.Questions[i].ID == id {
			return &p.Questions[i]
		}
	}
	return nil
}

// ApplyDefaults fills zero-valued settings with the package defaults.
// Sources call this after decoding and before Validate.
func (p *Pack) ApplyDefaults() {
	s := &p.Settings
	if s.QuestionSeconds == 0 {
		s.QuestionSeconds = DefaultQuestionSeconds
	}
	if s.MaxTimeBonus == 0 {
		s.MaxTimeBonus = DefaultMaxTimeBonus
	}
	if s.SkipPenalty == 0 {
		s.SkipPenalty = DefaultSkipPenalty
	}
	if s.StreakUpStep == 0 {
		s.StreakUpStep = DefaultStreakUpStep
	}
	if s.StreakDownStep == 0 {
		s.StreakDownStep = DefaultStreakDownStep
	}
	if s.ExploreGoal == 0 {
		s.ExploreGoal = DefaultExploreGoal
	}
	if s.AnswerGoal == 0 {
		s.AnswerGoal = DefaultAnswerGoal
	}
	if s.AccuracyGoal == 0 {
		s.AccuracyGoal = DefaultAccuracyGoal
	}
}
