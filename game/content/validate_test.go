package content

import (
	"errors"
	"strings"
	"testing"
)

func createValidPack() *Pack {
	return &Pack{
		ID:          "trivia",
		Name:        "Trivia Pack",
		Description: "Content validation fixture",
		Version:     "1.0.0",
		Settings: Settings{
			StartRoom:       "entrance",
			QuestionSeconds: 30,
			MaxTimeBonus:    50,
			SkipPenalty:     25,
			StreakUpStep:    3,
			StreakDownStep:  2,
			ExploreGoal:     0.8,
			AnswerGoal:      0.7,
			AccuracyGoal:    0.7,
		},
		Rooms: []Room{
			{ID: "entrance", Name: "Entrance", Connections: []string{"hall"}},
			{ID: "hall", Name: "Hall", Connections: []string{"entrance"}},
		},
		Questions: []Question{
			{ID: "q1", Prompt: "Capital of France?", Options: []string{"Paris", "Lyon"},
				CorrectIndex: 0, Category: "geography", Difficulty: 1, Points: 100},
		},
		Achievements: []Achievement{
			{ID: "starter", Name: "Starter", Points: 10, Rarity: "common",
				Trigger: Trigger{Kind: TriggerQuestionsAnswered, Threshold: 1}},
		},
	}
}

func TestValidatePassesValidPack(t *testing.T) {
	if err := createValidPack().Validate(); err != nil {
		t.Errorf("Expected valid pack to pass, got %v", err)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	pack := createValidPack()
	pack.Name = ""
	pack.Settings.ExploreGoal = 1.5
	pack.Questions[0].Points = 0

	err := pack.Validate()
	if err == nil {
		t.Fatal("Expected validation to fail")
	}

	var derr *DataError
	if !errors.As(err, &derr) {
		t.Fatalf("Expected *DataError, got %T", err)
	}
	if len(derr.Violations) != 3 {
		t.Errorf("Expected 3 violations, got %d: %v", len(derr.Violations), derr.Violations)
	}
	if !strings.Contains(err.Error(), "3 violations") {
		t.Errorf("Expected summary to count violations, got %q", err.Error())
	}
}

func TestValidateRoomGraph(t *testing.T) {
	// Self-connection.
	pack := createValidPack()
	pack.Rooms[0].Connections = append(pack.Rooms[0].Connections, "entrance")
	assertViolation(t, pack, "connects to itself")

	// Unknown connection target.
	pack = createValidPack()
	pack.Rooms[0].Connections = []string{"hall", "cellar"}
	assertViolation(t, pack, "unknown room")

	// Asymmetric connection.
	pack = createValidPack()
	pack.Rooms[1].Connections = nil
	assertViolation(t, pack, "does not connect back")

	// Duplicate connection.
	pack = createValidPack()
	pack.Rooms[0].Connections = []string{"hall", "hall"}
	assertViolation(t, pack, "twice")

	// Duplicate room id.
	pack = createValidPack()
	pack.Rooms = append(pack.Rooms, Room{ID: "hall", Name: "Hall Again", Connections: []string{"entrance"}})
	assertViolation(t, pack, "duplicate room id")

	// Missing start room.
	pack = createValidPack()
	pack.Settings.StartRoom = "cellar"
	assertViolation(t, pack, "does not exist")
}

func TestValidateUnreachableRoom(t *testing.T) {
	pack := createValidPack()
	pack.Rooms = append(pack.Rooms,
		Room{ID: "attic", Name: "Attic", Connections: []string{"crypt"}},
		Room{ID: "crypt", Name: "Crypt", Connections: []string{"attic"}},
	)
	err := pack.Validate()
	if err == nil {
		t.Fatal("Expected validation to fail for disconnected component")
	}
	if !strings.Contains(err.Error(), "unreachable") {
		t.Errorf("Expected unreachable room violation, got %q", err.Error())
	}
}

func TestValidateQuestions(t *testing.T) {
	pack := createValidPack()
	pack.Questions[0].CorrectIndex = 2
	assertViolation(t, pack, "out of range")

	pack = createValidPack()
	pack.Questions[0].Options = []string{"only"}
	assertViolation(t, pack, "at least 2 options")

	pack = createValidPack()
	pack.Questions[0].Difficulty = 6
	assertViolation(t, pack, "difficulty")

	pack = createValidPack()
	pack.Questions = nil
	assertViolation(t, pack, "at least one question")
}

func TestValidateAchievements(t *testing.T) {
	pack := createValidPack()
	pack.Achievements[0].Trigger.Kind = "questions_eaten"
	assertViolation(t, pack, "unknown trigger kind")

	pack = createValidPack()
	pack.Achievements[0].Trigger = Trigger{Kind: TriggerAccuracy, Threshold: 1.2}
	assertViolation(t, pack, "must be in (0, 1]")

	pack = createValidPack()
	pack.Achievements[0].Trigger = Trigger{Kind: TriggerBestStreak, Threshold: 0}
	assertViolation(t, pack, "must be positive")

	// Completed triggers need no threshold.
	pack = createValidPack()
	pack.Achievements[0].Trigger = Trigger{Kind: TriggerCompleted}
	if err := pack.Validate(); err != nil {
		t.Errorf("Expected completed trigger without threshold to pass, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	pack := createValidPack()
	pack.Settings = Settings{StartRoom: "entrance"}
	pack.ApplyDefaults()

	if pack.Settings.QuestionSeconds != DefaultQuestionSeconds {
		t.Errorf("Expected default question seconds %d, got %d", DefaultQuestionSeconds, pack.Settings.QuestionSeconds)
	}
	if pack.Settings.ExploreGoal != DefaultExploreGoal {
		t.Errorf("Expected default explore goal %v, got %v", DefaultExploreGoal, pack.Settings.ExploreGoal)
	}
	if err := pack.Validate(); err != nil {
		t.Errorf("Expected defaulted pack to validate, got %v", err)
	}
}

func TestQuestionTimeLimit(t *testing.T) {
	settings := Settings{QuestionSeconds: 30}

	q := &Question{TimeLimitSeconds: 12}
	if limit := q.TimeLimit(settings); limit != 12 {
		t.Errorf("Expected question's own limit 12, got %d", limit)
	}

	q = &Question{}
	if limit := q.TimeLimit(settings); limit != 30 {
		t.Errorf("Expected settings limit 30, got %d", limit)
	}
}

func assertViolation(t *testing.T, pack *Pack, fragment string) {
	t.Helper()
	err := pack.Validate()
	if err == nil {
		t.Errorf("Expected violation containing %q, got none", fragment)
		return
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Errorf("Expected violation containing %q, got %q", fragment, err.Error())
	}
}
