// Command validate checks content pack JSON files in a directory (default
// ./content). For each pack it checks:
//   - JSON structure and required fields
//   - Unique room, question, and achievement ids
//   - Symmetric room connections that reference existing rooms
//   - Correct-answer indexes within option bounds
//   - Difficulty, points, and settings ranges
//   - Reachability: every room reachable from the start room
//
// It prints a per-file report and exits non-zero if any pack is invalid.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Notes contains informational summary lines; otherwise
// it accumulates the violations that were found.
type ValidationResult struct {
	File  string
	Valid bool
	Notes []string
}

// validatePack loads and validates a single content pack JSON file using the
// same defaulting and validation path the server applies at load time.
func validatePack(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var pack content.Pack
	if err := json.Unmarshal(data, &pack); err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}
	if pack.ID == "" {
		pack.ID = strings.TrimSuffix(result.File, ".json")
	}

	pack.ApplyDefaults()
	if err := pack.Validate(); err != nil {
		result.Valid = false
		var derr *content.DataError
		if errors.As(err, &derr) {
			result.Notes = append(result.Notes, derr.Violations...)
		} else {
			result.Notes = append(result.Notes, err.Error())
		}
		return result
	}

	// Summary lines for valid packs.
	categories := make(map[string]int)
	for _, q := range pack.Questions {
		categories[q.Category]++
	}
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Name: %s", pack.Name))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Rooms: %d (start: %s)", len(pack.Rooms), pack.Settings.StartRoom))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Questions: %d across %d categories", len(pack.Questions), len(categories)))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Achievements: %d", len(pack.Achievements)))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Timer: %ds, max time bonus %d, skip penalty %d",
		pack.Settings.QuestionSeconds, pack.Settings.MaxTimeBonus, pack.Settings.SkipPenalty))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Victory goals: explore %.0f%%, answer %.0f%%, accuracy %.0f%%",
		pack.Settings.ExploreGoal*100, pack.Settings.AnswerGoal*100, pack.Settings.AccuracyGoal*100))

	// Warn (without failing) about rooms whose preferred category has no
	// questions; selection falls back to any category at play time.
	for _, room := range pack.Rooms {
		if room.Category != "" && categories[room.Category] == 0 {
			result.Notes = append(result.Notes, fmt.Sprintf("⚠ Room %q prefers category %q which has no questions", room.ID, room.Category))
		}
	}

	return result
}

// main scans the content directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	contentDir := "content"
	if len(os.Args) > 1 {
		contentDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(contentDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding pack files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No pack files found in %s\n", contentDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validatePack(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, note := range result.Notes {
				fmt.Println("  " + note)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, note := range result.Notes {
				fmt.Println("  ❌ " + note)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All content packs are valid!")
	} else {
		fmt.Println("❌ Some content packs have errors")
		os.Exit(1)
	}
}
