// Command analyze prints quick, human-readable heuristics about content
// packs in the project's content directory. It summarizes the room graph,
// question bank composition, achievable score, and highlights achievements
// whose thresholds no play-through can ever satisfy.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
)

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

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzePack(file)
	}
}

// analyzePack loads a single pack and prints its heuristics. Packs that fail
// to parse are reported and skipped; structural validation is the validate
// command's job, not this one's.
func analyzePack(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var pack content.Pack
	if err := json.Unmarshal(data, &pack); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}
	pack.ApplyDefaults()

	fmt.Printf("Name: %s\n", pack.Name)
	fmt.Printf("Rooms: %d, Questions: %d, Achievements: %d\n",
		len(pack.Rooms), len(pack.Questions), len(pack.Achievements))
	fmt.Printf("Start Room: %s\n", pack.Settings.StartRoom)

	analyzeGraph(&pack)
	analyzeQuestions(&pack)
	analyzeScore(&pack)
}

// analyzeGraph reports connectivity shape: average degree, the farthest room
// from the start (in unlock steps), and anything unreachable.
func analyzeGraph(pack *content.Pack) {
	if len(pack.Rooms) == 0 {
		return
	}

	totalDegree := 0
	for _, room := range pack.Rooms {
		totalDegree += len(room.Connections)
	}
	fmt.Printf("Average connections per room: %.1f\n", float64(totalDegree)/float64(len(pack.Rooms)))

	// BFS from the start room for depth and reachability.
	dist := map[string]int{pack.Settings.StartRoom: 0}
	queue := []string{pack.Settings.StartRoom}
	farthest := pack.Settings.StartRoom
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		room := pack.Room(current)
		if room == nil {
			continue
		}
		for _, next := range room.Connections {
			if _, seen := dist[next]; !seen {
				dist[next] = dist[current] + 1
				if dist[next] > dist[farthest] {
					farthest = next
				}
				queue = append(queue, next)
			}
		}
	}

	fmt.Printf("Deepest room: %s (%d unlocks from start)\n", farthest, dist[farthest])

	var unreachable []string
	for _, room := range pack.Rooms {
		if _, ok := dist[room.ID]; !ok {
			unreachable = append(unreachable, room.ID)
		}
	}
	if len(unreachable) > 0 {
		fmt.Printf("⚠️  WARNING: %d rooms unreachable from start: %s\n",
			len(unreachable), strings.Join(unreachable, ", "))
	} else {
		fmt.Printf("✅ All rooms reachable from start\n")
	}
}

// analyzeQuestions prints category and difficulty composition and flags
// preferred categories that have no questions backing them.
func analyzeQuestions(pack *content.Pack) {
	categories := make(map[string]int)
	difficulties := make(map[int]int)
	for _, q := range pack.Questions {
		categories[q.Category]++
		difficulties[q.Difficulty]++
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, categories[name]))
	}
	fmt.Printf("Categories: %s\n", strings.Join(parts, ", "))

	histogram := make([]string, 0, content.MaxDifficulty)
	for tier := content.MinDifficulty; tier <= content.MaxDifficulty; tier++ {
		histogram = append(histogram, fmt.Sprintf("T%d=%d", tier, difficulties[tier]))
	}
	fmt.Printf("Difficulty spread: %s\n", strings.Join(histogram, ", "))

	orphans := 0
	for _, room := range pack.Rooms {
		if room.Category != "" && categories[room.Category] == 0 {
			fmt.Printf("⚠️  Room %q prefers category %q with no questions (selection will fall back)\n",
				room.ID, room.Category)
			orphans++
		}
	}
	if orphans == 0 {
		fmt.Printf("✅ Every preferred room category has questions\n")
	}
}

// analyzeScore computes the best score any play-through can reach (every
// answer correct at full time bonus, every achievement and victory bonus
// earned) and flags achievement thresholds that exceed attainable statistics.
func analyzeScore(pack *content.Pack) {
	maxScore := 0
	for _, q := range pack.Questions {
		maxScore += q.Points + pack.Settings.MaxTimeBonus
	}
	for _, a := range pack.Achievements {
		maxScore += a.Points
	}
	fmt.Printf("Max attainable score (before victory bonuses): %d\n", maxScore)

	impossible := 0
	for _, a := range pack.Achievements {
		reason := ""
		switch a.Trigger.Kind {
		case content.TriggerQuestionsAnswered, content.TriggerCorrectAnswers, content.TriggerBestStreak:
			if a.Trigger.Threshold > float64(len(pack.Questions)) {
				reason = fmt.Sprintf("needs %.0f answers but the bank has %d questions",
					a.Trigger.Threshold, len(pack.Questions))
			}
		case content.TriggerRoomsVisited:
			if a.Trigger.Threshold > float64(len(pack.Rooms)) {
				reason = fmt.Sprintf("needs %.0f rooms but the pack has %d",
					a.Trigger.Threshold, len(pack.Rooms))
			}
		case content.TriggerScoreReached:
			if a.Trigger.Threshold > float64(maxScore) {
				reason = fmt.Sprintf("needs %.0f points but only %d are attainable",
					a.Trigger.Threshold, maxScore)
			}
		}
		if reason != "" {
			fmt.Printf("⚠️  CRITICAL: achievement %q can never unlock: %s\n", a.ID, reason)
			impossible++
		}
	}
	if impossible == 0 {
		fmt.Printf("✅ All achievement thresholds are attainable\n")
	}
}
