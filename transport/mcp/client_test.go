package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/event"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/quiz"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/service"
)

func sampleStateView() *service.StateView {
	return &service.StateView{
		SessionID: "abc12345",
		PackID:    "classic",
		CurrentRoom: service.RoomView{
			ID:          "hall",
			Name:        "Grand Hall",
			Description: "Echoes of footsteps fill the vaulted ceiling.",
			Category:    "history",
			Connections: []service.ConnectionView{
				{RoomID: "library", Name: "The Library", Unlocked: true, Visited: true},
				{RoomID: "cellar", Name: "The Cellar", Unlocked: false},
			},
		},
		UnlockedRooms:     []string{"entrance", "hall", "library"},
		VisitedRooms:      []string{"entrance", "hall"},
		Score:             420,
		QuestionsAnswered: 5,
		CorrectAnswers:    4,
		CurrentStreak:     2,
		BestStreak:        3,
		HintsUsed:         1,
		PlaySeconds:       452,
		Timer:             quiz.TimerIdle,
		Difficulty:        2,
		Frontier:          []string{"library"},
		NearestUnvisited:  &service.NearestRoom{RoomID: "library", Distance: 1},
		Achievements:      []string{"first_steps"},
	}
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"id":      "test-session",
		"pack_id": "classic",
		"score":   float64(0),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall("GET", "/api", nil, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != expectedResponse["id"] {
		t.Errorf("Expected id %v, got %v", expectedResponse["id"], response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "a question is already active",
			"code":  "question_active",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("POST", "/api/sessions/x/question", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 409 response")
	}

	if err.Error() != "a question is already active" {
		t.Errorf("Expected the API's error message, got: %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		resp := service.SessionInfo{
			ID:        "test-session-123",
			PackID:    "classic",
			CreatedAt: time.Now(),
			State:     sampleStateView(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, toolRequest("create_session", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "test-session-123") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if !strings.Contains(text, "Pack: classic") {
		t.Errorf("Expected pack name in result, got: %s", text)
	}
	if !strings.Contains(text, "Starting room: Grand Hall") {
		t.Errorf("Expected starting room in result, got: %s", text)
	}
}

func TestClient_createSessionForwardsPack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["pack_id"] != "mythology" {
			t.Errorf("Expected pack_id mythology, got %q", body["pack_id"])
		}

		resp := service.SessionInfo{ID: "s1", PackID: "mythology"}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.handleCreateSession(context.Background(),
		toolRequest("create_session", map[string]interface{}{"pack_id": "mythology"}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}
}

func TestClient_handleGameState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/api/sessions/abc12345/state" {
			t.Errorf("Expected GET /api/sessions/abc12345/state, got %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(sampleStateView())
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleGameState(context.Background(),
		toolRequest("game_state", map[string]interface{}{"session_id": "abc12345"}))
	if err != nil {
		t.Fatalf("handleGameState failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Room: Grand Hall (hall)") {
		t.Errorf("Expected room header in result, got: %s", text)
	}
	if !strings.Contains(text, "Score: 420") {
		t.Errorf("Expected score in result, got: %s", text)
	}
}

func TestClient_handleMoveToRoom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/abc12345/move" {
			t.Errorf("Expected POST /api/sessions/abc12345/move, got %s %s", r.Method, r.URL.Path)
		}

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["room_id"] != "library" {
			t.Errorf("Expected room_id library, got %v", body["room_id"])
		}

		resp := map[string]interface{}{
			"success":     true,
			"first_visit": true,
			"message":     "Moved to The Library",
			"state":       sampleStateView(),
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleMoveToRoom(context.Background(),
		toolRequest("move_to_room", map[string]interface{}{
			"session_id": "abc12345",
			"room_id":    "library",
			"intent":     "explore the unlocked frontier",
		}))
	if err != nil {
		t.Fatalf("handleMoveToRoom failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "✓ Moved to The Library (first visit)") {
		t.Errorf("Expected move confirmation, got: %s", text)
	}
}

func TestClient_handleMoveToRoom_Locked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"error": `room "cellar" is locked`,
			"code":  "invalid_move",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleMoveToRoom(context.Background(),
		toolRequest("move_to_room", map[string]interface{}{
			"session_id": "abc12345",
			"room_id":    "cellar",
		}))
	if err != nil {
		t.Fatalf("handleMoveToRoom failed: %v", err)
	}

	if !result.IsError {
		t.Error("Expected error result for locked room")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "locked") {
		t.Errorf("Expected lock message in result, got: %s", text)
	}
}

func TestClient_handleRequestQuestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/abc12345/question" {
			t.Errorf("Expected /api/sessions/abc12345/question, got %s", r.URL.Path)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["category"] != "science" {
			t.Errorf("Expected category science, got %q", body["category"])
		}

		resp := service.QuestionResult{
			Question: quiz.QuestionView{
				ID:               "q1",
				Prompt:           "Which planet is known as the Red Planet?",
				Options:          []string{"Venus", "Mars", "Jupiter", "Saturn"},
				Category:         "science",
				Difficulty:       2,
				Points:           200,
				TotalSeconds:     30,
				RemainingSeconds: 30,
				Timer:            quiz.TimerRunning,
				HintAvailable:    true,
			},
			PoolRemaining: 34,
			Message:       "Question started, 30 seconds on the clock",
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleRequestQuestion(context.Background(),
		toolRequest("request_question", map[string]interface{}{
			"session_id": "abc12345",
			"category":   "science",
		}))
	if err != nil {
		t.Fatalf("handleRequestQuestion failed: %v", err)
	}

	text := resultText(t, result)
	expectedFields := []string{
		"Which planet is known as the Red Planet?",
		"0. Venus",
		"1. Mars",
		"Timer: running, 30 of 30 seconds remaining",
		"A hint is available",
		"Pool remaining: 34 questions",
	}
	for _, field := range expectedFields {
		if !strings.Contains(text, field) {
			t.Errorf("Expected %q in result, got: %s", field, text)
		}
	}
}

func TestClient_handleSubmitAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/abc12345/answer" {
			t.Errorf("Expected /api/sessions/abc12345/answer, got %s", r.URL.Path)
		}

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["option_index"] != float64(1) {
			t.Errorf("Expected option_index 1, got %v", body["option_index"])
		}

		resp := map[string]interface{}{
			"outcome": quiz.Outcome{
				QuestionID:    "q1",
				Correct:       true,
				SelectedIndex: 1,
				CorrectIndex:  1,
				BasePoints:    200,
				TimeBonus:     40,
				Points:        240,
			},
			"state":   sampleStateView(),
			"message": "Correct! Scored 240 points",
			"events": []map[string]interface{}{
				{"type": "room_unlocked", "payload": map[string]interface{}{
					"room_id": "cellar", "unlocked_by": "hall",
				}},
				{"type": "score_changed", "payload": map[string]interface{}{
					"delta": 240, "total": 660, "reason": "answer",
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleSubmitAnswer(context.Background(),
		toolRequest("submit_answer", map[string]interface{}{
			"session_id":   "abc12345",
			"option_index": float64(1),
			"intent":       "Mars is the Red Planet",
		}))
	if err != nil {
		t.Fatalf("handleSubmitAnswer failed: %v", err)
	}

	text := resultText(t, result)
	expectedFields := []string{
		"✓ Correct!",
		"Points: 200 base + 40 time bonus = 240",
		"room_unlocked: cellar is now open",
		"score_changed: +240 (answer), total 660",
	}
	for _, field := range expectedFields {
		if !strings.Contains(text, field) {
			t.Errorf("Expected %q in result, got: %s", field, text)
		}
	}
}

func TestClient_handleSubmitAnswer_MissingIndex(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleSubmitAnswer(context.Background(),
		toolRequest("submit_answer", map[string]interface{}{
			"session_id": "abc12345",
		}))
	if err != nil {
		t.Fatalf("handleSubmitAnswer failed: %v", err)
	}

	if !result.IsError {
		t.Error("Expected error result for missing option_index")
	}
}

func TestClient_handleSkipQuestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/abc12345/skip" {
			t.Errorf("Expected /api/sessions/abc12345/skip, got %s", r.URL.Path)
		}

		resp := map[string]interface{}{
			"outcome": quiz.Outcome{
				QuestionID:    "q2",
				Skipped:       true,
				SelectedIndex: -1,
				CorrectIndex:  2,
				Penalty:       25,
				Points:        -25,
			},
			"state":   sampleStateView(),
			"message": "Question skipped, 25 point penalty",
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleSkipQuestion(context.Background(),
		toolRequest("skip_question", map[string]interface{}{"session_id": "abc12345"}))
	if err != nil {
		t.Fatalf("handleSkipQuestion failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "⏭ Question skipped") {
		t.Errorf("Expected skip marker in result, got: %s", text)
	}
	if !strings.Contains(text, "Penalty: 25 points") {
		t.Errorf("Expected penalty in result, got: %s", text)
	}
	if !strings.Contains(text, "The correct answer was option 2") {
		t.Errorf("Expected correct answer reveal, got: %s", text)
	}
}

func TestClient_handleRequestHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/abc12345/hint" {
			t.Errorf("Expected /api/sessions/abc12345/hint, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"question_id": "q1",
			"hint":        "It is named after a god of war.",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleRequestHint(context.Background(),
		toolRequest("request_hint", map[string]interface{}{"session_id": "abc12345"}))
	if err != nil {
		t.Fatalf("handleRequestHint failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "💡 Hint: It is named after a god of war.") {
		t.Errorf("Expected hint in result, got: %s", text)
	}
}

func TestClient_handlePauseAndResume(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sessions/abc12345/pause":
			json.NewEncoder(w).Encode(service.TimerResult{
				QuestionID: "q1", Timer: quiz.TimerPaused, RemainingSeconds: 18,
			})
		case "/api/sessions/abc12345/resume":
			json.NewEncoder(w).Encode(service.TimerResult{
				QuestionID: "q1", Timer: quiz.TimerRunning, RemainingSeconds: 18,
			})
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	args := map[string]interface{}{"session_id": "abc12345"}

	result, err := client.handlePauseGame(context.Background(), toolRequest("pause_game", args))
	if err != nil {
		t.Fatalf("handlePauseGame failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "⏸ Timer paused on question q1, 18 seconds remaining") {
		t.Errorf("Expected pause confirmation, got: %s", text)
	}

	result, err = client.handleResumeGame(context.Background(), toolRequest("resume_game", args))
	if err != nil {
		t.Fatalf("handleResumeGame failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "▶ Timer running on question q1, 18 seconds remaining") {
		t.Errorf("Expected resume confirmation, got: %s", text)
	}
}

func TestClient_handleSaveAndLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sessions/abc12345/save":
			json.NewEncoder(w).Encode(map[string]string{"message": "Session saved"})
		case "/api/sessions/abc12345/load":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"message": "Session loaded from last save",
				"state":   sampleStateView(),
			})
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	args := map[string]interface{}{"session_id": "abc12345"}

	result, err := client.handleSaveGame(context.Background(), toolRequest("save_game", args))
	if err != nil {
		t.Fatalf("handleSaveGame failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Session saved") {
		t.Errorf("Expected save confirmation, got: %s", text)
	}

	result, err = client.handleLoadGame(context.Background(), toolRequest("load_game", args))
	if err != nil {
		t.Fatalf("handleLoadGame failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Session loaded from last save") {
		t.Errorf("Expected load confirmation, got: %s", text)
	}
	if !strings.Contains(text, "Room: Grand Hall (hall)") {
		t.Errorf("Expected restored state in result, got: %s", text)
	}
}

func TestClient_handleListPacks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/packs" {
			t.Errorf("Expected /api/packs, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"packs": []content.PackInfo{
				{
					ID:               "classic",
					Name:             "Classic Labyrinth",
					Description:      "Ten rooms of general knowledge",
					RoomCount:        10,
					QuestionCount:    40,
					AchievementCount: 10,
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleListPacks(context.Background(),
		toolRequest("list_packs", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleListPacks failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Classic Labyrinth (classic)") {
		t.Errorf("Expected pack name in result, got: %s", text)
	}
	if !strings.Contains(text, "Rooms: 10, Questions: 40, Achievements: 10") {
		t.Errorf("Expected pack counts in result, got: %s", text)
	}
}

func TestFormatStateView(t *testing.T) {
	result := formatStateView(sampleStateView())

	expectedFields := []string{
		"Room: Grand Hall (hall)",
		"Score: 420",
		"Difficulty: 2/5",
		"2 rooms visited, 5 questions resolved (4 correct, 80% accuracy)",
		"Streak: 2 (best 3)",
		"Play time: 7m32s",
		"The Library (library) [open, visited]",
		"The Cellar (cellar) [LOCKED]",
		"Unlocked but unvisited: library",
		"Nearest unvisited room: library (1 moves away)",
		"Achievements unlocked: 1 (first_steps)",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field %q in formatted output, got: %s", field, result)
		}
	}

	if strings.Contains(result, "VICTORY") {
		t.Errorf("Did not expect victory marker, got: %s", result)
	}
}

func TestFormatStateView_Victory(t *testing.T) {
	state := sampleStateView()
	state.Completed = true

	result := formatStateView(state)

	if !strings.Contains(result, "🎉 VICTORY!") {
		t.Errorf("Expected '🎉 VICTORY!' in result, got: %s", result)
	}
}

func TestFormatStateView_Nil(t *testing.T) {
	if got := formatStateView(nil); got != "No game state available" {
		t.Errorf("Expected placeholder for nil state, got: %s", got)
	}
}

func TestFormatStateView_ActiveQuestion(t *testing.T) {
	state := sampleStateView()
	state.Timer = quiz.TimerRunning
	state.ActiveQuestion = &quiz.QuestionView{
		ID:               "q1",
		Prompt:           "Which planet is known as the Red Planet?",
		Options:          []string{"Venus", "Mars"},
		Category:         "science",
		Difficulty:       2,
		Points:           200,
		TotalSeconds:     30,
		RemainingSeconds: 12,
		Timer:            quiz.TimerRunning,
		HintUsed:         true,
	}

	result := formatStateView(state)

	if !strings.Contains(result, "Which planet is known as the Red Planet?") {
		t.Errorf("Expected active question in result, got: %s", result)
	}
	if !strings.Contains(result, "Hint already used") {
		t.Errorf("Expected hint-used marker, got: %s", result)
	}
}

func TestFormatQuestion(t *testing.T) {
	q := &quiz.QuestionView{
		ID:               "q1",
		Prompt:           "Which planet is known as the Red Planet?",
		Options:          []string{"Venus", "Mars", "Jupiter", "Saturn"},
		Category:         "science",
		Difficulty:       2,
		Points:           200,
		TotalSeconds:     30,
		RemainingSeconds: 21,
		Timer:            quiz.TimerRunning,
		HintAvailable:    true,
	}

	result := formatQuestion(q)

	expectedFields := []string{
		"Question [science, difficulty 2, 200 points]: Which planet is known as the Red Planet?",
		"  0. Venus",
		"  1. Mars",
		"  2. Jupiter",
		"  3. Saturn",
		"Timer: running, 21 of 30 seconds remaining",
		"A hint is available (request_hint)",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field %q in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatOutcome_Correct(t *testing.T) {
	result := formatOutcome(quiz.Outcome{
		QuestionID: "q1",
		Correct:    true,
		BasePoints: 200,
		TimeBonus:  35,
		Points:     235,
	})

	if !strings.Contains(result, "✓ Correct!") {
		t.Errorf("Expected correct marker, got: %s", result)
	}
	if !strings.Contains(result, "Points: 200 base + 35 time bonus = 235") {
		t.Errorf("Expected score breakdown, got: %s", result)
	}
	if strings.Contains(result, "correct answer was") {
		t.Errorf("Did not expect answer reveal on correct outcome, got: %s", result)
	}
}

func TestFormatOutcome_Incorrect(t *testing.T) {
	result := formatOutcome(quiz.Outcome{
		QuestionID:    "q1",
		SelectedIndex: 0,
		CorrectIndex:  3,
		Explanation:   "Saturn's rings are mostly water ice.",
	})

	if !strings.Contains(result, "✗ Incorrect") {
		t.Errorf("Expected incorrect marker, got: %s", result)
	}
	if !strings.Contains(result, "The correct answer was option 3") {
		t.Errorf("Expected answer reveal, got: %s", result)
	}
	if !strings.Contains(result, "Explanation: Saturn's rings are mostly water ice.") {
		t.Errorf("Expected explanation, got: %s", result)
	}
}

func TestFormatOutcome_TimedOut(t *testing.T) {
	result := formatOutcome(quiz.Outcome{
		QuestionID:   "q1",
		TimedOut:     true,
		CorrectIndex: 2,
	})

	if !strings.Contains(result, "⏰ Time expired") {
		t.Errorf("Expected timeout marker, got: %s", result)
	}
	if !strings.Contains(result, "The correct answer was option 2") {
		t.Errorf("Expected answer reveal, got: %s", result)
	}
}

func TestFormatEvents(t *testing.T) {
	unlock, _ := json.Marshal(event.RoomUnlocked{RoomID: "cellar", UnlockedBy: "hall"})
	achievement, _ := json.Marshal(event.AchievementUnlocked{
		AchievementID: "streak_3", Name: "On a Roll", Points: 50,
	})
	completed, _ := json.Marshal(event.GameCompleted{Score: 4200})

	events := []eventView{
		{Type: string(event.TypeRoomUnlocked), Payload: unlock},
		{Type: string(event.TypeAchievementUnlocked), Payload: achievement},
		{Type: string(event.TypeGameCompleted), Payload: completed},
		{Type: string(event.TypeQuestionAnswered), Payload: json.RawMessage(`{}`)},
	}

	result := formatEvents(events)

	expectedLines := []string{
		"- room_unlocked: cellar is now open",
		"- achievement_unlocked: On a Roll (+50 points)",
		"- game_completed: final score 4200",
		"- question_answered",
	}
	for _, line := range expectedLines {
		if !strings.Contains(result, line) {
			t.Errorf("Expected %q in formatted events, got: %s", line, result)
		}
	}
}

func TestFormatEvents_Empty(t *testing.T) {
	if got := formatEvents(nil); got != "" {
		t.Errorf("Expected empty string for no events, got: %s", got)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")
	ctx := context.Background()

	result, err := client.handleGameInstructions(ctx,
		toolRequest("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)

	expectedContent := []string{
		"LobeLabyrinth - Complete Instructions",
		"GAME OBJECTIVE:",
		"GAME MECHANICS:",
		"VICTORY CONDITIONS",
		"AI AGENTS - CRITICAL SUCCESS STRATEGIES:",
		"ANSWER INDEXING (MOST COMMON FAILURE POINT):",
		"SYSTEMATIC EXPLORATION:",
		"ACCURACY MANAGEMENT",
		"TIME MANAGEMENT:",
		"CRITICAL PITFALLS TO AVOID:",
		"SESSION MANAGEMENT:",
		"Good luck in the labyrinth!",
	}

	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions, got: %s", content, text)
		}
	}
}

func TestClient_Integration(t *testing.T) {
	client := NewClient("http://localhost:8080")

	if client == nil {
		t.Fatal("Failed to create client")
	}

	if client.mcpServer == nil {
		t.Fatal("MCP server not initialized")
	}

	if client.baseURL == "" {
		t.Error("Base URL not set")
	}

	if client.httpClient == nil {
		t.Error("HTTP client not initialized")
	}
}
