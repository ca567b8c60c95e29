package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/achievement"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/engine"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/quiz"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/service"
	"github.com/opd-ai/LobeLabyrinth-sub002/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, packID string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Gameplay Commands
	MoveToRoomFunc      func(ctx context.Context, sessionID, roomID string) (*service.MoveResult, error)
	RequestQuestionFunc func(ctx context.Context, sessionID, category string) (*service.QuestionResult, error)
	SubmitAnswerFunc    func(ctx context.Context, sessionID string, optionIndex int) (*service.AnswerResult, error)
	SkipQuestionFunc    func(ctx context.Context, sessionID string) (*service.AnswerResult, error)
	RequestHintFunc     func(ctx context.Context, sessionID string) (*service.HintResult, error)
	PauseTimerFunc      func(ctx context.Context, sessionID string) (*service.TimerResult, error)
	ResumeTimerFunc     func(ctx context.Context, sessionID string) (*service.TimerResult, error)
	ResetFunc           func(ctx context.Context, sessionID string) (*service.StateView, error)

	// Game State
	GetStateFunc        func(ctx context.Context, sessionID string) (*service.StateView, error)
	GetStatsFunc        func(ctx context.Context, sessionID string) (*service.StatsView, error)
	GetAchievementsFunc func(ctx context.Context, sessionID string) ([]achievement.Status, error)
	GetHistoryFunc      func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Persistence
	SaveFunc func(ctx context.Context, sessionID string) error
	LoadFunc func(ctx context.Context, sessionID string) (*service.StateView, error)

	// Content
	ListPacksFunc func(ctx context.Context) ([]content.PackInfo, error)
}

func (m *MockGameService) CreateSession(ctx context.Context, packID string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, packID)
	}
	return &service.SessionInfo{
		ID:        "test-session",
		PackID:    packID,
		CreatedAt: time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:        sessionID,
		PackID:    "testpack",
		CreatedAt: time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) MoveToRoom(ctx context.Context, sessionID, roomID string) (*service.MoveResult, error) {
	if m.MoveToRoomFunc != nil {
		return m.MoveToRoomFunc(ctx, sessionID, roomID)
	}
	return &service.MoveResult{
		Success: true,
		State:   &service.StateView{SessionID: sessionID},
	}, nil
}

func (m *MockGameService) RequestQuestion(ctx context.Context, sessionID, category string) (*service.QuestionResult, error) {
	if m.RequestQuestionFunc != nil {
		return m.RequestQuestionFunc(ctx, sessionID, category)
	}
	return &service.QuestionResult{
		Question: quiz.QuestionView{ID: "q1", Prompt: "Test?"},
	}, nil
}

func (m *MockGameService) SubmitAnswer(ctx context.Context, sessionID string, optionIndex int) (*service.AnswerResult, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, sessionID, optionIndex)
	}
	return &service.AnswerResult{
		Outcome: quiz.Outcome{QuestionID: "q1", Correct: true},
		State:   &service.StateView{SessionID: sessionID},
	}, nil
}

func (m *MockGameService) SkipQuestion(ctx context.Context, sessionID string) (*service.AnswerResult, error) {
	if m.SkipQuestionFunc != nil {
		return m.SkipQuestionFunc(ctx, sessionID)
	}
	return &service.AnswerResult{
		Outcome: quiz.Outcome{QuestionID: "q1", Skipped: true},
		State:   &service.StateView{SessionID: sessionID},
	}, nil
}

func (m *MockGameService) RequestHint(ctx context.Context, sessionID string) (*service.HintResult, error) {
	if m.RequestHintFunc != nil {
		return m.RequestHintFunc(ctx, sessionID)
	}
	return &service.HintResult{QuestionID: "q1", Hint: "Think harder"}, nil
}

func (m *MockGameService) PauseTimer(ctx context.Context, sessionID string) (*service.TimerResult, error) {
	if m.PauseTimerFunc != nil {
		return m.PauseTimerFunc(ctx, sessionID)
	}
	return &service.TimerResult{QuestionID: "q1", Timer: quiz.TimerPaused}, nil
}

func (m *MockGameService) ResumeTimer(ctx context.Context, sessionID string) (*service.TimerResult, error) {
	if m.ResumeTimerFunc != nil {
		return m.ResumeTimerFunc(ctx, sessionID)
	}
	return &service.TimerResult{QuestionID: "q1", Timer: quiz.TimerRunning}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*service.StateView, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &service.StateView{SessionID: sessionID}, nil
}

func (m *MockGameService) GetState(ctx context.Context, sessionID string) (*service.StateView, error) {
	if m.GetStateFunc != nil {
		return m.GetStateFunc(ctx, sessionID)
	}
	return &service.StateView{SessionID: sessionID}, nil
}

func (m *MockGameService) GetStats(ctx context.Context, sessionID string) (*service.StatsView, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx, sessionID)
	}
	return &service.StatsView{}, nil
}

func (m *MockGameService) GetAchievements(ctx context.Context, sessionID string) ([]achievement.Status, error) {
	if m.GetAchievementsFunc != nil {
		return m.GetAchievementsFunc(ctx, sessionID)
	}
	return []achievement.Status{}, nil
}

func (m *MockGameService) GetHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Entries:    []engine.AnswerRecord{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) Save(ctx context.Context, sessionID string) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) Load(ctx context.Context, sessionID string) (*service.StateView, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, sessionID)
	}
	return &service.StateView{SessionID: sessionID}, nil
}

func (m *MockGameService) ListPacks(ctx context.Context) ([]content.PackInfo, error) {
	if m.ListPacksFunc != nil {
		return m.ListPacksFunc(ctx)
	}
	return []content.PackInfo{}, nil
}

func (m *MockGameService) RunTimerLoop(ctx context.Context) {}

// Test helpers

func setupTestServer(mockService *MockGameService) *Server {
	return NewServer(mockService, websocket.NewHub(nil), nil)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["code"] != code {
		t.Errorf("Expected error code %s, got %s", code, resp["code"])
	}
	if resp["error"] == "" {
		t.Error("Expected a human-readable error message")
	}
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default pack",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, packID string) (*service.SessionInfo, error) {
					if packID != "" {
						t.Errorf("Expected empty pack id for default, got %s", packID)
					}
					return &service.SessionInfo{
						ID:             "sess-123",
						PackID:         "classic",
						CreatedAt:      time.Now(),
						LastAccessedAt: time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "sess-123" {
					t.Errorf("Expected session ID sess-123, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with specific pack",
			requestBody: map[string]string{"pack_id": "museum"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, packID string) (*service.SessionInfo, error) {
					if packID != "museum" {
						t.Errorf("Expected pack id 'museum', got %s", packID)
					}
					return &service.SessionInfo{
						ID:     "sess-456",
						PackID: packID,
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.PackID != "museum" {
					t.Errorf("Expected pack id 'museum', got %s", resp.PackID)
				}
			},
		},
		{
			name:        "Unknown pack maps to 404",
			requestBody: map[string]string{"pack_id": "nope"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, packID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("pack %q: %w", packID, content.ErrPackNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				assertErrorCode(t, w, "pack_not_found")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	older := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", LastAccessedAt: older},
				{ID: "new", LastAccessedAt: newer},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Count    int                    `json:"count"`
		Total    int                    `json:"total"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	parseResponse(t, w, &resp)

	if resp.Count != 2 || resp.Total != 2 {
		t.Errorf("Expected count 2 and total 2, got %d and %d", resp.Count, resp.Total)
	}
	if resp.Sessions[0].ID != "new" {
		t.Errorf("Expected most recently accessed session first, got %s", resp.Sessions[0].ID)
	}

	// Limit keeps the total intact.
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions?limit=1&order=asc", nil))
	parseResponse(t, w, &resp)
	if resp.Count != 1 || resp.Total != 2 {
		t.Errorf("Expected count 1 of total 2, got %d of %d", resp.Count, resp.Total)
	}
	if resp.Sessions[0].ID != "old" {
		t.Errorf("Expected oldest session first in asc order, got %s", resp.Sessions[0].ID)
	}
}

func TestGetSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "sess-1" {
				return nil, service.ErrSessionNotFound
			}
			return &service.SessionInfo{ID: "sess-1", PackID: "classic"}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/sess-1", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	assertErrorCode(t, w, "session_not_found")
}

func TestDeleteSession(t *testing.T) {
	deleted := ""
	mockService := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			deleted = sessionID
			return nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/sess-9", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if deleted != "sess-9" {
		t.Errorf("Expected delete of sess-9, got %s", deleted)
	}
}

// Gameplay Tests

func TestMove(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Successful move",
			body: map[string]string{"room_id": "library"},
			setupMock: func(m *MockGameService) {
				m.MoveToRoomFunc = func(ctx context.Context, sessionID, roomID string) (*service.MoveResult, error) {
					if roomID != "library" {
						t.Errorf("Expected room_id library, got %s", roomID)
					}
					return &service.MoveResult{
						Success:    true,
						FirstVisit: true,
						State:      &service.StateView{SessionID: sessionID},
						Message:    "Moved to Library",
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing room_id",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "bad_request",
		},
		{
			name: "Locked room maps to 409",
			body: map[string]string{"room_id": "vault"},
			setupMock: func(m *MockGameService) {
				m.MoveToRoomFunc = func(ctx context.Context, sessionID, roomID string) (*service.MoveResult, error) {
					return nil, fmt.Errorf("cannot move to %s: %w", roomID, engine.ErrRoomLocked)
				}
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "invalid_move",
		},
		{
			name: "Unknown room maps to 404",
			body: map[string]string{"room_id": "atlantis"},
			setupMock: func(m *MockGameService) {
				m.MoveToRoomFunc = func(ctx context.Context, sessionID, roomID string) (*service.MoveResult, error) {
					return nil, fmt.Errorf("room %q: %w", roomID, engine.ErrRoomNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "room_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/move", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedCode != "" {
				assertErrorCode(t, w, tt.expectedCode)
			}
		})
	}
}

func TestRequestQuestion(t *testing.T) {
	var gotCategory string
	mockService := &MockGameService{
		RequestQuestionFunc: func(ctx context.Context, sessionID, category string) (*service.QuestionResult, error) {
			gotCategory = category
			return &service.QuestionResult{
				Question:      quiz.QuestionView{ID: "q7", Prompt: "What orbits what?"},
				PoolRemaining: 3,
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/question", map[string]string{"category": "science"}))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotCategory != "science" {
		t.Errorf("Expected category science to be forwarded, got %s", gotCategory)
	}

	var resp service.QuestionResult
	parseResponse(t, w, &resp)
	if resp.Question.ID != "q7" {
		t.Errorf("Expected question q7, got %s", resp.Question.ID)
	}
	if resp.PoolRemaining != 3 {
		t.Errorf("Expected pool remaining 3, got %d", resp.PoolRemaining)
	}

	// No body selects the room category.
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/question", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 without body, got %d", w.Code)
	}
	if gotCategory != "" {
		t.Errorf("Expected empty category without body, got %s", gotCategory)
	}
}

func TestRequestQuestionWhileActive(t *testing.T) {
	mockService := &MockGameService{
		RequestQuestionFunc: func(ctx context.Context, sessionID, category string) (*service.QuestionResult, error) {
			return nil, quiz.ErrQuestionActive
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/question", nil))

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
	assertErrorCode(t, w, "question_active")
}

func TestSubmitAnswer(t *testing.T) {
	var gotIndex int
	mockService := &MockGameService{
		SubmitAnswerFunc: func(ctx context.Context, sessionID string, optionIndex int) (*service.AnswerResult, error) {
			gotIndex = optionIndex
			return &service.AnswerResult{
				Outcome: quiz.Outcome{QuestionID: "q1", Correct: true, Points: 125},
				State:   &service.StateView{SessionID: sessionID, Score: 125},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	// Option 0 must be accepted, not confused with a missing field.
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/answer", map[string]int{"option_index": 0}))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotIndex != 0 {
		t.Errorf("Expected option index 0, got %d", gotIndex)
	}

	var resp service.AnswerResult
	parseResponse(t, w, &resp)
	if !resp.Outcome.Correct || resp.Outcome.Points != 125 {
		t.Errorf("Outcome not transmitted: %+v", resp.Outcome)
	}

	// Missing index is a client error.
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/answer", map[string]string{}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing option_index, got %d", w.Code)
	}
}

func TestSubmitAnswerWithoutQuestion(t *testing.T) {
	mockService := &MockGameService{
		SubmitAnswerFunc: func(ctx context.Context, sessionID string, optionIndex int) (*service.AnswerResult, error) {
			return nil, quiz.ErrNoActiveQuestion
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/answer", map[string]int{"option_index": 1}))

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
	assertErrorCode(t, w, "no_active_question")
}

func TestSkipQuestion(t *testing.T) {
	mockService := &MockGameService{
		SkipQuestionFunc: func(ctx context.Context, sessionID string) (*service.AnswerResult, error) {
			return &service.AnswerResult{
				Outcome: quiz.Outcome{QuestionID: "q1", Skipped: true, Points: -25},
				State:   &service.StateView{SessionID: sessionID, Score: -25},
				Message: "Question skipped, 25 point penalty",
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/skip", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.AnswerResult
	parseResponse(t, w, &resp)
	if !resp.Outcome.Skipped || resp.Outcome.Points != -25 {
		t.Errorf("Skip outcome not transmitted: %+v", resp.Outcome)
	}
}

func TestRequestHint(t *testing.T) {
	mockService := &MockGameService{}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/hint", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.HintResult
	parseResponse(t, w, &resp)
	if resp.Hint == "" {
		t.Error("Expected a hint in the response")
	}

	mockService.RequestHintFunc = func(ctx context.Context, sessionID string) (*service.HintResult, error) {
		return nil, quiz.ErrHintAlreadyUsed
	}
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/hint", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for second hint, got %d", w.Code)
	}
	assertErrorCode(t, w, "hint_already_used")
}

func TestPauseAndResume(t *testing.T) {
	mockService := &MockGameService{}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/pause", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for pause, got %d", w.Code)
	}
	var resp service.TimerResult
	parseResponse(t, w, &resp)
	if resp.Timer != quiz.TimerPaused {
		t.Errorf("Expected paused timer, got %s", resp.Timer)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/resume", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for resume, got %d", w.Code)
	}

	mockService.PauseTimerFunc = func(ctx context.Context, sessionID string) (*service.TimerResult, error) {
		return nil, quiz.ErrInvalidTimerTransition
	}
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/pause", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for double pause, got %d", w.Code)
	}
	assertErrorCode(t, w, "invalid_timer_transition")
}

func TestReset(t *testing.T) {
	mockService := &MockGameService{
		ResetFunc: func(ctx context.Context, sessionID string) (*service.StateView, error) {
			return &service.StateView{SessionID: sessionID, Score: 0}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/reset", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Message string             `json:"message"`
		State   *service.StateView `json:"state"`
	}
	parseResponse(t, w, &resp)
	if resp.State == nil || resp.State.SessionID != "sess-1" {
		t.Errorf("Expected state for sess-1, got %+v", resp.State)
	}
}

// State Tests

func TestGetState(t *testing.T) {
	mockService := &MockGameService{
		GetStateFunc: func(ctx context.Context, sessionID string) (*service.StateView, error) {
			return &service.StateView{
				SessionID: sessionID,
				Score:     350,
				CurrentRoom: service.RoomView{
					ID:   "library",
					Name: "Library",
				},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/sess-1/state", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.StateView
	parseResponse(t, w, &resp)
	if resp.Score != 350 {
		t.Errorf("Expected score 350, got %d", resp.Score)
	}
	if resp.CurrentRoom.ID != "library" {
		t.Errorf("Expected current room library, got %s", resp.CurrentRoom.ID)
	}
}

func TestGetStats(t *testing.T) {
	mockService := &MockGameService{
		GetStatsFunc: func(ctx context.Context, sessionID string) (*service.StatsView, error) {
			stats := &service.StatsView{
				Difficulty:           3,
				AchievementsUnlocked: 2,
				AchievementsTotal:    10,
			}
			stats.Score = 500
			return stats, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/sess-1/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.StatsView
	parseResponse(t, w, &resp)
	if resp.Score != 500 || resp.AchievementsUnlocked != 2 {
		t.Errorf("Stats not transmitted: %+v", resp)
	}
}

func TestGetAchievements(t *testing.T) {
	mockService := &MockGameService{
		GetAchievementsFunc: func(ctx context.Context, sessionID string) ([]achievement.Status, error) {
			return []achievement.Status{
				{Achievement: content.Achievement{ID: "first-answer", Name: "First Steps"}, Unlocked: true, Progress: 1},
				{Achievement: content.Achievement{ID: "explorer", Name: "Explorer"}, Unlocked: false, Progress: 0.5},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/sess-1/achievements", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Achievements []achievement.Status `json:"achievements"`
	}
	parseResponse(t, w, &resp)
	if len(resp.Achievements) != 2 {
		t.Fatalf("Expected 2 achievements, got %d", len(resp.Achievements))
	}
	if !resp.Achievements[0].Unlocked || resp.Achievements[1].Unlocked {
		t.Error("Unlocked flags not transmitted")
	}
}

func TestGetHistory(t *testing.T) {
	var gotOpts service.HistoryOptions
	mockService := &MockGameService{
		GetHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
			gotOpts = opts
			return &service.HistoryResponse{
				Entries:    []engine.AnswerRecord{{QuestionID: "q1", Correct: true}},
				Total:      1,
				Page:       opts.Page,
				PageSize:   opts.Limit,
				TotalPages: 1,
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/sess-1/history?page=2&limit=5&order=asc", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotOpts.Page != 2 || gotOpts.Limit != 5 || gotOpts.Order != "asc" {
		t.Errorf("Query parameters not forwarded: %+v", gotOpts)
	}

	// Garbage parameters fall back to defaults.
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/sess-1/history?page=zero&order=sideways", nil))
	if gotOpts.Page != 1 || gotOpts.Limit != 20 || gotOpts.Order != "desc" {
		t.Errorf("Expected default options for garbage query, got %+v", gotOpts)
	}
}

// Persistence Tests

func TestSaveSession(t *testing.T) {
	mockService := &MockGameService{}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/save", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	mockService.SaveFunc = func(ctx context.Context, sessionID string) error {
		return fmt.Errorf("writing snapshot: %w", service.ErrPersistenceFailure)
	}
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/save", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500 for persistence failure, got %d", w.Code)
	}
	assertErrorCode(t, w, "persistence_error")
}

func TestLoadSession(t *testing.T) {
	mockService := &MockGameService{
		LoadFunc: func(ctx context.Context, sessionID string) (*service.StateView, error) {
			return &service.StateView{SessionID: sessionID, Score: 700}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-1/load", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		State *service.StateView `json:"state"`
	}
	parseResponse(t, w, &resp)
	if resp.State == nil || resp.State.Score != 700 {
		t.Errorf("Expected loaded state with score 700, got %+v", resp.State)
	}
}

// Content Tests

func TestListPacks(t *testing.T) {
	mockService := &MockGameService{
		ListPacksFunc: func(ctx context.Context) ([]content.PackInfo, error) {
			return []content.PackInfo{
				{ID: "classic", Name: "The Classic Labyrinth", RoomCount: 10, QuestionCount: 40},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/packs", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Packs []content.PackInfo `json:"packs"`
	}
	parseResponse(t, w, &resp)
	if len(resp.Packs) != 1 || resp.Packs[0].ID != "classic" {
		t.Errorf("Packs not transmitted: %+v", resp.Packs)
	}
}

func TestGetPack(t *testing.T) {
	mockService := &MockGameService{
		ListPacksFunc: func(ctx context.Context) ([]content.PackInfo, error) {
			return []content.PackInfo{
				{ID: "classic", Name: "The Classic Labyrinth"},
				{ID: "museum", Name: "Night at the Museum"},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/packs/museum", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var info content.PackInfo
	parseResponse(t, w, &info)
	if info.Name != "Night at the Museum" {
		t.Errorf("Expected museum pack, got %+v", info)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/packs/atlantis", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	assertErrorCode(t, w, "pack_not_found")
}

// Other Endpoints

func TestHealth(t *testing.T) {
	server := setupTestServer(&MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %s", resp["status"])
	}
}

func TestWebSocketRequiresSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, service.ErrSessionNotFound
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without session parameter, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws?session=ghost", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown session, got %d", w.Code)
	}
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{"session_not_found", http.StatusNotFound},
		{"room_not_found", http.StatusNotFound},
		{"pack_not_found", http.StatusNotFound},
		{"invalid_answer_index", http.StatusBadRequest},
		{"invalid_move", http.StatusConflict},
		{"already_answered", http.StatusConflict},
		{"question_active", http.StatusConflict},
		{"no_active_question", http.StatusConflict},
		{"no_questions_available", http.StatusConflict},
		{"invalid_timer_transition", http.StatusConflict},
		{"hint_already_used", http.StatusConflict},
		{"no_hint_available", http.StatusConflict},
		{"session_already_exists", http.StatusConflict},
		{"persistence_error", http.StatusInternalServerError},
		{"internal", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusForCode(tt.code); got != tt.status {
			t.Errorf("statusForCode(%s): expected %d, got %d", tt.code, tt.status, got)
		}
	}
}
