package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/event"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/quiz"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"LobeLabyrinth",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`LobeLabyrinth - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Explore a labyrinth of themed rooms by answering quiz questions. Correct
answers unlock the doors around you. Victory requires visiting most of the
labyrinth while keeping your answer rate and accuracy high.

AVAILABLE TOOLS:
- create_session: Start a new game (optional pack_id)
- list_sessions / get_session: Manage running games
- game_state: Current room, doors, score, and the active question
- move_to_room: Walk through an open door - requires intent explanation
- request_question: Open a question (one at a time, room category preferred)
- submit_answer: Answer with a 0-BASED option_index - requires intent explanation
- skip_question: Abandon the question for a point penalty
- request_hint: Reveal the hint, forfeiting the time bonus
- pause_game / resume_game: Control the countdown
- save_game / load_game / reset_game: Persistence and restart
- list_packs: Available content packs
- game_instructions: Full rules, scoring, and strategy guide

NOTE: option_index is 0-based - the formatted question shows the exact
index to submit. The 'intent' parameter on move/answer tools serves as
rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional content pack selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pack_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the content pack to play (optional, defaults to the server's default pack)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game state
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state: room, doors, score, streak, and the active question if any",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	// Gameplay
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_to_room",
		Description: "Move through an open door into a connected room. Locked rooms must be unlocked first by answering a question correctly in an adjacent room.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the room to move to (must be connected to the current room and unlocked)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "room_id"},
		},
	}, c.handleMoveToRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "request_question",
		Description: "Open a new question. Only one question can be active at a time; the current room's category is preferred unless one is given.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Question category to draw from (optional, defaults to the current room's category)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRequestQuestion)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_answer",
		Description: "Answer the active question. option_index is 0-BASED: submit the number shown next to the option in the formatted question.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"option_index": map[string]interface{}{
					"type":        "integer",
					"description": "0-based index of the chosen option (the first option is 0)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why you believe this option is correct (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "option_index"},
		},
	}, c.handleSubmitAnswer)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "skip_question",
		Description: "Abandon the active question for a point penalty. The question counts as answered without a correct answer, so it drags accuracy like a miss.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSkipQuestion)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "request_hint",
		Description: "Reveal the active question's hint. One hint per question; using it forfeits the time bonus for a correct answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRequestHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "pause_game",
		Description: "Pause the active question's countdown",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handlePauseGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "resume_game",
		Description: "Resume a paused countdown",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleResumeGame)

	// Persistence
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "save_game",
		Description: "Save the session to its snapshot store (the server also autosaves after commands)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSaveGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "load_game",
		Description: "Restore the session from its last saved snapshot. Any open question is dropped.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleLoadGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to a fresh start of the same content pack",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleResetGame)

	// Content
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_packs",
		Description: "List available content packs",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPacks)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions, scoring rules, and strategy guidance",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Reply mirrors. Event envelopes carry an interface payload on the server
// side, so replies that include events decode them as raw JSON and render
// them per type.

type eventView struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type moveReply struct {
	Success    bool               `json:"success"`
	FirstVisit bool               `json:"first_visit"`
	State      *service.StateView `json:"state"`
	Message    string             `json:"message"`
	Events     []eventView        `json:"events"`
}

type answerReply struct {
	Outcome quiz.Outcome       `json:"outcome"`
	State   *service.StateView `json:"state"`
	Message string             `json:"message"`
	Events  []eventView        `json:"events"`
}

type hintReply struct {
	QuestionID string `json:"question_id"`
	Hint       string `json:"hint"`
}

type stateReply struct {
	Message string             `json:"message"`
	State   *service.StateView `json:"state"`
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	packID, _ := args["pack_id"].(string)

	body := map[string]string{}
	if packID != "" {
		body["pack_id"] = packID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nPack: %s\n", session.ID, session.PackID)
	if session.State != nil {
		result += fmt.Sprintf("Starting room: %s (%s)\n\n%s",
			session.State.CurrentRoom.Name, session.State.CurrentRoom.ID,
			formatStateView(session.State))
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Pack: %s, Created: %s)\n",
			s.ID, s.PackID, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state service.StateView
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatStateView(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveToRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	roomID, _ := args["room_id"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"room_id": roomID,
	}

	var reply moveReply
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &reply)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveReply(&reply)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleRequestQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	category, _ := args["category"].(string)

	body := map[string]string{}
	if category != "" {
		body["category"] = category
	}

	var reply service.QuestionResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/question", sessionID), body, &reply)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := reply.Message + "\n\n" + formatQuestion(&reply.Question)
	result += fmt.Sprintf("Pool remaining: %d questions\n", reply.PoolRemaining)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSubmitAnswer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	// Option 0 is a valid answer, so a missing index must not default to it.
	rawIndex, ok := args["option_index"].(float64)
	if !ok {
		return mcp.NewToolResultError("option_index must be a number (0-based position of the chosen option)"), nil
	}

	body := map[string]interface{}{
		"option_index": int(rawIndex),
	}

	var reply answerReply
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/answer", sessionID), body, &reply)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatAnswerReply(&reply)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleSkipQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var reply answerReply
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/skip", sessionID), nil, &reply)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatAnswerReply(&reply)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleRequestHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var reply hintReply
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/hint", sessionID), nil, &reply)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("💡 Hint: %s\n(The time bonus for this question is forfeited.)", reply.Hint)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePauseGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var reply service.TimerResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/pause", sessionID), nil, &reply)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("⏸ Timer paused on question %s, %d seconds remaining",
		reply.QuestionID, reply.RemainingSeconds)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleResumeGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var reply service.TimerResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/resume", sessionID), nil, &reply)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("▶ Timer running on question %s, %d seconds remaining",
		reply.QuestionID, reply.RemainingSeconds)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSaveGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var reply struct {
		Message string `json:"message"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/save", sessionID), nil, &reply)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("💾 " + reply.Message), nil
}

func (c *Client) handleLoadGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var reply stateReply
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/load", sessionID), nil, &reply)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", reply.Message, formatStateView(reply.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleResetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var reply stateReply
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &reply)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", reply.Message, formatStateView(reply.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListPacks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Packs []content.PackInfo `json:"packs"`
	}

	err := c.apiCall("GET", "/api/packs", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Packs:\n\n"
	for _, pack := range response.Packs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Rooms: %d, Questions: %d, Achievements: %d\n\n",
			pack.Name, pack.ID, pack.Description,
			pack.RoomCount, pack.QuestionCount, pack.AchievementCount)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🧠 LobeLabyrinth - Complete Instructions

GAME OBJECTIVE:
Explore a labyrinth of themed rooms by answering quiz questions. Correct
answers unlock the doors around you; victory requires exploring most of the
labyrinth while keeping your answer rate and accuracy high.

GAME MECHANICS:
• Movement: move_to_room walks through an open door into a connected room
• Locked doors: answering a question correctly unlocks EVERY room connected
  to the room you answered in
• Questions: request_question opens one question at a time, drawn from the
  current room's category when it has one
• Timer: every question runs a countdown (default 30 seconds); expiry counts
  as a wrong answer worth zero points
• Scoring: correct answers earn the question's points plus a time bonus
  proportional to the seconds you had left (up to 50 by default)
• Hints: request_hint reveals the question's hint but forfeits the time
  bonus; one hint per question
• Skipping: skip_question abandons the question for a penalty (default 25
  points); the question never returns to the pool
• Difficulty: 3 correct answers in a row raise the difficulty level (1-5),
  2 misses in a row lower it; harder questions pay more points

VICTORY CONDITIONS (all three at once):
• Visit at least 80% of the rooms
• Resolve at least 70% of the questions
• Keep accuracy at 70% or better
Victory pays a completion bonus plus exploration, accuracy, and speed
bonuses on top of your score. Play continues after victory; the bonuses are
awarded once.

🤖 AI AGENTS - CRITICAL SUCCESS STRATEGIES:

⚠️ ANSWER INDEXING (MOST COMMON FAILURE POINT):
option_index is 0-BASED. The formatted question numbers every option with
the exact index to submit:
  0. First option
  1. Second option
Submit the number shown. NEVER add one to it.

🗺️ SYSTEMATIC EXPLORATION:
- Check game_state before moving: the Doors list marks each neighbor as
  open or LOCKED
- Answering correctly in ANY room unlocks all of that room's neighbors, so
  answer where you stand to open the way forward
- The "Unlocked but unvisited" and "Nearest unvisited room" lines point at
  what to explore next
- Visiting a room counts once; walking back through visited rooms is free

🎯 ACCURACY MANAGEMENT (MOST COMMON STRATEGIC FAILURE):
- Accuracy is a victory criterion: wrong answers, timeouts, AND skips all
  count as resolved questions without a correct answer
- A skip costs points on top of dragging accuracy, so an educated guess is
  almost always better than a skip
- Use hints when unsure: a hint only costs the time bonus, never accuracy
- Three misses in a row cannot happen without breaking your streak first;
  protect streaks to climb difficulty and earn bigger base points

⏱️ TIME MANAGEMENT:
- Answer quickly: the time bonus scales linearly with remaining seconds
- Do not let the countdown expire - a timeout scores zero and counts as
  incorrect
- pause_game stops the clock if you need to stop; resume_game restarts it

🔄 ITERATIVE PLAY:
1. game_state: read the room, doors, and progress lines
2. request_question: open a question (prefer rooms whose category you know)
3. submit_answer with the 0-based index, or request_hint first when unsure
4. move_to_room through freshly unlocked doors
5. Repeat until the victory goals are met

🚨 CRITICAL PITFALLS TO AVOID:
- ❌ Submitting 1-based answer indexes (options are 0-based)
- ❌ Moving to a locked or unconnected room (check the Doors list first)
- ❌ Requesting a question while one is active (resolve it first)
- ❌ Letting the countdown expire instead of guessing
- ❌ Skipping freely: skips hurt accuracy AND cost points
- ❌ Ignoring the 70% answer-rate goal: you must keep resolving questions,
  not just explore

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously, each with its own state
- Sessions autosave after every command and on a periodic timer
- save_game forces a snapshot; load_game returns to the last snapshot (any
  open question is dropped)
- reset_game restarts the same pack from the entrance with a clean score

Good luck in the labyrinth! 🧠🚪🏆`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nPack: %s\nCreated: %s\nLast accessed: %s\n\n%s",
		session.ID, session.PackID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.LastAccessedAt.Format("2006-01-02 15:04:05"),
		formatStateView(session.State))
}

func formatStateView(state *service.StateView) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	// Header
	result.WriteString(fmt.Sprintf("Room: %s (%s) | Score: %d | Difficulty: %d/%d\n",
		state.CurrentRoom.Name, state.CurrentRoom.ID, state.Score,
		state.Difficulty, content.MaxDifficulty))

	progress := fmt.Sprintf("Progress: %d rooms visited, %d questions resolved (%d correct",
		len(state.VisitedRooms), state.QuestionsAnswered, state.CorrectAnswers)
	if state.QuestionsAnswered > 0 {
		progress += fmt.Sprintf(", %d%% accuracy", state.CorrectAnswers*100/state.QuestionsAnswered)
	}
	progress += ")\n"
	result.WriteString(progress)

	result.WriteString(fmt.Sprintf("Streak: %d (best %d) | Hints: %d | Skips: %d | Play time: %s\n",
		state.CurrentStreak, state.BestStreak, state.HintsUsed, state.SkipsUsed,
		formatPlayTime(state.PlaySeconds)))

	if state.CurrentRoom.Description != "" {
		result.WriteString("\n" + state.CurrentRoom.Description + "\n")
	}

	// Doors out of the current room
	if len(state.CurrentRoom.Connections) > 0 {
		result.WriteString("\nDoors:\n")
		for _, conn := range state.CurrentRoom.Connections {
			result.WriteString(fmt.Sprintf("- %s (%s) [%s]\n",
				conn.Name, conn.RoomID, doorStatus(conn)))
		}
	}

	if state.ActiveQuestion != nil {
		result.WriteString("\n" + formatQuestion(state.ActiveQuestion))
	}

	// Navigation aids
	if len(state.Frontier) > 0 {
		result.WriteString(fmt.Sprintf("\nUnlocked but unvisited: %s\n",
			strings.Join(state.Frontier, ", ")))
	}
	if state.NearestUnvisited != nil {
		result.WriteString(fmt.Sprintf("Nearest unvisited room: %s (%d moves away)\n",
			state.NearestUnvisited.RoomID, state.NearestUnvisited.Distance))
	}

	if len(state.Achievements) > 0 {
		result.WriteString(fmt.Sprintf("\nAchievements unlocked: %d (%s)\n",
			len(state.Achievements), strings.Join(state.Achievements, ", ")))
	}

	if state.Completed {
		result.WriteString("\n🎉 VICTORY! Every goal is met.")
	}

	return result.String()
}

func doorStatus(conn service.ConnectionView) string {
	if !conn.Unlocked {
		return "LOCKED"
	}
	if conn.Visited {
		return "open, visited"
	}
	return "open, unvisited"
}

func formatPlayTime(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}

func formatQuestion(q *quiz.QuestionView) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Question [%s, difficulty %d, %d points]: %s\n",
		q.Category, q.Difficulty, q.Points, q.Prompt))
	for i, option := range q.Options {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i, option))
	}
	b.WriteString(fmt.Sprintf("Timer: %s, %d of %d seconds remaining\n",
		q.Timer, q.RemainingSeconds, q.TotalSeconds))
	switch {
	case q.HintUsed:
		b.WriteString("Hint already used, time bonus forfeited\n")
	case q.HintAvailable:
		b.WriteString("A hint is available (request_hint)\n")
	}
	return b.String()
}

func formatMoveReply(reply *moveReply) string {
	response := ""
	if reply.Success {
		response = "✓ " + reply.Message
		if reply.FirstVisit {
			response += " (first visit)"
		}
		response += "\n"
	} else {
		response = "✗ Move failed\n"
	}

	if events := formatEvents(reply.Events); events != "" {
		response += "\n" + events
	}

	response += "\n" + formatStateView(reply.State)
	return response
}

func formatAnswerReply(reply *answerReply) string {
	var b strings.Builder
	b.WriteString(formatOutcome(reply.Outcome))

	if events := formatEvents(reply.Events); events != "" {
		b.WriteString("\n" + events)
	}

	b.WriteString("\n" + formatStateView(reply.State))
	return b.String()
}

func formatOutcome(out quiz.Outcome) string {
	var b strings.Builder
	switch {
	case out.Correct:
		b.WriteString("✓ Correct!\n")
		b.WriteString(fmt.Sprintf("Points: %d base + %d time bonus = %d\n",
			out.BasePoints, out.TimeBonus, out.Points))
	case out.Skipped:
		b.WriteString("⏭ Question skipped\n")
		b.WriteString(fmt.Sprintf("Penalty: %d points\n", out.Penalty))
	case out.TimedOut:
		b.WriteString("⏰ Time expired - counts as incorrect, zero points\n")
	default:
		b.WriteString("✗ Incorrect\n")
	}
	if !out.Correct {
		b.WriteString(fmt.Sprintf("The correct answer was option %d\n", out.CorrectIndex))
	}
	if out.HintUsed {
		b.WriteString("(hint was used)\n")
	}
	if out.Explanation != "" {
		b.WriteString(fmt.Sprintf("Explanation: %s\n", out.Explanation))
	}
	return b.String()
}

func formatEvents(events []eventView) string {
	if len(events) == 0 {
		return ""
	}
	result := "Events:\n"
	for _, ev := range events {
		result += "- " + formatEventLine(ev) + "\n"
	}
	return result
}

// formatEventLine renders one envelope compactly, falling back to the bare
// type name when the payload does not decode.
func formatEventLine(ev eventView) string {
	switch event.Type(ev.Type) {
	case event.TypeRoomChanged:
		var p event.RoomChanged
		if json.Unmarshal(ev.Payload, &p) == nil {
			if p.FirstVisit {
				return fmt.Sprintf("room_changed: entered %s for the first time", p.RoomID)
			}
			return fmt.Sprintf("room_changed: entered %s", p.RoomID)
		}
	case event.TypeRoomUnlocked:
		var p event.RoomUnlocked
		if json.Unmarshal(ev.Payload, &p) == nil {
			return fmt.Sprintf("room_unlocked: %s is now open", p.RoomID)
		}
	case event.TypeScoreChanged:
		var p event.ScoreChanged
		if json.Unmarshal(ev.Payload, &p) == nil {
			return fmt.Sprintf("score_changed: %+d (%s), total %d", p.Delta, p.Reason, p.Total)
		}
	case event.TypeAchievementUnlocked:
		var p event.AchievementUnlocked
		if json.Unmarshal(ev.Payload, &p) == nil {
			return fmt.Sprintf("achievement_unlocked: %s (+%d points)", p.Name, p.Points)
		}
	case event.TypeGameCompleted:
		var p event.GameCompleted
		if json.Unmarshal(ev.Payload, &p) == nil {
			return fmt.Sprintf("game_completed: final score %d, bonuses %d", p.Score, p.Bonuses.Total)
		}
	}
	return string(ev.Type)
}
