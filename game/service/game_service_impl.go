package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/achievement"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/engine"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/event"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/quiz"
)

// DefaultAutosaveSeconds is how often the timer loop persists all
// sessions when Options does not override it.
const DefaultAutosaveSeconds = 30

// Options tunes optional service collaborators.
type Options struct {
	// Sink receives every emitted event. Nil disables broadcasting; the
	// events still ride on command results.
	Sink EventSink

	// Logger receives autosave warnings. Nil falls back to slog.Default.
	Logger *slog.Logger

	// AutosaveSeconds is the periodic persistence cadence of the timer
	// loop. Zero means DefaultAutosaveSeconds.
	AutosaveSeconds int
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	packs    PackManager
	sink     EventSink
	logger   *slog.Logger
	autosave int

	// mu serializes all engine access: the engines are pure state
	// machines with no locking of their own.
	mu sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, packs PackManager, opts Options) GameService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	autosave := opts.AutosaveSeconds
	if autosave <= 0 {
		autosave = DefaultAutosaveSeconds
	}
	return &gameServiceImpl{
		sessions: sessions,
		packs:    packs,
		sink:     opts.Sink,
		logger:   logger,
		autosave: autosave,
	}
}

// CreateSession creates a new game session playing the given pack, or the
// default pack when packID is empty.
func (s *gameServiceImpl) CreateSession(ctx context.Context, packID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pack, err := s.packs.GetPack(ctx, packID)
	if err != nil {
		if errors.Is(err, content.ErrPackNotFound) {
			if infos, listErr := s.packs.List(ctx); listErr == nil && len(infos) > 0 {
				ids := make([]string, 0, len(infos))
				for _, info := range infos {
					ids = append(ids, info.ID)
				}
				return nil, fmt.Errorf("pack %q not found (available: %v): %w", packID, ids, err)
			}
		}
		return nil, fmt.Errorf("failed to load pack %q: %w", packID, err)
	}

	session, err := s.sessions.Create("", pack)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.buildSessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.buildSessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, s.buildSessionInfo(session))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(ctx, sessionID)
}

// MoveToRoom moves the player. The room must be unlocked; a rejected move
// emits error_occurred and leaves state unchanged.
func (s *gameServiceImpl) MoveToRoom(ctx context.Context, sessionID, roomID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	previous := session.Progression.State().CurrentRoomID
	firstVisit, err := session.Progression.MoveToRoom(roomID)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}

	events := []event.Envelope{event.New(sessionID, event.RoomChanged{
		RoomID:         roomID,
		PreviousRoomID: previous,
		FirstVisit:     firstVisit,
	})}
	events = append(events, s.unlockAchievements(session)...)
	events = append(events, s.applyVictory(session)...)
	s.publish(events)
	s.autosaveSession(ctx, sessionID)

	return &MoveResult{
		Success:    true,
		FirstVisit: firstVisit,
		State:      s.buildStateView(session),
		Message:    fmt.Sprintf("Moved to %s", session.Progression.CurrentRoom().Name),
		Events:     events,
	}, nil
}

// RequestQuestion starts a new question for the session. An empty category
// prefers the current room's category.
func (s *gameServiceImpl) RequestQuestion(ctx context.Context, sessionID, category string) (*QuestionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if category == "" {
		category = session.Progression.CurrentRoom().Category
	}

	originRoom := session.Progression.State().CurrentRoomID
	active, err := session.Quiz.StartQuestion(originRoom, category, session.Progression.IsAnswered)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}

	remaining := session.Quiz.PoolSize("", session.Progression.IsAnswered)
	return &QuestionResult{
		Question:      active.View(),
		PoolRemaining: remaining,
		Message:       fmt.Sprintf("Question started, %d seconds on the clock", active.RemainingSeconds),
	}, nil
}

// SubmitAnswer resolves the active question with the player's choice.
func (s *gameServiceImpl) SubmitAnswer(ctx context.Context, sessionID string, optionIndex int) (*AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	outcome, err := session.Quiz.SubmitAnswer(optionIndex)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}

	events, err := s.applyOutcome(session, outcome, event.ReasonAnswer)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}
	s.publish(events)
	s.autosaveSession(ctx, sessionID)

	message := fmt.Sprintf("Wrong answer, the correct option was %d", outcome.CorrectIndex)
	if outcome.Correct {
		message = fmt.Sprintf("Correct! Scored %d points", outcome.Points)
	}
	return &AnswerResult{
		Outcome: *outcome,
		State:   s.buildStateView(session),
		Message: message,
		Events:  events,
	}, nil
}

// SkipQuestion abandons the active question for the skip penalty.
func (s *gameServiceImpl) SkipQuestion(ctx context.Context, sessionID string) (*AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	outcome, err := session.Quiz.Skip()
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}

	events, err := s.applyOutcome(session, outcome, event.ReasonSkip)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}
	s.publish(events)
	s.autosaveSession(ctx, sessionID)

	return &AnswerResult{
		Outcome: *outcome,
		State:   s.buildStateView(session),
		Message: fmt.Sprintf("Question skipped, %d point penalty", outcome.Penalty),
		Events:  events,
	}, nil
}

// RequestHint reveals the active question's hint, trading away its time
// bonus.
func (s *gameServiceImpl) RequestHint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	hint, err := session.Quiz.UseHint()
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}

	questionID := session.Quiz.Active().Question.ID
	events := []event.Envelope{event.New(sessionID, event.HintUsed{
		QuestionID: questionID,
		Hint:       hint,
	})}
	s.publish(events)

	return &HintResult{QuestionID: questionID, Hint: hint, Events: events}, nil
}

// PauseTimer stops the active question's countdown.
func (s *gameServiceImpl) PauseTimer(ctx context.Context, sessionID string) (*TimerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := session.Quiz.Pause(); err != nil {
		return nil, s.reportError(sessionID, err)
	}
	return s.buildTimerResult(session), nil
}

// ResumeTimer restarts a paused countdown.
func (s *gameServiceImpl) ResumeTimer(ctx context.Context, sessionID string) (*TimerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := session.Quiz.Resume(); err != nil {
		return nil, s.reportError(sessionID, err)
	}
	return s.buildTimerResult(session), nil
}

// Reset discards all progression and returns the session to a fresh run.
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	session.Progression.Reset()
	session.Quiz.Abandon()
	if err := session.Quiz.RestoreSnapshot(quiz.Snapshot{}); err != nil {
		return nil, s.reportError(sessionID, err)
	}
	s.autosaveSession(ctx, sessionID)

	return s.buildStateView(session), nil
}

// GetState returns the full player-facing state.
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*StateView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.buildStateView(session), nil
}

// GetStats returns cumulative statistics.
func (s *gameServiceImpl) GetStats(ctx context.Context, sessionID string) (*StatsView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return &StatsView{
		Stats:                session.Progression.Stats(),
		Difficulty:           session.Quiz.Difficulty(),
		AchievementsUnlocked: len(session.Progression.State().Achievements),
		AchievementsTotal:    len(session.Progression.Pack().Achievements),
	}, nil
}

// GetAchievements returns every achievement with unlock state and
// progress.
func (s *gameServiceImpl) GetAchievements(ctx context.Context, sessionID string) ([]achievement.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return achievement.Statuses(
		session.Progression.Pack(),
		session.Progression.Stats(),
		s.unlockedSet(session),
	), nil
}

// GetHistory returns paginated answer history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	history := session.Progression.State().History
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var entries []engine.AnswerRecord
	if opts.Order == "desc" {
		// Most recent first.
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			entries = append(entries, history[i])
		}
	} else {
		if start < total {
			entries = append(entries, history[start:end]...)
		}
	}
	if entries == nil {
		entries = []engine.AnswerRecord{}
	}

	return &HistoryResponse{
		Entries:     entries,
		Total:       total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// Save persists the session now. Unlike autosaves, failures surface to
// the caller.
func (s *gameServiceImpl) Save(ctx context.Context, sessionID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return s.reportError(sessionID, err)
	}
	if err := s.sessions.Save(ctx, sessionID); err != nil {
		return s.reportError(sessionID, err)
	}
	return nil
}

// Load replaces the session's live state with its persisted snapshot. The
// open question, if any, is dropped.
func (s *gameServiceImpl) Load(ctx context.Context, sessionID string) (*StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, s.reportError(sessionID, err)
	}
	return s.buildStateView(session), nil
}

// ListPacks returns available content packs
func (s *gameServiceImpl) ListPacks(ctx context.Context) ([]content.PackInfo, error) {
	return s.packs.List(ctx)
}

// RunTimerLoop ticks every second until ctx is done: it drains question
// countdowns, finalizes expiries through the normal outcome path, accrues
// play time, and persists all sessions on the autosave cadence.
func (s *gameServiceImpl) RunTimerLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	seconds := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			seconds++
			s.tick(ctx, seconds%s.autosave == 0)
		}
	}
}

// tick advances every session by one second.
func (s *gameServiceImpl) tick(ctx context.Context, save bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions.List() {
		timer := session.Quiz.TimerState()
		if timer != quiz.TimerPaused && !session.Progression.IsCompleted() {
			session.Progression.AddPlayTime(1)
		}
		if timer != quiz.TimerRunning {
			continue
		}

		active := session.Quiz.Active()
		expired := session.Quiz.Tick()
		s.publish([]event.Envelope{event.New(session.ID, event.TimerTick{
			QuestionID:       active.Question.ID,
			RemainingSeconds: active.RemainingSeconds,
			TotalSeconds:     active.TotalSeconds,
		})})

		if !expired {
			continue
		}
		outcome, err := session.Quiz.FinalizeTimeout()
		if err != nil {
			continue
		}
		events, err := s.applyOutcome(session, outcome, event.ReasonTimeout)
		if err != nil {
			s.logger.Warn("failed to record timeout", "session_id", session.ID, "error", err)
			continue
		}
		s.publish(events)
		s.autosaveSession(ctx, session.ID)
	}

	if save {
		if err := s.sessions.SaveAll(ctx); err != nil {
			s.logger.Warn("autosave failed", "error", err)
		}
	}
}

// applyOutcome routes a resolved question through the progression
// controller and assembles the resulting events in their documented order:
// question_answered, room unlocks, the score change, achievement unlocks
// with their score changes, then the victory block.
func (s *gameServiceImpl) applyOutcome(session *Session, outcome *quiz.Outcome, reason string) ([]event.Envelope, error) {
	// The outcome carries the room the question was presented from;
	// moving while the clock runs must not change which doors open.
	originRoom := outcome.RoomID
	record := engine.AnswerRecord{
		QuestionID:       outcome.QuestionID,
		RoomID:           originRoom,
		Correct:          outcome.Correct,
		Skipped:          outcome.Skipped,
		TimedOut:         outcome.TimedOut,
		HintUsed:         outcome.HintUsed,
		Points:           outcome.Points,
		TimeTakenSeconds: outcome.TimeTakenSeconds,
		AnsweredAt:       time.Now().UTC(),
	}
	if err := session.Progression.RecordAnswer(record); err != nil {
		return nil, err
	}

	events := []event.Envelope{event.New(session.ID, event.QuestionAnswered{
		QuestionID:       outcome.QuestionID,
		Correct:          outcome.Correct,
		Skipped:          outcome.Skipped,
		TimedOut:         outcome.TimedOut,
		HintUsed:         outcome.HintUsed,
		SelectedIndex:    outcome.SelectedIndex,
		CorrectIndex:     outcome.CorrectIndex,
		Points:           outcome.Points,
		TimeTakenSeconds: outcome.TimeTakenSeconds,
		Explanation:      outcome.Explanation,
	})}

	// Correct answers open the doors of the room the question came from.
	if outcome.Correct {
		unlocked, err := session.Progression.UnlockConnected(originRoom)
		if err == nil {
			for _, roomID := range unlocked {
				events = append(events, event.New(session.ID, event.RoomUnlocked{
					RoomID:     roomID,
					UnlockedBy: originRoom,
				}))
			}
		}
	}

	total := session.Progression.ApplyScoreDelta(outcome.Points)
	events = append(events, event.New(session.ID, event.ScoreChanged{
		Delta:  outcome.Points,
		Total:  total,
		Reason: reason,
	}))

	events = append(events, s.unlockAchievements(session)...)
	events = append(events, s.applyVictory(session)...)
	return events, nil
}

// unlockAchievements evaluates the pack's achievements against the
// current statistics and grants the newly satisfied ones in declaration
// order, each followed by its score change.
func (s *gameServiceImpl) unlockAchievements(session *Session) []event.Envelope {
	newly := achievement.Evaluate(
		session.Progression.Pack(),
		session.Progression.Stats(),
		s.unlockedSet(session),
	)

	var events []event.Envelope
	for _, a := range newly {
		if !session.Progression.GrantAchievement(a.ID) {
			continue
		}
		events = append(events, event.New(session.ID, event.AchievementUnlocked{
			AchievementID: a.ID,
			Name:          a.Name,
			Description:   a.Description,
			Points:        a.Points,
			Rarity:        a.Rarity,
		}))
		if a.Points != 0 {
			total := session.Progression.ApplyScoreDelta(a.Points)
			events = append(events, event.New(session.ID, event.ScoreChanged{
				Delta:  a.Points,
				Total:  total,
				Reason: event.ReasonAchievement,
			}))
		}
	}
	return events
}

// applyVictory runs the victory check and, on the first completion, emits
// game_completed with its bonus score change, then any achievements the
// completion itself satisfies.
func (s *gameServiceImpl) applyVictory(session *Session) []event.Envelope {
	bonuses, won := session.Progression.CheckVictory()
	if !won {
		return nil
	}

	stats := session.Progression.Stats()
	events := []event.Envelope{
		event.New(session.ID, event.GameCompleted{
			Bonuses:     *bonuses,
			Score:       stats.Score,
			PlaySeconds: stats.PlaySeconds,
		}),
		event.New(session.ID, event.ScoreChanged{
			Delta:  bonuses.Total,
			Total:  stats.Score,
			Reason: event.ReasonVictoryBonus,
		}),
	}
	events = append(events, s.unlockAchievements(session)...)
	return events
}

func (s *gameServiceImpl) unlockedSet(session *Session) map[string]bool {
	ids := session.Progression.State().Achievements
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// reportError publishes error_occurred for a rejected command and returns
// the error unchanged. State is never mutated on these paths.
func (s *gameServiceImpl) reportError(sessionID string, err error) error {
	s.publish([]event.Envelope{event.New(sessionID, event.ErrorOccurred{
		Code:    ErrorCode(err),
		Message: err.Error(),
	})})
	return err
}

func (s *gameServiceImpl) publish(events []event.Envelope) {
	if s.sink == nil {
		return
	}
	for _, env := range events {
		s.sink.Publish(env)
	}
}

// autosaveSession persists after a mutating command; failure is reported,
// never fatal.
func (s *gameServiceImpl) autosaveSession(ctx context.Context, sessionID string) {
	if err := s.sessions.Save(ctx, sessionID); err != nil {
		s.logger.Warn("failed to persist session", "session_id", sessionID, "error", err)
	}
}

func (s *gameServiceImpl) buildSessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		PackID:         session.PackID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		State:          s.buildStateView(session),
	}
}

func (s *gameServiceImpl) buildTimerResult(session *Session) *TimerResult {
	active := session.Quiz.Active()
	return &TimerResult{
		QuestionID:       active.Question.ID,
		Timer:            active.Timer,
		RemainingSeconds: active.RemainingSeconds,
	}
}

// buildStateView projects a session into its player-facing state,
// including navigation aids and the active question without its answer.
func (s *gameServiceImpl) buildStateView(session *Session) *StateView {
	progression := session.Progression
	pack := progression.Pack()
	state := progression.State()
	stats := progression.Stats()

	visited := make([]string, 0, len(state.Visited))
	for _, room := range pack.Rooms {
		if state.Visited[room.ID] {
			visited = append(visited, room.ID)
		}
	}

	view := &StateView{
		SessionID:         session.ID,
		PackID:            session.PackID,
		CurrentRoom:       buildRoomView(pack, state, progression.CurrentRoom()),
		UnlockedRooms:     progression.AccessibleRooms(),
		VisitedRooms:      visited,
		Score:             stats.Score,
		QuestionsAnswered: stats.QuestionsAnswered,
		CorrectAnswers:    stats.CorrectAnswers,
		CurrentStreak:     stats.CurrentStreak,
		BestStreak:        stats.BestStreak,
		HintsUsed:         stats.HintsUsed,
		SkipsUsed:         stats.SkipsUsed,
		PlaySeconds:       stats.PlaySeconds,
		Completed:         stats.Completed,
		Achievements:      append([]string{}, state.Achievements...),
		Timer:             session.Quiz.TimerState(),
		Difficulty:        session.Quiz.Difficulty(),
		Frontier:          progression.FrontierRooms(),
	}

	if active := session.Quiz.Active(); active != nil {
		questionView := active.View()
		view.ActiveQuestion = &questionView
	}
	if roomID, distance, ok := progression.NearestUnvisitedRoom(); ok {
		view.NearestUnvisited = &NearestRoom{RoomID: roomID, Distance: distance}
	}
	return view
}

func buildRoomView(pack *content.Pack, state *engine.State, room *content.Room) RoomView {
	connections := make([]ConnectionView, 0, len(room.Connections))
	for _, id := range room.Connections {
		conn := ConnectionView{RoomID: id, Unlocked: state.Unlocked[id], Visited: state.Visited[id]}
		if neighbor := pack.Room(id); neighbor != nil {
			conn.Name = neighbor.Name
		}
		connections = append(connections, conn)
	}
	return RoomView{
		ID:          room.ID,
		Name:        room.Name,
		Description: room.Description,
		Category:    room.Category,
		Connections: connections,
	}
}
