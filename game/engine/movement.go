package engine

import "fmt"

// MoveToRoom moves the player to the given room. The room must exist and
// be unlocked; on failure the current room is unchanged. It returns true
// when this is the player's first visit to the room. Moving to the current
// room is allowed and is never a first visit.
func (e *Engine) MoveToRoom(roomID string) (bool, error) {
	if e.pack.Room(roomID) == nil {
		return false, fmt.Errorf("room %q: %w", roomID, ErrRoomNotFound)
	}
	if !e.state.Unlocked[roomID] {
		return false, fmt.Errorf("room %q: %w", roomID, ErrRoomLocked)
	}

	firstVisit := !e.state.Visited[roomID]
	e.state.CurrentRoomID = roomID
	e.state.Visited[roomID] = true
	return firstVisit, nil
}

// UnlockRoom unlocks the given room. It returns true when the room was
// locked before this call, and false without error when it was already
// unlocked. The room must be adjacent to an unlocked room so the unlocked
// region stays connected to the start.
func (e *Engine) UnlockRoom(roomID string) (bool, error) {
	room := e.pack.Room(roomID)
	if room == nil {
		return false, fmt.Errorf("room %q: %w", roomID, ErrRoomNotFound)
	}
	if e.state.Unlocked[roomID] {
		return false, nil
	}

	adjacent := false
	for _, conn := range room.Connections {
		if e.state.Unlocked[conn] {
			adjacent = true
			break
		}
	}
	if !adjacent {
		return false, fmt.Errorf("room %q is not adjacent to any unlocked room: %w", roomID, ErrRoomLocked)
	}

	e.state.Unlocked[roomID] = true
	return true, nil
}

// UnlockConnected unlocks every room connected to the given room and
// returns the ids that were newly unlocked, in the room's connection
// order. Already unlocked neighbors are skipped silently.
func (e *Engine) UnlockConnected(roomID string) ([]string, error) {
	room := e.pack.Room(roomID)
	if room == nil {
		return nil, fmt.Errorf("room %q: %w", roomID, ErrRoomNotFound)
	}

	var unlocked []string
	for _, conn := range room.Connections {
		if e.state.Unlocked[conn] {
			continue
		}
		e.state.Unlocked[conn] = true
		unlocked = append(unlocked, conn)
	}
	return unlocked, nil
}

// AccessibleRooms returns the ids of all unlocked rooms reachable right
// now, in pack declaration order.
func (e *Engine) AccessibleRooms() []string {
	var ids []string
	for _, room := range e.pack.Rooms {
		if e.state.Unlocked[room.ID] {
			ids = append(ids, room.ID)
		}
	}
	return ids
}
