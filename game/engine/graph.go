package engine

import "github.com/opd-ai/LobeLabyrinth-sub002/game/content"

// bfsDistances returns the hop count from the given room to every room
// reachable from it. Rooms absent from the result are unreachable.
func bfsDistances(pack *content.Pack, from string) map[string]int {
	distances := map[string]int{from: 0}
	queue := []string{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		room := pack.Room(current)
		if room == nil {
			continue
		}
		for _, conn := range room.Connections {
			if _, seen := distances[conn]; seen {
				continue
			}
			distances[conn] = distances[current] + 1
			queue = append(queue, conn)
		}
	}
	return distances
}

// RoomDistance returns the minimum number of moves between two rooms, or
// -1 when no path exists.
func RoomDistance(pack *content.Pack, from, to string) int {
	if from == to {
		return 0
	}
	distances := bfsDistances(pack, from)
	if d, ok := distances[to]; ok {
		return d
	}
	return -1
}

// FrontierRooms returns the unlocked rooms the player has not visited yet,
// in pack declaration order. These are the natural next destinations.
func (e *Engine) FrontierRooms() []string {
	var ids []string
	for _, room := range e.pack.Rooms {
		if e.state.Unlocked[room.ID] && !e.state.Visited[room.ID] {
			ids = append(ids, room.ID)
		}
	}
	return ids
}

// NearestUnvisitedRoom returns the unvisited room closest to the player by
// hop count, ignoring locks, and its distance. It returns false when every
// room has been visited.
func (e *Engine) NearestUnvisitedRoom() (string, int, bool) {
	distances := bfsDistances(e.pack, e.state.CurrentRoomID)

	best := ""
	bestDistance := -1
	for _, room := range e.pack.Rooms {
		if e.state.Visited[room.ID] {
			continue
		}
		d, reachable := distances[room.ID]
		if !reachable {
			continue
		}
		if bestDistance == -1 || d < bestDistance {
			best = room.ID
			bestDistance = d
		}
	}
	if bestDistance == -1 {
		return "", 0, false
	}
	return best, bestDistance, true
}
