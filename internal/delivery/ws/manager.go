package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// RoomManager is the process-resident registry mapping room ids to live
// rooms. Rooms are created on first use and evicted by their own idle sweep
// once empty past the TTL.
type RoomManager struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	ttl      time.Duration
	msgLimit int
}

// NewRoomManager creates a manager whose rooms use the given idle TTL and
// per-peer message limit.
func NewRoomManager(ttl time.Duration, msgLimit int) *RoomManager {
	return &RoomManager{
		rooms:    make(map[string]*Room),
		ttl:      ttl,
		msgLimit: msgLimit,
	}
}

// Join attaches a new connection to the room with the given id, creating the
// room if needed. An idle sweep may discard a room between lookup and join;
// in that case the join simply retries against a fresh instance.
func (m *RoomManager) Join(roomID string, conn *websocket.Conn) *Client {
	for {
		room := m.getOrCreate(roomID)
		c, err := room.Join(conn)
		if err != nil {
			// Either the room was discarded under us or the freshly
			// minted peer id collided; both retry cleanly.
			continue
		}
		return c
	}
}

func (m *RoomManager) getOrCreate(roomID string) *Room {
	m.mu.RLock()
	room := m.rooms[roomID]
	m.mu.RUnlock()
	if room != nil {
		return room
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if room := m.rooms[roomID]; room != nil {
		return room
	}
	room = newRoom(roomID, m.ttl, m.msgLimit, m)
	m.rooms[roomID] = room
	return room
}

// GetRoom returns the live room for an id, or nil.
func (m *RoomManager) GetRoom(roomID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[roomID]
}

// evict removes a room from the registry. The instance check guards against
// deleting a replacement room created under the same id after the sweep
// decided to discard the old one.
func (m *RoomManager) evict(roomID string, room *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rooms[roomID] == room {
		delete(m.rooms, roomID)
	}
}

// RoomCount returns the number of live rooms.
func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Shutdown tears down every room, closing all connections.
func (m *RoomManager) Shutdown() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()

	for _, r := range rooms {
		r.close()
	}
}
