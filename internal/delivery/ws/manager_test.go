package ws

import (
	"sync"
	"testing"
	"time"

	"github.com/beaconlabs/pairlink/internal/domain"
)

func TestRoomManager_GetOrCreate(t *testing.T) {
	m := NewRoomManager(time.Minute, domain.DefaultRelayLimit)

	r1 := m.getOrCreate("alpha")
	r2 := m.getOrCreate("alpha")
	if r1 != r2 {
		t.Error("Expected the same room instance for the same id")
	}
	if m.getOrCreate("beta") == r1 {
		t.Error("Expected different rooms for different ids")
	}
	if m.RoomCount() != 2 {
		t.Errorf("Expected 2 rooms, got %d", m.RoomCount())
	}
}

func TestRoomManager_RoomsAreIndependent(t *testing.T) {
	m := NewRoomManager(time.Minute, domain.DefaultRelayLimit)

	a := m.getOrCreate("room-a")
	b := m.getOrCreate("room-b")

	ca := newTestClient(t, a)
	cb := newTestClient(t, b)
	drainClient(ca)
	drainClient(cb)

	a.Relay(ca.PeerID, []byte(`{"type":"offer","data":{}}`))

	select {
	case raw := <-cb.send:
		t.Errorf("Message must never cross rooms, got %s", raw)
	default:
	}
}

func TestRoomManager_IdleSweepEvictsEmptyRoom(t *testing.T) {
	m := NewRoomManager(30*time.Millisecond, domain.DefaultRelayLimit)

	room := m.getOrCreate("ephemeral")
	c := newTestClient(t, room)
	room.Leave(c.PeerID)

	// Room is empty; the sweep should fire and evict it
	deadline := time.Now().Add(time.Second)
	for m.GetRoom("ephemeral") != nil {
		if time.Now().After(deadline) {
			t.Fatal("Expected empty room to be evicted after TTL")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRoomManager_SweepSparesOccupiedRoom(t *testing.T) {
	m := NewRoomManager(30*time.Millisecond, domain.DefaultRelayLimit)

	room := m.getOrCreate("busy")
	newTestClient(t, room)

	time.Sleep(80 * time.Millisecond)

	if m.GetRoom("busy") == nil {
		t.Fatal("Room with live connections must never be destroyed")
	}
	if room.PeerCount() != 1 {
		t.Errorf("Expected the connection to survive, got %d peers", room.PeerCount())
	}
}

func TestRoomManager_ActivityPostponesSweep(t *testing.T) {
	m := NewRoomManager(60*time.Millisecond, domain.DefaultRelayLimit)

	room := m.getOrCreate("refreshed")
	c := newTestClient(t, room)
	room.Leave(c.PeerID)

	// Rejoin before the deadline; the reschedule replaces the pending sweep
	time.Sleep(30 * time.Millisecond)
	c2 := newTestClient(t, room)

	time.Sleep(60 * time.Millisecond)
	if m.GetRoom("refreshed") != room {
		t.Fatal("Occupied room must survive its previously scheduled sweep")
	}

	room.Leave(c2.PeerID)
	deadline := time.Now().Add(time.Second)
	for m.GetRoom("refreshed") != nil {
		if time.Now().After(deadline) {
			t.Fatal("Expected room to be evicted once truly idle")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRoomManager_ConcurrentAccess(t *testing.T) {
	m := NewRoomManager(time.Minute, domain.DefaultRelayLimit)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.getOrCreate("shared")
			m.GetRoom("shared")
			m.RoomCount()
		}()
	}
	wg.Wait()

	if m.RoomCount() != 1 {
		t.Errorf("Expected a single shared room, got %d", m.RoomCount())
	}
}

func TestRoomManager_Shutdown(t *testing.T) {
	m := NewRoomManager(time.Minute, domain.DefaultRelayLimit)

	room := m.getOrCreate("closing")
	c := newTestClient(t, room)
	drainClient(c)

	m.Shutdown()

	if m.RoomCount() != 0 {
		t.Errorf("Expected no rooms after shutdown, got %d", m.RoomCount())
	}

	// The client's send channel is closed so its write pump exits
	if _, ok := <-c.send; ok {
		t.Error("Expected client send channel to be closed")
	}
}
