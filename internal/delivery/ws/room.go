package ws

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/beaconlabs/pairlink/internal/domain"
	"github.com/beaconlabs/pairlink/internal/lifecycle"
)

// errRoomClosed is returned by admit when the room was discarded between the
// manager handing out the instance and the join taking the room lock.
var errRoomClosed = errors.New("room closed")

// Room is one relay scope: a connection registry, a per-peer message
// limiter, and a single idle-TTL timer. All operations on a room are
// serialized by its mutex; different rooms share no mutable state.
type Room struct {
	ID string

	mu       sync.Mutex
	registry *ConnectionRegistry
	limiter  *MessageLimiter
	idle     *lifecycle.Timer
	ttl      time.Duration
	manager  *RoomManager
	closed   bool
}

func newRoom(id string, ttl time.Duration, msgLimit int, m *RoomManager) *Room {
	r := &Room{
		ID:       id,
		registry: NewConnectionRegistry(),
		limiter:  NewMessageLimiter(msgLimit, domain.RelayWindowLength),
		ttl:      ttl,
		manager:  m,
	}
	r.idle = lifecycle.NewTimer(r.sweep)
	return r
}

// Join registers a new connection, tells the newcomer its peer id and which
// peers were already present, and announces the newcomer to everyone else.
func (r *Room) Join(conn *websocket.Conn) (*Client, error) {
	c := &Client{
		PeerID: uuid.New().String(),
		room:   r,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
	if err := r.admit(c); err != nil {
		return nil, err
	}
	return c, nil
}

// admit does the registration under the room lock. Split from Join so tests
// can drive rooms with clients that have no real websocket connection.
func (r *Room) admit(c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errRoomClosed
	}

	// Snapshot before adding so the newcomer's peer list holds exactly the
	// strictly-earlier joiners.
	existing := r.registry.Others("")

	if err := r.registry.Add(c.PeerID, c); err != nil {
		return err
	}

	c.Send(domain.NewJoinMessage(c.PeerID, existing))

	joined := domain.NewPresenceMessage(domain.MessageTypePeerJoined, c.PeerID)
	for _, other := range r.registry.OtherClients(c.PeerID) {
		other.Send(joined)
	}

	r.idle.Reschedule(r.ttl)
	return nil
}

// Relay gates an inbound frame through the rate limiter, validates it, and
// forwards it to every other peer in the room. Errors go back to the sender
// only; the message is dropped and the connection stays open.
func (r *Room) Relay(peerID string, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sender, ok := r.registry.Get(peerID)
	if !ok {
		return
	}

	r.idle.Reschedule(r.ttl)

	if !r.limiter.Allow(peerID, time.Now()) {
		sender.Send(domain.NewErrorMessage(domain.ErrMsgRateLimited))
		return
	}

	var msg domain.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		sender.Send(domain.NewErrorMessage(domain.ErrMsgInvalidJSON))
		return
	}
	if !domain.IsSignalType(msg.Type) {
		sender.Send(domain.NewErrorMessage(domain.ErrMsgInvalidType))
		return
	}

	out := domain.NewRelayMessage(msg.Type, peerID, msg.Data)
	for _, other := range r.registry.OtherClients(peerID) {
		if !other.Send(out) {
			log.Printf("room %s: dropped frame for slow peer %s", r.ID, other.PeerID)
		}
	}
}

// Leave removes a connection, drops its rate-limit window, and announces the
// departure. The room itself is never destroyed here; when empty it is left
// to the rescheduled idle sweep.
func (r *Room) Leave(peerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.registry.Get(peerID)
	if !ok {
		return
	}
	r.registry.Remove(peerID)
	r.limiter.Forget(peerID)
	close(c.send)

	left := domain.NewPresenceMessage(domain.MessageTypePeerLeft, peerID)
	for _, other := range r.registry.OtherClients(peerID) {
		other.Send(left)
	}

	r.idle.Reschedule(r.ttl)
}

// sweep is the idle timer callback. A room with connections is left alone;
// intervening activity already pushed the deadline out.
func (r *Room) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || !r.registry.IsEmpty() {
		return
	}
	r.closed = true
	r.idle.Stop()
	if r.manager != nil {
		r.manager.evict(r.ID, r)
	}
}

// close tears the room down on server shutdown, closing every connection.
func (r *Room) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.idle.Stop()
	for _, c := range r.registry.OtherClients("") {
		r.registry.Remove(c.PeerID)
		r.limiter.Forget(c.PeerID)
		close(c.send)
	}
}

// PeerCount returns the number of live connections in the room.
func (r *Room) PeerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.Len()
}
