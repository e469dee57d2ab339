package ws

import "errors"

// ErrDuplicatePeer is returned when a peer id is registered twice. It should
// not occur given that peer ids are freshly generated at join time.
var ErrDuplicatePeer = errors.New("peer id already registered")

// ConnectionRegistry tracks the live connections of one room, each keyed by
// its peer id, preserving registration order for the "existing peers" list
// sent to newcomers.
//
// Not safe for concurrent use; the owning Room serializes access.
type ConnectionRegistry struct {
	order []string
	peers map[string]*Client
}

// NewConnectionRegistry creates an empty registry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		peers: make(map[string]*Client),
	}
}

// Add registers a new connection under its peer id.
func (r *ConnectionRegistry) Add(peerID string, c *Client) error {
	if _, exists := r.peers[peerID]; exists {
		return ErrDuplicatePeer
	}
	r.peers[peerID] = c
	r.order = append(r.order, peerID)
	return nil
}

// Remove deregisters a peer and reports whether anything was removed.
func (r *ConnectionRegistry) Remove(peerID string) bool {
	if _, exists := r.peers[peerID]; !exists {
		return false
	}
	delete(r.peers, peerID)
	for i, id := range r.order {
		if id == peerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the client registered under peerID.
func (r *ConnectionRegistry) Get(peerID string) (*Client, bool) {
	c, ok := r.peers[peerID]
	return c, ok
}

// Others returns a snapshot of all registered peer ids except the given one,
// in registration order.
func (r *ConnectionRegistry) Others(excluding string) []string {
	out := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if id != excluding {
			out = append(out, id)
		}
	}
	return out
}

// OtherClients returns the clients of all registered peers except the given
// one, in registration order.
func (r *ConnectionRegistry) OtherClients(excluding string) []*Client {
	out := make([]*Client, 0, len(r.order))
	for _, id := range r.order {
		if id != excluding {
			out = append(out, r.peers[id])
		}
	}
	return out
}

// Len returns the number of registered connections.
func (r *ConnectionRegistry) Len() int {
	return len(r.peers)
}

// IsEmpty reports whether no connections remain.
func (r *ConnectionRegistry) IsEmpty() bool {
	return len(r.peers) == 0
}
