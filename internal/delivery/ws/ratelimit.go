package ws

import "time"

// window is one fixed rate-limit window. The count resets whenever a full
// window length has elapsed since windowStart.
type window struct {
	count       int
	windowStart time.Time
}

// MessageLimiter enforces a fixed-window message limit per peer. Windows are
// created lazily on first use and must be Forgotten when the owning
// connection is removed so memory stays bounded.
//
// A peer that reconnects does so under a freshly minted id and therefore
// starts a fresh window; rate-limit history is not identity-persistent
// across reconnects.
//
// Not safe for concurrent use; the owning Room serializes access.
type MessageLimiter struct {
	limit     int
	windowLen time.Duration
	windows   map[string]*window
}

// NewMessageLimiter creates a limiter allowing limit messages per windowLen.
func NewMessageLimiter(limit int, windowLen time.Duration) *MessageLimiter {
	return &MessageLimiter{
		limit:     limit,
		windowLen: windowLen,
		windows:   make(map[string]*window),
	}
}

// Allow records one message from peerID at time now and reports whether it
// is within the window's limit.
func (l *MessageLimiter) Allow(peerID string, now time.Time) bool {
	w, ok := l.windows[peerID]
	if !ok {
		w = &window{windowStart: now}
		l.windows[peerID] = w
	}
	if now.Sub(w.windowStart) >= l.windowLen {
		w.count = 0
		w.windowStart = now
	}
	w.count++
	return w.count <= l.limit
}

// Forget drops the window for peerID.
func (l *MessageLimiter) Forget(peerID string) {
	delete(l.windows, peerID)
}

// Len returns the number of tracked windows.
func (l *MessageLimiter) Len() int {
	return len(l.windows)
}
