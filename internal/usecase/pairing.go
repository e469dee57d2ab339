package usecase

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/beaconlabs/pairlink/internal/domain"
	"github.com/beaconlabs/pairlink/internal/lifecycle"
)

// Lookup outcomes. Both surface as HTTP 404, but the bodies differ so a
// failed pairing can be told apart from a late one.
var (
	ErrNotFound = errors.New("pairing code not found")
	ErrExpired  = errors.New("pairing code expired")
)

// pairingEntry holds a registered connection-info blob and its absolute
// expiry. Once the expiry passes the entry is logically gone even while
// still physically stored.
type pairingEntry struct {
	info      json.RawMessage
	expiresAt time.Time
}

// PairingRegistry maps short human-typeable codes to opaque connection-info
// blobs with a TTL. The registry never interprets the blob; the use case is
// "publish once, read once, then expire".
type PairingRegistry struct {
	mu         sync.Mutex
	entries    map[string]pairingEntry
	defaultTTL time.Duration
	sweeper    *lifecycle.Timer
}

// NewPairingRegistry creates a registry whose entries default to defaultTTL
// when registered without an explicit ttl.
func NewPairingRegistry(defaultTTL time.Duration) *PairingRegistry {
	p := &PairingRegistry{
		entries:    make(map[string]pairingEntry),
		defaultTTL: defaultTTL,
	}
	p.sweeper = lifecycle.NewTimer(p.Sweep)
	return p
}

// Register stores info under code, overwriting any prior entry. A ttl of
// zero or less falls back to the default. The sweep deadline is tightened so
// a sweep runs no later than the entry's expiry plus a short grace.
func (p *PairingRegistry) Register(code string, info json.RawMessage, ttl time.Duration) {
	if ttl <= 0 {
		ttl = p.defaultTTL
	}

	p.mu.Lock()
	p.entries[code] = pairingEntry{
		info:      info,
		expiresAt: time.Now().Add(ttl),
	}
	p.mu.Unlock()

	p.sweeper.Tighten(ttl + domain.SweepGrace)
}

// Lookup returns the info registered under code. An entry past its expiry is
// deleted on read and reported as ErrExpired; an absent code is ErrNotFound.
func (p *PairingRegistry) Lookup(code string) (json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[code]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(p.entries, code)
		return nil, ErrExpired
	}
	return entry.info, nil
}

// Sweep deletes every expired entry. It is idempotent and safe to run
// redundantly. If live entries remain, the next sweep is scheduled for the
// earliest remaining expiry.
func (p *PairingRegistry) Sweep() {
	p.mu.Lock()
	now := time.Now()
	var next time.Time
	for code, entry := range p.entries {
		if now.After(entry.expiresAt) {
			delete(p.entries, code)
			continue
		}
		if next.IsZero() || entry.expiresAt.Before(next) {
			next = entry.expiresAt
		}
	}
	p.mu.Unlock()

	if !next.IsZero() {
		p.sweeper.Tighten(time.Until(next) + domain.SweepGrace)
	}
}

// Len returns the number of physically stored entries, expired or not.
func (p *PairingRegistry) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Close cancels the pending sweep.
func (p *PairingRegistry) Close() {
	p.sweeper.Stop()
}
