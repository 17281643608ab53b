// Package debounce suppresses repeated greeting replies per sender within
// a configurable window, and remembers which senders have been seen before.
package debounce

import (
	"sync"
	"time"
)

// Store decides whether a greeting reply is due for a sender and tracks
// prior contact. Implementations must be safe for concurrent use.
type Store interface {
	// ShouldSuppressGreeting reports whether a greeting for the sender
	// falls inside the suppression window.
	ShouldSuppressGreeting(senderID string) bool

	// RecordGreeting marks the moment a greeting was sent to the sender.
	RecordGreeting(senderID string)

	// Seen reports whether the sender has interacted before.
	Seen(senderID string) bool

	// Touch records an interaction from the sender without sending a
	// greeting.
	Touch(senderID string)
}

// MemoryStoreConfig configures a MemoryStore instance.
type MemoryStoreConfig struct {
	Window        time.Duration    // Greeting suppression window
	EntryTTL      time.Duration    // How long an idle sender entry is kept
	SweepInterval time.Duration    // How often expired entries are evicted
	Clock         func() time.Time // Time source; defaults to time.Now
}

type entry struct {
	lastGreeting time.Time
	lastSeen     time.Time
}

// MemoryStore is an in-memory Store with periodic eviction of idle
// senders.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]entry
	config   MemoryStoreConfig
	clock    func() time.Time
	onUpdate func(count int) // Optional callback when entry count changes
	stopCh   chan struct{}
}

// NewMemoryStore creates a MemoryStore and starts its eviction loop.
// Call Stop when done.
func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	ms := &MemoryStore{
		entries: make(map[string]entry),
		config:  cfg,
		clock:   clock,
		stopCh:  make(chan struct{}),
	}

	if cfg.SweepInterval > 0 {
		go ms.sweepLoop()
	}

	return ms
}

// OnUpdate sets a callback invoked with the entry count after each sweep.
func (ms *MemoryStore) OnUpdate(fn func(count int)) {
	ms.onUpdate = fn
}

// ShouldSuppressGreeting reports whether the sender received a greeting
// within the suppression window.
func (ms *MemoryStore) ShouldSuppressGreeting(senderID string) bool {
	if senderID == "" {
		return false
	}

	ms.mu.RLock()
	e, exists := ms.entries[senderID]
	ms.mu.RUnlock()

	if !exists || e.lastGreeting.IsZero() {
		return false
	}
	return ms.clock().Sub(e.lastGreeting) < ms.config.Window
}

// RecordGreeting marks the sender as greeted now.
func (ms *MemoryStore) RecordGreeting(senderID string) {
	if senderID == "" {
		return
	}

	now := ms.clock()
	ms.mu.Lock()
	e := ms.entries[senderID]
	e.lastGreeting = now
	e.lastSeen = now
	ms.entries[senderID] = e
	ms.mu.Unlock()
}

// Seen reports whether the sender has any recorded interaction.
func (ms *MemoryStore) Seen(senderID string) bool {
	if senderID == "" {
		return false
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()
	_, exists := ms.entries[senderID]
	return exists
}

// Touch records an interaction from the sender.
func (ms *MemoryStore) Touch(senderID string) {
	if senderID == "" {
		return
	}

	now := ms.clock()
	ms.mu.Lock()
	e := ms.entries[senderID]
	e.lastSeen = now
	ms.entries[senderID] = e
	ms.mu.Unlock()
}

// Len returns the number of tracked senders.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.entries)
}

// Sweep removes entries idle for longer than EntryTTL and returns the
// remaining count.
func (ms *MemoryStore) Sweep() int {
	cutoff := ms.clock().Add(-ms.config.EntryTTL)

	ms.mu.Lock()
	for id, e := range ms.entries {
		if e.lastSeen.Before(cutoff) {
			delete(ms.entries, id)
		}
	}
	count := len(ms.entries)
	ms.mu.Unlock()

	if ms.onUpdate != nil {
		ms.onUpdate(count)
	}
	return count
}

// sweepLoop periodically evicts idle entries.
func (ms *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(ms.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stopCh:
			return
		case <-ticker.C:
			ms.Sweep()
		}
	}
}

// Stop gracefully stops the eviction goroutine.
// Safe to call multiple times.
func (ms *MemoryStore) Stop() {
	select {
	case <-ms.stopCh:
		// Already stopped
	default:
		close(ms.stopCh)
	}
}
