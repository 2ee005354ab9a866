// Package registry tracks the sessions running in this process. Front ends
// publish snapshots after every tick; status pages and spectators read
// them from here without touching the live session.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/game"
)

// SessionInfo describes one published session.
type SessionInfo struct {
	ID        string        `json:"id"`
	Player    string        `json:"player"`
	Origin    string        `json:"origin"` // "local" or "ssh"
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Snapshot  game.Snapshot `json:"snapshot"`
}

type entry struct {
	info SessionInfo
	subs map[int]chan game.Snapshot
}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	nextSub int
	now     func() time.Time
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Register adds a session. It fails if the ID is already taken.
func (r *Registry) Register(id, player, origin string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return fmt.Errorf("registry: session %q already registered", id)
	}
	now := r.now()
	r.entries[id] = &entry{
		info: SessionInfo{ID: id, Player: player, Origin: origin, StartedAt: now, UpdatedAt: now},
		subs: make(map[int]chan game.Snapshot),
	}
	return nil
}

// Publish stores the latest snapshot of a session and hands it to its
// spectators. Slow spectators miss intermediate snapshots; they always
// receive the newest one.
func (r *Registry) Publish(id string, snap game.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.info.Snapshot = snap
	e.info.UpdatedAt = r.now()

	for _, ch := range e.subs {
		select {
		case ch <- snap:
		default:
			// Drop the stale value and retry once.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Unregister removes a session and closes its spectator channels.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}
	for _, ch := range e.subs {
		close(ch)
	}
	delete(r.entries, id)
}

// List returns all sessions, sorted by start time then ID.
func (r *Registry) List() []SessionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]SessionInfo, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].StartedAt.Before(result[j].StartedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// Get returns one session.
func (r *Registry) Get(id string) (SessionInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return SessionInfo{}, false
	}
	return e.info, true
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Subscribe returns a channel that receives every published snapshot of
// the session, starting with the current one. The channel is closed when
// the session is unregistered. cancel releases it early.
func (r *Registry) Subscribe(id string) (updates <-chan game.Snapshot, cancel func(), err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, nil, fmt.Errorf("registry: unknown session %q", id)
	}

	ch := make(chan game.Snapshot, 1)
	ch <- e.info.Snapshot
	subID := r.nextSub
	r.nextSub++
	e.subs[subID] = ch

	cancel = func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if e, ok := r.entries[id]; ok {
			if c, ok := e.subs[subID]; ok {
				delete(e.subs, subID)
				close(c)
			}
		}
	}
	return ch, cancel, nil
}
