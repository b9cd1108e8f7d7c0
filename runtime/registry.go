package runtime

import (
	"skillsync/contract"
	"slices"
	"sync"
)

// Registry maps an online user to the sink of their live connection.
// At most one entry per user, the last connection wins.
// The gateway disconnects through Release, which leaves a newer connection of
// the same user in place. Unregister removes the user whatever its handle.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.EventSink // map user -> Sink
	order    []string                      // insertion order of sessions
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]contract.EventSink),
	}
}

// Register inserts or overwrites the sink of a user.
// Overwriting keeps the user at its original position in ListAll.
func (r *Registry) Register(userID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[userID]; !ok {
		r.order = append(r.order, userID)
	}
	r.sessions[userID] = sink
}

// Unregister removes the user if present, no-op otherwise.
func (r *Registry) Unregister(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(userID)
}

// Release removes the user only while sink is still its registered handle.
// A connection closing after being replaced by a newer one must not evict it.
func (r *Registry) Release(userID string, sink contract.EventSink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[userID]
	if !ok || current.ID() != sink.ID() {
		return false
	}
	r.remove(userID)
	return true
}

func (r *Registry) Lookup(userID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sessions[userID]
	return sink, ok
}

// ListAll returns a snapshot of every online user in insertion order.
func (r *Registry) ListAll() []contract.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]contract.Entry, 0, len(r.order))
	for _, userID := range r.order {
		entries = append(entries, contract.Entry{UserID: userID, Sink: r.sessions[userID]})
	}
	return entries
}

func (r *Registry) remove(userID string) {
	if _, ok := r.sessions[userID]; !ok {
		return
	}
	delete(r.sessions, userID)
	r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == userID })
}
