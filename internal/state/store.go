// Package state holds the host-side mutable state shared with sensors:
// the upstream entity state store, the observer location, and the process
// readiness flag. Sensors only ever read through these types; writes come
// from the external collaborators feeding the daemon.
package state

import (
	"sync"

	"github.com/kwiles/skylight/internal/types"
)

// ChangeFunc is invoked after an entity's state changes. old is nil when
// the entity first appears; new is nil when it is removed.
type ChangeFunc func(old, new *types.UpstreamState)

// Store is an in-memory registry of upstream entity states keyed by
// entity id, with per-entity change subscriptions.
type Store struct {
	mu     sync.RWMutex
	states map[string]types.UpstreamState
	subs   map[string][]*subscription
}

type subscription struct {
	entity string
	fn     ChangeFunc
}

// NewStore creates an empty state store
func NewStore() *Store {
	return &Store{
		states: make(map[string]types.UpstreamState),
		subs:   make(map[string][]*subscription),
	}
}

// Get returns the current state of an entity, if present.
func (s *Store) Get(entity string) (types.UpstreamState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[entity]
	return st, ok
}

// Set stores a new state for an entity and notifies subscribers.
func (s *Store) Set(entity string, st types.UpstreamState) {
	s.mu.Lock()
	var old *types.UpstreamState
	if prev, ok := s.states[entity]; ok {
		old = &prev
	}
	s.states[entity] = st
	subs := append([]*subscription(nil), s.subs[entity]...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(old, &st)
	}
}

// Delete removes an entity's state and notifies subscribers with a nil
// new state, signalling that the upstream entity disappeared.
func (s *Store) Delete(entity string) {
	s.mu.Lock()
	prev, existed := s.states[entity]
	delete(s.states, entity)
	subs := append([]*subscription(nil), s.subs[entity]...)
	s.mu.Unlock()

	if !existed {
		return
	}
	for _, sub := range subs {
		sub.fn(&prev, nil)
	}
}

// Subscribe registers fn to run on every state change of the given entity.
// The returned function removes the subscription.
func (s *Store) Subscribe(entity string, fn ChangeFunc) (unsubscribe func()) {
	sub := &subscription{entity: entity, fn: fn}

	s.mu.Lock()
	s.subs[entity] = append(s.subs[entity], sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.subs[entity]
		for i, candidate := range subs {
			if candidate == sub {
				s.subs[entity] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Entities returns the ids of all known entities.
func (s *Store) Entities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	return ids
}
