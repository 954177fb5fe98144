package state

import (
	"sync"

	"github.com/kwiles/skylight/pkg/config"
)

// LocationContext is the process-wide observer position. Sensors hold it
// by reference and read it on every update; the host replaces it atomically
// when the global location configuration changes.
type LocationContext struct {
	mu  sync.RWMutex
	loc config.LocationData
}

// NewLocationContext creates a location context with an initial position
func NewLocationContext(loc config.LocationData) *LocationContext {
	return &LocationContext{loc: loc}
}

// Get returns the current location.
func (l *LocationContext) Get() config.LocationData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loc
}

// Set replaces the current location.
func (l *LocationContext) Set(loc config.LocationData) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loc = loc
}
