package api

import (
	"errors"
	"slices"
	"sync"
	"time"
)

// ServerState represents the lifecycle state of a Server. The intended
// transitions:
//
// idle      -> listening | stopped
// listening -> stopping | stopped
// stopping  -> stopped
//
// stopped is terminal. Transitions outside this set are rejected.
type ServerState string

const (
	StateIdle      ServerState = "idle"
	StateListening ServerState = "listening"
	StateStopping  ServerState = "stopping"
	StateStopped   ServerState = "stopped"
)

var transitions = map[ServerState][]ServerState{
	StateIdle:      {StateListening, StateStopped},
	StateListening: {StateStopping, StateStopped},
	StateStopping:  {StateStopped},
}

// ErrInvalidTransition is returned when a Server is started or stopped out
// of order.
var ErrInvalidTransition = errors.New("invalid server state transition")

// lifecycle guards a ServerState. The zero value is idle.
type lifecycle struct {
	mu        sync.RWMutex
	state     ServerState
	startedAt time.Time
}

func (l *lifecycle) current() ServerState {
	if l.state == "" {
		return StateIdle
	}
	return l.state
}

// State returns the current state.
func (l *lifecycle) State() ServerState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current()
}

// transition moves to next and returns the state it left. On an illegal
// transition the state is unchanged and the current state is returned with
// ErrInvalidTransition.
func (l *lifecycle) transition(next ServerState) (ServerState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.current()
	if !slices.Contains(transitions[prev], next) {
		return prev, ErrInvalidTransition
	}
	l.state = next
	switch next {
	case StateListening:
		l.startedAt = TimeNow()
	case StateStopped:
		l.startedAt = time.Time{}
	}
	return prev, nil
}

// Uptime returns the time since the server started listening, or zero when
// it is not listening.
func (l *lifecycle) Uptime() time.Duration {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.startedAt.IsZero() {
		return 0
	}
	return TimeNow().Sub(l.startedAt)
}
