package services

import "sync"

// PhaseLocker hands out one mutex per phase. Result reporting,
// retraction and bracket regeneration for the same phase all take it, so
// "first open slot" reads never interleave with a bracket rewrite.
type PhaseLocker struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewPhaseLocker() *PhaseLocker {
	return &PhaseLocker{locks: make(map[int]*sync.Mutex)}
}

// Lock acquires the phase's mutex and returns its release func.
func (l *PhaseLocker) Lock(phaseID int) func() {
	l.mu.Lock()
	m, ok := l.locks[phaseID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[phaseID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
