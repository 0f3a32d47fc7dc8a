//go:build !deadlock

// Package syncutil provides the mutex types guarding go-amiibo's shared state:
// the session log sink and key rings handed between goroutines.
// By default, standard sync.Mutex and sync.RWMutex are used with zero overhead.
// Build with -tags=deadlock to enable deadlock detection via github.com/sasha-s/go-deadlock.
package syncutil

import "sync"

// DeadlockDetection reports whether this build checks lock ordering.
const DeadlockDetection = false

// Mutex guards the debug and session log state.
//
//nolint:gocritic // Embedding exposes Lock/Unlock directly
type Mutex struct {
	sync.Mutex
}

// RWMutex guards state read far more often than written, such as key rings.
//
//nolint:gocritic // Embedding exposes the full RWMutex method set
type RWMutex struct {
	sync.RWMutex
}
