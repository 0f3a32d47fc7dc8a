//go:build deadlock

// Package syncutil provides the mutex types guarding go-amiibo's shared state:
// the session log sink and key rings handed between goroutines.
// This file is compiled when building with -tags=deadlock.
package syncutil

import (
	"os"
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockDetection reports whether this build checks lock ordering.
const DeadlockDetection = true

// AMIIBO_DEADLOCK_TIMEOUT overrides how long a lock may be held before
// go-deadlock reports it, e.g. "5s".
func init() {
	if v := os.Getenv("AMIIBO_DEADLOCK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			deadlock.Opts.DeadlockTimeout = d
		}
	}
}

// Mutex guards the debug and session log state, with deadlock detection.
type Mutex struct {
	deadlock.Mutex
}

// RWMutex guards key rings, with deadlock detection.
type RWMutex struct {
	deadlock.RWMutex
}
