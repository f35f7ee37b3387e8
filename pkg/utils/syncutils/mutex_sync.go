//go:build !deadlock
// +build !deadlock

package syncutils

import "sync"

// Mutex is a plain sync.Mutex unless built with -tags deadlock.
type Mutex struct {
	sync.Mutex
}

type RWMutex struct {
	sync.RWMutex
}
