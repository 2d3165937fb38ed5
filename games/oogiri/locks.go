/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

import "sync"

// roomLocks hands out one mutex per room. Every read-modify-write sequence on
// a room's documents runs while holding that room's mutex.
type roomLocks struct {
	mu    sync.Mutex
	rooms map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{rooms: make(map[string]*sync.Mutex)}
}

func (l *roomLocks) lock(roomID string) func() {
	l.mu.Lock()
	m, ok := l.rooms[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.rooms[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
