/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

import (
	rand "math/rand/v2"
	"sync"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// Rand is the source of randomness for dealing, theme sampling and shuffling.
// Implementations must be safe for concurrent use.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// NewSeededRand returns a deterministic Rand, for tests and reproducible games.
func NewSeededRand(seed int64) Rand {
	u := uint64(seed)
	return &lockedRand{r: rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
