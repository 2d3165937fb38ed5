/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

// Shuffle returns a uniformly random permutation of ids. The input is not
// modified.
func Shuffle(rng Rand, ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)

	// Fisher-Yates
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// sample draws n distinct entries from pool without replacement by shuffling
// a copy of the pool and taking its prefix.
func sample(rng Rand, pool []string, n int) []string {
	a := make([]string, len(pool))
	copy(a, pool)

	n = min(n, len(a))
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(a)-i)
		a[i], a[j] = a[j], a[i]
	}

	return a[:n:n]
}
