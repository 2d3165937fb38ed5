/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

import (
	"context"
	"crypto/rand"
	"errors"

	"github.com/Seednode/oogiri/store"
)

const (
	idLetters = "abcdefghijklmnopqrstuvwxyz0123456789"

	roomIDLength   = 8
	playerIDLength = 16
)

func randomID(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = idLetters[int(buf[i])%len(idLetters)]
	}
	return string(out)
}

// uniqueKey returns a random key of length n that is not yet used in
// collection.
func (s *Service) uniqueKey(ctx context.Context, collection string, n int) (string, error) {
	for {
		id := s.newID(n)

		_, err := s.store.Get(ctx, collection, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return id, nil
		case err != nil:
			return "", storeErr(err, "check %s id", collection)
		}
	}
}
