/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	testContract(t, NewMemory())
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "rooms", "r1", map[string]any{"roomName": "lobby", "round": 1}))

	before, err := m.Get(ctx, "rooms", "r1")
	require.NoError(t, err)

	require.NoError(t, m.Update(ctx, "rooms", "r1", map[string]any{"round": 2}))

	var room map[string]any
	require.NoError(t, before.Decode(&room))
	assert.EqualValues(t, 1, room["round"])
}

func TestMemoryClosed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "rooms", "r1", map[string]any{"roomName": "lobby"}))
	require.NoError(t, m.Close())

	_, err := m.Get(ctx, "rooms", "r1")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Set(ctx, "rooms", "r2", map[string]any{}), ErrClosed)
	assert.ErrorIs(t, m.Update(ctx, "rooms", "r1", map[string]any{"round": 2}), ErrClosed)
	_, err = m.List(ctx, "rooms")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = m.QueryByField(ctx, "rooms", "roomName", "lobby")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.DeleteMany(ctx, "rooms", []string{"r1"}), ErrClosed)
}

func TestMemoryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory()
	_, err := m.Get(ctx, "rooms", "r1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, m.Set(ctx, "rooms", "r1", map[string]any{}), context.Canceled)
}
