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

type testPlayer struct {
	RoomID string   `json:"roomId"`
	Name   string   `json:"userName"`
	Points int      `json:"points"`
	Hand   []string `json:"hand"`
}

func decodePlayer(t *testing.T, doc Document) testPlayer {
	t.Helper()

	var p testPlayer
	require.NoError(t, doc.Decode(&p))
	return p
}

func keys(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Key)
	}
	return out
}

// testContract runs the behavior every Store backend must share against st.
// st must start empty.
func testContract(t *testing.T, st Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := st.Get(ctx, "players", "nobody")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = st.Get(ctx, "never-written", "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, st.Set(ctx, "players", "p1", testPlayer{RoomID: "r1", Name: "alice", Hand: []string{"a", "b"}}))

		doc, err := st.Get(ctx, "players", "p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", doc.Key)
		assert.Equal(t, testPlayer{RoomID: "r1", Name: "alice", Hand: []string{"a", "b"}}, decodePlayer(t, doc))
	})

	t.Run("set rejects non-objects", func(t *testing.T) {
		assert.Error(t, st.Set(ctx, "players", "bad", []string{"not", "an", "object"}))
	})

	t.Run("update merges top-level fields", func(t *testing.T) {
		require.NoError(t, st.Update(ctx, "players", "p1", map[string]any{
			"points": 3,
			"hand":   []string{"c"},
		}))

		doc, err := st.Get(ctx, "players", "p1")
		require.NoError(t, err)
		assert.Equal(t, testPlayer{RoomID: "r1", Name: "alice", Points: 3, Hand: []string{"c"}}, decodePlayer(t, doc))
	})

	t.Run("update missing", func(t *testing.T) {
		err := st.Update(ctx, "players", "nobody", map[string]any{"points": 1})
		assert.ErrorIs(t, err, ErrNotFound)

		err = st.Update(ctx, "never-written", "nobody", map[string]any{"points": 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("query by field keeps insertion order", func(t *testing.T) {
		require.NoError(t, st.Set(ctx, "players", "p2", testPlayer{RoomID: "r2", Name: "bob"}))
		require.NoError(t, st.Set(ctx, "players", "p3", testPlayer{RoomID: "r1", Name: "carol"}))
		require.NoError(t, st.Set(ctx, "players", "p0", testPlayer{RoomID: "r1", Name: "dave"}))

		// Overwriting an existing key keeps its position.
		require.NoError(t, st.Set(ctx, "players", "p1", testPlayer{RoomID: "r1", Name: "alice", Points: 3}))

		docs, err := st.QueryByField(ctx, "players", "roomId", "r1")
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p3", "p0"}, keys(docs))

		docs, err = st.QueryByField(ctx, "players", "points", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, keys(docs))

		docs, err = st.QueryByField(ctx, "players", "roomId", "r9")
		require.NoError(t, err)
		assert.Empty(t, docs)

		docs, err = st.QueryByField(ctx, "never-written", "roomId", "r1")
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("list", func(t *testing.T) {
		docs, err := st.List(ctx, "players")
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2", "p3", "p0"}, keys(docs))

		docs, err = st.List(ctx, "never-written")
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("delete many", func(t *testing.T) {
		require.NoError(t, st.DeleteMany(ctx, "players", []string{"p3", "p1", "missing"}))
		require.NoError(t, st.DeleteMany(ctx, "players", nil))
		require.NoError(t, st.DeleteMany(ctx, "never-written", []string{"p2"}))

		docs, err := st.List(ctx, "players")
		require.NoError(t, err)
		assert.Equal(t, []string{"p2", "p0"}, keys(docs))

		_, err = st.Get(ctx, "players", "p1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("collections are separate", func(t *testing.T) {
		require.NoError(t, st.Set(ctx, "rooms", "p2", map[string]any{"roomName": "lobby"}))

		doc, err := st.Get(ctx, "players", "p2")
		require.NoError(t, err)
		assert.Equal(t, "bob", decodePlayer(t, doc).Name)
	})
}
