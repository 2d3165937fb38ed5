/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		votes []ThemeVote
		want  int
	}{
		{
			name: "tie goes to the first voter's pick",
			votes: []ThemeVote{
				{"p1", 0}, {"p2", 1}, {"p3", 0}, {"p4", 1},
			},
			want: 0,
		},
		{
			name: "tie with later first voter",
			votes: []ThemeVote{
				{"p1", 3}, {"p2", 1}, {"p3", 1}, {"p4", 3},
			},
			want: 3,
		},
		{
			name: "first voter outside the tie is skipped",
			votes: []ThemeVote{
				{"p1", 5}, {"p2", 2}, {"p3", 4}, {"p4", 4}, {"p5", 2},
			},
			want: 2,
		},
		{
			name:  "clear majority",
			votes: []ThemeVote{{"p1", 1}, {"p2", 4}, {"p3", 4}},
			want:  4,
		},
		{
			name:  "no votes defaults to first theme",
			votes: nil,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTheme(tt.votes))
		})
	}
}

func TestWinners(t *testing.T) {
	t.Parallel()

	t.Run("single winner", func(t *testing.T) {
		votes := []Vote{{"alice", "bob"}, {"carol", "bob"}, {"dave", "eve"}}

		assert.Equal(t, map[string]int{"bob": 2, "eve": 1}, TallyVotes(votes))
		assert.Equal(t, []string{"bob"}, Winners(votes))
	})

	t.Run("ties are kept", func(t *testing.T) {
		votes := []Vote{{"a", "x"}, {"b", "y"}}

		assert.Equal(t, map[string]int{"x": 1, "y": 1}, TallyVotes(votes))
		assert.Equal(t, []string{"x", "y"}, Winners(votes))
	})

	t.Run("self vote counts", func(t *testing.T) {
		votes := []Vote{{"a", "a"}, {"b", "a"}, {"c", "b"}}
		assert.Equal(t, []string{"a"}, Winners(votes))
	})

	t.Run("no votes no winners", func(t *testing.T) {
		assert.Empty(t, TallyVotes(nil))
		assert.Empty(t, Winners(nil))
	})
}
