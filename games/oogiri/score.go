/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

import "fmt"

// ScoreBoard applies point changes to a room's roster.
type ScoreBoard struct {
	players map[string]*Player
}

func NewScoreBoard(players []*Player) *ScoreBoard {
	sb := &ScoreBoard{players: make(map[string]*Player, len(players))}
	for _, p := range players {
		sb.players[p.ID] = p
	}
	return sb
}

// Award gives one point to each winner on the roster and returns the players
// that changed. Unknown ids are skipped.
func (sb *ScoreBoard) Award(winners []string) []*Player {
	changed := make([]*Player, 0, len(winners))
	for _, id := range winners {
		p, ok := sb.players[id]
		if !ok {
			continue
		}
		p.Points++
		changed = append(changed, p)
	}
	return changed
}

// Reset zeroes a player's points.
func (sb *ScoreBoard) Reset(playerID string) bool {
	p, ok := sb.players[playerID]
	if !ok {
		return false
	}
	p.Points = 0
	return true
}

// SetPoints overwrites a player's points. Points are never negative.
func SetPoints(p *Player, points int) error {
	if points < 0 {
		return fmt.Errorf("%w: points must be non-negative, got %d", ErrInvalidInput, points)
	}
	p.Points = points
	return nil
}
