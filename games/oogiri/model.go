/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

import (
	"fmt"
	"time"
)

const (
	DefaultRoundMax = 5

	collectionRooms   = "rooms"
	collectionPlayers = "players"
	collectionRounds  = "rounds"
)

// Phase is the room state that decides which actions are accepted.
type Phase string

const (
	PhaseWaiting      Phase = "waiting"
	PhaseThemeVote    Phase = "theme_vote"
	PhaseThemeReveal  Phase = "theme_reveal"
	PhaseAnswer       Phase = "answer"
	PhaseAnswerReveal Phase = "answer_reveal"
	PhaseVote         Phase = "vote"
	PhaseResult       Phase = "result"
	PhaseEnd          Phase = "end"
)

func (p Phase) String() string {
	return string(p)
}

// Room is the persisted room document.
type Room struct {
	ID        string    `json:"-"`
	Name      string    `json:"roomName"`
	Started   bool      `json:"started"`
	Phase     Phase     `json:"phase"`
	Round     int       `json:"round"`
	RoundMax  int       `json:"roundMax"`
	CreatedAt time.Time `json:"createdAt"`
}

// Player is the persisted player document. RoomID is a back-reference only.
type Player struct {
	ID           string  `json:"-"`
	RoomID       string  `json:"roomId"`
	Name         string  `json:"userName"`
	IsHost       bool    `json:"isHost"`
	Points       int     `json:"points"`
	Hand         Hand    `json:"hand"`
	UsedParticle *string `json:"usedParticle"`
}

// RoomSummary is one entry of the room listing.
type RoomSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"roomName"`
	Started     bool      `json:"started"`
	Phase       Phase     `json:"phase"`
	Round       int       `json:"round"`
	RoundMax    int       `json:"roundMax"`
	CreatedAt   time.Time `json:"createdAt"`
	PlayerCount int       `json:"playerCount"`
}

// PublicPlayer is a player as every room member may see them.
type PublicPlayer struct {
	ID           string  `json:"id"`
	Name         string  `json:"userName"`
	IsHost       bool    `json:"isHost"`
	Points       int     `json:"points"`
	UsedParticle *string `json:"usedParticle"`
}

// PublicRound hides answers until a reveal order exists. Progress is
// reported as the ids that have submitted.
type PublicRound struct {
	Number       int            `json:"round"`
	Themes       []string       `json:"themes"`
	Theme        string         `json:"theme"`
	ThemeVotedBy []string       `json:"themeVotedBy"`
	Answered     []string       `json:"answered"`
	VotedBy      []string       `json:"votedBy"`
	Answers      []Answer       `json:"answers,omitempty"`
	RevealOrder  []string       `json:"revealOrder"`
	Result       map[string]int `json:"result,omitempty"`
}

// RoomState is the broadcast view of a room.
type RoomState struct {
	ID        string         `json:"id"`
	Name      string         `json:"roomName"`
	Started   bool           `json:"started"`
	Phase     Phase          `json:"phase"`
	Round     int            `json:"round"`
	RoundMax  int            `json:"roundMax"`
	CreatedAt time.Time      `json:"createdAt"`
	Players   []PublicPlayer `json:"players"`
	Current   *PublicRound   `json:"currentRound,omitempty"`
}

func roundKey(roomID string, number int) string {
	return fmt.Sprintf("%s_%d", roomID, number)
}

func (p *Player) public() PublicPlayer {
	return PublicPlayer{
		ID:           p.ID,
		Name:         p.Name,
		IsHost:       p.IsHost,
		Points:       p.Points,
		UsedParticle: p.UsedParticle,
	}
}

func (r *Round) public() *PublicRound {
	pr := &PublicRound{
		Number:       r.Number,
		Themes:       r.Themes,
		Theme:        r.Theme,
		ThemeVotedBy: make([]string, 0, len(r.ThemeVotes)),
		Answered:     r.AnswerIDs(),
		VotedBy:      make([]string, 0, len(r.Votes)),
		RevealOrder:  r.RevealOrder,
	}
	for _, v := range r.ThemeVotes {
		pr.ThemeVotedBy = append(pr.ThemeVotedBy, v.PlayerID)
	}
	for _, v := range r.Votes {
		pr.VotedBy = append(pr.VotedBy, v.VoterID)
	}
	if len(r.RevealOrder) > 0 {
		pr.Answers = r.Answers
	}
	if len(r.Result) > 0 {
		pr.Result = r.Result
	}
	return pr
}
