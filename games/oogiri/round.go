/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

// ThemeVote is one player's choice among the round's themes.
type ThemeVote struct {
	PlayerID   string `json:"playerId"`
	ThemeIndex int    `json:"themeIndex"`
}

// Answer is a player's submitted answer and the cards used to build it.
type Answer struct {
	PlayerID  string   `json:"playerId"`
	Text      string   `json:"answer"`
	UsedWords []string `json:"usedWords"`
}

// Vote is one player's pick for the funniest answer.
type Vote struct {
	VoterID  string `json:"voterId"`
	TargetID string `json:"targetId"`
}

// Round is the persisted per-round record. ThemeVotes, Answers and Votes are
// kept in arrival order; a repeat submission replaces the earlier entry in
// its original position.
type Round struct {
	RoomID      string         `json:"roomId"`
	Number      int            `json:"round"`
	Themes      []string       `json:"themes"`
	ThemeVotes  []ThemeVote    `json:"themeVotes"`
	Theme       string         `json:"theme"`
	Answers     []Answer       `json:"answers"`
	Votes       []Vote         `json:"votes"`
	RevealOrder []string       `json:"revealOrder"`
	Result      map[string]int `json:"result"`
}

func newRound(roomID string, number int, themes []string) *Round {
	return &Round{
		RoomID:      roomID,
		Number:      number,
		Themes:      themes,
		ThemeVotes:  []ThemeVote{},
		Answers:     []Answer{},
		Votes:       []Vote{},
		RevealOrder: []string{},
		Result:      map[string]int{},
	}
}

func (r *Round) castThemeVote(playerID string, themeIndex int) {
	for i := range r.ThemeVotes {
		if r.ThemeVotes[i].PlayerID == playerID {
			r.ThemeVotes[i].ThemeIndex = themeIndex
			return
		}
	}
	r.ThemeVotes = append(r.ThemeVotes, ThemeVote{PlayerID: playerID, ThemeIndex: themeIndex})
}

func (r *Round) recordAnswer(a Answer) {
	for i := range r.Answers {
		if r.Answers[i].PlayerID == a.PlayerID {
			r.Answers[i] = a
			return
		}
	}
	r.Answers = append(r.Answers, a)
}

func (r *Round) castVote(voterID, targetID string) {
	for i := range r.Votes {
		if r.Votes[i].VoterID == voterID {
			r.Votes[i].TargetID = targetID
			return
		}
	}
	r.Votes = append(r.Votes, Vote{VoterID: voterID, TargetID: targetID})
}

// AnswerIDs returns the ids of players who have answered, in arrival order.
func (r *Round) AnswerIDs() []string {
	ids := make([]string, 0, len(r.Answers))
	for _, a := range r.Answers {
		ids = append(ids, a.PlayerID)
	}
	return ids
}

// HasAnswered reports whether playerID has an answer entry.
func (r *Round) HasAnswered(playerID string) bool {
	for _, a := range r.Answers {
		if a.PlayerID == playerID {
			return true
		}
	}
	return false
}
