/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package oogiri implements the room and round state machine of a party word
// game: players vote on a theme, build an answer from a dealt hand of word
// cards, reveal answers in random order and vote for the funniest one.
package oogiri

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/Seednode/oogiri/store"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Notifier is called with a room id after every successful change to that
// room, once the room lock has been released.
type Notifier func(roomID string)

// Service runs game actions against a document store. Actions on one room are
// serialized; actions on different rooms run in parallel.
type Service struct {
	store    store.Store
	dealer   *Dealer
	pools    Pools
	rng      Rand
	clock    quartz.Clock
	logger   *log.Logger
	roundMax int
	locks    *roomLocks
	notify   Notifier
	newID    func(n int) string
}

type Option func(*Service)

func WithClock(clock quartz.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func WithRand(rng Rand) Option {
	return func(s *Service) { s.rng = rng }
}

func WithPools(pools Pools) Option {
	return func(s *Service) { s.pools = pools }
}

// WithRoundMax sets the number of rounds for newly created rooms.
func WithRoundMax(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.roundMax = n
		}
	}
}

func WithNotifier(fn Notifier) Option {
	return func(s *Service) { s.notify = fn }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func withIDGenerator(fn func(n int) string) Option {
	return func(s *Service) { s.newID = fn }
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		pools:    DefaultPools(),
		rng:      globalRand{},
		clock:    quartz.NewReal(),
		logger:   log.New(io.Discard),
		roundMax: DefaultRoundMax,
		locks:    newRoomLocks(),
		notify:   func(string) {},
		newID:    randomID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dealer = NewDealer(s.pools, s.rng)

	return s
}

// Particles lists the particles a player may pick from.
func (s *Service) Particles() []string {
	return slices.Clone(s.pools.Particles)
}

func storeErr(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("%w: %s: %w", ErrOperationFailed, what, err)
}

// withRoom runs fn while holding the room's lock and notifies listeners if
// fn succeeded.
func (s *Service) withRoom(roomID string, fn func() error) error {
	unlock := s.locks.lock(roomID)
	err := fn()
	unlock()

	if err == nil {
		s.notify(roomID)
	}
	return err
}

func requirePhase(room *Room, round int, phases ...Phase) error {
	if !slices.Contains(phases, room.Phase) {
		return fmt.Errorf("%w: room %s is in phase %s", ErrWrongPhase, room.ID, room.Phase)
	}
	if round != 0 && round != room.Round {
		return fmt.Errorf("%w: room %s is on round %d, not %d", ErrWrongPhase, room.ID, room.Round, round)
	}
	return nil
}

func validRound(round int) error {
	if round < 1 {
		return fmt.Errorf("%w: round must be at least 1, got %d", ErrInvalidInput, round)
	}
	return nil
}

func (s *Service) loadRoom(ctx context.Context, roomID string) (*Room, error) {
	doc, err := s.store.Get(ctx, collectionRooms, roomID)
	if err != nil {
		return nil, storeErr(err, "room %s", roomID)
	}

	room := &Room{}
	if err := doc.Decode(room); err != nil {
		return nil, storeErr(err, "decode room %s", roomID)
	}
	room.ID = doc.Key
	return room, nil
}

func (s *Service) loadPlayer(ctx context.Context, playerID string) (*Player, error) {
	doc, err := s.store.Get(ctx, collectionPlayers, playerID)
	if err != nil {
		return nil, storeErr(err, "player %s", playerID)
	}

	p := &Player{}
	if err := doc.Decode(p); err != nil {
		return nil, storeErr(err, "decode player %s", playerID)
	}
	p.ID = doc.Key
	return p, nil
}

// member loads a player and checks they belong to room.
func (s *Service) member(ctx context.Context, room *Room, playerID string) (*Player, error) {
	p, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p.RoomID != room.ID {
		return nil, fmt.Errorf("%w: player %s in room %s", ErrNotFound, playerID, room.ID)
	}
	return p, nil
}

func (s *Service) loadRound(ctx context.Context, roomID string, number int) (*Round, error) {
	key := roundKey(roomID, number)
	doc, err := s.store.Get(ctx, collectionRounds, key)
	if err != nil {
		return nil, storeErr(err, "round %s", key)
	}

	rd := &Round{}
	if err := doc.Decode(rd); err != nil {
		return nil, storeErr(err, "decode round %s", key)
	}
	return rd, nil
}

func (s *Service) roster(ctx context.Context, roomID string) ([]*Player, error) {
	docs, err := s.store.QueryByField(ctx, collectionPlayers, "roomId", roomID)
	if err != nil {
		return nil, storeErr(err, "players of room %s", roomID)
	}

	players := make([]*Player, 0, len(docs))
	for _, doc := range docs {
		p := &Player{}
		if err := doc.Decode(p); err != nil {
			return nil, storeErr(err, "decode player %s", doc.Key)
		}
		p.ID = doc.Key
		players = append(players, p)
	}
	return players, nil
}

func (s *Service) updateRoom(ctx context.Context, room *Room, fields map[string]any) error {
	if err := s.store.Update(ctx, collectionRooms, room.ID, fields); err != nil {
		return storeErr(err, "update room %s", room.ID)
	}
	return nil
}

func (s *Service) updateRound(ctx context.Context, rd *Round, fields map[string]any) error {
	key := roundKey(rd.RoomID, rd.Number)
	if err := s.store.Update(ctx, collectionRounds, key, fields); err != nil {
		return storeErr(err, "update round %s", key)
	}
	return nil
}

func (s *Service) updatePlayer(ctx context.Context, p *Player, fields map[string]any) error {
	if err := s.store.Update(ctx, collectionPlayers, p.ID, fields); err != nil {
		return storeErr(err, "update player %s", p.ID)
	}
	return nil
}

// createRound samples fresh themes and writes an empty round record.
func (s *Service) createRound(ctx context.Context, roomID string, number int) (*Round, error) {
	rd := newRound(roomID, number, s.dealer.Themes())

	key := roundKey(roomID, number)
	if err := s.store.Set(ctx, collectionRounds, key, rd); err != nil {
		return nil, storeErr(err, "create round %s", key)
	}
	return rd, nil
}

// redeal gives every player a fresh hand and clears their particle. When
// resetPoints is set, points are zeroed as well.
func (s *Service) redeal(ctx context.Context, players []*Player, resetPoints bool) error {
	sb := NewScoreBoard(players)
	for _, p := range players {
		p.Hand = s.dealer.Deal()
		p.UsedParticle = nil

		fields := map[string]any{
			"hand":         p.Hand,
			"usedParticle": nil,
		}
		if resetPoints {
			sb.Reset(p.ID)
			fields["points"] = p.Points
		}

		if err := s.updatePlayer(ctx, p, fields); err != nil {
			return err
		}
	}
	return nil
}

// CreateRoom opens a room in the waiting phase with hostName as its host.
func (s *Service) CreateRoom(ctx context.Context, roomName, hostName string) (roomID, playerID string, err error) {
	roomName = strings.TrimSpace(roomName)
	hostName = strings.TrimSpace(hostName)
	if roomName == "" || hostName == "" {
		return "", "", fmt.Errorf("%w: room name and host name are required", ErrInvalidInput)
	}

	roomID, err = s.uniqueKey(ctx, collectionRooms, roomIDLength)
	if err != nil {
		return "", "", err
	}
	playerID, err = s.uniqueKey(ctx, collectionPlayers, playerIDLength)
	if err != nil {
		return "", "", err
	}

	room := &Room{
		ID:        roomID,
		Name:      roomName,
		Phase:     PhaseWaiting,
		Round:     1,
		RoundMax:  s.roundMax,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.Set(ctx, collectionRooms, roomID, room); err != nil {
		return "", "", storeErr(err, "create room %s", roomID)
	}

	host := &Player{
		RoomID: roomID,
		Name:   hostName,
		IsHost: true,
		Hand:   Hand{},
	}
	if err := s.store.Set(ctx, collectionPlayers, playerID, host); err != nil {
		return "", "", storeErr(err, "create host %s", playerID)
	}

	s.logger.Info("GAMES: Created room", "room", roomID, "name", roomName, "host", hostName)

	return roomID, playerID, nil
}

// ListRooms summarizes every room in creation order.
func (s *Service) ListRooms(ctx context.Context) ([]RoomSummary, error) {
	docs, err := s.store.List(ctx, collectionRooms)
	if err != nil {
		return nil, storeErr(err, "list rooms")
	}

	players, err := s.store.List(ctx, collectionPlayers)
	if err != nil {
		return nil, storeErr(err, "list players")
	}
	counts := make(map[string]int)
	for _, doc := range players {
		var p Player
		if err := doc.Decode(&p); err != nil {
			return nil, storeErr(err, "decode player %s", doc.Key)
		}
		counts[p.RoomID]++
	}

	summaries := make([]RoomSummary, 0, len(docs))
	for _, doc := range docs {
		var room Room
		if err := doc.Decode(&room); err != nil {
			return nil, storeErr(err, "decode room %s", doc.Key)
		}
		summaries = append(summaries, RoomSummary{
			ID:          doc.Key,
			Name:        room.Name,
			Started:     room.Started,
			Phase:       room.Phase,
			Round:       room.Round,
			RoundMax:    room.RoundMax,
			CreatedAt:   room.CreatedAt,
			PlayerCount: counts[doc.Key],
		})
	}
	return summaries, nil
}

// JoinRoom adds a player to a room. Players joining a started room are dealt
// a hand immediately.
func (s *Service) JoinRoom(ctx context.Context, roomID, playerName string) (string, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return "", fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	var playerID string
	err := s.withRoom(roomID, func() error {
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return err
		}

		playerID, err = s.uniqueKey(ctx, collectionPlayers, playerIDLength)
		if err != nil {
			return err
		}

		p := &Player{
			RoomID: roomID,
			Name:   playerName,
			Hand:   Hand{},
		}
		if room.Started {
			p.Hand = s.dealer.Deal()
		}
		if err := s.store.Set(ctx, collectionPlayers, playerID, p); err != nil {
			return storeErr(err, "create player %s", playerID)
		}

		s.logger.Info("GAMES: Player joined", "room", roomID, "player", playerName)
		return nil
	})
	if err != nil {
		return "", err
	}
	return playerID, nil
}

// Start deals hands, creates round 1 and opens theme voting.
func (s *Service) Start(ctx context.Context, roomID string) error {
	return s.withRoom(roomID, func() error {
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if err := requirePhase(room, 0, PhaseWaiting); err != nil {
			return err
		}

		players, err := s.roster(ctx, roomID)
		if err != nil {
			return err
		}
		if err := s.redeal(ctx, players, false); err != nil {
			return err
		}
		if _, err := s.createRound(ctx, roomID, 1); err != nil {
			return err
		}

		if err := s.updateRoom(ctx, room, map[string]any{
			"started": true,
			"phase":   PhaseThemeVote,
			"round":   1,
		}); err != nil {
			return err
		}

		s.logger.Info("GAMES: Started room", "room", roomID, "players", len(players))
		return nil
	})
}

// SubmitThemeVote records a player's theme choice. A later vote from the same
// player replaces the earlier one.
func (s *Service) SubmitThemeVote(ctx context.Context, roomID string, round int, playerID string, themeIndex int) error {
	if err := validRound(round); err != nil {
		return err
	}

	return s.withRoom(roomID, func() error {
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if err := requirePhase(room, round, PhaseThemeVote); err != nil {
			return err
		}
		if _, err := s.member(ctx, room, playerID); err != nil {
			return err
		}

		rd, err := s.loadRound(ctx, roomID, round)
		if err != nil {
			return err
		}
		if themeIndex < 0 || themeIndex >= len(rd.Themes) {
			return fmt.Errorf("%w: theme index %d out of range", ErrInvalidInput, themeIndex)
		}

		rd.castThemeVote(playerID, themeIndex)
		return s.updateRound(ctx, rd, map[string]any{"themeVotes": rd.ThemeVotes})
	})
}

// RevealTheme resolves the theme vote and moves to theme_reveal.
func (s *Service) RevealTheme(ctx context.Context, roomID string, round int) error {
	if err := validRound(round); err != nil {
		return err
	}

	return s.withRoom(roomID, func() error {
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if err := requirePhase(room, round, PhaseThemeVote); err != nil {
			return err
		}

		rd, err := s.loadRound(ctx, roomID, round)
		if err != nil {
			return err
		}

		idx := ResolveTheme(rd.ThemeVotes)
		if idx < len(rd.Themes) {
			rd.Theme = rd.Themes[idx]
		}

		if err := s.updateRound(ctx, rd, map[string]any{"theme": rd.Theme}); err != nil {
			return err
		}
		if err := s.updateRoom(ctx, room, map[string]any{"phase": PhaseThemeReveal}); err != nil {
			return err
		}

		s.logger.Info("GAMES: Theme revealed", "room", roomID, "round", round, "theme", rd.Theme)
		return nil
	})
}

func (s *Service) transition(ctx context.Context, roomID string, round int, from, to Phase) error {
	if err := validRound(round); err != nil {
		return err
	}

	return s.withRoom(roomID, func() error {
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if err := requirePhase(room, round, from); err != nil {
			return err
		}
		return s.updateRoom(ctx, room, map[string]any{"phase": to})
	})
}

// BeginAnswerPhase moves from theme_reveal to answer.
func (s *Service) BeginAnswerPhase(ctx context.Context, roomID string, round int) error {
	return s.transition(ctx, roomID, round, PhaseThemeReveal, PhaseAnswer)
}

// BeginVotePhase moves from answer_reveal to vote.
func (s *Service) BeginVotePhase(ctx context.Context, roomID string, round int) error {
	return s.transition(ctx, roomID, round, PhaseAnswerReveal, PhaseVote)
}

// reveal shuffles the answering players into a new reveal order and moves
// the room to answer_reveal.
func (s *Service) reveal(ctx context.Context, room *Room, rd *Round) error {
	rd.RevealOrder = Shuffle(s.rng, rd.AnswerIDs())

	if err := s.updateRound(ctx, rd, map[string]any{"revealOrder": rd.RevealOrder}); err != nil {
		return err
	}
	if err := s.updateRoom(ctx, room, map[string]any{"phase": PhaseAnswerReveal}); err != nil {
		return err
	}
	room.Phase = PhaseAnswerReveal
	return nil
}

// SubmitAnswer records a player's answer. Once every player in the room has
// answered, the room moves to answer_reveal with a fresh reveal order.
func (s *Service) SubmitAnswer(ctx context.Context, roomID string, round int, playerID, text string, usedWords []string) error {
	if err := validRound(round); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: answer text is required", ErrInvalidInput)
	}
	if usedWords == nil {
		usedWords = []string{}
	}

	return s.withRoom(roomID, func() error {
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if err := requirePhase(room, round, PhaseAnswer); err != nil {
			return err
		}
		if _, err := s.member(ctx, room, playerID); err != nil {
			return err
		}

		rd, err := s.loadRound(ctx, roomID, round)
		if err != nil {
			return err
		}

		rd.recordAnswer(Answer{PlayerID: playerID, Text: text, UsedWords: usedWords})
		if err := s.updateRound(ctx, rd, map[string]any{"answers": rd.Answers}); err != nil {
			return err
		}

		players, err := s.roster(ctx, roomID)
		if err != nil {
			return err
		}
		for _, p := range players {
			if !rd.HasAnswered(p.ID) {
				return nil
			}
		}

		if err := s.reveal(ctx, room, rd); err != nil {
			return err
		}

		s.logger.Info("GAMES: All answers in", "room", roomID, "round", round, "answers", len(rd.Answers))
		return nil
	})
}

// BeginAnswerRevealPhase reshuffles the reveal order from the answers
// submitted so far. Each call produces a new order.
func (s *Service) BeginAnswerRevealPhase(ctx context.Context, roomID string, round int) error {
	if err := validRound(round); err != nil {
		return err
	}

	return s.withRoom(roomID, func() error {
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if err := requirePhase(room, round, PhaseAnswer, PhaseAnswerReveal); err != nil {
			return err
		}

		rd, err := s.loadRound(ctx, roomID, round)
		if err != nil {
			return err
		}
		return s.reveal(ctx, room, rd)
	})
}

// SubmitVote records voterID's pick. Voting for yourself is allowed.
func (s *Service) SubmitVote(ctx context.Context, roomID string, round int, voterID, targetID string) error {
	if err := validRound(round); err != nil {
		return err
	}
	if strings.TrimSpace(targetID) == "" {
		return fmt.Errorf("%w: vote target is required", ErrInvalidInput)
	}

	return s.withRoom(roomID, func() error {
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if err := requirePhase(room, round, PhaseVote); err != nil {
			return err
		}
		if _, err := s.member(ctx, room, voterID); err != nil {
			return err
		}
		if _, err := s.member(ctx, room, targetID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: vote target %s is not in room %s", ErrInvalidInput, targetID, roomID)
			}
			return err
		}

		rd, err := s.loadRound(ctx, roomID, round)
		if err != nil {
			return err
		}

		rd.castVote(voterID, targetID)
		return s.updateRound(ctx, rd, map[string]any{"votes": rd.Votes})
	})
}

// ComputeResult tallies the answer votes, awards a point to every player tied
// for the most votes and moves to result.
func (s *Service) ComputeResult(ctx context.Context, roomID string, round int) error {
	if err := validRound(round); err != nil {
		return err
	}

	return s.withRoom(roomID, func() error {
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if err := requirePhase(room, round, PhaseVote); err != nil {
			return err
		}

		rd, err := s.loadRound(ctx, roomID, round)
		if err != nil {
			return err
		}

		rd.Result = TallyVotes(rd.Votes)
		if err := s.updateRound(ctx, rd, map[string]any{"result": rd.Result}); err != nil {
			return err
		}

		players, err := s.roster(ctx, roomID)
		if err != nil {
			return err
		}
		winners := Winners(rd.Votes)
		for _, p := range NewScoreBoard(players).Award(winners) {
			if err := s.updatePlayer(ctx, p, map[string]any{"points": p.Points}); err != nil {
				return err
			}
		}

		if err := s.updateRoom(ctx, room, map[string]any{"phase": PhaseResult}); err != nil {
			return err
		}

		s.logger.Info("GAMES: Round scored", "room", roomID, "round", round, "winners", winners)
		return nil
	})
}

// AdvanceRound starts the next round, or ends the game after the last one.
func (s *Service) AdvanceRound(ctx context.Context, roomID string) error {
	return s.withRoom(roomID, func() error {
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if err := requirePhase(room, 0, PhaseResult); err != nil {
			return err
		}

		next := room.Round + 1
		if next > room.RoundMax {
			if err := s.updateRoom(ctx, room, map[string]any{"phase": PhaseEnd}); err != nil {
				return err
			}
			s.logger.Info("GAMES: Game over", "room", roomID, "rounds", room.Round)
			return nil
		}

		players, err := s.roster(ctx, roomID)
		if err != nil {
			return err
		}
		if err := s.redeal(ctx, players, false); err != nil {
			return err
		}
		if _, err := s.createRound(ctx, roomID, next); err != nil {
			return err
		}
		if err := s.updateRoom(ctx, room, map[string]any{
			"phase": PhaseThemeVote,
			"round": next,
		}); err != nil {
			return err
		}

		s.logger.Info("GAMES: Round advanced", "room", roomID, "round", next)
		return nil
	})
}

// Restart resets the room to round 1 from any phase: points are zeroed, hands
// redealt and every earlier round record is deleted.
func (s *Service) Restart(ctx context.Context, roomID string) error {
	return s.withRoom(roomID, func() error {
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return err
		}

		players, err := s.roster(ctx, roomID)
		if err != nil {
			return err
		}
		if err := s.redeal(ctx, players, true); err != nil {
			return err
		}

		rounds, err := s.store.QueryByField(ctx, collectionRounds, "roomId", roomID)
		if err != nil {
			return storeErr(err, "rounds of room %s", roomID)
		}
		keys := make([]string, 0, len(rounds))
		for _, doc := range rounds {
			keys = append(keys, doc.Key)
		}
		if err := s.store.DeleteMany(ctx, collectionRounds, keys); err != nil {
			return storeErr(err, "delete rounds of room %s", roomID)
		}

		if _, err := s.createRound(ctx, roomID, 1); err != nil {
			return err
		}
		if err := s.updateRoom(ctx, room, map[string]any{
			"phase":   PhaseThemeVote,
			"round":   1,
			"started": true,
		}); err != nil {
			return err
		}

		s.logger.Info("GAMES: Restarted room", "room", roomID, "deleted_rounds", len(keys))
		return nil
	})
}

// withPlayer resolves the player's room and runs fn under that room's lock
// with a freshly loaded player.
func (s *Service) withPlayer(ctx context.Context, playerID string, fn func(p *Player) error) error {
	p, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	return s.withRoom(p.RoomID, func() error {
		p, err := s.loadPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		return fn(p)
	})
}

// GetPlayer returns a player including their private hand.
func (s *Service) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	return s.loadPlayer(ctx, playerID)
}

// SetParticle records the particle a player picked. An empty particle clears it.
func (s *Service) SetParticle(ctx context.Context, playerID, particle string) error {
	return s.withPlayer(ctx, playerID, func(p *Player) error {
		var value *string
		if particle = strings.TrimSpace(particle); particle != "" {
			value = &particle
		}
		return s.updatePlayer(ctx, p, map[string]any{"usedParticle": value})
	})
}

// ResetPoints overwrites a player's points.
func (s *Service) ResetPoints(ctx context.Context, playerID string, points int) error {
	return s.withPlayer(ctx, playerID, func(p *Player) error {
		if err := SetPoints(p, points); err != nil {
			return err
		}
		return s.updatePlayer(ctx, p, map[string]any{"points": p.Points})
	})
}

// Hand change types accepted by ChangeHand.
const (
	ChangeOne = "one"
	ChangeAll = "all"
)

// ChangeHand swaps one card ("one", with cardIdx) or redeals the hand while
// keeping the cards at keepIdx ("all").
func (s *Service) ChangeHand(ctx context.Context, playerID, changeType string, cardIdx *int, keepIdx []int) (Hand, error) {
	var hand Hand
	err := s.withPlayer(ctx, playerID, func(p *Player) error {
		var err error
		switch changeType {
		case ChangeOne:
			if cardIdx == nil {
				return fmt.Errorf("%w: cardIdx is required", ErrInvalidInput)
			}
			hand, err = s.dealer.ReplaceOne(p.Hand, *cardIdx)
		case ChangeAll:
			hand, err = s.dealer.ReplaceAll(p.Hand, keepIdx)
		default:
			return fmt.Errorf("%w: unknown change type %q", ErrInvalidInput, changeType)
		}
		if err != nil {
			return err
		}

		p.Hand = hand
		return s.updatePlayer(ctx, p, map[string]any{"hand": hand})
	})
	if err != nil {
		return nil, err
	}
	return hand, nil
}

// Snapshot returns the public state of a room and its current round.
func (s *Service) Snapshot(ctx context.Context, roomID string) (*RoomState, error) {
	unlock := s.locks.lock(roomID)
	defer unlock()

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	players, err := s.roster(ctx, roomID)
	if err != nil {
		return nil, err
	}

	state := &RoomState{
		ID:        room.ID,
		Name:      room.Name,
		Started:   room.Started,
		Phase:     room.Phase,
		Round:     room.Round,
		RoundMax:  room.RoundMax,
		CreatedAt: room.CreatedAt,
		Players:   make([]PublicPlayer, 0, len(players)),
	}
	for _, p := range players {
		state.Players = append(state.Players, p.public())
	}

	if room.Started {
		rd, err := s.loadRound(ctx, roomID, room.Round)
		if err != nil {
			return nil, err
		}
		state.Current = rd.public()
	}
	return state, nil
}
