/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Seednode/oogiri/games/oogiri"
	"github.com/charmbracelet/log"
	"github.com/julienschmidt/httprouter"
)

const maxBodySize = 64 << 10

// reply is the body of a successful response; "ok" is added on the way out.
type reply map[string]any

type apiFunc func(r *http.Request, p httprouter.Params) (reply, error)

type api struct {
	cfg    *Config
	svc    *oogiri.Service
	logger *log.Logger
	errs   chan<- error
}

type createRoomRequest struct {
	RoomName string `json:"roomName"`
	HostName string `json:"hostName"`
}

type joinRoomRequest struct {
	UserName string `json:"userName"`
}

type themeVoteRequest struct {
	UserID     string `json:"userId"`
	ThemeIndex *int   `json:"themeIndex"`
}

type answerRequest struct {
	UserID    string   `json:"userId"`
	Answer    string   `json:"answer"`
	UsedWords []string `json:"usedWords"`
}

type voteRequest struct {
	UserID        string `json:"userId"`
	VoteForUserID string `json:"voteForUserId"`
}

type pointsRequest struct {
	Points *int `json:"points"`
}

type particleRequest struct {
	UsedParticle string `json:"usedParticle"`
}

type changeHandRequest struct {
	ChangeType string `json:"changeType"`
	CardIdx    *int   `json:"cardIdx"`
	KeepIdx    []int  `json:"keepIdx"`
}

// playerView exposes a player, hand included, along with their id.
type playerView struct {
	ID string `json:"id"`
	*oogiri.Player
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", oogiri.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed request body: %v", oogiri.ErrInvalidInput, err)
	}
	return nil
}

func roundParam(p httprouter.Params) (int, error) {
	round, err := strconv.Atoi(p.ByName("round"))
	if err != nil {
		return 0, fmt.Errorf("%w: round must be a number, got %q", oogiri.ErrInvalidInput, p.ByName("round"))
	}
	return round, nil
}

func (a *api) report(err error) {
	select {
	case a.errs <- err:
	default:
	}
}

// handle runs fn and writes its reply, or the mapped error, as JSON.
func (a *api) handle(action string, fn apiFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		securityHeaders(a.cfg, w)

		out, err := fn(r, p)

		status := http.StatusOK
		var body any
		if err != nil {
			status = statusFor(err)
			body = errorResponse{Error: err.Error()}

			if status == http.StatusInternalServerError {
				a.logger.Error("SERVE: Action failed", "action", action, "err", err)
			}
		} else {
			if out == nil {
				out = reply{}
			}
			out["ok"] = true
			body = out
		}

		written, err := writeJSON(w, status, body)
		if err != nil {
			a.report(err)

			return
		}

		a.logger.Debug("SERVE: "+action,
			"status", status,
			"size", humanReadableSize(int64(written)),
			"remote", realIP(r),
			"took", time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// roundAction adapts a round-scoped phase action to an apiFunc.
func (a *api) roundAction(fn func(ctx context.Context, roomID string, round int) error) apiFunc {
	return func(r *http.Request, p httprouter.Params) (reply, error) {
		round, err := roundParam(p)
		if err != nil {
			return nil, err
		}
		return nil, fn(r.Context(), p.ByName("roomId"), round)
	}
}

// roomAction adapts a room-scoped action to an apiFunc.
func (a *api) roomAction(fn func(ctx context.Context, roomID string) error) apiFunc {
	return func(r *http.Request, p httprouter.Params) (reply, error) {
		return nil, fn(r.Context(), p.ByName("roomId"))
	}
}

func (a *api) createRoom(r *http.Request, _ httprouter.Params) (reply, error) {
	var req createRoomRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	roomID, userID, err := a.svc.CreateRoom(r.Context(), req.RoomName, req.HostName)
	if err != nil {
		return nil, err
	}
	return reply{"roomId": roomID, "userId": userID}, nil
}

func (a *api) listRooms(r *http.Request, _ httprouter.Params) (reply, error) {
	rooms, err := a.svc.ListRooms(r.Context())
	if err != nil {
		return nil, err
	}
	return reply{"rooms": rooms}, nil
}

func (a *api) snapshot(r *http.Request, p httprouter.Params) (reply, error) {
	state, err := a.svc.Snapshot(r.Context(), p.ByName("roomId"))
	if err != nil {
		return nil, err
	}
	return reply{"room": state}, nil
}

func (a *api) joinRoom(r *http.Request, p httprouter.Params) (reply, error) {
	var req joinRoomRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	userID, err := a.svc.JoinRoom(r.Context(), p.ByName("roomId"), req.UserName)
	if err != nil {
		return nil, err
	}
	return reply{"userId": userID}, nil
}

func (a *api) themeVote(r *http.Request, p httprouter.Params) (reply, error) {
	round, err := roundParam(p)
	if err != nil {
		return nil, err
	}

	var req themeVoteRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if req.ThemeIndex == nil {
		return nil, fmt.Errorf("%w: themeIndex is required", oogiri.ErrInvalidInput)
	}

	return nil, a.svc.SubmitThemeVote(r.Context(), p.ByName("roomId"), round, req.UserID, *req.ThemeIndex)
}

func (a *api) answer(r *http.Request, p httprouter.Params) (reply, error) {
	round, err := roundParam(p)
	if err != nil {
		return nil, err
	}

	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	return nil, a.svc.SubmitAnswer(r.Context(), p.ByName("roomId"), round, req.UserID, req.Answer, req.UsedWords)
}

func (a *api) vote(r *http.Request, p httprouter.Params) (reply, error) {
	round, err := roundParam(p)
	if err != nil {
		return nil, err
	}

	var req voteRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	return nil, a.svc.SubmitVote(r.Context(), p.ByName("roomId"), round, req.UserID, req.VoteForUserID)
}

func (a *api) getPlayer(r *http.Request, p httprouter.Params) (reply, error) {
	player, err := a.svc.GetPlayer(r.Context(), p.ByName("userId"))
	if err != nil {
		return nil, err
	}
	return reply{"user": playerView{ID: player.ID, Player: player}}, nil
}

func (a *api) resetPoints(r *http.Request, p httprouter.Params) (reply, error) {
	var req pointsRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if req.Points == nil {
		return nil, fmt.Errorf("%w: points is required", oogiri.ErrInvalidInput)
	}

	return nil, a.svc.ResetPoints(r.Context(), p.ByName("userId"), *req.Points)
}

func (a *api) setParticle(r *http.Request, p httprouter.Params) (reply, error) {
	var req particleRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	return nil, a.svc.SetParticle(r.Context(), p.ByName("userId"), req.UsedParticle)
}

func (a *api) changeHand(r *http.Request, p httprouter.Params) (reply, error) {
	var req changeHandRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	hand, err := a.svc.ChangeHand(r.Context(), p.ByName("userId"), req.ChangeType, req.CardIdx, req.KeepIdx)
	if err != nil {
		return nil, err
	}
	return reply{"hand": hand}, nil
}

func (a *api) particles(_ *http.Request, _ httprouter.Params) (reply, error) {
	return reply{"particles": a.svc.Particles()}, nil
}

func registerAPI(cfg *Config, mux *httprouter.Router, a *api) {
	base := cfg.prefix + "/api"
	rounds := base + "/rooms/:roomId/rounds/:round"

	mux.POST(base+"/rooms", a.handle("Create room", a.createRoom))
	mux.GET(base+"/rooms", a.handle("List rooms", a.listRooms))
	mux.GET(base+"/rooms/:roomId", a.handle("Room state", a.snapshot))
	mux.POST(base+"/rooms/:roomId/join", a.handle("Join room", a.joinRoom))
	mux.POST(base+"/rooms/:roomId/start", a.handle("Start room", a.roomAction(a.svc.Start)))
	mux.POST(base+"/rooms/:roomId/next", a.handle("Advance round", a.roomAction(a.svc.AdvanceRound)))
	mux.POST(base+"/rooms/:roomId/restart", a.handle("Restart room", a.roomAction(a.svc.Restart)))

	mux.POST(rounds+"/theme-vote", a.handle("Theme vote", a.themeVote))
	mux.POST(rounds+"/theme-reveal", a.handle("Reveal theme", a.roundAction(a.svc.RevealTheme)))
	mux.POST(rounds+"/answer-phase", a.handle("Answer phase", a.roundAction(a.svc.BeginAnswerPhase)))
	mux.POST(rounds+"/answer", a.handle("Submit answer", a.answer))
	mux.POST(rounds+"/answer-reveal-phase", a.handle("Answer reveal phase", a.roundAction(a.svc.BeginAnswerRevealPhase)))
	mux.POST(rounds+"/vote-phase", a.handle("Vote phase", a.roundAction(a.svc.BeginVotePhase)))
	mux.POST(rounds+"/vote", a.handle("Submit vote", a.vote))
	mux.POST(rounds+"/result-phase", a.handle("Result phase", a.roundAction(a.svc.ComputeResult)))

	mux.GET(base+"/users/:userId", a.handle("Get user", a.getPlayer))
	mux.POST(base+"/users/:userId", a.handle("Set points", a.resetPoints))
	mux.POST(base+"/users/:userId/particle", a.handle("Set particle", a.setParticle))
	mux.POST(base+"/users/:userId/hand", a.handle("Change hand", a.changeHand))

	mux.GET(base+"/particles", a.handle("Particles", a.particles))
}
