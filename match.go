package server

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"ringside/server/internal/game"
	"ringside/server/internal/net/proto"
	logmatch "ringside/server/logging/match"
)

// match is the hub's view of one running battle. The hub never arbitrates:
// clients resolve their own rules and the hub relays their actions verbatim.
// For two-player matches it additionally keeps a passive engine mirror, which
// drives the turn countdown, serves snapshots on start and reconnect, and
// detects conclusion.
type match struct {
	id        string
	mode      string
	roomCode  string
	players   []string // seat order; players[0] is home, players[1] is away
	sides     map[string]game.Side
	engine    *game.Match
	timer     *game.TurnTimer
	turnTime  time.Duration
	concluded bool
	rematch   map[string]bool
}

func (m *match) playerFor(side game.Side) string {
	for id, s := range m.sides {
		if s == side {
			return id
		}
	}
	return ""
}

func (m *match) others(id string) []string {
	others := make([]string, 0, len(m.players)-1)
	for _, player := range m.players {
		if player != id {
			others = append(others, player)
		}
	}
	return others
}

// createMatchLocked builds a match for the given players and stages its
// opening messages: match_found for queue pairings, then game_started and a
// full state snapshot for every seat.
func (h *Hub) createMatchLocked(mode, roomCode string, turnTime time.Duration, ids []string, fromQueue bool) []outbound {
	if turnTime <= 0 {
		turnTime = h.cfg.TurnTimer
	}
	m := &match{
		id:       uuid.NewString(),
		mode:     mode,
		roomCode: roomCode,
		players:  append([]string(nil), ids...),
		sides:    make(map[string]game.Side, len(ids)),
		timer:    game.NewTurnTimer(),
		turnTime: turnTime,
		rematch:  make(map[string]bool),
	}

	if len(ids) == 2 {
		m.sides[ids[0]] = game.SideHome
		m.sides[ids[1]] = game.SideAway
		engine, err := game.NewMatch(h.cfg.Rules, h.deckLocked(ids[0]), h.deckLocked(ids[1]), h.rng.Int63())
		if err != nil {
			log.Printf("failed to build match for %v: %v", ids, err)
			frames := make([]outbound, 0, len(ids))
			for _, id := range ids {
				frames = append(frames, h.errorFrameLocked(id, "bad_deck", err.Error())...)
			}
			return frames
		}
		m.engine = engine
	}

	h.matches[m.id] = m
	roster := make([]proto.PlayerInfo, 0, len(ids))
	for _, id := range ids {
		roster = append(roster, h.playerInfoLocked(id))
		if state, ok := h.sessions[id]; ok {
			state.matchID = m.id
		}
	}

	frames := make([]outbound, 0, 3*len(ids))
	for _, id := range ids {
		side := m.sides[id]
		if fromQueue {
			found := proto.MatchFound{MatchID: m.id, Mode: mode, Side: side, Players: roster}
			for _, info := range roster {
				if info.ID != id {
					found.Opponent = info
					break
				}
			}
			if f, ok := h.frameLocked(id, proto.TypeMatchFound, found); ok {
				frames = append(frames, f)
			}
		}
		started := proto.GameStarted{MatchID: m.id, Side: side, Players: roster}
		if f, ok := h.frameLocked(id, proto.TypeGameStarted, started); ok {
			frames = append(frames, f)
		}
		if m.engine != nil {
			snap := proto.GameState{MatchID: m.id, Side: side, Snapshot: m.engine.Snapshot()}
			if f, ok := h.frameLocked(id, proto.TypeGameState, snap); ok {
				frames = append(frames, f)
			}
		}
	}

	h.armTurnTimerLocked(m)

	ctx := context.Background()
	if fromQueue {
		logmatch.Paired(ctx, h.pub, m.id, mode, m.players)
	}
	logmatch.Started(ctx, h.pub, m.id, roomCode, m.players)
	return frames
}

func (h *Hub) deckLocked(id string) []int {
	if state, ok := h.sessions[id]; ok {
		return state.deck
	}
	return nil
}

// armTurnTimerLocked restarts the countdown for the side whose turn it is.
// The acting side is captured here and re-checked when the countdown fires:
// a fire that lost the race against a legitimate end_turn must not end the
// opponent's fresh turn.
func (h *Hub) armTurnTimerLocked(m *match) {
	if m.engine == nil || m.concluded {
		return
	}
	matchID := m.id
	side := m.engine.Turn()
	m.timer.Arm(m.turnTime, func() {
		h.forceTurn(matchID, side)
	})
}

// forceTurn fires when a player runs out the clock: the mirror ends the turn
// for them and every seat is told about the forced pass.
func (h *Hub) forceTurn(matchID string, side game.Side) {
	h.mu.Lock()
	m, ok := h.matches[matchID]
	if !ok || m.engine == nil || m.concluded || m.engine.Turn() != side {
		h.mu.Unlock()
		return
	}

	playerID := m.playerFor(side)
	if ok, reason := m.engine.EndTurn(side); !ok {
		log.Printf("forced end turn failed for match %s: %s", matchID, reason)
		h.mu.Unlock()
		return
	}

	payload := proto.GameAction{Action: proto.ActionEndTurn, Side: side, Forced: true}
	frames := make([]outbound, 0, len(m.players))
	for _, id := range m.players {
		if f, ok := h.frameLocked(id, proto.TypeGameAction, payload); ok {
			frames = append(frames, f)
		}
	}
	h.armTurnTimerLocked(m)
	h.mu.Unlock()

	h.deliver(frames)
	logmatch.TurnForced(context.Background(), h.pub, matchID, playerID)
}

// RelayAction forwards a battle action to the other seats. The relay is
// blind: the frame goes out verbatim even when the mirror disagrees, but a
// mirror rejection is logged as state drift so divergence is visible.
func (h *Hub) RelayAction(id string, env proto.Envelope) {
	action, decodeErr := proto.DecodeData[proto.GameAction](env)

	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	m, found := h.matches[state.matchID]
	if !found {
		frames := h.errorFrameLocked(id, "not_in_match", "no active match")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}
	if m.concluded {
		frames := h.errorFrameLocked(id, "match_over", "the match has concluded")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}

	ctx := context.Background()
	if decodeErr == nil && m.engine != nil {
		h.mirrorActionLocked(ctx, m, id, action)
	}

	data, err := json.Marshal(proto.Envelope{Type: proto.TypeGameAction, Data: env.Data})
	if err != nil {
		h.mu.Unlock()
		return
	}
	frames := make([]outbound, 0, len(m.players))
	for _, other := range m.others(id) {
		if f, ok := h.rawFrameLocked(other, data); ok {
			frames = append(frames, f)
		}
	}
	h.mu.Unlock()

	h.deliver(frames)
}

// mirrorActionLocked applies a relayed action to the server-side engine
// copy.
func (h *Hub) mirrorActionLocked(ctx context.Context, m *match, id string, action proto.GameAction) {
	side, seated := m.sides[id]
	if !seated {
		return
	}

	var ok bool
	var reason game.RejectReason
	switch action.Action {
	case proto.ActionPlayCard:
		ok, reason = m.engine.PlayCard(side, action.CardID, action.Slot)
		if ok {
			logmatch.CardPlayed(ctx, h.pub, m.id, id, action.CardID, action.Slot)
		}
	case proto.ActionAttack:
		if action.Report != nil {
			ok, reason = m.engine.ReplayAttack(side, *action.Report)
			if ok {
				logmatch.AttackResolved(ctx, h.pub, m.id, id, len(action.Report.Exchanges))
			}
		} else {
			// No carried outcome: let the mirror roll its own targets. The
			// clients already agreed between themselves, so this only keeps
			// the countdown and conclusion tracking roughly honest.
			_, ok, reason = m.engine.Attack(side)
		}
	case proto.ActionEndTurn:
		ok, reason = m.engine.EndTurn(side)
		if ok {
			h.armTurnTimerLocked(m)
		}
	default:
		return
	}

	if !ok {
		logmatch.StateDrift(ctx, h.pub, m.id, id, action.Action, string(reason))
	}
	if m.engine.Status() == game.StatusConcluded {
		h.concludeMatchLocked(ctx, m, "victory")
	}
}

// concludeMatchLocked stops the countdown and records the result. The
// pairing survives so the players can trade rematch requests.
func (h *Hub) concludeMatchLocked(ctx context.Context, m *match, reason string) {
	if m.concluded {
		return
	}
	m.concluded = true
	m.timer.Cancel()

	winnerID := ""
	if m.engine != nil && m.engine.Status() == game.StatusConcluded {
		winnerID = m.playerFor(m.engine.Winner())
	}
	logmatch.Concluded(ctx, h.pub, m.id, winnerID, reason)
}

// RelayGameState forwards a client's full state snapshot to the other seats,
// used by clients to resynchronize after hiccups.
func (h *Hub) RelayGameState(id string, env proto.Envelope) {
	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	m, found := h.matches[state.matchID]
	if !found {
		h.mu.Unlock()
		return
	}
	data, err := json.Marshal(proto.Envelope{Type: proto.TypeGameState, Data: env.Data})
	if err != nil {
		h.mu.Unlock()
		return
	}
	frames := make([]outbound, 0, len(m.players))
	for _, other := range m.others(id) {
		if f, ok := h.rawFrameLocked(other, data); ok {
			frames = append(frames, f)
		}
	}
	h.mu.Unlock()

	h.deliver(frames)
}

// RelayChat forwards chat to the sender's match, falling back to their room
// when no match is live. The sender identity is stamped server side.
func (h *Hub) RelayChat(id, text string) {
	h.relaySocial(id, proto.TypeChatMessage, func(from proto.PlayerInfo) any {
		return proto.ChatMessage{From: from.Name, Text: text}
	})
}

// RelayEmote forwards a canned gesture the same way chat travels.
func (h *Hub) RelayEmote(id, emote string) {
	h.relaySocial(id, proto.TypeEmote, func(from proto.PlayerInfo) any {
		return proto.Emote{From: from.Name, Emote: emote}
	})
}

func (h *Hub) relaySocial(id, msgType string, build func(from proto.PlayerInfo) any) {
	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return
	}

	var recipients []string
	if m, found := h.matches[state.matchID]; found {
		recipients = m.others(id)
	} else if r, found := h.rooms[state.roomCode]; found {
		for _, member := range r.members {
			if member != id {
				recipients = append(recipients, member)
			}
		}
	}
	if len(recipients) == 0 {
		h.mu.Unlock()
		return
	}

	payload := build(h.playerInfoLocked(id))
	frames := make([]outbound, 0, len(recipients))
	for _, other := range recipients {
		if f, ok := h.frameLocked(other, msgType, payload); ok {
			frames = append(frames, f)
		}
	}
	h.mu.Unlock()

	h.deliver(frames)
}

// RequestRematch relays the wish to the other seats; once every player of a
// concluded match has asked, a fresh battle starts with the same seats.
func (h *Hub) RequestRematch(id string) {
	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	m, found := h.matches[state.matchID]
	if !found {
		frames := h.errorFrameLocked(id, "not_in_match", "no match to rematch")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}

	m.rematch[id] = true
	payload := proto.RematchRequest{From: h.playerInfoLocked(id)}
	frames := make([]outbound, 0, len(m.players))
	for _, other := range m.others(id) {
		if f, ok := h.frameLocked(other, proto.TypeRematchRequest, payload); ok {
			frames = append(frames, f)
		}
	}

	if m.concluded && len(m.rematch) == len(m.players) {
		delete(h.matches, m.id)
		for _, player := range m.players {
			if s, ok := h.sessions[player]; ok {
				s.matchID = ""
			}
		}
		frames = append(frames, h.createMatchLocked(m.mode, m.roomCode, m.turnTime, m.players, false)...)
	}
	h.mu.Unlock()

	h.deliver(frames)
}

// abandonMatchLocked removes the leaver's match entirely. The remaining
// seats get one opponent_disconnected each; a blind relay cannot continue a
// battle with a missing player.
func (h *Hub) abandonMatchLocked(state *session, cause string) []outbound {
	m, ok := h.matches[state.matchID]
	state.matchID = ""
	if !ok {
		return nil
	}

	delete(h.matches, m.id)
	m.timer.Cancel()

	payload := proto.OpponentDisconnected{
		MatchID: m.id,
		Player:  proto.PlayerInfo{ID: state.id, Name: state.name},
		Reason:  cause,
	}
	frames := make([]outbound, 0, len(m.players))
	for _, other := range m.others(state.id) {
		if s, found := h.sessions[other]; found {
			s.matchID = ""
		}
		if f, ok := h.frameLocked(other, proto.TypeOpponentDisconnected, payload); ok {
			frames = append(frames, f)
		}
	}

	if !m.concluded {
		m.concluded = true
		logmatch.Concluded(context.Background(), h.pub, m.id, "", "opponent_disconnected")
	}
	return frames
}

// SnapshotForReconnect returns the mirror's current state for a player whose
// client reconnected mid-match.
func (h *Hub) SnapshotForReconnect(id string) (proto.GameState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.sessions[id]
	if !ok {
		return proto.GameState{}, false
	}
	m, found := h.matches[state.matchID]
	if !found || m.engine == nil {
		return proto.GameState{}, false
	}
	return proto.GameState{MatchID: m.id, Side: m.sides[id], Snapshot: m.engine.Snapshot()}, true
}
