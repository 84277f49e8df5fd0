package server

import (
	"context"
	"time"

	"ringside/server/internal/net/proto"
	lognet "ringside/server/logging/network"
)

// room is a private lobby addressed by a short shareable code. Members are
// kept in join order; the first remaining member inherits the host seat when
// the host leaves.
type room struct {
	code       string
	mode       string
	name       string
	password   string // "" means open
	maxPlayers int    // join capacity; the mode minimum still gates starting
	turnTime   time.Duration
	hostID     string
	members    []string
	lastActive time.Time
}

func (r *room) memberIndex(id string) int {
	for i, member := range r.members {
		if member == id {
			return i
		}
	}
	return -1
}

// newRoomCodeLocked draws codes until one is unused. The space is 32^6, so
// collisions are rare even with many rooms open.
func (h *Hub) newRoomCodeLocked() string {
	for {
		buf := make([]byte, roomCodeLength)
		for i := range buf {
			buf[i] = roomCodeChars[h.rng.Intn(len(roomCodeChars))]
		}
		code := string(buf)
		if _, taken := h.rooms[code]; !taken {
			return code
		}
	}
}

// CreateRoom opens a room hosted by the session and returns its code to the
// host. Capacity defaults to the mode's seat minimum and is clamped so the
// room can always fill enough seats to start.
func (h *Hub) CreateRoom(id string, req proto.CreateRoom) {
	mode := req.Mode
	if mode == "" {
		mode = ModeStandard
	}
	capacity := req.MaxPlayers
	if capacity < requiredPlayers(mode) {
		capacity = requiredPlayers(mode)
	}
	if capacity > partyPlayers {
		capacity = partyPlayers
	}
	turnTime := h.cfg.TurnTimer
	if req.TurnTimeLimit > 0 {
		turnTime = time.Duration(req.TurnTimeLimit) * time.Second
	}

	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	if state.roomCode != "" || state.matchID != "" {
		frames := h.errorFrameLocked(id, "busy", "leave the current room or match first")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}

	frames := h.leaveQueueLocked(state)

	r := &room{
		code:       h.newRoomCodeLocked(),
		mode:       mode,
		name:       req.Name,
		password:   req.Password,
		maxPlayers: capacity,
		turnTime:   turnTime,
		hostID:     id,
		members:    []string{id},
		lastActive: time.Now(),
	}
	h.rooms[r.code] = r
	state.roomCode = r.code

	payload := proto.RoomCreated{
		Code:          r.code,
		Mode:          r.mode,
		Name:          r.name,
		MaxPlayers:    r.maxPlayers,
		TurnTimeLimit: int(r.turnTime / time.Second),
		Host:          h.playerInfoLocked(id),
	}
	if f, ok := h.frameLocked(id, proto.TypeRoomCreated, payload); ok {
		frames = append(frames, f)
	}
	h.mu.Unlock()

	h.deliver(frames)
	lognet.RoomCreated(context.Background(), h.pub, r.code, id, mode)
}

// JoinRoom adds the session to an existing room by code. The joiner gets the
// full roster; everyone else gets the membership delta.
func (h *Hub) JoinRoom(id, code, password string, deck []int) {
	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	r, found := h.rooms[code]
	if !found {
		frames := h.errorFrameLocked(id, "room_not_found", "no room with that code")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}
	if state.roomCode == code {
		frames := h.roomRosterFramesLocked(r, []string{id})
		h.mu.Unlock()
		h.deliver(frames)
		return
	}
	if state.roomCode != "" || state.matchID != "" {
		frames := h.errorFrameLocked(id, "busy", "leave the current room or match first")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}
	if r.password != "" && r.password != password {
		frames := h.errorFrameLocked(id, "bad_password", "wrong room password")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}
	if len(r.members) >= r.maxPlayers {
		frames := h.errorFrameLocked(id, "room_full", "room is full")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}

	frames := h.leaveQueueLocked(state)

	r.members = append(r.members, id)
	r.lastActive = time.Now()
	state.roomCode = code
	if len(deck) > 0 {
		state.deck = deck
	}

	joined := proto.PlayerJoined{Code: code, Player: h.playerInfoLocked(id)}
	for _, member := range r.members {
		if member == id {
			continue
		}
		if f, ok := h.frameLocked(member, proto.TypePlayerJoined, joined); ok {
			frames = append(frames, f)
		}
	}
	frames = append(frames, h.roomRosterFramesLocked(r, r.members)...)
	h.mu.Unlock()

	h.deliver(frames)
}

// LeaveRoom removes the session from its room, if any.
func (h *Hub) LeaveRoom(id string) {
	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	frames := h.leaveRoomLocked(state, "left")
	h.mu.Unlock()

	h.deliver(frames)
}

// leaveRoomLocked unwinds room membership: the roster shrinks, the host seat
// moves to the oldest remaining member, and an emptied room is deleted.
func (h *Hub) leaveRoomLocked(state *session, cause string) []outbound {
	if state.roomCode == "" {
		return nil
	}
	r, ok := h.rooms[state.roomCode]
	state.roomCode = ""
	if !ok {
		return nil
	}

	if i := r.memberIndex(state.id); i >= 0 {
		r.members = append(r.members[:i], r.members[i+1:]...)
	}
	r.lastActive = time.Now()

	if len(r.members) == 0 {
		delete(h.rooms, r.code)
		lognet.RoomClosed(context.Background(), h.pub, r.code, "emptied")
		return nil
	}

	if r.hostID == state.id {
		r.hostID = r.members[0]
	}

	left := proto.PlayerLeft{
		Code:   r.code,
		Player: proto.PlayerInfo{ID: state.id, Name: state.name},
		HostID: r.hostID,
	}
	frames := make([]outbound, 0, 2*len(r.members))
	for _, member := range r.members {
		if f, ok := h.frameLocked(member, proto.TypePlayerLeft, left); ok {
			frames = append(frames, f)
		}
	}
	frames = append(frames, h.roomRosterFramesLocked(r, r.members)...)
	return frames
}

// roomRosterFramesLocked stages the full member list for the given
// recipients.
func (h *Hub) roomRosterFramesLocked(r *room, recipients []string) []outbound {
	roster := make([]proto.PlayerInfo, 0, len(r.members))
	for _, member := range r.members {
		roster = append(roster, h.playerInfoLocked(member))
	}
	payload := proto.RoomUpdated{
		Code:       r.code,
		Mode:       r.mode,
		Name:       r.name,
		MaxPlayers: r.maxPlayers,
		HostID:     r.hostID,
		Members:    roster,
	}

	frames := make([]outbound, 0, len(recipients))
	for _, id := range recipients {
		if f, ok := h.frameLocked(id, proto.TypeRoomUpdated, payload); ok {
			frames = append(frames, f)
		}
	}
	return frames
}

// StartGame launches the room's match. Only the host may start, and only
// once the mode's seat count is filled.
func (h *Hub) StartGame(id string) {
	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	r, found := h.rooms[state.roomCode]
	if !found {
		frames := h.errorFrameLocked(id, "not_in_room", "join a room first")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}
	if r.hostID != id {
		frames := h.errorFrameLocked(id, "not_host", "only the host can start the game")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}
	if len(r.members) < requiredPlayers(r.mode) {
		frames := h.errorFrameLocked(id, "not_enough_players", "waiting for more players")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}

	r.lastActive = time.Now()
	players := append([]string(nil), r.members...)
	frames := h.createMatchLocked(r.mode, r.code, r.turnTime, players, false)
	h.mu.Unlock()

	h.deliver(frames)
}

// closeStaleRoom tears down a room nobody has touched within the stale
// window.
func (h *Hub) closeStaleRoom(code string) {
	h.mu.Lock()
	r, ok := h.rooms[code]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.rooms, code)
	for _, member := range r.members {
		if state, found := h.sessions[member]; found && state.roomCode == code {
			state.roomCode = ""
		}
	}
	frames := make([]outbound, 0, len(r.members))
	left := proto.ErrorMessage{Reason: "room_expired", Message: "room closed due to inactivity"}
	for _, member := range r.members {
		if f, ok := h.frameLocked(member, proto.TypeError, left); ok {
			frames = append(frames, f)
		}
	}
	h.mu.Unlock()

	h.deliver(frames)
	lognet.RoomClosed(context.Background(), h.pub, code, "stale")
}
