package server

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"ringside/server/internal/game"
	"ringside/server/internal/net/proto"
	"ringside/server/logging"
	lognet "ringside/server/logging/network"
)

// Config carries the hub tunables. Zero values fall back to the defaults in
// this package.
type Config struct {
	TurnTimer       time.Duration
	HeartbeatEvery  time.Duration
	DisconnectAfter time.Duration
	RoomStaleAfter  time.Duration
	Rules           game.Config
}

func (c Config) withDefaults() Config {
	if c.TurnTimer <= 0 {
		c.TurnTimer = defaultTurnTimer
	}
	if c.HeartbeatEvery <= 0 {
		c.HeartbeatEvery = heartbeatInterval
	}
	if c.DisconnectAfter <= 0 {
		c.DisconnectAfter = 3 * c.HeartbeatEvery
	}
	if c.RoomStaleAfter <= 0 {
		c.RoomStaleAfter = roomStaleAfter
	}
	return c
}

// Hub owns every live session, queue, room, and match. One mutex guards all
// of it; the maps are small and the critical sections short. Methods ending
// in Locked expect the mutex held.
type Hub struct {
	mu       sync.Mutex
	cfg      Config
	pub      logging.Publisher
	sessions map[string]*session
	queues   map[string][]string
	rooms    map[string]*room
	matches  map[string]*match
	rng      *rand.Rand
}

// NewHub creates an empty hub. A nil publisher disables structured logging.
func NewHub(cfg Config, pub logging.Publisher) *Hub {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Hub{
		cfg:      cfg.withDefaults(),
		pub:      pub,
		sessions: make(map[string]*session),
		queues:   make(map[string][]string),
		rooms:    make(map[string]*room),
		matches:  make(map[string]*match),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// outbound is a frame staged under the lock and delivered after release, so
// slow or dead sockets never stall the hub.
type outbound struct {
	id   string
	sub  *subscriber
	data []byte
}

func (h *Hub) frameLocked(id, msgType string, payload any) (outbound, bool) {
	state, ok := h.sessions[id]
	if !ok {
		return outbound{}, false
	}
	data, err := proto.Encode(msgType, payload)
	if err != nil {
		log.Printf("failed to encode %s for %s: %v", msgType, id, err)
		return outbound{}, false
	}
	return outbound{id: id, sub: state.sub, data: data}, true
}

// rawFrameLocked stages an already-encoded frame, used when relaying inbound
// payloads verbatim.
func (h *Hub) rawFrameLocked(id string, data []byte) (outbound, bool) {
	state, ok := h.sessions[id]
	if !ok {
		return outbound{}, false
	}
	return outbound{id: id, sub: state.sub, data: data}, true
}

func (h *Hub) deliver(frames []outbound) {
	for _, f := range frames {
		if err := f.sub.send(f.data); err != nil {
			log.Printf("failed to send to %s: %v", f.id, err)
			h.DisconnectConn(f.id, f.sub.conn, "write_failed")
		}
	}
}

// Connect registers a session for the given identity, replacing any previous
// connection with the same id, and announces the new online count.
func (h *Hub) Connect(id, name string, c conn) *session {
	sub := newSubscriber(c)

	h.mu.Lock()
	if existing, ok := h.sessions[id]; ok {
		existing.sub.close()
		existing.sub = sub
		existing.lastHeartbeat = time.Now()
		frames := h.broadcastOnlineCountLocked()
		state := existing
		online := len(h.sessions)
		h.mu.Unlock()

		h.deliver(frames)
		lognet.Connected(context.Background(), h.pub, id, name, online)
		return state
	}

	state := &session{
		id:            id,
		name:          name,
		sub:           sub,
		lastHeartbeat: time.Now(),
	}
	h.sessions[id] = state
	online := len(h.sessions)
	frames := h.broadcastOnlineCountLocked()
	h.mu.Unlock()

	h.deliver(frames)
	lognet.Connected(context.Background(), h.pub, id, name, online)
	return state
}

// Disconnect tears a session down with the default cause.
func (h *Hub) Disconnect(id string) {
	h.DisconnectWithCause(id, "closed")
}

// DisconnectWithCause removes the session and unwinds everything it was part
// of: queue slot, room membership, and any live match.
func (h *Hub) DisconnectWithCause(id, cause string) {
	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	h.disconnectLocked(state, cause)
}

// DisconnectConn is DisconnectWithCause guarded by connection identity: a
// replaced socket whose read loop dies must not tear down its successor.
func (h *Hub) DisconnectConn(id string, c conn, cause string) {
	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok || state.sub.conn != c {
		h.mu.Unlock()
		return
	}
	h.disconnectLocked(state, cause)
}

// disconnectLocked expects the mutex held and releases it.
func (h *Hub) disconnectLocked(state *session, cause string) {
	id := state.id
	frames := make([]outbound, 0, 4)
	frames = append(frames, h.leaveQueueLocked(state)...)
	frames = append(frames, h.leaveRoomLocked(state, "disconnected")...)
	frames = append(frames, h.abandonMatchLocked(state, cause)...)

	delete(h.sessions, id)
	state.sub.close()
	online := len(h.sessions)
	frames = append(frames, h.broadcastOnlineCountLocked()...)
	h.mu.Unlock()

	h.deliver(frames)
	lognet.Disconnected(context.Background(), h.pub, id, cause, online)
}

// UpdateHeartbeat records liveness plus a round-trip estimate when the client
// sent its clock.
func (h *Hub) UpdateHeartbeat(id string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.sessions[id]
	if !ok {
		return 0, false
	}
	state.lastHeartbeat = receivedAt

	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt := receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			state.lastRTT = rtt
		}
	}
	return state.lastRTT, true
}

// RunSweeper drives the periodic heartbeat and stale-room sweep until the
// stop channel closes.
func (h *Hub) RunSweeper(stop <-chan struct{}) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			h.sweep(now)
		}
	}
}

func (h *Hub) sweep(now time.Time) {
	h.mu.Lock()
	timedOut := make([]string, 0)
	for id, state := range h.sessions {
		if now.Sub(state.lastHeartbeat) > h.cfg.DisconnectAfter {
			timedOut = append(timedOut, id)
		}
	}
	stale := make([]string, 0)
	for code, r := range h.rooms {
		if now.Sub(r.lastActive) > h.cfg.RoomStaleAfter {
			stale = append(stale, code)
		}
	}
	h.mu.Unlock()

	for _, id := range timedOut {
		log.Printf("disconnecting %s due to heartbeat timeout", id)
		h.DisconnectWithCause(id, "timeout")
	}
	for _, code := range stale {
		h.closeStaleRoom(code)
	}
}

func (h *Hub) broadcastOnlineCountLocked() []outbound {
	frames := make([]outbound, 0, len(h.sessions))
	payload := proto.OnlineCount{Online: len(h.sessions)}
	for id := range h.sessions {
		if f, ok := h.frameLocked(id, proto.TypeOnlineCount, payload); ok {
			frames = append(frames, f)
		}
	}
	return frames
}

// errorFrameLocked stages a refusal back to the offending sender.
func (h *Hub) errorFrameLocked(id, reason, message string) []outbound {
	if f, ok := h.frameLocked(id, proto.TypeError, proto.ErrorMessage{Reason: reason, Message: message}); ok {
		return []outbound{f}
	}
	return nil
}

func (h *Hub) playerInfoLocked(id string) proto.PlayerInfo {
	if state, ok := h.sessions[id]; ok {
		return proto.PlayerInfo{ID: state.id, Name: state.name}
	}
	return proto.PlayerInfo{ID: id}
}

// SendTo writes one frame to a single session.
func (h *Hub) SendTo(id, msgType string, payload any) {
	h.mu.Lock()
	f, ok := h.frameLocked(id, msgType, payload)
	h.mu.Unlock()
	if ok {
		h.deliver([]outbound{f})
	}
}

// Stats is the snapshot served by the diagnostics endpoint.
type Stats struct {
	Online     int            `json:"onlinePlayers"`
	Rooms      int            `json:"activeRooms"`
	Matches    int            `json:"activeMatches"`
	QueueSizes map[string]int `json:"queueSizes"`
}

// StatsSnapshot copies the current population counters.
func (h *Hub) StatsSnapshot() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	queues := make(map[string]int, len(h.queues))
	for mode, ids := range h.queues {
		if len(ids) > 0 {
			queues[mode] = len(ids)
		}
	}
	active := 0
	for _, m := range h.matches {
		if !m.concluded {
			active++
		}
	}
	return Stats{
		Online:     len(h.sessions),
		Rooms:      len(h.rooms),
		Matches:    active,
		QueueSizes: queues,
	}
}

// OnlineCount reports the connected session count.
func (h *Hub) OnlineCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
