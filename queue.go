package server

import (
	"ringside/server/internal/net/proto"
)

// JoinQueue enqueues a session for matchmaking in the given mode. Joining
// while already queued is a no-op beyond a fresh position update; the queue
// is strictly first in, first out.
func (h *Hub) JoinQueue(id, mode string, deck []int) {
	if mode == "" {
		mode = ModeStandard
	}

	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	if state.matchID != "" {
		frames := h.errorFrameLocked(id, "in_match", "finish the current match first")
		h.mu.Unlock()
		h.deliver(frames)
		return
	}

	var frames []outbound
	if state.queueMode == "" {
		state.queueMode = mode
		state.deck = deck
		h.queues[mode] = append(h.queues[mode], id)
	} else if len(deck) > 0 {
		state.deck = deck
	}
	frames = append(frames, h.queueUpdateFramesLocked(state.queueMode)...)
	frames = append(frames, h.tryPairLocked(state.queueMode)...)
	h.mu.Unlock()

	h.deliver(frames)
}

// LeaveQueue removes the session from matchmaking.
func (h *Hub) LeaveQueue(id string) {
	h.mu.Lock()
	state, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	frames := h.leaveQueueLocked(state)
	h.mu.Unlock()

	h.deliver(frames)
}

func (h *Hub) leaveQueueLocked(state *session) []outbound {
	if state.queueMode == "" {
		return nil
	}
	mode := state.queueMode
	state.queueMode = ""

	ids := h.queues[mode]
	for i, queued := range ids {
		if queued == state.id {
			h.queues[mode] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(h.queues[mode]) == 0 {
		delete(h.queues, mode)
		return nil
	}
	return h.queueUpdateFramesLocked(mode)
}

// queueUpdateFramesLocked stages a position report for every waiting member.
func (h *Hub) queueUpdateFramesLocked(mode string) []outbound {
	ids := h.queues[mode]
	frames := make([]outbound, 0, len(ids))
	for i, id := range ids {
		payload := proto.MatchmakingUpdate{Mode: mode, Position: i + 1, QueueSize: len(ids)}
		if f, ok := h.frameLocked(id, proto.TypeMatchmakingUpdate, payload); ok {
			frames = append(frames, f)
		}
	}
	return frames
}

// tryPairLocked pops complete groups off the front of the queue and starts a
// match for each. Sessions that vanished while waiting are skipped.
func (h *Hub) tryPairLocked(mode string) []outbound {
	need := requiredPlayers(mode)
	var frames []outbound

	for {
		ids := h.queues[mode]
		live := make([]string, 0, len(ids))
		for _, id := range ids {
			if _, ok := h.sessions[id]; ok {
				live = append(live, id)
			}
		}
		h.queues[mode] = live
		if len(live) < need {
			break
		}

		picked := live[:need]
		h.queues[mode] = append([]string(nil), live[need:]...)
		for _, id := range picked {
			if state, ok := h.sessions[id]; ok {
				state.queueMode = ""
			}
		}
		if len(h.queues[mode]) == 0 {
			delete(h.queues, mode)
		}

		frames = append(frames, h.createMatchLocked(mode, "", h.cfg.TurnTimer, picked, true)...)
		frames = append(frames, h.queueUpdateFramesLocked(mode)...)
	}
	return frames
}
