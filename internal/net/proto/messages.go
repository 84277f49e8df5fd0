package proto

import (
	"encoding/json"
	"fmt"

	"ringside/server/internal/game"
)

// Envelope is the single frame shape on the wire: a type tag plus an
// untouched data object. Relayed frames keep their data verbatim so the
// server never has to understand every payload it forwards.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client message type identifiers.
const (
	TypeJoinQueue      = "join_queue"
	TypeLeaveQueue     = "leave_queue"
	TypeCreateRoom     = "create_room"
	TypeJoinRoom       = "join_room"
	TypeLeaveRoom      = "leave_room"
	TypeStartGame      = "start_game"
	TypeGameAction     = "game_action"
	TypeGameState      = "game_state"
	TypeChatMessage    = "chat_message"
	TypeEmote          = "emote"
	TypeRematchRequest = "rematch_request"
	TypePing           = "ping"
	TypeHeartbeat      = "heartbeat"
)

// Server message type identifiers.
const (
	TypeMatchFound           = "match_found"
	TypeMatchmakingUpdate    = "matchmaking_update"
	TypeRoomCreated          = "room_created"
	TypeRoomUpdated          = "room_updated"
	TypePlayerJoined         = "player_joined"
	TypePlayerLeft           = "player_left"
	TypeGameStarted          = "game_started"
	TypeOnlineCount          = "online_count"
	TypeOpponentDisconnected = "opponent_disconnected"
	TypePong                 = "pong"
	TypeError                = "error"
)

// Decode parses a raw websocket frame into an envelope. Frames without a
// type are rejected; unknown types are the caller's problem.
func Decode(payload []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return env, err
	}
	if env.Type == "" {
		return env, fmt.Errorf("frame missing type")
	}
	return env, nil
}

// Encode renders a frame from a type tag and payload struct. A nil payload
// produces a bare envelope.
func Encode(msgType string, payload any) ([]byte, error) {
	env := Envelope{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// MustEncode is Encode for payloads built from static struct literals, where
// a marshal failure is a programming error.
func MustEncode(msgType string, payload any) []byte {
	data, err := Encode(msgType, payload)
	if err != nil {
		panic(fmt.Sprintf("proto: encode %s: %v", msgType, err))
	}
	return data
}

// JoinQueue asks to be paired for the given mode. Deck lists card ids; an
// empty deck is padded server side.
type JoinQueue struct {
	Mode string `json:"mode,omitempty"`
	Deck []int  `json:"deck,omitempty"`
}

// CreateRoom opens a private room. A non-empty password gates joining;
// MaxPlayers is the join capacity (distinct from the mode's start minimum)
// and TurnTimeLimit overrides the turn countdown, in seconds.
type CreateRoom struct {
	Mode          string `json:"mode,omitempty"`
	Name          string `json:"name,omitempty"`
	Password      string `json:"password,omitempty"`
	MaxPlayers    int    `json:"maxPlayers,omitempty"`
	TurnTimeLimit int    `json:"turnTimeLimit,omitempty"`
}

// JoinRoom enters an existing room by its code.
type JoinRoom struct {
	Code     string `json:"code"`
	Password string `json:"password,omitempty"`
	Deck     []int  `json:"deck,omitempty"`
}

// GameAction is one relayed battle action. Action names the engine
// operation; the remaining fields are meaningful per action and forwarded
// verbatim to the opponent.
type GameAction struct {
	Action string             `json:"action"`
	CardID int                `json:"cardId,omitempty"`
	Slot   int                `json:"slot,omitempty"`
	Report *game.AttackReport `json:"report,omitempty"`
	Side   game.Side          `json:"side,omitempty"`
	Forced bool               `json:"forced,omitempty"`
}

// Engine operations carried by GameAction.Action.
const (
	ActionPlayCard = "play_card"
	ActionAttack   = "attack"
	ActionEndTurn  = "end_turn"
)

// ChatMessage carries free-form room chat.
type ChatMessage struct {
	From string `json:"from,omitempty"`
	Text string `json:"text"`
}

// Emote carries a canned gesture id.
type Emote struct {
	From  string `json:"from,omitempty"`
	Emote string `json:"emote"`
}

// Ping carries the client's send time for RTT measurement.
type Ping struct {
	SentAt int64 `json:"sentAt,omitempty"`
}

// Pong echoes the ping timestamp plus the server clock.
type Pong struct {
	SentAt     int64 `json:"sentAt,omitempty"`
	ServerTime int64 `json:"serverTime"`
}

// Heartbeat carries the client clock for liveness tracking.
type Heartbeat struct {
	SentAt int64 `json:"sentAt,omitempty"`
}

// HeartbeatAck echoes timing back so clients can estimate round trips.
type HeartbeatAck struct {
	ServerTime int64 `json:"serverTime"`
	ClientTime int64 `json:"clientTime,omitempty"`
	RTTMillis  int64 `json:"rtt,omitempty"`
}

// PlayerInfo is the public identity sent in lobby and match payloads.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MatchFound tells both queued players they were paired. Side is the
// recipient's seat in the new match.
type MatchFound struct {
	MatchID  string       `json:"matchId"`
	Mode     string       `json:"mode"`
	Side     game.Side    `json:"side"`
	Opponent PlayerInfo   `json:"opponent"`
	Players  []PlayerInfo `json:"players"`
}

// MatchmakingUpdate reports queue position while waiting.
type MatchmakingUpdate struct {
	Mode      string `json:"mode"`
	Position  int    `json:"position"`
	QueueSize int    `json:"queueSize"`
}

// RoomCreated confirms a new room to its host.
type RoomCreated struct {
	Code          string     `json:"code"`
	Mode          string     `json:"mode"`
	Name          string     `json:"name,omitempty"`
	MaxPlayers    int        `json:"maxPlayers"`
	TurnTimeLimit int        `json:"turnTimeLimit,omitempty"`
	Host          PlayerInfo `json:"host"`
}

// RoomUpdated is the full member list after any membership change.
type RoomUpdated struct {
	Code       string       `json:"code"`
	Mode       string       `json:"mode"`
	Name       string       `json:"name,omitempty"`
	MaxPlayers int          `json:"maxPlayers"`
	HostID     string       `json:"hostId"`
	Members    []PlayerInfo `json:"members"`
}

// PlayerJoined and PlayerLeft announce membership deltas to the remaining
// room members.
type PlayerJoined struct {
	Code   string     `json:"code"`
	Player PlayerInfo `json:"player"`
}

type PlayerLeft struct {
	Code   string     `json:"code"`
	Player PlayerInfo `json:"player"`
	HostID string     `json:"hostId,omitempty"`
}

// GameStarted announces the battle beginning, with each recipient's seat.
type GameStarted struct {
	MatchID string       `json:"matchId"`
	Side    game.Side    `json:"side"`
	Players []PlayerInfo `json:"players"`
}

// GameState wraps a full engine snapshot, sent at start and on reconnect.
type GameState struct {
	MatchID  string        `json:"matchId"`
	Side     game.Side     `json:"side,omitempty"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// OnlineCount is broadcast to everyone whenever the population changes.
type OnlineCount struct {
	Online int `json:"online"`
}

// OpponentDisconnected ends a match from the survivor's point of view.
// Reason carries the teardown cause, e.g. "timeout" or "closed".
type OpponentDisconnected struct {
	MatchID string     `json:"matchId"`
	Player  PlayerInfo `json:"player"`
	Reason  string     `json:"reason"`
}

// RematchRequest is relayed between the players of a concluded match.
type RematchRequest struct {
	From PlayerInfo `json:"from"`
}

// ErrorMessage reports a refused request back to its sender.
type ErrorMessage struct {
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

// DecodeData parses an envelope's payload into the typed struct for its
// message type.
func DecodeData[T any](env Envelope) (T, error) {
	var out T
	if len(env.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode %s data: %w", env.Type, err)
	}
	return out, nil
}
