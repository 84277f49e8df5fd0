package ws

import (
	"context"
	"log"
	nethttp "net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ringside/server"
	"ringside/server/internal/net/proto"
	"ringside/server/logging"
	lognet "ringside/server/logging/network"
)

// Handler upgrades websocket requests and runs the per-connection read loop.
// Clients are guests: identity is minted at connect time unless the client
// presents the id from a previous session, which lets it rejoin a live match.
type Handler struct {
	hub      *server.Hub
	logger   *log.Logger
	pub      logging.Publisher
	upgrader websocket.Upgrader
}

func NewHandler(hub *server.Hub, logger *log.Logger, pub logging.Publisher) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	if pub == nil {
		pub = logging.NopPublisher()
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}
	return &Handler{hub: hub, logger: logger, pub: pub, upgrader: upgrader}
}

// Handle is the HTTP entry point for the websocket endpoint.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		id = uuid.NewString()
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		short := id
		if len(short) > 8 {
			short = short[:8]
		}
		name = "Guest-" + short
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", id, err)
		return
	}

	h.Serve(id, name, conn)
}

// Serve registers the session and pumps inbound frames until the socket
// dies. All outbound traffic flows through the hub.
func (h *Handler) Serve(id, name string, conn *websocket.Conn) {
	if h == nil || h.hub == nil || conn == nil {
		return
	}

	h.hub.Connect(id, name, conn)

	// A client that reconnected mid-match gets the mirror's snapshot so it
	// can rebuild its board.
	if snap, ok := h.hub.SnapshotForReconnect(id); ok {
		h.hub.SendTo(id, proto.TypeGameState, snap)
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.hub.DisconnectConn(id, conn, "read_error")
			return
		}

		env, err := proto.Decode(payload)
		if err != nil {
			lognet.DecodeFailed(context.Background(), h.pub, id, len(payload), err)
			h.hub.SendTo(id, proto.TypeError, proto.ErrorMessage{Reason: "bad_frame", Message: "could not parse message"})
			continue
		}

		h.dispatch(id, env)
	}
}

func (h *Handler) dispatch(id string, env proto.Envelope) {
	switch env.Type {
	case proto.TypeJoinQueue:
		req, err := proto.DecodeData[proto.JoinQueue](env)
		if err != nil {
			h.hub.SendTo(id, proto.TypeError, proto.ErrorMessage{Reason: "bad_payload", Message: err.Error()})
			return
		}
		h.hub.JoinQueue(id, req.Mode, req.Deck)

	case proto.TypeLeaveQueue:
		h.hub.LeaveQueue(id)

	case proto.TypeCreateRoom:
		req, err := proto.DecodeData[proto.CreateRoom](env)
		if err != nil {
			h.hub.SendTo(id, proto.TypeError, proto.ErrorMessage{Reason: "bad_payload", Message: err.Error()})
			return
		}
		h.hub.CreateRoom(id, req)

	case proto.TypeJoinRoom:
		req, err := proto.DecodeData[proto.JoinRoom](env)
		if err != nil || req.Code == "" {
			h.hub.SendTo(id, proto.TypeError, proto.ErrorMessage{Reason: "bad_payload", Message: "room code required"})
			return
		}
		h.hub.JoinRoom(id, req.Code, req.Password, req.Deck)

	case proto.TypeLeaveRoom:
		h.hub.LeaveRoom(id)

	case proto.TypeStartGame:
		h.hub.StartGame(id)

	case proto.TypeGameAction:
		h.hub.RelayAction(id, env)

	case proto.TypeGameState:
		h.hub.RelayGameState(id, env)

	case proto.TypeChatMessage:
		req, err := proto.DecodeData[proto.ChatMessage](env)
		if err != nil || req.Text == "" {
			h.hub.SendTo(id, proto.TypeError, proto.ErrorMessage{Reason: "bad_payload", Message: "chat text required"})
			return
		}
		h.hub.RelayChat(id, req.Text)

	case proto.TypeEmote:
		req, err := proto.DecodeData[proto.Emote](env)
		if err != nil || req.Emote == "" {
			h.hub.SendTo(id, proto.TypeError, proto.ErrorMessage{Reason: "bad_payload", Message: "emote id required"})
			return
		}
		h.hub.RelayEmote(id, req.Emote)

	case proto.TypeRematchRequest:
		h.hub.RequestRematch(id)

	case proto.TypePing:
		req, _ := proto.DecodeData[proto.Ping](env)
		h.hub.SendTo(id, proto.TypePong, proto.Pong{SentAt: req.SentAt, ServerTime: time.Now().UnixMilli()})

	case proto.TypeHeartbeat:
		req, _ := proto.DecodeData[proto.Heartbeat](env)
		now := time.Now()
		rtt, ok := h.hub.UpdateHeartbeat(id, now, req.SentAt)
		if !ok {
			return
		}
		h.hub.SendTo(id, proto.TypeHeartbeat, proto.HeartbeatAck{
			ServerTime: now.UnixMilli(),
			ClientTime: req.SentAt,
			RTTMillis:  rtt.Milliseconds(),
		})

	default:
		h.logger.Printf("unknown message type %q from %s", env.Type, id)
		h.hub.SendTo(id, proto.TypeError, proto.ErrorMessage{Reason: "unknown_type", Message: env.Type})
	}
}
