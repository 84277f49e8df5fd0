package network

import (
	"context"

	"ringside/server/logging"
)

const (
	// EventConnected is emitted when a websocket client completes the handshake.
	EventConnected logging.EventType = "network.client_connected"
	// EventDisconnected is emitted when a client closes or times out.
	EventDisconnected logging.EventType = "network.client_disconnected"
	// EventRoomCreated is emitted when a private room is opened.
	EventRoomCreated logging.EventType = "network.room_created"
	// EventRoomClosed is emitted when a room empties or goes stale.
	EventRoomClosed logging.EventType = "network.room_closed"
	// EventDecodeFailed is emitted when an inbound frame cannot be decoded.
	EventDecodeFailed logging.EventType = "network.decode_failed"
)

func playerRef(id string) logging.EntityRef {
	return logging.EntityRef{ID: id, Kind: logging.EntityKindPlayer}
}

// Connected publishes a client arrival with the current online count.
func Connected(ctx context.Context, pub logging.Publisher, playerID, name string, online int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventConnected,
		Actor:    playerRef(playerID),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		Payload:  map[string]any{"name": name, "online": online},
	})
}

// Disconnected publishes a client departure and the teardown cause.
func Disconnected(ctx context.Context, pub logging.Publisher, playerID, cause string, online int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDisconnected,
		Actor:    playerRef(playerID),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		Payload:  map[string]any{"cause": cause, "online": online},
	})
}

// RoomCreated publishes a new room and its host.
func RoomCreated(ctx context.Context, pub logging.Publisher, roomID, hostID, mode string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRoomCreated,
		Actor:    playerRef(hostID),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		RoomID:   roomID,
		Payload:  map[string]any{"mode": mode},
	})
}

// RoomClosed publishes room teardown; cause is "emptied" or "stale".
func RoomClosed(ctx context.Context, pub logging.Publisher, roomID, cause string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRoomClosed,
		Actor:    logging.EntityRef{ID: roomID, Kind: logging.EntityKindRoom},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		RoomID:   roomID,
		Payload:  map[string]any{"cause": cause},
	})
}

// DecodeFailed publishes a malformed inbound frame. The raw payload is not
// logged; only its size and the parse error.
func DecodeFailed(ctx context.Context, pub logging.Publisher, playerID string, size int, err error) {
	if pub == nil {
		return
	}
	payload := map[string]any{"bytes": size}
	if err != nil {
		payload["error"] = err.Error()
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDecodeFailed,
		Actor:    playerRef(playerID),
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}
