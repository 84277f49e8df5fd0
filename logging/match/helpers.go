package match

import (
	"context"

	"ringside/server/logging"
)

const (
	EventPaired       logging.EventType = "match.paired"
	EventStarted      logging.EventType = "match.started"
	EventCardPlayed   logging.EventType = "match.card_played"
	EventAttack       logging.EventType = "match.attack_resolved"
	EventTurnForced   logging.EventType = "match.turn_forced"
	EventConcluded    logging.EventType = "match.concluded"
	EventStateDrift   logging.EventType = "match.state_drift"
	EventActionPassed logging.EventType = "match.action_relayed"
)

func playerRef(id string) logging.EntityRef {
	return logging.EntityRef{ID: id, Kind: logging.EntityKindPlayer}
}

// Paired records a queue pairing producing a new match.
func Paired(ctx context.Context, pub logging.Publisher, matchID, mode string, players []string) {
	if pub == nil {
		return
	}
	targets := make([]logging.EntityRef, 0, len(players))
	for _, id := range players {
		targets = append(targets, playerRef(id))
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPaired,
		Actor:    logging.EntityRef{ID: matchID, Kind: logging.EntityKindMatch},
		Targets:  targets,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		MatchID:  matchID,
		Payload:  map[string]any{"mode": mode},
	})
}

// Started records a battle leaving the lobby and entering play.
func Started(ctx context.Context, pub logging.Publisher, matchID, roomID string, players []string) {
	if pub == nil {
		return
	}
	targets := make([]logging.EntityRef, 0, len(players))
	for _, id := range players {
		targets = append(targets, playerRef(id))
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStarted,
		Actor:    logging.EntityRef{ID: matchID, Kind: logging.EntityKindMatch},
		Targets:  targets,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		MatchID:  matchID,
		RoomID:   roomID,
	})
}

// CardPlayedPayload describes the play mirrored by the relay.
type CardPlayedPayload struct {
	CardID int `json:"cardId"`
	Slot   int `json:"slot"`
}

// CardPlayed records a relayed play action.
func CardPlayed(ctx context.Context, pub logging.Publisher, matchID, playerID string, cardID, slot int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCardPlayed,
		Actor:    playerRef(playerID),
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		MatchID:  matchID,
		Payload:  CardPlayedPayload{CardID: cardID, Slot: slot},
	})
}

// AttackResolved records a relayed attack and its exchange count.
func AttackResolved(ctx context.Context, pub logging.Publisher, matchID, playerID string, exchanges int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAttack,
		Actor:    playerRef(playerID),
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		MatchID:  matchID,
		Payload:  map[string]any{"exchanges": exchanges},
	})
}

// TurnForced records a turn ended by the countdown instead of the player.
func TurnForced(ctx context.Context, pub logging.Publisher, matchID, playerID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTurnForced,
		Actor:    playerRef(playerID),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		MatchID:  matchID,
	})
}

// Concluded records the end of a battle. winnerID may be empty when the match
// ends by disconnect rather than by rule.
func Concluded(ctx context.Context, pub logging.Publisher, matchID, winnerID, reason string) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventConcluded,
		Actor:    logging.EntityRef{ID: matchID, Kind: logging.EntityKindMatch},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		MatchID:  matchID,
		Payload:  map[string]any{"reason": reason},
	}
	if winnerID != "" {
		event.Targets = []logging.EntityRef{playerRef(winnerID)}
	}
	pub.Publish(ctx, event)
}

// StateDrift warns that the server-side mirror rejected an action the client
// relayed, meaning the two instances no longer agree.
func StateDrift(ctx context.Context, pub logging.Publisher, matchID, playerID, action, reason string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStateDrift,
		Actor:    playerRef(playerID),
		Severity: logging.SeverityWarn,
		Category: logging.CategoryCombat,
		MatchID:  matchID,
		Payload:  map[string]any{"action": action, "reason": reason},
	})
}
