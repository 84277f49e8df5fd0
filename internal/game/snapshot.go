package game

// Snapshot is a full, JSON-ready copy of a match, sent at match start and
// after a reconnect to bound drift between the two mirrored instances.
type Snapshot struct {
	Status Status         `json:"status"`
	Winner Side           `json:"winner,omitempty"`
	Turn   Side           `json:"turn"`
	Phase  Phase          `json:"phase"`
	Round  int            `json:"round"`
	Home   PlayerSnapshot `json:"home"`
	Away   PlayerSnapshot `json:"away"`
	Log    []LogEntry     `json:"combatLog"`
}

// PlayerSnapshot copies one side's zones. Field slots keep their positions;
// empty slots are null.
type PlayerSnapshot struct {
	Health    int             `json:"health"`
	MaxHealth int             `json:"maxHealth"`
	Energy    int             `json:"energy"`
	MaxEnergy int             `json:"maxEnergy"`
	Deck      []CardInstance  `json:"deck"`
	Hand      []CardInstance  `json:"hand"`
	Field     []*CardInstance `json:"field"`
	Graveyard []CardInstance  `json:"graveyard"`
	Effects   []TimedEffect   `json:"effects"`
}

// Snapshot renders the current state. The copy shares nothing with the live
// match, so callers may hold it across further mutations.
func (m *Match) Snapshot() Snapshot {
	return Snapshot{
		Status: m.status,
		Winner: m.winner,
		Turn:   m.turn,
		Phase:  m.phase,
		Round:  m.round,
		Home:   snapshotPlayer(m.home),
		Away:   snapshotPlayer(m.away),
		Log:    append([]LogEntry(nil), m.log...),
	}
}

func snapshotPlayer(p *PlayerState) PlayerSnapshot {
	snap := PlayerSnapshot{
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Energy:    p.Energy,
		MaxEnergy: p.MaxEnergy,
		Deck:      copyZone(p.Deck),
		Hand:      copyZone(p.Hand),
		Field:     make([]*CardInstance, FieldSlots),
		Graveyard: copyZone(p.Graveyard),
		Effects:   append([]TimedEffect(nil), p.Effects...),
	}
	for i, card := range p.Field {
		if card != nil {
			copied := *card
			snap.Field[i] = &copied
		}
	}
	return snap
}

func copyZone(zone []*CardInstance) []CardInstance {
	copied := make([]CardInstance, 0, len(zone))
	for _, card := range zone {
		copied = append(copied, *card)
	}
	return copied
}
