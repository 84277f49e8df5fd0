package game

import (
	"fmt"
	"math/rand"
)

// Side identifies one of the two participants in a match.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

func (s Side) valid() bool {
	return s == SideHome || s == SideAway
}

// Phase tracks progress through the acting side's turn.
type Phase string

const (
	PhaseDraw   Phase = "draw"
	PhaseMain   Phase = "main"
	PhaseCombat Phase = "combat"
	PhaseEnd    Phase = "end"
)

// Status is the overall match lifecycle state.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusConcluded  Status = "concluded"
)

// RejectReason explains why an action left the match untouched. Rule
// violations are reported this way and never as Go errors.
type RejectReason string

const (
	RejectNone               RejectReason = ""
	RejectMatchOver          RejectReason = "match_over"
	RejectNotYourTurn        RejectReason = "not_your_turn"
	RejectWrongPhase         RejectReason = "wrong_phase"
	RejectDeckEmpty          RejectReason = "deck_empty"
	RejectHandFull           RejectReason = "hand_full"
	RejectCardNotInHand      RejectReason = "card_not_in_hand"
	RejectInsufficientEnergy RejectReason = "insufficient_energy"
	RejectSlotOccupied       RejectReason = "slot_occupied"
	RejectBadSlot            RejectReason = "bad_slot"
	RejectNoAttackers        RejectReason = "no_attackers"
	RejectUnknownSide        RejectReason = "unknown_side"
)

// FieldSlots is the fixed number of battlefield positions per side.
const FieldSlots = 3

// CardInstance is a catalog card drawn into a match. The combat stats are
// copied from the definition and mutate independently afterwards; the
// instance is owned by exactly one zone at a time.
type CardInstance struct {
	Def     *CardDef `json:"-"`
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Attack  int      `json:"attack"`
	Defense int      `json:"defense"`
	Health  int      `json:"health"`
}

func newInstance(def *CardDef) *CardInstance {
	return &CardInstance{
		Def:     def,
		ID:      def.ID,
		Name:    def.Name,
		Attack:  def.Attack,
		Defense: def.Defense,
		Health:  def.Health,
	}
}

// TimedEffect is a tag with a remaining-turns counter, decremented once per
// EndTurn of the owning side and dropped at zero.
type TimedEffect struct {
	Tag       string `json:"tag"`
	Remaining int    `json:"remaining"`
	Magnitude int    `json:"magnitude,omitempty"`
}

// PlayerState is one side's half of the match.
type PlayerState struct {
	Health    int             `json:"health"`
	MaxHealth int             `json:"maxHealth"`
	Energy    int             `json:"energy"`
	MaxEnergy int             `json:"maxEnergy"`
	Deck      []*CardInstance `json:"deck"`
	Hand      []*CardInstance `json:"hand"`
	Field     [FieldSlots]*CardInstance
	Graveyard []*CardInstance `json:"graveyard"`
	Effects   []TimedEffect   `json:"effects"`
}

// CardCount sums cards across every zone. It is constant for the life of a
// match: cards move between zones, they are never created or destroyed.
func (p *PlayerState) CardCount() int {
	count := len(p.Deck) + len(p.Hand) + len(p.Graveyard)
	for _, card := range p.Field {
		if card != nil {
			count++
		}
	}
	return count
}

func (p *PlayerState) occupiedSlots() []int {
	slots := make([]int, 0, FieldSlots)
	for i, card := range p.Field {
		if card != nil {
			slots = append(slots, i)
		}
	}
	return slots
}

// LogEntry is one line of the append-only combat log.
type LogEntry struct {
	Round int    `json:"round"`
	Side  Side   `json:"side"`
	Text  string `json:"text"`
}

// Config carries the tunable battle rules. Zero values are replaced by the
// defaults from DefaultConfig.
type Config struct {
	MaxHealth    int
	MaxEnergy    int
	EnergyRegen  int
	DeckSize     int
	StartingHand int
	HandCap      int
}

// DefaultConfig returns the standard ruleset.
func DefaultConfig() Config {
	return Config{
		MaxHealth:    100,
		MaxEnergy:    10,
		EnergyRegen:  2,
		DeckSize:     20,
		StartingHand: 5,
		HandCap:      10,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxHealth <= 0 {
		c.MaxHealth = def.MaxHealth
	}
	if c.MaxEnergy <= 0 {
		c.MaxEnergy = def.MaxEnergy
	}
	if c.EnergyRegen <= 0 {
		c.EnergyRegen = def.EnergyRegen
	}
	if c.DeckSize <= 0 {
		c.DeckSize = def.DeckSize
	}
	if c.StartingHand <= 0 {
		c.StartingHand = def.StartingHand
	}
	if c.HandCap <= 0 {
		c.HandCap = def.HandCap
	}
	return c
}

// Match owns the full state of one battle. Methods are not safe for
// concurrent use; callers serialize access per match.
type Match struct {
	cfg        Config
	rng        *rand.Rand
	status     Status
	winner     Side
	turn       Side
	phase      Phase
	round      int
	turnsEnded int
	home       *PlayerState
	away       *PlayerState
	log        []LogEntry
}

// NewMatch builds a fresh match from two deck lists. Empty or short deck
// lists are padded with generated cards so a match can always start. Unknown
// card ids are rejected: the deck was assembled outside the engine and a bad
// id there is a protocol-level fault, not a rule violation.
func NewMatch(cfg Config, homeDeck, awayDeck []int, seed int64) (*Match, error) {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(seed))

	m := &Match{
		cfg:    cfg,
		rng:    rng,
		status: StatusInProgress,
		turn:   SideHome,
		phase:  PhaseDraw,
		round:  1,
	}

	var err error
	if m.home, err = buildPlayer(cfg, homeDeck, rng); err != nil {
		return nil, fmt.Errorf("home deck: %w", err)
	}
	if m.away, err = buildPlayer(cfg, awayDeck, rng); err != nil {
		return nil, fmt.Errorf("away deck: %w", err)
	}

	for i := 0; i < cfg.StartingHand; i++ {
		m.drawInto(m.home)
		m.drawInto(m.away)
	}

	return m, nil
}

func buildPlayer(cfg Config, deckIDs []int, rng *rand.Rand) (*PlayerState, error) {
	ids := deckIDs
	if len(ids) == 0 {
		ids = GenerateDeck(cfg.DeckSize, rng)
	}
	for len(ids) < cfg.DeckSize {
		ids = append(ids, GenerateDeck(1, rng)...)
	}
	if len(ids) > cfg.DeckSize {
		ids = ids[:cfg.DeckSize]
	}

	deck := make([]*CardInstance, 0, len(ids))
	for _, id := range ids {
		def, ok := CardByID(id)
		if !ok {
			return nil, fmt.Errorf("unknown card id %d", id)
		}
		deck = append(deck, newInstance(def))
	}
	shuffle(deck, rng)

	return &PlayerState{
		Health:    cfg.MaxHealth,
		MaxHealth: cfg.MaxHealth,
		Energy:    cfg.MaxEnergy,
		MaxEnergy: cfg.MaxEnergy,
		Deck:      deck,
		Hand:      make([]*CardInstance, 0, cfg.HandCap),
		Graveyard: make([]*CardInstance, 0),
		Effects:   make([]TimedEffect, 0),
	}, nil
}

// GenerateDeck picks random non-mythic catalog cards, the same policy the
// original opponent decks used.
func GenerateDeck(size int, rng *rand.Rand) []int {
	pool := make([]int, 0, len(Catalog))
	for i := range Catalog {
		if Catalog[i].Rarity != RarityMythic {
			pool = append(pool, Catalog[i].ID)
		}
	}
	ids := make([]int, 0, size)
	for len(ids) < size {
		ids = append(ids, pool[rng.Intn(len(pool))])
	}
	return ids
}

func shuffle(deck []*CardInstance, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

func (m *Match) side(s Side) *PlayerState {
	if s == SideHome {
		return m.home
	}
	return m.away
}

// Status reports the overall lifecycle state.
func (m *Match) Status() Status { return m.status }

// Winner is meaningful only once Status is concluded.
func (m *Match) Winner() Side { return m.winner }

// Turn returns the side whose turn it is.
func (m *Match) Turn() Side { return m.turn }

// Phase returns the current phase of the acting side's turn.
func (m *Match) Phase() Phase { return m.phase }

// Round returns the monotonically increasing round counter.
func (m *Match) Round() int { return m.round }

// Player exposes one side's state for inspection.
func (m *Match) Player(s Side) *PlayerState { return m.side(s) }

// Log returns the append-only combat log.
func (m *Match) Log() []LogEntry { return m.log }

func (m *Match) appendLog(side Side, format string, args ...any) {
	m.log = append(m.log, LogEntry{
		Round: m.round,
		Side:  side,
		Text:  fmt.Sprintf(format, args...),
	})
}
