package game

// CardType classifies how a card is meant to be used. Every type shares the
// same instance layout; non-superstar cards simply carry zero defense and
// health and act as one-shot plays.
type CardType string

const (
	CardSuperstar CardType = "superstar"
	CardFinisher  CardType = "finisher"
	CardAction    CardType = "action"
	CardSupport   CardType = "support"
	CardCounter   CardType = "counter"
	CardSpecial   CardType = "special"
)

// Rarity orders cards from common to mythic. Mythic cards never appear in
// generated decks.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

// EffectKind selects the rule that fires when a card is played. Kinds not
// listed here resolve to a no-op, never an error.
type EffectKind string

const (
	EffectNone        EffectKind = "none"
	EffectHealSelf    EffectKind = "heal_self"
	EffectDealDirect  EffectKind = "deal_direct"
	EffectDrawExtra   EffectKind = "draw_extra"
	EffectDrainEnergy EffectKind = "drain_energy"
	EffectBuffField   EffectKind = "buff_field"
	EffectTimedBuff   EffectKind = "timed_buff"
)

// EffectSpec is the catalog-side description of a card effect.
type EffectSpec struct {
	Kind      EffectKind `json:"kind"`
	Tag       string     `json:"tag,omitempty"`
	Magnitude int        `json:"magnitude,omitempty"`
	Duration  int        `json:"duration,omitempty"`
}

// CardDef is one immutable catalog entry. Instances copy the combat stats at
// draw time and may diverge from the definition afterwards.
type CardDef struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Type    CardType   `json:"type"`
	Rarity  Rarity     `json:"rarity"`
	Cost    int        `json:"cost"`
	Attack  int        `json:"attack"`
	Defense int        `json:"defense"`
	Health  int        `json:"health"`
	Effect  EffectSpec `json:"effect"`
}

// Catalog holds every card definition, indexed once at init. The table is
// read-only after that and safe to share without locking.
var Catalog = []CardDef{
	// Legendary superstars.
	{ID: 1, Name: "Granite Colossus", Type: CardSuperstar, Rarity: RarityLegendary, Cost: 8, Attack: 12, Defense: 10, Health: 15, Effect: EffectSpec{Kind: EffectBuffField, Magnitude: 2}},
	{ID: 2, Name: "Rattlesnake Reed", Type: CardSuperstar, Rarity: RarityLegendary, Cost: 8, Attack: 13, Defense: 9, Health: 14, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "finisher_ready", Duration: 2}},
	{ID: 3, Name: "Sergeant Hopeful", Type: CardSuperstar, Rarity: RarityLegendary, Cost: 7, Attack: 11, Defense: 11, Health: 16, Effect: EffectSpec{Kind: EffectHealSelf, Magnitude: 5}},
	{ID: 4, Name: "The Gravekeeper", Type: CardSuperstar, Rarity: RarityLegendary, Cost: 9, Attack: 14, Defense: 8, Health: 18, Effect: EffectSpec{Kind: EffectDrainEnergy, Magnitude: 3}},
	{ID: 5, Name: "The Tactician", Type: CardSuperstar, Rarity: RarityLegendary, Cost: 8, Attack: 12, Defense: 10, Health: 15, Effect: EffectSpec{Kind: EffectDrawExtra, Magnitude: 2}},

	// Epic superstars.
	{ID: 6, Name: "Viper Cross", Type: CardSuperstar, Rarity: RarityEpic, Cost: 6, Attack: 10, Defense: 8, Health: 12, Effect: EffectSpec{Kind: EffectDealDirect, Magnitude: 4}},
	{ID: 7, Name: "The Demolisher", Type: CardSuperstar, Rarity: RarityEpic, Cost: 6, Attack: 11, Defense: 7, Health: 13, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "rage", Duration: 2, Magnitude: 2}},
	{ID: 8, Name: "Spearhead", Type: CardSuperstar, Rarity: RarityEpic, Cost: 5, Attack: 9, Defense: 9, Health: 11, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "charge", Duration: 1, Magnitude: 3}},
	{ID: 9, Name: "Wallbreaker", Type: CardSuperstar, Rarity: RarityEpic, Cost: 5, Attack: 8, Defense: 10, Health: 11, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "submission", Duration: 2}},
	{ID: 10, Name: "Masked Comet", Type: CardSuperstar, Rarity: RarityEpic, Cost: 5, Attack: 7, Defense: 8, Health: 9, Effect: EffectSpec{Kind: EffectDealDirect, Magnitude: 3}},
	{ID: 11, Name: "Gold Medalist", Type: CardSuperstar, Rarity: RarityEpic, Cost: 6, Attack: 10, Defense: 9, Health: 12, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "lock", Duration: 1}},
	{ID: 12, Name: "The Showstopper", Type: CardSuperstar, Rarity: RarityEpic, Cost: 6, Attack: 9, Defense: 8, Health: 11, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "sure_hit", Duration: 1}},

	// Rare superstars.
	{ID: 13, Name: "Straight Edge", Type: CardSuperstar, Rarity: RarityRare, Cost: 4, Attack: 7, Defense: 7, Health: 9, Effect: EffectSpec{Kind: EffectNone}},
	{ID: 14, Name: "Daredevil", Type: CardSuperstar, Rarity: RarityRare, Cost: 4, Attack: 6, Defense: 6, Health: 8, Effect: EffectSpec{Kind: EffectNone}},
	{ID: 15, Name: "Inferno", Type: CardSuperstar, Rarity: RarityRare, Cost: 5, Attack: 9, Defense: 6, Health: 11, Effect: EffectSpec{Kind: EffectDealDirect, Magnitude: 2}},
	{ID: 16, Name: "The Mountain", Type: CardSuperstar, Rarity: RarityRare, Cost: 5, Attack: 8, Defense: 8, Health: 12, Effect: EffectSpec{Kind: EffectBuffField, Magnitude: 1}},
	{ID: 17, Name: "Ring General", Type: CardSuperstar, Rarity: RarityRare, Cost: 4, Attack: 7, Defense: 7, Health: 9, Effect: EffectSpec{Kind: EffectDrawExtra, Magnitude: 2}},
	{ID: 18, Name: "Glitter Ghost", Type: CardSuperstar, Rarity: RarityRare, Cost: 3, Attack: 5, Defense: 7, Health: 8, Effect: EffectSpec{Kind: EffectDrainEnergy, Magnitude: 1}},

	// Common superstars.
	{ID: 19, Name: "Journeyman", Type: CardSuperstar, Rarity: RarityCommon, Cost: 3, Attack: 5, Defense: 5, Health: 7, Effect: EffectSpec{Kind: EffectNone}},
	{ID: 20, Name: "The Showman", Type: CardSuperstar, Rarity: RarityCommon, Cost: 2, Attack: 4, Defense: 4, Health: 6, Effect: EffectSpec{Kind: EffectNone}},
	{ID: 21, Name: "Enforcer", Type: CardSuperstar, Rarity: RarityCommon, Cost: 3, Attack: 6, Defense: 4, Health: 7, Effect: EffectSpec{Kind: EffectNone}},
	{ID: 22, Name: "Corner Man", Type: CardSuperstar, Rarity: RarityCommon, Cost: 2, Attack: 4, Defense: 5, Health: 6, Effect: EffectSpec{Kind: EffectNone}},
	{ID: 23, Name: "Brawler", Type: CardSuperstar, Rarity: RarityCommon, Cost: 2, Attack: 5, Defense: 4, Health: 6, Effect: EffectSpec{Kind: EffectNone}},

	// Finishers.
	{ID: 24, Name: "Seismic Slam", Type: CardFinisher, Rarity: RarityLegendary, Cost: 6, Attack: 15, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "stun", Duration: 2}},
	{ID: 25, Name: "Lights Out", Type: CardFinisher, Rarity: RarityLegendary, Cost: 6, Attack: 16, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "daze", Duration: 1}},
	{ID: 26, Name: "Uplift Driver", Type: CardFinisher, Rarity: RarityLegendary, Cost: 5, Attack: 14, Effect: EffectSpec{Kind: EffectHealSelf, Magnitude: 5}},
	{ID: 27, Name: "Tombstone Drop", Type: CardFinisher, Rarity: RarityLegendary, Cost: 7, Attack: 18, Effect: EffectSpec{Kind: EffectDrainEnergy, Magnitude: 2}},
	{ID: 28, Name: "Crossface Grip", Type: CardFinisher, Rarity: RarityEpic, Cost: 5, Attack: 13, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "weaken", Duration: 2}},
	{ID: 29, Name: "Coil Strike", Type: CardFinisher, Rarity: RarityEpic, Cost: 4, Attack: 12, Effect: EffectSpec{Kind: EffectDealDirect, Magnitude: 3}},

	// Actions.
	{ID: 30, Name: "Chair Shot", Type: CardAction, Rarity: RarityCommon, Cost: 2, Effect: EffectSpec{Kind: EffectDealDirect, Magnitude: 5}},
	{ID: 31, Name: "Table Break", Type: CardAction, Rarity: RarityRare, Cost: 3, Effect: EffectSpec{Kind: EffectDealDirect, Magnitude: 8}},
	{ID: 32, Name: "Ladder Climb", Type: CardAction, Rarity: RarityRare, Cost: 3, Effect: EffectSpec{Kind: EffectDrawExtra, Magnitude: 2}},
	{ID: 33, Name: "Crowd Chant", Type: CardAction, Rarity: RarityCommon, Cost: 1, Effect: EffectSpec{Kind: EffectBuffField, Magnitude: 1}},

	// Support.
	{ID: 34, Name: "Medical Team", Type: CardSupport, Rarity: RarityCommon, Cost: 2, Effect: EffectSpec{Kind: EffectHealSelf, Magnitude: 5}},
	{ID: 35, Name: "Trainer Boost", Type: CardSupport, Rarity: RarityRare, Cost: 3, Effect: EffectSpec{Kind: EffectBuffField, Magnitude: 2}},
	{ID: 36, Name: "Championship Belt", Type: CardSupport, Rarity: RarityEpic, Cost: 4, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "prestige", Duration: 2, Magnitude: 1}},

	// Counters.
	{ID: 37, Name: "Reversal", Type: CardCounter, Rarity: RarityRare, Cost: 2, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "block", Duration: 1}},
	{ID: 38, Name: "Dodge Roll", Type: CardCounter, Rarity: RarityCommon, Cost: 1, Effect: EffectSpec{Kind: EffectTimedBuff, Tag: "evade", Duration: 1}},

	// Special events.
	{ID: 39, Name: "Grand Slam Moment", Type: CardSpecial, Rarity: RarityMythic, Cost: 10, Attack: 20, Effect: EffectSpec{Kind: EffectDealDirect, Magnitude: 10}},
	{ID: 40, Name: "Rumble Royalty", Type: CardSpecial, Rarity: RarityMythic, Cost: 9, Attack: 16, Effect: EffectSpec{Kind: EffectBuffField, Magnitude: 3}},
}

var catalogByID map[int]*CardDef

func init() {
	catalogByID = make(map[int]*CardDef, len(Catalog))
	for i := range Catalog {
		catalogByID[Catalog[i].ID] = &Catalog[i]
	}
}

// CardByID looks up a catalog definition. The second return is false for
// unknown ids.
func CardByID(id int) (*CardDef, bool) {
	def, ok := catalogByID[id]
	return def, ok
}
