package game

// Draw moves the top deck card into the side's hand. It never fails hard:
// an empty deck or a full hand reports the reason and leaves state alone.
// Drawing on your own turn during the draw phase advances the phase to main.
func (m *Match) Draw(side Side) (*CardInstance, bool, RejectReason) {
	if !side.valid() {
		return nil, false, RejectUnknownSide
	}
	if m.status == StatusConcluded {
		return nil, false, RejectMatchOver
	}

	p := m.side(side)
	if len(p.Deck) == 0 {
		return nil, false, RejectDeckEmpty
	}
	if len(p.Hand) >= m.cfg.HandCap {
		return nil, false, RejectHandFull
	}

	card := m.drawInto(p)
	m.appendLog(side, "%s drew a card", side)

	if m.turn == side && m.phase == PhaseDraw {
		m.phase = PhaseMain
	}
	return card, true, RejectNone
}

// drawInto performs the zone transfer without phase bookkeeping. Used by
// Draw, the initial deal, and the automatic round draw.
func (m *Match) drawInto(p *PlayerState) *CardInstance {
	if len(p.Deck) == 0 || len(p.Hand) >= m.cfg.HandCap {
		return nil
	}
	card := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	p.Hand = append(p.Hand, card)
	return card
}

// PlayCard moves a card from hand to an empty field slot, paying its energy
// cost and firing its effect. Any violated precondition is reported and the
// state is left unchanged.
func (m *Match) PlayCard(side Side, cardID, slot int) (bool, RejectReason) {
	if !side.valid() {
		return false, RejectUnknownSide
	}
	if m.status == StatusConcluded {
		return false, RejectMatchOver
	}
	if m.turn != side {
		return false, RejectNotYourTurn
	}
	if m.phase != PhaseMain && m.phase != PhaseDraw {
		return false, RejectWrongPhase
	}
	if slot < 0 || slot >= FieldSlots {
		return false, RejectBadSlot
	}

	p := m.side(side)
	handIndex := -1
	for i, card := range p.Hand {
		if card.ID == cardID {
			handIndex = i
			break
		}
	}
	if handIndex == -1 {
		return false, RejectCardNotInHand
	}
	card := p.Hand[handIndex]
	if p.Energy < card.Def.Cost {
		return false, RejectInsufficientEnergy
	}
	if p.Field[slot] != nil {
		return false, RejectSlotOccupied
	}

	p.Energy -= card.Def.Cost
	p.Hand = append(p.Hand[:handIndex], p.Hand[handIndex+1:]...)
	p.Field[slot] = card
	if m.phase == PhaseDraw {
		m.phase = PhaseMain
	}

	m.appendLog(side, "%s played %s", side, card.Name)
	m.resolveEffect(side, card.Def.Effect)
	return true, RejectNone
}

// Exchange records one resolved step of an Attack: either a combat exchange
// against a defender slot, or direct damage when DefenderSlot is -1.
type Exchange struct {
	AttackerSlot int  `json:"attackerSlot"`
	AttackerID   int  `json:"attackerId"`
	DefenderSlot int  `json:"defenderSlot"`
	DefenderID   int  `json:"defenderId,omitempty"`
	Damage       int  `json:"damage"`
	Destroyed    bool `json:"destroyed"`
}

// AttackReport carries the fully resolved outcome of an Attack call. The
// acting client includes it in the relayed attack message so the mirrored
// match replays the exact same target choices instead of re-rolling them.
type AttackReport struct {
	Exchanges []Exchange `json:"exchanges"`
}

// Attack resolves one combat step for every occupied attacking slot. When the
// opposing field has defenders, one is chosen uniformly at random per
// attacker; otherwise the attacker's attack value lands as direct damage. A
// defender destroyed mid-batch is moved to the graveyard immediately and is
// never targeted again in the same call.
func (m *Match) Attack(side Side) (AttackReport, bool, RejectReason) {
	var report AttackReport
	if !side.valid() {
		return report, false, RejectUnknownSide
	}
	if m.status == StatusConcluded {
		return report, false, RejectMatchOver
	}
	if m.turn != side {
		return report, false, RejectNotYourTurn
	}
	if m.phase != PhaseMain && m.phase != PhaseCombat {
		return report, false, RejectWrongPhase
	}

	attacker := m.side(side)
	attackSlots := attacker.occupiedSlots()
	if len(attackSlots) == 0 {
		return report, false, RejectNoAttackers
	}

	m.phase = PhaseCombat
	defender := m.side(side.Opponent())

	for _, slot := range attackSlots {
		card := attacker.Field[slot]
		if card == nil {
			continue
		}
		targets := defender.occupiedSlots()
		if len(targets) == 0 {
			exchange := Exchange{
				AttackerSlot: slot,
				AttackerID:   card.ID,
				DefenderSlot: -1,
				Damage:       card.Attack,
			}
			report.Exchanges = append(report.Exchanges, exchange)
			m.applyExchange(side, exchange)
			if m.status == StatusConcluded {
				break
			}
			continue
		}

		targetSlot := targets[m.rng.Intn(len(targets))]
		target := defender.Field[targetSlot]
		damage := card.Attack - target.Defense
		if damage < 0 {
			damage = 0
		}
		exchange := Exchange{
			AttackerSlot: slot,
			AttackerID:   card.ID,
			DefenderSlot: targetSlot,
			DefenderID:   target.ID,
			Damage:       damage,
			Destroyed:    target.Health-damage <= 0,
		}
		report.Exchanges = append(report.Exchanges, exchange)
		m.applyExchange(side, exchange)
	}

	return report, true, RejectNone
}

// ReplayAttack applies a received AttackReport to a mirrored match. Target
// selection comes from the report, so two instances replaying the same report
// stay in agreement. Replay is best-effort: exchanges that no longer line up
// with local state are skipped rather than failed.
func (m *Match) ReplayAttack(side Side, report AttackReport) (bool, RejectReason) {
	if !side.valid() {
		return false, RejectUnknownSide
	}
	if m.status == StatusConcluded {
		return false, RejectMatchOver
	}
	if m.turn != side {
		return false, RejectNotYourTurn
	}
	if m.phase != PhaseMain && m.phase != PhaseCombat {
		return false, RejectWrongPhase
	}

	m.phase = PhaseCombat
	for _, exchange := range report.Exchanges {
		m.applyExchange(side, exchange)
		if m.status == StatusConcluded {
			break
		}
	}
	return true, RejectNone
}

// applyExchange mutates state for one exchange. Shared by Attack and
// ReplayAttack so both paths resolve identically.
func (m *Match) applyExchange(side Side, exchange Exchange) {
	attacker := m.side(side)
	defender := m.side(side.Opponent())

	if exchange.DefenderSlot < 0 {
		damage := exchange.Damage
		if card := m.fieldCard(attacker, exchange.AttackerSlot); card != nil {
			m.appendLog(side, "%s hits %s directly for %d", card.Name, side.Opponent(), damage)
		}
		m.ApplyDirectDamage(side.Opponent(), damage)
		return
	}

	target := m.fieldCard(defender, exchange.DefenderSlot)
	if target == nil {
		return
	}
	target.Health -= exchange.Damage
	if card := m.fieldCard(attacker, exchange.AttackerSlot); card != nil {
		m.appendLog(side, "%s attacks %s for %d damage", card.Name, target.Name, exchange.Damage)
	}
	if target.Health <= 0 {
		defender.Field[exchange.DefenderSlot] = nil
		defender.Graveyard = append(defender.Graveyard, target)
		m.appendLog(side.Opponent(), "%s was destroyed", target.Name)
	}
}

func (m *Match) fieldCard(p *PlayerState, slot int) *CardInstance {
	if slot < 0 || slot >= FieldSlots {
		return nil
	}
	return p.Field[slot]
}

// ApplyDirectDamage reduces the target player's health and concludes the
// match when it reaches zero. The combat log floors the shown value at zero;
// the stored health may go negative.
func (m *Match) ApplyDirectDamage(target Side, amount int) {
	if !target.valid() || m.status == StatusConcluded || amount <= 0 {
		return
	}
	p := m.side(target)
	p.Health -= amount

	shown := p.Health
	if shown < 0 {
		shown = 0
	}
	m.appendLog(target, "%s takes %d direct damage (%d health left)", target, amount, shown)

	if p.Health <= 0 {
		m.status = StatusConcluded
		m.winner = target.Opponent()
		m.appendLog(m.winner, "%s wins the match", m.winner)
	}
}

// EndTurn closes the acting side's turn: energy regenerates up to the cap,
// the side's timed effects tick down, and the turn flips. Once both sides
// have ended a turn the round counter increments and each side draws one
// card automatically. Calling out of turn is rejected with no state change.
func (m *Match) EndTurn(side Side) (bool, RejectReason) {
	if !side.valid() {
		return false, RejectUnknownSide
	}
	if m.status == StatusConcluded {
		return false, RejectMatchOver
	}
	if m.turn != side {
		return false, RejectNotYourTurn
	}

	p := m.side(side)
	p.Energy += m.cfg.EnergyRegen
	if p.Energy > p.MaxEnergy {
		p.Energy = p.MaxEnergy
	}
	m.tickEffects(p)

	m.appendLog(side, "%s ended their turn", side)
	m.turn = side.Opponent()
	m.phase = PhaseDraw
	m.turnsEnded++

	if m.turnsEnded >= 2 {
		m.turnsEnded = 0
		m.round++
		m.appendLog(m.turn, "round %d begins", m.round)
		m.drawInto(m.home)
		m.drawInto(m.away)
	}
	return true, RejectNone
}

func (m *Match) tickEffects(p *PlayerState) {
	kept := p.Effects[:0]
	for _, effect := range p.Effects {
		effect.Remaining--
		if effect.Remaining > 0 {
			kept = append(kept, effect)
		}
	}
	p.Effects = kept
}
