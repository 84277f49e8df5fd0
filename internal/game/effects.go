package game

// resolveEffect fires a card's play effect. A panicking handler is treated
// as if the effect were a no-op; unknown kinds are a defined no-op as well.
func (m *Match) resolveEffect(side Side, spec EffectSpec) {
	defer func() {
		if r := recover(); r != nil {
			m.appendLog(side, "effect %s fizzled", spec.Kind)
		}
	}()

	switch spec.Kind {
	case EffectHealSelf:
		p := m.side(side)
		amount := spec.Magnitude
		if amount <= 0 {
			amount = 5
		}
		p.Health += amount
		if p.Health > p.MaxHealth {
			p.Health = p.MaxHealth
		}
		m.appendLog(side, "%s healed %d health", side, amount)

	case EffectDealDirect:
		m.ApplyDirectDamage(side.Opponent(), spec.Magnitude)

	case EffectDrawExtra:
		draws := spec.Magnitude
		if draws <= 0 {
			draws = 2
		}
		for i := 0; i < draws; i++ {
			m.Draw(side)
		}

	case EffectDrainEnergy:
		opp := m.side(side.Opponent())
		opp.Energy -= spec.Magnitude
		if opp.Energy < 0 {
			opp.Energy = 0
		}
		m.appendLog(side, "%s drained %d energy", side, spec.Magnitude)

	case EffectBuffField:
		p := m.side(side)
		for _, card := range p.Field {
			if card != nil {
				card.Attack += spec.Magnitude
			}
		}
		m.appendLog(side, "%s's field gained +%d attack", side, spec.Magnitude)

	case EffectTimedBuff:
		p := m.side(side)
		p.Effects = append(p.Effects, TimedEffect{
			Tag:       spec.Tag,
			Remaining: spec.Duration,
			Magnitude: spec.Magnitude,
		})
		m.appendLog(side, "%s gained %s for %d turns", side, spec.Tag, spec.Duration)

	case EffectNone:
	default:
		// Unknown tag: guaranteed no-op.
	}
}
