package game

import "testing"

func TestEffectResolution(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 21)
	home := m.Player(SideHome)
	away := m.Player(SideAway)

	home.Health = 90
	m.resolveEffect(SideHome, EffectSpec{Kind: EffectHealSelf, Magnitude: 15})
	if home.Health != 100 {
		t.Fatalf("heal past cap: health = %d, want 100", home.Health)
	}

	away.Energy = 2
	m.resolveEffect(SideHome, EffectSpec{Kind: EffectDrainEnergy, Magnitude: 5})
	if away.Energy != 0 {
		t.Fatalf("drain past floor: energy = %d, want 0", away.Energy)
	}

	handBefore := len(home.Hand)
	m.resolveEffect(SideHome, EffectSpec{Kind: EffectDrawExtra})
	if len(home.Hand) != handBefore+2 {
		t.Fatalf("draw_extra default: hand %d -> %d, want +2", handBefore, len(home.Hand))
	}

	home.Field[0] = newInstance(statDef(100, 1, 5, 5, 5))
	m.resolveEffect(SideHome, EffectSpec{Kind: EffectBuffField, Magnitude: 2})
	if home.Field[0].Attack != 7 {
		t.Fatalf("buff_field: attack = %d, want 7", home.Field[0].Attack)
	}

	m.resolveEffect(SideHome, EffectSpec{Kind: EffectTimedBuff, Tag: "stun", Duration: 2})
	if len(home.Effects) != 1 || home.Effects[0].Tag != "stun" {
		t.Fatalf("timed_buff not recorded: %+v", home.Effects)
	}
	m.EndTurn(SideHome)
	if len(home.Effects) != 1 || home.Effects[0].Remaining != 1 {
		t.Fatalf("effect tick: %+v", home.Effects)
	}

	// Unknown kinds are a defined no-op.
	stateBefore := home.Health
	m.resolveEffect(SideHome, EffectSpec{Kind: EffectKind("summon_dragon"), Magnitude: 99})
	if home.Health != stateBefore {
		t.Fatalf("unknown effect mutated state")
	}
}

func TestDealDirectEffectHitsOpponent(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 22)
	away := m.Player(SideAway)

	m.resolveEffect(SideHome, EffectSpec{Kind: EffectDealDirect, Magnitude: 4})
	if away.Health != 96 {
		t.Fatalf("away health = %d, want 96", away.Health)
	}
	if m.Player(SideHome).Health != 100 {
		t.Fatalf("direct damage hit the caster")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 23)
	snap := m.Snapshot()

	if len(snap.Home.Hand) != 5 || len(snap.Home.Deck) != 15 {
		t.Fatalf("snapshot zones: hand=%d deck=%d", len(snap.Home.Hand), len(snap.Home.Deck))
	}

	// Mutating the live match must not show through the snapshot.
	m.Player(SideHome).Hand[0].Attack = 99
	m.ApplyDirectDamage(SideAway, 10)
	if snap.Home.Hand[0].Attack == 99 {
		t.Fatalf("snapshot shares hand storage with the match")
	}
	if snap.Away.Health != 100 {
		t.Fatalf("snapshot shares player state with the match")
	}
	if snap.Status != StatusInProgress {
		t.Fatalf("snapshot status mutated")
	}
}
