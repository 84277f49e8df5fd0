package game

import (
	"testing"
)

func testDeck() []int {
	// Fixed, catalog-valid deck: commons and rares with predictable stats.
	return []int{19, 19, 20, 20, 21, 21, 22, 22, 23, 23, 13, 13, 14, 14, 19, 20, 21, 22, 23, 19}
}

func newTestMatch(t *testing.T, seed int64) *Match {
	t.Helper()
	m, err := NewMatch(DefaultConfig(), testDeck(), testDeck(), seed)
	if err != nil {
		t.Fatalf("NewMatch failed: %v", err)
	}
	return m
}

func statDef(id, cost, attack, defense, health int) *CardDef {
	return &CardDef{ID: id, Name: "test", Type: CardSuperstar, Cost: cost, Attack: attack, Defense: defense, Health: health}
}

func TestNewMatchInitialState(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 1)

	for _, side := range []Side{SideHome, SideAway} {
		p := m.Player(side)
		if p.Health != 100 || p.MaxHealth != 100 {
			t.Fatalf("%s health = %d/%d, want 100/100", side, p.Health, p.MaxHealth)
		}
		if p.Energy != 10 || p.MaxEnergy != 10 {
			t.Fatalf("%s energy = %d/%d, want 10/10", side, p.Energy, p.MaxEnergy)
		}
		if len(p.Hand) != 5 {
			t.Fatalf("%s starting hand = %d, want 5", side, len(p.Hand))
		}
		if len(p.Deck) != 15 {
			t.Fatalf("%s deck after deal = %d, want 15", side, len(p.Deck))
		}
	}
	if m.Turn() != SideHome || m.Phase() != PhaseDraw || m.Round() != 1 {
		t.Fatalf("opening turn state = %s/%s round %d", m.Turn(), m.Phase(), m.Round())
	}
}

func TestCardConservationAcrossActions(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 7)
	wantHome := m.Player(SideHome).CardCount()
	wantAway := m.Player(SideAway).CardCount()

	check := func(step string) {
		t.Helper()
		if got := m.Player(SideHome).CardCount(); got != wantHome {
			t.Fatalf("after %s: home card count = %d, want %d", step, got, wantHome)
		}
		if got := m.Player(SideAway).CardCount(); got != wantAway {
			t.Fatalf("after %s: away card count = %d, want %d", step, got, wantAway)
		}
	}

	m.Draw(SideHome)
	check("draw")

	home := m.Player(SideHome)
	if _, ok, reason := m.Attack(SideHome); ok || reason != RejectNoAttackers {
		t.Fatalf("attack with empty field: ok=%v reason=%q", ok, reason)
	}
	if ok, reason := m.PlayCard(SideHome, home.Hand[0].ID, 0); !ok {
		t.Fatalf("play rejected: %s", reason)
	}
	check("play")

	if _, ok, reason := m.Attack(SideHome); !ok {
		t.Fatalf("attack rejected: %s", reason)
	}
	check("attack")

	if ok, reason := m.EndTurn(SideHome); !ok {
		t.Fatalf("end turn rejected: %s", reason)
	}
	m.Draw(SideAway)
	m.EndTurn(SideAway)
	check("full round")
}

func TestPlayCardDuringDrawPhaseAdvancesToMain(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 3)
	if m.Phase() != PhaseDraw {
		t.Fatalf("opening phase = %s, want %s", m.Phase(), PhaseDraw)
	}

	// Drawing is optional: playing straight from the opening hand is legal
	// and moves the turn into its main phase.
	home := m.Player(SideHome)
	if ok, reason := m.PlayCard(SideHome, home.Hand[0].ID, 0); !ok {
		t.Fatalf("play during draw phase rejected: %s", reason)
	}
	if m.Phase() != PhaseMain {
		t.Fatalf("phase after play = %s, want %s", m.Phase(), PhaseMain)
	}
}

func TestPlayCardEnergyAccounting(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 3)
	m.Draw(SideHome)
	home := m.Player(SideHome)

	card := home.Hand[0]
	before := home.Energy
	if ok, reason := m.PlayCard(SideHome, card.ID, 1); !ok {
		t.Fatalf("play rejected: %s", reason)
	}
	if home.Energy != before-card.Def.Cost {
		t.Fatalf("energy = %d, want %d", home.Energy, before-card.Def.Cost)
	}

	// Burn remaining energy down, then verify a too-expensive card is
	// rejected without any deduction.
	home.Energy = 1
	var costly *CardInstance
	for _, c := range home.Hand {
		if c.Def.Cost > 1 {
			costly = c
			break
		}
	}
	if costly == nil {
		t.Fatalf("test deck produced no card costing more than 1")
	}
	if ok, reason := m.PlayCard(SideHome, costly.ID, 2); ok || reason != RejectInsufficientEnergy {
		t.Fatalf("expensive play: ok=%v reason=%q", ok, reason)
	}
	if home.Energy != 1 {
		t.Fatalf("failed play changed energy to %d", home.Energy)
	}
}

func TestPlayCardSlotAndHandRejections(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 4)
	m.Draw(SideHome)
	home := m.Player(SideHome)

	if ok, reason := m.PlayCard(SideHome, home.Hand[0].ID, 5); ok || reason != RejectBadSlot {
		t.Fatalf("bad slot: ok=%v reason=%q", ok, reason)
	}
	if ok, _ := m.PlayCard(SideHome, home.Hand[0].ID, 0); !ok {
		t.Fatalf("first play rejected")
	}
	if ok, reason := m.PlayCard(SideHome, home.Hand[0].ID, 0); ok || reason != RejectSlotOccupied {
		t.Fatalf("occupied slot: ok=%v reason=%q", ok, reason)
	}
	if ok, reason := m.PlayCard(SideHome, 9999, 1); ok || reason != RejectCardNotInHand {
		t.Fatalf("missing card: ok=%v reason=%q", ok, reason)
	}
	if ok, reason := m.PlayCard(SideAway, 19, 0); ok || reason != RejectNotYourTurn {
		t.Fatalf("off-turn play: ok=%v reason=%q", ok, reason)
	}
}

func TestCombatDamageFormula(t *testing.T) {
	t.Parallel()

	cases := []struct {
		attack, defense, want int
	}{
		{10, 4, 6},
		{3, 7, 0},
	}

	for _, tc := range cases {
		m := newTestMatch(t, 11)
		m.Draw(SideHome)

		m.Player(SideHome).Field[0] = newInstance(statDef(100, 1, tc.attack, 0, 10))
		m.Player(SideAway).Field[1] = newInstance(statDef(101, 1, 0, tc.defense, 50))

		report, ok, reason := m.Attack(SideHome)
		if !ok {
			t.Fatalf("attack rejected: %s", reason)
		}
		if len(report.Exchanges) != 1 {
			t.Fatalf("exchanges = %d, want 1", len(report.Exchanges))
		}
		exchange := report.Exchanges[0]
		if exchange.Damage != tc.want {
			t.Fatalf("attack %d vs defense %d: damage = %d, want %d", tc.attack, tc.defense, exchange.Damage, tc.want)
		}
		defender := m.Player(SideAway).Field[1]
		if defender == nil {
			t.Fatalf("defender destroyed unexpectedly")
		}
		if defender.Health != 50-tc.want {
			t.Fatalf("defender health = %d, want %d", defender.Health, 50-tc.want)
		}
	}
}

func TestDestroyedDefenderLeavesTargetPool(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 2)
	m.Draw(SideHome)

	// Two attackers, one fragile defender. The first exchange kills it, so
	// the second attacker must land direct damage instead of hitting a
	// graveyard card again.
	m.Player(SideHome).Field[0] = newInstance(statDef(100, 1, 8, 0, 10))
	m.Player(SideHome).Field[2] = newInstance(statDef(101, 1, 6, 0, 10))
	m.Player(SideAway).Field[1] = newInstance(statDef(102, 1, 0, 2, 3))

	away := m.Player(SideAway)
	healthBefore := away.Health

	report, ok, reason := m.Attack(SideHome)
	if !ok {
		t.Fatalf("attack rejected: %s", reason)
	}
	if len(report.Exchanges) != 2 {
		t.Fatalf("exchanges = %d, want 2", len(report.Exchanges))
	}
	first, second := report.Exchanges[0], report.Exchanges[1]
	if first.DefenderSlot != 1 || !first.Destroyed {
		t.Fatalf("first exchange = %+v, want destroy of slot 1", first)
	}
	if second.DefenderSlot != -1 {
		t.Fatalf("second exchange targeted slot %d, want direct damage", second.DefenderSlot)
	}
	if away.Field[1] != nil {
		t.Fatalf("destroyed defender still on field")
	}
	if len(away.Graveyard) == 0 || away.Graveyard[len(away.Graveyard)-1].ID != 102 {
		t.Fatalf("destroyed defender not in graveyard")
	}
	if away.Health != healthBefore-6 {
		t.Fatalf("away health = %d, want %d", away.Health, healthBefore-6)
	}
}

func TestEndTurnRejectsReentry(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 5)
	before := m.Player(SideAway).Energy

	if ok, reason := m.EndTurn(SideAway); ok || reason != RejectNotYourTurn {
		t.Fatalf("off-turn end: ok=%v reason=%q", ok, reason)
	}
	if m.Player(SideAway).Energy != before || m.Turn() != SideHome {
		t.Fatalf("rejected end turn mutated state")
	}
}

func TestEndTurnRegeneratesEnergyAndAdvancesRound(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 6)
	home := m.Player(SideHome)
	away := m.Player(SideAway)

	home.Energy = 3
	if ok, _ := m.EndTurn(SideHome); !ok {
		t.Fatalf("home end turn rejected")
	}
	if home.Energy != 5 {
		t.Fatalf("home energy after regen = %d, want 5", home.Energy)
	}
	if m.Turn() != SideAway || m.Phase() != PhaseDraw {
		t.Fatalf("turn did not flip: %s/%s", m.Turn(), m.Phase())
	}
	if m.Round() != 1 {
		t.Fatalf("round advanced after a single end turn")
	}

	homeHand := len(home.Hand)
	awayHand := len(away.Hand)
	if ok, _ := m.EndTurn(SideAway); !ok {
		t.Fatalf("away end turn rejected")
	}
	if m.Round() != 2 {
		t.Fatalf("round = %d, want 2", m.Round())
	}
	if len(home.Hand) != homeHand+1 || len(away.Hand) != awayHand+1 {
		t.Fatalf("round draw missing: home %d->%d away %d->%d", homeHand, len(home.Hand), awayHand, len(away.Hand))
	}
}

func TestDrawRejections(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 8)
	home := m.Player(SideHome)

	home.Deck = home.Deck[:0]
	if _, ok, reason := m.Draw(SideHome); ok || reason != RejectDeckEmpty {
		t.Fatalf("empty deck draw: ok=%v reason=%q", ok, reason)
	}

	m2 := newTestMatch(t, 8)
	p := m2.Player(SideHome)
	for len(p.Hand) < 10 {
		if _, ok, _ := m2.Draw(SideHome); !ok {
			t.Fatalf("fill draw failed at %d cards", len(p.Hand))
		}
	}
	if _, ok, reason := m2.Draw(SideHome); ok || reason != RejectHandFull {
		t.Fatalf("full hand draw: ok=%v reason=%q", ok, reason)
	}
}

func TestDirectDamageConcludesMatch(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 9)
	m.ApplyDirectDamage(SideAway, 99)
	if m.Status() != StatusInProgress {
		t.Fatalf("match concluded early")
	}
	m.ApplyDirectDamage(SideAway, 5)
	if m.Status() != StatusConcluded || m.Winner() != SideHome {
		t.Fatalf("status=%s winner=%s, want concluded/home", m.Status(), m.Winner())
	}

	if ok, reason := m.EndTurn(SideHome); ok || reason != RejectMatchOver {
		t.Fatalf("post-match end turn: ok=%v reason=%q", ok, reason)
	}
	if _, ok, reason := m.Draw(SideHome); ok || reason != RejectMatchOver {
		t.Fatalf("post-match draw: ok=%v reason=%q", ok, reason)
	}
}

func TestReplayAttackMirrorsOutcome(t *testing.T) {
	t.Parallel()

	// Two instances built from the same decks and seed, then one resolves an
	// attack locally while the other replays the carried report. Their views
	// of the defender pool and player health must match exactly.
	local := newTestMatch(t, 42)
	mirror := newTestMatch(t, 1042)

	setup := func(m *Match) {
		m.Draw(SideHome)
		m.Player(SideHome).Field[0] = newInstance(statDef(100, 1, 9, 0, 10))
		m.Player(SideHome).Field[1] = newInstance(statDef(101, 1, 7, 0, 10))
		m.Player(SideAway).Field[0] = newInstance(statDef(102, 1, 0, 3, 12))
		m.Player(SideAway).Field[2] = newInstance(statDef(103, 1, 0, 1, 4))
	}
	setup(local)
	setup(mirror)

	report, ok, reason := local.Attack(SideHome)
	if !ok {
		t.Fatalf("local attack rejected: %s", reason)
	}
	if ok, reason := mirror.ReplayAttack(SideHome, report); !ok {
		t.Fatalf("replay rejected: %s", reason)
	}

	for slot := 0; slot < FieldSlots; slot++ {
		lc := local.Player(SideAway).Field[slot]
		mc := mirror.Player(SideAway).Field[slot]
		switch {
		case lc == nil && mc == nil:
		case lc == nil || mc == nil:
			t.Fatalf("slot %d diverged: local=%v mirror=%v", slot, lc, mc)
		case lc.Health != mc.Health:
			t.Fatalf("slot %d health diverged: local=%d mirror=%d", slot, lc.Health, mc.Health)
		}
	}
	if local.Player(SideAway).Health != mirror.Player(SideAway).Health {
		t.Fatalf("player health diverged: local=%d mirror=%d",
			local.Player(SideAway).Health, mirror.Player(SideAway).Health)
	}
	if len(local.Player(SideAway).Graveyard) != len(mirror.Player(SideAway).Graveyard) {
		t.Fatalf("graveyards diverged")
	}
}

func TestAttackRequiresOwnCombatWindow(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, 12)
	m.Player(SideAway).Field[0] = newInstance(statDef(100, 1, 5, 5, 5))

	if _, ok, reason := m.Attack(SideAway); ok || reason != RejectNotYourTurn {
		t.Fatalf("off-turn attack: ok=%v reason=%q", ok, reason)
	}

	m.Draw(SideHome)
	m.Player(SideHome).Field[0] = newInstance(statDef(101, 1, 5, 5, 5))
	if _, ok, _ := m.Attack(SideHome); !ok {
		t.Fatalf("combat attack rejected")
	}
	if m.Phase() != PhaseCombat {
		t.Fatalf("phase = %s, want combat", m.Phase())
	}

	// Combat locks the board: playing after attacking is a phase violation.
	home := m.Player(SideHome)
	if len(home.Hand) > 0 {
		if ok, reason := m.PlayCard(SideHome, home.Hand[0].ID, 2); ok || reason != RejectWrongPhase {
			t.Fatalf("post-combat play: ok=%v reason=%q", ok, reason)
		}
	}
}
