package game

import (
	"math/rand"
	"testing"
)

func TestCatalogIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[int]string, len(Catalog))
	for _, def := range Catalog {
		if prev, dup := seen[def.ID]; dup {
			t.Fatalf("id %d used by both %q and %q", def.ID, prev, def.Name)
		}
		seen[def.ID] = def.Name
		if def.Name == "" {
			t.Fatalf("card %d has no name", def.ID)
		}
		if def.Cost <= 0 {
			t.Fatalf("card %q has cost %d", def.Name, def.Cost)
		}
	}
}

func TestCardByID(t *testing.T) {
	t.Parallel()

	def, ok := CardByID(1)
	if !ok || def.Name != "Granite Colossus" {
		t.Fatalf("CardByID(1) = %v, %v", def, ok)
	}
	if _, ok := CardByID(9999); ok {
		t.Fatalf("CardByID(9999) found a card")
	}
}

func TestGenerateDeckExcludesMythic(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		ids := GenerateDeck(20, rng)
		if len(ids) != 20 {
			t.Fatalf("deck size = %d, want 20", len(ids))
		}
		for _, id := range ids {
			def, ok := CardByID(id)
			if !ok {
				t.Fatalf("generated unknown card id %d", id)
			}
			if def.Rarity == RarityMythic {
				t.Fatalf("generated mythic card %q", def.Name)
			}
		}
	}
}

func TestSuperstarsCarryCombatStats(t *testing.T) {
	t.Parallel()

	for _, def := range Catalog {
		if def.Type != CardSuperstar {
			continue
		}
		if def.Attack <= 0 || def.Defense <= 0 || def.Health <= 0 {
			t.Fatalf("superstar %q missing combat stats: %d/%d/%d", def.Name, def.Attack, def.Defense, def.Health)
		}
	}
}
