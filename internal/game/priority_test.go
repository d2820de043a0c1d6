package game

import (
	"errors"
	"testing"

	"github.com/openduel/duel-server-go/internal/game/mana"
	"github.com/openduel/duel-server-go/internal/game/rules"
)

func TestCastingGivesOpponentPriority(t *testing.T) {
	h := newHarness(t)
	h.advanceTo(rules.StepFirstMain)

	bearID := h.putInHand(h.p1, bearDef())
	h.givePool(h.p1, mana.SymbolGreen, 1)
	h.givePool(h.p1, mana.SymbolColorless, 1)

	h.apply(CastSpell{PlayerID: h.p1, CardID: bearID})

	if got := h.g.stack.Len(); got != 1 {
		t.Fatalf("stack = %d items, want 1", got)
	}
	if got := h.g.PriorityPlayerID(); got != h.p2 {
		t.Fatalf("priority after cast = %s, want opponent %s", got, h.p2)
	}
	if len(h.g.passed) != 0 {
		t.Fatalf("passed set not cleared by casting")
	}
}

func TestSinglePassNeverResolves(t *testing.T) {
	h := newHarness(t)
	h.advanceTo(rules.StepFirstMain)

	bearID := h.putInHand(h.p1, bearDef())
	h.givePool(h.p1, mana.SymbolGreen, 2)
	h.apply(CastSpell{PlayerID: h.p1, CardID: bearID})

	h.apply(PassPriority{PlayerID: h.p2})

	if got := h.g.stack.Len(); got != 1 {
		t.Fatalf("stack resolved after a single pass")
	}
	if got := h.g.PriorityPlayerID(); got != h.p1 {
		t.Fatalf("priority = %s, want back to %s", got, h.p1)
	}
	if !h.g.passed[h.p2] {
		t.Fatalf("pass by %s not recorded", h.p2)
	}
}

func TestBothPassedResolvesExactlyOneItem(t *testing.T) {
	h := newHarness(t)
	h.advanceTo(rules.StepFirstMain)

	bearID := h.putInHand(h.p1, bearDef())
	h.givePool(h.p1, mana.SymbolGreen, 2)
	boltID := h.putInHand(h.p2, boltDef())
	h.givePool(h.p2, mana.SymbolRed, 1)

	h.apply(CastSpell{PlayerID: h.p1, CardID: bearID})
	h.apply(CastSpell{PlayerID: h.p2, CardID: boltID, Targets: []string{h.p1}})

	// The response put priority back on p1 with a cleared passed set.
	if got := h.g.PriorityPlayerID(); got != h.p1 {
		t.Fatalf("priority after response = %s, want %s", got, h.p1)
	}

	h.apply(PassPriority{PlayerID: h.p1})
	h.apply(PassPriority{PlayerID: h.p2})

	// LIFO: the bolt resolves first, the bear stays.
	if got := h.lifeOf(h.p1); got != startingLife-3 {
		t.Fatalf("p1 life = %d, want %d", got, startingLife-3)
	}
	if got := h.g.stack.Len(); got != 1 {
		t.Fatalf("stack = %d items after one resolution, want 1", got)
	}
	if got := h.g.PriorityPlayerID(); got != h.p1 {
		t.Fatalf("priority after resolution = %s, want active player", got)
	}
	if len(h.g.passed) != 0 {
		t.Fatalf("passed set not cleared by resolution")
	}

	// Second full round of passes resolves the bear.
	h.apply(PassPriority{PlayerID: h.p1})
	h.apply(PassPriority{PlayerID: h.p2})

	if !h.g.stack.IsEmpty() {
		t.Fatalf("stack not empty after second resolution")
	}
	found := findCard(h.g.states[h.p1].Battlefield, bearID)
	if found == nil {
		t.Fatalf("bear did not enter the battlefield on resolution")
	}
}

func TestAllPassOnEmptyStackEndsStep(t *testing.T) {
	h := newHarness(t)
	h.advanceTo(rules.StepFirstMain)

	h.apply(PassPriority{PlayerID: h.p1})
	h.apply(PassPriority{PlayerID: h.p2})

	if got := h.g.turn.Step; got != rules.StepBeginCombat {
		t.Fatalf("step = %s, want BEGINNING_OF_COMBAT after both passed", got)
	}
	if got := h.g.PriorityPlayerID(); got != h.p1 {
		t.Fatalf("priority = %s, want active player", got)
	}
}

func TestActionsRequirePriority(t *testing.T) {
	h := newHarness(t)
	h.advanceTo(rules.StepFirstMain)

	boltID := h.putInHand(h.p2, boltDef())
	h.givePool(h.p2, mana.SymbolRed, 1)

	err := h.g.Apply(CastSpell{PlayerID: h.p2, CardID: boltID, Targets: []string{h.p1}})
	if !errors.Is(err, ErrWrongPlayer) {
		t.Fatalf("cast without priority = %v, want ErrWrongPlayer", err)
	}
}

func TestAdvanceStepRequiresEmptyStack(t *testing.T) {
	h := newHarness(t)
	h.advanceTo(rules.StepFirstMain)

	boltID := h.putInHand(h.p1, boltDef())
	h.givePool(h.p1, mana.SymbolRed, 1)
	h.apply(CastSpell{PlayerID: h.p1, CardID: boltID, Targets: []string{h.p2}})

	// Pass back to p1 so they hold priority with a loaded stack.
	h.apply(PassPriority{PlayerID: h.p2})

	if err := h.g.Apply(AdvanceStep{PlayerID: h.p1}); !errors.Is(err, ErrStackNotEmpty) {
		t.Fatalf("advance with loaded stack = %v, want ErrStackNotEmpty", err)
	}
}

func TestOnlyActivePlayerAdvances(t *testing.T) {
	h := newHarness(t)
	h.advanceTo(rules.StepFirstMain)

	h.apply(PassPriority{PlayerID: h.p1})

	if err := h.g.Apply(AdvanceStep{PlayerID: h.p2}); !errors.Is(err, ErrWrongPlayer) {
		t.Fatalf("non-active advance = %v, want ErrWrongPlayer", err)
	}
}
