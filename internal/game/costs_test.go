package game

import (
	"errors"
	"testing"

	"github.com/openduel/duel-server-go/internal/game/mana"
	"github.com/openduel/duel-server-go/internal/game/rules"
)

func TestPayAllValidatesBeforePayingAnything(t *testing.T) {
	h := newHarness(t)

	// Tap is payable, the mana is not: nothing at all may be paid.
	def := &CardDefinition{
		Name:  "Clockwork Idol",
		Types: []CardType{TypeArtifact},
		Ability: &ActivatedAbility{
			Description: "{T}, {2}: Draw a card",
			Costs:       []Cost{TapSelf{}, PayMana{Amount: mana.MustCost("{2}")}},
			Effect: func(g *Game, ctx EffectContext) error {
				return g.DrawCards(ctx.ControllerID, 1)
			},
		},
	}
	idolID := h.place(h.p1, def)

	err := h.g.Apply(ActivateAbility{PlayerID: h.p1, PermanentID: idolID})
	if !errors.Is(err, ErrCannotPayCosts) {
		t.Fatalf("activation = %v, want ErrCannotPayCosts", err)
	}
	if h.state(idolID).Tapped {
		t.Fatalf("tap cost paid despite unpayable mana cost")
	}
	if !h.g.stack.IsEmpty() {
		t.Fatalf("ability reached the stack despite failed payment")
	}
}

func TestTapSelfRequiresUntappedCreature(t *testing.T) {
	h := newHarness(t)
	def := vanillaCreature("Tapper", 1, 1)
	def.Ability = &ActivatedAbility{
		Description: "{T}: Add {W}",
		Costs:       []Cost{TapSelf{}},
		Effect: func(g *Game, ctx EffectContext) error {
			return g.AddMana(ctx.ControllerID, mana.SymbolWhite, 1)
		},
	}
	id := h.placeReady(h.p1, def)
	h.g.permanents[id] = h.g.permanents[id].WithTapped(true)

	if (TapSelf{}).CanPay(h.g, CostContext{PlayerID: h.p1, PermanentID: id}) {
		t.Fatalf("tapped creature must not pay a tap cost")
	}
	if err := h.g.Apply(ActivateAbility{PlayerID: h.p1, PermanentID: id}); !errors.Is(err, ErrCannotPayCosts) {
		t.Fatalf("activation = %v, want ErrCannotPayCosts", err)
	}
}

func TestTapSelfNonCreatureIsAlwaysPayable(t *testing.T) {
	h := newHarness(t)
	forestID := h.place(h.p1, forestDef())
	h.g.permanents[forestID] = h.g.permanents[forestID].WithTapped(true)

	// Non-creature permanents never fail the tap cost.
	if !(TapSelf{}.CanPay(h.g, CostContext{PlayerID: h.p1, PermanentID: forestID})) {
		t.Fatalf("tapped land should still be payable")
	}
}

func TestSacrificeCostFiresSameDiesTriggerAsLethalDamage(t *testing.T) {
	h := newHarness(t)

	var observed []string
	observer := &CardDefinition{
		Name:  "Watcher",
		Types: []CardType{TypeEnchantment},
		Triggers: []Trigger{{
			Event:       rules.EventZoneChanged,
			Description: "Whenever another creature dies, note it",
			Condition: func(g *Game, ev rules.Event, source *CardInstance) bool {
				return ev.Died() && ev.CardID != source.ID
			},
			Effect: func(g *Game, ctx EffectContext) error {
				observed = append(observed, ctx.Event.CardName)
				return nil
			},
		}},
	}
	h.place(h.p1, observer)

	sacrificial := vanillaCreature("Offering", 1, 1)
	sacrificial.Ability = &ActivatedAbility{
		Description: "Sacrifice this creature: no effect",
		Costs:       []Cost{SacrificeSelf{}},
	}
	sacID := h.placeReady(h.p1, sacrificial)

	// Path one: sacrifice as a cost. The cost is paid at activation, so
	// the trigger fires before the ability even resolves.
	h.apply(ActivateAbility{PlayerID: h.p1, PermanentID: sacID})
	if len(observed) != 1 || observed[0] != "Offering" {
		t.Fatalf("observed = %v, want [Offering] after sacrifice", observed)
	}
	if findCard(h.g.states[h.p1].Graveyard, sacID) == nil {
		t.Fatalf("sacrificed creature not in owner's graveyard")
	}

	// Let the empty ability resolve off the stack.
	h.apply(PassPriority{PlayerID: h.p2})
	h.apply(PassPriority{PlayerID: h.p1})

	// Path two: lethal combat damage. Both paths look identical to the
	// observer.
	attackerID := h.placeReady(h.p1, bearDef())
	blockerID := h.placeReady(h.p2, vanillaCreature("Wall", 0, 2))
	h.advanceTo(rules.StepDeclareAttackers)
	h.apply(DeclareAttacker{PlayerID: h.p1, CreatureID: attackerID})
	declareBlock(h, blockerID, attackerID)
	finishCombatDamage(h)

	if len(observed) != 2 || observed[1] != "Wall" {
		t.Fatalf("observed = %v, want [Offering Wall]", observed)
	}
}

func TestCanPayAllIsSideEffectFree(t *testing.T) {
	h := newHarness(t)
	forestID := h.place(h.p1, forestDef())
	h.givePool(h.p1, mana.SymbolGreen, 2)

	costs := []Cost{TapSelf{}, PayMana{Amount: mana.MustCost("{G}")}}
	ctx := CostContext{PlayerID: h.p1, PermanentID: forestID}

	if !CanPayAll(h.g, costs, ctx) {
		t.Fatalf("costs should be payable")
	}
	if h.state(forestID).Tapped {
		t.Fatalf("CanPayAll tapped the permanent")
	}
	pool, _ := h.g.ManaPool(h.p1)
	if pool.Amount(mana.SymbolGreen) != 2 {
		t.Fatalf("CanPayAll spent mana: %s", pool)
	}
}
