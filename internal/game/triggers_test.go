package game

import (
	"testing"

	"github.com/openduel/duel-server-go/internal/game/mana"
	"github.com/openduel/duel-server-go/internal/game/rules"
)

func entersBattlefieldSelf(g *Game, ev rules.Event, source *CardInstance) bool {
	return ev.EnteredBattlefield() && ev.CardID == source.ID
}

func TestEntryTriggerFiresOnResolution(t *testing.T) {
	h := newHarness(t)
	h.advanceTo(rules.StepFirstMain)

	visionary := &CardDefinition{
		Name:      "Visionary",
		Types:     []CardType{TypeCreature},
		ManaCost:  mana.MustCost("{1}{G}"),
		Power:     1,
		Toughness: 1,
		Triggers: []Trigger{{
			Event:       rules.EventZoneChanged,
			Description: "When this creature enters the battlefield, draw a card",
			Condition:   entersBattlefieldSelf,
			Effect: func(g *Game, ctx EffectContext) error {
				return g.DrawCards(ctx.ControllerID, 1)
			},
		}},
	}
	cardID := h.putInHand(h.p1, visionary)
	h.givePool(h.p1, mana.SymbolGreen, 2)

	handBefore := len(h.g.states[h.p1].Hand)
	h.apply(CastSpell{PlayerID: h.p1, CardID: cardID})
	h.apply(PassPriority{PlayerID: h.p2})
	h.apply(PassPriority{PlayerID: h.p1})

	// Cast removed one card, the entry trigger drew one.
	if got := len(h.g.states[h.p1].Hand); got != handBefore {
		t.Fatalf("hand = %d, want %d (cast one, drew one)", got, handBefore)
	}
	if findCard(h.g.states[h.p1].Battlefield, cardID) == nil {
		t.Fatalf("creature not on battlefield")
	}
}

func TestUpkeepTriggerFiresForControllerOnly(t *testing.T) {
	h := newHarness(t)

	fired := map[string]int{}
	upkeepDef := func(name string) *CardDefinition {
		return &CardDefinition{
			Name:  name,
			Types: []CardType{TypeEnchantment},
			Triggers: []Trigger{{
				Event:       rules.EventStepStarted,
				Description: "At the beginning of your upkeep, note it",
				Condition: func(g *Game, ev rules.Event, source *CardInstance) bool {
					if ev.Step != rules.StepUpkeep {
						return false
					}
					_, controller, ok := g.FindPermanent(source.ID)
					return ok && controller == ev.PlayerID
				},
				Effect: func(g *Game, ctx EffectContext) error {
					fired[ctx.ControllerID]++
					return nil
				},
			}},
		}
	}
	h.place(h.p1, upkeepDef("Chronicle"))
	h.place(h.p2, upkeepDef("Chronicle"))

	h.advanceTo(rules.StepUpkeep)

	if fired[h.p1] != 1 || fired[h.p2] != 0 {
		t.Fatalf("fired = %v, want p1 only on p1's upkeep", fired)
	}

	// Next turn it is p2's upkeep.
	h.advanceTo(rules.StepEnd)
	h.apply(AdvanceStep{PlayerID: h.p1})
	h.apply(AdvanceStep{PlayerID: h.p2})

	if fired[h.p1] != 1 || fired[h.p2] != 1 {
		t.Fatalf("fired = %v, want one each after both upkeeps", fired)
	}
}

func TestAttackTriggerGrowsTheAttacker(t *testing.T) {
	h := newHarness(t)

	raider := vanillaCreature("Raider", 2, 2)
	raider.Triggers = []Trigger{{
		Event:       rules.EventCreatureDeclaredAttacker,
		Description: "Whenever this creature attacks, put a +1/+1 counter on it",
		Condition: func(g *Game, ev rules.Event, source *CardInstance) bool {
			return ev.CardID == source.ID
		},
		Effect: func(g *Game, ctx EffectContext) error {
			return g.AddCounters(ctx.Event.CardID, CounterPlusOnePlusOne, 1)
		},
	}}
	raiderID := h.placeReady(h.p1, raider)

	h.advanceTo(rules.StepDeclareAttackers)
	h.apply(DeclareAttacker{PlayerID: h.p1, CreatureID: raiderID})

	if got := h.state(raiderID).CounterCount(CounterPlusOnePlusOne); got != 1 {
		t.Fatalf("counters = %d, want 1", got)
	}

	ci, _, _ := h.g.FindPermanent(raiderID)
	if got := h.g.effectivePower(ci); got != 3 {
		t.Fatalf("effective power = %d, want 3", got)
	}

	// The grown attacker hits for 3 unblocked.
	h.advanceTo(rules.StepCombatDamage)
	if got := h.lifeOf(h.p2); got != startingLife-3 {
		t.Fatalf("defender life = %d, want %d", got, startingLife-3)
	}
}

func TestTriggerDiscoveryFollowsTurnOrder(t *testing.T) {
	h := newHarness(t)

	var order []string
	noteDef := func(name string) *CardDefinition {
		return &CardDefinition{
			Name:  name,
			Types: []CardType{TypeEnchantment},
			Triggers: []Trigger{{
				Event:       rules.EventCombatEnded,
				Description: "At end of combat, note it",
				Effect: func(g *Game, ctx EffectContext) error {
					order = append(order, ctx.SourceName)
					return nil
				},
			}},
		}
	}
	h.place(h.p2, noteDef("Second"))
	h.place(h.p1, noteDef("First"))

	h.advanceTo(rules.StepEndCombat)

	if len(order) != 2 || order[0] != "First" || order[1] != "Second" {
		t.Fatalf("order = %v, want [First Second] (seating order, not placement order)", order)
	}
}

func TestTriggerConditionFilters(t *testing.T) {
	h := newHarness(t)

	fired := 0
	picky := &CardDefinition{
		Name:  "Picky",
		Types: []CardType{TypeEnchantment},
		Triggers: []Trigger{{
			Event:       rules.EventSpellResolved,
			Description: "Whenever you cast a creature spell, note it",
			Condition: func(g *Game, ev rules.Event, source *CardInstance) bool {
				_, controller, ok := g.FindPermanent(source.ID)
				return ok && controller == ev.ControllerID
			},
			Effect: func(g *Game, ctx EffectContext) error {
				fired++
				return nil
			},
		}},
	}
	h.place(h.p1, picky)
	h.advanceTo(rules.StepFirstMain)

	// p2's spell does not satisfy the condition.
	boltID := h.putInHand(h.p2, boltDef())
	h.givePool(h.p2, mana.SymbolRed, 1)
	h.apply(PassPriority{PlayerID: h.p1})
	h.apply(CastSpell{PlayerID: h.p2, CardID: boltID, Targets: []string{h.p1}})
	h.apply(PassPriority{PlayerID: h.p1})
	h.apply(PassPriority{PlayerID: h.p2})

	if fired != 0 {
		t.Fatalf("fired = %d for opponent's spell, want 0", fired)
	}

	// p1's own spell does.
	ownBoltID := h.putInHand(h.p1, boltDef())
	h.givePool(h.p1, mana.SymbolRed, 1)
	h.apply(CastSpell{PlayerID: h.p1, CardID: ownBoltID, Targets: []string{h.p2}})
	h.apply(PassPriority{PlayerID: h.p2})
	h.apply(PassPriority{PlayerID: h.p1})

	if fired != 1 {
		t.Fatalf("fired = %d for own spell, want 1", fired)
	}
}
