package cards

import (
	"errors"
	"fmt"

	"github.com/openduel/duel-server-go/internal/game"
	"github.com/openduel/duel-server-go/internal/game/mana"
	"github.com/openduel/duel-server-go/internal/game/rules"
)

// errNoTarget surfaces in the resolution log when a targeted card resolves
// without a target.
var errNoTarget = errors.New("no target chosen")

// basicLand builds a land that taps for one mana of the given symbol. The
// tap ability goes on the stack like every other ability.
func basicLand(name string, symbol mana.Symbol) *game.CardDefinition {
	return &game.CardDefinition{
		Name:  name,
		Types: []game.CardType{game.TypeLand},
		Ability: &game.ActivatedAbility{
			Description: fmt.Sprintf("{T}: Add {%s}.", symbol),
			Costs:       []game.Cost{game.TapSelf{}},
			Effect: func(g *game.Game, ctx game.EffectContext) error {
				return g.AddMana(ctx.ControllerID, symbol, 1)
			},
		},
	}
}

// damageAnyTarget builds an effect that deals amount damage to the first
// target: a creature on the battlefield, or a player. Creature damage is
// marked and stays until state-based actions check it.
func damageAnyTarget(amount int) game.EffectFunc {
	return func(g *game.Game, ctx game.EffectContext) error {
		if len(ctx.Targets) == 0 {
			return errNoTarget
		}
		id := ctx.Targets[0]
		if ci, _, ok := g.FindPermanent(id); ok {
			if !ci.Def.IsCreature() {
				return fmt.Errorf("target %s is not a creature", id)
			}
			return g.DealDamageToCreature(id, amount)
		}
		return g.DealDamageToPlayer(id, amount)
	}
}

// Plains — basic land. {T}: Add {W}.
func Plains() *game.CardDefinition { return basicLand("Plains", mana.SymbolWhite) }

// Island — basic land. {T}: Add {U}.
func Island() *game.CardDefinition { return basicLand("Island", mana.SymbolBlue) }

// Swamp — basic land. {T}: Add {B}.
func Swamp() *game.CardDefinition { return basicLand("Swamp", mana.SymbolBlack) }

// Mountain — basic land. {T}: Add {R}.
func Mountain() *game.CardDefinition { return basicLand("Mountain", mana.SymbolRed) }

// Forest — basic land. {T}: Add {G}.
func Forest() *game.CardDefinition { return basicLand("Forest", mana.SymbolGreen) }

// GrizzlyBears — {1}{G} creature, 2/2, no abilities.
func GrizzlyBears() *game.CardDefinition {
	return &game.CardDefinition{
		Name:      "Grizzly Bears",
		Types:     []game.CardType{game.TypeCreature},
		ManaCost:  mana.MustCost("{1}{G}"),
		Power:     2,
		Toughness: 2,
	}
}

// HillGiant — {3}{R} creature, 3/3, no abilities.
func HillGiant() *game.CardDefinition {
	return &game.CardDefinition{
		Name:      "Hill Giant",
		Types:     []game.CardType{game.TypeCreature},
		ManaCost:  mana.MustCost("{3}{R}"),
		Power:     3,
		Toughness: 3,
	}
}

// ElvishVisionary — {1}{G} creature, 1/1. Draws its controller a card when
// it enters the battlefield.
func ElvishVisionary() *game.CardDefinition {
	return &game.CardDefinition{
		Name:      "Elvish Visionary",
		Types:     []game.CardType{game.TypeCreature},
		ManaCost:  mana.MustCost("{1}{G}"),
		Power:     1,
		Toughness: 1,
		Triggers: []game.Trigger{{
			Event:       rules.EventZoneChanged,
			Description: "When Elvish Visionary enters the battlefield, draw a card.",
			Condition: func(_ *game.Game, ev rules.Event, source *game.CardInstance) bool {
				return ev.EnteredBattlefield() && ev.CardID == source.ID
			},
			Effect: func(g *game.Game, ctx game.EffectContext) error {
				return g.DrawCards(ctx.ControllerID, 1)
			},
		}},
	}
}

// BloodArtist — {1}{B} creature, 0/1. Whenever another creature dies, the
// opponent loses 1 life and Blood Artist's controller gains 1 life. The
// death of Blood Artist itself never fires the trigger: dies triggers only
// run for permanents still on the battlefield.
func BloodArtist() *game.CardDefinition {
	return &game.CardDefinition{
		Name:      "Blood Artist",
		Types:     []game.CardType{game.TypeCreature},
		ManaCost:  mana.MustCost("{1}{B}"),
		Power:     0,
		Toughness: 1,
		Triggers: []game.Trigger{{
			Event:       rules.EventZoneChanged,
			Description: "Whenever another creature dies, the opponent loses 1 life and you gain 1 life.",
			Condition: func(_ *game.Game, ev rules.Event, source *game.CardInstance) bool {
				if !ev.Died() || ev.CardID == source.ID {
					return false
				}
				def, ok := Lookup(ev.CardName)
				return ok && def.IsCreature()
			},
			Effect: func(g *game.Game, ctx game.EffectContext) error {
				if err := g.DealDamageToPlayer(g.OpponentOf(ctx.ControllerID), 1); err != nil {
					return err
				}
				return g.GainLife(ctx.ControllerID, 1)
			},
		}},
	}
}

// FalkenrathExterminator — {1}{R} creature, 1/1. Grows by a +1/+1 counter
// whenever it attacks.
func FalkenrathExterminator() *game.CardDefinition {
	return &game.CardDefinition{
		Name:      "Falkenrath Exterminator",
		Types:     []game.CardType{game.TypeCreature},
		ManaCost:  mana.MustCost("{1}{R}"),
		Power:     1,
		Toughness: 1,
		Triggers: []game.Trigger{{
			Event:       rules.EventCreatureDeclaredAttacker,
			Description: "Whenever Falkenrath Exterminator attacks, put a +1/+1 counter on it.",
			Condition: func(_ *game.Game, ev rules.Event, source *game.CardInstance) bool {
				return ev.CardID == source.ID
			},
			Effect: func(g *game.Game, ctx game.EffectContext) error {
				return g.AddCounters(ctx.SourceID, game.CounterPlusOnePlusOne, 1)
			},
		}},
	}
}

// BloodPet — {B} creature, 1/1. Sacrifices itself for {B}. The sacrifice is
// paid at announcement; the mana arrives when the ability resolves.
func BloodPet() *game.CardDefinition {
	return &game.CardDefinition{
		Name:      "Blood Pet",
		Types:     []game.CardType{game.TypeCreature},
		ManaCost:  mana.MustCost("{B}"),
		Power:     1,
		Toughness: 1,
		Ability: &game.ActivatedAbility{
			Description: "Sacrifice Blood Pet: Add {B}.",
			Costs:       []game.Cost{game.SacrificeSelf{}},
			Effect: func(g *game.Game, ctx game.EffectContext) error {
				return g.AddMana(ctx.ControllerID, mana.SymbolBlack, 1)
			},
		},
	}
}

// RodOfRuin — {4} artifact. {3}, {T}: deal 1 damage to any target.
func RodOfRuin() *game.CardDefinition {
	return &game.CardDefinition{
		Name:     "Rod of Ruin",
		Types:    []game.CardType{game.TypeArtifact},
		ManaCost: mana.MustCost("{4}"),
		Ability: &game.ActivatedAbility{
			Description: "{3}, {T}: Rod of Ruin deals 1 damage to any target.",
			Costs: []game.Cost{
				game.PayMana{Amount: mana.MustCost("{3}")},
				game.TapSelf{},
			},
			Effect: damageAnyTarget(1),
		},
	}
}

// HondenOfCleansingFire — {3}{W} enchantment. Gains its controller 2 life
// at the beginning of their upkeep.
func HondenOfCleansingFire() *game.CardDefinition {
	return &game.CardDefinition{
		Name:     "Honden of Cleansing Fire",
		Types:    []game.CardType{game.TypeEnchantment},
		ManaCost: mana.MustCost("{3}{W}"),
		Triggers: []game.Trigger{{
			Event:       rules.EventStepStarted,
			Description: "At the beginning of your upkeep, you gain 2 life.",
			Condition: func(_ *game.Game, ev rules.Event, source *game.CardInstance) bool {
				return ev.Step == rules.StepUpkeep && ev.PlayerID == source.OwnerID
			},
			Effect: func(g *game.Game, ctx game.EffectContext) error {
				return g.GainLife(ctx.ControllerID, 2)
			},
		}},
	}
}

// LightningBolt — {R} instant. Deals 3 damage to any target.
func LightningBolt() *game.CardDefinition {
	return &game.CardDefinition{
		Name:        "Lightning Bolt",
		Types:       []game.CardType{game.TypeInstant},
		ManaCost:    mana.MustCost("{R}"),
		SpellEffect: damageAnyTarget(3),
	}
}

// LavaSpike — {R} sorcery. Deals 3 damage to target player.
func LavaSpike() *game.CardDefinition {
	return &game.CardDefinition{
		Name:     "Lava Spike",
		Types:    []game.CardType{game.TypeSorcery},
		ManaCost: mana.MustCost("{R}"),
		SpellEffect: func(g *game.Game, ctx game.EffectContext) error {
			if len(ctx.Targets) == 0 {
				return errNoTarget
			}
			return g.DealDamageToPlayer(ctx.Targets[0], 3)
		},
	}
}

// DoomBlade — {1}{B} instant. Destroys target creature. A target that left
// the battlefield before resolution fizzles the spell.
func DoomBlade() *game.CardDefinition {
	return &game.CardDefinition{
		Name:     "Doom Blade",
		Types:    []game.CardType{game.TypeInstant},
		ManaCost: mana.MustCost("{1}{B}"),
		SpellEffect: func(g *game.Game, ctx game.EffectContext) error {
			if len(ctx.Targets) == 0 {
				return errNoTarget
			}
			id := ctx.Targets[0]
			ci, _, ok := g.FindPermanent(id)
			if !ok {
				return fmt.Errorf("target %s left the battlefield", id)
			}
			if !ci.Def.IsCreature() {
				return fmt.Errorf("target %s is not a creature", id)
			}
			return g.MoveToGraveyard(id, "destroyed")
		},
	}
}

// RelentlessAssault — {2}{R}{R} sorcery. Readies this turn's attackers and
// schedules an extra combat followed by an extra main phase. Cast after
// combat, the extra steps run out before the end step.
func RelentlessAssault() *game.CardDefinition {
	return &game.CardDefinition{
		Name:     "Relentless Assault",
		Types:    []game.CardType{game.TypeSorcery},
		ManaCost: mana.MustCost("{2}{R}{R}"),
		SpellEffect: func(g *game.Game, ctx game.EffectContext) error {
			g.ReadyAttackers(ctx.ControllerID)
			g.AddScheduledSteps([]rules.Step{
				rules.StepBeginCombat,
				rules.StepDeclareAttackers,
				rules.StepDeclareBlockers,
				rules.StepCombatDamage,
				rules.StepEndCombat,
				rules.StepFirstMain,
			})
			return nil
		},
	}
}
