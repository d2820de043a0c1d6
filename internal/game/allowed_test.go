package game

import (
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/openduel/duel-server-go/internal/game/mana"
	"github.com/openduel/duel-server-go/internal/game/rules"
)

func hasAction(actions []ActionType, want ActionType) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}

func TestAllowedEmptyWithoutPriority(t *testing.T) {
	h := newHarness(t)

	if got := h.g.AllowedActionsFor(h.p2); got != nil {
		t.Fatalf("allowed for non-holder = %v, want nil", got)
	}
	if got := h.g.AllowedActionsFor("stranger"); got != nil {
		t.Fatalf("allowed for outsider = %v, want nil", got)
	}

	unstarted := NewGame("pending", zaptest.NewLogger(t))
	if got := unstarted.AllowedActionsFor(h.p1); got != nil {
		t.Fatalf("allowed before start = %v, want nil", got)
	}
}

func TestAllowedBaselineAtUntap(t *testing.T) {
	h := newHarness(t)

	// Opening hand is all forests: nothing castable, no battlefield, and
	// untap is not a main step, so only the three universal actions show.
	got := h.g.AllowedActionsFor(h.p1)
	want := []ActionType{ActionAdvanceStep, ActionEndTurn, ActionPassPriority}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("allowed = %v, want %v", got, want)
	}
}

func TestAllowedPlayLandOnlyInMainWithBudget(t *testing.T) {
	h := newHarness(t)

	h.advanceTo(rules.StepDraw)
	if hasAction(h.g.AllowedActionsFor(h.p1), ActionPlayLand) {
		t.Fatalf("PLAY_LAND offered outside a main step")
	}

	h.advanceTo(rules.StepFirstMain)
	if !hasAction(h.g.AllowedActionsFor(h.p1), ActionPlayLand) {
		t.Fatalf("PLAY_LAND missing in first main with a land in hand")
	}

	landID := h.g.states[h.p1].Hand[0].ID
	h.apply(PlayLand{PlayerID: h.p1, CardID: landID})
	if hasAction(h.g.AllowedActionsFor(h.p1), ActionPlayLand) {
		t.Fatalf("PLAY_LAND offered after the per-turn land was used")
	}
}

func TestAllowedCastSpellTracksAffordability(t *testing.T) {
	h := newHarness(t)
	h.advanceTo(rules.StepFirstMain)

	h.putInHand(h.p1, bearDef())
	if hasAction(h.g.AllowedActionsFor(h.p1), ActionCastSpell) {
		t.Fatalf("CAST_SPELL offered with an empty pool")
	}

	h.givePool(h.p1, mana.SymbolGreen, 2)
	if !hasAction(h.g.AllowedActionsFor(h.p1), ActionCastSpell) {
		t.Fatalf("CAST_SPELL missing with the cost covered")
	}
}

func TestAllowedAdvanceNeedsEmptyStack(t *testing.T) {
	h := newHarness(t)
	h.advanceTo(rules.StepFirstMain)

	bearID := h.putInHand(h.p1, bearDef())
	h.givePool(h.p1, mana.SymbolGreen, 2)
	h.apply(CastSpell{PlayerID: h.p1, CardID: bearID})
	h.apply(PassPriority{PlayerID: h.p2})

	// p1 holds priority as active player, but the pending spell blocks a
	// step advance.
	got := h.g.AllowedActionsFor(h.p1)
	if hasAction(got, ActionAdvanceStep) {
		t.Fatalf("ADVANCE_STEP offered with a loaded stack: %v", got)
	}
	if !hasAction(got, ActionPassPriority) || !hasAction(got, ActionEndTurn) {
		t.Fatalf("universal actions missing: %v", got)
	}
}

func TestAllowedCombatDeclarations(t *testing.T) {
	h := newHarness(t)
	attackerID := h.placeReady(h.p1, bearDef())
	h.placeReady(h.p2, vanillaCreature("Guard", 1, 3))

	h.advanceTo(rules.StepDeclareAttackers)
	if !hasAction(h.g.AllowedActionsFor(h.p1), ActionDeclareAttacker) {
		t.Fatalf("DECLARE_ATTACKER missing with an untapped creature")
	}

	h.apply(DeclareAttacker{PlayerID: h.p1, CreatureID: attackerID})
	if hasAction(h.g.AllowedActionsFor(h.p1), ActionDeclareAttacker) {
		t.Fatalf("DECLARE_ATTACKER offered with no eligible creature left")
	}

	h.apply(AdvanceStep{PlayerID: h.p1})
	h.apply(PassPriority{PlayerID: h.p1})

	got := h.g.AllowedActionsFor(h.p2)
	if !hasAction(got, ActionDeclareBlocker) {
		t.Fatalf("DECLARE_BLOCKER missing for the defender: %v", got)
	}
	if hasAction(got, ActionAdvanceStep) {
		t.Fatalf("ADVANCE_STEP offered to the non-active player: %v", got)
	}

	guardID := h.g.states[h.p2].Battlefield[0].ID
	h.apply(DeclareBlocker{PlayerID: h.p2, BlockerID: guardID, AttackerID: attackerID})
	if hasAction(h.g.AllowedActionsFor(h.p2), ActionDeclareBlocker) {
		t.Fatalf("DECLARE_BLOCKER offered with every attacker blocked")
	}
}

func TestAllowedActivateAbilityByCostRules(t *testing.T) {
	h := newHarness(t)

	// A tapped land can still announce its tap ability; only creature
	// sources demand the untapped state.
	forestID := h.place(h.p1, forestDef())
	h.g.permanents[forestID] = h.g.permanents[forestID].WithTapped(true)
	if !hasAction(h.g.AllowedActionsFor(h.p1), ActionActivateAbility) {
		t.Fatalf("ACTIVATE_ABILITY missing for a tapped non-creature source")
	}

	h2 := newHarness(t)
	elf := vanillaCreature("Elf", 1, 1)
	elf.Ability = &ActivatedAbility{
		Description: "Add {G}",
		Costs:       []Cost{TapSelf{}},
		Effect: func(g *Game, ctx EffectContext) error {
			return g.AddMana(ctx.ControllerID, mana.SymbolGreen, 1)
		},
	}
	elfID := h2.placeReady(h2.p1, elf)
	h2.g.permanents[elfID] = h2.g.permanents[elfID].WithTapped(true)
	if hasAction(h2.g.AllowedActionsFor(h2.p1), ActionActivateAbility) {
		t.Fatalf("ACTIVATE_ABILITY offered for a tapped creature source")
	}
}

func TestAllowedNothingDuringCleanup(t *testing.T) {
	h := newHarness(t)

	// The game never rests in cleanup on its own; force the step to check
	// the guard directly.
	h.g.turn = h.g.turn.WithStep(rules.StepCleanup)
	if got := h.g.AllowedActionsFor(h.p1); got != nil {
		t.Fatalf("allowed during cleanup = %v, want nil", got)
	}
}
