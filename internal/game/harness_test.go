package game

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/openduel/duel-server-go/internal/game/mana"
	"github.com/openduel/duel-server-go/internal/game/rules"
)

// Shared fixtures for engine tests: minimal card definitions and a seated,
// started two-player game with direct battlefield placement.

func forestDef() *CardDefinition {
	return &CardDefinition{
		Name:  "Forest",
		Types: []CardType{TypeLand},
		Ability: &ActivatedAbility{
			Description: "Add {G}",
			Costs:       []Cost{TapSelf{}},
			Effect: func(g *Game, ctx EffectContext) error {
				return g.AddMana(ctx.ControllerID, mana.SymbolGreen, 1)
			},
		},
	}
}

func bearDef() *CardDefinition {
	return &CardDefinition{
		Name:      "Bear",
		Types:     []CardType{TypeCreature},
		ManaCost:  mana.MustCost("{1}{G}"),
		Power:     2,
		Toughness: 2,
	}
}

func vanillaCreature(name string, power, toughness int) *CardDefinition {
	return &CardDefinition{
		Name:      name,
		Types:     []CardType{TypeCreature},
		Power:     power,
		Toughness: toughness,
	}
}

// boltDef is a one-shot: three damage to the targeted player.
func boltDef() *CardDefinition {
	return &CardDefinition{
		Name:     "Bolt",
		Types:    []CardType{TypeInstant},
		ManaCost: mana.MustCost("{R}"),
		SpellEffect: func(g *Game, ctx EffectContext) error {
			if len(ctx.Targets) == 0 {
				return nil
			}
			return g.DealDamageToPlayer(ctx.Targets[0], 3)
		},
	}
}

func testDeck() []*CardDefinition {
	deck := make([]*CardDefinition, 0, 20)
	for i := 0; i < 10; i++ {
		deck = append(deck, forestDef())
	}
	for i := 0; i < 10; i++ {
		deck = append(deck, bearDef())
	}
	return deck
}

type harness struct {
	t  *testing.T
	g  *Game
	p1 string
	p2 string
}

// newHarness seats two players with 20-card decks (forests on top) and
// starts the game with p1 as starting player.
func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithDecks(t, testDeck(), testDeck())
}

func newHarnessWithDecks(t *testing.T, d1, d2 []*CardDefinition) *harness {
	t.Helper()
	g := NewGame("game-under-test", zaptest.NewLogger(t))
	if err := g.AddPlayer("p1", "Alice", d1); err != nil {
		t.Fatalf("seating p1: %v", err)
	}
	if err := g.AddPlayer("p2", "Bob", d2); err != nil {
		t.Fatalf("seating p2: %v", err)
	}
	if err := g.Start("p1"); err != nil {
		t.Fatalf("starting game: %v", err)
	}
	return &harness{t: t, g: g, p1: "p1", p2: "p2"}
}

// apply runs an action and fails the test on rejection.
func (h *harness) apply(a Action) {
	h.t.Helper()
	if err := h.g.Apply(a); err != nil {
		h.t.Fatalf("applying %s for %s: %v", a.Type(), a.Player(), err)
	}
}

// place puts a fresh instance of the definition straight onto the player's
// battlefield without firing any events.
func (h *harness) place(playerID string, def *CardDefinition) string {
	h.t.Helper()
	ci := &CardInstance{ID: h.g.nextID("c"), OwnerID: playerID, Def: def}
	ps := h.g.states[playerID]
	ps.Battlefield = append(ps.Battlefield, ci)
	h.g.permanents[ci.ID] = NewPermanentState(def.IsCreature())
	return ci.ID
}

// placeReady places a creature with summoning sickness already worn off.
func (h *harness) placeReady(playerID string, def *CardDefinition) string {
	h.t.Helper()
	id := h.place(playerID, def)
	h.g.permanents[id] = h.g.permanents[id].WithSummoningSick(false)
	return id
}

// putInHand adds a fresh instance of the definition to the player's hand.
func (h *harness) putInHand(playerID string, def *CardDefinition) string {
	h.t.Helper()
	ci := &CardInstance{ID: h.g.nextID("c"), OwnerID: playerID, Def: def}
	ps := h.g.states[playerID]
	ps.Hand = append(ps.Hand, ci)
	return ci.ID
}

// givePool adds mana directly to the player's pool.
func (h *harness) givePool(playerID string, sym mana.Symbol, amount int) {
	h.t.Helper()
	if err := h.g.AddMana(playerID, sym, amount); err != nil {
		h.t.Fatalf("adding mana: %v", err)
	}
}

// advanceTo advances steps until the game sits at the wanted step. It is a
// no-op when already there.
func (h *harness) advanceTo(step rules.Step) {
	h.t.Helper()
	for i := 0; i < 2*rules.StepCount; i++ {
		if h.g.turn.Step == step {
			return
		}
		h.apply(AdvanceStep{PlayerID: h.g.turn.ActivePlayerID})
	}
	h.t.Fatalf("never reached step %s, stuck at %s", step, h.g.turn.Step)
}

func (h *harness) state(permanentID string) PermanentState {
	h.t.Helper()
	st, ok := h.g.permanents[permanentID]
	if !ok {
		h.t.Fatalf("no permanent state for %s", permanentID)
	}
	return st
}

func (h *harness) lifeOf(playerID string) int {
	h.t.Helper()
	p := h.g.playerByID(playerID)
	if p == nil {
		h.t.Fatalf("unknown player %s", playerID)
	}
	return p.Life
}

func (h *harness) graveyardNames(playerID string) []string {
	h.t.Helper()
	var names []string
	for _, ci := range h.g.states[playerID].Graveyard {
		names = append(names, ci.Def.Name)
	}
	return names
}
