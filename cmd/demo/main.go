// Command demo plays a scripted duel between Alice and Bob against a live
// engine, printing filtered views at each notable moment. The script touches
// every action type: lands, mana abilities, spells, triggers, combat with and
// without blocks, the end-turn fast-forward, and a concession.
package main

import (
	"encoding/json"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/openduel/duel-server-go/internal/cards"
	"github.com/openduel/duel-server-go/internal/game"
	"github.com/openduel/duel-server-go/internal/game/rules"
	"github.com/openduel/duel-server-go/internal/view"
)

func main() {
	log.SetFlags(0)

	g := game.NewGame("demo", zap.NewNop())
	seat(g, "alice", "Alice",
		"Mountain", "Falkenrath Exterminator", "Mountain", "Lightning Bolt",
		"Mountain", "Mountain", "Mountain",
		"Lightning Bolt", "Mountain", "Lava Spike", "Mountain")
	seat(g, "bob", "Bob",
		"Forest", "Elvish Visionary", "Forest", "Grizzly Bears",
		"Forest", "Grizzly Bears", "Forest",
		"Forest", "Forest", "Forest", "Grizzly Bears")
	if err := g.Start("alice"); err != nil {
		log.Fatalf("start: %v", err)
	}

	d := driver{g: g}
	d.show("Game start, Alice's view", "alice")

	// Turn 1: Alice opens with a Mountain. Ending the turn fast-forwards
	// the remaining steps straight to Bob's untap.
	d.advanceTo(rules.StepFirstMain)
	d.playLand("alice", "Mountain")
	d.apply(game.EndTurn{PlayerID: "alice"})

	// Turn 2: Bob does the same with a Forest.
	d.advanceTo(rules.StepFirstMain)
	d.playLand("bob", "Forest")
	d.apply(game.EndTurn{PlayerID: "bob"})

	// Turn 3: Alice taps both Mountains and casts Falkenrath Exterminator.
	d.advanceTo(rules.StepFirstMain)
	d.playLand("alice", "Mountain")
	d.tapForMana("alice", "Mountain")
	d.tapForMana("alice", "Mountain")
	d.castAndResolve("alice", "Falkenrath Exterminator")
	d.show("Turn 3, the Exterminator resolves", "alice")
	d.apply(game.EndTurn{PlayerID: "alice"})

	// Turn 4: Bob answers with Elvish Visionary, whose entry trigger draws
	// him a card on resolution.
	d.advanceTo(rules.StepFirstMain)
	d.playLand("bob", "Forest")
	d.tapForMana("bob", "Forest")
	d.tapForMana("bob", "Forest")
	d.castAndResolve("bob", "Elvish Visionary")
	d.apply(game.EndTurn{PlayerID: "bob"})

	// Turn 5: the Exterminator attacks and its trigger grows it to a 2/2.
	// Bob lets it through, then a second-main Lightning Bolt hits his face.
	d.advanceTo(rules.StepDeclareAttackers)
	d.apply(game.DeclareAttacker{PlayerID: "alice", CreatureID: d.untapped("alice", "Falkenrath Exterminator")})
	d.advanceTo(rules.StepSecondMain)
	d.playLand("alice", "Mountain")
	d.tapForMana("alice", "Mountain")
	d.castAndResolve("alice", "Lightning Bolt", "bob")
	d.show("Turn 5, after an unblocked attack and a Bolt", "")
	d.apply(game.EndTurn{PlayerID: "alice"})

	// Turn 6: Bob lands a Grizzly Bears to block with.
	d.advanceTo(rules.StepFirstMain)
	d.playLand("bob", "Forest")
	d.tapForMana("bob", "Forest")
	d.tapForMana("bob", "Forest")
	d.castAndResolve("bob", "Grizzly Bears")
	d.apply(game.EndTurn{PlayerID: "bob"})

	// Turn 7: the Exterminator, now a 3/3, attacks into the Bears. Alice
	// passes priority so Bob can assign the block. Three damage kills the
	// 2/2; the two coming back only marks the 3/3.
	d.advanceTo(rules.StepDeclareAttackers)
	ext := d.untapped("alice", "Falkenrath Exterminator")
	d.apply(game.DeclareAttacker{PlayerID: "alice", CreatureID: ext})
	d.apply(game.AdvanceStep{PlayerID: "alice"})
	d.apply(game.PassPriority{PlayerID: "alice"})
	d.apply(game.DeclareBlocker{PlayerID: "bob", BlockerID: d.untapped("bob", "Grizzly Bears"), AttackerID: ext})
	d.apply(game.PassPriority{PlayerID: "bob"})
	d.apply(game.AdvanceStep{PlayerID: "alice"})
	d.show("Turn 7, the Bears die blocking", "")
	d.apply(game.EndTurn{PlayerID: "alice"})

	// Turn 8: Bob has seen enough.
	if err := g.Concede("bob"); err != nil {
		log.Fatalf("concede: %v", err)
	}
	d.show("Final state", "")

	final := g.Export()
	fmt.Printf("\n%s wins after %d turns and %d actions.\n",
		nameOf(final, final.WinnerID), final.TurnNumber, final.ActionCount)
}

// seat adds a player whose library is the scripted names padded to twenty
// cards with the first name. The engine draws in deck order, so the first
// seven names are the opening hand and the rest the turn draws.
func seat(g *game.Game, id, name string, scripted ...string) {
	names := append([]string(nil), scripted...)
	for len(names) < 20 {
		names = append(names, scripted[0])
	}
	deck := make([]*game.CardDefinition, 0, len(names))
	for _, n := range names {
		deck = append(deck, cards.MustCard(n))
	}
	if err := g.AddPlayer(id, name, deck); err != nil {
		log.Fatalf("seat %s: %v", id, err)
	}
}

func nameOf(s *game.Snapshot, playerID string) string {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p.Name
		}
	}
	return playerID
}

// driver applies scripted actions, halting the demo on the first illegal
// one.
type driver struct {
	g *game.Game
}

func (d driver) apply(a game.Action) {
	if err := d.g.Apply(a); err != nil {
		log.Fatalf("%s by %s: %v", a.Type(), a.Player(), err)
	}
}

func (d driver) advanceTo(step rules.Step) {
	for i := 0; d.g.Turn().Step != step; i++ {
		if i > 30 {
			log.Fatalf("never reached %s, stuck at %s", step, d.g.Turn().Step)
		}
		d.apply(game.AdvanceStep{PlayerID: d.g.Turn().ActivePlayerID})
	}
}

// passBoth resolves the top of the stack by passing priority with both
// players in turn.
func (d driver) passBoth() {
	for i := 0; i < 2; i++ {
		d.apply(game.PassPriority{PlayerID: d.g.PriorityPlayerID()})
	}
}

func (d driver) playLand(playerID, name string) {
	d.apply(game.PlayLand{PlayerID: playerID, CardID: d.handCard(playerID, name)})
}

// tapForMana activates a land's mana ability and resolves it. Mana
// abilities use the stack like everything else here.
func (d driver) tapForMana(playerID, name string) {
	d.apply(game.ActivateAbility{PlayerID: playerID, PermanentID: d.untapped(playerID, name)})
	d.passBoth()
}

func (d driver) castAndResolve(playerID, name string, targets ...string) {
	d.apply(game.CastSpell{PlayerID: playerID, CardID: d.handCard(playerID, name), Targets: targets})
	d.passBoth()
}

func (d driver) handCard(playerID, name string) string {
	for _, c := range d.player(playerID).Hand {
		if c.Name == name {
			return c.ID
		}
	}
	log.Fatalf("%s has no %s in hand", playerID, name)
	return ""
}

func (d driver) untapped(playerID, name string) string {
	for _, c := range d.player(playerID).Battlefield {
		if c.Name == name && !c.Tapped {
			return c.ID
		}
	}
	log.Fatalf("%s has no untapped %s", playerID, name)
	return ""
}

func (d driver) player(playerID string) game.PlayerSnapshot {
	for _, p := range d.g.Export().Players {
		if p.ID == playerID {
			return p
		}
	}
	log.Fatalf("no player %s", playerID)
	return game.PlayerSnapshot{}
}

// show prints the game as one viewer sees it. An empty viewer id is the
// spectator view with both hands hidden.
func (d driver) show(title, viewerID string) {
	data, err := json.MarshalIndent(view.For(d.g.Export(), viewerID), "", "  ")
	if err != nil {
		log.Fatalf("marshal view: %v", err)
	}
	fmt.Printf("\n=== %s ===\n%s\n", title, data)
}
