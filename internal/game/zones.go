package game

import (
	"go.uber.org/zap"

	"github.com/openduel/duel-server-go/internal/game/rules"
)

// playerState holds one player's four ordered zones. The front of the
// library slice is the top of the library.
type playerState struct {
	Library     []*CardInstance
	Hand        []*CardInstance
	Battlefield []*CardInstance
	Graveyard   []*CardInstance
}

// removeCard removes the instance with the given id from a zone slice,
// returning the shortened slice and the removed instance, or nil if absent.
func removeCard(zone []*CardInstance, id string) ([]*CardInstance, *CardInstance) {
	for i, ci := range zone {
		if ci.ID == id {
			removed := ci
			return append(zone[:i:i], zone[i+1:]...), removed
		}
	}
	return zone, nil
}

func findCard(zone []*CardInstance, id string) *CardInstance {
	for _, ci := range zone {
		if ci.ID == id {
			return ci
		}
	}
	return nil
}

// findPermanent locates an instance on any battlefield. The returned player
// id is the current controller: control is battlefield membership, not
// ownership.
func (g *Game) findPermanent(id string) (*CardInstance, string, bool) {
	for _, p := range g.players {
		for _, ci := range g.states[p.ID].Battlefield {
			if ci.ID == id {
				return ci, p.ID, true
			}
		}
	}
	return nil, "", false
}

// FindPermanent is the lookup effects use to inspect the battlefield.
func (g *Game) FindPermanent(id string) (*CardInstance, string, bool) {
	return g.findPermanent(id)
}

// PermanentState returns the battlefield state of a permanent.
func (g *Game) PermanentState(id string) (PermanentState, bool) {
	st, ok := g.permanents[id]
	return st, ok
}

// drawCard moves the top library card to the player's hand. Drawing from an
// empty library is a no-op: running out of cards does not end the game.
func (g *Game) drawCard(playerID string) {
	ps := g.states[playerID]
	if len(ps.Library) == 0 {
		g.logger.Debug("draw from empty library skipped",
			zap.String("game_id", g.id),
			zap.String("player_id", playerID))
		return
	}
	card := ps.Library[0]
	ps.Library = ps.Library[1:]
	ps.Hand = append(ps.Hand, card)
	g.logger.Debug("card drawn",
		zap.String("game_id", g.id),
		zap.String("player_id", playerID),
		zap.String("card", card.Def.Name))
}

// DrawCards draws up to n cards for the player. Effects use this; the draw
// step uses it with n=1.
func (g *Game) DrawCards(playerID string, n int) error {
	if n <= 0 {
		return ErrInvalidAmount
	}
	if _, ok := g.states[playerID]; !ok {
		return ErrUnknownPlayer
	}
	for i := 0; i < n; i++ {
		g.drawCard(playerID)
	}
	return nil
}

// enterBattlefield is the single procedure by which any card arrives on the
// battlefield: append to the controller's battlefield, create fresh
// permanent state, then emit ZONE_CHANGED so entry triggers see the
// permanent already in place.
func (g *Game) enterBattlefield(controllerID string, card *CardInstance, fromZone string) {
	ps := g.states[controllerID]
	ps.Battlefield = append(ps.Battlefield, card)
	g.permanents[card.ID] = NewPermanentState(card.Def.IsCreature())

	g.logger.Info("permanent entered battlefield",
		zap.String("game_id", g.id),
		zap.String("card", card.Def.Name),
		zap.String("controller", controllerID))

	ev := rules.NewZoneChangeEvent(card.ID, card.Def.Name, controllerID, fromZone, rules.ZoneBattlefield, "")
	g.evaluateTriggers(ev)
}

// moveToGraveyard is the single procedure by which a permanent leaves the
// battlefield for a graveyard, whatever the reason. The card goes to its
// owner's graveyard even when an opponent controlled it. Dies triggers fire
// after the permanent is gone.
func (g *Game) moveToGraveyard(permanentID, reason string) error {
	card, controllerID, ok := g.findPermanent(permanentID)
	if !ok {
		return ErrPermanentNotFound
	}

	ps := g.states[controllerID]
	ps.Battlefield, _ = removeCard(ps.Battlefield, permanentID)
	delete(g.permanents, permanentID)

	owner := g.states[card.OwnerID]
	owner.Graveyard = append(owner.Graveyard, card)

	g.logger.Info("permanent moved to graveyard",
		zap.String("game_id", g.id),
		zap.String("card", card.Def.Name),
		zap.String("owner", card.OwnerID),
		zap.String("reason", reason))

	ev := rules.NewZoneChangeEvent(card.ID, card.Def.Name, controllerID, rules.ZoneBattlefield, rules.ZoneGraveyard, reason)
	g.evaluateTriggers(ev)
	return nil
}

// MoveToGraveyard lets effects destroy or sacrifice a permanent directly.
func (g *Game) MoveToGraveyard(permanentID, reason string) error {
	return g.moveToGraveyard(permanentID, reason)
}
