package game

import (
	"fmt"

	"github.com/openduel/duel-server-go/internal/game/mana"
)

// CostContext names the payer and the source permanent of the cost being
// paid.
type CostContext struct {
	PlayerID    string
	PermanentID string
}

// Cost is one component of an activation cost. CanPay must not mutate game
// state; Pay assumes CanPay just held.
type Cost interface {
	CanPay(g *Game, ctx CostContext) bool
	Pay(g *Game, ctx CostContext) error
	String() string
}

// PayMana spends mana from the payer's pool.
type PayMana struct {
	Amount mana.Cost
}

func (c PayMana) CanPay(g *Game, ctx CostContext) bool {
	pool, ok := g.pools[ctx.PlayerID]
	if !ok {
		return false
	}
	return mana.CanPay(pool, c.Amount)
}

func (c PayMana) Pay(g *Game, ctx CostContext) error {
	pool, ok := g.pools[ctx.PlayerID]
	if !ok {
		return ErrUnknownPlayer
	}
	paid, err := mana.Pay(pool, c.Amount)
	if err != nil {
		return err
	}
	g.pools[ctx.PlayerID] = paid
	return nil
}

func (c PayMana) String() string { return c.Amount.String() }

// TapSelf taps the source permanent. A creature source must be untapped;
// non-creature permanents are always payable.
type TapSelf struct{}

func (TapSelf) CanPay(g *Game, ctx CostContext) bool {
	card, controller, ok := g.findPermanent(ctx.PermanentID)
	if !ok || controller != ctx.PlayerID {
		return false
	}
	if card.Def.IsCreature() && g.permanents[ctx.PermanentID].Tapped {
		return false
	}
	return true
}

func (TapSelf) Pay(g *Game, ctx CostContext) error {
	st, ok := g.permanents[ctx.PermanentID]
	if !ok {
		return ErrPermanentNotFound
	}
	g.permanents[ctx.PermanentID] = st.WithTapped(true)
	return nil
}

func (TapSelf) String() string { return "{T}" }

// SacrificeSelf moves the source permanent to its owner's graveyard as part
// of paying the cost. The sacrifice fires dies triggers exactly like lethal
// damage would.
type SacrificeSelf struct{}

func (SacrificeSelf) CanPay(g *Game, ctx CostContext) bool {
	_, controller, ok := g.findPermanent(ctx.PermanentID)
	return ok && controller == ctx.PlayerID
}

func (SacrificeSelf) Pay(g *Game, ctx CostContext) error {
	return g.moveToGraveyard(ctx.PermanentID, "sacrificed")
}

func (SacrificeSelf) String() string { return "Sacrifice" }

// CanPayAll reports whether every cost in the list is individually payable.
// It never mutates state.
func CanPayAll(g *Game, costs []Cost, ctx CostContext) bool {
	for _, c := range costs {
		if !c.CanPay(g, ctx) {
			return false
		}
	}
	return true
}

// PayAll re-validates the whole list, then pays each cost in order. If any
// cost is unpayable nothing is paid.
func PayAll(g *Game, costs []Cost, ctx CostContext) error {
	if !CanPayAll(g, costs, ctx) {
		return ErrCannotPayCosts
	}
	for _, c := range costs {
		if err := c.Pay(g, ctx); err != nil {
			return fmt.Errorf("paying %s: %w", c, err)
		}
	}
	return nil
}
