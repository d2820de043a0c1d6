package game

import (
	"github.com/openduel/duel-server-go/internal/game/mana"
	"github.com/openduel/duel-server-go/internal/game/rules"
)

// AllowedActionsFor lists the action types currently legal for the player.
// The list is empty when the player does not hold priority; clients drive
// their input surface entirely from this.
func (g *Game) AllowedActionsFor(playerID string) []ActionType {
	if g.lifecycle != LifecycleStarted {
		return nil
	}
	if g.priorityPlayerID != playerID {
		return nil
	}
	if g.turn.Step == rules.StepCleanup {
		return nil
	}
	if _, ok := g.states[playerID]; !ok {
		return nil
	}

	active := g.turn.ActivePlayerID == playerID
	var actions []ActionType

	if active && g.stack.IsEmpty() {
		actions = append(actions, ActionAdvanceStep)
	}
	actions = append(actions, ActionEndTurn)

	if active && g.turn.Step.IsMain() && g.turn.LandsPlayed < landsPerTurn && g.handHasLand(playerID) {
		actions = append(actions, ActionPlayLand)
	}
	if g.handHasCastableSpell(playerID) {
		actions = append(actions, ActionCastSpell)
	}
	actions = append(actions, ActionPassPriority)

	if active && g.turn.Step == rules.StepDeclareAttackers && g.hasEligibleAttacker(playerID) {
		actions = append(actions, ActionDeclareAttacker)
	}
	if !active && g.turn.Step == rules.StepDeclareBlockers && g.hasEligibleBlock(playerID) {
		actions = append(actions, ActionDeclareBlocker)
	}
	if g.hasActivatableAbility(playerID) {
		actions = append(actions, ActionActivateAbility)
	}
	return actions
}

func (g *Game) handHasLand(playerID string) bool {
	for _, ci := range g.states[playerID].Hand {
		if ci.Def.IsLand() {
			return true
		}
	}
	return false
}

func (g *Game) handHasCastableSpell(playerID string) bool {
	pool := g.pools[playerID]
	for _, ci := range g.states[playerID].Hand {
		if ci.Def.IsSpell() && mana.CanPay(pool, ci.Def.ManaCost) {
			return true
		}
	}
	return false
}

func (g *Game) hasEligibleAttacker(playerID string) bool {
	for _, ci := range g.states[playerID].Battlefield {
		if !ci.Def.IsCreature() {
			continue
		}
		st := g.permanents[ci.ID]
		if !st.Tapped && !st.AttackedThisTurn {
			return true
		}
	}
	return false
}

// hasEligibleBlock requires both an unassigned defending creature and an
// unblocked attacker to point it at.
func (g *Game) hasEligibleBlock(playerID string) bool {
	free := false
	for _, ci := range g.states[playerID].Battlefield {
		if ci.Def.IsCreature() && !g.permanents[ci.ID].Blocking {
			free = true
			break
		}
	}
	if !free {
		return false
	}
	for _, p := range g.players {
		if p.ID == playerID {
			continue
		}
		for _, ci := range g.states[p.ID].Battlefield {
			st := g.permanents[ci.ID]
			if st.Attacking && st.BlockedByID == "" {
				return true
			}
		}
	}
	return false
}

func (g *Game) hasActivatableAbility(playerID string) bool {
	for _, ci := range g.states[playerID].Battlefield {
		if ci.Def.Ability == nil {
			continue
		}
		ctx := CostContext{PlayerID: playerID, PermanentID: ci.ID}
		if CanPayAll(g, ci.Def.Ability.Costs, ctx) {
			return true
		}
	}
	return false
}
