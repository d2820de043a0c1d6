package game

import (
	"go.uber.org/zap"

	"github.com/openduel/duel-server-go/internal/game/rules"
)

// applyDeclareAttacker sends one of the active player's untapped creatures
// into combat. Declaring taps the creature and fires attack triggers.
func (g *Game) applyDeclareAttacker(a DeclareAttacker) error {
	if err := g.requirePriority(a.PlayerID); err != nil {
		return err
	}
	if g.turn.ActivePlayerID != a.PlayerID {
		return ErrWrongPlayer
	}
	if g.turn.Step != rules.StepDeclareAttackers {
		return &WrongStepError{Action: ActionDeclareAttacker, Step: g.turn.Step}
	}

	card, controller, ok := g.findPermanent(a.CreatureID)
	if !ok {
		return ErrPermanentNotFound
	}
	if controller != a.PlayerID {
		return ErrPermanentNotControlled
	}
	if !card.Def.IsCreature() {
		return ErrNotACreature
	}
	st := g.permanents[a.CreatureID]
	if st.Tapped {
		return ErrAlreadyTapped
	}
	if st.AttackedThisTurn {
		return ErrAlreadyAttacked
	}

	g.permanents[a.CreatureID] = st.WithTapped(true).WithAttacking()
	g.clearPassed()

	g.logger.Info("attacker declared",
		zap.String("game_id", g.id),
		zap.String("player_id", a.PlayerID),
		zap.String("creature", card.Def.Name))

	g.evaluateTriggers(rules.NewAttackerEvent(card.ID, card.Def.Name, a.PlayerID))
	return g.drainAutoPass()
}

// applyDeclareBlocker assigns one defending creature to one attacker. Each
// attacker takes at most one blocker.
func (g *Game) applyDeclareBlocker(a DeclareBlocker) error {
	if err := g.requirePriority(a.PlayerID); err != nil {
		return err
	}
	if g.turn.ActivePlayerID == a.PlayerID {
		return ErrWrongPlayer
	}
	if g.turn.Step != rules.StepDeclareBlockers {
		return &WrongStepError{Action: ActionDeclareBlocker, Step: g.turn.Step}
	}

	blocker, blockerController, ok := g.findPermanent(a.BlockerID)
	if !ok {
		return ErrPermanentNotFound
	}
	if blockerController != a.PlayerID {
		return ErrPermanentNotControlled
	}
	if !blocker.Def.IsCreature() {
		return ErrNotACreature
	}
	blockerState := g.permanents[a.BlockerID]
	if blockerState.Blocking {
		return ErrAlreadyBlocking
	}

	attacker, _, ok := g.findPermanent(a.AttackerID)
	if !ok {
		return ErrPermanentNotFound
	}
	attackerState := g.permanents[a.AttackerID]
	if !attackerState.Attacking {
		return ErrNotAttacking
	}
	if attackerState.BlockedByID != "" {
		return ErrAttackerAlreadyBlocked
	}

	g.permanents[a.BlockerID] = blockerState.WithBlocking(a.AttackerID)
	g.permanents[a.AttackerID] = attackerState.WithBlockedBy(a.BlockerID)
	g.clearPassed()

	g.logger.Info("blocker declared",
		zap.String("game_id", g.id),
		zap.String("player_id", a.PlayerID),
		zap.String("blocker", blocker.Def.Name),
		zap.String("attacker", attacker.Def.Name))
	return g.drainAutoPass()
}

// damageAssignment is one computed packet of combat damage. Exactly one of
// toCreatureID and toPlayerID is set.
type damageAssignment struct {
	fromName     string
	toCreatureID string
	toPlayerID   string
	amount       int
}

// resolveCombatDamage runs on entering COMBAT_DAMAGE. All assignments are
// computed from current power values first, then applied together, so
// nothing that happens during application reorders or changes the damage. A
// blocked attacker whose blocker already left the battlefield stays blocked
// and deals no damage.
func (g *Game) resolveCombatDamage() {
	var assignments []damageAssignment

	for _, p := range g.players {
		defender := g.nextPlayerAfter(p.ID)
		for _, attacker := range g.states[p.ID].Battlefield {
			st, ok := g.permanents[attacker.ID]
			if !ok || !st.Attacking {
				continue
			}
			power := g.effectivePower(attacker)

			if st.BlockedByID == "" {
				if power > 0 {
					assignments = append(assignments, damageAssignment{
						fromName:   attacker.Def.Name,
						toPlayerID: defender,
						amount:     power,
					})
				}
				continue
			}

			blocker, _, onField := g.findPermanent(st.BlockedByID)
			if !onField {
				continue
			}
			if power > 0 {
				assignments = append(assignments, damageAssignment{
					fromName:     attacker.Def.Name,
					toCreatureID: blocker.ID,
					amount:       power,
				})
			}
			if blockerPower := g.effectivePower(blocker); blockerPower > 0 {
				assignments = append(assignments, damageAssignment{
					fromName:     blocker.Def.Name,
					toCreatureID: attacker.ID,
					amount:       blockerPower,
				})
			}
		}
	}

	for _, d := range assignments {
		if d.toPlayerID != "" {
			if p := g.playerByID(d.toPlayerID); p != nil {
				p.Life -= d.amount
				g.logger.Info("combat damage to player",
					zap.String("game_id", g.id),
					zap.String("source", d.fromName),
					zap.String("player_id", d.toPlayerID),
					zap.Int("amount", d.amount),
					zap.Int("life", p.Life))
			}
			continue
		}
		if st, ok := g.permanents[d.toCreatureID]; ok {
			g.permanents[d.toCreatureID] = st.WithDamage(d.amount)
		}
	}
}

// runStateBasedActions sweeps every battlefield for dead creatures: marked
// damage at or above current toughness, or toughness at zero or below. The
// sweep collects first and buries after, so dies triggers cannot reorder
// the scan.
func (g *Game) runStateBasedActions() {
	var dead []string
	for _, p := range g.players {
		for _, ci := range g.states[p.ID].Battlefield {
			if !ci.Def.IsCreature() {
				continue
			}
			st := g.permanents[ci.ID]
			toughness := g.effectiveToughness(ci)
			if toughness <= 0 || st.Damage >= toughness {
				dead = append(dead, ci.ID)
			}
		}
	}
	for _, id := range dead {
		if err := g.moveToGraveyard(id, "lethal damage"); err != nil {
			g.logger.Warn("state-based burial skipped",
				zap.String("game_id", g.id),
				zap.String("permanent_id", id),
				zap.Error(err))
		}
	}
}

// clearCombat removes attacker and blocker assignments from every
// permanent at end of combat. Marked damage stays until cleanup.
func (g *Game) clearCombat() {
	for id, st := range g.permanents {
		if st.Attacking || st.Blocking || st.BlockedByID != "" || st.BlockingID != "" {
			g.permanents[id] = st.WithCombatCleared()
		}
	}
}

// ReadyAttackers untaps every creature the player controls that attacked
// this turn and lets it attack again. Effects that grant extra combats call
// this so the readied creatures can be re-declared. Returns how many
// creatures were readied.
func (g *Game) ReadyAttackers(playerID string) int {
	zones, ok := g.states[playerID]
	if !ok {
		return 0
	}
	readied := 0
	for _, ci := range zones.Battlefield {
		st := g.permanents[ci.ID]
		if !st.AttackedThisTurn {
			continue
		}
		st.Tapped = false
		st.AttackedThisTurn = false
		g.permanents[ci.ID] = st
		readied++
	}
	if readied > 0 {
		g.logger.Info("attackers readied",
			zap.String("game_id", g.id),
			zap.String("player_id", playerID),
			zap.Int("count", readied))
	}
	return readied
}
