package game

import (
	"go.uber.org/zap"
)

// applyPassPriority handles an explicit PASS_PRIORITY from the priority
// holder.
func (g *Game) applyPassPriority(a PassPriority) error {
	if err := g.requirePriority(a.PlayerID); err != nil {
		return err
	}
	if err := g.passPriorityOnce(a.PlayerID); err != nil {
		return err
	}
	return g.drainAutoPass()
}

// applyEndTurn arms auto-pass for the player. The engine then passes and
// advances on their behalf until their intent no longer applies.
func (g *Game) applyEndTurn(a EndTurn) error {
	if err := g.requirePriority(a.PlayerID); err != nil {
		return err
	}
	g.autoPass[a.PlayerID] = true
	g.logger.Info("auto-pass armed",
		zap.String("game_id", g.id),
		zap.String("player_id", a.PlayerID))
	return g.drainAutoPass()
}

// passPriorityOnce performs a single pass. Passing does not clear the
// passed-set: once every player has passed consecutively, the top stack
// item resolves, or the step ends if the stack is empty.
func (g *Game) passPriorityOnce(playerID string) error {
	g.passed[playerID] = true
	if len(g.passed) == len(g.players) {
		if g.stack.IsEmpty() {
			return g.advanceToNextStep()
		}
		return g.resolveTop()
	}
	g.priorityPlayerID = g.nextPlayerAfter(playerID)
	return nil
}

func (g *Game) clearPassed() {
	g.passed = make(map[string]bool)
}

// resolveTop pops and resolves exactly one stack item, then returns
// priority to the active player for a fresh round. An effect error is
// logged rather than propagated: the item is already off the stack and the
// pass that caused resolution stays valid.
func (g *Game) resolveTop() error {
	item, err := g.stack.Pop()
	if err != nil {
		return err
	}
	g.logger.Info("resolving stack item",
		zap.String("game_id", g.id),
		zap.String("kind", string(item.Kind)),
		zap.String("description", item.Description),
		zap.String("controller", item.ControllerID))

	if err := item.Resolve(); err != nil {
		g.logger.Error("stack item effect failed",
			zap.String("game_id", g.id),
			zap.String("description", item.Description),
			zap.Error(err))
	}

	g.clearPassed()
	g.priorityPlayerID = g.turn.ActivePlayerID
	return nil
}

// drainAutoPass re-dispatches while the current priority holder is in
// auto-pass mode: pass when there is anything on the stack or the holder is
// not the active player, advance steps otherwise. Entering UNTAP clears all
// intents, which ends the cascade on a turn change. The iteration ceiling
// guards against malformed scheduled-step chains.
func (g *Game) drainAutoPass() error {
	for i := 0; i < autoPassLimit; i++ {
		if g.lifecycle != LifecycleStarted {
			return nil
		}
		holder := g.priorityPlayerID
		if !g.autoPass[holder] {
			return nil
		}
		var err error
		if g.stack.IsEmpty() && g.turn.ActivePlayerID == holder {
			err = g.advanceToNextStep()
		} else {
			err = g.passPriorityOnce(holder)
		}
		if err != nil {
			return err
		}
	}
	g.logger.Warn("auto-pass iteration ceiling reached",
		zap.String("game_id", g.id),
		zap.Int("limit", autoPassLimit))
	return nil
}
