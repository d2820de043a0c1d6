package game

import (
	"go.uber.org/zap"

	"github.com/openduel/duel-server-go/internal/game/mana"
	"github.com/openduel/duel-server-go/internal/game/rules"
)

// applyAdvanceStep moves to the next step. Only the active player may
// advance, with priority held and an empty stack.
func (g *Game) applyAdvanceStep(a AdvanceStep) error {
	if err := g.requirePriority(a.PlayerID); err != nil {
		return err
	}
	if g.turn.ActivePlayerID != a.PlayerID {
		return ErrWrongPlayer
	}
	if !g.stack.IsEmpty() {
		return ErrStackNotEmpty
	}
	if err := g.advanceToNextStep(); err != nil {
		return err
	}
	return g.drainAutoPass()
}

// advanceToNextStep picks the next step and enters it. Scheduled extra
// steps drain first, then the recorded resume point is consumed once, then
// the base cycle continues. The active player only rotates on a true turn
// wrap, never on inserted steps.
func (g *Game) advanceToNextStep() error {
	switch {
	case len(g.scheduledSteps) > 0:
		next := g.scheduledSteps[0]
		g.scheduledSteps = g.scheduledSteps[1:]
		g.turn = g.turn.WithStep(next)
		g.logger.Debug("entering scheduled step",
			zap.String("game_id", g.id),
			zap.String("step", next.String()),
			zap.Int("remaining", len(g.scheduledSteps)))

	case g.resumeStep != nil:
		next := *g.resumeStep
		g.resumeStep = nil
		g.turn = g.turn.WithStep(next)
		g.logger.Debug("resuming base step order",
			zap.String("game_id", g.id),
			zap.String("step", next.String()))

	default:
		next, newTurn := rules.Advance(g.turn.Step)
		if newTurn {
			g.turn = g.turn.ForNewTurn(g.nextPlayerAfter(g.turn.ActivePlayerID))
			g.logger.Info("turn changed",
				zap.String("game_id", g.id),
				zap.Int("turn", g.turn.TurnNumber),
				zap.String("active_player", g.turn.ActivePlayerID))
		} else {
			g.turn = g.turn.WithStep(next)
		}
	}
	return g.enterStep()
}

// enterStep runs the bookkeeping for the step the game just moved into,
// emits STEP_STARTED, and hands priority to the active player. Cleanup has
// no player interaction at all: the game passes straight through into the
// next turn.
func (g *Game) enterStep() error {
	step := g.turn.Step
	active := g.turn.ActivePlayerID
	g.clearPassed()

	g.logger.Info("step started",
		zap.String("game_id", g.id),
		zap.String("step", step.String()),
		zap.Int("turn", g.turn.TurnNumber),
		zap.String("active_player", active))

	switch step {
	case rules.StepUntap:
		g.autoPass = make(map[string]bool)
		for _, ci := range g.states[active].Battlefield {
			g.permanents[ci.ID] = g.permanents[ci.ID].WithTurnReset()
		}

	case rules.StepDraw:
		g.drawCard(active)

	case rules.StepCombatDamage:
		g.resolveCombatDamage()
		g.runStateBasedActions()

	case rules.StepEndCombat:
		g.evaluateTriggers(rules.NewCombatEndedEvent(active))
		g.clearCombat()

	case rules.StepCleanup:
		for id := range g.pools {
			g.pools[id] = mana.NewPool()
		}
		for id, st := range g.permanents {
			g.permanents[id] = st.WithDamageCleared()
		}
	}

	g.evaluateTriggers(rules.NewStepEvent(step, active))

	if step == rules.StepCleanup {
		return g.advanceToNextStep()
	}
	g.priorityPlayerID = active
	return nil
}

// AddScheduledSteps queues extra steps to run before the base order
// continues. The first call records the resume point: the first step after
// the current one, walking the base cycle, that is not part of the inserted
// set. Later calls only extend the queue, so stacked extra-phase effects
// compose without double-resuming.
func (g *Game) AddScheduledSteps(steps []rules.Step) {
	if len(steps) == 0 {
		return
	}
	if g.resumeStep == nil {
		inserted := make(map[rules.Step]bool, len(steps))
		for _, s := range steps {
			inserted[s] = true
		}
		resume := g.turn.Step
		for i := 0; i < rules.StepCount; i++ {
			resume, _ = rules.Advance(resume)
			if !inserted[resume] {
				break
			}
		}
		g.resumeStep = &resume
		g.logger.Debug("resume step recorded",
			zap.String("game_id", g.id),
			zap.String("resume_step", resume.String()))
	}
	g.scheduledSteps = append(g.scheduledSteps, steps...)

	g.logger.Info("extra steps scheduled",
		zap.String("game_id", g.id),
		zap.Int("queued", len(g.scheduledSteps)))
}

// ScheduledSteps returns the pending extra steps in order.
func (g *Game) ScheduledSteps() []rules.Step {
	out := make([]rules.Step, len(g.scheduledSteps))
	copy(out, g.scheduledSteps)
	return out
}

// ResumeStep returns the recorded resume point, if one is armed.
func (g *Game) ResumeStep() (rules.Step, bool) {
	if g.resumeStep == nil {
		return 0, false
	}
	return *g.resumeStep, true
}
