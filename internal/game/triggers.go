package game

import (
	"go.uber.org/zap"

	"github.com/openduel/duel-server-go/internal/game/rules"
)

// triggeredAbility is one trigger that matched an event, paired with its
// source at scan time.
type triggeredAbility struct {
	source       *CardInstance
	controllerID string
	trigger      Trigger
}

// collectTriggers is the pure scan: walk every permanent on every
// battlefield in turn order, keep triggers whose event type matches and
// whose condition holds. It never mutates state.
func (g *Game) collectTriggers(ev rules.Event) []triggeredAbility {
	var matched []triggeredAbility
	for _, p := range g.players {
		for _, ci := range g.states[p.ID].Battlefield {
			for _, tr := range ci.Def.Triggers {
				if tr.Event != ev.Type {
					continue
				}
				if tr.Condition != nil && !tr.Condition(g, ev, ci) {
					continue
				}
				matched = append(matched, triggeredAbility{
					source:       ci,
					controllerID: p.ID,
					trigger:      tr,
				})
			}
		}
	}
	return matched
}

// evaluateTriggers scans for triggers matching the event and executes them
// immediately in discovery order. Triggered effects do not use the stack
// and cannot be responded to. An effect error is logged and the remaining
// triggers still run.
func (g *Game) evaluateTriggers(ev rules.Event) {
	matched := g.collectTriggers(ev)
	for _, t := range matched {
		g.logger.Info("trigger fired",
			zap.String("game_id", g.id),
			zap.String("event", string(ev.Type)),
			zap.String("source", t.source.Def.Name),
			zap.String("description", t.trigger.Description))

		if t.trigger.Effect == nil {
			continue
		}
		err := t.trigger.Effect(g, EffectContext{
			ControllerID: t.controllerID,
			SourceID:     t.source.ID,
			SourceName:   t.source.Def.Name,
			Event:        ev,
		})
		if err != nil {
			g.logger.Error("trigger effect failed",
				zap.String("game_id", g.id),
				zap.String("source", t.source.Def.Name),
				zap.String("description", t.trigger.Description),
				zap.Error(err))
		}
	}
}
