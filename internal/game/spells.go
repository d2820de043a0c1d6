package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/openduel/duel-server-go/internal/game/mana"
	"github.com/openduel/duel-server-go/internal/game/rules"
)

// applyPlayLand puts a land from hand directly onto the battlefield. Lands
// never use the stack and keep priority with the player.
func (g *Game) applyPlayLand(a PlayLand) error {
	if err := g.requirePriority(a.PlayerID); err != nil {
		return err
	}
	if g.turn.ActivePlayerID != a.PlayerID {
		return ErrWrongPlayer
	}
	if !g.turn.Step.IsMain() {
		return &WrongStepError{Action: ActionPlayLand, Step: g.turn.Step}
	}
	if g.turn.LandsPlayed >= landsPerTurn {
		return &LandLimitError{Played: g.turn.LandsPlayed}
	}

	ps := g.states[a.PlayerID]
	card := findCard(ps.Hand, a.CardID)
	if card == nil {
		return ErrCardNotInHand
	}
	if !card.Def.IsLand() {
		return ErrNotALand
	}

	ps.Hand, _ = removeCard(ps.Hand, a.CardID)
	g.turn = g.turn.WithLandPlayed()
	g.clearPassed()

	g.logger.Info("land played",
		zap.String("game_id", g.id),
		zap.String("player_id", a.PlayerID),
		zap.String("card", card.Def.Name))

	g.enterBattlefield(a.PlayerID, card, rules.ZoneHand)
	return g.drainAutoPass()
}

// applyCastSpell pays a card's mana cost and puts it on the stack. The
// opponent receives priority so every new stack object gets a fresh round
// of responses.
func (g *Game) applyCastSpell(a CastSpell) error {
	if err := g.requirePriority(a.PlayerID); err != nil {
		return err
	}

	ps := g.states[a.PlayerID]
	card := findCard(ps.Hand, a.CardID)
	if card == nil {
		return ErrCardNotInHand
	}
	if !card.Def.IsSpell() {
		return ErrNotASpell
	}

	paid, err := mana.Pay(g.pools[a.PlayerID], card.Def.ManaCost)
	if err != nil {
		return fmt.Errorf("casting %s: %w", card.Def.Name, err)
	}
	g.pools[a.PlayerID] = paid
	ps.Hand, _ = removeCard(ps.Hand, a.CardID)

	controller := a.PlayerID
	spell := card
	targets := append([]string(nil), a.Targets...)
	g.stack.Push(rules.StackItem{
		ID:           g.nextID("s"),
		Kind:         rules.StackItemKindSpell,
		ControllerID: controller,
		CardID:       card.ID,
		Description:  card.Def.Name,
		Targets:      targets,
		Resolve: func() error {
			return g.resolveSpell(spell, controller, targets)
		},
	})

	g.logger.Info("spell cast",
		zap.String("game_id", g.id),
		zap.String("player_id", controller),
		zap.String("card", card.Def.Name),
		zap.Int("stack_size", g.stack.Len()))

	g.clearPassed()
	g.priorityPlayerID = g.nextPlayerAfter(controller)
	return g.drainAutoPass()
}

// resolveSpell runs a spell coming off the stack: effect first, then the
// card routes to the battlefield or to its owner's graveyard, then
// SPELL_RESOLVED triggers fire.
func (g *Game) resolveSpell(card *CardInstance, controllerID string, targets []string) error {
	var effectErr error
	if card.Def.SpellEffect != nil {
		effectErr = card.Def.SpellEffect(g, EffectContext{
			ControllerID: controllerID,
			SourceID:     card.ID,
			SourceName:   card.Def.Name,
			Targets:      targets,
		})
	}

	if card.Def.IsPermanent() {
		g.enterBattlefield(controllerID, card, rules.ZoneStack)
	} else {
		owner := g.states[card.OwnerID]
		owner.Graveyard = append(owner.Graveyard, card)
	}

	g.evaluateTriggers(rules.NewSpellResolvedEvent(card.ID, card.Def.Name, controllerID))
	return effectErr
}

// applyActivateAbility pays a permanent's activation costs atomically and
// puts the ability on the stack. The effect context is snapshotted here, so
// the ability resolves on last known information even if the source leaves
// the battlefield first.
func (g *Game) applyActivateAbility(a ActivateAbility) error {
	if err := g.requirePriority(a.PlayerID); err != nil {
		return err
	}

	card, controller, ok := g.findPermanent(a.PermanentID)
	if !ok {
		return ErrPermanentNotFound
	}
	if controller != a.PlayerID {
		return ErrPermanentNotControlled
	}
	ability := card.Def.Ability
	if ability == nil {
		return ErrNoSuchAbility
	}

	ctx := CostContext{PlayerID: a.PlayerID, PermanentID: a.PermanentID}
	if err := PayAll(g, ability.Costs, ctx); err != nil {
		return err
	}

	snapshot := EffectContext{
		ControllerID: a.PlayerID,
		SourceID:     card.ID,
		SourceName:   card.Def.Name,
		Targets:      append([]string(nil), a.Targets...),
	}
	g.stack.Push(rules.StackItem{
		ID:           g.nextID("s"),
		Kind:         rules.StackItemKindAbility,
		ControllerID: a.PlayerID,
		SourceID:     card.ID,
		Description:  fmt.Sprintf("%s: %s", card.Def.Name, ability.Description),
		Targets:      snapshot.Targets,
		Resolve: func() error {
			if ability.Effect == nil {
				return nil
			}
			return ability.Effect(g, snapshot)
		},
	})

	g.logger.Info("ability activated",
		zap.String("game_id", g.id),
		zap.String("player_id", a.PlayerID),
		zap.String("source", card.Def.Name),
		zap.Int("stack_size", g.stack.Len()))

	g.clearPassed()
	g.priorityPlayerID = g.nextPlayerAfter(a.PlayerID)
	return g.drainAutoPass()
}
