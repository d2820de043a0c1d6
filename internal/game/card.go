package game

import (
	"github.com/openduel/duel-server-go/internal/game/mana"
	"github.com/openduel/duel-server-go/internal/game/rules"
)

// CardType classifies a card definition. A card may carry several types,
// though the starter set only uses one per card.
type CardType string

const (
	TypeCreature    CardType = "CREATURE"
	TypeLand        CardType = "LAND"
	TypeArtifact    CardType = "ARTIFACT"
	TypeEnchantment CardType = "ENCHANTMENT"
	TypeInstant     CardType = "INSTANT"
	TypeSorcery     CardType = "SORCERY"
)

// EffectContext carries the information an effect needs at execution time.
// SourceID and SourceName are captured when the effect is set up, so a
// resolving ability still knows its source after the permanent has left the
// battlefield.
type EffectContext struct {
	ControllerID string
	SourceID     string
	SourceName   string
	Targets      []string
	Event        rules.Event
}

// EffectFunc mutates game state on behalf of a resolving spell, a resolving
// ability, or an executing trigger.
type EffectFunc func(g *Game, ctx EffectContext) error

// TriggerCondition filters trigger events beyond the event type match.
// A nil condition always matches.
type TriggerCondition func(g *Game, ev rules.Event, source *CardInstance) bool

// Trigger is a declarative triggered ability: when an event of the given
// type occurs and the condition holds, the effect runs.
type Trigger struct {
	Event       rules.EventType
	Description string
	Condition   TriggerCondition
	Effect      EffectFunc
}

// ActivatedAbility is an ability a player may activate while its source is
// on the battlefield. Costs are paid atomically before the ability goes on
// the stack.
type ActivatedAbility struct {
	Description string
	Costs       []Cost
	Effect      EffectFunc
}

// CardDefinition is the immutable, shared description of a card. Instances
// reference a definition; per-instance state lives in PermanentState.
type CardDefinition struct {
	Name      string
	Types     []CardType
	ManaCost  mana.Cost
	Power     int
	Toughness int

	// Triggers fire while the card is on the battlefield.
	Triggers []Trigger

	// Ability is the card's activated ability, if any.
	Ability *ActivatedAbility

	// SpellEffect runs when an instant or sorcery resolves.
	SpellEffect EffectFunc
}

func (d *CardDefinition) HasType(t CardType) bool {
	for _, ct := range d.Types {
		if ct == t {
			return true
		}
	}
	return false
}

func (d *CardDefinition) IsCreature() bool { return d.HasType(TypeCreature) }
func (d *CardDefinition) IsLand() bool     { return d.HasType(TypeLand) }

// IsPermanent reports whether a resolved card stays on the battlefield.
func (d *CardDefinition) IsPermanent() bool {
	return d.HasType(TypeCreature) || d.HasType(TypeLand) ||
		d.HasType(TypeArtifact) || d.HasType(TypeEnchantment)
}

// IsSpell reports whether the card is cast via the stack. Lands are not
// spells; they are played directly.
func (d *CardDefinition) IsSpell() bool { return !d.IsLand() }

// TypeLine renders the card's types for display, e.g. "CREATURE".
func (d *CardDefinition) TypeLine() string {
	line := ""
	for i, t := range d.Types {
		if i > 0 {
			line += " "
		}
		line += string(t)
	}
	return line
}

// CardInstance is one physical copy of a card inside a game. The instance
// id is unique within the game and stable across zone changes; the owner
// never changes, while control follows battlefield membership.
type CardInstance struct {
	ID      string
	OwnerID string
	Def     *CardDefinition
}
