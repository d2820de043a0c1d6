package rules

// EventType identifies the game occurrences that trigger evaluation observes.
// Triggers are declared on card definitions and scanned on demand; there is no
// subscription mechanism.
type EventType string

const (
	// EventStepStarted fires after a step's entry bookkeeping completes.
	EventStepStarted EventType = "STEP_STARTED"
	// EventZoneChanged fires when a card enters or leaves the battlefield.
	EventZoneChanged EventType = "ZONE_CHANGED"
	// EventCreatureDeclaredAttacker fires when an attacker is declared.
	EventCreatureDeclaredAttacker EventType = "CREATURE_DECLARED_ATTACKER"
	// EventCombatEnded fires when the end-of-combat step begins.
	EventCombatEnded EventType = "COMBAT_ENDED"
	// EventSpellResolved fires after a spell finishes resolving.
	EventSpellResolved EventType = "SPELL_RESOLVED"
)

// Zone names used on zone-change events.
const (
	ZoneLibrary     = "LIBRARY"
	ZoneHand        = "HAND"
	ZoneBattlefield = "BATTLEFIELD"
	ZoneGraveyard   = "GRAVEYARD"
	ZoneStack       = "STACK"
)

// Event is the immutable value handed to trigger conditions. Not every field
// is set for every type; zero values mean "not applicable".
type Event struct {
	Type         EventType
	Step         Step
	CardID       string
	CardName     string
	ControllerID string
	PlayerID     string
	FromZone     string
	ToZone       string
	Reason       string
}

// NewStepEvent builds a STEP_STARTED event for the given step and active player.
func NewStepEvent(step Step, activePlayer string) Event {
	return Event{Type: EventStepStarted, Step: step, PlayerID: activePlayer}
}

// NewZoneChangeEvent builds a ZONE_CHANGED event. Reason records why the move
// happened (cast, died, sacrificed, ...); trigger matching does not consult it.
func NewZoneChangeEvent(cardID, cardName, controllerID, from, to, reason string) Event {
	return Event{
		Type:         EventZoneChanged,
		CardID:       cardID,
		CardName:     cardName,
		ControllerID: controllerID,
		FromZone:     from,
		ToZone:       to,
		Reason:       reason,
	}
}

// NewAttackerEvent builds a CREATURE_DECLARED_ATTACKER event.
func NewAttackerEvent(cardID, cardName, controllerID string) Event {
	return Event{
		Type:         EventCreatureDeclaredAttacker,
		CardID:       cardID,
		CardName:     cardName,
		ControllerID: controllerID,
	}
}

// NewCombatEndedEvent builds a COMBAT_ENDED event.
func NewCombatEndedEvent(activePlayer string) Event {
	return Event{Type: EventCombatEnded, PlayerID: activePlayer}
}

// NewSpellResolvedEvent builds a SPELL_RESOLVED event.
func NewSpellResolvedEvent(cardID, cardName, controllerID string) Event {
	return Event{
		Type:         EventSpellResolved,
		CardID:       cardID,
		CardName:     cardName,
		ControllerID: controllerID,
	}
}

// EnteredBattlefield reports whether the event is a battlefield entry.
func (e Event) EnteredBattlefield() bool {
	return e.Type == EventZoneChanged && e.ToZone == ZoneBattlefield
}

// LeftBattlefield reports whether the event is a battlefield exit.
func (e Event) LeftBattlefield() bool {
	return e.Type == EventZoneChanged && e.FromZone == ZoneBattlefield
}

// Died reports whether the event is a battlefield-to-graveyard move, the shape
// every "dies" trigger matches on regardless of the reason.
func (e Event) Died() bool {
	return e.Type == EventZoneChanged && e.FromZone == ZoneBattlefield && e.ToZone == ZoneGraveyard
}
