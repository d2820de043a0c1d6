package game

import (
	"errors"
	"fmt"

	"github.com/openduel/duel-server-go/internal/game/rules"
)

// Every rejected precondition maps to one of the errors below. Validation
// failures abort the whole Apply call with no partial mutation.
var (
	ErrGameNotStarted     = errors.New("game not started")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrGameFinished       = errors.New("game finished")
	ErrInvalidPlayerCount = errors.New("at least two players required")
	ErrInvalidStarting    = errors.New("starting player is not in the game")
	ErrDuplicatePlayer    = errors.New("duplicate player id")
	ErrUnknownPlayer      = errors.New("unknown player id")

	ErrWrongPlayer    = errors.New("player cannot act now")
	ErrCardNotInHand  = errors.New("card not in hand")
	ErrNotALand       = errors.New("card is not a land")
	ErrNotASpell      = errors.New("card is not a spell")
	ErrStackNotEmpty  = errors.New("stack is not empty")
	ErrUnknownAction  = errors.New("unknown action type")
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrCannotPayCosts = errors.New("cannot pay costs")
	ErrNoSuchAbility  = errors.New("permanent has no activated ability")

	ErrPermanentNotFound      = errors.New("permanent not found on any battlefield")
	ErrPermanentNotControlled = errors.New("permanent not controlled by player")
	ErrAlreadyTapped          = errors.New("permanent is already tapped")
	ErrNotACreature           = errors.New("permanent is not a creature")
	ErrAlreadyAttacked        = errors.New("creature has already attacked this turn")
	ErrAlreadyBlocking        = errors.New("creature is already blocking")
	ErrNotAttacking           = errors.New("target creature is not attacking")
	ErrAttackerAlreadyBlocked = errors.New("attacker is already blocked")
)

// WrongStepError rejects an action attempted outside the step it belongs to.
type WrongStepError struct {
	Action ActionType
	Step   rules.Step
}

func (e *WrongStepError) Error() string {
	return fmt.Sprintf("action %s is not legal during %s", e.Action, e.Step)
}

// LandLimitError rejects a land play past the per-turn limit.
type LandLimitError struct {
	Played int
}

func (e *LandLimitError) Error() string {
	return fmt.Sprintf("land limit exceeded: already played %d this turn", e.Played)
}
