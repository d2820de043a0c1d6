package rules

import (
	"fmt"
	"strings"
)

// Phase represents the broad phases of a turn, derived from the step.
type Phase int

const (
	PhaseBeginning Phase = iota
	PhasePrecombatMain
	PhaseCombat
	PhasePostcombatMain
	PhaseEnding
)

var phaseNames = map[Phase]string{
	PhaseBeginning:      "BEGINNING",
	PhasePrecombatMain:  "PRECOMBAT_MAIN",
	PhaseCombat:         "COMBAT",
	PhasePostcombatMain: "POSTCOMBAT_MAIN",
	PhaseEnding:         "ENDING",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Step represents the individual steps that comprise a turn.
type Step int

const (
	StepUntap Step = iota
	StepUpkeep
	StepDraw
	StepFirstMain
	StepBeginCombat
	StepDeclareAttackers
	StepDeclareBlockers
	StepCombatDamage
	StepEndCombat
	StepSecondMain
	StepEnd
	StepCleanup
)

var stepNames = map[Step]string{
	StepUntap:            "UNTAP",
	StepUpkeep:           "UPKEEP",
	StepDraw:             "DRAW",
	StepFirstMain:        "FIRST_MAIN",
	StepBeginCombat:      "BEGINNING_OF_COMBAT",
	StepDeclareAttackers: "DECLARE_ATTACKERS",
	StepDeclareBlockers:  "DECLARE_BLOCKERS",
	StepCombatDamage:     "COMBAT_DAMAGE",
	StepEndCombat:        "END_OF_COMBAT",
	StepSecondMain:       "SECOND_MAIN",
	StepEnd:              "END_STEP",
	StepCleanup:          "CLEANUP",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// ParseStep maps a step name back to its Step value.
func ParseStep(name string) (Step, bool) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for step, n := range stepNames {
		if n == want {
			return step, true
		}
	}
	return StepUntap, false
}

var stepPhases = map[Step]Phase{
	StepUntap:            PhaseBeginning,
	StepUpkeep:           PhaseBeginning,
	StepDraw:             PhaseBeginning,
	StepFirstMain:        PhasePrecombatMain,
	StepBeginCombat:      PhaseCombat,
	StepDeclareAttackers: PhaseCombat,
	StepDeclareBlockers:  PhaseCombat,
	StepCombatDamage:     PhaseCombat,
	StepEndCombat:        PhaseCombat,
	StepSecondMain:       PhasePostcombatMain,
	StepEnd:              PhaseEnding,
	StepCleanup:          PhaseEnding,
}

// Phase returns the phase the step belongs to.
func (s Step) Phase() Phase {
	if phase, ok := stepPhases[s]; ok {
		return phase
	}
	return PhaseBeginning
}

// IsMain reports whether the step is one of the two main steps.
func (s Step) IsMain() bool {
	return s == StepFirstMain || s == StepSecondMain
}

// StepCount is the number of steps in one full turn.
const StepCount = 12

// turnSequence is the fixed twelve-step turn structure.
var turnSequence = []Step{
	StepUntap,
	StepUpkeep,
	StepDraw,
	StepFirstMain,
	StepBeginCombat,
	StepDeclareAttackers,
	StepDeclareBlockers,
	StepCombatDamage,
	StepEndCombat,
	StepSecondMain,
	StepEnd,
	StepCleanup,
}

var sequenceIndex = func() map[Step]int {
	m := make(map[Step]int, len(turnSequence))
	for i, s := range turnSequence {
		m[s] = i
	}
	return m
}()

// Advance returns the step following s in the base turn structure and whether
// the transition wraps into a new turn. advancePlayer is true exactly when the
// next step is UNTAP.
func Advance(s Step) (next Step, advancePlayer bool) {
	idx, ok := sequenceIndex[s]
	if !ok {
		return StepUntap, true
	}
	idx++
	if idx >= len(turnSequence) {
		return StepUntap, true
	}
	return turnSequence[idx], false
}

// TurnState is an immutable snapshot of turn progression. Mutations return a
// replacement value; the aggregate always holds the latest one.
type TurnState struct {
	ActivePlayerID string
	Step           Step
	TurnNumber     int
	LandsPlayed    int
}

// NewTurnState returns the state for turn 1, untap step, with the given
// starting player.
func NewTurnState(activePlayer string) TurnState {
	return TurnState{
		ActivePlayerID: strings.TrimSpace(activePlayer),
		Step:           StepUntap,
		TurnNumber:     1,
	}
}

// WithStep returns a copy positioned at the given step of the same turn.
func (t TurnState) WithStep(s Step) TurnState {
	t.Step = s
	return t
}

// ForNewTurn returns the state for the start of the next turn. The land count
// resets here and only here; inserted extra phases never pass through this.
func (t TurnState) ForNewTurn(nextActivePlayer string) TurnState {
	return TurnState{
		ActivePlayerID: strings.TrimSpace(nextActivePlayer),
		Step:           StepUntap,
		TurnNumber:     t.TurnNumber + 1,
	}
}

// WithLandPlayed returns a copy with one more land played this turn.
func (t TurnState) WithLandPlayed() TurnState {
	t.LandsPlayed++
	return t
}
