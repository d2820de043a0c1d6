package rules

import "testing"

func TestAdvanceSequence(t *testing.T) {
	expected := []struct {
		phase Phase
		step  Step
	}{
		{PhaseBeginning, StepUntap},
		{PhaseBeginning, StepUpkeep},
		{PhaseBeginning, StepDraw},
		{PhasePrecombatMain, StepFirstMain},
		{PhaseCombat, StepBeginCombat},
		{PhaseCombat, StepDeclareAttackers},
		{PhaseCombat, StepDeclareBlockers},
		{PhaseCombat, StepCombatDamage},
		{PhaseCombat, StepEndCombat},
		{PhasePostcombatMain, StepSecondMain},
		{PhaseEnding, StepEnd},
		{PhaseEnding, StepCleanup},
	}

	step := StepUntap
	for i, exp := range expected {
		if step != exp.step {
			t.Fatalf("position %d: expected step %s, got %s", i, exp.step, step)
		}
		if step.Phase() != exp.phase {
			t.Fatalf("position %d: expected phase %s, got %s", i, exp.phase, step.Phase())
		}
		next, advancePlayer := Advance(step)
		if wantWrap := i == len(expected)-1; advancePlayer != wantWrap {
			t.Fatalf("position %d: expected advancePlayer=%v, got %v", i, wantWrap, advancePlayer)
		}
		step = next
	}

	if step != StepUntap {
		t.Fatalf("expected 12 advances to wrap back to UNTAP, got %s", step)
	}
}

func TestAdvanceWrapsExactlyOnce(t *testing.T) {
	step := StepUntap
	wraps := 0
	for i := 0; i < 12; i++ {
		next, advancePlayer := Advance(step)
		if advancePlayer {
			wraps++
		}
		step = next
	}
	if wraps != 1 {
		t.Fatalf("expected exactly one player advance across a full cycle, got %d", wraps)
	}
	if step != StepUntap {
		t.Fatalf("expected to return to UNTAP, got %s", step)
	}
}

func TestTurnStateForNewTurn(t *testing.T) {
	ts := NewTurnState("alice")
	if ts.TurnNumber != 1 || ts.Step != StepUntap || ts.ActivePlayerID != "alice" {
		t.Fatalf("unexpected initial state: %+v", ts)
	}

	ts = ts.WithLandPlayed()
	if ts.LandsPlayed != 1 {
		t.Fatalf("expected one land played, got %d", ts.LandsPlayed)
	}

	moved := ts.WithStep(StepSecondMain)
	if moved.Step != StepSecondMain || moved.LandsPlayed != 1 {
		t.Fatalf("WithStep must keep the land count: %+v", moved)
	}

	next := moved.ForNewTurn("bob")
	if next.ActivePlayerID != "bob" || next.TurnNumber != 2 || next.Step != StepUntap {
		t.Fatalf("unexpected new turn state: %+v", next)
	}
	if next.LandsPlayed != 0 {
		t.Fatalf("land count must reset on a true turn change, got %d", next.LandsPlayed)
	}
	if moved.LandsPlayed != 1 {
		t.Fatalf("value semantics violated: original mutated to %+v", moved)
	}
}

func TestParseStep(t *testing.T) {
	cases := []struct {
		in   string
		want Step
		ok   bool
	}{
		{"UNTAP", StepUntap, true},
		{"beginning_of_combat", StepBeginCombat, true},
		{" second_main ", StepSecondMain, true},
		{"CLEANUP", StepCleanup, true},
		{"NOT_A_STEP", StepUntap, false},
	}
	for _, c := range cases {
		got, ok := ParseStep(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("ParseStep(%q) = %v,%v; want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
