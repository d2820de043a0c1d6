package game

// CounterPlusOnePlusOne is the only counter kind the rules engine interprets:
// each one raises effective power and toughness by one. Other counter kinds
// are tracked and exported but have no built-in rules meaning.
const CounterPlusOnePlusOne = "+1/+1"

// PermanentState is the mutable per-instance state of a permanent on the
// battlefield, held as an immutable value: mutations return a new state.
// Combat fields are only meaningful for creatures; tapped and counters apply
// to every permanent.
type PermanentState struct {
	Tapped           bool
	SummoningSick    bool
	Attacking        bool
	AttackedThisTurn bool
	Blocking         bool

	// BlockedByID on an attacker names its single blocker. BlockingID on a
	// blocker names the attacker it blocks. The references are not cleaned
	// up when the other side leaves the battlefield: a blocked attacker
	// stays blocked even if its blocker dies first.
	BlockedByID string
	BlockingID  string

	Damage   int
	Counters map[string]int
}

// NewPermanentState returns the state of a permanent that just entered the
// battlefield. Creatures enter summoning sick.
func NewPermanentState(creature bool) PermanentState {
	return PermanentState{SummoningSick: creature}
}

func (s PermanentState) WithTapped(tapped bool) PermanentState {
	s.Tapped = tapped
	return s
}

func (s PermanentState) WithSummoningSick(sick bool) PermanentState {
	s.SummoningSick = sick
	return s
}

// WithAttacking marks the creature as a declared attacker for this combat
// and remembers that it attacked this turn.
func (s PermanentState) WithAttacking() PermanentState {
	s.Attacking = true
	s.AttackedThisTurn = true
	return s
}

// WithBlocking marks the creature as blocking the given attacker.
func (s PermanentState) WithBlocking(attackerID string) PermanentState {
	s.Blocking = true
	s.BlockingID = attackerID
	return s
}

// WithBlockedBy records the single blocker assigned to this attacker.
func (s PermanentState) WithBlockedBy(blockerID string) PermanentState {
	s.BlockedByID = blockerID
	return s
}

// WithCombatCleared removes attacker and blocker assignments at end of
// combat. Marked damage stays until cleanup.
func (s PermanentState) WithCombatCleared() PermanentState {
	s.Attacking = false
	s.Blocking = false
	s.BlockedByID = ""
	s.BlockingID = ""
	return s
}

// WithTurnReset is applied during the controller's untap step.
func (s PermanentState) WithTurnReset() PermanentState {
	s.Tapped = false
	s.SummoningSick = false
	s.AttackedThisTurn = false
	return s
}

func (s PermanentState) WithDamage(amount int) PermanentState {
	s.Damage += amount
	return s
}

func (s PermanentState) WithDamageCleared() PermanentState {
	s.Damage = 0
	return s
}

// WithCounters adds amount counters of the given kind. The counters map is
// copied so earlier state values stay unchanged.
func (s PermanentState) WithCounters(kind string, amount int) PermanentState {
	counters := make(map[string]int, len(s.Counters)+1)
	for k, v := range s.Counters {
		counters[k] = v
	}
	counters[kind] += amount
	s.Counters = counters
	return s
}

func (s PermanentState) CounterCount(kind string) int {
	return s.Counters[kind]
}
