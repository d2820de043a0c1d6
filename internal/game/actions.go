package game

// ActionType identifies one of the eight player actions.
type ActionType string

const (
	ActionAdvanceStep     ActionType = "ADVANCE_STEP"
	ActionEndTurn         ActionType = "END_TURN"
	ActionPlayLand        ActionType = "PLAY_LAND"
	ActionCastSpell       ActionType = "CAST_SPELL"
	ActionPassPriority    ActionType = "PASS_PRIORITY"
	ActionDeclareAttacker ActionType = "DECLARE_ATTACKER"
	ActionDeclareBlocker  ActionType = "DECLARE_BLOCKER"
	ActionActivateAbility ActionType = "ACTIVATE_ABILITY"
)

// Action is the sealed set of player inputs accepted by Apply. The
// unexported marker keeps the set closed to this package.
type Action interface {
	Player() string
	Type() ActionType
	isAction()
}

// AdvanceStep moves the game to the next step. Only the active player may
// advance, and only with an empty stack.
type AdvanceStep struct {
	PlayerID string
}

// EndTurn arms auto-pass for the player: the engine passes priority and
// advances steps on their behalf until the next untap step.
type EndTurn struct {
	PlayerID string
}

// PlayLand puts a land from hand onto the battlefield. Lands never use the
// stack.
type PlayLand struct {
	PlayerID string
	CardID   string
}

// CastSpell pays a card's mana cost and puts it on the stack.
type CastSpell struct {
	PlayerID string
	CardID   string
	Targets  []string
}

// PassPriority adds the player to the passed set. When every player has
// passed, the top stack item resolves, or the step ends if the stack is
// empty.
type PassPriority struct {
	PlayerID string
}

// DeclareAttacker taps a creature and sends it into combat.
type DeclareAttacker struct {
	PlayerID   string
	CreatureID string
}

// DeclareBlocker assigns one of the defender's creatures to block an
// attacker. Each attacker can be blocked by at most one creature.
type DeclareBlocker struct {
	PlayerID   string
	BlockerID  string
	AttackerID string
}

// ActivateAbility pays a permanent's ability costs and puts the ability on
// the stack.
type ActivateAbility struct {
	PlayerID    string
	PermanentID string
	Targets     []string
}

func (a AdvanceStep) Player() string     { return a.PlayerID }
func (a EndTurn) Player() string         { return a.PlayerID }
func (a PlayLand) Player() string        { return a.PlayerID }
func (a CastSpell) Player() string       { return a.PlayerID }
func (a PassPriority) Player() string    { return a.PlayerID }
func (a DeclareAttacker) Player() string { return a.PlayerID }
func (a DeclareBlocker) Player() string  { return a.PlayerID }
func (a ActivateAbility) Player() string { return a.PlayerID }

func (AdvanceStep) Type() ActionType     { return ActionAdvanceStep }
func (EndTurn) Type() ActionType         { return ActionEndTurn }
func (PlayLand) Type() ActionType        { return ActionPlayLand }
func (CastSpell) Type() ActionType       { return ActionCastSpell }
func (PassPriority) Type() ActionType    { return ActionPassPriority }
func (DeclareAttacker) Type() ActionType { return ActionDeclareAttacker }
func (DeclareBlocker) Type() ActionType  { return ActionDeclareBlocker }
func (ActivateAbility) Type() ActionType { return ActionActivateAbility }

func (AdvanceStep) isAction()     {}
func (EndTurn) isAction()         {}
func (PlayLand) isAction()        {}
func (CastSpell) isAction()       {}
func (PassPriority) isAction()    {}
func (DeclareAttacker) isAction() {}
func (DeclareBlocker) isAction()  {}
func (ActivateAbility) isAction() {}

// ActionRecord is the flat, serializable form of an action, kept in the
// game's action log and replayed to rebuild a game deterministically.
type ActionRecord struct {
	Seq         int        `json:"seq"`
	Type        ActionType `json:"type"`
	PlayerID    string     `json:"player_id"`
	CardID      string     `json:"card_id,omitempty"`
	CreatureID  string     `json:"creature_id,omitempty"`
	BlockerID   string     `json:"blocker_id,omitempty"`
	AttackerID  string     `json:"attacker_id,omitempty"`
	PermanentID string     `json:"permanent_id,omitempty"`
	Targets     []string   `json:"targets,omitempty"`
}

func recordFor(a Action) ActionRecord {
	rec := ActionRecord{Type: a.Type(), PlayerID: a.Player()}
	switch act := a.(type) {
	case PlayLand:
		rec.CardID = act.CardID
	case CastSpell:
		rec.CardID = act.CardID
		rec.Targets = act.Targets
	case DeclareAttacker:
		rec.CreatureID = act.CreatureID
	case DeclareBlocker:
		rec.BlockerID = act.BlockerID
		rec.AttackerID = act.AttackerID
	case ActivateAbility:
		rec.PermanentID = act.PermanentID
		rec.Targets = act.Targets
	}
	return rec
}

// ToAction converts a logged record back into a typed action.
func (r ActionRecord) ToAction() (Action, error) {
	switch r.Type {
	case ActionAdvanceStep:
		return AdvanceStep{PlayerID: r.PlayerID}, nil
	case ActionEndTurn:
		return EndTurn{PlayerID: r.PlayerID}, nil
	case ActionPlayLand:
		return PlayLand{PlayerID: r.PlayerID, CardID: r.CardID}, nil
	case ActionCastSpell:
		return CastSpell{PlayerID: r.PlayerID, CardID: r.CardID, Targets: r.Targets}, nil
	case ActionPassPriority:
		return PassPriority{PlayerID: r.PlayerID}, nil
	case ActionDeclareAttacker:
		return DeclareAttacker{PlayerID: r.PlayerID, CreatureID: r.CreatureID}, nil
	case ActionDeclareBlocker:
		return DeclareBlocker{PlayerID: r.PlayerID, BlockerID: r.BlockerID, AttackerID: r.AttackerID}, nil
	case ActionActivateAbility:
		return ActivateAbility{PlayerID: r.PlayerID, PermanentID: r.PermanentID, Targets: r.Targets}, nil
	default:
		return nil, ErrUnknownAction
	}
}
