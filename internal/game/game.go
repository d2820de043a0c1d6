package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/openduel/duel-server-go/internal/game/mana"
	"github.com/openduel/duel-server-go/internal/game/rules"
)

// Lifecycle is the coarse state of a game.
type Lifecycle string

const (
	LifecycleCreated  Lifecycle = "CREATED"
	LifecycleStarted  Lifecycle = "STARTED"
	LifecycleFinished Lifecycle = "FINISHED"
)

const (
	startingLife    = 20
	openingHandSize = 7
	landsPerTurn    = 1

	// autoPassLimit bounds the auto-pass cascade so a malformed card set
	// cannot spin the engine forever.
	autoPassLimit = 100
)

// Player is a seat in the game. Life has no lower bound; reaching zero does
// not end the game here.
type Player struct {
	ID   string
	Name string
	Life int
}

// Game is a single two-player duel. It is not safe for concurrent use; the
// hosting layer serializes access per game.
type Game struct {
	id     string
	logger *zap.Logger

	lifecycle Lifecycle
	winnerID  string

	players []*Player
	states  map[string]*playerState
	pools   map[string]mana.Pool

	turn             rules.TurnState
	startingPlayerID string
	priorityPlayerID string
	passed           map[string]bool
	autoPass         map[string]bool

	stack      *rules.Stack
	permanents map[string]PermanentState

	scheduledSteps []rules.Step
	resumeStep     *rules.Step

	// idCounter issues card and stack item ids. Sequential ids keep games
	// reproducible from their action log.
	idCounter int
	seq       int
	actionLog []ActionRecord
}

// NewGame creates an empty game in the CREATED state.
func NewGame(id string, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		id:         id,
		logger:     logger,
		lifecycle:  LifecycleCreated,
		states:     make(map[string]*playerState),
		pools:      make(map[string]mana.Pool),
		passed:     make(map[string]bool),
		autoPass:   make(map[string]bool),
		stack:      rules.NewStack(),
		permanents: make(map[string]PermanentState),
	}
}

func (g *Game) nextID(prefix string) string {
	g.idCounter++
	return fmt.Sprintf("%s-%d", prefix, g.idCounter)
}

// AddPlayer seats a player with their deck, in seating order. The deck is
// taken as given: shuffling is the caller's concern, which keeps the engine
// deterministic.
func (g *Game) AddPlayer(id, name string, deck []*CardDefinition) error {
	if g.lifecycle != LifecycleCreated {
		return ErrGameAlreadyStarted
	}
	if _, exists := g.states[id]; exists {
		return ErrDuplicatePlayer
	}

	library := make([]*CardInstance, 0, len(deck))
	for _, def := range deck {
		library = append(library, &CardInstance{
			ID:      g.nextID("c"),
			OwnerID: id,
			Def:     def,
		})
	}

	g.players = append(g.players, &Player{ID: id, Name: name, Life: startingLife})
	g.states[id] = &playerState{Library: library}
	g.pools[id] = mana.NewPool()

	g.logger.Info("player seated",
		zap.String("game_id", g.id),
		zap.String("player_id", id),
		zap.Int("deck_size", len(deck)))
	return nil
}

// Start begins the game: opening hands are drawn and the starting player's
// first untap step is entered.
func (g *Game) Start(startingPlayerID string) error {
	if g.lifecycle != LifecycleCreated {
		return ErrGameAlreadyStarted
	}
	if len(g.players) < 2 {
		return ErrInvalidPlayerCount
	}
	if _, ok := g.states[startingPlayerID]; !ok {
		return ErrInvalidStarting
	}

	g.lifecycle = LifecycleStarted
	g.startingPlayerID = startingPlayerID
	g.turn = rules.NewTurnState(startingPlayerID)

	for _, p := range g.players {
		for i := 0; i < openingHandSize; i++ {
			g.drawCard(p.ID)
		}
	}

	g.logger.Info("game started",
		zap.String("game_id", g.id),
		zap.String("starting_player", startingPlayerID),
		zap.Int("players", len(g.players)))

	return g.enterStep()
}

// Apply validates and executes one player action. A validation failure
// leaves the game untouched; a successful action is appended to the action
// log.
func (g *Game) Apply(action Action) error {
	switch g.lifecycle {
	case LifecycleCreated:
		return ErrGameNotStarted
	case LifecycleFinished:
		return ErrGameFinished
	}
	if _, ok := g.states[action.Player()]; !ok {
		return ErrUnknownPlayer
	}

	var err error
	switch a := action.(type) {
	case AdvanceStep:
		err = g.applyAdvanceStep(a)
	case EndTurn:
		err = g.applyEndTurn(a)
	case PlayLand:
		err = g.applyPlayLand(a)
	case CastSpell:
		err = g.applyCastSpell(a)
	case PassPriority:
		err = g.applyPassPriority(a)
	case DeclareAttacker:
		err = g.applyDeclareAttacker(a)
	case DeclareBlocker:
		err = g.applyDeclareBlocker(a)
	case ActivateAbility:
		err = g.applyActivateAbility(a)
	default:
		err = ErrUnknownAction
	}
	if err != nil {
		g.logger.Warn("action rejected",
			zap.String("game_id", g.id),
			zap.String("action", string(action.Type())),
			zap.String("player_id", action.Player()),
			zap.Error(err))
		return err
	}

	g.seq++
	rec := recordFor(action)
	rec.Seq = g.seq
	g.actionLog = append(g.actionLog, rec)
	return nil
}

// Concede ends the game immediately. The next player in turn order wins,
// which in a two-player duel is the opponent. This is the only way a game
// reaches FINISHED.
func (g *Game) Concede(playerID string) error {
	switch g.lifecycle {
	case LifecycleCreated:
		return ErrGameNotStarted
	case LifecycleFinished:
		return ErrGameFinished
	}
	if _, ok := g.states[playerID]; !ok {
		return ErrUnknownPlayer
	}

	g.lifecycle = LifecycleFinished
	g.winnerID = g.nextPlayerAfter(playerID)

	g.logger.Info("player conceded",
		zap.String("game_id", g.id),
		zap.String("player_id", playerID),
		zap.String("winner", g.winnerID))
	return nil
}

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// nextPlayerAfter walks the seating order, wrapping at the end.
func (g *Game) nextPlayerAfter(id string) string {
	for i, p := range g.players {
		if p.ID == id {
			return g.players[(i+1)%len(g.players)].ID
		}
	}
	return id
}

// OpponentOf returns the next player in seating order. Card effects use it
// to resolve "each opponent" style wording in a two-player game.
func (g *Game) OpponentOf(playerID string) string {
	return g.nextPlayerAfter(playerID)
}

func (g *Game) requirePriority(playerID string) error {
	if g.priorityPlayerID != playerID {
		return ErrWrongPlayer
	}
	return nil
}

// AddMana adds mana to a player's pool. Mana abilities and effects use
// this; pools empty at cleanup.
func (g *Game) AddMana(playerID string, symbol mana.Symbol, amount int) error {
	pool, ok := g.pools[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	added, err := pool.WithAdded(symbol, amount)
	if err != nil {
		return err
	}
	g.pools[playerID] = added
	return nil
}

// DealDamageToPlayer reduces a player's life total. Life may go negative;
// nothing ends the game on zero life here.
func (g *Game) DealDamageToPlayer(playerID string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	p := g.playerByID(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	p.Life -= amount
	g.logger.Info("damage dealt to player",
		zap.String("game_id", g.id),
		zap.String("player_id", playerID),
		zap.Int("amount", amount),
		zap.Int("life", p.Life))
	return nil
}

// GainLife raises a player's life total.
func (g *Game) GainLife(playerID string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	p := g.playerByID(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	p.Life += amount
	g.logger.Info("life gained",
		zap.String("game_id", g.id),
		zap.String("player_id", playerID),
		zap.Int("amount", amount),
		zap.Int("life", p.Life))
	return nil
}

// DealDamageToCreature marks damage on a creature. The damage only becomes
// lethal when state-based actions next run, at the combat damage step.
func (g *Game) DealDamageToCreature(permanentID string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	st, ok := g.permanents[permanentID]
	if !ok {
		return ErrPermanentNotFound
	}
	g.permanents[permanentID] = st.WithDamage(amount)
	return nil
}

// AddCounters places counters on a permanent.
func (g *Game) AddCounters(permanentID, kind string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	st, ok := g.permanents[permanentID]
	if !ok {
		return ErrPermanentNotFound
	}
	g.permanents[permanentID] = st.WithCounters(kind, amount)
	return nil
}

// effectivePower is base power plus +1/+1 counters.
func (g *Game) effectivePower(card *CardInstance) int {
	return card.Def.Power + g.permanents[card.ID].CounterCount(CounterPlusOnePlusOne)
}

// effectiveToughness is base toughness plus +1/+1 counters.
func (g *Game) effectiveToughness(card *CardInstance) int {
	return card.Def.Toughness + g.permanents[card.ID].CounterCount(CounterPlusOnePlusOne)
}

func (g *Game) ID() string               { return g.id }
func (g *Game) Lifecycle() Lifecycle     { return g.lifecycle }
func (g *Game) WinnerID() string         { return g.winnerID }
func (g *Game) Turn() rules.TurnState    { return g.turn }
func (g *Game) PriorityPlayerID() string { return g.priorityPlayerID }

// Players returns the seats in turn order.
func (g *Game) Players() []Player {
	out := make([]Player, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, *p)
	}
	return out
}

// ManaPool returns a player's current pool.
func (g *Game) ManaPool(playerID string) (mana.Pool, bool) {
	pool, ok := g.pools[playerID]
	return pool, ok
}

// StackItems returns the stack bottom-first.
func (g *Game) StackItems() []rules.StackItem {
	return g.stack.Items()
}

// ActionLog returns the accepted actions in order.
func (g *Game) ActionLog() []ActionRecord {
	out := make([]ActionRecord, len(g.actionLog))
	copy(out, g.actionLog)
	return out
}
