// Package match hosts running games. The engine is single-threaded by
// contract, so the manager wraps every game in its own mutex and is the only
// code that touches a game after creation. It wires deck lists, the game
// repository, replay recording, match history and live updates together.
package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openduel/duel-server-go/internal/cards"
	"github.com/openduel/duel-server-go/internal/game"
	"github.com/openduel/duel-server-go/internal/repository"
	"github.com/openduel/duel-server-go/internal/view"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrUnknownDeck  = errors.New("unknown deck")
)

// Broadcaster receives the full snapshot after every accepted state change.
// Implementations fan it out to connected clients, filtering hidden zones per
// viewer. Calls arrive in per-game order, under the game's lock.
type Broadcaster interface {
	GameUpdated(gameID string, snap *game.Snapshot)
}

// session pairs one hosted game with the mutex that serializes access to it,
// plus the setup kept around for replays and summaries.
type session struct {
	mu        sync.Mutex
	createdAt time.Time
	seats     []game.Seat
	decks     map[string]string
	finished  bool
}

// Manager creates games and serializes all access to them.
type Manager struct {
	logger      *zap.Logger
	games       *repository.GameRepository
	decks       map[string]*cards.Deck
	recorder    *game.ReplayRecorder
	history     *repository.HistoryStore
	broadcaster Broadcaster

	mu       sync.Mutex
	sessions map[string]*session
}

// NewManager wires the manager's collaborators. The recorder, history store
// and broadcaster may each be nil, which disables replays, match history and
// live updates respectively.
func NewManager(logger *zap.Logger, games *repository.GameRepository, decks map[string]*cards.Deck,
	recorder *game.ReplayRecorder, history *repository.HistoryStore, broadcaster Broadcaster) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger:      logger,
		games:       games,
		decks:       decks,
		recorder:    recorder,
		history:     history,
		broadcaster: broadcaster,
		sessions:    make(map[string]*session),
	}
}

// CreateParams names the two players and the deck list each plays.
type CreateParams struct {
	Player1Name string
	Player1Deck string
	Player2Name string
	Player2Deck string
}

// PlayerSummary is one seat in a game listing.
type PlayerSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Deck string `json:"deck"`
	Life int    `json:"life"`
}

// GameSummary is the listing form of a hosted game.
type GameSummary struct {
	GameID     string          `json:"game_id"`
	Lifecycle  string          `json:"lifecycle"`
	TurnNumber int             `json:"turn_number,omitempty"`
	Step       string          `json:"step,omitempty"`
	WinnerID   string          `json:"winner_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Players    []PlayerSummary `json:"players"`
}

// CreateGame builds a new two-seat game: each player's deck list is expanded,
// shuffled and resolved through the card registry, then the players are
// seated as p1 and p2. The game starts later via StartGame.
func (m *Manager) CreateGame(p CreateParams) (*GameSummary, error) {
	gameID := uuid.NewString()
	g := game.NewGame(gameID, m.logger)

	s := &session{
		createdAt: time.Now().UTC(),
		decks:     make(map[string]string, 2),
	}
	seats := []struct {
		id, name, deck string
	}{
		{"p1", p.Player1Name, p.Player1Deck},
		{"p2", p.Player2Name, p.Player2Deck},
	}
	for _, seat := range seats {
		deck, ok := m.decks[seat.deck]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDeck, seat.deck)
		}
		names := deck.CardNames()
		rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

		defs := make([]*game.CardDefinition, len(names))
		resolved := make(map[string]*game.CardDefinition, len(names))
		for i, name := range names {
			def, ok := resolved[name]
			if !ok {
				def, ok = cards.Lookup(name)
				if !ok {
					return nil, fmt.Errorf("deck %q: unknown card %q", seat.deck, name)
				}
				resolved[name] = def
			}
			defs[i] = def
		}
		if err := g.AddPlayer(seat.id, seat.name, defs); err != nil {
			return nil, fmt.Errorf("seating %s: %w", seat.id, err)
		}
		s.seats = append(s.seats, game.Seat{PlayerID: seat.id, Name: seat.name, Deck: names})
		s.decks[seat.id] = seat.deck
	}

	m.mu.Lock()
	m.sessions[gameID] = s
	m.mu.Unlock()
	m.games.Save(g)

	m.logger.Info("game created",
		zap.String("game_id", gameID),
		zap.String("deck_p1", p.Player1Deck),
		zap.String("deck_p2", p.Player2Deck))
	return m.summarize(g, s), nil
}

// StartGame starts the game. An empty startingPlayerID means a coin flip.
func (m *Manager) StartGame(gameID, startingPlayerID string) error {
	s, g, err := m.session(gameID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if startingPlayerID == "" {
		startingPlayerID = s.seats[rand.Intn(len(s.seats))].PlayerID
	}
	if err := g.Start(startingPlayerID); err != nil {
		return err
	}
	if m.recorder != nil {
		m.recorder.StartRecording(gameID, s.seats, startingPlayerID)
	}
	m.broadcast(gameID, g.Export())
	return nil
}

// Apply executes one player action under the game's lock. Accepted actions
// are recorded for replay and pushed to the broadcaster; rejected actions
// leave the game untouched and are returned as-is.
func (m *Manager) Apply(ctx context.Context, gameID string, action game.Action) error {
	s, g, err := m.session(gameID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := g.Apply(action); err != nil {
		return err
	}
	snap := g.Export()
	if m.recorder != nil {
		if log := g.ActionLog(); len(log) > 0 {
			m.recorder.Record(gameID, log[len(log)-1], snap)
		}
	}
	m.finish(ctx, s, g, snap)
	m.broadcast(gameID, snap)
	return nil
}

// Concede ends the game in the opponent's favor, saves the replay and writes
// the match history row when those collaborators are configured.
func (m *Manager) Concede(ctx context.Context, gameID, playerID string) error {
	s, g, err := m.session(gameID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := g.Concede(playerID); err != nil {
		return err
	}
	snap := g.Export()
	m.finish(ctx, s, g, snap)
	m.broadcast(gameID, snap)
	return nil
}

// AllowedActions returns the action types currently legal for the player.
func (m *Manager) AllowedActions(gameID, playerID string) ([]game.ActionType, error) {
	s, g, err := m.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return g.AllowedActionsFor(playerID), nil
}

// View returns the game as the viewer is allowed to see it. An empty
// viewerID yields the spectator view with every hand hidden.
func (m *Manager) View(gameID, viewerID string) (*view.GameView, error) {
	s, g, err := m.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.For(g.Export(), viewerID), nil
}

// Export returns the full unfiltered snapshot, hidden zones included.
func (m *Manager) Export(gameID string) (*game.Snapshot, error) {
	s, g, err := m.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return g.Export(), nil
}

// ListGames summarizes every hosted game, ordered by game id.
func (m *Manager) ListGames() []GameSummary {
	out := make([]GameSummary, 0)
	for _, g := range m.games.List() {
		m.mu.Lock()
		s, ok := m.sessions[g.ID()]
		m.mu.Unlock()
		if !ok {
			continue
		}
		s.mu.Lock()
		out = append(out, *m.summarize(g, s))
		s.mu.Unlock()
	}
	return out
}

// DeckNames lists the deck lists available for CreateGame, sorted.
func (m *Manager) DeckNames() []string {
	names := make([]string, 0, len(m.decks))
	for name := range m.decks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) session(gameID string) (*session, *game.Game, error) {
	m.mu.Lock()
	s, ok := m.sessions[gameID]
	m.mu.Unlock()
	if !ok {
		return nil, nil, ErrGameNotFound
	}
	g, ok := m.games.Get(gameID)
	if !ok {
		return nil, nil, ErrGameNotFound
	}
	return s, g, nil
}

// finish runs once per game, at the transition into FINISHED: it saves the
// replay and records the result. Failures are logged, never surfaced, so a
// dead history store cannot block the concede that ended the game.
func (m *Manager) finish(ctx context.Context, s *session, g *game.Game, snap *game.Snapshot) {
	if g.Lifecycle() != game.LifecycleFinished || s.finished {
		return
	}
	s.finished = true
	winnerID := g.WinnerID()

	if m.recorder != nil && m.recorder.IsRecording(g.ID()) {
		if err := m.recorder.SaveReplay(g.ID()); err != nil {
			m.logger.Error("saving replay",
				zap.String("game_id", g.ID()),
				zap.Error(err))
		}
	}
	if m.history != nil {
		result := repository.MatchResult{
			GameID:     g.ID(),
			WinnerID:   winnerID,
			LoserID:    g.OpponentOf(winnerID),
			Turns:      snap.TurnNumber,
			FinishedAt: time.Now().UTC(),
		}
		if err := m.history.Record(ctx, result); err != nil {
			m.logger.Error("recording match result",
				zap.String("game_id", g.ID()),
				zap.Error(err))
		}
	}
	m.logger.Info("game finished",
		zap.String("game_id", g.ID()),
		zap.String("winner", winnerID),
		zap.Int("turns", snap.TurnNumber))
}

func (m *Manager) broadcast(gameID string, snap *game.Snapshot) {
	if m.broadcaster == nil {
		return
	}
	m.broadcaster.GameUpdated(gameID, snap)
}

func (m *Manager) summarize(g *game.Game, s *session) *GameSummary {
	sum := &GameSummary{
		GameID:    g.ID(),
		Lifecycle: string(g.Lifecycle()),
		WinnerID:  g.WinnerID(),
		CreatedAt: s.createdAt,
	}
	if g.Lifecycle() != game.LifecycleCreated {
		t := g.Turn()
		sum.TurnNumber = t.TurnNumber
		sum.Step = t.Step.String()
	}
	for _, p := range g.Players() {
		sum.Players = append(sum.Players, PlayerSummary{
			ID:   p.ID,
			Name: p.Name,
			Deck: s.decks[p.ID],
			Life: p.Life,
		})
	}
	return sum
}
