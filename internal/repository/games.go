// Package repository holds the server's stores: live games in memory,
// finished match history in Postgres when a DSN is configured.
package repository

import (
	"sort"
	"sync"

	"github.com/openduel/duel-server-go/internal/game"
)

// GameRepository is the in-memory home of live games. It guards only the
// map; the games themselves are not safe for concurrent use and the match
// manager serializes access to each one.
type GameRepository struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{games: make(map[string]*game.Game)}
}

func (r *GameRepository) Save(g *game.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.ID()] = g
}

func (r *GameRepository) Get(id string) (*game.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

func (r *GameRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
}

// List returns every stored game ordered by id, so API listings are stable.
func (r *GameRepository) List() []*game.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*game.Game, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (r *GameRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
