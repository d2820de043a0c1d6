// Package view turns full game snapshots into per-player pictures: a
// player sees their own hand, while opponent hands and both libraries are
// reduced to counts. The engine exports everything face up; all hiding
// happens here.
package view

import (
	"github.com/openduel/duel-server-go/internal/game"
)

// GameView is the filtered state of one game as one viewer sees it.
type GameView struct {
	GameID   string `json:"game_id"`
	ViewerID string `json:"viewer_id,omitempty"`

	Lifecycle        string `json:"lifecycle"`
	WinnerID         string `json:"winner_id,omitempty"`
	TurnNumber       int    `json:"turn_number"`
	Step             string `json:"step"`
	Phase            string `json:"phase"`
	ActivePlayerID   string `json:"active_player_id"`
	PriorityPlayerID string `json:"priority_player_id"`
	LandsPlayed      int    `json:"lands_played"`

	ScheduledSteps []string `json:"scheduled_steps,omitempty"`
	ResumeStep     string   `json:"resume_step,omitempty"`

	Players []PlayerView             `json:"players"`
	Stack   []game.StackItemSnapshot `json:"stack"`
}

// PlayerView is one seat as the viewer sees it. Hand carries cards only for
// the viewer's own seat; every other zone a player hides is a count.
type PlayerView struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Life           int            `json:"life"`
	PassedPriority bool           `json:"passed_priority"`
	AutoPass       bool           `json:"auto_pass"`
	ManaPool       map[string]int `json:"mana_pool"`

	LibraryCount int                 `json:"library_count"`
	HandCount    int                 `json:"hand_count"`
	Hand         []game.CardSnapshot `json:"hand,omitempty"`
	Battlefield  []game.CardSnapshot `json:"battlefield"`
	Graveyard    []game.CardSnapshot `json:"graveyard"`
}

// For filters a snapshot for one viewer. A viewer id matching no seat, such
// as a spectator's, sees no hand at all.
func For(s *game.Snapshot, viewerID string) *GameView {
	v := &GameView{
		GameID:           s.GameID,
		ViewerID:         viewerID,
		Lifecycle:        s.Lifecycle,
		WinnerID:         s.WinnerID,
		TurnNumber:       s.TurnNumber,
		Step:             s.Step,
		Phase:            s.Phase,
		ActivePlayerID:   s.ActivePlayerID,
		PriorityPlayerID: s.PriorityPlayerID,
		LandsPlayed:      s.LandsPlayed,
		ScheduledSteps:   append([]string(nil), s.ScheduledSteps...),
		ResumeStep:       s.ResumeStep,
		Stack:            append([]game.StackItemSnapshot(nil), s.Stack...),
	}

	for _, p := range s.Players {
		pv := PlayerView{
			ID:             p.ID,
			Name:           p.Name,
			Life:           p.Life,
			PassedPriority: p.PassedPriority,
			AutoPass:       p.AutoPass,
			ManaPool:       copyPool(p.ManaPool),
			LibraryCount:   len(p.Library),
			HandCount:      len(p.Hand),
			Battlefield:    append([]game.CardSnapshot(nil), p.Battlefield...),
			Graveyard:      append([]game.CardSnapshot(nil), p.Graveyard...),
		}
		if p.ID == viewerID {
			pv.Hand = append([]game.CardSnapshot(nil), p.Hand...)
		}
		v.Players = append(v.Players, pv)
	}
	return v
}

// Public is the spectator view: every hand hidden.
func Public(s *game.Snapshot) *GameView {
	return For(s, "")
}

func copyPool(pool map[string]int) map[string]int {
	out := make(map[string]int, len(pool))
	for k, v := range pool {
		out[k] = v
	}
	return out
}
