package game

import (
	"github.com/openduel/duel-server-go/internal/game/mana"
)

// Snapshot is the complete, unfiltered export of a game: every zone of
// every player, face up. Hiding hands and libraries from opponents is the
// view layer's job, never the engine's.
type Snapshot struct {
	GameID           string `json:"game_id"`
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

	Players []PlayerSnapshot    `json:"players"`
	Stack   []StackItemSnapshot `json:"stack"`

	ActionCount int `json:"action_count"`
}

// PlayerSnapshot is one seat with all four zones in order.
type PlayerSnapshot struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Life           int            `json:"life"`
	PassedPriority bool           `json:"passed_priority"`
	AutoPass       bool           `json:"auto_pass"`
	ManaPool       map[string]int `json:"mana_pool"`

	Library     []CardSnapshot `json:"library"`
	Hand        []CardSnapshot `json:"hand"`
	Battlefield []CardSnapshot `json:"battlefield"`
	Graveyard   []CardSnapshot `json:"graveyard"`
}

// CardSnapshot is one card instance. Power and toughness include counters
// for cards on the battlefield; combat fields are zero values elsewhere.
type CardSnapshot struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Types    []string `json:"types"`
	ManaCost string   `json:"mana_cost,omitempty"`
	OwnerID  string   `json:"owner_id"`

	Power     int `json:"power"`
	Toughness int `json:"toughness"`

	Tapped           bool           `json:"tapped,omitempty"`
	SummoningSick    bool           `json:"summoning_sick,omitempty"`
	Attacking        bool           `json:"attacking,omitempty"`
	AttackedThisTurn bool           `json:"attacked_this_turn,omitempty"`
	Blocking         bool           `json:"blocking,omitempty"`
	BlockedByID      string         `json:"blocked_by_id,omitempty"`
	BlockingID       string         `json:"blocking_id,omitempty"`
	Damage           int            `json:"damage,omitempty"`
	Counters         map[string]int `json:"counters,omitempty"`

	Ability  string   `json:"ability,omitempty"`
	Triggers []string `json:"triggers,omitempty"`
}

// StackItemSnapshot mirrors one stack entry, bottom-first in the snapshot.
type StackItemSnapshot struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	ControllerID string   `json:"controller_id"`
	CardID       string   `json:"card_id,omitempty"`
	SourceID     string   `json:"source_id,omitempty"`
	Description  string   `json:"description"`
	Targets      []string `json:"targets,omitempty"`
}

// Export dumps the full game state as plain data.
func (g *Game) Export() *Snapshot {
	snap := &Snapshot{
		GameID:           g.id,
		Lifecycle:        string(g.lifecycle),
		WinnerID:         g.winnerID,
		TurnNumber:       g.turn.TurnNumber,
		Step:             g.turn.Step.String(),
		Phase:            g.turn.Step.Phase().String(),
		ActivePlayerID:   g.turn.ActivePlayerID,
		PriorityPlayerID: g.priorityPlayerID,
		LandsPlayed:      g.turn.LandsPlayed,
		ActionCount:      g.seq,
	}

	for _, s := range g.scheduledSteps {
		snap.ScheduledSteps = append(snap.ScheduledSteps, s.String())
	}
	if g.resumeStep != nil {
		snap.ResumeStep = g.resumeStep.String()
	}

	for _, p := range g.players {
		ps := g.states[p.ID]
		player := PlayerSnapshot{
			ID:             p.ID,
			Name:           p.Name,
			Life:           p.Life,
			PassedPriority: g.passed[p.ID],
			AutoPass:       g.autoPass[p.ID],
			ManaPool:       poolSnapshot(g.pools[p.ID]),
			Library:        g.cardSnapshots(ps.Library, false),
			Hand:           g.cardSnapshots(ps.Hand, false),
			Battlefield:    g.cardSnapshots(ps.Battlefield, true),
			Graveyard:      g.cardSnapshots(ps.Graveyard, false),
		}
		snap.Players = append(snap.Players, player)
	}

	for _, item := range g.stack.Items() {
		snap.Stack = append(snap.Stack, StackItemSnapshot{
			ID:           item.ID,
			Kind:         string(item.Kind),
			ControllerID: item.ControllerID,
			CardID:       item.CardID,
			SourceID:     item.SourceID,
			Description:  item.Description,
			Targets:      append([]string(nil), item.Targets...),
		})
	}
	return snap
}

func poolSnapshot(pool mana.Pool) map[string]int {
	out := make(map[string]int, len(mana.Symbols))
	for _, sym := range mana.Symbols {
		out[string(sym)] = pool.Amount(sym)
	}
	return out
}

func (g *Game) cardSnapshots(zone []*CardInstance, onBattlefield bool) []CardSnapshot {
	out := make([]CardSnapshot, 0, len(zone))
	for _, ci := range zone {
		out = append(out, g.cardSnapshot(ci, onBattlefield))
	}
	return out
}

func (g *Game) cardSnapshot(ci *CardInstance, onBattlefield bool) CardSnapshot {
	cs := CardSnapshot{
		ID:        ci.ID,
		Name:      ci.Def.Name,
		OwnerID:   ci.OwnerID,
		Power:     ci.Def.Power,
		Toughness: ci.Def.Toughness,
	}
	for _, t := range ci.Def.Types {
		cs.Types = append(cs.Types, string(t))
	}
	if !ci.Def.ManaCost.IsZero() {
		cs.ManaCost = ci.Def.ManaCost.String()
	}
	if ci.Def.Ability != nil {
		cs.Ability = ci.Def.Ability.Description
	}
	for _, tr := range ci.Def.Triggers {
		cs.Triggers = append(cs.Triggers, tr.Description)
	}

	if onBattlefield {
		st := g.permanents[ci.ID]
		cs.Power = g.effectivePower(ci)
		cs.Toughness = g.effectiveToughness(ci)
		cs.Tapped = st.Tapped
		cs.SummoningSick = st.SummoningSick
		cs.Attacking = st.Attacking
		cs.AttackedThisTurn = st.AttackedThisTurn
		cs.Blocking = st.Blocking
		cs.BlockedByID = st.BlockedByID
		cs.BlockingID = st.BlockingID
		cs.Damage = st.Damage
		if len(st.Counters) > 0 {
			counters := make(map[string]int, len(st.Counters))
			for k, v := range st.Counters {
				counters[k] = v
			}
			cs.Counters = counters
		}
	}
	return cs
}
