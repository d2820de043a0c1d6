// Package server exposes hosted games over HTTP and pushes live updates over
// websockets. Handlers validate and translate requests, the match manager
// does the rest.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/openduel/duel-server-go/internal/game"
	"github.com/openduel/duel-server-go/internal/match"
	"github.com/openduel/duel-server-go/internal/repository"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// GameHandler serves the game API. The history store may be nil, in which
// case the recent-matches route is not registered.
type GameHandler struct {
	manager  *match.Manager
	history  *repository.HistoryStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewGameHandler creates the handler set around a match manager.
func NewGameHandler(manager *match.Manager, history *repository.HistoryStore, logger *zap.Logger) *GameHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameHandler{
		manager:  manager,
		history:  history,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *GameHandler) hasHistory() bool { return h.history != nil }

func (h *GameHandler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("encoding response",
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
}

func (h *GameHandler) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, ErrorResponse{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// statusForError maps manager and engine errors onto HTTP status codes.
// Unknown games are 404, malformed input is 400, and everything the rules
// reject is 409: the request was well-formed but the game state forbids it.
func statusForError(err error) int {
	switch {
	case errors.Is(err, match.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, match.ErrUnknownDeck), errors.Is(err, game.ErrUnknownAction):
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

// CreateGameRequest names the players and their deck lists.
type CreateGameRequest struct {
	Player1Name string `json:"player1_name" validate:"required"`
	Player1Deck string `json:"player1_deck" validate:"required"`
	Player2Name string `json:"player2_name" validate:"required"`
	Player2Deck string `json:"player2_deck" validate:"required"`
}

// StartGameRequest optionally picks who goes first; empty means a coin flip.
type StartGameRequest struct {
	StartingPlayerID string `json:"starting_player_id"`
}

// ActionRequest is the wire form of one player action. Type selects which of
// the id fields matter; the rest stay empty.
type ActionRequest struct {
	Type        string   `json:"type"      validate:"required,oneof=ADVANCE_STEP END_TURN PLAY_LAND CAST_SPELL PASS_PRIORITY DECLARE_ATTACKER DECLARE_BLOCKER ACTIVATE_ABILITY"`
	PlayerID    string   `json:"player_id" validate:"required"`
	CardID      string   `json:"card_id,omitempty"`
	CreatureID  string   `json:"creature_id,omitempty"`
	BlockerID   string   `json:"blocker_id,omitempty"`
	AttackerID  string   `json:"attacker_id,omitempty"`
	PermanentID string   `json:"permanent_id,omitempty"`
	Targets     []string `json:"targets,omitempty"`
}

func (r ActionRequest) toAction() (game.Action, error) {
	rec := game.ActionRecord{
		Type:        game.ActionType(r.Type),
		PlayerID:    r.PlayerID,
		CardID:      r.CardID,
		CreatureID:  r.CreatureID,
		BlockerID:   r.BlockerID,
		AttackerID:  r.AttackerID,
		PermanentID: r.PermanentID,
		Targets:     r.Targets,
	}
	return rec.ToAction()
}

// ConcedeRequest names the conceding player.
type ConcedeRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

// AllowedActionsResponse lists the action types a player may take right now.
type AllowedActionsResponse struct {
	PlayerID string            `json:"player_id"`
	Actions  []game.ActionType `json:"actions"`
}

// DeckListResponse lists the deck names available for CreateGame.
type DeckListResponse struct {
	Decks []string `json:"decks"`
}

// CreateGame handles POST /api/games.
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	sum, err := h.manager.CreateGame(match.CreateParams{
		Player1Name: req.Player1Name,
		Player1Deck: req.Player1Deck,
		Player2Name: req.Player2Name,
		Player2Deck: req.Player2Deck,
	})
	if err != nil {
		h.respondError(w, r, statusForError(err), err.Error())
		return
	}
	h.respondJSON(w, r, http.StatusCreated, sum)
}

// ListGames handles GET /api/games.
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, h.manager.ListGames())
}

// ListDecks handles GET /api/decks.
func (h *GameHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, DeckListResponse{Decks: h.manager.DeckNames()})
}

// StartGame handles POST /api/games/{gameID}/start. The body is optional;
// without one the starting player is chosen by coin flip.
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	var req StartGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, r, http.StatusBadRequest, "invalid request format")
			return
		}
	}

	if err := h.manager.StartGame(gameID, req.StartingPlayerID); err != nil {
		h.respondError(w, r, statusForError(err), err.Error())
		return
	}
	v, err := h.manager.View(gameID, "")
	if err != nil {
		h.respondError(w, r, statusForError(err), err.Error())
		return
	}
	h.respondJSON(w, r, http.StatusOK, v)
}

// PostAction handles POST /api/games/{gameID}/actions: one endpoint for all
// eight action types, dispatched on the type field. The response is the
// acting player's updated view.
func (h *GameHandler) PostAction(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}
	action, err := req.toAction()
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.manager.Apply(r.Context(), gameID, action); err != nil {
		h.respondError(w, r, statusForError(err), err.Error())
		return
	}
	v, err := h.manager.View(gameID, req.PlayerID)
	if err != nil {
		h.respondError(w, r, statusForError(err), err.Error())
		return
	}
	h.respondJSON(w, r, http.StatusOK, v)
}

// Concede handles POST /api/games/{gameID}/concede.
func (h *GameHandler) Concede(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	var req ConcedeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	if err := h.manager.Concede(r.Context(), gameID, req.PlayerID); err != nil {
		h.respondError(w, r, statusForError(err), err.Error())
		return
	}
	v, err := h.manager.View(gameID, "")
	if err != nil {
		h.respondError(w, r, statusForError(err), err.Error())
		return
	}
	h.respondJSON(w, r, http.StatusOK, v)
}

// GetSpectatorView handles GET /api/games/{gameID}/view: every hand hidden.
func (h *GameHandler) GetSpectatorView(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, chi.URLParam(r, "gameID"), "")
}

// GetPlayerView handles GET /api/games/{gameID}/players/{playerID}/view: the
// game as that player sees it, own hand included.
func (h *GameHandler) GetPlayerView(w http.ResponseWriter, r *http.Request) {
	h.serveView(w, r, chi.URLParam(r, "gameID"), chi.URLParam(r, "playerID"))
}

func (h *GameHandler) serveView(w http.ResponseWriter, r *http.Request, gameID, viewerID string) {
	v, err := h.manager.View(gameID, viewerID)
	if err != nil {
		h.respondError(w, r, statusForError(err), err.Error())
		return
	}
	h.respondJSON(w, r, http.StatusOK, v)
}

// GetExport handles GET /api/games/{gameID}/export: the full unfiltered
// snapshot, hidden zones included. Debugging surface, not a player one.
func (h *GameHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	snap, err := h.manager.Export(chi.URLParam(r, "gameID"))
	if err != nil {
		h.respondError(w, r, statusForError(err), err.Error())
		return
	}
	h.respondJSON(w, r, http.StatusOK, snap)
}

// GetAllowedActions handles GET /api/games/{gameID}/players/{playerID}/actions.
func (h *GameHandler) GetAllowedActions(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	playerID := chi.URLParam(r, "playerID")

	actions, err := h.manager.AllowedActions(gameID, playerID)
	if err != nil {
		h.respondError(w, r, statusForError(err), err.Error())
		return
	}
	if actions == nil {
		actions = []game.ActionType{}
	}
	h.respondJSON(w, r, http.StatusOK, AllowedActionsResponse{PlayerID: playerID, Actions: actions})
}

// RecentMatches handles GET /api/matches/recent?limit=N.
func (h *GameHandler) RecentMatches(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	results, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("querying match history", zap.Error(err))
		h.respondError(w, r, http.StatusInternalServerError, "match history unavailable")
		return
	}
	h.respondJSON(w, r, http.StatusOK, results)
}
