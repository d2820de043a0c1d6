package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openduel/duel-server-go/internal/cards"
	"github.com/openduel/duel-server-go/internal/game"
	"github.com/openduel/duel-server-go/internal/match"
	"github.com/openduel/duel-server-go/internal/repository"
	"github.com/openduel/duel-server-go/internal/view"
)

func testDecks() map[string]*cards.Deck {
	return map[string]*cards.Deck{
		"Forests": {
			Name:  "Forests",
			Cards: []cards.DeckEntry{{Name: "Forest", Count: 20}},
		},
		"Bears": {
			Name: "Bears",
			Cards: []cards.DeckEntry{
				{Name: "Forest", Count: 12},
				{Name: "Grizzly Bears", Count: 8},
			},
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	manager := match.NewManager(zap.NewNop(), repository.NewGameRepository(), testDecks(), nil, nil, nil)
	handler := NewGameHandler(manager, nil, zap.NewNop())
	srv := httptest.NewServer(NewRouter(handler, nil, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createGame(t *testing.T, srv *httptest.Server) match.GameSummary {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/games", CreateGameRequest{
		Player1Name: "Alice", Player1Deck: "Forests",
		Player2Name: "Bob", Player2Deck: "Forests",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[match.GameSummary](t, resp)
}

func TestCreateGameEndpoint(t *testing.T) {
	srv := newTestServer(t)

	sum := createGame(t, srv)
	assert.NotEmpty(t, sum.GameID)
	assert.Equal(t, "CREATED", sum.Lifecycle)
	require.Len(t, sum.Players, 2)
	assert.Equal(t, "p1", sum.Players[0].ID)
	assert.Equal(t, "Alice", sum.Players[0].Name)
}

func TestCreateGameValidation(t *testing.T) {
	srv := newTestServer(t)

	t.Run("malformed body", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/games", "application/json", bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/games", CreateGameRequest{Player1Name: "Alice"})
		body := decodeBody[ErrorResponse](t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body.Error, "validation error")
	})

	t.Run("unknown deck", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/games", CreateGameRequest{
			Player1Name: "Alice", Player1Deck: "Forests",
			Player2Name: "Bob", Player2Deck: "No Such Deck",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

// TestGameFlowEndpoints drives a short game over the wire: start, advance to
// the first main phase, play a land, then concede.
func TestGameFlowEndpoints(t *testing.T) {
	srv := newTestServer(t)
	sum := createGame(t, srv)
	base := srv.URL + "/api/games/" + sum.GameID

	resp := postJSON(t, base+"/start", StartGameRequest{StartingPlayerID: "p1"})
	started := decodeBody[view.GameView](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "UNTAP", started.Step)
	assert.Equal(t, "p1", started.ActivePlayerID)
	for _, p := range started.Players {
		assert.Nil(t, p.Hand, "spectator view must not expose hands")
		assert.Equal(t, 7, p.HandCount)
	}

	var actor view.GameView
	for i := 0; i < 3; i++ {
		resp = postJSON(t, base+"/actions", ActionRequest{Type: "ADVANCE_STEP", PlayerID: "p1"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		actor = decodeBody[view.GameView](t, resp)
	}
	assert.Equal(t, "FIRST_MAIN", actor.Step)
	require.NotEmpty(t, actor.Players[0].Hand, "actor response carries own hand")
	landID := actor.Players[0].Hand[0].ID

	t.Run("allowed actions", func(t *testing.T) {
		resp, err := http.Get(base + "/players/p1/actions")
		require.NoError(t, err)
		allowed := decodeBody[AllowedActionsResponse](t, resp)
		assert.Contains(t, allowed.Actions, game.ActionPlayLand)

		resp, err = http.Get(base + "/players/p2/actions")
		require.NoError(t, err)
		blocked := decodeBody[AllowedActionsResponse](t, resp)
		require.NotNil(t, blocked.Actions, "empty allowed set serializes as [], not null")
		assert.Empty(t, blocked.Actions)
	})

	t.Run("wrong player rejected", func(t *testing.T) {
		resp := postJSON(t, base+"/actions", ActionRequest{Type: "ADVANCE_STEP", PlayerID: "p2"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	resp = postJSON(t, base+"/actions", ActionRequest{Type: "PLAY_LAND", PlayerID: "p1", CardID: landID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	played := decodeBody[view.GameView](t, resp)
	assert.Len(t, played.Players[0].Battlefield, 1)

	t.Run("export shows hidden zones", func(t *testing.T) {
		resp, err := http.Get(base + "/export")
		require.NoError(t, err)
		snap := decodeBody[game.Snapshot](t, resp)
		assert.NotEmpty(t, snap.Players[0].Library)
		assert.NotEmpty(t, snap.Players[1].Hand)
	})

	resp = postJSON(t, base+"/concede", ConcedeRequest{PlayerID: "p2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	final := decodeBody[view.GameView](t, resp)
	assert.Equal(t, "FINISHED", final.Lifecycle)
	assert.Equal(t, "p1", final.WinnerID)

	resp = postJSON(t, base+"/actions", ActionRequest{Type: "ADVANCE_STEP", PlayerID: "p1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestActionValidation(t *testing.T) {
	srv := newTestServer(t)
	sum := createGame(t, srv)
	base := srv.URL + "/api/games/" + sum.GameID

	resp := postJSON(t, base+"/actions", ActionRequest{Type: "CAST_RAY", PlayerID: "p1"})
	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body.Error, "validation error")

	resp = postJSON(t, base+"/actions", ActionRequest{Type: "ADVANCE_STEP"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownGameRoutes(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/games/no-such-game"

	for _, url := range []string{base + "/view", base + "/export", base + "/players/p1/view"} {
		resp, err := http.Get(url)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, url)
	}

	resp := postJSON(t, base+"/start", StartGameRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlayerViewFiltering(t *testing.T) {
	srv := newTestServer(t)
	sum := createGame(t, srv)
	base := srv.URL + "/api/games/" + sum.GameID

	resp := postJSON(t, base+"/start", StartGameRequest{StartingPlayerID: "p1"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := http.Get(base + "/players/p2/view")
	require.NoError(t, err)
	v := decodeBody[view.GameView](t, resp)
	assert.Equal(t, "p2", v.ViewerID)
	assert.Nil(t, v.Players[0].Hand)
	assert.Len(t, v.Players[1].Hand, 7)
}

func TestListGamesAndDecks(t *testing.T) {
	srv := newTestServer(t)
	createGame(t, srv)
	createGame(t, srv)

	resp, err := http.Get(srv.URL + "/api/games")
	require.NoError(t, err)
	list := decodeBody[[]match.GameSummary](t, resp)
	assert.Len(t, list, 2)

	resp, err = http.Get(srv.URL + "/api/decks")
	require.NoError(t, err)
	decks := decodeBody[DeckListResponse](t, resp)
	assert.Equal(t, []string{"Bears", "Forests"}, decks.Decks)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

// TestRecentMatchesRouteAbsent checks the history route is only registered
// when a history store is configured.
func TestRecentMatchesRouteAbsent(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/matches/recent")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestStartWithoutBody covers the coin flip path: POST with no body at all.
func TestStartWithoutBody(t *testing.T) {
	srv := newTestServer(t)
	sum := createGame(t, srv)

	resp, err := http.Post(fmt.Sprintf("%s/api/games/%s/start", srv.URL, sum.GameID), "application/json", nil)
	require.NoError(t, err)
	v := decodeBody[view.GameView](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, []string{"p1", "p2"}, v.ActivePlayerID)
}
