package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter assembles the HTTP surface: the JSON API under /api, the
// websocket endpoint at /ws and a plain health check.
func NewRouter(h *GameHandler, hub *Hub, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/decks", h.ListDecks)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", h.CreateGame)
			r.Get("/", h.ListGames)

			r.Route("/{gameID}", func(r chi.Router) {
				r.Post("/start", h.StartGame)
				r.Post("/actions", h.PostAction)
				r.Post("/concede", h.Concede)
				r.Get("/view", h.GetSpectatorView)
				r.Get("/export", h.GetExport)
				r.Get("/players/{playerID}/view", h.GetPlayerView)
				r.Get("/players/{playerID}/actions", h.GetAllowedActions)
			})
		})

		if h.hasHistory() {
			r.Get("/matches/recent", h.RecentMatches)
		}
	})

	if hub != nil {
		r.Get("/ws", hub.ServeWS)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("writing health response", zap.Error(err))
		}
	})

	return r
}

// requestLogger logs one line per request with the id assigned by the
// RequestID middleware.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
