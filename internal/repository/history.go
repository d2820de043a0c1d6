package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// MatchResult is one finished duel as recorded in Postgres.
type MatchResult struct {
	GameID     string    `json:"game_id"`
	WinnerID   string    `json:"winner_id"`
	LoserID    string    `json:"loser_id"`
	Turns      int       `json:"turns"`
	FinishedAt time.Time `json:"finished_at"`
}

// HistoryStore records finished matches. The schema is bootstrapped on
// connect so a fresh database works without a migration step.
type HistoryStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewHistoryStore(ctx context.Context, dsn string, logger *zap.Logger) (*HistoryStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect match history store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping match history store: %w", err)
	}

	s := &HistoryStore{pool: pool, logger: logger}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("match history store connected")
	return s, nil
}

func (s *HistoryStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS match_results (
			id          BIGSERIAL PRIMARY KEY,
			game_id     TEXT        NOT NULL,
			winner_id   TEXT        NOT NULL,
			loser_id    TEXT        NOT NULL,
			turns       INT         NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create match_results table: %w", err)
	}
	return nil
}

// Record inserts one finished match.
func (s *HistoryStore) Record(ctx context.Context, r MatchResult) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO match_results (game_id, winner_id, loser_id, turns, finished_at)
		VALUES ($1, $2, $3, $4, $5)`,
		r.GameID, r.WinnerID, r.LoserID, r.Turns, r.FinishedAt)
	if err != nil {
		return fmt.Errorf("record match %s: %w", r.GameID, err)
	}
	s.logger.Info("match recorded",
		zap.String("game_id", r.GameID),
		zap.String("winner", r.WinnerID),
		zap.Int("turns", r.Turns))
	return nil
}

// Recent lists the latest finished matches, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT game_id, winner_id, loser_id, turns, finished_at
		FROM match_results
		ORDER BY finished_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list match results: %w", err)
	}
	defer rows.Close()

	var out []MatchResult
	for rows.Next() {
		var r MatchResult
		if err := rows.Scan(&r.GameID, &r.WinnerID, &r.LoserID, &r.Turns, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match result: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read match results: %w", err)
	}
	return out, nil
}

func (s *HistoryStore) Close() {
	s.pool.Close()
}
