package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"connect4/experiments/metrics"
	"connect4/game"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const saveTimeout = 5 * time.Second

// Store keeps finished games in postgres.
type Store struct {
	DB *sql.DB
}

type Summary struct {
	Games      int `json:"games"`
	PlayerWins int `json:"player_wins"`
	AiWins     int `json:"ai_wins"`
	Ties       int `json:"ties"`
}

type move struct {
	Step   int    `json:"step"`
	Piece  string `json:"piece"`
	Column int    `json:"column"`
	Nodes  int    `json:"nodes,omitempty"`
}

func NewStore(ctx context.Context, connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	s := &Store{DB: db}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	log.Info().Msg("database connected")
	return s, nil
}

func (s *Store) createTables(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS games (
		id VARCHAR(36) PRIMARY KEY,
		starting_piece VARCHAR(10) NOT NULL,
		winner VARCHAR(10) NOT NULL,
		is_draw BOOLEAN DEFAULT FALSE,
		moves JSONB,
		total_moves INTEGER,
		duration_ms BIGINT,
		started_at TIMESTAMP,
		completed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_games_completed ON games(completed_at);
	`
	_, err := s.DB.ExecContext(ctx, query)
	return err
}

func encodeMoves(moves []metrics.MoveMetric) ([]byte, error) {
	encoded := make([]move, 0, len(moves))
	for _, m := range moves {
		encoded = append(encoded, move{
			Step:   m.Step,
			Piece:  m.Piece.String(),
			Column: m.Column,
			Nodes:  m.Nodes,
		})
	}
	return json.Marshal(encoded)
}

// SaveGame records a finished game. Saving the same game twice is a no-op.
func (s *Store) SaveGame(ctx context.Context, result metrics.GameMetric, moves []metrics.MoveMetric) error {
	movesJSON, err := encodeMoves(moves)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO games (id, starting_piece, winner, is_draw, moves, total_moves, duration_ms, started_at, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO NOTHING
	`
	_, err = s.DB.ExecContext(ctx, query,
		result.ID,
		result.StartingPiece.String(),
		result.Winner.String(),
		result.Winner == game.Empty,
		movesJSON,
		result.TotalMoves,
		result.Duration.Milliseconds(),
		result.StartTime,
		result.EndTime,
	)
	return err
}

func (s *Store) Summary(ctx context.Context) (Summary, error) {
	query := `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE winner = $1),
		COUNT(*) FILTER (WHERE winner = $2),
		COUNT(*) FILTER (WHERE is_draw)
	FROM games
	`
	var summary Summary
	err := s.DB.QueryRowContext(ctx, query, game.Player.String(), game.Ai.String()).
		Scan(&summary.Games, &summary.PlayerWins, &summary.AiWins, &summary.Ties)
	return summary, err
}

func (s *Store) GameStarted(string, game.Piece)             {}
func (s *Store) MovePlayed(string, metrics.MoveMetric, int) {}

// GameEnded saves the game, logging instead of failing the game loop.
func (s *Store) GameEnded(result metrics.GameMetric, moves []metrics.MoveMetric) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := s.SaveGame(ctx, result, moves); err != nil {
		log.Warn().Err(err).Str("game", result.ID).Msg("failed to save game")
	}
}

func (s *Store) Close() error {
	return s.DB.Close()
}
