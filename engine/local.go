package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/gamemaster"
	"connect4/meta"

	"github.com/rs/zerolog/log"
)

type localEngine struct {
	cfg       meta.Config
	agents    map[game.Piece]Agent
	first     game.Piece
	out       io.Writer
	observers []Observer
}

// LocalEngine runs a game in-process between player and ai, rendering the
// board to out after every move. out may be nil.
func LocalEngine(cfg meta.Config, player, ai Agent, first game.Piece, out io.Writer, observers ...Observer) Engine {
	if out == nil {
		out = io.Discard
	}
	return &localEngine{
		cfg: cfg,
		agents: map[game.Piece]Agent{
			game.Player: player,
			game.Ai:     ai,
		},
		first:     first,
		out:       out,
		observers: observers,
	}
}

func (e *localEngine) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	match, err := gamemaster.NewMatch(e.cfg, e.first)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	gameMetric := metrics.GameMetric{
		ID:            match.ID,
		StartingPiece: e.first,
		StartTime:     time.Now(),
	}
	log.Info().Str("game", match.ID).Msgf("%s is starting", e.first)
	for _, o := range e.observers {
		o.GameStarted(match.ID, e.first)
	}

	if err := Render(e.out, match.Board(), nil); err != nil {
		return gameMetric, nil, err
	}

	getUpdate := match.Updates()
	var moveMetrics []metrics.MoveMetric
	for step := 1; match.Status() == gamemaster.InProgress; step++ {
		if err := ctx.Err(); err != nil {
			return gameMetric, moveMetrics, err
		}

		piece := match.Turn()
		column, row, searchMetric, err := e.play(match, piece)
		if err != nil {
			return gameMetric, moveMetrics, err
		}
		moveMetric := metrics.MoveMetric{
			Step:         step,
			Piece:        piece,
			Column:       column,
			SearchMetric: searchMetric,
		}
		moveMetrics = append(moveMetrics, moveMetric)
		for _, o := range e.observers {
			o.MovePlayed(match.ID, moveMetric, row)
		}
		log.Debug().
			Str("game", match.ID).
			Int("step", step).
			Stringer("piece", piece).
			Int("column", column).
			Msg("move played")

		for {
			_, board, ok := getUpdate()
			if !ok {
				break
			}
			if err := Render(e.out, board, match.WinningCells()); err != nil {
				return gameMetric, moveMetrics, err
			}
		}
	}

	gameMetric.Winner = match.Winner()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	for _, o := range e.observers {
		o.GameEnded(gameMetric, moveMetrics)
	}
	if err := announce(e.out, match); err != nil {
		return gameMetric, moveMetrics, err
	}
	log.Info().
		Str("game", match.ID).
		Stringer("winner", gameMetric.Winner).
		Int("moves", gameMetric.TotalMoves).
		Dur("duration", gameMetric.Duration).
		Msg("game over")

	return gameMetric, moveMetrics, nil
}

// play asks the agent for piece until it picks a legal column and returns
// the column and row played.
func (e *localEngine) play(match *gamemaster.Match, piece game.Piece) (int, int, metrics.SearchMetric, error) {
	agent := e.agents[piece]
	for retry := 0; retry < MaxRetries; retry++ {
		column, searchMetric, err := agent.FindMove(match.Board())
		if err != nil {
			return -1, -1, searchMetric, fmt.Errorf("%s failed to move: %w", piece, err)
		}

		row, err := match.Play(column)
		if errors.Is(err, game.ErrColumnFull) || errors.Is(err, game.ErrOutOfRange) {
			log.Warn().Err(err).Stringer("piece", piece).Int("column", column).Msg("illegal move, asking again")
			continue
		}
		if err != nil {
			return -1, -1, searchMetric, err
		}
		return column, row, searchMetric, nil
	}
	return -1, -1, metrics.SearchMetric{}, fmt.Errorf("%w: %s", ErrTooManyRetries, piece)
}

func announce(w io.Writer, match *gamemaster.Match) error {
	var msg string
	switch match.Winner() {
	case game.Player:
		msg = "Congratulations! You are victorious!"
	case game.Ai:
		msg = "Game Over! The computer is victorious!"
	default:
		msg = "It's a tie!"
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}
