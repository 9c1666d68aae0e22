package engine

import (
	"context"
	"errors"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher"
)

// MaxRetries is how many illegal columns an agent may choose in a row before
// the game is abandoned.
const MaxRetries = 3

var ErrTooManyRetries = errors.New("agent kept choosing illegal columns")

type Engine interface {
	// Run plays a game until it is won or tied
	Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error)
}

// Agent chooses a column for the side to move. The board is a copy owned by
// the agent.
type Agent interface {
	FindMove(board *game.Board) (int, metrics.SearchMetric, error)
}

// Observer is notified as a game progresses. Implementations must not block
// the game loop for long.
type Observer interface {
	GameStarted(id string, first game.Piece)
	MovePlayed(id string, move metrics.MoveMetric, row int)
	GameEnded(result metrics.GameMetric, moves []metrics.MoveMetric)
}

// SearchAgent plays side with a minimax search.
type SearchAgent struct {
	side     game.Piece
	searcher *searcher.Minimax
}

func NewSearchAgent(side game.Piece, s *searcher.Minimax) *SearchAgent {
	return &SearchAgent{side: side, searcher: s}
}

func (a *SearchAgent) FindMove(board *game.Board) (int, metrics.SearchMetric, error) {
	if a.side == game.Player {
		board = board.Swapped()
	}
	result, metric, err := a.searcher.Search(board)
	if err != nil {
		return -1, metric, err
	}
	return result.Column, metric, nil
}
