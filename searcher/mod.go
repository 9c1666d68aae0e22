package searcher

import (
	"errors"
	"math"
)

// Scores are from the AI's point of view.
const (
	WinScore   = 1000000
	LossScore  = -WinScore
	ThreeScore = 50
	TwoScore   = 10

	NegInf = math.MinInt
	PosInf = math.MaxInt
)

var (
	ErrNoMoves         = errors.New("no open columns")
	ErrUnsupportedSize = errors.New("no weight matrix for board size")
	ErrInvalidDepth    = errors.New("search depth must not be negative")
)

// Result is the outcome of searching one node. HasColumn is false when the
// node was scored without choosing a move (depth exhausted or no moves).
type Result struct {
	Column    int
	HasColumn bool
	Score     int
}

func scored(score int) Result {
	return Result{Column: -1, Score: score}
}

func chose(column, score int) Result {
	return Result{Column: column, HasColumn: true, Score: score}
}
