package searcher

import (
	"testing"

	"connect4/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

/*
- tactics: immediate win, horizontal block, vertical block, lower column decides first
- fallback: depth 0 returns the tie-breaker's pick with HasColumn false
- pruning: alpha-beta score equals plain minimax score
- parallel root: same result as sequential
- errors: unsupported size, full board, negative depth
- property: never a full column, board untouched
*/

func TestMinimaxTakesImmediateWin(t *testing.T) {
	b := game.MustParseBoard(
		".......",
		".......",
		".......",
		".......",
		"xx.....",
		"ooo.x..",
	)
	m := NewMinimax(WithDepth(4), WithTieBreaker(FirstTieBreaker{}))

	result, _, err := m.Search(b)

	require.NoError(t, err)
	require.Equal(t, 3, result.Column)
	require.True(t, result.HasColumn)
	require.Equal(t, WinScore, result.Score)
}

func TestMinimaxBlocks(t *testing.T) {
	t.Run("horizontal", func(t *testing.T) {
		b := game.MustParseBoard(
			".......",
			".......",
			".......",
			".......",
			".......",
			".oxxx.o",
		)
		column, err := NewMinimax(WithDepth(4)).BestMove(b)

		require.NoError(t, err)
		require.Equal(t, 5, column)
	})

	t.Run("vertical", func(t *testing.T) {
		b := game.MustParseBoard(
			".......",
			".......",
			".......",
			"..x....",
			"..x....",
			"o.x.o..",
		)
		column, err := NewMinimax(WithDepth(4)).BestMove(b)

		require.NoError(t, err)
		require.Equal(t, 2, column)
	})
}

func TestMinimaxLowerColumnDecidesFirst(t *testing.T) {
	// The player threatens column 0 and the AI could win in column 6. Columns
	// are scanned in order, so the block in column 0 is chosen.
	b := game.MustParseBoard(
		".......",
		".......",
		".......",
		"x.....o",
		"x.....o",
		"x.....o",
	)

	result, _, err := NewMinimax(WithDepth(4)).Search(b)

	require.NoError(t, err)
	require.Equal(t, 0, result.Column)
	require.Equal(t, LossScore, result.Score)
}

func TestMinimaxDepthZeroFallsBack(t *testing.T) {
	m := NewMinimax(WithDepth(0), WithTieBreaker(FirstTieBreaker{}))

	result, _, err := m.Search(game.NewDefaultBoard())

	require.NoError(t, err)
	require.False(t, result.HasColumn)
	require.Equal(t, 0, result.Column)
	require.Equal(t, 217, result.Score)
}

func TestMinimaxErrors(t *testing.T) {
	t.Run("unsupported size", func(t *testing.T) {
		b, err := game.NewBoard(6, 7)
		require.NoError(t, err)

		_, err = NewMinimax().BestMove(b)
		require.ErrorIs(t, err, ErrUnsupportedSize)
	})

	t.Run("full board", func(t *testing.T) {
		b := game.MustParseBoard(
			"xoxoxox",
			"xoxoxox",
			"oxoxoxo",
			"oxoxoxo",
			"xoxoxox",
			"xoxoxox",
		)
		_, err := NewMinimax().BestMove(b)
		require.ErrorIs(t, err, ErrNoMoves)
	})

	t.Run("negative depth", func(t *testing.T) {
		_, err := GetBestMove(game.NewDefaultBoard(), -1)
		require.ErrorIs(t, err, ErrInvalidDepth)
	})
}

func TestWithDepthIgnoresNegative(t *testing.T) {
	m := NewMinimax(WithDepth(3), WithDepth(-2))
	require.Equal(t, 3, m.Depth())
}

func TestGetBestMove(t *testing.T) {
	b := game.MustParseBoard(
		".......",
		".......",
		".......",
		".......",
		"xx.....",
		"ooo.x..",
	)
	column, err := GetBestMove(b, 2)

	require.NoError(t, err)
	require.Equal(t, 3, column)
}

// plain is minimax without pruning, used as a reference for the score.
func plain(b *game.Board, depth int, maximizing bool) int {
	open := b.OpenColumns()
	if result, ok := shortCircuit(b, open); ok {
		return result.Score
	}
	if depth == 0 || len(open) == 0 {
		return ScorePosition(b)
	}

	piece, best := game.Player, PosInf
	if maximizing {
		piece, best = game.Ai, NegInf
	}
	for _, column := range safeColumns(b, open) {
		child := b.Clone()
		_, err := child.Drop(column, piece)
		if err != nil {
			panic(err)
		}
		score := plain(child, depth-1, !maximizing)
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

func positions() []*game.Board {
	return []*game.Board{
		game.NewDefaultBoard(),
		game.MustParseBoard(
			".......",
			".......",
			".......",
			".......",
			"...o...",
			"..xox..",
		),
		game.MustParseBoard(
			".......",
			".......",
			"...x...",
			"..oo...",
			"..xxo..",
			".oxxo.x",
		),
	}
}

func TestAlphaBetaMatchesPlainMinimax(t *testing.T) {
	for depth := 1; depth <= 3; depth++ {
		for i, b := range positions() {
			m := NewMinimax(WithDepth(depth), WithTieBreaker(FirstTieBreaker{}))

			result, _, err := m.Search(b)

			require.NoError(t, err)
			require.Equal(t, plain(b, depth, true), result.Score, "position %d depth %d", i, depth)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	for _, b := range positions() {
		sequential := NewMinimax(WithDepth(3), WithTieBreaker(FirstTieBreaker{}))
		parallel := NewMinimax(WithDepth(3), WithTieBreaker(FirstTieBreaker{}), WithGoroutines(4))

		want, _, err := sequential.Search(b)
		require.NoError(t, err)
		got, _, err := parallel.Search(b)
		require.NoError(t, err)

		require.Equal(t, want, got)
	}
}

func TestSearchMetrics(t *testing.T) {
	m := NewMinimax(WithDepth(3), WithGoroutines(2), WithMetrics())

	_, metric, err := m.Search(game.NewDefaultBoard())

	require.NoError(t, err)
	require.Equal(t, 3, metric.Depth)
	require.Equal(t, 2, metric.Goroutines)
	require.Greater(t, metric.Nodes, 1)
	require.Greater(t, metric.Leaves, 0)
	require.LessOrEqual(t, metric.Leaves, metric.Nodes)
}

func TestSearchNeverPicksFullColumn(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := NewMinimax(WithDepth(2), WithSeed(7))

	for g := 0; g < 10; g++ {
		b := game.NewDefaultBoard()
		for !b.IsFull() {
			open := b.OpenColumns()
			_, err := b.Drop(open[rng.Intn(len(open))], game.Player)
			require.NoError(t, err)
			if b.IsFull() {
				break
			}

			before := b.Clone()
			column, err := m.BestMove(b)
			require.NoError(t, err)
			require.True(t, b.Equal(before))
			require.Contains(t, b.OpenColumns(), column)

			_, err = b.Drop(column, game.Ai)
			require.NoError(t, err)
		}
	}
}
