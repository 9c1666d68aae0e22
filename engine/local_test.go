package engine

import (
	"context"
	"strings"
	"testing"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/meta"
	"connect4/searcher"

	"github.com/stretchr/testify/require"
)

// scripted plays a fixed list of columns.
type scripted struct {
	columns []int
	asked   int
}

func (s *scripted) FindMove(board *game.Board) (int, metrics.SearchMetric, error) {
	column := s.columns[s.asked%len(s.columns)]
	s.asked++
	return column, metrics.SearchMetric{Depth: 1}, nil
}

type recorder struct {
	started []string
	moves   []metrics.MoveMetric
	rows    []int
	ended   []metrics.GameMetric
}

func (r *recorder) GameStarted(id string, first game.Piece) {
	r.started = append(r.started, id)
}

func (r *recorder) MovePlayed(id string, move metrics.MoveMetric, row int) {
	r.moves = append(r.moves, move)
	r.rows = append(r.rows, row)
}

func (r *recorder) GameEnded(result metrics.GameMetric, moves []metrics.MoveMetric) {
	r.ended = append(r.ended, result)
}

func TestLocalEngineRun(t *testing.T) {
	player := &scripted{columns: []int{0}}
	ai := &scripted{columns: []int{1}}
	obs := &recorder{}
	var out strings.Builder

	gameMetric, moveMetrics, err := LocalEngine(meta.Default(), player, ai, game.Player, &out, obs).Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, game.Player, gameMetric.Winner)
	require.Equal(t, game.Player, gameMetric.StartingPiece)
	require.Equal(t, 7, gameMetric.TotalMoves)
	require.NotEmpty(t, gameMetric.ID)
	require.Len(t, moveMetrics, 7)
	require.Equal(t, metrics.MoveMetric{Step: 2, Piece: game.Ai, Column: 1, SearchMetric: metrics.SearchMetric{Depth: 1}}, moveMetrics[1])

	require.Equal(t, []string{gameMetric.ID}, obs.started)
	require.Equal(t, moveMetrics, obs.moves)
	require.Equal(t, []int{0, 0, 1, 1, 2, 2, 3}, obs.rows)
	require.Len(t, obs.ended, 1)

	require.Contains(t, out.String(), "|[x]| o | . |")
	require.True(t, strings.HasSuffix(out.String(), "Congratulations! You are victorious!\n"))
}

func TestLocalEngineRetriesIllegalColumns(t *testing.T) {
	t.Run("recovers", func(t *testing.T) {
		player := &scripted{columns: []int{9, 0}}
		ai := &scripted{columns: []int{1}}

		gameMetric, moveMetrics, err := LocalEngine(meta.Default(), player, ai, game.Player, nil).Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, game.Player, gameMetric.Winner)
		require.Len(t, moveMetrics, 7)
	})

	t.Run("gives up", func(t *testing.T) {
		player := &scripted{columns: []int{-1}}
		ai := &scripted{columns: []int{1}}

		_, _, err := LocalEngine(meta.Default(), player, ai, game.Player, nil).Run(context.Background())

		require.ErrorIs(t, err, ErrTooManyRetries)
	})
}

func TestLocalEngineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, moveMetrics, err := LocalEngine(meta.Default(), &scripted{columns: []int{0}}, &scripted{columns: []int{1}}, game.Ai, nil).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, moveMetrics)
}

func TestSearchAgentsFinishGame(t *testing.T) {
	cfg := meta.Default()
	player := NewSearchAgent(game.Player, searcher.NewMinimax(searcher.WithDepth(2), searcher.WithSeed(1)))
	ai := NewSearchAgent(game.Ai, searcher.NewMinimax(searcher.WithDepth(2), searcher.WithSeed(2), searcher.WithMetrics()))

	gameMetric, moveMetrics, err := LocalEngine(cfg, player, ai, game.Ai, nil).Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, len(moveMetrics), gameMetric.TotalMoves)
	require.LessOrEqual(t, gameMetric.TotalMoves, cfg.Width*cfg.Height)
	require.GreaterOrEqual(t, gameMetric.TotalMoves, 7)
	require.Greater(t, moveMetrics[0].Nodes, 0)
}

func TestSearchAgentPlaysEitherSide(t *testing.T) {
	// x threatens column 3. Playing x it should win there, playing o block.
	b := game.MustParseBoard(
		".......",
		".......",
		".......",
		".......",
		"oo.....",
		"xxx.o..",
	)

	column, _, err := NewSearchAgent(game.Player, searcher.NewMinimax(searcher.WithDepth(2))).FindMove(b)
	require.NoError(t, err)
	require.Equal(t, 3, column)

	column, _, err = NewSearchAgent(game.Ai, searcher.NewMinimax(searcher.WithDepth(2))).FindMove(b)
	require.NoError(t, err)
	require.Equal(t, 3, column)
}
