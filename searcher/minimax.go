package searcher

import (
	"fmt"
	"sync"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/meta"

	"github.com/rs/zerolog/log"
)

type Option func(m *Minimax)

// Minimax is a depth-limited alpha-beta search for the AI side. A Minimax
// runs one search at a time.
type Minimax struct {
	depth      int
	goroutines int
	tieBreaker TieBreaker
	metrics    metrics.Collector
}

func WithDepth(depth int) Option {
	return func(m *Minimax) {
		if depth >= 0 {
			m.depth = depth
		}
	}
}

// WithGoroutines searches the root's children in parallel. Each worker runs
// its subtree with a full alpha-beta window of its own.
func WithGoroutines(goroutines int) Option {
	return func(m *Minimax) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

func WithTieBreaker(tieBreaker TieBreaker) Option {
	return func(m *Minimax) {
		if tieBreaker != nil {
			m.tieBreaker = tieBreaker
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *Minimax) {
		m.tieBreaker = NewRandomTieBreaker(seed)
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{ // Default values
		depth:      meta.DefaultDepth,
		goroutines: 1,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.tieBreaker == nil {
		m.tieBreaker = NewRandomTieBreaker(0)
	}
	return m
}

// FromConfig builds a search with the depth, parallelism and seed of cfg.
func FromConfig(cfg meta.Config, options ...Option) *Minimax {
	base := []Option{
		WithDepth(cfg.SearchDepth),
		WithGoroutines(cfg.Goroutines),
		WithSeed(cfg.Seed),
	}
	return NewMinimax(append(base, options...)...)
}

func (m *Minimax) Depth() int {
	return m.depth
}

// GetBestMove searches board depth plies deep and returns the AI's column.
func GetBestMove(board *game.Board, depth int) (int, error) {
	if depth < 0 {
		return -1, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	return NewMinimax(WithDepth(depth)).BestMove(board)
}

// BestMove returns a legal column for the AI. The board is not modified.
func (m *Minimax) BestMove(board *game.Board) (int, error) {
	result, _, err := m.Search(board)
	if err != nil {
		return -1, err
	}
	return result.Column, nil
}

// Search runs the full search. The returned Column is always an open column;
// HasColumn is false when the search itself made no recommendation and the
// column came from the tie-breaker.
func (m *Minimax) Search(board *game.Board) (Result, metrics.SearchMetric, error) {
	if !supports(board) {
		return Result{}, metrics.SearchMetric{}, fmt.Errorf("%w: %dx%d", ErrUnsupportedSize, board.Width(), board.Height())
	}
	open := board.OpenColumns()
	if len(open) == 0 {
		return Result{}, metrics.SearchMetric{}, ErrNoMoves
	}

	m.metrics.Start(m.goroutines, m.depth)
	root := board.Clone()
	var result Result
	if m.goroutines > 1 {
		result = m.searchRoot(root, m.depth)
	} else {
		result = m.search(root, m.depth, NegInf, PosInf, true)
	}
	if !result.HasColumn {
		result.Column = m.tieBreaker.Pick(open)
	}
	metric := m.metrics.Complete()

	log.Debug().
		Int("column", result.Column).
		Int("score", result.Score).
		Bool("has_column", result.HasColumn).
		Int("depth", m.depth).
		Int("nodes", metric.Nodes).
		Dur("duration", metric.Duration).
		Msg("search complete")

	return result, metric, nil
}

// expand handles everything a node does before exploring children. It
// returns the node's result when the node is decided without recursion,
// otherwise the columns to explore.
func (m *Minimax) expand(b *game.Board, depth int) (Result, []int, bool) {
	m.metrics.AddNode()

	open := b.OpenColumns()
	if result, ok := shortCircuit(b, open); ok {
		m.metrics.AddShortCircuit()
		return result, nil, true
	}
	if depth == 0 || len(open) == 0 {
		m.metrics.AddLeaf()
		return scored(ScorePosition(b)), nil, true
	}
	return Result{}, safeColumns(b, open), false
}

func (m *Minimax) search(b *game.Board, depth, alpha, beta int, maximizing bool) Result {
	result, columns, done := m.expand(b, depth)
	if done {
		return result
	}

	if maximizing {
		best := chose(m.tieBreaker.Pick(columns), NegInf)
		for _, column := range columns {
			child := b.Clone()
			if _, err := child.Drop(column, game.Ai); err != nil {
				continue
			}
			score := m.search(child, depth-1, alpha, beta, false).Score
			if score > best.Score {
				best = chose(column, score)
			}
			alpha = max(alpha, best.Score)
			if alpha >= beta {
				m.metrics.AddCutoff()
				break
			}
		}
		return best
	}

	best := chose(m.tieBreaker.Pick(columns), PosInf)
	for _, column := range columns {
		child := b.Clone()
		if _, err := child.Drop(column, game.Player); err != nil {
			continue
		}
		score := m.search(child, depth-1, alpha, beta, true).Score
		if score < best.Score {
			best = chose(column, score)
		}
		beta = min(beta, best.Score)
		if alpha >= beta {
			m.metrics.AddCutoff()
			break
		}
	}
	return best
}

// searchRoot is the maximizing root searched by a pool of workers. Children
// are scored exactly and the first strictly best column wins, which matches
// the sequential search.
func (m *Minimax) searchRoot(b *game.Board, depth int) Result {
	result, columns, done := m.expand(b, depth)
	if done {
		return result
	}

	scores := make([]int, len(columns))
	task := make(chan int, len(columns))
	for i := range columns {
		task <- i
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < min(m.goroutines, len(columns)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range task {
				child := b.Clone()
				if _, err := child.Drop(columns[i], game.Ai); err != nil {
					scores[i] = NegInf
					continue
				}
				scores[i] = m.search(child, depth-1, NegInf, PosInf, false).Score
			}
		}()
	}
	wg.Wait()

	best := chose(m.tieBreaker.Pick(columns), NegInf)
	for i, column := range columns {
		if scores[i] > best.Score {
			best = chose(column, scores[i])
		}
	}
	return best
}
