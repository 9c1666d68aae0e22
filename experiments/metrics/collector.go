package metrics

import (
	"connect4/game"
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines    int
	Depth         int
	Duration      time.Duration
	Nodes         int
	Leaves        int
	Cutoffs       int
	ShortCircuits int
}

type MoveMetric struct {
	Step   int
	Piece  game.Piece
	Column int
	SearchMetric
}

type GameMetric struct {
	ID            string
	StartingPiece game.Piece
	Winner        game.Piece // Empty on a tie
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
}

// Collector records search statistics. Implementations must be safe for
// concurrent use by root-level search workers.
type Collector interface {
	Start(goroutines, depth int)
	AddNode()
	AddLeaf()
	AddCutoff()
	AddShortCircuit()
	Complete() SearchMetric
}

type collector struct {
	goroutines    int
	depth         int
	startTime     time.Time
	nodes         atomic.Int64
	leaves        atomic.Int64
	cutoffs       atomic.Int64
	shortCircuits atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, depth int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.depth = depth
	m.nodes.Store(0)
	m.leaves.Store(0)
	m.cutoffs.Store(0)
	m.shortCircuits.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) AddShortCircuit() {
	m.shortCircuits.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:    m.goroutines,
		Depth:         m.depth,
		Duration:      time.Since(m.startTime),
		Nodes:         int(m.nodes.Load()),
		Leaves:        int(m.leaves.Load()),
		Cutoffs:       int(m.cutoffs.Load()),
		ShortCircuits: int(m.shortCircuits.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, depth int) {}
func (m *dummyCollector) AddNode()                    {}
func (m *dummyCollector) AddLeaf()                    {}
func (m *dummyCollector) AddCutoff()                  {}
func (m *dummyCollector) AddShortCircuit()            {}
func (m *dummyCollector) Complete() SearchMetric      { return SearchMetric{} }
