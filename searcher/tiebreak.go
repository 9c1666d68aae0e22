package searcher

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

// TieBreaker picks one column among equally acceptable candidates.
type TieBreaker interface {
	Pick(columns []int) int
}

// RandomTieBreaker picks uniformly at random. It is safe for concurrent use.
type RandomTieBreaker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomTieBreaker seeds from the clock when seed is 0.
func NewRandomTieBreaker(seed uint64) *RandomTieBreaker {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomTieBreaker{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomTieBreaker) Pick(columns []int) int {
	if len(columns) == 0 {
		return -1
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	return columns[r.rng.Intn(len(columns))]
}

// FirstTieBreaker always picks the first candidate.
type FirstTieBreaker struct{}

func (FirstTieBreaker) Pick(columns []int) int {
	if len(columns) == 0 {
		return -1
	}
	return columns[0]
}
