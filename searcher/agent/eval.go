package agent

import (
	"connect4/game"
	"connect4/meta"
	"connect4/searcher"
)

type evaluationAgent struct {
	cfg meta.Config
}

// NewEvaluationAgent returns an agent that runs a fresh search per request,
// so it is safe for concurrent handlers.
func NewEvaluationAgent(cfg meta.Config) Agent {
	return evaluationAgent{cfg: cfg}
}

func (a evaluationAgent) FindMove(board *game.Board, depth int) (MoveResponse, error) {
	m := searcher.FromConfig(a.cfg, searcher.WithDepth(depth), searcher.WithMetrics())
	result, metric, err := m.Search(board)
	if err != nil {
		return MoveResponse{}, err
	}
	return MoveResponse{
		Column:    result.Column,
		Score:     result.Score,
		HasColumn: result.HasColumn,
		Nodes:     metric.Nodes,
	}, nil
}
