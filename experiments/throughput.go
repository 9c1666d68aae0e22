package experiments

import (
	"context"

	"connect4/engine"
	"connect4/experiments/metrics"
	"connect4/meta"
)

var throughputGoroutines = []int{1, 2, 4, 8}

// RunThroughputExperiment plays each root parallelism setting against itself
// at cfg.SearchDepth, for the same playing strength and similar game length.
func RunThroughputExperiment(ctx context.Context, cfg meta.Config, games int, observers ...engine.Observer) (string, error) {
	configs := []metrics.AgentConfig{}
	matchUps := [][]metrics.AgentConfig{}
	for i, goroutines := range throughputGoroutines {
		config := metrics.AgentConfig{ID: i + 1, Depth: cfg.SearchDepth, Goroutines: goroutines}
		configs = append(configs, config)
		matchUps = append(matchUps, []metrics.AgentConfig{config, config})
	}

	return runExperiment(ctx, cfg, "throughput", configs, matchUps, games, observers)
}
