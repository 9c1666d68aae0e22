package experiments

import (
	"context"
	"errors"
	"fmt"

	"connect4/engine"
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/meta"
	"connect4/searcher"

	"github.com/rs/zerolog/log"
)

const NumGames = 10 // Per match up

// RunDepthExperiment pairs a baseline searching cfg.SearchDepth plies
// against agents searching 1 to cfg.SearchDepth plies and returns the
// directory holding the results.
func RunDepthExperiment(ctx context.Context, cfg meta.Config, games int, observers ...engine.Observer) (string, error) {
	if cfg.SearchDepth < 1 {
		return "", errors.New("depth experiment needs a search depth of at least 1")
	}
	baseline := metrics.AgentConfig{ID: 0, Depth: cfg.SearchDepth, Goroutines: cfg.Goroutines}
	configs := []metrics.AgentConfig{}
	for depth := 1; depth <= cfg.SearchDepth; depth++ {
		configs = append(configs, metrics.AgentConfig{ID: depth, Depth: depth, Goroutines: cfg.Goroutines})
	}

	// Each matchup pairs the baseline agent against a shallower or equal agent
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}

	return runExperiment(ctx, cfg, "depth", append(configs, baseline), matchUps, games, observers)
}

func runExperiment(ctx context.Context, cfg meta.Config, name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig, games int, observers []engine.Observer) (string, error) {
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		config1 := matchup[0]
		config2 := matchup[1]

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), config1, config2)

		for i := 0; i < games; i++ {
			// Alternate the starting side so neither agent keeps the first move
			first := game.Ai
			if i%2 == 1 {
				first = game.Player
			}

			gameMetric, moveMetrics, err := runGame(ctx, cfg, config1, config2, first, observers)
			if err != nil {
				return "", fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				Agent1:     config1.ID,
				Agent2:     config2.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       gameMetric.ID,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(matchUps), i+1, gameMetric.Winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(cfg.OutputDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return writer.Dir(), nil
}

// runGame plays config1 as the AI side against config2 as the player side.
func runGame(ctx context.Context, cfg meta.Config, config1, config2 metrics.AgentConfig, first game.Piece, observers []engine.Observer) (metrics.GameMetric, []metrics.MoveMetric, error) {
	ai := engine.NewSearchAgent(game.Ai, createMinimax(cfg, config1))
	player := engine.NewSearchAgent(game.Player, createMinimax(cfg, config2))
	e := engine.LocalEngine(cfg, player, ai, first, nil, observers...)

	return e.Run(ctx)
}

func createMinimax(cfg meta.Config, config metrics.AgentConfig) *searcher.Minimax {
	options := []searcher.Option{
		searcher.WithDepth(config.Depth),
		searcher.WithMetrics(),
	}
	if config.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(config.Goroutines))
	}
	if cfg.Seed != 0 {
		options = append(options, searcher.WithSeed(cfg.Seed+uint64(config.ID)))
	}
	return searcher.NewMinimax(options...)
}
