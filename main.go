package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"connect4/engine"
	"connect4/events"
	"connect4/experiments"
	"connect4/game"
	"connect4/meta"
	"connect4/player"
	"connect4/searcher"
	"connect4/searcher/agent"
	"connect4/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const instructions = `
The objective of the game is to connect 4 of your pieces together, whether it's diagonal, horizontal, or vertical.

To drop a piece, input the desired column number.

You will be playing against a computer who has the same objective.

Your pieces will be x and the computer's will be o.
`

func main() {
	cfg, err := meta.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mode := flag.String("mode", "play", "play, serve or experiment")
	flag.IntVar(&cfg.SearchDepth, "depth", cfg.SearchDepth, "Search depth in plies")
	flag.IntVar(&cfg.Goroutines, "goroutines", cfg.Goroutines, "Number of goroutines searching the root")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Tie-break seed, 0 seeds from the clock")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Agent server listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Experiment output directory")
	remote := flag.String("remote", "", "Play against the agent server at this URL")
	experiment := flag.String("experiment", "depth", "depth or throughput")
	games := flag.Int("games", experiments.NumGames, "Games per experiment match up")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "play":
		err = play(ctx, cfg, *remote)
	case "serve":
		err = agent.StartAgentServer(ctx, cfg)
	case "experiment":
		err = runExperiment(ctx, cfg, *experiment, *games)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

// observers connects the optional game store and event stream.
func observers(ctx context.Context, cfg meta.Config) ([]engine.Observer, func()) {
	var obs []engine.Observer
	var closers []func() error

	if cfg.DatabaseURL != "" {
		s, err := store.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("running without persistence")
		} else {
			obs = append(obs, s)
			closers = append(closers, s.Close)
		}
	}
	if len(cfg.KafkaBrokers) > 0 {
		p := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		obs = append(obs, p)
		closers = append(closers, p.Close)
	}

	return obs, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn().Err(err).Msg("failed to close")
			}
		}
	}
}

func play(ctx context.Context, cfg meta.Config, remote string) error {
	human := player.NewHuman(os.Stdin, os.Stdout)
	obs, closeAll := observers(ctx, cfg)
	defer closeAll()

	var ai engine.Agent = engine.NewSearchAgent(game.Ai, searcher.FromConfig(cfg, searcher.WithMetrics()))
	if remote != "" {
		ai = engine.NewRemoteAgent(remote, game.Ai, cfg.SearchDepth)
	}

	fmt.Println("Welcome to Connect 4")
	answer, err := human.Ask("\nPress 1 for instructions or any other key to play! ")
	if errors.Is(err, player.ErrQuit) {
		return nil
	} else if err != nil {
		return err
	}
	if answer == "1" {
		fmt.Print(instructions)
	}

	for {
		first := game.Ai
		if !cfg.AIFirst {
			answer, err := human.Ask("\nPress 1 for the AI to go first or any other key for you to go first ")
			if err != nil {
				break
			}
			if answer != "1" {
				first = game.Player
			}
		}

		_, _, err = engine.LocalEngine(cfg, human, ai, first, os.Stdout, obs...).Run(ctx)
		if errors.Is(err, player.ErrQuit) {
			break
		}
		if err != nil {
			return err
		}

		answer, err = human.Ask("\nPress 1 to play again or any other key to quit: ")
		if err != nil || answer != "1" {
			break
		}
	}

	fmt.Println("\nBye!")
	return nil
}

func runExperiment(ctx context.Context, cfg meta.Config, name string, games int) error {
	obs, closeAll := observers(ctx, cfg)
	defer closeAll()

	var dir string
	var err error
	switch name {
	case "depth":
		dir, err = experiments.RunDepthExperiment(ctx, cfg, games, obs...)
	case "throughput":
		dir, err = experiments.RunThroughputExperiment(ctx, cfg, games, obs...)
	default:
		return fmt.Errorf("unknown experiment %q", name)
	}
	if err != nil {
		return err
	}
	log.Info().Str("dir", dir).Msg("experiment results stored")
	return nil
}
