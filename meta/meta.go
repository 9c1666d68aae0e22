package meta

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"connect4/game"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultDepth is the search depth of the computer player.
	DefaultDepth = 4
	// MaxDepth caps requests coming from outside the process.
	MaxDepth       = 8
	DefaultAddr    = ":8080"
	DefaultLevel   = "info"
	DefaultOutput  = "experiments"
	DefaultTopic   = "connect4-games"
	envPrefix      = "CONNECT4_"
	defaultEnvFile = ".env"
)

// Config holds everything a game or search needs besides the board itself.
type Config struct {
	Width       int
	Height      int
	SearchDepth int
	Goroutines  int
	Seed        uint64 // 0 seeds from the clock
	AIFirst     bool
	Addr        string
	LogLevel    string
	OutputDir   string

	// Optional backends, disabled when empty
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	KafkaBrokers  []string
	KafkaTopic    string
}

// Default returns the single supported configuration: a 7x6 board searched 4 plies deep.
func Default() Config {
	return Config{
		Width:       game.DefaultWidth,
		Height:      game.DefaultHeight,
		SearchDepth: DefaultDepth,
		Goroutines:  1,
		Addr:        DefaultAddr,
		LogLevel:    DefaultLevel,
		OutputDir:   DefaultOutput,
		KafkaTopic:  DefaultTopic,
	}
}

// Load starts from Default, reads an optional .env file and applies
// CONNECT4_* environment overrides.
func Load() (Config, error) {
	if err := godotenv.Load(defaultEnvFile); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load %s: %w", defaultEnvFile, err)
	}

	cfg := Default()
	cfg.Width = GetEnvAsInt("WIDTH", cfg.Width)
	cfg.Height = GetEnvAsInt("HEIGHT", cfg.Height)
	cfg.SearchDepth = GetEnvAsInt("DEPTH", cfg.SearchDepth)
	cfg.Goroutines = GetEnvAsInt("GOROUTINES", cfg.Goroutines)
	cfg.Seed = uint64(GetEnvAsInt("SEED", int(cfg.Seed)))
	cfg.AIFirst = GetEnv("AI_FIRST", "false") == "true"
	cfg.Addr = GetEnv("ADDR", cfg.Addr)
	cfg.LogLevel = GetEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.OutputDir = GetEnv("OUTPUT_DIR", cfg.OutputDir)
	cfg.DatabaseURL = GetEnv("DATABASE_URL", "")
	cfg.RedisAddr = GetEnv("REDIS_ADDR", "")
	cfg.RedisPassword = GetEnv("REDIS_PASSWORD", "")
	cfg.KafkaBrokers = GetEnvAsList("KAFKA_BROKERS")
	cfg.KafkaTopic = GetEnv("KAFKA_TOPIC", cfg.KafkaTopic)

	return cfg, cfg.Validate()
}

// Validate rejects configurations the search cannot run with.
func (c Config) Validate() error {
	if c.Width != game.DefaultWidth || c.Height != game.DefaultHeight {
		return fmt.Errorf("unsupported board size %dx%d: only %dx%d is supported",
			c.Width, c.Height, game.DefaultWidth, game.DefaultHeight)
	}
	if c.SearchDepth < 0 || c.SearchDepth > MaxDepth {
		return fmt.Errorf("search depth %d out of range [0, %d]", c.SearchDepth, MaxDepth)
	}
	if c.Goroutines < 1 {
		return fmt.Errorf("goroutines must be at least 1, got %d", c.Goroutines)
	}
	return nil
}

// GetEnv reads CONNECT4_<key>, falling back to defaultValue when unset.
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Msgf("Invalid integer value for %s%s: %s, using default: %d", envPrefix, key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsList splits a comma separated CONNECT4_<key>, dropping blanks.
func GetEnvAsList(key string) []string {
	var values []string
	for _, v := range strings.Split(GetEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
