package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"connect4/meta"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func testConfig(t *testing.T) meta.Config {
	cfg := meta.Default()
	cfg.SearchDepth = 2
	cfg.Seed = 11
	cfg.OutputDir = t.TempDir()
	return cfg
}

func TestRunDepthExperiment(t *testing.T) {
	cfg := testConfig(t)

	dir, err := RunDepthExperiment(context.Background(), cfg, 2)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cfg.OutputDir, "depth"), filepath.Dir(dir))

	configs := readCSV(t, filepath.Join(dir, "agent_configs.csv"))
	require.Equal(t, [][]string{
		{"id", "depth", "goroutines"},
		{"1", "1", "1"},
		{"2", "2", "1"},
		{"0", "2", "1"},
	}, configs)

	games := readCSV(t, filepath.Join(dir, "game_records.csv"))
	require.Len(t, games, 1+2*2)
	require.Equal(t, "ai", games[1][3])
	require.Equal(t, "player", games[2][3])

	moves := readCSV(t, filepath.Join(dir, "move_records.csv"))
	require.Greater(t, len(moves), 4*7)
}

func TestRunDepthExperimentNeedsDepth(t *testing.T) {
	cfg := testConfig(t)
	cfg.SearchDepth = 0

	_, err := RunDepthExperiment(context.Background(), cfg, 1)
	require.Error(t, err)
}

func TestRunThroughputExperiment(t *testing.T) {
	cfg := testConfig(t)
	cfg.SearchDepth = 1

	dir, err := RunThroughputExperiment(context.Background(), cfg, 1)
	require.NoError(t, err)

	games := readCSV(t, filepath.Join(dir, "game_records.csv"))
	require.Len(t, games, 1+len(throughputGoroutines))
	for _, row := range games[1:] {
		require.Equal(t, row[1], row[2])
	}
}

func TestRunExperimentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunDepthExperiment(ctx, testConfig(t), 1)
	require.ErrorIs(t, err, context.Canceled)
}
