package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher/agent"
)

// RemoteAgent asks a searcher/agent server for side's moves.
type RemoteAgent struct {
	baseURL string
	depth   int
	side    game.Piece
	client  *http.Client
}

func NewRemoteAgent(baseURL string, side game.Piece, depth int) *RemoteAgent {
	return &RemoteAgent{
		baseURL: strings.TrimRight(baseURL, "/"),
		depth:   depth,
		side:    side,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *RemoteAgent) FindMove(board *game.Board) (int, metrics.SearchMetric, error) {
	if a.side == game.Player {
		board = board.Swapped()
	}
	depth := a.depth
	bodyBytes, err := json.Marshal(agent.MoveRequest{Board: board.Rows(), Depth: &depth})
	if err != nil {
		return -1, metrics.SearchMetric{}, err
	}

	start := time.Now()
	resp, err := a.client.Post(a.baseURL+"/api/move", "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return -1, metrics.SearchMetric{}, fmt.Errorf("failed to reach agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return -1, metrics.SearchMetric{}, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var move agent.MoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&move); err != nil {
		return -1, metrics.SearchMetric{}, fmt.Errorf("failed to decode move: %w", err)
	}
	return move.Column, metrics.SearchMetric{
		Goroutines: 1,
		Depth:      depth,
		Duration:   time.Since(start),
		Nodes:      move.Nodes,
	}, nil
}
