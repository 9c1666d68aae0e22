package agent

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"connect4/game"
	"connect4/meta"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var winNow = []string{
	".......",
	".......",
	".......",
	".......",
	"xx.....",
	"ooo.x..",
}

func newRouter(agent Agent, cache MoveCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewServer(meta.Default(), agent, cache).Router()
}

func post(t *testing.T, r http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/move", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type countingAgent struct {
	calls atomic.Int32
	Agent
}

func (a *countingAgent) FindMove(board *game.Board, depth int) (MoveResponse, error) {
	a.calls.Add(1)
	return a.Agent.FindMove(board, depth)
}

func TestHealth(t *testing.T) {
	r := newRouter(NewEvaluationAgent(meta.Default()), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestFindMove(t *testing.T) {
	r := newRouter(NewEvaluationAgent(meta.Default()), NewMemoryCache())

	t.Run("winning move", func(t *testing.T) {
		w := post(t, r, MoveRequest{Board: winNow})
		require.Equal(t, http.StatusOK, w.Code)

		var resp MoveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, 3, resp.Column)
		require.True(t, resp.HasColumn)
		require.Greater(t, resp.Nodes, 0)
	})

	t.Run("depth zero", func(t *testing.T) {
		depth := 0
		w := post(t, r, MoveRequest{Board: strings.Split(game.NewDefaultBoard().String(), "\n"), Depth: &depth})
		require.Equal(t, http.StatusOK, w.Code)

		var resp MoveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.False(t, resp.HasColumn)
		require.Equal(t, 217, resp.Score)
	})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{name: "malformed json", body: "not a request", status: http.StatusBadRequest},
		{name: "unknown glyph", body: MoveRequest{Board: []string{"...", ".#."}}, status: http.StatusBadRequest},
		{name: "depth too large", body: map[string]any{"board": winNow, "depth": meta.MaxDepth + 1}, status: http.StatusBadRequest},
		{name: "full board", body: MoveRequest{Board: []string{
			"xoxoxox",
			"xoxoxox",
			"oxoxoxo",
			"oxoxoxo",
			"xoxoxox",
			"xoxoxox",
		}}, status: http.StatusBadRequest},
		{name: "unsupported size", body: MoveRequest{Board: []string{"........", "........"}}, status: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, r, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestFindMoveUsesCache(t *testing.T) {
	agent := &countingAgent{Agent: NewEvaluationAgent(meta.Default())}
	r := newRouter(agent, NewMemoryCache())

	for i := 0; i < 3; i++ {
		w := post(t, r, MoveRequest{Board: winNow})
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.Equal(t, int32(1), agent.calls.Load())

	depth := 2
	w := post(t, r, MoveRequest{Board: winNow, Depth: &depth})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int32(2), agent.calls.Load())
}

func TestStream(t *testing.T) {
	srv := httptest.NewServer(newRouter(NewEvaluationAgent(meta.Default()), nil))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(MoveRequest{Board: winNow}))
	var resp MoveResponse
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, 3, resp.Column)

	require.NoError(t, conn.WriteJSON(MoveRequest{Board: []string{"........"}}))
	var failure struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}
	require.NoError(t, conn.ReadJSON(&failure))
	require.Equal(t, http.StatusUnprocessableEntity, failure.Status)
	require.NotEmpty(t, failure.Error)
}
