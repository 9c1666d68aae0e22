package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"connect4/game"
	"connect4/meta"
	"connect4/searcher"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	cfg   meta.Config
	agent Agent
	cache MoveCache
}

// NewServer serves agent over HTTP. cache may be nil.
func NewServer(cfg meta.Config, agent Agent, cache MoveCache) *Server {
	return &Server{cfg: cfg, agent: agent, cache: cache}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/health", s.health)
	api := r.Group("/api")
	{
		api.POST("/move", s.findMove)
	}
	r.GET("/ws", s.stream)
	return r
}

// StartAgentServer serves on cfg.Addr until ctx is cancelled.
func StartAgentServer(ctx context.Context, cfg meta.Config) error {
	var cache MoveCache = NewMemoryCache()
	if cfg.RedisAddr != "" {
		redisCache, err := NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn().Err(err).Msg("falling back to in-memory move cache")
		} else {
			defer redisCache.Close()
			cache = redisCache
		}
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: NewServer(cfg, NewEvaluationAgent(cfg), cache).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("starting agent server on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) findMove(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request: " + err.Error()})
		return
	}

	resp, status, err := s.resolve(c.Request.Context(), req)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// stream answers every MoveRequest read from the connection until the
// client goes away.
func (s *Server) stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var req MoveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		resp, status, err := s.resolve(c.Request.Context(), req)
		if err != nil {
			err = conn.WriteJSON(gin.H{"error": err.Error(), "status": status})
		} else {
			err = conn.WriteJSON(resp)
		}
		if err != nil {
			log.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}

// resolve validates req, consults the cache and runs the search. On failure
// it returns the HTTP status matching the error.
func (s *Server) resolve(ctx context.Context, req MoveRequest) (MoveResponse, int, error) {
	board, err := game.ParseBoard(req.Board)
	if err != nil {
		return MoveResponse{}, http.StatusBadRequest, err
	}
	depth := s.cfg.SearchDepth
	if req.Depth != nil {
		depth = *req.Depth
	}
	if depth < 0 || depth > meta.MaxDepth {
		return MoveResponse{}, http.StatusBadRequest, fmt.Errorf("depth %d out of range [0, %d]", depth, meta.MaxDepth)
	}

	key := cacheKey(board, depth)
	if s.cache != nil {
		resp, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("move cache lookup failed")
		} else if ok {
			return resp, http.StatusOK, nil
		}
	}

	resp, err := s.agent.FindMove(board, depth)
	switch {
	case errors.Is(err, searcher.ErrUnsupportedSize):
		return MoveResponse{}, http.StatusUnprocessableEntity, err
	case errors.Is(err, searcher.ErrNoMoves):
		return MoveResponse{}, http.StatusBadRequest, err
	case err != nil:
		return MoveResponse{}, http.StatusInternalServerError, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp); err != nil {
			log.Warn().Err(err).Msg("move cache store failed")
		}
	}
	log.Debug().Int("column", resp.Column).Int("depth", depth).Int("nodes", resp.Nodes).Msg("move served")
	return resp, http.StatusOK, nil
}
