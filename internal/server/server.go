// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the agent query endpoint consumed by the
// browser extension popup.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coreyalejandro/code-genie-deep-research-agent/internal/knowledge"
	"github.com/coreyalejandro/code-genie-deep-research-agent/pkg/types"
)

const defaultMaxSources = 5

// QueryRequest is the payload the popup sends for one agent query.
type QueryRequest struct {
	Query     string       `json:"query" binding:"required"`
	Context   QueryContext `json:"context"`
	Timestamp int64        `json:"timestamp"`
}

// QueryContext carries the page the user was reading when they asked.
type QueryContext struct {
	PageTitle   string `json:"pageTitle"`
	PageURL     string `json:"pageUrl"`
	PageContent string `json:"pageContent"`
}

// QueryResponse is the answer returned to the popup.
type QueryResponse struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// StatusResponse is the polling payload for the popup status indicator.
type StatusResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
}

// Server answers popup queries from the knowledge store.
type Server struct {
	store      *knowledge.Store
	maxSources int
	log        *zap.Logger
	engine     *gin.Engine
}

// New builds a Server around the store. A nil logger is replaced with a
// no-op logger.
func New(store *knowledge.Store, cfg types.ServerConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	maxSources := cfg.MaxSources
	if maxSources <= 0 {
		maxSources = defaultMaxSources
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		store:      store,
		maxSources: maxSources,
		log:        log,
		engine:     engine,
	}

	engine.Use(s.requestLogger())
	engine.POST("/api/query", s.handleQuery)
	engine.GET("/api/status", s.handleStatus)

	return s
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails or the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.log.Info("agent endpoint listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requestLogger attaches a request id and logs one line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		s.log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func (s *Server) handleQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	entries, err := s.store.ListEntries(c.Request.Context(), knowledge.Filter{})
	if err != nil {
		s.log.Error("listing entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "knowledge store unavailable"})
		return
	}

	matched := matchEntries(req.Query, entries, s.maxSources)
	c.JSON(http.StatusOK, buildResponse(matched, s.maxSources))
}

func (s *Server) handleStatus(c *gin.Context) {
	entries, err := s.store.ListEntries(c.Request.Context(), knowledge.Filter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "knowledge store unavailable"})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "ok", Entries: len(entries)})
}

// matchEntries returns up to limit entries whose summary or title contains
// any query keyword, in insertion order.
func matchEntries(query string, entries []types.Entry, limit int) []types.Entry {
	keywords := strings.Fields(strings.ToLower(query))

	var matched []types.Entry
	for _, e := range entries {
		haystack := strings.ToLower(e.Title + " " + e.Summary)
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				matched = append(matched, e)
				break
			}
		}
		if len(matched) == limit {
			break
		}
	}
	return matched
}

// buildResponse assembles the popup answer from matched entries.
// Confidence is the fraction of the source cap that was filled, in [0, 1].
func buildResponse(matched []types.Entry, maxSources int) QueryResponse {
	if len(matched) == 0 {
		return QueryResponse{
			Answer:     "No stored knowledge matches this query yet. Run the research agent to gather sources.",
			Sources:    []string{},
			Confidence: 0,
		}
	}

	var (
		lines   []string
		sources []string
	)
	for _, e := range matched {
		line := e.Summary
		if line == "" {
			line = e.Title
		}
		lines = append(lines, line)
		if e.URL != "" {
			sources = append(sources, e.URL)
		}
	}
	if sources == nil {
		sources = []string{}
	}

	return QueryResponse{
		Answer:     strings.Join(lines, " "),
		Sources:    sources,
		Confidence: float64(len(matched)) / float64(maxSources),
	}
}
