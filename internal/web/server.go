// Package web serves a session's grocery list as a JSON API for browser
// front-ends.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grocery/internal/session"
)

// Server is the grocery list API server.
type Server struct {
	sess   *session.Session
	router *gin.Engine
	logger *zap.Logger
}

// NewServer creates a server over sess.
func NewServer(sess *session.Session, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		sess:   sess,
		router: router,
		logger: logger,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/state", s.handleState)
		api.GET("/items", s.handleItems)
		api.POST("/items", s.handleAdd)
		api.PATCH("/items/:id", s.handleToggle)
		api.DELETE("/items/:id", s.handleRemove)
	}

	return s
}

// Handler returns the HTTP handler (for testing and embedding).
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	return ListenAndServe(ctx, addr, s.router)
}

// ListenAndServe serves handler on addr and shuts down gracefully when ctx
// is done.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
