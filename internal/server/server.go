package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// Registrar mounts a group of routes under /api.
type Registrar interface {
	Register(rg *gin.RouterGroup)
}

type Server struct {
	engine *gin.Engine
	srv    *http.Server
}

func New(port string, readTimeout time.Duration, handlers ...Registrar) *Server {
	engine := gin.New()
	engine.Use(RequestID(), AccessLog(), gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	for _, h := range handlers {
		h.Register(api)
	}

	return &Server{
		engine: engine,
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           engine,
			ReadHeaderTimeout: readTimeout,
			ReadTimeout:       readTimeout,
			// no WriteTimeout: cart events are a long lived stream
			IdleTimeout: 60 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("http server listening on %s", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("http server stopped")
	return ctx.Err()
}
