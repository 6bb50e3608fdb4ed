// Package api serves courses, players and games over HTTP, with live list
// snapshots streamed as server-sent events.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/roach88/discman/internal/config"
	"github.com/roach88/discman/internal/game"
	"github.com/roach88/discman/internal/live"
	"github.com/roach88/discman/internal/model"
)

// Store is everything the handlers read and write.
// *store.Store satisfies it.
type Store interface {
	game.Store
	ListCourses(ctx context.Context) ([]model.Course, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)
	ListGames(ctx context.Context) ([]model.Game, error)
}

// Server wires the router to the store and the live hub.
type Server struct {
	Config config.Config
	Router *gin.Engine

	store  Store
	hub    *live.Hub
	logger *slog.Logger
}

// NewServer builds a server with middlewares and routes mounted.
func NewServer(conf config.Config, st Store, hub *live.Hub, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		Config: conf,
		Router: gin.New(),
		store:  st,
		hub:    hub,
		logger: logger,
	}

	s.MountMiddlewares()
	s.MountHandlers()
	return s
}

// MountMiddlewares installs recovery, request IDs, logging and CORS.
func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(requestLogger(s.logger))

	if len(s.Config.CORSOrigins) > 0 {
		cc := cors.DefaultConfig()
		if slices.Contains(s.Config.CORSOrigins, "*") {
			cc.AllowAllOrigins = true
		} else {
			cc.AllowOrigins = s.Config.CORSOrigins
		}
		cc.AddExposeHeaders("X-Request-ID")
		s.Router.Use(cors.New(cc))
	}
}

// MountHandlers registers every route.
func (s *Server) MountHandlers() {
	s.Router.GET("/healthz", handleHealthcheck)

	s.Router.GET("/courses", s.HandleListCourses)
	s.Router.GET("/courses/:courseID/holes", s.HandleListHoles)
	s.Router.GET("/players", s.HandleListPlayers)
	s.Router.GET("/games", s.HandleListGames)
	s.Router.GET("/games/:gameID", s.HandleGetGame)
	s.Router.PUT("/games/:gameID/throws", s.HandleUpdateThrows)

	s.Router.GET("/live/:query", s.HandleLive)
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config.Listen,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", requestid.Get(c),
		)
	}
}

func handleHealthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
