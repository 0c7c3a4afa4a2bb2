// Package server exposes the feeder over HTTP: status, feed schedule
// management, manual dispensing, history and clock setting. Control
// operations go through the Controller interface which serializes them into
// the device loop, so the server holds no feeder state of its own.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"golang.org/x/time/rate"

	"github.com/umputun/kibbler/pkg/clock"
	"github.com/umputun/kibbler/pkg/device"
	"github.com/umputun/kibbler/pkg/schedule"
	"github.com/umputun/kibbler/pkg/store"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/controller.go -pkg mocks -skip-ensure -fmt goimports . Controller
//go:generate moq -out mocks/history.go -pkg mocks -skip-ensure -fmt goimports . History

// Server represents HTTP server instance
type Server struct {
	config     ConfigProvider
	controller Controller
	history    History
	version    string
	debug      bool

	feedLimiter *rate.Limiter

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Controller is the device control surface exposed over the API.
type Controller interface {
	Status(ctx context.Context) (device.Status, error)
	Entries(ctx context.Context) ([]schedule.Entry, error)
	AddEntry(ctx context.Context, e schedule.Entry) error
	RemoveEntry(ctx context.Context, index int) error
	FeedNow(ctx context.Context, rotations int) error
	SetClock(ctx context.Context, target clock.Snapshot) error
}

// History reads the dispensing log.
type History interface {
	RecentEvents(ctx context.Context, limit int) ([]store.FeedEvent, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout, feedEvery time.Duration)
}

// New initializes a new server instance
func New(cfg ConfigProvider, controller Controller, history History, version string, debug bool) *Server {
	_, _, feedEvery := cfg.GetServerConfig()
	if feedEvery <= 0 {
		feedEvery = 10 * time.Second
	}

	s := &Server{
		config:     cfg,
		controller: controller,
		history:    history,
		version:    version,
		debug:      debug,
		// the auger is a physical thing, keep remote feeding slow
		feedLimiter: rate.NewLimiter(rate.Every(feedEvery), 3),
		router:      routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout, _ := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("kibbler", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024)) // 64K, schedule payloads are tiny
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /schedule", s.getScheduleHandler)
		r.HandleFunc("POST /schedule", s.addScheduleHandler)
		r.HandleFunc("DELETE /schedule/{index}", s.removeScheduleHandler)
		r.HandleFunc("POST /feed", s.feedNowHandler)
		r.HandleFunc("GET /history", s.historyHandler)
		r.HandleFunc("POST /clock", s.setClockHandler)
	})
}
