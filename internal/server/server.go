// Package server exposes the sampler over a small local HTTP API and a
// websocket stream of every rendered sample.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/netutil"

	"github.com/hanamizuki10/get-color-for-windows/internal/health"
	"github.com/hanamizuki10/get-color-for-windows/internal/logging"
	"github.com/hanamizuki10/get-color-for-windows/internal/sampler"
	"github.com/hanamizuki10/get-color-for-windows/internal/screen"
)

var log = logging.L("server")

const (
	// ShutdownTimeout bounds how long Shutdown waits for in-flight requests.
	ShutdownTimeout = 3 * time.Second

	// MaxConns caps concurrent connections, websocket streams included.
	MaxConns = 32
)

// Controller is the part of the sampler the API drives.
type Controller interface {
	State() sampler.State
	Toggle() (sampler.State, error)
	SampleOnce() sampler.Sample
	Latest() (sampler.Sample, bool)
	Layout() screen.Layout
}

type Server struct {
	ctrl   Controller
	hub    *Hub
	health *health.Monitor
	engine *gin.Engine
	srv    *http.Server
}

// New builds the router. hub may be shared with the sampler as a view;
// health may be nil.
func New(ctrl Controller, hub *Hub, hm *health.Monitor) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{ctrl: ctrl, hub: hub, health: hm}
	app := gin.New()
	app.Use(gin.Recovery(), requestLogger())

	api := app.Group("/api")
	api.GET("/monitors", s.handleMonitors)
	api.GET("/sample", s.handleSample)
	api.GET("/state", s.handleState)
	api.POST("/toggle", s.handleToggle)

	app.GET("/healthz", s.handleHealth)
	app.GET("/ws", func(c *gin.Context) {
		if !c.IsWebsocket() {
			c.JSON(http.StatusUpgradeRequired, gin.H{"error": "websocket upgrade required"})
			return
		}
		s.hub.ServeHTTP(c.Writer, c.Request)
	})

	s.engine = app
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Start binds addr and serves in the background. The bound address is
// returned so ":0" can be used.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	ln = netutil.LimitListener(ln, MaxConns)
	s.srv = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", logging.KeyError, err)
		}
	}()
	log.Info("http server listening", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Shutdown closes websocket clients and drains HTTP requests, waiting at
// most ShutdownTimeout past ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()
	log.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleMonitors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"monitors": s.ctrl.Layout().Monitors()})
}

// handleSample returns the latest published sample while running, and
// takes a fresh one otherwise.
func (s *Server) handleSample(c *gin.Context) {
	if s.ctrl.State() == sampler.Running {
		if latest, ok := s.ctrl.Latest(); ok {
			c.JSON(http.StatusOK, latest)
			return
		}
	}
	c.JSON(http.StatusOK, s.ctrl.SampleOnce())
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": s.ctrl.State()})
}

func (s *Server) handleToggle(c *gin.Context) {
	st, err := s.ctrl.Toggle()
	if err != nil {
		logging.FromContext(c.Request.Context()).Warn("toggle failed", logging.KeyError, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"state": st, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st})
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": string(health.Healthy)})
		return
	}
	code := http.StatusOK
	if s.health.Overall() == health.Unhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, s.health.Summary())
}

// requestLogger attaches a request-scoped logger and logs each request at
// debug level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		l := log.With("method", c.Request.Method, "path", c.Request.URL.Path)
		c.Request = c.Request.WithContext(logging.NewContext(c.Request.Context(), l))

		c.Next()

		l.Debug("request", "status", c.Writer.Status(), "duration", time.Since(start))
	}
}
