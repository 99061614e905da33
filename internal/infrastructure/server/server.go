package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/config"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/logging"
)

// ErrNotLoopback is returned by Start for a bind address reachable from other hosts
var ErrNotLoopback = errors.New("bind address is not loopback")

// RequestHandler serves every request under a path prefix on the shared server
type RequestHandler interface {
	// IsSupported reports whether the request belongs to this handler
	IsSupported(r *http.Request) bool
	// Process serves the request and reports whether it was handled
	Process(c *gin.Context) bool
}

// Server is the shared HTTP server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	cfg        config.ServerConfig
	logger     *logging.Logger

	mu       sync.RWMutex
	handlers []RequestHandler // Protected by mu

	port  atomic.Int32
	errCh chan error
}

// New creates a server. Middleware applies to routes and mounted handlers alike.
func New(cfg config.ServerConfig, logger *logging.Logger, middleware ...gin.HandlerFunc) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	s := &Server{
		router: router,
		cfg:    cfg,
		logger: logger.Named("server"),
		errCh:  make(chan error, 1),
	}
	router.NoRoute(s.dispatch)
	return s
}

// Router returns the gin engine for registering ordinary routes
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Mount adds a prefix handler
func (s *Server) Mount(h RequestHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// Handlers returns the number of mounted prefix handlers
func (s *Server) Handlers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handlers)
}

func (s *Server) dispatch(c *gin.Context) {
	s.mu.RLock()
	handlers := make([]RequestHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.RUnlock()

	for _, h := range handlers {
		if h.IsSupported(c.Request) && h.Process(c) {
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error":   "not found",
	})
}

// ServeHTTP serves a request without a listener
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	if s.Port() != 0 {
		return errors.New("server already started")
	}

	if err := checkLoopback(s.cfg.Host); err != nil {
		return err
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.port.Store(int32(ln.Addr().(*net.TCPAddr).Port))

	s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))

	go func() {
		err := s.httpServer.Serve(ln)
		s.port.Store(0)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", zap.Error(err))
			s.errCh <- err
		}
	}()
	return nil
}

// Errors delivers an error if the server stops unexpectedly
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Port returns the bound port, 0 when not listening
func (s *Server) Port() int {
	return int(s.port.Load())
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	s.port.Store(0)
	if err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// checkLoopback accepts "localhost" and loopback IPs only
func checkLoopback(host string) error {
	if strings.EqualFold(host, "localhost") {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNotLoopback, host)
}
