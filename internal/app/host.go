package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/api/browser"
	apihttp "github.com/matkoch/jetbrains-plugin-idebrowser/internal/api/http"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/api/middleware"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/api/ws"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/command"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/navigation"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/registry"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/endpoint"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/engine"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/config"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/logging"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/monitoring"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/server"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/launch"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/tui"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/ui"
)

const (
	// StatePath streams browser surface snapshots
	StatePath = "/ws/browser"

	shutdownTimeout = 5 * time.Second
	tuiLogFile      = "ide-browser.log"
)

// Option configures a Host
type Option func(*Host)

// WithLogger replaces the logger built from the configuration
func WithLogger(logger *logging.Logger) Option {
	return func(h *Host) { h.logger = logger }
}

// Host owns every component of the process
type Host struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics

	loop       *ui.Loop
	workspaces *ui.Workspaces
	registry   *registry.Registry
	hub        *surface.Hub
	navigation *navigation.Service
	commands   *command.Executor
	server     *server.Server
	launcher   *launch.Launcher
	profile    *launch.Profile
}

// New builds a host from cfg. Nothing is started until Run.
func New(cfg *config.Config, opts ...Option) (*Host, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	h := &Host{cfg: cfg}
	for _, opt := range opts {
		opt(h)
	}

	if h.logger == nil {
		logger, err := newLogger(cfg.Logging, cfg.UI.TUI)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		h.logger = logger
	}
	if cfg.UI.TUI || !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Launch.Profile != "" {
		if cfg.Launch.ProfilesPath == "" {
			return nil, fmt.Errorf("launch profile %q requested without a profiles file", cfg.Launch.Profile)
		}
		profiles, err := launch.LoadProfiles(cfg.Launch.ProfilesPath)
		if err != nil {
			return nil, err
		}
		profile, err := launch.Find(profiles, cfg.Launch.Profile)
		if err != nil {
			return nil, err
		}
		h.profile = &profile
	}

	h.metrics = monitoring.NewMetrics()
	h.loop = ui.NewLoop(cfg.UI.QueueSize, h.logger).WithMetrics(h.metrics)
	h.workspaces = ui.NewWorkspaces(h.loop, h.logger)
	h.registry = registry.New()
	h.hub = surface.NewHub()

	h.workspaces.DeclareToolWindow(string(registry.Browser), navigation.BrowserContent(
		h.registry,
		h.loop,
		h.engineFactory(),
		surface.WithHomeURL(cfg.Browser.HomeURL),
		surface.WithZoomStep(cfg.Browser.ZoomStep),
		surface.WithObserver(h.hub.Publish),
	))

	h.navigation = navigation.NewService(h.workspaces, h.registry, h.loop, h.logger).WithMetrics(h.metrics)
	h.commands = command.NewExecutor(h.navigation)

	mw := []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.Logging(h.logger),
		monitoring.Middleware(h.metrics, endpoint.Prefix),
		middleware.CORS(corsConfig(cfg.CORS)),
	}
	if cfg.RateLimit.Enabled {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		mw = append(mw, rateLimit(cfg.RateLimit.Global, rl))
	}
	h.server = server.New(cfg.Server, h.logger, mw...)
	h.server.Mount(browser.NewHandler(h.navigation))

	router := h.server.Router()
	apihttp.NewHandlers(h.server, h.workspaces, h.hub, h.metrics).Register(router)
	router.GET(StatePath, ws.NewHandler(h.hub, h.logger).HandleConnection)

	h.launcher = launch.NewLauncher(h.server, h.navigation, h.logger).WithMetrics(h.metrics)
	return h, nil
}

// Logger returns the host logger
func (h *Host) Logger() *logging.Logger { return h.logger }

// Port returns the bound port of the shared server, 0 when not listening
func (h *Host) Port() int { return h.server.Port() }

// Navigation returns the navigation service
func (h *Host) Navigation() *navigation.Service { return h.navigation }

// Commands returns the browser command executor
func (h *Host) Commands() *command.Executor { return h.commands }

// Hub returns the surface state hub
func (h *Host) Hub() *surface.Hub { return h.hub }

// Workspaces returns the open workspaces
func (h *Host) Workspaces() *ui.Workspaces { return h.workspaces }

// Run starts the host and blocks until ctx is done, the server fails or the
// terminal tool window is closed.
func (h *Host) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := h.server.Start(); err != nil {
		return err
	}
	base, _ := endpoint.BaseURL(h.server)
	h.logger.Info("Browser endpoint ready",
		zap.String("endpoint", base),
		zap.String("env", endpoint.EnvVar),
	)

	// The loop outlives ctx so that workspace disposal can still run on it.
	loopDone := make(chan error, 1)
	go func() { loopDone <- h.loop.Run(context.Background()) }()

	var proc *launch.Process
	defer func() {
		if serr := h.shutdown(proc, loopDone); serr != nil && err == nil {
			err = serr
		}
	}()

	if h.cfg.Workspace.AutoOpen {
		if _, err := h.workspaces.Open(h.cfg.Workspace.Name, h.cfg.Workspace.Dir); err != nil {
			return fmt.Errorf("failed to open workspace: %w", err)
		}
	}

	if h.profile != nil {
		proc, err = h.launcher.Start(ctx, *h.profile)
		if err != nil {
			return err
		}
	}

	tuiDone := make(chan error, 1)
	if h.cfg.UI.TUI {
		go func() { tuiDone <- tui.Run(ctx, h.hub, h.commands) }()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-h.server.Errors():
		return err
	case err := <-tuiDone:
		return err
	}
}

func (h *Host) shutdown(proc *launch.Process, loopDone <-chan error) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	h.logger.Info("Shutting down")

	if proc != nil {
		if err := proc.Stop(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			h.logger.Warn("Failed to stop process", zap.Error(err))
		}
		select {
		case <-proc.Done():
		case <-ctx.Done():
			h.logger.Warn("Process did not exit in time", zap.Int("pid", proc.PID()))
		}
	}

	h.workspaces.CloseAll()
	h.loop.Close()
	select {
	case err := <-loopDone:
		if err != nil {
			h.logger.Warn("UI loop stopped with error", zap.Error(err))
		}
	case <-ctx.Done():
		h.logger.Warn("UI loop did not drain in time")
	}

	if err := h.server.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func rateLimit(global bool, cfg middleware.RateLimitConfig) gin.HandlerFunc {
	if global {
		return middleware.GlobalRateLimit(cfg)
	}
	return middleware.RateLimit(cfg)
}

func corsConfig(cfg config.CORSConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.AllowOrigins) > 0 {
		c.AllowOrigins = cfg.AllowOrigins
	}
	return c
}

func (h *Host) engineFactory() navigation.EngineFactory {
	if !h.cfg.Browser.FetchEnabled {
		return nil
	}
	cfg := engine.DefaultConfig()
	if h.cfg.Browser.FetchTimeout > 0 {
		cfg.Timeout = h.cfg.Browser.FetchTimeout
	}
	return func(onTitle navigation.TitleFunc) surface.Engine {
		return engine.NewFetchEngine(cfg, onTitle, h.logger)
	}
}

// newLogger sends logs to the configured file, or to a temp file while the
// terminal tool window owns stdout.
func newLogger(cfg config.LogConfig, tuiMode bool) (*logging.Logger, error) {
	outputs := []string{"stdout"}
	switch {
	case cfg.File != "":
		outputs = []string{cfg.File}
	case tuiMode:
		outputs = []string{filepath.Join(os.TempDir(), tuiLogFile)}
	}
	return logging.New(logging.Config{
		Level:       cfg.Level,
		Development: cfg.Development,
		OutputPaths: outputs,
	})
}
