package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/app"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Flags override the environment
	flag.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "Shared server port (0 picks a free port)")
	flag.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "Shared server bind address (localhost or a loopback IP)")
	flag.StringVar(&cfg.Workspace.Name, "workspace", cfg.Workspace.Name, "Workspace opened at startup")
	flag.StringVar(&cfg.Workspace.Dir, "dir", cfg.Workspace.Dir, "Workspace directory")
	flag.BoolVar(&cfg.Workspace.AutoOpen, "open-workspace", cfg.Workspace.AutoOpen, "Open the workspace at startup")
	flag.StringVar(&cfg.Launch.ProfilesPath, "profiles", cfg.Launch.ProfilesPath, "Launch profiles file (.yaml or .toml)")
	flag.StringVar(&cfg.Launch.Profile, "launch", cfg.Launch.Profile, "Launch profile to run after startup")
	flag.StringVar(&cfg.Browser.HomeURL, "home", cfg.Browser.HomeURL, "Browser home page")
	flag.BoolVar(&cfg.Browser.FetchEnabled, "fetch", cfg.Browser.FetchEnabled, "Fetch pages to resolve their titles")
	flag.BoolVar(&cfg.UI.TUI, "tui", cfg.UI.TUI, "Show the browser tool window in the terminal")
	flag.BoolVar(&cfg.Logging.Development, "dev", cfg.Logging.Development, "Development logging")
	flag.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "Log level")
	flag.StringVar(&cfg.Logging.File, "log-file", cfg.Logging.File, "Log file (stdout when empty)")
	flag.Parse()

	host, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create host: %v", err)
	}
	logger := host.Logger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := host.Run(ctx); err != nil {
		logger.Error("Host stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
