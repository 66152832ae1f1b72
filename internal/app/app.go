package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/pathlab/internal/config"
	"github.com/vk/pathlab/internal/ctxlog"
	"github.com/vk/pathlab/internal/watch"
)

// Config holds the CLI-level settings for an App instance. Non-zero values
// override the config file.
type Config struct {
	Mode       string
	ConfigPath string
	ListenAddr string
	SolverURL  string
	Algorithm  string
	Speed      int
	LogFormat  string
	LogLevel   string
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	mode   string
	cfg    *config.Model

	algorithm string
	speed     int
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and merged
// configuration, or an error when the config file cannot be loaded.
func NewApp(outW io.Writer, appConfig *Config) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfg, err := config.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.ListenAddr != "" {
		cfg.ListenAddr = appConfig.ListenAddr
	}
	if appConfig.SolverURL != "" {
		cfg.SolverURL = appConfig.SolverURL
	}
	if appConfig.LogLevel != "" {
		cfg.LogLevel = appConfig.LogLevel
	}
	if appConfig.LogFormat != "" {
		cfg.LogFormat = appConfig.LogFormat
	}
	speed := cfg.Replay.Speed
	if appConfig.Speed > 0 {
		speed = appConfig.Speed
	}
	logger.Debug("Configuration loaded and merged.", "mode", appConfig.Mode)

	return &App{
		outW:      outW,
		logger:    logger,
		mode:      appConfig.Mode,
		cfg:       cfg,
		algorithm: appConfig.Algorithm,
		speed:     speed,
	}, nil
}

// Run executes the selected mode until completion or ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	switch a.mode {
	case "serve":
		return a.runServe(ctx)
	case "solve":
		return a.runSolve(ctx)
	case "watch":
		return watch.Run(ctx, a.cfg.SolverURL)
	default:
		return fmt.Errorf("unknown mode %q", a.mode)
	}
}
