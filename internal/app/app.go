package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/five82/todoable/internal/config"
	"github.com/five82/todoable/internal/logging"
	"github.com/five82/todoable/internal/prefs"
	"github.com/five82/todoable/internal/state"
	"github.com/five82/todoable/internal/todoable"
	"github.com/five82/todoable/internal/ui"
)

// Options configure the TUI application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/todoable/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
}

// NewClient builds and authenticates a client from cfg.
func NewClient(ctx context.Context, cfg config.Config, logger *zap.Logger) (*todoable.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	client, err := todoable.Build(ctx, cfg.BaseURL,
		todoable.Credentials{Username: cfg.Username, Password: cfg.Password},
		todoable.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		todoable.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to todoable: %w", err)
	}
	return client, nil
}

// Run boots the TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := NewClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	store := &state.Store{}

	interval := cfg.Poll
	if opts.PollEvery > 0 {
		interval = secondsToDuration(opts.PollEvery)
	}

	// Populate the store before the UI starts, then keep it fresh.
	if err := refresh(ctx, store, client); err != nil {
		logger.Warn("initial refresh failed", zap.Error(err))
	}
	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	StartPoller(pollCtx, store, client, interval, logger)

	logger.Info("starting tui", zap.String("base_url", cfg.BaseURL), zap.Duration("poll", interval))
	return ui.Run(ui.Options{
		Context: ctx,
		Client:  client,
		Store:   store,
		Refresh: func(ctx context.Context) error {
			return refresh(ctx, store, client)
		},
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
		LogPath:   cfg.LogFile,
	})
}
