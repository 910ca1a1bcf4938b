package cmd

import (
	"context"
	"fmt"

	"github.com/opalaxis/beamsolopex-companion/internal/api"
	"github.com/opalaxis/beamsolopex-companion/internal/config"
	"github.com/opalaxis/beamsolopex-companion/internal/core/logger"
	"github.com/opalaxis/beamsolopex-companion/internal/receipts"
	"github.com/opalaxis/beamsolopex-companion/internal/session"
	custom_error "github.com/opalaxis/beamsolopex-companion/pkg/errors"
	"go.uber.org/zap"
)

// app is what every backend-facing command shares: configuration, logger,
// the restored session and an API client bound to it.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	sessions *session.Manager
	client   *api.Client
	backend  *api.Backend
	closers  []func() error
}

func loadBase(opts *rootOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Log.Level
	if opts.verbose {
		level = "debug"
	}
	log, err := logger.NewLogger(level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, log, err := loadBase(opts)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: log}
	a.closers = append(a.closers, func() error {
		_ = log.Sync()
		return nil
	})

	var store session.Store
	switch cfg.Session.Store {
	case "redis":
		rs, err := session.NewRedisStore(session.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Session.Key, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		store = rs
	default:
		store = session.NewFileStore(cfg.Session.Path)
	}

	a.sessions = session.NewManager(store, log)
	if err := a.sessions.Init(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	a.client = api.NewClient(cfg.API.BaseURL,
		api.WithTokenSource(api.TokenFunc(a.sessions.Token)),
		api.WithUnauthorizedHandler(a.sessions.HandleUnauthorized),
		api.WithLogger(log),
	)
	a.backend = api.NewBackend(a.client)
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// requireSession fails with session.ErrNotLoggedIn when nobody is logged in.
func (a *app) requireSession() error {
	_, err := a.sessions.Session()
	return err
}

// controller returns a loaded receipt controller. A 401 during loading
// leaves the session cleared, which is reported as an expired login.
func (a *app) controller(ctx context.Context, notifier receipts.Notifier) (*receipts.Controller, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	ctrl := receipts.NewController(receipts.Dependencies{
		Receipts:            a.backend.Receipts,
		Assets:              a.backend.Assets,
		Locations:           a.backend.Locations,
		Conditions:          a.backend.Conditions,
		OperationalStatuses: a.backend.OperationalStatuses,
		Auth:                a.sessions,
		Notifier:            notifier,
		Logger:              a.logger,
		PageSize:            a.cfg.List.PageSize,
	})
	ctrl.Load(ctx)
	if a.sessions.Token() == "" {
		return nil, fmt.Errorf("load asset receipts: %w", custom_error.ErrUnauthorized)
	}
	return ctrl, nil
}

// withApp runs fn with an app that is closed afterwards.
func withApp(ctx context.Context, opts *rootOptions, fn func(a *app) error) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
