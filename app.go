package main

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

type App struct {
	logger   *zap.Logger
	config   *Config
	clock    *Clock
	client   *APIClient
	store    TokenStore
	session  *Session
	notifier Notifier
	cleanups []func() error
}

// AppOption customizes the App built by NewApp.
type AppOption func(*appOptions)

type appOptions struct {
	store TokenStore
}

// WithTokenStore makes the App use the given store instead of the
// configured one. The App still closes it on Clean.
func WithTokenStore(store TokenStore) AppOption {
	return func(o *appOptions) {
		o.store = store
	}
}

// NewApp wires the logger, the api client, the token store and the session
// together. Notifications and development logs are printed to stderr.
func NewApp(config *Config, stderr io.Writer, opts ...AppOption) (*App, error) {
	var options appOptions
	for _, opt := range opts {
		opt(&options)
	}

	clock := NewClock(config.IsProduction)
	logWriter := NewRotatingWriter(config, clock)
	logger, flusher := SetupLogging(config, logWriter, stderr, NewTickClock(clock))

	app := &App{
		logger:   logger,
		config:   config,
		clock:    clock,
		cleanups: []func() error{logWriter.Close, flusher},
	}

	store := options.store
	if store == nil {
		var err error
		store, err = NewTokenStore(logger, config)
		if err != nil {
			app.Clean()
			return nil, fmt.Errorf("failed to setup session storage: %w", err)
		}
	}
	app.store = store
	app.cleanups = append(app.cleanups, store.Close)

	app.client = NewAPIClient(logger.Named("api"), &config.API, NewIDsHandler(), clock)
	app.session = NewSession(logger.Named("session"), app.client, store, clock, config.Session.ExpireOn)
	app.notifier = NewConsoleNotifier(logger.Named("notify"), stderr)

	logger.Debug("app initialized",
		zap.String("api.base_url", app.client.BaseURL()),
		zap.String("session.storage", config.Session.Storage),
		zap.String("session.expire_on", config.Session.ExpireOn),
	)
	return app, nil
}

// Clean calls all registered cleanups functions in reverse order.
func (app *App) Clean() error {
	var errs []error
	for i := len(app.cleanups) - 1; i >= 0; i-- {
		if err := app.cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.cleanups = nil
	return errors.Join(errs...)
}

func (app *App) CatalogPage() *CatalogPage {
	return NewCatalogPage(app.logger.Named("catalog"), app.client, app.session, app.notifier)
}

func (app *App) BookPage() *BookPage {
	return NewBookPage(app.logger.Named("book"), app.client, app.session, app.notifier)
}

func (app *App) FavoritesPage() *FavoritesPage {
	return NewFavoritesPage(app.logger.Named("favorites"), app.client, app.session, app.notifier)
}

func (app *App) AdminPage() *AdminPage {
	return NewAdminPage(app.logger.Named("admin"), app.client, app.session, app.notifier)
}
