// Package cli is the command-line front end: a cobra command tree over the
// stores, forms and pages.
package cli

import (
	"context"
	"fmt"
	"io"

	"freshguard/internal/api"
	"freshguard/internal/config"
	"freshguard/internal/page"
	"freshguard/internal/seed"
	"freshguard/internal/store"

	"github.com/rs/zerolog"
)

// App holds the components a command works with.
type App struct {
	Items   *store.ItemStore
	Recipes *store.RecipeStore
	Pages   *page.Pages
	Seeds   *seed.Importer
	Logger  zerolog.Logger
}

// NewApp wires stores, pages and the seed importer around client.
func NewApp(client *api.Client, loader seed.Loader, logger zerolog.Logger) *App {
	items := store.NewItemStore(client, logger)
	recipes := store.NewRecipeStore(client, logger)

	return &App{
		Items:   items,
		Recipes: recipes,
		Pages:   page.New(items, recipes, logger),
		Seeds:   seed.NewImporter(loader, items, logger),
		Logger:  logger,
	}
}

// Options are the global flags.
type Options struct {
	APIURL   string
	LogLevel string
}

// Factory builds the App for a command invocation once flags are parsed.
type Factory func(ctx context.Context, opts Options) (*App, error)

// DefaultFactory loads the environment configuration, applies the flag
// overrides and logs to logOut.
func DefaultFactory(logOut io.Writer) Factory {
	return func(ctx context.Context, opts Options) (*App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		if opts.APIURL != "" {
			cfg.API.BaseURL = opts.APIURL
		}
		if opts.LogLevel != "" {
			cfg.Logger.Level = opts.LogLevel
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid options: %w", err)
		}

		logger := config.NewLogger(cfg.Logger, logOut)

		client, err := api.New(cfg.API.BaseURL, logger,
			api.WithAPIKey(cfg.API.APIKey),
			api.WithTimeout(cfg.API.TimeoutDuration()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create API client: %w", err)
		}

		return NewApp(client, newSeedLoader(ctx, cfg.S3, logger), logger), nil
	}
}

// newSeedLoader reads seed files from S3 when enabled, falling back to the
// local file system.
func newSeedLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) seed.Loader {
	fileLoader := seed.NewFileLoader(logger)
	if !cfg.Enabled {
		return fileLoader
	}

	s3Loader, err := seed.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}
	return seed.NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, true, logger)
}

// storeError carries the message a store shows for a failed operation.
type storeError struct {
	message string
	err     error
}

func (e *storeError) Error() string {
	return e.message
}

func (e *storeError) Unwrap() error {
	return e.err
}

// fromStore replaces err's text with the store's display message.
func fromStore(s interface{ Err() string }, err error) error {
	if err == nil {
		return nil
	}
	if msg := s.Err(); msg != "" {
		return &storeError{message: msg, err: err}
	}
	return err
}
