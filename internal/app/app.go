package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/config"
	"github.com/five82/portal/internal/detail"
	"github.com/five82/portal/internal/favorites"
	"github.com/five82/portal/internal/logging"
	"github.com/five82/portal/internal/prefs"
	"github.com/five82/portal/internal/query"
	"github.com/five82/portal/internal/search"
	"github.com/five82/portal/internal/state"
	"github.com/five82/portal/internal/storage"
	"github.com/five82/portal/internal/ui"
)

// Options configure the portal application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/portal/prefs.toml
	LogLevel   string // overrides log_level from config
	LogFile    string // overrides log_file from config; "-" is stderr
	// Query is the starting address: a query string like "status=alive" or
	// a path like "/character/2". Empty restores the last saved query.
	Query string
}

// Parts are the externally backed dependencies an Env is assembled from.
type Parts struct {
	Config  config.Config
	Logger  *log.Logger
	DB      *storage.DB
	Fetcher catalog.Fetcher
}

// Env is the wired object graph shared by the TUI and the CLI commands.
type Env struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *log.Logger
	DB        *storage.DB
	Fetcher   catalog.Fetcher
	Favorites *favorites.Store
	Store     *state.Store
	History   *query.History
	Search    *search.Orchestrator
	Detail    *detail.Loader

	closers []io.Closer
}

// Open loads configuration and preferences, then opens the log, the
// database and the API client.
func Open(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl := strings.TrimSpace(opts.LogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
	if file := strings.TrimSpace(opts.LogFile); file != "" {
		cfg.LogFile = file
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	logger, logCloser, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	client, err := catalog.NewClient(cfg.APIBase, catalog.Options{
		Timeout:   cfg.RequestTimeout,
		RateLimit: cfg.RateLimit,
		Logger:    logger.With("component", "catalog"),
	})
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	parts := Parts{Config: cfg, Logger: logger, DB: db, Fetcher: client}
	env, err := Assemble(ctx, parts, initialLocation(opts.Query, userPrefs.LastQuery))
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}
	env.Prefs = userPrefs
	env.PrefsPath = opts.PrefsPath
	if env.PrefsPath == "" {
		env.PrefsPath = prefs.DefaultPath()
	}
	env.closers = append(env.closers, logCloser)

	logger.Debug("portal started",
		"api", cfg.APIBase,
		"database", cfg.DatabasePath,
		"address", env.History.Current().String())
	return env, nil
}

// Assemble wires the favorites store, the state store, the history and both
// loaders around parts. A list address seeds the search parameters; nothing
// is fetched until the favorites gate lifts. The Env takes ownership of
// parts.DB.
func Assemble(ctx context.Context, parts Parts, initial query.Location) (*Env, error) {
	logger := parts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	store := &state.Store{}
	history := query.NewHistory(initial)

	var backend favorites.Backend
	if parts.DB != nil {
		backend = parts.DB
	}
	favs := favorites.New(backend, logger.With("component", "favorites"))

	searchOpts := search.Options{
		Fetcher:   parts.Fetcher,
		Favorites: favs,
		Store:     store,
		History:   history,
		Logger:    logger,
		Context:   ctx,
	}
	detailOpts := detail.Options{
		Fetcher: parts.Fetcher,
		Store:   store,
		Logger:  logger,
		Context: ctx,
	}
	if parts.DB != nil {
		searchOpts.Cache = parts.DB
		detailOpts.Cache = parts.DB
	}

	orchestrator, err := search.New(searchOpts)
	if err != nil {
		return nil, fmt.Errorf("init search: %w", err)
	}
	loader, err := detail.New(detailOpts)
	if err != nil {
		return nil, fmt.Errorf("init detail loader: %w", err)
	}

	if initial.Path == "/" {
		orchestrator.Navigate(query.Decode(initial.Query))
	}

	env := &Env{
		Config:    parts.Config,
		Prefs:     prefs.Default(),
		Logger:    logger,
		DB:        parts.DB,
		Fetcher:   parts.Fetcher,
		Favorites: favs,
		Store:     store,
		History:   history,
		Search:    orchestrator,
		Detail:    loader,
	}
	if parts.DB != nil {
		env.closers = append(env.closers, parts.DB)
	}
	return env, nil
}

// Close releases the database and the log file.
func (e *Env) Close() error {
	if e == nil {
		return nil
	}
	e.Search.Cancel()
	e.Detail.Cancel()

	var errs []error
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// Run boots the portal TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	ready := env.Favorites.LoadAsync(ctx)

	return ui.Run(ui.Options{
		Context:        ctx,
		Search:         env.Search,
		Detail:         env.Detail,
		Favorites:      env.Favorites,
		FavoritesReady: ready,
		Store:          env.Store,
		History:        env.History,
		Logger:         env.Logger,
		SearchDebounce: env.Config.SearchDebounce,
		ThemeName:      env.Prefs.Theme,
		PrefsPath:      env.PrefsPath,
	})
}

// initialLocation picks the starting address. An explicit query wins over
// the saved one. List addresses come back canonical.
func initialLocation(explicit, saved string) query.Location {
	raw := strings.TrimSpace(explicit)
	if raw == "" {
		raw = strings.TrimSpace(saved)
	}

	loc := query.Location{Path: "/", Query: raw}
	if strings.HasPrefix(raw, "/") {
		loc = query.ParseLocation(raw)
	}
	if loc.Path == "/" {
		return query.ListLocation(query.Decode(loc.Query))
	}
	return loc
}
