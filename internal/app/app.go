package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/pick-ledger/external/fleaflicker"
	"github.com/riskibarqy/pick-ledger/internal/config"
	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	"github.com/riskibarqy/pick-ledger/internal/infrastructure/repository/csvfile"
	"github.com/riskibarqy/pick-ledger/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pick-ledger/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pick-ledger/internal/interfaces/httpapi"
	"github.com/riskibarqy/pick-ledger/internal/platform/cache"
	"github.com/riskibarqy/pick-ledger/internal/platform/logging"
	"github.com/riskibarqy/pick-ledger/internal/platform/resilience"
	"github.com/riskibarqy/pick-ledger/internal/usecase"
)

// App holds the wired ledger and everything it owns.
type App struct {
	Config config.Config
	League config.League
	Owners *owner.Directory
	Ledger *usecase.LedgerService
	Logger *logging.Logger

	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	league, err := config.LoadLeague(cfg.LeagueFile)
	if err != nil {
		return nil, fmt.Errorf("load league: %w", err)
	}
	owners, err := league.Directory()
	if err != nil {
		return nil, fmt.Errorf("build owner directory: %w", err)
	}
	valuator, err := league.Valuator()
	if err != nil {
		return nil, fmt.Errorf("build valuator: %w", err)
	}

	a := &App{
		Config: cfg,
		League: league,
		Owners: owners,
		Logger: logger,
	}

	futureRepo, err := a.futureRepository(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	clock := clockwork.NewRealClock()
	source := fleaflicker.NewClient(fleaflicker.ClientConfig{
		BaseURL:      cfg.FleaflickerBaseURL,
		LeagueID:     league.ID,
		Timeout:      cfg.FleaflickerTimeout,
		MaxRetries:   cfg.FleaflickerMaxRetries,
		RetryBackoff: cfg.FleaflickerRetryBackoff,
		Logger:       logger,
		Clock:        clock,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FleaflickerCircuitEnabled,
			FailureThreshold: cfg.FleaflickerCircuitFailures,
			OpenTimeout:      cfg.FleaflickerCircuitOpen,
			HalfOpenMaxReq:   cfg.FleaflickerCircuitHalfOpen,
		},
	})

	views := cache.NewBypassStore()
	if cfg.CacheEnabled {
		views = cache.NewStore(cfg.CacheTTL, clock)
	}

	a.Ledger = usecase.NewLedgerService(owners, valuator, source, futureRepo, views, clock,
		usecase.LedgerConfig{FetchWorkers: cfg.FetchWorkers}, logger)

	logger.Info("ledger wired",
		"league_id", league.ID,
		"owners", owners.Len(),
		"future_store", cfg.FutureStore,
		"cache_enabled", cfg.CacheEnabled,
	)
	return a, nil
}

func (a *App) futureRepository(ctx context.Context) (pick.FutureRepository, error) {
	switch a.Config.FutureStore {
	case config.StoreMemory:
		return memory.NewFuturePickRepository(nil), nil
	case config.StoreCSV:
		return csvfile.NewFuturePickRepository(a.Config.FutureCSVPath), nil
	case config.StorePostgres:
		db, err := openDB(ctx, a.Config)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return postgres.NewFuturePickRepository(db, a.League.ID), nil
	default:
		return nil, fmt.Errorf("unsupported future store %q", a.Config.FutureStore)
	}
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.Ledger, a.Owners, a.Logger)
	router := httpapi.NewRouter(handler, a.Logger, a.Config.CORSAllowedOrigins, a.Config.AdminToken)

	return &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
