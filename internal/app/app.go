package app

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/openfairway/niner-league/internal/config"
	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/round"
	"github.com/openfairway/niner-league/internal/domain/week"
	"github.com/openfairway/niner-league/internal/infrastructure/account/demo"
	"github.com/openfairway/niner-league/internal/infrastructure/account/identity"
	"github.com/openfairway/niner-league/internal/infrastructure/repository/memory"
	"github.com/openfairway/niner-league/internal/infrastructure/repository/synced"
	"github.com/openfairway/niner-league/internal/infrastructure/store"
	"github.com/openfairway/niner-league/internal/infrastructure/store/postgres"
	"github.com/openfairway/niner-league/internal/interfaces/httpapi"
	"github.com/openfairway/niner-league/internal/platform/cache"
	"github.com/openfairway/niner-league/internal/platform/logging"
	"github.com/openfairway/niner-league/internal/platform/resilience"
	"github.com/openfairway/niner-league/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App owns the HTTP server, the in-memory projection, and (when a DB_URL is
// configured) the background syncer that keeps the projection aligned with
// Postgres. Without a DB_URL the app runs entirely in memory.
type App struct {
	cfg    config.Config
	logger *logging.Logger

	server *http.Server
	syncer *synced.Syncer
	remote store.RemoteStore
	pool   *ants.Pool
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{cfg: cfg, logger: logger}

	playerLocal := memory.NewPlayerRepository(nil)
	roundLocal := memory.NewRoundRepository(nil)
	weekLocal := memory.NewWeekRepository(nil)

	var players player.Repository = playerLocal
	var rounds round.Repository = roundLocal
	var weeks week.Repository = weekLocal

	if cfg.OfflineMode() {
		playerLocal = memory.NewPlayerRepository(memory.SeedPlayers())
		players = playerLocal
		logger.Info("offline mode", "reason", "DB_URL empty, nothing will be persisted")
	} else {
		db, dsn, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		a.remote = postgres.NewStore(db, dsn, logger)

		workers, err := ants.NewPool(cfg.SyncWorkers)
		if err != nil {
			a.closeRemote()
			return nil, errors.Wrap(err, "create sync worker pool")
		}
		a.pool = workers

		players = synced.NewPlayerRepository(playerLocal, a.remote, workers, logger)
		rounds = synced.NewRoundRepository(roundLocal, a.remote, workers, logger)
		weeks = synced.NewWeekRepository(weekLocal, a.remote, workers, logger)
		a.syncer = synced.NewSyncer(a.remote, playerLocal, roundLocal, weekLocal, logger)
	}

	provider, err := buildAccountProvider(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	boards := cache.NewStore(cfg.CacheTTL)

	authSvc := usecase.NewAuthService(provider, players)
	playerSvc := usecase.NewPlayerService(players)
	roundSvc := usecase.NewRoundService(players, weeks, rounds)
	weekSvc := usecase.NewWeekService(players, weeks)
	boardSvc := usecase.NewLeaderboardService(players, weeks, rounds, boards)

	playerSvc.SetBoardInvalidator(boardSvc)
	roundSvc.SetBoardInvalidator(boardSvc)
	weekSvc.SetBoardInvalidator(boardSvc)

	hub := httpapi.NewHub(logger)
	if a.syncer != nil {
		a.syncer.SetOnApplied(func(ctx context.Context, collection store.Collection) {
			boardSvc.InvalidateBoards(ctx)
			switch collection {
			case store.CollectionPlayers:
				hub.Broadcast(httpapi.FeedEventPlayers)
			case store.CollectionRounds:
				hub.Broadcast(httpapi.FeedEventRounds)
			case store.CollectionWeeks:
				hub.Broadcast(httpapi.FeedEventWeeks)
			}
		})
	}

	handler := httpapi.NewHandler(authSvc, playerSvc, roundSvc, weekSvc, boardSvc, hub, logger)
	router := httpapi.NewRouter(handler, authSvc, logger, cfg.CORSAllowedOrigins)

	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if a.server.Addr == "" {
		a.Close()
		return nil, errors.New("http server addr cannot be empty")
	}

	return a, nil
}

// Run serves HTTP and, in DB mode, consumes remote change events until ctx is
// canceled. It returns once the HTTP server has shut down.
func (a *App) Run(ctx context.Context) error {
	if a.syncer != nil {
		// Best effort: the projection starts from whatever the remote
		// holds, but a down remote must not block startup.
		if err := a.syncer.RefreshAll(ctx); err != nil {
			a.logger.WarnContext(ctx, "initial remote refresh failed, serving local state", "error", err)
		}
	}

	supervisor := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	supervisor.Go(func(ctx context.Context) error {
		a.logger.Info("http server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})

	if a.syncer != nil {
		supervisor.Go(func(ctx context.Context) error {
			return a.syncer.Run(ctx)
		})
	}

	supervisor.Go(func(ctx context.Context) error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	if err := supervisor.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("http server stopped")
	return nil
}

// Close releases the worker pool and the remote store connection.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Release()
		a.pool = nil
	}
	a.closeRemote()
}

func (a *App) closeRemote() {
	if a.remote == nil {
		return
	}
	if err := a.remote.Close(); err != nil {
		a.logger.Warn("close remote store", "error", err)
	}
	a.remote = nil
}

func buildAccountProvider(cfg config.Config, logger *logging.Logger) (usecase.AccountProvider, error) {
	if cfg.IdPBaseURL != "" {
		var breaker *resilience.CircuitBreaker
		if cfg.IdPCircuitEnabled {
			breakerCfg := resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
				Enabled:          true,
				FailureThreshold: cfg.IdPCircuitFailureCount,
				OpenTimeout:      cfg.IdPCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.IdPCircuitHalfOpenMaxReq,
			})
			breaker = resilience.NewCircuitBreaker(
				breakerCfg.FailureThreshold,
				breakerCfg.OpenTimeout,
				breakerCfg.HalfOpenMaxReq,
			)
		}
		client := identity.NewClient(
			&http.Client{Timeout: cfg.IdPTimeout},
			cfg.IdPBaseURL,
			identity.Endpoints{
				Login:      cfg.IdPLoginPath,
				Register:   cfg.IdPRegisterPath,
				Introspect: cfg.IdPIntrospectPath,
				Logout:     cfg.IdPLogoutPath,
			},
			breaker,
			logger,
		)
		logger.Info("using external identity provider", "base_url", cfg.IdPBaseURL)
		return client, nil
	}

	provider, err := demo.NewProvider(cfg.AuthTokenSecret, cfg.AuthTokenTTL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build demo account provider")
	}
	if err := demo.SeedFounders(provider); err != nil {
		return nil, errors.Wrap(err, "seed demo accounts")
	}
	logger.Info("using built-in demo accounts")

	return provider, nil
}
