package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/league-auction/external/anubis"
	"github.com/riskibarqy/league-auction/external/archive"
	"github.com/riskibarqy/league-auction/internal/config"
	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/preference"
	"github.com/riskibarqy/league-auction/internal/domain/registration"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	"github.com/riskibarqy/league-auction/internal/infrastructure/metrics"
	"github.com/riskibarqy/league-auction/internal/infrastructure/realtime"
	"github.com/riskibarqy/league-auction/internal/infrastructure/receipt"
	cacherepo "github.com/riskibarqy/league-auction/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/league-auction/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-auction/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/league-auction/internal/infrastructure/storage"
	"github.com/riskibarqy/league-auction/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/league-auction/internal/platform/cache"
	idgen "github.com/riskibarqy/league-auction/internal/platform/id"
	"github.com/riskibarqy/league-auction/internal/platform/lock"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
	"github.com/riskibarqy/league-auction/internal/platform/resilience"
	"github.com/riskibarqy/league-auction/internal/usecase"
)

// Server is the assembled HTTP API plus the resources it owns.
type Server struct {
	HTTP    *http.Server
	closers []func(context.Context) error
}

// Close releases every resource opened by NewServer, newest first.
func (s *Server) Close(ctx context.Context) error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

type repositories struct {
	tournaments   tournament.Repository
	teams         team.Repository
	players       player.Repository
	ledger        auction.LedgerRepository
	queue         auction.QueueRepository
	display       auction.DisplayConfigRepository
	preferences   preference.Repository
	registrations registration.Repository
}

func NewServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	srv := &Server{}
	fail := func(err error) (*Server, error) {
		_ = srv.Close(context.Background())
		return nil, err
	}

	repos, err := srv.buildRepositories(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.tournaments = cacherepo.NewTournamentRepository(repos.tournaments, store)
		repos.display = cacherepo.NewDisplayConfigRepository(repos.display, store)
		repos.preferences = cacherepo.NewPreferenceRepository(repos.preferences, store)
	}

	locker, err := srv.buildLocker(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}

	images, err := buildImageStore(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}

	var (
		auctionMetrics usecase.AuctionMetrics = usecase.NewNoopAuctionMetrics()
		routerCfg                             = httpapi.RouterConfig{
			SwaggerEnabled:     cfg.SwaggerEnabled,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		}
	)
	if cfg.MetricsEnabled {
		registry := metrics.NewRegistry()
		auctionMetrics = registry
		routerCfg.MetricsHandler = registry.Handler()
		routerCfg.Observer = registry
	}

	hub := realtime.NewHub(realtime.HubConfig{
		SendBuffer:     cfg.ConsoleSendBuffer,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Encode:         httpapi.EncodeConsoleSnapshot,
		Logger:         logger.Named("console-feed"),
	})

	var references usecase.ReferenceLookup
	if cfg.ArchiveEnabled {
		references = archive.NewClient(archive.ClientConfig{
			BaseURL: cfg.ArchiveBaseURL,
			APIKey:  cfg.ArchiveAPIKey,
			Timeout: cfg.ArchiveTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ArchiveCircuitEnabled,
				FailureThreshold: cfg.ArchiveCircuitFailureCount,
				OpenTimeout:      cfg.ArchiveCircuitOpenTimeout,
				HalfOpenMaxReq:   1,
			},
			Logger: logger.Named("archive"),
		})
	}

	tournamentSvc := usecase.NewTournamentService(repos.tournaments)
	teamSvc := usecase.NewTeamService(repos.tournaments, repos.teams, repos.players, repos.preferences, logger)
	preferenceSvc := usecase.NewPreferenceService(repos.teams, repos.players, repos.preferences, logger)
	auctionSvc := usecase.NewAuctionService(
		repos.tournaments,
		repos.teams,
		repos.players,
		repos.ledger,
		repos.display,
		locker,
		idgen.NewUUIDGenerator("alloc_"),
		auctionMetrics,
		logger,
	)
	queueSvc := usecase.NewQueueService(
		repos.tournaments,
		repos.players,
		repos.queue,
		locker,
		idgen.NewUUIDGenerator("queue_"),
		auctionMetrics,
		usecase.QueueServiceConfig{BulkAddWorkers: cfg.BulkAddWorkers},
		logger,
	)
	consoleSvc := usecase.NewAuctionConsoleService(repos.tournaments, repos.teams, auctionSvc, queueSvc, hub, logger)
	registrationSvc := usecase.NewRegistrationService(
		repos.tournaments,
		repos.registrations,
		idgen.NewUUIDGenerator("reg_"),
		images,
		receipt.NewPDFRenderer(cfg.ReceiptTitle, receiptLocation(cfg.ReceiptTimezone, logger)),
		references,
		usecase.RegistrationServiceConfig{
			Payees:         cfg.RegistrationPayees,
			SubmitTimeout:  cfg.RegistrationSubmitTimeout,
			MaxImageBytes:  cfg.RegistrationMaxImageBytes,
			ImageKeyPrefix: "registrations",
		},
		logger,
	)

	verifier := anubis.NewClient(anubis.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.AnubisTimeout},
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		CacheTTL:       cfg.AnubisCacheTTL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		Logger: logger.Named("anubis"),
	})

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		Tournaments:  tournamentSvc,
		Teams:        teamSvc,
		Preferences:  preferenceSvc,
		Auctions:     auctionSvc,
		Queues:       queueSvc,
		Console:      consoleSvc,
		Registration: registrationSvc,
		Feed:         hub,
		Logger:       logger,
	})

	srv.HTTP = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, verifier, logger, routerCfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return srv, nil
}

func (s *Server) buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL is empty, using in-memory repositories")
		players := memory.NewPlayerRepository(memory.SeedPlayers())
		teams := memory.NewTeamRepository(memory.SeedTeams())
		return repositories{
			tournaments:   memory.NewTournamentRepository(memory.SeedTournaments()),
			teams:         teams,
			players:       players,
			ledger:        memory.NewLedgerRepository(players, teams),
			queue:         memory.NewQueueRepository(),
			display:       memory.NewDisplayConfigRepository(),
			preferences:   memory.NewPreferenceRepository(),
			registrations: memory.NewRegistrationRepository(nil),
		}, nil
	}

	if cfg.DBAutoMigrate {
		if err := runMigrations(cfg, logger); err != nil {
			return repositories{}, err
		}
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	s.closers = append(s.closers, func(context.Context) error { return db.Close() })

	if cfg.DBSeedEnabled {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			return repositories{}, fmt.Errorf("seed database: %w", err)
		}
		logger.Info("database seed applied")
	}

	return repositories{
		tournaments:   postgres.NewTournamentRepository(db),
		teams:         postgres.NewTeamRepository(db),
		players:       postgres.NewPlayerRepository(db),
		ledger:        postgres.NewLedgerRepository(db),
		queue:         postgres.NewQueueRepository(db),
		display:       postgres.NewDisplayConfigRepository(db),
		preferences:   postgres.NewPreferenceRepository(db),
		registrations: postgres.NewRegistrationRepository(db),
	}, nil
}

func (s *Server) buildLocker(ctx context.Context, cfg config.Config, logger *logging.Logger) (lock.Locker, error) {
	if cfg.RedisURL == "" {
		return lock.NewMemoryLocker(cfg.LockWait), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("using redis track locks", "addr", opts.Addr)

	return lock.NewRedisLocker(client, lock.RedisLockerConfig{
		Prefix: "league-auction:lock",
		TTL:    cfg.LockTTL,
		Wait:   cfg.LockWait,
	}), nil
}

func buildImageStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.ImageStore, error) {
	if !cfg.S3Enabled {
		return storage.NewMemoryStore(cfg.S3PublicBaseURL), nil
	}
	store, err := storage.NewS3Store(ctx, storage.S3Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		PublicBaseURL:   cfg.S3PublicBaseURL,
		UsePathStyle:    cfg.S3UsePathStyle,
		Logger:          logger.Named("s3"),
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 store: %w", err)
	}
	return store, nil
}

func receiptLocation(name string, logger *logging.Logger) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("unknown receipt timezone, using UTC", "timezone", name, "error", err)
		return time.UTC
	}
	return loc
}
