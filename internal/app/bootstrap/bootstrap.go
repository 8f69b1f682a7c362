package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	credentialservice "tally/contexts/governance/credential-service"
	credmemory "tally/contexts/governance/credential-service/adapters/memory"
	credpostgres "tally/contexts/governance/credential-service/adapters/postgres"
	credports "tally/contexts/governance/credential-service/ports"
	votingledger "tally/contexts/governance/voting-ledger"
	leveldbadapter "tally/contexts/governance/voting-ledger/adapters/leveldb"
	"tally/contexts/governance/voting-ledger/adapters/memory"
	postgresadapter "tally/contexts/governance/voting-ledger/adapters/postgres"
	workerapp "tally/contexts/governance/voting-ledger/application/workers"
	"tally/contexts/governance/voting-ledger/ports"
	"tally/internal/platform/config"
	"tally/internal/platform/db"
	"tally/internal/platform/httpserver"
	"tally/internal/platform/kv"
	"tally/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	ledgerKV *kv.LevelDB
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	ledgerKV     *kv.LevelDB
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

// storeSet groups the persistence ports selected by STORE_DRIVER so the
// builders can wire modules without caring which backend is underneath.
type storeSet struct {
	registry     ports.RegistryRepository
	ledger       ports.LedgerRepository
	outboxWriter ports.OutboxWriter
	outboxRepo   ports.OutboxRepository
	clock        ports.Clock
	idGen        ports.IDGenerator

	tokens     credports.TokenRepository
	tokenClock credports.Clock

	postgres *db.Postgres
	ledgerKV *kv.LevelDB
}

func buildStores(cfg config.Config, logger *slog.Logger) (storeSet, error) {
	switch cfg.StoreDriver {
	case "", "memory":
		store := memory.NewStore()
		tokens := credmemory.NewStore(cfg.CredentialBaseSerial)
		return storeSet{
			registry:     store,
			ledger:       store,
			outboxWriter: store,
			outboxRepo:   store,
			clock:        store,
			idGen:        store,
			tokens:       tokens,
			tokenClock:   tokens,
		}, nil

	case "leveldb":
		kvdb, err := kv.Open(cfg.LevelDBPath)
		if err != nil {
			return storeSet{}, err
		}
		store := leveldbadapter.NewStore(kvdb)
		// Credential tokens stay in memory under the leveldb driver; only the
		// registry and ledger need durability for restarts.
		tokens := credmemory.NewStore(cfg.CredentialBaseSerial)
		return storeSet{
			registry:     store,
			ledger:       store,
			outboxWriter: store,
			outboxRepo:   store,
			clock:        postgresadapter.SystemClock{},
			idGen:        postgresadapter.UUIDGenerator{},
			tokens:       tokens,
			tokenClock:   tokens,
			ledgerKV:     kvdb,
		}, nil

	case "postgres":
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return storeSet{}, errors.New("POSTGRES_DSN is required for the postgres store driver")
		}
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return storeSet{}, err
		}
		if err := postgresadapter.Migrate(pg.DB); err != nil {
			return storeSet{}, err
		}
		if err := credpostgres.Migrate(pg.DB); err != nil {
			return storeSet{}, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		tokens := credpostgres.NewRepository(pg.DB, cfg.CredentialBaseSerial, logger)
		return storeSet{
			registry:     repo,
			ledger:       repo,
			outboxWriter: repo,
			outboxRepo:   repo,
			clock:        postgresadapter.SystemClock{},
			idGen:        postgresadapter.UUIDGenerator{},
			tokens:       tokens,
			tokenClock:   postgresadapter.SystemClock{},
			postgres:     pg,
		}, nil

	default:
		return storeSet{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if cfg.AdminID == "" {
		return nil, errors.New("ADMIN_ID is required")
	}

	stores, err := buildStores(cfg, logger)
	if err != nil {
		return nil, err
	}

	credModule := credentialservice.NewModule(credentialservice.Dependencies{
		Repo:   stores.tokens,
		Clock:  stores.tokenClock,
		Logger: logger,
	})
	ledgerModule := votingledger.NewModule(votingledger.Dependencies{
		AdminID:  cfg.AdminID,
		Registry: stores.registry,
		Ledger:   stores.ledger,
		Minter:   credModule.Service,
		Outbox:   stores.outboxWriter,
		Clock:    stores.clock,
		IDGen:    stores.idGen,
		Logger:   logger,
	})

	server := httpserver.New(ledgerModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: stores.postgres,
		ledgerKV: stores.ledgerKV,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	stores, err := buildStores(cfg, logger)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	pollInterval, err := time.ParseDuration(cfg.OutboxPollInterval)
	if err != nil || pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}

	return &WorkerApp{
		postgres: stores.postgres,
		ledgerKV: stores.ledgerKV,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    stores.outboxRepo,
			Publisher: bus,
			Clock:     stores.clock,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		pollInterval: pollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	if a.ledgerKV != nil {
		return a.ledgerKV.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	if w.ledgerKV != nil {
		return w.ledgerKV.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
