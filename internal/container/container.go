// Package container is the composition root: it builds every dependency
// in order (logger, database, cache, messaging, use cases, HTTP server)
// and tears them down in reverse.
package container

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Haleralex/ledgerhub/internal/adapters/http"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/application/usecases/hold"
	"github.com/Haleralex/ledgerhub/internal/application/usecases/proposal"
	"github.com/Haleralex/ledgerhub/internal/application/usecases/transaction"
	"github.com/Haleralex/ledgerhub/internal/application/usecases/wallet"
	"github.com/Haleralex/ledgerhub/internal/config"
	"github.com/Haleralex/ledgerhub/internal/infrastructure/cache/redis"
	"github.com/Haleralex/ledgerhub/internal/infrastructure/messaging/nats"
	"github.com/Haleralex/ledgerhub/internal/infrastructure/persistence/postgres"
	"github.com/Haleralex/ledgerhub/internal/pkg/logger"
)

// ============================================
// Container
// ============================================

// Container owns the application dependency graph.
type Container struct {
	config *config.Config
	logger *slog.Logger

	// Infrastructure
	pool          *pgxpool.Pool
	businessCache *redis.BusinessCache
	natsPublisher *nats.Publisher

	// Repositories
	businessRepo ports.BusinessRepository
	walletRepo   ports.WalletRepository
	ledgerRepo   ports.LedgerRepository
	holdRepo     ports.HoldRepository
	proposalRepo ports.ProposalRepository
	noteRepo     ports.NoteRepository

	uow            ports.UnitOfWork
	eventPublisher ports.EventPublisher

	// Shared read model and proposal processor
	view      *wallet.View
	processor *proposal.Processor

	// Use cases
	createWalletUC *wallet.CreateWalletUseCase
	getWalletUC    *wallet.GetWalletUseCase
	listWalletsUC  *wallet.ListWalletsUseCase
	deleteWalletUC *wallet.DeleteWalletUseCase

	createHoldUC *hold.CreateHoldUseCase
	getHoldUC    *hold.GetHoldUseCase
	listHoldsUC  *hold.ListHoldsUseCase
	updateHoldUC *hold.UpdateHoldUseCase

	listTransactionsUC *transaction.ListTransactionsUseCase
	getTransactionUC   *transaction.GetTransactionUseCase
	addNoteUC          *transaction.AddNoteUseCase

	createProposalUC *proposal.CreateProposalUseCase
	getProposalUC    *proposal.GetProposalUseCase
	listProposalsUC  *proposal.ListProposalsUseCase
	updateProposalUC *proposal.UpdateProposalUseCase
	startProposalUC  *proposal.StartProposalUseCase

	// HTTP
	httpServer *http.Server
}

// New creates an uninitialized container.
func New(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// ============================================
// Initialization
// ============================================

// Initialize builds every dependency. Failures abort the boot; optional
// backends (NATS, Redis) degrade to no-op or pass-through instead.
func (c *Container) Initialize(ctx context.Context) error {
	c.initLogger()
	c.logger.Info("initializing container",
		slog.String("environment", c.config.App.Environment),
	)

	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("database connected")

	c.initCache(ctx)
	c.initMessaging()
	c.initRepositories()
	c.initUseCases()
	c.initHTTPServer()

	c.logger.Info("container initialization complete")
	return nil
}

func (c *Container) initLogger() {
	var output io.Writer = os.Stdout
	if c.config.Log.Output == "stderr" {
		output = os.Stderr
	}
	cfg := &logger.Config{
		Level:     c.config.Log.Level,
		Format:    c.config.Log.Format,
		Output:    output,
		AddSource: c.config.Log.AddSource,
	}
	logger.Setup(cfg)
	c.logger = slog.Default()
}

func (c *Container) initDatabase(ctx context.Context) error {
	cfg := postgres.DefaultConfig()
	cfg.Host = c.config.Database.Host
	cfg.Port = c.config.Database.Port
	cfg.Database = c.config.Database.Database
	cfg.User = c.config.Database.User
	cfg.Password = c.config.Database.Password
	cfg.SSLMode = c.config.Database.SSLMode
	if c.config.Database.MaxConnections > 0 {
		cfg.MaxConns = c.config.Database.MaxConnections
	}
	if c.config.Database.MinConnections > 0 {
		cfg.MinConns = c.config.Database.MinConnections
	}
	if c.config.Database.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = c.config.Database.MaxConnLifetime
	}
	if c.config.Database.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = c.config.Database.MaxConnIdleTime
	}

	pool, err := postgres.NewConnectionPool(ctx, cfg)
	if err != nil {
		return err
	}
	c.pool = pool
	return nil
}

// initCache connects the tenant cache. Redis being down is not fatal:
// auth falls back to the repository on every request.
func (c *Container) initCache(ctx context.Context) {
	if !c.config.Redis.Enabled {
		return
	}

	cache, err := redis.NewBusinessCache(ctx, redis.Config{
		Addr:     c.config.Redis.Addr,
		Password: c.config.Redis.Password,
		DB:       c.config.Redis.DB,
		TTL:      c.config.Redis.TTL,
	})
	if err != nil {
		c.logger.Warn("redis unavailable, tenant cache disabled",
			slog.String("error", err.Error()))
		return
	}

	c.businessCache = cache
	c.logger.Info("redis connected", slog.String("addr", c.config.Redis.Addr))
}

// initMessaging connects the event publisher. Without NATS (or when it
// is down) events are dropped via the no-op publisher.
func (c *Container) initMessaging() {
	if !c.config.NATS.Enabled {
		c.eventPublisher = nats.NoopPublisher{}
		return
	}

	publisher, err := nats.NewPublisher(nats.Config{
		URL:           c.config.NATS.URL,
		SubjectPrefix: c.config.NATS.SubjectPrefix,
		Name:          c.config.NATS.ClientName,
	}, c.logger)
	if err != nil {
		c.logger.Warn("nats unavailable, events will be dropped",
			slog.String("error", err.Error()))
		c.eventPublisher = nats.NoopPublisher{}
		return
	}

	c.natsPublisher = publisher
	c.eventPublisher = publisher
	c.logger.Info("nats connected", slog.String("url", c.config.NATS.URL))
}

func (c *Container) initRepositories() {
	c.businessRepo = postgres.NewBusinessRepository(c.pool)
	c.walletRepo = postgres.NewWalletRepository(c.pool)
	c.ledgerRepo = postgres.NewLedgerRepository(c.pool)
	c.holdRepo = postgres.NewHoldRepository(c.pool)
	c.proposalRepo = postgres.NewProposalRepository(c.pool)
	c.noteRepo = postgres.NewNoteRepository(c.pool)
	c.uow = postgres.NewUnitOfWork(c.pool)
}

func (c *Container) initUseCases() {
	c.view = wallet.NewView(c.ledgerRepo, c.holdRepo)
	c.processor = proposal.NewProcessor(
		c.proposalRepo,
		c.walletRepo,
		c.ledgerRepo,
		c.noteRepo,
		c.uow,
		c.view,
		c.eventPublisher,
	)

	c.createWalletUC = wallet.NewCreateWalletUseCase(c.walletRepo, c.eventPublisher)
	c.getWalletUC = wallet.NewGetWalletUseCase(c.walletRepo, c.view)
	c.listWalletsUC = wallet.NewListWalletsUseCase(c.walletRepo, c.view, c.eventPublisher)
	c.deleteWalletUC = wallet.NewDeleteWalletUseCase(c.walletRepo, c.view, c.eventPublisher)

	c.createHoldUC = hold.NewCreateHoldUseCase(c.holdRepo, c.walletRepo, c.eventPublisher)
	c.getHoldUC = hold.NewGetHoldUseCase(c.holdRepo)
	c.listHoldsUC = hold.NewListHoldsUseCase(c.holdRepo)
	c.updateHoldUC = hold.NewUpdateHoldUseCase(c.holdRepo, c.eventPublisher)

	c.listTransactionsUC = transaction.NewListTransactionsUseCase(c.ledgerRepo)
	c.getTransactionUC = transaction.NewGetTransactionUseCase(c.ledgerRepo, c.noteRepo)
	c.addNoteUC = transaction.NewAddNoteUseCase(c.ledgerRepo, c.noteRepo, c.eventPublisher)

	c.createProposalUC = proposal.NewCreateProposalUseCase(c.proposalRepo, c.processor, c.eventPublisher)
	c.getProposalUC = proposal.NewGetProposalUseCase(c.proposalRepo)
	c.listProposalsUC = proposal.NewListProposalsUseCase(c.proposalRepo)
	c.updateProposalUC = proposal.NewUpdateProposalUseCase(c.proposalRepo, c.processor)
	c.startProposalUC = proposal.NewStartProposalUseCase(c.proposalRepo, c.processor)
}

func (c *Container) initHTTPServer() {
	routerConfig := &http.RouterConfig{
		Logger:        c.logger,
		Pool:          c.pool,
		Businesses:    c.businessRepo,
		BusinessCache: nil,

		Version:     c.config.App.Version,
		BuildTime:   c.config.App.BuildTime,
		Environment: c.config.App.Environment,

		AllowedOrigins: c.config.CORS.AllowedOrigins,

		JWTSecret:      c.config.Auth.JWTSecret,
		JWTIssuer:      c.config.Auth.JWTIssuer,
		EnableMockAuth: c.config.Auth.EnableMockAuth,

		RateLimitEnabled:   c.config.RateLimit.Enabled,
		RequestsPerMinute:  c.config.RateLimit.RequestsPerMinute,
		FinancialOpsPerMin: c.config.RateLimit.FinancialOpsPerMin,

		TracingEnabled: c.config.Tracing.Enabled,
		PageMaxLimit:   c.config.Accounting.PageMaxLimit,
	}
	if c.businessCache != nil {
		routerConfig.Cache = c.businessCache
		routerConfig.BusinessCache = c.businessCache
	}

	router := http.NewRouterBuilder(routerConfig).
		WithWalletUseCases(&http.WalletUseCases{
			Create: c.createWalletUC,
			Get:    c.getWalletUC,
			List:   c.listWalletsUC,
			Delete: c.deleteWalletUC,
		}).
		WithHoldUseCases(&http.HoldUseCases{
			Create: c.createHoldUC,
			Get:    c.getHoldUC,
			List:   c.listHoldsUC,
			Update: c.updateHoldUC,
		}).
		WithTransactionUseCases(&http.TransactionUseCases{
			List:    c.listTransactionsUC,
			Get:     c.getTransactionUC,
			AddNote: c.addNoteUC,
		}).
		WithProposalUseCases(&http.ProposalUseCases{
			Create: c.createProposalUC,
			Get:    c.getProposalUC,
			List:   c.listProposalsUC,
			Update: c.updateProposalUC,
			Start:  c.startProposalUC,
		}).
		Build()

	serverConfig := &http.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            fmt.Sprintf("%d", c.config.Server.Port),
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		Logger:          c.logger,
	}

	c.httpServer = http.NewServer(serverConfig, router)
}

// ============================================
// Getters
// ============================================

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Pool returns the database pool.
func (c *Container) Pool() *pgxpool.Pool {
	return c.pool
}

// HTTPServer returns the HTTP server.
func (c *Container) HTTPServer() *http.Server {
	return c.httpServer
}

// BusinessRepository returns the tenant directory.
func (c *Container) BusinessRepository() ports.BusinessRepository {
	return c.businessRepo
}

// WalletRepository returns the wallet repository.
func (c *Container) WalletRepository() ports.WalletRepository {
	return c.walletRepo
}

// LedgerRepository returns the ledger repository.
func (c *Container) LedgerRepository() ports.LedgerRepository {
	return c.ledgerRepo
}

// UnitOfWork returns the transactional boundary.
func (c *Container) UnitOfWork() ports.UnitOfWork {
	return c.uow
}

// Processor returns the proposal processor.
func (c *Container) Processor() *proposal.Processor {
	return c.processor
}

// ============================================
// Run and Shutdown
// ============================================

// Run serves HTTP until a shutdown signal arrives.
func (c *Container) Run() error {
	c.logger.Info("starting ledgerhub API server",
		slog.String("version", c.config.App.Version),
		slog.String("environment", c.config.App.Environment),
		slog.String("address", c.config.Server.Address()),
	)

	return c.httpServer.Run()
}

// Shutdown tears the container down in reverse build order.
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("shutting down container")

	var errs []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	if c.natsPublisher != nil {
		c.natsPublisher.Close()
		c.logger.Info("nats connection closed")
	}

	if c.businessCache != nil {
		if err := c.businessCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		} else {
			c.logger.Info("redis connection closed")
		}
	}

	if c.pool != nil {
		done := make(chan struct{})
		go func() {
			c.pool.Close()
			close(done)
		}()

		select {
		case <-done:
			c.logger.Info("database connection closed")
		case <-ctx.Done():
			c.logger.Warn("database close timeout")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	c.logger.Info("container shutdown complete")
	return nil
}

// ============================================
// Builder
// ============================================

// ContainerBuilder assembles a container with replaced components, used
// by tests to inject a prepared pool or publisher.
type ContainerBuilder struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	eventPublisher ports.EventPublisher
}

// NewBuilder creates a builder.
func NewBuilder(cfg *config.Config) *ContainerBuilder {
	return &ContainerBuilder{cfg: cfg}
}

// WithLogger sets a custom logger.
func (b *ContainerBuilder) WithLogger(l *slog.Logger) *ContainerBuilder {
	b.logger = l
	return b
}

// WithPool sets a prepared connection pool.
func (b *ContainerBuilder) WithPool(pool *pgxpool.Pool) *ContainerBuilder {
	b.pool = pool
	return b
}

// WithEventPublisher sets a custom event publisher.
func (b *ContainerBuilder) WithEventPublisher(ep ports.EventPublisher) *ContainerBuilder {
	b.eventPublisher = ep
	return b
}

// Build assembles the container.
func (b *ContainerBuilder) Build(ctx context.Context) (*Container, error) {
	c := New(b.cfg)

	if b.logger != nil {
		c.logger = b.logger
	} else {
		c.initLogger()
	}

	if b.pool != nil {
		c.pool = b.pool
	} else if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}

	c.initCache(ctx)

	if b.eventPublisher != nil {
		c.eventPublisher = b.eventPublisher
	} else {
		c.initMessaging()
	}

	c.initRepositories()
	c.initUseCases()
	c.initHTTPServer()

	return c, nil
}
