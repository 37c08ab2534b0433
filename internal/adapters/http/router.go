// Package http wires the REST surface together: handlers, middleware
// and the server lifecycle.
//
// The router is the composition point. Handlers receive only the use
// cases they serve; middleware is attached to the groups it guards.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Haleralex/ledgerhub/internal/adapters/http/common"
	"github.com/Haleralex/ledgerhub/internal/adapters/http/handlers"
	"github.com/Haleralex/ledgerhub/internal/adapters/http/middleware"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	domainerrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// ============================================
// Router Configuration
// ============================================

// RouterConfig configures the middleware chain.
type RouterConfig struct {
	Logger *slog.Logger
	// Pool backs the health probes.
	Pool *pgxpool.Pool
	// Cache is the optional Redis dependency for the readiness probe.
	Cache handlers.Pinger
	// Businesses resolves tenant claims; BusinessCache fronts it.
	Businesses    ports.BusinessRepository
	BusinessCache ports.BusinessCache

	Version     string
	BuildTime   string
	Environment string

	AllowedOrigins []string

	JWTSecret string
	JWTIssuer string
	// EnableMockAuth swaps token verification for the X-Business /
	// X-Issuer / X-User-ID headers. Development only.
	EnableMockAuth bool

	RateLimitEnabled   bool
	RequestsPerMinute  int
	FinancialOpsPerMin int

	TracingEnabled bool
	PageMaxLimit   int
}

// DefaultRouterConfig returns a development configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:         slog.Default(),
		Version:        "dev",
		BuildTime:      "unknown",
		Environment:    "development",
		AllowedOrigins: []string{"*"},
		EnableMockAuth: true,
		PageMaxLimit:   100,
	}
}

// ============================================
// Use Case Providers
// ============================================

// WalletUseCases groups the wallet use cases.
type WalletUseCases struct {
	Create handlers.CreateWalletUseCase
	Get    handlers.GetWalletUseCase
	List   handlers.ListWalletsUseCase
	Delete handlers.DeleteWalletUseCase
}

// HoldUseCases groups the hold use cases.
type HoldUseCases struct {
	Create handlers.CreateHoldUseCase
	Get    handlers.GetHoldUseCase
	List   handlers.ListHoldsUseCase
	Update handlers.UpdateHoldUseCase
}

// TransactionUseCases groups the ledger use cases.
type TransactionUseCases struct {
	List    handlers.ListTransactionsUseCase
	Get     handlers.GetTransactionUseCase
	AddNote handlers.AddNoteUseCase
}

// ProposalUseCases groups the proposal use cases.
type ProposalUseCases struct {
	Create handlers.CreateProposalUseCase
	Get    handlers.GetProposalUseCase
	List   handlers.ListProposalsUseCase
	Update handlers.UpdateProposalUseCase
	Start  handlers.StartProposalUseCase
}

// ============================================
// Router Builder
// ============================================

// RouterBuilder assembles the gin engine step by step.
type RouterBuilder struct {
	config       *RouterConfig
	wallets      *WalletUseCases
	holds        *HoldUseCases
	transactions *TransactionUseCases
	proposals    *ProposalUseCases
}

// NewRouterBuilder creates a builder.
func NewRouterBuilder(config *RouterConfig) *RouterBuilder {
	if config == nil {
		config = DefaultRouterConfig()
	}
	return &RouterBuilder{config: config}
}

// WithWalletUseCases adds the wallet use cases.
func (b *RouterBuilder) WithWalletUseCases(useCases *WalletUseCases) *RouterBuilder {
	b.wallets = useCases
	return b
}

// WithHoldUseCases adds the hold use cases.
func (b *RouterBuilder) WithHoldUseCases(useCases *HoldUseCases) *RouterBuilder {
	b.holds = useCases
	return b
}

// WithTransactionUseCases adds the ledger use cases.
func (b *RouterBuilder) WithTransactionUseCases(useCases *TransactionUseCases) *RouterBuilder {
	b.transactions = useCases
	return b
}

// WithProposalUseCases adds the proposal use cases.
func (b *RouterBuilder) WithProposalUseCases(useCases *ProposalUseCases) *RouterBuilder {
	b.proposals = useCases
	return b
}

// Build returns the configured gin engine.
func (b *RouterBuilder) Build() *gin.Engine {
	if b.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// ============================================
	// Global Middleware
	// ============================================

	// Recovery first, so panics in later middleware are caught too.
	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           b.config.Logger,
		EnableStackTrace: b.config.Environment != "production",
	}))

	router.Use(middleware.RequestID())

	if b.config.Environment == "production" {
		router.Use(middleware.CORS(middleware.ProductionCORSConfig(b.config.AllowedOrigins)))
	} else {
		router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	}

	if b.config.TracingEnabled {
		router.Use(otelgin.Middleware("ledgerhub"))
	}

	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:    b.config.Logger,
		SkipPaths: []string{"/health", "/health/detailed", "/live", "/ready", "/metrics"},
	}))

	if b.config.RateLimitEnabled {
		limitConfig := middleware.DefaultRateLimitConfig()
		if b.config.RequestsPerMinute > 0 {
			limitConfig.Limit = b.config.RequestsPerMinute
		}
		router.Use(middleware.RateLimit(limitConfig))
	}

	router.Use(middleware.Metrics())

	// ============================================
	// Unauthenticated Surface
	// ============================================

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthHandler := handlers.NewHealthHandler(
		b.config.Pool,
		b.config.Cache,
		b.config.Version,
		b.config.BuildTime,
	)
	healthHandler.RegisterRoutes(router)

	// ============================================
	// API v1 Routes
	// ============================================

	v1 := router.Group("/api/v1")
	if b.config.EnableMockAuth {
		v1.Use(middleware.MockAuth(b.config.Businesses))
	} else {
		v1.Use(middleware.Auth(&middleware.AuthConfig{
			Secret:     b.config.JWTSecret,
			Issuer:     b.config.JWTIssuer,
			Businesses: b.config.Businesses,
			Cache:      b.config.BusinessCache,
		}))
	}

	// Money movement gets a stricter per-caller budget.
	financial := v1.Group("")
	if b.config.RateLimitEnabled {
		financial.Use(middleware.FinancialOpsRateLimit(b.config.FinancialOpsPerMin))
	}

	if b.wallets != nil {
		walletHandler := handlers.NewWalletHandler(
			b.wallets.Create, b.wallets.Get, b.wallets.List, b.wallets.Delete,
			b.config.PageMaxLimit,
		)
		wallets := v1.Group("/wallets")
		{
			wallets.POST("", walletHandler.CreateWallet)
			wallets.GET("", walletHandler.ListWallets)
			wallets.GET("/:uid", walletHandler.GetWallet)
			wallets.DELETE("/:uid", walletHandler.DeleteWallet)
		}
	}

	if b.holds != nil {
		holdHandler := handlers.NewHoldHandler(
			b.holds.Create, b.holds.Get, b.holds.List, b.holds.Update,
			b.config.PageMaxLimit,
		)
		v1.GET("/wallets/:uid/holds", holdHandler.ListWalletHolds)
		financial.POST("/wallets/:uid/holds/:currency", holdHandler.CreateWalletHold)

		holds := v1.Group("/holds")
		{
			holds.GET("", holdHandler.ListHolds)
			holds.GET("/:uid", holdHandler.GetHold)
			holds.PATCH("/:uid", holdHandler.UpdateHold)
		}
		financial.POST("/holds", holdHandler.CreateHold)
	}

	if b.transactions != nil {
		transactionHandler := handlers.NewTransactionHandler(
			b.transactions.List, b.transactions.Get, b.transactions.AddNote,
			b.config.PageMaxLimit,
		)
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.ListTransactions)
			transactions.GET("/:uid", transactionHandler.GetTransaction)
			transactions.POST("/:uid/note", transactionHandler.AddNote)
		}
	}

	if b.proposals != nil {
		proposalHandler := handlers.NewProposalHandler(
			b.proposals.Create, b.proposals.Get, b.proposals.List,
			b.proposals.Update, b.proposals.Start,
			b.config.PageMaxLimit,
		)
		proposals := v1.Group("/proposals")
		{
			proposals.GET("", proposalHandler.ListProposals)
			proposals.GET("/:uid", proposalHandler.GetProposal)
		}
		financial.POST("/proposals", proposalHandler.CreateProposal)
		financial.PATCH("/proposals/:uid", proposalHandler.UpdateProposal)
		financial.POST("/proposals/:uid/start", proposalHandler.StartProposal)
	}

	// ============================================
	// 404 Handler
	// ============================================

	router.NoRoute(func(c *gin.Context) {
		common.RespondErrorDetails(c, http.StatusNotFound, domainerrors.CodeNotFound,
			"endpoint not found", map[string]any{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			})
	})

	return router
}

// NewRouter builds a router in one call for the simple cases.
func NewRouter(config *RouterConfig) *gin.Engine {
	return NewRouterBuilder(config).Build()
}
