package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"artisanhub/backend/internal/api"
	"artisanhub/backend/internal/auth"
	"artisanhub/backend/internal/config"
	"artisanhub/backend/internal/logging"
	"artisanhub/backend/internal/marketplace"
	"artisanhub/backend/internal/mcp"
	"artisanhub/backend/internal/repository"
	"artisanhub/backend/internal/services"
	"artisanhub/backend/internal/submission"
	"artisanhub/backend/internal/tls"
	"artisanhub/backend/internal/workflow"
)

func main() {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}

	root := &cobra.Command{
		Use:          "artisanhub",
		Short:        "Backend for the artisan marketplace web client",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./config.yaml or ./config/config.yaml)")
	root.AddCommand(serve)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.NewLogger().Error("Failed to load configuration", "error", err)
		return err
	}

	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.Info("Configuration loaded",
		"environment", cfg.Environment,
		"db_driver", cfg.DB.Driver,
		"marketplace", cfg.Marketplace.BaseURL,
		"oidc_enabled", cfg.Auth.ClientID != "",
		"dev_bypass", cfg.IsDev() && cfg.DevModeBypass,
	)

	if cfg.DevModeBypass && !cfg.IsDev() {
		logger.Warn("dev_mode_bypass is ignored outside the DEV environment")
	}

	// Initialize repository layer
	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return err
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("Failed to create schema", "error", err)
		return err
	}
	logger.Info("Database connected", "driver", cfg.DB.Driver)

	// Initialize service layer
	client := marketplace.NewClient(cfg.Marketplace.BaseURL,
		marketplace.WithHTTPClient(&http.Client{Timeout: cfg.Marketplace.Timeout}),
		marketplace.WithLogger(logger.With("component", "marketplace")),
	)
	registry := workflow.NewRegistry()
	workflowService := services.NewWorkflowService(
		registry,
		submission.NewBuilder(cfg.Workflow.ConsultationBudget),
		client,
		repo,
		logger.With("component", "workflow"),
		services.WithMaxAttachmentBytes(cfg.Workflow.MaxAttachmentBytes),
	)
	listingService := services.NewListingService(client, cfg.Listing.PageSize)

	logger.Info("Service layer initialized")

	// Initialize authentication
	authz, err := auth.New(ctx, cfg, repo, client, workflowService, logger.With("component", "auth"))
	if err != nil {
		logger.Error("failed to initialize auth", "error", err)
		return err
	}

	e := newEcho(cfg, logger, authz, workflowService, listingService, client, repo)

	go sweepWorkflows(ctx, workflowService, cfg.Workflow.SessionMaxAge)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", addr, "tls", cfg.TLS.Enable)
		if !cfg.TLS.Enable {
			serverErrors <- server.ListenAndServe()
			return
		}
		generated, err := tls.EnsureSelfSigned(afero.NewOsFs(), cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.Hostnames)
		if err != nil {
			serverErrors <- fmt.Errorf("tls setup: %w", err)
			return
		}
		if generated {
			logger.Warn("Generated self-signed certificate", "cert", cfg.TLS.CertFile, "hosts", cfg.TLS.Hostnames)
		}
		serverErrors <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}

		logger.Info("Server stopped gracefully")
		return nil
	}
}

func newEcho(cfg *config.Config, logger *logging.Logger, authz *auth.Auth, workflows *services.WorkflowService,
	listings *services.ListingService, client *marketplace.Client, repo repository.Repository) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	// Middleware
	e.Use(otelecho.Middleware("artisanhub"))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				args = append(args, "error", v.Error)
			}
			logger.Debug("request", args...)
			return nil
		},
	}))
	// attachments are multipart; leave room for every slot plus form overhead
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", cfg.Workflow.MaxAttachmentBytes*int64(workflow.PostJobAttachmentSlots)+1<<20)))

	// Register auth handlers
	e.POST("/auth/login", echo.WrapHandler(http.HandlerFunc(authz.PasswordLoginHandler)))
	e.POST("/auth/register", echo.WrapHandler(http.HandlerFunc(authz.RegisterHandler)))
	e.GET("/auth/oidc/login", echo.WrapHandler(http.HandlerFunc(authz.LoginHandler)))
	e.GET("/auth/callback", echo.WrapHandler(http.HandlerFunc(authz.CallbackHandler)))
	e.POST("/auth/logout", echo.WrapHandler(http.HandlerFunc(authz.LogoutHandler)))

	handler := api.NewHandler(workflows, listings, client, authz, logger,
		api.WithPinger(repo),
		api.WithUploadLimit(cfg.Workflow.MaxAttachmentBytes),
	)
	api.RegisterPublic(e, handler)

	// Mount REST API handlers
	apiGroup := e.Group("/api/v1")
	apiGroup.Use(echo.WrapMiddleware(authz.RequireAuth))
	api.RegisterHandlers(apiGroup, handler)

	logger.Info("REST API handlers mounted")

	// Mount MCP protocol handlers
	if cfg.Marketplace.ServiceToken != "" {
		mcpServer := mcp.NewServer(listings, cfg.Marketplace.ServiceToken)
		mcpHandlers := http.NewServeMux()
		mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
		e.Any("/mcp", echo.WrapHandler(mcpHandlers))
		e.Any("/mcp/*", echo.WrapHandler(mcpHandlers))
		logger.Info("MCP protocol handlers mounted")
	}

	// expose OpenAPI spec and Swagger UI
	e.GET("/openapi.yaml", echo.WrapHandler(api.SpecHandler()))
	e.GET("/docs", echo.WrapHandler(api.SwaggerHandler()))

	return e
}

func openRepository(ctx context.Context, cfg *config.Config, logger *logging.Logger) (repository.Repository, error) {
	if cfg.DB.Driver == "sqlite" {
		logger.Debug("Opening sqlite database", "path", cfg.DB.Path)
		return repository.OpenSQLite(cfg.DB.Path)
	}

	pool, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return repository.NewPostgresStore(pool), nil
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	logger.Debug("Initializing database connection")

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// sweepWorkflows closes abandoned workflows until ctx is done.
func sweepWorkflows(ctx context.Context, workflows *services.WorkflowService, maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}
	interval := maxAge / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			workflows.Sweep(maxAge)
		}
	}
}
