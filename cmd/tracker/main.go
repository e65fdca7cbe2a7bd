package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/sijms/go-ora/v2"

	"github.com/minsukang/kstock-tracker/internal/application"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/config"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/marketdata/koreainvest"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/news/googlenews"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/persistence/sqldb"
	httpHandler "github.com/minsukang/kstock-tracker/internal/interfaces/http"
)

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     lvl,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

// initializeDatabase opens the configured driver, verifies connectivity and
// runs migrations.
func initializeDatabase(cfg *config.Config) (*sqldb.DB, error) {
	var db *sql.DB
	var dialect sqldb.Dialect
	var err error

	switch cfg.DBDriver {
	case "postgres":
		db, err = sql.Open("pgx", cfg.DBDSN)
		dialect = &sqldb.PostgresDialect{}
	case "oracle":
		db, err = sql.Open("oracle", cfg.DBDSN)
		dialect = &sqldb.OracleDialect{}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	wrapper := sqldb.New(db, dialect)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := wrapper.Dialect.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return wrapper, nil
}

func buildServer(cfg *config.Config, handler *httpHandler.Handler, auth httpHandler.AuthService) *http.Server {
	router := gin.Default()

	origins := strings.Split(cfg.AllowedOrigins, ",")
	httpHandler.SetupRoutes(router, handler, auth, origins)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// run contains the application logic without os.Exit calls.
func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogger(cfg.LogLevel)

	db, err := initializeDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	tokens := koreainvest.NewTokenSource(cfg.KISBaseURL, cfg.KISAppKey, cfg.KISAppSecret)

	// Warm up the brokerage token once at boot. A failure is logged but does
	// not block startup; the first data request will retry.
	warmupCtx, warmupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if _, err := tokens.Refresh(warmupCtx); err != nil {
		slog.Warn("Brokerage token warm-up failed", "error", err)
	} else {
		slog.Info("Brokerage token acquired")
	}
	warmupCancel()

	provider := koreainvest.NewClient(cfg.KISBaseURL, cfg.KISAppKey, cfg.KISAppSecret, tokens)

	users := sqldb.NewUserRepository(db)
	instruments := sqldb.NewInstrumentRepository(db)
	watchlist := sqldb.NewWatchlistRepository(db)
	lots := sqldb.NewLotRepository(db)

	authService := application.NewAuthService(users, cfg.JWTSecret, cfg.TokenExpiry)
	instrumentService := application.NewInstrumentService(instruments)
	marketDataService := application.NewMarketDataService(instruments, provider)
	watchlistService := application.NewWatchlistService(watchlist, instruments)
	portfolioService := application.NewPortfolioService(lots, instruments, provider)
	newsService := application.NewNewsService(instruments, googlenews.New(cfg.NewsCacheTTL))

	handler := httpHandler.NewHandler(
		authService,
		instrumentService,
		marketDataService,
		watchlistService,
		portfolioService,
		newsService,
		tokens,
	)

	server := buildServer(cfg, handler, authService)

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "host", cfg.ServerHost, "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	slog.Info("Server exited gracefully")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
