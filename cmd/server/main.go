package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/auth"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/config"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/ledger"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/payments"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/server"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/service"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/storage/sqlite"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	ledger.DriftTolerance = cfg.DriftTolerance

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	if cfg.GatewayBaseURL == "" {
		slog.Warn("Payment gateway not configured, settlement redirects will fail")
	}
	gateway := payments.NewClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret)

	authService := service.NewAuthService(authenticator, jwtManager, store, slog.Default())
	expenseService := service.NewExpenseService(store, slog.Default())
	settlementService := service.NewSettlementService(store, gateway, slog.Default())

	handler := server.New(authService, expenseService, settlementService, jwtManager).Handler()

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		// h2c allows HTTP/2 clients without TLS termination in front.
		Handler:        h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}
