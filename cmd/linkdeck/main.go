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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	restadapter "github.com/linkdeck-app/linkdeck/internal/adapter/driven/rest"
	sqliteadapter "github.com/linkdeck-app/linkdeck/internal/adapter/driven/sqlite"
	httphandler "github.com/linkdeck-app/linkdeck/internal/adapter/driving/http"
	"github.com/linkdeck-app/linkdeck/internal/application"
	"github.com/linkdeck-app/linkdeck/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"auth_url", cfg.AuthBaseURL,
		"api_url", cfg.APIBaseURL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire local persistence.
	credentialStore := sqliteadapter.NewSessionRepo(db)
	flowStore := sqliteadapter.NewFlowRepo(db)

	// 6. Create the backend client. The token source reads the credential
	// store on every request, so login/logout take effect immediately.
	backend, err := restadapter.NewClient(cfg.AuthBaseURL, cfg.APIBaseURL,
		&restadapter.StoreTokenSource{Creds: credentialStore})
	if err != nil {
		return err
	}

	// 7. Create application services.
	guard := application.NewAccessGuard(credentialStore)
	sessionSvc := application.NewSessionService(backend, credentialStore, flowStore)
	board := application.NewBoard(backend)
	vis := application.NewVisibility(board)
	searchSvc := application.NewSearchOverlay(backend)
	adminSvc := application.NewAdminService(backend)
	profileSvc := application.NewProfileService(backend, credentialStore)

	// 8. If a session survives from a previous run, warm the board so the
	// first page render has content. Failures are non-fatal; buckets carry
	// their own error state.
	if cred, err := credentialStore.Get(ctx); err == nil && cred != nil {
		if err := board.LoadCategories(ctx); err != nil {
			slog.Warn("initial board load failed", "error", err)
		}
	}

	// 9. Create HTTP handler and register routes.
	apiHandler := httphandler.NewHandler(sessionSvc, board, vis, searchSvc, adminSvc, profileSvc, guard, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterRoutes(mux, apiHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("linkdeck started", "listen_addr", cfg.ListenAddr)

	// 10. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 11. Graceful shutdown: stop accepting requests, then drain in-flight
	// bucket refreshes.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
	board.Wait()

	slog.Info("shutdown complete")
	return nil
}
