package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/azdopanel/azdopanel/internal/adapter/driven/azdo"
	"github.com/azdopanel/azdopanel/internal/adapter/driven/sqlite"
	httphandler "github.com/azdopanel/azdopanel/internal/adapter/driving/http"
	"github.com/azdopanel/azdopanel/internal/adapter/driving/panel"
	"github.com/azdopanel/azdopanel/internal/application"
	"github.com/azdopanel/azdopanel/internal/config"
	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the panel service (REST API + websocket panel)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"request_timeout", cfg.RequestTimeout,
	)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	if err := sqlite.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	var credentialStore driven.CredentialStore
	if cfg.SecretKey != nil {
		credentialStore = sqlite.NewCredentialRepo(db, cfg.SecretKey)
	}
	settingsStore := sqlite.NewSettingsRepo(db)

	// Env vars win over stored values; the store only fills gaps.
	if err := resolveConnection(ctx, cfg, credentialStore, settingsStore); err != nil {
		return err
	}

	// The client may be nil when unconfigured; the service starts anyway
	// and reports it via /api/v1/health.
	var client *azdo.Client
	if cfg.HasConnection() {
		client, err = azdo.NewClient(ctx, cfg.OrgURL, cfg.Token, cfg.Project, cfg.Repository)
		if err != nil {
			return err
		}
		slog.Info("remote client created", "org", cfg.OrgURL, "project", cfg.Project, "repo", cfg.Repository)

		// Cache the working identifiers for later runs.
		_ = settingsStore.Set(ctx, driven.SettingOrgURL, cfg.OrgURL)
		_ = settingsStore.Set(ctx, driven.SettingProject, cfg.Project)
		_ = settingsStore.Set(ctx, driven.SettingRepository, cfg.Repository)
		if credentialStore != nil && cfg.Token != "" {
			_ = credentialStore.Set(ctx, credentialService, cfg.Token)
		}
	} else {
		slog.Info("no connection configured, panel inactive until settings are provided")
	}

	provider := application.NewRemoteClientProvider(nil)
	if client != nil {
		provider.Replace(client)
	}

	sessions := application.NewSessionManager(provider, cfg.RequestTimeout)
	prSvc := application.NewPRService(provider)

	apiHandler := httphandler.NewHandler(prSvc, provider, slog.Default())
	panelHandler := panel.NewHandler(sessions, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, panelHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// No read/write timeouts: the panel websocket is long-lived.
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("azdopanel started", "listen_addr", cfg.ListenAddr)

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
