// Package cli wires the cobra command tree for azdopanel.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azdopanel/azdopanel/internal/adapter/driven/azdo"
	"github.com/azdopanel/azdopanel/internal/adapter/driven/sqlite"
	"github.com/azdopanel/azdopanel/internal/config"
	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

// credentialService is the credentials-table key for the stored PAT.
const credentialService = "azdo"

var rootCmd = &cobra.Command{
	Use:   "azdopanel",
	Short: "azdopanel - a local panel service for Azure DevOps pull requests",
	Long: `azdopanel browses and acts on Azure DevOps pull requests.

Quick start:
  azdopanel serve                 # Start the panel service (REST + websocket)
  azdopanel pr list               # List active pull requests
  azdopanel pr list --status all  # List all pull requests
  azdopanel pr create --source feature-x --target main --title "Add X"
  azdopanel pr vote 42 10         # Approve PR 42
  azdopanel pr complete 42 --strategy squash
  azdopanel pr diff 42            # Show the diff of PR 42 in the terminal

Connection settings come from AZDOPANEL_ORG_URL, AZDOPANEL_TOKEN,
AZDOPANEL_PROJECT, and AZDOPANEL_REPO; values absent from the
environment fall back to the local settings store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(prCmd)
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// resolveConnection fills connection identifiers missing from the
// environment with values from the sqlite stores. Env vars win.
func resolveConnection(ctx context.Context, cfg *config.Config, creds driven.CredentialStore, settings driven.SettingsStore) error {
	if cfg.Token == "" && creds != nil {
		stored, err := creds.Get(ctx, credentialService)
		if err == nil {
			cfg.Token = stored
		}
	}
	if cfg.OrgURL == "" {
		if v, err := settings.Get(ctx, driven.SettingOrgURL); err == nil {
			cfg.OrgURL = v
		}
	}
	if cfg.Project == "" {
		if v, err := settings.Get(ctx, driven.SettingProject); err == nil {
			cfg.Project = v
		}
	}
	if cfg.Repository == "" {
		if v, err := settings.Get(ctx, driven.SettingRepository); err == nil {
			cfg.Repository = v
		}
	}
	return nil
}

// newRemoteClient builds an azdo client from env config plus any stored
// settings. One-shot commands (pr list, pr diff) use it directly.
func newRemoteClient(ctx context.Context) (*azdo.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if !cfg.HasConnection() {
		db, err := sqlite.NewDB(cfg.DBPath)
		if err == nil {
			defer db.Close()
			if err := sqlite.RunMigrations(db.Writer); err == nil {
				var creds driven.CredentialStore
				if cfg.SecretKey != nil {
					creds = sqlite.NewCredentialRepo(db, cfg.SecretKey)
				}
				_ = resolveConnection(ctx, cfg, creds, sqlite.NewSettingsRepo(db))
			}
		}
	}

	if !cfg.HasConnection() {
		return nil, nil, fmt.Errorf("connection not configured: set AZDOPANEL_ORG_URL, AZDOPANEL_TOKEN, AZDOPANEL_PROJECT, and AZDOPANEL_REPO")
	}

	client, err := azdo.NewClient(ctx, cfg.OrgURL, cfg.Token, cfg.Project, cfg.Repository)
	if err != nil {
		return nil, nil, fmt.Errorf("creating remote client: %w", err)
	}
	return client, cfg, nil
}
