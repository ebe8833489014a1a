package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates on open; this one is useful to create the
database ahead of time or to check its state with --status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMigrate(cmd)
		},
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func (a *app) runMigrate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetBool("status")
	out := cmd.OutOrStdout()

	slog.Info("Starting database migration",
		"database", a.cfg.DatabasePath,
		"status_only", status)

	store, err := storage.NewSQLiteStorage(a.cfg.DatabasePath)
	if err != nil {
		return common.NewUserError("could not open the ledger database", err)
	}
	defer closeStorage(store)

	if status {
		version, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		printLine(out, fmt.Sprintf("Database:        %s", a.cfg.DatabasePath))
		printLine(out, fmt.Sprintf("Schema version:  %d (latest %d)", version, storage.ExpectedSchemaVersion))
		if version < storage.ExpectedSchemaVersion {
			printLine(out, cli.FormatWarning("Migrations pending; run 'ledger migrate'"))
		}
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	printLine(out, cli.FormatSuccess(fmt.Sprintf("Database is at schema version %d", storage.ExpectedSchemaVersion)))
	return nil
}
