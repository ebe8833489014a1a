package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/hooks"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import financial transactions from OFX or QFX (Quicken) files exported from your bank.

Every row is booked on the account given with --account and tagged "ofx".
Re-importing a statement skips the rows that are already in the ledger.`,
		Example: `  # Import single file
  ledger import-ofx --account 3f2a... ~/Downloads/chase_jan_2024.qfx

  # Import all QFX files in a directory
  ledger import-ofx --account 3f2a... ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImportOFX(cmd, args)
		},
	}

	cmd.Flags().String("account", "", "account id to book the imported rows on")
	cmd.Flags().BoolP("dry-run", "d", false, "preview import without saving")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func (a *app) runImportOFX(cmd *cobra.Command, args []string) error {
	accountID, _ := cmd.Flags().GetString("account")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(out, "Nothing was saved.")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	store, err := a.openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	if err := requireAccounts(ctx, store, accountID); err != nil {
		return err
	}

	slog.Info("Importing OFX files",
		"file_count", len(files),
		"account", accountID,
		"dry_run", dryRun)

	parser := ofx.NewParser(accountID)
	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(files), "Parsing statements")

	var all []model.Transaction
	seen := make(map[string]bool)
	failed := 0

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}

		txns, err := parseOFXFile(ctx, parser, path)
		_ = bar.Add(1)
		if err != nil {
			slog.Error("Failed to import OFX file", "file", path, "error", err)
			failed++
			continue
		}

		added := 0
		for _, txn := range txns {
			if !seen[txn.ID] {
				seen[txn.ID] = true
				all = append(all, txn)
				added++
			}
		}
		slog.Debug("Processed file",
			"file", filepath.Base(path),
			"transactions_found", len(txns),
			"added", added,
			"duplicates", len(txns)-added)
	}

	if handler.WasInterrupted() {
		return ctx.Err()
	}

	if len(all) == 0 {
		printLine(out, cli.FormatWarning("No transactions found in any file"))
		return nil
	}

	if dryRun {
		sample := all[:min(5, len(all))]
		printLine(out, cli.RenderTransactions(sample, hooks.NewAccounts(ctx, store).Lookup))
		printLine(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions parsed from %d files, nothing saved",
			len(all), len(files)-failed)))
		return nil
	}

	inserted, err := store.SaveTransactions(ctx, all)
	if err != nil {
		return fmt.Errorf("failed to save imported transactions: %w", err)
	}

	printLine(out, cli.FormatSuccess(fmt.Sprintf("Imported %d new transactions, skipped %d already in the ledger",
		inserted, len(all)-inserted)))
	if failed > 0 {
		printLine(out, cli.FormatWarning(fmt.Sprintf("%d files could not be read", failed)))
	}
	return nil
}

func parseOFXFile(ctx context.Context, parser *ofx.Parser, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return parser.ParseFile(ctx, f)
}

// expandFiles resolves glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}
