package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/storage"
)

// openStorage opens the configured database and migrates it.
func (a *app) openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.Open(ctx, a.cfg.DatabasePath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open the ledger at %s", a.cfg.DatabasePath), err)
	}
	slog.Debug("Opened ledger database", "path", store.Path())
	return store, nil
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

func printLine(w io.Writer, s string) {
	if _, err := fmt.Fprintln(w, s); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}
