package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// Config holds what the browser needs to start.
type Config struct {
	Storage   service.Storage
	AccountID string
	PageSize  int
}

// Run starts the browser and blocks until the user quits or ctx ends.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Storage == nil {
		return errors.New("storage is required")
	}

	m := newModel(ctx, cfg.Storage, service.PageRequest{
		AccountID: cfg.AccountID,
		PageSize:  cfg.PageSize,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
