package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const fetchTimeout = 10 * time.Second

// fetch runs a transactions hook operation off the update loop.
func (m Model) fetch(op func(ctx context.Context) error) tea.Cmd {
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		return pageLoadedMsg{err: op(ctx)}
	}
}

func (m Model) loadAccounts() tea.Cmd {
	parent := m.ctx
	accounts := m.accounts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		return accountsLoadedMsg{err: accounts.Refresh(ctx)}
	}
}

func (m Model) setPage(page int) tea.Cmd {
	h := m.transactions
	return m.fetch(func(ctx context.Context) error {
		return h.SetPage(ctx, page)
	})
}

func (m Model) setAccount(accountID string) tea.Cmd {
	h := m.transactions
	return m.fetch(func(ctx context.Context) error {
		return h.SelectAccount(ctx, accountID)
	})
}

func (m Model) refresh() tea.Cmd {
	h := m.transactions
	return m.fetch(h.Refresh)
}
