package hooks

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// AccountsState is a snapshot of the accounts hook.
type AccountsState struct {
	Err      error
	Accounts []model.Account
	Loading  bool
}

// Accounts keeps the full account list and reloads it after every
// mutation it performs.
type Accounts struct {
	store service.AccountStore
	state AccountsState
	seq   uint64
	mu    sync.Mutex
}

// NewAccounts creates the hook and performs the initial load. A load
// failure is reported through State().Err.
func NewAccounts(ctx context.Context, store service.AccountStore) *Accounts {
	h := &Accounts{store: store}
	_ = h.Refresh(ctx)
	return h
}

// State returns a copy of the current state.
func (h *Accounts) State() AccountsState {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.state
	s.Accounts = append([]model.Account(nil), h.state.Accounts...)
	return s
}

// Lookup resolves an account id to its name, or model.RemovedAccountLabel.
func (h *Accounts) Lookup(id string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return model.AccountName(h.state.Accounts, id)
}

// Refresh reloads every account.
func (h *Accounts) Refresh(ctx context.Context) error {
	seq := h.begin()

	accounts, err := h.store.GetAccounts(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()

	if seq != h.seq {
		slog.Debug("Discarding stale accounts fetch", "seq", seq, "latest", h.seq)
		return err
	}

	h.state.Loading = false
	if err != nil {
		slog.Error("Failed to load accounts", "error", err)
		h.state.Err = err
		return err
	}

	h.state.Err = nil
	h.state.Accounts = accounts
	return nil
}

// Add creates an account and reloads.
func (h *Accounts) Add(ctx context.Context, account model.Account) error {
	return h.mutate(ctx, "create", func() error {
		return h.store.CreateAccount(ctx, account)
	})
}

// Edit replaces an account and reloads.
func (h *Accounts) Edit(ctx context.Context, account model.Account) error {
	return h.mutate(ctx, "update", func() error {
		return h.store.UpdateAccount(ctx, account)
	})
}

// Remove deletes an account and reloads.
func (h *Accounts) Remove(ctx context.Context, id string) error {
	return h.mutate(ctx, "delete", func() error {
		return h.store.DeleteAccount(ctx, id)
	})
}

func (h *Accounts) begin() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	h.state.Loading = true
	return h.seq
}

// mutate runs op and, if it succeeds, reloads so the state reflects it.
// A failed op skips the reload.
func (h *Accounts) mutate(ctx context.Context, action string, op func() error) error {
	seq := h.begin()

	if err := op(); err != nil {
		h.mu.Lock()
		if seq == h.seq {
			h.state.Loading = false
		}
		h.state.Err = err
		h.mu.Unlock()

		slog.Error("Failed to "+action+" account", "error", err)
		return err
	}

	return h.Refresh(ctx)
}
