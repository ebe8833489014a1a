package hooks

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// TransactionSource loads the full transaction collection.
type TransactionSource interface {
	GetTransactions(ctx context.Context) ([]model.Transaction, error)
}

// TransactionsState is a snapshot of the transactions hook.
type TransactionsState struct {
	Err          error
	AccountID    string
	Transactions []model.Transaction
	Total        int
	Page         int
	PageSize     int
	Loading      bool
}

// Transactions filters the stored transactions by account and exposes one
// page of them. Every parameter change reloads the whole collection.
type Transactions struct {
	store  TransactionSource
	state  TransactionsState
	params service.PageRequest
	seq    uint64
	mu     sync.Mutex
}

// NewTransactions creates the hook and performs the initial load. A load
// failure is reported through State().Err.
func NewTransactions(ctx context.Context, store TransactionSource, params service.PageRequest) *Transactions {
	h := &Transactions{
		store:  store,
		params: params.Normalize(),
	}
	_ = h.Refresh(ctx)
	return h
}

// State returns a copy of the current state.
func (h *Transactions) State() TransactionsState {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.state
	s.Transactions = append([]model.Transaction(nil), h.state.Transactions...)
	return s
}

// Params returns the parameters of the most recently issued fetch.
func (h *Transactions) Params() service.PageRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.params
}

// Refresh reloads with the current parameters.
func (h *Transactions) Refresh(ctx context.Context) error {
	return h.update(ctx, func(service.PageRequest) service.PageRequest {
		return h.params
	})
}

// SetParams replaces every parameter and reloads.
func (h *Transactions) SetParams(ctx context.Context, params service.PageRequest) error {
	return h.update(ctx, func(service.PageRequest) service.PageRequest {
		return params
	})
}

// SetAccount changes the account filter and reloads. An empty id clears it.
func (h *Transactions) SetAccount(ctx context.Context, accountID string) error {
	return h.update(ctx, func(p service.PageRequest) service.PageRequest {
		p.AccountID = accountID
		return p
	})
}

// SelectAccount changes the account filter and goes back to the first
// page in one step, keeping the current page size.
func (h *Transactions) SelectAccount(ctx context.Context, accountID string) error {
	return h.update(ctx, func(p service.PageRequest) service.PageRequest {
		p.AccountID = accountID
		p.Page = 1
		return p
	})
}

// SetPage moves to a 1-based page and reloads.
func (h *Transactions) SetPage(ctx context.Context, page int) error {
	return h.update(ctx, func(p service.PageRequest) service.PageRequest {
		p.Page = page
		return p
	})
}

// SetPageSize changes the page size and reloads.
func (h *Transactions) SetPageSize(ctx context.Context, pageSize int) error {
	return h.update(ctx, func(p service.PageRequest) service.PageRequest {
		p.PageSize = pageSize
		return p
	})
}

// update applies change to the parameters and runs a fetch with them. Only
// the most recently issued fetch may write results; earlier ones that
// finish later are dropped.
func (h *Transactions) update(ctx context.Context, change func(service.PageRequest) service.PageRequest) error {
	h.mu.Lock()
	h.params = change(h.params).Normalize()
	h.seq++
	seq := h.seq
	params := h.params
	h.state.Loading = true
	h.state.AccountID = params.AccountID
	h.state.Page = params.Page
	h.state.PageSize = params.PageSize
	h.mu.Unlock()

	all, err := h.store.GetTransactions(ctx)

	var page []model.Transaction
	total := 0
	if err == nil {
		filtered := FilterByAccount(all, params.AccountID)
		total = len(filtered)
		page = Paginate(filtered, params.Page, params.PageSize)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if seq != h.seq {
		slog.Debug("Discarding stale transactions fetch",
			"seq", seq,
			"latest", h.seq,
			"page", params.Page,
			"account", params.AccountID)
		return err
	}

	h.state.Loading = false
	if err != nil {
		slog.Error("Failed to load transactions", "error", err)
		h.state.Err = err
		return err
	}

	h.state.Err = nil
	h.state.Transactions = page
	h.state.Total = total
	return nil
}
