// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"math"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// DefaultPageSize is used when a PageRequest carries no usable size.
const DefaultPageSize = 20

// AccountStore persists accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, account model.Account) error
	GetAccounts(ctx context.Context) ([]model.Account, error)
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	UpdateAccount(ctx context.Context, account model.Account) error
	DeleteAccount(ctx context.Context, id string) error
}

// TransactionStore persists transactions and their tags.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn model.Transaction) error
	GetTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	// SaveTransactions inserts a batch, skipping ids that already exist,
	// and reports how many rows were written.
	SaveTransactions(ctx context.Context, txns []model.Transaction) (int, error)
	GetTags(ctx context.Context) ([]TagCount, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	AccountStore
	TransactionStore

	// Database management
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	Close() error
}

// TagCount is a distinct tag and the number of transactions carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// PageRequest selects one page of a filtered transaction list.
// Page is 1-based.
type PageRequest struct {
	AccountID string
	Page      int
	PageSize  int
}

// Normalize clamps Page to at least 1 and replaces a non-positive
// PageSize with DefaultPageSize.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	return r
}

// Offset is the index of the first row on the requested page. It
// saturates at math.MaxInt instead of wrapping.
func (r PageRequest) Offset() int {
	n := r.Normalize()
	if n.Page-1 > math.MaxInt/n.PageSize {
		return math.MaxInt
	}
	return (n.Page - 1) * n.PageSize
}
