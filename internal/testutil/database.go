// Package testutil provides test utilities for the ledger packages.
// It offers isolated in-memory databases and fixture builders.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new migrated in-memory database.
// It is closed automatically when the test finishes.
//
// Example:
//
//	db := testutil.SetupTestDB(t).
//		WithAccounts(testutil.Account("a1", "Wallet", 100)).
//		WithTransactions(testutil.Transaction("t1", "a1", -25.5, "food"))
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.Open(context.Background(), storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// WithAccounts seeds accounts or fails the test.
func (db *TestDB) WithAccounts(accounts ...model.Account) *TestDB {
	db.t.Helper()

	for _, account := range accounts {
		if err := db.Storage.CreateAccount(context.Background(), account); err != nil {
			db.t.Fatalf("failed to seed account %q: %v", account.ID, err)
		}
	}
	return db
}

// WithTransactions seeds transactions or fails the test.
func (db *TestDB) WithTransactions(txns ...model.Transaction) *TestDB {
	db.t.Helper()

	for _, txn := range txns {
		if err := db.Storage.CreateTransaction(context.Background(), txn); err != nil {
			db.t.Fatalf("failed to seed transaction %q: %v", txn.ID, err)
		}
	}
	return db
}
