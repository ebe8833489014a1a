package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStorage returns a migrated, private in-memory store.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func testAccount(id, name string, balance float64) model.Account {
	return model.Account{
		ID:             id,
		Name:           name,
		InitialBalance: balance,
		CreatedAt:      time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func testTransaction(id, from string, amount float64, tags ...string) model.Transaction {
	return model.Transaction{
		ID:            id,
		Amount:        amount,
		Date:          time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
		FromAccountID: from,
		Tags:          tags,
	}
}

func TestNewSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "ledger.db")

	store, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = os.Stat(dbPath)
	require.NoError(t, err)
	assert.Equal(t, dbPath, store.Path())
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestOpen_PersistsAcrossHandles(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	store, err := Open(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.CreateAccount(ctx, testAccount("a1", "Wallet", 100)))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	accounts, err := reopened.GetAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Wallet", accounts[0].Name)
}

func TestMemoryStoresAreIsolated(t *testing.T) {
	ctx := context.Background()
	first := createTestStorage(t)
	second := createTestStorage(t)

	require.NoError(t, first.CreateAccount(ctx, testAccount("a1", "Wallet", 1)))

	accounts, err := second.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestNilContext(t *testing.T) {
	store := createTestStorage(t)

	//nolint:staticcheck // exercising nil context validation
	_, err := store.GetAccounts(nil)
	assert.ErrorIs(t, err, ErrNilContext)

	//nolint:staticcheck // exercising nil context validation
	_, err = store.GetTransactions(nil)
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestFormatParseTime(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2024, 5, 6, 7, 8, 9, 123456789, loc)

	got, err := parseTime(formatTime(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(got))
	assert.Equal(t, time.UTC, got.Location())

	_, err = parseTime("yesterday")
	assert.Error(t, err)
}
