package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// CreateAccount inserts a new account. A reused id fails with
// common.ErrDuplicateEntry. CreatedAt is stored as UTC and reads back in
// UTC, so compare timestamps with time.Time.Equal.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(&account); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, initialBalance, createdAt)
		VALUES (?, ?, ?, ?)
	`, account.ID, account.Name, account.InitialBalance, formatTime(account.CreatedAt))
	if err != nil {
		return wrapInsertError(err, "account", account.ID)
	}
	return nil
}

// GetAccounts returns every account in the order they were created.
func (s *SQLiteStorage) GetAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, initialBalance, createdAt
		FROM accounts
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// GetAccount retrieves one account, or common.ErrNotFound.
func (s *SQLiteStorage) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, initialBalance, createdAt
		FROM accounts
		WHERE id = ?
	`, id)

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount replaces every column of the account with the given id.
// An unknown id is a no-op.
func (s *SQLiteStorage) UpdateAccount(ctx context.Context, account model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(&account); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, initialBalance = ?, createdAt = ?
		WHERE id = ?
	`, account.Name, account.InitialBalance, formatTime(account.CreatedAt), account.ID)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.ID, err)
	}
	return nil
}

// DeleteAccount removes an account. Transactions that reference it are
// left untouched, and an unknown id is a no-op.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (model.Account, error) {
	var account model.Account
	var createdAt string

	if err := row.Scan(&account.ID, &account.Name, &account.InitialBalance, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account, err
		}
		return account, fmt.Errorf("failed to scan account: %w", err)
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return account, fmt.Errorf("account %s: %w", account.ID, err)
	}
	account.CreatedAt = t
	return account, nil
}
