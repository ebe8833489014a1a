package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

const selectTransactionColumns = `
	SELECT id, amount, date, fromAccountId, toAccountId, description, category
	FROM transactions`

// CreateTransaction inserts a transaction and its tags atomically. Date is
// stored as UTC.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(&txn); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := insertTransaction(ctx, tx, "INSERT", &txn); err != nil {
			return wrapInsertError(err, "transaction", txn.ID)
		}
		return insertTags(ctx, tx, txn.ID, txn.Tags)
	})
}

// SaveTransactions inserts a batch in one database transaction. Transactions
// whose id is already stored are skipped; the number written is returned.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(transactions) == 0 {
		return 0, nil
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for i := range transactions {
			txn := &transactions[i]
			n, err := insertTransaction(ctx, tx, "INSERT OR IGNORE", txn)
			if err != nil {
				return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
			}
			if n == 0 {
				slog.Debug("Skipping existing transaction", "id", txn.ID)
				continue
			}
			if err := insertTags(ctx, tx, txn.ID, txn.Tags); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetTransactions returns every transaction in insertion order with its
// tags attached. A transaction without tags has nil Tags, and Date is in UTC.
func (s *SQLiteStorage) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, selectTransactionColumns+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	// Release the connection before the tag query.
	_ = rows.Close()

	tags, err := loadTags(ctx, s.db, "")
	if err != nil {
		return nil, err
	}

	for i := range transactions {
		id := transactions[i].ID
		transactions[i].Tags = tags[id]
		delete(tags, id)
	}
	if len(tags) > 0 {
		slog.Warn("Found tags for unknown transactions", "count", len(tags))
	}

	return transactions, nil
}

// GetTransaction retrieves one transaction with its tags, or common.ErrNotFound.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, selectTransactionColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	tags, err := loadTags(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	txn.Tags = tags[id]

	return &txn, nil
}

// UpdateTransaction replaces the scalar columns and the full tag set of
// an existing transaction. An unknown id is a no-op.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(&txn); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET amount = ?, date = ?, fromAccountId = ?, toAccountId = ?,
			    description = ?, category = ?
			WHERE id = ?
		`,
			txn.Amount,
			formatTime(txn.Date),
			txn.FromAccountID,
			nullString(txn.ToAccountID),
			nullString(txn.Description),
			nullString(txn.Category),
			txn.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update transaction %s: %w", txn.ID, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return nil
		}

		if err := deleteTags(ctx, tx, txn.ID); err != nil {
			return err
		}
		return insertTags(ctx, tx, txn.ID, txn.Tags)
	})
}

// DeleteTransaction removes a transaction's tags and then the transaction.
// An unknown id is a no-op.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := deleteTags(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete transaction %s: %w", id, err)
		}
		return nil
	})
}

// GetTags lists distinct tags, most used first.
func (s *SQLiteStorage) GetTags(ctx context.Context) ([]service.TagCount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tag, COUNT(*) AS uses
		FROM transaction_tags
		GROUP BY tag
		ORDER BY uses DESC, tag ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []service.TagCount
	for rows.Next() {
		var tc service.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tc)
	}

	return tags, rows.Err()
}

func insertTransaction(ctx context.Context, q queryable, verb string, txn *model.Transaction) (int64, error) {
	result, err := q.ExecContext(ctx, verb+` INTO transactions (
			id, amount, date, fromAccountId, toAccountId, description, category
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		txn.ID,
		txn.Amount,
		formatTime(txn.Date),
		txn.FromAccountID,
		nullString(txn.ToAccountID),
		nullString(txn.Description),
		nullString(txn.Category),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func insertTags(ctx context.Context, q queryable, transactionID string, tags []string) error {
	for _, tag := range model.NormalizeTags(tags) {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO transaction_tags (transactionId, tag) VALUES (?, ?)`,
			transactionID, tag,
		); err != nil {
			return fmt.Errorf("failed to insert tag %q for transaction %s: %w", tag, transactionID, err)
		}
	}
	return nil
}

func deleteTags(ctx context.Context, q queryable, transactionID string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM transaction_tags WHERE transactionId = ?`, transactionID); err != nil {
		return fmt.Errorf("failed to delete tags for transaction %s: %w", transactionID, err)
	}
	return nil
}

// loadTags groups tags by transaction id in one pass. An empty id loads
// the whole table.
func loadTags(ctx context.Context, q queryable, transactionID string) (map[string][]string, error) {
	query := `SELECT transactionId, tag FROM transaction_tags`
	var args []any
	if transactionID != "" {
		query += ` WHERE transactionId = ?`
		args = append(args, transactionID)
	}
	query += ` ORDER BY rowid`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tags := make(map[string][]string)
	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags[id] = append(tags[id], tag)
	}

	return tags, rows.Err()
}

func scanTransaction(row scanner) (model.Transaction, error) {
	var txn model.Transaction
	var date string
	var toAccount, description, category sql.NullString

	err := row.Scan(
		&txn.ID,
		&txn.Amount,
		&date,
		&txn.FromAccountID,
		&toAccount,
		&description,
		&category,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return txn, err
	}
	if err != nil {
		return txn, fmt.Errorf("failed to scan transaction: %w", err)
	}

	t, err := parseTime(date)
	if err != nil {
		return txn, fmt.Errorf("transaction %s: %w", txn.ID, err)
	}

	txn.Date = t
	txn.ToAccountID = toAccount.String
	txn.Description = description.String
	txn.Category = category.String

	return txn, nil
}
