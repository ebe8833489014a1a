package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// FixedTime is the timestamp used by every fixture.
var FixedTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// Account builds an account created at FixedTime.
func Account(id, name string, balance float64) model.Account {
	return model.Account{
		ID:             id,
		Name:           name,
		InitialBalance: balance,
		CreatedAt:      FixedTime,
	}
}

// Transaction builds a transaction dated FixedTime.
func Transaction(id, from string, amount float64, tags ...string) model.Transaction {
	return model.Transaction{
		ID:            id,
		Amount:        amount,
		Date:          FixedTime,
		FromAccountID: from,
		Tags:          tags,
	}
}

// Transfer builds a transaction between two accounts.
func Transfer(id, from, to string, amount float64) model.Transaction {
	txn := Transaction(id, from, amount)
	txn.ToAccountID = to
	return txn
}

// Transactions builds n transactions on account, numbered from 1, each
// a minute apart.
func Transactions(prefix, account string, n int) []model.Transaction {
	txns := make([]model.Transaction, n)
	for i := range txns {
		txns[i] = Transaction(fmt.Sprintf("%s-%03d", prefix, i+1), account, -float64(i+1))
		txns[i].Date = FixedTime.Add(time.Duration(i) * time.Minute)
	}
	return txns
}

// IDs returns the ids of txns in order.
func IDs(txns []model.Transaction) []string {
	ids := make([]string, len(txns))
	for i, txn := range txns {
		ids[i] = txn.ID
	}
	return ids
}
