// Package model defines the records persisted and displayed by the ledger.
package model

import (
	"fmt"
	"strings"
	"time"
)

// MinAccountNameLength is the shortest name the account form accepts.
const MinAccountNameLength = 2

// RemovedAccountLabel is shown for transactions whose account no longer exists.
const RemovedAccountLabel = "removed account"

// Account is a named pot of money with an opening balance.
type Account struct {
	CreatedAt      time.Time
	ID             string
	Name           string
	InitialBalance float64
}

// NewAccount builds an account with the given id, stamped at now.
func NewAccount(id, name string, initialBalance float64, now time.Time) Account {
	return Account{
		ID:             id,
		Name:           strings.TrimSpace(name),
		InitialBalance: initialBalance,
		CreatedAt:      now.UTC(),
	}
}

// ValidateAccountInput applies the rules of the account form before a record is built.
func ValidateAccountInput(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("account name is required")
	}
	if len([]rune(trimmed)) < MinAccountNameLength {
		return fmt.Errorf("account name must be at least %d characters", MinAccountNameLength)
	}
	return nil
}

// AccountName returns the name of the account with the given id, or
// RemovedAccountLabel when no such account exists.
func AccountName(accounts []Account, id string) string {
	for _, a := range accounts {
		if a.ID == id {
			return a.Name
		}
	}
	return RemovedAccountLabel
}
