package model

import (
	"fmt"
	"strings"
	"time"
)

// Transaction is a single income or expense entry recorded against an account.
// A negative Amount is an expense.
type Transaction struct {
	Date          time.Time
	ID            string
	FromAccountID string
	ToAccountID   string // transfer counterpart, optional
	Description   string
	Category      string
	Tags          []string
	Amount        float64
}

// IsExpense reports whether the transaction takes money out of its account.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// Touches reports whether the transaction references accountID on either side.
func (t Transaction) Touches(accountID string) bool {
	return t.FromAccountID == accountID || t.ToAccountID == accountID
}

// HasTag reports whether tag is attached to the transaction.
func (t Transaction) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// NormalizeTags trims tags, drops empty ones and collapses duplicates while
// keeping first-seen order. It returns nil when nothing is left.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ValidateTransactionInput applies the rules of the transaction form.
func ValidateTransactionInput(amount float64, accountID string) error {
	if amount == 0 {
		return fmt.Errorf("amount must be different from zero")
	}
	if strings.TrimSpace(accountID) == "" {
		return fmt.Errorf("an account must be selected")
	}
	return nil
}
