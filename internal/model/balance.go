package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TotalInitialBalance sums the opening balances of accounts without float drift.
func TotalInitialBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(decimal.NewFromFloat(a.InitialBalance))
	}
	return total
}

// SumAmounts totals the amounts of transactions.
func SumAmounts(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(decimal.NewFromFloat(t.Amount))
	}
	return total
}

// ParseAmount reads a user-typed amount. Both "12.34" and "12,34" are accepted
// and a leading minus marks an expense.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is required")
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	f, _ := d.Float64()
	return f, nil
}
