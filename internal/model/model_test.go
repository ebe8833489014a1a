package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAccountInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid name", input: "Wallet"},
		{name: "two characters", input: "Ab"},
		{name: "padded name", input: "  Savings  "},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "single character", input: "A", wantErr: true},
		{name: "single rune after trim", input: " é ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccountInput(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewAccount(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.FixedZone("BRT", -3*60*60))
	a := NewAccount("a1", "  Wallet ", 100, now)

	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "Wallet", a.Name)
	assert.Equal(t, 100.0, a.InitialBalance)
	assert.Equal(t, time.UTC, a.CreatedAt.Location())
	assert.True(t, a.CreatedAt.Equal(now))
}

func TestAccountName(t *testing.T) {
	accounts := []Account{{ID: "a1", Name: "Wallet"}, {ID: "a2", Name: "Bank"}}

	assert.Equal(t, "Bank", AccountName(accounts, "a2"))
	assert.Equal(t, RemovedAccountLabel, AccountName(accounts, "gone"))
	assert.Equal(t, RemovedAccountLabel, AccountName(nil, "a1"))
}

func TestTransaction_Touches(t *testing.T) {
	txn := Transaction{FromAccountID: "a1", ToAccountID: "a2"}

	assert.True(t, txn.Touches("a1"))
	assert.True(t, txn.Touches("a2"))
	assert.False(t, txn.Touches("a3"))
	assert.False(t, Transaction{FromAccountID: "a1"}.Touches("a2"))
}

func TestTransaction_IsExpense(t *testing.T) {
	assert.True(t, Transaction{Amount: -25.5}.IsExpense())
	assert.False(t, Transaction{Amount: 0}.IsExpense())
	assert.False(t, Transaction{Amount: 10}.IsExpense())
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "empty", in: []string{}, want: nil},
		{name: "only blanks", in: []string{"", "  "}, want: nil},
		{name: "keeps order", in: []string{"food", "work"}, want: []string{"food", "work"}},
		{name: "trims and dedupes", in: []string{" food", "food ", "work", "food"}, want: []string{"food", "work"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}

func TestTransaction_HasTag(t *testing.T) {
	txn := Transaction{Tags: []string{"food", "trip"}}
	assert.True(t, txn.HasTag("trip"))
	assert.False(t, txn.HasTag("rent"))
}

func TestValidateTransactionInput(t *testing.T) {
	assert.NoError(t, ValidateTransactionInput(-10, "a1"))
	assert.NoError(t, ValidateTransactionInput(10, "a1"))
	assert.Error(t, ValidateTransactionInput(0, "a1"))
	assert.Error(t, ValidateTransactionInput(10, ""))
	assert.Error(t, ValidateTransactionInput(10, "  "))
}

func TestTotalInitialBalance(t *testing.T) {
	accounts := []Account{
		{ID: "a1", InitialBalance: 0.1},
		{ID: "a2", InitialBalance: 0.2},
		{ID: "a3", InitialBalance: -0.3},
	}

	total := TotalInitialBalance(accounts)
	assert.True(t, total.Equal(decimal.Zero), "expected exact zero, got %s", total)
	assert.True(t, TotalInitialBalance(nil).IsZero())
}

func TestSumAmounts(t *testing.T) {
	txns := []Transaction{{Amount: -25.5}, {Amount: 100}, {Amount: 0.25}}
	assert.Equal(t, "74.75", SumAmounts(txns).String())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "100", want: 100},
		{in: "12.34", want: 12.34},
		{in: "12,34", want: 12.34},
		{in: "-25,5", want: -25.5},
		{in: " 7 ", want: 7},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
