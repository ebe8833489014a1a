package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		want string
		in   float64
	}{
		{in: -25.5, want: "-25.50"},
		{in: 100, want: "+100.00"},
		{in: 0, want: "0.00"},
		{in: 0.005, want: "+0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.in))
		})
	}

	assert.Equal(t, "74.50", FormatDecimal(decimal.RequireFromString("74.5")))
}

func TestFormatDateAndTags(t *testing.T) {
	assert.Equal(t, "-", FormatDate(time.Time{}))
	assert.Len(t, FormatDate(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)), len(DateLayout))

	assert.Equal(t, "", FormatTags(nil))
	assert.Equal(t, "#food #coffee", FormatTags([]string{"food", "coffee"}))
}

func TestRenderAccounts(t *testing.T) {
	out := RenderAccounts([]model.Account{
		{ID: "a1", Name: "Wallet", InitialBalance: 100},
	})

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Wallet")
	assert.Contains(t, out, "+100.00")
}

func TestRenderTransactions(t *testing.T) {
	names := map[string]string{"a1": "Wallet", "a2": "Bank"}
	lookup := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return model.RemovedAccountLabel
	}

	out := RenderTransactions([]model.Transaction{
		{ID: "t1", Amount: -25.5, FromAccountID: "a1", Tags: []string{"food"}, Category: "Dining"},
		{ID: "t2", Amount: 10, FromAccountID: "gone", ToAccountID: "a2"},
	}, lookup)

	assert.Contains(t, out, "-25.50")
	assert.Contains(t, out, "#food")
	assert.Contains(t, out, "Dining")
	assert.Contains(t, out, model.RemovedAccountLabel+" → Bank")
}

func TestRenderTags(t *testing.T) {
	out := RenderTags([]service.TagCount{{Tag: "food", Count: 3}})
	assert.Contains(t, out, "food")
	assert.Contains(t, out, "3")
}

func TestNonBlockingReader_ReadLine(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedValue string
		expectError   bool
	}{
		{name: "successful read", input: "test input\n", expectedValue: "test input"},
		{name: "read with extra whitespace", input: "  test input  \n", expectedValue: "test input"},
		{name: "empty line", input: "\n", expectedValue: ""},
		{name: "no trailing newline", input: "last", expectedValue: "last"},
		{name: "no input", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nbr := NewNonBlockingReader(strings.NewReader(tt.input))

			result, err := nbr.ReadLine(context.Background())
			if tt.expectError {
				assert.ErrorIs(t, err, io.EOF)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedValue, result)
		})
	}
}

func TestNonBlockingReader_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewNonBlockingReader(pr).ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full yes", input: "YES\n", want: true},
		{name: "no", input: "n\n"},
		{name: "empty", input: "\n"},
		{name: "eof", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(context.Background(), "Delete account Wallet?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete account Wallet? [y/N]")
		})
	}
}

func TestInterruptHandler(t *testing.T) {
	var out bytes.Buffer
	h := NewInterruptHandler(&out, "Files already imported were kept.")

	ctx, stop := h.HandleInterrupts(context.Background())
	defer stop()

	assert.False(t, h.WasInterrupted())
	assert.NoError(t, ctx.Err())

	h.Interrupt()
	h.Interrupt()

	assert.True(t, h.WasInterrupted())
	assert.Equal(t, 1, strings.Count(out.String(), "Interrupted!"))
	assert.Contains(t, out.String(), "Files already imported were kept.")

	stop()
	assert.Error(t, ctx.Err())
}

func TestNewProgressBar(t *testing.T) {
	var out bytes.Buffer
	bar := NewProgressBar(&out, 2, "Importing")

	require.NoError(t, bar.Add(1))
	require.NoError(t, bar.Add(1))
	assert.True(t, bar.IsFinished())
}
