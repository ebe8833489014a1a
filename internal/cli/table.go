package cli

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

// RenderAccounts renders accounts as a table.
func RenderAccounts(accounts []model.Account) string {
	t := newTable("ID", "NAME", "INITIAL BALANCE", "CREATED")
	for _, a := range accounts {
		t.Row(a.ID, a.Name, FormatAmount(a.InitialBalance), FormatDate(a.CreatedAt))
	}
	return t.Render()
}

// RenderTransactions renders transactions as a table. accountName
// resolves account ids for display.
func RenderTransactions(txns []model.Transaction, accountName func(id string) string) string {
	t := newTable("ID", "DATE", "AMOUNT", "ACCOUNT", "CATEGORY", "DESCRIPTION", "TAGS")
	for _, txn := range txns {
		account := accountName(txn.FromAccountID)
		if txn.ToAccountID != "" {
			account = fmt.Sprintf("%s → %s", account, accountName(txn.ToAccountID))
		}
		t.Row(
			txn.ID,
			FormatDate(txn.Date),
			FormatAmount(txn.Amount),
			account,
			txn.Category,
			txn.Description,
			FormatTags(txn.Tags),
		)
	}
	return t.Render()
}

// RenderTags renders tag usage counts.
func RenderTags(tags []service.TagCount) string {
	t := newTable("TAG", "TRANSACTIONS")
	for _, tc := range tags {
		t.Row(tc.Tag, strconv.Itoa(tc.Count))
	}
	return t.Render()
}
