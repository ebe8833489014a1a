package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/hooks"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/charmbracelet/bubbles/table"
)

func columnsFor(width int) []table.Column {
	available := max(60, width-8)

	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Amount", Width: 12},
		{Title: "Account", Width: max(10, available*20/100)},
		{Title: "Category", Width: max(10, available*15/100)},
		{Title: "Description", Width: max(15, available*30/100)},
		{Title: "Tags", Width: max(8, available*15/100)},
	}
}

func (m Model) buildRows() []table.Row {
	rows := make([]table.Row, 0, len(m.state.Transactions))
	for _, txn := range m.state.Transactions {
		rows = append(rows, table.Row{
			cli.FormatDate(txn.Date),
			cli.FormatAmount(txn.Amount),
			m.accountLabel(txn),
			txn.Category,
			txn.Description,
			cli.FormatTags(txn.Tags),
		})
	}
	return rows
}

func (m Model) accountLabel(txn model.Transaction) string {
	label := m.accountName(txn.FromAccountID)
	if txn.ToAccountID != "" {
		label += " → " + m.accountName(txn.ToAccountID)
	}
	return label
}

func (m Model) filterLabel() string {
	id := m.filterAccountID()
	if id == "" {
		return "All accounts"
	}
	return m.accountName(id)
}

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(cli.TitleStyle.UnsetMargins().Render(cli.LedgerIcon + " " + m.filterLabel()))
	b.WriteString("  ")
	b.WriteString(cli.SubtleStyle.Render(m.pageLabel()))
	if m.state.Loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")

	if m.state.Total == 0 && !m.state.Loading {
		b.WriteString(cli.SubtleStyle.Render("No transactions"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(cli.FormatError(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m Model) pageLabel() string {
	pages := max(1, hooks.PageCount(m.state.Total, m.state.PageSize))
	return fmt.Sprintf("page %d/%d · %d transactions", m.state.Page, pages, m.state.Total)
}
