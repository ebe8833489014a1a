// Package tui provides an interactive transaction browser built on bubbletea.
package tui

import (
	"context"

	"github.com/Veraticus/spice-ledger/internal/hooks"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Model holds the browser state.
type Model struct {
	ctx          context.Context
	err          error
	transactions *hooks.Transactions
	accounts     *hooks.Accounts
	keymap       KeyMap
	help         help.Model
	spinner      spinner.Model
	table        table.Model
	state        hooks.TransactionsState
	accountList  []model.Account
	// filterIndex 0 means all accounts; i > 0 selects accountList[i-1].
	filterIndex int
	height      int
	width       int
	quitting    bool
}

// newModel mounts the hooks, which load accounts and the first page.
func newModel(ctx context.Context, store service.Storage, params service.PageRequest) Model {
	params = params.Normalize()

	t := table.New(
		table.WithColumns(columnsFor(80)),
		table.WithFocused(true),
		table.WithHeight(params.PageSize),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:          ctx,
		transactions: hooks.NewTransactions(ctx, store, params),
		accounts:     hooks.NewAccounts(ctx, store),
		keymap:       DefaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		table:        t,
		width:        80,
		height:       params.PageSize + 6,
	}

	accounts := m.accounts.State()
	m.accountList = accounts.Accounts
	m.state = m.transactions.State()
	m.err = m.state.Err
	if m.err == nil {
		m.err = accounts.Err
	}
	for i, a := range m.accountList {
		if a.ID == params.AccountID {
			m.filterIndex = i + 1
		}
	}
	m.table.SetRows(m.buildRows())

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columnsFor(msg.Width))
		m.table.SetHeight(max(1, msg.Height-6))
		return m, nil

	case accountsLoadedMsg:
		m.accountList = m.accounts.State().Accounts
		if m.filterIndex > len(m.accountList) {
			m.filterIndex = 0
		}
		if msg.err != nil {
			m.err = msg.err
		}
		m.table.SetRows(m.buildRows())
		return m, nil

	case pageLoadedMsg:
		m.state = m.transactions.State()
		m.err = m.state.Err
		m.table.SetRows(m.buildRows())
		m.table.GotoTop()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.NextPage):
		if !hooks.HasNextPage(m.state.Page, m.state.PageSize, m.state.Total) {
			return m, nil
		}
		m.state.Loading = true
		return m, m.setPage(m.state.Page + 1)

	case key.Matches(msg, m.keymap.PrevPage):
		if m.state.Page <= 1 {
			return m, nil
		}
		m.state.Loading = true
		return m, m.setPage(m.state.Page - 1)

	case key.Matches(msg, m.keymap.NextAccount):
		m.filterIndex = (m.filterIndex + 1) % (len(m.accountList) + 1)
		m.state.Loading = true
		return m, m.setAccount(m.filterAccountID())

	case key.Matches(msg, m.keymap.PrevAccount):
		n := len(m.accountList) + 1
		m.filterIndex = (m.filterIndex - 1 + n) % n
		m.state.Loading = true
		return m, m.setAccount(m.filterAccountID())

	case key.Matches(msg, m.keymap.AllAccounts):
		m.filterIndex = 0
		m.state.Loading = true
		return m, m.setAccount("")

	case key.Matches(msg, m.keymap.Refresh):
		m.state.Loading = true
		return m, tea.Batch(m.loadAccounts(), m.refresh())
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) filterAccountID() string {
	if m.filterIndex == 0 || m.filterIndex > len(m.accountList) {
		return ""
	}
	return m.accountList[m.filterIndex-1].ID
}

func (m Model) accountName(id string) string {
	return model.AccountName(m.accountList, id)
}
