package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/hooks"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/spf13/cobra"
)

func summaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show balances and transaction counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			accounts := hooks.NewAccounts(ctx, store).State()
			if accounts.Err != nil {
				return fmt.Errorf("failed to load accounts: %w", accounts.Err)
			}
			txns, err := store.GetTransactions(ctx)
			if err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}

			printLine(cmd.OutOrStdout(), cli.RenderBox("Summary", renderSummary(accounts.Accounts, txns)))
			return nil
		},
	}
}

func renderSummary(accounts []model.Account, txns []model.Transaction) string {
	opening := model.TotalInitialBalance(accounts)
	movements := model.SumAmounts(txns)

	var b strings.Builder
	fmt.Fprintf(&b, "Accounts:         %d\n", len(accounts))
	fmt.Fprintf(&b, "Transactions:     %d\n", len(txns))
	fmt.Fprintf(&b, "Opening balance:  %s\n", cli.FormatDecimal(opening))
	fmt.Fprintf(&b, "Net movements:    %s\n", cli.FormatDecimal(movements))
	fmt.Fprintf(&b, "Balance:          %s", cli.FormatDecimal(opening.Add(movements)))

	for _, account := range accounts {
		own := hooks.FilterByAccount(txns, account.ID)
		fmt.Fprintf(&b, "\n  %-20s %5d transactions", account.Name, len(own))
	}
	return b.String()
}
