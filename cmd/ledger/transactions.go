package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/hooks"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func transactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txn", "tx"},
		Short:   "Manage transactions",
	}

	cmd.AddCommand(transactionsListCmd(a))
	cmd.AddCommand(transactionsAddCmd(a))
	cmd.AddCommand(transactionsUpdateCmd(a))
	cmd.AddCommand(transactionsDeleteCmd(a))
	cmd.AddCommand(transactionsTagsCmd(a))

	return cmd
}

func transactionsListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions one page at a time",
		Example: `  ledger transactions list
  ledger transactions list --account 3f2a... --page 2 --page-size 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			accountID, _ := cmd.Flags().GetString("account")
			page, _ := cmd.Flags().GetInt("page")
			pageSize, _ := cmd.Flags().GetInt("page-size")
			if !cmd.Flags().Changed("page-size") {
				pageSize = a.cfg.PageSize
			}

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			accounts := hooks.NewAccounts(ctx, store)
			txns := hooks.NewTransactions(ctx, store, service.PageRequest{
				AccountID: accountID,
				Page:      page,
				PageSize:  pageSize,
			})

			state := txns.State()
			if state.Err != nil {
				return fmt.Errorf("failed to list transactions: %w", state.Err)
			}

			out := cmd.OutOrStdout()
			if state.Total == 0 {
				printLine(out, cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			printLine(out, cli.RenderTransactions(state.Transactions, accounts.Lookup))
			printLine(out, cli.SubtleStyle.Render(fmt.Sprintf("Page %d of %d · %d transactions",
				state.Page, max(1, hooks.PageCount(state.Total, state.PageSize)), state.Total)))
			return nil
		},
	}

	cmd.Flags().String("account", "", "only show transactions touching this account id")
	cmd.Flags().Int("page", 1, "page number, starting at 1")
	cmd.Flags().Int("page-size", service.DefaultPageSize, "transactions per page")

	return cmd
}

func transactionsAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Example: `  ledger transactions add --account 3f2a... --amount -25.50 --category Food --tag coffee
  ledger transactions add --account 3f2a... --to 9c1b... --amount -200 --description "Move to savings"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			amount, err := amountFlag(cmd, "amount")
			if err != nil {
				return err
			}
			accountID, _ := cmd.Flags().GetString("account")
			if err := model.ValidateTransactionInput(amount, accountID); err != nil {
				return common.NewUserError(err.Error(), err)
			}
			date, err := dateFlag(cmd)
			if err != nil {
				return err
			}

			txn := model.Transaction{
				ID:            uuid.NewString(),
				Amount:        amount,
				Date:          date,
				FromAccountID: accountID,
			}
			txn.ToAccountID, _ = cmd.Flags().GetString("to")
			txn.Description, _ = cmd.Flags().GetString("description")
			txn.Category, _ = cmd.Flags().GetString("category")
			tags, _ := cmd.Flags().GetStringSlice("tag")
			txn.Tags = model.NormalizeTags(tags)

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := requireAccounts(ctx, store, txn.FromAccountID, txn.ToAccountID); err != nil {
				return err
			}
			if err := store.CreateTransaction(ctx, txn); err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}

			printLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s on %s (%s)",
				cli.FormatAmount(txn.Amount), cli.FormatDate(txn.Date), txn.ID)))
			return nil
		},
	}

	addTransactionFlags(cmd)
	cmd.Flags().String("amount", "", "amount, negative for an expense")
	cmd.Flags().String("account", "", "account id the transaction is booked on")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func transactionsUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a transaction",
		Long: `Change a transaction. Only the given flags are applied; --tag replaces
the whole tag set and --clear-tags removes every tag.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			existing, err := store.GetTransaction(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("no transaction with id %s", args[0]), err)
			}
			if err != nil {
				return err
			}
			txn := *existing

			if flags.Changed("amount") {
				if txn.Amount, err = amountFlag(cmd, "amount"); err != nil {
					return err
				}
			}
			if flags.Changed("account") {
				txn.FromAccountID, _ = flags.GetString("account")
			}
			if flags.Changed("to") {
				txn.ToAccountID, _ = flags.GetString("to")
			}
			if flags.Changed("description") {
				txn.Description, _ = flags.GetString("description")
			}
			if flags.Changed("category") {
				txn.Category, _ = flags.GetString("category")
			}
			if flags.Changed("date") {
				if txn.Date, err = dateFlag(cmd); err != nil {
					return err
				}
			}
			if clearTags, _ := flags.GetBool("clear-tags"); clearTags {
				txn.Tags = nil
			}
			if flags.Changed("tag") {
				tags, _ := flags.GetStringSlice("tag")
				txn.Tags = model.NormalizeTags(tags)
			}

			if err := model.ValidateTransactionInput(txn.Amount, txn.FromAccountID); err != nil {
				return common.NewUserError(err.Error(), err)
			}
			if err := requireAccounts(ctx, store, txn.FromAccountID, txn.ToAccountID); err != nil {
				return err
			}
			if err := store.UpdateTransaction(ctx, txn); err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}

			printLine(cmd.OutOrStdout(), cli.FormatSuccess("Updated transaction "+txn.ID))
			return nil
		},
	}

	addTransactionFlags(cmd)
	cmd.Flags().String("amount", "", "new amount")
	cmd.Flags().String("account", "", "new account id")
	cmd.Flags().Bool("clear-tags", false, "remove every tag")

	return cmd
}

func transactionsDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction and its tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			yes, _ := cmd.Flags().GetBool("yes")

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			txn, err := store.GetTransaction(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("no transaction with id %s", args[0]), err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				prompter := cli.NewPrompter(cmd.InOrStdin(), out)
				ok, err := prompter.Confirm(ctx, fmt.Sprintf("Delete %s from %s?",
					cli.FormatAmount(txn.Amount), cli.FormatDate(txn.Date)))
				if err != nil {
					return err
				}
				if !ok {
					printLine(out, cli.InfoStyle.Render("Canceled"))
					return nil
				}
			}

			if err := store.DeleteTransaction(ctx, txn.ID); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			printLine(out, cli.FormatSuccess("Deleted transaction "+txn.ID))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func transactionsTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags by how often they are used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			tags, err := store.GetTags(ctx)
			if err != nil {
				return fmt.Errorf("failed to list tags: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(tags) == 0 {
				printLine(out, cli.InfoStyle.Render("No tags yet."))
				return nil
			}
			printLine(out, cli.RenderTags(tags))
			return nil
		},
	}
}

func addTransactionFlags(cmd *cobra.Command) {
	cmd.Flags().String("to", "", "counterpart account id for a transfer")
	cmd.Flags().String("description", "", "free text description")
	cmd.Flags().String("category", "", "category name")
	cmd.Flags().StringSlice("tag", nil, "tag, repeat or comma separate for several")
	cmd.Flags().String("date", "", "date as YYYY-MM-DD (default: today)")
}

// dateFlag reads --date as a local calendar day, defaulting to now.
func dateFlag(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("date")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.ParseInLocation(cli.DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("--date: %s is not a YYYY-MM-DD date", raw), err)
	}
	return t.UTC(), nil
}

// requireAccounts checks that every non-empty id names an existing account.
func requireAccounts(ctx context.Context, store *storage.SQLiteStorage, ids ...string) error {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, err := store.GetAccount(ctx, id); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("no account with id %s", id), err)
			}
			return err
		}
	}
	return nil
}
