package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/hooks"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func accountsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage accounts",
	}

	cmd.AddCommand(accountsListCmd(a))
	cmd.AddCommand(accountsAddCmd(a))
	cmd.AddCommand(accountsUpdateCmd(a))
	cmd.AddCommand(accountsDeleteCmd(a))

	return cmd
}

func accountsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			state := hooks.NewAccounts(ctx, store).State()
			if state.Err != nil {
				return fmt.Errorf("failed to list accounts: %w", state.Err)
			}

			out := cmd.OutOrStdout()
			if len(state.Accounts) == 0 {
				printLine(out, cli.InfoStyle.Render("No accounts yet. Use 'ledger accounts add' to create one."))
				return nil
			}
			printLine(out, cli.RenderAccounts(state.Accounts))
			return nil
		},
	}
}

func accountsAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an account",
		Example: `  ledger accounts add Wallet --balance 100
  ledger accounts add "Savings account" --balance 2500.50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			if err := model.ValidateAccountInput(name); err != nil {
				return common.NewUserError(err.Error(), err)
			}
			balance, err := amountFlag(cmd, "balance")
			if err != nil {
				return err
			}

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			account := model.NewAccount(uuid.NewString(), name, balance, time.Now())
			if err := hooks.NewAccounts(ctx, store).Add(ctx, account); err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			printLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created account %s (%s)", account.Name, account.ID)))
			return nil
		},
	}

	cmd.Flags().String("balance", "0", "initial balance")

	return cmd
}

func accountsUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename an account or change its initial balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			existing, err := store.GetAccount(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("no account with id %s", args[0]), err)
			}
			if err != nil {
				return err
			}
			account := *existing

			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				if err := model.ValidateAccountInput(name); err != nil {
					return common.NewUserError(err.Error(), err)
				}
				account.Name = name
			}
			if cmd.Flags().Changed("balance") {
				if account.InitialBalance, err = amountFlag(cmd, "balance"); err != nil {
					return err
				}
			}

			if err := hooks.NewAccounts(ctx, store).Edit(ctx, account); err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}

			printLine(cmd.OutOrStdout(), cli.FormatSuccess("Updated account "+account.Name))
			return nil
		},
	}

	cmd.Flags().String("name", "", "new account name")
	cmd.Flags().String("balance", "", "new initial balance")

	return cmd
}

func accountsDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Long: `Delete an account. Transactions recorded against it are kept and
are shown against a removed account afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			yes, _ := cmd.Flags().GetBool("yes")

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			account, err := store.GetAccount(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("no account with id %s", args[0]), err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				prompter := cli.NewPrompter(cmd.InOrStdin(), out)
				ok, err := prompter.Confirm(ctx, fmt.Sprintf("Delete account %s? Its transactions are kept.", account.Name))
				if err != nil {
					return err
				}
				if !ok {
					printLine(out, cli.InfoStyle.Render("Canceled"))
					return nil
				}
			}

			if err := hooks.NewAccounts(ctx, store).Remove(ctx, account.ID); err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}

			printLine(out, cli.FormatSuccess("Deleted account "+account.Name))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func amountFlag(cmd *cobra.Command, name string) (float64, error) {
	raw, _ := cmd.Flags().GetString(name)
	amount, err := model.ParseAmount(raw)
	if err != nil {
		return 0, common.NewUserError(fmt.Sprintf("--%s: %s is not a valid amount", name, raw), err)
	}
	return amount, nil
}
