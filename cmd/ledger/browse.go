package main

import (
	"github.com/Veraticus/spice-ledger/internal/tui"
	"github.com/spf13/cobra"
)

func browseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse transactions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			accountID, _ := cmd.Flags().GetString("account")

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			return tui.Run(ctx, tui.Config{
				Storage:   store,
				AccountID: accountID,
				PageSize:  a.cfg.PageSize,
			})
		},
	}

	cmd.Flags().String("account", "", "start filtered to this account id")

	return cmd
}
