package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/workspace-mcp/internal/credentials"
)

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage stored Google accounts",
	}

	cmd.AddCommand(newAccountsListCmd())
	cmd.AddCommand(newAccountsRemoveCmd())

	return cmd
}

func newAccountsListCmd() *cobra.Command {
	var flags credentialFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer cancel()

			sc, err := flags.openContext(ctx, cmd)
			if err != nil {
				return err
			}
			defer sc.Shutdown() //nolint:errcheck

			users, err := sc.Store().Users(ctx)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}
			if len(users) == 0 {
				fmt.Println("No accounts stored. Run 'workspace-mcp auth' to authorize one.")
				return nil
			}
			for _, user := range users {
				fmt.Println(user)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newAccountsRemoveCmd() *cobra.Command {
	var flags credentialFlags

	cmd := &cobra.Command{
		Use:   "remove <email>",
		Short: "Remove an account's stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer cancel()

			sc, err := flags.openContext(ctx, cmd)
			if err != nil {
				return err
			}
			defer sc.Shutdown() //nolint:errcheck

			account := credentials.NormalizeEmail(args[0])
			if err := sc.Store().Delete(ctx, account); err != nil {
				return fmt.Errorf("failed to remove %s: %w", account, err)
			}
			sc.Cache().InvalidateUser(account)
			sc.Sessions().UnbindAccount(account)

			fmt.Printf("Removed credential for %s\n", account)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
