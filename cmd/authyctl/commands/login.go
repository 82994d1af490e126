package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authykit/authy-go/internal/config"
	"github.com/authykit/authy-go/internal/credstore"
	userrors "github.com/authykit/authy-go/internal/errors"
)

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the vault passphrase in the OS keychain",
		Long: `Store the vault passphrase in the operating system keychain so later
commands do not need AUTHY_PASSPHRASE in the environment. The passphrase is
read from stdin.

Set 'passphrase_from: keyring' in authyctl.yaml to make commands use it.

Examples:
  authyctl login < /dev/tty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			passphrase, err := readValue(cmd.InOrStdin())
			if err != nil {
				return err
			}

			if !credstore.Available() {
				return userrors.UserError{
					Message:    "No keychain available in this environment",
					Suggestion: "Set AUTHY_PASSPHRASE in the environment instead",
				}
			}
			if err := credstore.New().Save(account, passphrase); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Passphrase stored in keychain")
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Keychain account name (default: 'default')")

	return cmd
}

func NewLogoutCommand(cfg *config.Config) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the vault passphrase from the OS keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credstore.New().Delete(account); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Passphrase removed from keychain")
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Keychain account name (default: 'default')")

	return cmd
}
