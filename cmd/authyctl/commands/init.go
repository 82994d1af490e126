package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authykit/authy-go/internal/config"
	userrors "github.com/authykit/authy-go/internal/errors"
)

func NewInitCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}

			if err := client.Init(cmd.Context()); err != nil {
				return userrors.Friendly(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Vault initialized")
			return nil
		},
	}

	return cmd
}
