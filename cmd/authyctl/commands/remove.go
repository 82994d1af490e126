package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authykit/authy-go/internal/config"
	userrors "github.com/authykit/authy-go/internal/errors"
)

func NewRemoveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a secret",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}

			if _, err := client.Remove(cmd.Context(), args[0]); err != nil {
				return userrors.Friendly(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}

	return cmd
}
