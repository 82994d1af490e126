package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authykit/authy-go/internal/config"
	userrors "github.com/authykit/authy-go/internal/errors"
)

func NewRotateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotate <name>",
		Short: "Replace a secret's value and bump its version",
		Long: `Replace an existing secret's value. The new value is read from stdin,
like store. The new version number is printed on success.

Examples:
  openssl rand -hex 32 | authyctl rotate api-key`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := readValue(cmd.InOrStdin())
			if err != nil {
				return err
			}

			client, err := buildClient(cfg)
			if err != nil {
				return err
			}

			version, err := client.Rotate(cmd.Context(), args[0], value)
			if err != nil {
				return userrors.Friendly(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rotated %s (now version %d)\n", args[0], version)
			return nil
		},
	}

	return cmd
}
