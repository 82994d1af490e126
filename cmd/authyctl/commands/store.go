package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authykit/authy-go/internal/config"
	userrors "github.com/authykit/authy-go/internal/errors"
	"github.com/authykit/authy-go/pkg/vault"
)

func NewStoreCommand(cfg *config.Config) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "store <name>",
		Short: "Store a new secret",
		Long: `Store a secret under a name. The value is read from stdin so it never
appears in shell history or the process list.

Examples:
  # Store from a pipe
  echo -n "postgres://localhost/mydb" | authyctl store db-url

  # Store a file's contents
  authyctl store tls-key < server.key

  # Overwrite an existing secret
  echo -n "new-value" | authyctl store db-url --force`,
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

			var opts []vault.CallOption
			if force {
				opts = append(opts, vault.Force())
			}
			if err := client.Store(cmd.Context(), args[0], value, opts...); err != nil {
				return userrors.Friendly(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite the secret if it already exists")

	return cmd
}
