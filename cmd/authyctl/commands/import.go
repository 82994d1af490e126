package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authykit/authy-go/internal/config"
	userrors "github.com/authykit/authy-go/internal/errors"
	"github.com/authykit/authy-go/pkg/vault"
)

func NewImportCommand(cfg *config.Config) *cobra.Command {
	var (
		force     bool
		from      string
		fromVault string
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import secrets from a .env file or an external manager",
		Long: `Import secrets in bulk, either from a .env file or from an external
secrets manager.

Examples:
  # Import a .env file
  authyctl import .env.production

  # Overwrite colliding names
  authyctl import .env.production --force

  # Import from an external manager
  authyctl import --from 1password --vault Private`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (from == "") {
				return userrors.UserError{
					Message:    "Specify either a file to import or an external source",
					Suggestion: "Use 'authyctl import <file>' or 'authyctl import --from <source>'",
				}
			}

			client, err := buildClient(cfg)
			if err != nil {
				return err
			}

			if from != "" {
				var opts []vault.ImportOption
				if fromVault != "" {
					opts = append(opts, vault.ImportVault(fromVault))
				}
				if err := client.ImportFrom(cmd.Context(), from, opts...); err != nil {
					return userrors.Friendly(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported secrets from %s\n", from)
				return nil
			}

			var opts []vault.CallOption
			if force {
				opts = append(opts, vault.Force())
			}
			if err := client.Import(cmd.Context(), args[0], opts...); err != nil {
				return userrors.Friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite secrets that already exist")
	cmd.Flags().StringVar(&from, "from", "", "External source to import from (e.g. 1password)")
	cmd.Flags().StringVar(&fromVault, "vault", "", "Source-side vault name for --from imports")

	return cmd
}
