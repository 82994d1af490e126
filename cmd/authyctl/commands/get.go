package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authykit/authy-go/internal/config"
	userrors "github.com/authykit/authy-go/internal/errors"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Get a single secret value",
		Long: `Retrieve and display a single secret value.

By default, only the raw value is printed, making it suitable for scripting.

Examples:
  # Get a single value
  authyctl get db-url

  # Get value with metadata in JSON format
  authyctl get api-key --json

  # Use in scripts
  export DATABASE_URL=$(authyctl get db-url)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}

			secret, err := client.GetSecret(cmd.Context(), args[0])
			if err != nil {
				return userrors.Friendly(err)
			}

			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(map[string]interface{}{
					"name":     secret.Name,
					"value":    secret.Value,
					"version":  secret.Version,
					"created":  secret.Created,
					"modified": secret.Modified,
				})
			}

			fmt.Fprint(cmd.OutOrStdout(), secret.Value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format with metadata")

	return cmd
}
