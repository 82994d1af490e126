package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/authykit/authy-go/internal/config"
	userrors "github.com/authykit/authy-go/internal/errors"
	"github.com/authykit/authy-go/pkg/vault"
)

func NewListCommand(cfg *config.Config) *cobra.Command {
	var (
		scope      string
		long       bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List secrets in the vault",
		Long: `List the names of the secrets in the vault, in the order the vault
reports them.

Examples:
  authyctl list
  authyctl list --scope ci --long`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}

			var opts []vault.CallOption
			if s := effectiveScope(scope, cfg.Definition); s != "" {
				opts = append(opts, vault.WithScope(s))
			}
			entries, err := client.Entries(cmd.Context(), opts...)
			if err != nil {
				return userrors.Friendly(err)
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOutput:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(entries)
			case long:
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tVERSION\tMODIFIED")
				for _, entry := range entries {
					fmt.Fprintf(w, "%s\t%d\t%s\n", entry.Name, entry.Version, entry.Modified)
				}
				return w.Flush()
			default:
				for _, entry := range entries {
					fmt.Fprintln(out, entry.Name)
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Only list secrets in this scope")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show version and modification time")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
