package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authykit/authy-go/internal/config"
	userrors "github.com/authykit/authy-go/internal/errors"
	"github.com/authykit/authy-go/pkg/vault"
)

func NewStatusCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether a vault exists",
		Long: `Check whether an authy vault has been initialized on this machine. The
probe needs no credentials, so status works before login.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			exists, err := probe(cmd, cfg.Definition.Binary)
			if err != nil {
				return userrors.Friendly(err)
			}

			if exists {
				fmt.Fprintln(cmd.OutOrStdout(), "Vault: initialized")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Vault: not initialized (run 'authyctl init')")
			}
			return nil
		},
	}

	return cmd
}

// probe dispatches to the real executable probe, or to the test runner when
// one is injected.
func probe(cmd *cobra.Command, binary string) (bool, error) {
	if testRunner != nil {
		client, err := vault.New(vault.WithRunner(testRunner))
		if err != nil {
			return false, err
		}
		return client.Probe(cmd.Context())
	}
	return vault.IsInitialized(cmd.Context(), binary)
}
