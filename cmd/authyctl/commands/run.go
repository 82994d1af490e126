package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/authykit/authy-go/internal/config"
	userrors "github.com/authykit/authy-go/internal/errors"
	"github.com/authykit/authy-go/pkg/vault"
)

// exitFunc is swapped out in tests.
var exitFunc = os.Exit

func NewRunCommand(cfg *config.Config) *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "run [--scope <name>] -- <command> [args...]",
		Short: "Run a command with the vault's secrets in its environment",
		Long: `Run a command through the vault, which injects the applicable secrets as
environment variables into the child process. The child's output is relayed
and its exit code becomes authyctl's exit code.

The command must be separated from authyctl arguments with '--'.

Examples:
  authyctl run -- npm start
  authyctl run --scope ci -- ./deploy.sh`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return userrors.UserError{
					Message:    "No command specified",
					Suggestion: "Use: authyctl run -- <command> [args...]",
				}
			}

			client, err := buildClient(cfg)
			if err != nil {
				return err
			}

			var opts []vault.CallOption
			if s := effectiveScope(scope, cfg.Definition); s != "" {
				opts = append(opts, vault.WithScope(s))
			}
			result, err := client.Run(cmd.Context(), args, opts...)
			if err != nil {
				return userrors.Friendly(err)
			}

			fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
			fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)

			if result.ExitCode != 0 {
				// Relay the child's exit code without a second error message.
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				exitFunc(result.ExitCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Run with only this scope's secrets")

	return cmd
}
