package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/authykit/authy-go/cmd/authyctl/commands"
	"github.com/authykit/authy-go/internal/config"
	"github.com/authykit/authy-go/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "authyctl",
		Short: "Command-line client for the authy secrets vault",
		Long: `authyctl drives a locally installed authy vault: store, read, rotate and
list secrets, or launch commands with the vault's secrets injected as
environment variables.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(debug, noColor)

			cfg.Path = configFile
			if cfg.Path == "" {
				cfg.Path = config.DefaultPath()
			}
			cfg.Logger = logger
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: authyctl.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewInitCommand(cfg),
		commands.NewGetCommand(cfg),
		commands.NewStoreCommand(cfg),
		commands.NewRemoveCommand(cfg),
		commands.NewRotateCommand(cfg),
		commands.NewListCommand(cfg),
		commands.NewRunCommand(cfg),
		commands.NewImportCommand(cfg),
		commands.NewLoginCommand(cfg),
		commands.NewLogoutCommand(cfg),
		commands.NewStatusCommand(cfg),
	)

	return rootCmd.Execute()
}
