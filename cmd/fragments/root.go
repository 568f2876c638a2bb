package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fragments/internal/config"
	"fragments/internal/format"
)

type rootOptions struct {
	logLevel     string
	outputFormat string
	apiURL       string
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "fragments",
		Short:         "Fragments stores small pieces of text and images per user and converts them on read",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyRootOptions(cfg, opts)
		},
	}

	cmd.Version = version
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.outputFormat, "format", "json", "structured output format (json or yaml)")
	flags.StringVar(&opts.apiURL, "api-url", "", "fragments server URL (overrides config)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newMigrateCmd(cfg),
		newConfigCmd(cfg),
		newPasswdCmd(),
		newCreateCmd(cfg),
		newUpdateCmd(cfg),
		newGetCmd(cfg),
		newInfoCmd(cfg),
		newListCmd(cfg),
		newRmCmd(cfg),
	)

	return cmd
}

func applyRootOptions(cfg *config.Config, opts *rootOptions) error {
	warning, err := configureLoggerForCLI(opts.logLevel, cfg.LogLevel)
	if err != nil {
		return err
	}
	if warning != "" {
		fmt.Fprintln(os.Stderr, warning)
	}

	formatter, err := format.ForName(opts.outputFormat)
	if err != nil {
		return fmt.Errorf("invalid --format: %w", err)
	}
	outputFormatter = formatter

	if opts.apiURL != "" {
		cfg.APIURL = opts.apiURL
	}
	return nil
}
