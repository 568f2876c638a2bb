package main

import (
	"github.com/spf13/cobra"

	"fragments/internal/api"
	"fragments/internal/config"
)

func newInfoCmd(cfg *config.Config) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "info <id>",
		Short: "Show fragment metadata and the formats it can be converted to",
		Args:  requireFragmentID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				fragment, err := client.Info(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if plain {
					return writeFragmentDetail(fragment)
				}
				return writeJSON(fragment)
			})
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print key: value lines instead of structured output")
	return cmd
}
