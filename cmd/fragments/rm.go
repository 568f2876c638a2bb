package main

import (
	"github.com/spf13/cobra"

	"fragments/internal/api"
	"fragments/internal/config"
)

func newRmCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a fragment and its data",
		Args:    requireFragmentID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				if err := client.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				return writePlain("%s\n", args[0])
			})
		},
	}
}
