package main

import (
	"github.com/spf13/cobra"

	"fragments/internal/api"
	"fragments/internal/config"
)

func newUpdateCmd(cfg *config.Config) *cobra.Command {
	opts := &writeCmdOptions{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a fragment's data; the content type must not change",
		Args:  requireFragmentID,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, contentType, err := opts.load()
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				fragment, err := client.Update(cmd.Context(), args[0], contentType, data)
				if err != nil {
					return err
				}
				return writeJSON(fragment)
			})
		},
	}

	bindWriteFlags(cmd, opts)
	return cmd
}
