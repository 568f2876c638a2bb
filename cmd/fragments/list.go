package main

import (
	"github.com/spf13/cobra"

	"fragments/internal/api"
	"fragments/internal/config"
)

func newListCmd(cfg *config.Config) *cobra.Command {
	var expand, plain bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your fragments",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				if !expand {
					ids, err := client.List(cmd.Context())
					if err != nil {
						return err
					}
					if plain {
						for _, id := range ids {
							if err := writePlain("%s\n", id); err != nil {
								return err
							}
						}
						return nil
					}
					return writeJSON(ids)
				}

				fragments, err := client.ListExpanded(cmd.Context())
				if err != nil {
					return err
				}
				if plain {
					return writeFragmentList(fragments)
				}
				return writeJSON(fragments)
			})
		},
	}

	cmd.Flags().BoolVar(&expand, "expand", false, "include metadata for every fragment")
	cmd.Flags().BoolVar(&plain, "plain", false, "print one fragment per line")
	return cmd
}
