package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fragments/internal/api"
	"fragments/internal/config"
)

func newGetCmd(cfg *config.Config) *cobra.Command {
	var ext, out string
	var showType bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a fragment's data, optionally converted with --ext",
		Args:  requireFragmentID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				data, contentType, err := client.Get(cmd.Context(), args[0], ext)
				if err != nil {
					return err
				}
				if showType {
					fmt.Fprintf(os.Stderr, "content-type: %s\n", contentType)
				}
				if out != "" && out != "-" {
					return os.WriteFile(out, data, 0o644)
				}
				_, err = stdout.Write(data)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&ext, "ext", "e", "", "convert to the type for this extension (html, txt, json, yaml, png, ...)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write data to file instead of stdout")
	cmd.Flags().BoolVar(&showType, "show-type", false, "print the response content type to stderr")
	return cmd
}
