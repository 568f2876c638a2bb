package main

import (
	"github.com/spf13/cobra"

	"fragments/internal/api"
	"fragments/internal/config"
)

type writeCmdOptions struct {
	contentType string
	filePath    string
}

func bindWriteFlags(cmd *cobra.Command, opts *writeCmdOptions) {
	cmd.Flags().StringVarP(&opts.contentType, "type", "t", "", "fragment content type (inferred from --file extension when omitted)")
	cmd.Flags().StringVarP(&opts.filePath, "file", "f", "-", "read data from file (- for stdin)")
}

// load returns the request body and its content type.
func (o *writeCmdOptions) load() ([]byte, string, error) {
	contentType, err := resolveContentType(o.contentType, o.filePath)
	if err != nil {
		return nil, "", err
	}
	data, err := readInput(o.filePath)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

func newCreateCmd(cfg *config.Config) *cobra.Command {
	opts := &writeCmdOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a fragment from a file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, contentType, err := opts.load()
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				fragment, location, err := client.Create(cmd.Context(), contentType, data)
				if err != nil {
					return err
				}
				return writeJSON(map[string]any{"fragment": fragment, "location": location})
			})
		},
	}

	bindWriteFlags(cmd, opts)
	return cmd
}
