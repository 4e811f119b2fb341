// Package configcmder provides the config command for reading and
// writing the persistent configuration.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage the persistent Kbase configuration.

Values are stored as config.toml in the config directory
(default: ~/.kbase). Keys use dotted notation matching the TOML
section structure, e.g. embedding.model or retrieval.top_k.`

const configShortDesc string = "Manage Kbase configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
