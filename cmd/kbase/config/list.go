package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/techcorp/kbase/pkg/config"
)

const listShortDesc string = "List all configuration keys and their current values"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(configDir)
		},
	}

	return cmd
}

func runList(configDir string) error {
	configer, err := config.NewConfiger(configDir)
	if err != nil {
		return err
	}

	cfg, err := configer.LoadConfig()
	if err != nil {
		return err
	}

	for _, key := range config.ValidConfigKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}

		fmt.Printf("%s = %s\n", key, value)
	}

	return nil
}
