package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/techcorp/kbase/pkg/config"
)

const getLongDesc string = `Get a configuration value.

Reads the value for the given key from the config.toml file.
Keys use dotted notation matching the TOML section structure.

Examples:
  kbase config get embedding.model
  kbase config get retrieval.top_k`

const getShortDesc string = "Get a configuration value"

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runGet(args[0], configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runGet(key, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	configer, err := config.NewConfiger(configDir)
	if err != nil {
		return err
	}

	cfg, err := configer.LoadConfig()
	if err != nil {
		return err
	}

	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	fmt.Println(value)

	return nil
}
