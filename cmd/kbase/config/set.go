package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/techcorp/kbase/pkg/config"
)

const setLongDesc string = `Set a configuration value.

Writes the value for the given key into the config.toml file, creating
the file with defaults if it does not exist yet.

Examples:
  kbase config set embedding.provider ollama
  kbase config set retrieval.top_k 5
  kbase config set storage.sqlite_path /var/lib/kbase/kbase.db`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(args[0], args[1], configDir)
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

func runSet(key, value, configDir string) error {
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

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := configer.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("%s = %s\n", key, value)

	return nil
}
