// Package reindexcmder provides the reindex command for re-embedding
// stored documents with the configured provider.
package reindexcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/app"
	"github.com/techcorp/kbase/pkg/config"
	"github.com/techcorp/kbase/pkg/logger"
	"github.com/techcorp/kbase/pkg/reindex"
)

type reindexCommander struct {
	sqlitePath string
	dryRun     bool
	all        bool
	debug      bool
	configDir  string
	logger     *zap.Logger
}

const reindexLongDesc string = `Re-embed stored documents with the configured embedding provider.

By default only documents with a missing or degraded (all-zero)
embedding are re-embedded; --all runs the whole collection, which is
what you want after switching embedding models.

Examples:
  kbase reindex                  Fill in missing embeddings
  kbase reindex --all            Re-embed every document
  kbase reindex --dry-run        Report what would change`

const reindexShortDesc string = "Re-embed stored documents"

func NewReindexCmd() *cobra.Command {
	cmder := &reindexCommander{}

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: reindexShortDesc,
		Long:  reindexLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite database (overrides config)")
	cmd.Flags().BoolVar(&cmder.dryRun, "dry-run", false, "Embed but write nothing back")
	cmd.Flags().BoolVar(&cmder.all, "all", false, "Re-embed every document, not just missing embeddings")

	return cmd
}

func (c *reindexCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}
	cfg := config.ConfigFromViper(v)

	if c.sqlitePath != "" {
		cfg.Storage.SQLitePath = c.sqlitePath
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg, c.configDir, c.logger)
	if err != nil {
		return err
	}
	defer application.Close()

	// The raw provider, not the fallback wrapper: a failed embed must
	// count as failed, not silently write another zero vector.
	reindexer, err := reindex.NewReindexer(application.Store, application.Provider, reindex.Options{
		DryRun: c.dryRun,
		All:    c.all,
	}, c.logger)
	if err != nil {
		return err
	}

	result, err := reindexer.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(result.Summary())

	return nil
}
