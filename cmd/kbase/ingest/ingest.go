// Package ingestcmder provides the ingest command for loading documents
// from disk into the knowledge base.
package ingestcmder

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/app"
	"github.com/techcorp/kbase/pkg/config"
	"github.com/techcorp/kbase/pkg/ingest"
	"github.com/techcorp/kbase/pkg/logger"
	"github.com/techcorp/kbase/pkg/utils"
)

type ingestCommander struct {
	sqlitePath string
	debug      bool
	configDir  string
	logger     *zap.Logger
}

const ingestLongDesc string = `Ingest documents from disk into the knowledge base.

Each file is extracted, embedded, and stored. Supported formats:
PDF, DOCX, HTML, plain text, and Markdown. Files are processed
concurrently; a failed file never affects the others.

Examples:
  kbase ingest handbook.pdf
  kbase ingest -s kbase.db docs/*.md`

const ingestShortDesc string = "Ingest documents into the knowledge base"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <files...>",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(args)
		},
	}

	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite database (overrides config)")

	return cmd
}

func (c *ingestCommander) run(paths []string) error {
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

	files := make([]ingest.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		files = append(files, ingest.File{
			Name:     filepath.Base(path),
			MIMEType: mime.TypeByExtension(filepath.Ext(path)),
			Data:     data,
		})
	}

	tasks := application.Pipeline.IngestFiles(ctx, files)

	failed := 0
	for _, task := range tasks {
		if task.Status == ingest.StatusError {
			failed++
			fmt.Printf("✗ %s: %s\n", task.Name, utils.Truncate(task.Error, 120))
			continue
		}
		fmt.Printf("✓ %s\n", task.Name)
	}

	fmt.Printf("\n%d ingested, %d failed (%d documents in store)\n",
		len(tasks)-failed, failed, application.Store.Count())

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(tasks))
	}

	return nil
}
