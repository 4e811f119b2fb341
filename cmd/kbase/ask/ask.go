// Package askcmder provides the ask command for one-shot
// retrieval-augmented questions.
package askcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/app"
	"github.com/techcorp/kbase/pkg/config"
	"github.com/techcorp/kbase/pkg/logger"
)

type askCommander struct {
	sqlitePath string
	debug      bool
	configDir  string
	logger     *zap.Logger
}

const askLongDesc string = `Ask a question against the knowledge base.

The question is embedded, the closest stored documents are retrieved,
and the generation provider answers from that context alone.

Examples:
  kbase ask "How many days is the return window?"
  kbase ask -s kbase.db "What is our refund policy?"`

const askShortDesc string = "Ask a question against the knowledge base"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite database (overrides config)")

	return cmd
}

func (c *askCommander) run(question string) error {
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

	response := application.Engine.Answer(ctx, question, nil, nil)

	fmt.Println(response.Text)
	if len(response.Sources) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(response.Sources, ", "))
	}

	return nil
}
