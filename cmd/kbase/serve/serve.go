// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/techcorp/kbase/api"
	"github.com/techcorp/kbase/pkg/app"
	"github.com/techcorp/kbase/pkg/config"
	"github.com/techcorp/kbase/pkg/logger"
)

type serveCommander struct {
	listen     string
	sqlitePath string
	debug      bool
	configDir  string
	logger     *zap.Logger
}

const serveLongDesc string = `Run the Kbase API server.

The server exposes document management, file upload, task tracking,
semantic search, and retrieval-augmented chat endpoints.`

const serveShortDesc string = "Run the Kbase API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for API server to listen on (overrides config)")
	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite database (overrides config; default: in-memory)")

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}
	cfg := config.ConfigFromViper(v)

	if c.listen != "" {
		cfg.API.Listen = c.listen
	}
	if c.sqlitePath != "" {
		cfg.Storage.SQLitePath = c.sqlitePath
	}

	application, err := app.New(context.Background(), cfg, c.configDir, c.logger)
	if err != nil {
		return err
	}
	defer application.Close()

	server := api.NewServer(
		api.Config{ListenAddr: cfg.API.Listen},
		application.Store,
		application.Pipeline,
		application.Engine,
		application.Embedder,
		c.logger,
	)

	// Shut the server down on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		c.logger.Info("shutting down", zap.String("signal", sig.String()))
		if err := server.Shutdown(); err != nil {
			c.logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	c.logger.Info("starting API server",
		zap.String("listen", cfg.API.Listen),
		zap.Int("documents", application.Store.Count()),
	)

	return server.Run()
}
