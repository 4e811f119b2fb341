// Package kbasecmder
package kbasecmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/techcorp/kbase/cmd/kbase/ask"
	authcmder "github.com/techcorp/kbase/cmd/kbase/auth"
	configcmder "github.com/techcorp/kbase/cmd/kbase/config"
	ingestcmder "github.com/techcorp/kbase/cmd/kbase/ingest"
	reindexcmder "github.com/techcorp/kbase/cmd/kbase/reindex"
	servecmder "github.com/techcorp/kbase/cmd/kbase/serve"
	versioncmder "github.com/techcorp/kbase/cmd/kbase/version"
)

const kbaseLongDesc string = `Kbase is a self-hosted knowledge base with retrieval-augmented answers.

Ingest documents and ask questions:
  kbase serve             Run the API server
  kbase ingest <files>    Ingest documents from disk
  kbase ask "question"    Ask a question against the knowledge base`

const kbaseShortDesc string = "Kbase - Knowledge Base with RAG"

func NewKbaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kbase",
		Short: kbaseShortDesc,
		Long:  kbaseLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Config directory (default: ~/.kbase)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(reindexcmder.NewReindexCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
