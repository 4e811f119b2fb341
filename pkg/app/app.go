// Package app is the composition root: it builds the knowledge-base
// components from configuration and wires them together. The store is
// constructed exactly once per process and passed by reference to both
// the ingestion pipeline and the retrieval engine.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/config"
	"github.com/techcorp/kbase/pkg/credentials"
	"github.com/techcorp/kbase/pkg/embeddings"
	"github.com/techcorp/kbase/pkg/embeddings/fallback"
	embeddingutils "github.com/techcorp/kbase/pkg/embeddings/utils"
	"github.com/techcorp/kbase/pkg/eventstream"
	"github.com/techcorp/kbase/pkg/eventstream/kafka"
	"github.com/techcorp/kbase/pkg/eventstream/nop"
	"github.com/techcorp/kbase/pkg/ingest"
	"github.com/techcorp/kbase/pkg/kv"
	"github.com/techcorp/kbase/pkg/kv/inmemory"
	"github.com/techcorp/kbase/pkg/kv/sqlite"
	"github.com/techcorp/kbase/pkg/llm"
	llmutils "github.com/techcorp/kbase/pkg/llm/utils"
	"github.com/techcorp/kbase/pkg/rag"
	"github.com/techcorp/kbase/pkg/store"
)

// App holds the wired component graph for one process.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	KV        kv.Driver
	Store     *store.Store
	Embedder  embeddings.Embedder
	Generator llm.Generator
	Events    eventstream.Publisher
	Pipeline  *ingest.Pipeline
	Engine    *rag.Engine

	// Provider is the raw embedding client underneath the fallback
	// wrapper in Embedder, for callers that must see provider errors
	// instead of degraded zero vectors.
	Provider embeddings.Embedder
}

// New builds the full component graph from the given configuration.
// configDir overrides the .kbase/ directory used for stored credentials;
// empty means the standard resolution.
func New(ctx context.Context, cfg *config.Config, configDir string, logger *zap.Logger) (*App, error) {
	kvDriver, err := newKVDriver(cfg, logger)
	if err != nil {
		return nil, err
	}

	st, err := store.NewStore(ctx, kvDriver, logger)
	if err != nil {
		kvDriver.Close()
		return nil, err
	}

	events, err := newPublisher(cfg, logger)
	if err != nil {
		kvDriver.Close()
		return nil, err
	}

	provider, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		APIKey:       resolveAPIKey(cfg.Embedding.Provider, configDir),
	})
	if err != nil {
		kvDriver.Close()
		return nil, err
	}

	embedder, err := fallback.NewEmbedder(fallback.Config{
		Inner:      provider,
		Dimensions: int(cfg.Embedding.Dimensions),
		Events:     events,
		Logger:     logger,
	})
	if err != nil {
		kvDriver.Close()
		return nil, err
	}

	generator, err := llmutils.NewGenerator(&llmutils.NewGeneratorOpts{
		ProviderType: cfg.Generation.Provider,
		TargetURL:    cfg.Generation.Target,
		Model:        cfg.Generation.Model,
		APIKey:       resolveAPIKey(cfg.Generation.Provider, configDir),
	})
	if err != nil {
		kvDriver.Close()
		return nil, err
	}

	pipeline, err := ingest.NewPipeline(&ingest.Config{
		Store:    st,
		Embedder: embedder,
		Events:   events,
		Logger:   logger,
	})
	if err != nil {
		kvDriver.Close()
		return nil, err
	}

	engine, err := rag.NewEngine(&rag.Config{
		Store:       st,
		Embedder:    embedder,
		Generator:   generator,
		TopK:        cfg.Retrieval.TopK,
		Temperature: cfg.Generation.Temperature,
		Logger:      logger,
	})
	if err != nil {
		kvDriver.Close()
		return nil, err
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		KV:        kvDriver,
		Store:     st,
		Embedder:  embedder,
		Generator: generator,
		Events:    events,
		Pipeline:  pipeline,
		Engine:    engine,
		Provider:  provider,
	}, nil
}

// Close releases all held resources.
func (a *App) Close() {
	a.Embedder.Close()
	a.Generator.Close()
	a.Events.Close()
	a.KV.Close()
}

func newKVDriver(cfg *config.Config, logger *zap.Logger) (kv.Driver, error) {
	if cfg.Storage.SQLitePath != "" {
		driver, err := sqlite.NewSQLiteDriver(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite blob store: %w", err)
		}
		logger.Info("using SQLite storage", zap.String("path", cfg.Storage.SQLitePath))
		return driver, nil
	}

	logger.Info("using in-memory storage")
	return inmemory.NewInMemoryDriver(), nil
}

func newPublisher(cfg *config.Config, logger *zap.Logger) (eventstream.Publisher, error) {
	if cfg.Eventstream.Enabled && len(cfg.Eventstream.Brokers) > 0 {
		return kafka.NewPublisher(kafka.Config{
			Brokers: cfg.Eventstream.Brokers,
			Topic:   cfg.Eventstream.Topic,
		}, logger)
	}

	return nop.NewPublisher(), nil
}

// resolveAPIKey looks up the provider's API key: environment first, then
// the credentials stored by `kbase auth`.
func resolveAPIKey(provider, configDir string) string {
	if !credentials.IsSupportedProvider(provider) {
		return ""
	}

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return ""
	}

	return mgr.Resolve(provider)
}
