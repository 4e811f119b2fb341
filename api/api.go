package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/embeddings"
	"github.com/techcorp/kbase/pkg/ingest"
	"github.com/techcorp/kbase/pkg/rag"
	"github.com/techcorp/kbase/pkg/store"
)

// Server is the API server for managing and querying the knowledge base.
type Server struct {
	config   Config
	store    *store.Store
	pipeline *ingest.Pipeline
	engine   *rag.Engine
	embedder embeddings.Embedder
	logger   *zap.Logger
	app      *fiber.App
}

// NewServer creates a new API server. The store, pipeline, engine, and
// embedder are injected so a single store instance is shared by
// ingestion and retrieval.
func NewServer(config Config, st *store.Store, pipeline *ingest.Pipeline, engine *rag.Engine, embedder embeddings.Embedder, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		store:    st,
		pipeline: pipeline,
		engine:   engine,
		embedder: embedder,
		logger:   logger,
		app:      app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/documents", s.handleListDocuments)
	app.Post("/v1/documents", s.handleAddDocument)
	app.Delete("/v1/documents/:id", s.handleDeleteDocument)
	app.Post("/v1/upload", s.handleUpload)
	app.Get("/v1/tasks", s.handleListTasks)
	app.Delete("/v1/tasks/finished", s.handleClearFinishedTasks)
	app.Get("/v1/search", s.handleSearch)
	app.Post("/v1/chat", s.handleChat)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
