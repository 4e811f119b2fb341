package api

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/embeddings"
	"github.com/techcorp/kbase/pkg/ingest"
	"github.com/techcorp/kbase/pkg/knowledge"
	"github.com/techcorp/kbase/pkg/llm"
)

// AddDocumentRequest is the body for POST /v1/documents.
type AddDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ChatRequest is the body for POST /v1/chat.
type ChatRequest struct {
	Query   string           `json:"query"`
	History []llm.Message    `json:"history,omitempty"`
	Audio   *llm.InlineAudio `json:"audio,omitempty"`
}

// UploadResponse is the body returned by POST /v1/upload.
type UploadResponse struct {
	Tasks []ingest.Task `json:"tasks"`
}

// SearchResponse is the body returned by GET /v1/search.
type SearchResponse struct {
	Query   string            `json:"query"`
	Results []knowledge.Match `json:"results"`
	Count   int               `json:"count"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleListDocuments returns the stored documents in insertion order.
func (s *Server) handleListDocuments(c *fiber.Ctx) error {
	return c.JSON(s.store.Documents())
}

// handleAddDocument ingests a manual title+content pair synchronously.
func (s *Server) handleAddDocument(c *fiber.Ctx) error {
	var req AddDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	doc, err := s.pipeline.AddEntry(c.Context(), req.Title, req.Content)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

// handleDeleteDocument removes a document. Deletion is idempotent, so
// unknown ids also return 204.
func (s *Server) handleDeleteDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "id parameter required"})
	}

	if err := s.store.Delete(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// handleUpload ingests the uploaded files concurrently and returns the
// final task states.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "multipart form required"})
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "at least one file is required"})
	}

	files := make([]ingest.File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "reading upload: " + err.Error()})
		}

		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "reading upload: " + err.Error()})
		}

		files = append(files, ingest.File{
			Name:     header.Filename,
			MIMEType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	tasks := s.pipeline.IngestFiles(c.Context(), files)

	s.logger.Info("upload processed",
		zap.Int("files", len(files)),
	)

	return c.JSON(UploadResponse{Tasks: tasks})
}

// handleListTasks returns the task list, newest first.
func (s *Server) handleListTasks(c *fiber.Ctx) error {
	return c.JSON(s.pipeline.Tracker().Tasks())
}

// handleClearFinishedTasks removes all terminal tasks.
func (s *Server) handleClearFinishedTasks(c *fiber.Ctx) error {
	removed := s.pipeline.Tracker().ClearFinished()

	return c.JSON(fiber.Map{"removed": removed})
}

// handleSearch embeds the query and ranks stored documents against it.
// Query parameters:
//   - query (required): the search query text
//   - top_k (optional, default 3): number of results to return
func (s *Server) handleSearch(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "query parameter is required"})
	}

	topK := 3
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "top_k must be a positive integer"})
		}
		topK = parsed
	}

	queryEmbedding, err := s.embedder.Embed(c.Context(), query, embeddings.TaskQuery)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to embed query"})
	}

	results := s.store.Search(queryEmbedding, topK)

	return c.JSON(SearchResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
	})
}

// handleChat answers a query with retrieval-augmented generation.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.Query == "" && req.Audio == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "query or audio is required"})
	}

	response := s.engine.Answer(c.Context(), req.Query, req.History, req.Audio)

	return c.JSON(response)
}
