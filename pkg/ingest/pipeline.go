// Package ingest turns input files into stored, embedded documents and
// tracks each attempt's lifecycle.
//
// Each file is processed by an independent worker goroutine: extraction,
// then embedding, then store insertion, strictly in that order. Workers
// never block each other; the batch entry point joins on all of them
// before reporting. Failures are captured per task and never abort
// sibling tasks.
package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/embeddings"
	"github.com/techcorp/kbase/pkg/eventstream"
	"github.com/techcorp/kbase/pkg/eventstream/nop"
	"github.com/techcorp/kbase/pkg/extract"
	"github.com/techcorp/kbase/pkg/knowledge"
	"github.com/techcorp/kbase/pkg/store"
)

// File is one raw input to the ingestion pipeline.
type File struct {
	// Name is the source file name; it determines the document title
	// and, together with MIMEType, the extraction format.
	Name string

	// MIMEType is the declared content type. May be empty.
	MIMEType string

	// Data is the raw file contents.
	Data []byte
}

// Config is the configuration options for the ingestion pipeline.
type Config struct {
	// Store receives the embedded documents. Required.
	Store *store.Store

	// Embedder generates document embeddings. Required. Wrap it with
	// the fallback decorator to get the degrade-not-fail policy.
	Embedder embeddings.Embedder

	// Events receives ingestion lifecycle events. Defaults to the nop
	// publisher when nil.
	Events eventstream.Publisher

	// Logger is the provided zap logger.
	Logger *zap.Logger
}

// Pipeline processes files concurrently and funnels terminal states
// through the shared task tracker.
type Pipeline struct {
	store    *store.Store
	embedder embeddings.Embedder
	tracker  *Tracker
	events   eventstream.Publisher
	logger   *zap.Logger
}

// NewPipeline creates a pipeline with a fresh task tracker.
func NewPipeline(c *Config) (*Pipeline, error) {
	if c.Store == nil {
		return nil, fmt.Errorf("ingest pipeline: store is required")
	}
	if c.Embedder == nil {
		return nil, fmt.Errorf("ingest pipeline: embedder is required")
	}

	events := c.Events
	if events == nil {
		events = nop.NewPublisher()
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		store:    c.Store,
		embedder: c.Embedder,
		tracker:  NewTracker(),
		events:   events,
		logger:   logger,
	}, nil
}

// Tracker exposes the pipeline's task tracker for observation.
func (p *Pipeline) Tracker() *Tracker {
	return p.tracker
}

// IngestFiles processes the given files concurrently, one worker per
// file, and returns each task's final state once all workers finish.
// A failed file never affects its siblings.
func (p *Pipeline) IngestFiles(ctx context.Context, files []File) []Task {
	results := make([]Task, len(files))

	var wg sync.WaitGroup
	wg.Add(len(files))
	for i, file := range files {
		go func(i int, file File) {
			defer wg.Done()
			results[i] = p.IngestFile(ctx, file)
		}(i, file)
	}
	wg.Wait()

	return results
}

// IngestFile processes a single file: extract, embed, store. It returns
// the task's terminal state.
func (p *Pipeline) IngestFile(ctx context.Context, file File) Task {
	task := p.tracker.Create(file.Name)

	text, err := extract.Extract(file.Data, file.Name, file.MIMEType)
	if err != nil {
		return p.fail(ctx, task.ID, err.Error())
	}

	// Extraction finished; the embedding call is about to begin.
	p.tracker.markProcessing(task.ID)

	embedding, err := p.embedder.Embed(ctx, text, embeddings.TaskDocument)
	if err != nil {
		return p.fail(ctx, task.ID, fmt.Sprintf("embedding failed: %v", err))
	}

	doc := knowledge.Document{
		ID:        uuid.NewString(),
		Title:     extract.Title(file.Name),
		Content:   text,
		Embedding: embedding,
		CreatedAt: time.Now().UTC(),
	}

	if err := p.store.Add(ctx, doc); err != nil {
		return p.fail(ctx, task.ID, fmt.Sprintf("storing document: %v", err))
	}

	p.tracker.markCompleted(task.ID)
	p.publish(ctx, eventstream.NewEvent(eventstream.EventTypeDocumentIngested, doc.ID, doc.Title))

	p.logger.Info("file ingested",
		zap.String("task_id", task.ID),
		zap.String("file", file.Name),
		zap.String("document_id", doc.ID),
	)

	done, _ := p.tracker.Get(task.ID)
	return done
}

// AddEntry ingests a manual title+content pair synchronously, without a
// task: with exactly one unit of work, failures surface to the caller.
func (p *Pipeline) AddEntry(ctx context.Context, title, content string) (knowledge.Document, error) {
	if title == "" {
		return knowledge.Document{}, fmt.Errorf("title is required")
	}
	if content == "" {
		return knowledge.Document{}, fmt.Errorf("content is required")
	}

	embedding, err := p.embedder.Embed(ctx, content, embeddings.TaskDocument)
	if err != nil {
		return knowledge.Document{}, fmt.Errorf("embedding failed: %w", err)
	}

	doc := knowledge.Document{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Embedding: embedding,
		CreatedAt: time.Now().UTC(),
	}

	if err := p.store.Add(ctx, doc); err != nil {
		return knowledge.Document{}, err
	}

	p.publish(ctx, eventstream.NewEvent(eventstream.EventTypeDocumentIngested, doc.ID, doc.Title))

	return doc, nil
}

// fail marks the task as errored, publishes the failure, and returns
// the task's final state.
func (p *Pipeline) fail(ctx context.Context, taskID, message string) Task {
	p.tracker.markError(taskID, message)
	p.publish(ctx, eventstream.NewEvent(eventstream.EventTypeIngestFailed, taskID, message))

	task, _ := p.tracker.Get(taskID)
	p.logger.Warn("ingestion failed",
		zap.String("task_id", taskID),
		zap.String("file", task.Name),
		zap.String("error", message),
	)

	return task
}

// publish sends an event, logging instead of failing on publisher errors.
func (p *Pipeline) publish(ctx context.Context, event *eventstream.Event) {
	if err := p.events.Publish(ctx, event); err != nil {
		p.logger.Warn("failed to publish event",
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
	}
}
