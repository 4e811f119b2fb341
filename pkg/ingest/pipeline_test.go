package ingest_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/eventstream"
	"github.com/techcorp/kbase/pkg/ingest"
	"github.com/techcorp/kbase/pkg/kv/inmemory"
	"github.com/techcorp/kbase/pkg/store"
	testutils "github.com/techcorp/kbase/pkg/utils/test"
)

func ctxBG() context.Context {
	return context.Background()
}

func newTestStore() *store.Store {
	s, err := store.NewStore(context.Background(), inmemory.NewInMemoryDriver(), zap.NewNop())
	Expect(err).NotTo(HaveOccurred())
	return s
}

// newFailingPipeline builds a pipeline whose only possible outcome is an
// extraction failure, for exercising error tasks.
func newFailingPipeline() *ingest.Pipeline {
	p, err := ingest.NewPipeline(&ingest.Config{
		Store:    newTestStore(),
		Embedder: testutils.NewMockEmbedder(),
	})
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Pipeline", func() {
	var (
		ctx       context.Context
		s         *store.Store
		embedder  *testutils.MockEmbedder
		publisher *testutils.MockPublisher
		pipeline  *ingest.Pipeline
	)

	BeforeEach(func() {
		ctx = context.Background()
		s = newTestStore()
		embedder = testutils.NewMockEmbedder()
		publisher = testutils.NewMockPublisher()

		var err error
		pipeline, err = ingest.NewPipeline(&ingest.Config{
			Store:    s,
			Embedder: embedder,
			Events:   publisher,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires a store and an embedder", func() {
		_, err := ingest.NewPipeline(&ingest.Config{Embedder: embedder})
		Expect(err).To(HaveOccurred())

		_, err = ingest.NewPipeline(&ingest.Config{Store: s})
		Expect(err).To(HaveOccurred())
	})

	Describe("IngestFile", func() {
		It("stores an extracted, embedded document", func() {
			task := pipeline.IngestFile(ctx, ingest.File{
				Name:     "policy.txt",
				MIMEType: "text/plain",
				Data:     []byte("Remote work requires manager approval."),
			})

			Expect(task.Status).To(Equal(ingest.StatusCompleted))
			Expect(task.Error).To(BeEmpty())
			Expect(s.Count()).To(Equal(1))

			doc := s.Documents()[0]
			Expect(doc.Title).To(Equal("policy"))
			Expect(doc.Content).To(Equal("Remote work requires manager approval."))
			Expect(doc.Embedding).To(Equal([]float32{0.1, 0.2, 0.3}))
			Expect(doc.ID).NotTo(BeEmpty())
		})

		It("publishes a document.ingested event on success", func() {
			pipeline.IngestFile(ctx, ingest.File{
				Name: "policy.txt",
				Data: []byte("content"),
			})

			ingested := publisher.EventsOfType(eventstream.EventTypeDocumentIngested)
			Expect(ingested).To(HaveLen(1))
			Expect(ingested[0].Detail).To(Equal("policy"))
		})

		It("fails the task when extraction fails", func() {
			task := pipeline.IngestFile(ctx, ingest.File{
				Name: "image.png",
				Data: []byte{0x89, 0x50},
			})

			Expect(task.Status).To(Equal(ingest.StatusError))
			Expect(task.Error).To(ContainSubstring("unsupported file format"))
			Expect(s.Count()).To(BeZero())

			failed := publisher.EventsOfType(eventstream.EventTypeIngestFailed)
			Expect(failed).To(HaveLen(1))
			Expect(failed[0].Subject).To(Equal(task.ID))
		})

		It("fails the task when the embedder errors", func() {
			embedder.FailOn = "cursed content"

			task := pipeline.IngestFile(ctx, ingest.File{
				Name: "doc.txt",
				Data: []byte("cursed content"),
			})

			Expect(task.Status).To(Equal(ingest.StatusError))
			Expect(task.Error).To(ContainSubstring("embedding failed"))
			Expect(s.Count()).To(BeZero())
		})

		It("records the terminal state in the tracker", func() {
			task := pipeline.IngestFile(ctx, ingest.File{
				Name: "doc.txt",
				Data: []byte("content"),
			})

			tracked, ok := pipeline.Tracker().Get(task.ID)
			Expect(ok).To(BeTrue())
			Expect(tracked.Status).To(Equal(ingest.StatusCompleted))
		})
	})

	Describe("IngestFiles", func() {
		It("ingests a batch concurrently, one document per file", func() {
			const n = 20
			files := make([]ingest.File, n)
			for i := range files {
				files[i] = ingest.File{
					Name: fmt.Sprintf("doc-%d.txt", i),
					Data: []byte(fmt.Sprintf("content %d", i)),
				}
			}

			tasks := pipeline.IngestFiles(ctx, files)

			Expect(tasks).To(HaveLen(n))
			for i, task := range tasks {
				Expect(task.Status).To(Equal(ingest.StatusCompleted), "task %d", i)
				Expect(task.Name).To(Equal(files[i].Name))
			}
			Expect(s.Count()).To(Equal(n))
			Expect(pipeline.Tracker().Tasks()).To(HaveLen(n))
		})

		It("isolates failures to their own task", func() {
			embedder.FailOn = "poison"

			tasks := pipeline.IngestFiles(ctx, []ingest.File{
				{Name: "good.txt", Data: []byte("fine")},
				{Name: "bad.txt", Data: []byte("poison")},
				{Name: "also-good.txt", Data: []byte("fine too")},
			})

			Expect(tasks[0].Status).To(Equal(ingest.StatusCompleted))
			Expect(tasks[1].Status).To(Equal(ingest.StatusError))
			Expect(tasks[2].Status).To(Equal(ingest.StatusCompleted))
			Expect(s.Count()).To(Equal(2))
		})

		It("handles an empty batch", func() {
			Expect(pipeline.IngestFiles(ctx, nil)).To(BeEmpty())
		})
	})

	Describe("AddEntry", func() {
		It("stores a manual entry synchronously", func() {
			doc, err := pipeline.AddEntry(ctx, "FAQ", "How do I reset my password?")
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Title).To(Equal("FAQ"))
			Expect(doc.Embedding).To(HaveLen(3))
			Expect(s.Count()).To(Equal(1))
		})

		It("requires title and content", func() {
			_, err := pipeline.AddEntry(ctx, "", "content")
			Expect(err).To(HaveOccurred())

			_, err = pipeline.AddEntry(ctx, "title", "")
			Expect(err).To(HaveOccurred())
			Expect(s.Count()).To(BeZero())
		})

		It("surfaces embedding failures to the caller", func() {
			embedder.FailOn = "bad"

			_, err := pipeline.AddEntry(ctx, "title", "bad")
			Expect(err).To(HaveOccurred())
			Expect(s.Count()).To(BeZero())
		})
	})
})
