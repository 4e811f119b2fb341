package fallback_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/techcorp/kbase/pkg/embeddings"
	"github.com/techcorp/kbase/pkg/embeddings/fallback"
	"github.com/techcorp/kbase/pkg/eventstream"
	testutils "github.com/techcorp/kbase/pkg/utils/test"
)

var _ = Describe("Embedder", func() {
	var (
		ctx       context.Context
		inner     *testutils.MockEmbedder
		publisher *testutils.MockPublisher
		embedder  *fallback.Embedder
	)

	BeforeEach(func() {
		ctx = context.Background()
		inner = testutils.NewMockEmbedder()
		publisher = testutils.NewMockPublisher()

		var err error
		embedder, err = fallback.NewEmbedder(fallback.Config{
			Inner:      inner,
			Dimensions: 3,
			Events:     publisher,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires an inner embedder", func() {
		_, err := fallback.NewEmbedder(fallback.Config{Dimensions: 3})
		Expect(err).To(HaveOccurred())
	})

	It("requires positive dimensions", func() {
		_, err := fallback.NewEmbedder(fallback.Config{Inner: inner})
		Expect(err).To(HaveOccurred())
	})

	It("passes through the provider's vector on success", func() {
		inner.Embeddings["hello"] = []float32{0.5, 0.6, 0.7}

		vec, err := embedder.Embed(ctx, "hello", embeddings.TaskDocument)
		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(Equal([]float32{0.5, 0.6, 0.7}))
		Expect(publisher.Events()).To(BeEmpty())
	})

	It("forwards the task hint to the provider", func() {
		_, err := embedder.Embed(ctx, "q", embeddings.TaskQuery)
		Expect(err).NotTo(HaveOccurred())
		Expect(inner.Tasks).To(Equal([]embeddings.Task{embeddings.TaskQuery}))
	})

	It("returns a zero vector instead of the provider's error", func() {
		inner.FailOn = "bad input"

		vec, err := embedder.Embed(ctx, "bad input", embeddings.TaskDocument)
		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(Equal([]float32{0, 0, 0}))
	})

	It("replaces a wrong-length vector with a zero vector", func() {
		inner.Embeddings["short"] = []float32{1}

		vec, err := embedder.Embed(ctx, "short", embeddings.TaskDocument)
		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(HaveLen(3))
		Expect(vec).To(Equal([]float32{0, 0, 0}))
	})

	It("publishes a degraded event on fallback", func() {
		inner.FailOn = "bad input"

		_, err := embedder.Embed(ctx, "bad input", embeddings.TaskDocument)
		Expect(err).NotTo(HaveOccurred())

		degraded := publisher.EventsOfType(eventstream.EventTypeEmbeddingDegraded)
		Expect(degraded).To(HaveLen(1))
		Expect(degraded[0].Detail).To(ContainSubstring("mock embedding failure"))
	})

	It("reports its dimensions", func() {
		Expect(embedder.Dimensions()).To(Equal(3))
	})
})
