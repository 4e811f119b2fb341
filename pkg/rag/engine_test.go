package rag_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/techcorp/kbase/pkg/knowledge"
	"github.com/techcorp/kbase/pkg/kv/inmemory"
	"github.com/techcorp/kbase/pkg/llm"
	"github.com/techcorp/kbase/pkg/rag"
	"github.com/techcorp/kbase/pkg/store"
	testutils "github.com/techcorp/kbase/pkg/utils/test"
)

var _ = Describe("Engine", func() {
	var (
		ctx       context.Context
		s         *store.Store
		embedder  *testutils.MockEmbedder
		generator *testutils.MockGenerator
		engine    *rag.Engine
	)

	addDoc := func(id, title, content string, embedding []float32) {
		doc := knowledge.Document{
			ID:        id,
			Title:     title,
			Content:   content,
			Embedding: embedding,
			CreatedAt: time.Now().UTC(),
		}
		Expect(s.Add(ctx, doc)).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		s, err = store.NewStore(ctx, inmemory.NewInMemoryDriver(), zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		embedder = testutils.NewMockEmbedder()
		generator = testutils.NewMockGenerator("Remote work needs manager approval.")

		engine, err = rag.NewEngine(&rag.Config{
			Store:     s,
			Embedder:  embedder,
			Generator: generator,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires store, embedder, and generator", func() {
		_, err := rag.NewEngine(&rag.Config{Embedder: embedder, Generator: generator})
		Expect(err).To(HaveOccurred())

		_, err = rag.NewEngine(&rag.Config{Store: s, Generator: generator})
		Expect(err).To(HaveOccurred())

		_, err = rag.NewEngine(&rag.Config{Store: s, Embedder: embedder})
		Expect(err).To(HaveOccurred())
	})

	Describe("Answer", func() {
		It("returns the generated text with ranked sources", func() {
			addDoc("1", "Remote Policy", "Remote work requires approval.", []float32{1, 0, 0})
			addDoc("2", "Vacation Policy", "Vacation accrues monthly.", []float32{0, 1, 0})
			embedder.Embeddings["remote work?"] = []float32{1, 0, 0}

			resp := engine.Answer(ctx, "remote work?", nil, nil)

			Expect(resp.Text).To(Equal("Remote work needs manager approval."))
			Expect(resp.Sources).To(Equal([]string{"Remote Policy", "Vacation Policy"}))
		})

		It("limits sources to the retrieval depth", func() {
			for _, id := range []string{"1", "2", "3", "4", "5"} {
				addDoc(id, "Doc "+id, "content "+id, []float32{1, 0, 0})
			}
			embedder.Embeddings["q"] = []float32{1, 0, 0}

			resp := engine.Answer(ctx, "q", nil, nil)
			Expect(resp.Sources).To(HaveLen(rag.DefaultTopK))
		})

		It("builds the grounding context from the matched documents", func() {
			addDoc("1", "Remote Policy", "Remote work requires approval.", []float32{1, 0, 0})
			embedder.Embeddings["q"] = []float32{1, 0, 0}

			engine.Answer(ctx, "q", nil, nil)

			Expect(generator.Requests).To(HaveLen(1))
			instruction := generator.Requests[0].SystemInstruction
			Expect(instruction).To(ContainSubstring("TechCorp"))
			Expect(instruction).To(ContainSubstring("Source: Remote Policy\nContent: Remote work requires approval."))
		})

		It("separates context entries with a divider", func() {
			addDoc("1", "A", "aaa", []float32{1, 0, 0})
			addDoc("2", "B", "bbb", []float32{1, 0, 0})
			embedder.Embeddings["q"] = []float32{1, 0, 0}

			engine.Answer(ctx, "q", nil, nil)

			instruction := generator.Requests[0].SystemInstruction
			Expect(instruction).To(ContainSubstring("Source: A\nContent: aaa\n\n---\n\nSource: B\nContent: bbb"))
		})

		It("tells the model when retrieval found nothing", func() {
			resp := engine.Answer(ctx, "anything", nil, nil)

			Expect(resp.Sources).To(BeEmpty())
			Expect(generator.Requests[0].SystemInstruction).
				To(ContainSubstring("No specific documents found for this query."))
		})

		It("forwards history, temperature, and the query", func() {
			history := []llm.Message{
				{Role: "user", Text: "hi"},
				{Role: "model", Text: "hello"},
			}

			engine.Answer(ctx, "next question", history, nil)

			req := generator.Requests[0]
			Expect(req.History).To(Equal(history))
			Expect(req.Query).To(Equal("next question"))
			Expect(req.Temperature).To(BeNumerically("~", rag.DefaultTemperature, 1e-6))
		})

		It("embeds a placeholder for audio-only turns", func() {
			audio := &llm.InlineAudio{Data: "b64data", MIMEType: "audio/webm"}
			embedder.Embeddings["Audio query"] = []float32{0, 0, 1}
			addDoc("1", "Audio Doc", "spoken content", []float32{0, 0, 1})

			resp := engine.Answer(ctx, "", nil, audio)

			Expect(resp.Sources).To(ContainElement("Audio Doc"))
			Expect(generator.Requests[0].Audio).To(Equal(audio))
		})

		It("degrades to an apology when generation fails", func() {
			generator.Fail = true
			addDoc("1", "Doc", "content", []float32{1, 0, 0})

			resp := engine.Answer(ctx, "q", nil, nil)

			Expect(resp.Text).To(Equal("I'm sorry, I encountered an error processing your request."))
			Expect(resp.Sources).To(BeEmpty())
			Expect(resp.Sources).NotTo(BeNil())
		})

		It("answers without grounding when query embedding fails", func() {
			embedder.FailOn = "cursed"
			addDoc("1", "Doc", "content", []float32{1, 0, 0})

			resp := engine.Answer(ctx, "cursed", nil, nil)

			Expect(resp.Text).To(Equal("Remote work needs manager approval."))
			Expect(generator.Requests[0].SystemInstruction).
				To(ContainSubstring("No specific documents found for this query."))
		})
	})
})
