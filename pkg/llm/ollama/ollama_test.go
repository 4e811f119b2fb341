package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/techcorp/kbase/pkg/llm"
	"github.com/techcorp/kbase/pkg/llm/ollama"
)

type capturedChat struct {
	Model    string `json:"model"`
	Stream   bool   `json:"stream"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Options struct {
		Temperature float32 `json:"temperature"`
	} `json:"options"`
}

var _ = Describe("Generator", func() {
	var (
		server    *httptest.Server
		handler   http.HandlerFunc
		generator *ollama.Generator
	)

	BeforeEach(func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]any{"role": "assistant", "content": "generated text"},
			})
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))

		var err error
		generator, err = ollama.NewGenerator(ollama.GeneratorConfig{
			BaseURL: server.URL,
			Model:   "llama3.2",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	It("returns the response message content", func() {
		text, err := generator.Generate(context.Background(), llm.GenerateRequest{Query: "hi"})
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("generated text"))
	})

	It("prepends the system instruction and maps model to assistant", func() {
		var got capturedChat
		handler = func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got)
			json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]any{"content": "ok"},
			})
		}

		_, err := generator.Generate(context.Background(), llm.GenerateRequest{
			History: []llm.Message{
				{Role: "user", Text: "hello"},
				{Role: "model", Text: "hi there"},
			},
			Query:             "next",
			SystemInstruction: "be terse",
			Temperature:       0.7,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(got.Model).To(Equal("llama3.2"))
		Expect(got.Stream).To(BeFalse())
		Expect(got.Options.Temperature).To(BeNumerically("~", 0.7, 1e-6))

		Expect(got.Messages).To(HaveLen(4))
		Expect(got.Messages[0].Role).To(Equal("system"))
		Expect(got.Messages[0].Content).To(Equal("be terse"))
		Expect(got.Messages[1].Role).To(Equal("user"))
		Expect(got.Messages[2].Role).To(Equal("assistant"))
		Expect(got.Messages[2].Content).To(Equal("hi there"))
		Expect(got.Messages[3].Role).To(Equal("user"))
		Expect(got.Messages[3].Content).To(Equal("next"))
	})

	It("wraps non-200 responses in ErrProvider", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}

		_, err := generator.Generate(context.Background(), llm.GenerateRequest{Query: "hi"})
		Expect(err).To(MatchError(llm.ErrProvider))
	})

	It("errors on an empty response message", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]any{"content": ""},
			})
		}

		_, err := generator.Generate(context.Background(), llm.GenerateRequest{Query: "hi"})
		Expect(err).To(MatchError(llm.ErrProvider))
	})
})
