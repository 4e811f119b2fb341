package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/techcorp/kbase/pkg/llm"
	"github.com/techcorp/kbase/pkg/llm/gemini"
)

type capturedGenerate struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text       string `json:"text"`
			InlineData *struct {
				MIMEType string `json:"mime_type"`
				Data     string `json:"data"`
			} `json:"inline_data"`
		} `json:"parts"`
	} `json:"contents"`
	SystemInstruction *struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"systemInstruction"`
	GenerationConfig *struct {
		Temperature float32 `json:"temperature"`
	} `json:"generationConfig"`
}

func candidateResponse(texts ...string) map[string]any {
	parts := make([]map[string]any, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, map[string]any{"text": t})
	}
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": parts}},
		},
	}
}

var _ = Describe("Generator", func() {
	var (
		server    *httptest.Server
		handler   http.HandlerFunc
		generator *gemini.Generator
	)

	BeforeEach(func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(candidateResponse("generated text"))
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))

		var err error
		generator, err = gemini.NewGenerator(gemini.GeneratorConfig{
			BaseURL: server.URL,
			Model:   "gemini-2.0-flash",
			APIKey:  "test-key",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	It("requires an api key", func() {
		_, err := gemini.NewGenerator(gemini.GeneratorConfig{})
		Expect(err).To(HaveOccurred())
	})

	It("calls the generateContent endpoint", func() {
		var gotPath string
		handler = func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewEncoder(w).Encode(candidateResponse("ok"))
		}

		_, err := generator.Generate(context.Background(), llm.GenerateRequest{Query: "hi"})
		Expect(err).NotTo(HaveOccurred())
		Expect(gotPath).To(Equal("/v1beta/models/gemini-2.0-flash:generateContent"))
	})

	It("sends history, system instruction, and temperature", func() {
		var got capturedGenerate
		handler = func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got)
			json.NewEncoder(w).Encode(candidateResponse("ok"))
		}

		_, err := generator.Generate(context.Background(), llm.GenerateRequest{
			History: []llm.Message{
				{Role: "user", Text: "hello"},
				{Role: "model", Text: "hi there"},
			},
			Query:             "next",
			SystemInstruction: "ground yourself",
			Temperature:       0.7,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(got.Contents).To(HaveLen(3))
		Expect(got.Contents[0].Role).To(Equal("user"))
		Expect(got.Contents[1].Role).To(Equal("model"))
		Expect(got.Contents[2].Role).To(Equal("user"))
		Expect(got.Contents[2].Parts[0].Text).To(Equal("next"))

		Expect(got.SystemInstruction).NotTo(BeNil())
		Expect(got.SystemInstruction.Parts[0].Text).To(Equal("ground yourself"))
		Expect(got.GenerationConfig.Temperature).To(BeNumerically("~", 0.7, 1e-6))
	})

	It("attaches inline audio to the user turn", func() {
		var got capturedGenerate
		handler = func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got)
			json.NewEncoder(w).Encode(candidateResponse("ok"))
		}

		_, err := generator.Generate(context.Background(), llm.GenerateRequest{
			Audio: &llm.InlineAudio{Data: "b64audio", MIMEType: "audio/webm"},
		})
		Expect(err).NotTo(HaveOccurred())

		userTurn := got.Contents[len(got.Contents)-1]
		Expect(userTurn.Parts).To(HaveLen(1))
		Expect(userTurn.Parts[0].InlineData).NotTo(BeNil())
		Expect(userTurn.Parts[0].InlineData.MIMEType).To(Equal("audio/webm"))
		Expect(userTurn.Parts[0].InlineData.Data).To(Equal("b64audio"))
	})

	It("concatenates multi-part candidate text", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(candidateResponse("part one, ", "part two"))
		}

		text, err := generator.Generate(context.Background(), llm.GenerateRequest{Query: "hi"})
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("part one, part two"))
	})

	It("wraps non-200 responses in ErrProvider", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusForbidden)
		}

		_, err := generator.Generate(context.Background(), llm.GenerateRequest{Query: "hi"})
		Expect(err).To(MatchError(llm.ErrProvider))
	})

	It("errors when no candidates are returned", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
		}

		_, err := generator.Generate(context.Background(), llm.GenerateRequest{Query: "hi"})
		Expect(err).To(MatchError(llm.ErrProvider))
	})
})
