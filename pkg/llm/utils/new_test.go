package llmutils_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/techcorp/kbase/pkg/llm/gemini"
	"github.com/techcorp/kbase/pkg/llm/ollama"
	llmutils "github.com/techcorp/kbase/pkg/llm/utils"
)

var _ = Describe("NewGenerator", func() {
	It("builds an ollama generator", func() {
		generator, err := llmutils.NewGenerator(&llmutils.NewGeneratorOpts{
			ProviderType: "ollama",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(generator).To(BeAssignableToTypeOf(&ollama.Generator{}))
	})

	It("builds a gemini generator", func() {
		generator, err := llmutils.NewGenerator(&llmutils.NewGeneratorOpts{
			ProviderType: "gemini",
			APIKey:       "key",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(generator).To(BeAssignableToTypeOf(&gemini.Generator{}))
	})

	It("propagates provider construction errors", func() {
		_, err := llmutils.NewGenerator(&llmutils.NewGeneratorOpts{
			ProviderType: "gemini",
		})
		Expect(err).To(HaveOccurred())
	})

	It("rejects unknown providers", func() {
		_, err := llmutils.NewGenerator(&llmutils.NewGeneratorOpts{
			ProviderType: "smoke-signals",
		})
		Expect(err).To(HaveOccurred())
	})
})
