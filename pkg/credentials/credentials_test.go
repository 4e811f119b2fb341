package credentials_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/techcorp/kbase/pkg/credentials"
)

var _ = Describe("Manager", func() {
	var (
		dir     string
		manager *credentials.Manager
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()

		var err error
		manager, err = credentials.NewManager(dir)
		Expect(err).NotTo(HaveOccurred())

		GinkgoT().Setenv("GEMINI_API_KEY", "")
		GinkgoT().Setenv("GOOGLE_API_KEY", "")
	})

	Describe("Load", func() {
		It("returns empty credentials when no file exists", func() {
			creds, err := manager.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Providers).To(BeEmpty())
		})

		It("returns an error for a malformed file", func() {
			path := filepath.Join(dir, "credentials.toml")
			Expect(os.WriteFile(path, []byte("not = [valid"), 0o600)).To(Succeed())

			_, err := manager.Load()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SetKey", func() {
		It("stores a key and reads it back", func() {
			Expect(manager.SetKey("gemini", "secret-key")).To(Succeed())

			creds, err := manager.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Providers["gemini"].APIKey).To(Equal("secret-key"))
		})

		It("writes the file with owner-only permissions", func() {
			Expect(manager.SetKey("gemini", "secret-key")).To(Succeed())

			info, err := os.Stat(filepath.Join(dir, "credentials.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
		})

		It("overwrites an existing key", func() {
			Expect(manager.SetKey("gemini", "old")).To(Succeed())
			Expect(manager.SetKey("gemini", "new")).To(Succeed())

			creds, err := manager.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Providers["gemini"].APIKey).To(Equal("new"))
		})
	})

	Describe("RemoveKey", func() {
		It("removes a stored key", func() {
			Expect(manager.SetKey("gemini", "secret-key")).To(Succeed())
			Expect(manager.RemoveKey("gemini")).To(Succeed())

			creds, err := manager.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Providers).NotTo(HaveKey("gemini"))
		})

		It("is a no-op for an unknown provider", func() {
			Expect(manager.RemoveKey("gemini")).To(Succeed())
		})
	})

	Describe("Resolve", func() {
		It("prefers the environment variable over the stored key", func() {
			Expect(manager.SetKey("gemini", "stored-key")).To(Succeed())
			GinkgoT().Setenv("GEMINI_API_KEY", "env-key")

			Expect(manager.Resolve("gemini")).To(Equal("env-key"))
		})

		It("falls back to GOOGLE_API_KEY for gemini", func() {
			GinkgoT().Setenv("GOOGLE_API_KEY", "google-key")

			Expect(manager.Resolve("gemini")).To(Equal("google-key"))
		})

		It("falls back to the stored key when no env is set", func() {
			Expect(manager.SetKey("gemini", "stored-key")).To(Succeed())

			Expect(manager.Resolve("gemini")).To(Equal("stored-key"))
		})

		It("returns empty when nothing is configured", func() {
			Expect(manager.Resolve("gemini")).To(BeEmpty())
		})
	})

	Describe("provider helpers", func() {
		It("knows gemini", func() {
			Expect(credentials.SupportedProviders()).To(ContainElement("gemini"))
			Expect(credentials.IsSupportedProvider("gemini")).To(BeTrue())
			Expect(credentials.EnvVarForProvider("gemini")).To(Equal("GEMINI_API_KEY"))
		})

		It("rejects unknown providers", func() {
			Expect(credentials.IsSupportedProvider("ollama")).To(BeFalse())
			Expect(credentials.EnvVarForProvider("ollama")).To(BeEmpty())
		})
	})
})
