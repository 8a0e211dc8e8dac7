package config_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/bridge/pkg/config"
)

var envVars = []string{
	"OPENAI_API_KEY", "OPENAI_API_URL", "BRIDGE_CONFIG", "BRIDGE_LISTEN", "BRIDGE_DEBUG", "BRIDGE_LOG_FILE",
}

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	return path
}

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		for _, name := range envVars {
			GinkgoT().Setenv(name, "")
		}
	})

	Describe("Defaults", func() {
		It("fills every section", func() {
			cfg := config.Defaults()

			Expect(cfg.Server.Listen).To(Equal(":11434"))
			Expect(cfg.Upstream.BaseURL).To(Equal("https://api.openai.com/v1"))
			Expect(cfg.Upstream.Timeout).To(Equal(5 * time.Minute))
			Expect(cfg.Models.CacheTTL).To(Equal(24 * time.Hour))
			Expect(cfg.ThinkFilter.Enabled).To(BeTrue())
			Expect(cfg.ThinkFilter.Prefixes).NotTo(BeEmpty())
			Expect(cfg.Metrics.Path).To(Equal("/metrics"))
		})

		It("is valid without an API key", func() {
			cfg := config.Defaults()

			Expect(cfg.Upstream.APIKey).To(BeEmpty())
			Expect(cfg.Validate()).To(Succeed())
		})
	})

	Describe("Load", func() {
		It("loads defaults when there is no file", func() {
			cfg, err := config.Load("")

			Expect(err).NotTo(HaveOccurred())
			Expect(*cfg).To(Equal(config.Defaults()))
		})

		It("reads TOML files", func() {
			path := writeFile(dir, "bridge.toml", `
[server]
listen = ":9000"
read_timeout = "10s"

[upstream]
base_url = "http://localhost:4000/v1"
api_key = "sk-toml"
timeout = "30s"
max_retries = 0

[models]
cache_ttl = "1h"

[think_filter]
prefixes = ["Name this"]
suffixes = []
`)
			cfg, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Server.Listen).To(Equal(":9000"))
			Expect(cfg.Server.ReadTimeout).To(Equal(10 * time.Second))
			Expect(cfg.Server.WriteTimeout).To(Equal(5 * time.Minute))
			Expect(cfg.Upstream.BaseURL).To(Equal("http://localhost:4000/v1"))
			Expect(cfg.Upstream.APIKey).To(Equal("sk-toml"))
			Expect(cfg.Upstream.Timeout).To(Equal(30 * time.Second))
			Expect(cfg.Upstream.MaxRetries).To(Equal(0))
			Expect(cfg.Models.CacheTTL).To(Equal(time.Hour))
			Expect(cfg.ThinkFilter.Prefixes).To(Equal([]string{"Name this"}))
			Expect(cfg.ThinkFilter.Suffixes).To(BeEmpty())
		})

		It("reads YAML files", func() {
			path := writeFile(dir, "bridge.yaml", `
upstream:
  base_url: http://localhost:8000/v1
  timeout: 45s
log:
  debug: true
metrics:
  enabled: false
`)
			cfg, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Upstream.BaseURL).To(Equal("http://localhost:8000/v1"))
			Expect(cfg.Upstream.Timeout).To(Equal(45 * time.Second))
			Expect(cfg.Log.Debug).To(BeTrue())
			Expect(cfg.Metrics.Enabled).To(BeFalse())
			Expect(cfg.Server.Listen).To(Equal(":11434"))
		})

		It("finds the file through BRIDGE_CONFIG", func() {
			path := writeFile(dir, "env.toml", "[server]\nlisten = \":7000\"\n")
			GinkgoT().Setenv("BRIDGE_CONFIG", path)

			cfg, err := config.Load("")
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.Listen).To(Equal(":7000"))
		})

		It("lets the environment override the file", func() {
			path := writeFile(dir, "bridge.toml", "[upstream]\nbase_url = \"http://from-file/v1\"\napi_key = \"sk-file\"\n")
			GinkgoT().Setenv("OPENAI_API_KEY", "sk-env")
			GinkgoT().Setenv("OPENAI_API_URL", "http://from-env/v1")
			GinkgoT().Setenv("BRIDGE_DEBUG", "true")

			cfg, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Upstream.APIKey).To(Equal("sk-env"))
			Expect(cfg.Upstream.BaseURL).To(Equal("http://from-env/v1"))
			Expect(cfg.Log.Debug).To(BeTrue())
		})

		It("reads the API key from a file reference", func() {
			keyPath := writeFile(dir, "key", "  sk-from-file\n")
			path := writeFile(dir, "bridge.toml", "[upstream]\napi_key_file = \""+keyPath+"\"\n")

			cfg, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Upstream.APIKey).To(Equal("sk-from-file"))
		})

		It("fails on a missing file", func() {
			_, err := config.Load(filepath.Join(dir, "nope.toml"))
			Expect(err).To(HaveOccurred())
		})

		It("fails on an unsupported extension", func() {
			path := writeFile(dir, "bridge.ini", "listen=:1")
			_, err := config.Load(path)
			Expect(err).To(MatchError(ContainSubstring("unsupported config format")))
		})

		It("reports every invalid field", func() {
			path := writeFile(dir, "bridge.toml", `
[server]
listen = ""
[upstream]
base_url = "not a url"
[models]
cache_ttl = "-1s"
`)
			_, err := config.Load(path)
			Expect(err).To(HaveOccurred())
			Expect(config.IsValidationError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("server.listen"))
			Expect(err.Error()).To(ContainSubstring("upstream.base_url"))
			Expect(err.Error()).To(ContainSubstring("models.cache_ttl"))
		})
	})

	Describe("Watch", func() {
		It("delivers the reloaded config after the file changes", func() {
			path := writeFile(dir, "bridge.toml", "[think_filter]\nprefixes = [\"old\"]\n")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			changes := make(chan *config.Config, 4)
			done := make(chan error, 1)
			go func() {
				defer GinkgoRecover()
				done <- config.Watch(ctx, path, zap.NewNop(), func(cfg *config.Config) {
					changes <- cfg
				})
			}()

			// Give the watcher a moment to register before writing.
			time.Sleep(100 * time.Millisecond)
			writeFile(dir, "bridge.toml", "[think_filter]\nprefixes = [\"new\"]\n")

			var cfg *config.Config
			Eventually(changes, 3*time.Second).Should(Receive(&cfg))
			Expect(cfg.ThinkFilter.Prefixes).To(Equal([]string{"new"}))

			cancel()
			Eventually(done, time.Second).Should(Receive(BeNil()))
		})

		It("keeps quiet when the new file is invalid", func() {
			path := writeFile(dir, "bridge.toml", "[server]\nlisten = \":1\"\n")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			changes := make(chan *config.Config, 4)
			go func() {
				defer GinkgoRecover()
				_ = config.Watch(ctx, path, zap.NewNop(), func(cfg *config.Config) {
					changes <- cfg
				})
			}()

			time.Sleep(100 * time.Millisecond)
			writeFile(dir, "bridge.toml", "[server]\nlisten = \"\"\n")

			Consistently(changes, 500*time.Millisecond).ShouldNot(Receive())
		})
	})
})
