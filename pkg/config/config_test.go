package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/askpplx/pkg/config"
)

var _ = Describe("Configer config", func() {
	var (
		tmpDir string
		c      *config.Configer
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())

		c, err = config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	writeConfig := func(data string) {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())
	}

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads a valid config file and fills in defaults", func() {
			writeConfig(`version = 0
model = "sonar-pro"
stream = false

[api]
timeout = "90s"
`)

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Model).To(Equal("sonar-pro"))
			Expect(cfg.StreamEnabled()).To(BeFalse())
			Expect(cfg.API.Timeout).To(Equal("90s"))
			Expect(cfg.Context).To(Equal("high"))
			Expect(cfg.API.BaseURL).To(Equal("https://api.perplexity.ai"))
		})

		It("returns error for malformed TOML", func() {
			writeConfig("not valid [[[")

			_, err := c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("parsing config TOML")))
		})

		It("returns error for unsupported config version", func() {
			writeConfig("version = 99\n")

			_, err := c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version 99")))
		})
	})

	Describe("SaveConfig", func() {
		It("persists config to disk", func() {
			cfg := config.NewDefaultConfig()
			cfg.Model = "sonar"
			Expect(c.SaveConfig(cfg)).To(Succeed())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})

		It("returns error for nil config", func() {
			Expect(c.SaveConfig(nil)).To(HaveOccurred())
		})
	})

	Describe("SetConfigValue", func() {
		It("sets a string config key", func() {
			Expect(c.SetConfigValue("model", "sonar-pro")).To(Succeed())

			value, err := c.GetConfigValue("model")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("sonar-pro"))
		})

		It("sets a bool config key", func() {
			Expect(c.SetConfigValue("stream", "false")).To(Succeed())

			value, err := c.GetConfigValue("stream")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("false"))
		})

		It("preserves existing values when setting a new key", func() {
			Expect(c.SetConfigValue("model", "sonar")).To(Succeed())
			Expect(c.SetConfigValue("context", "low")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Model).To(Equal("sonar"))
			Expect(cfg.Context).To(Equal("low"))
		})

		DescribeTable("rejects invalid values",
			func(key, value, message string) {
				Expect(c.SetConfigValue(key, value)).To(MatchError(ContainSubstring(message)))
			},
			Entry("unknown key", "proxy.listen", ":8080", "unknown config key"),
			Entry("bad context size", "context", "huge", "huge"),
			Entry("bad bool", "show_thinking", "maybe", "invalid value for show_thinking"),
			Entry("bad duration", "api.timeout", "soon", "invalid value for api.timeout"),
		)
	})

	Describe("GetConfigValue", func() {
		It("returns default values when no config file exists", func() {
			value, err := c.GetConfigValue("api.base_url")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("https://api.perplexity.ai"))
		})

		It("returns error for unknown key", func() {
			_, err := c.GetConfigValue("nope")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("returns keys in layout order", func() {
		Expect(config.ValidConfigKeys()).To(Equal([]string{
			"model", "context", "stream", "show_thinking", "api.base_url", "api.timeout",
		}))
	})

	It("agrees with IsValidConfigKey", func() {
		for _, k := range config.ValidConfigKeys() {
			Expect(config.IsValidConfigKey(k)).To(BeTrue(), k)
		}
		Expect(config.IsValidConfigKey("storage.sqlite_path")).To(BeFalse())
	})
})

var _ = Describe("ParseConfigTOML", func() {
	It("returns an empty config for empty input", func() {
		cfg, err := config.ParseConfigTOML([]byte(""))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Model).To(BeEmpty())
		Expect(cfg.Stream).To(BeNil())
		Expect(cfg.StreamEnabled()).To(BeTrue())
	})
})

var _ = Describe("NewDefaultConfig", func() {
	It("returns fully-populated defaults", func() {
		cfg := config.NewDefaultConfig()
		Expect(cfg.Version).To(Equal(config.CurrentV))
		Expect(cfg.Model).To(Equal("sonar-reasoning-pro"))
		Expect(cfg.Context).To(Equal("high"))
		Expect(cfg.StreamEnabled()).To(BeTrue())
		Expect(cfg.ShowThinking).To(BeFalse())
		Expect(cfg.API.BaseURL).To(Equal("https://api.perplexity.ai"))
		Expect(cfg.API.Timeout).To(Equal("5m0s"))
	})
})
