package configcmder_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	configcmder "github.com/papercomputeco/askpplx/cmd/askpplx/config"
	"github.com/papercomputeco/askpplx/pkg/credentials"
)

var _ = Describe("Config command", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "askpplx-config-test-*")
		Expect(err).NotTo(HaveOccurred())

		// Keep a developer's real key from leaking into assertions.
		GinkgoT().Setenv(credentials.EnvVar, "")
		Expect(os.Unsetenv(credentials.EnvVar)).To(Succeed())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	execute := func(stdin string, args ...string) (string, error) {
		cmd := configcmder.NewConfigCmd()
		cmd.PersistentFlags().String("config-dir", "", "Override path to the askpplx config directory")
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetArgs(append(args, "--config-dir", tmpDir))
		err := cmd.Execute()
		return out.String(), err
	}

	storedKey := func() string {
		mgr, err := credentials.NewManager(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		key, err := mgr.GetAPIKey()
		Expect(err).NotTo(HaveOccurred())
		return key
	}

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("set", "get", "list"))
	})

	It("prints help when no flag is given", func() {
		out, err := execute("")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("--set-api-key"))
		Expect(out).To(ContainSubstring("Manage stored configuration"))
	})

	Describe("--set-api-key", func() {
		It("stores the key", func() {
			out, err := execute("", "--set-api-key", "pplx-abcdefghijklmnop1234")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("API key stored successfully."))
			Expect(storedKey()).To(Equal("pplx-abcdefghijklmnop1234"))
		})

		It("reads the key from piped stdin for -", func() {
			_, err := execute("pplx-from-stdin\nignored\n", "--set-api-key", "-")
			Expect(err).NotTo(HaveOccurred())
			Expect(storedKey()).To(Equal("pplx-from-stdin"))
		})

		It("rejects a blank key", func() {
			_, err := execute("   \n", "--set-api-key", "-")
			Expect(err).To(MatchError("API key cannot be empty"))
		})

		It("reports empty stdin", func() {
			_, err := execute("", "--set-api-key", "-")
			Expect(err).To(MatchError("no input received on stdin"))
		})
	})

	Describe("--show-api-key", func() {
		It("shows the stored key masked", func() {
			_, err := execute("", "--set-api-key", "pplx-abcdefghijklmnopwxyz")
			Expect(err).NotTo(HaveOccurred())

			out, err := execute("", "--show-api-key")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("API key:"))
			Expect(out).To(ContainSubstring("pplx...wxyz"))
			Expect(out).NotTo(ContainSubstring("abcdefghijklmnop"))
		})

		It("reports a missing key", func() {
			out, err := execute("", "--show-api-key")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("No API key configured."))
		})

		It("prefers the environment variable and says so", func() {
			GinkgoT().Setenv(credentials.EnvVar, "short-env-key")

			out, err := execute("", "--show-api-key")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("****"))
			Expect(out).To(ContainSubstring("from PERPLEXITY_API_KEY"))
		})
	})

	Describe("--clear-api-key", func() {
		It("removes the stored key", func() {
			_, err := execute("", "--set-api-key", "pplx-key")
			Expect(err).NotTo(HaveOccurred())

			out, err := execute("", "--clear-api-key")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("API key cleared."))
			Expect(storedKey()).To(BeEmpty())
		})
	})

	Describe("--path", func() {
		It("prints the credentials file path", func() {
			out, err := execute("", "--path")
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.TrimSpace(out)).To(HaveSuffix(filepath.Join(filepath.Base(tmpDir), "credentials.toml")))
		})
	})

	Describe("set, get and list", func() {
		It("round-trips a value", func() {
			out, err := execute("", "set", "model", "sonar-pro")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Set"))

			_, err = os.Stat(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())

			out, err = execute("", "get", "model")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("sonar-pro\n"))
		})

		It("gets defaults when nothing is set", func() {
			out, err := execute("", "get", "context")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("high\n"))
		})

		It("rejects unknown keys", func() {
			_, err := execute("", "set", "proxy.listen", ":8080")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))

			_, err = execute("", "get", "nope")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("rejects invalid values", func() {
			_, err := execute("", "set", "context", "huge")
			Expect(err).To(HaveOccurred())
		})

		It("requires exactly two arguments for set", func() {
			_, err := execute("", "set", "model")
			Expect(err).To(HaveOccurred())
		})

		It("lists every key", func() {
			out, err := execute("", "list")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Using config file:"))
			Expect(out).To(ContainSubstring(`model         = "sonar-reasoning-pro"`))
			Expect(out).To(ContainSubstring(`api.timeout   = "5m0s"`))
		})
	})
})
