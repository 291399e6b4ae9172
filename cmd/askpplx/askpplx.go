// Package askpplxcmder provides the askpplx root command: ask Perplexity a
// question and print the answer.
package askpplxcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	configcmder "github.com/papercomputeco/askpplx/cmd/askpplx/config"
	versioncmder "github.com/papercomputeco/askpplx/cmd/version"
	"github.com/papercomputeco/askpplx/pkg/ask"
	"github.com/papercomputeco/askpplx/pkg/cliui"
	"github.com/papercomputeco/askpplx/pkg/config"
	"github.com/papercomputeco/askpplx/pkg/credentials"
	"github.com/papercomputeco/askpplx/pkg/logger"
	"github.com/papercomputeco/askpplx/pkg/perplexity"
	"github.com/papercomputeco/askpplx/pkg/prompt"
	"github.com/papercomputeco/askpplx/pkg/render"
	"github.com/papercomputeco/askpplx/pkg/utils"
)

const askpplxLongDesc string = `Ask Perplexity a question from the command line.

The answer streams to stdout as it arrives, followed by numbered sources.
When no prompt argument is given, piped stdin is used as the prompt.

Models:
  sonar               Fast, lightweight for quick searches (128K context)
  sonar-pro           Advanced multi-step research queries
  sonar-reasoning-pro Deep reasoning with R1-1776 backend (default)

JSON output (--json):
  Returns { text, sources[], usage, providerMetadata } - not structured AI output.
  Use jq to extract fields: --json | jq -r '.text' or '.sources[].url'

System prompt:
  Default prompt is optimized for technical/coding questions.
  Use -s <file> or -S <text> to customize. Use -S "" to disable.

Configuration:
  Defaults for model, context, stream and show_thinking are read from
  config.toml in the config directory and from ASKPPLX_* environment
  variables. Manage them with "askpplx config".

Examples:
  askpplx "What is the capital of France?" -S ""
  askpplx "Explain quantum computing" --model sonar-pro
  askpplx "Latest news on AI" -c medium
  askpplx "$(cat article.txt)" -s ./summarize.md
  cat article.txt | askpplx -S "Summarize this article"
  askpplx "Node.js LTS version" --json | jq -r '.text'
  askpplx "Show reasoning" --show-thinking
  askpplx "Compare Go and Rust error handling" --markdown`

const askpplxShortDesc string = "Ask Perplexity from the command line"

// askFlagKeys are the registry flags bound into viper for every run.
var askFlagKeys = []string{
	config.FlagModel,
	config.FlagContext,
	config.FlagShowThinking,
	config.FlagBaseURL,
	config.FlagTimeout,
}

type askpplxCommander struct {
	model        string
	context      string
	showThinking bool
	baseURL      string
	timeout      string

	system     string
	systemText string
	json       bool
	noStream   bool
	markdown   bool
	trace      bool
}

func NewAskpplxCmd() *cobra.Command {
	cmder := &askpplxCommander{}

	cmd := &cobra.Command{
		Use:           "askpplx [prompt]",
		Short:         askpplxShortDesc,
		Long:          askpplxLongDesc,
		Version:       utils.VersionString(),
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the askpplx config directory")

	config.AddStringFlag(cmd, config.AskFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.AskFlags, config.FlagContext, &cmder.context)
	config.AddBoolFlag(cmd, config.AskFlags, config.FlagShowThinking, &cmder.showThinking)
	config.AddStringFlag(cmd, config.AskFlags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.AskFlags, config.FlagTimeout, &cmder.timeout)

	cmd.Flags().StringVarP(&cmder.system, "system", "s", "", "Path to custom system prompt file")
	cmd.Flags().StringVarP(&cmder.systemText, "system-text", "S", "", "System prompt text (overrides -s)")
	cmd.Flags().BoolVar(&cmder.json, "json", false, "Output full API response as JSON (text, sources, usage)")
	cmd.Flags().BoolVar(&cmder.noStream, "no-stream", false, "Disable streaming output")
	cmd.Flags().BoolVar(&cmder.markdown, "markdown", false, "Render the finished answer as formatted markdown")
	cmd.Flags().BoolVar(&cmder.trace, "trace", false, "Print raw server-sent events to stderr")

	_ = cmd.Flags().MarkHidden("base-url")
	_ = cmd.Flags().MarkHidden("trace")

	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		defaultHelp(c, args)
		if c != cmd {
			return
		}
		fmt.Fprintf(c.OutOrStdout(), "\n%s\n", credentials.FormatRequiresHelpText(helpAPIKey(c)))
	})

	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}

func (c *askpplxCommander) run(cmd *cobra.Command, args []string) error {
	configDir, _ := cmd.Flags().GetString("config-dir")
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("could not get debug flag: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	log := logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(true),
		logger.WithWriter(stderr),
	)

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}
	config.BindRegisteredFlags(v, cmd, config.AskFlags, askFlagKeys)

	question, err := c.resolvePrompt(cmd, args)
	if err != nil {
		return err
	}

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	apiKey, err := mgr.ResolveAPIKey()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	runner := ask.NewRunner(
		c.newClient(v, log, stderr),
		render.NewRenderer(cmd.OutOrStdout(),
			render.WithLogger(log),
			render.WithMarkdown(cliui.RenderMarkdown),
		),
		ask.WithLogger(log),
	)

	return runner.Run(cmd.Context(), apiKey, question, c.options(cmd, v))
}

// resolvePrompt picks the prompt argument or, failing that, piped stdin.
// With neither it prints help and returns prompt.ErrNoPrompt.
func (c *askpplxCommander) resolvePrompt(cmd *cobra.Command, args []string) (string, error) {
	var argument, stdin *string
	if len(args) > 0 {
		argument = &args[0]
	} else if in := cmd.InOrStdin(); !isTerminal(in) {
		text, err := prompt.CollectStdin(in, prompt.DefaultMaxStdinBytes)
		if err != nil {
			return "", err
		}
		stdin = &text
	}

	question, ok := prompt.Resolve(argument, stdin)
	if !ok {
		_ = cmd.Help()
		return "", prompt.ErrNoPrompt
	}
	return question, nil
}

func (c *askpplxCommander) newClient(v *viper.Viper, log *slog.Logger, stderr io.Writer) *perplexity.Client {
	opts := []perplexity.Option{
		perplexity.WithBaseURL(v.GetString("api.base_url")),
		perplexity.WithLogger(log),
	}
	if timeout := v.GetDuration("api.timeout"); timeout > 0 {
		opts = append(opts, perplexity.WithTimeout(timeout))
	}
	if c.trace {
		opts = append(opts, perplexity.WithTrace(stderr))
	}
	return perplexity.NewClient(opts...)
}

func (c *askpplxCommander) options(cmd *cobra.Command, v *viper.Viper) ask.Options {
	opts := ask.Options{
		Model:      v.GetString("model"),
		SystemPath: c.system,
		Context:    v.GetString("context"),
		Display: render.DisplayOptions{
			JSON:         c.json,
			ShowThinking: v.GetBool("show_thinking"),
			NoStream:     c.noStream || !v.GetBool("stream"),
			Markdown:     c.markdown,
		},
	}
	if cmd.Flags().Changed("system-text") {
		opts.SystemText = &c.systemText
	}
	return opts
}

// helpAPIKey resolves the credential for help output, treating any failure
// as a missing key.
func helpAPIKey(cmd *cobra.Command) string {
	configDir, _ := cmd.Flags().GetString("config-dir")
	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return ""
	}
	key, err := mgr.ResolveAPIKey()
	if err != nil {
		return ""
	}
	return key
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Main runs askpplx with args and returns the process exit code. Errors are
// printed to stderr as a single "Error: " line; nothing else terminates.
func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewAskpplxCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}
