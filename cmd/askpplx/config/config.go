// Package configcmder provides the config command for managing the stored
// Perplexity API key and persistent askpplx settings.
package configcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/askpplx/pkg/cliui"
	"github.com/papercomputeco/askpplx/pkg/credentials"
)

const configLongDesc string = `Manage stored configuration.

The Perplexity API key is stored in credentials.toml in the askpplx config
directory. PERPLEXITY_API_KEY always takes precedence over the stored key;
setting it to an empty string disables the stored key.

Pass "-" to --set-api-key to read the key from stdin, or to be prompted
for it with hidden input.

Persistent defaults live in config.toml and are managed with the set, get
and list subcommands.

Examples:
  askpplx config --set-api-key 'pplx-...'
  echo "$KEY" | askpplx config --set-api-key -
  askpplx config --show-api-key
  askpplx config --clear-api-key
  askpplx config --path
  askpplx config set model sonar-pro
  askpplx config list`

const configShortDesc string = "Manage stored configuration"

type configCommander struct {
	setAPIKey   string
	showAPIKey  bool
	clearAPIKey bool
	path        bool
}

func NewConfigCmd() *cobra.Command {
	cmder := &configCommander{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd, configDir)
		},
	}

	cmd.Flags().StringVar(&cmder.setAPIKey, "set-api-key", "", "Store Perplexity API key (\"-\" reads it from stdin)")
	cmd.Flags().BoolVar(&cmder.showAPIKey, "show-api-key", false, "Show stored API key (masked)")
	cmd.Flags().BoolVar(&cmder.clearAPIKey, "clear-api-key", false, "Remove stored API key")
	cmd.Flags().BoolVar(&cmder.path, "path", false, "Show credentials file path")

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func (c *configCommander) run(cmd *cobra.Command, configDir string) error {
	if c.setAPIKey == "" && !c.showAPIKey && !c.clearAPIKey && !c.path {
		return cmd.Help()
	}

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	out := cmd.OutOrStdout()

	switch {
	case c.setAPIKey != "":
		key := c.setAPIKey
		if key == "-" {
			key, err = readAPIKey(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return errors.New("API key cannot be empty")
		}

		if err := mgr.SetAPIKey(key); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s API key stored successfully.\n", cliui.SuccessMark)

	case c.showAPIKey:
		key, err := mgr.ResolveAPIKey()
		if err != nil {
			return err
		}
		masked := credentials.MaskAPIKey(key)
		if masked == "" {
			fmt.Fprintln(out, cliui.WarnStyle.Render("No API key configured."))
			break
		}

		fmt.Fprintf(out, "%s %s", cliui.KeyStyle.Render("API key:"), masked)
		if _, fromEnv := os.LookupEnv(credentials.EnvVar); fromEnv {
			fmt.Fprintf(out, " %s", cliui.DimStyle.Render("(from "+credentials.EnvVar+")"))
		}
		fmt.Fprintln(out)

	case c.clearAPIKey:
		if err := mgr.ClearAPIKey(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s API key cleared.\n", cliui.SuccessMark)

	case c.path:
		fmt.Fprintln(out, mgr.GetTarget())
	}

	return nil
}

// readAPIKey reads an API key from in. Piped input yields its first line;
// a terminal is prompted with hidden input.
func readAPIKey(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(prompt, "Enter Perplexity API key (%s): ", credentials.EnvVar)

		keyBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt) // newline after hidden input
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return string(keyBytes), nil
	}

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return "", errors.New("no input received on stdin")
}
