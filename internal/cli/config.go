package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/codex-local/internal/config"
	"github.com/dshills/codex-local/internal/profile"
	"github.com/dshills/codex-local/internal/redact"
	"github.com/dshills/codex-local/internal/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	flagDryRun   bool
	flagReveal   bool
	flagOverride profile.Profile
)

// configDir resolves the directory holding config.json:
// --config-dir, then $CODEX_HOME, then ~/.codex.
func configDir() (string, error) {
	if flagConfigDir != "" {
		return flagConfigDir, nil
	}
	if dir := os.Getenv("CODEX_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".codex"), nil
}

func newStore() (*config.Store, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return config.NewStore(fsys, dir, logger), nil
}

// runtimeFailure logs err and sets the runtime exit code. Commands return its
// result so cobra does not treat the failure as a usage error.
func runtimeFailure(msg string, err error) error {
	logger.Error(msg, "err", err)
	exitCode = ExitRuntimeError
	return nil
}

// profileOptions forwards boolean flags that were set explicitly, so that
// --notify=false can switch off a value enabled in the environment.
func profileOptions(cmd *cobra.Command) []profile.Option {
	var opts []profile.Option
	if cmd.Flags().Changed("notify") {
		opts = append(opts, profile.WithNotify(flagOverride.Notify))
	}
	if cmd.Flags().Changed("disable-response-storage") {
		opts = append(opts, profile.WithDisableResponseStorage(flagOverride.DisableResponseStorage))
	}
	return opts
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Merge local middleware settings into the Codex config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Resolve(flagOverride, profileOptions(cmd)...)
		if err != nil {
			return err
		}
		store, err := newStore()
		if err != nil {
			return runtimeFailure("resolving config directory failed", err)
		}

		apply := store.Apply
		if flagDryRun {
			apply = store.Preview
		}
		res, err := apply(p.Config())
		if err != nil {
			return runtimeFailure("configuring codex failed", err)
		}

		out := cmd.OutOrStdout()
		if flagDryRun {
			data, err := config.Render(res.Config)
			if err != nil {
				return runtimeFailure("rendering config failed", err)
			}
			if _, err := fmt.Fprintf(out, "%s\n\n", data); err != nil {
				return runtimeFailure("writing output failed", err)
			}
		}
		err = report.Write(out, report.Summary{
			Path:      res.Path,
			Config:    res.Config,
			Merged:    res.Existing && !res.Recovered,
			Recovered: res.Recovered,
			DryRun:    flagDryRun,
		})
		if err != nil {
			return runtimeFailure("writing report failed", err)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the Codex config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return runtimeFailure("resolving config directory failed", err)
		}
		data, err := afero.ReadFile(fsys, store.Path())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(cmd.ErrOrStderr(), "No config file at %s; run codex-local init\n", store.Path())
				exitCode = ExitRuntimeError
				return nil
			}
			return runtimeFailure("reading config failed", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), maskConfig(data))
		return nil
	},
}

// maskConfig hides credentials unless --reveal is set. A file that is not a
// JSON object is scanned as plain text.
func maskConfig(data []byte) string {
	if flagReveal {
		return string(data)
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return redact.Secrets(string(data))
	}
	masked, err := config.Render(redact.Config(cfg))
	if err != nil {
		return redact.Secrets(string(data))
	}
	return string(masked)
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path of the Codex config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return runtimeFailure("resolving config directory failed", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), store.Path())
		return nil
	},
}

func init() {
	f := initCmd.Flags()
	f.BoolVar(&flagDryRun, "dry-run", false, "Print the merged config instead of writing it")
	f.StringVar(&flagOverride.Model, "model", "", "Model name served by the middleware")
	f.StringVar(&flagOverride.Provider, "provider", "", "Provider key to write under providers")
	f.StringVar(&flagOverride.ApprovalMode, "approval-mode", "", "Approval mode (suggest, auto-edit, full-auto)")
	f.BoolVar(&flagOverride.Notify, "notify", false, "Enable desktop notifications")
	f.BoolVar(&flagOverride.DisableResponseStorage, "disable-response-storage", false, "Disable server-side response storage")
	f.StringVar(&flagOverride.DisplayName, "display-name", "", "Human-readable provider name")
	f.StringVar(&flagOverride.BaseURL, "base-url", "", "Base URL of the middleware")
	f.StringVar(&flagOverride.EnvKey, "env-key", "", "Environment variable holding the API key")

	showCmd.Flags().BoolVar(&flagReveal, "reveal", false, "Print credentials instead of masking them")
}
