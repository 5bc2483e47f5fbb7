package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

var (
	flagVerbose   bool
	flagConfigDir string
)

// fsys is the filesystem every command reads and writes through.
var fsys afero.Fs = afero.NewOsFs()

// logger is configured by the root command before any subcommand runs.
var logger = newLogger(os.Stderr, false)

var rootCmd = &cobra.Command{
	Use:          "codex-local",
	Short:        "Point the Codex CLI at a local middleware",
	Long:         "codex-local writes the Codex configuration file so that it uses an OpenAI-compatible middleware running on this machine.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), flagVerbose)
	},
}

// Run executes the root command and returns an exit code.
func Run() int {
	return execute(os.Args[1:])
}

func execute(args []string) int {
	exitCode = ExitSuccess
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

func newLogger(w io.Writer, verbose bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "codex-local"})
	if verbose {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.WarnLevel)
	}
	return l
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print codex-local version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "codex-local version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Config directory (default $CODEX_HOME or ~/.codex)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(versionCmd)
}
