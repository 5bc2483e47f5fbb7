// Package cli wires together the Cobra command tree for the codex-local binary.
//
// It defines the root command and its subcommands (init, show, path, version),
// binds flags, resolves the config directory, configures logging, and returns
// deterministic exit codes.
package cli
