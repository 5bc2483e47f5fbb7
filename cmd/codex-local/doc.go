// Codex-local points the Codex CLI at an OpenAI-compatible middleware running
// on this machine.
//
// It merges a local provider entry and matching defaults into
// ~/.codex/config.json, keeping any unrelated settings already in the file.
//
// Usage:
//
//	codex-local init                          # write the local middleware config
//	codex-local init --base-url http://localhost:8080/v1
//	codex-local init --dry-run                # print the merged config only
//	codex-local show                          # print the config file
//	codex-local path                          # print the config file path
//
// The directory defaults to $CODEX_HOME, then ~/.codex, and can be set with
// --config-dir.
package main
