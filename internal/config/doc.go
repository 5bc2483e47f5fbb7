// Package config reads, merges and writes the Codex configuration file.
//
// The file lives at <dir>/config.json, where dir is chosen by the caller
// (normally $CODEX_HOME or ~/.codex). A [Store] performs the whole
// initialization sequence in [Store.Apply]:
//
//  1. create the directory if it is missing
//  2. load the existing file, falling back to an empty [Config] when it
//     cannot be parsed
//  3. overlay the defaults one level deep with [Merge]
//  4. write the result back as 2-space indented JSON
//
// Filesystem access goes through an [afero.Fs] so callers can substitute an
// in-memory or read-only filesystem.
package config
