// Package profile defines the default settings that point Codex at a local
// middleware.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CODEX_LOCAL_MODEL, CODEX_LOCAL_BASE_URL, etc.)
//  3. Built-in defaults
//
// Use [Resolve] to obtain a validated [Profile] and [Profile.Config] to turn
// it into the mapping written to the config file.
package profile
