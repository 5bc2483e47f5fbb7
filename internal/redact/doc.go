// Package redact masks credentials in a Codex configuration before it is
// printed.
//
// Values stored under credential-like keys (apiKey, token, secret, password)
// are replaced with [REDACTED]. Other string values and raw text are scanned
// with regex heuristics for common key shapes (OpenAI, Anthropic, GitHub,
// Slack, JWTs, bearer tokens).
//
// Key names that only name an environment variable, such as envKey, are left
// alone since they hold no secret.
package redact
