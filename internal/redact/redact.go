package redact

import (
	"regexp"
	"strings"

	"github.com/dshills/codex-local/internal/config"
)

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for common secret types.
var secretPatterns = []*regexp.Regexp{
	// Bearer tokens
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs (three base64 segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// Slack tokens
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	// Anthropic API keys
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	// OpenAI API keys, including project keys
	regexp.MustCompile(`sk-(?:proj-)?[A-Za-z0-9_-]{20,}`),
	// Quoted JSON assignments to credential-like keys
	regexp.MustCompile(`(?i)("(?:api[_-]?key|api[_-]?secret|secret|token|access[_-]?token|password)"\s*:\s*)"[^"]+"`),
}

// sensitiveKeys are lower-cased key names whose values are always masked.
var sensitiveKeys = map[string]bool{
	"apikey":      true,
	"api_key":     true,
	"api-key":     true,
	"apisecret":   true,
	"secret":      true,
	"token":       true,
	"accesstoken": true,
	"password":    true,
}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	result := text
	for _, pat := range secretPatterns {
		if pat.NumSubexp() > 0 {
			result = pat.ReplaceAllString(result, `${1}"`+placeholder+`"`)
			continue
		}
		result = pat.ReplaceAllString(result, placeholder)
	}
	return result
}

// IsSensitiveKey reports whether values under key are always masked.
func IsSensitiveKey(key string) bool {
	return sensitiveKeys[strings.ToLower(key)]
}

// Config returns a deep copy of cfg with credentials masked. cfg is not modified.
func Config(cfg config.Config) config.Config {
	out := make(config.Config, len(cfg))
	for k, v := range cfg {
		out[k] = value(k, v)
	}
	return out
}

func value(key string, v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = value(k, inner)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = value(key, inner)
		}
		return s
	case string:
		if IsSensitiveKey(key) && t != "" {
			return placeholder
		}
		return Secrets(t)
	default:
		return v
	}
}
