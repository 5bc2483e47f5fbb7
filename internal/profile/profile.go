package profile

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/dshills/codex-local/internal/config"
)

// EnvPrefix is prepended to every environment variable read by FromEnv.
const EnvPrefix = "CODEX_LOCAL_"

// ApprovalModes lists the approval modes Codex accepts.
var ApprovalModes = []string{"suggest", "auto-edit", "full-auto"}

var envKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Profile describes the local middleware provider and the top-level settings
// that go with it.
type Profile struct {
	Model                  string `env:"MODEL"`
	Provider               string `env:"PROVIDER"`
	ApprovalMode           string `env:"APPROVAL_MODE"`
	Notify                 bool   `env:"NOTIFY"`
	DisableResponseStorage bool   `env:"DISABLE_RESPONSE_STORAGE"`
	DisplayName            string `env:"DISPLAY_NAME"`
	BaseURL                string `env:"BASE_URL"`
	EnvKey                 string `env:"ENV_KEY"`
}

// Default returns the built-in local middleware profile.
func Default() Profile {
	return Profile{
		Model:        "gpt-4",
		Provider:     "local",
		ApprovalMode: "suggest",
		DisplayName:  "Local Middleware",
		BaseURL:      "http://localhost:1234/v1",
		EnvKey:       "LOCAL_API_KEY",
	}
}

// FromEnv reads CODEX_LOCAL_* variables. Unset variables leave fields zero.
func FromEnv() (Profile, error) {
	var p Profile
	if err := env.ParseWithOptions(&p, env.Options{Prefix: EnvPrefix}); err != nil {
		return Profile{}, fmt.Errorf("reading environment: %w", err)
	}
	return p, nil
}

// Option sets a field explicitly, including to its zero value.
type Option func(*Profile)

// WithNotify sets Notify regardless of earlier layers.
func WithNotify(v bool) Option {
	return func(p *Profile) { p.Notify = v }
}

// WithDisableResponseStorage sets DisableResponseStorage regardless of earlier layers.
func WithDisableResponseStorage(v bool) Option {
	return func(p *Profile) { p.DisableResponseStorage = v }
}

// Resolve builds the effective profile: defaults <- env <- overrides <- opts.
// Only non-zero fields of the env profile and of overrides take effect; use
// opts to switch a boolean back off.
func Resolve(overrides Profile, opts ...Option) (Profile, error) {
	envProfile, err := FromEnv()
	if err != nil {
		return Profile{}, err
	}

	p := Default()
	for _, layer := range []Profile{envProfile, overrides} {
		if err := mergo.Merge(&p, layer, mergo.WithOverride); err != nil {
			return Profile{}, fmt.Errorf("merging profile: %w", err)
		}
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks that the profile can be written as a usable provider entry.
func (p Profile) Validate() error {
	var errs []error
	if p.Model == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}
	if p.Provider == "" {
		errs = append(errs, errors.New("provider must not be empty"))
	}
	if !slices.Contains(ApprovalModes, p.ApprovalMode) {
		errs = append(errs, fmt.Errorf("approval mode %q must be one of %v", p.ApprovalMode, ApprovalModes))
	}
	if err := validateBaseURL(p.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if !envKeyPattern.MatchString(p.EnvKey) {
		errs = append(errs, fmt.Errorf("env key %q is not a valid environment variable name", p.EnvKey))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid profile: %w", errors.Join(errs...))
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", raw)
	}
	return nil
}

// Config renders the profile as the default mapping merged into the config
// file. The providers object holds a single entry keyed by Provider.
func (p Profile) Config() config.Config {
	return config.Config{
		config.KeyModel:                  p.Model,
		config.KeyProvider:               p.Provider,
		config.KeyApprovalMode:           p.ApprovalMode,
		config.KeyNotify:                 p.Notify,
		config.KeyDisableResponseStorage: p.DisableResponseStorage,
		config.KeyProviders: map[string]any{
			p.Provider: map[string]any{
				config.KeyProviderName:    p.DisplayName,
				config.KeyProviderBaseURL: p.BaseURL,
				config.KeyProviderEnvKey:  p.EnvKey,
			},
		},
	}
}
