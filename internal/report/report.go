package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dshills/codex-local/internal/config"
)

// PlaceholderAPIKey is the value suggested for the API key variable. The local
// middleware does not check it.
const PlaceholderAPIKey = "dummy-key-for-local"

const (
	colorTitle   = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorMuted   = lipgloss.Color("#6B7280")
	colorCommand = lipgloss.Color("#3B82F6")
	colorWarning = lipgloss.Color("#F59E0B")
)

type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	muted   lipgloss.Style
	command lipgloss.Style
	warning lipgloss.Style
}

// newStyles binds the palette to w so that colors are dropped when w is not a
// terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(colorTitle),
		success: r.NewStyle().Bold(true).Foreground(colorSuccess),
		muted:   r.NewStyle().Foreground(colorMuted),
		command: r.NewStyle().Foreground(colorCommand),
		warning: r.NewStyle().Foreground(colorWarning),
	}
}

// Summary is what the report needs to know about a completed run.
type Summary struct {
	Path   string
	Config config.Config
	// Merged reports whether an existing file was merged into.
	Merged bool
	// Recovered reports whether an unparseable file was replaced.
	Recovered bool
	DryRun    bool
}

// Write prints the status block, quick-start instructions and the resulting
// provider, model and base URL. Values are read from s.Config, not from the
// defaults, so the report reflects what was actually written.
func Write(w io.Writer, s Summary) error {
	st := newStyles(w)
	provider := s.Config.String(config.KeyProvider)
	model := s.Config.String(config.KeyModel)
	baseURL := s.Config.ProviderField(provider, config.KeyProviderBaseURL)
	envKey := s.Config.ProviderField(provider, config.KeyProviderEnvKey)

	var lines []string
	switch {
	case s.Recovered:
		lines = append(lines, st.warning.Render("Could not parse existing config, created a fresh one."))
	case s.Merged:
		lines = append(lines, st.muted.Render("Found existing config, merged local settings into it."))
	}
	if s.DryRun {
		lines = append(lines, st.title.Render("Dry run: nothing was written."))
	} else {
		lines = append(lines,
			st.success.Render("Codex configured for local middleware!"),
			fmt.Sprintf("Configuration saved to: %s", s.Path),
		)
	}

	lines = append(lines,
		"",
		st.title.Render("Quick Start:"),
		fmt.Sprintf("1. Make sure your middleware is listening on %s", st.command.Render(baseURL)),
	)
	if envKey != "" {
		lines = append(lines, fmt.Sprintf("2. Set the API key: %s",
			st.command.Render(fmt.Sprintf("export %s=%q", envKey, PlaceholderAPIKey))))
	} else {
		lines = append(lines, "2. No API key variable is configured for this provider")
	}
	lines = append(lines,
		fmt.Sprintf("3. Run codex: %s", st.command.Render(`codex "get current tasks"`)),
		"",
		st.title.Render("Configuration:"),
		fmt.Sprintf("- Provider: %s", provider),
		fmt.Sprintf("- Model: %s", model),
		fmt.Sprintf("- Base URL: %s", baseURL),
	)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
