package term

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles renders operator-facing terminal output.
//
// Construction takes an explicit color flag so callers (and tests)
// control ANSI emission; there is no global state.
type Styles struct {
	enabled bool

	pass lipgloss.Style
	fail lipgloss.Style
	link lipgloss.Style
	head lipgloss.Style
}

// NewStyles creates a style set. With color disabled every render
// returns its input text unchanged.
func NewStyles(color bool) Styles {
	if !color {
		return Styles{}
	}
	return Styles{
		enabled: true,
		pass:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		fail:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		link:    lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39")),
		head:    lipgloss.NewStyle().Bold(true),
	}
}

// PassBanner returns the banner printed when the test run passed.
func (s Styles) PassBanner() string {
	return s.render(s.pass, banner("FORGE TEST RUN PASSED"))
}

// FailBanner returns the banner printed when the test run failed.
func (s Styles) FailBanner() string {
	return s.render(s.fail, banner("FORGE TEST RUN FAILED"))
}

// Link highlights a clickable URL.
func (s Styles) Link(url string) string {
	return s.render(s.link, url)
}

// Heading emphasizes a progress heading.
func (s Styles) Heading(text string) string {
	return s.render(s.head, text)
}

func (s Styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

func banner(text string) string {
	rule := strings.Repeat("=", len(text)+8)
	return rule + "\n=== " + text + " ===\n" + rule
}
