// Package ui provides terminal styling for CLI output.
package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/scripturelens/scripturelens/internal/align"
)

// StatusStyle returns the style for an alignment status.
func (s Styles) StatusStyle(status align.Status) lipgloss.Style {
	switch status {
	case align.StatusApproved:
		return s.Approved
	case align.StatusCreated:
		return s.Created
	case align.StatusNeedsReview:
		return s.NeedsReview
	case align.StatusRejected:
		return s.Rejected
	case align.StatusMissing:
		return s.Missing
	default:
		return s.Dim
	}
}

// PercentBar renders a fixed-width completion bar like "████░░░░░░ 42.0%".
func (s Styles) PercentBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * float64(width))
	var sb strings.Builder
	sb.WriteString(s.Bar.Render(strings.Repeat("█", filled)))
	sb.WriteString(s.BarEmpty.Render(strings.Repeat("░", width-filled)))
	return sb.String()
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

// StylesFor picks colored or plain styles for the given writer, honoring
// NO_COLOR and CI environments.
func StylesFor(w io.Writer) Styles {
	if DetectNoColor() || DetectCI() || !IsTTY(w) {
		return NoColorStyles()
	}
	return DefaultStyles()
}
