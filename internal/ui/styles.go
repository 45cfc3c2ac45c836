package ui

import "github.com/charmbracelet/lipgloss"

// Color palette - single cyan accent with per-status colors for
// alignment states.
const (
	ColorCyan     = "51"  // Primary accent (#00FFFF)
	ColorCyanDim  = "37"  // Dimmed cyan for secondary headings
	ColorWhite    = "255" // Important text
	ColorGray     = "245" // Labels, secondary text
	ColorDarkGray = "238" // Borders, separators
	ColorGreen    = "40"  // Approved links
	ColorBlue     = "75"  // Machine-created links
	ColorYellow   = "220" // Needs review, warnings
	ColorRed      = "196" // Rejected links, errors
	ColorMagenta  = "213" // Missing alignments
)

// Styles holds all terminal styles for CLI rendering.
type Styles struct {
	// Text styles
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
	Label   lipgloss.Style
	Lemma   lipgloss.Style
	Ref     lipgloss.Style

	// Alignment status styles
	Approved    lipgloss.Style
	Created     lipgloss.Style
	NeedsReview lipgloss.Style
	Rejected    lipgloss.Style
	Missing     lipgloss.Style

	// Layout styles
	Border   lipgloss.Style
	Panel    lipgloss.Style
	Bar      lipgloss.Style
	BarEmpty lipgloss.Style
}

// DefaultStyles returns styled components for terminal mode.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorCyan)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Lemma:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Ref:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyanDim)),

		Approved:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Created:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlue)),
		NeedsReview: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Rejected:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Missing:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMagenta)),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorDarkGray)).
			Padding(0, 1),
		Bar:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyan)),
		BarEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:      lipgloss.NewStyle(),
		Success:     lipgloss.NewStyle(),
		Warning:     lipgloss.NewStyle(),
		Error:       lipgloss.NewStyle(),
		Dim:         lipgloss.NewStyle(),
		Label:       lipgloss.NewStyle(),
		Lemma:       lipgloss.NewStyle(),
		Ref:         lipgloss.NewStyle(),
		Approved:    lipgloss.NewStyle(),
		Created:     lipgloss.NewStyle(),
		NeedsReview: lipgloss.NewStyle(),
		Rejected:    lipgloss.NewStyle(),
		Missing:     lipgloss.NewStyle(),
		Border:      lipgloss.NewStyle(),
		Panel:       lipgloss.NewStyle(),
		Bar:         lipgloss.NewStyle(),
		BarEmpty:    lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
