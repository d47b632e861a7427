// Package theme provides the Lip Gloss color palette and reusable styles
// for the totp-live TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Session state colors.
var (
	ColorIdle         = lipgloss.Color("#6b7280")
	ColorConnecting   = lipgloss.Color("#7c3aed")
	ColorActive       = lipgloss.Color("#22c55e")
	ColorRetryPending = lipgloss.Color("#d97706")
	ColorTerminal     = lipgloss.Color("#dc2626")
)

// Countdown thresholds.
var (
	ColorTimeHigh = lipgloss.Color("#22c55e") // >50% left
	ColorTimeMid  = lipgloss.Color("#d97706") // 20-50%
	ColorTimeLow  = lipgloss.Color("#dc2626") // <20%
)

// Code colors.
var (
	ColorCode     = lipgloss.Color("#f9fafb")
	ColorSentinel = lipgloss.Color("#4b5563")
	ColorFailed   = lipgloss.Color("#dc2626")
)

// UI chrome colors.
var (
	ColorBorder = lipgloss.Color("#4b5563")
	ColorDimmed = lipgloss.Color("#6b7280")
	ColorBright = lipgloss.Color("#f9fafb")
	ColorAccent = lipgloss.Color("#3b82f6")
	ColorDanger = lipgloss.Color("#dc2626")
	ColorInfo   = lipgloss.Color("#06b6d4")
)

// StateColor returns the color for a session state name.
func StateColor(state string) lipgloss.Color {
	switch state {
	case "connecting":
		return ColorConnecting
	case "active":
		return ColorActive
	case "retry_pending":
		return ColorRetryPending
	case "terminal":
		return ColorTerminal
	default:
		return ColorIdle
	}
}

// StateGlyph returns a Unicode glyph for a session state name.
func StateGlyph(state string) string {
	switch state {
	case "connecting":
		return "◎"
	case "active":
		return "●"
	case "retry_pending":
		return "↻"
	case "terminal":
		return "✗"
	default:
		return "○"
	}
}

// TimeColor returns the color for the share of the period still remaining.
func TimeColor(pct float64) lipgloss.Color {
	switch {
	case pct > 50:
		return ColorTimeHigh
	case pct >= 20:
		return ColorTimeMid
	default:
		return ColorTimeLow
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
		Foreground(ColorDimmed)

	StyleLabel = lipgloss.NewStyle().
		Width(8).
		Foreground(ColorDimmed)

	StyleFocused = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent)
)
