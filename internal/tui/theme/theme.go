// Package theme provides the dashboard's colors, styles and glyphs.
// All colors are adaptive so they work on light and dark terminals.
//
// NO_COLOR is respected by lipgloss through its color profile detection.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// --- Adaptive Color Palette ---

var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#66bb6a"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#ef5350"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#e65100", Dark: "#ffa726"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#0277bd", Dark: "#4fc3f7"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#6a1b9a", Dark: "#ce93d8"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9e9e9e"}

	ColorBorder       = lipgloss.AdaptiveColor{Light: "#bdbdbd", Dark: "#616161"}
	ColorBorderActive = lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#42a5f5"}

	ColorBgAlt    = lipgloss.AdaptiveColor{Light: "#f5f5f5", Dark: "#2d2d2d"}
	ColorFgDim    = lipgloss.AdaptiveColor{Light: "#9e9e9e", Dark: "#757575"}
	ColorSelected = lipgloss.AdaptiveColor{Light: "#e3f2fd", Dark: "#263238"}
	ColorTabBg    = lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#333333"}
	ColorTabFg    = lipgloss.AdaptiveColor{Light: "#616161", Dark: "#9e9e9e"}
	ColorTabActBg = lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#42a5f5"}
	ColorTabActFg = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#1e1e1e"}
)

// --- Base styles ---

var (
	Bold = lipgloss.NewStyle().Bold(true)
	Dim  = lipgloss.NewStyle().Faint(true)

	TextSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	TextError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	TextWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	TextInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	TextAccent  = lipgloss.NewStyle().Foreground(ColorAccent)
	TextMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// --- Layout styles ---

var (
	BorderNormal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	BorderActive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderActive)

	SelectedRow = lipgloss.NewStyle().
			Background(ColorSelected).
			Bold(true)

	SectionTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// --- Tab bar styles ---

var (
	TabNormal = lipgloss.NewStyle().
			Foreground(ColorTabFg).
			Background(ColorTabBg).
			Padding(0, 2)

	TabActive = lipgloss.NewStyle().
			Foreground(ColorTabActFg).
			Background(ColorTabActBg).
			Bold(true).
			Padding(0, 2)
)

// --- Status bar ---

var (
	StatusBar = lipgloss.NewStyle().
			Foreground(ColorFgDim).
			Background(ColorBgAlt).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)
)

// --- Popups ---

var (
	Popup = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ColorBorderActive).
		Padding(1, 2)

	NoticePopup = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(1, 2)
)

// --- Statistics ---

var (
	StatCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StatValue = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	StatLabel = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// --- Diff lines ---

var (
	DiffInsert = lipgloss.NewStyle().Foreground(ColorSuccess)
	DiffDelete = lipgloss.NewStyle().Foreground(ColorError)
	DiffHeader = lipgloss.NewStyle().Foreground(ColorMuted).Bold(true)
)

// MinTabWidth is the minimum terminal width that shows all tab labels.
const MinTabWidth = 60

// ListWidth is the width of the test list pane.
const ListWidth = 32

// Clamp returns v clamped to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// StatusStyle returns the text style for a test status. Statuses without a
// result yet render muted.
func StatusStyle(s yamoritypes.Status) lipgloss.Style {
	switch s {
	case yamoritypes.StatusPass:
		return TextSuccess
	case yamoritypes.StatusFail, yamoritypes.StatusError:
		return TextError
	case yamoritypes.StatusTimedOut, yamoritypes.StatusBuildFailed:
		return TextWarning
	default:
		return TextMuted
	}
}

// StatusSymbol returns the glyph for a test status.
func StatusSymbol(s yamoritypes.Status) string {
	switch s {
	case yamoritypes.StatusPass:
		return SymbolPass
	case yamoritypes.StatusFail:
		return SymbolFail
	case yamoritypes.StatusTimedOut:
		return SymbolTimeout
	case yamoritypes.StatusBuildFailed:
		return SymbolBuild
	case yamoritypes.StatusError:
		return SymbolError
	default:
		return SymbolPending
	}
}
