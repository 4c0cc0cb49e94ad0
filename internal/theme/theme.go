package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorIndigo  = lipgloss.AdaptiveColor{Dark: "#748FFC", Light: "#4C51BF"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorIndigo).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps modal-like content areas (forms, notifications,
// profile).
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorIndigo).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorIndigo)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle mutes closed/completed records in lists.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// DueDateStyle renders due-date labels in list rows.
var DueDateStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// OverdueStyle flags records past their due date.
var OverdueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// ErrorStyle renders terminal failure notices.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// WarningStyle renders recovered, non-fatal notices.
var WarningStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorOrange)

// SuccessStyle renders completion notices.
var SuccessStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGreen)

// StatusStyle returns a color-coded style for a ticket or task status.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case "Open":
		return base.Foreground(ColorBlue)
	case "In Progress":
		return base.Foreground(ColorYellow)
	case "Waiting", "To Do":
		return base.Foreground(ColorGray)
	case "In Review":
		return base.Foreground(ColorMagenta)
	case "Resolved", "Completed":
		return base.Foreground(ColorGreen)
	case "Closed":
		return base.Foreground(ColorSubtle)
	default:
		return base.Foreground(ColorGray)
	}
}

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(priority string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case "Urgent":
		return base.Foreground(ColorRed)
	case "High":
		return base.Foreground(ColorOrange)
	case "Medium":
		return base.Foreground(ColorBlue)
	case "Low":
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorGray)
	}
}

// CategoryStyle returns a color-coded style for a notification category.
func CategoryStyle(category string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch category {
	case "ticket":
		return base.Foreground(ColorIndigo)
	case "task":
		return base.Foreground(ColorGreen)
	case "mention":
		return base.Foreground(ColorMagenta)
	case "system":
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}
