package profile

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/issuelane/issuelane/internal/keys"
	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/theme"
)

// BackMsg signals the parent to close the profile panel.
type BackMsg struct{}

// Model shows the cached profile record. The view never refetches; it
// renders whatever was cached at sign-in.
type Model struct {
	profile *model.UserProfile
	keys    *keys.KeyMap
	width   int
	height  int
}

// New creates a new profile panel model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the profile panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg { return BackMsg{} }
		}
	}
	return m, nil
}

// SetProfile updates the displayed record.
func (m *Model) SetProfile(p *model.UserProfile) {
	m.profile = p
}

// View renders the profile panel.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var lines []string
	lines = append(lines, titleStyle.Render("Profile"))

	if m.profile == nil {
		lines = append(lines, theme.HelpStyle.Render("Not signed in."))
		return theme.PanelStyle.Width(m.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, lines...),
		)
	}

	p := m.profile

	avatar := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Background(theme.ColorIndigo).
		Padding(0, 1).
		Render(model.Initials(p.DisplayName()))

	nameLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		avatar,
		" ",
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(p.DisplayName()),
	)
	lines = append(lines, nameLine, "")

	lines = append(lines, m.row("Username", p.Username))
	lines = append(lines, m.row("Email", p.Email))
	if p.Assignment != nil {
		lines = append(lines, m.row("Role", p.Assignment.RoleName))
		lines = append(lines, m.row("Designation", p.Assignment.DesignationName))
	} else {
		lines = append(lines, m.row("Role", "Unassigned"))
	}
	if p.MobileNumber != "" {
		lines = append(lines, m.row("Mobile", p.MobileNumber))
	}
	if p.Address != "" {
		lines = append(lines, m.row("Address", p.Address))
	}
	if p.Birthday != "" {
		lines = append(lines, m.row("Birthday", p.Birthday))
	}
	if !p.CreatedAt.IsZero() {
		lines = append(lines, m.row("Member since", p.CreatedAt.Format("January 2006")))
	}

	return theme.PanelStyle.Width(m.width - 4).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

func (m Model) row(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(14).
		Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().
		Foreground(theme.ColorWhite)
	return fmt.Sprintf("%s %s", labelStyle.Render(label+":"), valStyle.Render(value))
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
