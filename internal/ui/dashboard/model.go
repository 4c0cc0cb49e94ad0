package dashboard

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/theme"
)

// recentCount is how many tickets the recent activity panel shows.
const recentCount = 5

// Model is the dashboard view: stat cards over the fetched tickets,
// the task total, recent tickets, and the unread notification badge.
type Model struct {
	profile *model.UserProfile
	tickets []model.Ticket
	tasks   []model.Task
	unread  int

	width  int
	height int
}

// New creates a new dashboard model.
func New(width, height int) Model {
	return Model{
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// SetProfile records the signed-in user for the greeting line.
func (m *Model) SetProfile(p *model.UserProfile) {
	m.profile = p
}

// SetTickets updates the ticket set behind the stat cards.
func (m *Model) SetTickets(tickets []model.Ticket) {
	m.tickets = tickets
}

// SetTasks updates the task set behind the task card.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = tasks
}

// SetUnread updates the unread notification count.
func (m *Model) SetUnread(n int) {
	m.unread = n
}

// View renders the dashboard.
func (m Model) View() string {
	var sections []string

	greeting := "Welcome back"
	if m.profile != nil {
		greeting = "Welcome back, " + m.profile.DisplayName()
	}
	greetStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Margin(1, 0, 0, 2)
	sections = append(sections, greetStyle.Render(greeting))

	if m.unread > 0 {
		badge := theme.WarningStyle.
			MarginLeft(2).
			Render(fmt.Sprintf("%d unread notifications", m.unread))
		sections = append(sections, badge)
	}

	sections = append(sections, "", m.renderCards(), "", m.renderRecent())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderCards draws the counters row.
func (m Model) renderCards() string {
	open := m.countStatus(model.TicketStatusOpen)
	inProgress := m.countStatus(model.TicketStatusInProgress)
	resolved := m.countStatus(model.TicketStatusResolved)

	cards := []string{
		m.card("Tickets", len(m.tickets), theme.ColorIndigo),
		m.card("Open", open, theme.ColorBlue),
		m.card("In Progress", inProgress, theme.ColorYellow),
		m.card("Resolved", resolved, theme.ColorGreen),
		m.card("Tasks", len(m.tasks), theme.ColorMagenta),
	}

	return lipgloss.NewStyle().
		MarginLeft(2).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

// card draws one stat card.
func (m Model) card(label string, count int, color lipgloss.AdaptiveColor) string {
	countStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(color)
	labelStyle := lipgloss.NewStyle().
		Foreground(theme.ColorGray)

	body := lipgloss.JoinVertical(
		lipgloss.Center,
		countStyle.Render(fmt.Sprintf("%d", count)),
		labelStyle.Render(label),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Padding(0, 2).
		MarginRight(1).
		Render(body)
}

// renderRecent draws the newest tickets.
func (m Model) renderRecent() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginLeft(2)

	if len(m.tickets) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			headerStyle.Render("Recent Tickets"),
			theme.HelpStyle.MarginLeft(2).Render("No tickets yet. Press : and type 'tickets'."),
		)
	}

	lines := []string{headerStyle.Render("Recent Tickets")}

	n := len(m.tickets)
	if n > recentCount {
		n = recentCount
	}
	for _, t := range m.tickets[:n] {
		id := lipgloss.NewStyle().Foreground(theme.ColorGray).Render(t.ID)
		status := theme.StatusStyle(string(t.Status)).Render(string(t.Status))
		pri := theme.PriorityStyle(string(t.Priority)).Render(string(t.Priority))
		line := fmt.Sprintf("  %s %s %s %s", id, status, pri, t.Title)
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) countStatus(s model.TicketStatus) int {
	n := 0
	for _, t := range m.tickets {
		if t.Status == s {
			n++
		}
	}
	return n
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
