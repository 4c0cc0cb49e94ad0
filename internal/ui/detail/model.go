package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/issuelane/issuelane/internal/keys"
	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// TicketStatusChangedMsg is sent when the user picks a new status for
// the displayed ticket. The change is display-only; no backend write
// happens and a refresh restores the stored value.
type TicketStatusChangedMsg struct {
	TicketID string
	Status   model.TicketStatus
}

// TaskStatusChangedMsg is sent when the user picks a new status for the
// displayed task.
type TaskStatusChangedMsg struct {
	TaskID string
	Status model.TaskStatus
}

// recordKind discriminates what the detail view is showing.
type recordKind int

const (
	kindNone recordKind = iota
	kindTicket
	kindTask
)

// Model is the record detail view component, shared by tickets and
// tasks.
type Model struct {
	kind   recordKind
	ticket model.Ticket
	task   model.Task

	viewport viewport.Model
	keys     *keys.KeyMap

	statusMode  bool
	statusIndex int

	width  int
	height int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.statusMode {
			return m.handleStatusKeys(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Status):
			if m.kind == kindNone {
				return m, nil
			}
			m.statusMode = true
			m.statusIndex = m.currentStatusIndex()
			m.viewport.SetContent(m.renderContent())
			return m, nil
		}
	}

	// Viewport handles scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleStatusKeys processes key input while the status selector is
// open.
func (m Model) handleStatusKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	choices := m.statusChoices()

	switch msg.String() {
	case "esc":
		m.statusMode = false
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case "j", "down":
		if m.statusIndex < len(choices)-1 {
			m.statusIndex++
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case "k", "up":
		if m.statusIndex > 0 {
			m.statusIndex--
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case "enter":
		m.statusMode = false
		chosen := choices[m.statusIndex]

		switch m.kind {
		case kindTicket:
			m.ticket.Status = model.TicketStatus(chosen)
			m.viewport.SetContent(m.renderContent())
			id := m.ticket.ID
			return m, func() tea.Msg {
				return TicketStatusChangedMsg{
					TicketID: id,
					Status:   model.TicketStatus(chosen),
				}
			}

		case kindTask:
			m.task.ApplyStatus(model.TaskStatus(chosen))
			m.viewport.SetContent(m.renderContent())
			id := m.task.ID
			return m, func() tea.Msg {
				return TaskStatusChangedMsg{
					TaskID: id,
					Status: model.TaskStatus(chosen),
				}
			}
		}
	}

	return m, nil
}

// statusChoices returns the status values offered by the selector.
func (m Model) statusChoices() []string {
	switch m.kind {
	case kindTicket:
		statuses := model.TicketStatuses()
		choices := make([]string, len(statuses))
		for i, s := range statuses {
			choices[i] = string(s)
		}
		return choices
	case kindTask:
		statuses := model.TaskStatuses()
		choices := make([]string, len(statuses))
		for i, s := range statuses {
			choices[i] = string(s)
		}
		return choices
	}
	return nil
}

// currentStatusIndex returns the selector index of the record's
// current status.
func (m Model) currentStatusIndex() int {
	var current string
	switch m.kind {
	case kindTicket:
		current = string(m.ticket.Status)
	case kindTask:
		current = string(m.task.Status)
	}
	for i, c := range m.statusChoices() {
		if c == current {
			return i
		}
	}
	return 0
}

// View renders the detail view.
func (m Model) View() string {
	if m.kind == kindNone {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No record selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	switch m.kind {
	case kindTicket:
		return m.renderTicket()
	case kindTask:
		return m.renderTask()
	}
	return ""
}

// renderTicket builds the ticket detail content.
func (m Model) renderTicket() string {
	t := m.ticket
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(t.ID+"  "+t.Title))

	statusBadge := theme.StatusStyle(string(t.Status)).Render(string(t.Status))
	priBadge := theme.PriorityStyle(string(t.Priority)).Render(string(t.Priority))
	badgeLine := lipgloss.JoinHorizontal(lipgloss.Top, statusBadge, "  ", priBadge)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	assignee := "Unassigned"
	if t.Assignee != nil {
		assignee = t.Assignee.Name
	}
	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Assignee:"),
		valStyle.Render(assignee),
	))

	if t.Reporter != nil {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Reporter:"),
			valStyle.Render(t.Reporter.Name),
		))
	}
	if !t.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Created:"),
			valStyle.Render(t.CreatedAt.Format("2006-01-02 15:04")),
		))
	}
	if !t.UpdatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Updated:"),
			valStyle.Render(t.UpdatedAt.Format("2006-01-02 15:04")),
		))
	}
	if t.DueDate != nil {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Deadline:"),
			valStyle.Render(t.DueDate.Format("2006-01-02")),
		))
	}

	sections = append(sections, m.separatorBlock()...)

	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, descHeaderStyle.Render("Description"))

	body := t.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, body)

	if len(t.Attachments) > 0 {
		sections = append(sections, m.separatorBlock()...)

		attachHeader := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
		sections = append(sections, attachHeader.Render(
			fmt.Sprintf("Attachments (%d)", len(t.Attachments)),
		))
		sections = append(sections, "")

		for _, a := range t.Attachments {
			line := fmt.Sprintf(
				"%s %s",
				metaStyle.Render("["+a.MimeType+"]"),
				valStyle.Render(a.URL),
			)
			sections = append(sections, line)
		}
	}

	if m.statusMode {
		sections = append(sections, m.renderStatusSelector()...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTask builds the task detail content.
func (m Model) renderTask() string {
	t := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(t.ID+"  "+t.Title))

	statusBadge := theme.StatusStyle(string(t.Status)).Render(string(t.Status))
	priBadge := theme.PriorityStyle(string(t.Priority)).Render(string(t.Priority))
	badgeLine := lipgloss.JoinHorizontal(lipgloss.Top, statusBadge, "  ", priBadge)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if t.Project != "" {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Project:"),
			valStyle.Render(t.Project),
		))
	}
	if t.Assignee != nil {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Assignee:"),
			valStyle.Render(t.Assignee.Name),
		))
	}
	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Progress:"),
		valStyle.Render(fmt.Sprintf("%d%%  %s", t.Progress, progressBar(t.Progress, 20))),
	))
	if t.EstimatedHours > 0 {
		sections = append(sections, fmt.Sprintf(
			"%s     %s",
			metaStyle.Render("Hours:"),
			valStyle.Render(fmt.Sprintf("%dh logged of %dh estimated",
				t.LoggedHours, t.EstimatedHours)),
		))
	}
	if t.DueDate != nil {
		sections = append(sections, fmt.Sprintf(
			"%s       %s",
			metaStyle.Render("Due:"),
			valStyle.Render(t.DueDate.Format("2006-01-02")),
		))
	}

	sections = append(sections, m.separatorBlock()...)

	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, descHeaderStyle.Render("Description"))

	body := t.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, body)

	if m.statusMode {
		sections = append(sections, m.renderStatusSelector()...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusSelector builds the inline status picker block.
func (m Model) renderStatusSelector() []string {
	sections := m.separatorBlock()

	header := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, header.Render("Change status"))
	sections = append(sections, theme.HelpStyle.Render("j/k move, enter apply, esc cancel"))
	sections = append(sections, "")

	for i, choice := range m.statusChoices() {
		label := theme.StatusStyle(choice).Render(choice)
		if i == m.statusIndex {
			sections = append(sections, theme.SelectedItemStyle.Render("> "+label))
		} else {
			sections = append(sections, theme.ListItemStyle.Render("  "+label))
		}
	}

	return sections
}

// separatorBlock returns a blank line, a horizontal rule, and another
// blank line.
func (m Model) separatorBlock() []string {
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	return []string{"", separator, ""}
}

// SetTicket switches the view to the given ticket.
func (m *Model) SetTicket(t model.Ticket) {
	m.kind = kindTicket
	m.ticket = t
	m.statusMode = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetTask switches the view to the given task.
func (m *Model) SetTask(t model.Task) {
	m.kind = kindTask
	m.task = t
	m.statusMode = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// InStatusMode reports whether the inline status selector is open.
func (m Model) InStatusMode() bool {
	return m.statusMode
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// progressBar renders a fixed-width text progress bar.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
