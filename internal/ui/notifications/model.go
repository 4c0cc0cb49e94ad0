package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/issuelane/issuelane/internal/keys"
	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/store"
	"github.com/issuelane/issuelane/internal/theme"
)

// LoadedMsg carries the notification set after a store read.
type LoadedMsg struct {
	Notifications []model.Notification
	Unread        int
	Err           error
}

// BackMsg signals the parent to close the notifications panel.
type BackMsg struct{}

// Model is the notifications panel. Notifications are client-local:
// they live in the store and their read state survives restarts, but
// no backend traffic is involved.
type Model struct {
	store store.Store
	keys  *keys.KeyMap

	notifications []model.Notification
	cursor        int
	err           error

	width  int
	height int
}

// New creates a new notifications model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the notifications.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load returns a tea.Cmd that reads the notification set from the
// store.
func (m Model) Load() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		items, err := s.GetNotifications(context.Background())
		if err != nil {
			return LoadedMsg{Err: err}
		}
		unread, err := s.CountUnreadNotifications(context.Background())
		if err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Notifications: items, Unread: unread}
	}
}

// Update handles messages for the notifications panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.notifications = msg.Notifications
		if m.cursor >= len(m.notifications) {
			m.cursor = len(m.notifications) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.notifications)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if m.cursor >= len(m.notifications) {
				return m, nil
			}
			id := m.notifications[m.cursor].ID
			s := m.store
			return m, func() tea.Msg {
				if err := s.MarkNotificationRead(context.Background(), id); err != nil {
					return LoadedMsg{Err: err}
				}
				items, err := s.GetNotifications(context.Background())
				if err != nil {
					return LoadedMsg{Err: err}
				}
				unread, err := s.CountUnreadNotifications(context.Background())
				if err != nil {
					return LoadedMsg{Err: err}
				}
				return LoadedMsg{Notifications: items, Unread: unread}
			}

		case msg.String() == "a":
			s := m.store
			return m, func() tea.Msg {
				if err := s.MarkAllNotificationsRead(context.Background()); err != nil {
					return LoadedMsg{Err: err}
				}
				items, err := s.GetNotifications(context.Background())
				if err != nil {
					return LoadedMsg{Err: err}
				}
				return LoadedMsg{Notifications: items, Unread: 0}
			}
		}
	}

	return m, nil
}

// View renders the notifications panel.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Notifications")
	hint := theme.HelpStyle.Render("enter mark read, a mark all read, esc close")

	var lines []string
	lines = append(lines, title, hint, "")

	if m.err != nil {
		lines = append(lines, theme.ErrorStyle.Render(m.err.Error()))
	} else if len(m.notifications) == 0 {
		lines = append(lines, theme.HelpStyle.Render("Nothing here yet."))
	}

	for i, n := range m.notifications {
		lines = append(lines, m.renderRow(i, n))
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderRow draws one notification line.
func (m Model) renderRow(index int, n model.Notification) string {
	marker := " "
	if n.Unread {
		marker = lipgloss.NewStyle().Foreground(theme.ColorIndigo).Render("●")
	}

	category := theme.CategoryStyle(string(n.Category)).Render(string(n.Category))
	when := theme.HelpStyle.Render(relativeTime(n.CreatedAt))

	line := fmt.Sprintf("%s %s %s  %s %s", marker, category, n.Title, n.Message, when)
	if !n.Unread {
		line = theme.DimmedStyle.Render(line)
	}

	if index == m.cursor {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
