package ticketlist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/theme"
)

// TicketItem wraps a model.Ticket so it can be used in a bubbles/list.
type TicketItem struct {
	Ticket model.Ticket
}

// FilterValue returns the string used for fuzzy filtering.
func (i TicketItem) FilterValue() string { return i.Ticket.Title }

// ItemDelegate implements list.ItemDelegate for rendering ticket rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single ticket row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TicketItem)
	if !ok {
		return
	}

	t := ti.Ticket

	id := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(t.ID)

	statusBadge := theme.StatusStyle(string(t.Status)).Render(string(t.Status))
	priBadge := theme.PriorityStyle(string(t.Priority)).Render(string(t.Priority))

	assignee := "Unassigned"
	if t.Assignee != nil {
		assignee = t.Assignee.Name
	}
	assigneeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(assignee)

	dueStr := ""
	if t.DueDate != nil {
		label := dueLabel(*t.DueDate)
		if t.DueDate.Before(time.Now()) && t.Status != model.TicketStatusResolved &&
			t.Status != model.TicketStatusClosed {
			dueStr = theme.OverdueStyle.Render(" " + label)
		} else {
			dueStr = theme.DueDateStyle.Render(" " + label)
		}
	}

	attachStr := ""
	if len(t.Attachments) > 0 {
		attachStr = lipgloss.NewStyle().
			Foreground(theme.ColorBlue).
			Render(fmt.Sprintf(" [%d]", len(t.Attachments)))
	}

	line := fmt.Sprintf(
		"%s %s %s %s %s%s%s",
		id, statusBadge, priBadge, t.Title, assigneeStr, attachStr, dueStr,
	)

	if t.Status == model.TicketStatusClosed || t.Status == model.TicketStatusResolved {
		line = theme.DimmedStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// dueLabel returns a short human-friendly label for a deadline.
func dueLabel(due time.Time) string {
	days := int(time.Until(due).Hours() / 24)
	switch {
	case days < -1:
		return fmt.Sprintf("overdue %dd", -days)
	case days == -1:
		return "overdue 1d"
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %dd", days)
	}
}
