package tasklist

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

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}

	t := ti.Task

	id := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(t.ID)

	statusBadge := theme.StatusStyle(string(t.Status)).Render(string(t.Status))
	priBadge := theme.PriorityStyle(string(t.Priority)).Render(string(t.Priority))

	project := lipgloss.NewStyle().
		Foreground(theme.ColorBlue).
		Render(t.Project)

	progress := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("%3d%%", t.Progress))

	dueStr := ""
	if t.DueDate != nil {
		label := t.DueDate.Format("Jan 02")
		if t.DueDate.Before(time.Now()) && t.Status != model.TaskStatusCompleted {
			dueStr = theme.OverdueStyle.Render(" " + label)
		} else {
			dueStr = theme.DueDateStyle.Render(" " + label)
		}
	}

	line := fmt.Sprintf(
		"%s %s %s %s %s %s%s",
		id, statusBadge, priBadge, t.Title, project, progress, dueStr,
	)

	if t.Status == model.TaskStatusCompleted {
		line = theme.DimmedStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
