package tasklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/issuelane/issuelane/internal/keys"
	"github.com/issuelane/issuelane/internal/listing"
	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/theme"
)

// SelectedTaskMsg is sent when the user opens a task's detail view.
type SelectedTaskMsg struct {
	Task model.Task
}

// pageSizes are the page size choices cycled by the page-size key.
var pageSizes = []int{5, 10, 20, 50}

// Model is the tasks list view component. Tasks live entirely in
// memory for the lifetime of the program; there is no backend table
// behind them.
type Model struct {
	list list.Model
	keys *keys.KeyMap

	all            []model.Task
	statusFilter   string
	priorityFilter string
	projectFilter  string
	query          string
	pager          listing.Pager

	searchMode  bool
	searchInput textinput.Model

	width  int
	height int
}

// New creates a new tasks list model over the given task set.
func New(all []model.Task, k *keys.KeyMap, pageSize, width, height int) Model {
	delegate := ItemDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-3)
	l.Title = "Tasks"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:           l,
		keys:           k,
		all:            all,
		statusFilter:   listing.All,
		priorityFilter: listing.All,
		projectFilter:  listing.All,
		pager:          listing.NewPager(pageSize),
		searchInput:    si,
		width:          width,
		height:         height,
	}
}

// Init pushes the initial task page into the list.
func (m Model) Init() tea.Cmd {
	return m.applyView()
}

// Update handles messages for the tasks list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = m.searchInput.Value()
		m.pager.Reset()
		return m, m.applyView()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		m.pager.Reset()
		return m, m.applyView()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{Task: item.Task}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleStatus):
		m.statusFilter = nextStatusFilter(m.statusFilter)
		m.pager.Reset()
		return m, m.applyView()

	case key.Matches(msg, m.keys.CyclePriority):
		m.priorityFilter = nextPriorityFilter(m.priorityFilter)
		m.pager.Reset()
		return m, m.applyView()

	case key.Matches(msg, m.keys.CycleProject):
		m.projectFilter = nextProjectFilter(m.projectFilter, m.projects())
		m.pager.Reset()
		return m, m.applyView()

	case key.Matches(msg, m.keys.NextPage):
		m.pager.Next(len(m.visible()))
		return m, m.applyView()

	case key.Matches(msg, m.keys.PrevPage):
		m.pager.Prev()
		return m, m.applyView()

	case key.Matches(msg, m.keys.PageSize):
		m.pager.SetPageSize(nextPageSize(m.pager.PageSize))
		return m, m.applyView()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// ApplyStatus moves one task to the given status, snapping its progress
// to the workflow boundaries. The change lives only in memory and is
// gone on restart.
func (m *Model) ApplyStatus(taskID string, status model.TaskStatus) {
	for i := range m.all {
		if m.all[i].ID == taskID {
			m.all[i].ApplyStatus(status)
			break
		}
	}
}

// Task returns the current copy of the task with the given id.
func (m Model) Task(taskID string) (model.Task, bool) {
	for _, t := range m.all {
		if t.ID == taskID {
			return t, true
		}
	}
	return model.Task{}, false
}

// Tasks returns the full task set, unfiltered.
func (m Model) Tasks() []model.Task {
	return m.all
}

// InSearchMode reports whether the search input has keyboard focus.
func (m Model) InSearchMode() bool {
	return m.searchMode
}

// projects returns the distinct project names in first-seen order.
func (m Model) projects() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range m.all {
		if t.Project != "" && !seen[t.Project] {
			seen[t.Project] = true
			names = append(names, t.Project)
		}
	}
	return names
}

// visible returns the tasks passing the active filters and search, in
// seed order.
func (m Model) visible() []model.Task {
	return listing.Filter(m.all,
		listing.Equals(m.statusFilter, func(t model.Task) string {
			return string(t.Status)
		}),
		listing.Equals(m.priorityFilter, func(t model.Task) string {
			return string(t.Priority)
		}),
		listing.Equals(m.projectFilter, func(t model.Task) string {
			return t.Project
		}),
		listing.Search(m.query, func(t model.Task) []string {
			return []string{t.ID, t.Title, t.Description, t.Project}
		}),
	)
}

// applyView recomputes the current page and pushes it into the list.
func (m *Model) applyView() tea.Cmd {
	window := listing.Window(m.visible(), m.pager)
	items := make([]list.Item, len(window))
	for i, t := range window {
		items[i] = TaskItem{Task: t}
	}
	return m.list.SetItems(items)
}

// View renders the tasks list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View(), m.footer())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.footer())
}

// footer renders the pagination and filter readout line.
func (m Model) footer() string {
	visible := m.visible()
	pages := listing.TotalPages(len(visible), m.pager.PageSize)

	parts := fmt.Sprintf("Page %d of %d (%d tasks)", m.pager.Page, pages, len(visible))
	if m.statusFilter != listing.All {
		parts += "  status: " + m.statusFilter
	}
	if m.priorityFilter != listing.All {
		parts += "  priority: " + m.priorityFilter
	}
	if m.projectFilter != listing.All {
		parts += "  project: " + m.projectFilter
	}
	if m.query != "" {
		parts += "  search: " + m.query
	}

	return theme.HelpStyle.Render(parts)
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render("No matching tasks.\nTry adjusting your filters.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
	m.searchInput.Width = width - 4
}

// nextStatusFilter cycles all -> each status -> all.
func nextStatusFilter(current string) string {
	statuses := model.TaskStatuses()
	if current == listing.All {
		return string(statuses[0])
	}
	for i, s := range statuses {
		if string(s) == current {
			if i == len(statuses)-1 {
				return listing.All
			}
			return string(statuses[i+1])
		}
	}
	return listing.All
}

// nextPriorityFilter cycles all -> each priority -> all.
func nextPriorityFilter(current string) string {
	priorities := model.Priorities()
	if current == listing.All {
		return string(priorities[0])
	}
	for i, p := range priorities {
		if string(p) == current {
			if i == len(priorities)-1 {
				return listing.All
			}
			return string(priorities[i+1])
		}
	}
	return listing.All
}

// nextProjectFilter cycles all -> each known project -> all.
func nextProjectFilter(current string, projects []string) string {
	if len(projects) == 0 {
		return listing.All
	}
	if current == listing.All {
		return projects[0]
	}
	for i, p := range projects {
		if p == current {
			if i == len(projects)-1 {
				return listing.All
			}
			return projects[i+1]
		}
	}
	return listing.All
}

// nextPageSize cycles through the page size choices.
func nextPageSize(current int) int {
	for i, s := range pageSizes {
		if s == current {
			return pageSizes[(i+1)%len(pageSizes)]
		}
	}
	return pageSizes[0]
}
