package ticketlist

import (
	"context"
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
	"github.com/issuelane/issuelane/internal/tickets"
)

// TicketsLoadedMsg is sent when a ticket fetch finishes, successfully
// or not.
type TicketsLoadedMsg struct {
	Tickets []model.Ticket
	Err     error
}

// SelectedTicketMsg is sent when the user opens a ticket's detail view.
type SelectedTicketMsg struct {
	Ticket model.Ticket
}

// NewTicketMsg is sent when the user asks to create a ticket.
type NewTicketMsg struct{}

// pageSizes are the page size choices cycled by the page-size key.
var pageSizes = []int{5, 10, 20, 50}

// Model is the tickets list view component.
type Model struct {
	list    list.Model
	fetcher *tickets.Fetcher
	keys    *keys.KeyMap

	all            []model.Ticket
	statusFilter   string
	priorityFilter string
	query          string
	pager          listing.Pager

	searchMode  bool
	searchInput textinput.Model

	fetched bool
	err     error

	width  int
	height int
}

// New creates a new tickets list model.
func New(f *tickets.Fetcher, k *keys.KeyMap, pageSize, width, height int) Model {
	delegate := ItemDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-3)
	l.Title = "Tickets"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tickets..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:           l,
		fetcher:        f,
		keys:           k,
		statusFilter:   listing.All,
		priorityFilter: listing.All,
		pager:          listing.NewPager(pageSize),
		searchInput:    si,
		width:          width,
		height:         height,
	}
}

// Init returns a command that loads the initial set of tickets.
func (m Model) Init() tea.Cmd {
	return m.LoadTickets()
}

// Update handles messages for the tickets list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TicketsLoadedMsg:
		m.fetched = true
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.all = msg.Tickets
		m.pager.Clamp(len(m.visible()))
		return m, m.applyView()

	case tea.KeyMsg:
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
		item, ok := m.list.SelectedItem().(TicketItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTicketMsg{Ticket: item.Ticket}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadTickets()

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewTicketMsg{} }

	case key.Matches(msg, m.keys.CycleStatus):
		m.statusFilter = nextStatusFilter(m.statusFilter)
		m.pager.Reset()
		return m, m.applyView()

	case key.Matches(msg, m.keys.CyclePriority):
		m.priorityFilter = nextPriorityFilter(m.priorityFilter)
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

// ApplyStatus updates the in-memory copy of one ticket after a status
// change in the detail view. Nothing is written to the backend, so a
// refresh restores the stored value.
func (m *Model) ApplyStatus(ticketID string, status model.TicketStatus) {
	for i := range m.all {
		if m.all[i].ID == ticketID {
			m.all[i].Status = status
			break
		}
	}
}

// Tickets returns the full fetched ticket set, unfiltered.
func (m Model) Tickets() []model.Ticket {
	return m.all
}

// InSearchMode reports whether the search input has keyboard focus.
func (m Model) InSearchMode() bool {
	return m.searchMode
}

// visible returns the tickets passing the active filters and search, in
// fetch order.
func (m Model) visible() []model.Ticket {
	return listing.Filter(m.all,
		listing.Equals(m.statusFilter, func(t model.Ticket) string {
			return string(t.Status)
		}),
		listing.Equals(m.priorityFilter, func(t model.Ticket) string {
			return string(t.Priority)
		}),
		listing.Search(m.query, func(t model.Ticket) []string {
			return []string{t.ID, t.Title, t.Description}
		}),
	)
}

// applyView recomputes the current page and pushes it into the list.
func (m *Model) applyView() tea.Cmd {
	window := listing.Window(m.visible(), m.pager)
	items := make([]list.Item, len(window))
	for i, t := range window {
		items[i] = TicketItem{Ticket: t}
	}
	return m.list.SetItems(items)
}

// View renders the tickets list view.
func (m Model) View() string {
	if !m.fetched {
		return m.centered("Loading tickets...")
	}

	if m.err != nil && len(m.all) == 0 {
		return m.centered(
			theme.ErrorStyle.Render("Could not load tickets.") +
				"\n" + m.err.Error() +
				"\n\n" + theme.HelpStyle.Render("press r to try again"),
		)
	}

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

	parts := fmt.Sprintf("Page %d of %d (%d tickets)", m.pager.Page, pages, len(visible))
	if m.statusFilter != listing.All {
		parts += "  status: " + m.statusFilter
	}
	if m.priorityFilter != listing.All {
		parts += "  priority: " + m.priorityFilter
	}
	if m.query != "" {
		parts += "  search: " + m.query
	}

	line := theme.HelpStyle.Render(parts)
	if m.err != nil {
		line += "  " + theme.ErrorStyle.Render("refresh failed: "+m.err.Error())
	}
	return line
}

// renderEmptyState shows guidance text when no tickets are visible.
func (m Model) renderEmptyState() string {
	hasFilters := m.statusFilter != listing.All ||
		m.priorityFilter != listing.All ||
		m.query != ""

	if hasFilters {
		return m.centered("No matching tickets.\nTry adjusting your filters.")
	}

	return m.centered("No tickets yet.\n\nPress n to create one.")
}

func (m Model) centered(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// LoadTickets returns a tea.Cmd that fetches every ticket from the
// backend. The fetch is all-or-nothing: a failed request keeps the
// previous record set and reports the error.
func (m Model) LoadTickets() tea.Cmd {
	f := m.fetcher
	return func() tea.Msg {
		fetched, err := f.Fetch(context.Background())
		return TicketsLoadedMsg{Tickets: fetched, Err: err}
	}
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
	statuses := model.TicketStatuses()
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

// nextPageSize cycles through the page size choices.
func nextPageSize(current int) int {
	for i, s := range pageSizes {
		if s == current {
			return pageSizes[(i+1)%len(pageSizes)]
		}
	}
	return pageSizes[0]
}
