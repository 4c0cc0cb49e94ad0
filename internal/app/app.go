package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/issuelane/issuelane/internal/keys"
	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/session"
	"github.com/issuelane/issuelane/internal/store"
	"github.com/issuelane/issuelane/internal/tickets"
	"github.com/issuelane/issuelane/internal/ui"
	"github.com/issuelane/issuelane/internal/ui/command"
	"github.com/issuelane/issuelane/internal/ui/dashboard"
	"github.com/issuelane/issuelane/internal/ui/detail"
	helpview "github.com/issuelane/issuelane/internal/ui/help"
	"github.com/issuelane/issuelane/internal/ui/login"
	"github.com/issuelane/issuelane/internal/ui/notifications"
	profileview "github.com/issuelane/issuelane/internal/ui/profile"
	"github.com/issuelane/issuelane/internal/ui/tasklist"
	"github.com/issuelane/issuelane/internal/ui/ticketform"
	"github.com/issuelane/issuelane/internal/ui/ticketlist"
)

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// ticketCreatedMsg carries the outcome of a create-ticket attempt.
type ticketCreatedMsg struct {
	result *tickets.Result
	err    error
}

// signedOutMsg carries the outcome of a sign-out attempt.
type signedOutMsg struct {
	err error
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewTickets
	ViewTasks
	ViewDetail
	ViewTicketForm
	ViewNotifications
	ViewProfile
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and the session gateway.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	gateway *session.Gateway
	store   store.Store
	creator *tickets.Creator

	loginView     login.Model
	dashboardView dashboard.Model
	ticketList    ticketlist.Model
	taskList      tasklist.Model
	detailView    detail.Model
	ticketForm    ticketform.Model
	notifView     notifications.Model
	profileView   profileview.Model
	helpView      helpview.Model
	commandView   command.Model

	ready         bool
	unreadCount   int
	statusMessage string
}

// New creates the root application model. When the gateway already
// carries a resumed session the app starts on the dashboard, otherwise
// on the sign-in screen.
func New(
	gateway *session.Gateway,
	s store.Store,
	fetcher *tickets.Fetcher,
	creator *tickets.Creator,
	pageSize int,
) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView:   ViewLogin,
		keys:          k,
		gateway:       gateway,
		store:         s,
		creator:       creator,
		loginView:     login.New(gateway, 80, 24),
		dashboardView: dashboard.New(80, 24),
		ticketList:    ticketlist.New(fetcher, k, pageSize, 80, 24),
		taskList:      tasklist.New(model.SeedTasks(time.Now()), k, pageSize, 80, 24),
		detailView:    detail.New(k, 80, 24),
		ticketForm:    ticketform.New(80, 24),
		notifView:     notifications.New(s, k, 80, 24),
		profileView:   profileview.New(k, 80, 24),
		helpView:      helpview.New(k, 80, 24),
		commandView:   command.New(80, 24),
	}

	m.dashboardView.SetTasks(m.taskList.Tasks())

	if profile := gateway.CurrentUser(); profile != nil {
		m.currentView = ViewDashboard
		m.dashboardView.SetProfile(profile)
		m.profileView.SetProfile(profile)
	}

	return m
}

// Init returns the initial commands for the starting view.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewLogin {
		return m.loginView.Init()
	}
	return tea.Batch(
		m.ticketList.Init(),
		m.taskList.Init(),
		m.fetchUnreadCount(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.loginView.SetSize(contentWidth, contentHeight)
		m.dashboardView.SetSize(contentWidth, contentHeight)
		m.ticketList.SetSize(contentWidth, contentHeight)
		m.taskList.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.ticketForm.SetSize(contentWidth, contentHeight)
		m.notifView.SetSize(contentWidth, contentHeight)
		m.profileView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can calculate
		// their layout.
		return m.updateActiveView(msg)

	case login.SignedInMsg:
		m.currentView = ViewDashboard
		m.dashboardView.SetProfile(msg.Profile)
		m.dashboardView.SetTasks(m.taskList.Tasks())
		m.profileView.SetProfile(msg.Profile)
		m.statusMessage = ""
		return m, tea.Batch(
			m.ticketList.LoadTickets(),
			m.taskList.Init(),
			m.fetchUnreadCount(),
		)

	case ticketlist.TicketsLoadedMsg:
		var cmd tea.Cmd
		m.ticketList, cmd = m.ticketList.Update(msg)
		m.dashboardView.SetTickets(m.ticketList.Tickets())
		return m, cmd

	case ticketlist.SelectedTicketMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetTicket(msg.Ticket)
		return m, nil

	case ticketlist.NewTicketMsg:
		m.previousView = m.currentView
		m.currentView = ViewTicketForm
		cmd := m.ticketForm.Start()
		return m, cmd

	case tasklist.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetTask(msg.Task)
		return m, nil

	case detail.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case detail.TicketStatusChangedMsg:
		m.ticketList.ApplyStatus(msg.TicketID, msg.Status)
		m.dashboardView.SetTickets(m.ticketList.Tickets())
		m.statusMessage = fmt.Sprintf(
			"%s marked %s locally; a refresh restores the stored status",
			msg.TicketID, msg.Status,
		)
		return m, nil

	case detail.TaskStatusChangedMsg:
		m.taskList.ApplyStatus(msg.TaskID, msg.Status)
		m.dashboardView.SetTasks(m.taskList.Tasks())
		return m, nil

	case ticketform.SubmitMsg:
		m.currentView = ViewTickets
		m.statusMessage = "Creating ticket..."
		return m, m.createTicket(msg.Draft)

	case ticketform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case ticketCreatedMsg:
		if msg.err != nil {
			m.statusMessage = "Ticket creation failed: " + msg.err.Error()
			return m, nil
		}
		m.statusMessage = fmt.Sprintf("Ticket %s created", msg.result.TicketID)
		if msg.result.Warning != "" {
			m.statusMessage += " (" + msg.result.Warning + ")"
		}
		return m, m.ticketList.LoadTickets()

	case notifications.LoadedMsg:
		var cmd tea.Cmd
		m.notifView, cmd = m.notifView.Update(msg)
		if msg.Err == nil {
			m.unreadCount = msg.Unread
			m.dashboardView.SetUnread(msg.Unread)
		}
		return m, cmd

	case notifications.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case profileview.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case unreadCountMsg:
		m.unreadCount = msg.count
		m.dashboardView.SetUnread(msg.count)
		return m, nil

	case command.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case signedOutMsg:
		if msg.err != nil {
			m.statusMessage = "Sign out failed: " + msg.err.Error()
			return m, nil
		}
		m.currentView = ViewLogin
		m.unreadCount = 0
		m.statusMessage = ""
		m.dashboardView.SetProfile(nil)
		m.dashboardView.SetTickets(nil)
		m.dashboardView.SetUnread(0)
		m.profileView.SetProfile(nil)
		cmd := m.loginView.Start()
		return m, cmd

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey intercepts keys that work regardless of the active
// view. Views with text entry (sign-in form, ticket form, list search)
// keep their keystrokes.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	if m.textEntryActive() {
		return m, nil, false
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewDashboard || m.currentView == ViewTickets ||
			m.currentView == ViewTasks {
			return m, tea.Quit, true
		}

	case "n":
		// Tasks are a built-in set; there is no create flow for them.
		if m.currentView == ViewTasks {
			m.statusMessage = "Task creation is not available"
			return m, nil, true
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case ":":
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true

	case "esc":
		switch m.currentView {
		case ViewHelp, ViewCommand:
			m.currentView = m.previousView
			return m, nil, true
		case ViewTickets, ViewTasks:
			m.currentView = ViewDashboard
			return m, nil, true
		}
	}

	return m, nil, false
}

// textEntryActive reports whether the active view owns the keyboard.
func (m Model) textEntryActive() bool {
	switch m.currentView {
	case ViewLogin, ViewTicketForm, ViewCommand:
		return true
	case ViewTickets:
		return m.ticketList.InSearchMode()
	case ViewTasks:
		return m.taskList.InSearchMode()
	case ViewDetail:
		return m.detailView.InStatusMode()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case ViewTickets:
		m.ticketList, cmd = m.ticketList.Update(msg)
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewTicketForm:
		m.ticketForm, cmd = m.ticketForm.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		return m.loginView.View()
	}

	headerTitle := "IssueLane"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("IssueLane [%d new]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, m.sessionLabel())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewTickets:
		return m.ticketList.View()
	case ViewTasks:
		return m.taskList.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewTicketForm:
		return m.ticketForm.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewProfile:
		return m.profileView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// sessionLabel returns the header's right-hand session text.
func (m Model) sessionLabel() string {
	profile := m.gateway.CurrentUser()
	if profile == nil {
		return ""
	}
	if role := profile.Role(); role != "" {
		return profile.DisplayName() + " · " + role
	}
	return profile.DisplayName()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMessage != "" &&
		(m.currentView == ViewTickets || m.currentView == ViewDashboard ||
			m.currentView == ViewTasks) {
		return m.statusMessage
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewDetail:
		return "esc back | t change status | j/k scroll"
	case ViewTicketForm:
		return "enter submit | esc cancel"
	case ViewNotifications:
		return "enter mark read | a mark all | esc back"
	case ViewProfile:
		return "esc back"
	case ViewTasks:
		return "q quit | / search | 1 status | 2 priority | 3 project | h/l page | s size"
	case ViewTickets:
		return "q quit | n new | r refresh | / search | 1 status | 2 priority | h/l page | s size"
	default:
		return "q quit | ? help | : command | esc dashboard"
	}
}

// fetchUnreadCount returns a tea.Cmd that queries the store for the
// unread notification badge.
func (m Model) fetchUnreadCount() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		count, err := s.CountUnreadNotifications(context.Background())
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: count}
	}
}

// createTicket runs the create flow off the UI goroutine.
func (m Model) createTicket(draft tickets.Draft) tea.Cmd {
	creator := m.creator
	return func() tea.Msg {
		result, err := creator.Create(context.Background(), draft, nil)
		return ticketCreatedMsg{result: result, err: err}
	}
}

// signOut runs the remote-first sign-out. A failed remote sign-out
// leaves the local session untouched.
func (m Model) signOut() tea.Cmd {
	gateway := m.gateway
	return func() tea.Msg {
		return signedOutMsg{err: gateway.SignOut(context.Background())}
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "dashboard", "home":
		m.currentView = ViewDashboard
		return nil
	case "tickets":
		m.currentView = ViewTickets
		return nil
	case "tasks":
		m.currentView = ViewTasks
		return nil
	case "new", "new ticket":
		m.previousView = m.currentView
		m.currentView = ViewTicketForm
		return m.ticketForm.Start()
	case "refresh":
		m.currentView = ViewTickets
		return m.ticketList.LoadTickets()
	case "notifications":
		m.previousView = m.currentView
		m.currentView = ViewNotifications
		return m.notifView.Load()
	case "profile":
		m.previousView = m.currentView
		m.currentView = ViewProfile
		return nil
	case "logout", "sign out":
		return m.signOut()
	case "quit", "q":
		return tea.Quit
	default:
		return nil
	}
}
