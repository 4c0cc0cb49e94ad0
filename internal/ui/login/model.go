package login

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/session"
	"github.com/issuelane/issuelane/internal/theme"
)

// SignedInMsg is sent when the full sign-in pipeline succeeded.
type SignedInMsg struct {
	Profile *model.UserProfile
}

// StageMsg carries a sign-in pipeline progress report.
type StageMsg struct {
	Text string
}

// resultMsg carries the outcome of the sign-in attempt.
type resultMsg struct {
	profile *model.UserProfile
	err     error
}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	identifier string
	password   string
	remember   bool
}

// Model is the sign-in screen.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	gateway *session.Gateway

	submitting bool
	stage      string
	errMsg     string
	stages     chan string

	width  int
	height int
}

// New creates a new sign-in model with its form ready.
func New(g *session.Gateway, width, height int) Model {
	m := Model{
		fb:      &formBindings{},
		gateway: g,
		width:   width,
		height:  height,
	}
	m.form = m.buildForm()
	return m
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Start resets the form for a fresh sign-in attempt. The returned
// command must be issued from the same model that received the reset.
func (m *Model) Start() tea.Cmd {
	m.submitting = false
	m.stage = ""
	m.errMsg = ""
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email or username").
				Placeholder("you@example.com").
				Value(&m.fb.identifier),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password),
			huh.NewConfirm().
				Title("Remember me").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.remember),
		),
	).WithWidth(m.formWidth())
}

// Update handles messages for the sign-in screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StageMsg:
		m.stage = msg.Text
		return m, m.listenStages()

	case resultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		profile := msg.profile
		return m, func() tea.Msg {
			return SignedInMsg{Profile: profile}
		}
	}

	if m.submitting || m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.submit()
	}
	if m.form.State == huh.StateAborted {
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	return m, cmd
}

// submit launches the sign-in pipeline and a stage listener.
func (m Model) submit() (Model, tea.Cmd) {
	m.submitting = true
	m.errMsg = ""
	m.stage = "Signing in..."
	m.stages = make(chan string, 8)

	gateway := m.gateway
	identifier := m.fb.identifier
	password := m.fb.password
	remember := m.fb.remember
	stages := m.stages

	signIn := func() tea.Msg {
		profile, err := gateway.SignIn(
			context.Background(),
			identifier,
			password,
			remember,
			func(stage string) {
				select {
				case stages <- stage:
				default:
				}
			},
		)
		close(stages)
		return resultMsg{profile: profile, err: err}
	}

	return m, tea.Batch(signIn, m.listenStages())
}

// listenStages waits for the next pipeline progress report.
func (m Model) listenStages() tea.Cmd {
	stages := m.stages
	return func() tea.Msg {
		text, ok := <-stages
		if !ok {
			return nil
		}
		return StageMsg{Text: text}
	}
}

// View renders the sign-in screen.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorIndigo).
		Render("IssueLane")

	subtitle := theme.HelpStyle.Render("Sign in to your helpdesk workspace")

	var body string
	switch {
	case m.submitting:
		body = theme.HelpStyle.Render(m.stage)
	case m.form != nil:
		body = m.form.View()
	}

	var errLine string
	if m.errMsg != "" {
		errLine = theme.ErrorStyle.Render(m.errMsg)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		subtitle,
		"",
		body,
		errLine,
	)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		theme.PanelStyle.Render(content),
	)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w < 40 {
		w = 40
	}
	if w > 72 {
		w = 72
	}
	return w
}
