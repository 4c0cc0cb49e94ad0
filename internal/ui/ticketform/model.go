package ticketform

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/theme"
	"github.com/issuelane/issuelane/internal/tickets"
)

// SubmitMsg carries a completed ticket draft ready for creation.
type SubmitMsg struct {
	Draft tickets.Draft
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	issueType   string
	priority    string
	assignee    string
	deadline    string
	attachment  string
}

// Model is the new-ticket form screen.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	errMsg string
	width  int
	height int
}

// New creates a new ticket form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the form for a fresh ticket.
func (m *Model) Start() tea.Cmd {
	m.errMsg = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.issueType = model.IssueTypes()[0]
	m.fb.priority = string(model.PriorityMedium)
	m.fb.assignee = ""
	m.fb.deadline = ""
	m.fb.attachment = ""
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	issueOpts := make([]huh.Option[string], 0, len(model.IssueTypes()))
	for _, it := range model.IssueTypes() {
		issueOpts = append(issueOpts, huh.NewOption(it, it))
	}

	priorityOpts := make([]huh.Option[string], 0, len(model.Priorities()))
	for _, p := range model.Priorities() {
		priorityOpts = append(priorityOpts, huh.NewOption(string(p), string(p)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Brief summary of the issue").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[string]().
				Title("Issue Type").
				Options(issueOpts...).
				Value(&m.fb.issueType),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOpts...).
				Value(&m.fb.priority),
			huh.NewInput().
				Title("Assignee").
				Placeholder("Unassigned").
				Value(&m.fb.assignee),
			huh.NewInput().
				Title("Deadline").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.deadline).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Attachment").
				Placeholder("path to a file (optional)").
				Value(&m.fb.attachment).
				Validate(validateOptionalFile),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// Update handles messages for the ticket form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// handleSubmit turns the form values into a ticket draft. The
// attachment file is read here so a vanished file reopens the form
// with an error instead of failing mid-creation.
func (m Model) handleSubmit() (Model, tea.Cmd) {
	draft := tickets.Draft{
		Title:       strings.TrimSpace(m.fb.title),
		Description: strings.TrimSpace(m.fb.description),
		IssueType:   m.fb.issueType,
		Priority:    model.Priority(m.fb.priority),
		Assignee:    strings.TrimSpace(m.fb.assignee),
	}

	if d := strings.TrimSpace(m.fb.deadline); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err == nil {
			draft.Deadline = &t
		}
	}

	if path := strings.TrimSpace(m.fb.attachment); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			m.errMsg = fmt.Sprintf("could not read attachment: %v", err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		draft.Attachment = &tickets.AttachmentFile{
			Name:     filepath.Base(path),
			MimeType: mimeType,
			Data:     data,
		}
	}

	m.errMsg = ""
	return m, func() tea.Msg { return SubmitMsg{Draft: draft} }
}

// View renders the ticket form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Ticket") + "\n" + m.form.View()
	if m.errMsg != "" {
		content += "\n" + theme.ErrorStyle.Render(m.errMsg)
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalFile(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("file not found")
	}
	if info.IsDir() {
		return fmt.Errorf("attachment must be a file")
	}
	return nil
}
