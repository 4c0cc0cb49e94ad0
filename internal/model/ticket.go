package model

import (
	"strings"
	"time"
)

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusWaiting    TicketStatus = "Waiting"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketStatuses lists every valid ticket status in display order.
func TicketStatuses() []TicketStatus {
	return []TicketStatus{
		TicketStatusOpen,
		TicketStatusInProgress,
		TicketStatusWaiting,
		TicketStatusResolved,
		TicketStatusClosed,
	}
}

// Valid reports whether s belongs to the closed ticket status set.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaiting,
		TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Priority is the urgency level shared by tickets and tasks.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Priorities lists every valid priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// Valid reports whether p belongs to the closed priority set.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// IssueTypes lists the categories offered when creating a ticket.
func IssueTypes() []string {
	return []string{"Network", "Software", "Hardware", "Access", "Email", "Other"}
}

// Person identifies a user shown next to a record, reduced to what the
// screens render: a display name and avatar initials.
type Person struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

// Attachment is a stored file linked to a ticket.
type Attachment struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

// Ticket is the tickets screen's view model for one support issue.
// Assignee and Reporter are nil when the related user row is missing.
type Ticket struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	Priority    Priority     `json:"priority"`
	Assignee    *Person      `json:"assignee"`
	Reporter    *Person      `json:"reporter"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

// Initials derives up to two uppercase avatar initials from a display
// name. An empty name falls back to "JD", matching the product default.
func Initials(name string) string {
	var initials []rune
	for _, f := range strings.Fields(name) {
		r := []rune(strings.ToUpper(f))
		initials = append(initials, r[0])
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "JD"
	}
	return string(initials)
}
