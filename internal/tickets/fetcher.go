// Package tickets talks to the hosted data store for the tickets
// screen: one joined read reshaped into the screen's view models, and
// the stepwise create flow with its optional attachment upload.
package tickets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/issuelane/issuelane/internal/backend"
	"github.com/issuelane/issuelane/internal/model"
)

// personRow is a projected user row reduced to name parts.
type personRow struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (p *personRow) toPerson() *model.Person {
	if p == nil {
		return nil
	}
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	return &model.Person{Name: name, Initials: model.Initials(name)}
}

// fileRow is a projected files row.
type fileRow struct {
	URL      string `json:"file_url"`
	MimeType string `json:"file_type"`
}

// ticketRow mirrors one row of the joined tickets read. The file
// relation arrives as an object, an array, or null depending on how
// many file rows relate to the ticket, so it is decoded leniently.
type ticketRow struct {
	TicketID    int64           `json:"ticket_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	Deadline    string          `json:"deadline"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	File        json.RawMessage `json:"file"`
	Creator     *personRow      `json:"creator"`
	Assignee    *personRow      `json:"assignee"`
}

const ticketColumns = "ticket_id,title,description,status,priority," +
	"deadline,created_at,updated_at," +
	"file:files(file_url,file_type)," +
	"creator:users!created_by(first_name,last_name)," +
	"assignee:users!assignee_id(first_name,last_name)"

// Fetcher issues the tickets screen's single joined read.
type Fetcher struct {
	client *backend.Client
}

// NewFetcher creates a ticket fetcher over the backend client.
func NewFetcher(client *backend.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch reads all tickets with their related file, creator, and
// assignee rows and reshapes them into view models. The read is
// all-or-nothing: any error aborts the whole fetch and the caller
// keeps an empty list. Callers re-invoke Fetch after every mutation;
// nothing is cached.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.Ticket, error) {
	var rows []ticketRow
	err := f.client.From("tickets").
		Select(ticketColumns).
		Order("created_at", true).
		Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching tickets: %w", err)
	}

	tickets := make([]model.Ticket, len(rows))
	for i, r := range rows {
		tickets[i] = r.toTicket()
	}
	return tickets, nil
}

func (r ticketRow) toTicket() model.Ticket {
	t := model.Ticket{
		ID:          fmt.Sprintf("#%d", r.TicketID),
		Title:       r.Title,
		Description: r.Description,
		Status:      model.TicketStatus(r.Status),
		Priority:    model.Priority(r.Priority),
		Assignee:    r.Assignee.toPerson(),
		Reporter:    r.Creator.toPerson(),
		Attachments: decodeAttachments(r.File),
	}

	if ts, err := backend.ParseTimestamp(r.CreatedAt); err == nil {
		t.CreatedAt = ts
	}
	if ts, err := backend.ParseTimestamp(r.UpdatedAt); err == nil {
		t.UpdatedAt = ts
	}
	if r.Deadline != "" {
		if due, err := backend.ParseTimestamp(r.Deadline); err == nil {
			t.DueDate = &due
		}
	}

	return t
}

// decodeAttachments turns the projected file relation into the
// attachment list: null becomes empty, an object becomes one element,
// an array keeps its length.
func decodeAttachments(raw json.RawMessage) []model.Attachment {
	if len(raw) == 0 || string(raw) == "null" {
		return []model.Attachment{}
	}

	var many []fileRow
	if err := json.Unmarshal(raw, &many); err == nil {
		attachments := make([]model.Attachment, 0, len(many))
		for _, f := range many {
			attachments = append(attachments, model.Attachment{URL: f.URL, MimeType: f.MimeType})
		}
		return attachments
	}

	var one fileRow
	if err := json.Unmarshal(raw, &one); err == nil {
		return []model.Attachment{{URL: one.URL, MimeType: one.MimeType}}
	}

	return []model.Attachment{}
}
