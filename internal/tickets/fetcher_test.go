package tickets

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/issuelane/issuelane/internal/backend"
	"github.com/issuelane/issuelane/internal/model"
)

func newFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFetcher(backend.New(srv.URL, "anon"))
}

func TestFetchEmptyTable(t *testing.T) {
	f := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	got, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("tickets = %v, want empty", got)
	}
}

func TestFetchOrdersNewestFirst(t *testing.T) {
	var gotOrder string
	f := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotOrder = r.URL.Query().Get("order")
		w.Write([]byte(`[]`))
	})

	if _, err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotOrder != "created_at.desc" {
		t.Errorf("order = %q, want created_at.desc", gotOrder)
	}
}

func TestFetchReshapesJoinedRows(t *testing.T) {
	f := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{
				"ticket_id": 12,
				"title": "VPN down",
				"description": "Cannot connect since this morning",
				"status": "Open",
				"priority": "High",
				"deadline": "2025-04-01",
				"created_at": "2025-03-14T09:26:53Z",
				"updated_at": "2025-03-15T10:00:00Z",
				"file": {"file_url": "https://x/storage/v1/object/public/attachments/a.png", "file_type": "image/png"},
				"creator": {"first_name": "Ana", "last_name": "Reyes"},
				"assignee": {"first_name": "Ben", "last_name": "Cruz"}
			},
			{
				"ticket_id": 11,
				"title": "Printer jam",
				"description": "",
				"status": "Closed",
				"priority": "Low",
				"deadline": "",
				"created_at": "2025-03-10T08:00:00Z",
				"updated_at": "2025-03-10T08:00:00Z",
				"file": null,
				"creator": {"first_name": "Ana", "last_name": "Reyes"},
				"assignee": null
			}
		]`)
	})

	got, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d tickets, want 2", len(got))
	}

	first := got[0]
	if first.ID != "#12" {
		t.Errorf("ID = %q, want #12", first.ID)
	}
	if first.Status != model.TicketStatusOpen || first.Priority != model.PriorityHigh {
		t.Errorf("status/priority = %s/%s", first.Status, first.Priority)
	}
	if first.Assignee == nil || first.Assignee.Name != "Ben Cruz" || first.Assignee.Initials != "BC" {
		t.Errorf("assignee = %+v", first.Assignee)
	}
	if first.Reporter == nil || first.Reporter.Name != "Ana Reyes" {
		t.Errorf("reporter = %+v", first.Reporter)
	}
	if first.DueDate == nil || first.DueDate.Format("2006-01-02") != "2025-04-01" {
		t.Errorf("due date = %v", first.DueDate)
	}
	if len(first.Attachments) != 1 || first.Attachments[0].MimeType != "image/png" {
		t.Errorf("attachments = %v", first.Attachments)
	}

	second := got[1]
	if second.Assignee != nil {
		t.Errorf("missing assignee row decoded as %+v", second.Assignee)
	}
	if second.DueDate != nil {
		t.Errorf("empty deadline decoded as %v", second.DueDate)
	}
	if second.Attachments == nil || len(second.Attachments) != 0 {
		t.Errorf("null file relation = %v, want empty list", second.Attachments)
	}
}

func TestFetchErrorIsAllOrNothing(t *testing.T) {
	f := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "connection to database failed"}`))
	})

	got, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if got != nil {
		t.Errorf("failed fetch returned records: %v", got)
	}
}

func TestDecodeAttachmentsShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"null", `null`, 0},
		{"single object", `{"file_url": "u", "file_type": "t"}`, 1},
		{"array of two", `[{"file_url": "a"}, {"file_url": "b"}]`, 2},
		{"empty array", `[]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeAttachments([]byte(tt.raw))
			if got == nil {
				t.Fatal("attachments must never be nil")
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}
