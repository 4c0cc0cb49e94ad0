package ticketlist

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/issuelane/issuelane/internal/keys"
	"github.com/issuelane/issuelane/internal/model"
)

func newModel(t *testing.T) Model {
	t.Helper()
	return New(nil, keys.DefaultKeyMap(), 10, 80, 24)
}

func sampleTickets(n int) []model.Ticket {
	now := time.Now()
	tickets := make([]model.Ticket, n)
	for i := range tickets {
		tickets[i] = model.Ticket{
			ID:        "#" + string(rune('1'+i)),
			Title:     "Sample ticket",
			Status:    model.TicketStatusOpen,
			Priority:  model.PriorityMedium,
			CreatedAt: now,
		}
	}
	return tickets
}

func TestViewShowsLoadingBeforeFirstFetch(t *testing.T) {
	m := newModel(t)

	if !strings.Contains(m.View(), "Loading tickets") {
		t.Errorf("expected loading state before first fetch, got:\n%s", m.View())
	}
}

func TestEmptyFetchShowsEmptyStateNotError(t *testing.T) {
	m := newModel(t)

	m, _ = m.Update(TicketsLoadedMsg{Tickets: nil})

	view := m.View()
	if strings.Contains(view, "Loading") {
		t.Error("still showing loading state after fetch")
	}
	if strings.Contains(view, "Could not load") {
		t.Error("empty result rendered as an error")
	}
	if !strings.Contains(view, "No tickets yet") {
		t.Errorf("expected empty state, got:\n%s", view)
	}
}

func TestFetchErrorWithNoRecordsShowsErrorState(t *testing.T) {
	m := newModel(t)

	m, _ = m.Update(TicketsLoadedMsg{Err: errors.New("connection refused")})

	view := m.View()
	if !strings.Contains(view, "Could not load tickets") {
		t.Errorf("expected error state, got:\n%s", view)
	}
	if !strings.Contains(view, "press r to try again") {
		t.Error("error state missing the retry hint")
	}
}

func TestRefreshErrorKeepsPreviousRecords(t *testing.T) {
	m := newModel(t)

	m, _ = m.Update(TicketsLoadedMsg{Tickets: sampleTickets(3)})
	m, _ = m.Update(TicketsLoadedMsg{Err: errors.New("timeout")})

	if len(m.Tickets()) != 3 {
		t.Fatalf("failed refresh dropped records: %d left", len(m.Tickets()))
	}
	view := m.View()
	if strings.Contains(view, "Could not load tickets") {
		t.Error("full error screen shown despite existing records")
	}
	if !strings.Contains(view, "refresh failed") {
		t.Error("footer missing the refresh failure notice")
	}
}

func TestFilterCycleResetsPage(t *testing.T) {
	m := newModel(t)

	m, _ = m.Update(TicketsLoadedMsg{Tickets: sampleTickets(8)})
	m.pager.SetPageSize(5)
	m.pager.Next(8)
	if m.pager.Page != 2 {
		t.Fatalf("setup: expected page 2, got %d", m.pager.Page)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	if m.pager.Page != 1 {
		t.Errorf("status filter change did not reset page: %d", m.pager.Page)
	}
}

func TestSearchAppliesOnEnterAndResetsPage(t *testing.T) {
	m := newModel(t)
	m, _ = m.Update(TicketsLoadedMsg{Tickets: sampleTickets(8)})
	m.pager.SetPageSize(5)
	m.pager.Next(8)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.InSearchMode() {
		t.Fatal("expected search mode after /")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'#'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.InSearchMode() {
		t.Error("still in search mode after enter")
	}
	if m.query != "#" {
		t.Errorf("query = %q, want %q", m.query, "#")
	}
	if m.pager.Page != 1 {
		t.Errorf("search did not reset page: %d", m.pager.Page)
	}
}

func TestSearchEscClearsQuery(t *testing.T) {
	m := newModel(t)
	m, _ = m.Update(TicketsLoadedMsg{Tickets: sampleTickets(3)})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.InSearchMode() || m.query != "" {
		t.Errorf("esc should leave search mode with an empty query, got mode=%v query=%q",
			m.InSearchMode(), m.query)
	}
}

func TestApplyStatusIsLocalOnly(t *testing.T) {
	m := newModel(t)
	m, _ = m.Update(TicketsLoadedMsg{Tickets: sampleTickets(2)})

	m.ApplyStatus("#1", model.TicketStatusResolved)
	if m.Tickets()[0].Status != model.TicketStatusResolved {
		t.Fatal("status change not applied in memory")
	}

	// A refresh replaces the whole set, restoring the stored value.
	m, _ = m.Update(TicketsLoadedMsg{Tickets: sampleTickets(2)})
	if m.Tickets()[0].Status != model.TicketStatusOpen {
		t.Error("refresh did not restore the stored status")
	}
}
