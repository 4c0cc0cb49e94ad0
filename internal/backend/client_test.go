package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDoSendsAuthHeaders(t *testing.T) {
	var gotAPIKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "anon-key")
	var dest []struct{}
	if err := c.From("tickets").Select("*").Get(context.Background(), &dest); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if gotAPIKey != "anon-key" {
		t.Errorf("apikey header = %q, want %q", gotAPIKey, "anon-key")
	}
	if gotAuth != "Bearer anon-key" {
		t.Errorf("Authorization = %q, want Bearer anon-key", gotAuth)
	}

	c.SetAccessToken("session-token")
	if err := c.From("tickets").Select("*").Get(context.Background(), &dest); err != nil {
		t.Fatalf("Get with session: %v", err)
	}
	if gotAuth != "Bearer session-token" {
		t.Errorf("Authorization after sign-in = %q, want Bearer session-token", gotAuth)
	}
}

func TestQueryEncoding(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	var dest []struct{}
	err := c.From("tickets").
		Select("ticket_id,title,file:files(file_url)").
		Eq("status", "Open").
		Order("created_at", true).
		Get(context.Background(), &dest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if gotPath != "/rest/v1/tickets" {
		t.Errorf("path = %q, want /rest/v1/tickets", gotPath)
	}
	if got := gotQuery["select"]; len(got) != 1 || got[0] != "ticket_id,title,file:files(file_url)" {
		t.Errorf("select param = %v", got)
	}
	if got := gotQuery["status"]; len(got) != 1 || got[0] != "eq.Open" {
		t.Errorf("status param = %v", got)
	}
	if got := gotQuery["order"]; len(got) != 1 || got[0] != "created_at.desc" {
		t.Errorf("order param = %v", got)
	}
}

func TestSingleSetsObjectAccept(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"user_id": 7}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	var dest struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.From("users").Select("user_id").Single(context.Background(), &dest); err != nil {
		t.Fatalf("Single: %v", err)
	}

	if gotAccept != "application/vnd.pgrst.object+json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if dest.UserID != 7 {
		t.Errorf("decoded user_id = %d, want 7", dest.UserID)
	}
}

func TestSingleNoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"message": "JSON object requested, multiple (or no) rows returned"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	var dest struct{}
	err := c.From("users").Select("*").Eq("auth_user_id", "missing").
		Single(context.Background(), &dest)

	if !errors.Is(err, ErrNoRows) {
		t.Errorf("err = %v, want ErrNoRows", err)
	}
}

func TestUnauthorizedBecomesAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg": "Invalid login credentials"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	var dest []struct{}
	err := c.From("tickets").Select("*").Get(context.Background(), &dest)

	if !IsAuthError(err) {
		t.Fatalf("err = %v, want AuthError", err)
	}
	var authErr *AuthError
	errors.As(err, &authErr)
	if authErr.Message != "Invalid login credentials" {
		t.Errorf("message = %q", authErr.Message)
	}
}

func TestAPIErrorCarriesStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "duplicate key value"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	err := c.From("tickets").Select("ticket_id").
		Insert(context.Background(), map[string]interface{}{"title": "x"}, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", apiErr.StatusCode)
	}
	if apiErr.Message != "duplicate key value" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestInsertPrefersRepresentation(t *testing.T) {
	var gotPrefer, gotAccept, gotMethod string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		gotAccept = r.Header.Get("Accept")
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ticket_id": 42}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	var dest struct {
		TicketID int64 `json:"ticket_id"`
	}
	row := map[string]interface{}{"title": "VPN down", "status": "Open"}
	if err := c.From("tickets").Select("ticket_id").Insert(context.Background(), row, &dest); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s", gotMethod)
	}
	if gotPrefer != "return=representation" {
		t.Errorf("Prefer = %q", gotPrefer)
	}
	if gotAccept != "application/vnd.pgrst.object+json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotBody["title"] != "VPN down" {
		t.Errorf("body = %v", gotBody)
	}
	if dest.TicketID != 42 {
		t.Errorf("ticket_id = %d, want 42", dest.TicketID)
	}
}

func TestParseTimestampFormats(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-14T09:26:53.589Z", time.Date(2025, 3, 14, 9, 26, 53, 589000000, time.UTC)},
		{"2025-03-14T09:26:53Z", time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)},
		{"2025-03-14T09:26:53.589123", time.Date(2025, 3, 14, 9, 26, 53, 589123000, time.UTC)},
		{"2025-03-14T09:26:53", time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)},
		{"2025-03-14", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseTimestamp("not a time"); err == nil {
		t.Error("expected error for malformed timestamp")
	}
}
