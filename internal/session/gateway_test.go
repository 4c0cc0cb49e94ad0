package session_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/issuelane/issuelane/internal/backend"
	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/session"
	"github.com/issuelane/issuelane/tests/testutil"
)

// memTokens is an in-memory TokenStore.
type memTokens struct {
	token   string
	saveErr error
}

func (m *memTokens) Save(token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *memTokens) Load() (string, error) {
	if m.token == "" {
		return "", fmt.Errorf("no token")
	}
	return m.token, nil
}

func (m *memTokens) Clear() error {
	m.token = ""
	return nil
}

// fakeBackend simulates the auth and data endpoints the gateway uses.
type fakeBackend struct {
	authUserID     string
	profileMissing bool
	noAssignment   bool
	logoutFails    bool

	logoutCalls int
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/v1/token":
			fmt.Fprintf(w, `{
				"access_token": "access-1",
				"refresh_token": "refresh-1",
				"expires_in": 3600,
				"token_type": "bearer",
				"user": {"id": %q, "email": "ana@example.com"}
			}`, f.authUserID)

		case r.URL.Path == "/auth/v1/logout":
			f.logoutCalls++
			if f.logoutFails {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "logout unavailable"}`)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		case strings.HasPrefix(r.URL.Path, "/rest/v1/users"):
			if f.profileMissing {
				w.WriteHeader(http.StatusNotAcceptable)
				return
			}
			fmt.Fprintf(w, `{
				"user_id": 7,
				"auth_user_id": %q,
				"username": "ana",
				"first_name": "Ana",
				"last_name": "Reyes",
				"email": "ana@example.com",
				"created_at": "2024-06-01T10:00:00Z"
			}`, f.authUserID)

		case strings.HasPrefix(r.URL.Path, "/rest/v1/user_assignments"):
			if f.noAssignment {
				w.WriteHeader(http.StatusNotAcceptable)
				return
			}
			fmt.Fprint(w, `{
				"role_id": 2,
				"designation_id": 4,
				"role": {"name": "Agent"},
				"designation": {"name": "IT Support"}
			}`)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newGateway(t *testing.T, f *fakeBackend) (*session.Gateway, *memTokens, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	st := testutil.NewTestStore(t)
	tokens := &memTokens{}
	client := backend.New(srv.URL, "anon")
	return session.New(client, st, tokens), tokens, srv
}

func TestSignInBuildsMergedProfile(t *testing.T) {
	fake := &fakeBackend{authUserID: "auth-123"}
	g, tokens, _ := newGateway(t, fake)

	var stages []string
	profile, err := g.SignIn(context.Background(), "ana@example.com", "secret", true,
		func(s string) { stages = append(stages, s) })
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if profile.UserID != 7 || profile.AuthUserID != "auth-123" {
		t.Errorf("profile ids = %d/%s", profile.UserID, profile.AuthUserID)
	}
	if got := profile.DisplayName(); got != "Ana Reyes" {
		t.Errorf("display name = %q", got)
	}
	if profile.Assignment == nil || profile.Assignment.RoleName != "Agent" ||
		profile.Assignment.DesignationName != "IT Support" {
		t.Errorf("assignment = %+v", profile.Assignment)
	}

	if g.CurrentUser() == nil {
		t.Error("CurrentUser is nil after sign-in")
	}
	if tokens.token != "refresh-1" {
		t.Errorf("remembered token = %q, want refresh-1", tokens.token)
	}

	wantStages := []string{
		"Signing in...",
		"Loading your profile...",
		"Loading role and designation...",
		"Preparing your workspace...",
	}
	if len(stages) != len(wantStages) {
		t.Fatalf("stages = %v", stages)
	}
	for i, want := range wantStages {
		if stages[i] != want {
			t.Errorf("stage[%d] = %q, want %q", i, stages[i], want)
		}
	}
}

func TestSignInWithoutRememberSavesNoToken(t *testing.T) {
	fake := &fakeBackend{authUserID: "auth-123"}
	g, tokens, _ := newGateway(t, fake)

	if _, err := g.SignIn(context.Background(), "ana@example.com", "secret", false, nil); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if tokens.token != "" {
		t.Errorf("token saved despite remember=false: %q", tokens.token)
	}
}

func TestSignInMissingProfileRowAbandonsSession(t *testing.T) {
	fake := &fakeBackend{authUserID: "auth-123", profileMissing: true}
	g, _, _ := newGateway(t, fake)

	_, err := g.SignIn(context.Background(), "ana@example.com", "secret", true, nil)
	if err == nil {
		t.Fatal("expected error when the profile row is missing")
	}
	if !strings.Contains(err.Error(), "user ID not found for this account") {
		t.Errorf("err = %v", err)
	}

	if g.CurrentUser() != nil {
		t.Error("CurrentUser set after failed sign-in")
	}
	if fake.logoutCalls == 0 {
		t.Error("half-initialized session was not signed back out")
	}
}

func TestSignInMissingAssignmentAbandonsSession(t *testing.T) {
	fake := &fakeBackend{authUserID: "auth-123", noAssignment: true}
	g, tokens, _ := newGateway(t, fake)

	_, err := g.SignIn(context.Background(), "ana@example.com", "secret", true, nil)
	if err == nil {
		t.Fatal("expected error when the assignment row is missing")
	}
	if !strings.Contains(err.Error(), "no role assignment") {
		t.Errorf("err = %v", err)
	}
	if fake.logoutCalls == 0 {
		t.Error("half-initialized session was not signed back out")
	}
	if tokens.token != "" {
		t.Errorf("token saved despite failed sign-in: %q", tokens.token)
	}
}

func TestSignOutRemoteFailureLeavesLocalState(t *testing.T) {
	fake := &fakeBackend{authUserID: "auth-123"}
	g, tokens, _ := newGateway(t, fake)

	if _, err := g.SignIn(context.Background(), "ana@example.com", "secret", true, nil); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	fake.logoutFails = true
	if err := g.SignOut(context.Background()); err == nil {
		t.Fatal("expected sign-out error")
	}

	if g.CurrentUser() == nil {
		t.Error("failed remote sign-out cleared the in-memory session")
	}
	if tokens.token == "" {
		t.Error("failed remote sign-out cleared the remembered token")
	}
}

func TestSignOutClearsLocalState(t *testing.T) {
	fake := &fakeBackend{authUserID: "auth-123"}
	g, tokens, _ := newGateway(t, fake)

	if _, err := g.SignIn(context.Background(), "ana@example.com", "secret", true, nil); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if err := g.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	if g.CurrentUser() != nil {
		t.Error("CurrentUser set after sign-out")
	}
	if tokens.token != "" {
		t.Errorf("token remains after sign-out: %q", tokens.token)
	}
}

func TestResumeRestoresRememberedSession(t *testing.T) {
	fake := &fakeBackend{authUserID: "auth-123"}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	// State as after a restart: cached profile and remembered token,
	// no in-memory session.
	st := testutil.NewTestStore(t)
	if err := st.SaveProfile(context.Background(), model.UserProfile{
		UserID:     7,
		AuthUserID: "auth-123",
		Username:   "ana",
		FirstName:  "Ana",
		LastName:   "Reyes",
	}); err != nil {
		t.Fatalf("seeding profile cache: %v", err)
	}
	tokens := &memTokens{token: "remembered"}

	g := session.New(backend.New(srv.URL, "anon"), st, tokens)
	profile, err := g.Resume(context.Background())
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if profile.AuthUserID != "auth-123" {
		t.Errorf("resumed profile auth id = %q", profile.AuthUserID)
	}
	if g.CurrentUser() == nil {
		t.Error("CurrentUser nil after resume")
	}
	if tokens.token != "refresh-1" {
		t.Errorf("rotated token = %q, want refresh-1", tokens.token)
	}
}

func TestResumeMismatchedCacheAbandonsSession(t *testing.T) {
	fake := &fakeBackend{authUserID: "auth-123"}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	st := testutil.NewTestStore(t)
	if err := st.SaveProfile(context.Background(), model.UserProfile{
		UserID:     8,
		AuthUserID: "someone-else",
	}); err != nil {
		t.Fatalf("seeding profile cache: %v", err)
	}
	tokens := &memTokens{token: "remembered"}

	g := session.New(backend.New(srv.URL, "anon"), st, tokens)
	if _, err := g.Resume(context.Background()); err == nil {
		t.Fatal("expected resume to reject a mismatched cached profile")
	}
	if fake.logoutCalls == 0 {
		t.Error("mismatched resume did not sign the session back out")
	}
}

func TestResumeWithoutTokenFails(t *testing.T) {
	fake := &fakeBackend{authUserID: "auth-123"}
	g, _, _ := newGateway(t, fake)

	if _, err := g.Resume(context.Background()); err == nil {
		t.Fatal("expected resume to fail with no remembered token")
	}
}
