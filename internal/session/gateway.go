// Package session owns the sign-in/sign-out lifecycle: the
// short-circuiting sign-in pipeline, the locally cached profile
// record, and the remembered refresh token.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/issuelane/issuelane/internal/backend"
	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/store"
)

// Progress receives the user-visible status message for each sign-in
// stage. A failing stage replaces the last message with its error.
type Progress func(message string)

// TokenStore persists the remembered session's refresh token across
// restarts. The keyring-backed implementation lives in this package;
// tests substitute an in-memory one.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// Gateway wraps the backend's auth surface and the local profile
// cache. All methods run on the UI's single event loop; the gateway
// keeps no locks.
type Gateway struct {
	client  *backend.Client
	store   store.Store
	tokens  TokenStore
	current *model.UserProfile
}

// New creates a session gateway over the backend client, local store,
// and refresh-token storage.
func New(client *backend.Client, s store.Store, tokens TokenStore) *Gateway {
	return &Gateway{client: client, store: s, tokens: tokens}
}

// CurrentUser returns the signed-in user's merged profile record, or
// nil when nobody is signed in.
func (g *Gateway) CurrentUser() *model.UserProfile {
	return g.current
}

// profileRow mirrors the users table columns the client reads.
type profileRow struct {
	UserID       int64  `json:"user_id"`
	AuthUserID   string `json:"auth_user_id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	MiddleName   string `json:"middle_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Birthday     string `json:"birthday"`
	Sex          string `json:"sex"`
	MobileNumber string `json:"mobile_number"`
	Address      string `json:"address"`
	CreatedAt    string `json:"created_at"`
}

// assignmentRow mirrors a user_assignments row with its role and
// designation rows projected inline.
type assignmentRow struct {
	RoleID        int64 `json:"role_id"`
	DesignationID int64 `json:"designation_id"`
	Role          *struct {
		Name string `json:"name"`
	} `json:"role"`
	Designation *struct {
		Name string `json:"name"`
	} `json:"designation"`
}

const profileColumns = "user_id,auth_user_id,username,first_name," +
	"middle_name,last_name,email,birthday,sex,mobile_number,address,created_at"

const assignmentColumns = "role_id,designation_id," +
	"role:roles(name),designation:designations(name)"

// SignIn authenticates and assembles the signed-in user's merged
// profile record. The pipeline short-circuits: authenticate, load the
// profile row by account id, load the assignment row by profile id,
// cache the merged record, then hand control back for navigation.
// Nothing is cached until every lookup succeeded, and a failure after
// authentication signs the new session back out so no
// authenticated-but-profile-less session is left behind.
func (g *Gateway) SignIn(
	ctx context.Context,
	identifier string,
	secret string,
	persistSession bool,
	report Progress,
) (*model.UserProfile, error) {
	if report == nil {
		report = func(string) {}
	}

	report("Signing in...")
	sess, err := g.client.SignInWithPassword(ctx, identifier, secret)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	report("Loading your profile...")
	var prow profileRow
	err = g.client.From("users").
		Select(profileColumns).
		Eq("auth_user_id", sess.User.ID).
		Single(ctx, &prow)
	if err != nil {
		g.abandonSession(ctx)
		if errors.Is(err, backend.ErrNoRows) {
			return nil, fmt.Errorf("user ID not found for this account")
		}
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	report("Loading role and designation...")
	var arow assignmentRow
	err = g.client.From("user_assignments").
		Select(assignmentColumns).
		Eq("user_id", fmt.Sprintf("%d", prow.UserID)).
		Single(ctx, &arow)
	if err != nil {
		g.abandonSession(ctx)
		if errors.Is(err, backend.ErrNoRows) {
			return nil, fmt.Errorf("no role assignment found for this user")
		}
		return nil, fmt.Errorf("loading assignment: %w", err)
	}

	profile := mergeProfile(prow, arow)

	report("Preparing your workspace...")
	if err := g.store.SaveProfile(ctx, profile); err != nil {
		g.abandonSession(ctx)
		return nil, fmt.Errorf("caching profile: %w", err)
	}

	if persistSession {
		if err := g.tokens.Save(sess.RefreshToken); err != nil {
			// Losing "remember me" does not fail the sign-in.
			report("Signed in (session will not be remembered: " + err.Error() + ")")
		}
	}

	g.current = &profile
	return &profile, nil
}

// Resume restores a remembered session at startup: refresh token from
// the token store, fresh session from the backend, cached profile from
// the local store. Any gap means the user signs in again.
func (g *Gateway) Resume(ctx context.Context) (*model.UserProfile, error) {
	token, err := g.tokens.Load()
	if err != nil || token == "" {
		return nil, fmt.Errorf("no remembered session")
	}

	sess, err := g.client.RefreshSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	profile, err := g.store.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading cached profile: %w", err)
	}
	if profile == nil || profile.AuthUserID != sess.User.ID {
		g.abandonSession(ctx)
		return nil, fmt.Errorf("cached profile does not match the remembered session")
	}

	// The refresh rotated the token; remember the new one.
	_ = g.tokens.Save(sess.RefreshToken)

	g.current = profile
	return profile, nil
}

// SignOut invalidates the remote session and only then clears local
// state. A remote failure is terminal: the cached profile and token
// stay untouched so the user is not left with a live remote session
// and no local trace of it.
func (g *Gateway) SignOut(ctx context.Context) error {
	if err := g.client.SignOut(ctx); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}

	if err := g.store.ClearProfile(ctx); err != nil {
		return fmt.Errorf("clearing cached profile: %w", err)
	}
	// A missing keyring entry is fine; the token may never have been
	// remembered.
	_ = g.tokens.Clear()

	g.current = nil
	return nil
}

// abandonSession signs the half-initialized session back out after a
// failed post-authentication stage. Best effort: the sign-in error is
// what the user sees.
func (g *Gateway) abandonSession(ctx context.Context) {
	_ = g.client.SignOut(ctx)
	g.current = nil
}

// mergeProfile denormalizes the profile and assignment rows into the
// single cached record.
func mergeProfile(p profileRow, a assignmentRow) model.UserProfile {
	profile := model.UserProfile{
		UserID:       p.UserID,
		AuthUserID:   p.AuthUserID,
		Username:     p.Username,
		FirstName:    p.FirstName,
		MiddleName:   p.MiddleName,
		LastName:     p.LastName,
		Email:        p.Email,
		Birthday:     p.Birthday,
		Sex:          p.Sex,
		MobileNumber: p.MobileNumber,
		Address:      p.Address,
	}

	if t, err := backend.ParseTimestamp(p.CreatedAt); err == nil {
		profile.CreatedAt = t
	} else {
		profile.CreatedAt = time.Time{}
	}

	assignment := model.Assignment{
		RoleID:        a.RoleID,
		DesignationID: a.DesignationID,
	}
	if a.Role != nil {
		assignment.RoleName = a.Role.Name
	}
	if a.Designation != nil {
		assignment.DesignationName = a.Designation.Name
	}
	profile.Assignment = &assignment

	return profile
}
