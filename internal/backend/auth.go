package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Session is an authenticated backend session.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// ExpiresAt computes the wall-clock expiry from the session's lifetime.
func (s Session) ExpiresAt(from time.Time) time.Time {
	return from.Add(time.Duration(s.ExpiresIn) * time.Second)
}

// SignInWithPassword authenticates with an email/password pair and
// returns the resulting session. The session's account id is the key
// for the subsequent profile lookup; a missing id is treated as an
// authentication failure.
func (c *Client) SignInWithPassword(
	ctx context.Context,
	email string,
	password string,
) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var session Session
	err := c.do(
		ctx, http.MethodPost,
		"/auth/v1/token?grant_type=password",
		body, &session, nil,
	)
	if err != nil {
		return nil, err
	}

	if session.User.ID == "" {
		return nil, &AuthError{Message: "sign-in response carried no account id"}
	}

	c.SetAccessToken(session.AccessToken)
	return &session, nil
}

// RefreshSession exchanges a stored refresh token for a fresh session.
// Used at startup to restore a remembered sign-in.
func (c *Client) RefreshSession(
	ctx context.Context,
	refreshToken string,
) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}

	var session Session
	err := c.do(
		ctx, http.MethodPost,
		"/auth/v1/token?grant_type=refresh_token",
		body, &session, nil,
	)
	if err != nil {
		return nil, err
	}

	if session.User.ID == "" {
		return nil, &AuthError{Message: "refresh response carried no account id"}
	}

	c.SetAccessToken(session.AccessToken)
	return &session, nil
}

// SignOut invalidates the current session on the backend. The client's
// access token is cleared only when the remote call succeeds, so a
// failed sign-out leaves the session usable.
func (c *Client) SignOut(ctx context.Context) error {
	if c.accessToken == "" {
		return fmt.Errorf("sign out: no active session")
	}

	err := c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, nil)
	if err != nil {
		return err
	}

	c.ClearAccessToken()
	return nil
}
