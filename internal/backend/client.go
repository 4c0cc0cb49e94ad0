package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoRows is returned by single-row reads that match nothing.
var ErrNoRows = errors.New("backend: no rows in result")

// AuthError indicates the backend rejected the caller's credentials or
// session. It is returned whenever a request comes back 401.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// APIError is a non-2xx response from the backend with its decoded
// error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// apiErrorBody covers both error shapes the hosted service produces:
// the data API reports "message", the auth API "msg" or
// "error_description".
type apiErrorBody struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (b apiErrorBody) text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.ErrorDescription != "":
		return b.ErrorDescription
	default:
		return b.Msg
	}
}

// Client is a thin HTTP client for the hosted backend service: its
// auth endpoints, table query/insert endpoints, and object storage.
// Every request carries the project API key; requests made after
// sign-in additionally carry the session's access token.
type Client struct {
	baseURL     string
	anonKey     string
	accessToken string
	httpClient  *http.Client
}

// New creates a backend client for the project at baseURL using the
// public API key.
func New(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetAccessToken attaches a session access token to subsequent requests.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// ClearAccessToken reverts the client to unauthenticated requests.
func (c *Client) ClearAccessToken() {
	c.accessToken = ""
}

// do builds the request, attaches auth headers, executes it once (no
// retry anywhere in this client), and decodes the JSON response into
// result when non-nil. Extra headers may be supplied for endpoints
// that need them (row-count prefs, single-object accept).
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
	headers map[string]string,
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	token := c.accessToken
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Message: decodeErrorMessage(respBody)}
	}

	// The data API answers a single-object request that matched zero
	// rows with 406.
	if resp.StatusCode == http.StatusNotAcceptable {
		return ErrNoRows
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(respBody),
		}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}

func decodeErrorMessage(body []byte) string {
	var eb apiErrorBody
	if json.Unmarshal(body, &eb) == nil && eb.text() != "" {
		return eb.text()
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = "no error detail"
	}
	return msg
}
