package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Upload stores a single binary object in the named bucket under the
// caller-chosen key. The key must already be unique; callers randomize
// it before uploading.
func (c *Client) Upload(
	ctx context.Context,
	bucket string,
	key string,
	contentType string,
	r io.Reader,
) error {
	path := fmt.Sprintf("/storage/v1/object/%s/%s", bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("creating upload request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	token := c.accessToken
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("uploading object %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		body, _ := io.ReadAll(resp.Body)
		return &AuthError{Message: decodeErrorMessage(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(body),
		}
	}

	return nil
}

// PublicURL returns the stable public URL for a stored object.
func (c *Client) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, key)
}
