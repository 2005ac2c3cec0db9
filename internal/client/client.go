// Package client is the HTTP gateway to the réclamations API: one
// configured client, uniform error logging, and the role-scoped operations
// every screen is built on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yasminebennouis/app-reclamations/internal/config"
)

var (
	// ErrNotFound is returned when a record cannot be located, including
	// the admin detail search window coming up empty.
	ErrNotFound = errors.New("réclamation introuvable")
	// ErrCommentRequired rejects a technician reply before any network
	// call is made.
	ErrCommentRequired = errors.New("commentaire requis")
)

// APIError is a server-reported failure (non-2xx) with the best available
// message: the {"message": ...} body field, else the raw body, else the
// status text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type Client struct {
	http *http.Client
	base string
	log  zerolog.Logger
}

// New builds a client against baseURL (resolved via config.APIBaseURL when
// empty) with the 15s timeout the app has always used.
func New(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		http: &http.Client{Timeout: 15 * time.Second},
		base: strings.TrimRight(config.APIBaseURL(baseURL), "/"),
		log:  log,
	}
}

func (c *Client) BaseURL() string { return c.base }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("url", u).Msg("api unreachable")
		return fmt.Errorf("requête %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{Status: res.StatusCode, Message: errorMessage(res.StatusCode, raw)}
		c.log.Warn().Int("status", res.StatusCode).Str("url", u).Str("message", apiErr.Message).Msg("api error")
		return apiErr
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func errorMessage(status int, raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return http.StatusText(status)
}
