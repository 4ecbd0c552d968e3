// Package api is the gateway to the SBU operations backend.
//
// Every call goes through Client.Do which attaches the bearer token of the
// session, negotiates JSON and turns any failure into an *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/sbudesk/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is where the backend listens in a default install.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Payload is a request body that carries its own content type, like a
// multipart form.
type Payload struct {
	ContentType string
	Body        io.Reader
}

// Client calls the backend REST API. It never retries.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client for the backend at base.
func New(base string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(base, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Do sends a request to path and decodes a successful JSON answer into out.
//
// sess is nil for anonymous calls. body is encoded as a form when it is a
// url.Values, sent as is when it is a Payload, and as JSON otherwise.
// out may be nil, or a *[]byte to get the raw answer.
func (c *Client) Do(ctx context.Context, sess *session.Session, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, sess, method, path, body)
	if err != nil {
		return err
	}
	id := req.Header.Get("X-Request-Id")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		log.Debug().Err(err).Str("id", id).Str("method", method).Str("path", path).Msg("request failed")
		return &Error{Kind: Transport, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: Transport, Status: resp.StatusCode, Err: fmt.Errorf("cannot read response: %w", err)}
	}
	log.Debug().
		Str("id", id).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classify(resp.StatusCode, data)
	}
	return decode(data, out)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) newRequest(ctx context.Context, sess *session.Session, method, path string, body any) (*http.Request, error) {
	var (
		r           io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case url.Values:
		r, contentType = strings.NewReader(b.Encode()), "application/x-www-form-urlencoded"
	case Payload:
		r, contentType = b.Body, b.ContentType
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("cannot encode %s %s request: %w", method, path, err)
		}
		r, contentType = bytes.NewReader(data), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return nil, &Error{Kind: Transport, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if sess != nil && sess.RawToken != "" {
		req.Header.Set("Authorization", "Bearer "+sess.RawToken)
	}
	return req, nil
}

func decode(data []byte, out any) error {
	if out == nil {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = data
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: Transport, Err: fmt.Errorf("cannot decode response: %w", err)}
	}
	return nil
}
