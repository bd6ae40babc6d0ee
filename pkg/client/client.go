// Package client is a typed HTTP client for the storefront API. Every call
// builds exactly one request; there are no retries, so a failure is final for
// that action and is always returned to the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gooddeal/storefront/pkg/listing"
)

const defaultTimeout = 30 * time.Second

// File is one image part of a multipart request.
type File struct {
	Name string
	Body io.Reader
}

type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// New returns a client for the API at baseURL acting as session. A nil
// session starts signed out.
func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = &Session{}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   defaultTimeout,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

// userID returns the signed-in user's id for :userId path segments.
func (c *Client) userID() (string, error) {
	if !c.session.SignedIn() {
		return "", ErrNotSignedIn
	}
	return c.session.State().UserID, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	return c.send(req, out)
}

// doMultipart posts fields and files as multipart/form-data.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, files map[string]File, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("client: write field %s: %w", k, err)
		}
	}
	for field, f := range files {
		part, err := w.CreateFormFile(field, f.Name)
		if err != nil {
			return fmt.Errorf("client: create part %s: %w", field, err)
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return fmt.Errorf("client: read %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("client: close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

// newRequest sets the JSON content type on every request; doMultipart
// overrides it.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("client: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if tok := c.session.State().AccessToken; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// send runs req and decodes the body. A body with an "error" field becomes an
// *APIError whatever the status.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read %s %s: %w", req.Method, req.URL.Path, err)
	}

	var envelope struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("client: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	if envelope.Error != nil {
		return &APIError{Status: resp.StatusCode, Message: *envelope.Error}
	}
	if resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// getList fetches a {filter, size, <key>} page.
func getList[T any](ctx context.Context, c *Client, path, key string, f listing.Filter) (listing.Page[T], error) {
	var raw map[string]json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, path, f.Values(), nil, &raw); err != nil {
		return listing.Page[T]{}, err
	}

	var (
		meta  listing.Meta
		size  int64
		items []T
	)
	for k, dst := range map[string]any{"filter": &meta, "size": &size, key: &items} {
		v, ok := raw[k]
		if !ok {
			return listing.Page[T]{}, fmt.Errorf("client: decode GET %s: missing %q", path, k)
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return listing.Page[T]{}, fmt.Errorf("client: decode GET %s %s: %w", path, k, err)
		}
	}
	return listing.Page[T]{Items: items, Pagination: meta.Pagination(size)}, nil
}

// message is the body of actions that only report success.
type message struct {
	Success string `json:"success"`
}

type count struct {
	Count int64 `json:"count"`
}
