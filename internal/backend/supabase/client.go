// Package supabase implements the backend contract over the hosted service's
// REST surface: the auth provider, the table API and object storage.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mahdyhasan/augmind/internal/backend"
)

type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	userToken  string
	timeout    time.Duration
	http       *http.Client
}

type Option func(*Client)

func WithServiceKey(key string) Option {
	return func(c *Client) { c.serviceKey = key }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL, anonKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		timeout: 10 * time.Second,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Auth() backend.AuthAPI { return &authAPI{c: c} }

func (c *Client) From(table string) backend.TableQuery {
	return &tableQuery{c: c, table: table, selects: "*"}
}

func (c *Client) Storage() backend.StorageAPI { return &storageAPI{c: c} }

func (c *Client) WithToken(accessToken string) backend.Client {
	clone := *c
	clone.userToken = accessToken
	return &clone
}

func (c *Client) Rpc(ctx context.Context, fn string, params interface{}, dest interface{}) error {
	body, err := json.Marshal(params)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPost, "/rest/v1/rpc/"+fn, bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// Probe is a head count against user_profiles, the same cheap request the
// original dashboard used to decide live versus demo mode.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.From("user_profiles").Count(ctx)
	return err
}

// do issues one bounded request. Every adapter call goes through here so the
// fixed-timeout, no-retry policy holds everywhere.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		cancel()
		return nil, err
	}

	req.Header.Set("apikey", c.anonKey)
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer())
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	// Tie the body's lifetime to the request context.
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *Client) bearer() string {
	if c.userToken != "" {
		return c.userToken
	}
	if c.serviceKey != "" {
		return c.serviceKey
	}
	return c.anonKey
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *cancelReadCloser) Close() error {
	err := r.ReadCloser.Close()
	r.cancel()
	return err
}

type apiError struct {
	Code             string `json:"code"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
	ErrorField       string `json:"error"`
}

func (e *apiError) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDescription, e.ErrorField} {
		if s != "" {
			return s
		}
	}
	return "request failed"
}

// checkStatus maps a non-2xx response onto the normalized error taxonomy.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var ae apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &ae)

	code := backend.CodeUnavailable
	switch {
	case ae.Code == "PGRST116" || resp.StatusCode == http.StatusNotFound ||
		(resp.StatusCode == http.StatusNotAcceptable && strings.Contains(ae.text(), "0 rows")):
		code = backend.CodeNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		code = backend.CodeUnauthorized
	case resp.StatusCode == http.StatusConflict || strings.Contains(ae.text(), "already registered"):
		code = backend.CodeDuplicate
	case strings.Contains(strings.ToLower(ae.text()), "password"):
		code = backend.CodeWeakPassword
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusForbidden ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		code = backend.CodeInvalidCredentials
	}

	return &backend.Error{
		Code:    code,
		Status:  resp.StatusCode,
		Message: ae.text(),
	}
}

func (c *Client) decode(resp *http.Response, dest interface{}) error {
	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	// Inserts return a one-element array even for single records; unwrap when
	// the caller wants an object.
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' && !destWantsSlice(dest) {
		var rows []json.RawMessage
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			return &backend.Error{Code: backend.CodeNotFound, Status: 404, Message: "no rows returned"}
		}
		return json.Unmarshal(rows[0], dest)
	}
	return json.Unmarshal(trimmed, dest)
}

func destWantsSlice(dest interface{}) bool {
	return strings.HasPrefix(fmt.Sprintf("%T", dest), "*[]")
}
