package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sportadmin/internal/model"
)

// maxErrorBody bounds how much of a failed response body is kept for logs and errors.
const maxErrorBody = 4096

type Options struct {
	// HTTPClient defaults to a client without a timeout.
	HTTPClient *http.Client
	// Token is the bearer credential. Empty means no Authorization header is sent.
	Token string
	// Timeout bounds each individual request. Zero means no timeout.
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
}

// Client talks to the admin REST backend. It holds no per-collection state, so one value is
// safe to share between commands and goroutines.
type Client struct {
	http      *http.Client
	token     string
	timeout   time.Duration
	userAgent string
	log       *slog.Logger
}

func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = "sportadmin"
	}
	return &Client{
		http:      hc,
		token:     strings.TrimSpace(opts.Token),
		timeout:   opts.Timeout,
		userAgent: ua,
		log:       log,
	}
}

// HasToken reports whether a bearer credential is configured.
func (c *Client) HasToken() bool { return c.token != "" }

// Delete issues a single DELETE. Any 2xx status is success.
func (c *Client) Delete(ctx context.Context, url string) error {
	_, err := c.do(ctx, http.MethodDelete, url, nil, true)
	if err != nil {
		c.log.Error("delete failed", "url", url, "err", err)
		return err
	}
	c.log.Info("deleted", "url", url)
	return nil
}

// Create POSTs body as JSON. A JSON object response is returned as the created record;
// an empty or non-object response yields a nil record.
func (c *Client) Create(ctx context.Context, url string, body any) (model.Record, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, url, raw, true)
	if err != nil {
		c.log.Error("create failed", "url", url, "err", err)
		return nil, err
	}
	c.log.Info("created", "url", url)

	var rec model.Record
	if len(bytes.TrimSpace(resp)) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(resp, &rec); err != nil {
		// The record was created; an odd response body is not a failure of the create.
		c.log.Warn("create response is not a JSON object", "url", url, "err", err)
		return nil, nil
	}
	return rec, nil
}

// get fetches url and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, url string, auth bool) ([]byte, error) {
	return c.do(ctx, http.MethodGet, url, nil, auth)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, auth bool) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug("request", "method", method, "url", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return b, nil
}
