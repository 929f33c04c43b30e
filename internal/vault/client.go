package vault

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// defaultTimeout bounds every HTTP request. Prevents a hung connection from
// blocking a CLI invocation indefinitely.
const defaultTimeout = 30 * time.Second

// defaultSearchFanout is the per-level concurrency limit for frontier
// listing during traversal.
const defaultSearchFanout = 8

// TokenCache persists the session token (and small markers) between CLI
// invocations. Defined at the consumer per Go convention "accept
// interfaces, return structs"; cachefile provides the real implementation.
//
// Get returns "" with a nil error when the key is absent, and an error when
// the backing file cannot be read. Whether a missing file is an error is
// the implementation's contract — the session bootstrap absorbs every Get
// failure, strict callers propagate it.
type TokenCache interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// PasswordPrompt asks the user for a password with echo disabled.
// A nil prompt means no interactive input is available.
type PasswordPrompt func(prompt string) (string, error)

// Cache keys the client uses.
const (
	cacheKeyToken = "token"
	// CacheKeyLastExport marks the time of the last successful export run.
	CacheKeyLastExport = "last_export"
)

// tokenMaxTTLSeconds is requested at login; the server may cap it.
const tokenMaxTTLSeconds = 24 * 60 * 60

// Options configures a Client.
type Options struct {
	// Endpoint is the base URL of the store's HTTP API, e.g.
	// "https://vault.example.com:8200".
	Endpoint string
	// Username for userpass login and for the per-user KV path prefix.
	// Lower-cased before every use: the auth backend case-folds usernames
	// but the storage paths built from the username are case-sensitive.
	Username string
	// CACerts are PEM files appended to the trust roots. A file that cannot
	// be read or parsed is fatal at construction.
	CACerts []string
	// Timeout for each HTTP request. Zero means defaultTimeout.
	Timeout time.Duration
	// Cache persists the token between invocations. Required.
	Cache TokenCache
	// Prompt supplies the interactive password fallback. Nil means no
	// interactive input is available (ErrNoCredentialSource on fallback).
	Prompt PasswordPrompt
	// SearchFanout limits concurrent list calls per traversal level.
	// Zero means defaultSearchFanout.
	SearchFanout int

	Logger *slog.Logger
}

// Client is a narrow client for one Vault-style KV API. It owns the session
// token (sole writer) and issues authenticated requests. One client serves
// one serial logical operation; it spawns no background work.
type Client struct {
	endpoint   string // no trailing slash
	username   string // lower-cased once, here
	httpClient *http.Client
	cache      TokenCache
	prompt     PasswordPrompt
	fanout     int
	logger     *slog.Logger

	// token is empty when unauthenticated. Never sent as an empty bearer.
	token string
}

// New builds a Client. Reading or parsing any configured CA certificate
// fails construction.
func New(opts Options) (*Client, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}

	if opts.SearchFanout <= 0 {
		opts.SearchFanout = defaultSearchFanout
	}

	httpClient := &http.Client{Timeout: opts.Timeout}

	if len(opts.CACerts) > 0 {
		pool, err := loadCertPool(opts.CACerts)
		if err != nil {
			return nil, err
		}

		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
		}
	}

	return &Client{
		endpoint:   strings.TrimSuffix(opts.Endpoint, "/"),
		username:   strings.ToLower(opts.Username),
		httpClient: httpClient,
		cache:      opts.Cache,
		prompt:     opts.Prompt,
		fanout:     opts.SearchFanout,
		logger:     opts.Logger,
	}, nil
}

// loadCertPool reads PEM files into a root pool, starting from the system
// roots so the custom CAs extend rather than replace them.
func loadCertPool(files []string) (*x509.CertPool, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}

	for _, file := range files {
		pem, readErr := os.ReadFile(file)
		if readErr != nil {
			return nil, localErr("load ca cert", fmt.Errorf("reading %s: %w", file, readErr))
		}

		if !pool.AppendCertsFromPEM(pem) {
			return nil, localErr("load ca cert", fmt.Errorf("no certificates parsed from %s", file))
		}
	}

	return pool, nil
}

// Username returns the lower-cased username the client addresses the store
// with.
func (c *Client) Username() string {
	return c.username
}

// Authenticated reports whether the client currently holds a token.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// encodePathSegments URL-encodes each segment of a slash-separated path so
// characters like #, ?, % and spaces are safe inside request URLs.
func encodePathSegments(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	return strings.Join(segments, "/")
}

// request sends one HTTP request and returns the status code and full body.
// The bearer header is attached only when a token is held. Network-level
// failures come back as transport errors; no retries happen here — every
// caller decides whether and how to retry.
func (c *Client) request(ctx context.Context, op, method, apiPath string, body any) (int, []byte, error) {
	var reqBody *bytes.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, localErr(op, fmt.Errorf("encoding request body: %w", err))
		}

		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+apiPath, reqBody)
	if err != nil {
		return 0, nil, localErr(op, fmt.Errorf("creating request: %w", err))
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, transportErr(op, err)
	}
	defer resp.Body.Close()

	respBody, err := readAll(resp)
	if err != nil {
		return 0, nil, transportErr(op, err)
	}

	c.logger.Debug("request complete",
		slog.String("method", method),
		slog.String("path", apiPath),
		slog.Int("status", resp.StatusCode),
	)

	return resp.StatusCode, respBody, nil
}

// call sends a request and applies the store's response conventions: a JSON
// body carrying an errors array is a store-level failure surfaced with its
// first message even when the HTTP exchange succeeded; any other non-2xx is
// an error too. On success the body is decoded into out when out is non-nil.
func (c *Client) call(ctx context.Context, op, method, apiPath string, body, out any) error {
	status, respBody, err := c.request(ctx, op, method, apiPath, body)
	if err != nil {
		return err
	}

	if msg, ok := firstStoreError(respBody); ok {
		return storeErr(op, msg)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return storeErr(op, fmt.Sprintf("HTTP %d: %s", status, strings.TrimSpace(string(respBody))))
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: KindLocal, Op: op, Err: fmt.Errorf("%w: decoding response: %w", ErrMalformedResponse, err)}
	}

	return nil
}

// firstStoreError extracts the first message of an errors array if the body
// carries one. A body that is not JSON does not count as a store error —
// that case falls through to status-code handling.
func firstStoreError(body []byte) (string, bool) {
	var envelope struct {
		Errors []string `json:"errors"`
	}

	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", false
	}

	if len(envelope.Errors) == 0 {
		return "", false
	}

	return envelope.Errors[0], true
}

// readAll drains a response body.
func readAll(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return buf.Bytes(), nil
}

// Health maps the health endpoint's status code to a fixed enumeration.
// The call is unauthenticated and ignores the response body.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	status, _, err := c.request(ctx, "health", http.MethodGet, "/v1/sys/health", nil)
	if err != nil {
		return 0, err
	}

	return healthFromHTTPStatus(status)
}

// Mounts returns the mount table as opaque JSON for diagnostic display.
func (c *Client) Mounts(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "list mounts", http.MethodGet, "/v1/sys/mounts", nil, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}
