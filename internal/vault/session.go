package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Session lifecycle. The client produces and maintains exactly one valid
// token per process, minimizing prompts and round-trips: cached token
// first, validated with a lightweight self-lookup, interactive login only
// as the last resort. The cached-validated-interactive chain is the only
// place a failure is absorbed and retried with another strategy; once the
// interactive login fails too, the error propagates unchanged.

// loginRequest is the userpass login payload.
type loginRequest struct {
	Password    string `json:"password"`
	TokenMaxTTL int    `json:"token_max_ttl"`
}

// loginResponse carries the issued token.
type loginResponse struct {
	Auth struct {
		ClientToken string `json:"client_token"`
	} `json:"auth"`
}

// LoginCached adopts the token from the cache without talking to the
// server. Returns ErrNoCachedToken when the cache holds no token; cache
// read failures propagate so strict callers (token-info, logout) can
// distinguish a missing cache file from a missing key.
func (c *Client) LoginCached() error {
	tok, err := c.cache.Get(cacheKeyToken)
	if err != nil {
		return localErr("login cached", err)
	}

	if tok == "" {
		return &Error{Kind: KindLocal, Op: "login cached", Err: ErrNoCachedToken}
	}

	c.token = tok

	return nil
}

// LookupToken fetches the self-lookup of the current token. Any JSON body
// without an errors entry counts as a valid session, even one lacking the
// expected fields — deliberately lenient to avoid coupling to the response
// shape.
func (c *Client) LookupToken(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "lookup token", http.MethodGet, "/v1/auth/token/lookup-self", nil, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// LoginPassword performs the userpass login and persists the issued token
// to the cache before returning. An explicit error payload surfaces as
// ErrAuthRejected with the server's message.
func (c *Client) LoginPassword(ctx context.Context, password string) error {
	const op = "login"

	body := loginRequest{Password: password, TokenMaxTTL: tokenMaxTTLSeconds}
	apiPath := "/v1/auth/userpass/login/" + c.username

	status, respBody, err := c.request(ctx, op, http.MethodPost, apiPath, body)
	if err != nil {
		return err
	}

	if msg, ok := firstStoreError(respBody); ok {
		return &Error{Kind: KindStore, Op: op, Message: msg, Err: ErrAuthRejected}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return &Error{Kind: KindStore, Op: op, Message: fmt.Sprintf("HTTP %d", status), Err: ErrAuthRejected}
	}

	var parsed loginResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return &Error{Kind: KindLocal, Op: op, Err: fmt.Errorf("%w: decoding login response: %w", ErrMalformedResponse, err)}
	}

	if parsed.Auth.ClientToken == "" {
		return &Error{Kind: KindLocal, Op: op, Err: fmt.Errorf("%w: login response carries no client token", ErrMalformedResponse)}
	}

	c.token = parsed.Auth.ClientToken

	// Persist before returning so the token survives process exit — each
	// CLI run is a fresh process.
	if err := c.cache.Set(cacheKeyToken, c.token); err != nil {
		return localErr(op, fmt.Errorf("caching token: %w", err))
	}

	c.logger.Info("logged in", slog.String("username", c.username))

	return nil
}

// loginPrompt asks for the password and logs in. With no prompt wired
// (stdin is not a terminal) there is no credential source left.
func (c *Client) loginPrompt(ctx context.Context) error {
	if c.prompt == nil {
		return &Error{Kind: KindLocal, Op: "login", Err: ErrNoCredentialSource}
	}

	password, err := c.prompt("Password: ")
	if err != nil {
		return localErr("login", fmt.Errorf("reading password: %w", err))
	}

	return c.LoginPassword(ctx, password)
}

// Login establishes a session: cached token if one validates, interactive
// login otherwise. A cached token is validated with a single self-lookup;
// any failure there (network, 403, malformed body) falls through to the
// prompt rather than surfacing. Interactive failure is terminal.
func (c *Client) Login(ctx context.Context) error {
	if err := c.LoginCached(); err != nil {
		c.logger.Debug("no cached token", slog.String("reason", err.Error()))

		return c.loginPrompt(ctx)
	}

	if _, err := c.LookupToken(ctx); err != nil {
		c.logger.Debug("cached token failed validation", slog.String("reason", err.Error()))

		c.token = ""

		return c.loginPrompt(ctx)
	}

	c.logger.Debug("reusing cached token", slog.String("username", c.username))

	return nil
}

// Logout revokes the token server-side and erases it locally. A 403 from
// revoke-self means the token is already invalid; the end state is the same
// either way, so that is a success with a warning. No-op without a token.
func (c *Client) Logout(ctx context.Context) error {
	if c.token == "" {
		return nil
	}

	const op = "logout"

	status, respBody, err := c.request(ctx, op, http.MethodPost, "/v1/auth/token/revoke-self", nil)
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusForbidden:
		c.logger.Warn("token already invalid, clearing cache")
	case status < http.StatusOK || status >= http.StatusMultipleChoices:
		if msg, ok := firstStoreError(respBody); ok {
			return storeErr(op, msg)
		}

		return storeErr(op, fmt.Sprintf("HTTP %d", status))
	}

	c.token = ""

	if err := c.cache.Remove(cacheKeyToken); err != nil {
		return localErr(op, fmt.Errorf("clearing cached token: %w", err))
	}

	c.logger.Info("logged out")

	return nil
}
