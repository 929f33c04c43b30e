package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// listMethod is the non-standard HTTP method the store's directory-listing
// endpoint uses.
const listMethod = "LIST"

// listResponse wraps the raw child names of one directory.
type listResponse struct {
	Data struct {
		Keys []string `json:"keys"`
	} `json:"data"`
}

// getResponse is the two-level envelope this API version wraps leaf
// payloads in. The nesting is a fixed contract of the remote API, not a
// general pattern — exactly two levels are peeled.
type getResponse struct {
	Data struct {
		Data Record `json:"data"`
	} `json:"data"`
}

// List enumerates the immediate children of a directory path. A raw name
// with a trailing separator is a sub-directory (separator stripped), any
// other name is a leaf key.
func (c *Client) List(ctx context.Context, path Path) ([]Entry, error) {
	const op = "list"

	apiPath := fmt.Sprintf("/v1/passwords/metadata/%s/%s", c.username, encodePathSegments(path.String()))

	status, respBody, err := c.request(ctx, op, listMethod, apiPath, nil)
	if err != nil {
		return nil, err
	}

	if msg, ok := firstStoreError(respBody); ok {
		return nil, storeErr(op, fmt.Sprintf("listing %q: %s", path.String(), msg))
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, storeErr(op, fmt.Sprintf("listing %q: HTTP %d", path.String(), status))
	}

	var parsed listResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &Error{Kind: KindLocal, Op: op, Err: fmt.Errorf("%w: decoding listing: %w", ErrMalformedResponse, err)}
	}

	if parsed.Data.Keys == nil {
		return nil, &Error{Kind: KindLocal, Op: op, Err: fmt.Errorf("%w: listing carries no key array", ErrMalformedResponse)}
	}

	entries := make([]Entry, 0, len(parsed.Data.Keys))
	for _, raw := range parsed.Data.Keys {
		entries = append(entries, entryFromRaw(raw))
	}

	return entries, nil
}

// Get fetches the full field map stored at a leaf path.
func (c *Client) Get(ctx context.Context, path Path) (Record, error) {
	const op = "get"

	apiPath := fmt.Sprintf("/v1/passwords/data/%s/%s", c.username, encodePathSegments(path.String()))

	var parsed getResponse
	if err := c.call(ctx, op, http.MethodGet, apiPath, nil, &parsed); err != nil {
		return nil, err
	}

	if parsed.Data.Data == nil {
		return nil, &Error{Kind: KindLocal, Op: op, Err: fmt.Errorf("%w: payload at %q is not a field map", ErrMalformedResponse, path.String())}
	}

	return parsed.Data.Data, nil
}
