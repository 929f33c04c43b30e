// Package vault is a narrow client for a Vault-style KV secret store.
// It owns the session/token lifecycle, the tree navigator, and the
// transport adapter; everything above it is a thin CLI wrapper.
package vault

import (
	"errors"
	"fmt"
)

// Kind discriminates the three failure classes the client surfaces.
type Kind int

const (
	// KindTransport: the request never completed (connection, TLS, timeout).
	KindTransport Kind = iota + 1
	// KindStore: the HTTP exchange succeeded but the JSON body carried an
	// errors array. The first message is surfaced.
	KindStore
	// KindLocal: cache file unreadable, certificate load failure, or a
	// response whose JSON shape is not what this API version produces.
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStore:
		return "store"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Sentinel errors. Use errors.Is(err, vault.ErrAuthRejected) to check.
var (
	ErrTransport          = errors.New("vault: transport failure")
	ErrAuthRejected       = errors.New("vault: authentication rejected")
	ErrMalformedResponse  = errors.New("vault: malformed response")
	ErrNoCredentialSource = errors.New("vault: no credential source")
	ErrNoCachedToken      = errors.New("vault: no cached token")
)

// Error wraps a failure with its kind, the operation that produced it,
// and an optional sentinel or underlying cause for errors.Is matching.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error // sentinel or cause, for errors.Is()
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vault: %s: %s error: %s", e.Op, e.Kind, e.Message)
	}

	return fmt.Sprintf("vault: %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// transportErr wraps a network-level failure. The underlying error is kept
// for inspection; errors.Is(err, ErrTransport) matches via the sentinel chain.
func transportErr(op string, err error) error {
	return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
}

// storeErr surfaces the first message of an errors[] body.
func storeErr(op, message string) error {
	return &Error{Kind: KindStore, Op: op, Message: message}
}

// localErr wraps a client-side failure (decode, shape, file).
func localErr(op string, err error) error {
	return &Error{Kind: KindLocal, Op: op, Err: err}
}
