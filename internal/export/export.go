package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vaulthunt/vaulthunt/internal/vault"
)

// Inventory is the part of the vault client the pipeline consumes.
type Inventory interface {
	ExportAll(ctx context.Context) ([]vault.ExportEntry, error)
}

// Marker persists the last-export timestamp between runs. The token-cache
// file provides the implementation.
type Marker interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Recorder appends an export run to the history ledger. Nil-able: a ledger
// failure must not block an export, so the pipeline only logs it.
type Recorder interface {
	RecordRun(ctx context.Context, startedAt time.Time, entryCount int, destination string) error
}

// Pipeline runs the full-tree export: inventory, XML, GPG, bookkeeping.
type Pipeline struct {
	Inventory Inventory
	Marker    Marker
	Recorder  Recorder
	Encrypt   Encryptor
	Logger    *slog.Logger

	// XMLPath is the ciphertext destination; Recipient the GPG key.
	XMLPath   string
	Recipient string
	// MinInterval gates Due: automatic exports run at most this often.
	MinInterval time.Duration
}

// Due reports whether an automatic export should run: never exported, an
// unreadable marker, or a marker older than MinInterval. A marker that
// fails to parse counts as due rather than blocking forever.
func (p *Pipeline) Due(now time.Time) bool {
	raw, err := p.Marker.Get(vault.CacheKeyLastExport)
	if err != nil || raw == "" {
		return true
	}

	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return true
	}

	return now.Sub(last) >= p.MinInterval
}

// Run performs one export: walk the whole tree, serialize to XML in
// memory, encrypt to XMLPath, stamp the marker, and record the run.
func (p *Pipeline) Run(ctx context.Context) error {
	startedAt := time.Now()

	entries, err := p.Inventory.ExportAll(ctx)
	if err != nil {
		return fmt.Errorf("export: inventory failed: %w", err)
	}

	if len(entries) == 0 {
		return errors.New("export: store holds no entries")
	}

	var plaintext bytes.Buffer
	if err := Write(&plaintext, entries); err != nil {
		return err
	}

	if err := p.Encrypt(ctx, p.Recipient, p.XMLPath, plaintext.Bytes()); err != nil {
		return err
	}

	if err := p.Marker.Set(vault.CacheKeyLastExport, startedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("export: stamping last-export marker: %w", err)
	}

	if p.Recorder != nil {
		if err := p.Recorder.RecordRun(ctx, startedAt, len(entries), p.XMLPath); err != nil {
			p.Logger.Warn("failed to record export run", slog.String("error", err.Error()))
		}
	}

	p.Logger.Info("export complete",
		slog.Int("entries", len(entries)),
		slog.String("destination", p.XMLPath),
	)

	return nil
}
