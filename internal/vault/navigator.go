package vault

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
)

// Breadth-first traversal over a tree whose only primitive is "list the
// immediate children of a directory". Breadth-first bounds the sequential
// round-trip latency to the tree's depth and lets each level's list calls
// fan out concurrently; ordering is guaranteed only at level boundaries,
// never across sibling directories within a level.

// ExportEntry pairs a leaf path with its full record.
type ExportEntry struct {
	Path   Path
	Record Record
}

// listLevel lists every directory of one frontier, concurrently up to the
// configured fan-out. Results come back indexed by frontier position so the
// caller can process them in a stable order.
func (c *Client) listLevel(ctx context.Context, frontier []Path) ([][]Entry, error) {
	results := make([][]Entry, len(frontier))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fanout)

	for i, dir := range frontier {
		i, dir := i, dir
		g.Go(func() error {
			entries, err := c.List(gctx, dir)
			if err != nil {
				return err
			}

			results[i] = entries

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Search walks the whole tree breadth-first and returns the paths of every
// leaf whose name contains pattern, case-insensitively. The empty pattern
// matches every leaf. Keys are never expanded further; the tree is a strict
// hierarchy, so no visited-set is needed.
func (c *Client) Search(ctx context.Context, pattern string) ([]Path, error) {
	fold := cases.Fold()
	want := fold.String(pattern)

	var matches []Path

	frontier := []Path{RootPath()}

	for len(frontier) > 0 {
		level, err := c.listLevel(ctx, frontier)
		if err != nil {
			return nil, err
		}

		var next []Path

		for i, dir := range frontier {
			for _, entry := range level[i] {
				switch entry.Kind {
				case EntryDir:
					next = append(next, dir.Pushed(entry.Name))
				case EntryKey:
					if want == "" || strings.Contains(fold.String(entry.Name), want) {
						matches = append(matches, dir.Pushed(entry.Name))
					}
				}
			}
		}

		frontier = next
	}

	c.logger.Debug("search complete",
		slog.String("pattern", pattern),
		slog.Int("matches", len(matches)),
	)

	return matches, nil
}

// ExportAll walks the whole tree breadth-first and fetches the record of
// every leaf. This is the full-inventory operation the export pipeline
// consumes.
func (c *Client) ExportAll(ctx context.Context) ([]ExportEntry, error) {
	var exported []ExportEntry

	frontier := []Path{RootPath()}

	for len(frontier) > 0 {
		level, err := c.listLevel(ctx, frontier)
		if err != nil {
			return nil, err
		}

		var next []Path

		var leaves []Path

		for i, dir := range frontier {
			for _, entry := range level[i] {
				switch entry.Kind {
				case EntryDir:
					next = append(next, dir.Pushed(entry.Name))
				case EntryKey:
					leaves = append(leaves, dir.Pushed(entry.Name))
				}
			}
		}

		records, err := c.getLevel(ctx, leaves)
		if err != nil {
			return nil, err
		}

		for i, leaf := range leaves {
			exported = append(exported, ExportEntry{Path: leaf, Record: records[i]})
		}

		frontier = next
	}

	c.logger.Info("export traversal complete", slog.Int("entries", len(exported)))

	return exported, nil
}

// getLevel fetches the records of one level's leaves, concurrently up to
// the configured fan-out, preserving the input order.
func (c *Client) getLevel(ctx context.Context, leaves []Path) ([]Record, error) {
	records := make([]Record, len(leaves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fanout)

	for i, leaf := range leaves {
		i, leaf := i, leaf
		g.Go(func() error {
			record, err := c.Get(gctx, leaf)
			if err != nil {
				return err
			}

			records[i] = record

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}
