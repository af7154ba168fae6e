package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverOptions controls a directory walk.
type DiscoverOptions struct {
	SkipHidden bool
	// Dedupe drops files whose content hash was already seen in this walk.
	Dedupe bool
}

// Discover walks root and returns every supported document under it,
// sorted by path. Unreadable entries are reported, not fatal.
func Discover(ctx context.Context, root string, opts DiscoverOptions) ([]Document, []WalkError, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, nil, DirStats{}, errors.New("root path is required")
	}

	var (
		docs  []Document
		errs  []WalkError
		stats DirStats
		seen  = map[string]struct{}{}
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			errs = append(errs, WalkError{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if opts.SkipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			stats.Skipped++
			return nil
		}

		doc, err := Describe(path)
		if err != nil {
			errs = append(errs, WalkError{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		if opts.Dedupe {
			if _, dup := seen[doc.HashHex]; dup {
				stats.Skipped++
				return nil
			}
			seen[doc.HashHex] = struct{}{}
		}
		stats.Matched++
		docs = append(docs, doc)
		return nil
	})
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	if err != nil {
		return docs, errs, stats, fmt.Errorf("walk: %w", err)
	}
	return docs, errs, stats, nil
}

// Paths returns the document paths in order.
func Paths(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Path
	}
	return out
}
