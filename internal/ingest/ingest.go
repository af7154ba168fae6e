// Package ingest finds notice documents on disk, either by walking a
// directory tree once or by watching inbox directories.
package ingest

import "time"

// Document is a candidate file for analysis.
type Document struct {
	Path    string
	Ext     string // lowercased, no dot
	Format  string // constants.PDF | constants.IMAGE | constants.TXT
	Size    int64
	HashHex string // sha256 of the content
	ModTime time.Time
}

// DirStats summarizes a directory walk.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
	Failed  uint32
}

// WalkError records a path the walk could not read.
type WalkError struct {
	Path string
	Err  string
}
