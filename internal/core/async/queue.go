// Package async runs document analysis on a bounded pool of workers.
package async

import (
	"context"
	"time"
)

// Job is one document to analyse.
type Job struct {
	Path        string
	HashHex     string // content hash; repeated hashes are skipped unless Force
	Force       bool
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
