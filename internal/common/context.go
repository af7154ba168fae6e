package common

import (
	"context"

	"github.com/google/uuid"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyDocumentID contextKey = "document_id"
)

// WithDocumentID tags ctx with the ID of the document being processed.
func WithDocumentID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ContextKeyDocumentID, id)
}

// DocumentIDFromContext returns the document ID, or uuid.Nil.
func DocumentIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(ContextKeyDocumentID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// EnsureDocumentID returns ctx tagged with a document ID, minting one if absent.
func EnsureDocumentID(ctx context.Context) (context.Context, uuid.UUID) {
	if id := DocumentIDFromContext(ctx); id != uuid.Nil {
		return ctx, id
	}
	id := uuid.New()
	return WithDocumentID(ctx, id), id
}
