package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapping(t *testing.T) {
	err := fmt.Errorf("acquire: %w", NewAppError("NOT_FOUND", "/tmp/x.pdf", ErrNotFound))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "NOT_FOUND", CodeOf(err))
	assert.Contains(t, err.Error(), "/tmp/x.pdf")
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Nil(t, WrapError(nil, "ignored"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), tt.input)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "json", slog.LevelInfo).Info("document analyzed", "lang", "hi")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "document analyzed", m["msg"])
	assert.Equal(t, "hi", m["lang"])
}

func TestNewLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "text", slog.LevelWarn).Info("hidden")
	assert.Empty(t, buf.String())
}

func TestDocumentID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, uuid.Nil, DocumentIDFromContext(ctx))

	ctx, id := EnsureDocumentID(ctx)
	assert.NotEqual(t, uuid.Nil, id)
	ctx2, id2 := EnsureDocumentID(ctx)
	assert.Equal(t, id, id2)
	assert.Equal(t, id, DocumentIDFromContext(ctx2))
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("name", "  ", Required).
		Field("mode", "Fast", OneOf("fast", "slow")).
		Field("workers", 0, Positive).
		Field("score", 0.5, UnitInterval).
		Field("id", "not-a-uuid", UUID)

	require.True(t, v.HasErrors())
	fields := make([]string, 0, len(v.Errors()))
	for _, e := range v.Errors() {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"name", "workers", "id"}, fields)

	err := ValidateAndReturnError(v)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NoError(t, ValidateAndReturnError(NewValidator()))
}
