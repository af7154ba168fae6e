package translate

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upper struct {
	calls []string
	fail  map[int]bool
	delay map[int]time.Duration
}

func (u *upper) Translate(ctx context.Context, chunk, _ string) (string, error) {
	i := len(u.calls)
	u.calls = append(u.calls, chunk)
	if d := u.delay[i]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if u.fail[i] {
		return "", errors.New("quota exceeded")
	}
	return strings.ToUpper(chunk), nil
}

func TestSplit(t *testing.T) {
	s := strings.Repeat("a", 12001)
	chunks := Split(s, 5000)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 5000)
	assert.Len(t, chunks[1], 5000)
	assert.Len(t, chunks[2], 2001)
	assert.Equal(t, s, strings.Join(chunks, ""))
}

func TestSplitIsRuneSafe(t *testing.T) {
	s := strings.Repeat("తెలు", 5)
	chunks := Split(s, 3)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 3)
	}
	assert.Equal(t, s, strings.Join(chunks, ""))
}

func TestChunkedSkipsEnglish(t *testing.T) {
	u := &upper{}
	c := NewChunked(u, Config{}, nil)
	assert.Equal(t, "hello", c.Translate(context.Background(), "hello", "en"))
	assert.Empty(t, u.calls)
}

func TestChunkedJoinsWithSpace(t *testing.T) {
	u := &upper{}
	c := NewChunked(u, Config{ChunkSize: 4}, nil)
	got := c.Translate(context.Background(), "abcdefghij", "hi")
	assert.Equal(t, "ABCD EFGH IJ", got)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, u.calls)
}

func TestChunkedFallsBackPerChunk(t *testing.T) {
	u := &upper{fail: map[int]bool{1: true}}
	c := NewChunked(u, Config{ChunkSize: 4}, nil)
	got := c.Translate(context.Background(), "abcdefghij", "te")
	assert.Equal(t, "ABCD efgh IJ", got)
}

func TestChunkedTimeoutKeepsOriginal(t *testing.T) {
	u := &upper{delay: map[int]time.Duration{0: time.Second}}
	c := NewChunked(u, Config{ChunkSize: 100, Timeout: 20 * time.Millisecond}, nil)
	got := c.Translate(context.Background(), "abc", "hi")
	assert.Equal(t, "abc", got)
}

type panicky struct{}

func (panicky) Translate(context.Context, string, string) (string, error) { panic("boom") }

func TestChunkedRecoversPanic(t *testing.T) {
	c := NewChunked(panicky{}, Config{}, nil)
	assert.Equal(t, "abc", c.Translate(context.Background(), "abc", "hi"))
}

type fakeRunner struct {
	args  []string
	stdin string
	out   string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, stdin io.Reader, name string, args ...string) ([]byte, []byte, error) {
	f.args = append([]string{name}, args...)
	b, _ := io.ReadAll(stdin)
	f.stdin = string(b)
	return []byte(f.out), []byte("bad"), f.err
}

func TestCommandTranslator(t *testing.T) {
	fr := &fakeRunner{out: "Notice of demand\n"}
	c := NewCommand([]string{"trans", "-s", "{src}", "-t", "{dst}"}, fr, nil)
	got, err := c.Translate(context.Background(), "मांग", "hi")
	require.NoError(t, err)
	assert.Equal(t, "Notice of demand", got)
	assert.Equal(t, []string{"trans", "-s", "hi", "-t", "en"}, fr.args)
	assert.Equal(t, "मांग", fr.stdin)
}

func TestCommandTranslatorErrors(t *testing.T) {
	_, err := NewCommand(nil, &fakeRunner{}, nil).Translate(context.Background(), "x", "hi")
	assert.Error(t, err)

	_, err = NewCommand([]string{"trans"}, &fakeRunner{err: errors.New("exit 2")}, nil).Translate(context.Background(), "x", "hi")
	assert.Error(t, err)

	_, err = NewCommand([]string{"trans"}, &fakeRunner{out: "   "}, nil).Translate(context.Background(), "x", "hi")
	assert.Error(t, err)
}
