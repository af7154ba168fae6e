package nlp

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{"PERSON", Person},
		{"per", Person},
		{"ORG", Organization},
		{"Organization", Organization},
		{"GPE", Location},
		{"DATE", Date},
		{"CARDINAL", Other},
		{"", Other},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLabel(tt.in))
		})
	}
}

func TestDecodeAnnotation(t *testing.T) {
	raw := `{
	  "sentences": [{"text": "Ramesh Kumar is hereby notified.", "start": 0, "end": 32}],
	  "entities": [{"text": "Ramesh Kumar", "label": "PER", "start": 0, "end": 12}]
	}`
	a, err := DecodeAnnotation([]byte(raw))
	require.NoError(t, err)
	require.Len(t, a.Entities, 1)
	assert.Equal(t, Person, a.Entities[0].Label)
	assert.Equal(t, 12, a.Entities[0].End)
	require.Len(t, a.Sentences, 1)
}

func TestDecodeAnnotationRejectsBadPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `nope`},
		{"missing entities", `{"sentences": []}`},
		{"entity without label", `{"sentences": [], "entities": [{"text": "x"}]}`},
		{"negative offset", `{"sentences": [], "entities": [{"text": "x", "label": "ORG", "start": -1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAnnotation([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestSentenceOf(t *testing.T) {
	text := "Notice issued. Signed by Assessing Officer Suresh Rao. Pay now."
	a := Annotation{
		Sentences: []Span{
			{Text: "Notice issued.", Start: 0, End: 14},
			{Text: "Signed by Assessing Officer Suresh Rao.", Start: 15, End: 54},
			{Text: "Pay now.", Start: 55, End: 63},
		},
	}
	start := strings.Index(text, "Suresh Rao")
	s, ok := a.SentenceOf(Entity{Text: "Suresh Rao", Label: Person, Start: start, End: start + len("Suresh Rao")})
	require.True(t, ok)
	assert.Equal(t, "Signed by Assessing Officer Suresh Rao.", s.Text)

	// no offsets: falls back to text containment
	s, ok = a.SentenceOf(Entity{Text: "Pay", Label: Other})
	require.True(t, ok)
	assert.Equal(t, "Pay now.", s.Text)

	_, ok = a.SentenceOf(Entity{Text: "absent"})
	assert.False(t, ok)
}

func TestByLabel(t *testing.T) {
	a := Annotation{Entities: []Entity{
		{Text: "A", Label: Person},
		{Text: "B", Label: Organization},
		{Text: "C", Label: Person},
	}}
	got := a.ByLabel(Person)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Text)
	assert.Equal(t, "C", got[1].Text)
}

type closingAnnotator struct {
	closed bool
}

func (c *closingAnnotator) Annotate(context.Context, string) (Annotation, error) {
	return Annotation{Entities: []Entity{{Text: "x", Label: Person}}}, nil
}

func (c *closingAnnotator) Close() error {
	c.closed = true
	return nil
}

var _ io.Closer = (*closingAnnotator)(nil)

func TestResourceLazyInitAndClose(t *testing.T) {
	calls := 0
	ann := &closingAnnotator{}
	r := NewResource(func(context.Context) (Annotator, error) {
		calls++
		return ann, nil
	}, nil)
	assert.Equal(t, 0, calls)

	ctx := context.Background()
	a1, err := r.Get(ctx)
	require.NoError(t, err)
	a2, err := r.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, a1, a2)
	assert.Equal(t, 1, calls)

	got, err := r.Annotate(ctx, "text")
	require.NoError(t, err)
	assert.Len(t, got.Entities, 1)

	require.NoError(t, r.Close())
	assert.True(t, ann.closed)
	require.NoError(t, r.Close())

	_, err = r.Get(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestResourceRetriesFailedInit(t *testing.T) {
	calls := 0
	r := NewResource(func(context.Context) (Annotator, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("model missing")
		}
		return &closingAnnotator{}, nil
	}, nil)

	_, err := r.Get(context.Background())
	require.Error(t, err)
	_, err = r.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

type fakeRunner struct {
	stdout []byte
	stderr []byte
	err    error
	stdin  string
	name   string
}

func (f *fakeRunner) Run(_ context.Context, stdin io.Reader, name string, _ ...string) ([]byte, []byte, error) {
	f.name = name
	if stdin != nil {
		b, _ := io.ReadAll(stdin)
		f.stdin = string(b)
	}
	return f.stdout, f.stderr, f.err
}

func TestCommandAnnotator(t *testing.T) {
	fr := &fakeRunner{stdout: []byte(`{"sentences":[],"entities":[{"text":"Income Tax Department","label":"ORG","start":0,"end":21}]}`)}
	c := NewCommandAnnotator(CommandConfig{Command: []string{"ner", "--json"}}, fr, nil)

	a, err := c.Annotate(context.Background(), "Income Tax Department")
	require.NoError(t, err)
	assert.Equal(t, "ner", fr.name)
	assert.Equal(t, "Income Tax Department", fr.stdin)
	require.Len(t, a.Entities, 1)
	assert.Equal(t, Organization, a.Entities[0].Label)
}

func TestCommandAnnotatorErrors(t *testing.T) {
	_, err := NewCommandAnnotator(CommandConfig{}, &fakeRunner{}, nil).Annotate(context.Background(), "x")
	assert.Error(t, err)

	fr := &fakeRunner{err: errors.New("exit status 1"), stderr: []byte("model not loaded")}
	_, err = NewCommandAnnotator(CommandConfig{Command: []string{"ner"}}, fr, nil).Annotate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")

	fr = &fakeRunner{stdout: []byte(`[]`)}
	_, err = NewCommandAnnotator(CommandConfig{Command: []string{"ner"}}, fr, nil).Annotate(context.Background(), "x")
	assert.Error(t, err)
}
