// Package nlp models the output of an external named-entity annotator and
// manages its lifecycle.
package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Label classifies an entity span.
type Label string

const (
	Person       Label = "PERSON"
	Organization Label = "ORGANIZATION"
	Date         Label = "DATE"
	Location     Label = "LOCATION"
	Money        Label = "MONEY"
	Law          Label = "LAW"
	Other        Label = "OTHER"
)

// labelAliases accepts the short tags common annotators emit.
var labelAliases = map[string]Label{
	"PERSON":       Person,
	"PER":          Person,
	"ORGANIZATION": Organization,
	"ORG":          Organization,
	"DATE":         Date,
	"LOCATION":     Location,
	"LOC":          Location,
	"GPE":          Location,
	"MONEY":        Money,
	"LAW":          Law,
}

// ParseLabel maps an annotator tag onto the fixed label set; unknown tags become Other.
func ParseLabel(s string) Label {
	if l, ok := labelAliases[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return l
	}
	return Other
}

func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = ParseLabel(s)
	return nil
}

// Span is a sentence with byte offsets into the annotated text.
type Span struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Entity is a labelled span. text[Start:End] == Text when offsets are known.
type Entity struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (e Entity) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", e.Label, e.Text, e.Start, e.End)
}

// Annotation is the annotator's view of one document.
type Annotation struct {
	Sentences []Span   `json:"sentences"`
	Entities  []Entity `json:"entities"`
}

// SentenceOf returns the sentence that contains e. Offsets are preferred;
// when they are missing or inconsistent the first sentence whose text
// contains the entity text is used.
func (a Annotation) SentenceOf(e Entity) (Span, bool) {
	if e.End > e.Start {
		for _, s := range a.Sentences {
			if s.End > s.Start && e.Start >= s.Start && e.End <= s.End {
				return s, true
			}
		}
	}
	if e.Text == "" {
		return Span{}, false
	}
	for _, s := range a.Sentences {
		if strings.Contains(s.Text, e.Text) {
			return s, true
		}
	}
	return Span{}, false
}

// ByLabel returns entities with label l in document order.
func (a Annotation) ByLabel(l Label) []Entity {
	var out []Entity
	for _, e := range a.Entities {
		if e.Label == l {
			out = append(out, e)
		}
	}
	return out
}

// Annotator produces sentence and entity spans for a text.
type Annotator interface {
	Annotate(ctx context.Context, text string) (Annotation, error)
}
