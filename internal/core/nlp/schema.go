package nlp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const annotationSchemaURL = "annotation.schema.json"

const annotationSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["sentences", "entities"],
  "properties": {
    "sentences": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["text"],
        "properties": {
          "text":  {"type": "string"},
          "start": {"type": "integer", "minimum": 0},
          "end":   {"type": "integer", "minimum": 0}
        }
      }
    },
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["text", "label"],
        "properties": {
          "text":  {"type": "string"},
          "label": {"type": "string", "minLength": 1},
          "start": {"type": "integer", "minimum": 0},
          "end":   {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(annotationSchemaURL, bytes.NewReader([]byte(annotationSchema))); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(annotationSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// DecodeAnnotation validates raw annotator output against the annotation
// schema and decodes it.
func DecodeAnnotation(data []byte) (Annotation, error) {
	schema, err := compiledSchema()
	if err != nil {
		return Annotation{}, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Annotation{}, fmt.Errorf("unmarshal annotation: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return Annotation{}, fmt.Errorf("annotation does not match schema: %w", err)
	}
	var a Annotation
	if err := json.Unmarshal(data, &a); err != nil {
		return Annotation{}, fmt.Errorf("decode annotation: %w", err)
	}
	return a, nil
}
