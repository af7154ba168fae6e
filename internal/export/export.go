// Package export renders analysis results as XLSX, JSON or YAML.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/entity"
)

// Row is one exported document.
type Row struct {
	Path        string                `json:"path" yaml:"path"`
	Status      constants.RunStatus   `json:"status" yaml:"status"`
	ProcessedAt time.Time             `json:"processed_at" yaml:"processed_at"`
	Result      entity.AnalysisResult `json:"result" yaml:"result"`
}

// Format names accepted by Write.
const (
	FormatXLSX = "xlsx"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write dispatches on format.
func Write(w io.Writer, format string, rows []Row) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatYAML, "yml":
		return WriteYAML(w, rows)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("json write: %w", err)
	}
	return nil
}

// WriteYAML writes rows as a YAML sequence.
func WriteYAML(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("yaml write: %w", err)
	}
	return enc.Close()
}
