// Package repository keeps analysis run results in Postgres or SQLite.
package repository

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/common"
	"github.com/joseph-ayodele/notice-analyzer/internal/core"
	"github.com/joseph-ayodele/notice-analyzer/internal/entity"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Run is one persisted document analysis.
type Run struct {
	ID         uuid.UUID
	Path       string
	Status     constants.RunStatus
	Language   string
	Confidence float64
	NoticeType *string
	PANNumber  *string
	GSTIN      *string
	Error      string
	ErrorCode  string // AppError code, "" when none
	Duration   time.Duration
	Result     entity.AnalysisResult
	CreatedAt  time.Time
}

// NewRun flattens an analyzer outcome into a storable row.
func NewRun(out core.Outcome) Run {
	id := out.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	r := Run{
		ID:         id,
		Path:       out.Path,
		Status:     out.Status,
		Language:   out.Result.Metadata.OriginalLanguage,
		Confidence: out.Result.Metadata.ConfidenceScore,
		NoticeType: canonicalNoticeType(out.Result.NoticeType),
		PANNumber:  out.Result.PANNumber,
		GSTIN:      out.Result.GSTIN,
		Duration:   out.Duration,
		Result:     out.Result,
		CreatedAt:  time.Now().UTC(),
	}
	if out.Err != nil {
		r.Error = out.Err.Error()
		r.ErrorCode = common.CodeOf(out.Err)
	}
	return r
}

// canonicalNoticeType maps a category label in any case to its canonical
// spelling. Free-text types, such as the sentence the entity strategy
// returns, are kept as they are.
func canonicalNoticeType(s *string) *string {
	if s == nil {
		return nil
	}
	if nt, ok := constants.Canonicalize(*s); ok {
		v := string(nt)
		return &v
	}
	return s
}

// ListFilter narrows List. Zero values mean no restriction.
type ListFilter struct {
	Status constants.RunStatus
	Since  *time.Time
	Limit  int
}

// Store persists runs. Implementations are safe for concurrent use.
type Store interface {
	Save(ctx context.Context, run Run) error
	List(ctx context.Context, f ListFilter) ([]Run, error)
	Close() error
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg common.StoreConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "none":
		return NopStore{}, nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.DSN, logger)
	case "postgres":
		return OpenPostgres(ctx, Config{
			DSN:              cfg.DSN,
			MaxConns:         cfg.MaxConns,
			MinConns:         cfg.MinConns,
			MaxConnLifetime:  cfg.MaxConnLifetime,
			MaxConnIdleTime:  cfg.MaxConnIdleTime,
			DialTimeout:      cfg.DialTimeout,
			StatementTimeout: cfg.StatementTimeout,
		}, logger)
	default:
		return nil, common.NewAppError("STORE_DRIVER", fmt.Sprintf("unknown store driver %q", cfg.Driver), common.ErrConfig)
	}
}

// NopStore drops every run.
type NopStore struct{}

func (NopStore) Save(context.Context, Run) error                { return nil }
func (NopStore) List(context.Context, ListFilter) ([]Run, error) { return nil, nil }
func (NopStore) Close() error                                    { return nil }

const columns = "id, path, status, language, confidence, notice_type, pan_number, gstin, error, error_code, duration_ms, result, created_at"

func insertQuery(ph func(int) string) string {
	marks := make([]string, 13)
	for i := range marks {
		marks[i] = ph(i + 1)
	}
	return "INSERT INTO analysis_runs (" + columns + ") VALUES (" + strings.Join(marks, ", ") + ")"
}

func listQuery(f ListFilter, ph func(int) string, since any) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, "status = "+ph(len(args)))
	}
	if f.Since != nil {
		args = append(args, since)
		where = append(where, "created_at >= "+ph(len(args)))
	}

	var b strings.Builder
	b.WriteString("SELECT " + columns + " FROM analysis_runs")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(f.Limit))
	}
	return b.String(), args
}

func encodeResult(r entity.AnalysisResult) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return b, nil
}

func decodeResult(b []byte) (entity.AnalysisResult, error) {
	var r entity.AnalysisResult
	if err := json.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("decode result: %w", err)
	}
	if r.LegalSections == nil {
		r.LegalSections = []entity.LegalSection{}
	}
	return r, nil
}
