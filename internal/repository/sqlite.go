package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/common"
)

// timestamps are fixed width so text comparison orders them
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the database file at dsn and
// applies the schema.
func OpenSQLite(ctx context.Context, dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dsn == "" {
		return nil, common.NewAppError("STORE_DSN", "sqlite store needs a file path", common.ErrConfig)
	}
	logger.Info("opening sqlite store", "dsn", dsn)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("failed to open sqlite store", "error", err)
		return nil, fmt.Errorf("%w: open sqlite: %v", common.ErrDatabase, err)
	}
	// one writer avoids SQLITE_BUSY under the batch and watch workers
	db.SetMaxOpenConns(1)

	ddl, err := schemaFS.ReadFile("schema/sqlite.sql")
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
		_ = db.Close()
		logger.Error("failed to apply sqlite schema", "error", err)
		return nil, fmt.Errorf("%w: apply schema: %v", common.ErrDatabase, err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, run Run) error {
	res, err := encodeResult(run.Result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, insertQuery(sqlitePlaceholder),
		run.ID.String(), run.Path, string(run.Status), run.Language, run.Confidence,
		run.NoticeType, run.PANNumber, run.GSTIN, run.Error, run.ErrorCode, run.Duration.Milliseconds(),
		string(res), run.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		s.logger.Error("failed to save run", "id", run.ID, "path", run.Path, "error", err)
		return fmt.Errorf("%w: save run: %v", common.ErrDatabase, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, f ListFilter) ([]Run, error) {
	var since any
	if f.Since != nil {
		since = f.Since.UTC().Format(sqliteTimeLayout)
	}
	q, args := listQuery(f, sqlitePlaceholder, since)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list runs: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run                 Run
			id, status, created string
			result              string
			durationMS          int64
		)
		if err := rows.Scan(&id, &run.Path, &status, &run.Language, &run.Confidence,
			&run.NoticeType, &run.PANNumber, &run.GSTIN, &run.Error, &run.ErrorCode, &durationMS,
			&result, &created); err != nil {
			return nil, fmt.Errorf("%w: scan run: %v", common.ErrDatabase, err)
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: run id %q: %v", common.ErrDatabase, id, err)
		}
		if run.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
			return nil, fmt.Errorf("%w: run created_at %q: %v", common.ErrDatabase, created, err)
		}
		if run.Result, err = decodeResult([]byte(result)); err != nil {
			return nil, err
		}
		run.NoticeType = canonicalNoticeType(run.NoticeType)
		run.Status = constants.RunStatus(status)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, run)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.logger.Info("closing sqlite store")
	return s.db.Close()
}

func sqlitePlaceholder(int) string { return "?" }
