package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/common"
)

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// PostgresStore keeps runs in the analysis_runs table through a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates a pgx pool, checks it answers and applies the schema.
func OpenPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database dsn", "error", err)
		return nil, common.NewAppError("STORE_DSN", "invalid postgres dsn", fmt.Errorf("%w: %v", common.ErrConfig, err))
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "notice-analyzer"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, fmt.Errorf("%w: connect: %v", common.ErrDatabase, err)
	}
	s := &PostgresStore{pool: pool, logger: logger}

	if err := s.HealthCheck(dialCtx, cfg.DialTimeout); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %v", common.ErrDatabase, err)
	}
	ddl, err := schemaFS.ReadFile("schema/postgres.sql")
	if err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, string(ddl)); err != nil {
		pool.Close()
		logger.Error("failed to apply schema", "error", err)
		return nil, fmt.Errorf("%w: apply schema: %v", common.ErrDatabase, err)
	}

	logger.Info("successfully connected to database")
	return s, nil
}

// HealthCheck pings the pool to catch DSN issues early.
func (s *PostgresStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	s.logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Save(ctx context.Context, run Run) error {
	res, err := encodeResult(run.Result)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, insertQuery(pgPlaceholder),
		run.ID.String(), run.Path, string(run.Status), run.Language, run.Confidence,
		run.NoticeType, run.PANNumber, run.GSTIN, run.Error, run.ErrorCode, run.Duration.Milliseconds(),
		res, run.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to save run", "id", run.ID, "path", run.Path, "error", err)
		return fmt.Errorf("%w: save run: %v", common.ErrDatabase, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, f ListFilter) ([]Run, error) {
	var since any
	if f.Since != nil {
		since = *f.Since
	}
	q, args := listQuery(f, pgPlaceholder, since)
	// uuid is read back as text
	q = "SELECT id::text" + q[len("SELECT id"):]
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list runs: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run        Run
			id, status string
			result     []byte
			durationMS int64
		)
		if err := rows.Scan(&id, &run.Path, &status, &run.Language, &run.Confidence,
			&run.NoticeType, &run.PANNumber, &run.GSTIN, &run.Error, &run.ErrorCode, &durationMS,
			&result, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan run: %v", common.ErrDatabase, err)
		}
		if err := run.ID.UnmarshalText([]byte(id)); err != nil {
			return nil, fmt.Errorf("%w: run id %q: %v", common.ErrDatabase, id, err)
		}
		if run.Result, err = decodeResult(result); err != nil {
			return nil, err
		}
		run.NoticeType = canonicalNoticeType(run.NoticeType)
		run.Status = constants.RunStatus(status)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, run)
	}
	return out, rows.Err()
}

// Close closes the pool gracefully.
func (s *PostgresStore) Close() error {
	s.logger.Info("closing database connections")
	s.pool.Close()
	s.logger.Info("database connections closed")
	return nil
}

func pgPlaceholder(i int) string { return "$" + strconv.Itoa(i) }
