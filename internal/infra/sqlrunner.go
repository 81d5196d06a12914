package infra

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SQLExecutor is the query surface shared by *pgxpool.Pool, pgxmock and SQLRunner.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// ErrMissingMarker is returned for statements without a "--sql <uuid>" first line.
var ErrMissingMarker = errors.New("sql marker missing or invalid")

var markerRegexp = regexp.MustCompile(`^--sql ([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)

// SQLRunner requires every statement to open with a "--sql <uuid>" marker,
// strips it before execution and logs the marker, the request id and the
// elapsed time, so a slow or failing statement can be traced back to the
// HTTP request that issued it.
type SQLRunner struct {
	Pool   SQLExecutor
	Logger zerolog.Logger
	// RequestID extracts the request id from ctx; nil leaves it out.
	RequestID func(context.Context) string
}

func NewSQLRunner(pool SQLExecutor, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{Pool: pool, Logger: logger}
}

// IsNoRows reports whether err means a query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	st, err := r.begin(ctx, "exec", query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	tag, err := r.Pool.Exec(ctx, st.sql, args...)
	if err != nil {
		st.failed(err)
		return tag, err
	}
	st.log.Debug().Int64("rows", tag.RowsAffected()).Dur("elapsed", time.Since(st.start)).Msg("sql done")
	return tag, nil
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	st, err := r.begin(ctx, "query_row", query)
	if err != nil {
		return errorRow{err: err}
	}
	return loggingRow{row: r.Pool.QueryRow(ctx, st.sql, args...), st: st}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	st, err := r.begin(ctx, "query", query)
	if err != nil {
		return nil, err
	}
	rows, err := r.Pool.Query(ctx, st.sql, args...)
	if err != nil {
		st.failed(err)
		return nil, err
	}
	return &loggingRows{Rows: rows, st: st}, nil
}

// statement is one marked query on its way through the runner.
type statement struct {
	sql   string
	log   zerolog.Logger
	start time.Time
}

func (s statement) failed(err error) {
	s.log.Error().Err(err).Dur("elapsed", time.Since(s.start)).Msg("sql failed")
}

func (r *SQLRunner) begin(ctx context.Context, op, query string) (statement, error) {
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		r.Logger.Error().Str("op", op).Err(err).Msg("sql rejected")
		return statement{}, err
	}
	lc := r.Logger.With().Str("sql", marker).Str("op", op)
	if r.RequestID != nil {
		if rid := r.RequestID(ctx); rid != "" {
			lc = lc.Str("request_id", rid)
		}
	}
	st := statement{sql: trimmed, log: lc.Logger(), start: time.Now()}
	st.log.Debug().Msg("sql start")
	return st, nil
}

type loggingRow struct {
	row pgx.Row
	st  statement
}

func (l loggingRow) Scan(dest ...any) error {
	err := l.row.Scan(dest...)
	switch {
	case err == nil:
		l.st.log.Debug().Dur("elapsed", time.Since(l.st.start)).Msg("sql done")
	case IsNoRows(err):
		l.st.log.Debug().Dur("elapsed", time.Since(l.st.start)).Msg("sql no rows")
	default:
		l.st.failed(err)
	}
	return err
}

type loggingRows struct {
	pgx.Rows
	st   statement
	read int
}

func (l *loggingRows) Next() bool {
	ok := l.Rows.Next()
	if ok {
		l.read++
	}
	return ok
}

func (l *loggingRows) Close() {
	l.Rows.Close()
	if err := l.Rows.Err(); err != nil {
		l.st.failed(err)
		return
	}
	l.st.log.Debug().Int("rows", l.read).Dur("elapsed", time.Since(l.st.start)).Msg("sql done")
}

type errorRow struct {
	err error
}

func (e errorRow) Scan(...any) error {
	return e.err
}

func extractMarker(query string) (string, string, error) {
	first, rest, _ := strings.Cut(strings.TrimSpace(query), "\n")
	m := markerRegexp.FindStringSubmatch(strings.TrimSpace(first))
	if m == nil {
		return "", "", ErrMissingMarker
	}
	return m[1], strings.TrimSpace(rest), nil
}

var _ SQLExecutor = (*SQLRunner)(nil)
