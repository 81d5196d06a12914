package usage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(infra.NewSQLRunner(mock, infra.NewLogger("test"))), mock
}

func TestRecordUsage(t *testing.T) {
	store, mock := newMockStore(t)
	failure := "malformed_json"
	mock.ExpectExec(regexp.QuoteMeta("insert into usage_events")).
		WithArgs(pgxmock.AnyArg(), "plan", "gemini", false, &failure, 812).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.RecordUsage(context.Background(), domain.UsageEvent{
		Operation: "plan",
		Backend:   "gemini",
		Failure:   failure,
		LatencyMS: 812,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordUsageWrapsError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("relation does not exist")
	mock.ExpectExec(regexp.QuoteMeta("insert into usage_events")).
		WithArgs(pgxmock.AnyArg(), "chat", pgxmock.AnyArg(), true, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(boom)

	err := store.RecordUsage(context.Background(), domain.UsageEvent{Operation: "chat", Success: true})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "insert usage event")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummary(t *testing.T) {
	store, mock := newMockStore(t)
	since := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("from usage_events")).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"operation", "outcome", "calls", "avg_latency_ms"}).
			AddRow("chat", "ok", int64(14), 640.5).
			AddRow("plan", "schema_mismatch", int64(2), 1210.0))

	rows, err := store.Summary(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.UsageSummaryRow{Operation: "chat", Outcome: "ok", Calls: 14, AvgLatencyMS: 640.5}, rows[0])
	assert.Equal(t, "schema_mismatch", rows[1].Outcome)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryEmpty(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("from usage_events")).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"operation", "outcome", "calls", "avg_latency_ms"}))

	rows, err := store.Summary(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}
