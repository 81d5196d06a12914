// Package usage persists one row per generation call in usage_events.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/sqlinline"
)

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

func (s *Store) RecordUsage(ctx context.Context, e domain.UsageEvent) error {
	var failure *string
	if !e.Success && e.Failure != "" {
		failure = &e.Failure
	}
	var requestID *string
	if e.RequestID != "" {
		requestID = &e.RequestID
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QInsertUsageEvent,
		requestID, e.Operation, e.Backend, e.Success, failure, e.LatencyMS); err != nil {
		return fmt.Errorf("insert usage event: %w", err)
	}
	return nil
}

// Summary groups events recorded since the given time by operation and outcome.
func (s *Store) Summary(ctx context.Context, since time.Time) ([]domain.UsageSummaryRow, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QSelectUsageSummary, since)
	if err != nil {
		return nil, fmt.Errorf("query usage summary: %w", err)
	}
	defer rows.Close()

	out := []domain.UsageSummaryRow{}
	for rows.Next() {
		var r domain.UsageSummaryRow
		if err := rows.Scan(&r.Operation, &r.Outcome, &r.Calls, &r.AvgLatencyMS); err != nil {
			return nil, fmt.Errorf("scan usage summary: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage summary: %w", err)
	}
	return out, nil
}

var _ domain.UsageRepository = (*Store)(nil)
