package domain

import "context"

// NeedRepository holds the need board. Implementations return copies so
// callers can never mutate stored state without going through the methods.
type NeedRepository interface {
	List(ctx context.Context, filter NeedFilter) ([]Need, error)
	Get(ctx context.Context, id string) (Need, error)
	RecordDonation(ctx context.Context, needID string, donation Donation) (Need, error)
	SetSummary(ctx context.Context, needID, summary string) (Need, error)
}

// TranscriptRepository keeps one chat transcript per session. Exchange
// serializes turns on a session so the history a turn is generated from is
// exactly the transcript it is appended to.
type TranscriptRepository interface {
	Transcript(ctx context.Context, sessionID string) (Transcript, error)
	Append(ctx context.Context, sessionID string, msgs ...ChatMessage) (Transcript, error)
	Exchange(ctx context.Context, sessionID string, turn func(history Transcript) []ChatMessage) (Transcript, error)
}

// TokenRepository looks up stored provider credentials.
type TokenRepository interface {
	Token(ctx context.Context, provider string) (string, error)
}

// UsageEvent describes one call to the generation service.
type UsageEvent struct {
	RequestID string
	Operation string
	Backend   string
	Success   bool
	Failure   string
	LatencyMS int
}

// UsageRepository records generation usage for operators.
type UsageRepository interface {
	RecordUsage(ctx context.Context, event UsageEvent) error
}

// UsageSummaryRow aggregates usage events per operation and outcome.
type UsageSummaryRow struct {
	Operation    string  `json:"operation"`
	Outcome      string  `json:"outcome"`
	Calls        int64   `json:"calls"`
	AvgLatencyMS float64 `json:"avgLatencyMs"`
}
