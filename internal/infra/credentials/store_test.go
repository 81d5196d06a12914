package credentials

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewStore(infra.NewSQLRunner(mock, infra.NewLogger("test"))), mock
}

var selectToken = regexp.QuoteMeta("from integration_tokens")

func TestToken(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(selectToken).
		WithArgs(ProviderGemini).
		WillReturnRows(pgxmock.NewRows([]string{"token"}).AddRow(" abc123 "))

	key, err := store.Token(context.Background(), ProviderGemini)
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if key != "abc123" {
		t.Fatalf("expected abc123, got %q", key)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestToken_NoRows(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(selectToken).
		WithArgs(ProviderOpenAI).
		WillReturnError(pgx.ErrNoRows)

	key, err := store.Token(context.Background(), ProviderOpenAI)
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
}

func TestToken_Error(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(selectToken).WithArgs(ProviderGemini).WillReturnError(boom)

	if _, err := store.Token(context.Background(), ProviderGemini); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}

func TestSetToken(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("insert into integration_tokens")).
		WithArgs(ProviderOpenAI, "secret", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := store.SetToken(context.Background(), " OpenAI ", " secret "); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSetTokenRejectsBadInput(t *testing.T) {
	store, mock := newMockStore(t)
	if err := store.SetToken(context.Background(), ProviderGemini, " "); err == nil {
		t.Fatal("expected error for empty key")
	}
	if err := store.SetToken(context.Background(), "qwen", "k"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
