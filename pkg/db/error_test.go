package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), want: ErrorReasonDeadlineExceeded},
		{name: "canceled", err: context.Canceled, want: ErrorReasonCanceled},
		{name: "not_found", err: gorm.ErrRecordNotFound, want: ErrorReasonNotFound},
		{name: "pg_connection", err: &pgconn.PgError{Code: "08006"}, want: ErrorReasonConnection},
		{name: "pg_query_canceled", err: &pgconn.PgError{Code: "57014"}, want: ErrorReasonQueryCanceled},
		{name: "pg_undefined_table", err: &pgconn.PgError{Code: "42P01"}, want: ErrorReasonUndefinedObject},
		{name: "sqlite_missing_table", err: errors.New("SQL logic error: no such table: invoices (1)"), want: ErrorReasonUndefinedObject},
		{name: "unknown", err: errors.New("boom"), want: ErrorReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyError(tc.err); got != tc.want {
				t.Fatalf("expected reason %q, got %q", tc.want, got)
			}
		})
	}
}
