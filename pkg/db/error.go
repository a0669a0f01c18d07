package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	ErrorReasonDeadlineExceeded = "deadline_exceeded"
	ErrorReasonCanceled         = "canceled"
	ErrorReasonNotFound         = "not_found"
	ErrorReasonConnection       = "connection"
	ErrorReasonQueryCanceled    = "query_canceled"
	ErrorReasonUndefinedObject  = "undefined_object"
	ErrorReasonUnknown          = "unknown"
)

// ClassifyError reduces a store error to a low-cardinality reason label.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorReasonDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return ErrorReasonCanceled
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrorReasonNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"):
			return ErrorReasonConnection
		case pgErr.Code == "57014":
			return ErrorReasonQueryCanceled
		case pgErr.Code == "42P01", pgErr.Code == "42703":
			return ErrorReasonUndefinedObject
		}
		return ErrorReasonUnknown
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return ErrorReasonConnection
	}

	// SQLite and MySQL surface these only as text.
	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "no such table"), strings.Contains(message, "doesn't exist"):
		return ErrorReasonUndefinedObject
	case strings.Contains(message, "connection refused"), strings.Contains(message, "database is closed"):
		return ErrorReasonConnection
	}

	return ErrorReasonUnknown
}
