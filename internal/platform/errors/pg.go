package errors

// Postgres classification: SQLSTATE to ErrorCode, plus what is worth retrying

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the merge paths dispatch on
const (
	sqlstateUniqueViolation     = "23505"
	sqlstateForeignKeyViolation = "23503"
	sqlstateNotNullViolation    = "23502"
	sqlstateCheckViolation      = "23514"
	sqlstateInvalidText         = "22P02"

	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateLockNotAvailable     = "55P03"
	sqlstateCannotConnectNow     = "57P03" // startup in progress
)

// contentionState reports the SQLSTATEs where the statement lost a race it
// can win on a rerun
func contentionState(code string) bool {
	switch code {
	case sqlstateSerializationFailure, sqlstateDeadlockDetected, sqlstateLockNotAvailable:
		return true
	}
	return false
}

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pge *pgconn.PgError
	if stderrs.As(Root(err), &pge) {
		return pge, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with the given SQLSTATE
func IsSQLState(err error, code string) bool {
	pge, ok := ExtractPgError(err)
	return ok && pge.Code == code
}

// IsDuplicateKey reports whether err is a unique constraint violation
func IsDuplicateKey(err error) bool { return IsSQLState(err, sqlstateUniqueViolation) }

// IsDeadlock reports whether err is a deadlock detected error
func IsDeadlock(err error) bool { return IsSQLState(err, sqlstateDeadlockDetected) }

// DBErrorCode maps a Postgres error to an ErrorCode.
// !ok means err was not a PgError and the caller should fall back to generic
// handling
func DBErrorCode(err error) (ErrorCode, bool) {
	var pge *pgconn.PgError
	if !stderrs.As(err, &pge) {
		return ErrorCodeUnknown, false
	}

	// contention stays ErrorCodeDB; Retryable is the signal that a rerun
	// may clear it
	if contentionState(pge.Code) {
		return ErrorCodeDB, true
	}

	switch pge.Code {
	case sqlstateUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case sqlstateForeignKeyViolation, sqlstateInvalidText:
		return ErrorCodeInvalidArgument, true
	case sqlstateNotNullViolation, sqlstateCheckViolation:
		return ErrorCodeValidation, true
	case sqlstateCannotConnectNow:
		return ErrorCodeUnavailable, true
	default:
		return ErrorCodeDB, true
	}
}

// FromPostgres wraps a pg error with its mapped ErrorCode; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is the formatted variant of FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// retryTexts covers the failures pgx surfaces as plain text rather than a
// PgError, most notably the rollback report on commit
var retryTexts = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"serialization failure",
	"canceling statement due to statement timeout",
	"canceling statement due to lock timeout",
}

// IsRetryable reports whether a database error is a transient condition a
// rerun of the same batch can clear
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// local cancellations are the caller's decision, not a retry signal
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	cause := Root(err)

	var pge *pgconn.PgError
	if stderrs.As(cause, &pge) {
		return contentionState(pge.Code)
	}

	text := strings.ToLower(cause.Error())
	for _, frag := range retryTexts {
		if strings.Contains(text, frag) {
			return true
		}
	}
	return false
}
