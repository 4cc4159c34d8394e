package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across services.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
	ErrSchemaDrift     = errors.New("schema drift")
	ErrNotEligible     = errors.New("not eligible")
	ErrWindowExpired   = errors.New("window expired")
)

// ErrorKind is the tagged category of a failure returned by the database boundary.
type ErrorKind string

const (
	KindInvalidInput     ErrorKind = "invalid_input"
	KindNotAuthenticated ErrorKind = "not_authenticated"
	KindNotAuthorized    ErrorKind = "not_authorized"
	KindNotFound         ErrorKind = "not_found"
	KindConflict         ErrorKind = "conflict"
	KindRateLimited      ErrorKind = "rate_limited"
	KindSchemaDrift      ErrorKind = "schema_drift"
	KindInternal         ErrorKind = "internal"
)

// ParseErrorKind returns the kind named by s, or false when s is not a known kind.
func ParseErrorKind(s string) (ErrorKind, bool) {
	switch k := ErrorKind(s); k {
	case KindInvalidInput, KindNotAuthenticated, KindNotAuthorized, KindNotFound,
		KindConflict, KindRateLimited, KindSchemaDrift, KindInternal:
		return k, true
	}
	return "", false
}

// RPCError is the classified error of a remote procedure call or query.
// Detail carries the procedure's own message and is safe to show unless Kind is internal.
type RPCError struct {
	Kind      ErrorKind
	Procedure string
	Detail    string
	Err       error
}

func (e *RPCError) Error() string {
	if e.Procedure != "" {
		return fmt.Sprintf("%s: %s: %s", e.Procedure, e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *RPCError) Unwrap() error { return e.Err }

// Is lets errors.Is match RPC errors against the package sentinels.
func (e *RPCError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrUnauthenticated:
		return e.Kind == KindNotAuthenticated
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrForbidden:
		return e.Kind == KindNotAuthorized
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrSchemaDrift:
		return e.Kind == KindSchemaDrift
	}
	return false
}

// KindOf reports the ErrorKind of err. Sentinel errors map to their kind;
// anything unclassified is internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthenticated):
		return KindNotAuthenticated
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNotEligible), errors.Is(err, ErrWindowExpired):
		return KindNotAuthorized
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrSchemaDrift):
		return KindSchemaDrift
	}
	return KindInternal
}

// IsDuplicate reports whether err is a unique violation raised by the database,
// as opposed to a conflict a procedure signals with its own message.
func IsDuplicate(err error) bool {
	var state interface{ SQLState() string }
	if errors.As(err, &state) && state.SQLState() == "23505" {
		return true
	}
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Kind == KindConflict &&
		strings.Contains(strings.ToLower(rpcErr.Detail), "duplicate key")
}
