package postgres

import (
	"errors"
	"strings"

	"github.com/lib/pq"

	"dancehub/internal/domain"
)

// SQLSTATE codes that mean the live schema is older or newer than the query.
var driftCodes = map[string]bool{
	"42703":    true, // undefined_column
	"42P01":    true, // undefined_table
	"42883":    true, // undefined_function
	"PGRST204": true,
	"PGRST205": true,
}

var driftMarkers = []string{
	"column",
	"schema cache",
	"does not exist",
	"could not find the table",
	"relation",
}

// isDrift reports whether err is a missing column, table or function.
func isDrift(err error) bool {
	if err == nil {
		return false
	}
	var perr *pq.Error
	if errors.As(err, &perr) {
		if driftCodes[string(perr.Code)] {
			return true
		}
		// Raised exceptions and constraint errors mention columns too.
		if perr.Code == "P0001" || strings.HasPrefix(string(perr.Code), "23") {
			return false
		}
	}
	msg := strings.ToLower(err.Error())
	for _, m := range driftMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// isDuplicate reports whether err is a unique violation.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var perr *pq.Error
	if errors.As(err, &perr) && perr.Code == "23505" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key")
}

// classifyError maps a database error to a *domain.RPCError. Nil stays nil.
func classifyError(proc string, err error) error {
	if err == nil {
		return nil
	}
	var already *domain.RPCError
	if errors.As(err, &already) {
		return err
	}
	kind, detail := classify(err)
	return &domain.RPCError{Kind: kind, Procedure: proc, Detail: detail, Err: err}
}

func classify(err error) (domain.ErrorKind, string) {
	var perr *pq.Error
	if !errors.As(err, &perr) {
		if isDrift(err) {
			return domain.KindSchemaDrift, err.Error()
		}
		return domain.KindInternal, err.Error()
	}
	detail := perr.Message
	if hint, ok := strings.CutPrefix(perr.Hint, "kind="); ok {
		if kind, ok := domain.ParseErrorKind(strings.TrimSpace(hint)); ok {
			return kind, detail
		}
	}
	switch code := string(perr.Code); {
	case code == "23505":
		return domain.KindConflict, detail
	case code == "42501":
		return domain.KindNotAuthorized, detail
	case code == "P0002":
		return domain.KindNotFound, detail
	case code == "22P02", code == "23502", code == "23514", code == "22023":
		return domain.KindInvalidInput, detail
	case code == "28000", code == "28P01":
		return domain.KindNotAuthenticated, detail
	case driftCodes[code]:
		return domain.KindSchemaDrift, detail
	case code == "P0001":
		return kindFromMessage(perr.Message), detail
	}
	if isDrift(err) {
		return domain.KindSchemaDrift, detail
	}
	return domain.KindInternal, detail
}

// kindFromMessage reads the error tokens legacy procedures raise, e.g. "event_not_found".
func kindFromMessage(msg string) domain.ErrorKind {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "not_authenticated"):
		return domain.KindNotAuthenticated
	case strings.Contains(m, "not_authorized"), strings.Contains(m, "forbidden"):
		return domain.KindNotAuthorized
	case strings.Contains(m, "_not_found"), strings.Contains(m, "not found"):
		return domain.KindNotFound
	case strings.Contains(m, "duplicate key"), strings.Contains(m, "already_"):
		return domain.KindConflict
	case strings.Contains(m, "rate_limit"):
		return domain.KindRateLimited
	}
	return domain.KindInvalidInput
}
