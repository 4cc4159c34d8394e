package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"dancehub/internal/observability"
)

// Projection is one shape of a read query, from the richest schema to the most minimal.
type Projection[T any] struct {
	Name  string
	Query string
	Scan  func(rows *sql.Rows) (T, error)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// queryProjections runs projections in order and returns the rows of the first that succeeds.
// Only schema drift moves on to the next projection; any other error is returned classified.
// When every projection drifts the result wraps domain.ErrSchemaDrift.
func queryProjections[T any](ctx context.Context, db queryer, logger *slog.Logger, name string, projections []Projection[T], args ...any) ([]T, error) {
	var lastErr error
	for i, p := range projections {
		out, err := runProjection(ctx, db, p, args)
		if err == nil {
			return out, nil
		}
		if !isDrift(err) {
			return nil, classifyError(name, err)
		}
		lastErr = err
		if i+1 < len(projections) {
			next := projections[i+1].Name
			logger.WarnContext(ctx, "schema drift, retrying with fallback projection",
				"query", name, "from", p.Name, "to", next, "error", err)
			observability.SchemaFallbacks.WithLabelValues(name, next).Inc()
		}
	}
	return nil, classifyError(name, lastErr)
}

func runProjection[T any](ctx context.Context, db queryer, p Projection[T], args []any) ([]T, error) {
	rows, err := db.QueryContext(ctx, p.Query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := p.Scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// execIdempotent runs an insert for which a unique violation means another writer got there first.
// The duplicate is reported as success.
func execIdempotent(ctx context.Context, db execer, name, query string, args ...any) (inserted bool, err error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicate(err) {
			return false, nil
		}
		return false, classifyError(name, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
