package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"dancehub/internal/domain"
)

const connectionFullColumns = `id, requester_id, target_id, status, created_at,
	context, reason, trip_id, trip_destination, trip_start_date, trip_end_date`

const connectionMinimalColumns = `id, requester_id, target_id, status, created_at`

type connectionRepository struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// NewConnectionRepository returns a domain.ConnectionRepository implemented with Postgres.
func NewConnectionRepository(db *sql.DB, logger *slog.Logger) domain.ConnectionRepository {
	return &connectionRepository{DB: db, Logger: logger}
}

func connectionProjections(where string) []Projection[*domain.Connection] {
	return []Projection[*domain.Connection]{
		{
			Name:  "full",
			Query: `SELECT ` + connectionFullColumns + ` FROM connections WHERE ` + where + ` ORDER BY created_at DESC`,
			Scan:  scanConnectionFull,
		},
		{
			Name:  "minimal",
			Query: `SELECT ` + connectionMinimalColumns + ` FROM connections WHERE ` + where + ` ORDER BY created_at DESC`,
			Scan:  scanConnectionMinimal,
		},
	}
}

func (r *connectionRepository) ListBetween(ctx context.Context, userID, otherID string) ([]*domain.Connection, error) {
	where := `(requester_id = $1 AND target_id = $2) OR (requester_id = $2 AND target_id = $1)`
	return queryProjections(ctx, r.DB, r.Logger, "connections.between", connectionProjections(where), userID, otherID)
}

func (r *connectionRepository) ListAccepted(ctx context.Context, userID string) ([]*domain.Connection, error) {
	where := `status = 'accepted' AND (requester_id = $1 OR target_id = $1)`
	return queryProjections(ctx, r.DB, r.Logger, "connections.accepted", connectionProjections(where), userID)
}

func scanConnectionFull(rows *sql.Rows) (*domain.Connection, error) {
	var c domain.Connection
	var status string
	var cctx, reason, tripID, dest sql.NullString
	var start, end sql.NullTime
	if err := rows.Scan(&c.ID, &c.RequesterID, &c.TargetID, &status, &c.CreatedAt,
		&cctx, &reason, &tripID, &dest, &start, &end); err != nil {
		return nil, err
	}
	c.Status = domain.ConnectionStatus(status)
	c.Metadata = domain.ConnectionMetadata{
		Context:         cctx.String,
		Reason:          reason.String,
		TripID:          tripID.String,
		TripDestination: dest.String,
		TripStartDate:   nullTimePtr(start),
		TripEndDate:     nullTimePtr(end),
	}
	return &c, nil
}

func scanConnectionMinimal(rows *sql.Rows) (*domain.Connection, error) {
	var c domain.Connection
	var status string
	if err := rows.Scan(&c.ID, &c.RequesterID, &c.TargetID, &status, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Status = domain.ConnectionStatus(status)
	return &c, nil
}
