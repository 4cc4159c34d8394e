package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"dancehub/internal/domain"
)

type syncRepository struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// NewSyncRepository returns a domain.SyncRepository implemented with Postgres.
func NewSyncRepository(db *sql.DB, logger *slog.Logger) domain.SyncRepository {
	return &syncRepository{DB: db, Logger: logger}
}

// ListCompletedSince reads completed_at when the column exists and falls back to updated_at on older schemas.
func (r *syncRepository) ListCompletedSince(ctx context.Context, userID string, since time.Time) ([]*domain.ConnectionSync, error) {
	projections := []Projection[*domain.ConnectionSync]{
		{
			Name: "full",
			Query: `SELECT id, connection_id, requester_id, recipient_id, sync_type, status, scheduled_at, note, completed_at
				FROM connection_syncs
				WHERE status = 'completed' AND (requester_id = $1 OR recipient_id = $1) AND completed_at >= $2
				ORDER BY completed_at DESC`,
			Scan: scanSyncFull,
		},
		{
			Name: "legacy",
			Query: `SELECT id, connection_id, requester_id, recipient_id, sync_type, status, updated_at
				FROM connection_syncs
				WHERE status = 'completed' AND (requester_id = $1 OR recipient_id = $1) AND updated_at >= $2
				ORDER BY updated_at DESC`,
			Scan: scanSyncLegacy,
		},
	}
	return queryProjections(ctx, r.DB, r.Logger, "connection_syncs.completed", projections, userID, since)
}

func scanSyncFull(rows *sql.Rows) (*domain.ConnectionSync, error) {
	var s domain.ConnectionSync
	var syncType, status string
	var note sql.NullString
	var scheduled, completed sql.NullTime
	if err := rows.Scan(&s.ID, &s.ConnectionID, &s.RequesterID, &s.RecipientID, &syncType, &status,
		&scheduled, &note, &completed); err != nil {
		return nil, err
	}
	s.SyncType = domain.SyncType(syncType)
	s.Status = domain.SyncStatus(status)
	s.ScheduledAt = nullTimePtr(scheduled)
	s.Note = note.String
	s.CompletedAt = nullTimePtr(completed)
	return &s, nil
}

func scanSyncLegacy(rows *sql.Rows) (*domain.ConnectionSync, error) {
	var s domain.ConnectionSync
	var syncType, status string
	var updated sql.NullTime
	if err := rows.Scan(&s.ID, &s.ConnectionID, &s.RequesterID, &s.RecipientID, &syncType, &status, &updated); err != nil {
		return nil, err
	}
	s.SyncType = domain.SyncType(syncType)
	s.Status = domain.SyncStatus(status)
	s.CompletedAt = nullTimePtr(updated)
	return &s, nil
}
