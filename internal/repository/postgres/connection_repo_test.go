package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dancehub/internal/domain"
)

var connectionFullCols = []string{"id", "requester_id", "target_id", "status", "created_at",
	"context", "reason", "trip_id", "trip_destination", "trip_start_date", "trip_end_date"}

func TestConnectionRepository_ListBetween(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tripStart := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    []*domain.Connection
		wantErr bool
	}{
		{
			name: "full projection with metadata",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, requester_id, target_id, status, created_at,\s+context`).
					WithArgs("user-a", "user-b").
					WillReturnRows(sqlmock.NewRows(connectionFullCols).
						AddRow("conn-1", "user-a", "user-b", "pending", created, "trip", "Dancing in Lisbon", "trip-1", "Lisbon", tripStart, nil))
			},
			want: []*domain.Connection{{
				ID: "conn-1", RequesterID: "user-a", TargetID: "user-b", Status: domain.ConnectionPending, CreatedAt: created,
				Metadata: domain.ConnectionMetadata{
					Context: "trip", Reason: "Dancing in Lisbon", TripID: "trip-1", TripDestination: "Lisbon",
					TripStartDate: &tripStart,
				},
			}},
		},
		{
			name: "missing metadata columns fall back to minimal",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, requester_id, target_id, status, created_at,\s+context`).
					WithArgs("user-a", "user-b").
					WillReturnError(&pq.Error{Code: "42703", Message: `column "context" does not exist`})
				mock.ExpectQuery(`SELECT id, requester_id, target_id, status, created_at FROM connections`).
					WithArgs("user-a", "user-b").
					WillReturnRows(sqlmock.NewRows([]string{"id", "requester_id", "target_id", "status", "created_at"}).
						AddRow("conn-2", "user-b", "user-a", "accepted", created))
			},
			want: []*domain.Connection{{
				ID: "conn-2", RequesterID: "user-b", TargetID: "user-a", Status: domain.ConnectionAccepted, CreatedAt: created,
			}},
		},
		{
			name: "permission error is not retried",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM connections`).
					WithArgs("user-a", "user-b").
					WillReturnError(&pq.Error{Code: "42501", Message: "permission denied for table connections"})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			repo := NewConnectionRepository(db, discardLogger())
			got, err := repo.ListBetween(ctx, "user-a", "user-b")
			if tt.wantErr {
				require.Error(t, err)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConnectionRepository_ListAccepted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`status = 'accepted' AND \(requester_id = \$1 OR target_id = \$1\)`).
		WithArgs("user-a").
		WillReturnRows(sqlmock.NewRows(connectionFullCols).
			AddRow("conn-1", "user-a", "user-b", "accepted", created, nil, nil, nil, nil, nil, nil).
			AddRow("conn-2", "user-c", "user-a", "accepted", created, nil, nil, nil, nil, nil, nil))

	repo := NewConnectionRepository(db, discardLogger())
	got, err := repo.ListAccepted(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "user-b", got[0].OtherUser("user-a"))
	assert.Equal(t, "user-c", got[1].OtherUser("user-a"))
	assert.Empty(t, got[0].Metadata.Context)
	require.NoError(t, mock.ExpectationsWereMet())
}
