package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"dancehub/internal/domain"
)

// Older deployments keep trip requests in trip_join_requests.
var tripRequestTables = []string{"trip_requests", "trip_join_requests"}

type tripRepository struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// NewTripRepository returns a domain.TripRepository implemented with Postgres.
func NewTripRepository(db *sql.DB, logger *slog.Logger) domain.TripRepository {
	return &tripRepository{DB: db, Logger: logger}
}

func (r *tripRepository) ListEndedOwned(ctx context.Context, userID string, from, to time.Time) ([]*domain.TripWithRequests, error) {
	trips, err := queryProjections(ctx, r.DB, r.Logger, "trips.ended_owned", []Projection[*domain.Trip]{{
		Name: "full",
		Query: `SELECT id, owner_id, destination_city, destination_country, start_date, end_date
			FROM trips
			WHERE owner_id = $1 AND end_date >= $2 AND end_date <= $3
			ORDER BY end_date DESC`,
		Scan: scanTrip,
	}}, userID, from, to)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, nil
	}

	ids := make([]string, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
	}
	projections := make([]Projection[*domain.TripRequest], 0, len(tripRequestTables))
	for _, table := range tripRequestTables {
		projections = append(projections, Projection[*domain.TripRequest]{
			Name: table,
			Query: `SELECT id, trip_id, requester_id, status, created_at FROM ` + table + `
				WHERE trip_id = ANY($1) AND status = 'accepted'`,
			Scan: scanTripRequest,
		})
	}
	requests, err := queryProjections(ctx, r.DB, r.Logger, "trip_requests.accepted", projections, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	byTrip := make(map[string][]*domain.TripRequest, len(trips))
	for _, req := range requests {
		byTrip[req.TripID] = append(byTrip[req.TripID], req)
	}
	out := make([]*domain.TripWithRequests, 0, len(trips))
	for _, t := range trips {
		out = append(out, &domain.TripWithRequests{Trip: t, Requests: byTrip[t.ID]})
	}
	return out, nil
}

func (r *tripRepository) ListEndedJoined(ctx context.Context, userID string, from, to time.Time) ([]*domain.TripWithRequests, error) {
	projections := make([]Projection[*domain.TripWithRequests], 0, len(tripRequestTables))
	for _, table := range tripRequestTables {
		projections = append(projections, Projection[*domain.TripWithRequests]{
			Name: table,
			Query: `SELECT t.id, t.owner_id, t.destination_city, t.destination_country, t.start_date, t.end_date,
					q.id, q.trip_id, q.requester_id, q.status, q.created_at
				FROM trips t
				JOIN ` + table + ` q ON q.trip_id = t.id
				WHERE q.requester_id = $1 AND q.status = 'accepted' AND t.end_date >= $2 AND t.end_date <= $3
				ORDER BY t.end_date DESC`,
			Scan: scanJoinedTrip,
		})
	}
	return queryProjections(ctx, r.DB, r.Logger, "trips.ended_joined", projections, userID, from, to)
}

func scanTrip(rows *sql.Rows) (*domain.Trip, error) {
	var t domain.Trip
	var city, country sql.NullString
	if err := rows.Scan(&t.ID, &t.OwnerID, &city, &country, &t.StartDate, &t.EndDate); err != nil {
		return nil, err
	}
	t.DestinationCity = city.String
	t.DestinationCountry = country.String
	return &t, nil
}

func scanTripRequest(rows *sql.Rows) (*domain.TripRequest, error) {
	var q domain.TripRequest
	var status string
	if err := rows.Scan(&q.ID, &q.TripID, &q.RequesterID, &status, &q.CreatedAt); err != nil {
		return nil, err
	}
	q.Status = domain.TripRequestStatus(status)
	return &q, nil
}

func scanJoinedTrip(rows *sql.Rows) (*domain.TripWithRequests, error) {
	var t domain.Trip
	var q domain.TripRequest
	var city, country sql.NullString
	var status string
	if err := rows.Scan(&t.ID, &t.OwnerID, &city, &country, &t.StartDate, &t.EndDate,
		&q.ID, &q.TripID, &q.RequesterID, &status, &q.CreatedAt); err != nil {
		return nil, err
	}
	t.DestinationCity = city.String
	t.DestinationCountry = country.String
	q.Status = domain.TripRequestStatus(status)
	return &domain.TripWithRequests{Trip: &t, Requests: []*domain.TripRequest{&q}}, nil
}
