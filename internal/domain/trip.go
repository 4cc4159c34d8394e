package domain

import (
	"context"
	"time"
)

// Trip is a posted trip with a destination and a date window.
// swagger:model Trip
type Trip struct {
	ID                 string    `json:"id"`
	OwnerID            string    `json:"owner_id"`
	DestinationCity    string    `json:"destination_city"`
	DestinationCountry string    `json:"destination_country"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
}

// TripRequestStatus is the status of a request to join a trip.
type TripRequestStatus string

const (
	TripRequestPending   TripRequestStatus = "pending"
	TripRequestAccepted  TripRequestStatus = "accepted"
	TripRequestDeclined  TripRequestStatus = "declined"
	TripRequestCancelled TripRequestStatus = "cancelled"
)

// TripRequest links a requester to someone else's trip.
type TripRequest struct {
	ID          string            `json:"id"`
	TripID      string            `json:"trip_id"`
	RequesterID string            `json:"requester_id"`
	Status      TripRequestStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// TripWithRequests bundles a trip with its accepted requests.
type TripWithRequests struct {
	Trip     *Trip
	Requests []*TripRequest
}

// TripRepository reads ended trips with their accepted requests.
type TripRepository interface {
	// ListEndedOwned returns trips owned by userID whose end date is within [from, to], with accepted requests.
	ListEndedOwned(ctx context.Context, userID string, from, to time.Time) ([]*TripWithRequests, error)
	// ListEndedJoined returns trips userID was accepted onto whose end date is within [from, to].
	ListEndedJoined(ctx context.Context, userID string, from, to time.Time) ([]*TripWithRequests, error)
}

// TripResponse is the owner's answer to a trip request.
type TripResponse string

const (
	TripAccept  TripResponse = "accept"
	TripDecline TripResponse = "decline"
)

// TripService defines trip request responses.
type TripService interface {
	Respond(ctx context.Context, userID, requestID string, response TripResponse) error
	CancelRequest(ctx context.Context, userID, requestID string) error
}
