package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dancehub/internal/domain"
)

func validEventInput() domain.EventInput {
	return domain.EventInput{
		Title:      "Bachata Sensual Social",
		EventType:  "social",
		Styles:     []string{"bachata"},
		City:       "Lisbon",
		Visibility: domain.VisibilityPublic,
		StartsAt:   time.Date(2025, 6, 7, 21, 0, 0, 0, time.UTC),
	}
}

func TestValidateEventInput(t *testing.T) {
	starts := time.Date(2025, 6, 7, 21, 0, 0, 0, time.UTC)
	before := starts.Add(-time.Hour)
	zero := 0

	tests := []struct {
		name    string
		mutate  func(*domain.EventInput)
		wantErr bool
	}{
		{name: "valid", mutate: func(*domain.EventInput) {}},
		{name: "blank title", mutate: func(in *domain.EventInput) { in.Title = "  " }, wantErr: true},
		{name: "missing type", mutate: func(in *domain.EventInput) { in.EventType = "" }, wantErr: true},
		{name: "bad visibility", mutate: func(in *domain.EventInput) { in.Visibility = "friends" }, wantErr: true},
		{name: "cancelled on create", mutate: func(in *domain.EventInput) { in.Status = domain.EventCancelled }, wantErr: true},
		{name: "ends before start", mutate: func(in *domain.EventInput) { in.EndsAt = &before }, wantErr: true},
		{name: "zero capacity", mutate: func(in *domain.EventInput) { in.Capacity = &zero }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validEventInput()
			tt.mutate(&in)
			err := ValidateEventInput(in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEventService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	rpc := newFakeRPC()
	rpc.results["create_event"] = "ev-1"
	svc := NewEventService(rpc, testTimeout)

	id, err := svc.Create(ctx, "host", validEventInput())
	require.NoError(t, err)
	assert.Equal(t, "ev-1", id)
	assert.Equal(t, "draft", rpc.last().Args["p_status"])

	require.NoError(t, svc.Update(ctx, "host", "ev-1", validEventInput()))
	assert.Equal(t, "update_event", rpc.last().Proc)
	assert.Equal(t, "ev-1", rpc.last().Args["p_event_id"])

	bad := validEventInput()
	bad.Title = ""
	_, err = svc.Create(ctx, "host", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, rpc.procs(), 2)
}

func TestEventService_ListPublic(t *testing.T) {
	rpc := newFakeRPC()
	rpc.results["list_public_events_lite"] = []map[string]any{
		{"id": "ev-1", "title": "Salsa Night", "styles": []string{"salsa"}, "starts_at": "2025-06-07T21:00:00Z"},
		{"id": "ev-2", "title": "Open Floor", "styles": []string{"bachata"}, "starts_at": "2025-06-08T21:00:00Z"},
	}
	svc := NewEventService(rpc, testTimeout)

	got, err := svc.ListPublic(context.Background(), "viewer", 50, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"bachata"}, got[1].Styles)
	assert.Equal(t, domain.Args{"p_limit": 50, "p_offset": 0}, rpc.last().Args)
}

func TestEventService_Feedback(t *testing.T) {
	ctx := context.Background()
	rpc := newFakeRPC()
	rpc.results["can_submit_event_feedback"] = map[string]any{"can_submit": false, "reason": "event_not_ended"}
	rpc.results["get_event_feedback_summary"] = map[string]any{"count": 0, "average_rating": 0}
	svc := NewEventService(rpc, testTimeout)

	assert.ErrorIs(t, svc.SubmitFeedback(ctx, "u", "ev-1", domain.EventFeedback{Rating: 6}), domain.ErrInvalidInput)
	require.NoError(t, svc.SubmitFeedback(ctx, "u", "ev-1", domain.EventFeedback{Rating: 5, Comment: " great "}))
	assert.Equal(t, "great", rpc.last().Args["p_comment"])

	elig, err := svc.CanSubmitFeedback(ctx, "u", "ev-1")
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackEligibility{CanSubmit: false, Reason: "event_not_ended"}, elig)

	summary, err := svc.FeedbackSummary(ctx, "u", "ev-1")
	require.NoError(t, err)
	assert.NotNil(t, summary.Distribution)

	_, err = svc.Report(ctx, "u", "ev-1", " ", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
