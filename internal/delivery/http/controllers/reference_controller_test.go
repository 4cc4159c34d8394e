package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/domain"
)

func TestReferenceController_ListCandidates(t *testing.T) {
	ended := time.Date(2025, 5, 10, 18, 0, 0, 0, time.UTC)
	svc := &fakeReferenceService{candidates: []domain.ReferenceCandidate{
		{Type: domain.EntitySync, EntityID: "s1", RecipientID: otherID, EndedAt: ended, Label: "Training"},
	}}
	ctrl := NewReferenceController(testLogger, svc)

	rr := httptest.NewRecorder()
	ctrl.ListCandidates(rr, newRequest(http.MethodGet, "/references/candidates", "", true, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var got []domain.ReferenceCandidate
	require.Nil(t, decodeData(t, rr, &got))
	assert.Equal(t, svc.candidates, got)

	svc.candidates = nil
	rr = httptest.NewRecorder()
	ctrl.ListCandidates(rr, newRequest(http.MethodGet, "/references/candidates", "", true, nil))
	assert.JSONEq(t, `{"data":[],"error":null}`, rr.Body.String())
}

func TestReferenceController_Create(t *testing.T) {
	valid := `{"recipient_id":"` + otherID + `","entity_type":"sync","entity_id":"s1","sentiment":"positive","body":"Great partner"}`
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "created", body: valid, wantStatus: http.StatusCreated},
		{
			name:       "connection entity type rejected",
			body:       `{"recipient_id":"` + otherID + `","entity_type":"connection","entity_id":"c1","sentiment":"positive","body":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "bad sentiment",
			body:       `{"recipient_id":"` + otherID + `","entity_type":"trip","entity_id":"t1","sentiment":"great","body":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{name: "not a candidate", body: valid, err: domain.ErrNotEligible, wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeReferenceService{ref: &domain.Reference{ID: objectID, AuthorID: callerID, RecipientID: otherID}, err: tt.err}
			ctrl := NewReferenceController(testLogger, svc)
			rr := httptest.NewRecorder()

			ctrl.Create(rr, newRequest(http.MethodPost, "/references", tt.body, true, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			var got domain.Reference
			apiErr := decodeData(t, rr, &got)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			assert.Equal(t, objectID, got.ID)
			assert.Equal(t, domain.EntitySync, svc.lastNew.EntityType)
		})
	}
}

func TestReferenceController_EditAndReply(t *testing.T) {
	path := map[string]string{"referenceID": objectID}
	tests := []struct {
		name       string
		call       func(c *ReferenceController) http.HandlerFunc
		body       string
		err        error
		wantStatus int
	}{
		{"edit", func(c *ReferenceController) http.HandlerFunc { return c.Edit }, `{"sentiment":"neutral","body":"Updated"}`, nil, http.StatusOK},
		{"edit twice", func(c *ReferenceController) http.HandlerFunc { return c.Edit }, `{"sentiment":"neutral","body":"Again"}`, domain.ErrConflict, http.StatusConflict},
		{"edit after window", func(c *ReferenceController) http.HandlerFunc { return c.Edit }, `{"sentiment":"neutral","body":"Late"}`, domain.ErrWindowExpired, http.StatusForbidden},
		{"edit missing sentiment", func(c *ReferenceController) http.HandlerFunc { return c.Edit }, `{"body":"x"}`, nil, http.StatusBadRequest},
		{"reply", func(c *ReferenceController) http.HandlerFunc { return c.Reply }, `{"reply":"Thanks!"}`, nil, http.StatusOK},
		{"reply not recipient", func(c *ReferenceController) http.HandlerFunc { return c.Reply }, `{"reply":"Thanks!"}`, domain.ErrForbidden, http.StatusForbidden},
		{"reply unknown reference", func(c *ReferenceController) http.HandlerFunc { return c.Reply }, `{"reply":"Thanks!"}`, domain.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeReferenceService{ref: &domain.Reference{ID: objectID}, err: tt.err}
			ctrl := NewReferenceController(testLogger, svc)
			rr := httptest.NewRecorder()

			tt.call(ctrl)(rr, newRequest(http.MethodPost, "/", tt.body, true, path))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, objectID, svc.lastID)
			}
		})
	}
}

func TestReferenceController_ListForUser(t *testing.T) {
	svc := &fakeReferenceService{refs: []*domain.Reference{{ID: "r1"}, {ID: "r2"}}, total: 12}
	ctrl := NewReferenceController(testLogger, svc)

	rr := httptest.NewRecorder()
	ctrl.ListForUser(rr, newRequest(http.MethodGet, "/users/"+otherID+"/references?page=2&page_size=5", "", true, map[string]string{"userID": otherID}))

	require.Equal(t, http.StatusOK, rr.Code)
	var got ReferenceListResponse
	require.Nil(t, decodeData(t, rr, &got))
	assert.Len(t, got.References, 2)
	assert.Equal(t, helpers.PaginationMeta{Page: 2, PageSize: 5, Total: 12, TotalPages: 3}, got.Pagination)
	assert.Equal(t, otherID, svc.lastID)
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 5}, svc.lastParams)
}
