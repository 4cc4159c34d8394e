package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dancehub/internal/domain"
)

const userClaimsJSON = `{"role":"authenticated","sub":"user-1"}`

func TestBuildCall(t *testing.T) {
	query, values, err := buildCall("create_connection_request", domain.Args{
		"p_target_id": "user-2",
		"p_context":   "trip",
		"p_reason":    nil,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "SELECT public.create_connection_request(p_context => $1, p_reason => $2, p_target_id => $3)::text", query)
	assert.Equal(t, []any{"trip", nil, "user-2"}, values)

	query, _, err = buildCall("list_public_events_lite", domain.Args{"p_limit": 10}, true)
	require.NoError(t, err)
	assert.Contains(t, query, "jsonb_agg(to_jsonb(r))")
	assert.Contains(t, query, "FROM public.list_public_events_lite(p_limit => $1) AS r")

	_, _, err = buildCall("drop_everything", nil, false)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	_, _, err = buildCall("send_message", domain.Args{"p_body; drop": "x"}, false)
	assert.Error(t, err)
}

func TestArgValue(t *testing.T) {
	v, err := argValue([]string{"salsa", "bachata"})
	require.NoError(t, err)
	assert.IsType(t, pq.Array([]string{}), v)

	v, err = argValue(map[string]any{"rating": 5})
	require.NoError(t, err)
	assert.Equal(t, `{"rating":5}`, v)

	var nilInt *int
	v, err = argValue(nilInt)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRPCCaller_Call(t *testing.T) {
	ctx := context.Background()
	callQuery := regexp.QuoteMeta(`SELECT public.propose_connection_sync(p_connection_id => $1, p_sync_type => $2)::text`)

	tests := []struct {
		name     string
		userID   string
		mock     func(mock sqlmock.Sqlmock)
		wantID   string
		wantKind domain.ErrorKind
	}{
		{
			name:   "returns procedure result",
			userID: "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT set_config`).WithArgs(userClaimsJSON).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(callQuery).WithArgs("conn-1", "training").
					WillReturnRows(sqlmock.NewRows([]string{"result"}).AddRow("sync-9"))
				mock.ExpectCommit()
			},
			wantID: "sync-9",
		},
		{
			name:   "raised exception is classified and rolled back",
			userID: "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT set_config`).WithArgs(userClaimsJSON).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(callQuery).WithArgs("conn-1", "training").
					WillReturnError(&pq.Error{Code: "P0001", Message: "connection_not_found"})
				mock.ExpectRollback()
			},
			wantKind: domain.KindNotFound,
		},
		{
			name:     "anonymous caller is rejected before the database",
			userID:   "",
			mock:     func(mock sqlmock.Sqlmock) {},
			wantKind: domain.KindNotAuthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			caller := NewRPCCaller(db, nil, discardLogger())
			var id string
			err = caller.Call(ctx, tt.userID, "propose_connection_sync", domain.Args{
				"p_connection_id": "conn-1",
				"p_sync_type":     "training",
			}, &id)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, domain.KindOf(err))
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRPCCaller_CallSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config`).WithArgs(userClaimsJSON).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM public\.list_public_events_lite`).WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"result"}).
			AddRow(`[{"id":"ev-1","title":"Bachata Night","styles":["bachata"]},{"id":"ev-2","title":"Salsa Social"}]`))
	mock.ExpectCommit()

	caller := NewRPCCaller(db, nil, discardLogger())
	var events []*domain.Event
	err = caller.CallSet(context.Background(), "user-1", "list_public_events_lite",
		domain.Args{"p_limit": 50, "p_offset": 0}, &events)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Bachata Night", events[0].Title)
	assert.Equal(t, []string{"bachata"}, events[0].Styles)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRPCCaller_CallAsService(t *testing.T) {
	userDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer userDB.Close()
	serviceDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer serviceDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config`).WithArgs(`{"role":"service_role"}`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT public\.create_notification`).
		WillReturnRows(sqlmock.NewRows([]string{"result"}).AddRow(""))
	mock.ExpectCommit()

	caller := NewRPCCaller(userDB, serviceDB, discardLogger())
	err = caller.CallAsService(context.Background(), "create_notification", domain.Args{"p_user_id": "user-2"}, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	noService := NewRPCCaller(userDB, nil, discardLogger())
	err = noService.CallAsService(context.Background(), "create_notification", nil, nil)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestDecodeResult(t *testing.T) {
	var s string
	require.NoError(t, decodeResult("3f1c", &s))
	assert.Equal(t, "3f1c", s)
	require.NoError(t, decodeResult(`"quoted"`, &s))
	assert.Equal(t, "quoted", s)

	var b bool
	require.NoError(t, decodeResult("t", &b))
	assert.True(t, b)

	var summary domain.FeedbackSummary
	require.NoError(t, decodeResult(`{"count":3,"average_rating":4.5,"distribution":{"4":1,"5":2}}`, &summary))
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 2, summary.Distribution[5])

	require.NoError(t, decodeResult("", &summary))
	require.NoError(t, decodeResult(`{"x":1}`, nil))
}
