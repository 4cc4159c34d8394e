package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dancehub/internal/domain"
)

var referenceFullCols = []string{"id", "author_id", "recipient_id", "sentiment", "body", "entity_type", "entity_id",
	"created_at", "reply_text", "replied_at", "edit_count"}

func TestReferenceRepository_ListAuthoredBy(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)

	t.Run("entity tagged", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`entity_type, entity_id,\s+created_at.+FROM user_references WHERE author_id = \$1`).
			WithArgs("user-a").
			WillReturnRows(sqlmock.NewRows(referenceFullCols).
				AddRow("ref-1", "user-a", "user-b", "positive", "Great lead", "sync", "sync-1", created, nil, nil, 0))

		got, err := NewReferenceRepository(db, discardLogger()).ListAuthoredBy(ctx, "user-a")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "sync:sync-1", got[0].EntityKey())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("legacy rows have no entity key", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`entity_type`).
			WithArgs("user-a").
			WillReturnError(&pq.Error{Code: "42703", Message: `column "entity_type" does not exist`})
		mock.ExpectQuery(`SELECT id, author_id, recipient_id, sentiment, body, created_at FROM user_references`).
			WithArgs("user-a").
			WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "recipient_id", "sentiment", "body", "created_at"}).
				AddRow("ref-1", "user-a", "user-b", "neutral", "ok", created))

		got, err := NewReferenceRepository(db, discardLogger()).ListAuthoredBy(ctx, "user-a")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Empty(t, got[0].EntityKey())
		assert.Equal(t, domain.SentimentNeutral, got[0].Sentiment)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReferenceRepository_ListForRecipient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT count\(\*\) FROM user_references WHERE recipient_id = \$1`).
		WithArgs("user-b").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(`WHERE recipient_id = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("user-b", 20, 20).
		WillReturnRows(sqlmock.NewRows(referenceFullCols).
			AddRow("ref-21", "user-a", "user-b", "positive", "Thanks!", "event", "ev-1", created, "Likewise", created, 1))

	got, total, err := NewReferenceRepository(db, discardLogger()).
		ListForRecipient(context.Background(), "user-b", domain.PaginationParams{Page: 2, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 21, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Likewise", got[0].ReplyText)
	assert.Equal(t, 1, got[0].EditCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM user_references WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(referenceFullCols))

	_, err = NewReferenceRepository(db, discardLogger()).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	ref := &domain.Reference{
		ID: "ref-new", AuthorID: "user-a", RecipientID: "user-b", Sentiment: domain.SentimentPositive,
		Body: "Lovely partner", EntityType: domain.EntitySync, EntityID: "sync-1", CreatedAt: created,
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "inserted",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_references \(id, author_id, recipient_id, sentiment, body, entity_type`).
					WithArgs("ref-new", "user-a", "user-b", "positive", "Lovely partner", "sync", "sync-1", created).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantID: "ref-new",
		},
		{
			name: "duplicate returns the stored reference",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_references`).
					WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
				mock.ExpectQuery(`WHERE author_id = \$1 AND recipient_id = \$2 AND entity_type = \$3 AND entity_id = \$4`).
					WithArgs("user-a", "user-b", "sync", "sync-1").
					WillReturnRows(sqlmock.NewRows(referenceFullCols).
						AddRow("ref-old", "user-a", "user-b", "positive", "Lovely partner", "sync", "sync-1", created, nil, nil, 0))
			},
			wantID: "ref-old",
		},
		{
			name: "legacy table without entity columns",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_references \(id, author_id, recipient_id, sentiment, body, entity_type`).
					WillReturnError(&pq.Error{Code: "42703", Message: `column "entity_type" of relation "user_references" does not exist`})
				mock.ExpectExec(`INSERT INTO user_references \(id, author_id, recipient_id, sentiment, body, created_at\)`).
					WithArgs("ref-new", "user-a", "user-b", "positive", "Lovely partner", created).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantID: "ref-new",
		},
		{
			name: "foreign key violation",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_references`).
					WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})
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

			got, err := NewReferenceRepository(db, discardLogger()).Create(ctx, ref)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReferenceRepository_UpdateBody(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "first edit",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE user_references SET sentiment = \$2, body = \$3, edit_count = edit_count \+ 1`).
					WithArgs("ref-1", "neutral", "Edited").
					WillReturnRows(sqlmock.NewRows(referenceFullCols).
						AddRow("ref-1", "user-a", "user-b", "neutral", "Edited", "trip", "trip-1", created, nil, nil, 1))
			},
		},
		{
			name: "already edited",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE user_references`).
					WithArgs("ref-1", "neutral", "Edited").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			got, err := NewReferenceRepository(db, discardLogger()).UpdateBody(ctx, "ref-1", domain.SentimentNeutral, "Edited")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, got.EditCount)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReferenceRepository_SetReply(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	at := time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`UPDATE user_references SET reply_text = \$2, replied_at = \$3\s+WHERE id = \$1 AND reply_text IS NULL`).
		WithArgs("ref-1", "Thank you", at).
		WillReturnRows(sqlmock.NewRows(referenceFullCols).
			AddRow("ref-1", "user-a", "user-b", "positive", "Great", "sync", "sync-1", created, "Thank you", at, 0))

	got, err := NewReferenceRepository(db, discardLogger()).SetReply(context.Background(), "ref-1", "Thank you", at)
	require.NoError(t, err)
	assert.Equal(t, "Thank you", got.ReplyText)
	require.NotNil(t, got.RepliedAt)
	assert.Equal(t, at, *got.RepliedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
