package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"dancehub/internal/domain"
)

const referenceFullColumns = `id, author_id, recipient_id, sentiment, body, entity_type, entity_id,
	created_at, reply_text, replied_at, edit_count`

const referenceLegacyColumns = `id, author_id, recipient_id, sentiment, body, created_at`

type referenceRepository struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// NewReferenceRepository returns a domain.ReferenceRepository implemented with Postgres.
func NewReferenceRepository(db *sql.DB, logger *slog.Logger) domain.ReferenceRepository {
	return &referenceRepository{DB: db, Logger: logger}
}

func referenceProjections(tail string) []Projection[*domain.Reference] {
	return []Projection[*domain.Reference]{
		{
			Name:  "full",
			Query: `SELECT ` + referenceFullColumns + ` FROM user_references ` + tail,
			Scan:  func(rows *sql.Rows) (*domain.Reference, error) { return scanReferenceFull(rows) },
		},
		{
			Name:  "legacy",
			Query: `SELECT ` + referenceLegacyColumns + ` FROM user_references ` + tail,
			Scan:  func(rows *sql.Rows) (*domain.Reference, error) { return scanReferenceLegacy(rows) },
		},
	}
}

func (r *referenceRepository) ListAuthoredBy(ctx context.Context, authorID string) ([]*domain.Reference, error) {
	return queryProjections(ctx, r.DB, r.Logger, "references.authored",
		referenceProjections(`WHERE author_id = $1 ORDER BY created_at DESC`), authorID)
}

func (r *referenceRepository) ListForRecipient(ctx context.Context, recipientID string, params domain.PaginationParams) ([]*domain.Reference, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM user_references WHERE recipient_id = $1`, recipientID).Scan(&total); err != nil {
		return nil, 0, classifyError("references.count", err)
	}
	refs, err := queryProjections(ctx, r.DB, r.Logger, "references.received",
		referenceProjections(`WHERE recipient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`),
		recipientID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	return refs, total, nil
}

func (r *referenceRepository) GetByID(ctx context.Context, id string) (*domain.Reference, error) {
	refs, err := queryProjections(ctx, r.DB, r.Logger, "references.by_id", referenceProjections(`WHERE id = $1`), id)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, domain.ErrNotFound
	}
	return refs[0], nil
}

// Create inserts ref. A concurrent insert of the same reference is treated as success
// and the stored row is returned in place of ref.
func (r *referenceRepository) Create(ctx context.Context, ref *domain.Reference) (*domain.Reference, error) {
	inserted, err := execIdempotent(ctx, r.DB, "references.create",
		`INSERT INTO user_references (id, author_id, recipient_id, sentiment, body, entity_type, entity_id, created_at, edit_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)`,
		ref.ID, ref.AuthorID, ref.RecipientID, string(ref.Sentiment), ref.Body, string(ref.EntityType), ref.EntityID, ref.CreatedAt)
	if errors.Is(err, domain.ErrSchemaDrift) {
		inserted, err = execIdempotent(ctx, r.DB, "references.create",
			`INSERT INTO user_references (id, author_id, recipient_id, sentiment, body, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			ref.ID, ref.AuthorID, ref.RecipientID, string(ref.Sentiment), ref.Body, ref.CreatedAt)
	}
	if err != nil {
		return nil, err
	}
	if inserted {
		return ref, nil
	}
	refs, err := queryProjections(ctx, r.DB, r.Logger, "references.existing",
		referenceProjections(`WHERE author_id = $1 AND recipient_id = $2 AND entity_type = $3 AND entity_id = $4`),
		ref.AuthorID, ref.RecipientID, string(ref.EntityType), ref.EntityID)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, domain.ErrConflict
	}
	return refs[0], nil
}

// UpdateBody applies the single allowed edit. A reference that was already edited yields domain.ErrConflict.
func (r *referenceRepository) UpdateBody(ctx context.Context, id string, sentiment domain.Sentiment, body string) (*domain.Reference, error) {
	row := r.DB.QueryRowContext(ctx,
		`UPDATE user_references SET sentiment = $2, body = $3, edit_count = edit_count + 1
		 WHERE id = $1 AND edit_count = 0
		 RETURNING `+referenceFullColumns,
		id, string(sentiment), body)
	ref, err := scanReferenceFull(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConflict
		}
		return nil, classifyError("references.update", err)
	}
	return ref, nil
}

// SetReply stores the recipient's single reply. An existing reply yields domain.ErrConflict.
func (r *referenceRepository) SetReply(ctx context.Context, id, reply string, at time.Time) (*domain.Reference, error) {
	row := r.DB.QueryRowContext(ctx,
		`UPDATE user_references SET reply_text = $2, replied_at = $3
		 WHERE id = $1 AND reply_text IS NULL
		 RETURNING `+referenceFullColumns,
		id, reply, at)
	ref, err := scanReferenceFull(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConflict
		}
		return nil, classifyError("references.reply", err)
	}
	return ref, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReferenceFull(row rowScanner) (*domain.Reference, error) {
	var ref domain.Reference
	var sentiment string
	var entityType, entityID, reply sql.NullString
	var repliedAt sql.NullTime
	var edits sql.NullInt64
	if err := row.Scan(&ref.ID, &ref.AuthorID, &ref.RecipientID, &sentiment, &ref.Body, &entityType, &entityID,
		&ref.CreatedAt, &reply, &repliedAt, &edits); err != nil {
		return nil, err
	}
	ref.Sentiment = domain.Sentiment(sentiment)
	ref.EntityType = domain.EntityType(entityType.String)
	ref.EntityID = entityID.String
	ref.ReplyText = reply.String
	ref.RepliedAt = nullTimePtr(repliedAt)
	ref.EditCount = int(edits.Int64)
	return &ref, nil
}

func scanReferenceLegacy(row rowScanner) (*domain.Reference, error) {
	var ref domain.Reference
	var sentiment string
	if err := row.Scan(&ref.ID, &ref.AuthorID, &ref.RecipientID, &sentiment, &ref.Body, &ref.CreatedAt); err != nil {
		return nil, err
	}
	ref.Sentiment = domain.Sentiment(sentiment)
	return &ref, nil
}
