package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"dancehub/internal/domain"
)

const profileFullColumns = `p.user_id, p.display_name, p.city, p.country, p.avatar_url, p.roles, p.languages, p.dance_skills, p.verified`

const profileMinimalColumns = `p.user_id, p.display_name, p.city, p.country, p.avatar_url, p.roles, p.dance_skills`

type profileRepository struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// NewProfileRepository returns a domain.ProfileRepository implemented with Postgres.
// GetContact reads auth.users and needs a connection with the service credential.
func NewProfileRepository(db *sql.DB, logger *slog.Logger) domain.ProfileRepository {
	return &profileRepository{DB: db, Logger: logger}
}

func profileProjections(from, tail string) []Projection[*domain.Profile] {
	return []Projection[*domain.Profile]{
		{Name: "full", Query: `SELECT ` + profileFullColumns + ` FROM ` + from + ` ` + tail, Scan: scanProfileFull},
		{Name: "minimal", Query: `SELECT ` + profileMinimalColumns + ` FROM ` + from + ` ` + tail, Scan: scanProfileMinimal},
	}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	profiles, err := queryProjections(ctx, r.DB, r.Logger, "profiles.by_user",
		profileProjections("profiles p", `WHERE p.user_id = $1`), userID)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, domain.ErrNotFound
	}
	return profiles[0], nil
}

func (r *profileRepository) GetContact(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	var name, email sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT p.user_id, p.display_name, u.email
		 FROM profiles p
		 LEFT JOIN auth.users u ON u.id = p.user_id
		 WHERE p.user_id = $1`, userID).Scan(&p.UserID, &name, &email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, classifyError("profiles.contact", err)
	}
	p.DisplayName = name.String
	p.Email = email.String
	return &p, nil
}

func (r *profileRepository) List(ctx context.Context, excludeUserID string, params domain.PaginationParams) ([]*domain.Profile, error) {
	return queryProjections(ctx, r.DB, r.Logger, "profiles.list",
		profileProjections("profiles p", `WHERE p.user_id <> $1 ORDER BY p.display_name LIMIT $2 OFFSET $3`),
		excludeUserID, params.Limit(), params.Offset())
}

func scanProfileFull(rows *sql.Rows) (*domain.Profile, error) {
	var p domain.Profile
	var name, city, country, avatar sql.NullString
	var skills []byte
	var verified sql.NullBool
	if err := rows.Scan(&p.UserID, &name, &city, &country, &avatar,
		pq.Array(&p.Roles), pq.Array(&p.Languages), &skills, &verified); err != nil {
		return nil, err
	}
	p.DisplayName, p.City, p.Country, p.AvatarURL = name.String, city.String, country.String, avatar.String
	p.Verified = verified.Bool
	if err := decodeSkills(skills, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProfileMinimal(rows *sql.Rows) (*domain.Profile, error) {
	var p domain.Profile
	var name, city, country, avatar sql.NullString
	var skills []byte
	if err := rows.Scan(&p.UserID, &name, &city, &country, &avatar, pq.Array(&p.Roles), &skills); err != nil {
		return nil, err
	}
	p.DisplayName, p.City, p.Country, p.AvatarURL = name.String, city.String, country.String, avatar.String
	if err := decodeSkills(skills, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeSkills(raw []byte, p *domain.Profile) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &p.DanceSkills); err != nil {
		return fmt.Errorf("decode dance_skills for %s: %w", p.UserID, err)
	}
	return nil
}
