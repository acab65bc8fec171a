package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"skillmates-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

const profileSelect = `
	SELECT p.user_id, u.username, p.name, p.bio, p.role, p.location, p.expertise_level,
	       p.skills, p.languages, p.availability, p.photo_url, p.pricing,
	       p.social_links::text, p.rating::float8, p.total_sessions,
	       (SELECT COUNT(*) FROM connections c
	         WHERE c.status = 'accepted' AND (c.from_user_id = p.user_id OR c.to_user_id = p.user_id)),
	       p.created_at, p.updated_at
	FROM profiles p
	JOIN users u ON u.id = p.user_id`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p      domain.Profile
		social string
	)
	err := row.Scan(
		&p.UserID, &p.Username, &p.Name, &p.Bio, &p.Role, &p.Location, &p.ExpertiseLevel,
		pq.Array(&p.Skills), pq.Array(&p.Languages), &p.Availability, &p.PhotoURL, &p.Pricing,
		&social, &p.Rating, &p.TotalSessions, &p.TotalConnections,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if social != "" {
		if err := json.Unmarshal([]byte(social), &p.SocialLinks); err != nil {
			return nil, fmt.Errorf("decode social links: %w", err)
		}
	}
	p.ApplyDefaults()
	return &p, nil
}

func collectProfiles(rows pgx.Rows) ([]domain.Profile, error) {
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, profileSelect+` WHERE p.user_id = $1`, userID))
}

func (r *profileRepo) Update(ctx context.Context, p *domain.Profile) error {
	social, err := json.Marshal(p.SocialLinks)
	if err != nil {
		return err
	}

	query := `
		UPDATE profiles SET
			name = $2, bio = $3, role = $4, location = $5, expertise_level = $6,
			skills = $7, languages = $8, availability = $9, pricing = $10,
			social_links = $11::jsonb, updated_at = NOW()
		WHERE user_id = $1`
	tag, err := r.db.Exec(ctx, query,
		p.UserID, p.StoredName(), p.Bio, p.Role, p.Location, p.ExpertiseLevel,
		pq.Array(p.Skills), pq.Array(p.Languages), p.Availability, p.Pricing,
		string(social),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepo) UpdateSkills(ctx context.Context, userID string, skills []string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET skills = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, pq.Array(skills),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepo) UpdatePhoto(ctx context.Context, userID, url string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET photo_url = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, url,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepo) List(ctx context.Context, filter domain.DirectoryFilter, excludeID string) ([]domain.Profile, int, error) {
	conds := []string{"TRUE"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if excludeID != "" {
		conds = append(conds, "p.user_id <> "+arg(excludeID)+"::uuid")
	}
	if filter.Role != "" {
		conds = append(conds, "p.role = "+arg(filter.Role))
	}
	if filter.Expertise != "" {
		conds = append(conds, "p.expertise_level = "+arg(filter.Expertise))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := profileSelect + where +
		` ORDER BY p.created_at DESC, p.user_id LIMIT ` + arg(filter.PageSize) + ` OFFSET ` + arg((filter.Page-1)*filter.PageSize)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	profiles, err := collectProfiles(rows)
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *profileRepo) ListAll(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.Query(ctx, profileSelect+` ORDER BY p.created_at, p.user_id`)
	if err != nil {
		return nil, err
	}
	return collectProfiles(rows)
}

func (r *profileRepo) GetSummaries(ctx context.Context, userIDs []string) (map[string]domain.MemberSummary, error) {
	out := make(map[string]domain.MemberSummary, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT p.user_id, u.username, p.name, p.role, p.photo_url, p.location
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id::text = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.UserID, &p.Username, &p.Name, &p.Role, &p.PhotoURL, &p.Location); err != nil {
			return nil, err
		}
		p.ApplyDefaults()
		out[p.UserID] = p.Summary()
	}
	return out, rows.Err()
}
