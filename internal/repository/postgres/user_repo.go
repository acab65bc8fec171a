package postgres

import (
	"context"
	"errors"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
)

// notFound maps missing rows, and ids that are not valid UUIDs, to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidText {
		return domain.ErrNotFound
	}
	return err
}

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			return mapUserConflict(err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO profiles (user_id, name, role, skills, languages, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
			user.ID, profile.StoredName(), profile.Role, pq.Array(profile.Skills), pq.Array(profile.Languages), user.CreatedAt,
		)
		if err != nil {
			return apperror.Internal(err)
		}
		return nil
	})
}

// mapUserConflict turns unique violations into a Conflict naming the taken field.
func mapUserConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return apperror.Internal(err)
	}
	switch pgErr.ConstraintName {
	case "users_username_key", "idx_users_username_lower":
		return apperror.Conflict("Username is already taken")
	case "users_email_key", "idx_users_email_lower":
		return apperror.Conflict("An account with this email already exists")
	default:
		return apperror.Conflict("User already exists")
	}
}

const userColumns = `id, username, email, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE lower(username) = lower($1) OR lower(email) = lower($1)
	          LIMIT 1`
	return scanUser(r.db.QueryRow(ctx, query, identifier))
}

func (r *userRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if errors.Is(notFound(err), domain.ErrNotFound) {
		return false, nil
	}
	return exists, err
}
