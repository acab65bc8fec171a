package postgres

import (
	"context"
	"errors"
	"time"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type connectionRepo struct {
	db *pgxpool.Pool
}

func NewConnectionRepository(db *pgxpool.Pool) domain.ConnectionRepository {
	return &connectionRepo{db: db}
}

const connectionColumns = `id, from_user_id, from_name, to_user_id, to_name, status, created_at, responded_at`

func scanConnection(row pgx.Row) (*domain.Connection, error) {
	var c domain.Connection
	err := row.Scan(&c.ID, &c.FromUserID, &c.FromName, &c.ToUserID, &c.ToName, &c.Status, &c.CreatedAt, &c.RespondedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *connectionRepo) list(ctx context.Context, query string, args ...interface{}) ([]domain.Connection, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conns := []domain.Connection{}
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, *c)
	}
	return conns, rows.Err()
}

func (r *connectionRepo) Create(ctx context.Context, c *domain.Connection) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO connections (`+connectionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.FromUserID, c.FromName, c.ToUserID, c.ToName, c.Status, c.CreatedAt, c.RespondedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		// idx_connections_active_pair: another pending or accepted row already links this pair
		return apperror.Conflict("Connection request already exists")
	}
	return err
}

func (r *connectionRepo) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	return scanConnection(r.db.QueryRow(ctx, `SELECT `+connectionColumns+` FROM connections WHERE id = $1`, id))
}

func (r *connectionRepo) Between(ctx context.Context, a, b string) ([]domain.Connection, error) {
	return r.list(ctx, `SELECT `+connectionColumns+` FROM connections
		WHERE (from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1)
		ORDER BY created_at`, a, b)
}

func (r *connectionRepo) ListForUser(ctx context.Context, userID string) ([]domain.Connection, error) {
	return r.list(ctx, `SELECT `+connectionColumns+` FROM connections
		WHERE (from_user_id = $1 OR to_user_id = $1) AND status IN ('pending', 'accepted')
		ORDER BY created_at`, userID)
}

func (r *connectionRepo) ListIncomingPending(ctx context.Context, userID string) ([]domain.Connection, error) {
	return r.list(ctx, `SELECT `+connectionColumns+` FROM connections
		WHERE to_user_id = $1 AND status = 'pending'
		ORDER BY created_at DESC`, userID)
}

func (r *connectionRepo) ListAccepted(ctx context.Context, userID string) ([]domain.Connection, error) {
	return r.list(ctx, `SELECT `+connectionColumns+` FROM connections
		WHERE (from_user_id = $1 OR to_user_id = $1) AND status = 'accepted'
		ORDER BY responded_at DESC NULLS LAST`, userID)
}

func (r *connectionRepo) UpdateStatus(ctx context.Context, id string, status domain.ConnectionStatus, respondedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE connections SET status = $2, responded_at = $3 WHERE id = $1 AND status = 'pending'`,
		id, status, respondedAt,
	)
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *connectionRepo) CountAccepted(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM connections
		WHERE (from_user_id = $1 OR to_user_id = $1) AND status = 'accepted'`, userID).Scan(&n)
	return n, err
}

func (r *connectionRepo) CountIncomingPending(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM connections
		WHERE to_user_id = $1 AND status = 'pending'`, userID).Scan(&n)
	return n, err
}
