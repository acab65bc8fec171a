package usecase

import (
	"context"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthUsecase struct {
	db    Pinger
	redis func(ctx context.Context) error
}

// NewHealthUsecase reports dependency status. redisCheck may be nil when Redis is not configured.
func NewHealthUsecase(db Pinger, redisCheck func(ctx context.Context) error) HealthUsecase {
	return &healthUsecase{db: db, redis: redisCheck}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out := map[string]string{
		"status":   "ok",
		"database": "ok",
		"redis":    "disabled",
	}
	if u.db == nil || u.db.Ping(ctx) != nil {
		out["database"] = "unavailable"
		out["status"] = "degraded"
	}
	if u.redis != nil {
		if err := u.redis(ctx); err != nil {
			out["redis"] = "unavailable"
			out["status"] = "degraded"
		} else {
			out["redis"] = "ok"
		}
	}
	return out
}
