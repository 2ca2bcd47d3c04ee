package postgres

import (
	"context"

	repo "github.com/baharkarakas/point-ledger/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the part of *pgxpool.Pool the repositories use.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repositories struct {
	UserPoints     repo.UserPoints
	PointHistories repo.PointHistories
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		UserPoints:     &userPointsRepo{q: pool},
		PointHistories: &pointHistoriesRepo{q: pool},
	}
}
