package repository

import (
	"context"

	"github.com/baharkarakas/point-ledger/internal/models"
)

// UserPoints is the balance store. Each call is atomic on its own; nothing
// spans two calls.
type UserPoints interface {
	// SelectByID returns nil when the user has no stored balance.
	SelectByID(ctx context.Context, userID int64) (*models.UserPoint, error)
	InsertOrUpdate(ctx context.Context, userID, point int64) (*models.UserPoint, error)
}

// PointHistories is the append-only ledger store.
type PointHistories interface {
	Insert(ctx context.Context, userID, amount int64, kind models.TransactionType, updateMillis int64) (*models.PointHistory, error)
	// SelectAllByUserID returns the user's records in insertion order.
	SelectAllByUserID(ctx context.Context, userID int64) ([]models.PointHistory, error)
}
