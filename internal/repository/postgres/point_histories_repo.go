package postgres

import (
	"context"

	"github.com/baharkarakas/point-ledger/internal/models"
)

type pointHistoriesRepo struct{ q querier }

func (r *pointHistoriesRepo) Insert(ctx context.Context, userID, amount int64, kind models.TransactionType, updateMillis int64) (*models.PointHistory, error) {
	var (
		h   models.PointHistory
		typ string
	)
	err := r.q.QueryRow(ctx,
		`INSERT INTO point_histories(user_id, amount, type, updated_at_ms)
		 VALUES($1, $2, $3, $4)
		 RETURNING id, user_id, amount, type, updated_at_ms`,
		userID, amount, string(kind), updateMillis,
	).Scan(&h.ID, &h.UserID, &h.Amount, &typ, &h.UpdateMillis)
	if err != nil {
		return nil, err
	}
	h.Type = models.TransactionType(typ)
	return &h, nil
}

func (r *pointHistoriesRepo) SelectAllByUserID(ctx context.Context, userID int64) ([]models.PointHistory, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, user_id, amount, type, updated_at_ms
		   FROM point_histories
		  WHERE user_id=$1
		  ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PointHistory{}
	for rows.Next() {
		var (
			h   models.PointHistory
			typ string
		)
		if err := rows.Scan(&h.ID, &h.UserID, &h.Amount, &typ, &h.UpdateMillis); err != nil {
			return nil, err
		}
		h.Type = models.TransactionType(typ)
		out = append(out, h)
	}
	return out, rows.Err()
}
