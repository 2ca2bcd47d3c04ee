package postgres

import (
	"context"
	"errors"

	"github.com/baharkarakas/point-ledger/internal/models"
	"github.com/jackc/pgx/v5"
)

type userPointsRepo struct{ q querier }

func (r *userPointsRepo) SelectByID(ctx context.Context, userID int64) (*models.UserPoint, error) {
	var up models.UserPoint
	err := r.q.QueryRow(ctx,
		`SELECT user_id, point, updated_at_ms
		   FROM user_points
		  WHERE user_id=$1`,
		userID,
	).Scan(&up.ID, &up.Point, &up.UpdateMillis)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &up, nil
}

func (r *userPointsRepo) InsertOrUpdate(ctx context.Context, userID, point int64) (*models.UserPoint, error) {
	var up models.UserPoint
	err := r.q.QueryRow(ctx,
		`INSERT INTO user_points(user_id, point, updated_at_ms)
		 VALUES($1, $2, (extract(epoch FROM clock_timestamp()) * 1000)::bigint)
		 ON CONFLICT (user_id) DO UPDATE
		    SET point = EXCLUDED.point,
		        updated_at_ms = EXCLUDED.updated_at_ms
		 RETURNING user_id, point, updated_at_ms`,
		userID, point,
	).Scan(&up.ID, &up.Point, &up.UpdateMillis)
	if err != nil {
		return nil, err
	}
	return &up, nil
}
