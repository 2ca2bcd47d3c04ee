// Package memory holds in-process point tables. They stand in for a real
// database: every call is atomic, nothing more, and each call may be slowed
// down by a random delay to make interleavings visible.
package memory

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
	repo "github.com/baharkarakas/point-ledger/internal/repository"
)

func throttle(ctx context.Context, max time.Duration) error {
	if max <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(rand.N(max))
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type UserPointTable struct {
	mu      sync.RWMutex
	rows    map[int64]models.UserPoint
	latency time.Duration
}

func NewUserPointTable(latency time.Duration) *UserPointTable {
	return &UserPointTable{rows: make(map[int64]models.UserPoint), latency: latency}
}

func (t *UserPointTable) SelectByID(ctx context.Context, userID int64) (*models.UserPoint, error) {
	if err := throttle(ctx, t.latency); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[userID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (t *UserPointTable) InsertOrUpdate(ctx context.Context, userID, point int64) (*models.UserPoint, error) {
	if err := throttle(ctx, t.latency); err != nil {
		return nil, err
	}
	row := models.UserPoint{ID: userID, Point: point, UpdateMillis: time.Now().UnixMilli()}
	t.mu.Lock()
	t.rows[userID] = row
	t.mu.Unlock()
	return &row, nil
}

type PointHistoryTable struct {
	mu      sync.RWMutex
	rows    []models.PointHistory
	nextID  int64
	latency time.Duration
}

func NewPointHistoryTable(latency time.Duration) *PointHistoryTable {
	return &PointHistoryTable{nextID: 1, latency: latency}
}

func (t *PointHistoryTable) Insert(ctx context.Context, userID, amount int64, kind models.TransactionType, updateMillis int64) (*models.PointHistory, error) {
	if err := throttle(ctx, t.latency); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	h := models.PointHistory{
		ID:           t.nextID,
		UserID:       userID,
		Amount:       amount,
		Type:         kind,
		UpdateMillis: updateMillis,
	}
	t.nextID++
	t.rows = append(t.rows, h)
	return &h, nil
}

func (t *PointHistoryTable) SelectAllByUserID(ctx context.Context, userID int64) ([]models.PointHistory, error) {
	if err := throttle(ctx, t.latency); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []models.PointHistory
	for _, h := range t.rows {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

var (
	_ repo.UserPoints     = (*UserPointTable)(nil)
	_ repo.PointHistories = (*PointHistoryTable)(nil)
)
