package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/baharkarakas/point-ledger/internal/metrics"
	"github.com/baharkarakas/point-ledger/internal/models"
	repo "github.com/baharkarakas/point-ledger/internal/repository"
	"github.com/baharkarakas/point-ledger/internal/userlock"
)

type PointServiceConfig struct {
	// LockTimeout bounds the wait for a user lock. Zero waits forever.
	LockTimeout time.Duration
	Now         func() time.Time
	Logger      *slog.Logger
}

// PointService charges and spends user points. Mutations on one user run one
// at a time under that user's lock; reads take no lock.
type PointService struct {
	points  repo.UserPoints
	history repo.PointHistories
	locks   *userlock.Registry
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger
}

func NewPointService(p repo.UserPoints, h repo.PointHistories, locks *userlock.Registry, cfg PointServiceConfig) *PointService {
	s := &PointService{points: p, history: h, locks: locks, timeout: cfg.LockTimeout, now: cfg.Now, log: cfg.Logger}
	if s.locks == nil {
		s.locks = userlock.NewRegistry()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// ----------------- Helpers -----------------

func validateUserID(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user id must be greater than 0", ErrInvalidArgument)
	}
	return nil
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than 0", ErrInvalidArgument)
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrStorageFailure):
		return "storage_failure"
	case errors.Is(err, ErrInvariantViolation):
		return "invariant_violation"
	case errors.Is(err, ErrLockTimeout):
		return "lock_timeout"
	default:
		return "error"
	}
}

func (s *PointService) record(op string, err error) {
	metrics.PointOperations.WithLabelValues(op, resultLabel(err)).Inc()
}

// withUserLock runs fn while holding userID's lock.
func (s *PointService) withUserLock(ctx context.Context, userID int64, fn func() error) error {
	lockCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	l, err := s.locks.Acquire(lockCtx, userID)
	metrics.LockWait.Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: user %d after %s", ErrLockTimeout, userID, s.timeout)
		}
		return err
	}
	metrics.LockRegistryEntries.Set(float64(s.locks.Len()))
	defer func() {
		s.locks.Release(userID, l)
		metrics.LockRegistryEntries.Set(float64(s.locks.Len()))
	}()

	return fn()
}

// currentPoint reads the stored balance, treating a missing row as zero.
func (s *PointService) currentPoint(ctx context.Context, userID int64) (int64, error) {
	up, err := s.points.SelectByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: read balance: %w", ErrStorageFailure, err)
	}
	if up == nil {
		return 0, nil
	}
	return up.Point, nil
}

// commit writes the new balance and, only once that write produced a row,
// appends the history record. The caller's cancellation is honoured up to the
// balance write; from there both writes run to completion. If the history
// append fails the balance is put back to prev, so a STORAGE_FAILURE leaves
// no partial state behind.
func (s *PointService) commit(ctx context.Context, userID, prev, next, amount int64, kind models.TransactionType) (models.UserPoint, error) {
	if err := ctx.Err(); err != nil {
		return models.UserPoint{}, err
	}
	wctx := context.WithoutCancel(ctx)

	up, err := s.points.InsertOrUpdate(wctx, userID, next)
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("%w: write balance: %w", ErrStorageFailure, err)
	}
	if up == nil {
		return models.UserPoint{}, fmt.Errorf("%w: write balance: no row returned for user %d", ErrStorageFailure, userID)
	}

	h, err := s.history.Insert(wctx, userID, amount, kind, s.now().UnixMilli())
	if err == nil && h == nil {
		err = fmt.Errorf("no record returned for user %d", userID)
	}
	if err != nil {
		s.rollback(wctx, userID, prev, next)
		return models.UserPoint{}, fmt.Errorf("%w: append history: %w", ErrStorageFailure, err)
	}
	return *up, nil
}

// rollback restores the balance a failed commit overwrote. The user lock is
// still held, so nothing else can have moved it in between.
func (s *PointService) rollback(ctx context.Context, userID, prev, next int64) {
	if _, err := s.points.InsertOrUpdate(ctx, userID, prev); err != nil {
		s.log.Error("balance rollback failed", "user_id", userID, "point", next, "want", prev, "err", err)
		return
	}
	s.log.Warn("balance rolled back after history failure", "user_id", userID, "point", prev)
}

func (s *PointService) logFailure(op string, userID, amount int64, err error) {
	switch {
	case errors.Is(err, ErrInvariantViolation):
		s.log.Error("point invariant violated", "op", op, "user_id", userID, "amount", amount, "err", err)
	case errors.Is(err, ErrStorageFailure), errors.Is(err, ErrLockTimeout):
		s.log.Error("point operation failed", "op", op, "user_id", userID, "amount", amount, "err", err)
	default:
		s.log.Info("point operation rejected", "op", op, "user_id", userID, "amount", amount, "err", err)
	}
}

// ----------------- CHARGE -----------------

// Charge adds amount to the user's balance and records a CHARGE entry.
func (s *PointService) Charge(ctx context.Context, userID, amount int64) (models.UserPoint, error) {
	up, err := s.charge(ctx, userID, amount)
	s.record("charge", err)
	if err != nil {
		s.logFailure("charge", userID, amount, err)
		return models.UserPoint{}, err
	}
	s.log.Info("points charged", "user_id", userID, "amount", amount, "point", up.Point)
	return up, nil
}

func (s *PointService) charge(ctx context.Context, userID, amount int64) (models.UserPoint, error) {
	if err := validateUserID(userID); err != nil {
		return models.UserPoint{}, err
	}
	if err := validateAmount(amount); err != nil {
		return models.UserPoint{}, err
	}

	var out models.UserPoint
	err := s.withUserLock(ctx, userID, func() error {
		current, err := s.currentPoint(ctx, userID)
		if err != nil {
			return err
		}
		if current > math.MaxInt64-amount {
			return fmt.Errorf("%w: charging %d would overflow balance %d", ErrInvalidArgument, amount, current)
		}
		out, err = s.commit(ctx, userID, current, current+amount, amount, models.TxnCharge)
		return err
	})
	return out, err
}

// ----------------- USE -----------------

// Use spends amount from the user's balance and records a USE entry.
// A rejected call leaves both balance and history untouched.
func (s *PointService) Use(ctx context.Context, userID, amount int64) (models.UserPoint, error) {
	up, err := s.use(ctx, userID, amount)
	s.record("use", err)
	if err != nil {
		s.logFailure("use", userID, amount, err)
		return models.UserPoint{}, err
	}
	s.log.Info("points used", "user_id", userID, "amount", amount, "point", up.Point)
	return up, nil
}

func (s *PointService) use(ctx context.Context, userID, amount int64) (models.UserPoint, error) {
	if err := validateUserID(userID); err != nil {
		return models.UserPoint{}, err
	}
	if err := validateAmount(amount); err != nil {
		return models.UserPoint{}, err
	}

	var out models.UserPoint
	err := s.withUserLock(ctx, userID, func() error {
		current, err := s.currentPoint(ctx, userID)
		if err != nil {
			return err
		}
		if current < amount {
			return fmt.Errorf("%w: user %d has %d, needs %d", ErrInsufficientBalance, userID, current, amount)
		}
		next := current - amount
		if next < 0 {
			return fmt.Errorf("%w: balance of user %d would become %d", ErrInvariantViolation, userID, next)
		}
		out, err = s.commit(ctx, userID, current, next, amount, models.TxnUse)
		return err
	})
	return out, err
}

// ----------------- Queries -----------------

// GetUserPoint returns the stored balance, or a zero balance for unknown users.
func (s *PointService) GetUserPoint(ctx context.Context, userID int64) (models.UserPoint, error) {
	up, err := s.getUserPoint(ctx, userID)
	s.record("get_point", err)
	return up, err
}

func (s *PointService) getUserPoint(ctx context.Context, userID int64) (models.UserPoint, error) {
	if err := validateUserID(userID); err != nil {
		return models.UserPoint{}, err
	}
	up, err := s.points.SelectByID(ctx, userID)
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("%w: read balance: %w", ErrStorageFailure, err)
	}
	if up == nil {
		return models.UserPoint{ID: userID, UpdateMillis: s.now().UnixMilli()}, nil
	}
	return *up, nil
}

// GetPointHistory returns the user's records in the order they were committed.
// The result is never nil.
func (s *PointService) GetPointHistory(ctx context.Context, userID int64) ([]models.PointHistory, error) {
	hs, err := s.getPointHistory(ctx, userID)
	s.record("get_history", err)
	return hs, err
}

func (s *PointService) getPointHistory(ctx context.Context, userID int64) ([]models.PointHistory, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	hs, err := s.history.SelectAllByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: read history: %w", ErrStorageFailure, err)
	}
	if hs == nil {
		return []models.PointHistory{}, nil
	}
	return hs, nil
}
