package models

// UserPoint is the current point balance of one user.
// A user without a stored row is read as a zero balance.
type UserPoint struct {
	ID           int64 `json:"id"`
	Point        int64 `json:"point"`
	UpdateMillis int64 `json:"updateMillis"`
}
