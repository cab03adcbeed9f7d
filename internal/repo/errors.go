package repo

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

var (
	// ErrProductNotFound is returned when a product does not exist for the caller.
	ErrProductNotFound = errors.New("product not found")
	// ErrRecordNotFound is returned when a category or supplier does not exist for the caller.
	ErrRecordNotFound = errors.New("record not found")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicatedValueUnique is returned when a unique constraint is violated.
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
)

// DefaultTimeout bounds every store call made by the SQL repositories.
const DefaultTimeout = 3 * time.Second

var callTimeout atomic.Int64

// SetCallTimeout changes the per-call timeout. Non-positive values restore DefaultTimeout.
func SetCallTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	callTimeout.Store(int64(d))
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	d := time.Duration(callTimeout.Load())
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
