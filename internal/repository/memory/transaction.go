package memory

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
)

type transactor struct{}

// NewTransactor runs fn directly. The memory stores have no rollback, so
// services validate before they write.
func NewTransactor() database.Transactor {
	return transactor{}
}

func (transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
