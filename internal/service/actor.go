package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the authenticated user on whose behalf an operation runs.
// Privilegiado is decided by the caller (role gerente); the services only
// consume the flag.
type Actor struct {
	ID           uuid.UUID
	Username     string
	Privilegiado bool
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
