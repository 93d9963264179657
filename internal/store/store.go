// Package store persists client records. Repository is the contract the
// service layer depends on; SQLiteStore is the default implementation and
// MemoryStore is the in-process mock used for demos and tests.
package store

import (
	"context"

	"clientdesk/internal/client"
)

// Repository is the persistence contract for client records.
// Lookups that find nothing return client.ErrNotFound.
type Repository interface {
	List(ctx context.Context) ([]client.Client, error)
	Get(ctx context.Context, id int64) (client.Client, error)
	FindByEmail(ctx context.Context, email string) (client.Client, error)
	Create(ctx context.Context, c client.Client) (client.Client, error)
	Update(ctx context.Context, c client.Client) (client.Client, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// Drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)
