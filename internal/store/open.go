package store

import (
	"context"
	"fmt"
)

// Open returns the repository for driver. path is only used by sqlite.
func Open(ctx context.Context, driver, path string) (Repository, error) {
	switch driver {
	case DriverSQLite, "":
		return NewSQLiteStore(ctx, path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
