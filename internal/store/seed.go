package store

import (
	"context"
	"fmt"
	"time"

	"clientdesk/internal/client"
)

// IsEmpty reports whether repo holds no clients.
func IsEmpty(ctx context.Context, repo Repository) (bool, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// SeedData inserts the four sample clients used by the demo.
func SeedData(ctx context.Context, repo Repository) error {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	seeds := []client.Client{
		{
			Name: "John Doe", Email: "john.doe@example.com", Phone: "+1-555-123-4567",
			Company: "Acme Corp", Address: "123 Main St, Anytown, USA",
			Status: client.StatusActive, CreatedAt: day(2024, 1, 15), UpdatedAt: day(2024, 1, 15),
		},
		{
			Name: "Jane Smith", Email: "jane.smith@example.com", Phone: "+1-555-987-6543",
			Company: "Tech Solutions Inc", Address: "456 Oak Ave, Somewhere, USA",
			Status: client.StatusActive, CreatedAt: day(2024, 1, 20), UpdatedAt: day(2024, 1, 20),
		},
		{
			Name: "Bob Johnson", Email: "bob.johnson@example.com", Phone: "+1-555-456-7890",
			Company: "Global Industries", Address: "789 Pine Rd, Elsewhere, USA",
			Status: client.StatusInactive, CreatedAt: day(2024, 1, 10), UpdatedAt: day(2024, 1, 25),
		},
		{
			Name: "Alice Brown", Email: "alice.brown@example.com", Phone: "+1-555-789-0123",
			Company: "Startup Ventures", Address: "321 Elm St, Nowhere, USA",
			Status: client.StatusActive, CreatedAt: day(2024, 2, 1), UpdatedAt: day(2024, 2, 1),
		},
	}

	for _, c := range seeds {
		if _, err := repo.Create(ctx, c); err != nil {
			return fmt.Errorf("seed %q: %w", c.Name, err)
		}
	}
	return nil
}
