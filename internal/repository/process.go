package repository

import (
	"context"

	"processapi/internal/model"
)

// ProcessRepository defines data access for processes using SQL queries only.
// No business logic here, strictly persistence operations.
type ProcessRepository interface {
	// Create inserts a new process record and returns the stored row.
	Create(ctx context.Context, p *model.Process) (*model.Process, error)

	// FindByID returns a process by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Process, error)
}
