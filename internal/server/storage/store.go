package storage

import (
	"context"

	"github.com/iudanet/fortress/internal/models"
)

// Store defines the whole-file persistence interface for the user record
// set. The record set is always read and written as one unit; there is no
// partial or incremental persistence.
type Store interface {
	// LoadAll reads every record from the backing file, in file order.
	// A missing file yields an empty set, not an error.
	LoadAll(ctx context.Context) ([]models.User, error)

	// SaveAll overwrites the backing file with the full record set.
	SaveAll(ctx context.Context, users []models.User) error
}
