// Package staging holds uploaded tables between upload and analysis.
//
// A staged file is written once under a generated identifier and read back
// by that identifier. Two backends implement Store: FileStore keeps bytes on
// the local filesystem and PostgresStore keeps them in a bytea column.
package staging

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no staged file has the requested id.
	ErrNotFound = errors.New("staged file not found")

	// ErrInvalidID is returned for ids that are not generated by NewID.
	ErrInvalidID = errors.New("invalid staged file id")
)

// File is a staged upload.
type File struct {
	ID        string
	Name      string
	Data      []byte
	Size      int64
	CreatedAt time.Time
}

// Store persists staged uploads.
type Store interface {
	// Put stores data under a new id and returns the staged file.
	Put(ctx context.Context, name string, data []byte) (*File, error)
	// Get returns the staged file, or ErrNotFound.
	Get(ctx context.Context, id string) (*File, error)
	// Delete removes a staged file. Deleting a missing file is not an error.
	Delete(ctx context.Context, id string) error
	// PurgeOlderThan removes files staged before cutoff and reports how many.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// NewID generates a staged file id.
func NewID() string {
	return uuid.NewString()
}

// ValidateID rejects anything that is not a UUID. Ids end up in file paths
// and SQL parameters, so only the canonical form is accepted.
func ValidateID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return ErrInvalidID
	}
	return nil
}
