package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/usnistgov/oar-customer-service/logging"
)

var logger = logging.Log()

var (
	ErrNotFound      = errors.New("document_not_found")
	ErrAlreadyExists = errors.New("document_already_exists")
)

const (
	RecordsTable    = "records"
	PublicKeysTable = "public_keys"
)

/**
* A named collection of json documents, keyed by a string id.
 */
type Table interface {
	Name() string
	// Get returns the raw document or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)
	// Insert fails with ErrAlreadyExists if the id is taken.
	Insert(ctx context.Context, id string, document []byte) error
	// Update replaces an existing document, ErrNotFound otherwise.
	Update(ctx context.Context, id string, document []byte) error
	Remove(ctx context.Context, id string) error
	Truncate(ctx context.Context) error
	// Ping checks that the backing storage is reachable.
	Ping(ctx context.Context) error
}

func notFound(table string, id string) error {
	return fmt.Errorf("%s/%s: %w", table, id, ErrNotFound)
}

func alreadyExists(table string, id string) error {
	return fmt.Errorf("%s/%s: %w", table, id, ErrAlreadyExists)
}
