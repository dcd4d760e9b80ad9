// Package store provides an interface for catalog storage operations.
package store

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "github.com/abgdnv/shoecatalog/internal/errors"
)

// Product is the persisted representation of a shoe in the catalog.
// The sku is the primary key and never changes once the record is created.
type Product struct {
	SKU         int64   `bson:"sku"         db:"sku"`
	Name        string  `bson:"name"        db:"name"`
	Price       float64 `bson:"price"       db:"price"`
	Available   bool    `bson:"available"   db:"available"`
	Description string  `bson:"description" db:"description"`
}

// ProductStore is an interface for catalog storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, mongo, postgres).
// Driver failures are reported wrapped with ErrStoreUnavailable.
type ProductStore interface {
	// FindAll returns every stored product in store-native order.
	// Returns an empty slice if the catalog is empty.
	FindAll(ctx context.Context) ([]Product, error)

	// Find returns the products matching the query, sorted when the query asks for it.
	// Returns an empty slice if nothing matches.
	Find(ctx context.Context, q Query) ([]Product, error)

	// FindBySKU retrieves a single product by its sku.
	// Returns ErrProductNotFound if no product exists with the given sku.
	FindBySKU(ctx context.Context, sku int64) (*Product, error)

	// Insert persists a new product.
	// Returns ErrDuplicateSKU if a product with the same sku already exists.
	Insert(ctx context.Context, p Product) error

	// ReplaceBySKU overwrites every field of the product stored under sku in a single write.
	// Returns ErrProductNotFound if no product exists with the given sku.
	ReplaceBySKU(ctx context.Context, sku int64, p Product) error

	// DeleteBySKU removes the product and reports whether a record was removed.
	DeleteBySKU(ctx context.Context, sku int64) (bool, error)

	// Ping checks that the underlying store is reachable.
	Ping(ctx context.Context) error
}

// storeError wraps a driver failure with ErrStoreUnavailable.
// A cancelled caller is not a store failure and keeps its own error.
func storeError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", op, catalogerrors.ErrStoreUnavailable, err)
}
