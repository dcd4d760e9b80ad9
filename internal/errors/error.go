// Package errors provides custom error types for catalog operations.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductConflict  = errors.New("product with this sku already exists")
	ErrDuplicateSKU     = errors.New("duplicate sku")
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	ErrValidation        = errors.New("validation failed")
	ErrInvalidPriceRange = fmt.Errorf("%w: min price must not exceed max price", ErrValidation)
	ErrInvalidPrice      = fmt.Errorf("%w: price must not be negative", ErrValidation)
	ErrInvalidSKU        = fmt.Errorf("%w: sku must not be negative", ErrValidation)
)
