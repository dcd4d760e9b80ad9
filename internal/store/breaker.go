package store

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/sony/gobreaker/v2"
)

// BreakerStore guards a ProductStore with a circuit breaker.
// While the breaker is open every call fails fast with ErrStoreUnavailable.
type BreakerStore struct {
	next ProductStore
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerStore wraps next with the given circuit breaker.
func NewBreakerStore(next ProductStore, cb *gobreaker.CircuitBreaker[any]) *BreakerStore {
	return &BreakerStore{next: next, cb: cb}
}

// IsStoreSuccess reports whether err should be counted as a healthy store response.
// Only ErrStoreUnavailable trips the breaker; NotFound and DuplicateKey are business outcomes.
func IsStoreSuccess(err error) bool {
	return err == nil || !errors.Is(err, catalogerrors.ErrStoreUnavailable)
}

func (b *BreakerStore) FindAll(ctx context.Context) ([]Product, error) {
	return guard(b, func() ([]Product, error) { return b.next.FindAll(ctx) })
}

func (b *BreakerStore) Find(ctx context.Context, q Query) ([]Product, error) {
	return guard(b, func() ([]Product, error) { return b.next.Find(ctx, q) })
}

func (b *BreakerStore) FindBySKU(ctx context.Context, sku int64) (*Product, error) {
	return guard(b, func() (*Product, error) { return b.next.FindBySKU(ctx, sku) })
}

func (b *BreakerStore) Insert(ctx context.Context, p Product) error {
	_, err := guard(b, func() (struct{}, error) { return struct{}{}, b.next.Insert(ctx, p) })
	return err
}

func (b *BreakerStore) ReplaceBySKU(ctx context.Context, sku int64, p Product) error {
	_, err := guard(b, func() (struct{}, error) { return struct{}{}, b.next.ReplaceBySKU(ctx, sku, p) })
	return err
}

func (b *BreakerStore) DeleteBySKU(ctx context.Context, sku int64) (bool, error) {
	return guard(b, func() (bool, error) { return b.next.DeleteBySKU(ctx, sku) })
}

// Ping bypasses the breaker so health checks observe the real store state.
func (b *BreakerStore) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

// State returns the current breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func guard[T any](b *BreakerStore, fn func() (T, error)) (T, error) {
	var zero T
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %w", catalogerrors.ErrStoreUnavailable, err)
		}
		return zero, err
	}
	return res.(T), nil
}
