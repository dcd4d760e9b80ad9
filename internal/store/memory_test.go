package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	catalogerrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	for _, p := range catalogFixture() {
		require.NoError(t, s.Insert(context.Background(), p))
	}
	return s
}

func Test_MemoryStore_Insert(t *testing.T) {
	// given
	s := seededMemoryStore(t)
	// when
	err := s.Insert(context.Background(), Product{SKU: 1, Name: "Another"})
	// then
	assert.ErrorIs(t, err, catalogerrors.ErrDuplicateSKU)
	found, err := s.FindBySKU(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "City Loafer", found.Name, "existing record must be untouched")
}

func Test_MemoryStore_FindAll(t *testing.T) {
	t.Run("empty store returns an empty list", func(t *testing.T) {
		products, err := NewMemoryStore().FindAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})
	t.Run("insertion order is preserved", func(t *testing.T) {
		products, err := seededMemoryStore(t).FindAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 1, 2, 4}, skus(products))
	})
}

func Test_MemoryStore_FindBySKU(t *testing.T) {
	s := seededMemoryStore(t)

	found, err := s.FindBySKU(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, Product{SKU: 4, Name: "Sandal", Price: 25.5, Available: true}, *found)

	_, err = s.FindBySKU(context.Background(), 99)
	assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound)
}

func Test_MemoryStore_ReplaceBySKU(t *testing.T) {
	testCases := []struct {
		name        string
		sku         int64
		expectError error
	}{
		{name: "Success - existing product", sku: 2},
		{name: "Error - product not found", sku: 42, expectError: catalogerrors.ErrProductNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := seededMemoryStore(t)
			replacement := Product{SKU: 999, Name: "Replaced", Price: 10, Description: "new"}
			// when
			err := s.ReplaceBySKU(context.Background(), tc.sku, replacement)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			found, err := s.FindBySKU(context.Background(), tc.sku)
			require.NoError(t, err)
			assert.Equal(t, Product{SKU: tc.sku, Name: "Replaced", Price: 10, Description: "new"}, *found)
			_, err = s.FindBySKU(context.Background(), 999)
			assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound, "sku must not change")
		})
	}
}

func Test_MemoryStore_DeleteBySKU(t *testing.T) {
	s := seededMemoryStore(t)

	removed, err := s.DeleteBySKU(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.DeleteBySKU(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, removed)

	products, err := s.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 4}, skus(products))
}

func Test_MemoryStore_CancelledContext(t *testing.T) {
	// given
	s := seededMemoryStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// when
	_, err := s.Find(ctx, Query{})
	// then
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_MemoryStore_ConcurrentInsert(t *testing.T) {
	// given
	s := NewMemoryStore()
	const workers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
	)
	// when
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Insert(context.Background(), Product{SKU: 7, Name: fmt.Sprintf("worker-%d", i)})
			if err == nil {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	// then
	assert.Equal(t, 1, inserted, "exactly one insert of the same sku must succeed")
	products, err := s.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
