// Package service provides the implementation of catalog business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	catalogerrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/abgdnv/shoecatalog/internal/store"
	"github.com/abgdnv/shoecatalog/pkg/messaging"
	"github.com/abgdnv/shoecatalog/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CatalogService defines the operations on the shoe catalog.
// Listings never fail on absence and return an empty slice instead.
type CatalogService interface {
	// ListAll returns the catalog filtered by name and availability, sorted by the requested key.
	ListAll(ctx context.Context, opts ListOptions) ([]ProductDto, error)

	// ListByPriceRange returns products with minPrice <= price <= maxPrice.
	// Returns ErrInvalidPriceRange if minPrice > maxPrice.
	ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]ProductDto, error)

	// ListByAvailability returns products whose availability equals available.
	ListByAvailability(ctx context.Context, available bool) ([]ProductDto, error)

	// Create adds a new product under sku.
	// Returns ErrProductConflict if a product with the same sku already exists.
	Create(ctx context.Context, sku int64, product ProductWriteDto) (*ProductDto, error)

	// Update replaces every field except the sku and returns the stored product.
	// Returns ErrProductNotFound if no product exists with the given sku.
	Update(ctx context.Context, sku int64, product ProductWriteDto) (*ProductDto, error)

	// Delete removes the product and returns the remaining catalog.
	// Returns ErrProductNotFound if no product exists with the given sku.
	Delete(ctx context.Context, sku int64) ([]ProductDto, error)
}

// Service implements CatalogService on top of a ProductStore.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	logger     *slog.Logger
	mutations  metric.Int64Counter
	now        func() time.Time
}

// NewService creates a new instance of CatalogService with the provided repository and event publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter("catalog-service")
	mutations, err := meter.Int64Counter("catalog_mutations", metric.WithDescription("Total number of successful catalog mutations"))
	if err != nil {
		panic(fmt.Sprintf("failed to create catalog_mutations counter: %v", err))
	}
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{
		repository: repo,
		publisher:  publisher,
		logger:     logger.With("component", "service"),
		mutations:  mutations,
		now:        time.Now,
	}
}

// ListOptions are the optional parameters of ListAll.
type ListOptions struct {
	SortBy        store.SortKey
	Name          string
	AvailableOnly bool
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	SKU         int64   `json:"sku"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
	Description string  `json:"description"`
}

// ProductWriteDto represents the writable fields of a product. The sku comes from the request path.
type ProductWriteDto struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Available   bool    `json:"available"`
	Description string  `json:"description" validate:"max=1000"`
}

func (s *Service) ListAll(ctx context.Context, opts ListOptions) ([]ProductDto, error) {
	q := store.Query{Name: opts.Name, Sort: opts.SortBy}
	if opts.AvailableOnly {
		available := true
		q.Available = &available
	}
	return s.find(ctx, q)
}

func (s *Service) ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]ProductDto, error) {
	if math.IsNaN(minPrice) || math.IsNaN(maxPrice) || minPrice > maxPrice {
		return nil, fmt.Errorf("%w: [%v, %v]", catalogerrors.ErrInvalidPriceRange, minPrice, maxPrice)
	}
	return s.find(ctx, store.WithPriceRange(minPrice, maxPrice))
}

func (s *Service) ListByAvailability(ctx context.Context, available bool) ([]ProductDto, error) {
	return s.find(ctx, store.WithAvailability(available))
}

// Create issues a single insert; sku uniqueness is enforced by the store.
func (s *Service) Create(ctx context.Context, sku int64, product ProductWriteDto) (*ProductDto, error) {
	if sku < 0 {
		return nil, fmt.Errorf("%w: %d", catalogerrors.ErrInvalidSKU, sku)
	}
	if err := validatePrice(product.Price); err != nil {
		return nil, err
	}
	p := toModel(sku, product)
	if err := s.repository.Insert(ctx, p); err != nil {
		if errors.Is(err, catalogerrors.ErrDuplicateSKU) {
			return nil, fmt.Errorf("failed to create product with sku %d: %w", sku, catalogerrors.ErrProductConflict)
		}
		return nil, fmt.Errorf("failed to create product with sku %d: %w", sku, err)
	}

	created := toDto(&p)
	s.recordMutation(ctx, events.ProductCreated(toSnapshot(created), s.now()))
	return created, nil
}

// Update writes the whole record in one store call and returns the product as re-read from the store.
func (s *Service) Update(ctx context.Context, sku int64, product ProductWriteDto) (*ProductDto, error) {
	if err := validatePrice(product.Price); err != nil {
		return nil, err
	}
	if err := s.repository.ReplaceBySKU(ctx, sku, toModel(sku, product)); err != nil {
		return nil, fmt.Errorf("failed to update product with sku %d: %w", sku, err)
	}
	stored, err := s.repository.FindBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to read updated product with sku %d: %w", sku, err)
	}

	updated := toDto(stored)
	s.recordMutation(ctx, events.ProductUpdated(toSnapshot(updated), s.now()))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, sku int64) ([]ProductDto, error) {
	removed, err := s.repository.DeleteBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product with sku %d: %w", sku, err)
	}
	if !removed {
		return nil, fmt.Errorf("failed to delete product with sku %d: %w", sku, catalogerrors.ErrProductNotFound)
	}
	s.recordMutation(ctx, events.ProductDeleted(sku, s.now()))

	remaining, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog after deleting sku %d: %w", sku, err)
	}
	return toDtos(remaining), nil
}

func (s *Service) find(ctx context.Context, q store.Query) ([]ProductDto, error) {
	products, err := s.repository.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtos(products), nil
}

// recordMutation counts the mutation and publishes its event.
// Publish failures are logged and do not fail the call.
func (s *Service) recordMutation(ctx context.Context, event events.ProductChangedEvent) {
	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", event.Action)))
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish catalog event",
			"subject", event.Subject(), "sku", event.SKU, "error", err)
	}
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return fmt.Errorf("%w: %v", catalogerrors.ErrInvalidPrice, price)
	}
	return nil
}

func toModel(sku int64, p ProductWriteDto) store.Product {
	return store.Product{
		SKU:         sku,
		Name:        p.Name,
		Price:       p.Price,
		Available:   p.Available,
		Description: p.Description,
	}
}

// toDto converts a store.Product to a ProductDto.
func toDto(p *store.Product) *ProductDto {
	return &ProductDto{
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price,
		Available:   p.Available,
		Description: p.Description,
	}
}

func toDtos(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toDto(&products[i])
	}
	return dtos
}

func toSnapshot(p *ProductDto) events.ProductSnapshot {
	return events.ProductSnapshot(*p)
}
