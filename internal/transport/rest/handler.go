// Package rest provides HTTP handlers for catalog operations.
package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	catalogerrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/abgdnv/shoecatalog/internal/service"
	"github.com/abgdnv/shoecatalog/internal/store"
	"github.com/abgdnv/shoecatalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var priceRangePattern = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)to(-?\d+(?:\.\d+)?)$`)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	service  service.CatalogService
	store    Pinger
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new catalog Handler. store is used for the readiness probe.
func NewHandler(service service.CatalogService, store Pinger, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		store:    store,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListAll)
		r.Get("/{selector}", h.ListBySelector)
		r.Post("/{sku}", h.Create)
		r.Put("/{sku}", h.Update)
		r.Delete("/{sku}", h.Delete)
	})

	r.Get("/healthz", h.HealthCheck)
	r.Get("/readyz", h.ReadinessCheck)
}

// ListAll lists the catalog, optionally filtered by name and availability and sorted by sku or price.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sortBy, err := store.ParseSortKey(query.Get("sortedBy"))
	if err != nil {
		web.RespondError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Invalid sortedBy value: %s", query.Get("sortedBy")))
		return
	}
	available, ok := web.ParseQueryBool(w, r, h.logger, "available")
	if !ok {
		return
	}
	opts := service.ListOptions{
		SortBy:        sortBy,
		Name:          query.Get("productName"),
		AvailableOnly: available != nil && *available,
	}

	h.logger.DebugContext(r.Context(), "Received request to list products", "sortedBy", sortBy.String(), "productName", opts.Name, "availableOnly", opts.AvailableOnly)
	list, err := h.service.ListAll(r.Context(), opts)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to fetch products")
		return
	}
	if len(list) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// ListBySelector serves /products/{min}to{max} and /products/{true|false}.
func (h *Handler) ListBySelector(w http.ResponseWriter, r *http.Request) {
	selector := r.PathValue("selector")

	var (
		list []service.ProductDto
		err  error
	)
	switch {
	case strings.EqualFold(selector, "true") || strings.EqualFold(selector, "false"):
		available := strings.EqualFold(selector, "true")
		h.logger.DebugContext(r.Context(), "Received request to list products by availability", "available", available)
		list, err = h.service.ListByAvailability(r.Context(), available)
	case priceRangePattern.MatchString(selector):
		m := priceRangePattern.FindStringSubmatch(selector)
		minPrice, errMin := strconv.ParseFloat(m[1], 64)
		maxPrice, errMax := strconv.ParseFloat(m[2], 64)
		if errMin != nil || errMax != nil {
			web.RespondError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Invalid price range: %s", selector))
			return
		}
		h.logger.DebugContext(r.Context(), "Received request to list products by price", "min", minPrice, "max", maxPrice)
		list, err = h.service.ListByPriceRange(r.Context(), minPrice, maxPrice)
	default:
		web.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Sprintf("Invalid selector %q, expected true, false or {min}to{max}", selector))
		return
	}
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Create handles the creation of a new product under the sku from the path.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sku, ok := web.ParsePathInt(w, r, h.logger, "sku", web.Gte(0))
	if !ok {
		return
	}
	var product service.ProductWriteDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &product) {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to create product", "sku", sku, "product", product)
	created, err := h.service.Create(r.Context(), sku, product)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("Failed to create product with sku %d", sku))
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "sku", created.SKU, "name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// Update replaces the product stored under the sku from the path.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sku, ok := web.ParsePathInt(w, r, h.logger, "sku", web.Gte(0))
	if !ok {
		return
	}
	var product service.ProductWriteDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &product) {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to update product", "sku", sku)
	updated, err := h.service.Update(r.Context(), sku, product)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("Failed to update product with sku %d", sku))
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "sku", updated.SKU, "name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// Delete removes the product stored under the sku from the path.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sku, ok := web.ParsePathInt(w, r, h.logger, "sku", web.Gte(0))
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to delete product", "sku", sku)
	remaining, err := h.service.Delete(r.Context(), sku)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("Failed to delete product with sku %d", sku))
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "sku", sku, "remaining", len(remaining))
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple liveness endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ReadinessCheck reports 503 while the store cannot be reached.
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
		web.RespondError(w, h.logger, http.StatusServiceUnavailable, "Store is not reachable")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ready"})
}

// respondServiceError maps the catalog error taxonomy to HTTP status codes.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, failure string) {
	logger := h.logger
	switch {
	case errors.Is(err, catalogerrors.ErrValidation):
		logger.WarnContext(r.Context(), "Invalid request", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalogerrors.ErrProductNotFound):
		logger.WarnContext(r.Context(), "Product not found", "error", err)
		web.RespondError(w, logger, http.StatusNotFound, fmt.Sprintf("%s: product not found", failure))
	case errors.Is(err, catalogerrors.ErrProductConflict):
		logger.WarnContext(r.Context(), "Product already exists", "error", err)
		web.RespondError(w, logger, http.StatusConflict, fmt.Sprintf("%s: sku already exists", failure))
	case errors.Is(err, catalogerrors.ErrStoreUnavailable):
		logger.ErrorContext(r.Context(), "Catalog store unavailable", "error", err)
		web.RespondError(w, logger, http.StatusServiceUnavailable, fmt.Sprintf("%s: store unavailable", failure))
	default:
		logger.ErrorContext(r.Context(), "Unexpected catalog error", "error", err)
		web.RespondError(w, logger, http.StatusInternalServerError, failure)
	}
}
