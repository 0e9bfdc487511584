// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	perrors "github.com/artztall/product_service/internal/errors"
	"github.com/artztall/product_service/internal/store"
	"github.com/artztall/product_service/pkg/messaging"
	"github.com/artztall/product_service/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// ProductService defines the methods for managing artwork products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Create adds a new product owned by the given artist.
	// New products always start available; the record's identifier and
	// timestamps are assigned here, whatever the caller supplied.
	Create(ctx context.Context, product ProductRequestDto, artistID string) (*ProductDto, error)

	// Update replaces every caller-editable field of an existing product.
	// Omitted fields are zeroed, not preserved. Identity, ownership,
	// availability and creation time are untouched.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, product ProductRequestDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Deleting an unknown ID is a no-op success.
	DeleteByID(ctx context.Context, id string) error

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*ProductDto, error)

	// FindAll returns one 0-based page of products with paging metadata.
	FindAll(ctx context.Context, page, size int32) (*ProductPageDto, error)

	// FindByArtistID returns all products owned by the given artist.
	FindByArtistID(ctx context.Context, artistID string) ([]ProductDto, error)

	// FindByCategory returns all products in the given category.
	FindByCategory(ctx context.Context, category string) ([]ProductDto, error)

	// FindByPriceRange returns all products with minPrice <= price <= maxPrice.
	// An inverted range yields an empty result.
	FindByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]ProductDto, error)

	// FindByTag returns all products carrying the given tag.
	FindByTag(ctx context.Context, tag string) ([]ProductDto, error)

	// SetAvailability sets the availability flag unconditionally.
	// Returns ErrProductNotFound if no product exists with the given ID.
	SetAvailability(ctx context.Context, id string, available bool) (*ProductDto, error)

	// Reserve transitions an available product to reserved.
	// Returns ErrProductNotAvailable if the product is already reserved,
	// ErrProductNotFound if no product exists with the given ID.
	Reserve(ctx context.Context, id string) (*ProductDto, error)

	// Release transitions a product to available regardless of its current
	// state. Releasing an already available product is not an error.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Release(ctx context.Context, id string) (*ProductDto, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository      store.ProductStore
	publisher       messaging.Publisher
	reservedCounter metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository and publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	meter := otel.Meter("product-service")
	reservedCounter, err := meter.Int64Counter("products_reserved", metric.WithDescription("Total number of successful product reservations"))
	if err != nil {
		panic(fmt.Sprintf("failed to create products_reserved counter: %v", err))
	}
	return &Service{
		repository:      repo,
		publisher:       publisher,
		reservedCounter: reservedCounter,
	}
}

// DimensionsDto represents the physical size of an artwork.
type DimensionsDto struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Unit   string  `json:"unit"`
}

// ProductRequestDto carries every caller-editable field of a product.
// Identifier, ownership, availability and timestamps are never taken
// from the request; the service assigns them.
// The DTOs carry no validation constraints: any well-formed body is
// accepted and persisted as-is.
type ProductRequestDto struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Price         float64        `json:"price"`
	Category      string         `json:"category"`
	Tags          []string       `json:"tags"`
	ImageURL      string         `json:"image_url"`
	StockQuantity *int32         `json:"stock_quantity"`
	Medium        string         `json:"medium"`
	Style         string         `json:"style"`
	Dimensions    *DimensionsDto `json:"dimensions,omitempty"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Price         float64        `json:"price"`
	ArtistID      string         `json:"artist_id"`
	Category      string         `json:"category"`
	Tags          []string       `json:"tags"`
	ImageURL      string         `json:"image_url"`
	StockQuantity *int32         `json:"stock_quantity"`
	Medium        string         `json:"medium"`
	Style         string         `json:"style"`
	Dimensions    *DimensionsDto `json:"dimensions,omitempty"`
	IsAvailable   bool           `json:"is_available"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

// ProductPageDto is one page of products with paging metadata.
type ProductPageDto struct {
	Content       []ProductDto `json:"content"`
	Page          int32        `json:"page"`
	Size          int32        `json:"size"`
	TotalElements int64        `json:"total_elements"`
	TotalPages    int32        `json:"total_pages"`
}

// AvailabilityUpdateDto represents the body of an availability update request.
type AvailabilityUpdateDto struct {
	Available bool `json:"available"`
}

// Create persists a new product owned by artistID and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, req ProductRequestDto, artistID string) (*ProductDto, error) {
	record := toRecord(req)
	record.ArtistID = artistID
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	record.IsAvailable = true

	saved, err := s.repository.Save(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.publish(ctx, events.ProductCreatedEvent{
		ProductID: saved.ID,
		ArtistID:  saved.ArtistID,
		Price:     saved.Price,
		CreatedAt: saved.CreatedAt,
	})
	return toDto(saved), nil
}

// Update replaces every editable field of an existing product and returns the updated ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id string, req ProductRequestDto) (*ProductDto, error) {
	existing, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}

	applyRequest(existing, req)
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repository.Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID. Unknown IDs are a no-op success.
func (s *Service) DeleteByID(ctx context.Context, id string) error {
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id string) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	return toDto(product), nil
}

// FindAll retrieves one page of products with paging metadata.
func (s *Service) FindAll(ctx context.Context, page, size int32) (*ProductPageDto, error) {
	products, total, err := s.repository.FindAll(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	totalPages := int32(0)
	if size > 0 {
		totalPages = int32((total + int64(size) - 1) / int64(size))
	}
	return &ProductPageDto{
		Content:       toDtoList(products),
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// FindByArtistID retrieves all products owned by the given artist.
func (s *Service) FindByArtistID(ctx context.Context, artistID string) ([]ProductDto, error) {
	products, err := s.repository.FindByArtistID(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products for artist %s: %w", artistID, err)
	}
	return toDtoList(products), nil
}

// FindByCategory retrieves all products in the given category.
func (s *Service) FindByCategory(ctx context.Context, category string) ([]ProductDto, error) {
	products, err := s.repository.FindByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products in category %s: %w", category, err)
	}
	return toDtoList(products), nil
}

// FindByPriceRange retrieves all products within the inclusive price bounds.
func (s *Service) FindByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]ProductDto, error) {
	products, err := s.repository.FindByPriceRange(ctx, minPrice, maxPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products in price range: %w", err)
	}
	return toDtoList(products), nil
}

// FindByTag retrieves all products carrying the given tag.
func (s *Service) FindByTag(ctx context.Context, tag string) ([]ProductDto, error) {
	products, err := s.repository.FindByTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products with tag %s: %w", tag, err)
	}
	return toDtoList(products), nil
}

// SetAvailability sets the availability flag unconditionally and stamps the update time.
func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}

	product.IsAvailable = available
	product.UpdatedAt = time.Now().UTC()

	updated, err := s.repository.Save(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to update availability of product %s: %w", id, err)
	}
	return toDto(updated), nil
}

// Reserve transitions an available product to reserved.
// Fetch and save are two separate store calls; concurrent reserves on the
// same ID are not serialized here.
func (s *Service) Reserve(ctx context.Context, id string) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	if !product.IsAvailable {
		return nil, fmt.Errorf("product %s: %w", id, perrors.ErrProductNotAvailable)
	}

	product.IsAvailable = false
	product.UpdatedAt = time.Now().UTC()

	updated, err := s.repository.Save(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve product %s: %w", id, err)
	}
	s.reservedCounter.Add(ctx, 1)
	s.publish(ctx, events.ProductReservedEvent{
		ProductID:  updated.ID,
		ArtistID:   updated.ArtistID,
		ReservedAt: updated.UpdatedAt,
	})
	return toDto(updated), nil
}

// Release transitions a product to available regardless of its current state.
func (s *Service) Release(ctx context.Context, id string) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}

	product.IsAvailable = true
	product.UpdatedAt = time.Now().UTC()

	updated, err := s.repository.Save(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to release product %s: %w", id, err)
	}
	s.publish(ctx, events.ProductReleasedEvent{
		ProductID:  updated.ID,
		ArtistID:   updated.ArtistID,
		ReleasedAt: updated.UpdatedAt,
	})
	return toDto(updated), nil
}

// publish sends a product lifecycle event best-effort; failures are logged, never surfaced.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "error", err)
	}
}
