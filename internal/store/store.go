// Package store provides an interface for product record storage operations.
package store

import (
	"context"
	"time"
)

// Product is the persisted product record.
// The ID is an opaque string assigned by the store on first insert.
type Product struct {
	ID            string      `bson:"_id,omitempty"`
	Name          string      `bson:"name"`
	Description   string      `bson:"description"`
	Price         float64     `bson:"price"`
	ArtistID      string      `bson:"artist_id"`
	Category      string      `bson:"category"`
	Tags          []string    `bson:"tags"`
	ImageURL      string      `bson:"image_url"`
	StockQuantity *int32      `bson:"stock_quantity"`
	Medium        string      `bson:"medium"`
	Style         string      `bson:"style"`
	Dimensions    *Dimensions `bson:"dimensions,omitempty"`
	IsAvailable   bool        `bson:"is_available"`
	CreatedAt     time.Time   `bson:"created_at"`
	UpdatedAt     time.Time   `bson:"updated_at"`
}

// Dimensions is the optional physical size sub-record.
// It has no identity of its own and is fully owned by its product;
// a product without dimensions carries a nil pointer, never a zeroed value.
type Dimensions struct {
	Length float64 `bson:"length"`
	Width  float64 `bson:"width"`
	Unit   string  `bson:"unit"`
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, MongoDB).
type ProductStore interface {
	// Save inserts the record when it has no ID (the store assigns one)
	// and replaces the record with the same ID otherwise.
	Save(ctx context.Context, product *Product) (*Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Deleting an unknown ID is not an error.
	DeleteByID(ctx context.Context, id string) error

	// FindAll returns one page of products together with the total record count.
	// Pages are 0-based; ordering is store-defined.
	FindAll(ctx context.Context, page, size int32) ([]Product, int64, error)

	// FindByArtistID returns all products owned by the given artist.
	FindByArtistID(ctx context.Context, artistID string) ([]Product, error)

	// FindByCategory returns all products in the given category.
	FindByCategory(ctx context.Context, category string) ([]Product, error)

	// FindByPriceRange returns all products with minPrice <= price <= maxPrice.
	// An inverted range yields an empty result, not an error.
	FindByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]Product, error)

	// FindByTag returns all products carrying the given tag.
	FindByTag(ctx context.Context, tag string) ([]Product, error)
}
