package service

import (
	"time"

	"github.com/artztall/product_service/internal/store"
)

// Structural transforms between the wire-facing DTOs and the persisted
// record shape. These perform no validation and have no failure modes;
// whatever the caller supplied is copied through unchanged.

// toRecord builds a new record from the caller-editable fields of a request.
// Identity, ownership, availability and timestamps are the service's concern.
func toRecord(req ProductRequestDto) *store.Product {
	return &store.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		Tags:          req.Tags,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		Medium:        req.Medium,
		Style:         req.Style,
		Dimensions:    toDimensions(req.Dimensions),
	}
}

// applyRequest overwrites every editable field of an existing record.
// Fields omitted from the request end up zeroed, not preserved.
func applyRequest(product *store.Product, req ProductRequestDto) {
	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Category = req.Category
	product.Tags = req.Tags
	product.ImageURL = req.ImageURL
	product.StockQuantity = req.StockQuantity
	product.Medium = req.Medium
	product.Style = req.Style
	product.Dimensions = toDimensions(req.Dimensions)
}

func toDimensions(dto *DimensionsDto) *store.Dimensions {
	if dto == nil {
		return nil
	}
	return &store.Dimensions{
		Length: dto.Length,
		Width:  dto.Width,
		Unit:   dto.Unit,
	}
}

func toDimensionsDto(dims *store.Dimensions) *DimensionsDto {
	if dims == nil {
		return nil
	}
	return &DimensionsDto{
		Length: dims.Length,
		Width:  dims.Width,
		Unit:   dims.Unit,
	}
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		ArtistID:      product.ArtistID,
		Category:      product.Category,
		Tags:          product.Tags,
		ImageURL:      product.ImageURL,
		StockQuantity: product.StockQuantity,
		Medium:        product.Medium,
		Style:         product.Style,
		Dimensions:    toDimensionsDto(product.Dimensions),
		IsAvailable:   product.IsAvailable,
		CreatedAt:     product.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:     product.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func toDtoList(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toDto(&products[i])
	}
	return dtos
}
