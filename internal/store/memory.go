package store

import (
	"context"
	"sort"
	"sync"

	perrors "github.com/artztall/product_service/internal/errors"
	"github.com/google/uuid"
)

// memoryStore implements ProductStore using an in-memory map.
// It is used by unit and end-to-end tests in place of MongoDB.
type memoryStore struct {
	mu       sync.RWMutex
	products map[string]Product
}

// NewMemoryStore creates a new in-memory instance of ProductStore.
func NewMemoryStore() ProductStore {
	return &memoryStore{
		products: make(map[string]Product),
	}
}

// Save inserts the record when it has no ID and replaces it otherwise.
func (s *memoryStore) Save(_ context.Context, product *Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	s.products[product.ID] = clone(*product)
	return product, nil
}

// FindByID retrieves a product by its ID.
func (s *memoryStore) FindByID(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	p = clone(p)
	return &p, nil
}

// DeleteByID deletes a product by its ID. Unknown IDs are ignored.
func (s *memoryStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products, id)
	return nil
}

// FindAll retrieves one page of products ordered by creation time, plus the total count.
func (s *memoryStore) FindAll(_ context.Context, page, size int32) ([]Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		all = append(all, clone(p))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := int64(len(all))
	start := int(page) * int(size)
	if start >= len(all) {
		return []Product{}, total, nil
	}
	end := start + int(size)
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// FindByArtistID retrieves all products owned by the given artist.
func (s *memoryStore) FindByArtistID(_ context.Context, artistID string) ([]Product, error) {
	return s.filter(func(p Product) bool { return p.ArtistID == artistID }), nil
}

// FindByCategory retrieves all products in the given category.
func (s *memoryStore) FindByCategory(_ context.Context, category string) ([]Product, error) {
	return s.filter(func(p Product) bool { return p.Category == category }), nil
}

// FindByPriceRange retrieves all products within the inclusive price bounds.
func (s *memoryStore) FindByPriceRange(_ context.Context, minPrice, maxPrice float64) ([]Product, error) {
	return s.filter(func(p Product) bool { return p.Price >= minPrice && p.Price <= maxPrice }), nil
}

// FindByTag retrieves all products carrying the given tag.
func (s *memoryStore) FindByTag(_ context.Context, tag string) ([]Product, error) {
	return s.filter(func(p Product) bool {
		for _, t := range p.Tags {
			if t == tag {
				return true
			}
		}
		return false
	}), nil
}

func (s *memoryStore) filter(keep func(Product) bool) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0)
	for _, p := range s.products {
		if keep(p) {
			list = append(list, clone(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// clone copies a record deeply enough that callers cannot alias stored state.
func clone(p Product) Product {
	if p.Tags != nil {
		tags := make([]string, len(p.Tags))
		copy(tags, p.Tags)
		p.Tags = tags
	}
	if p.StockQuantity != nil {
		stock := *p.StockQuantity
		p.StockQuantity = &stock
	}
	if p.Dimensions != nil {
		dims := *p.Dimensions
		p.Dimensions = &dims
	}
	return p
}
