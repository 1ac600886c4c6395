package service

import (
	"context"

	"github.com/quocphungccq1911h/mobi/internal/cache"
	"github.com/quocphungccq1911h/mobi/internal/domain"
	"github.com/quocphungccq1911h/mobi/internal/repository"
)

// ProductService wraps the catalog store with a read-through cache. Reads
// fall back to the database on a miss; writes invalidate the affected keys.
type ProductService struct {
	products repository.ProductRepository
	cache    *cache.ProductCache
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository, productCache *cache.ProductCache) *ProductService {
	return &ProductService{products: products, cache: productCache}
}

// List returns the full catalog, cached.
func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	if products, ok := s.cache.GetList(ctx); ok {
		return products, nil
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetList(ctx, products)
	return products, nil
}

// Get returns one catalog entry, cached by id.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if product, ok := s.cache.GetProduct(ctx, id); ok {
		return product, nil
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetProduct(ctx, product)
	return product, nil
}

// Create stores a new catalog entry and invalidates the listing.
func (s *ProductService) Create(ctx context.Context, product *domain.Product) error {
	if err := s.products.Create(ctx, product); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, product.ID)
	return nil
}

// Update rewrites a catalog entry and invalidates its keys.
func (s *ProductService) Update(ctx context.Context, product *domain.Product) error {
	if err := s.products.Update(ctx, product); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, product.ID)
	return nil
}

// Delete removes a catalog entry and invalidates its keys.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}
