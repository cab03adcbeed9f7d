package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/rogerio-castellano/stockly/internal/analytics"
	"github.com/rogerio-castellano/stockly/internal/models"
)

// ProductAPI is the subset of the API the product store depends on.
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CopyProduct(ctx context.Context, id string) (models.Product, error)
}

// ProductStore holds the signed-in user's products and the insights derived
// from them. The server is the source of truth: every mutation is followed by
// a full refresh, and insights are recomputed on each refresh.
type ProductStore struct {
	api  ProductAPI
	opts analytics.Options

	mu       sync.RWMutex
	products []models.Product
	insights analytics.Insights
}

func NewProductStore(api ProductAPI, opts analytics.Options) *ProductStore {
	return &ProductStore{
		api:      api,
		opts:     opts,
		products: []models.Product{},
		insights: analytics.Compute(nil, opts),
	}
}

func (s *ProductStore) Refresh(ctx context.Context) error {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("refresh products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	insights := analytics.Compute(products, s.opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.insights = insights
	return nil
}

// Products returns a copy of the current list.
func (s *ProductStore) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.products...)
}

func (s *ProductStore) Insights() analytics.Insights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.insights
}

func (s *ProductStore) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	p, err := s.api.CreateProduct(ctx, in)
	if err != nil {
		return models.Product{}, err
	}
	return p, s.Refresh(ctx)
}

func (s *ProductStore) Update(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	p, err := s.api.UpdateProduct(ctx, id, in)
	if err != nil {
		return models.Product{}, err
	}
	return p, s.Refresh(ctx)
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *ProductStore) Copy(ctx context.Context, id string) (models.Product, error) {
	p, err := s.api.CopyProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	return p, s.Refresh(ctx)
}
