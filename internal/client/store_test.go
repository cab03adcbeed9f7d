package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rogerio-castellano/stockly/internal/analytics"
	"github.com/rogerio-castellano/stockly/internal/models"
)

type fakeAPI struct {
	products  []models.Product
	lists     int
	failList  bool
	failWrite bool
	nextID    int
}

func (f *fakeAPI) ListProducts(context.Context) ([]models.Product, error) {
	f.lists++
	if f.failList {
		return nil, errors.New("list failed")
	}
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeAPI) CreateProduct(_ context.Context, in ProductInput) (models.Product, error) {
	if f.failWrite {
		return models.Product{}, &APIError{Status: 500, Message: "boom"}
	}
	f.nextID++
	p := models.Product{ID: fmt.Sprint(f.nextID), Name: in.Name, SKU: in.SKU, Price: in.Price, Quantity: in.Quantity}
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeAPI) UpdateProduct(_ context.Context, id string, in ProductInput) (models.Product, error) {
	for i, p := range f.products {
		if p.ID == id {
			f.products[i].Quantity = in.Quantity
			f.products[i].Price = in.Price
			return f.products[i], nil
		}
	}
	return models.Product{}, &APIError{Status: 404, Message: "product not found"}
}

func (f *fakeAPI) DeleteProduct(_ context.Context, id string) error {
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: 404, Message: "product not found"}
}

func (f *fakeAPI) CopyProduct(ctx context.Context, id string) (models.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return f.CreateProduct(ctx, ProductInput{Name: p.Name + " (copy)", SKU: p.SKU + "-1", Price: p.Price, Quantity: p.Quantity})
		}
	}
	return models.Product{}, &APIError{Status: 404, Message: "product not found"}
}

func TestProductStore_RefreshesAfterMutations(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	store := NewProductStore(api, analytics.Options{})

	if got := store.Insights(); len(got.MonthlyTrend) != 12 || got.TotalProducts != 0 {
		t.Fatalf("expected empty insights before the first refresh, got %+v", got)
	}

	p, err := store.Create(ctx, ProductInput{Name: "Drill", SKU: "D-1", Price: 100, Quantity: 5})
	if err != nil {
		t.Fatal(err)
	}
	if api.lists != 1 {
		t.Errorf("expected one refresh after create, got %d", api.lists)
	}
	if got := store.Insights(); got.TotalProducts != 1 || got.TotalValue != 500 || got.LowStockItems != 1 {
		t.Errorf("unexpected insights after create %+v", got)
	}

	if _, err := store.Update(ctx, p.ID, ProductInput{Name: "Drill", SKU: "D-1", Price: 100, Quantity: 50}); err != nil {
		t.Fatal(err)
	}
	if got := store.Insights(); got.TotalValue != 5000 || got.LowStockItems != 0 {
		t.Errorf("unexpected insights after update %+v", got)
	}

	if _, err := store.Copy(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if n := len(store.Products()); n != 2 {
		t.Errorf("expected 2 products after copy, got %d", n)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if got := store.Insights(); got.TotalProducts != 1 {
		t.Errorf("expected 1 product after delete, got %d", got.TotalProducts)
	}
	if api.lists != 4 {
		t.Errorf("expected a refresh after every mutation, got %d", api.lists)
	}
}

func TestProductStore_Errors(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{failWrite: true}
	store := NewProductStore(api, analytics.Options{})

	if _, err := store.Create(ctx, ProductInput{Name: "x"}); !IsStatus(err, 500) {
		t.Errorf("expected api error, got %v", err)
	}
	if api.lists != 0 {
		t.Error("expected no refresh after a failed mutation")
	}

	if err := store.Delete(ctx, "missing"); !IsStatus(err, 404) {
		t.Errorf("expected 404, got %v", err)
	}

	api.failWrite = false
	api.products = []models.Product{{ID: "1", Quantity: 3}}
	_ = store.Refresh(ctx)

	api.failList = true
	if err := store.Refresh(ctx); err == nil {
		t.Fatal("expected refresh error")
	}
	if len(store.Products()) != 1 {
		t.Error("expected previous state to be kept when refresh fails")
	}
}

func TestProductStore_ProductsIsACopy(t *testing.T) {
	api := &fakeAPI{products: []models.Product{{ID: "1", Name: "a"}}}
	store := NewProductStore(api, analytics.Options{})
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	list := store.Products()
	list[0].Name = "changed"
	if store.Products()[0].Name != "a" {
		t.Error("expected Products to return a copy")
	}
}
