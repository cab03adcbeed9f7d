package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/stockly/internal/http/handlers"
	"github.com/rogerio-castellano/stockly/internal/models"
)

func TestCreateProductHandler_Valid(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	w := createProduct(r, handler.ProductRequest{Name: "Laptop", SKU: "LAP-1", Price: "1500", Quantity: "1", Category: "Electronics"})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if resp.Name != "Laptop" {
		t.Errorf("expected name 'Laptop', got %v", resp.Name)
	}
	if resp.Price != 1500.0 {
		t.Errorf("expected price 1500.0, got %v", resp.Price)
	}
	if resp.Quantity != 1 {
		t.Errorf("expected quantity 1, got %v", resp.Quantity)
	}
	if resp.ID == "" || resp.UserID == "" {
		t.Errorf("expected id and owner to be set, got %+v", resp.Product)
	}
	if resp.Supplier != models.UnknownLabel {
		t.Errorf("expected supplier %q, got %q", models.UnknownLabel, resp.Supplier)
	}
	if !resp.LowStock || resp.OutOfStock {
		t.Errorf("expected lowStock=true outOfStock=false, got %v %v", resp.LowStock, resp.OutOfStock)
	}
}

func TestCreateProductHandler_NumericStrings(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	w := doJSON(r, http.MethodPost, "/api/products", token, `{"name":"Cable","sku":"CAB-1","price":"9.5","quantity":"30"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.ProductResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Price != 9.5 || resp.Quantity != 30 {
		t.Errorf("expected price 9.5 and quantity 30, got %v and %v", resp.Price, resp.Quantity)
	}
	if resp.LowStock {
		t.Error("expected 30 units not to be low stock")
	}
}

func TestCreateProductHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	tests := []struct {
		name           string
		body           string
		expectedErrors []string
	}{
		{
			name:           "Empty name, sku and price",
			body:           `{"name":"","sku":""}`,
			expectedErrors: []string{"Name", "SKU", "Price"},
		},
		{
			name:           "Empty name only",
			body:           `{"name":"","sku":"A-1","price":100}`,
			expectedErrors: []string{"Name"},
		},
		{
			name:           "Negative price",
			body:           `{"name":"Mouse","sku":"M-1","price":-5}`,
			expectedErrors: []string{"Price"},
		},
		{
			name:           "Negative quantity",
			body:           `{"name":"Keyboard","sku":"K-1","price":50,"quantity":-1}`,
			expectedErrors: []string{"Quantity"},
		},
		{
			name:           "Fractional quantity",
			body:           `{"name":"Keyboard","sku":"K-1","price":50,"quantity":1.5}`,
			expectedErrors: []string{"Quantity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/products", token, tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}

			var errs []handler.ProductValidationError
			if err := json.NewDecoder(w.Body).Decode(&errs); err != nil {
				t.Fatalf("failed to decode validation errors: %v", err)
			}

			fields := map[string]bool{}
			for _, e := range errs {
				fields[e.Field] = true
			}
			for _, expected := range tt.expectedErrors {
				if !fields[expected] {
					t.Errorf("expected error for field %q, got %+v", expected, errs)
				}
			}
			if len(errs) != len(tt.expectedErrors) {
				t.Errorf("expected %d errors, got %d: %+v", len(tt.expectedErrors), len(errs), errs)
			}
		})
	}

	w := doJSON(r, http.MethodGet, "/api/products", token, nil)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected nothing stored, got %s", w.Body.String())
	}
}

func TestCreateProductHandler_MalformedJSON(t *testing.T) {
	t.Cleanup(clearAllProducts)

	for _, body := range []string{
		`{"name":`,
		`{"name":"Mouse","sku":"M-1","price":"cheap"}`,
		`{"name":"Mouse","sku":"M-1","price":1}{}`,
	} {
		w := doJSON(router, http.MethodPost, "/api/products", token, body)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 Bad Request, got %d", body, w.Code)
		}
		if !strings.Contains(w.Body.String(), "invalid input") {
			t.Errorf("%s: expected 'invalid input', got %s", body, w.Body.String())
		}
	}
}

func TestCreateProductHandler_DuplicateSKU(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	mustCreateProduct(r, handler.ProductRequest{Name: "Laptop", SKU: "LAP-1", Price: "1500"})
	w := createProduct(r, handler.ProductRequest{Name: "Other laptop", SKU: "LAP-1", Price: "900"})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", w.Code)
	}

	// The same sku is free for another user.
	w = doJSON(r, http.MethodPost, "/api/products", otherToken, handler.ProductRequest{Name: "Laptop", SKU: "LAP-1", Price: "1500"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for another user, got %d", w.Code)
	}
}

func TestCreateProductHandler_Unauthorized(t *testing.T) {
	w := doJSON(router, http.MethodPost, "/api/products", "", handler.ProductRequest{Name: "Laptop", SKU: "LAP-1", Price: "1"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/api/products", "not-a-token", handler.ProductRequest{Name: "Laptop", SKU: "LAP-1", Price: "1"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", w.Code)
	}
}

func TestGetProductsHandler(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	w := doJSON(r, http.MethodGet, "/api/products", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected an empty array, got %s", w.Body.String())
	}

	mustCreateProduct(r, handler.ProductRequest{Name: "Phone", SKU: "PH-1", Price: "800", Quantity: "10"})
	mustCreateProduct(r, handler.ProductRequest{Name: "Tablet", SKU: "TB-1", Price: "400", Quantity: "0"})
	doJSON(r, http.MethodPost, "/api/products", otherToken, handler.ProductRequest{Name: "Hidden", SKU: "H-1", Price: "1"})

	w = doJSON(r, http.MethodGet, "/api/products", token, nil)
	var products []handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Name != "Phone" || products[1].Name != "Tablet" {
		t.Errorf("unexpected order: %s, %s", products[0].Name, products[1].Name)
	}
	if !products[1].OutOfStock {
		t.Error("expected Tablet to be out of stock")
	}
}

func TestGetProductByIDHandler(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	created := mustCreateProduct(r, handler.ProductRequest{Name: "Phone", SKU: "PH-1", Price: "800"})

	w := doJSON(r, http.MethodGet, "/api/products/"+created.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/products/"+created.ID, otherToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user, got %d", w.Code)
	}
}

func TestUpdateProductHandler_Valid(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	created := mustCreateProduct(r, handler.ProductRequest{Name: "Monitor", SKU: "MON-1", Price: "300", Quantity: "5"})

	update := handler.ProductRequest{Name: "Monitor 4K", SKU: "MON-1", Price: "450", Quantity: "8", Status: "active"}
	w := doJSON(r, http.MethodPut, "/api/products/"+created.ID, token, update)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var updated handler.ProductResponse
	_ = json.NewDecoder(w.Body).Decode(&updated)

	if updated.Name != "Monitor 4K" || updated.Price != 450 || updated.Quantity != 8 {
		t.Errorf("unexpected product after update: %+v", updated.Product)
	}
	if updated.ID != created.ID {
		t.Errorf("expected id %s, got %s", created.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("expected createdAt to be kept")
	}
}

func TestUpdateProductHandler_NotFound(t *testing.T) {
	t.Cleanup(clearAllProducts)

	w := doJSON(router, http.MethodPut, "/api/products/missing", token, handler.ProductRequest{Name: "Ghost", SKU: "G-1", Price: "1"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 Not Found, got %d", w.Code)
	}
}

func TestUpdateProductHandler_DuplicateSKU(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	mustCreateProduct(r, handler.ProductRequest{Name: "A", SKU: "A-1", Price: "1"})
	b := mustCreateProduct(r, handler.ProductRequest{Name: "B", SKU: "B-1", Price: "1"})

	w := doJSON(r, http.MethodPut, "/api/products/"+b.ID, token, handler.ProductRequest{Name: "B", SKU: "A-1", Price: "1"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestUpdateProductHandler_ValidationErrors(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	created := mustCreateProduct(r, handler.ProductRequest{Name: "Desk", SKU: "D-1", Price: "120"})

	w := doJSON(r, http.MethodPut, "/api/products/"+created.ID, token, `{"name":"","sku":"D-1","price":-1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var errs []handler.ProductValidationError
	_ = json.NewDecoder(w.Body).Decode(&errs)
	if len(errs) != 2 {
		t.Errorf("expected 2 validation errors, got %+v", errs)
	}

	stored, _ := productRepo.GetByID(t.Context(), created.UserID, created.ID)
	if stored.Name != "Desk" {
		t.Errorf("expected stored product untouched, got %q", stored.Name)
	}
}

func TestDeleteProductHandler(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	created := mustCreateProduct(r, handler.ProductRequest{Name: "Chair", SKU: "C-1", Price: "60"})

	w := doJSON(r, http.MethodDelete, "/api/products/"+created.ID, otherToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user, got %d", w.Code)
	}

	w = doJSON(r, http.MethodDelete, "/api/products/"+created.ID, token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/products/"+created.ID, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestCopyProductHandler(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	original := mustCreateProduct(r, handler.ProductRequest{Name: "Lamp", SKU: "L-1", Price: "25", Quantity: "4", Status: "active"})

	w := doJSON(r, http.MethodPost, "/api/products/"+original.ID+"/copy", token, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var c handler.ProductResponse
	_ = json.NewDecoder(w.Body).Decode(&c)

	if c.ID == original.ID {
		t.Error("expected a new id")
	}
	if c.Name != "Lamp (copy)" {
		t.Errorf("expected name 'Lamp (copy)', got %q", c.Name)
	}
	if !strings.HasPrefix(c.SKU, "L-1-") || len(c.SKU) <= len("L-1-") {
		t.Errorf("expected sku with a timestamp suffix, got %q", c.SKU)
	}
	if c.Price != 25 || c.Quantity != 4 || c.Status != "active" || c.Category != models.UnknownLabel {
		t.Errorf("expected remaining fields copied, got %+v", c.Product)
	}

	w = doJSON(r, http.MethodPost, "/api/products/missing/copy", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestFilterProductsHandler(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := router

	for i, p := range []struct {
		name, category string
		price, qty     int
	}{
		{"Phone", "Electronics", 800, 10},
		{"Phone case", "Accessories", 20, 100},
		{"Laptop", "Electronics", 1500, 3},
		{"Desk", "Furniture", 300, 0},
	} {
		mustCreateProduct(r, handler.ProductRequest{
			Name:     p.name,
			SKU:      fmt.Sprintf("SKU-%d", i),
			Price:    json.Number(fmt.Sprint(p.price)),
			Quantity: json.Number(fmt.Sprint(p.qty)),
			Category: p.category,
		})
	}

	tests := []struct {
		name          string
		query         string
		expectedCount int
		expectedTotal int
		expectedCode  int
	}{
		{"no filter", "", 4, 4, http.StatusOK},
		{"name substring", "?name=phone", 2, 2, http.StatusOK},
		{"category", "?category=electronics", 2, 2, http.StatusOK},
		{"price range", "?minPrice=100&maxPrice=1000", 2, 2, http.StatusOK},
		{"quantity range", "?minQty=1&maxQty=10", 2, 2, http.StatusOK},
		{"page", "?limit=2&offset=1", 2, 4, http.StatusOK},
		{"offset past end", "?offset=10", 0, 4, http.StatusOK},
		{"zero limit", "?limit=0", 0, 0, http.StatusBadRequest},
		{"negative offset", "?offset=-1", 0, 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/api/products/search"+tt.query, token, nil)
			if w.Code != tt.expectedCode {
				t.Fatalf("expected %d, got %d: %s", tt.expectedCode, w.Code, w.Body.String())
			}
			if tt.expectedCode != http.StatusOK {
				return
			}

			var result handler.ProductsSearchResult
			if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(result.Data) != tt.expectedCount {
				t.Errorf("expected %d products, got %d", tt.expectedCount, len(result.Data))
			}
			if result.Meta.TotalCount != tt.expectedTotal {
				t.Errorf("expected total %d, got %d", tt.expectedTotal, result.Meta.TotalCount)
			}
		})
	}
}
