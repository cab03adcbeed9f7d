package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/stockly/internal/http/handlers"
	"github.com/xuri/excelize/v2"
)

func importFile(t *testing.T, r http.Handler, content []byte, filename, query string) handler.ImportProductsResult {
	t.Helper()

	body, contentType := multipartFile(content, filename)
	req := httptest.NewRequest(http.MethodPost, "/api/products/import"+query, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.ImportProductsResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func listProducts(t *testing.T, r http.Handler) []handler.ProductResponse {
	t.Helper()
	w := doJSON(r, http.MethodGet, "/api/products", token, nil)
	var products []handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode products: %v", err)
	}
	return products
}

func TestImportProductsHandler(t *testing.T) {
	r := router

	t.Run("File with unique valid products", func(t *testing.T) {
		t.Cleanup(clearAllProducts)
		csvData := `name,sku,price,quantity,category
Mouse,MOU-1,25.99,10,Peripherals
Keyboard,KEY-1,45.00,5,Peripherals`

		resp := importFile(t, r, []byte(csvData), "products.csv", "")

		if resp.ImportedProductsCount != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 0 {
			t.Errorf("expected no errors, got %v", resp.Errors)
		}
		if products := listProducts(t, r); len(products) != 2 || products[0].Category != "Peripherals" {
			t.Errorf("unexpected stored products: %+v", products)
		}
	})

	t.Run("File with one invalid product", func(t *testing.T) {
		t.Cleanup(clearAllProducts)
		csvData := `name,sku,price,quantity
Mouse,MOU-1,25.99,10
InvalidProduct,INV-1,-3,1
Keyboard,KEY-1,45.00,5`

		resp := importFile(t, r, []byte(csvData), "products.csv", "")

		if resp.ImportedProductsCount != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 1 {
			t.Fatalf("expected 1 error, got %d", len(resp.Errors))
		}
		if !strings.Contains(resp.Errors[0].Description, "row 3") {
			t.Errorf("expected error for row 3, got %v", resp.Errors[0])
		}
		if resp.Errors[0].Field != "Price" {
			t.Errorf("expected a Price error, got %v", resp.Errors[0])
		}
	})

	for _, query := range []string{"", "?mode=skip"} {
		t.Run("Duplicated sku is skipped"+query, func(t *testing.T) {
			t.Cleanup(clearAllProducts)
			csvData := `name,sku,price,quantity
	Mouse,MOU-1,25.99,10
	Keyboard,KEY-1,45.00,5
	Mouse,MOU-1,19.00,4`

			resp := importFile(t, r, []byte(csvData), "products.csv", query)

			if resp.ImportedProductsCount != 2 {
				t.Errorf("expected 2 imported products, got %d", resp.ImportedProductsCount)
			}
			if len(resp.Errors) != 1 {
				t.Fatalf("expected 1 error, got %d", len(resp.Errors))
			}
			if !strings.Contains(resp.Errors[0].Description, "already exists") {
				t.Errorf("expected 'already exists', got %s", resp.Errors[0].Description)
			}
			if products := listProducts(t, r); products[0].Price != 25.99 {
				t.Errorf("expected first price kept, got %v", products[0].Price)
			}
		})
	}

	t.Run("Import with update mode replaces product", func(t *testing.T) {
		t.Cleanup(clearAllProducts)
		original := mustCreateProduct(r, handler.ProductRequest{Name: "Monitor", SKU: "MON-1", Price: "200", Quantity: "5"})

		csvData := `name,sku,price,quantity
Monitor 2,MON-1,99.0,1`

		resp := importFile(t, r, []byte(csvData), "products.csv", "?mode=update")

		if resp.ImportedProductsCount != 1 || len(resp.Errors) != 0 {
			t.Fatalf("expected 1 import and no errors, got %+v", resp)
		}

		products := listProducts(t, r)
		if len(products) != 1 {
			t.Fatalf("expected 1 product, got %d", len(products))
		}
		p := products[0]
		if p.ID != original.ID || p.Name != "Monitor 2" || p.Price != 99 || p.Quantity != 1 {
			t.Errorf("expected product updated in place, got %+v", p.Product)
		}
	})

	t.Run("Missing required column", func(t *testing.T) {
		t.Cleanup(clearAllProducts)

		body, contentType := multipartFile([]byte("name,price\nMouse,1"), "products.csv")
		req := httptest.NewRequest(http.MethodPost, "/api/products/import", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `missing column \"sku\"`) {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/products/import", token, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Excel workbook", func(t *testing.T) {
		t.Cleanup(clearAllProducts)

		f := excelize.NewFile()
		defer f.Close()
		rows := [][]any{
			{"Name", "SKU", "Price", "Quantity", "Supplier"},
			{"Drill", "DR-1", 120.5, 3, "Acme"},
			{"Saw", "SW-1", 40, 0, ""},
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
				t.Fatalf("failed to write row: %v", err)
			}
		}
		buf, err := f.WriteToBuffer()
		if err != nil {
			t.Fatalf("failed to write workbook: %v", err)
		}

		resp := importFile(t, r, buf.Bytes(), "products.xlsx", "")
		if resp.ImportedProductsCount != 2 || len(resp.Errors) != 0 {
			t.Fatalf("expected 2 imports and no errors, got %+v", resp)
		}

		products := listProducts(t, r)
		if products[0].Price != 120.5 || products[0].Supplier != "Acme" {
			t.Errorf("unexpected first product %+v", products[0].Product)
		}
		if !products[1].OutOfStock || products[1].Supplier != "Unknown" {
			t.Errorf("unexpected second product %+v", products[1].Product)
		}
	})
}
