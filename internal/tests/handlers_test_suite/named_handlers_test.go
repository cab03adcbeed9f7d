package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/stockly/internal/http/handlers"
	"github.com/rogerio-castellano/stockly/internal/models"
)

var namedRoutes = []struct {
	path  string
	label string
}{
	{"/api/categories", "Category"},
	{"/api/suppliers", "Supplier"},
}

func TestNamedHandlers_RequireSession(t *testing.T) {
	t.Cleanup(clearAllNamed)

	for _, route := range namedRoutes {
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			w := doJSON(router, method, route.path, "", handler.NamedRequest{Name: "Tools"})
			if w.Code != http.StatusUnauthorized {
				t.Errorf("%s %s: expected 401, got %d", method, route.path, w.Code)
			}
			if !strings.Contains(w.Body.String(), "Unauthorized") {
				t.Errorf("%s %s: expected Unauthorized body, got %s", method, route.path, w.Body.String())
			}
		}
	}

	if categoryRepo.Len() != 0 || supplierRepo.Len() != 0 {
		t.Error("expected no record created without a session")
	}
}

func TestNamedHandlers_MethodNotAllowed(t *testing.T) {
	for _, route := range namedRoutes {
		w := doJSON(router, http.MethodPatch, route.path, token, nil)

		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", route.path, w.Code)
		}
		if got := w.Header().Get("Allow"); got != "POST, GET, PUT, DELETE" {
			t.Errorf("%s: unexpected Allow header %q", route.path, got)
		}
		if got := w.Body.String(); got != "Method PATCH Not Allowed" {
			t.Errorf("%s: unexpected body %q", route.path, got)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("%s: expected text/plain, got %q", route.path, ct)
		}
	}
}

func TestNamedHandlers_CRUD(t *testing.T) {
	for _, route := range namedRoutes {
		t.Run(route.label, func(t *testing.T) {
			t.Cleanup(clearAllNamed)
			r := router

			// empty list is [] rather than null
			w := doJSON(r, http.MethodGet, route.path, token, nil)
			if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
				t.Fatalf("expected 200 [], got %d %s", w.Code, w.Body.String())
			}

			w = doJSON(r, http.MethodPost, route.path, token, handler.NamedRequest{Name: "  Tools  "})
			if w.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
			}
			var created models.Named
			_ = json.NewDecoder(w.Body).Decode(&created)
			if created.ID == "" || created.Name != "Tools" || created.UserID == "" {
				t.Fatalf("unexpected record %+v", created)
			}

			doJSON(r, http.MethodPost, route.path, otherToken, handler.NamedRequest{Name: "Hidden"})

			w = doJSON(r, http.MethodGet, route.path, token, nil)
			var list []models.Named
			_ = json.NewDecoder(w.Body).Decode(&list)
			if len(list) != 1 || list[0].ID != created.ID {
				t.Fatalf("expected only the caller's record, got %+v", list)
			}

			w = doJSON(r, http.MethodPut, route.path, token, handler.NamedRequest{ID: created.ID, Name: "Hardware"})
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			var updated models.Named
			_ = json.NewDecoder(w.Body).Decode(&updated)
			if updated.Name != "Hardware" || updated.ID != created.ID {
				t.Errorf("unexpected updated record %+v", updated)
			}

			w = doJSON(r, http.MethodDelete, route.path, token, handler.NamedRequest{ID: created.ID})
			if w.Code != http.StatusNoContent {
				t.Fatalf("expected 204, got %d", w.Code)
			}
			if w.Body.Len() != 0 {
				t.Errorf("expected empty body, got %q", w.Body.String())
			}

			w = doJSON(r, http.MethodGet, route.path, token, nil)
			if strings.TrimSpace(w.Body.String()) != "[]" {
				t.Errorf("expected empty list after delete, got %s", w.Body.String())
			}
		})
	}
}

func TestNamedHandlers_EmptyBody(t *testing.T) {
	for _, route := range namedRoutes {
		t.Run(route.label, func(t *testing.T) {
			t.Cleanup(clearAllNamed)
			r := router

			w := doJSON(r, http.MethodPost, route.path, token, handler.NamedRequest{Name: "Tools"})
			if w.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d", w.Code)
			}

			w = doJSON(r, http.MethodPut, route.path, token, nil)
			if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "ID and name are required") {
				t.Errorf("PUT: expected 400 'ID and name are required', got %d %s", w.Code, w.Body.String())
			}

			w = doJSON(r, http.MethodDelete, route.path, token, nil)
			if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), route.label+" not found") {
				t.Errorf("DELETE: expected 404, got %d %s", w.Code, w.Body.String())
			}

			w = doJSON(r, http.MethodPut, route.path, token, `{"id":`)
			if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "invalid input") {
				t.Errorf("PUT: expected 400 'invalid input' for malformed JSON, got %d %s", w.Code, w.Body.String())
			}

			if categoryRepo.Len()+supplierRepo.Len() != 1 {
				t.Errorf("expected the store unchanged, got %d records", categoryRepo.Len()+supplierRepo.Len())
			}
		})
	}
}

func TestNamedHandlers_Errors(t *testing.T) {
	for _, route := range namedRoutes {
		t.Run(route.label, func(t *testing.T) {
			t.Cleanup(clearAllNamed)
			r := router

			w := doJSON(r, http.MethodPost, route.path, token, handler.NamedRequest{Name: "   "})
			if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Name is required") {
				t.Fatalf("expected 400 'Name is required', got %d %s", w.Code, w.Body.String())
			}

			w = doJSON(r, http.MethodPost, route.path, token, handler.NamedRequest{Name: "Tools"})
			var created models.Named
			_ = json.NewDecoder(w.Body).Decode(&created)

			for _, body := range []handler.NamedRequest{{ID: created.ID}, {Name: "Renamed"}} {
				w = doJSON(r, http.MethodPut, route.path, token, body)
				if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "ID and name are required") {
					t.Errorf("expected 400 'ID and name are required', got %d %s", w.Code, w.Body.String())
				}
			}

			w = doJSON(r, http.MethodPut, route.path, token, handler.NamedRequest{ID: "missing", Name: "Renamed"})
			if w.Code != http.StatusInternalServerError {
				t.Errorf("expected 500 for an unknown id, got %d", w.Code)
			}

			w = doJSON(r, http.MethodDelete, route.path, token, handler.NamedRequest{ID: "missing"})
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), route.label+" not found") {
				t.Errorf("expected %q, got %s", route.label+" not found", w.Body.String())
			}

			// another user cannot delete the record either
			w = doJSON(r, http.MethodDelete, route.path, otherToken, handler.NamedRequest{ID: created.ID})
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404 for another user, got %d", w.Code)
			}

			w = doJSON(r, http.MethodGet, route.path, token, nil)
			var list []models.Named
			_ = json.NewDecoder(w.Body).Decode(&list)
			if len(list) != 1 || list[0].Name != "Tools" {
				t.Errorf("expected the record unchanged, got %+v", list)
			}
		})
	}
}
