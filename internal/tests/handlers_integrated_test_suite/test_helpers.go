package handlers_integrated_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/stockly/internal/analytics"
	"github.com/rogerio-castellano/stockly/internal/auth"
	"github.com/rogerio-castellano/stockly/internal/db"
	api "github.com/rogerio-castellano/stockly/internal/http"
	handler "github.com/rogerio-castellano/stockly/internal/http/handlers"
	"github.com/rogerio-castellano/stockly/internal/redissvc"
	"github.com/rogerio-castellano/stockly/internal/repo"
	"github.com/rogerio-castellano/stockly/internal/status"
)

type productStore interface {
	repo.ProductRepository
	repo.Pinger
}

// backend is one persistent storage configuration under test.
type backend struct {
	name       string
	products   productStore
	categories repo.NamedRepository
	suppliers  repo.NamedRepository
	users      repo.UserRepository
}

func sqliteBackend(t *testing.T) backend {
	t.Helper()

	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "stockly.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if err := repo.MigrateGorm(gdb); err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return backend{
		name:       "sqlite",
		products:   repo.NewGormProductRepository(gdb),
		categories: repo.NewGormNamedRepository(gdb, repo.CategoriesTable),
		suppliers:  repo.NewGormNamedRepository(gdb, repo.SuppliersTable),
		users:      repo.NewGormUserRepository(gdb),
	}
}

func postgresBackend(t *testing.T) backend {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	database, err := db.Connect(t.Context(), dbURL)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return backend{
		name:       "postgres",
		products:   repo.NewPostgresProductRepository(database),
		categories: repo.NewPostgresNamedRepository(database, repo.CategoriesTable),
		suppliers:  repo.NewPostgresNamedRepository(database, repo.SuppliersTable),
		users:      repo.NewPostgresUserRepository(database),
	}
}

// forEachBackend runs fn once per available backend with a fresh router.
func forEachBackend(t *testing.T, fn func(t *testing.T, r http.Handler)) {
	for name, open := range map[string]func(*testing.T) backend{
		"sqlite":   sqliteBackend,
		"postgres": postgresBackend,
	} {
		t.Run(name, func(t *testing.T) {
			fn(t, newRouter(open(t)))
		})
	}
}

func newRouter(b backend) http.Handler {
	authService := auth.NewAuthService(b.users, auth.NewIssuer("integration-secret", time.Hour), redissvc.NewMemoryStore())
	server := handler.NewServer(handler.Deps{
		Products:   b.products,
		Categories: b.categories,
		Suppliers:  b.suppliers,
		Auth:       authService,
		Status:     status.NewChecker("Stockly", "integration", time.Now(), 2*time.Second),
		Probes:     []status.Probe{status.PingProbe(b.name, b.products.Ping)},
		Analytics:  analytics.Options{Locale: "en", Currency: "$"},
	})
	return api.NewRouter(api.RouterDeps{Server: server, Auth: authService})
}

// registerUser signs up a user with a unique email so shared databases can be reused.
func registerUser(t *testing.T, r http.Handler) string {
	t.Helper()

	payload := handler.RegisterRequest{
		Name:     "Integration",
		Email:    fmt.Sprintf("it-%s@example.com", uuid.NewString()),
		Password: "secret123",
	}
	w := doJSON(r, http.MethodPost, "/api/auth/register", "", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	var resp handler.RegisterResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("token decoding failed: %v", err)
	}
	return resp.Token
}

func doJSON(r http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func uploadCSV(r http.Handler, bearer, csvData, query string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", "products.csv")
	part.Write([]byte(csvData))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/products/import"+query, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
