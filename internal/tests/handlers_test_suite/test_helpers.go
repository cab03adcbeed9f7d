package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/stockly/internal/analytics"
	"github.com/rogerio-castellano/stockly/internal/auth"
	api "github.com/rogerio-castellano/stockly/internal/http"
	handler "github.com/rogerio-castellano/stockly/internal/http/handlers"
	"github.com/rogerio-castellano/stockly/internal/redissvc"
	"github.com/rogerio-castellano/stockly/internal/repo"
	"github.com/rogerio-castellano/stockly/internal/status"
)

var (
	token        string
	otherToken   string
	productRepo  *repo.InMemoryProductRepository
	categoryRepo *repo.InMemoryNamedRepository
	supplierRepo *repo.InMemoryNamedRepository
	authService  *auth.AuthService
	router       http.Handler
)

func init() {
	setupTestRepos()
	router = newRouter()

	var err error
	token, err = registerUser(router, "Admin", "admin@example.com", "secret123")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
	otherToken, err = registerUser(router, "Other", "other@example.com", "secret123")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos() {
	productRepo = repo.NewInMemoryProductRepository()
	categoryRepo = repo.NewInMemoryNamedRepository()
	supplierRepo = repo.NewInMemoryNamedRepository()
	authService = auth.NewAuthService(
		repo.NewInMemoryUserRepository(),
		auth.NewIssuer("test-secret", time.Hour),
		redissvc.NewMemoryStore(),
	)
}

func newServer() *handler.Server {
	return handler.NewServer(handler.Deps{
		Products:   productRepo,
		Categories: categoryRepo,
		Suppliers:  supplierRepo,
		Auth:       authService,
		Status:     status.NewChecker("Stockly", "testing", time.Now(), time.Second),
		Probes: []status.Probe{
			status.PingProbe("storage", productRepo.Ping),
		},
		Analytics: analytics.Options{Locale: "es", Currency: "€"},
	})
}

func newRouter() http.Handler {
	return api.NewRouter(api.RouterDeps{Server: newServer(), Auth: authService})
}

func clearAllProducts() {
	productRepo.Clear()
}

func clearAllNamed() {
	categoryRepo.Clear()
	supplierRepo.Clear()
}

func registerUser(r http.Handler, name, email, password string) (string, error) {
	payload := handler.RegisterRequest{Name: name, Email: email, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		return "", fmt.Errorf("register returned %d: %s", w.Code, w.Body.String())
	}

	var resp handler.RegisterResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

// doJSON sends body (when not nil) as JSON with the given bearer token.
func doJSON(r http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
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

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/api/products", token, p)
}

func mustCreateProduct(r http.Handler, p handler.ProductRequest) handler.ProductResponse {
	w := createProduct(r, p)
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("create product returned %d: %s", w.Code, w.Body.String()))
	}
	var resp handler.ProductResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func multipartFile(content []byte, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write(content)

	writer.Close()
	return &buf, writer.FormDataContentType()
}
