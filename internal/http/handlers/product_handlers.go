package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rogerio-castellano/stockly/internal/logx"
	"github.com/rogerio-castellano/stockly/internal/models"
	"github.com/rogerio-castellano/stockly/internal/repo"
)

const (
	skuTakenMessage        = "a product with this sku already exists"
	productNotFoundMessage = "product not found"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the caller's inventory
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} ProductValidationError
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid input")
		return
	}

	product, validationErrors := s.validateProduct(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	now := time.Now().UTC()
	product.ID = uuid.NewString()
	product.UserID = session.ID
	product.CreatedAt = now
	product.UpdatedAt = now

	created, err := s.Products.Create(r.Context(), product)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			WriteError(w, http.StatusConflict, skuTakenMessage)
			return
		}
		logx.Error().Err(err).Str("user_id", session.ID).Msg("could not create product")
		WriteError(w, http.StatusInternalServerError, "could not create product")
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary List the caller's products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProductResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	products, err := s.Products.GetAll(r.Context(), session.ID)
	if err != nil {
		logx.Error().Err(err).Str("user_id", session.ID).Msg("could not fetch products")
		WriteError(w, http.StatusInternalServerError, "could not fetch products")
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [get]
func (s *Server) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	product, ok := s.loadProduct(w, r, session)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// loadProduct fetches the {id} product of the caller or answers 404/500.
func (s *Server) loadProduct(w http.ResponseWriter, r *http.Request, session models.Session) (models.Product, bool) {
	id := chi.URLParam(r, "id")
	product, err := s.Products.GetByID(r.Context(), session.ID, id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			WriteError(w, http.StatusNotFound, productNotFoundMessage)
			return models.Product{}, false
		}
		logx.Error().Err(err).Str("id", id).Msg("could not fetch product")
		WriteError(w, http.StatusInternalServerError, "could not fetch product")
		return models.Product{}, false
	}
	return product, true
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} ProductResponse
// @Failure 400 {array} ProductValidationError
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [put]
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid input")
		return
	}

	product, validationErrors := s.validateProduct(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	product.ID = chi.URLParam(r, "id")
	product.UserID = session.ID
	product.UpdatedAt = time.Now().UTC()

	updated, err := s.Products.Update(r.Context(), product)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			WriteError(w, http.StatusNotFound, productNotFoundMessage)
		case errors.Is(err, repo.ErrDuplicatedValueUnique):
			WriteError(w, http.StatusConflict, skuTakenMessage)
		default:
			logx.Error().Err(err).Str("id", product.ID).Msg("could not update product")
			WriteError(w, http.StatusInternalServerError, "could not update product")
		}
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [delete]
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.Products.Delete(r.Context(), session.ID, id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			WriteError(w, http.StatusNotFound, productNotFoundMessage)
			return
		}
		logx.Error().Err(err).Str("id", id).Msg("could not delete product")
		WriteError(w, http.StatusInternalServerError, "could not delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// copyOf clones p under a new id, with a suffixed name and a timestamped sku.
func copyOf(p models.Product, now time.Time) models.Product {
	c := p
	c.ID = uuid.NewString()
	c.Name = p.Name + " (copy)"
	c.SKU = fmt.Sprintf("%s-%d", p.SKU, now.UnixMilli())
	c.Category = labelOrUnknown(p.Category)
	c.Supplier = labelOrUnknown(p.Supplier)
	c.CreatedAt = now
	c.UpdatedAt = now
	return c
}

// CopyProductHandler godoc
// @Summary Duplicate a product
// @Description Creates a copy named "<name> (copy)" with sku "<sku>-<unix millis>"
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 201 {object} ProductResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id}/copy [post]
func (s *Server) CopyProductHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	original, ok := s.loadProduct(w, r, session)
	if !ok {
		return
	}

	created, err := s.Products.Create(r.Context(), copyOf(original, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			WriteError(w, http.StatusConflict, skuTakenMessage)
			return
		}
		logx.Error().Err(err).Str("id", original.ID).Msg("could not copy product")
		WriteError(w, http.StatusInternalServerError, "could not copy product")
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// FilterProductsHandler godoc
// @Summary Filter and paginate products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param name query string false "Filter by name (case-insensitive substring)"
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param minQty query int false "Minimum quantity"
// @Param maxQty query int false "Maximum quantity"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/search [get]
func (s *Server) FilterProductsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := repo.ProductFilter{
		UserID:   session.ID,
		Name:     q.Get("name"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
		MinPrice: parseFloatPtr(q.Get("minPrice")),
		MaxPrice: parseFloatPtr(q.Get("maxPrice")),
		MinQty:   parseIntPtr(q.Get("minQty")),
		MaxQty:   parseIntPtr(q.Get("maxQty")),
		Offset:   parseIntPtr(q.Get("offset")),
		Limit:    parseIntPtr(q.Get("limit")),
	}

	if filter.Limit != nil && *filter.Limit <= 0 {
		WriteError(w, http.StatusBadRequest, "limit must be greater than zero")
		return
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		WriteError(w, http.StatusBadRequest, "offset must be zero or positive")
		return
	}

	products, total, err := s.Products.Filter(r.Context(), filter)
	if err != nil {
		logx.Error().Err(err).Str("user_id", session.ID).Msg("could not filter products")
		WriteError(w, http.StatusInternalServerError, "could not filter products")
		return
	}

	writeJSON(w, http.StatusOK, ProductsSearchResult{
		Data: toProductResponses(products),
		Meta: Meta{TotalCount: total},
	})
}
