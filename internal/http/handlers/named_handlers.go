package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/stockly/internal/logx"
	"github.com/rogerio-castellano/stockly/internal/models"
	"github.com/rogerio-castellano/stockly/internal/repo"
)

const allowedNamedMethods = "POST, GET, PUT, DELETE"

// CategoriesHandler godoc
// @Summary Manage categories
// @Description POST creates {name}, GET lists, PUT updates {id, name}, DELETE removes {id}
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param record body NamedRequest false "Category"
// @Success 200 {array} models.Named
// @Success 201 {object} models.Named
// @Success 204 "Deleted"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 405 {string} string "Method Not Allowed"
// @Failure 500 {object} ErrorResponse
// @Router /api/categories [post]
// @Router /api/categories [get]
// @Router /api/categories [put]
// @Router /api/categories [delete]
func (s *Server) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	s.namedHandler(w, r, s.Categories, "category")
}

// SuppliersHandler godoc
// @Summary Manage suppliers
// @Description POST creates {name}, GET lists, PUT updates {id, name}, DELETE removes {id}
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param record body NamedRequest false "Supplier"
// @Success 200 {array} models.Named
// @Success 201 {object} models.Named
// @Success 204 "Deleted"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 405 {string} string "Method Not Allowed"
// @Failure 500 {object} ErrorResponse
// @Router /api/suppliers [post]
// @Router /api/suppliers [get]
// @Router /api/suppliers [put]
// @Router /api/suppliers [delete]
func (s *Server) SuppliersHandler(w http.ResponseWriter, r *http.Request) {
	s.namedHandler(w, r, s.Suppliers, "supplier")
}

func (s *Server) namedHandler(w http.ResponseWriter, r *http.Request, store repo.NamedRepository, kind string) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		createNamed(w, r, store, kind, session)
	case http.MethodGet:
		listNamed(w, r, store, kind, session)
	case http.MethodPut:
		updateNamed(w, r, store, kind, session)
	case http.MethodDelete:
		deleteNamed(w, r, store, kind, session)
	default:
		w.Header().Set("Allow", allowedNamedMethods)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, "Method %s Not Allowed", r.Method)
	}
}

func createNamed(w http.ResponseWriter, r *http.Request, store repo.NamedRepository, kind string, session models.Session) {
	var req NamedRequest
	if err := readJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid input")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}

	now := time.Now().UTC()
	created, err := store.Create(r.Context(), models.Named{
		ID:        uuid.NewString(),
		Name:      name,
		UserID:    session.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		logx.Error().Err(err).Str("kind", kind).Str("user_id", session.ID).Msg("failed to create record")
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to create %s", kind))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func listNamed(w http.ResponseWriter, r *http.Request, store repo.NamedRepository, kind string, session models.Session) {
	records, err := store.ListByUser(r.Context(), session.ID)
	if err != nil {
		logx.Error().Err(err).Str("kind", kind).Str("user_id", session.ID).Msg("failed to list records")
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch %s records", kind))
		return
	}
	if records == nil {
		records = []models.Named{}
	}
	writeJSON(w, http.StatusOK, records)
}

// updateNamed reports any store failure as 500, including an unknown id.
// An empty body counts as both fields missing.
func updateNamed(w http.ResponseWriter, r *http.Request, store repo.NamedRepository, kind string, session models.Session) {
	var req NamedRequest
	if err := readJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, "invalid input")
		return
	}
	name := strings.TrimSpace(req.Name)
	if req.ID == "" || name == "" {
		WriteError(w, http.StatusBadRequest, "ID and name are required")
		return
	}

	updated, err := store.Update(r.Context(), models.Named{
		ID:        req.ID,
		Name:      name,
		UserID:    session.ID,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		logx.Error().Err(err).Str("kind", kind).Str("id", req.ID).Str("user_id", session.ID).Msg("failed to update record")
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update %s", kind))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteNamed treats an empty body as an unknown id.
func deleteNamed(w http.ResponseWriter, r *http.Request, store repo.NamedRepository, kind string, session models.Session) {
	var req NamedRequest
	if err := readJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, "invalid input")
		return
	}

	if _, err := store.GetByID(r.Context(), session.ID, req.ID); err != nil {
		if errors.Is(err, repo.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("%s not found", capitalize(kind)))
			return
		}
		logx.Error().Err(err).Str("kind", kind).Str("id", req.ID).Msg("failed to look up record")
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete %s", kind))
		return
	}

	if err := store.Delete(r.Context(), session.ID, req.ID); err != nil {
		logx.Error().Err(err).Str("kind", kind).Str("id", req.ID).Str("user_id", session.ID).Msg("failed to delete record")
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete %s", kind))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
