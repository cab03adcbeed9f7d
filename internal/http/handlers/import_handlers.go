package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/stockly/internal/logx"
	"github.com/rogerio-castellano/stockly/internal/repo"
	"github.com/xuri/excelize/v2"
)

const maxImportSize = 10 << 20

var importColumns = []string{"name", "sku", "price", "quantity", "category", "supplier", "status"}

var requiredImportColumns = []string{"name", "sku", "price"}

// importRow is one data row keyed by lower-cased header.
type importRow map[string]string

func (r importRow) request() ProductRequest {
	return ProductRequest{
		Name:     r["name"],
		SKU:      r["sku"],
		Price:    json.Number(strings.TrimSpace(r["price"])),
		Quantity: json.Number(strings.TrimSpace(r["quantity"])),
		Category: r["category"],
		Supplier: r["supplier"],
		Status:   r["status"],
	}
}

// toRows maps a header row plus records into importRows.
func toRows(records [][]string) ([]importRow, error) {
	if len(records) == 0 {
		return nil, errors.New("file is empty")
	}

	index := map[string]int{}
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredImportColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	rows := make([]importRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := importRow{}
		for _, col := range importColumns {
			if i, ok := index[col]; ok && i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseCSV(file io.Reader) ([]importRow, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV read error: %v", err)
	}
	return toRows(records)
}

func parseXLSX(file io.Reader) ([]importRow, error) {
	xlsx, err := excelize.OpenReader(file)
	if err != nil {
		return nil, errors.New("invalid Excel file")
	}
	defer xlsx.Close()

	sheets := xlsx.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	records, err := xlsx.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %v", err)
	}
	return toRows(records)
}

// ImportProductsHandler godoc
// @Summary Import products from CSV or XLSX
// @Description Header row: name, sku, price, quantity, category, supplier, status. Existing skus are skipped or updated depending on mode.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV or XLSX file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/products/import [post]
func (s *Server) ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	var rows []importRow
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx":
		rows, err = parseXLSX(file)
	default:
		rows, err = parseCSV(file)
	}
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	imported := 0
	errorsList := []ProductValidationError{}
	rowError := func(rowNum int, field, format string, args ...any) {
		errorsList = append(errorsList, ProductValidationError{
			Field:       field,
			Description: fmt.Sprintf("row %d: ", rowNum) + fmt.Sprintf(format, args...),
		})
	}

	for i, row := range rows {
		rowNum := i + 2 // header is row 1

		product, verrs := s.validateProduct(row.request())
		if len(verrs) > 0 {
			for _, v := range verrs {
				rowError(rowNum, v.Field, "%s", v.Description)
			}
			continue
		}

		now := time.Now().UTC()
		existing, err := s.Products.GetBySKU(r.Context(), session.ID, product.SKU)
		switch {
		case err == nil:
			if mode == "skip" {
				rowError(rowNum, "SKU", "product with sku '%s' already exists", product.SKU)
				continue
			}
			product.ID = existing.ID
			product.UserID = session.ID
			product.UpdatedAt = now
			if _, err := s.Products.Update(r.Context(), product); err != nil {
				logx.Warn().Err(err).Int("row", rowNum).Msg("import update failed")
				rowError(rowNum, "", "failed to update '%s'", product.SKU)
				continue
			}
		case errors.Is(err, repo.ErrProductNotFound):
			product.ID = uuid.NewString()
			product.UserID = session.ID
			product.CreatedAt = now
			product.UpdatedAt = now
			if _, err := s.Products.Create(r.Context(), product); err != nil {
				logx.Warn().Err(err).Int("row", rowNum).Msg("import create failed")
				rowError(rowNum, "", "failed to create '%s'", product.SKU)
				continue
			}
		default:
			logx.Error().Err(err).Int("row", rowNum).Msg("import lookup failed")
			rowError(rowNum, "", "failed to look up '%s'", product.SKU)
			continue
		}
		imported++
	}

	logx.Info().Str("user_id", session.ID).Str("mode", mode).Int("imported", imported).Int("errors", len(errorsList)).Msg("products imported")
	writeJSON(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}

