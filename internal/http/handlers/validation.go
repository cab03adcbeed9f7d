package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rogerio-castellano/stockly/internal/models"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// fieldErrors runs struct validation and flattens the result.
func (s *Server) fieldErrors(v any) []ProductValidationError {
	errs := []ProductValidationError{}
	err := s.validate.Struct(v)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return append(errs, ProductValidationError{Description: err.Error()})
	}
	for _, fe := range verrs {
		errs = append(errs, ProductValidationError{Field: fe.Field(), Description: describe(fe)})
	}
	return errs
}

func labelOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.UnknownLabel
	}
	return s
}

// validateProduct normalizes req into a product and reports every invalid field.
// Price and quantity are converted to numbers here and nowhere else.
func (s *Server) validateProduct(req ProductRequest) (models.Product, []ProductValidationError) {
	req.Name = strings.TrimSpace(req.Name)
	req.SKU = strings.TrimSpace(req.SKU)
	req.Price = json.Number(strings.TrimSpace(string(req.Price)))
	req.Quantity = json.Number(strings.TrimSpace(string(req.Quantity)))

	errs := s.fieldErrors(req)

	p := models.Product{
		Name:     req.Name,
		SKU:      req.SKU,
		Category: labelOrUnknown(req.Category),
		Supplier: labelOrUnknown(req.Supplier),
		Status:   strings.TrimSpace(req.Status),
	}

	if req.Price != "" {
		price, err := strconv.ParseFloat(string(req.Price), 64)
		switch {
		case err != nil || math.IsNaN(price) || math.IsInf(price, 0):
			errs = append(errs, ProductValidationError{Field: "Price", Description: "Price must be a number"})
		case price < 0:
			errs = append(errs, ProductValidationError{Field: "Price", Description: "Price cannot be negative"})
		default:
			p.Price = price
		}
	}

	if req.Quantity != "" {
		qty, err := strconv.ParseFloat(string(req.Quantity), 64)
		switch {
		case err != nil || qty != math.Trunc(qty) || qty > math.MaxInt32:
			errs = append(errs, ProductValidationError{Field: "Quantity", Description: "Quantity must be a whole number"})
		case qty < 0:
			errs = append(errs, ProductValidationError{Field: "Quantity", Description: "Quantity cannot be negative"})
		default:
			p.Quantity = int(qty)
		}
	}

	return p, errs
}
