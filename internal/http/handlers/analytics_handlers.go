package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/rogerio-castellano/stockly/internal/analytics"
	"github.com/rogerio-castellano/stockly/internal/logx"
	"github.com/rogerio-castellano/stockly/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) insightsFor(w http.ResponseWriter, r *http.Request, session models.Session) (analytics.Insights, bool) {
	products, err := s.Products.GetAll(r.Context(), session.ID)
	if err != nil {
		logx.Error().Err(err).Str("user_id", session.ID).Msg("could not fetch products for analytics")
		WriteError(w, http.StatusInternalServerError, "could not compute analytics")
		return analytics.Insights{}, false
	}

	opts := s.Analytics
	opts.Now = time.Now()
	if locale := r.URL.Query().Get("locale"); locale != "" {
		opts.Locale = locale
	}
	return analytics.Compute(products, opts), true
}

// AnalyticsHandler godoc
// @Summary Business insights for the caller's inventory
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param locale query string false "Month name locale (es, en, pt)"
// @Success 200 {object} analytics.Insights
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/analytics [get]
func (s *Server) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	insights, ok := s.insightsFor(w, r, session)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// ExportAnalyticsHandler godoc
// @Summary Export business insights as an XLSX workbook
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param locale query string false "Month name locale (es, en, pt)"
// @Success 200 {file} file
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/analytics/export [get]
func (s *Server) ExportAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	insights, ok := s.insightsFor(w, r, session)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := analytics.WriteWorkbook(&buf, insights); err != nil {
		logx.Error().Err(err).Str("user_id", session.ID).Msg("could not build analytics workbook")
		WriteError(w, http.StatusInternalServerError, "could not export analytics")
		return
	}

	filename := fmt.Sprintf("stockly-analytics-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logx.Warn().Err(err).Msg("failed to write analytics workbook")
	}
}
