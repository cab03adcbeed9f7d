package analytics

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary     = "Summary"
	SheetCategories  = "Categories"
	SheetStatus      = "Status"
	SheetPriceRanges = "Price Ranges"
	SheetTrend       = "Monthly Trend"
	SheetTop         = "Top Products"
	SheetLowStock    = "Low Stock"
)

// SheetNames lists the export sheets in workbook order.
var SheetNames = []string{SheetSummary, SheetCategories, SheetStatus, SheetPriceRanges, SheetTrend, SheetTop, SheetLowStock}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func buildRows(in Insights) map[string][][]any {
	summary := [][]any{
		{"Metric", "Value"},
		{"Total products", in.TotalProducts},
		{"Total value", in.TotalValue},
		{"Total quantity", in.TotalQuantity},
		{"Average price", in.AveragePrice},
		{"Low stock items", in.LowStockItems},
		{"Out of stock items", in.OutOfStockItems},
		{"Stock utilization (%)", in.StockUtilization},
		{"Value density", in.ValueDensity},
		{"Stock coverage", in.StockCoverage},
	}

	categories := [][]any{{"Category", "Quantity", "Products", "Total value"}}
	for _, c := range in.CategoryDistribution {
		categories = append(categories, []any{c.Name, c.Value, c.Count, c.TotalValue})
	}

	status := [][]any{{"Status", "Products"}}
	for _, s := range in.StatusDistribution {
		status = append(status, []any{s.Name, s.Value})
	}

	ranges := [][]any{{"Price range", "Products"}}
	for _, r := range in.PriceRangeDistribution {
		ranges = append(ranges, []any{r.Name, r.Value})
	}

	trend := [][]any{{"Month", "Products", "Added"}}
	for _, m := range in.MonthlyTrend {
		trend = append(trend, []any{m.Month, m.Products, m.MonthlyAdded})
	}

	top := [][]any{{"Product", "Value", "Quantity"}}
	for _, p := range in.TopProducts {
		top = append(top, []any{p.Name, p.Value, p.Quantity})
	}

	low := [][]any{{"Product", "SKU", "Quantity", "Category", "Supplier"}}
	for _, p := range in.LowStockProducts {
		low = append(low, []any{p.Name, p.SKU, p.Quantity, p.Category, p.Supplier})
	}

	return map[string][][]any{
		SheetSummary:     summary,
		SheetCategories:  categories,
		SheetStatus:      status,
		SheetPriceRanges: ranges,
		SheetTrend:       trend,
		SheetTop:         top,
		SheetLowStock:    low,
	}
}

// WriteWorkbook renders in as an XLSX workbook with one sheet per section.
func WriteWorkbook(w io.Writer, in Insights) error {
	f := excelize.NewFile()
	defer f.Close()

	rows := buildRows(in)
	for i, sheet := range SheetNames {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := writeRows(f, sheet, rows[sheet]); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetSummary, "A", "A", 24); err != nil {
		return err
	}
	f.SetActiveSheet(0)
	_, err := f.WriteTo(w)
	return err
}
