// Package analytics derives business insights from a product list.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/rogerio-castellano/stockly/internal/models"
)

const (
	DefaultLocale   = "es"
	DefaultCurrency = "€"

	topProductsLimit = 5
	lowStockLimit    = 5
)

type Options struct {
	Locale   string
	Currency string
	// Now is used to pick the trend year when there are no products.
	Now time.Time
}

type CategorySlice struct {
	Name       string  `json:"name"`
	Value      int     `json:"value"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type MonthPoint struct {
	Month        string `json:"month"`
	Products     int    `json:"products"`
	MonthlyAdded int    `json:"monthlyAdded"`
}

type TopProduct struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Quantity int     `json:"quantity"`
}

type Insights struct {
	TotalProducts          int              `json:"totalProducts"`
	TotalValue             float64          `json:"totalValue"`
	LowStockItems          int              `json:"lowStockItems"`
	OutOfStockItems        int              `json:"outOfStockItems"`
	AveragePrice           float64          `json:"averagePrice"`
	TotalQuantity          int              `json:"totalQuantity"`
	StockUtilization       float64          `json:"stockUtilization"`
	ValueDensity           float64          `json:"valueDensity"`
	StockCoverage          float64          `json:"stockCoverage"`
	CategoryDistribution   []CategorySlice  `json:"categoryDistribution"`
	StatusDistribution     []NamedCount     `json:"statusDistribution"`
	PriceRangeDistribution []NamedCount     `json:"priceRangeDistribution"`
	MonthlyTrend           []MonthPoint     `json:"monthlyTrend"`
	TopProducts            []TopProduct     `json:"topProducts"`
	LowStockProducts       []models.Product `json:"lowStockProducts"`
}

type priceRange struct {
	min, max float64
	// closed makes the upper bound inclusive.
	closed bool
}

// A price of exactly 2000 belongs to the fourth range only.
var priceRanges = []priceRange{
	{0, 100, false},
	{100, 500, false},
	{500, 1000, false},
	{1000, 2000, true},
	{2000, 0, false},
}

func (r priceRange) name(currency string) string {
	if r.max == 0 {
		return fmt.Sprintf("%s%g+", currency, r.min)
	}
	return fmt.Sprintf("%s%g-%s%g", currency, r.min, currency, r.max)
}

func (r priceRange) contains(price float64) bool {
	switch {
	case r.max == 0:
		return price > r.min
	case r.closed:
		return price >= r.min && price <= r.max
	default:
		return price >= r.min && price < r.max
	}
}

func labelOrUnknown(s string) string {
	if s == "" {
		return models.UnknownLabel
	}
	return s
}

// Compute aggregates products into Insights. The input slice is not modified.
func Compute(products []models.Product, opts Options) Insights {
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	in := Insights{TotalProducts: len(products)}

	categoryIdx := map[string]int{}
	statusIdx := map[string]int{}
	in.CategoryDistribution = []CategorySlice{}
	in.StatusDistribution = []NamedCount{}

	for _, p := range products {
		value := p.Value()
		in.TotalValue += value
		in.TotalQuantity += p.Quantity
		if p.LowStock() {
			in.LowStockItems++
		}
		if p.OutOfStock() {
			in.OutOfStockItems++
		}

		category := labelOrUnknown(p.Category)
		i, ok := categoryIdx[category]
		if !ok {
			i = len(in.CategoryDistribution)
			categoryIdx[category] = i
			in.CategoryDistribution = append(in.CategoryDistribution, CategorySlice{Name: category})
		}
		in.CategoryDistribution[i].Value += p.Quantity
		in.CategoryDistribution[i].Count++
		in.CategoryDistribution[i].TotalValue += value

		status := labelOrUnknown(p.Status)
		j, ok := statusIdx[status]
		if !ok {
			j = len(in.StatusDistribution)
			statusIdx[status] = j
			in.StatusDistribution = append(in.StatusDistribution, NamedCount{Name: status})
		}
		in.StatusDistribution[j].Value++
	}

	if in.TotalQuantity > 0 {
		in.AveragePrice = in.TotalValue / float64(in.TotalQuantity)
	}
	if n := float64(in.TotalProducts); n > 0 {
		in.StockUtilization = float64(in.TotalProducts-in.OutOfStockItems) / n * 100
		in.ValueDensity = in.TotalValue / n
		in.StockCoverage = float64(in.TotalQuantity) / n
	}

	in.PriceRangeDistribution = priceRangeDistribution(products, opts.Currency)
	in.MonthlyTrend = monthlyTrend(products, opts)
	in.TopProducts = topProducts(products)
	in.LowStockProducts = lowStockProducts(products)
	return in
}

func priceRangeDistribution(products []models.Product, currency string) []NamedCount {
	out := make([]NamedCount, len(priceRanges))
	for i, r := range priceRanges {
		out[i].Name = r.name(currency)
		for _, p := range products {
			if r.contains(p.Price) {
				out[i].Value++
			}
		}
	}
	return out
}

func monthlyTrend(products []models.Product, opts Options) []MonthPoint {
	year := opts.Now.UTC().Year()
	if len(products) > 0 {
		year = products[0].CreatedAt.UTC().Year()
	}

	var added [12]int
	for _, p := range products {
		created := p.CreatedAt.UTC()
		if created.Year() == year {
			added[created.Month()-1]++
		}
	}

	names := MonthNames(opts.Locale)
	out := make([]MonthPoint, 12)
	cumulative := 0
	for i := range out {
		cumulative += added[i]
		out[i] = MonthPoint{Month: names[i], Products: cumulative, MonthlyAdded: added[i]}
	}
	return out
}

func topProducts(products []models.Product) []TopProduct {
	sorted := append([]models.Product(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value() > sorted[j].Value()
	})

	n := min(topProductsLimit, len(sorted))
	out := make([]TopProduct, 0, n)
	for _, p := range sorted[:n] {
		out = append(out, TopProduct{Name: p.Name, Value: p.Value(), Quantity: p.Quantity})
	}
	return out
}

func lowStockProducts(products []models.Product) []models.Product {
	low := []models.Product{}
	for _, p := range products {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].Quantity < low[j].Quantity
	})
	return low[:min(lowStockLimit, len(low))]
}
