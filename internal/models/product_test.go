package models

import "testing"

func TestProductStockPredicates(t *testing.T) {
	tests := []struct {
		qty        int
		lowStock   bool
		outOfStock bool
	}{
		{0, false, true},
		{1, true, false},
		{20, true, false},
		{21, false, false},
	}
	for _, tt := range tests {
		p := Product{Quantity: tt.qty, Price: 2.5}
		if p.LowStock() != tt.lowStock {
			t.Errorf("qty %d: expected low stock %v", tt.qty, tt.lowStock)
		}
		if p.OutOfStock() != tt.outOfStock {
			t.Errorf("qty %d: expected out of stock %v", tt.qty, tt.outOfStock)
		}
		if p.Value() != 2.5*float64(tt.qty) {
			t.Errorf("qty %d: unexpected value %v", tt.qty, p.Value())
		}
	}
}
