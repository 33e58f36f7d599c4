package money

import "testing"

func TestFromDollars(t *testing.T) {
	tests := []struct {
		dollars float64
		want    Cents
	}{
		{0, 0},
		{1, 100},
		{2499.99, 249999},
		{0.005, 1},
		{99.994, 9999},
	}

	for _, tt := range tests {
		if got := FromDollars(tt.dollars); got != tt.want {
			t.Errorf("FromDollars(%v) = %d, want %d", tt.dollars, got, tt.want)
		}
	}
}

func TestLineAndTax(t *testing.T) {
	// Корзина из спецификации: 100×2 + 50×1 при ставке 10%.
	subtotal := Line(FromDollars(100), 2) + Line(FromDollars(50), 1)
	if subtotal != 25000 {
		t.Fatalf("subtotal = %d cents, want 25000", subtotal)
	}

	tax := Tax(subtotal, 0.1)
	if tax != 2500 {
		t.Fatalf("tax = %d cents, want 2500", tax)
	}

	if total := subtotal + tax; total.Dollars() != 275 {
		t.Fatalf("total = %v dollars, want 275", total.Dollars())
	}
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		cents Cents
		want  string
	}{
		{0, "₹0"},
		{100, "₹83"},
		{FromDollars(2499.99), "₹2,07,499"},
		{FromDollars(12), "₹996"},
		{FromDollars(120.48), "₹10,000"},
		{FromDollars(1204819.28), "₹10,00,00,000"},
		{-100, "-₹83"},
	}

	for _, tt := range tests {
		if got := FormatINR(tt.cents); got != tt.want {
			t.Errorf("FormatINR(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
