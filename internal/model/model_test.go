package model

import "testing"

func TestOrderStatusValid(t *testing.T) {
	valid := []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("status %q must be valid", s)
		}
	}

	invalid := []OrderStatus{"", "Bogus", "pending", "PENDING", "Refunded"}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("status %q must be invalid", s)
		}
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	if !OrderStatusDelivered.IsTerminal() {
		t.Errorf("Delivered must be terminal")
	}
	if !OrderStatusCancelled.IsTerminal() {
		t.Errorf("Cancelled must be terminal")
	}
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped} {
		if s.IsTerminal() {
			t.Errorf("status %q must not be terminal", s)
		}
	}
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusCancelled, true},

		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusProcessing, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusDelivered, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s → %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
