package domain

import "testing"

func TestOrderStatus_CanAdvanceTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		expected bool
	}{
		{OrderStatusNew, OrderStatusInProgress, true},
		{OrderStatusNew, OrderStatusCompleted, true},
		{OrderStatusInProgress, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusNew, OrderStatusNew, false},
		{OrderStatusReady, OrderStatusInProgress, false},
		{OrderStatusCompleted, OrderStatusNew, false},
		{OrderStatusNew, OrderStatus("shipped"), false},
		{OrderStatus("shipped"), OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanAdvanceTo(tt.to); got != tt.expected {
				t.Errorf("CanAdvanceTo() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusNew, OrderStatusInProgress, OrderStatusReady, OrderStatusCompleted} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if OrderStatus("cancelled").Valid() {
		t.Error("unknown status should be invalid")
	}
}
