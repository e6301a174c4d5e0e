package service

import (
	"testing"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/constants"
)

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range constants.OrderStatuses {
		if !IsValidOrderStatus(status) {
			t.Fatalf("status %s should be valid", status)
		}
	}
	for _, status := range []string{"", "shipped", "RECEIVED_PACKAGE", "paid"} {
		if IsValidOrderStatus(status) {
			t.Fatalf("status %q should be invalid", status)
		}
	}
}

func TestNormalizeOrderStatus(t *testing.T) {
	if got := NormalizeOrderStatus("  Payment_Paid "); got != constants.OrderStatusPaid {
		t.Fatalf("normalize want %s got %s", constants.OrderStatusPaid, got)
	}
}

func TestCanTransitionWorker(t *testing.T) {
	if !CanTransition(constants.RoleWorker, constants.OrderStatusReceived, constants.OrderStatusPaid) {
		t.Fatalf("worker should move received_package to payment_paid")
	}
	denied := [][2]string{
		{constants.OrderStatusReceived, constants.OrderStatusDelivered},
		{constants.OrderStatusReceived, constants.OrderStatusCancelled},
		{constants.OrderStatusPaid, constants.OrderStatusDelivered},
		{constants.OrderStatusPaid, constants.OrderStatusReceived},
		{constants.OrderStatusDelivered, constants.OrderStatusCancelled},
		{constants.OrderStatusCancelled, constants.OrderStatusReceived},
	}
	for _, pair := range denied {
		if CanTransition(constants.RoleWorker, pair[0], pair[1]) {
			t.Fatalf("worker should not move %s to %s", pair[0], pair[1])
		}
	}
}

func TestCanTransitionExecutive(t *testing.T) {
	for _, from := range constants.OrderStatuses {
		for _, to := range constants.OrderStatuses {
			got := CanTransition(constants.RoleExecutive, from, to)
			want := from != to
			if got != want {
				t.Fatalf("executive %s to %s: want %v got %v", from, to, want, got)
			}
		}
	}
}

func TestCanTransitionSameStatus(t *testing.T) {
	if CanTransition(constants.RoleExecutive, constants.OrderStatusPaid, constants.OrderStatusPaid) {
		t.Fatalf("same-status transition should be rejected for executives")
	}
	if CanTransition(constants.RoleWorker, constants.OrderStatusReceived, constants.OrderStatusReceived) {
		t.Fatalf("same-status transition should be rejected for workers")
	}
}
