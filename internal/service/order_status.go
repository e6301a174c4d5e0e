package service

import (
	"strings"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/constants"
)

// workerTransitions is the transition table for the worker role. The key is
// the current status, the value the set of permitted targets. Executives are
// not table-gated: any valid status may be set from any other, the state
// machine exists to correct mistakes.
var workerTransitions = map[string][]string{
	constants.OrderStatusReceived: {constants.OrderStatusPaid},
}

// IsValidOrderStatus reports whether status is one of the known values.
func IsValidOrderStatus(status string) bool {
	for _, known := range constants.OrderStatuses {
		if status == known {
			return true
		}
	}
	return false
}

// NormalizeOrderStatus trims and lowercases a client-supplied status value.
func NormalizeOrderStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// CanTransition reports whether the acting role may move an order from one
// status to another. Both statuses must already be validated.
func CanTransition(role, from, to string) bool {
	if from == to {
		return false
	}
	if role == constants.RoleExecutive {
		return true
	}
	for _, target := range workerTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}
