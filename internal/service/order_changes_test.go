package service

import (
	"testing"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func TestApplyOrderPatchDiffsChangedFields(t *testing.T) {
	oldWeight := models.NewWeightFromDecimal(decimal.RequireFromString("2.5"))
	order := &models.Order{
		SenderName:   "Erdene",
		ReceiverName: "Oyun",
		CargoType:    "Parcel",
		Weight:       &oldWeight,
	}
	newWeight := models.NewWeightFromDecimal(decimal.RequireFromString("3.75"))
	patch := &OrderPatch{
		SenderName: strPtr("Bold"),
		CargoType:  strPtr("Parcel"),
		Weight:     &newWeight,
	}

	changes := applyOrderPatch(order, patch)

	if len(changes) != 2 {
		t.Fatalf("changes want 2 entries got %d: %v", len(changes), changes)
	}
	sender, ok := changes["sender_name"].(map[string]interface{})
	if !ok {
		t.Fatalf("sender_name change missing: %v", changes)
	}
	if sender["from"] != "Erdene" || sender["to"] != "Bold" {
		t.Fatalf("sender_name diff wrong: %v", sender)
	}
	if _, ok := changes["cargo_type"]; ok {
		t.Fatalf("unchanged cargo_type should not be recorded")
	}
	if _, ok := changes["weight"]; !ok {
		t.Fatalf("weight change missing: %v", changes)
	}
	if order.SenderName != "Bold" {
		t.Fatalf("sender_name not applied, got %s", order.SenderName)
	}
	if order.Weight == nil || !order.Weight.Equal(decimal.RequireFromString("3.75")) {
		t.Fatalf("weight not applied, got %v", order.Weight)
	}
	if order.ReceiverName != "Oyun" {
		t.Fatalf("untouched field changed: %s", order.ReceiverName)
	}
}

func TestApplyOrderPatchNoChanges(t *testing.T) {
	price := models.NewMoneyFromDecimal(decimal.NewFromInt(15000))
	order := &models.Order{
		SenderName: "Erdene",
		Price:      &price,
	}
	samePrice := models.NewMoneyFromDecimal(decimal.RequireFromString("15000"))
	patch := &OrderPatch{
		SenderName: strPtr("Erdene"),
		Price:      &samePrice,
	}

	changes := applyOrderPatch(order, patch)
	if len(changes) != 0 {
		t.Fatalf("identical patch should produce no changes, got %v", changes)
	}
}

func TestApplyOrderPatchSetsWeightFromNil(t *testing.T) {
	order := &models.Order{SenderName: "Erdene"}
	weight := models.NewWeightFromDecimal(decimal.RequireFromString("1.2"))
	patch := &OrderPatch{Weight: &weight}

	changes := applyOrderPatch(order, patch)
	if _, ok := changes["weight"]; !ok {
		t.Fatalf("weight change missing when order had none: %v", changes)
	}
	if order.Weight == nil {
		t.Fatalf("weight not assigned")
	}
}

func TestHasFieldEdits(t *testing.T) {
	statusOnly := &OrderPatch{Status: strPtr("payment_paid")}
	if statusOnly.HasFieldEdits() {
		t.Fatalf("status-only patch should not count as field edits")
	}
	withNotes := &OrderPatch{Status: strPtr("payment_paid"), Notes: strPtr("fragile")}
	if !withNotes.HasFieldEdits() {
		t.Fatalf("patch with notes should count as field edits")
	}
	workerID := uint(3)
	withWorker := &OrderPatch{WorkerID: &workerID}
	if !withWorker.HasFieldEdits() {
		t.Fatalf("patch with worker reassignment should count as field edits")
	}
}
