package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/config"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/constants"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Worker{}, &models.Order{}, &models.OrderHistory{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	orderRepo := repository.NewOrderRepository(db)
	historyRepo := repository.NewOrderHistoryRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	return NewOrderService(orderRepo, historyRepo, workerRepo, nil, nil), db
}

func createTestWorker(t *testing.T, db *gorm.DB, code, role string) *models.Worker {
	t.Helper()
	worker := &models.Worker{
		Email:        fmt.Sprintf("%s@gereltjin.test", code),
		PasswordHash: "hash",
		Name:         "Worker " + code,
		Code:         code,
		Role:         role,
	}
	if err := db.Create(worker).Error; err != nil {
		t.Fatalf("create worker %s failed: %v", code, err)
	}
	return worker
}

func actorFor(worker *models.Worker) ActingIdentity {
	return ActingIdentity{WorkerID: worker.ID, Role: worker.Role, Name: worker.Name}
}

func basicCreateInput() CreateOrderInput {
	return CreateOrderInput{
		SenderName:    "Erdene",
		SenderPhone:   "99112233",
		ReceiverName:  "Oyun",
		ReceiverPhone: "88114455",
		CargoType:     "Parcel",
	}
}

func loadHistory(t *testing.T, db *gorm.DB, orderID uint) []models.OrderHistory {
	t.Helper()
	var entries []models.OrderHistory
	if err := db.Where("order_id = ?", orderID).Order("id ASC").Find(&entries).Error; err != nil {
		t.Fatalf("load history failed: %v", err)
	}
	return entries
}

func TestOrderCreateAllocatesSequentialNumbers(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	actor := actorFor(worker)

	first, err := svc.Create(actor, basicCreateInput())
	if err != nil {
		t.Fatalf("create first order failed: %v", err)
	}
	if first.OrderNumber != "HS12" {
		t.Fatalf("first order number want HS12 got %s", first.OrderNumber)
	}
	if first.Status != constants.OrderStatusReceived {
		t.Fatalf("new order status want %s got %s", constants.OrderStatusReceived, first.Status)
	}

	second, err := svc.Create(actor, basicCreateInput())
	if err != nil {
		t.Fatalf("create second order failed: %v", err)
	}
	if second.OrderNumber != "HS13" {
		t.Fatalf("second order number want HS13 got %s", second.OrderNumber)
	}

	entries := loadHistory(t, db, first.ID)
	if len(entries) != 1 {
		t.Fatalf("history want 1 entry got %d", len(entries))
	}
	if entries[0].Action != constants.HistoryActionCreated {
		t.Fatalf("history action want created got %s", entries[0].Action)
	}
	if entries[0].NewStatus != constants.OrderStatusReceived {
		t.Fatalf("history new_status want %s got %s", constants.OrderStatusReceived, entries[0].NewStatus)
	}
	if entries[0].WorkerName != worker.Name {
		t.Fatalf("history worker_name want %s got %s", worker.Name, entries[0].WorkerName)
	}
}

func TestOrderCreateSequencesPerWorker(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	first := createTestWorker(t, db, "HS12", constants.RoleWorker)
	second := createTestWorker(t, db, "UB100", constants.RoleWorker)

	order, err := svc.Create(actorFor(first), basicCreateInput())
	if err != nil {
		t.Fatalf("create for HS12 failed: %v", err)
	}
	if order.OrderNumber != "HS12" {
		t.Fatalf("order number want HS12 got %s", order.OrderNumber)
	}

	order, err = svc.Create(actorFor(second), basicCreateInput())
	if err != nil {
		t.Fatalf("create for UB100 failed: %v", err)
	}
	if order.OrderNumber != "UB100" {
		t.Fatalf("order number want UB100 got %s", order.OrderNumber)
	}

	order, err = svc.Create(actorFor(first), basicCreateInput())
	if err != nil {
		t.Fatalf("second create for HS12 failed: %v", err)
	}
	if order.OrderNumber != "HS13" {
		t.Fatalf("order number want HS13 got %s", order.OrderNumber)
	}
}

func TestOrderCreateInvalidWorkerCode(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	if err := db.Model(worker).Update("code", "12HS").Error; err != nil {
		t.Fatalf("corrupt worker code failed: %v", err)
	}

	if _, err := svc.Create(actorFor(worker), basicCreateInput()); !errors.Is(err, ErrInvalidWorkerCode) {
		t.Fatalf("want ErrInvalidWorkerCode got %v", err)
	}
}

func TestNextOrderNumberPreview(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	actor := actorFor(worker)

	number, err := svc.NextOrderNumber(worker.ID)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if number != "HS12" {
		t.Fatalf("preview want HS12 got %s", number)
	}

	// previewing reserves nothing
	number, err = svc.NextOrderNumber(worker.ID)
	if err != nil {
		t.Fatalf("second preview failed: %v", err)
	}
	if number != "HS12" {
		t.Fatalf("repeated preview want HS12 got %s", number)
	}

	if _, err := svc.Create(actor, basicCreateInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	number, err = svc.NextOrderNumber(worker.ID)
	if err != nil {
		t.Fatalf("preview after create failed: %v", err)
	}
	if number != "HS13" {
		t.Fatalf("preview after create want HS13 got %s", number)
	}
}

func TestWorkerMarksOrderPaid(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	actor := actorFor(worker)
	order, err := svc.Create(actor, basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	status := constants.OrderStatusPaid
	updated, err := svc.Update(actor, order.ID, &OrderPatch{Status: &status})
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != constants.OrderStatusPaid {
		t.Fatalf("status want %s got %s", constants.OrderStatusPaid, updated.Status)
	}

	entries := loadHistory(t, db, order.ID)
	if len(entries) != 2 {
		t.Fatalf("history want 2 entries got %d", len(entries))
	}
	last := entries[len(entries)-1]
	if last.Action != constants.HistoryActionStatusChanged {
		t.Fatalf("history action want status_changed got %s", last.Action)
	}
	if last.OldStatus != constants.OrderStatusReceived || last.NewStatus != constants.OrderStatusPaid {
		t.Fatalf("history statuses wrong: %s -> %s", last.OldStatus, last.NewStatus)
	}
}

func TestWorkerCannotMarkDelivered(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	actor := actorFor(worker)
	order, err := svc.Create(actor, basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	status := constants.OrderStatusDelivered
	if _, err := svc.Update(actor, order.ID, &OrderPatch{Status: &status}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition got %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusReceived {
		t.Fatalf("rejected transition must not mutate, status got %s", reloaded.Status)
	}
	if entries := loadHistory(t, db, order.ID); len(entries) != 1 {
		t.Fatalf("rejected transition must not append history, got %d entries", len(entries))
	}
}

func TestUpdateUnknownStatusRejected(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	actor := actorFor(worker)
	order, err := svc.Create(actor, basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	status := "shipped"
	if _, err := svc.Update(actor, order.ID, &OrderPatch{Status: &status}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("want ErrInvalidStatus got %v", err)
	}
}

func TestExecutiveOverridesAnyTransition(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	executive := createTestWorker(t, db, "EE05", constants.RoleExecutive)
	order, err := svc.Create(actorFor(worker), basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	status := constants.OrderStatusDelivered
	updated, err := svc.Update(actorFor(executive), order.ID, &OrderPatch{Status: &status})
	if err != nil {
		t.Fatalf("executive transition failed: %v", err)
	}
	if updated.Status != constants.OrderStatusDelivered {
		t.Fatalf("status want delivered got %s", updated.Status)
	}

	// and back again, correcting the mistake
	status = constants.OrderStatusReceived
	updated, err = svc.Update(actorFor(executive), order.ID, &OrderPatch{Status: &status})
	if err != nil {
		t.Fatalf("executive revert failed: %v", err)
	}
	if updated.Status != constants.OrderStatusReceived {
		t.Fatalf("status want received_package got %s", updated.Status)
	}
}

func TestWorkerEditsReceivedOrderFields(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	actor := actorFor(worker)
	order, err := svc.Create(actor, basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	notes := "fragile, handle with care"
	updated, err := svc.Update(actor, order.ID, &OrderPatch{Notes: &notes})
	if err != nil {
		t.Fatalf("field edit failed: %v", err)
	}
	if updated.Notes != notes {
		t.Fatalf("notes not applied, got %s", updated.Notes)
	}

	entries := loadHistory(t, db, order.ID)
	if len(entries) != 2 {
		t.Fatalf("history want 2 entries got %d", len(entries))
	}
	last := entries[len(entries)-1]
	if last.Action != constants.HistoryActionUpdated {
		t.Fatalf("history action want updated got %s", last.Action)
	}
	if _, ok := last.Changes["notes"]; !ok {
		t.Fatalf("changes should record notes, got %v", last.Changes)
	}
}

func TestWorkerCannotEditAdvancedOrder(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	actor := actorFor(worker)
	order, err := svc.Create(actor, basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	status := constants.OrderStatusPaid
	if _, err := svc.Update(actor, order.ID, &OrderPatch{Status: &status}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	notes := "late correction"
	if _, err := svc.Update(actor, order.ID, &OrderPatch{Notes: &notes}); !errors.Is(err, ErrEditNotAllowed) {
		t.Fatalf("want ErrEditNotAllowed got %v", err)
	}
}

func TestExecutiveEditsAdvancedOrder(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	executive := createTestWorker(t, db, "EE05", constants.RoleExecutive)
	order, err := svc.Create(actorFor(worker), basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	status := constants.OrderStatusPaid
	if _, err := svc.Update(actorFor(worker), order.ID, &OrderPatch{Status: &status}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	notes := "executive correction"
	updated, err := svc.Update(actorFor(executive), order.ID, &OrderPatch{Notes: &notes})
	if err != nil {
		t.Fatalf("executive edit failed: %v", err)
	}
	if updated.Notes != notes {
		t.Fatalf("notes not applied, got %s", updated.Notes)
	}
}

func TestIdempotentPatchWritesNothing(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	actor := actorFor(worker)
	order, err := svc.Create(actor, basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	sameName := "Erdene"
	sameStatus := constants.OrderStatusReceived
	if _, err := svc.Update(actor, order.ID, &OrderPatch{SenderName: &sameName, Status: &sameStatus}); err != nil {
		t.Fatalf("idempotent patch failed: %v", err)
	}
	if entries := loadHistory(t, db, order.ID); len(entries) != 1 {
		t.Fatalf("idempotent patch must not append history, got %d entries", len(entries))
	}
}

func TestWorkerReassignmentExecutiveOnly(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	other := createTestWorker(t, db, "UB100", constants.RoleWorker)
	executive := createTestWorker(t, db, "EE05", constants.RoleExecutive)
	order, err := svc.Create(actorFor(worker), basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(actorFor(worker), order.ID, &OrderPatch{WorkerID: &other.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("worker reassignment want ErrForbidden got %v", err)
	}

	missing := uint(9999)
	if _, err := svc.Update(actorFor(executive), order.ID, &OrderPatch{WorkerID: &missing}); !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("reassignment to missing worker want ErrWorkerNotFound got %v", err)
	}

	updated, err := svc.Update(actorFor(executive), order.ID, &OrderPatch{WorkerID: &other.ID})
	if err != nil {
		t.Fatalf("executive reassignment failed: %v", err)
	}
	if updated.WorkerID != other.ID {
		t.Fatalf("worker_id want %d got %d", other.ID, updated.WorkerID)
	}

	entries := loadHistory(t, db, order.ID)
	last := entries[len(entries)-1]
	if _, ok := last.Changes["worker_id"]; !ok {
		t.Fatalf("changes should record worker_id, got %v", last.Changes)
	}
}

func TestOrderReadOwnership(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	owner := createTestWorker(t, db, "HS12", constants.RoleWorker)
	stranger := createTestWorker(t, db, "UB100", constants.RoleWorker)
	executive := createTestWorker(t, db, "EE05", constants.RoleExecutive)
	order, err := svc.Create(actorFor(owner), basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Get(actorFor(stranger), order.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign read want ErrForbidden got %v", err)
	}
	if _, err := svc.Get(actorFor(owner), order.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := svc.Get(actorFor(executive), order.ID); err != nil {
		t.Fatalf("executive read failed: %v", err)
	}
	if _, _, err := svc.ListHistory(actorFor(stranger), repository.OrderHistoryListFilter{OrderID: order.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign history read want ErrForbidden got %v", err)
	}
	if _, err := svc.Get(actorFor(owner), 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want ErrOrderNotFound got %v", err)
	}
}

func TestOrderListScopedByRole(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	first := createTestWorker(t, db, "HS12", constants.RoleWorker)
	second := createTestWorker(t, db, "UB100", constants.RoleWorker)
	executive := createTestWorker(t, db, "EE05", constants.RoleExecutive)

	if _, err := svc.Create(actorFor(first), basicCreateInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(actorFor(second), basicCreateInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	orders, total, err := svc.List(actorFor(first), repository.OrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("worker list failed: %v", err)
	}
	if total != 1 || len(orders) != 1 {
		t.Fatalf("worker list want 1 order got total=%d len=%d", total, len(orders))
	}
	if orders[0].WorkerID != first.ID {
		t.Fatalf("worker list leaked foreign order")
	}

	// a worker cannot widen the scope by asking for another worker's id
	orders, total, err = svc.List(actorFor(first), repository.OrderListFilter{Page: 1, PageSize: 10, WorkerID: second.ID})
	if err != nil {
		t.Fatalf("worker scoped list failed: %v", err)
	}
	if total != 1 || orders[0].WorkerID != first.ID {
		t.Fatalf("worker filter override leaked foreign orders")
	}

	_, total, err = svc.List(actorFor(executive), repository.OrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("executive list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("executive list want 2 orders got %d", total)
	}
}

func TestOrderHistoryNewestFirst(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	actor := actorFor(worker)
	order, err := svc.Create(actor, basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	status := constants.OrderStatusPaid
	if _, err := svc.Update(actor, order.ID, &OrderPatch{Status: &status}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	entries, total, err := svc.ListHistory(actor, repository.OrderHistoryListFilter{OrderID: order.ID, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Fatalf("history want 2 entries got total=%d len=%d", total, len(entries))
	}
	if entries[0].Action != constants.HistoryActionStatusChanged {
		t.Fatalf("newest entry first, want status_changed got %s", entries[0].Action)
	}
	if entries[1].Action != constants.HistoryActionCreated {
		t.Fatalf("oldest entry last, want created got %s", entries[1].Action)
	}
}

func TestOrderDeleteExecutiveOnly(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)
	executive := createTestWorker(t, db, "EE05", constants.RoleExecutive)
	order, err := svc.Create(actorFor(worker), basicCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(actorFor(worker), order.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("worker delete want ErrForbidden got %v", err)
	}
	if err := svc.Delete(actorFor(executive), order.ID); err != nil {
		t.Fatalf("executive delete failed: %v", err)
	}
	if err := svc.Delete(actorFor(executive), order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("repeated delete want ErrOrderNotFound got %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("order row should be gone")
	}
	var historyCount int64
	if err := db.Model(&models.OrderHistory{}).Where("order_id = ?", order.ID).Count(&historyCount).Error; err != nil {
		t.Fatalf("count history failed: %v", err)
	}
	if historyCount != 0 {
		t.Fatalf("history rows should be gone, got %d", historyCount)
	}
}

func TestOrderCreateWithBrokenPhotoStillSucceeds(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	cfg := &config.Config{}
	cfg.Upload.Dir = t.TempDir()
	svc.uploadService = NewUploadService(cfg)
	worker := createTestWorker(t, db, "HS12", constants.RoleWorker)

	input := basicCreateInput()
	input.PhotoBase64 = "data:image/png;base64,not-valid-base64!!!"
	order, err := svc.Create(actorFor(worker), input)
	if err != nil {
		t.Fatalf("create with broken photo failed: %v", err)
	}
	if order.PhotoURL != "" {
		t.Fatalf("broken photo should leave photo_url empty, got %s", order.PhotoURL)
	}
}
