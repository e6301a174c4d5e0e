package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/constants"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Worker{}, &models.Order{}, &models.OrderHistory{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func createRepoWorker(t *testing.T, db *gorm.DB, code string) *models.Worker {
	t.Helper()
	worker := &models.Worker{
		Email:        fmt.Sprintf("%s@gereltjin.test", code),
		PasswordHash: "hash",
		Name:         "Worker " + code,
		Code:         code,
		Role:         constants.RoleWorker,
	}
	if err := db.Create(worker).Error; err != nil {
		t.Fatalf("create worker failed: %v", err)
	}
	return worker
}

func createRepoOrder(t *testing.T, repo *GormOrderRepository, workerID uint, orderNumber, senderName string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:   orderNumber,
		SenderName:    senderName,
		SenderPhone:   "99112233",
		ReceiverName:  "Oyun",
		ReceiverPhone: "88114455",
		CargoType:     "Parcel",
		Status:        constants.OrderStatusReceived,
		WorkerID:      workerID,
	}
	if err := repo.Create(order); err != nil {
		t.Fatalf("create order %s failed: %v", orderNumber, err)
	}
	return order
}

func TestLatestOrderNumberByPrefix(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	worker := createRepoWorker(t, db, "HS12")

	last, err := repo.LatestOrderNumberByPrefix(worker.ID, "HS")
	if err != nil {
		t.Fatalf("latest on empty table failed: %v", err)
	}
	if last != "" {
		t.Fatalf("empty table should yield empty number, got %s", last)
	}

	createRepoOrder(t, repo, worker.ID, "HS12", "Erdene")
	createRepoOrder(t, repo, worker.ID, "HS13", "Erdene")

	last, err = repo.LatestOrderNumberByPrefix(worker.ID, "HS")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if last != "HS13" {
		t.Fatalf("latest want HS13 got %s", last)
	}
}

func TestLatestOrderNumberScopedToWorker(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	first := createRepoWorker(t, db, "HS12")
	second := createRepoWorker(t, db, "HT40")

	createRepoOrder(t, repo, first.ID, "HS12", "Erdene")
	createRepoOrder(t, repo, second.ID, "HT40", "Bold")

	last, err := repo.LatestOrderNumberByPrefix(second.ID, "HT")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if last != "HT40" {
		t.Fatalf("latest want HT40 got %s", last)
	}

	// another worker's rows are invisible to the allocator
	last, err = repo.LatestOrderNumberByPrefix(first.ID, "HT")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if last != "" {
		t.Fatalf("foreign worker rows leaked into allocation: %s", last)
	}
}

func TestLatestOrderNumberFollowsInsertionOrder(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	worker := createRepoWorker(t, db, "HS99")

	// HS100 sorts before HS99 as a string; insertion order must win
	createRepoOrder(t, repo, worker.ID, "HS99", "Erdene")
	createRepoOrder(t, repo, worker.ID, "HS100", "Erdene")

	last, err := repo.LatestOrderNumberByPrefix(worker.ID, "HS")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if last != "HS100" {
		t.Fatalf("latest want HS100 got %s", last)
	}
}

func TestOrderCreateDuplicateNumberTranslated(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	worker := createRepoWorker(t, db, "HS12")
	createRepoOrder(t, repo, worker.ID, "HS12", "Erdene")

	dup := &models.Order{
		OrderNumber:   "HS12",
		SenderName:    "Bold",
		SenderPhone:   "99881122",
		ReceiverName:  "Naran",
		ReceiverPhone: "95667788",
		CargoType:     "Documents",
		Status:        constants.OrderStatusReceived,
		WorkerID:      worker.ID,
	}
	err := repo.Create(dup)
	if err == nil {
		t.Fatalf("duplicate order number should fail")
	}
	if err != gorm.ErrDuplicatedKey {
		t.Fatalf("want gorm.ErrDuplicatedKey got %v", err)
	}
}

func TestOrderListFiltersAndSearch(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	first := createRepoWorker(t, db, "HS12")
	second := createRepoWorker(t, db, "UB100")

	createRepoOrder(t, repo, first.ID, "HS12", "Erdene")
	createRepoOrder(t, repo, first.ID, "HS13", "Bold")
	createRepoOrder(t, repo, second.ID, "UB100", "Ganzorig")

	orders, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 10, WorkerID: first.ID})
	if err != nil {
		t.Fatalf("list by worker failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("worker filter want 2 got total=%d len=%d", total, len(orders))
	}

	orders, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 10, Search: "Ganzorig"})
	if err != nil {
		t.Fatalf("list by search failed: %v", err)
	}
	if total != 1 || orders[0].OrderNumber != "UB100" {
		t.Fatalf("search want UB100 got total=%d", total)
	}

	orders, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 10, Search: "HS1"})
	if err != nil {
		t.Fatalf("list by number search failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("number search want 2 got %d", total)
	}

	orders, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("paginated list failed: %v", err)
	}
	if total != 3 || len(orders) != 2 {
		t.Fatalf("pagination want total=3 len=2 got total=%d len=%d", total, len(orders))
	}

	status := constants.OrderStatusPaid
	if err := repo.UpdateStatus(orders[0].ID, status); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	_, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 10, Status: status})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("status filter want 1 got %d", total)
	}
}
