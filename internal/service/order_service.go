package service

import (
	"errors"
	"strings"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/constants"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/logger"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/queue"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/repository"

	"gorm.io/gorm"
)

// allocateMaxAttempts bounds the retry loop when two creations from the
// same worker race on the order number. The unique index rejects the
// loser, which re-reads and recomputes.
const allocateMaxAttempts = 5

// ActingIdentity is the resolved caller of a lifecycle operation. It is
// built once at the request boundary from the verified token and passed
// down explicitly; services never read identity from ambient state.
type ActingIdentity struct {
	WorkerID uint
	Role     string
	Name     string
}

// IsExecutive reports whether the actor holds the executive role.
func (a ActingIdentity) IsExecutive() bool {
	return a.Role == constants.RoleExecutive
}

// OrderService manages the order lifecycle and its audit trail.
type OrderService struct {
	orderRepo     repository.OrderRepository
	historyRepo   repository.OrderHistoryRepository
	workerRepo    repository.WorkerRepository
	uploadService *UploadService
	queueClient   *queue.Client
}

// NewOrderService creates an order service.
func NewOrderService(orderRepo repository.OrderRepository, historyRepo repository.OrderHistoryRepository, workerRepo repository.WorkerRepository, uploadService *UploadService, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		historyRepo:   historyRepo,
		workerRepo:    workerRepo,
		uploadService: uploadService,
		queueClient:   queueClient,
	}
}

// CreateOrderInput carries the validated fields of a creation request.
// PhotoBase64 optionally holds a data-URI or raw base64 image payload.
type CreateOrderInput struct {
	SenderName    string
	SenderPhone   string
	ReceiverName  string
	ReceiverPhone string
	CargoType     string
	Weight        *models.Weight
	Price         *models.Money
	Notes         string
	PhotoBase64   string
}

// NextOrderNumber previews the number the next creation by this worker
// would receive. Pure read, nothing is reserved.
func (s *OrderService) NextOrderNumber(workerID uint) (string, error) {
	worker, err := s.workerRepo.GetByID(workerID)
	if err != nil {
		return "", err
	}
	if worker == nil {
		return "", ErrWorkerNotFound
	}
	parts, err := SplitWorkerCode(worker.Code)
	if err != nil {
		return "", err
	}
	last, err := s.orderRepo.LatestOrderNumberByPrefix(worker.ID, parts.Prefix)
	if err != nil {
		return "", err
	}
	return NextOrderNumber(parts, last), nil
}

// Create allocates an order number and persists a new order together with
// its creation audit entry. Number allocation and the insert run in one
// transaction; a duplicate-key rejection from a concurrent sibling retries
// the whole allocation.
func (s *OrderService) Create(actor ActingIdentity, input CreateOrderInput) (*models.Order, error) {
	worker, err := s.workerRepo.GetByID(actor.WorkerID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, ErrWorkerNotFound
	}
	parts, err := SplitWorkerCode(worker.Code)
	if err != nil {
		return nil, err
	}

	photoURL := s.storePhoto(input.PhotoBase64)

	order := &models.Order{
		SenderName:    strings.TrimSpace(input.SenderName),
		SenderPhone:   strings.TrimSpace(input.SenderPhone),
		ReceiverName:  strings.TrimSpace(input.ReceiverName),
		ReceiverPhone: strings.TrimSpace(input.ReceiverPhone),
		CargoType:     strings.TrimSpace(input.CargoType),
		Weight:        input.Weight,
		Price:         input.Price,
		Notes:         input.Notes,
		PhotoURL:      photoURL,
		Status:        constants.OrderStatusReceived,
		WorkerID:      worker.ID,
	}

	for attempt := 1; ; attempt++ {
		err = models.DB.Transaction(func(tx *gorm.DB) error {
			orderRepo := s.orderRepo.WithTx(tx)
			historyRepo := s.historyRepo.WithTx(tx)

			last, err := orderRepo.LatestOrderNumberByPrefix(worker.ID, parts.Prefix)
			if err != nil {
				return err
			}
			order.ID = 0
			order.OrderNumber = NextOrderNumber(parts, last)
			if err := orderRepo.Create(order); err != nil {
				return err
			}
			return historyRepo.Append(&models.OrderHistory{
				OrderID:    order.ID,
				WorkerID:   actor.WorkerID,
				WorkerName: actor.Name,
				Action:     constants.HistoryActionCreated,
				NewStatus:  constants.OrderStatusReceived,
			})
		})
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		if attempt >= allocateMaxAttempts {
			logger.Errorw("order_number_allocation_exhausted",
				"worker_id", worker.ID,
				"prefix", parts.Prefix,
				"attempts", attempt,
			)
			return nil, ErrOrderNumberExhausted
		}
		logger.Warnw("order_number_collision_retry",
			"worker_id", worker.ID,
			"prefix", parts.Prefix,
			"attempt", attempt,
		)
	}
}

// storePhoto uploads the optional photo payload. Storage failure is the
// one tolerated error in creation: the order proceeds without a photo.
func (s *OrderService) storePhoto(payload string) string {
	if strings.TrimSpace(payload) == "" || s.uploadService == nil {
		return ""
	}
	url, err := s.uploadService.SavePhotoBase64(payload)
	if err != nil {
		logger.Warnw("order_photo_store_failed", "error", err)
		return ""
	}
	return url
}

// Get fetches one order. Workers may only read their own.
func (s *OrderService) Get(actor ActingIdentity, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !actor.IsExecutive() && order.WorkerID != actor.WorkerID {
		return nil, ErrForbidden
	}
	return order, nil
}

// List queries orders. Workers see only their own, executives see all.
func (s *OrderService) List(actor ActingIdentity, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if !actor.IsExecutive() {
		filter.WorkerID = actor.WorkerID
	}
	return s.orderRepo.List(filter)
}

// ListHistory returns the audit trail of one order, newest first. Same
// authorization as Get: the ledger itself trusts its caller.
func (s *OrderService) ListHistory(actor ActingIdentity, filter repository.OrderHistoryListFilter) ([]models.OrderHistory, int64, error) {
	order, err := s.orderRepo.GetByID(filter.OrderID)
	if err != nil {
		return nil, 0, err
	}
	if order == nil {
		return nil, 0, ErrOrderNotFound
	}
	if !actor.IsExecutive() && order.WorkerID != actor.WorkerID {
		return nil, 0, ErrForbidden
	}
	return s.historyRepo.ListByOrder(filter)
}

// Update applies a patch to an order. Validation and authorization run
// before any mutation; the row update and its audit entry share one
// transaction. A patch that changes nothing writes nothing.
func (s *OrderService) Update(actor ActingIdentity, orderID uint, patch *OrderPatch) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !actor.IsExecutive() && order.WorkerID != actor.WorkerID {
		return nil, ErrForbidden
	}

	oldStatus := order.Status
	statusChanged := false
	if patch.Status != nil {
		target := NormalizeOrderStatus(*patch.Status)
		if target != order.Status {
			if !IsValidOrderStatus(target) {
				return nil, ErrInvalidStatus
			}
			if !CanTransition(actor.Role, order.Status, target) {
				return nil, ErrInvalidTransition
			}
			statusChanged = true
			order.Status = target
		}
	}

	if patch.HasFieldEdits() {
		// Field edits on an order past received_package are executive
		// territory, unless an accepted status change rides along and the
		// edit path is skipped entirely.
		editable := actor.IsExecutive() || oldStatus == constants.OrderStatusReceived
		if !editable && !statusChanged {
			return nil, ErrEditNotAllowed
		}
		if !editable && statusChanged {
			patch = &OrderPatch{Status: patch.Status}
		}
	}

	if patch.WorkerID != nil && *patch.WorkerID != order.WorkerID {
		if !actor.IsExecutive() {
			return nil, ErrForbidden
		}
		newWorker, err := s.workerRepo.GetByID(*patch.WorkerID)
		if err != nil {
			return nil, err
		}
		if newWorker == nil {
			return nil, ErrWorkerNotFound
		}
	}

	changes := applyOrderPatch(order, patch)
	if patch.WorkerID != nil && *patch.WorkerID != order.WorkerID {
		changes["worker_id"] = map[string]interface{}{
			"from": order.WorkerID,
			"to":   *patch.WorkerID,
		}
		order.WorkerID = *patch.WorkerID
		order.Worker = nil
	}
	if statusChanged {
		changes["status"] = map[string]interface{}{
			"from": oldStatus,
			"to":   order.Status,
		}
	}
	if len(changes) == 0 {
		return order, nil
	}

	action := constants.HistoryActionUpdated
	if statusChanged {
		action = constants.HistoryActionStatusChanged
	}
	entry := &models.OrderHistory{
		OrderID:    order.ID,
		WorkerID:   actor.WorkerID,
		WorkerName: actor.Name,
		Action:     action,
		Changes:    changes,
	}
	if statusChanged {
		entry.OldStatus = oldStatus
		entry.NewStatus = order.Status
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Update(order); err != nil {
			return err
		}
		return s.historyRepo.WithTx(tx).Append(entry)
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		s.notifyStatusChange(order, oldStatus, actor)
	}
	return order, nil
}

// Delete permanently removes an order and its audit trail. Executive only,
// not undoable.
func (s *OrderService) Delete(actor ActingIdentity, orderID uint) error {
	if !actor.IsExecutive() {
		return ErrForbidden
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		// explicit history delete covers sqlite setups where the cascade
		// foreign key is not enforced
		if err := s.historyRepo.WithTx(tx).DeleteByOrder(order.ID); err != nil {
			return err
		}
		return s.orderRepo.WithTx(tx).Delete(order.ID)
	})
}

func (s *OrderService) notifyStatusChange(order *models.Order, oldStatus string, actor ActingIdentity) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
		OrderID:   order.ID,
		OldStatus: oldStatus,
		NewStatus: order.Status,
		ActorName: actor.Name,
	})
	if err != nil {
		logger.Warnw("order_status_notify_enqueue_failed",
			"order_id", order.ID,
			"error", err,
		)
	}
}
