package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/http/response"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/repository"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// NextOrderNumber previews the number the next creation would be given.
func (h *Handler) NextOrderNumber(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	number, err := h.OrderService.NextOrderNumber(actor.WorkerID)
	if err != nil {
		respondServiceError(c, err, "order number preview failed")
		return
	}
	response.Success(c, gin.H{"order_number": number})
}

// ListOrders returns orders, own ones for workers and all for executives.
func (h *Handler) ListOrders(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if from, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from"))); err == nil {
		filter.CreatedFrom = from
	} else {
		respondError(c, response.CodeBadRequest, "invalid created_from", err)
		return
	}
	if to, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to"))); err == nil {
		filter.CreatedTo = to
	} else {
		respondError(c, response.CodeBadRequest, "invalid created_to", err)
		return
	}

	orders, total, err := h.OrderService.List(actor, filter)
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}

	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetOrder fetches one order.
func (h *Handler) GetOrder(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.Get(actor, orderID)
	if err != nil {
		respondServiceError(c, err, "order fetch failed")
		return
	}
	response.Success(c, order)
}

// OrderHistory returns the audit trail of one order, newest first.
func (h *Handler) OrderHistory(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	page, pageSize = normalizePagination(page, pageSize)

	entries, total, err := h.OrderService.ListHistory(actor, repository.OrderHistoryListFilter{
		Page:     page,
		PageSize: pageSize,
		OrderID:  orderID,
	})
	if err != nil {
		respondServiceError(c, err, "history fetch failed")
		return
	}

	response.SuccessWithPage(c, entries, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// CreateOrderRequest is the creation payload. PhotoBase64 optionally holds
// the cargo photo as raw base64 or a data URI.
type CreateOrderRequest struct {
	SenderName    string  `json:"sender_name" binding:"required"`
	SenderPhone   string  `json:"sender_phone" binding:"required"`
	ReceiverName  string  `json:"receiver_name" binding:"required"`
	ReceiverPhone string  `json:"receiver_phone" binding:"required"`
	CargoType     string  `json:"cargo_type" binding:"required"`
	Price         string  `json:"price" binding:"required"`
	Weight        *string `json:"weight"`
	Notes         string  `json:"notes"`
	PhotoBase64   string  `json:"photo_base64"`
}

// CreateOrder creates an order under the caller's worker code.
func (h *Handler) CreateOrder(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "sender, receiver, cargo type and price are required", err)
		return
	}

	price, err := parseMoney(req.Price)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid price", err)
		return
	}
	var weight *models.Weight
	if req.Weight != nil && strings.TrimSpace(*req.Weight) != "" {
		weight, err = parseWeight(*req.Weight)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid weight", err)
			return
		}
	}

	order, err := h.OrderService.Create(actor, service.CreateOrderInput{
		SenderName:    req.SenderName,
		SenderPhone:   req.SenderPhone,
		ReceiverName:  req.ReceiverName,
		ReceiverPhone: req.ReceiverPhone,
		CargoType:     req.CargoType,
		Weight:        weight,
		Price:         price,
		Notes:         req.Notes,
		PhotoBase64:   req.PhotoBase64,
	})
	if err != nil {
		respondServiceError(c, err, "order create failed")
		return
	}

	requestLog(c).Infow("order_created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"worker_id", actor.WorkerID,
	)
	response.Success(c, order)
}

// UpdateOrderRequest is the patch payload. Absent fields stay unchanged.
type UpdateOrderRequest struct {
	SenderName    *string `json:"sender_name"`
	SenderPhone   *string `json:"sender_phone"`
	ReceiverName  *string `json:"receiver_name"`
	ReceiverPhone *string `json:"receiver_phone"`
	CargoType     *string `json:"cargo_type"`
	Weight        *string `json:"weight"`
	Price         *string `json:"price"`
	Notes         *string `json:"notes"`
	PhotoURL      *string `json:"photo_url"`
	Status        *string `json:"status"`
	WorkerID      *uint   `json:"worker_id"`
}

func (r *UpdateOrderRequest) toPatch() (*service.OrderPatch, error) {
	patch := &service.OrderPatch{
		SenderName:    r.SenderName,
		SenderPhone:   r.SenderPhone,
		ReceiverName:  r.ReceiverName,
		ReceiverPhone: r.ReceiverPhone,
		CargoType:     r.CargoType,
		Notes:         r.Notes,
		PhotoURL:      r.PhotoURL,
		Status:        r.Status,
		WorkerID:      r.WorkerID,
	}
	if r.Weight != nil {
		weight, err := parseWeight(*r.Weight)
		if err != nil {
			return nil, err
		}
		patch.Weight = weight
	}
	if r.Price != nil {
		price, err := parseMoney(*r.Price)
		if err != nil {
			return nil, err
		}
		patch.Price = price
	}
	return patch, nil
}

// UpdateOrder applies a patch to an order.
func (h *Handler) UpdateOrder(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "malformed patch payload", err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid numeric field", err)
		return
	}

	order, err := h.OrderService.Update(actor, orderID, patch)
	if err != nil {
		respondServiceError(c, err, "order update failed")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatusRequest is the status-only payload.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the status-only alias of UpdateOrder.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "status is required", err)
		return
	}

	order, err := h.OrderService.Update(actor, orderID, &service.OrderPatch{
		Status: &req.Status,
	})
	if err != nil {
		respondServiceError(c, err, "status update failed")
		return
	}
	response.Success(c, order)
}

// DeleteOrder permanently removes an order and its history.
func (h *Handler) DeleteOrder(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	if err := h.OrderService.Delete(actor, orderID); err != nil {
		respondServiceError(c, err, "order delete failed")
		return
	}
	requestLog(c).Infow("order_deleted",
		"order_id", orderID,
		"worker_id", actor.WorkerID,
	)
	response.SuccessWithMsg(c, "order deleted", nil)
}

func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return 0, false
	}
	return uint(id), true
}

func parseMoney(raw string) (*models.Money, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	money := models.NewMoneyFromDecimal(value)
	return &money, nil
}

func parseWeight(raw string) (*models.Weight, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	weight := models.NewWeightFromDecimal(value)
	return &weight, nil
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	t, err := time.Parse("2006-01-02 15:04:05", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
