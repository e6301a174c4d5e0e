package constants

// Order status constants
const (
	OrderStatusReceived  = "received_package"
	OrderStatusPaid      = "payment_paid"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{
	OrderStatusReceived,
	OrderStatusPaid,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Worker role constants
const (
	RoleWorker    = "worker"
	RoleExecutive = "executive"
)

// History action constants
const (
	HistoryActionCreated       = "created"
	HistoryActionStatusChanged = "status_changed"
	HistoryActionUpdated       = "updated"
)

// Queue constants
const (
	QueueDefault          = "default"
	TaskOrderStatusNotify = "order:status_notify"
)

// Cache defaults
const (
	RedisPrefixDefault = "gc"
)
