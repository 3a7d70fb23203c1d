package services

import (
	"context"
	"errors"

	"food-ordering/models"
)

var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrDeliveryDisabled        = errors.New("delivery is currently disabled")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

var nextStatus = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusPending:   models.OrderStatusPreparing,
	models.OrderStatusPreparing: models.OrderStatusReady,
	models.OrderStatusReady:     models.OrderStatusCompleted,
}

// ValidStatusTransition reports whether an order may move from one status to
// the next. Only single forward steps are allowed.
func ValidStatusTransition(from, to models.OrderStatus) bool {
	next, ok := nextStatus[from]
	return ok && next == to
}

type Event string

const (
	EventOrderCreated       Event = "order_created"
	EventOrderStatusChanged Event = "order_status_changed"
	EventOrderPaid          Event = "order_paid"
)

// Notifier tells staff about order activity. Delivery is best effort:
// callers log a returned error and carry on.
type Notifier interface {
	NotifyOrder(ctx context.Context, event Event, order *models.Order) error
}

type NopNotifier struct{}

func (NopNotifier) NotifyOrder(context.Context, Event, *models.Order) error { return nil }
