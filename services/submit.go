package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"food-ordering/cart"
	"food-ordering/devicestore"
	"food-ordering/models"
	"food-ordering/store"
)

// SeatingMarker occupies the table or room a dine-in order is placed at.
// *StatusSync implements it.
type SeatingMarker interface {
	MarkTableOccupied(ctx context.Context, number int) error
	MarkRoomOccupied(ctx context.Context, number int) error
}

// SubmitInput is the raw seating selection from the checkout form.
type SubmitInput struct {
	TableNumber int
	RoomNumber  int
	Phone       string
	Address     string
}

type Submitter struct {
	orders   store.Orders
	settings store.Settings
	seating  SeatingMarker
	notifier Notifier
	now      func() time.Time
}

func NewSubmitter(orders store.Orders, settings store.Settings, seating SeatingMarker, notifier Notifier) *Submitter {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Submitter{
		orders:   orders,
		settings: settings,
		seating:  seating,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit turns the cart into a pending order. Validation happens before any
// write. A dine-in table or room is marked occupied before the order is
// written and stays occupied if that write fails. Once the order exists,
// clearing the cart, the device records and the staff notification are best
// effort and only logged on failure.
func (s *Submitter) Submit(ctx context.Context, c cart.Aggregator, device devicestore.Storage, in SubmitInput) (*models.Order, error) {
	seat, err := models.ParseSeating(in.TableNumber, in.RoomNumber, in.Phone, in.Address)
	if err != nil {
		return nil, err
	}
	lines := cart.OrderLines(c)
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	now := s.now()
	order := &models.Order{
		Items:     lines,
		Total:     models.LinesTotal(lines),
		Status:    models.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	seat.Apply(order)

	switch seat.Kind {
	case models.SeatingDelivery:
		fee, err := s.deliveryFee(ctx)
		if err != nil {
			return nil, err
		}
		order.DeliveryFee = fee
	case models.SeatingTable:
		if err := s.seating.MarkTableOccupied(ctx, seat.Number); err != nil {
			return nil, fmt.Errorf("occupy table %d: %w", seat.Number, err)
		}
	case models.SeatingRoom:
		if err := s.seating.MarkRoomOccupied(ctx, seat.Number); err != nil {
			return nil, fmt.Errorf("occupy room %d: %w", seat.Number, err)
		}
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	logger := log.WithFields(log.Fields{
		"order_id": order.ID,
		"seating":  seat.Kind.String(),
		"total":    order.Total,
	})
	logger.Info("order submitted")

	if err := c.Clear(ctx); err != nil {
		logger.WithError(err).Warn("clear cart after order")
	}
	s.remember(ctx, device, order, logger)

	if err := s.notifier.NotifyOrder(ctx, EventOrderCreated, order); err != nil {
		logger.WithError(err).Warn("staff notification failed")
	}
	return order, nil
}

// deliveryFee reads the order settings. A missing settings document means
// delivery was never enabled.
func (s *Submitter) deliveryFee(ctx context.Context) (int64, error) {
	settings, err := s.settings.GetOrderSettings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrDeliveryDisabled
	}
	if err != nil {
		return 0, fmt.Errorf("get order settings: %w", err)
	}
	if !settings.DeliveryEnabled {
		return 0, ErrDeliveryDisabled
	}
	return settings.DeliveryFee, nil
}

func (s *Submitter) remember(ctx context.Context, device devicestore.Storage, o *models.Order, logger *log.Entry) {
	if device == nil {
		return
	}
	rec := devicestore.LastOrder{
		OrderID:     o.ID,
		CreatedAt:   o.CreatedAt,
		TableNumber: o.TableNumber,
		RoomNumber:  o.RoomNumber,
	}
	if err := devicestore.SaveLastOrder(ctx, device, rec); err != nil {
		logger.WithError(err).Warn("save last order")
	}
	if err := devicestore.RememberOrder(ctx, device, o.ID); err != nil {
		logger.WithError(err).Warn("remember order")
	}
}
