package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"food-ordering/models"
	"food-ordering/store"
)

// StatusSync writes occupancy and order status changes. Every operation reads
// the current document first and writes only when something changes; there
// is no version check, so concurrent writers race and the last one wins.
type StatusSync struct {
	seating  store.Seating
	orders   store.Orders
	notifier Notifier
}

func NewStatusSync(seating store.Seating, orders store.Orders, notifier Notifier) *StatusSync {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &StatusSync{seating: seating, orders: orders, notifier: notifier}
}

func (s *StatusSync) MarkTableOccupied(ctx context.Context, number int) error {
	return s.setTable(ctx, number, models.OccupancyOccupied)
}

func (s *StatusSync) MarkTableAvailable(ctx context.Context, number int) error {
	return s.setTable(ctx, number, models.OccupancyAvailable)
}

func (s *StatusSync) MarkRoomOccupied(ctx context.Context, number int) error {
	return s.setRoom(ctx, number, models.OccupancyOccupied)
}

func (s *StatusSync) MarkRoomAvailable(ctx context.Context, number int) error {
	return s.setRoom(ctx, number, models.OccupancyAvailable)
}

func (s *StatusSync) setTable(ctx context.Context, number int, status models.Occupancy) error {
	t, err := s.seating.GetTableByNumber(ctx, number)
	if err != nil {
		return fmt.Errorf("get table %d: %w", number, err)
	}
	if t.Status != status {
		if err := s.seating.UpdateTableStatus(ctx, t.ID, status); err != nil {
			return fmt.Errorf("update table %d: %w", number, err)
		}
	}
	if t.RoomID == "" {
		return nil
	}

	room, err := s.seating.GetRoom(ctx, t.RoomID)
	if err != nil {
		return fmt.Errorf("get room of table %d: %w", number, err)
	}
	var changed bool
	if status == models.OccupancyOccupied {
		changed = room.AddOccupiedTable(number)
	} else {
		changed = room.RemoveOccupiedTable(number)
	}
	if !changed {
		return nil
	}
	switch {
	case len(room.OccupiedTables) > 0:
		room.Status = models.OccupancyOccupied
	case room.Status == models.OccupancyOccupied:
		room.Status = models.OccupancyAvailable
	}
	if err := s.seating.UpdateRoom(ctx, room); err != nil {
		return fmt.Errorf("update room %d: %w", room.Number, err)
	}
	return nil
}

// setRoom marks the whole room. Freeing a room also clears its occupied table
// list; occupying it leaves the list alone.
func (s *StatusSync) setRoom(ctx context.Context, number int, status models.Occupancy) error {
	room, err := s.seating.GetRoomByNumber(ctx, number)
	if err != nil {
		return fmt.Errorf("get room %d: %w", number, err)
	}
	clearTables := status == models.OccupancyAvailable && len(room.OccupiedTables) > 0
	if room.Status == status && !clearTables {
		return nil
	}
	room.Status = status
	if clearTables {
		room.OccupiedTables = []int{}
	}
	if err := s.seating.UpdateRoom(ctx, room); err != nil {
		return fmt.Errorf("update room %d: %w", number, err)
	}
	return nil
}

// MarkPaid flags the order as paid and frees its table or room. Calling it
// again on a paid order only re-frees the seating.
func (s *StatusSync) MarkPaid(ctx context.Context, orderID string) (*models.Order, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	wasPaid := o.Paid
	if !wasPaid {
		if err := s.orders.SetOrderPaid(ctx, o.ID, true); err != nil {
			return nil, fmt.Errorf("mark order %s paid: %w", o.ID, err)
		}
		o.Paid = true
	}

	seat := o.Seating()
	switch {
	case o.Type == models.OrderTypeDelivery:
	case seat.Kind == models.SeatingRoom:
		err = s.MarkRoomAvailable(ctx, seat.Number)
	case seat.Kind == models.SeatingTable && seat.Number > 0:
		err = s.MarkTableAvailable(ctx, seat.Number)
	}
	if err != nil {
		return o, fmt.Errorf("free seating of order %s: %w", o.ID, err)
	}

	if !wasPaid {
		s.notify(ctx, EventOrderPaid, o)
	}
	return o, nil
}

// AdvanceStatus moves the order one step along pending, preparing, ready,
// completed. Asking for the status the order already has is a no-op.
func (s *StatusSync) AdvanceStatus(ctx context.Context, orderID string, to models.OrderStatus) (*models.Order, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if o.Status == to {
		return o, nil
	}
	if !ValidStatusTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, o.Status, to)
	}
	if err := s.orders.UpdateOrderStatus(ctx, o.ID, to); err != nil {
		return nil, fmt.Errorf("update order %s status: %w", o.ID, err)
	}
	o.Status = to
	s.notify(ctx, EventOrderStatusChanged, o)
	return o, nil
}

func (s *StatusSync) notify(ctx context.Context, event Event, o *models.Order) {
	if err := s.notifier.NotifyOrder(ctx, event, o); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"order_id": o.ID,
			"event":    event,
		}).Warn("staff notification failed")
	}
}
