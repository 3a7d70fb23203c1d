package devicestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// LastOrder is the lightweight record of the device's most recent order.
type LastOrder struct {
	OrderID     string    `json:"orderId"`
	CreatedAt   time.Time `json:"timestamp"`
	TableNumber int       `json:"tableNumber,omitempty"`
	RoomNumber  int       `json:"roomNumber,omitempty"`
}

func SaveLastOrder(ctx context.Context, s Storage, rec LastOrder) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal last order: %w", err)
	}
	return s.SetItem(ctx, KeyLastOrder, string(b))
}

// LoadLastOrder returns nil when nothing usable is stored.
func LoadLastOrder(ctx context.Context, s Storage) *LastOrder {
	raw, ok, err := s.GetItem(ctx, KeyLastOrder)
	if err != nil {
		log.WithError(err).Warn("read last order")
		return nil
	}
	if !ok {
		return nil
	}
	var rec LastOrder
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.OrderID == "" {
		log.WithField("key", KeyLastOrder).Warn("discarding malformed last order record")
		return nil
	}
	return &rec
}

// RememberedOrders returns the order IDs placed from this device, oldest first.
func RememberedOrders(ctx context.Context, s Storage) []string {
	raw, ok, err := s.GetItem(ctx, KeyMyOrders)
	if err != nil {
		log.WithError(err).Warn("read remembered orders")
		return nil
	}
	if !ok {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.WithField("key", KeyMyOrders).Warn("discarding malformed order id list")
		return nil
	}
	return ids
}

// RememberOrder appends id to the device's order list unless already present.
func RememberOrder(ctx context.Context, s Storage, id string) error {
	ids := RememberedOrders(ctx, s)
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	b, err := json.Marshal(append(ids, id))
	if err != nil {
		return fmt.Errorf("marshal order ids: %w", err)
	}
	return s.SetItem(ctx, KeyMyOrders, string(b))
}
