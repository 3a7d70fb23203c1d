package bot

import (
	"fmt"
	"strings"

	"food-ordering/models"
	"food-ordering/services"
)

var statusLabels = map[models.OrderStatus]string{
	models.OrderStatusPending:   "🆕 New",
	models.OrderStatusPreparing: "👨‍🍳 Preparing",
	models.OrderStatusReady:     "✅ Ready",
	models.OrderStatusCompleted: "🏁 Completed",
}

func statusLabel(s models.OrderStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func seatingLine(o *models.Order) string {
	seat := o.Seating()
	switch seat.Kind {
	case models.SeatingDelivery:
		return fmt.Sprintf("🚚 Delivery: %s, %s", seat.Address, seat.Phone)
	case models.SeatingRoom:
		return fmt.Sprintf("🚪 Room %d", seat.Number)
	default:
		return fmt.Sprintf("🍽 Table %d", seat.Number)
	}
}

// OrderCard renders the staff message for an order event.
func OrderCard(event services.Event, o *models.Order) string {
	var b strings.Builder
	switch event {
	case services.EventOrderCreated:
		fmt.Fprintf(&b, "New order #%s\n", shortID(o.ID))
	case services.EventOrderPaid:
		fmt.Fprintf(&b, "💵 Order #%s paid\n", shortID(o.ID))
	default:
		fmt.Fprintf(&b, "Order #%s\n", shortID(o.ID))
	}
	b.WriteString(seatingLine(o) + "\n\n")

	if event == services.EventOrderCreated {
		for _, l := range o.Items {
			fmt.Fprintf(&b, "• %s × %d = %d so'm\n", l.Name, l.Quantity, l.Subtotal())
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "🛒 Items: %d so'm\n", o.Total)
	if o.DeliveryFee > 0 {
		fmt.Fprintf(&b, "🚚 Delivery: %d so'm\n", o.DeliveryFee)
	}
	fmt.Fprintf(&b, "💵 Total: %d so'm\n", o.GrandTotal())
	fmt.Fprintf(&b, "Status: %s", statusLabel(o.Status))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
