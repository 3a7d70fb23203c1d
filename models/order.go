package models

import "time"

type OrderType string

const (
	OrderTypeTable    OrderType = "table"
	OrderTypeDelivery OrderType = "delivery"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted:
		return st, true
	}
	return "", false
}

// OrderLine is a frozen copy of a menu item at submission time.
type OrderLine struct {
	ItemID   string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

func (l OrderLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

type Order struct {
	ID          string      `json:"id"`
	Type        OrderType   `json:"orderType"`
	TableNumber int         `json:"tableNumber,omitempty"`
	RoomNumber  int         `json:"roomNumber,omitempty"`
	Phone       string      `json:"phoneNumber,omitempty"`
	Address     string      `json:"address,omitempty"`
	Items       []OrderLine `json:"items"`
	Total       int64       `json:"total"`
	DeliveryFee int64       `json:"deliveryFee,omitempty"`
	Status      OrderStatus `json:"status"`
	Paid        bool        `json:"isPaid"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// GrandTotal is what the customer pays: items plus delivery.
func (o *Order) GrandTotal() int64 {
	return o.Total + o.DeliveryFee
}

// Seating reconstructs the seating selection the order was placed with.
func (o *Order) Seating() Seating {
	switch {
	case o.Type == OrderTypeDelivery:
		return DeliverySeating(o.Phone, o.Address)
	case o.RoomNumber > 0:
		return RoomSeating(o.RoomNumber)
	default:
		return TableSeating(o.TableNumber)
	}
}

// LinesTotal sums price × quantity across lines.
func LinesTotal(lines []OrderLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}
