package models

import (
	"errors"
	"strings"
)

var (
	ErrSeatingRequired         = errors.New("choose a table, a room or delivery")
	ErrSeatingAmbiguous        = errors.New("choose only one of table, room or delivery")
	ErrDeliveryDetailsRequired = errors.New("delivery needs a phone number and an address")
)

type SeatingKind int

const (
	SeatingNone SeatingKind = iota
	SeatingTable
	SeatingRoom
	SeatingDelivery
)

func (k SeatingKind) String() string {
	switch k {
	case SeatingTable:
		return "table"
	case SeatingRoom:
		return "room"
	case SeatingDelivery:
		return "delivery"
	default:
		return "none"
	}
}

// Seating is where an order goes: exactly one of a table, a room or a
// delivery address.
type Seating struct {
	Kind    SeatingKind
	Number  int // table or room number
	Phone   string
	Address string
}

func TableSeating(number int) Seating {
	return Seating{Kind: SeatingTable, Number: number}
}

func RoomSeating(number int) Seating {
	return Seating{Kind: SeatingRoom, Number: number}
}

func DeliverySeating(phone, address string) Seating {
	return Seating{Kind: SeatingDelivery, Phone: phone, Address: address}
}

// ParseSeating builds a Seating from the raw form fields. Zero numbers and
// blank strings count as "not chosen".
func ParseSeating(tableNumber, roomNumber int, phone, address string) (Seating, error) {
	phone = strings.TrimSpace(phone)
	address = strings.TrimSpace(address)
	wantsDelivery := phone != "" || address != ""

	chosen := 0
	if tableNumber > 0 {
		chosen++
	}
	if roomNumber > 0 {
		chosen++
	}
	if wantsDelivery {
		chosen++
	}

	switch {
	case chosen == 0:
		return Seating{}, ErrSeatingRequired
	case chosen > 1:
		return Seating{}, ErrSeatingAmbiguous
	case tableNumber > 0:
		return TableSeating(tableNumber), nil
	case roomNumber > 0:
		return RoomSeating(roomNumber), nil
	}
	if phone == "" || address == "" {
		return Seating{}, ErrDeliveryDetailsRequired
	}
	return DeliverySeating(phone, address), nil
}

// Apply copies the seating onto an order.
func (s Seating) Apply(o *Order) {
	switch s.Kind {
	case SeatingTable:
		o.Type = OrderTypeTable
		o.TableNumber = s.Number
	case SeatingRoom:
		o.Type = OrderTypeTable
		o.RoomNumber = s.Number
	case SeatingDelivery:
		o.Type = OrderTypeDelivery
		o.Phone = s.Phone
		o.Address = s.Address
	}
}
