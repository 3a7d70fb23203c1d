package mongostore

import (
	"time"

	"food-ordering/models"
)

type categoryDoc struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type menuItemDoc struct {
	ID                string `bson:"_id"`
	Name              string `bson:"name"`
	Price             int64  `bson:"price"`
	CategoryID        string `bson:"categoryId"`
	Description       string `bson:"description,omitempty"`
	ImageURL          string `bson:"imageUrl,omitempty"`
	ServesCount       int    `bson:"servesCount"`
	RemainingServings *int   `bson:"remainingServings,omitempty"`
	Available         bool   `bson:"isAvailable"`
}

func (d menuItemDoc) model() models.MenuItem {
	return models.MenuItem{
		ID:          d.ID,
		Name:        d.Name,
		Price:       d.Price,
		CategoryID:  d.CategoryID,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		ServesCount: d.ServesCount,
		Remaining:   models.ServingsFromPtr(d.RemainingServings),
		Available:   d.Available,
	}
}

type orderLineDoc struct {
	ItemID   string `bson:"id"`
	Name     string `bson:"name"`
	Price    int64  `bson:"price"`
	Quantity int    `bson:"quantity"`
}

type orderDoc struct {
	ID          string         `bson:"_id"`
	Type        string         `bson:"orderType"`
	TableNumber int            `bson:"tableNumber,omitempty"`
	RoomNumber  int            `bson:"roomNumber,omitempty"`
	Phone       string         `bson:"phoneNumber,omitempty"`
	Address     string         `bson:"address,omitempty"`
	Items       []orderLineDoc `bson:"items"`
	Total       int64          `bson:"total"`
	DeliveryFee int64          `bson:"deliveryFee"`
	Status      string         `bson:"status"`
	Paid        bool           `bson:"isPaid"`
	CreatedAt   time.Time      `bson:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt"`
}

func newOrderDoc(o *models.Order) orderDoc {
	items := make([]orderLineDoc, len(o.Items))
	for i, l := range o.Items {
		items[i] = orderLineDoc{ItemID: l.ItemID, Name: l.Name, Price: l.Price, Quantity: l.Quantity}
	}
	return orderDoc{
		ID:          o.ID,
		Type:        string(o.Type),
		TableNumber: o.TableNumber,
		RoomNumber:  o.RoomNumber,
		Phone:       o.Phone,
		Address:     o.Address,
		Items:       items,
		Total:       o.Total,
		DeliveryFee: o.DeliveryFee,
		Status:      string(o.Status),
		Paid:        o.Paid,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (d orderDoc) model() models.Order {
	items := make([]models.OrderLine, len(d.Items))
	for i, l := range d.Items {
		items[i] = models.OrderLine{ItemID: l.ItemID, Name: l.Name, Price: l.Price, Quantity: l.Quantity}
	}
	return models.Order{
		ID:          d.ID,
		Type:        models.OrderType(d.Type),
		TableNumber: d.TableNumber,
		RoomNumber:  d.RoomNumber,
		Phone:       d.Phone,
		Address:     d.Address,
		Items:       items,
		Total:       d.Total,
		DeliveryFee: d.DeliveryFee,
		Status:      models.OrderStatus(d.Status),
		Paid:        d.Paid,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type tableDoc struct {
	ID       string `bson:"_id"`
	Number   int    `bson:"number"`
	Capacity int    `bson:"capacity"`
	Status   string `bson:"status"`
	RoomID   string `bson:"roomId,omitempty"`
}

func (d tableDoc) model() models.Table {
	return models.Table{ID: d.ID, Number: d.Number, Capacity: d.Capacity, Status: models.Occupancy(d.Status), RoomID: d.RoomID}
}

type roomDoc struct {
	ID             string `bson:"_id"`
	Number         int    `bson:"number"`
	Capacity       int    `bson:"capacity"`
	Status         string `bson:"status"`
	OccupiedTables []int  `bson:"occupiedTables"`
}

func (d roomDoc) model() models.Room {
	occupied := d.OccupiedTables
	if occupied == nil {
		occupied = []int{}
	}
	return models.Room{ID: d.ID, Number: d.Number, Capacity: d.Capacity, Status: models.Occupancy(d.Status), OccupiedTables: occupied}
}

type userDoc struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email,omitempty"`
	EmailLower   string `bson:"emailLower,omitempty"`
	Name         string `bson:"name,omitempty"`
	PasswordHash string `bson:"passwordHash,omitempty"`
	Role         string `bson:"role"`
}

func (d userDoc) model() models.User {
	return models.User{ID: d.ID, Email: d.Email, Name: d.Name, PasswordHash: d.PasswordHash, Role: d.Role}
}

type orderSettingsDoc struct {
	ID                    string `bson:"_id"`
	DeliveryEnabled       bool   `bson:"deliveryEnabled"`
	DeliveryFee           int64  `bson:"deliveryFee"`
	DefaultContainerPrice int64  `bson:"defaultContainerPrice"`
}

type deviceItemDoc struct {
	DeviceID  string    `bson:"deviceId"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}
