// Package store declares the document collections the service reads and
// writes. pgstore and mongostore implement it.
package store

import (
	"context"
	"errors"

	"food-ordering/devicestore"
	"food-ordering/models"
)

var ErrNotFound = errors.New("document not found")

// Collection names shared by both backends.
const (
	CollectionCategories    = "categories"
	CollectionMenuItems     = "menuItems"
	CollectionOrders        = "orders"
	CollectionTables        = "tables"
	CollectionRooms         = "rooms"
	CollectionUsers         = "users"
	CollectionSettings      = "settings"
	CollectionDeviceStorage = "deviceStorage"

	SettingsOrderDoc = "orderSettings"
)

type MenuFilter struct {
	CategoryID    string
	AvailableOnly bool
}

type Catalog interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListMenuItems(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	SetMenuItemAvailability(ctx context.Context, id string, available bool) error
	SetRemainingServings(ctx context.Context, id string, remaining models.Servings) error
}

type OrderFilter struct {
	Status *models.OrderStatus
	IDs    []string
	Unpaid bool
}

type Orders interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateOrderStatus and SetOrderPaid overwrite one field; no version check.
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
	SetOrderPaid(ctx context.Context, id string, paid bool) error
}

type Seating interface {
	ListTables(ctx context.Context) ([]models.Table, error)
	GetTableByNumber(ctx context.Context, number int) (*models.Table, error)
	UpdateTableStatus(ctx context.Context, id string, status models.Occupancy) error
	ListRooms(ctx context.Context) ([]models.Room, error)
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	GetRoomByNumber(ctx context.Context, number int) (*models.Room, error)
	// UpdateRoom writes status and the occupied table list as a whole.
	UpdateRoom(ctx context.Context, room *models.Room) error
}

type Users interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, user *models.User) error
}

type Settings interface {
	GetOrderSettings(ctx context.Context) (*models.OrderSettings, error)
	SaveOrderSettings(ctx context.Context, s *models.OrderSettings) error
}

// DeviceStorages hands out the key/value storage of one browsing device.
type DeviceStorages interface {
	DeviceStorage(deviceID string) devicestore.Storage
}

type Store interface {
	Catalog
	Orders
	Seating
	Users
	Settings
	DeviceStorages
	Close(ctx context.Context) error
}
