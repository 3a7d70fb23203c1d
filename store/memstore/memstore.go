// Package memstore is an in-process store.Store used by tests and by the
// memory store driver for local development.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"food-ordering/devicestore"
	"food-ordering/models"
	"food-ordering/store"
)

type Store struct {
	mu         sync.RWMutex
	categories map[string]models.Category
	items      map[string]models.MenuItem
	orders     map[string]models.Order
	tables     map[string]models.Table
	rooms      map[string]models.Room
	users      map[string]models.User
	settings   *models.OrderSettings
	devices    *devicestore.MemoryDevices
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		categories: make(map[string]models.Category),
		items:      make(map[string]models.MenuItem),
		orders:     make(map[string]models.Order),
		tables:     make(map[string]models.Table),
		rooms:      make(map[string]models.Room),
		users:      make(map[string]models.User),
		devices:    devicestore.NewMemoryDevices(),
	}
}

// Seed is the JSON shape accepted by LoadSeed.
type Seed struct {
	Categories []models.Category     `json:"categories"`
	MenuItems  []models.MenuItem     `json:"menuItems"`
	Tables     []models.Table        `json:"tables"`
	Rooms      []models.Room         `json:"rooms"`
	Settings   *models.OrderSettings `json:"orderSettings"`
}

func (s *Store) LoadSeed(r io.Reader) error {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}
	for _, c := range seed.Categories {
		s.PutCategory(c)
	}
	for _, it := range seed.MenuItems {
		s.PutMenuItem(it)
	}
	for _, t := range seed.Tables {
		s.PutTable(t)
	}
	for _, r := range seed.Rooms {
		s.PutRoom(r)
	}
	if seed.Settings != nil {
		s.mu.Lock()
		settings := *seed.Settings
		s.settings = &settings
		s.mu.Unlock()
	}
	return nil
}

func (s *Store) PutCategory(c models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

func (s *Store) PutMenuItem(it models.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ID] = it
}

func (s *Store) PutTable(t models.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = t
}

func (s *Store) PutRoom(r models.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.OccupiedTables = append([]int{}, r.OccupiedTables...)
	s.rooms[r.ID] = r
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) DeviceStorage(deviceID string) devicestore.Storage {
	return s.devices.DeviceStorage(deviceID)
}

func (s *Store) ListCategories(context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cats := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Name != cats[j].Name {
			return cats[i].Name < cats[j].Name
		}
		return cats[i].ID < cats[j].ID
	})
	return cats, nil
}

func (s *Store) ListMenuItems(_ context.Context, filter store.MenuFilter) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []models.MenuItem
	for _, it := range s.items {
		if filter.CategoryID != "" && it.CategoryID != filter.CategoryID {
			continue
		}
		if filter.AvailableOnly && !it.Available {
			continue
		}
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.CategoryID != b.CategoryID {
			return a.CategoryID < b.CategoryID
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return items, nil
}

func (s *Store) GetMenuItem(_ context.Context, id string) (*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &it, nil
}

func (s *Store) SetMenuItemAvailability(_ context.Context, id string, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return store.ErrNotFound
	}
	it.Available = available
	s.items[id] = it
	return nil
}

func (s *Store) SetRemainingServings(_ context.Context, id string, remaining models.Servings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return store.ErrNotFound
	}
	it.Remaining = remaining
	s.items[id] = it
	return nil
}

func (s *Store) CreateOrder(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if _, exists := s.orders[o.ID]; exists {
		return fmt.Errorf("order %s already exists", o.ID)
	}
	s.orders[o.ID] = copyOrder(*o)
	return nil
}

func (s *Store) GetOrder(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o = copyOrder(o)
	return &o, nil
}

func (s *Store) ListOrders(_ context.Context, filter store.OrderFilter) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids map[string]bool
	if filter.IDs != nil {
		ids = make(map[string]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = true
		}
	}
	var orders []models.Order
	for _, o := range s.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if ids != nil && !ids[o.ID] {
			continue
		}
		if filter.Unpaid && o.Paid {
			continue
		}
		orders = append(orders, copyOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus) error {
	return s.updateOrder(id, func(o *models.Order) { o.Status = status })
}

func (s *Store) SetOrderPaid(_ context.Context, id string, paid bool) error {
	return s.updateOrder(id, func(o *models.Order) { o.Paid = paid })
}

func (s *Store) updateOrder(id string, fn func(*models.Order)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	fn(&o)
	o.UpdatedAt = time.Now().UTC()
	s.orders[id] = o
	return nil
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderLine(nil), o.Items...)
	return o
}

func (s *Store) ListTables(context.Context) ([]models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tables := make([]models.Table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables, nil
}

func (s *Store) GetTableByNumber(_ context.Context, number int) (*models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tables {
		if t.Number == number {
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateTableStatus(_ context.Context, id string, status models.Occupancy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Status = status
	s.tables[id] = t
	return nil
}

func (s *Store) ListRooms(context.Context) ([]models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]models.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, copyRoom(r))
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })
	return rooms, nil
}

func (s *Store) GetRoom(_ context.Context, id string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	r = copyRoom(r)
	return &r, nil
}

func (s *Store) GetRoomByNumber(_ context.Context, number int) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if r.Number == number {
			r = copyRoom(r)
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateRoom(_ context.Context, r *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rooms[r.ID]
	if !ok {
		return store.ErrNotFound
	}
	existing.Status = r.Status
	existing.OccupiedTables = append([]int{}, r.OccupiedTables...)
	s.rooms[r.ID] = existing
	return nil
}

func copyRoom(r models.Room) models.Room {
	r.OccupiedTables = append([]int{}, r.OccupiedTables...)
	return r
}

func (s *Store) GetUser(_ context.Context, uid string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[uid]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpsertUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetOrderSettings(context.Context) (*models.OrderSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, store.ErrNotFound
	}
	settings := *s.settings
	return &settings, nil
}

func (s *Store) SaveOrderSettings(_ context.Context, settings *models.OrderSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := *settings
	s.settings = &saved
	return nil
}
