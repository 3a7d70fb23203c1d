package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering/cart"
	"food-ordering/devicestore"
	"food-ordering/models"
	"food-ordering/store"
	"food-ordering/store/memstore"
)

var (
	plov = models.MenuItem{ID: "plov", Name: "Plov", Price: 20000, CategoryID: "hot", ServesCount: 10, Available: true}
	tea  = models.MenuItem{ID: "tea", Name: "Green tea", Price: 10000, CategoryID: "drinks", ServesCount: 50, Available: true}
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (n *recordingNotifier) NotifyOrder(_ context.Context, event Event, _ *models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

type failingOrders struct {
	store.Orders
}

func (failingOrders) CreateOrder(context.Context, *models.Order) error {
	return errors.New("backend unavailable")
}

func newFixture(t *testing.T) (*memstore.Store, *StatusSync, *recordingNotifier) {
	t.Helper()
	s := memstore.New()
	s.PutMenuItem(plov)
	s.PutMenuItem(tea)
	s.PutRoom(models.Room{ID: "r1", Number: 1, Capacity: 20, Status: models.OccupancyAvailable})
	s.PutRoom(models.Room{ID: "r2", Number: 2, Capacity: 8, Status: models.OccupancyAvailable})
	s.PutTable(models.Table{ID: "t5", Number: 5, Capacity: 4, Status: models.OccupancyAvailable, RoomID: "r1"})
	s.PutTable(models.Table{ID: "t6", Number: 6, Capacity: 4, Status: models.OccupancyAvailable, RoomID: "r1"})
	s.PutTable(models.Table{ID: "t9", Number: 9, Capacity: 2, Status: models.OccupancyAvailable})
	n := &recordingNotifier{}
	return s, NewStatusSync(s, s, n), n
}

func fillCart(t *testing.T, device devicestore.Storage) *cart.Cart {
	t.Helper()
	ctx := context.Background()
	c := cart.New(device)
	require.NoError(t, c.Add(ctx, plov, 2))
	require.NoError(t, c.Add(ctx, tea, 1))
	return c
}

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusPreparing, true},
		{models.OrderStatusPending, models.OrderStatusReady, false},
		{models.OrderStatusPending, models.OrderStatusCompleted, false},
		{models.OrderStatusPreparing, models.OrderStatusReady, true},
		{models.OrderStatusPreparing, models.OrderStatusPending, false},
		{models.OrderStatusReady, models.OrderStatusCompleted, true},
		{models.OrderStatusReady, models.OrderStatusPreparing, false},
		{models.OrderStatusCompleted, models.OrderStatusPending, false},
		{models.OrderStatusCompleted, models.OrderStatusCompleted, false},
		{"", models.OrderStatusPending, false},
		{models.OrderStatusPending, "", false},
	}
	for _, tt := range tests {
		got := ValidStatusTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("ValidStatusTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestSubmit_TableOrder(t *testing.T) {
	s, status, n := newFixture(t)
	ctx := context.Background()
	device := s.DeviceStorage("device-1")
	c := fillCart(t, device)

	sub := NewSubmitter(s, s, status, n)
	fixed := time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)
	sub.now = func() time.Time { return fixed }

	order, err := sub.Submit(ctx, c, device, SubmitInput{TableNumber: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, int64(50000), order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.Paid)
	assert.Equal(t, models.OrderTypeTable, order.Type)
	assert.Equal(t, 5, order.TableNumber)
	assert.Equal(t, fixed, order.CreatedAt)
	require.Len(t, order.Items, 2)
	assert.Equal(t, models.OrderLine{ItemID: "plov", Name: "Plov", Price: 20000, Quantity: 2}, order.Items[0])

	stored, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Items, stored.Items)

	assert.Zero(t, c.TotalItemCount())
	assert.Zero(t, cart.Load(ctx, device).TotalItemCount())

	table, _ := s.GetTableByNumber(ctx, 5)
	assert.Equal(t, models.OccupancyOccupied, table.Status)
	room, _ := s.GetRoom(ctx, "r1")
	assert.Equal(t, []int{5}, room.OccupiedTables)

	last := devicestore.LoadLastOrder(ctx, device)
	require.NotNil(t, last)
	assert.Equal(t, order.ID, last.OrderID)
	assert.Equal(t, 5, last.TableNumber)
	assert.Equal(t, []string{order.ID}, devicestore.RememberedOrders(ctx, device))
	assert.Equal(t, []Event{EventOrderCreated}, n.events)
}

func TestSubmit_OrderLinesAreFrozen(t *testing.T) {
	s, status, n := newFixture(t)
	ctx := context.Background()
	device := s.DeviceStorage("device-1")
	order, err := NewSubmitter(s, s, status, n).Submit(ctx, fillCart(t, device), device, SubmitInput{TableNumber: 9})
	require.NoError(t, err)

	repriced := plov
	repriced.Price = 99000
	s.PutMenuItem(repriced)

	stored, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), stored.Items[0].Price)
	assert.Equal(t, int64(50000), stored.Total)
}

func TestSubmit_RejectedBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name    string
		in      SubmitInput
		empty   bool
		wantErr error
	}{
		{"no seating", SubmitInput{}, false, models.ErrSeatingRequired},
		{"table and room", SubmitInput{TableNumber: 5, RoomNumber: 1}, false, models.ErrSeatingAmbiguous},
		{"table and delivery", SubmitInput{TableNumber: 5, Phone: "+998901234567", Address: "Chilonzor 7"}, false, models.ErrSeatingAmbiguous},
		{"phone without address", SubmitInput{Phone: "+998901234567"}, false, models.ErrDeliveryDetailsRequired},
		{"empty cart", SubmitInput{TableNumber: 5}, true, ErrEmptyCart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, status, n := newFixture(t)
			ctx := context.Background()
			device := s.DeviceStorage("device-1")
			c := cart.New(device)
			if !tt.empty {
				c = fillCart(t, device)
			}

			_, err := NewSubmitter(s, s, status, n).Submit(ctx, c, device, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)

			orders, _ := s.ListOrders(ctx, store.OrderFilter{})
			assert.Empty(t, orders)
			table, _ := s.GetTableByNumber(ctx, 5)
			assert.Equal(t, models.OccupancyAvailable, table.Status)
			if !tt.empty {
				assert.Equal(t, 3, c.TotalItemCount())
			}
			assert.Empty(t, n.events)
		})
	}
}

func TestSubmit_Delivery(t *testing.T) {
	s, status, n := newFixture(t)
	ctx := context.Background()
	require.NoError(t, s.SaveOrderSettings(ctx, &models.OrderSettings{DeliveryEnabled: true, DeliveryFee: 12000}))
	device := s.DeviceStorage("device-1")

	order, err := NewSubmitter(s, s, status, n).Submit(ctx, fillCart(t, device), device,
		SubmitInput{Phone: " +998901234567 ", Address: "Yunusobod 4"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderTypeDelivery, order.Type)
	assert.Equal(t, "+998901234567", order.Phone)
	assert.Equal(t, int64(50000), order.Total)
	assert.Equal(t, int64(12000), order.DeliveryFee)
	assert.Equal(t, int64(62000), order.GrandTotal())
	assert.Zero(t, order.TableNumber)
}

func TestSubmit_DeliveryDisabled(t *testing.T) {
	for _, settings := range []*models.OrderSettings{nil, {DeliveryEnabled: false, DeliveryFee: 12000}} {
		s, status, n := newFixture(t)
		ctx := context.Background()
		if settings != nil {
			require.NoError(t, s.SaveOrderSettings(ctx, settings))
		}
		device := s.DeviceStorage("device-1")
		c := fillCart(t, device)

		_, err := NewSubmitter(s, s, status, n).Submit(ctx, c, device, SubmitInput{Phone: "1", Address: "2"})
		assert.ErrorIs(t, err, ErrDeliveryDisabled)
		assert.Equal(t, 3, c.TotalItemCount())
	}
}

func TestSubmit_WriteFailureKeepsTableOccupied(t *testing.T) {
	s, status, n := newFixture(t)
	ctx := context.Background()
	device := s.DeviceStorage("device-1")
	c := fillCart(t, device)

	_, err := NewSubmitter(failingOrders{s}, s, status, n).Submit(ctx, c, device, SubmitInput{TableNumber: 5})
	require.Error(t, err)

	table, _ := s.GetTableByNumber(ctx, 5)
	assert.Equal(t, models.OccupancyOccupied, table.Status)
	assert.Equal(t, 3, c.TotalItemCount())
	assert.Nil(t, devicestore.LoadLastOrder(ctx, device))
	assert.Empty(t, n.events)
}

func TestSubmit_UnknownTable(t *testing.T) {
	s, status, n := newFixture(t)
	ctx := context.Background()
	device := s.DeviceStorage("device-1")

	_, err := NewSubmitter(s, s, status, n).Submit(ctx, fillCart(t, device), device, SubmitInput{TableNumber: 77})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubmit_NotificationFailureDoesNotFailOrder(t *testing.T) {
	s, status, _ := newFixture(t)
	ctx := context.Background()
	device := s.DeviceStorage("device-1")
	n := &recordingNotifier{err: errors.New("telegram down")}

	order, err := NewSubmitter(s, s, status, n).Submit(ctx, fillCart(t, device), device, SubmitInput{RoomNumber: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, order.RoomNumber)
	room, _ := s.GetRoomByNumber(ctx, 2)
	assert.Equal(t, models.OccupancyOccupied, room.Status)
}

func TestStatusSync_TablesMergeIntoRoom(t *testing.T) {
	s, status, _ := newFixture(t)
	ctx := context.Background()

	require.NoError(t, status.MarkTableOccupied(ctx, 5))
	require.NoError(t, status.MarkTableOccupied(ctx, 5))
	require.NoError(t, status.MarkTableOccupied(ctx, 6))
	room, _ := s.GetRoom(ctx, "r1")
	assert.Equal(t, []int{5, 6}, room.OccupiedTables)
	assert.Equal(t, models.OccupancyOccupied, room.Status)

	require.NoError(t, status.MarkTableAvailable(ctx, 5))
	room, _ = s.GetRoom(ctx, "r1")
	assert.Equal(t, []int{6}, room.OccupiedTables)
	assert.Equal(t, models.OccupancyOccupied, room.Status)

	require.NoError(t, status.MarkTableAvailable(ctx, 6))
	require.NoError(t, status.MarkTableAvailable(ctx, 6))
	room, _ = s.GetRoom(ctx, "r1")
	assert.Empty(t, room.OccupiedTables)
	assert.Equal(t, models.OccupancyAvailable, room.Status)
}

func TestStatusSync_Rooms(t *testing.T) {
	s, status, _ := newFixture(t)
	ctx := context.Background()

	require.NoError(t, status.MarkTableOccupied(ctx, 5))
	require.NoError(t, status.MarkRoomOccupied(ctx, 1))
	room, _ := s.GetRoomByNumber(ctx, 1)
	assert.Equal(t, []int{5}, room.OccupiedTables)

	require.NoError(t, status.MarkRoomAvailable(ctx, 1))
	room, _ = s.GetRoomByNumber(ctx, 1)
	assert.Equal(t, models.OccupancyAvailable, room.Status)
	assert.Empty(t, room.OccupiedTables)

	assert.ErrorIs(t, status.MarkRoomOccupied(ctx, 42), store.ErrNotFound)
}

func TestStatusSync_MarkPaid(t *testing.T) {
	s, status, n := newFixture(t)
	ctx := context.Background()
	device := s.DeviceStorage("device-1")
	order, err := NewSubmitter(s, s, status, NopNotifier{}).Submit(ctx, fillCart(t, device), device, SubmitInput{TableNumber: 5})
	require.NoError(t, err)

	paid, err := status.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	table, _ := s.GetTableByNumber(ctx, 5)
	assert.Equal(t, models.OccupancyAvailable, table.Status)
	room, _ := s.GetRoom(ctx, "r1")
	assert.Empty(t, room.OccupiedTables)

	_, err = status.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []Event{EventOrderPaid}, n.events)

	_, err = status.MarkPaid(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStatusSync_AdvanceStatus(t *testing.T) {
	s, status, n := newFixture(t)
	ctx := context.Background()
	order := &models.Order{Type: models.OrderTypeTable, TableNumber: 9, Status: models.OrderStatusPending}
	require.NoError(t, s.CreateOrder(ctx, order))

	_, err := status.AdvanceStatus(ctx, order.ID, models.OrderStatusReady)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	got, err := status.AdvanceStatus(ctx, order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, got.Status)

	_, err = status.AdvanceStatus(ctx, order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Len(t, n.events, 1)

	for _, next := range []models.OrderStatus{models.OrderStatusReady, models.OrderStatusCompleted} {
		_, err = status.AdvanceStatus(ctx, order.ID, next)
		require.NoError(t, err)
	}
	stored, _ := s.GetOrder(ctx, order.ID)
	assert.Equal(t, models.OrderStatusCompleted, stored.Status)

	_, err = status.AdvanceStatus(ctx, order.ID, models.OrderStatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}
