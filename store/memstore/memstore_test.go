package memstore

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering/models"
	"food-ordering/store"
)

func TestLoadSeed(t *testing.T) {
	s := New()
	err := s.LoadSeed(strings.NewReader(`{
		"categories": [{"id": "hot", "name": "Hot dishes"}],
		"menuItems": [
			{"id": "plov", "name": "Plov", "price": 20000, "categoryId": "hot", "servesCount": 10, "remainingServings": null, "isAvailable": true},
			{"id": "manti", "name": "Manti", "price": 25000, "categoryId": "hot", "servesCount": 6, "remainingServings": 2, "isAvailable": false}
		],
		"tables": [{"id": "t5", "number": 5, "capacity": 4, "status": "available", "roomId": "r1"}],
		"rooms": [{"id": "r1", "number": 1, "capacity": 12, "status": "available", "occupiedTables": []}],
		"orderSettings": {"deliveryEnabled": true, "deliveryFee": 10000}
	}`))
	require.NoError(t, err)
	ctx := context.Background()

	items, err := s.ListMenuItems(ctx, store.MenuFilter{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "plov", items[0].ID)
	assert.Equal(t, 10, items[0].RemainingServings())

	manti, err := s.GetMenuItem(ctx, "manti")
	require.NoError(t, err)
	assert.Equal(t, 2, manti.RemainingServings())

	settings, err := s.GetOrderSettings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.DeliveryEnabled)
	assert.Equal(t, int64(10000), settings.DeliveryFee)

	table, err := s.GetTableByNumber(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "r1", table.RoomID)
}

func TestLoadSeed_ExampleFile(t *testing.T) {
	f, err := os.Open("../../seed.example.json")
	require.NoError(t, err)
	defer f.Close()

	s := New()
	require.NoError(t, s.LoadSeed(f))
	ctx := context.Background()

	lagman, err := s.GetMenuItem(ctx, "lagman")
	require.NoError(t, err)
	assert.Equal(t, 10, lagman.RemainingServings())
	plov, err := s.GetMenuItem(ctx, "plov")
	require.NoError(t, err)
	assert.False(t, plov.Remaining.IsExplicit())

	table, err := s.GetTableByNumber(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "r1", table.RoomID)

	settings, err := s.GetOrderSettings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.DeliveryEnabled)
}

func TestLoadSeed_Malformed(t *testing.T) {
	assert.Error(t, New().LoadSeed(strings.NewReader(`{"menuItems": [`)))
}

func TestRoomsAreCopied(t *testing.T) {
	s := New()
	s.PutRoom(models.Room{ID: "r1", Number: 1, OccupiedTables: []int{3, 4}})
	ctx := context.Background()

	r, err := s.GetRoom(ctx, "r1")
	require.NoError(t, err)
	r.RemoveOccupiedTable(3)

	again, err := s.GetRoomByNumber(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, again.OccupiedTables)
}

func TestOrders(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	first := &models.Order{Status: models.OrderStatusPending, CreatedAt: base}
	second := &models.Order{Status: models.OrderStatusReady, CreatedAt: base.Add(time.Minute), Paid: true}
	require.NoError(t, s.CreateOrder(ctx, first))
	require.NoError(t, s.CreateOrder(ctx, second))
	assert.NotEmpty(t, first.ID)
	assert.Error(t, s.CreateOrder(ctx, first))

	all, err := s.ListOrders(ctx, store.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	unpaid, err := s.ListOrders(ctx, store.OrderFilter{Unpaid: true})
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, first.ID, unpaid[0].ID)

	ready := models.OrderStatusReady
	byStatus, err := s.ListOrders(ctx, store.OrderFilter{Status: &ready, IDs: []string{first.ID}})
	require.NoError(t, err)
	assert.Empty(t, byStatus)

	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, "nope", ready), store.ErrNotFound)
}

func TestFindUserByEmail_CaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.UpsertUser(ctx, &models.User{ID: "u1", Email: "Waiter@Cafe.uz", Role: "waiter"}))

	u, err := s.FindUserByEmail(ctx, "waiter@cafe.uz")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = s.FindUserByEmail(ctx, "chef@cafe.uz")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
