package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering/config"
	"food-ordering/models"
	"food-ordering/services"
)

type fakeSender struct {
	sent   []tgbotapi.MessageConfig
	failOn int64
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg := c.(tgbotapi.MessageConfig)
	if msg.ChatID == f.failOn {
		return tgbotapi.Message{}, errors.New("chat not found")
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{}, nil
}

var tableOrder = &models.Order{
	ID:          "0f7c2a9e-5b1d-4c1e-9d55-1f2a3b4c5d6e",
	Type:        models.OrderTypeTable,
	TableNumber: 5,
	Items: []models.OrderLine{
		{ItemID: "plov", Name: "Plov", Price: 20000, Quantity: 2},
		{ItemID: "tea", Name: "Green tea", Price: 10000, Quantity: 1},
	},
	Total:  50000,
	Status: models.OrderStatusPending,
}

func TestOrderCard(t *testing.T) {
	text := OrderCard(services.EventOrderCreated, tableOrder)
	assert.True(t, strings.HasPrefix(text, "New order #0f7c2a9e\n"), text)
	assert.Contains(t, text, "Table 5")
	assert.Contains(t, text, "Plov × 2 = 40000 so'm")
	assert.Contains(t, text, "Total: 50000 so'm")
	assert.NotContains(t, text, "Delivery:")

	delivery := &models.Order{
		ID: "d1", Type: models.OrderTypeDelivery, Phone: "+998901234567", Address: "Chilonzor 7",
		Total: 50000, DeliveryFee: 12000, Status: models.OrderStatusReady,
	}
	text = OrderCard(services.EventOrderStatusChanged, delivery)
	assert.Contains(t, text, "Chilonzor 7, +998901234567")
	assert.Contains(t, text, "Delivery: 12000 so'm")
	assert.Contains(t, text, "Total: 62000 so'm")
	assert.Contains(t, text, "Ready")
}

func TestNotifier_SendsToEveryChat(t *testing.T) {
	f := &fakeSender{failOn: 3}
	n := &Notifier{api: f, chatIDs: []int64{1, 2, 3}}

	err := n.NotifyOrder(context.Background(), services.EventOrderCreated, tableOrder)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat 3")
	require.Len(t, f.sent, 2)
	assert.Equal(t, int64(1), f.sent[0].ChatID)
	assert.Equal(t, OrderCard(services.EventOrderCreated, tableOrder), f.sent[1].Text)
}

func TestNew_DisabledWithoutToken(t *testing.T) {
	n, err := New(config.TelegramConfig{StaffChatIDs: []int64{1}})
	require.NoError(t, err)
	assert.IsType(t, services.NopNotifier{}, n)
}
