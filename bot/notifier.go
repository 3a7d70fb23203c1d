// Package bot sends order notifications to staff over Telegram.
package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"food-ordering/config"
	"food-ordering/models"
	"food-ordering/services"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts an order card to every configured staff chat.
type Notifier struct {
	api     sender
	chatIDs []int64
}

var _ services.Notifier = (*Notifier)(nil)

// New returns a no-op notifier when no message token or chat is configured.
func New(cfg config.TelegramConfig) (services.Notifier, error) {
	if cfg.MessageToken == "" || len(cfg.StaffChatIDs) == 0 {
		log.Info("telegram notifications disabled")
		return services.NopNotifier{}, nil
	}
	api, err := tgbotapi.NewBotAPI(cfg.MessageToken)
	if err != nil {
		return nil, fmt.Errorf("init message bot: %w", err)
	}
	log.WithField("bot", api.Self.UserName).Info("telegram notifications enabled")
	return &Notifier{api: api, chatIDs: cfg.StaffChatIDs}, nil
}

func (n *Notifier) NotifyOrder(ctx context.Context, event services.Event, o *models.Order) error {
	text := OrderCard(event, o)
	var errs []error
	for _, chatID := range n.chatIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := n.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}
