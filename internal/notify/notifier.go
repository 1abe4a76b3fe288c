package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/booking_api/pkg/logger"
)

// PointsChange describes a committed ledger entry the user should hear about.
type PointsChange struct {
	UserID      string
	ChatID      int64
	Amount      int64
	NewBalance  int64
	Description string
}

type Notifier interface {
	PointsChanged(ctx context.Context, change PointsChange) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) PointsChanged(context.Context, PointsChange) error { return nil }

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier messages users that linked a Telegram chat.
type TelegramNotifier struct {
	bot sender
}

func NewTelegramNotifier(token string, debug bool) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	logger.Info("Telegram notifier authorized", "username", api.Self.UserName)
	return &TelegramNotifier{bot: api}, nil
}

func (n *TelegramNotifier) PointsChanged(ctx context.Context, change PointsChange) error {
	if change.ChatID == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(change.ChatID, FormatPointsChange(change))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// FormatPointsChange renders the message body sent to the user.
func FormatPointsChange(change PointsChange) string {
	if change.Amount > 0 {
		return fmt.Sprintf("🎁 You earned %d points: %s\nNew balance: %d", change.Amount, change.Description, change.NewBalance)
	}
	return fmt.Sprintf("You used %d points: %s\nNew balance: %d", -change.Amount, change.Description, change.NewBalance)
}
