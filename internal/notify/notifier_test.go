package notify

import (
	"context"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestFormatPointsChange(t *testing.T) {
	tests := []struct {
		name   string
		change PointsChange
		want   string
	}{
		{
			name:   "Reward",
			change: PointsChange{Amount: 3, NewBalance: 3, Description: "Points awarded for check-in"},
			want:   "🎁 You earned 3 points: Points awarded for check-in\nNew balance: 3",
		},
		{
			name:   "Redeem",
			change: PointsChange{Amount: -20, NewBalance: 10, Description: "Redeemed points"},
			want:   "You used 20 points: Redeemed points\nNew balance: 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPointsChange(tt.change); got != tt.want {
				t.Errorf("FormatPointsChange() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTelegramNotifier_PointsChanged(t *testing.T) {
	bot := &fakeSender{}
	n := &TelegramNotifier{bot: bot}

	err := n.PointsChanged(context.Background(), PointsChange{ChatID: 42, Amount: 5, NewBalance: 8, Description: "bonus"})
	if err != nil {
		t.Fatalf("PointsChanged() error = %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(bot.sent))
	}

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("sent %T, want tgbotapi.MessageConfig", bot.sent[0])
	}
	if msg.ChatID != 42 {
		t.Errorf("ChatID = %d, want 42", msg.ChatID)
	}
}

func TestTelegramNotifier_SkipsUnlinkedUsers(t *testing.T) {
	bot := &fakeSender{}
	n := &TelegramNotifier{bot: bot}

	if err := n.PointsChanged(context.Background(), PointsChange{Amount: 5}); err != nil {
		t.Fatalf("PointsChanged() error = %v", err)
	}
	if len(bot.sent) != 0 {
		t.Errorf("sent %d messages to a user without a chat, want 0", len(bot.sent))
	}
}

func TestTelegramNotifier_SendError(t *testing.T) {
	n := &TelegramNotifier{bot: &fakeSender{err: fmt.Errorf("network down")}}

	if err := n.PointsChanged(context.Background(), PointsChange{ChatID: 1, Amount: 5}); err == nil {
		t.Error("PointsChanged() expected error, got nil")
	}
}
