package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// OutOfRangeEvent: check-in yang tercatat di luar radius cabang.
type OutOfRangeEvent struct {
	UserName       string
	Email          string
	BranchAddress  string
	DistanceMeters float64
	At             time.Time
}

type Notifier interface {
	NotifyOutOfRange(ctx context.Context, ev OutOfRangeEvent) error
}

// Noop dipakai kalau Telegram tidak dikonfigurasi.
type Noop struct{}

func (Noop) NotifyOutOfRange(context.Context, OutOfRangeEvent) error { return nil }

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot    sender
	chatID int64
}

// NewTelegram login ke Bot API; gagal kalau token invalid.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("[INFO] telegram notifier authorized on account %s", bot.Self.UserName)
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// FromSettings: Telegram kalau token + chat id ada, selain itu Noop.
func FromSettings(token string, chatID int64) Notifier {
	if strings.TrimSpace(token) == "" || chatID == 0 {
		log.Println("[INFO] telegram notifier disabled")
		return Noop{}
	}
	t, err := NewTelegram(token, chatID)
	if err != nil {
		log.Printf("[WARN] telegram notifier disabled: %v", err)
		return Noop{}
	}
	return t
}

func (t *Telegram) NotifyOutOfRange(ctx context.Context, ev OutOfRangeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatOutOfRange(ev))
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := t.bot.Send(msg)
	return err
}

func FormatOutOfRange(ev OutOfRangeEvent) string {
	return fmt.Sprintf("*Out-of-range check-in*\n%s (%s)\nBranch: %s\nDistance: %.0f m\nAt: %s",
		escape(ev.UserName), escape(ev.Email), escape(ev.BranchAddress),
		ev.DistanceMeters, ev.At.Format("2006-01-02 15:04"))
}

// escape karakter Markdown v1
func escape(s string) string {
	return strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[").Replace(s)
}
