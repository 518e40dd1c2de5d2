package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"FakeNewsDetector/internal/ports"
)

// Telegram rejects messages longer than this many characters.
const maxMessageLength = 4096

// Notifier sends training reports to a Telegram chat via bot API.
type Notifier struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier authorizes the bot token and binds the chat identifier. An empty
// endpoint selects the public Bot API.
func NewNotifier(botToken, chatID, endpoint string) (*Notifier, error) {
	if botToken == "" || chatID == "" {
		return nil, fmt.Errorf("telegram notifier misconfigured")
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse chat id %q: %w", chatID, err)
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	client := &http.Client{Timeout: 5 * time.Second}
	api, err := tgbotapi.NewBotAPIWithClient(botToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Notifier{
		api:     api,
		chatID:  id,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}, nil
}

// PublishReport posts a plain-text message to the configured chat.
func (n *Notifier) PublishReport(ctx context.Context, report string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit: %w", err)
	}

	runes := []rune(report)
	if len(runes) > maxMessageLength {
		report = string(runes[:maxMessageLength])
	}

	msg := tgbotapi.NewMessage(n.chatID, report)
	msg.DisableWebPagePreview = true
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
