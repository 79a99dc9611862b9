package alert

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Message is one payload handed to a Transport.
type Message struct {
	DestinationID      string
	Text               string
	ParseMode          string
	DisableLinkPreview bool
}

// Transport delivers a single message. Each call succeeds or fails on its own.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// TelegramTransport sends messages through the Bot API.
type TelegramTransport struct {
	bot *tgbotapi.BotAPI
}

// TelegramOptions tune the bot client. Zero values use the public API and a 30s timeout.
type TelegramOptions struct {
	Endpoint string
	Timeout  time.Duration
}

// NewTelegramTransport creates the bot client and checks the token with getMe.
func NewTelegramTransport(token string, opts TelegramOptions) (*TelegramTransport, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if opts.Endpoint == "" {
		opts.Endpoint = tgbotapi.APIEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, opts.Endpoint, &http.Client{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false
	return &TelegramTransport{bot: bot}, nil
}

// Send posts msg. A numeric destination is a chat id; anything else is a channel username.
func (t *TelegramTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var cfg tgbotapi.MessageConfig
	if chatID, err := strconv.ParseInt(msg.DestinationID, 10, 64); err == nil {
		cfg = tgbotapi.NewMessage(chatID, msg.Text)
	} else {
		cfg = tgbotapi.NewMessageToChannel(msg.DestinationID, msg.Text)
	}
	cfg.ParseMode = msg.ParseMode
	cfg.DisableWebPagePreview = msg.DisableLinkPreview

	type result struct{ err error }
	done := make(chan result, 1)
	go func() {
		_, err := t.bot.Send(cfg)
		done <- result{err: err}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("telegram send aborted: %w", ctx.Err())
	case r := <-done:
		if r.err != nil {
			return fmt.Errorf("telegram send failed: %w", r.err)
		}
		return nil
	}
}
