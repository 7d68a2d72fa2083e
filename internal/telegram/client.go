// Package telegram connects the bot handler to the Telegram Bot API using
// long polling.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/sacsbot/internal/bot"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the subset of *tgbotapi.BotAPI the client uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Dispatcher consumes converted messages; *bot.Handler implements it.
type Dispatcher interface {
	Handle(ctx context.Context, m bot.Message) error
}

type Client struct {
	api API
	log *slog.Logger
}

// New authenticates against the Bot API with token.
func New(token string, debug bool, log *slog.Logger) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	api.Debug = debug
	c := NewWithAPI(api, log)
	c.log.Info("authorized", "event", "telegram", "username", api.Self.UserName)
	return c, nil
}

func NewWithAPI(api API, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{api: api, log: log}
}

// RegisterCommands publishes the bot's command list shown in chat clients.
func (c *Client) RegisterCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: bot.CmdStart, Description: "Commencer un nouveau calcul"},
		tgbotapi.BotCommand{Command: bot.CmdCalc, Description: "Calculer le nombre de sacs"},
		tgbotapi.BotCommand{Command: bot.CmdHelp, Description: "Afficher l'aide"},
		tgbotapi.BotCommand{Command: bot.CmdCancel, Description: "Annuler le calcul en cours"},
	)
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("set commands: %w", err)
	}
	return nil
}

// Send implements bot.Sender.
func (c *Client) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return err
	}
	return nil
}

// ErrUpdatesClosed is returned by Run when the update channel closes while
// its context is still live.
var ErrUpdatesClosed = errors.New("telegram update channel closed")

// Run polls for updates and hands each text message to d until ctx is
// done. Handler errors are logged, not returned.
func (c *Client) Run(ctx context.Context, timeout int, d Dispatcher) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	updates := c.api.GetUpdatesChan(u)
	defer c.api.StopReceivingUpdates()

	c.log.Info("polling for updates", "event", "telegram", "timeout_s", timeout)
	for {
		select {
		case <-ctx.Done():
			return nil
		case upd, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrUpdatesClosed
			}
			m, ok := ToMessage(upd)
			if !ok {
				continue
			}
			if err := d.Handle(ctx, m); err != nil {
				c.log.Error("handle update failed", "event", "telegram", "update_id", upd.UpdateID, "chat_id", m.ChatID, "err", err)
			}
		}
	}
}

// ToMessage converts an update carrying a text message. Other updates
// (edits, callbacks, media) report false.
func ToMessage(upd tgbotapi.Update) (bot.Message, bool) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return bot.Message{}, false
	}
	m := bot.Message{ChatID: msg.Chat.ID, Text: msg.Text}
	if msg.From != nil {
		m.UserID = msg.From.ID
	}
	if msg.IsCommand() {
		m.Command = msg.Command()
	}
	return m, true
}
