// Package bot routes chat commands and replies through the dialogue
// sequencer, independent of the chat transport.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/sacsbot/internal/dialogue"
	"github.com/example/sacsbot/internal/messages"
	"github.com/example/sacsbot/internal/rate"
	"github.com/example/sacsbot/internal/session"
)

// Commands understood by the bot.
const (
	CmdStart  = "start"
	CmdCalc   = "calc"
	CmdHelp   = "help"
	CmdCancel = "cancel"
)

// Message is one incoming chat message. Command is set, without the
// leading slash, when the message is a bot command.
type Message struct {
	ChatID  int64
	UserID  int64
	Text    string
	Command string
}

// Sender delivers a text reply to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Deps bundles what the Handler needs.
type Deps struct {
	Sequencer *dialogue.Sequencer
	Store     session.Store
	Sender    Sender
	Limiter   *rate.LimiterMap
	Log       *slog.Logger
}

type Handler struct {
	seq     *dialogue.Sequencer
	store   session.Store
	sender  Sender
	limiter *rate.LimiterMap
	texts   messages.Texts
	log     *slog.Logger
}

func NewHandler(deps Deps) *Handler {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		seq:     deps.Sequencer,
		store:   deps.Store,
		sender:  deps.Sender,
		limiter: deps.Limiter,
		texts:   messages.New(deps.Sequencer.Limits()),
		log:     log,
	}
}

// Handle processes one message. Errors come from the store or the sender;
// invalid user input is answered with a re-prompt and is not an error.
func (h *Handler) Handle(ctx context.Context, m Message) error {
	if h.limiter != nil && !h.limiter.AllowChat(m.ChatID) {
		h.log.Warn("message dropped", "event", "throttled", "chat_id", m.ChatID)
		return nil
	}
	switch m.Command {
	case "":
		return h.input(ctx, m)
	case CmdStart:
		return h.begin(ctx, m.ChatID, h.texts.Welcome())
	case CmdCalc:
		return h.begin(ctx, m.ChatID, h.texts.PromptLines())
	case CmdHelp:
		return h.reply(ctx, m.ChatID, h.texts.Help())
	case CmdCancel:
		return h.cancel(ctx, m.ChatID)
	default:
		h.log.Debug("unknown command", "chat_id", m.ChatID, "command", m.Command)
		return nil
	}
}

func (h *Handler) begin(ctx context.Context, chatID int64, text string) error {
	s, _ := h.seq.Start(chatID)
	if err := h.store.Save(ctx, s); err != nil {
		return fmt.Errorf("start dialogue: %w", err)
	}
	h.log.Info("dialogue started", "event", "dialogue", "chat_id", chatID)
	return h.reply(ctx, chatID, text)
}

func (h *Handler) cancel(ctx context.Context, chatID int64) error {
	s, ok, err := h.store.Load(ctx, chatID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil
	}
	if out := h.seq.Cancel(&s); out.Kind != dialogue.KindCancelled {
		return nil
	}
	if err := h.store.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("drop session: %w", err)
	}
	h.log.Info("dialogue cancelled", "event", "dialogue", "chat_id", chatID)
	return h.reply(ctx, chatID, h.texts.Cancelled())
}

func (h *Handler) input(ctx context.Context, m Message) error {
	s, ok, err := h.store.Load(ctx, m.ChatID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil
	}
	out := h.seq.Input(&s, m.Text)
	if s.State.Terminal() {
		err = h.store.Delete(ctx, m.ChatID)
	} else {
		err = h.store.Save(ctx, s)
	}
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	switch out.Kind {
	case dialogue.KindPrompt:
		return h.reply(ctx, m.ChatID, h.texts.PromptBags(out.Lines))
	case dialogue.KindRejected:
		h.log.Debug("input rejected", "chat_id", m.ChatID, "field", out.Field)
		return h.reply(ctx, m.ChatID, h.texts.OutOfRange(out.Range))
	case dialogue.KindCompleted:
		h.log.Info("calculation done", "event", "dialogue", "chat_id", m.ChatID,
			"lines", out.Result.Lines, "bags", out.Result.Bags, "total", out.Result.Total)
		return h.reply(ctx, m.ChatID, h.texts.Result(out.Result))
	default:
		return nil
	}
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) error {
	if err := h.sender.Send(ctx, chatID, text); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}
