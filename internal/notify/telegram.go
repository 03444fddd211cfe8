package notify

import (
	"fmt"
	"log/slog"

	"nwaevents/internal/config"
	"nwaevents/internal/models/domain"
	"nwaevents/internal/utils/logger/sl"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier tells the moderators a new event is waiting for review.
type Notifier interface {
	PendingEvent(event domain.Event)
}

// Noop is used when no telegram credentials are configured.
type Noop struct{}

func (Noop) PendingEvent(domain.Event) {}

// Telegram sends a message to the configured admin chat. Delivery is
// best-effort: a failure is logged, never propagated to the submitter.
type Telegram struct {
	logger *slog.Logger
	api    *tgbotapi.BotAPI
	chatID int64
}

// New returns a telegram notifier, or Noop when the token is absent or the
// bot cannot authorize.
func New(logger *slog.Logger, cfg config.NotifyConfig) Notifier {
	op := "notify.New()"
	log := logger.With(slog.String("op", op))

	if cfg.TgbotApiToken == "" || cfg.AdminChatID == 0 {
		log.Info("telegram notifications disabled")
		return Noop{}
	}

	api, err := tgbotapi.NewBotAPI(cfg.TgbotApiToken)
	if err != nil {
		log.Error("cannot create telegram bot, notifications disabled", sl.Err(err))
		return Noop{}
	}

	log.Info("telegram notifier ready", slog.String("bot", api.Self.UserName))

	return &Telegram{
		logger: logger,
		api:    api,
		chatID: cfg.AdminChatID,
	}
}

func (t *Telegram) PendingEvent(event domain.Event) {
	op := "notify.Telegram.PendingEvent()"
	log := t.logger.With(slog.String("op", op))

	text := fmt.Sprintf(
		"New event waiting for review:\n%s\n%s\nsource: %s",
		event.Title,
		event.StartDate.Format("02.01.2006 15:04"),
		event.SourcePlatform,
	)

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		log.Error("cannot send notification", sl.Err(err))
	}
}
