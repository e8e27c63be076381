package action

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"
)

// Notify sends the "message" parameter to a Telegram chat. The bot client is
// created lazily on first use so a misconfigured token only fails the task
// that needs it, not startup.
func Notify(log zerolog.Logger, token string, chatID int64) Func {
	var (
		once sync.Once
		bot  *tele.Bot
		err  error
	)
	return func(ctx context.Context, params map[string]any) error {
		once.Do(func() {
			bot, err = tele.NewBot(tele.Settings{Token: token})
		})
		if err != nil {
			return fmt.Errorf("telegram init: %w", err)
		}
		msg := stringParam(params, "message", "yasched notification")
		if _, sendErr := bot.Send(tele.ChatID(chatID), msg); sendErr != nil {
			return fmt.Errorf("telegram send: %w", sendErr)
		}
		log.Debug().Int64("chat_id", chatID).Msg("notification sent")
		return nil
	}
}
