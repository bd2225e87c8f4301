// Package telegram runs the Telegram front-end: one inbound message maps to
// one agent call and one outbound reply.
package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sushrutsadana/movieagent2/internal/agent"
	logpkg "github.com/sushrutsadana/movieagent2/internal/logger"
)

const apologyMessage = "Sorry, something went wrong. Please try again later."

// botClient is the slice of the Bot API the front-end uses.
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram front-end. Updates arrive sequentially over long
// polling; per-chat history lives only in memory.
type Bot struct {
	api        botClient
	agent      *agent.Service
	maxHistory int
	logger     *zap.Logger
	histories  map[int64][]agent.Turn
}

// New authenticates against the Bot API.
func New(token string, agentSvc *agent.Service, maxHistory int, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	logger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))

	return &Bot{
		api:        api,
		agent:      agentSvc,
		maxHistory: maxHistory,
		logger:     logger,
		histories:  make(map[int64][]agent.Turn),
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, pollTimeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSec
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := msg.Text

	turnLogger := b.logger.With(zap.Int64("chat_id", chatID))
	turnLogger.Info("Telegram message received")
	ctx = logpkg.NewContext(ctx, turnLogger)

	if msg.IsCommand() && msg.Command() == "start" {
		b.histories[chatID] = nil
		b.reply(chatID, b.agent.Welcome(ctx))
		return
	}

	response, err := b.agent.Chat(ctx, text, b.histories[chatID])
	if err != nil {
		turnLogger.Error("Agent query failed", zap.Error(err))
		b.reply(chatID, apologyMessage)
		return
	}

	b.histories[chatID] = appendTurn(b.histories[chatID], agent.Turn{User: text, Bot: response}, b.maxHistory)
	b.reply(chatID, response)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("Failed to send Telegram reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// appendTurn appends to the history window, dropping the oldest turns past max.
func appendTurn(history []agent.Turn, turn agent.Turn, max int) []agent.Turn {
	history = append(history, turn)
	if max > 0 && len(history) > max {
		history = history[len(history)-max:]
	}
	return history
}
