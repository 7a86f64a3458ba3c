package telegram

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/internal/adapters/config"
	"github.com/selivandex/marketpulse/internal/trend"
	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/templates"
)

// Notifier sends trend alerts to a configured Telegram chat
type Notifier struct {
	api       *tgbotapi.BotAPI
	cfg       *config.TelegramConfig
	templates *templates.Manager
}

// NewNotifier creates new Telegram notifier
func NewNotifier(cfg *config.TelegramConfig, tm *templates.Manager) (*Notifier, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if cfg.ChatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false

	logger.Info("telegram notifier initialized",
		zap.String("bot_username", bot.Self.UserName),
	)

	return &Notifier{
		api:       bot,
		cfg:       cfg,
		templates: tm,
	}, nil
}

// SendTrendAlert notifies the chat about a direction change between runs
func (n *Notifier) SendTrendAlert(previous, current trend.Direction, summary trend.Summary) error {
	if !n.cfg.AlertOnChange {
		return nil
	}

	data := map[string]interface{}{
		"Previous":       string(previous),
		"Current":        string(current),
		"Confidence":     summary.Confidence,
		"Recommendation": summary.Recommendation,
		"DataPoints":     summary.DataPoints,
		"ModelType":      string(summary.ModelType),
		"Time":           time.Now().UTC().Format("2006-01-02 15:04 MST"),
	}

	msg, err := n.templates.ExecuteTemplate("trend_alert.tmpl", data)
	if err != nil {
		return err
	}

	return n.sendMessageMarkdown(msg)
}

// SendErrorAlert notifies the chat about a failed analysis run
func (n *Notifier) SendErrorAlert(message string, dataPoints int) error {
	if !n.cfg.AlertOnErrors {
		return nil
	}

	text := fmt.Sprintf("*Trend analysis failed*\n%s\nData points: %d", message, dataPoints)
	return n.sendMessageMarkdown(text)
}

// sendMessageMarkdown sends markdown message to the configured chat
func (n *Notifier) sendMessageMarkdown(text string) error {
	msg := tgbotapi.NewMessage(n.cfg.ChatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		logger.Warn("failed to send telegram message",
			zap.Int64("chat_id", n.cfg.ChatID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
