package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"salescrm/internal/models"
)

// TelegramService pushes assignment notifications to representatives who
// linked a chat. A nil service or an unlinked user is a silent no-op; lead
// distribution never depends on Telegram availability.
type TelegramService struct {
	bot    *tgbotapi.BotAPI
	dryRun bool
}

// NewTelegramService returns nil when no token is configured, so callers
// can always call through without checking config themselves.
func NewTelegramService(botToken string, dryRun bool) *TelegramService {
	if botToken == "" {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg] bot init failed, notifications disabled: %v", err)
		return nil
	}
	return &TelegramService{bot: bot, dryRun: dryRun}
}

func (t *TelegramService) SendMessage(chatID int64, text string) error {
	if t == nil || chatID == 0 {
		return nil
	}
	if t.dryRun {
		log.Printf("[tg][dry-run] chatID=%d text=%q", chatID, text)
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	return nil
}

// SendReplyKeyboard sends text with a persistent reply keyboard. Rows is a
// grid of button labels.
func (t *TelegramService) SendReplyKeyboard(chatID int64, text string, rows [][]string) error {
	if t == nil || chatID == 0 {
		return nil
	}
	if t.dryRun {
		log.Printf("[tg][dry-run] chatID=%d text=%q keyboard=%v", chatID, text, rows)
		return nil
	}
	kbRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		btns := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			btns = append(btns, tgbotapi.NewKeyboardButton(label))
		}
		kbRows = append(kbRows, btns)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(kbRows...)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	return nil
}

// NotifyLeadsAssigned implements the distribution Notifier.
func (t *TelegramService) NotifyLeadsAssigned(user *models.User, count int, categoryName string) {
	if t == nil || user == nil || user.TelegramChatID == 0 || !user.NotifyTelegram {
		return
	}
	text := fmt.Sprintf("📋 <b>%d new leads</b> have been assigned to you.", count)
	if categoryName != "" {
		text = fmt.Sprintf("📋 <b>%d new leads</b> (%s) have been assigned to you.", count, categoryName)
	}
	if err := t.SendMessage(user.TelegramChatID, text); err != nil {
		log.Printf("[tg] notify userID=%d failed: %v", user.ID, err)
	}
}
