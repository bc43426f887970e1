package notify

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/francisquitu91/retiro-escolar/internal/models"
	"github.com/francisquitu91/retiro-escolar/internal/observability"
)

// Notifier avisa retiros registrados. Nunca debe hacer fallar el registro.
type Notifier interface {
	PickupRegistered(d models.PickupDetail)
}

type Noop struct{}

func (Noop) PickupRegistered(models.PickupDetail) {}

// Telegram manda un aviso por retiro al chat configurado (inspectoría,
// portería, etc.).
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	loc    *time.Location
	log    *zap.Logger
}

func NewTelegram(token string, chatID int64, loc *time.Location, log *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: bot, chatID: chatID, loc: loc, log: log}, nil
}

func (t *Telegram) PickupRegistered(d models.PickupDetail) {
	text := fmt.Sprintf("🏫 Retiro registrado\nAlumno: %s (%s)\nRetira: %s (%s)\nRegistró: %s\nHora: %s",
		d.StudentName, d.CourseName, d.PersonName, d.Relationship, d.RecordedByUser,
		d.PickupTimestamp.In(t.loc).Format("15:04"))
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.log.Warn("notify: aviso de retiro falló", zap.Error(err))
		if isSystemErr(err) {
			observability.CaptureErr(err)
		}
	}
}

// Sistémicos: 5xx, 429, timeout. Las validaciones típicas de Telegram no van
// a Sentry.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	if strings.Contains(s, "429") || strings.Contains(s, "502") || strings.Contains(s, "503") || strings.Contains(s, "timeout") {
		return true
	}
	return false
}
