// Package bot is the Telegram transport shell around the pipeline: it
// delivers inbound photos and text, and renders results and failures back to
// the chat. All receipt logic lives in the pipeline.
package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/receipt-bot/internal/logger"
	"github.com/dvloznov/receipt-bot/internal/pipeline"
)

type Bot struct {
	api  *tgbotapi.BotAPI
	proc *pipeline.Processor
	log  zerolog.Logger
}

func New(token string, proc *pipeline.Processor, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot: create telegram client: %w", err)
	}
	return &Bot{api: api, proc: proc, log: log}, nil
}

// Run long-polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info().Str("username", b.api.Self.UserName).Msg("bot is starting")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	switch {
	case m.Command() == "start":
		b.reply(m, welcomeText)
	case m.Command() == "help":
		b.reply(m, helpText)
	case len(m.Photo) > 0:
		b.handlePhoto(ctx, m)
	case m.Text != "":
		b.handleText(ctx, m)
	default:
		b.reply(m, "I only process receipt photos and pasted receipt text. Use /help for instructions.")
	}
}

func (b *Bot) handlePhoto(ctx context.Context, m *tgbotapi.Message) {
	eventID := uuid.NewString()
	log := b.log.With().Str("event_id", eventID).Int64("chat_id", m.Chat.ID).Logger()
	ctx = logger.WithContext(ctx, log)

	progress, _ := b.api.Send(tgbotapi.NewMessage(m.Chat.ID, processingText))

	// Telegram sends several sizes; the last one is the largest.
	photo := m.Photo[len(m.Photo)-1]
	data, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		log.Error().Err(err).Msg("photo download failed")
		b.deleteProgress(m.Chat.ID, progress)
		b.reply(m, "❌ I couldn't download that photo from Telegram. Please send it again.")
		return
	}

	res, err := b.proc.Process(ctx, pipeline.Event{
		ID:         eventID,
		ImageBytes: data,
		MimeType:   "image/jpeg",
		Timestamp:  m.Time(),
	})
	b.deleteProgress(m.Chat.ID, progress)
	if err != nil {
		log.Error().Err(err).Msg("receipt extraction failed")
		b.reply(m, formatError(err))
		return
	}

	b.reply(m, formatResult(res))
}

func (b *Bot) handleText(ctx context.Context, m *tgbotapi.Message) {
	eventID := uuid.NewString()
	log := b.log.With().Str("event_id", eventID).Int64("chat_id", m.Chat.ID).Logger()
	ctx = logger.WithContext(ctx, log)

	res, err := b.proc.Process(ctx, pipeline.Event{
		ID:        eventID,
		Text:      m.Text,
		Timestamp: m.Time(),
	})
	if err != nil {
		log.Error().Err(err).Msg("text extraction failed")
		b.reply(m, formatError(err))
		return
	}

	b.reply(m, formatResult(res))
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("bot: get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("bot: build download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bot: download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bot: download file: unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (b *Bot) reply(m *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(m.Chat.ID, text)
	msg.ReplyToMessageID = m.MessageID
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat_id", m.Chat.ID).Msg("sending reply failed")
	}
}

func (b *Bot) deleteProgress(chatID int64, progress tgbotapi.Message) {
	if progress.MessageID == 0 {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, progress.MessageID)); err != nil {
		b.log.Debug().Err(err).Msg("deleting progress message failed")
	}
}
