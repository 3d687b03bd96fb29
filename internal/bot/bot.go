package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/filedrop-bot/internal/models"
	"github.com/noah-isme/filedrop-bot/internal/service"
)

type stagingService interface {
	Stage(ctx context.Context, userID int64, fileID string, modality models.Modality, caption *string) (*models.StagedFile, error)
}

type shareService interface {
	Commit(ctx context.Context, userID int64) (string, int, error)
	List(ctx context.Context, userID int64) ([]models.SavedFile, error)
	Delete(ctx context.Context, userID int64, code string) (int64, error)
}

type retrievalService interface {
	Resolve(ctx context.Context, code string) ([]models.SavedFile, error)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Deps bundles the collaborators the bot dispatches to.
type Deps struct {
	Staging        stagingService
	Share          shareService
	Retrieval      retrievalService
	Metrics        *service.MetricsService
	Logger         *zap.Logger
	HandlerTimeout time.Duration
}

// Bot consumes Telegram updates and routes them to the staging, share and
// retrieval services. Updates are handled sequentially; ordering within a
// chat is the platform's.
type Bot struct {
	api            *tgbotapi.BotAPI
	sender         sender
	username       string
	staging        stagingService
	share          shareService
	retrieval      retrievalService
	metrics        *service.MetricsService
	logger         *zap.Logger
	pollTimeout    time.Duration
	handlerTimeout time.Duration
}

// New wires a bot around an authenticated Telegram API client.
func New(api *tgbotapi.BotAPI, pollTimeout time.Duration, deps Deps) *Bot {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	handlerTimeout := deps.HandlerTimeout
	if handlerTimeout <= 0 {
		handlerTimeout = 30 * time.Second
	}
	return &Bot{
		api:            api,
		sender:         api,
		username:       api.Self.UserName,
		staging:        deps.Staging,
		share:          deps.Share,
		retrieval:      deps.Retrieval,
		metrics:        deps.Metrics,
		logger:         logger,
		pollTimeout:    pollTimeout,
		handlerTimeout: handlerTimeout,
	}
}

// Run long-polls for updates until the context is cancelled. Handler
// errors are replied to the chat and never stop the loop.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(b.pollTimeout.Seconds())

	updates := b.api.GetUpdatesChan(cfg)
	b.logger.Info("bot running", zap.String("username", b.username))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.handlerTimeout)
	defer cancel()

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, msg)
		case "savefiles":
			b.handleSaveFiles(ctx, msg)
		case "deletefiles":
			b.handleDeleteFiles(ctx, msg)
		case "viewfiles":
			b.handleViewFiles(ctx, msg)
		}
		return
	}

	b.handleFile(ctx, msg)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
