package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/filedrop-bot/pkg/errors"
)

const welcomeText = "Welcome! Upload files first, then use /savefiles to save them."

// handleFile stages one inbound media message. Messages without a
// supported media payload are dropped without a reply.
func (b *Bot) handleFile(ctx context.Context, msg *tgbotapi.Message) {
	fileID, modality, caption, ok := extractFileRef(msg)
	if !ok {
		return
	}

	if _, err := b.staging.Stage(ctx, msg.From.ID, fileID, modality, caption); err != nil {
		b.metrics.ObserveCommand("upload", "error")
		b.reply(msg.Chat.ID, appErrors.FromError(err).Reply())
		return
	}

	b.metrics.ObserveCommand("upload", "ok")
	b.reply(msg.Chat.ID, "File received! Use /savefiles to save it.")
}

// handleStart serves the retrieval flow: with a code argument the saved
// batch is replayed, without one the welcome text is sent.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.metrics.ObserveCommand("start", "ok")
		b.reply(msg.Chat.ID, welcomeText)
		return
	}

	code := args[0]
	files, err := b.retrieval.Resolve(ctx, code)
	if err != nil {
		b.metrics.ObserveCommand("start", "error")
		b.reply(msg.Chat.ID, appErrors.FromError(err).Reply())
		return
	}

	for _, file := range files {
		if _, err := b.sender.Send(chattableFor(msg.Chat.ID, file)); err != nil {
			b.logger.Error("failed to replay file",
				zap.String("code", code),
				zap.String("file_id", file.FileID),
				zap.String("modality", string(file.Modality)),
				zap.Error(err))
			continue
		}
		b.metrics.ObserveReplay(string(file.Modality))
	}
	b.metrics.ObserveCommand("start", "ok")
}

// handleSaveFiles commits the owner's staged batch and shares the deep link.
func (b *Bot) handleSaveFiles(ctx context.Context, msg *tgbotapi.Message) {
	code, _, err := b.share.Commit(ctx, msg.From.ID)
	if err != nil {
		b.metrics.ObserveCommand("savefiles", "error")
		b.reply(msg.Chat.ID, appErrors.FromError(err).Reply())
		return
	}

	b.metrics.ObserveCommand("savefiles", "ok")
	deepLink := fmt.Sprintf("https://t.me/%s?start=%s", b.username, code)
	b.reply(msg.Chat.ID, fmt.Sprintf("Files saved! Share this link: %s", deepLink))
}

// handleDeleteFiles removes a saved batch by code, owner only.
func (b *Bot) handleDeleteFiles(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.metrics.ObserveCommand("deletefiles", "error")
		b.reply(msg.Chat.ID, appErrors.ErrDeleteUsage.Reply())
		return
	}

	if _, err := b.share.Delete(ctx, msg.From.ID, args[0]); err != nil {
		b.metrics.ObserveCommand("deletefiles", "error")
		b.reply(msg.Chat.ID, appErrors.FromError(err).Reply())
		return
	}

	b.metrics.ObserveCommand("deletefiles", "ok")
	b.reply(msg.Chat.ID, "Files successfully deleted!")
}

// handleViewFiles lists the owner's saved files as chat text.
func (b *Bot) handleViewFiles(ctx context.Context, msg *tgbotapi.Message) {
	files, err := b.share.List(ctx, msg.From.ID)
	if err != nil {
		b.metrics.ObserveCommand("viewfiles", "error")
		b.reply(msg.Chat.ID, appErrors.FromError(err).Reply())
		return
	}

	var sb strings.Builder
	sb.WriteString("Files uploaded by you:\n")
	for _, file := range files {
		caption := ""
		if file.Caption != nil {
			caption = *file.Caption
		}
		fmt.Fprintf(&sb, "Code: %s, File ID: %s, Type: %s, Caption: %s\n", file.Code, file.FileID, file.Modality, caption)
	}

	b.metrics.ObserveCommand("viewfiles", "ok")
	b.reply(msg.Chat.ID, sb.String())
}
