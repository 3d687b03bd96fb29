package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/noah-isme/filedrop-bot/internal/models"
)

// extractFileRef pulls the opaque file reference, modality and optional
// caption out of an inbound message. Animations are checked before
// documents because Telegram attaches both payloads to GIFs. Photos use
// the highest-resolution variant. ok=false means no supported payload.
func extractFileRef(msg *tgbotapi.Message) (string, models.Modality, *string, bool) {
	var caption *string
	if msg.Caption != "" {
		c := msg.Caption
		caption = &c
	}

	switch {
	case msg.Animation != nil:
		return msg.Animation.FileID, models.ModalityAnimation, caption, true
	case msg.Document != nil:
		return msg.Document.FileID, models.ModalityDocument, caption, true
	case len(msg.Photo) > 0:
		return msg.Photo[len(msg.Photo)-1].FileID, models.ModalityPhoto, caption, true
	case msg.Audio != nil:
		return msg.Audio.FileID, models.ModalityAudio, caption, true
	case msg.Video != nil:
		return msg.Video.FileID, models.ModalityVideo, caption, true
	case msg.Voice != nil:
		return msg.Voice.FileID, models.ModalityVoice, caption, true
	case msg.VideoNote != nil:
		return msg.VideoNote.FileID, models.ModalityVideoNote, caption, true
	case msg.Sticker != nil:
		return msg.Sticker.FileID, models.ModalitySticker, caption, true
	}
	return "", "", nil, false
}

// chattableFor maps a saved file to the platform send operation implied by
// its modality. The mapping is total; anything unrecognised replays as a
// generic document. Video notes and stickers carry no caption.
func chattableFor(chatID int64, file models.SavedFile) tgbotapi.Chattable {
	fileID := tgbotapi.FileID(file.FileID)
	caption := ""
	if file.Caption != nil {
		caption = *file.Caption
	}

	switch file.Modality.Verb() {
	case models.VerbSendPhoto:
		c := tgbotapi.NewPhoto(chatID, fileID)
		c.Caption = caption
		return c
	case models.VerbSendAudio:
		c := tgbotapi.NewAudio(chatID, fileID)
		c.Caption = caption
		return c
	case models.VerbSendVideo:
		c := tgbotapi.NewVideo(chatID, fileID)
		c.Caption = caption
		return c
	case models.VerbSendVoice:
		c := tgbotapi.NewVoice(chatID, fileID)
		c.Caption = caption
		return c
	case models.VerbSendVideoNote:
		return tgbotapi.NewVideoNote(chatID, 0, fileID)
	case models.VerbSendAnimation:
		c := tgbotapi.NewAnimation(chatID, fileID)
		c.Caption = caption
		return c
	case models.VerbSendSticker:
		return tgbotapi.NewSticker(chatID, fileID)
	default:
		c := tgbotapi.NewDocument(chatID, fileID)
		c.Caption = caption
		return c
	}
}
