package models

import "time"

// Modality is the media kind of a file reference; it decides the reply verb
// used when the file is replayed.
type Modality string

const (
	ModalityDocument  Modality = "document"
	ModalityPhoto     Modality = "photo"
	ModalityAudio     Modality = "audio"
	ModalityVideo     Modality = "video"
	ModalityVoice     Modality = "voice"
	ModalityVideoNote Modality = "video_note"
	ModalityAnimation Modality = "animation"
	ModalitySticker   Modality = "sticker"
)

// SupportedModalities lists every media kind the bot stages.
var SupportedModalities = []Modality{
	ModalityDocument,
	ModalityPhoto,
	ModalityAudio,
	ModalityVideo,
	ModalityVoice,
	ModalityVideoNote,
	ModalityAnimation,
	ModalitySticker,
}

// ParseModality maps a stored tag back to a Modality. Unknown tags report
// ok=false; callers fall back to the document verb for those.
func ParseModality(raw string) (Modality, bool) {
	switch Modality(raw) {
	case ModalityDocument, ModalityPhoto, ModalityAudio, ModalityVideo,
		ModalityVoice, ModalityVideoNote, ModalityAnimation, ModalitySticker:
		return Modality(raw), true
	}
	return ModalityDocument, false
}

// ReplayVerb names the platform send operation for a modality.
type ReplayVerb string

const (
	VerbSendDocument  ReplayVerb = "send_document"
	VerbSendPhoto     ReplayVerb = "send_photo"
	VerbSendAudio     ReplayVerb = "send_audio"
	VerbSendVideo     ReplayVerb = "send_video"
	VerbSendVoice     ReplayVerb = "send_voice"
	VerbSendVideoNote ReplayVerb = "send_video_note"
	VerbSendAnimation ReplayVerb = "send_animation"
	VerbSendSticker   ReplayVerb = "send_sticker"
)

// Verb returns the reply verb for the modality. The mapping is total:
// anything outside the supported set replays as a generic document.
func (m Modality) Verb() ReplayVerb {
	switch m {
	case ModalityPhoto:
		return VerbSendPhoto
	case ModalityAudio:
		return VerbSendAudio
	case ModalityVideo:
		return VerbSendVideo
	case ModalityVoice:
		return VerbSendVoice
	case ModalityVideoNote:
		return VerbSendVideoNote
	case ModalityAnimation:
		return VerbSendAnimation
	case ModalitySticker:
		return VerbSendSticker
	default:
		return VerbSendDocument
	}
}

// SupportsCaption reports whether the replay verb accepts a caption.
// Video notes and stickers do not.
func (m Modality) SupportsCaption() bool {
	switch m {
	case ModalityVideoNote, ModalitySticker:
		return false
	default:
		return true
	}
}

// StagedFile is a provisional record of an uploaded file awaiting commit.
// It exists only between upload time and the owner's next successful save.
type StagedFile struct {
	ID       string    `bson:"_id" json:"id"`
	OwnerID  int64     `bson:"user_id" json:"userId"`
	FileID   string    `bson:"file_id" json:"fileId"`
	Modality Modality  `bson:"file_type" json:"fileType"`
	Caption  *string   `bson:"caption,omitempty" json:"caption,omitempty"`
	StagedAt time.Time `bson:"staged_at" json:"stagedAt"`
}

// SavedFile is a durable, code-addressed record of a saved file.
// Never mutated after creation; deleted only by (code, owner).
type SavedFile struct {
	ID       string    `bson:"_id" json:"id"`
	Code     string    `bson:"code" json:"code"`
	OwnerID  int64     `bson:"user_id" json:"userId"`
	FileID   string    `bson:"file_id" json:"fileId"`
	Modality Modality  `bson:"file_type" json:"fileType"`
	Caption  *string   `bson:"caption,omitempty" json:"caption,omitempty"`
	Seq      int       `bson:"seq" json:"seq"`
	SavedAt  time.Time `bson:"saved_at" json:"savedAt"`
}
