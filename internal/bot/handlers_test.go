package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/filedrop-bot/internal/models"
	"github.com/noah-isme/filedrop-bot/internal/service"
	appErrors "github.com/noah-isme/filedrop-bot/pkg/errors"
)

const (
	testOwnerID int64 = 42
	testChatID  int64 = 10
)

type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

func (s *fakeSender) texts() []string {
	var out []string
	for _, c := range s.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

type fakeStaging struct {
	err    error
	staged []models.StagedFile
}

func (f *fakeStaging) Stage(ctx context.Context, userID int64, fileID string, modality models.Modality, caption *string) (*models.StagedFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	file := models.StagedFile{ID: fileID + "-staged", OwnerID: userID, FileID: fileID, Modality: modality, Caption: caption}
	f.staged = append(f.staged, file)
	return &file, nil
}

type deleteCall struct {
	userID int64
	code   string
}

type fakeShare struct {
	commitCode string
	commitN    int
	commitErr  error
	listFiles  []models.SavedFile
	listErr    error
	deleteErr  error
	deletes    []deleteCall
}

func (f *fakeShare) Commit(ctx context.Context, userID int64) (string, int, error) {
	if f.commitErr != nil {
		return "", 0, f.commitErr
	}
	return f.commitCode, f.commitN, nil
}

func (f *fakeShare) List(ctx context.Context, userID int64) ([]models.SavedFile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listFiles, nil
}

func (f *fakeShare) Delete(ctx context.Context, userID int64, code string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deletes = append(f.deletes, deleteCall{userID: userID, code: code})
	return 1, nil
}

type fakeRetrieval struct {
	files []models.SavedFile
	err   error
}

func (f *fakeRetrieval) Resolve(ctx context.Context, code string) ([]models.SavedFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.files, nil
}

func newTestBot(staging stagingService, share shareService, retrieval retrievalService, s *fakeSender) *Bot {
	return &Bot{
		sender:         s,
		username:       "filedrop_bot",
		staging:        staging,
		share:          share,
		retrieval:      retrieval,
		metrics:        service.NewMetricsService(),
		logger:         zap.NewNop(),
		handlerTimeout: time.Second,
	}
}

func commandMessage(userID int64, text string) *tgbotapi.Message {
	cmdLen := len(text)
	if i := strings.Index(text, " "); i >= 0 {
		cmdLen = i
	}
	return &tgbotapi.Message{
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		From:     &tgbotapi.User{ID: userID},
		Chat:     &tgbotapi.Chat{ID: testChatID},
	}
}

func TestStartWithoutCodeSendsWelcome(t *testing.T) {
	sender := &fakeSender{}
	b := newTestBot(&fakeStaging{}, &fakeShare{}, &fakeRetrieval{}, sender)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(7, "/start")})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"Welcome! Upload files first, then use /savefiles to save them."}, sender.texts())
}

func TestStartWithCodeReplaysBatch(t *testing.T) {
	sender := &fakeSender{}
	retrieval := &fakeRetrieval{files: []models.SavedFile{
		{FileID: "P1", Modality: models.ModalityPhoto, Caption: strPtr("cat"), Seq: 0},
		{FileID: "D1", Modality: models.ModalityDocument, Seq: 1},
	}}
	b := newTestBot(&fakeStaging{}, &fakeShare{}, retrieval, sender)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(7, "/start ABC12345")})

	require.Len(t, sender.sent, 2)
	photo, ok := sender.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, tgbotapi.FileID("P1"), photo.File)
	assert.Equal(t, "cat", photo.Caption)

	document, ok := sender.sent[1].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, tgbotapi.FileID("D1"), document.File)
	assert.Empty(t, document.Caption)
}

func TestStartWithUnknownCode(t *testing.T) {
	sender := &fakeSender{}
	b := newTestBot(&fakeStaging{}, &fakeShare{}, &fakeRetrieval{err: appErrors.ErrLinkInvalid}, sender)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(7, "/start NOPE0000")})

	assert.Equal(t, []string{"Invalid or expired link."}, sender.texts())
}

func TestSaveFilesRepliesWithDeepLink(t *testing.T) {
	sender := &fakeSender{}
	share := &fakeShare{commitCode: "ABC12345", commitN: 2}
	b := newTestBot(&fakeStaging{}, share, &fakeRetrieval{}, sender)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(testOwnerID, "/savefiles")})

	assert.Equal(t, []string{"Files saved! Share this link: https://t.me/filedrop_bot?start=ABC12345"}, sender.texts())
}

func TestSaveFilesWithoutStagedFiles(t *testing.T) {
	sender := &fakeSender{}
	share := &fakeShare{commitErr: appErrors.ErrNoStagedFiles}
	b := newTestBot(&fakeStaging{}, share, &fakeRetrieval{}, sender)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(testOwnerID, "/savefiles")})

	assert.Equal(t, []string{"No files found! Please upload files before using this command."}, sender.texts())
}

func TestDeleteFilesUnauthorized(t *testing.T) {
	sender := &fakeSender{}
	share := &fakeShare{deleteErr: appErrors.ErrNotAuthorizedDelete}
	b := newTestBot(&fakeStaging{}, share, &fakeRetrieval{}, sender)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(7, "/deletefiles XYZ")})

	assert.Equal(t, []string{"You are not authorized to delete files."}, sender.texts())
	assert.Empty(t, share.deletes)
}

func TestDeleteFilesWithoutArgument(t *testing.T) {
	sender := &fakeSender{}
	share := &fakeShare{}
	b := newTestBot(&fakeStaging{}, share, &fakeRetrieval{}, sender)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(testOwnerID, "/deletefiles")})

	assert.Equal(t, []string{"Usage: /deletefiles <code>"}, sender.texts())
	assert.Empty(t, share.deletes)
}

func TestDeleteFiles(t *testing.T) {
	sender := &fakeSender{}
	share := &fakeShare{}
	b := newTestBot(&fakeStaging{}, share, &fakeRetrieval{}, sender)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(testOwnerID, "/deletefiles ABC12345")})

	assert.Equal(t, []string{"Files successfully deleted!"}, sender.texts())
	require.Len(t, share.deletes, 1)
	assert.Equal(t, deleteCall{userID: testOwnerID, code: "ABC12345"}, share.deletes[0])
}

func TestViewFiles(t *testing.T) {
	sender := &fakeSender{}
	share := &fakeShare{listFiles: []models.SavedFile{
		{Code: "ABC12345", FileID: "P1", Modality: models.ModalityPhoto, Caption: strPtr("cat")},
		{Code: "ABC12345", FileID: "D1", Modality: models.ModalityDocument},
	}}
	b := newTestBot(&fakeStaging{}, share, &fakeRetrieval{}, sender)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(testOwnerID, "/viewfiles")})

	texts := sender.texts()
	require.Len(t, texts, 1)
	assert.Equal(t, "Files uploaded by you:\n"+
		"Code: ABC12345, File ID: P1, Type: photo, Caption: cat\n"+
		"Code: ABC12345, File ID: D1, Type: document, Caption: \n", texts[0])
}

func TestViewFilesEmpty(t *testing.T) {
	sender := &fakeSender{}
	share := &fakeShare{listErr: appErrors.ErrNoSavedFiles}
	b := newTestBot(&fakeStaging{}, share, &fakeRetrieval{}, sender)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(testOwnerID, "/viewfiles")})

	assert.Equal(t, []string{"No files found."}, sender.texts())
}

func TestInboundFileIsStaged(t *testing.T) {
	sender := &fakeSender{}
	staging := &fakeStaging{}
	b := newTestBot(staging, &fakeShare{}, &fakeRetrieval{}, sender)

	msg := &tgbotapi.Message{
		From:    &tgbotapi.User{ID: testOwnerID},
		Chat:    &tgbotapi.Chat{ID: testChatID},
		Photo:   []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}},
		Caption: "cat",
	}
	b.handleUpdate(context.Background(), tgbotapi.Update{Message: msg})

	require.Len(t, staging.staged, 1)
	assert.Equal(t, "large", staging.staged[0].FileID)
	assert.Equal(t, models.ModalityPhoto, staging.staged[0].Modality)
	assert.Equal(t, []string{"File received! Use /savefiles to save it."}, sender.texts())
}

func TestInboundFileUnauthorized(t *testing.T) {
	sender := &fakeSender{}
	staging := &fakeStaging{err: appErrors.ErrNotAuthorizedUpload}
	b := newTestBot(staging, &fakeShare{}, &fakeRetrieval{}, sender)

	msg := &tgbotapi.Message{
		From:     &tgbotapi.User{ID: 7},
		Chat:     &tgbotapi.Chat{ID: testChatID},
		Document: &tgbotapi.Document{FileID: "D1"},
	}
	b.handleUpdate(context.Background(), tgbotapi.Update{Message: msg})

	assert.Equal(t, []string{"You are not authorized to upload files."}, sender.texts())
}

func TestUnsupportedPayloadIsDroppedSilently(t *testing.T) {
	sender := &fakeSender{}
	staging := &fakeStaging{}
	b := newTestBot(staging, &fakeShare{}, &fakeRetrieval{}, sender)

	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: testOwnerID},
		Chat: &tgbotapi.Chat{ID: testChatID},
		Text: "just some text",
	}
	b.handleUpdate(context.Background(), tgbotapi.Update{Message: msg})

	assert.Empty(t, staging.staged)
	assert.Empty(t, sender.sent)
}
