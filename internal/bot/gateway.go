package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gatekeeper-bot/internal/model"
	"gatekeeper-bot/internal/service"
)

// Gateway wraps the Telegram Bot API behind the narrow interfaces the
// services depend on (service.MemberLookup, service.Sender).
type Gateway struct {
	api *tgbotapi.BotAPI
}

func NewGateway(token string, debug bool) (*Gateway, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	api.Debug = debug
	return &Gateway{api: api}, nil
}

// Self returns the authorized bot account username.
func (g *Gateway) Self() string {
	return g.api.Self.UserName
}

// ChatMemberStatus fetches the raw membership status of a user in a channel,
// addressing the chat by handle or numeric id depending on the reference.
func (g *Gateway) ChatMemberStatus(_ context.Context, ref model.ChannelRef, userID int64) (string, error) {
	cfg := tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{UserID: userID},
	}
	if ref.IsHandle() {
		cfg.SuperGroupUsername = "@" + ref.Handle
	} else {
		cfg.ChatID = ref.ChatID
	}

	member, err := g.api.GetChatMember(cfg)
	if err != nil {
		return "", err
	}
	return member.Status, nil
}

// SendPayload delivers one broadcast payload to a recipient.
func (g *Gateway) SendPayload(_ context.Context, recipient int64, p service.Payload) error {
	var msg tgbotapi.Chattable
	switch p.Kind {
	case service.PayloadPhoto:
		photo := tgbotapi.NewPhoto(recipient, tgbotapi.FileID(p.FileID))
		photo.Caption = p.Text
		msg = photo
	case service.PayloadVideo:
		video := tgbotapi.NewVideo(recipient, tgbotapi.FileID(p.FileID))
		video.Caption = p.Text
		msg = video
	case service.PayloadDocument:
		doc := tgbotapi.NewDocument(recipient, tgbotapi.FileID(p.FileID))
		doc.Caption = p.Text
		msg = doc
	default:
		msg = tgbotapi.NewMessage(recipient, p.Text)
	}
	_, err := g.api.Send(msg)
	return err
}

// SendMessage delivers a plain text message.
func (g *Gateway) SendMessage(chatID int64, text string) error {
	_, err := g.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendMessageWithMarkup delivers a text message with an inline keyboard.
func (g *Gateway) SendMessageWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := g.api.Send(msg)
	return err
}

// AnswerCallback acknowledges a callback query so the client stops spinning.
func (g *Gateway) AnswerCallback(id string) error {
	_, err := g.api.Request(tgbotapi.NewCallback(id, ""))
	return err
}

// SendPhotoAlbum sends one content chunk as a grouped-media message.
func (g *Gateway) SendPhotoAlbum(chatID int64, fileIDs []string) error {
	media := make([]interface{}, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		media = append(media, tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(fileID)))
	}
	_, err := g.api.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, media))
	return err
}
