package bot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"gatekeeper-bot/internal/config"
	"gatekeeper-bot/internal/model"
	"gatekeeper-bot/internal/repository"
	"gatekeeper-bot/internal/service"
)

const (
	cbVerify    = "verify"
	cbFreeStuff = "free_stuff"
	cbNoop      = "noop"
)

// messenger is the outbound slice of the gateway the handlers use, kept as
// an interface so handler tests can capture what would be sent.
type messenger interface {
	SendMessage(chatID int64, text string) error
	SendMessageWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error
	SendPhotoAlbum(chatID int64, fileIDs []string) error
	AnswerCallback(id string) error
}

// Bot aggregates the Telegram gateway with the gate, registry, content pool
// and broadcaster services.
type Bot struct {
	gw          *Gateway
	out         messenger
	userRepo    *repository.UserRepository
	registry    *service.Registry
	gate        *service.Gate
	pool        *service.ContentPool
	broadcaster *service.Broadcaster
	config      *config.Config
	logger      zerolog.Logger
}

func New(gw *Gateway, userRepo *repository.UserRepository, registry *service.Registry, gate *service.Gate, pool *service.ContentPool, broadcaster *service.Broadcaster, cfg *config.Config, logger zerolog.Logger) *Bot {
	logger.Info().Str("account", gw.Self()).Msg("bot authorized")

	return &Bot{
		gw:          gw,
		out:         gw,
		userRepo:    userRepo,
		registry:    registry,
		gate:        gate,
		pool:        pool,
		broadcaster: broadcaster,
		config:      cfg,
		logger:      logger,
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.gw.api.GetUpdatesChan(updateConfig)

	b.logger.Info().Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.gw.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.logger.Error().Err(err).Msg("handle callback")
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.logger.Error().Err(err).Msg("handle message")
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil || !msg.IsCommand() {
		return nil
	}

	b.logger.Info().Int64("user_id", msg.From.ID).Str("command", msg.Command()).Msg("command")

	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "menu":
		return b.showMainMenu(msg.Chat.ID)
	case "confirm":
		return b.sendText(msg.Chat.ID, "✅ We've opened the chat with the owner. Please check your Telegram messages.")
	case "add":
		return b.handleAdd(ctx, msg)
	case "broadcast":
		return b.handleBroadcast(ctx, msg)
	case "listchannels":
		return b.handleListChannels(ctx, msg)
	case "addchannel":
		return b.handleAddChannel(ctx, msg)
	case "removechannel":
		return b.handleRemoveChannel(ctx, msg)
	case "listadmins":
		return b.handleListAdmins(ctx, msg)
	case "addadmin":
		return b.handleAddAdmin(ctx, msg)
	case "removeadmin":
		return b.handleRemoveAdmin(ctx, msg)
	default:
		return nil
	}
}

// handleStart records the user and shows the subscription panel. The gate is
// only evaluated when the user taps Verify.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.userRepo.Upsert(ctx, msg.From.ID, msg.From.FirstName, time.Now().UTC()); err != nil {
		return err
	}

	channels, err := b.registry.EffectiveChannels(ctx)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	if err := b.sendText(msg.Chat.ID, fmt.Sprintf("👋 Welcome, %s! Please subscribe to our channels to continue.", name)); err != nil {
		return err
	}

	return b.sendWithMarkup(msg.Chat.ID, "Join all channels below, then tap ✅ Verify:", verifyKeyboard(channels))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.From == nil || cb.Message == nil {
		return nil
	}
	if err := b.out.AnswerCallback(cb.ID); err != nil {
		b.logger.Warn().Err(err).Msg("callback ack")
	}

	switch cb.Data {
	case cbVerify:
		return b.handleVerify(ctx, cb)
	case cbFreeStuff:
		return b.handleFreeStuff(ctx, cb.Message.Chat.ID)
	case cbNoop:
		return b.sendText(cb.Message.Chat.ID, "✅ We've opened the chat (or provided the link). Please check your Telegram.")
	default:
		return nil
	}
}

// handleVerify re-evaluates the gate from scratch; users may retry without
// limit, every tap is an independent evaluation.
func (b *Bot) handleVerify(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	decision, err := b.gate.Evaluate(ctx, cb.From.ID)
	if err != nil {
		return err
	}

	chatID := cb.Message.Chat.ID
	if decision.Allowed {
		b.logger.Info().Int64("user_id", cb.From.ID).Msg("gate allowed")
		if err := b.sendText(chatID, "✅ Verified! Taking you to the Main Menu…"); err != nil {
			return err
		}
		if err := b.showMainMenu(chatID); err != nil {
			return err
		}
		return b.sendSocialPromo(chatID)
	}

	b.logger.Info().Int64("user_id", cb.From.ID).Int("missing", len(decision.Missing)).Msg("gate denied")
	var list strings.Builder
	for _, ch := range decision.Missing {
		list.WriteString(fmt.Sprintf("• %s\n", ch.Label()))
	}
	return b.sendText(chatID,
		"❌ You're not subscribed to all channels.\nPlease join these and try Verify again:\n"+strings.TrimRight(list.String(), "\n"))
}

// handleFreeStuff dispenses the pool in media-group chunks. A failing chunk
// is logged and the remaining chunks are still attempted.
func (b *Bot) handleFreeStuff(ctx context.Context, chatID int64) error {
	chunks, err := b.pool.Chunks(ctx)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return b.sendText(chatID, "No free PFPs yet—check back soon!")
	}

	for _, chunk := range chunks {
		if err := b.out.SendPhotoAlbum(chatID, chunk); err != nil {
			b.logger.Error().Int("size", len(chunk)).Err(err).Msg("send free stuff chunk")
		}
	}
	return nil
}

func (b *Bot) sendSocialPromo(chatID int64) error {
	if !b.config.StartSocialPromo {
		return nil
	}
	text := fmt.Sprintf(
		"🎨 Want to learn how to make the best PFPs?\n📺 YouTube: %s\n📸 Instagram: %s",
		b.config.SocialYT, b.config.SocialIG,
	)
	return b.sendText(chatID, text)
}

func (b *Bot) showMainMenu(chatID int64) error {
	return b.sendWithMarkup(chatID, "Main Menu — choose an option:", b.mainMenuKeyboard())
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.out.SendMessage(chatID, text)
}

func (b *Bot) sendWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	return b.out.SendMessageWithMarkup(chatID, text, markup)
}

// verifyKeyboard builds one open-link row per channel plus the Verify button.
// Numeric-id channels have no public URL, so they get an informational label.
func verifyKeyboard(channels []model.ChannelRef) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ch := range channels {
		if url := ch.URL(); url != "" {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Open "+ch.Label(), url),
			))
		} else {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(ch.Label()+" (make sure you joined)", cbNoop),
			))
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Verify", cbVerify),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.ownerButton("PFP", "I want a paid PFP.")),
		tgbotapi.NewInlineKeyboardRow(b.ownerButton("Video", "I want a paid video.")),
		tgbotapi.NewInlineKeyboardRow(b.ownerButton("Talk to Owner", "Hi!")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Free Stuff 🎁", cbFreeStuff)),
	)
}

func (b *Bot) ownerButton(label, prefill string) tgbotapi.InlineKeyboardButton {
	if link := ownerDeeplink(b.config.OwnerUsername, b.config.OwnerID, prefill); link != "" {
		return tgbotapi.NewInlineKeyboardButtonURL(label, link)
	}
	return tgbotapi.NewInlineKeyboardButtonData(label, cbNoop)
}

// ownerDeeplink builds a link that opens a chat with the owner. The username
// scheme supports prefilled text; the id scheme only opens the chat.
func ownerDeeplink(username string, id int64, text string) string {
	if username != "" {
		return fmt.Sprintf("tg://resolve?domain=%s&text=%s", username, url.QueryEscape(text))
	}
	if id != 0 {
		return fmt.Sprintf("tg://user?id=%d", id)
	}
	return ""
}
