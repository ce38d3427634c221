package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gatekeeper-bot/internal/service"
)

// maxReportedFailures caps the itemized failed-recipient list in the
// broadcast report; the full list is in the logs.
const maxReportedFailures = 20

// adminGuard is the single authorization predicate in front of every admin
// command. A store error denies (fail closed).
func (b *Bot) adminGuard(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	ok, err := b.registry.IsAdmin(ctx, msg.From.ID)
	if err != nil {
		b.logger.Error().Int64("user_id", msg.From.ID).Err(err).Msg("admin check failed")
		ok = false
	}
	if !ok {
		return false, b.sendText(msg.Chat.ID, "⛔️ Admins only.")
	}
	return true, nil
}

// handleAdd adds the photo the admin replied to into the free-stuff pool.
func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) error {
	if ok, err := b.adminGuard(ctx, msg); !ok {
		return err
	}

	reply := msg.ReplyToMessage
	if reply == nil {
		return b.sendText(msg.Chat.ID, "Reply to an uploaded image with /add.")
	}
	if len(reply.Photo) == 0 {
		return b.sendText(msg.Chat.ID, "Please reply to a photo with /add.")
	}

	// The last photo size is the largest; the file id is all we keep.
	fileID := reply.Photo[len(reply.Photo)-1].FileID
	if err := b.pool.Add(ctx, fileID, msg.From.ID); err != nil {
		return err
	}
	b.logger.Info().Int64("admin", msg.From.ID).Msg("content item added")
	return b.sendText(msg.Chat.ID, "✅ Image added to Free Stuff pool.")
}

// handleBroadcast resolves the payload once, then fans out to every known
// user in the background so polling stays responsive during long runs.
func (b *Bot) handleBroadcast(ctx context.Context, msg *tgbotapi.Message) error {
	if ok, err := b.adminGuard(ctx, msg); !ok {
		return err
	}

	recipients, err := b.userRepo.AllTelegramIDs(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return b.sendText(msg.Chat.ID, "No users yet.")
	}

	payload := resolvePayload(msg)
	chatID := msg.Chat.ID
	b.logger.Info().Int64("admin", msg.From.ID).Int("recipients", len(recipients)).Msg("broadcast started")

	go func() {
		report := b.broadcaster.Broadcast(ctx, payload, recipients)
		if err := b.sendText(chatID, formatBroadcastReport(report)); err != nil {
			b.logger.Error().Err(err).Msg("send broadcast report")
		}
	}()
	return nil
}

// resolvePayload picks the broadcast content: replied-to media wins, then the
// command text, then an explicit placeholder.
func resolvePayload(msg *tgbotapi.Message) service.Payload {
	text := strings.TrimSpace(msg.CommandArguments())

	if reply := msg.ReplyToMessage; reply != nil {
		switch {
		case len(reply.Photo) > 0:
			return service.Payload{Kind: service.PayloadPhoto, FileID: reply.Photo[len(reply.Photo)-1].FileID, Text: text}
		case reply.Video != nil:
			return service.Payload{Kind: service.PayloadVideo, FileID: reply.Video.FileID, Text: text}
		case reply.Document != nil:
			return service.Payload{Kind: service.PayloadDocument, FileID: reply.Document.FileID, Text: text}
		default:
			if text == "" {
				text = "(no content)"
			}
			return service.Payload{Kind: service.PayloadText, Text: text}
		}
	}

	if text == "" {
		text = "(empty broadcast)"
	}
	return service.Payload{Kind: service.PayloadText, Text: text}
}

func formatBroadcastReport(report service.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Broadcast done. ✅ Sent: %d | ❌ Failed: %d", report.Sent, report.Failed)
	if len(report.FailedIDs) > 0 {
		ids := report.FailedIDs
		if len(ids) > maxReportedFailures {
			ids = ids[:maxReportedFailures]
		}
		sb.WriteString("\nFailed recipients:")
		for _, id := range ids {
			fmt.Fprintf(&sb, "\n• %d", id)
		}
		if len(report.FailedIDs) > maxReportedFailures {
			fmt.Fprintf(&sb, "\n… and %d more (see logs)", len(report.FailedIDs)-maxReportedFailures)
		}
	}
	return sb.String()
}

func (b *Bot) handleListChannels(ctx context.Context, msg *tgbotapi.Message) error {
	if ok, err := b.adminGuard(ctx, msg); !ok {
		return err
	}

	channels, err := b.registry.ListChannels(ctx)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		return b.sendText(msg.Chat.ID, "No required channels set.")
	}

	var sb strings.Builder
	sb.WriteString("Required channels:")
	for _, ch := range channels {
		fmt.Fprintf(&sb, "\n• %s", ch.Ident())
	}
	return b.sendText(msg.Chat.ID, sb.String())
}

func (b *Bot) handleAddChannel(ctx context.Context, msg *tgbotapi.Message) error {
	if ok, err := b.adminGuard(ctx, msg); !ok {
		return err
	}

	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		return b.sendText(msg.Chat.ID, "Usage: /addchannel @channel_or_id")
	}
	ref, err := b.registry.AddChannel(ctx, arg)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Cannot add channel: %s", err))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Added/updated required channel: %s", ref.Ident()))
}

func (b *Bot) handleRemoveChannel(ctx context.Context, msg *tgbotapi.Message) error {
	if ok, err := b.adminGuard(ctx, msg); !ok {
		return err
	}

	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		return b.sendText(msg.Chat.ID, "Usage: /removechannel @channel_or_id")
	}
	ref, err := b.registry.RemoveChannel(ctx, arg)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Cannot remove channel: %s", err))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Removed required channel: %s", ref.Ident()))
}

func (b *Bot) handleListAdmins(ctx context.Context, msg *tgbotapi.Message) error {
	if ok, err := b.adminGuard(ctx, msg); !ok {
		return err
	}

	admins, err := b.registry.ListAdmins(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("Admins:")
	for _, id := range admins {
		fmt.Fprintf(&sb, "\n• %d", id)
	}
	return b.sendText(msg.Chat.ID, sb.String())
}

func (b *Bot) handleAddAdmin(ctx context.Context, msg *tgbotapi.Message) error {
	if ok, err := b.adminGuard(ctx, msg); !ok {
		return err
	}

	id, ok := parseUserID(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, "Usage: /addadmin 123456789 (numeric user ID)")
	}
	if err := b.registry.AddAdmin(ctx, id); err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Added admin %d", id))
}

func (b *Bot) handleRemoveAdmin(ctx context.Context, msg *tgbotapi.Message) error {
	if ok, err := b.adminGuard(ctx, msg); !ok {
		return err
	}

	id, ok := parseUserID(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, "Usage: /removeadmin 123456789 (numeric user ID)")
	}
	if err := b.registry.RemoveAdmin(ctx, id); err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Removed admin %d", id))
}

func parseUserID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
