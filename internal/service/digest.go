package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// counter abstracts the row-count queries the digest needs.
type counter interface {
	Count(ctx context.Context) (int64, error)
}

// Digest sends the primary admin a daily snapshot of the bot's registries.
type Digest struct {
	users    counter
	content  counter
	registry *Registry
	sender   Sender
	adminID  int64
	logger   zerolog.Logger
}

func NewDigest(users, content counter, registry *Registry, sender Sender, adminID int64, logger zerolog.Logger) *Digest {
	return &Digest{
		users:    users,
		content:  content,
		registry: registry,
		sender:   sender,
		adminID:  adminID,
		logger:   logger,
	}
}

// Run builds and sends one digest message.
func (d *Digest) Run(ctx context.Context) error {
	if d.adminID == 0 {
		return nil
	}

	users, err := d.users.Count(ctx)
	if err != nil {
		return err
	}
	items, err := d.content.Count(ctx)
	if err != nil {
		return err
	}
	admins, err := d.registry.ListAdmins(ctx)
	if err != nil {
		return err
	}
	channels, err := d.registry.ListChannels(ctx)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(
		"📊 Daily digest\nUsers: %d\nAdmins: %d\nRequired channels: %d\nFree stuff pool: %d",
		users, len(admins), len(channels), items,
	)
	if err := d.sender.SendPayload(ctx, d.adminID, Payload{Kind: PayloadText, Text: text}); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	d.logger.Info().Int64("admin", d.adminID).Msg("digest sent")
	return nil
}
