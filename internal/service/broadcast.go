package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// PayloadKind selects how a broadcast payload is delivered.
type PayloadKind int

const (
	PayloadText PayloadKind = iota
	PayloadPhoto
	PayloadVideo
	PayloadDocument
)

// Payload is a broadcast's content, resolved once before fan-out. Media kinds
// carry a gateway file id plus an optional caption in Text.
type Payload struct {
	Kind   PayloadKind
	FileID string
	Text   string
}

// Sender is the slice of the messaging gateway the broadcaster needs.
type Sender interface {
	SendPayload(ctx context.Context, recipient int64, p Payload) error
}

// Report tallies one broadcast run. FailedIDs lists the recipients whose
// single best-effort send failed, for operator follow-up.
type Report struct {
	Sent      int
	Failed    int
	FailedIDs []int64
}

// Broadcaster delivers a payload to every recipient, sequentially and paced
// by a fixed-interval limiter. The sequential loop is deliberate: it enforces
// the gateway rate limit rather than optimizing throughput.
type Broadcaster struct {
	sender   Sender
	interval time.Duration
	logger   zerolog.Logger
}

func NewBroadcaster(sender Sender, interval time.Duration, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{sender: sender, interval: interval, logger: logger}
}

// Broadcast sends the payload to each recipient in turn. Every send is
// isolated: a failure (blocked bot, deactivated account, bad id) is tallied
// and logged, and the loop continues. Cancelling ctx stops between sends and
// returns the partial tally.
func (b *Broadcaster) Broadcast(ctx context.Context, payload Payload, recipients []int64) Report {
	limiter := rate.NewLimiter(rate.Every(b.interval), 1)

	var report Report
	for _, recipient := range recipients {
		if err := limiter.Wait(ctx); err != nil {
			b.logger.Warn().
				Int("sent", report.Sent).
				Int("remaining", len(recipients)-report.Sent-report.Failed).
				Msg("broadcast cancelled")
			return report
		}
		if err := b.sender.SendPayload(ctx, recipient, payload); err != nil {
			report.Failed++
			report.FailedIDs = append(report.FailedIDs, recipient)
			b.logger.Warn().Int64("recipient", recipient).Err(err).Msg("broadcast send failed")
			continue
		}
		report.Sent++
	}

	b.logger.Info().Int("sent", report.Sent).Int("failed", report.Failed).Msg("broadcast done")
	return report
}
