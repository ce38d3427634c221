package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gatekeeper-bot/internal/model"
)

// gateConcurrency bounds the parallel membership lookups for one Verify tap.
const gateConcurrency = 8

// MembershipChecker is what the gate needs from the oracle.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID int64, ref model.ChannelRef) (bool, error)
}

// ChannelSource yields the effective required-channel set.
type ChannelSource interface {
	EffectiveChannels(ctx context.Context) ([]model.ChannelRef, error)
}

// Decision is the outcome of one gate evaluation. Missing preserves the
// required-channel order so the report lines up with the panel shown to
// the user.
type Decision struct {
	Allowed bool
	Missing []model.ChannelRef
}

// Gate decides whether a user may pass to the main menu. It is stateless:
// every Verify tap re-evaluates the full channel set from scratch.
type Gate struct {
	channels ChannelSource
	oracle   MembershipChecker
	logger   zerolog.Logger
}

func NewGate(channels ChannelSource, oracle MembershipChecker, logger zerolog.Logger) *Gate {
	return &Gate{channels: channels, oracle: oracle, logger: logger}
}

// Evaluate fans out one membership check per required channel, joins the
// results, and allows iff every check passed. Lookup errors are mapped to
// "not a member" (fail closed) and logged, never propagated. An empty
// channel set allows immediately with zero lookups.
func (g *Gate) Evaluate(ctx context.Context, userID int64) (Decision, error) {
	channels, err := g.channels.EffectiveChannels(ctx)
	if err != nil {
		return Decision{}, err
	}

	if len(channels) == 0 {
		return Decision{Allowed: true}, nil
	}

	results := make([]bool, len(channels))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(gateConcurrency)
	for i, ch := range channels {
		i, ch := i, ch
		grp.Go(func() error {
			ok, err := g.oracle.IsMember(gctx, userID, ch)
			if err != nil {
				g.logger.Warn().
					Int64("user_id", userID).
					Str("channel", ch.Ident()).
					Err(err).
					Msg("membership check failed, treating as not a member")
				ok = false
			}
			results[i] = ok
			return nil
		})
	}
	// Goroutines never return errors; failures are folded into results.
	_ = grp.Wait()

	var missing []model.ChannelRef
	for i, ok := range results {
		if !ok {
			missing = append(missing, channels[i])
		}
	}

	return Decision{Allowed: len(missing) == 0, Missing: missing}, nil
}
