package service

import (
	"context"
	"fmt"

	"gatekeeper-bot/internal/model"
)

// Chat member statuses that mean the user is NOT in the channel. Every other
// status (member, administrator, creator, restricted) counts as joined.
const (
	statusLeft   = "left"
	statusKicked = "kicked"
)

// MemberLookup is the slice of the messaging gateway the oracle needs: a
// raw chat-member status for a (channel, user) pair.
type MemberLookup interface {
	ChatMemberStatus(ctx context.Context, ref model.ChannelRef, userID int64) (string, error)
}

// MembershipOracle answers "is this user a member of this channel". Each call
// is a fresh gateway lookup; the gate only runs on explicit user action, so
// no caching is needed.
type MembershipOracle struct {
	gateway MemberLookup
}

func NewMembershipOracle(gateway MemberLookup) *MembershipOracle {
	return &MembershipOracle{gateway: gateway}
}

// IsMember resolves the channel reference and checks membership. Lookup
// failures (network, bot lacks visibility, channel gone) surface as errors;
// the caller decides the fail-closed mapping.
func (o *MembershipOracle) IsMember(ctx context.Context, userID int64, ref model.ChannelRef) (bool, error) {
	status, err := o.gateway.ChatMemberStatus(ctx, ref, userID)
	if err != nil {
		return false, fmt.Errorf("membership lookup for %s: %w", ref.Ident(), err)
	}
	return status != statusLeft && status != statusKicked, nil
}
