package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper-bot/internal/model"
)

type stubLookup struct {
	status string
	err    error
	calls  int
}

func (s *stubLookup) ChatMemberStatus(context.Context, model.ChannelRef, int64) (string, error) {
	s.calls++
	return s.status, s.err
}

func TestOracleStatusMapping(t *testing.T) {
	cases := map[string]bool{
		"creator":       true,
		"administrator": true,
		"member":        true,
		"restricted":    true,
		"left":          false,
		"kicked":        false,
	}
	for status, want := range cases {
		oracle := NewMembershipOracle(&stubLookup{status: status})
		got, err := oracle.IsMember(context.Background(), 42, model.ChannelRef{Handle: "alpha"})
		require.NoError(t, err, status)
		assert.Equal(t, want, got, status)
	}
}

func TestOracleLookupError(t *testing.T) {
	oracle := NewMembershipOracle(&stubLookup{err: errors.New("chat not found")})
	ok, err := oracle.IsMember(context.Background(), 42, model.ChannelRef{ChatID: 123})
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "123")
}
