package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounter int64

func (c fixedCounter) Count(context.Context) (int64, error) {
	return int64(c), nil
}

type captureSender struct {
	recipient int64
	payload   Payload
	calls     int
}

func (s *captureSender) SendPayload(_ context.Context, recipient int64, p Payload) error {
	s.calls++
	s.recipient = recipient
	s.payload = p
	return nil
}

func TestDigestRun(t *testing.T) {
	reg, _, _ := newTestRegistry()
	ctx := context.Background()
	require.NoError(t, reg.Bootstrap(ctx, 100, []int64{200}))
	_, err := reg.AddChannel(ctx, "@alpha")
	require.NoError(t, err)

	sender := &captureSender{}
	digest := NewDigest(fixedCounter(12), fixedCounter(34), reg, sender, 100, zerolog.Nop())

	require.NoError(t, digest.Run(ctx))
	assert.Equal(t, int64(100), sender.recipient)
	assert.Equal(t, PayloadText, sender.payload.Kind)
	assert.Contains(t, sender.payload.Text, "Users: 12")
	assert.Contains(t, sender.payload.Text, "Admins: 2")
	assert.Contains(t, sender.payload.Text, "Required channels: 1")
	assert.Contains(t, sender.payload.Text, "Free stuff pool: 34")
}

func TestDigestSkipsWithoutAdmin(t *testing.T) {
	reg, _, _ := newTestRegistry()
	sender := &captureSender{}
	digest := NewDigest(fixedCounter(1), fixedCounter(1), reg, sender, 0, zerolog.Nop())

	require.NoError(t, digest.Run(context.Background()))
	assert.Zero(t, sender.calls)
}
