package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannelRef(t *testing.T) {
	t.Run("handle", func(t *testing.T) {
		ref, err := ParseChannelRef("@alpha")
		require.NoError(t, err)
		assert.True(t, ref.IsHandle())
		assert.Equal(t, "@alpha", ref.Ident())
		assert.Equal(t, "@alpha", ref.Label())
		assert.Equal(t, "https://t.me/alpha", ref.URL())
	})

	t.Run("numeric id", func(t *testing.T) {
		ref, err := ParseChannelRef("-1001234567890")
		require.NoError(t, err)
		assert.False(t, ref.IsHandle())
		assert.Equal(t, int64(-1001234567890), ref.ChatID)
		assert.Equal(t, "-1001234567890", ref.Ident())
		assert.Equal(t, "Channel -1001234567890", ref.Label())
		assert.Empty(t, ref.URL())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		ref, err := ParseChannelRef("  @beta  ")
		require.NoError(t, err)
		assert.Equal(t, "@beta", ref.Ident())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, raw := range []string{"", "@", "beta", "12x", "https://t.me/x"} {
			_, err := ParseChannelRef(raw)
			assert.Error(t, err, "raw=%q", raw)
		}
	})
}
