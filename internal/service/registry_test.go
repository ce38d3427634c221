package service

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper-bot/internal/model"
)

// memChannelStore mimics the conflict-tolerant upsert/delete semantics of the
// real store, including its lexicographic listing.
type memChannelStore struct {
	idents  map[string]bool
	upserts int
}

func newMemChannelStore() *memChannelStore {
	return &memChannelStore{idents: map[string]bool{}}
}

func (s *memChannelStore) Upsert(_ context.Context, ident string) error {
	s.upserts++
	s.idents[strings.TrimSpace(ident)] = true
	return nil
}

func (s *memChannelStore) Delete(_ context.Context, ident string) error {
	delete(s.idents, ident)
	return nil
}

func (s *memChannelStore) List(context.Context) ([]string, error) {
	out := make([]string, 0, len(s.idents))
	for ident := range s.idents {
		out = append(out, ident)
	}
	sort.Strings(out)
	return out, nil
}

type memAdminStore struct {
	ids map[int64]bool
}

func newMemAdminStore() *memAdminStore {
	return &memAdminStore{ids: map[int64]bool{}}
}

func (s *memAdminStore) Add(_ context.Context, userID int64) error {
	s.ids[userID] = true
	return nil
}

func (s *memAdminStore) Remove(_ context.Context, userID int64) error {
	delete(s.ids, userID)
	return nil
}

func (s *memAdminStore) Exists(_ context.Context, userID int64) (bool, error) {
	return s.ids[userID], nil
}

func (s *memAdminStore) List(context.Context) ([]int64, error) {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out, nil
}

func newTestRegistry(seed ...string) (*Registry, *memChannelStore, *memAdminStore) {
	channels := newMemChannelStore()
	admins := newMemAdminStore()
	return NewRegistry(channels, admins, seed, zerolog.Nop()), channels, admins
}

func idents(refs []model.ChannelRef) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.Ident())
	}
	return out
}

func TestAddChannelIdempotent(t *testing.T) {
	reg, store, _ := newTestRegistry()
	ctx := context.Background()

	_, err := reg.AddChannel(ctx, " @alpha ")
	require.NoError(t, err)
	_, err = reg.AddChannel(ctx, "@alpha")
	require.NoError(t, err)

	list, err := reg.ListChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"@alpha"}, idents(list))
	assert.Len(t, store.idents, 1)
}

func TestAddChannelRejectsMalformed(t *testing.T) {
	reg, store, _ := newTestRegistry()

	_, err := reg.AddChannel(context.Background(), "not-a-channel")
	require.Error(t, err)
	assert.Empty(t, store.idents)
}

func TestRemoveChannelAbsentIsNoop(t *testing.T) {
	reg, _, _ := newTestRegistry()
	ctx := context.Background()

	_, err := reg.AddChannel(ctx, "@alpha")
	require.NoError(t, err)
	_, err = reg.RemoveChannel(ctx, "@ghost")
	require.NoError(t, err)

	list, err := reg.ListChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"@alpha"}, idents(list))
}

// First-boot seeding: an empty store is filled from the configured list once;
// a second effective-set fetch must not re-insert.
func TestEffectiveChannelsSeedsOnce(t *testing.T) {
	reg, store, _ := newTestRegistry("@alpha", "123456")
	ctx := context.Background()

	first, err := reg.EffectiveChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"123456", "@alpha"}, idents(first))

	upsertsAfterSeed := store.upserts
	second, err := reg.EffectiveChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"123456", "@alpha"}, idents(second))
	assert.Equal(t, upsertsAfterSeed, store.upserts)
}

func TestEffectiveChannelsPrefersStoredSet(t *testing.T) {
	reg, _, _ := newTestRegistry("@seed")
	ctx := context.Background()

	_, err := reg.AddChannel(ctx, "@stored")
	require.NoError(t, err)

	effective, err := reg.EffectiveChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"@stored"}, idents(effective))
}

func TestBootstrapAdminsIdempotent(t *testing.T) {
	reg, _, admins := newTestRegistry()
	ctx := context.Background()

	require.NoError(t, reg.Bootstrap(ctx, 100, []int64{200, 300}))
	require.NoError(t, reg.Bootstrap(ctx, 100, []int64{200, 300}))

	assert.Len(t, admins.ids, 3)
	for _, id := range []int64{100, 200, 300} {
		ok, err := reg.IsAdmin(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok, id)
	}
	ok, err := reg.IsAdmin(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminAddRemove(t *testing.T) {
	reg, _, _ := newTestRegistry()
	ctx := context.Background()

	require.NoError(t, reg.AddAdmin(ctx, 7))
	require.NoError(t, reg.AddAdmin(ctx, 7))
	list, err := reg.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, list)

	require.NoError(t, reg.RemoveAdmin(ctx, 7))
	require.NoError(t, reg.RemoveAdmin(ctx, 7))
	ok, err := reg.IsAdmin(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}
