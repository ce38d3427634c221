package service

import (
	"context"

	"github.com/rs/zerolog"

	"gatekeeper-bot/internal/model"
)

// ChannelStore persists the required-channel set.
type ChannelStore interface {
	Upsert(ctx context.Context, ident string) error
	Delete(ctx context.Context, ident string) error
	List(ctx context.Context) ([]string, error)
}

// AdminStore persists the admin roster.
type AdminStore interface {
	Add(ctx context.Context, userID int64) error
	Remove(ctx context.Context, userID int64) error
	Exists(ctx context.Context, userID int64) (bool, error)
	List(ctx context.Context) ([]int64, error)
}

// Registry manages the required-channel and admin sets. Channels live in the
// store for runtime mutability; the configured seed list is only applied when
// the store is empty.
type Registry struct {
	channels ChannelStore
	admins   AdminStore
	seed     []string
	logger   zerolog.Logger
}

func NewRegistry(channels ChannelStore, admins AdminStore, seed []string, logger zerolog.Logger) *Registry {
	return &Registry{channels: channels, admins: admins, seed: seed, logger: logger}
}

// Bootstrap re-applies the configured admins (add-if-absent, never removing)
// and seeds the channel set when it is empty. Called once per process start.
func (r *Registry) Bootstrap(ctx context.Context, mainAdmin int64, secondaryAdmins []int64) error {
	if mainAdmin != 0 {
		if err := r.admins.Add(ctx, mainAdmin); err != nil {
			return err
		}
	}
	for _, id := range secondaryAdmins {
		if err := r.admins.Add(ctx, id); err != nil {
			return err
		}
	}
	_, err := r.EffectiveChannels(ctx)
	return err
}

// AddChannel parses, trims, and stores a channel identity. Re-adding an
// existing identity is a no-op.
func (r *Registry) AddChannel(ctx context.Context, raw string) (model.ChannelRef, error) {
	ref, err := model.ParseChannelRef(raw)
	if err != nil {
		return model.ChannelRef{}, err
	}
	if err := r.channels.Upsert(ctx, ref.Ident()); err != nil {
		return model.ChannelRef{}, err
	}
	return ref, nil
}

// RemoveChannel deletes a channel identity; unknown identities are a no-op.
func (r *Registry) RemoveChannel(ctx context.Context, raw string) (model.ChannelRef, error) {
	ref, err := model.ParseChannelRef(raw)
	if err != nil {
		return model.ChannelRef{}, err
	}
	if err := r.channels.Delete(ctx, ref.Ident()); err != nil {
		return model.ChannelRef{}, err
	}
	return ref, nil
}

// ListChannels returns the stored set parsed into typed references, in the
// store's lexicographic order.
func (r *Registry) ListChannels(ctx context.Context) ([]model.ChannelRef, error) {
	idents, err := r.channels.List(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]model.ChannelRef, 0, len(idents))
	for _, ident := range idents {
		ref, err := model.ParseChannelRef(ident)
		if err != nil {
			// A malformed row predating identity validation; skip it.
			r.logger.Warn().Str("ident", ident).Err(err).Msg("skipping malformed stored channel")
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// EffectiveChannels returns the gating set. An empty store is seeded from the
// configured list first; once anything is stored the seed is never re-applied.
func (r *Registry) EffectiveChannels(ctx context.Context) ([]model.ChannelRef, error) {
	refs, err := r.ListChannels(ctx)
	if err != nil || len(refs) > 0 {
		return refs, err
	}
	for _, raw := range r.seed {
		ref, err := model.ParseChannelRef(raw)
		if err != nil {
			r.logger.Warn().Str("ident", raw).Err(err).Msg("skipping malformed configured channel")
			continue
		}
		if err := r.channels.Upsert(ctx, ref.Ident()); err != nil {
			return nil, err
		}
	}
	return r.ListChannels(ctx)
}

// IsAdmin is the sole authorization predicate for admin-only commands.
func (r *Registry) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return r.admins.Exists(ctx, userID)
}

func (r *Registry) AddAdmin(ctx context.Context, userID int64) error {
	return r.admins.Add(ctx, userID)
}

func (r *Registry) RemoveAdmin(ctx context.Context, userID int64) error {
	return r.admins.Remove(ctx, userID)
}

func (r *Registry) ListAdmins(ctx context.Context) ([]int64, error) {
	return r.admins.List(ctx)
}
