package bot

import (
	"context"
	"sort"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper-bot/internal/service"
)

// fakeMessenger captures outbound sends instead of hitting Telegram.
type fakeMessenger struct {
	texts  []string
	albums int
}

func (f *fakeMessenger) SendMessage(_ int64, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) SendMessageWithMarkup(_ int64, text string, _ tgbotapi.InlineKeyboardMarkup) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) SendPhotoAlbum(int64, []string) error {
	f.albums++
	return nil
}

func (f *fakeMessenger) AnswerCallback(string) error {
	return nil
}

type fakeChannelStore struct {
	idents map[string]bool
}

func (s *fakeChannelStore) Upsert(_ context.Context, ident string) error {
	s.idents[ident] = true
	return nil
}

func (s *fakeChannelStore) Delete(_ context.Context, ident string) error {
	delete(s.idents, ident)
	return nil
}

func (s *fakeChannelStore) List(context.Context) ([]string, error) {
	out := make([]string, 0, len(s.idents))
	for ident := range s.idents {
		out = append(out, ident)
	}
	sort.Strings(out)
	return out, nil
}

type fakeAdminStore struct {
	ids map[int64]bool
}

func (s *fakeAdminStore) Add(_ context.Context, userID int64) error {
	s.ids[userID] = true
	return nil
}

func (s *fakeAdminStore) Remove(_ context.Context, userID int64) error {
	delete(s.ids, userID)
	return nil
}

func (s *fakeAdminStore) Exists(_ context.Context, userID int64) (bool, error) {
	return s.ids[userID], nil
}

func (s *fakeAdminStore) List(context.Context) ([]int64, error) {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out, nil
}

func newTestBot(adminIDs ...int64) (*Bot, *fakeMessenger, *fakeChannelStore) {
	channels := &fakeChannelStore{idents: map[string]bool{}}
	admins := &fakeAdminStore{ids: map[int64]bool{}}
	for _, id := range adminIDs {
		admins.ids[id] = true
	}
	out := &fakeMessenger{}
	b := &Bot{
		out:      out,
		registry: service.NewRegistry(channels, admins, nil, zerolog.Nop()),
		logger:   zerolog.Nop(),
	}
	return b, out, channels
}

func commandMsg(from int64, command, args string) *tgbotapi.Message {
	text := "/" + command
	if args != "" {
		text += " " + args
	}
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: from},
		Chat: &tgbotapi.Chat{ID: from},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(command) + 1},
		},
	}
}

// A non-admin invoking add-channel gets the fixed denial and the channel set
// stays untouched.
func TestAddChannelDeniedForNonAdmin(t *testing.T) {
	b, out, channels := newTestBot(100)

	err := b.handleAddChannel(context.Background(), commandMsg(555, "addchannel", "@alpha"))
	require.NoError(t, err)

	require.Equal(t, []string{"⛔️ Admins only."}, out.texts)
	assert.Empty(t, channels.idents)
}

func TestAddChannelByAdmin(t *testing.T) {
	b, out, channels := newTestBot(100)

	err := b.handleAddChannel(context.Background(), commandMsg(100, "addchannel", "@alpha"))
	require.NoError(t, err)

	require.Len(t, out.texts, 1)
	assert.Contains(t, out.texts[0], "✅ Added/updated required channel: @alpha")
	assert.True(t, channels.idents["@alpha"])
}

func TestRemoveAdminDeniedForNonAdmin(t *testing.T) {
	b, out, _ := newTestBot(100)

	err := b.handleRemoveAdmin(context.Background(), commandMsg(555, "removeadmin", "100"))
	require.NoError(t, err)

	require.Equal(t, []string{"⛔️ Admins only."}, out.texts)
	ok, err := b.registry.IsAdmin(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddAdminRejectsNonNumericID(t *testing.T) {
	b, out, _ := newTestBot(100)

	err := b.handleAddAdmin(context.Background(), commandMsg(100, "addadmin", "@name"))
	require.NoError(t, err)

	require.Len(t, out.texts, 1)
	assert.Contains(t, out.texts[0], "Usage: /addadmin")
	list, err := b.registry.ListAdmins(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, list)
}
