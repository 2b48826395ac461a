package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/colorboard/apiserver/internal/db"
	"github.com/colorboard/apiserver/internal/store"
	"github.com/colorboard/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type publishedMessage struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.messages = append(p.messages, publishedMessage{channel: channel, data: data, attrs: attrs})
	return "msg-1", nil
}

type colorFixture struct {
	colors    *ColorService
	favorites *FavoriteService
}

func newColorFixture(opts ...ColorOption) colorFixture {
	kv := db.NewMemoryStore()
	colorRepo := store.NewColorRepository(kv)
	favoriteRepo := store.NewFavoriteRepository(kv)
	return colorFixture{
		colors:    NewColorService(colorRepo, favoriteRepo, zap.NewNop(), opts...),
		favorites: NewFavoriteService(colorRepo, favoriteRepo),
	}
}

func TestColorService_CreateValidation(t *testing.T) {
	f := newColorFixture()
	ctx := context.Background()

	_, err := f.colors.Create(ctx, "alice", types.ColorInput{Color: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.colors.Create(ctx, "", types.ColorInput{Color: "red"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	record, err := f.colors.Create(ctx, "alice", types.ColorInput{Color: " red ", Comment: "warm"})
	require.NoError(t, err)
	assert.Equal(t, "red", record.Color)
	assert.Equal(t, "alice", record.Author)
}

func TestColorService_ListWithFavoritesPerViewer(t *testing.T) {
	f := newColorFixture()
	ctx := context.Background()

	red, err := f.colors.Create(ctx, "alice", types.ColorInput{Color: "red"})
	require.NoError(t, err)
	blue, err := f.colors.Create(ctx, "bob", types.ColorInput{Color: "blue"})
	require.NoError(t, err)

	_, err = f.favorites.Toggle(ctx, "bob", red.ID)
	require.NoError(t, err)

	bobView, err := f.colors.ListWithFavorites(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobView, 2)
	assert.Equal(t, blue.ID, bobView[0].ID)
	assert.False(t, bobView[0].IsFavorite)
	assert.Equal(t, red.ID, bobView[1].ID)
	assert.True(t, bobView[1].IsFavorite)

	aliceView, err := f.colors.ListWithFavorites(ctx, "alice")
	require.NoError(t, err)
	for _, view := range aliceView {
		assert.False(t, view.IsFavorite)
	}
}

func TestColorService_MyPage(t *testing.T) {
	f := newColorFixture()
	ctx := context.Background()

	empty, err := f.colors.MyPage(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, empty.MyPosts)
	assert.NotNil(t, empty.MyFavorites)
	assert.Empty(t, empty.MyPosts)
	assert.Empty(t, empty.MyFavorites)

	a1, err := f.colors.Create(ctx, "alice", types.ColorInput{Color: "red"})
	require.NoError(t, err)
	b1, err := f.colors.Create(ctx, "bob", types.ColorInput{Color: "blue"})
	require.NoError(t, err)
	a2, err := f.colors.Create(ctx, "alice", types.ColorInput{Color: "green"})
	require.NoError(t, err)

	_, err = f.favorites.Toggle(ctx, "alice", b1.ID)
	require.NoError(t, err)
	_, err = f.favorites.Toggle(ctx, "alice", a1.ID)
	require.NoError(t, err)

	page, err := f.colors.MyPage(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, page.MyPosts, 2)
	assert.Equal(t, a2.ID, page.MyPosts[0].ID)
	assert.Equal(t, a1.ID, page.MyPosts[1].ID)
	require.Len(t, page.MyFavorites, 2)
	assert.Equal(t, b1.ID, page.MyFavorites[0].ID)
	assert.Equal(t, a1.ID, page.MyFavorites[1].ID)
}

func TestColorService_PublishesCreatedEvent(t *testing.T) {
	pub := &fakePublisher{}
	f := newColorFixture(WithEventPublisher(pub, "colors.created"))

	record, err := f.colors.Create(context.Background(), "alice", types.ColorInput{Color: "red"})
	require.NoError(t, err)

	require.Len(t, pub.messages, 1)
	msg := pub.messages[0]
	assert.Equal(t, "colors.created", msg.channel)
	assert.Equal(t, types.EventColorCreated, msg.attrs["type"])
	assert.Equal(t, "1", msg.attrs["color_id"])

	var event types.ColorCreatedEvent
	require.NoError(t, json.Unmarshal(msg.data, &event))
	assert.Equal(t, types.EventColorCreated, event.Type)
	assert.Equal(t, record.ID, event.Record.ID)
	assert.Equal(t, "alice", event.Record.Author)
}

func TestColorService_PublishFailureDoesNotFailCreate(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	f := newColorFixture(WithEventPublisher(pub, "colors.created"))

	record, err := f.colors.Create(context.Background(), "alice", types.ColorInput{Color: "red"})
	require.NoError(t, err)

	records, err := f.colors.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
}
