package chatbot

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/assistant"
	"Storefront/internal/cart"
	"Storefront/internal/config"
	"Storefront/internal/storage"
)

func newTestBot(t *testing.T, input string) (*ChatBot, *bytes.Buffer, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	out := &bytes.Buffer{}
	cfg := config.Config{Store: config.StoreMemory, CartKey: config.DefaultCartKey}
	cb := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), store, strings.NewReader(input), out)
	cb.SetReplyDelay(func() time.Duration { return time.Millisecond })
	return cb, out, store
}

func TestRun_ChatAndBuy(t *testing.T) {
	input := strings.Join([]string{
		"hi there",
		"/buy RM5,499.00 iPhone 17 Pro",
		"/buy 5499 iPhone 17 Pro",
		"/buy RM2,199 iPhone 13",
		"/count",
		"/cart",
		"/quit",
		"never read",
	}, "\n")
	cb, out, _ := newTestBot(t, input)

	require.NoError(t, cb.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Bot: "+assistant.Response(assistant.Greeting))
	assert.Contains(t, got, "[success] iPhone 17 Pro added to cart!")
	assert.Contains(t, got, "Cart: 3\n")
	assert.Contains(t, got, "1. iPhone 17 Pro x2 @ RM 5,499.00")
	assert.Contains(t, got, "2. iPhone 13 x1 @ RM 2,199.00")
	assert.Contains(t, got, "Subtotal: RM 13,197.00")
	assert.Contains(t, got, "Goodbye!")
}

func TestRun_EOF(t *testing.T) {
	cb, out, _ := newTestBot(t, "what's new\n")
	require.NoError(t, cb.Run(context.Background()))
	assert.Contains(t, out.String(), "Bot: "+assistant.Response(assistant.Latest))
}

func TestHandleCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("buy usage", func(t *testing.T) {
		cb, _, _ := newTestBot(t, "")
		defer cb.Close()
		_, err := cb.handleCommand(ctx, "/buy 100")
		assert.Error(t, err)
	})

	t.Run("buy invalid price", func(t *testing.T) {
		cb, _, store := newTestBot(t, "")
		defer cb.Close()
		_, err := cb.handleCommand(ctx, "/buy -5 iPhone 13")
		assert.ErrorIs(t, err, cart.ErrInvalidItem)
		_, ok, _ := store.Get(ctx, config.DefaultCartKey)
		assert.False(t, ok)
	})

	t.Run("suggest", func(t *testing.T) {
		cb, out, _ := newTestBot(t, "")
		defer cb.Close()

		quit, err := cb.handleCommand(ctx, "/suggest")
		require.NoError(t, err)
		assert.False(t, quit)
		assert.Contains(t, out.String(), "1. "+assistant.Suggestions[0])

		_, err = cb.handleCommand(ctx, "/suggest 1")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Bot: "+assistant.Response(assistant.Photography))

		_, err = cb.handleCommand(ctx, "/suggest 99")
		assert.Error(t, err)
	})

	t.Run("open close status", func(t *testing.T) {
		cb, out, _ := newTestBot(t, "")
		defer cb.Close()

		_, err := cb.handleCommand(ctx, "/open")
		require.NoError(t, err)
		assert.True(t, cb.widget.IsOpen())
		_, err = cb.handleCommand(ctx, "/close")
		require.NoError(t, err)
		assert.False(t, cb.widget.IsOpen())
		_, err = cb.handleCommand(ctx, "/status")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Chat open: false")
	})

	t.Run("banner and buy current slide", func(t *testing.T) {
		cb, out, _ := newTestBot(t, "")
		defer cb.Close()

		_, err := cb.handleCommand(ctx, "/banner prev")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Banner 4/4: iPhone 16 Pro - RM 4,999.00")

		_, err = cb.handleCommand(ctx, "/banner 2")
		require.NoError(t, err)
		_, err = cb.handleCommand(ctx, "/buy")
		require.NoError(t, err)

		c := cb.cart.Load(ctx)
		require.Len(t, c, 1)
		assert.Equal(t, "iphone-17-pro", c[0].ID)
		assert.Equal(t, 5999.0, c[0].Price)

		_, err = cb.handleCommand(ctx, "/banner 9")
		assert.Error(t, err)
		_, err = cb.handleCommand(ctx, "/banner sideways")
		assert.Error(t, err)
	})

	t.Run("recommended strip", func(t *testing.T) {
		cb, out, _ := newTestBot(t, "")
		defer cb.Close()

		_, err := cb.handleCommand(ctx, "/recommended")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "iPhone 14 - RM 2,999.00")
		assert.NotContains(t, out.String(), "iPhone 13")
		assert.NotContains(t, out.String(), "iPhone 16 Plus")

		out.Reset()
		for i := 0; i < 5; i++ {
			_, err = cb.handleCommand(ctx, "/recommended next")
			require.NoError(t, err)
		}
		assert.Contains(t, out.String(), "iPhone 15 Plus")

		_, err = cb.handleCommand(ctx, "/recommended up")
		assert.Error(t, err)
	})

	t.Run("unknown and quit", func(t *testing.T) {
		cb, _, _ := newTestBot(t, "")
		defer cb.Close()

		_, err := cb.handleCommand(ctx, "/dance")
		assert.Error(t, err)
		quit, err := cb.handleCommand(ctx, "/exit")
		require.NoError(t, err)
		assert.True(t, quit)
	})
}

func TestCartSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	cfg := config.Config{Store: config.StoreMemory, CartKey: config.DefaultCartKey}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first := New(cfg, logger, store, strings.NewReader("/buy 3999 iPhone 17\n"), io.Discard)
	require.NoError(t, first.Run(ctx))

	out := &bytes.Buffer{}
	second := New(cfg, logger, store, strings.NewReader("/count\n"), out)
	require.NoError(t, second.Run(ctx))
	assert.Contains(t, out.String(), "Cart: 1\n")
}

func TestNewChatBot_SQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		Store:   config.StoreSQLite,
		DBPath:  filepath.Join(dir, "store.db"),
		CartKey: config.DefaultCartKey,
		LogDir:  filepath.Join(dir, "logs"),
	}

	cb, err := NewChatBot(cfg)
	require.NoError(t, err)
	cb.in = strings.NewReader("/buy 10 Case\n/quit\n")
	out := &bytes.Buffer{}
	cb.out = out
	require.NoError(t, cb.Run(context.Background()))

	cb, err = NewChatBot(cfg)
	require.NoError(t, err)
	defer cb.Close()
	assert.Equal(t, 1, cart.TotalItemCount(cb.cart.Load(context.Background())))
}

func TestNewChatBot_InvalidConfig(t *testing.T) {
	_, err := NewChatBot(config.Config{Store: "redis", CartKey: "k"})
	assert.Error(t, err)
}
