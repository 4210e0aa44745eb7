package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lpbot/internal/config"
	"lpbot/internal/external/spotify"
	"lpbot/internal/external/telegram"
	"lpbot/internal/handlers"
	"lpbot/internal/model"
	"lpbot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testChat int64 = -100777

type stubCatalog struct{}

func (stubCatalog) AlbumSummary(_ context.Context, id string) (*spotify.AlbumSummary, error) {
	if id != "ABC123" {
		return nil, errors.New("album not found")
	}
	return &spotify.AlbumSummary{
		ID:      id,
		Artists: []string{"Artist"},
		Name:    "Album",
		URL:     "https://open.spotify.com/album/ABC123",
	}, nil
}

func (stubCatalog) AlbumTracks(_ context.Context, id string) ([]spotify.TrackItem, error) {
	return []spotify.TrackItem{
		{Number: 1, Name: "Opening", Duration: 3 * time.Minute},
		{Number: 2, Name: "Closing", Duration: 4 * time.Minute},
	}, nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *recordingSender) SendText(chatID int64, text string, replyTo int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, text)
	return nil
}

func (s *recordingSender) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

// fakeSource отдает заранее заданные обновления и ждет отмены контекста
type fakeSource struct {
	updates  []tgbotapi.Update
	failures int32
	calls    atomic.Int32
}

func (s *fakeSource) Start(ctx context.Context, handler telegram.UpdateHandler) error {
	call := s.calls.Add(1)
	if call <= s.failures {
		return fmt.Errorf("update channel closed, reconnecting")
	}
	for _, update := range s.updates {
		handler.HandleUpdate(update)
	}
	<-ctx.Done()
	return ctx.Err()
}

func testConfig() *config.Config {
	return &config.Config{
		PartyRoles:       []string{"@listeningparty"},
		CatalogHost:      config.DefaultCatalogHost,
		FetchTimeout:     time.Second,
		RegistryCapacity: 10,
		PartyRetention:   time.Hour,
		SweepSchedule:    "@every 1h",
		WorkerCount:      2,
		WorkerQueueSize:  8,
	}
}

func newTestBot(t *testing.T, cfg *config.Config, source UpdateSource, sender telegram.Sender) *Bot {
	t.Helper()
	factory, err := NewComponentFactory(cfg, zap.NewNop())
	require.NoError(t, err)

	services, err := factory.CreateServices(stubCatalog{})
	require.NoError(t, err)

	bot := factory.assemble(services, source, sender, "lp_bot")
	bot.restartDelay = time.Millisecond
	bot.shutdownTimeout = 5 * time.Second
	return bot
}

func command(updateID int, chatID int64, text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{
		UpdateID: updateID,
		Message: &tgbotapi.Message{
			MessageID: updateID,
			Text:      text,
			Chat:      &tgbotapi.Chat{ID: chatID, Type: "supergroup"},
			From:      &tgbotapi.User{ID: int64(updateID), UserName: "alice"},
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
		},
	}
}

func announcement(updateID int, chatID int64) tgbotapi.Update {
	text := "@ListeningParty tonight https://open.spotify.com/album/ABC123?si=xyz"
	return tgbotapi.Update{
		UpdateID: updateID,
		Message: &tgbotapi.Message{
			MessageID: updateID,
			Text:      text,
			Chat:      &tgbotapi.Chat{ID: chatID, Type: "supergroup"},
			From:      &tgbotapi.User{ID: 1, UserName: "host"},
			Entities:  []tgbotapi.MessageEntity{{Type: "mention", Offset: 0, Length: 15}},
		},
	}
}

func TestNewComponentFactory_RequiresDependencies(t *testing.T) {
	_, err := NewComponentFactory(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewComponentFactory(testConfig(), nil)
	assert.Error(t, err)
}

func TestRouter_ListeningPartyFlow(t *testing.T) {
	sender := &recordingSender{}
	bot := newTestBot(t, testConfig(), &fakeSource{}, sender)
	bot.pool.Start()
	defer bot.pool.Stop()

	bot.router.HandleUpdate(command(1, testChat, "/lp"))
	bot.router.HandleUpdate(announcement(2, testChat))

	require.Eventually(t, func() bool {
		_, ok := bot.services.Registry.Get(model.ChannelID(testChat))
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	bot.router.HandleUpdate(command(3, testChat, "/lpstart"))
	bot.router.HandleUpdate(command(4, testChat, "/lp@lp_bot"))
	bot.router.HandleUpdate(command(5, testChat, "/lp@other_bot"))
	bot.router.HandleUpdate(command(6, testChat, "/unknown"))

	texts := sender.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, service.NoPartyMessage, texts[0])
	assert.Equal(t, handlers.StartedMessage, texts[1])
	assert.Contains(t, texts[2], "Artist - Album (07:00)")
	assert.Contains(t, texts[2], "Playing Track 1: \"Opening\"")
	assert.Contains(t, texts[2], "Album: https://open.spotify.com/album/ABC123")
}

func TestRouter_StartRestrictedToAdmins(t *testing.T) {
	cfg := testConfig()
	cfg.AdminUsernames = []string{"boss"}
	sender := &recordingSender{}
	bot := newTestBot(t, cfg, &fakeSource{}, sender)

	bot.services.Registry.RecordAnnouncement(model.ChannelID(testChat), model.Album{Name: "Album"})
	bot.router.HandleUpdate(command(1, testChat, "/lpstart"))

	record, ok := bot.services.Registry.Get(model.ChannelID(testChat))
	require.True(t, ok)
	assert.False(t, record.Started())
	assert.Equal(t, []string{handlers.DeniedMessage}, sender.texts())
}

func TestBot_StartAndStop(t *testing.T) {
	source := &fakeSource{
		failures: 2,
		updates:  []tgbotapi.Update{announcement(1, testChat)},
	}
	bot := newTestBot(t, testConfig(), source, &recordingSender{})

	result := make(chan error, 1)
	go func() { result <- bot.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		_, ok := bot.services.Registry.Get(model.ChannelID(testChat))
		return ok
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(3), source.calls.Load(), "update loop restarted after failures")

	require.NoError(t, bot.Stop())
	require.NoError(t, bot.Stop())

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}

	select {
	case <-bot.Done():
	default:
		t.Error("Done channel should be closed after Stop")
	}
}

func TestBot_StartReturnsOnContextCancel(t *testing.T) {
	bot := newTestBot(t, testConfig(), &fakeSource{}, &recordingSender{})

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- bot.Start(ctx) }()

	require.Eventually(t, func() bool { return bot.source.(*fakeSource).calls.Load() == 1 },
		2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	require.NoError(t, bot.Stop())
}

func TestBot_GivesUpAfterMaxRestarts(t *testing.T) {
	bot := newTestBot(t, testConfig(), &fakeSource{failures: 100}, &recordingSender{})
	bot.maxRestartAttempts = 2

	err := bot.Start(context.Background())
	assert.ErrorContains(t, err, "max restart attempts reached")
	require.NoError(t, bot.Stop())
}
