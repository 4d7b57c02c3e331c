package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	mu    sync.Mutex
	saved []*model.Notification
	err   error
}

func (s *memStore) Create(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	n.ID = int64(len(s.saved) + 1)
	s.saved = append(s.saved, n)
	return nil
}

type recordingSink struct {
	mu        sync.Mutex
	delivered []*model.Notification
	err       error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delivered = append(s.delivered, n)
	return s.err
}

func TestDispatcher_StoresAndDelivers(t *testing.T) {
	store := &memStore{}
	sink := &recordingSink{}
	d := NewDispatcher(store, zap.NewNop(), sink)

	d.Notify(context.Background(), 9, model.NotificationBookingConfirmed, map[string]string{KeyMentorName: "Ann"})
	d.Wait()

	require.Len(t, store.saved, 1)
	assert.Equal(t, int64(9), store.saved[0].UserID)
	require.Len(t, sink.delivered, 1)
	assert.Equal(t, model.NotificationBookingConfirmed, sink.delivered[0].Kind)
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	store := &memStore{err: errors.New("db down")}
	failing := &recordingSink{err: errors.New("telegram down")}
	next := &recordingSink{}
	d := NewDispatcher(store, nil, failing, next)

	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, 1, model.NotificationBookingDeclined, nil)
	cancel()
	d.Wait()

	assert.Len(t, failing.delivered, 1)
	assert.Len(t, next.delivered, 1)
}

type fakeSender struct {
	params *bot.SendMessageParams
}

func (f *fakeSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.params = params
	return &models.Message{}, nil
}

type fakeUsers map[int64]*model.User

func (f fakeUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return f[id], nil
}

func TestTelegramSink_SendsToTelegramChat(t *testing.T) {
	sender := &fakeSender{}
	sink := NewTelegramSink(sender, fakeUsers{3: {ID: 3, TelegramID: 3003}})

	err := sink.Deliver(context.Background(), &model.Notification{
		UserID:  3,
		Kind:    model.NotificationBookingConfirmed,
		Payload: map[string]string{KeyMentorName: "Ann", KeyVideoURL: "https://x.daily.co/r"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3003), sender.params.ChatID)
	assert.Contains(t, sender.params.Text, "Ann confirmed")
	assert.Contains(t, sender.params.Text, "https://x.daily.co/r")
}

func TestTelegramSink_UnknownUser(t *testing.T) {
	sink := NewTelegramSink(&fakeSender{}, fakeUsers{})

	err := sink.Deliver(context.Background(), &model.Notification{UserID: 5})
	assert.Error(t, err)
}

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaSink_PublishesEvent(t *testing.T) {
	w := &fakeWriter{}
	sink := NewKafkaSink(w, "mm.notifications")

	err := sink.Deliver(context.Background(), &model.Notification{UserID: 12, Kind: model.NotificationBookingRequested})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "mm.notifications", msg.Topic)
	assert.Equal(t, "12", string(msg.Key))
	assert.Contains(t, string(msg.Value), `"kind":"booking_requested"`)

	var eventType string
	for _, h := range msg.Headers {
		if h.Key == "event_type" {
			eventType = string(h.Value)
		}
	}
	assert.Equal(t, "booking_requested", eventType)
}

func TestRender(t *testing.T) {
	text := Render(&model.Notification{
		Kind: model.NotificationBookingRequested,
		Payload: map[string]string{
			KeyStudentName: "Bob",
			KeyWhen:        "Tue 20 Oct 10:00",
			KeyMessage:     "Jazz chords please",
		},
	})

	assert.Contains(t, text, "Bob")
	assert.Contains(t, text, "Tue 20 Oct 10:00")
	assert.Contains(t, text, "Jazz chords please")
}
