package notifier

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/internal/infrastructure/outbox"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type notificationSink struct {
	mu   sync.Mutex
	got  []domain.Notification
	fail int
}

func (s *notificationSink) CreateMany(_ context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail > 0 {
		s.fail--
		return errors.New("database unavailable")
	}
	s.got = append(s.got, n)
	return nil
}

func (s *notificationSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

type trackingSink struct {
	mu  sync.Mutex
	got []domain.TrackingUpdate
}

func (s *trackingSink) Send(_ context.Context, u domain.TrackingUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, u)
	return nil
}

type offline struct{}

func (offline) IsOnline() bool { return false }

func newStore(t *testing.T) *outbox.Store {
	t.Helper()
	store, err := outbox.Open(filepath.Join(t.TempDir(), "outbox.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBridgeDeliversInBackground(t *testing.T) {
	store := newStore(t)
	notifications := &notificationSink{}
	tracker := &trackingSink{}

	p := NewProcessor(store, nil, notifications, tracker, nil, Config{Interval: time.Hour})
	p.Start()
	defer p.Stop(context.Background())

	bridge := NewBridge(p)
	require.NoError(t, bridge.Notify(context.Background(), domain.Notification{
		Title:        "Contrato assinado",
		EntityType:   "contract",
		EntityID:     "ctr-1",
		RecipientIDs: []string{"u-1", "u-2"},
	}))
	require.NoError(t, bridge.Track(context.Background(), domain.TrackingUpdate{
		ProjectID: "prj-1",
		Stage:     "contract_signed",
		Metadata:  map[string]string{"contract_id": "ctr-1"},
	}))

	require.Eventually(t, func() bool {
		tracker.mu.Lock()
		defer tracker.mu.Unlock()
		return notifications.count() == 1 && len(tracker.got) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool { return p.Size() == 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"u-1", "u-2"}, notifications.got[0].RecipientIDs)
}

func TestDrainRetriesThenDrops(t *testing.T) {
	store := newStore(t)
	notifications := &notificationSink{fail: 10}
	p := NewProcessor(store, nil, notifications, nil, nil, Config{Interval: time.Hour, MaxRetries: 2})

	require.NoError(t, store.Enqueue(outbox.Message{Kind: outbox.KindNotification, Data: []byte(`{"title":"x","recipient_ids":["u"]}`)}))

	require.NoError(t, p.Drain(context.Background()))
	assert.Equal(t, 1, p.Size(), "first failure is requeued")

	batch, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, 1, batch[0].Attempts)
	assert.Equal(t, "database unavailable", batch[0].LastError)

	require.NoError(t, p.Drain(context.Background()))
	assert.Zero(t, p.Size(), "dropped after max retries")
	assert.Zero(t, notifications.count())
}

func TestDrainSkipsWhileOffline(t *testing.T) {
	store := newStore(t)
	notifications := &notificationSink{}
	p := NewProcessor(store, offline{}, notifications, nil, nil, Config{})

	require.NoError(t, store.Enqueue(outbox.Message{Kind: outbox.KindNotification, Data: []byte(`{"recipient_ids":["u"]}`)}))
	require.NoError(t, p.Drain(context.Background()))
	assert.Equal(t, 1, p.Size())
	assert.Zero(t, notifications.count())
}

func TestUnknownKindIsDroppedEventually(t *testing.T) {
	store := newStore(t)
	p := NewProcessor(store, nil, &notificationSink{}, nil, nil, Config{MaxRetries: 1})
	require.NoError(t, store.Enqueue(outbox.Message{Kind: "sms", Data: []byte(`{}`)}))
	require.NoError(t, p.Drain(context.Background()))
	assert.Zero(t, p.Size())
}

func TestBridgeRejectsEmptyMessages(t *testing.T) {
	bridge := NewBridge(NewProcessor(newStore(t), nil, nil, nil, nil, Config{}))
	assert.ErrorIs(t, bridge.Notify(context.Background(), domain.Notification{Title: "x"}), domain.ErrInvalidPayload)
	assert.ErrorIs(t, bridge.Track(context.Background(), domain.TrackingUpdate{}), domain.ErrInvalidPayload)
}

func TestStopIsIdempotent(t *testing.T) {
	p := NewProcessor(newStore(t), nil, nil, nil, nil, Config{})
	p.Start()
	p.Stop(context.Background())
	p.Stop(context.Background())
}
