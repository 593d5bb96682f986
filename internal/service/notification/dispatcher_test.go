package notification

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_FlushesOnStop(t *testing.T) {
	repo := memory.NewNotificationRepository()
	d := NewDispatcher(repo, Config{BatchSize: 50, FlushInterval: time.Hour, WorkerCount: 2}, discardLogger())

	for i := 0; i < 10; i++ {
		d.Publish(context.Background(), "c1", notification.EventLeaveSubmitted, map[string]any{"n": i})
	}
	d.Stop()
	d.Stop()

	events := repo.Events()
	require.Len(t, events, 10)
	for _, ev := range events {
		assert.Equal(t, "c1", ev.CompanyID)
		assert.Equal(t, notification.EventLeaveSubmitted, ev.Name)
		assert.NotEmpty(t, ev.ID)
	}
}

func TestDispatcher_FlushesFullBatch(t *testing.T) {
	repo := memory.NewNotificationRepository()
	d := NewDispatcher(repo, Config{BatchSize: 2, FlushInterval: time.Hour, WorkerCount: 1}, discardLogger())
	defer d.Stop()

	d.Publish(context.Background(), "c1", notification.EventLeaveApproved, nil)
	d.Publish(context.Background(), "c1", notification.EventLeaveApproved, nil)

	assert.Eventually(t, func() bool { return len(repo.Events()) == 2 }, time.Second, 10*time.Millisecond)
}

// gatedRepository blocks its first insert until released.
type gatedRepository struct {
	*memory.NotificationRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (r *gatedRepository) CreateBatch(ctx context.Context, events []notification.Event) error {
	first := false
	r.once.Do(func() { first = true })
	if first {
		close(r.entered)
		<-r.release
	}
	return r.NotificationRepository.CreateBatch(ctx, events)
}

func TestDispatcher_InsertsDirectlyWhenQueueIsFull(t *testing.T) {
	repo := &gatedRepository{
		NotificationRepository: memory.NewNotificationRepository(),
		entered:                make(chan struct{}),
		release:                make(chan struct{}),
	}
	d := NewDispatcher(repo, Config{BatchSize: 1, FlushInterval: time.Hour, WorkerCount: 1, QueueSize: 1}, discardLogger())
	ctx := context.Background()

	d.Publish(ctx, "c1", notification.EventAttendanceClockedIn, nil)
	<-repo.entered

	d.Publish(ctx, "c1", notification.EventAttendanceClockedIn, nil)
	d.Publish(ctx, "c1", notification.EventAttendanceClockedOut, nil)

	stored := repo.Events()
	require.Len(t, stored, 1)
	assert.Equal(t, notification.EventAttendanceClockedOut, stored[0].Name)

	close(repo.release)
	d.Stop()
	assert.Len(t, repo.Events(), 3)
}

func TestLogSink_Publish(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	sink.Publish(context.Background(), "c1", notification.EventLeaveHeld, map[string]any{"request_id": "r1"})

	assert.Contains(t, buf.String(), `"event":"leave.held"`)
	assert.Contains(t, buf.String(), `"request_id":"r1"`)
}
