package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	"github.com/google/uuid"
)

// Config holds dispatcher configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

// Dispatcher queues events and writes them to the repository in batches from
// background workers. Publish never blocks the caller on storage.
type Dispatcher struct {
	repo   notification.Repository
	config Config
	logger *slog.Logger
	now    func() time.Time

	queue    chan notification.Event
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewDispatcher(repo notification.Repository, cfg Config, logger *slog.Logger) *Dispatcher {
	// Set defaults
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	d := &Dispatcher{
		repo:   repo,
		config: cfg,
		logger: logger,
		now:    time.Now,
		queue:  make(chan notification.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	logger.Info("notification dispatcher started",
		slog.Int("workers", cfg.WorkerCount),
		slog.Int("batch_size", cfg.BatchSize),
		slog.Duration("flush_interval", cfg.FlushInterval),
	)

	return d
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	batch := make([]notification.Event, 0, d.config.BatchSize)
	ticker := time.NewTicker(d.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := d.repo.CreateBatch(ctx, batch); err != nil {
			d.logger.Warn("notification batch insert failed",
				slog.Int("worker", id),
				slog.Int("events", len(batch)),
				slog.Any("error", err),
			)
		} else {
			d.logger.Debug("notification batch inserted", slog.Int("worker", id), slog.Int("events", len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-d.queue:
			batch = append(batch, ev)
			if len(batch) >= d.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-d.stopCh:
			// drain what is already queued
			for {
				select {
				case ev := <-d.queue:
					batch = append(batch, ev)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Publish implements notification.Sink.
func (d *Dispatcher) Publish(ctx context.Context, companyID string, name notification.EventName, payload map[string]any) {
	ev := notification.Event{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CompanyID: companyID,
		Name:      name,
		Payload:   payload,
		CreatedAt: d.now(),
	}

	select {
	case d.queue <- ev:
	default:
		// Queue full, try direct insert
		if err := d.repo.CreateBatch(context.WithoutCancel(ctx), []notification.Event{ev}); err != nil {
			d.logger.Warn("notification publish failed",
				slog.String("event", string(name)),
				slog.String("company_id", companyID),
				slog.Any("error", err),
			)
		}
	}
}

// Stop flushes queued events and waits for the workers to exit.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopCh)
		d.wg.Wait()
		d.logger.Info("notification dispatcher stopped")
	})
}

var _ notification.Sink = (*Dispatcher)(nil)
