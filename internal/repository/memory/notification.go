package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
)

type NotificationRepository struct {
	mu     sync.RWMutex
	events []notification.Event
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// CreateBatch implements notification.Repository.
func (r *NotificationRepository) CreateBatch(_ context.Context, events []notification.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, events...)
	return nil
}

// Events returns everything stored so far, oldest first.
func (r *NotificationRepository) Events() []notification.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.events)
}

var _ notification.Repository = (*NotificationRepository)(nil)
