package mongodb

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/mongodb"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type notificationRepository struct {
	events *mongo.Collection
}

func NewNotificationRepository(ctx context.Context, db *mongodb.MongoDB) (notification.Repository, error) {
	events := db.Collection("notification_events")

	if _, err := events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return nil, fmt.Errorf("create notification indexes: %w", err)
	}

	return &notificationRepository{events: events}, nil
}

// CreateBatch implements notification.Repository. The insert is unordered so
// one bad document does not drop the rest of the batch.
func (r *notificationRepository) CreateBatch(ctx context.Context, events []notification.Event) error {
	if len(events) == 0 {
		return nil
	}

	docs := make([]any, 0, len(events))
	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		docs = append(docs, e)
	}

	if _, err := r.events.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("insert notification events: %w", err)
	}
	return nil
}
