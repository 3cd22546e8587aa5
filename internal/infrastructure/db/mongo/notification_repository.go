package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

const collectionNotifications = "notifications"

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, n); err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, bson.M{"recipient_id": recipientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cur.Close(ctx)

	var list []*domain.Notification
	if err := cur.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return list, nil
}

// MarkRead updates one notification (id non-empty) or all of the
// recipient's. Matching zero documents is still success: marking an
// already-read set again is a no-op.
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"recipient_id": recipientID}
	if id != "" {
		filter["_id"] = id
	}

	_, err := r.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// EnsureIndexes creates the per-recipient recency index backing ListByRecipient.
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
