package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

const collectionConversations = "conversations"

type ConversationRepository struct {
	col *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{col: db.Collection(collectionConversations)}
}

func (r *ConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	conv.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, conv); err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}
	return conv, nil
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindDirect matches the non-group conversation whose member set is exactly
// the unordered pair. The $size guard keeps a future group containing both
// members from matching.
func (r *ConversationRepository) FindDirect(ctx context.Context, memberA, memberB string) (*domain.Conversation, error) {
	return r.findOne(ctx, bson.M{
		"is_group":   false,
		"member_ids": bson.M{"$all": bson.A{memberA, memberB}, "$size": 2},
	})
}

func (r *ConversationRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"member_ids": userID},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer cur.Close(ctx)

	var convs []*domain.Conversation
	if err := cur.All(ctx, &convs); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	return convs, nil
}

func (r *ConversationRepository) Replace(ctx context.Context, conv *domain.Conversation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": conv.ID}, conv)
	if err != nil {
		return fmt.Errorf("replace conversation: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func (r *ConversationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

// EnsureIndexes creates member and recency indexes for the sidebar query.
func (r *ConversationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "member_ids", Value: 1}}},
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ConversationRepository) findOne(ctx context.Context, filter bson.M) (*domain.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var conv domain.Conversation
	if err := r.col.FindOne(ctx, filter).Decode(&conv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return &conv, nil
}
