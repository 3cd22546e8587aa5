package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	user.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByInvitationToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"invitation_token": token})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	if tokenHash == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{
		"reset_password_token":  tokenHash,
		"reset_password_expire": bson.M{"$gt": now},
	})
}

func (r *UserRepository) FindByCustomerID(ctx context.Context, customerID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"subscription.customer_id": customerID})
}

// searchFilter matches username or email case-insensitively. The search
// term is a literal substring, so regex metacharacters are escaped before
// it reaches $regex.
func searchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	quoted := regexp.QuoteMeta(search)
	return bson.M{"$or": bson.A{
		bson.M{"username": bson.M{"$regex": quoted, "$options": "i"}},
		bson.M{"email": bson.M{"$regex": quoted, "$options": "i"}},
	}}
}

func (r *UserRepository) List(ctx context.Context, search string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := searchFilter(search)

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index plus token lookups.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "invitation_token", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "reset_password_token", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "subscription.customer_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var user domain.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
