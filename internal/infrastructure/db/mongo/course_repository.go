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

const collectionCourses = "courses"

// CourseRepository stores each course as a single document embedding its
// whole module/lesson/resource tree. Replace rewrites the full document,
// which is what gives nested mutations their single-write atomicity.
type CourseRepository struct {
	col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{col: db.Collection(collectionCourses)}
}

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	course.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, course); err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}
	return course, nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var course domain.Course
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

func (r *CourseRepository) List(ctx context.Context) ([]*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer cur.Close(ctx)

	var courses []*domain.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}

func (r *CourseRepository) Replace(ctx context.Context, course *domain.Course) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": course.ID}, course)
	if err != nil {
		return fmt.Errorf("replace course: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

// EnsureIndexes creates the instructor lookup index.
func (r *CourseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "instructor_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
