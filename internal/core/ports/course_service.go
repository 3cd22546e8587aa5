package ports

import (
	"context"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

// CreateCourseInput carries a new course. ThumbnailPath is the local temp
// file of an optional uploaded cover image.
type CreateCourseInput struct {
	Title         string
	Description   string
	ThumbnailPath string
	InstructorID  string
}

// UpdateCourseInput edits course metadata; empty fields are left unchanged.
type UpdateCourseInput struct {
	CourseID      string
	Title         string
	Description   string
	ThumbnailPath string
}

// AddLessonInput appends a lesson to a module.
type AddLessonInput struct {
	CourseID    string
	ModuleID    string
	Title       string
	VideoURL    string
	Description string
}

// AddResourceInput appends a resource to a lesson.
type AddResourceInput struct {
	CourseID string
	ModuleID string
	LessonID string
	Label    string
	URL      string
	Kind     domain.ResourceKind
}

// CourseService defines course content use cases. Every nested mutation
// returns the full updated course document.
type CourseService interface {
	Create(ctx context.Context, input CreateCourseInput) (*domain.Course, error)
	Get(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Update(ctx context.Context, input UpdateCourseInput) (*domain.Course, error)
	Delete(ctx context.Context, id string) error

	AddModule(ctx context.Context, courseID, title string) (*domain.Course, error)
	DeleteModule(ctx context.Context, courseID, moduleID string) (*domain.Course, error)
	AddLesson(ctx context.Context, input AddLessonInput) (*domain.Course, error)
	DeleteLesson(ctx context.Context, courseID, moduleID, lessonID string) (*domain.Course, error)
	AddResource(ctx context.Context, input AddResourceInput) (*domain.Course, error)
	DeleteResource(ctx context.Context, courseID, moduleID, lessonID, resourceID string) (*domain.Course, error)
}
