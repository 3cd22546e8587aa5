package domain

import (
	"errors"
	"time"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrModuleNotFound   = errors.New("module not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrResourceNotFound = errors.New("resource not found")
)

// DefaultThumbnailURL is used when a course is created without a cover image.
const DefaultThumbnailURL = "https://cdn.aulahub.io/defaults/course.png"

// ResourceKind classifies a lesson attachment.
type ResourceKind string

const (
	ResourceFile  ResourceKind = "file"
	ResourceLink  ResourceKind = "link"
	ResourceVideo ResourceKind = "video"
)

// Resource is a downloadable or linkable attachment on a lesson.
type Resource struct {
	ID    string       `json:"id" bson:"_id"`
	Label string       `json:"label" bson:"label"`
	URL   string       `json:"url" bson:"url"`
	Kind  ResourceKind `json:"kind" bson:"kind"`
}

// Lesson is a single class inside a module. CompletedBy tracks the
// user ids that finished it.
type Lesson struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	VideoURL    string     `json:"video_url" bson:"video_url"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Order       int        `json:"order" bson:"order"`
	CompletedBy []string   `json:"completed_by" bson:"completed_by"`
	Resources   []Resource `json:"resources" bson:"resources"`
}

// Module is an ordered group of lessons embedded in a course.
type Module struct {
	ID      string   `json:"id" bson:"_id"`
	Title   string   `json:"title" bson:"title"`
	Order   int      `json:"order" bson:"order"`
	Lessons []Lesson `json:"lessons" bson:"lessons"`
}

// Course is the aggregate root for content. Modules, lessons and resources
// are embedded subdocuments with no lifecycle outside the course: every
// nested mutation rewrites the whole document.
type Course struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Thumbnail    string    `json:"thumbnail" bson:"thumbnail"`
	InstructorID string    `json:"instructor_id" bson:"instructor_id"`
	Modules      []Module  `json:"modules" bson:"modules"`
	StudentIDs   []string  `json:"student_ids" bson:"student_ids"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// FindModule returns a pointer into the course's module slice, or
// ErrModuleNotFound.
func (c *Course) FindModule(moduleID string) (*Module, error) {
	for i := range c.Modules {
		if c.Modules[i].ID == moduleID {
			return &c.Modules[i], nil
		}
	}
	return nil, ErrModuleNotFound
}

// FindLesson returns a pointer into a module's lesson slice, or
// ErrLessonNotFound.
func (m *Module) FindLesson(lessonID string) (*Lesson, error) {
	for i := range m.Lessons {
		if m.Lessons[i].ID == lessonID {
			return &m.Lessons[i], nil
		}
	}
	return nil, ErrLessonNotFound
}
