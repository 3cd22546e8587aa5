package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

// CourseService implements course CRUD and the nested module/lesson/resource
// mutations. Every nested mutation loads the full course document, edits the
// embedded tree in memory and replaces the document atomically; concurrent
// edits to the same course are last-writer-wins at the document level.
type CourseService struct {
	courses ports.CourseRepository
	files   ports.FileStore
	logger  zerolog.Logger
}

func NewCourseService(courses ports.CourseRepository, files ports.FileStore, logger zerolog.Logger) *CourseService {
	return &CourseService{courses: courses, files: files, logger: logger}
}

func (s *CourseService) Create(ctx context.Context, input ports.CreateCourseInput) (*domain.Course, error) {
	thumbnail := domain.DefaultThumbnailURL
	if input.ThumbnailPath != "" {
		url, err := s.files.Upload(ctx, input.ThumbnailPath, "lms_courses")
		if err != nil {
			return nil, fmt.Errorf("upload thumbnail: %w", err)
		}
		thumbnail = url
	}

	now := time.Now().UTC()
	course := &domain.Course{
		Title:        input.Title,
		Description:  input.Description,
		Thumbnail:    thumbnail,
		InstructorID: input.InstructorID,
		Modules:      []domain.Module{},
		StudentIDs:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.courses.Create(ctx, course)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("course_id", created.ID).Str("instructor_id", input.InstructorID).Msg("course created")
	return created, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	return s.courses.FindByID(ctx, id)
}

func (s *CourseService) List(ctx context.Context) ([]*domain.Course, error) {
	return s.courses.List(ctx)
}

func (s *CourseService) Update(ctx context.Context, input ports.UpdateCourseInput) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.ThumbnailPath != "" {
		url, err := s.files.Upload(ctx, input.ThumbnailPath, "lms_courses")
		if err != nil {
			return nil, fmt.Errorf("upload thumbnail: %w", err)
		}
		course.Thumbnail = url
	}
	course.UpdatedAt = time.Now().UTC()

	if err := s.courses.Replace(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.courses.FindByID(ctx, id); err != nil {
		return err
	}
	return s.courses.Delete(ctx, id)
}

func (s *CourseService) AddModule(ctx context.Context, courseID, title string) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	course.Modules = append(course.Modules, domain.Module{
		ID:      uuid.NewString(),
		Title:   title,
		Order:   len(course.Modules),
		Lessons: []domain.Lesson{},
	})

	return s.persist(ctx, course)
}

func (s *CourseService) DeleteModule(ctx context.Context, courseID, moduleID string) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range course.Modules {
		if course.Modules[i].ID == moduleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrModuleNotFound
	}
	// Embedded lessons and resources go with the module.
	course.Modules = append(course.Modules[:idx], course.Modules[idx+1:]...)

	return s.persist(ctx, course)
}

func (s *CourseService) AddLesson(ctx context.Context, input ports.AddLessonInput) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}

	module, err := course.FindModule(input.ModuleID)
	if err != nil {
		return nil, err
	}

	module.Lessons = append(module.Lessons, domain.Lesson{
		ID:          uuid.NewString(),
		Title:       input.Title,
		VideoURL:    input.VideoURL,
		Description: input.Description,
		Order:       len(module.Lessons),
		CompletedBy: []string{},
		Resources:   []domain.Resource{},
	})

	return s.persist(ctx, course)
}

func (s *CourseService) DeleteLesson(ctx context.Context, courseID, moduleID, lessonID string) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	module, err := course.FindModule(moduleID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range module.Lessons {
		if module.Lessons[i].ID == lessonID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrLessonNotFound
	}
	module.Lessons = append(module.Lessons[:idx], module.Lessons[idx+1:]...)

	return s.persist(ctx, course)
}

func (s *CourseService) AddResource(ctx context.Context, input ports.AddResourceInput) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}

	module, err := course.FindModule(input.ModuleID)
	if err != nil {
		return nil, err
	}
	lesson, err := module.FindLesson(input.LessonID)
	if err != nil {
		return nil, err
	}

	kind := input.Kind
	if kind == "" {
		kind = domain.ResourceFile
	}
	lesson.Resources = append(lesson.Resources, domain.Resource{
		ID:    uuid.NewString(),
		Label: input.Label,
		URL:   input.URL,
		Kind:  kind,
	})

	return s.persist(ctx, course)
}

func (s *CourseService) DeleteResource(ctx context.Context, courseID, moduleID, lessonID, resourceID string) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	module, err := course.FindModule(moduleID)
	if err != nil {
		return nil, err
	}
	lesson, err := module.FindLesson(lessonID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range lesson.Resources {
		if lesson.Resources[i].ID == resourceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrResourceNotFound
	}
	lesson.Resources = append(lesson.Resources[:idx], lesson.Resources[idx+1:]...)

	return s.persist(ctx, course)
}

func (s *CourseService) persist(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	course.UpdatedAt = time.Now().UTC()
	if err := s.courses.Replace(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}
