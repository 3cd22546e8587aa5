package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

type CourseHandler struct {
	courseService ports.CourseService
}

func NewCourseHandler(courseService ports.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

type addModuleRequest struct {
	Title string `json:"title" validate:"required"`
}

type addLessonRequest struct {
	Title       string `json:"title" validate:"required"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	Description string `json:"description"`
}

type addResourceRequest struct {
	Label string `json:"label" validate:"required"`
	URL   string `json:"url" validate:"required"`
	Kind  string `json:"kind" validate:"required,oneof=file link video"`
}

// Create registers a new course. Accepts multipart form data with an
// optional thumbnail image. Admin only.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Course title"
// @Param        description  formData  string  false  "Course description"
// @Param        thumbnail    formData  file    false  "Cover image"
// @Success      201          {object}  domain.Course
// @Failure      400          {object}  map[string]string
// @Router       /courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	title := c.FormValue("title")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	thumbnailPath, err := formFile(c, "thumbnail")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid thumbnail upload")
	}

	course, err := h.courseService.Create(c.Request().Context(), ports.CreateCourseInput{
		Title:         title,
		Description:   c.FormValue("description"),
		ThumbnailPath: thumbnailPath,
		InstructorID:  userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, course)
}

// List returns all courses.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Course
// @Router       /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.courseService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

// Get returns a single course with its full module tree.
//
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Course ID"
// @Success      200  {object}  domain.Course
// @Failure      404  {object}  map[string]string
// @Router       /courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	course, err := h.courseService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// Update edits course metadata. Accepts multipart form data; empty fields
// are left unchanged. Admin only.
//
// @Summary      Update a course
// @Tags         courses
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Course ID"
// @Param        title        formData  string  false  "New title"
// @Param        description  formData  string  false  "New description"
// @Param        thumbnail    formData  file    false  "New cover image"
// @Success      200          {object}  domain.Course
// @Failure      404          {object}  map[string]string
// @Router       /courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	thumbnailPath, err := formFile(c, "thumbnail")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid thumbnail upload")
	}

	course, err := h.courseService.Update(c.Request().Context(), ports.UpdateCourseInput{
		CourseID:      c.Param("id"),
		Title:         c.FormValue("title"),
		Description:   c.FormValue("description"),
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, course)
}

// Delete removes a course. Admin only.
//
// @Summary      Delete a course
// @Tags         courses
// @Security     BearerAuth
// @Param        id  path  string  true  "Course ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	if err := h.courseService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddModule appends an empty module to a course. Admin only.
//
// @Summary      Add a module
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Course ID"
// @Param        body  body      addModuleRequest  true  "Module details"
// @Success      201   {object}  domain.Course
// @Failure      404   {object}  map[string]string
// @Router       /courses/{id}/modules [post]
func (h *CourseHandler) AddModule(c echo.Context) error {
	var req addModuleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.courseService.AddModule(c.Request().Context(), c.Param("id"), req.Title)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, course)
}

// DeleteModule removes a module and everything nested under it. Admin only.
//
// @Summary      Delete a module
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true  "Course ID"
// @Param        moduleId  path      string  true  "Module ID"
// @Success      200       {object}  domain.Course
// @Failure      404       {object}  map[string]string
// @Router       /courses/{id}/modules/{moduleId} [delete]
func (h *CourseHandler) DeleteModule(c echo.Context) error {
	course, err := h.courseService.DeleteModule(c.Request().Context(), c.Param("id"), c.Param("moduleId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// AddLesson appends a lesson to a module. Admin only.
//
// @Summary      Add a lesson
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string            true  "Course ID"
// @Param        moduleId  path      string            true  "Module ID"
// @Param        body      body      addLessonRequest  true  "Lesson details"
// @Success      201       {object}  domain.Course
// @Failure      404       {object}  map[string]string
// @Router       /courses/{id}/modules/{moduleId}/lessons [post]
func (h *CourseHandler) AddLesson(c echo.Context) error {
	var req addLessonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.courseService.AddLesson(c.Request().Context(), ports.AddLessonInput{
		CourseID:    c.Param("id"),
		ModuleID:    c.Param("moduleId"),
		Title:       req.Title,
		VideoURL:    req.VideoURL,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, course)
}

// DeleteLesson removes a lesson from a module. Admin only.
//
// @Summary      Delete a lesson
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true  "Course ID"
// @Param        moduleId  path      string  true  "Module ID"
// @Param        lessonId  path      string  true  "Lesson ID"
// @Success      200       {object}  domain.Course
// @Failure      404       {object}  map[string]string
// @Router       /courses/{id}/modules/{moduleId}/lessons/{lessonId} [delete]
func (h *CourseHandler) DeleteLesson(c echo.Context) error {
	course, err := h.courseService.DeleteLesson(c.Request().Context(),
		c.Param("id"), c.Param("moduleId"), c.Param("lessonId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// AddResource attaches a resource to a lesson. Admin only.
//
// @Summary      Add a lesson resource
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string              true  "Course ID"
// @Param        moduleId  path      string              true  "Module ID"
// @Param        lessonId  path      string              true  "Lesson ID"
// @Param        body      body      addResourceRequest  true  "Resource details"
// @Success      201       {object}  domain.Course
// @Failure      404       {object}  map[string]string
// @Router       /courses/{id}/modules/{moduleId}/lessons/{lessonId}/resources [post]
func (h *CourseHandler) AddResource(c echo.Context) error {
	var req addResourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.courseService.AddResource(c.Request().Context(), ports.AddResourceInput{
		CourseID: c.Param("id"),
		ModuleID: c.Param("moduleId"),
		LessonID: c.Param("lessonId"),
		Label:    req.Label,
		URL:      req.URL,
		Kind:     domain.ResourceKind(req.Kind),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, course)
}

// DeleteResource detaches a resource from a lesson. Admin only.
//
// @Summary      Delete a lesson resource
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string  true  "Course ID"
// @Param        moduleId    path      string  true  "Module ID"
// @Param        lessonId    path      string  true  "Lesson ID"
// @Param        resourceId  path      string  true  "Resource ID"
// @Success      200         {object}  domain.Course
// @Failure      404         {object}  map[string]string
// @Router       /courses/{id}/modules/{moduleId}/lessons/{lessonId}/resources/{resourceId} [delete]
func (h *CourseHandler) DeleteResource(c echo.Context) error {
	course, err := h.courseService.DeleteResource(c.Request().Context(),
		c.Param("id"), c.Param("moduleId"), c.Param("lessonId"), c.Param("resourceId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}
