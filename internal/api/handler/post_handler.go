package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aulahub/lms-platform/internal/core/ports"
)

type PostHandler struct {
	postService ports.PostService
}

func NewPostHandler(postService ports.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type addCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

type likeResponse struct {
	LikedBy []string `json:"liked_by"`
}

type commentsResponse struct {
	Comments []ports.CommentView `json:"comments"`
}

// Feed returns all wall posts, newest first.
//
// @Summary      Wall feed
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.PostView
// @Router       /posts [get]
func (h *PostHandler) Feed(c echo.Context) error {
	posts, err := h.postService.Feed(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Create publishes a wall post. Accepts multipart form data with an
// optional image.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        content  formData  string  true   "Post text"
// @Param        image    formData  file    false  "Attached image"
// @Success      201      {object}  ports.PostView
// @Failure      400      {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	content := c.FormValue("content")
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	imagePath, err := formFile(c, "image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}

	post, err := h.postService.Create(c.Request().Context(), ports.CreatePostInput{
		AuthorID:  userID,
		Content:   content,
		ImagePath: imagePath,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, post)
}

// ToggleLike likes the post, or unlikes it if the caller already liked it.
//
// @Summary      Toggle a like
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Post ID"
// @Success      200  {object}  likeResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [put]
func (h *PostHandler) ToggleLike(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	likedBy, err := h.postService.ToggleLike(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, likeResponse{LikedBy: likedBy})
}

// AddComment appends a comment to a post.
//
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post ID"
// @Param        body  body      addCommentRequest  true  "Comment text"
// @Success      201   {object}  commentsResponse
// @Failure      404   {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *PostHandler) AddComment(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comments, err := h.postService.AddComment(c.Request().Context(), c.Param("id"), userID, req.Text)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, commentsResponse{Comments: comments})
}

// Delete removes a post. Permitted for the post author or an admin.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Request().Context(), c.Param("id"), userID, role); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
