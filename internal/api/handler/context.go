package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: user_id must be
// non-empty (presence proves the middleware ran).
func ctxClaims(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	rawRole, _ := c.Get("role").(string)
	return userID, domain.Role(rawRole), nil
}

// formFile saves an optional multipart upload under the given field to a
// temp file and returns its path. An absent field returns "" without error.
func formFile(c echo.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == echo.ErrNotFound {
			return "", nil
		}
		// Echo reports an absent field as a generic bad request error.
		return "", nil
	}
	return saveUpload(fh)
}
