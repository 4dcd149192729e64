package handler // HTTP handlers: DTO binding, service calls, error mapping

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/repository"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/service"
)

// dbTimeout bounds every database call made on behalf of a request.
const dbTimeout = 5 * time.Second

// getUserID extracts the authenticated user id stored in context by the
// JWT middleware.  JWT numeric claims decode as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), nil
	case uint64:
		return v, nil
	case string:
		return strconv.ParseUint(v, 10, 64)
	}
	return 0, echo.ErrUnauthorized
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// writeServiceError maps the service/repository error taxonomy onto
// HTTP responses.  Storage failures are reported as 500 and never
// retried here.
func writeServiceError(c echo.Context, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrUsernameExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	case errors.Is(err, repository.ErrConstraint):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
	}
}
