package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/service"
)

// AuthHandler exposes the auth manager over HTTP.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"` // admin | standard, defaults to standard
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
type sessionResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func sessionJSON(s service.Session) sessionResp {
	return sessionResp{
		User:    userPart{ID: s.UserID, Username: s.Username, Role: s.Role},
		Access:  tokenPart{Token: s.Access.Token, Expires: s.Access.Exp},
		Refresh: tokenPart{Token: s.Refresh.Raw, Expires: s.Refresh.Exp}, // raw back to client
	}
}

// Register creates a user account.  The raw password passes straight to
// the auth service and is never logged.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Auth.Register(ctx, req.Username, req.Password, req.Role)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, userPart{ID: u.ID, Username: u.Username, Role: u.Role})
}

// Login verifies credentials and opens a session.  Unknown usernames
// and wrong passwords produce the identical response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sess, err := h.Auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sessionJSON(sess))
}

// Refresh rotates a refresh token and returns a fresh session.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sess, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sessionJSON(sess))
}

// Logout revokes the supplied refresh token.  The operation is
// idempotent, so an unknown token still yields 204.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Auth.Logout(ctx, req.RefreshToken); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll revokes every session of the authenticated user (protected).
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Auth.LogoutAll(ctx, uid); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me echoes the authenticated identity from the verified token.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}
