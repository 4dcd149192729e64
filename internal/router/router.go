package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/handler"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/middleware"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
)

// Handlers collects everything the route table needs.  main builds one
// of these after wiring repositories and services.
type Handlers struct {
	Auth     *handler.AuthHandler
	Incident *handler.IncidentHandler
	Dataset  *handler.DatasetHandler
	Ticket   *handler.TicketHandler
}

// RegisterRoutes registers unauthenticated routes: the health probe and
// the auth endpoints under /v1/auth.
func RegisterRoutes(e *echo.Echo, db *sql.DB, h Handlers) {
	e.GET("/healthz", handler.Health(db))

	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	// Logout takes the refresh token in the body, so no access token is
	// required to call it.
	g.POST("/logout", h.Auth.Logout)
}

// RegisterProtected registers everything behind JWT authentication.
// All three dashboards accept both roles; destructive deletes are
// restricted to admins.
func RegisterProtected(e *echo.Echo, jwtSecret string, h Handlers) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStandard))

	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout-all", h.Auth.LogoutAll)

	adminOnly := middleware.RequireRole(model.RoleAdmin)

	inc := auth.Group("/incidents")
	inc.GET("", h.Incident.List)
	inc.POST("", h.Incident.Create)
	inc.GET("/summary", h.Incident.Summary)
	inc.PUT("/:id", h.Incident.Update)
	inc.DELETE("/:id", h.Incident.Delete, adminOnly)

	ds := auth.Group("/datasets")
	ds.GET("", h.Dataset.List)
	ds.POST("", h.Dataset.Create)
	ds.GET("/summary", h.Dataset.Summary)
	ds.PUT("/:id", h.Dataset.Update)
	ds.DELETE("/:id", h.Dataset.Delete, adminOnly)

	tk := auth.Group("/tickets")
	tk.GET("", h.Ticket.List)
	tk.POST("", h.Ticket.Create)
	tk.GET("/summary", h.Ticket.Summary)
	tk.PUT("/:id", h.Ticket.Update)
	tk.DELETE("/:id", h.Ticket.Delete, adminOnly)
}
