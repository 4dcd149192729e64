package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/assistant"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/repository"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/service"
)

// IncidentHandler serves the cybersecurity dashboard endpoints.
type IncidentHandler struct {
	Svc    *service.IncidentService
	Assist *assistant.Assistant
}

func NewIncidentHandler(svc *service.IncidentService, assist *assistant.Assistant) *IncidentHandler {
	return &IncidentHandler{Svc: svc, Assist: assist}
}

type incidentReq struct {
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	Severity   string     `json:"severity"`
	Status     string     `json:"status"`
	ReportedAt time.Time  `json:"reported_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
}

func (r incidentReq) input() service.IncidentInput {
	return service.IncidentInput{
		Title:      r.Title,
		Category:   r.Category,
		Severity:   r.Severity,
		Status:     r.Status,
		ReportedAt: r.ReportedAt,
		ResolvedAt: r.ResolvedAt,
	}
}

type incidentResp struct {
	ID         uint64     `json:"id"`
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	Severity   string     `json:"severity"`
	Status     string     `json:"status"`
	ReportedAt time.Time  `json:"reported_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func incidentJSON(inc model.SecurityIncident) incidentResp {
	return incidentResp{
		ID:         inc.ID,
		Title:      inc.Title,
		Category:   inc.Category,
		Severity:   inc.Severity,
		Status:     inc.Status,
		ReportedAt: inc.ReportedAt,
		ResolvedAt: inc.ResolvedAt,
	}
}

// Create handles POST /v1/incidents.
func (h *IncidentHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req incidentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	inc, err := h.Svc.Create(ctx, uid, req.input())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, incidentJSON(inc))
}

// List handles GET /v1/incidents with optional category/severity/status
// query filters.
func (h *IncidentHandler) List(c echo.Context) error {
	f := repository.IncidentFilter{
		Category: c.QueryParam("category"),
		Severity: c.QueryParam("severity"),
		Status:   c.QueryParam("status"),
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Svc.List(ctx, f)
	if err != nil {
		return writeServiceError(c, err)
	}
	out := make([]incidentResp, 0, len(items))
	for _, inc := range items {
		out = append(out, incidentJSON(inc))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Update handles PUT /v1/incidents/:id.
func (h *IncidentHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req incidentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	inc, err := h.Svc.Update(ctx, uid, id, req.input())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, incidentJSON(inc))
}

// Delete handles DELETE /v1/incidents/:id.
func (h *IncidentHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.Delete(ctx, uid, id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary handles GET /v1/incidents/summary.  The aggregate always
// comes back; AI commentary is attached only when the assistant is
// configured and reachable.
func (h *IncidentHandler) Summary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sum, err := h.Svc.Summary(ctx)
	if err != nil {
		return writeServiceError(c, err)
	}
	resp := echo.Map{"summary": sum}
	if advice, err := h.Assist.Summarize(c.Request().Context(), "incident", incidentSummaryText(sum)); err == nil {
		resp["advice"] = advice
	}
	return c.JSON(http.StatusOK, resp)
}

// incidentSummaryText renders the aggregate as the plain-text block the
// assistant prompt embeds.
func incidentSummaryText(sum service.IncidentSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d incidents total, %d open.\n", sum.Total, sum.Open)
	for _, row := range sum.BySeverity {
		fmt.Fprintf(&b, "severity %s: %d\n", row.Label, row.Count)
	}
	for _, row := range sum.ByCategory {
		fmt.Fprintf(&b, "category %s: %d\n", row.Label, row.Count)
	}
	return b.String()
}
