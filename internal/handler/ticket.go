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

// TicketHandler serves the IT operations dashboard endpoints.
type TicketHandler struct {
	Svc    *service.TicketService
	Assist *assistant.Assistant
}

func NewTicketHandler(svc *service.TicketService, assist *assistant.Assistant) *TicketHandler {
	return &TicketHandler{Svc: svc, Assist: assist}
}

type ticketReq struct {
	Title      string     `json:"title"`
	Priority   string     `json:"priority"`
	Status     string     `json:"status"`
	Assignee   string     `json:"assignee"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
}

func (r ticketReq) input() service.TicketInput {
	return service.TicketInput{
		Title:      r.Title,
		Priority:   r.Priority,
		Status:     r.Status,
		Assignee:   r.Assignee,
		CreatedAt:  r.CreatedAt,
		ResolvedAt: r.ResolvedAt,
	}
}

type ticketResp struct {
	ID         uint64     `json:"id"`
	Title      string     `json:"title"`
	Priority   string     `json:"priority"`
	Status     string     `json:"status"`
	Assignee   string     `json:"assignee"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	// Seconds from creation to resolution; absent while unresolved.
	ResolutionSeconds *float64 `json:"resolution_seconds,omitempty"`
}

func ticketJSON(t model.ITTicket) ticketResp {
	resp := ticketResp{
		ID:         t.ID,
		Title:      t.Title,
		Priority:   t.Priority,
		Status:     t.Status,
		Assignee:   t.Assignee,
		CreatedAt:  t.CreatedAt,
		ResolvedAt: t.ResolvedAt,
	}
	if d, ok := t.ResolutionDuration(); ok {
		secs := d.Seconds()
		resp.ResolutionSeconds = &secs
	}
	return resp
}

// Create handles POST /v1/tickets.
func (h *TicketHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Svc.Create(ctx, uid, req.input())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, ticketJSON(t))
}

// List handles GET /v1/tickets with optional status/priority/assignee
// query filters.
func (h *TicketHandler) List(c echo.Context) error {
	f := repository.TicketFilter{
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Assignee: c.QueryParam("assignee"),
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Svc.List(ctx, f)
	if err != nil {
		return writeServiceError(c, err)
	}
	out := make([]ticketResp, 0, len(items))
	for _, t := range items {
		out = append(out, ticketJSON(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Update handles PUT /v1/tickets/:id.
func (h *TicketHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Svc.Update(ctx, uid, id, req.input())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ticketJSON(t))
}

// Delete handles DELETE /v1/tickets/:id.
func (h *TicketHandler) Delete(c echo.Context) error {
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

// Summary handles GET /v1/tickets/summary.
func (h *TicketHandler) Summary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sum, err := h.Svc.Summary(ctx)
	if err != nil {
		return writeServiceError(c, err)
	}
	resp := echo.Map{"summary": sum}
	if advice, err := h.Assist.Summarize(c.Request().Context(), "ticket", ticketSummaryText(sum)); err == nil {
		resp["advice"] = advice
	}
	return c.JSON(http.StatusOK, resp)
}

func ticketSummaryText(sum service.TicketSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d tickets total.\n", sum.Total)
	for _, row := range sum.ByStatus {
		fmt.Fprintf(&b, "status %s: %d\n", row.Label, row.Count)
	}
	for _, row := range sum.ByPriority {
		fmt.Fprintf(&b, "priority %s: %d\n", row.Label, row.Count)
	}
	if sum.HasResolved {
		fmt.Fprintf(&b, "average resolution time %s.\n", sum.AvgResolution)
		if sum.Fastest != nil {
			fmt.Fprintf(&b, "fastest resolver %s (%s avg).\n", sum.Fastest.Assignee, sum.Fastest.AvgResolution)
		}
		if sum.Slowest != nil {
			fmt.Fprintf(&b, "slowest resolver %s (%s avg).\n", sum.Slowest.Assignee, sum.Slowest.AvgResolution)
		}
	} else {
		b.WriteString("no resolved tickets yet.\n")
	}
	return b.String()
}
