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
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/service"
)

// DatasetHandler serves the dataset-catalogue dashboard endpoints.
type DatasetHandler struct {
	Svc    *service.DatasetService
	Assist *assistant.Assistant
}

func NewDatasetHandler(svc *service.DatasetService, assist *assistant.Assistant) *DatasetHandler {
	return &DatasetHandler{Svc: svc, Assist: assist}
}

type datasetReq struct {
	Name        string `json:"name"`
	RowCount    int64  `json:"row_count"`
	ColumnCount int64  `json:"column_count"`
	Uploader    string `json:"uploader"`
}

func (r datasetReq) input() service.DatasetInput {
	return service.DatasetInput{
		Name:        r.Name,
		RowCount:    r.RowCount,
		ColumnCount: r.ColumnCount,
		Uploader:    r.Uploader,
	}
}

type datasetResp struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	RowCount    int64     `json:"row_count"`
	ColumnCount int64     `json:"column_count"`
	Uploader    string    `json:"uploader"`
	CreatedAt   time.Time `json:"created_at"`
}

func datasetJSON(ds model.DatasetMetadata) datasetResp {
	return datasetResp{
		ID:          ds.ID,
		Name:        ds.Name,
		RowCount:    ds.RowCount,
		ColumnCount: ds.ColumnCount,
		Uploader:    ds.Uploader,
		CreatedAt:   ds.CreatedAt,
	}
}

// Create handles POST /v1/datasets.
func (h *DatasetHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req datasetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ds, err := h.Svc.Create(ctx, uid, req.input())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, datasetJSON(ds))
}

// List handles GET /v1/datasets with an optional uploader filter.
func (h *DatasetHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Svc.List(ctx, c.QueryParam("uploader"))
	if err != nil {
		return writeServiceError(c, err)
	}
	out := make([]datasetResp, 0, len(items))
	for _, ds := range items {
		out = append(out, datasetJSON(ds))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Update handles PUT /v1/datasets/:id.
func (h *DatasetHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req datasetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ds, err := h.Svc.Update(ctx, uid, id, req.input())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, datasetJSON(ds))
}

// Delete handles DELETE /v1/datasets/:id.
func (h *DatasetHandler) Delete(c echo.Context) error {
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

// Summary handles GET /v1/datasets/summary.
func (h *DatasetHandler) Summary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sum, err := h.Svc.Summary(ctx)
	if err != nil {
		return writeServiceError(c, err)
	}
	resp := echo.Map{"summary": sum}
	if advice, err := h.Assist.Summarize(c.Request().Context(), "dataset", datasetSummaryText(sum)); err == nil {
		resp["advice"] = advice
	}
	return c.JSON(http.StatusOK, resp)
}

func datasetSummaryText(sum service.DatasetSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d datasets, %d rows total, %.1f rows on average.\n", sum.Total, sum.TotalRows, sum.AvgRows)
	for _, row := range sum.ByUploader {
		fmt.Fprintf(&b, "uploader %s: %d datasets, %d rows\n", row.Uploader, row.DatasetCount, row.TotalRows)
	}
	return b.String()
}
