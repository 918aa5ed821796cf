package reports

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/uphomesco-hub/mvptypist-sub001/internal/platform/auth"
	"github.com/uphomesco-hub/mvptypist-sub001/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleRadiologist, auth.RoleTranscriptionist))
	read.GET("/reports", h.ListReports)
	read.GET("/reports/:id", h.GetReport)

	write := api.Group("", auth.RequireRole(auth.RoleRadiologist, auth.RoleTranscriptionist))
	write.POST("/reports", h.CreateReport)
	write.PUT("/reports/:id", h.UpdateReport)
	write.POST("/reports/render", h.Render)

	sign := api.Group("", auth.RequireRole(auth.RoleRadiologist))
	sign.POST("/reports/:id/finalize", h.Finalize)
	sign.POST("/reports/:id/amend", h.Amend)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.DELETE("/reports/:id", h.DeleteReport)
}

// Render runs a render pass without saving anything. It backs the live
// preview in the editor.
func (h *Handler) Render(c echo.Context) error {
	var req RenderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.Render(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateReport(c echo.Context) error {
	var req RenderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rep, err := h.svc.CreateReport(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rep)
}

func (h *Handler) GetReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rep, err := h.svc.GetReport(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) ListReports(c echo.Context) error {
	status := c.QueryParam("status")
	switch status {
	case "", StatusDraft, StatusFinalized, StatusAmended:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListReports(c.Request().Context(), status, c.QueryParam("patient"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req RenderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rep, err := h.svc.UpdateReport(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotEditable) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) Finalize(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rep, err := h.svc.Finalize(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrAlreadyFinal) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) Amend(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rep, err := h.svc.Amend(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFinalized) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) DeleteReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteReport(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotDraft) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	return c.NoContent(http.StatusNoContent)
}
