package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/MohammedReshid1/furniture/internal/config"
	"github.com/MohammedReshid1/furniture/internal/middleware"
	"github.com/MohammedReshid1/furniture/internal/repository"
	"github.com/MohammedReshid1/furniture/internal/usecase"
)

// 管理者向けの注文操作
type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(api *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	g := api.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.Use(middleware.AdminRoleGuard())

	g.GET("/admin/all", h.listAll)
	g.PUT("/:id/status", h.updateStatus)
}

func (h *AdminOrderHandler) listAll(c echo.Context) error {
	skip := 0
	if v := c.QueryParam("skip"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid skip"})
		}
		skip = s
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.ListAll(c.Request().Context(), skip, limit, c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), adminID, id, usecase.AdminUpdateOrderStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
