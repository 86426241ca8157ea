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

// 管理者向けの商品・カテゴリ操作
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

type AdminProductRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	SalePrice   *int64  `json:"sale_price"`
	Stock       int64   `json:"stock"`
	IsActive    bool    `json:"is_active"`
	CategoryIDs []int64 `json:"category_ids"`
}

type AdminCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (h *AdminProductHandler) RegisterRoutes(api *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	g := api.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.Use(middleware.AdminRoleGuard())

	g.POST("/products", h.createProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deactivateProduct)
	g.POST("/categories", h.createCategory)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AdminProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdminCreateProduct(c.Request().Context(), adminID, toAdminProductInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdminUpdateProduct(c.Request().Context(), adminID, id, toAdminProductInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deactivateProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.AdminDeactivateProduct(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) createCategory(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AdminCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdminCreateCategory(c.Request().Context(), adminID, usecase.AdminCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func toAdminProductInput(req AdminProductRequest) usecase.AdminProductInput {
	return usecase.AdminProductInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
		CategoryIDs: req.CategoryIDs,
	}
}
