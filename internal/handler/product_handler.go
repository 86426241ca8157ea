package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/MohammedReshid1/furniture/internal/middleware"
	"github.com/MohammedReshid1/furniture/internal/usecase"
	"github.com/MohammedReshid1/furniture/internal/validator"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseのエラーをHTTPステータスに変換して返す。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	//ペイロード付きエラー。メッセージ本文をそのまま返す。
	if ise, ok := usecase.AsInsufficientStock(err); ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ise.Error()})
	}
	if ite, ok := usecase.AsInvalidTransition(err); ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ite.Error()})
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidAddress):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, validator.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	case errors.Is(err, usecase.ErrUnauthorized),
		errors.Is(err, usecase.ErrSecurityIncident),
		errors.Is(err, validator.ErrInvalidRefresh):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, usecase.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, usecase.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, usecase.ErrConflict),
		errors.Is(err, validator.ErrEmailAlreadyUsed):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict"})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// AuthJWTが入れたuser_idを取り出す。
func getUserIDFromContext(c echo.Context) (int64, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	userID, ok := raw.(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// AuthJWTが入れたroleがADMINかどうか。
func isAdminFromContext(c echo.Context) bool {
	raw := c.Get(middleware.CtxUserRoleKey)
	role, ok := raw.(string)
	return ok && role == "ADMIN"
}

// /api/products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品・カテゴリのルートを登録
func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.list)
	g.GET("/products/:id", h.detail)
	g.GET("/products/slug/:slug", h.detailBySlug)
	g.GET("/categories", h.listCategories)
}

func (h *ProductHandler) list(c echo.Context) error {
	// skip（default 0）
	skip := 0
	if v := c.QueryParam("skip"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid skip"})
		}
		skip = s
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	var minPrice *int64
	if v := c.QueryParam("min_price"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price"})
		}
		minPrice = &x
	}

	var maxPrice *int64
	if v := c.QueryParam("max_price"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
		}
		maxPrice = &x
	}

	out, err := h.uc.ListPublicProducts(c.Request().Context(), usecase.ListProductsInput{
		Skip:      skip,
		Limit:     limit,
		Search:    c.QueryParam("search"),
		Category:  c.QueryParam("category"),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	p, err := h.uc.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) detailBySlug(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid slug"})
	}

	p, err := h.uc.GetProductBySlug(c.Request().Context(), slug)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) listCategories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
