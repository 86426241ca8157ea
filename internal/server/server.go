package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/MohammedReshid1/furniture/internal/config"
	"github.com/MohammedReshid1/furniture/internal/handler"
	"github.com/MohammedReshid1/furniture/internal/middleware"
	"github.com/MohammedReshid1/furniture/internal/repository"
)

// Handlersは全HTTPハンドラの束。
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Review       *handler.ReviewHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	AdminOrder   *handler.AdminOrderHandler
}

// Newはechoを組み立てて全ルートを登録する。
func New(cfg config.Config, logger zerolog.Logger, h Handlers, userRepo repository.UserRepository) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Auth.RegisterRoutes(api)
	h.User.RegisterRoutes(api, cfg, userRepo)
	h.Product.RegisterRoutes(api)
	h.AdminProduct.RegisterRoutes(api, cfg, userRepo)
	h.Review.RegisterRoutes(api, cfg, userRepo)
	h.Cart.RegisterRoutes(api, cfg, userRepo)
	h.Order.RegisterRoutes(api, cfg, userRepo)
	h.AdminOrder.RegisterRoutes(api, cfg, userRepo)

	return e
}
