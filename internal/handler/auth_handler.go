package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MohammedReshid1/furniture/internal/config"
	"github.com/MohammedReshid1/furniture/internal/usecase"
)

// /api/authのHTTP
type AuthHandler struct {
	uc           *usecase.AuthUsecase
	refreshTTL   time.Duration // refresh/csrf cookieの有効期限
	cookieSecure bool
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		uc:           uc,
		refreshTTL:   30 * 24 * time.Hour,
		cookieSecure: cfg.GoEnv == "prod",
	}
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/auth")

	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/refresh", h.refresh)
	g.POST("/logout", h.logout)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	// User-Agentはrefreshtokenに紐付ける
	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Login(c.Request().Context(), req, userAgent)
	if err != nil {
		return writeError(c, err)
	}

	h.setRefreshCookie(c, out.RefreshTokenPlain)
	h.setCsrfCookie(c, out.CsrfTokenPlain)

	return c.JSON(http.StatusOK, out.Body)
}

func (h *AuthHandler) refresh(c echo.Context) error {
	cookie, err := c.Cookie("refresh")
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Refresh(c.Request().Context(), cookie.Value, userAgent)
	if err != nil {
		h.clearRefreshCookie(c)
		return writeError(c, err)
	}

	h.setRefreshCookie(c, out.RefreshTokenPlain)
	h.setCsrfCookie(c, out.CsrfTokenPlain)

	return c.JSON(http.StatusOK, out.Body)
}

func (h *AuthHandler) logout(c echo.Context) error {
	cookie, err := c.Cookie("refresh")
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Logout(c.Request().Context(), cookie.Value)
	if err != nil {
		return writeError(c, err)
	}

	h.clearRefreshCookie(c)

	return c.JSON(http.StatusOK, out)
}

// refreshtokenをCookieにセット。
func (h *AuthHandler) setRefreshCookie(c echo.Context, plainRefresh string) {
	c.SetCookie(&http.Cookie{
		Name:     "refresh",
		Value:    plainRefresh,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.refreshTTL),
	})
}

// csrftokenをCookieにセット
func (h *AuthHandler) setCsrfCookie(c echo.Context, csrfToken string) {
	c.SetCookie(&http.Cookie{
		Name:     "csrf_token",
		Value:    csrfToken,
		Path:     "/",
		HttpOnly: false,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.refreshTTL),
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     "refresh",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
