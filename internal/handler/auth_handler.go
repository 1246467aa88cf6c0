package handler

import (
	"fmt"
	"net/url"
	"strings"

	"pos-backoffice/internal/form"
	"pos-backoffice/internal/middleware"
	"pos-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	MsgLoggedOut = "You have been logged out successfully."
)

type AuthHandler struct {
	authService service.AuthService
	cookie      middleware.CookieOptions
}

func NewAuthHandler(authService service.AuthService, cookie middleware.CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// safeNext returns next when it is a path on this site, otherwise the
// dashboard. Control characters anywhere in next are refused.
func safeNext(next string) string {
	if next == "" || strings.ContainsAny(next, "\\") {
		return middleware.DashboardPath
	}
	for _, r := range next {
		if r < 0x20 || r == 0x7f {
			return middleware.DashboardPath
		}
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return middleware.DashboardPath
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return middleware.DashboardPath
	}
	return next
}

// Landing
// GET /
func (h *AuthHandler) Landing(c *fiber.Ctx) error {
	data := fiber.Map{"authenticated": false}
	if user := middleware.CurrentUser(c); user != nil {
		data["authenticated"] = true
		data["user"] = user.ToResponse()
	}
	return render(c, "landing", data)
}

// LoginPage shows the empty login form
// GET /login/
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{
		"form": form.LoginForm{},
		"next": c.Query("next"),
	})
}

// Login handles user authentication
// POST /login/
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	values, err := bindValues(c)
	if err != nil {
		return err
	}
	next := values.Get("next")
	if next == "" {
		next = c.Query("next")
	}

	f := form.BindLogin(values)
	user, err := f.Clean(h.authService)
	if err != nil {
		if errs, ok := formErrors(err); ok {
			return renderInvalid(c, "login", errs, fiber.Map{"form": f, "next": next})
		}
		return err
	}

	token, err := h.authService.Login(user)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, token, h.cookie)

	zap.S().Infow("user logged in", "user", user.Username, "ip", c.IP())
	return redirect(c, safeNext(next), LevelSuccess, fmt.Sprintf("Welcome back, %s!", user.FullName()))
}

// Logout always clears the session, even for an already expired one
// POST /logout/
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if user := middleware.CurrentUser(c); user != nil {
		if err := h.authService.Logout(user.ID); err != nil {
			zap.S().Warnf("logout %s: %v", user.Username, err)
		}
	}
	middleware.ClearSessionCookie(c)
	return redirect(c, middleware.LoginPath, LevelInfo, MsgLoggedOut)
}

// Dashboard shows the signed-in user
// GET /dashboard/
func (h *AuthHandler) Dashboard(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return render(c, "dashboard", fiber.Map{
		"user": user.ToResponse(),
	})
}
