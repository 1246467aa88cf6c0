package middleware

import (
	"net/url"
	"strings"
	"time"

	"pos-backoffice/internal/model"
	"pos-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	SessionCookie = "session"

	LoginPath     = "/login/"
	DashboardPath = "/dashboard/"

	identityKey = "identity"
)

// Identity is the resolved requester for one request. A zero Identity is an
// anonymous visitor.
type Identity struct {
	User  *model.User
	Token string
}

func (i Identity) Authenticated() bool {
	return i.User != nil
}

// IsAdmin holds only for an authenticated user whose role is ADMIN
func (i Identity) IsAdmin() bool {
	return i.User != nil && i.User.IsAdmin()
}

// CurrentIdentity returns the identity stored by LoadSession
func CurrentIdentity(c *fiber.Ctx) Identity {
	if id, ok := c.Locals(identityKey).(Identity); ok {
		return id
	}
	return Identity{}
}

// CurrentUser returns the authenticated user or nil
func CurrentUser(c *fiber.Ctx) *model.User {
	return CurrentIdentity(c).User
}

func sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}
	// Extract token from "Bearer <token>"
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// LoadSession resolves the session token, if any, into an Identity. Invalid
// or stale tokens leave the request anonymous and clear the cookie.
func LoadSession(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return c.Next()
		}

		user, err := authService.ResolveSession(token)
		if err != nil {
			zap.S().Debugf("session rejected for %s: %v", c.IP(), err)
			ClearSessionCookie(c)
			return c.Next()
		}

		c.Locals(identityKey, Identity{User: user, Token: token})
		return c.Next()
	}
}

// RequireAuth sends anonymous visitors to the login page, keeping the
// requested path in ?next=
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentIdentity(c).Authenticated() {
			return c.Next()
		}
		target := LoginPath + "?next=" + url.QueryEscape(c.OriginalURL())
		return c.Redirect(target, fiber.StatusSeeOther)
	}
}

// RequireAdmin redirects everyone but administrators to the dashboard
// without running the handler.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := CurrentIdentity(c)
		if !id.Authenticated() {
			return RequireAuth()(c)
		}
		if !id.IsAdmin() {
			return c.Redirect(DashboardPath, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// RedirectIfAuthenticated keeps signed-in users off the login page
func RedirectIfAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentIdentity(c).Authenticated() {
			return c.Redirect(DashboardPath, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// CookieOptions controls how the session cookie is written
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

func SetSessionCookie(c *fiber.Ctx, token string, opts CookieOptions) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(opts.TTL),
		HTTPOnly: true,
		Secure:   opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
