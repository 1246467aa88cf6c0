package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"pos-backoffice/internal/form"
	"pos-backoffice/internal/middleware"
	"pos-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const flashCookie = "flash"

// Message levels
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Response is returned for every page, form and redirect. Page names the
// screen a presentation layer should draw.
type Response struct {
	Status   string       `json:"status"`
	Page     string       `json:"page,omitempty"`
	Messages []Message    `json:"messages,omitempty"`
	Errors   *form.Errors `json:"errors,omitempty"`
	Data     interface{}  `json:"data,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
}

// pushFlash queues a message for the next rendered page
func pushFlash(c *fiber.Ctx, msg Message) {
	msgs := readFlash(c)
	msgs = append(msgs, msg)
	raw, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func readFlash(c *fiber.Ctx) []Message {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(decoded, &msgs); err != nil {
		return nil
	}
	return msgs
}

// popFlash returns queued messages and clears them
func popFlash(c *fiber.Ctx) []Message {
	msgs := readFlash(c)
	if msgs != nil {
		c.Cookie(&fiber.Cookie{
			Name:    flashCookie,
			Value:   "",
			Path:    "/",
			Expires: time.Unix(0, 0),
			MaxAge:  -1,
		})
	}
	return msgs
}

// render answers with a page, draining any flash messages
func render(c *fiber.Ctx, page string, data interface{}) error {
	return c.JSON(Response{
		Status:   "ok",
		Page:     page,
		Messages: popFlash(c),
		Data:     data,
	})
}

// renderInvalid re-renders a form with its errors
func renderInvalid(c *fiber.Ctx, page string, errs *form.Errors, data interface{}) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(Response{
		Status:   "invalid",
		Page:     page,
		Messages: popFlash(c),
		Errors:   errs,
		Data:     data,
	})
}

// redirect answers 303 to location and queues msg for that page
func redirect(c *fiber.Ctx, location, level, text string) error {
	var msgs []Message
	if text != "" {
		msg := Message{Level: level, Text: text}
		pushFlash(c, msg)
		msgs = append(msgs, msg)
	}
	c.Location(location)
	return c.Status(fiber.StatusSeeOther).JSON(Response{
		Status:   "redirect",
		Messages: msgs,
		Redirect: location,
	})
}

// formErrors extracts field errors from a service error
func formErrors(err error) (*form.Errors, bool) {
	var errs *form.Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, service.ErrUserNotFound) ||
		errors.Is(err, service.ErrCategoryNotFound) ||
		errors.Is(err, service.ErrProductNotFound) ||
		errors.Is(err, service.ErrStockNotFound) ||
		errors.Is(err, service.ErrSaleNotFound)
}

// ErrorHandler is the Fiber error handler: missing records are a plain 404,
// anything unexpected is logged and answered 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	text := "Internal server error"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		text = fe.Message
	case isNotFound(err):
		code = fiber.StatusNotFound
		text = "Not found"
	}

	if code >= fiber.StatusInternalServerError {
		zap.S().Errorw("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"user", actorLabel(c),
			"error", err,
		)
	}

	return c.Status(code).JSON(Response{
		Status:   "error",
		Messages: []Message{{Level: LevelError, Text: text}},
	})
}

func actorLabel(c *fiber.Ctx) string {
	if u := middleware.CurrentUser(c); u != nil {
		return u.Username
	}
	return "anonymous"
}
